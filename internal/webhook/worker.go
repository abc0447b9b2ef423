package webhook

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Worker delivers queued events in the background, retrying failures with
// exponential backoff. Delivery is best effort: a full queue drops the
// event and exhausted retries are only logged.
type Worker struct {
	notifier    *Notifier
	queue       chan EventPayload
	maxAttempts int
	baseDelay   time.Duration
	logger      *slog.Logger
	stopCh      chan struct{}
	stopOnce    sync.Once
}

func NewWorker(notifier *Notifier, cfg Config, logger *slog.Logger) *Worker {
	queueSize := cfg.QueueSize
	if queueSize <= 0 {
		queueSize = 100
	}
	maxAttempts := cfg.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 1
	}
	return &Worker{
		notifier:    notifier,
		queue:       make(chan EventPayload, queueSize),
		maxAttempts: maxAttempts,
		baseDelay:   cfg.BaseDelay,
		logger:      logger.With("component", "webhook"),
		stopCh:      make(chan struct{}),
	}
}

// Enqueue schedules event for delivery without blocking. It reports false
// when notifications are disabled or the queue is full.
func (w *Worker) Enqueue(event EventPayload) bool {
	if !w.notifier.Enabled() {
		return false
	}
	select {
	case w.queue <- event:
		return true
	default:
		w.logger.Warn("webhook queue full, dropping event", "event_type", event.Type)
		return false
	}
}

func (w *Worker) Run(ctx context.Context) {
	w.logger.Info("webhook worker started", "enabled", w.notifier.Enabled())

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("webhook worker stopped")
			return
		case <-w.stopCh:
			w.logger.Info("webhook worker stopped")
			return
		case event := <-w.queue:
			w.deliver(ctx, event)
		}
	}
}

func (w *Worker) Stop() {
	w.stopOnce.Do(func() { close(w.stopCh) })
}

func (w *Worker) deliver(ctx context.Context, event EventPayload) {
	for attempt := 0; ; attempt++ {
		err := w.notifier.Send(ctx, event)
		if err == nil {
			w.logger.Info("webhook delivered", "event_type", event.Type, "attempts", attempt+1)
			return
		}

		if attempt+1 >= w.maxAttempts {
			w.logger.Warn("webhook delivery failed",
				"event_type", event.Type,
				"attempts", attempt+1,
				"error", err,
			)
			return
		}

		delay := w.baseDelay << attempt
		w.logger.Info("webhook scheduled for retry",
			"event_type", event.Type,
			"attempts", attempt+1,
			"delay", delay,
			"error", err,
		)

		timer := time.NewTimer(delay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return
		case <-w.stopCh:
			timer.Stop()
			return
		}
	}
}
