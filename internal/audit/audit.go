package audit

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventSubmissionVerified EventType = "SUBMISSION_VERIFIED"
	EventReviewDecision     EventType = "REVIEW_DECISION"
)

// Event records an integrity verdict or a reviewer action on a submission.
type Event struct {
	ID           uuid.UUID         `json:"id"`
	Timestamp    time.Time         `json:"timestamp"`
	EventType    EventType         `json:"event_type"`
	SubmissionID string            `json:"submission_id"`
	SessionID    string            `json:"session_id,omitempty"`
	RiskScore    string            `json:"risk_score,omitempty"`
	Decision     string            `json:"decision,omitempty"`
	Success      bool              `json:"success"`
	Error        string            `json:"error,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty"`
}

type Logger interface {
	Log(ctx context.Context, event Event) error
}

// SlogLogger writes audit events as structured records on the process
// logger. Failed actions are written at warn.
type SlogLogger struct {
	logger *slog.Logger
	now    func() time.Time
}

func NewSlogLogger(logger *slog.Logger) *SlogLogger {
	return &SlogLogger{
		logger: logger.With("component", "audit"),
		now:    time.Now,
	}
}

func (l *SlogLogger) Log(ctx context.Context, event Event) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = l.now().UTC()
	}

	level := slog.LevelInfo
	if !event.Success {
		level = slog.LevelWarn
	}

	l.logger.LogAttrs(ctx, level, "audit_event",
		slog.String("event_id", event.ID.String()),
		slog.String("event_type", string(event.EventType)),
		slog.String("submission_id", event.SubmissionID),
		slog.Bool("success", event.Success),
		slog.Any("event", eventAttrs(event)),
	)

	return nil
}

func eventAttrs(e Event) slog.Value {
	attrs := []slog.Attr{slog.Time("timestamp", e.Timestamp)}
	for _, f := range []struct{ key, value string }{
		{"session_id", e.SessionID},
		{"risk_score", e.RiskScore},
		{"decision", e.Decision},
		{"error", e.Error},
	} {
		if f.value != "" {
			attrs = append(attrs, slog.String(f.key, f.value))
		}
	}

	if len(e.Metadata) > 0 {
		keys := make([]string, 0, len(e.Metadata))
		for k := range e.Metadata {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		meta := make([]slog.Attr, 0, len(keys))
		for _, k := range keys {
			meta = append(meta, slog.String(k, e.Metadata[k]))
		}
		attrs = append(attrs, slog.Attr{Key: "metadata", Value: slog.GroupValue(meta...)})
	}

	return slog.GroupValue(attrs...)
}

// NoOpLogger discards events.
type NoOpLogger struct{}

func (l *NoOpLogger) Log(_ context.Context, _ Event) error {
	return nil
}
