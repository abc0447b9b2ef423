package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

type Config struct {
	URL         string
	Secret      string
	Timeout     time.Duration
	MaxAttempts int
	BaseDelay   time.Duration
	QueueSize   int
}

func DefaultConfig(url, secret string) Config {
	return Config{
		URL:         url,
		Secret:      secret,
		Timeout:     10 * time.Second,
		MaxAttempts: 5,
		BaseDelay:   time.Second,
		QueueSize:   100,
	}
}

// Notifier posts signed events to the configured review endpoint. A
// Notifier without a URL is disabled.
type Notifier struct {
	url    string
	secret string
	client *http.Client
}

func NewNotifier(cfg Config) *Notifier {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Notifier{
		url:    cfg.URL,
		secret: cfg.Secret,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

func (n *Notifier) Enabled() bool {
	return n != nil && n.url != ""
}

// Send delivers one event. Any transport error or non-2xx response is
// returned so the caller can retry.
func (n *Notifier) Send(ctx context.Context, event EventPayload) error {
	if !n.Enabled() {
		return nil
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(SignatureHeader, Sign(n.secret, payload))
	req.Header.Set(EventHeader, event.Type)
	req.Header.Set("User-Agent", "TalentSpark-Webhook/1.0")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("post webhook: HTTP %d", resp.StatusCode)
	}

	return nil
}
