// Package integrity implements the signal checks, the risk aggregator and
// the canonical content hash used to decide whether an assessment bundle
// is authentic.
package integrity

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/saturnino-fabrica-de-software/talentspark/internal/domain"
	"github.com/saturnino-fabrica-de-software/talentspark/internal/provider"
)

// Clock returns the server wall clock used by the device plausibility check.
type Clock func() time.Time

// Report is the outcome of one verification run.
type Report struct {
	Result domain.VerificationResult `json:"verification_result"`
	Checks []domain.CheckResult      `json:"checks"`
}

// Verifier runs the six signal checks. It holds no per-request state and
// is safe for concurrent use.
type Verifier struct {
	settings Settings
	probe    provider.VideoProbe
	detector provider.FaceDetector
	now      Clock
	logger   *slog.Logger
}

type VerifierOption func(*Verifier)

// WithFaceDetector re-detects faces in snapshot images.
func WithFaceDetector(d provider.FaceDetector) VerifierOption {
	return func(v *Verifier) {
		v.detector = d
	}
}

func WithClock(c Clock) VerifierOption {
	return func(v *Verifier) {
		if c != nil {
			v.now = c
		}
	}
}

func WithLogger(l *slog.Logger) VerifierOption {
	return func(v *Verifier) {
		if l != nil {
			v.logger = l
		}
	}
}

// NewVerifier creates a Verifier. A nil probe makes the video check fail.
func NewVerifier(settings Settings, probe provider.VideoProbe, opts ...VerifierOption) (*Verifier, error) {
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid integrity settings: %w", err)
	}

	v := &Verifier{
		settings: settings,
		probe:    probe,
		now:      time.Now,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(v)
	}
	v.logger = v.logger.With("component", "integrity")
	return v, nil
}

// Verify runs every check concurrently and waits for all of them. Check
// failures, timeouts and panics are recorded as failed checks; Verify
// itself never fails.
func (v *Verifier) Verify(ctx context.Context, b *domain.IntegrityBundle, video []byte, mimeType string) Report {
	in := input{bundle: b, video: video, mimeType: mimeType}

	checks := []struct {
		name string
		fn   checkFunc
	}{
		{domain.CheckContentHash, v.checkContentHash},
		{domain.CheckTimestamps, v.checkTimestamps},
		{domain.CheckFaceContinuity, v.checkFaceContinuity},
		{domain.CheckVideoMetrics, v.checkVideoMetrics},
		{domain.CheckDeviceInfo, v.checkDeviceInfo},
		{domain.CheckSessionIntegrity, v.checkSessionIntegrity},
	}

	results := make([]domain.CheckResult, len(checks))
	g, gctx := errgroup.WithContext(ctx)
	for i, c := range checks {
		g.Go(func() error {
			results[i] = v.run(gctx, c.name, c.fn, in)
			return nil
		})
	}
	_ = g.Wait()

	var report Report
	report.Checks = results
	for _, r := range results {
		if !r.Passed {
			v.logger.WarnContext(ctx, "integrity check failed",
				slog.String("check", r.Name),
				slog.String("session_id", b.SessionID),
				slog.String("reason", r.Reason),
			)
		}
		switch r.Name {
		case domain.CheckContentHash:
			report.Result.ContentHashValid = r.Passed
		case domain.CheckTimestamps:
			report.Result.TimestampConsistent = r.Passed
		case domain.CheckFaceContinuity:
			report.Result.FaceContinuityValid = r.Passed
		case domain.CheckVideoMetrics:
			report.Result.VideoMetricsValid = r.Passed
		case domain.CheckDeviceInfo:
			report.Result.DeviceInfoConsistent = r.Passed
		case domain.CheckSessionIntegrity:
			report.Result.SessionIntegrityValid = r.Passed
		}
	}
	return report
}

// run executes fn under the per-check timeout and converts panics into failures.
func (v *Verifier) run(ctx context.Context, name string, fn checkFunc, in input) domain.CheckResult {
	ctx, cancel := context.WithTimeout(ctx, v.settings.CheckTimeout)
	defer cancel()

	done := make(chan domain.CheckResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- fail(name, "panic: %v", r)
			}
		}()
		done <- fn(ctx, in)
	}()

	select {
	case res := <-done:
		return res
	case <-ctx.Done():
		return fail(name, "aborted: %v", ctx.Err())
	}
}
