package integrity

import (
	"context"

	"github.com/saturnino-fabrica-de-software/talentspark/internal/domain"
	"github.com/saturnino-fabrica-de-software/talentspark/internal/provider"
)

// Outcome is the frozen verification and classification of one bundle.
type Outcome struct {
	Report
	Assessment domain.Assessment `json:"assessment"`
}

// Engine verifies a bundle and classifies the result in one call.
type Engine struct {
	verifier   *Verifier
	aggregator *Aggregator
}

func NewEngine(settings Settings, probe provider.VideoProbe, opts ...VerifierOption) (*Engine, error) {
	v, err := NewVerifier(settings, probe, opts...)
	if err != nil {
		return nil, err
	}
	return &Engine{verifier: v, aggregator: NewAggregator(settings)}, nil
}

func (e *Engine) Evaluate(ctx context.Context, b *domain.IntegrityBundle, video []byte, mimeType string) Outcome {
	report := e.verifier.Verify(ctx, b, video, mimeType)
	return Outcome{
		Report:     report,
		Assessment: e.aggregator.Assess(report.Result, b),
	}
}
