package service

import (
	"context"
	"time"

	"github.com/saturnino-fabrica-de-software/talentspark/internal/domain"
	"github.com/saturnino-fabrica-de-software/talentspark/internal/integrity"
	"github.com/saturnino-fabrica-de-software/talentspark/internal/webhook"
)

type SubmissionRepositoryInterface interface {
	Create(ctx context.Context, s *domain.Submission) error
	GetByID(ctx context.Context, id string) (*domain.Submission, error)
	List(ctx context.Context, filter domain.SubmissionFilter) ([]domain.Submission, error)
	RecordDecision(ctx context.Context, id string, decision domain.ReviewDecision, reviewedAt time.Time) (*domain.Submission, error)
	CountByStatus(ctx context.Context) (map[domain.SubmissionStatus]int, error)
	CountByRisk(ctx context.Context, level domain.RiskLevel) (int, error)
}

type LeaderboardRepositoryInterface interface {
	Add(ctx context.Context, entry *domain.LeaderboardEntry) error
	List(ctx context.Context, filter domain.LeaderboardFilter) ([]domain.LeaderboardEntry, error)
}

// Evaluator runs the integrity engine over one bundle and video.
type Evaluator interface {
	Evaluate(ctx context.Context, b *domain.IntegrityBundle, video []byte, mimeType string) integrity.Outcome
}

// ReviewNotifier queues reviewer notifications; implementations must not block.
type ReviewNotifier interface {
	Enqueue(event webhook.EventPayload) bool
}
