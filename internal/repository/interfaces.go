package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/saturnino-fabrica-de-software/talentspark/internal/domain"
)

// PgxPool is the subset of *pgxpool.Pool the repositories use; pgxmock
// satisfies it in tests.
type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// SubmissionRepositoryInterface defines operations for submission data access
type SubmissionRepositoryInterface interface {
	Create(ctx context.Context, s *domain.Submission) error
	GetByID(ctx context.Context, id string) (*domain.Submission, error)
	List(ctx context.Context, filter domain.SubmissionFilter) ([]domain.Submission, error)
	RecordDecision(ctx context.Context, id string, decision domain.ReviewDecision, reviewedAt time.Time) (*domain.Submission, error)
	CountByStatus(ctx context.Context) (map[domain.SubmissionStatus]int, error)
	CountByRisk(ctx context.Context, level domain.RiskLevel) (int, error)
}

// LeaderboardRepositoryInterface defines operations for leaderboard data access
type LeaderboardRepositoryInterface interface {
	Add(ctx context.Context, entry *domain.LeaderboardEntry) error
	List(ctx context.Context, filter domain.LeaderboardFilter) ([]domain.LeaderboardEntry, error)
}
