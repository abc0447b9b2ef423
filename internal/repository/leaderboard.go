package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/saturnino-fabrica-de-software/talentspark/internal/domain"
)

const defaultLeaderboardLimit = 100

type LeaderboardRepository struct {
	pool PgxPool
}

var _ LeaderboardRepositoryInterface = (*LeaderboardRepository)(nil)

func NewLeaderboardRepository(pool PgxPool) *LeaderboardRepository {
	return &LeaderboardRepository{pool: pool}
}

// Add records an approved submission. A second entry for the same
// submission is ignored.
func (r *LeaderboardRepository) Add(ctx context.Context, entry *domain.LeaderboardEntry) error {
	query := `
		INSERT INTO leaderboard_entries (id, submission_id, user_id, age_band, gender, total_reps, form_score, submission_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (submission_id) DO NOTHING
	`

	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.SubmissionDate.IsZero() {
		entry.SubmissionDate = time.Now().UTC()
	}

	_, err := r.pool.Exec(ctx, query,
		entry.ID,
		entry.SubmissionID,
		entry.UserID,
		entry.AgeBand,
		string(entry.Gender),
		entry.TotalReps,
		entry.FormScore,
		entry.SubmissionDate,
	)
	if err != nil {
		return fmt.Errorf("add leaderboard entry: %w", err)
	}

	return nil
}

// List returns the top entries of a cohort ranked by reps, then form. Rank
// is filled in by position.
func (r *LeaderboardRepository) List(ctx context.Context, filter domain.LeaderboardFilter) ([]domain.LeaderboardEntry, error) {
	var (
		conditions []string
		args       []any
	)
	if filter.AgeBand != "" {
		args = append(args, filter.AgeBand)
		conditions = append(conditions, fmt.Sprintf("age_band = $%d", len(args)))
	}
	if filter.Gender != "" {
		args = append(args, string(filter.Gender))
		conditions = append(conditions, fmt.Sprintf("gender = $%d", len(args)))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultLeaderboardLimit
	}
	args = append(args, limit)

	var where string
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf(`
		SELECT id, submission_id, user_id, age_band, gender, total_reps, form_score, submission_date
		FROM leaderboard_entries
		%s
		ORDER BY total_reps DESC, form_score DESC, submission_date ASC
		LIMIT $%d
	`, where, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list leaderboard: %w", err)
	}
	defer rows.Close()

	entries := make([]domain.LeaderboardEntry, 0)
	for rows.Next() {
		var (
			e      domain.LeaderboardEntry
			gender string
		)
		if err := rows.Scan(
			&e.ID,
			&e.SubmissionID,
			&e.UserID,
			&e.AgeBand,
			&gender,
			&e.TotalReps,
			&e.FormScore,
			&e.SubmissionDate,
		); err != nil {
			return nil, fmt.Errorf("scan leaderboard entry: %w", err)
		}
		e.Gender = domain.Gender(gender)
		e.Rank = len(entries) + 1
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate leaderboard: %w", err)
	}

	return entries, nil
}
