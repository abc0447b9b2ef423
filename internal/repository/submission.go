package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/saturnino-fabrica-de-software/talentspark/internal/domain"
)

const submissionColumns = `id, session_id, profile_data, assessment_data, integrity_bundle, video_url,
		risk_score, risk_points, risk_flags, status, verification_result, check_details,
		benchmark, composite_score, created_at, reviewed_at, reviewer_notes`

const defaultListLimit = 50

type SubmissionRepository struct {
	pool PgxPool
}

var _ SubmissionRepositoryInterface = (*SubmissionRepository)(nil)

func NewSubmissionRepository(pool PgxPool) *SubmissionRepository {
	return &SubmissionRepository{pool: pool}
}

func (r *SubmissionRepository) Create(ctx context.Context, s *domain.Submission) error {
	query := `
		INSERT INTO submissions (` + submissionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, NULL, NULL)
	`

	profile, err := jsonb("profile_data", s.ProfileData)
	if err != nil {
		return err
	}
	assessment, err := jsonb("assessment_data", s.AssessmentData)
	if err != nil {
		return err
	}
	bundle, err := jsonb("integrity_bundle", s.IntegrityBundle)
	if err != nil {
		return err
	}
	if s.RiskFlags == nil {
		s.RiskFlags = []string{}
	}
	flags, err := jsonb("risk_flags", s.RiskFlags)
	if err != nil {
		return err
	}
	verification, err := jsonb("verification_result", s.VerificationResult)
	if err != nil {
		return err
	}
	if s.CheckDetails == nil {
		s.CheckDetails = []domain.CheckResult{}
	}
	checks, err := jsonb("check_details", s.CheckDetails)
	if err != nil {
		return err
	}
	var benchmark []byte
	if s.Benchmark != nil {
		if benchmark, err = jsonb("benchmark", s.Benchmark); err != nil {
			return err
		}
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}

	_, err = r.pool.Exec(ctx, query,
		s.ID,
		s.SessionID,
		profile,
		assessment,
		bundle,
		s.VideoURL,
		string(s.RiskScore),
		s.RiskPoints,
		flags,
		string(s.Status),
		verification,
		checks,
		benchmark,
		s.CompositeScore,
		s.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrSubmissionExists.WithError(err)
		}
		return fmt.Errorf("create submission: %w", err)
	}

	return nil
}

func (r *SubmissionRepository) GetByID(ctx context.Context, id string) (*domain.Submission, error) {
	query := `
		SELECT ` + submissionColumns + `
		FROM submissions
		WHERE id = $1
	`

	s, err := scanSubmission(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrSubmissionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get submission by id: %w", err)
	}

	return s, nil
}

// List returns submissions newest first.
func (r *SubmissionRepository) List(ctx context.Context, filter domain.SubmissionFilter) ([]domain.Submission, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	offset := max(filter.Offset, 0)

	var (
		rows pgx.Rows
		err  error
	)
	if filter.Status == "" {
		rows, err = r.pool.Query(ctx, `
			SELECT `+submissionColumns+`
			FROM submissions
			ORDER BY created_at DESC
			LIMIT $1 OFFSET $2
		`, limit, offset)
	} else {
		rows, err = r.pool.Query(ctx, `
			SELECT `+submissionColumns+`
			FROM submissions
			WHERE status = $1
			ORDER BY created_at DESC
			LIMIT $2 OFFSET $3
		`, string(filter.Status), limit, offset)
	}
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	defer rows.Close()

	submissions := make([]domain.Submission, 0)
	for rows.Next() {
		s, err := scanSubmission(rows)
		if err != nil {
			return nil, fmt.Errorf("scan submission: %w", err)
		}
		submissions = append(submissions, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate submissions: %w", err)
	}

	return submissions, nil
}

// RecordDecision applies a review decision unless the submission already
// holds a final one. The status guard lives in the UPDATE so concurrent
// reviewers cannot both win.
func (r *SubmissionRepository) RecordDecision(ctx context.Context, id string, decision domain.ReviewDecision, reviewedAt time.Time) (*domain.Submission, error) {
	query := `
		UPDATE submissions
		SET status = $2, reviewed_at = $3, reviewer_notes = $4
		WHERE id = $1 AND status IN ('pending', 'flagged')
		RETURNING ` + submissionColumns

	s, err := scanSubmission(r.pool.QueryRow(ctx, query, id, string(decision.Decision), reviewedAt, decision.Notes))
	if err == nil {
		return s, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("record decision: %w", err)
	}

	// Distinguish a missing submission from one that was already decided
	var status string
	err = r.pool.QueryRow(ctx, `SELECT status FROM submissions WHERE id = $1`, id).Scan(&status)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrSubmissionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("record decision: %w", err)
	}
	return nil, domain.ErrAlreadyReviewed
}

func (r *SubmissionRepository) CountByStatus(ctx context.Context) (map[domain.SubmissionStatus]int, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT status, COUNT(*)
		FROM submissions
		GROUP BY status
	`)
	if err != nil {
		return nil, fmt.Errorf("count submissions by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[domain.SubmissionStatus]int)
	for rows.Next() {
		var (
			status string
			count  int64
		)
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scan status count: %w", err)
		}
		counts[domain.SubmissionStatus(status)] = int(count)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate status counts: %w", err)
	}

	return counts, nil
}

func (r *SubmissionRepository) CountByRisk(ctx context.Context, level domain.RiskLevel) (int, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM submissions
		WHERE risk_score = $1
	`, string(level)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count submissions by risk: %w", err)
	}
	return int(count), nil
}

func scanSubmission(row pgx.Row) (*domain.Submission, error) {
	var (
		s            domain.Submission
		riskScore    string
		status       string
		profile      []byte
		assessment   []byte
		bundle       []byte
		flags        []byte
		verification []byte
		checks       []byte
		benchmark    []byte
	)

	err := row.Scan(
		&s.ID,
		&s.SessionID,
		&profile,
		&assessment,
		&bundle,
		&s.VideoURL,
		&riskScore,
		&s.RiskPoints,
		&flags,
		&status,
		&verification,
		&checks,
		&benchmark,
		&s.CompositeScore,
		&s.CreatedAt,
		&s.ReviewedAt,
		&s.ReviewerNotes,
	)
	if err != nil {
		return nil, err
	}

	s.RiskScore = domain.RiskLevel(riskScore)
	s.Status = domain.SubmissionStatus(status)

	if err := fromJSONB("profile_data", profile, &s.ProfileData); err != nil {
		return nil, err
	}
	if err := fromJSONB("assessment_data", assessment, &s.AssessmentData); err != nil {
		return nil, err
	}
	if len(bundle) > 0 {
		s.IntegrityBundle = &domain.IntegrityBundle{}
		if err := fromJSONB("integrity_bundle", bundle, s.IntegrityBundle); err != nil {
			return nil, err
		}
	}
	s.RiskFlags = []string{}
	if err := fromJSONB("risk_flags", flags, &s.RiskFlags); err != nil {
		return nil, err
	}
	if err := fromJSONB("verification_result", verification, &s.VerificationResult); err != nil {
		return nil, err
	}
	if err := fromJSONB("check_details", checks, &s.CheckDetails); err != nil {
		return nil, err
	}
	if len(benchmark) > 0 {
		s.Benchmark = &domain.BenchmarkResult{}
		if err := fromJSONB("benchmark", benchmark, s.Benchmark); err != nil {
			return nil, err
		}
	}

	return &s, nil
}
