package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/saturnino-fabrica-de-software/talentspark/internal/audit"
	"github.com/saturnino-fabrica-de-software/talentspark/internal/benchmark"
	"github.com/saturnino-fabrica-de-software/talentspark/internal/domain"
)

type ReviewService struct {
	submissions SubmissionRepositoryInterface
	leaderboard LeaderboardRepositoryInterface
	audit       audit.Logger
	logger      *slog.Logger
	now         func() time.Time
}

func NewReviewService(submissions SubmissionRepositoryInterface, leaderboard LeaderboardRepositoryInterface, logger *slog.Logger) *ReviewService {
	return &ReviewService{
		submissions: submissions,
		leaderboard: leaderboard,
		audit:       &audit.NoOpLogger{},
		logger:      logger.With("component", "review_service"),
		now:         time.Now,
	}
}

func (s *ReviewService) WithAudit(l audit.Logger) *ReviewService {
	s.audit = l
	return s
}

func (s *ReviewService) WithClock(now func() time.Time) *ReviewService {
	s.now = now
	return s
}

// Decide records a reviewer decision. Approval publishes an anonymised
// leaderboard entry; approved and rejected submissions accept no further
// decisions.
func (s *ReviewService) Decide(ctx context.Context, id string, decision domain.ReviewDecision) (*domain.Submission, error) {
	if err := decision.Validate(); err != nil {
		return nil, err
	}

	sub, err := s.submissions.RecordDecision(ctx, id, decision, s.now().UTC())
	if err != nil {
		_ = s.audit.Log(ctx, audit.Event{
			EventType:    audit.EventReviewDecision,
			SubmissionID: id,
			Decision:     string(decision.Decision),
			Success:      false,
			Error:        err.Error(),
		})
		return nil, err
	}

	if sub.Status == domain.StatusApproved {
		entry := &domain.LeaderboardEntry{
			SubmissionID:   sub.ID,
			UserID:         domain.AnonymousUserID(sub.ID),
			AgeBand:        domain.AgeBand(sub.ProfileData.Age),
			Gender:         sub.ProfileData.Gender,
			TotalReps:      sub.AssessmentData.TotalReps,
			FormScore:      sub.AssessmentData.FormScore,
			SubmissionDate: sub.CreatedAt,
		}
		// The decision is already final, so a failed insert is logged rather
		// than surfaced as a failed review.
		if err := s.leaderboard.Add(ctx, entry); err != nil {
			s.logger.ErrorContext(ctx, "add leaderboard entry",
				slog.String("submission_id", sub.ID),
				slog.String("error", err.Error()),
			)
		}
	}

	_ = s.audit.Log(ctx, audit.Event{
		EventType:    audit.EventReviewDecision,
		SubmissionID: sub.ID,
		RiskScore:    string(sub.RiskScore),
		Decision:     string(sub.Status),
		Success:      true,
	})

	s.logger.InfoContext(ctx, "review decision recorded",
		slog.String("submission_id", sub.ID),
		slog.String("decision", string(sub.Status)),
	)

	return sub, nil
}

// Leaderboard returns a cohort ranked 1..n by reps, then form score.
func (s *ReviewService) Leaderboard(ctx context.Context, filter domain.LeaderboardFilter) ([]domain.LeaderboardEntry, error) {
	if filter.AgeBand != "" && !domain.ValidAgeBand(filter.AgeBand) {
		return nil, domain.ErrValidationFailed.WithError(fmt.Errorf("unknown age band %q", filter.AgeBand))
	}
	if filter.Gender != "" {
		g, err := domain.ParseGender(string(filter.Gender))
		if err != nil {
			return nil, err
		}
		filter.Gender = g
	}

	entries, err := s.leaderboard.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries, nil
}

// Stats summarises the review queue. Flagged counts red-risk submissions.
func (s *ReviewService) Stats(ctx context.Context) (*domain.AdminStats, error) {
	byStatus, err := s.submissions.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	red, err := s.submissions.CountByRisk(ctx, domain.RiskRed)
	if err != nil {
		return nil, err
	}

	stats := &domain.AdminStats{
		PendingReviews:     byStatus[domain.StatusPending],
		Approved:           byStatus[domain.StatusApproved],
		Rejected:           byStatus[domain.StatusRejected],
		FlaggedSubmissions: red,
	}
	stats.TotalAssessments = stats.PendingReviews + stats.Approved + stats.Rejected
	if stats.TotalAssessments > 0 {
		rate := float64(stats.Approved) / float64(stats.TotalAssessments) * 100
		stats.ApprovalRate = benchmark.RoundTenth(rate)
	}
	return stats, nil
}
