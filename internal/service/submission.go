package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/saturnino-fabrica-de-software/talentspark/internal/audit"
	"github.com/saturnino-fabrica-de-software/talentspark/internal/benchmark"
	"github.com/saturnino-fabrica-de-software/talentspark/internal/domain"
	"github.com/saturnino-fabrica-de-software/talentspark/internal/storage"
	"github.com/saturnino-fabrica-de-software/talentspark/internal/webhook"
)

// UploadLimits bounds what a submission video may be.
type UploadLimits struct {
	MaxVideoSize int64
	TypeAllowed  func(contentType string) bool
}

type SubmissionService struct {
	repo       SubmissionRepositoryInterface
	engine     Evaluator
	store      storage.VideoStore
	calculator *benchmark.Calculator
	limits     UploadLimits
	audit      audit.Logger
	notifier   ReviewNotifier
	logger     *slog.Logger
	now        func() time.Time
}

func NewSubmissionService(
	repo SubmissionRepositoryInterface,
	engine Evaluator,
	store storage.VideoStore,
	calculator *benchmark.Calculator,
	limits UploadLimits,
	logger *slog.Logger,
) *SubmissionService {
	if calculator == nil {
		calculator = benchmark.NewCalculator(nil)
	}
	return &SubmissionService{
		repo:       repo,
		engine:     engine,
		store:      store,
		calculator: calculator,
		limits:     limits,
		audit:      &audit.NoOpLogger{},
		logger:     logger.With("component", "submission_service"),
		now:        time.Now,
	}
}

func (s *SubmissionService) WithAudit(l audit.Logger) *SubmissionService {
	s.audit = l
	return s
}

// WithNotifier enables reviewer notifications for red submissions.
func (s *SubmissionService) WithNotifier(n ReviewNotifier) *SubmissionService {
	s.notifier = n
	return s
}

func (s *SubmissionService) WithClock(now func() time.Time) *SubmissionService {
	s.now = now
	return s
}

// Create verifies a bundle against its video, stores the video and
// persists the pending submission with its frozen verdict.
func (s *SubmissionService) Create(ctx context.Context, b *domain.IntegrityBundle, video []byte, mimeType string) (*domain.Submission, error) {
	if b == nil {
		return nil, domain.ErrInvalidBundle
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	if err := s.checkVideo(video, mimeType); err != nil {
		return nil, err
	}

	now := s.now()
	id := domain.NewSubmissionID(now, b.SessionID)

	outcome := s.engine.Evaluate(ctx, b, video, mimeType)

	url, err := s.store.Upload(ctx, storage.VideoKey(id, mimeType), video, mimeType)
	if errors.Is(err, storage.ErrObjectExists) {
		return nil, domain.ErrSubmissionExists.WithError(err)
	}
	if err != nil {
		return nil, fmt.Errorf("submission %s: upload video: %w", id, err)
	}

	bench := s.calculator.CompareProfile(b.AssessmentData.TotalReps, b.ProfileData)

	sub := &domain.Submission{
		ID:                 id,
		SessionID:          b.SessionID,
		ProfileData:        b.ProfileData,
		AssessmentData:     b.AssessmentData,
		VideoURL:           url,
		RiskScore:          outcome.Assessment.Level,
		RiskPoints:         outcome.Assessment.Points,
		RiskFlags:          outcome.Assessment.Flags,
		Status:             domain.StatusPending,
		VerificationResult: outcome.Result,
		CheckDetails:       outcome.Checks,
		Benchmark:          &bench,
		CompositeScore:     benchmark.Composite(b.AssessmentData),
		IntegrityBundle:    b,
		CreatedAt:          now.UTC(),
	}

	if err := s.repo.Create(ctx, sub); err != nil {
		return nil, err
	}

	_ = s.audit.Log(ctx, audit.Event{
		EventType:    audit.EventSubmissionVerified,
		SubmissionID: sub.ID,
		SessionID:    sub.SessionID,
		RiskScore:    string(sub.RiskScore),
		Success:      true,
		Metadata: map[string]string{
			"risk_points": strconv.Itoa(sub.RiskPoints),
			"risk_flags":  strings.Join(sub.RiskFlags, "; "),
		},
	})

	s.logger.InfoContext(ctx, "submission created",
		slog.String("submission_id", sub.ID),
		slog.String("risk_score", string(sub.RiskScore)),
		slog.Int("risk_points", sub.RiskPoints),
	)

	if sub.RiskScore == domain.RiskRed && s.notifier != nil {
		if !s.notifier.Enqueue(webhook.NewReviewRequired(sub, now)) {
			s.logger.WarnContext(ctx, "review notification not queued", slog.String("submission_id", sub.ID))
		}
	}

	return sub, nil
}

func (s *SubmissionService) checkVideo(video []byte, mimeType string) error {
	if len(video) == 0 {
		return domain.ErrInvalidVideo
	}
	if s.limits.MaxVideoSize > 0 && int64(len(video)) > s.limits.MaxVideoSize {
		return domain.ErrVideoTooLarge
	}
	if s.limits.TypeAllowed != nil && !s.limits.TypeAllowed(mimeType) {
		return domain.ErrUnsupportedVideoType
	}
	return nil
}

func (s *SubmissionService) Get(ctx context.Context, id string) (*domain.Submission, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *SubmissionService) List(ctx context.Context, filter domain.SubmissionFilter) ([]domain.Submission, error) {
	return s.repo.List(ctx, filter)
}

// Status is the lightweight view clients poll after uploading.
func (s *SubmissionService) Status(ctx context.Context, id string) (*domain.SubmissionStatusView, error) {
	sub, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &domain.SubmissionStatusView{
		SubmissionID: sub.ID,
		Status:       sub.Status,
		CreatedAt:    sub.CreatedAt,
		ReviewedAt:   sub.ReviewedAt,
	}, nil
}
