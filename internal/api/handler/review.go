package handler

import (
	"context"
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/saturnino-fabrica-de-software/talentspark/internal/domain"
)

// ReviewService is the reviewer side of the submission workflow.
type ReviewService interface {
	Decide(ctx context.Context, id string, decision domain.ReviewDecision) (*domain.Submission, error)
	Leaderboard(ctx context.Context, filter domain.LeaderboardFilter) ([]domain.LeaderboardEntry, error)
	Stats(ctx context.Context) (*domain.AdminStats, error)
}

type ReviewHandler struct {
	service ReviewService
	logger  *slog.Logger
}

func NewReviewHandler(service ReviewService, logger *slog.Logger) *ReviewHandler {
	return &ReviewHandler{
		service: service,
		logger:  logger,
	}
}

// DecisionResponse response for the decision endpoint
type DecisionResponse struct {
	Success      bool                    `json:"success"`
	SubmissionID string                  `json:"submission_id"`
	Decision     domain.SubmissionStatus `json:"decision"`
	Message      string                  `json:"message"`
}

// Decide POST /api/submissions/:id/decision
func (h *ReviewHandler) Decide(c *fiber.Ctx) error {
	var req domain.ReviewDecision
	if err := c.BodyParser(&req); err != nil {
		return domain.ErrBadRequest.WithError(err)
	}

	sub, err := h.service.Decide(c.UserContext(), c.Params("id"), req)
	if err != nil {
		return err
	}

	return c.JSON(DecisionResponse{
		Success:      true,
		SubmissionID: sub.ID,
		Decision:     sub.Status,
		Message:      "Decision recorded successfully",
	})
}

// Leaderboard GET /api/leaderboard?age_band=&gender=&limit=
func (h *ReviewHandler) Leaderboard(c *fiber.Ctx) error {
	limit, err := queryInt(c, "limit", 100)
	if err != nil {
		return err
	}
	if limit < 1 || limit > 1000 {
		return domain.ErrValidationFailed.WithError(errors.New("limit must be 1..1000"))
	}

	entries, err := h.service.Leaderboard(c.UserContext(), domain.LeaderboardFilter{
		AgeBand: c.Query("age_band"),
		Gender:  domain.Gender(c.Query("gender")),
		Limit:   limit,
	})
	if err != nil {
		return err
	}

	return c.JSON(entries)
}

// Stats GET /api/admin/stats
func (h *ReviewHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.service.Stats(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(stats)
}
