package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/saturnino-fabrica-de-software/talentspark/internal/domain"
)

// SubmissionService is the intake side of the submission workflow.
type SubmissionService interface {
	Create(ctx context.Context, b *domain.IntegrityBundle, video []byte, mimeType string) (*domain.Submission, error)
	Get(ctx context.Context, id string) (*domain.Submission, error)
	List(ctx context.Context, filter domain.SubmissionFilter) ([]domain.Submission, error)
	Status(ctx context.Context, id string) (*domain.SubmissionStatusView, error)
}

type SubmissionHandler struct {
	service SubmissionService
	logger  *slog.Logger
}

func NewSubmissionHandler(service SubmissionService, logger *slog.Logger) *SubmissionHandler {
	return &SubmissionHandler{
		service: service,
		logger:  logger,
	}
}

// CreateSubmissionResponse response for the create endpoint
type CreateSubmissionResponse struct {
	Success      bool   `json:"success"`
	SubmissionID string `json:"submission_id"`
	Message      string `json:"message"`
	UploadURL    string `json:"upload_url"`
}

// Create POST /api/submissions - verify and store a new assessment
func (h *SubmissionHandler) Create(c *fiber.Ctx) error {
	raw := strings.TrimSpace(c.FormValue("integrity_bundle"))
	if raw == "" {
		return domain.ErrInvalidBundle.WithError(errors.New("integrity_bundle is required"))
	}

	var bundle domain.IntegrityBundle
	if err := json.Unmarshal([]byte(raw), &bundle); err != nil {
		return domain.ErrInvalidBundle.WithError(err)
	}

	video, mimeType, err := extractVideo(c)
	if err != nil {
		return err
	}

	sub, err := h.service.Create(c.UserContext(), &bundle, video, mimeType)
	if err != nil {
		return err
	}

	return c.JSON(CreateSubmissionResponse{
		Success:      true,
		SubmissionID: sub.ID,
		Message:      "Submission created successfully",
		UploadURL:    sub.VideoURL,
	})
}

// List GET /api/submissions - review queue, newest first
func (h *SubmissionHandler) List(c *fiber.Ctx) error {
	var filter domain.SubmissionFilter

	if raw := c.Query("status"); raw != "" {
		status, err := domain.ParseSubmissionStatus(raw)
		if err != nil {
			return err
		}
		filter.Status = status
	}

	limit, err := queryInt(c, "limit", 50)
	if err != nil {
		return err
	}
	offset, err := queryInt(c, "offset", 0)
	if err != nil {
		return err
	}
	if limit < 1 || limit > 500 || offset < 0 {
		return domain.ErrValidationFailed.WithError(errors.New("limit must be 1..500 and offset non-negative"))
	}
	filter.Limit = limit
	filter.Offset = offset

	subs, err := h.service.List(c.UserContext(), filter)
	if err != nil {
		return err
	}

	return c.JSON(subs)
}

// Get GET /api/submissions/:id
func (h *SubmissionHandler) Get(c *fiber.Ctx) error {
	sub, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(sub)
}

// Status GET /api/submissions/:id/status - lightweight polling view
func (h *SubmissionHandler) Status(c *fiber.Ctx) error {
	view, err := h.service.Status(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(view)
}

func extractVideo(c *fiber.Ctx) ([]byte, string, error) {
	file, err := c.FormFile("video")
	if err != nil {
		return nil, "", domain.ErrInvalidVideo.WithError(err)
	}

	f, err := file.Open()
	if err != nil {
		return nil, "", domain.ErrInvalidVideo.WithError(err)
	}
	defer func() {
		_ = f.Close()
	}()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, "", domain.ErrInvalidVideo.WithError(err)
	}

	return data, file.Header.Get("Content-Type"), nil
}
