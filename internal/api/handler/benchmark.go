package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/saturnino-fabrica-de-software/talentspark/internal/domain"
)

// BenchmarkComparer grades a rep count against a cohort.
type BenchmarkComparer interface {
	Compare(reps, age int, gender domain.Gender) domain.BenchmarkResult
}

type BenchmarkHandler struct {
	calculator BenchmarkComparer
}

func NewBenchmarkHandler(calculator BenchmarkComparer) *BenchmarkHandler {
	return &BenchmarkHandler{calculator: calculator}
}

// Compare GET /api/benchmark/:age/:gender/:reps
func (h *BenchmarkHandler) Compare(c *fiber.Ctx) error {
	age, err := paramInt(c, "age")
	if err != nil {
		return err
	}
	reps, err := paramInt(c, "reps")
	if err != nil {
		return err
	}
	if reps < 0 {
		return domain.ErrValidationFailed.WithError(errors.New("reps must be non-negative"))
	}
	gender, err := domain.ParseGender(c.Params("gender"))
	if err != nil {
		return err
	}

	return c.JSON(h.calculator.Compare(reps, age, gender))
}
