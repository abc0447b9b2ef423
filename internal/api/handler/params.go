package handler

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/saturnino-fabrica-de-software/talentspark/internal/domain"
)

func queryInt(c *fiber.Ctx, key string, def int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.ErrValidationFailed.WithError(fmt.Errorf("%s: %w", key, err))
	}
	return n, nil
}

func paramInt(c *fiber.Ctx, key string) (int, error) {
	n, err := strconv.Atoi(c.Params(key))
	if err != nil {
		return 0, domain.ErrValidationFailed.WithError(fmt.Errorf("%s: %w", key, err))
	}
	return n, nil
}
