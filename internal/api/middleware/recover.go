package middleware

import (
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/gofiber/fiber/v2"

	"github.com/saturnino-fabrica-de-software/talentspark/internal/domain"
)

// Recover turns a handler panic into a 500 response with the standard
// error body. The stack is logged, never returned.
func Recover(logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}

			logger.Error("panic recovered",
				slog.String("panic", fmt.Sprint(r)),
				slog.String("method", c.Method()),
				slog.String("path", c.Path()),
				slog.String("request_id", requestID(c)),
				slog.String("stack", string(debug.Stack())),
			)

			err = c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
				Error: ErrorBody{Code: domain.ErrInternal.Code, Message: domain.ErrInternal.Message},
			})
		}()

		return c.Next()
	}
}
