package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"vidtube/internal/apierror"
)

// Envelope is the body of every API response.
type Envelope struct {
	StatusCode int         `json:"statusCode"`
	Success    bool        `json:"success"`
	Message    string      `json:"message"`
	Data       interface{} `json:"data"`
	Errors     []string    `json:"errors,omitempty"`
}

func respond(c *fiber.Ctx, status int, message string, data interface{}) error {
	return c.Status(status).JSON(Envelope{
		StatusCode: status,
		Success:    status < fiber.StatusBadRequest,
		Message:    message,
		Data:       data,
	})
}

// ErrorHandler renders every error returned by a handler or middleware as a
// failed Envelope. Causes of 5xx responses are logged, never sent.
func ErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *fiber.Ctx, err error) error {
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return c.Status(fiberErr.Code).JSON(Envelope{
				StatusCode: fiberErr.Code,
				Message:    fiberErr.Message,
			})
		}

		apiErr := apierror.From(err)
		if apiErr.Status >= fiber.StatusInternalServerError {
			logger.Error("request failed",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.Int("status", apiErr.Status),
				zap.Error(err),
			)
		}
		return c.Status(apiErr.Status).JSON(Envelope{
			StatusCode: apiErr.Status,
			Message:    apiErr.Message,
			Errors:     apiErr.Details,
		})
	}
}
