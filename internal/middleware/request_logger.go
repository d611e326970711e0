package middleware

import (
	"runtime/debug"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// RequestIDHeader carries the id assigned to each request.
const RequestIDHeader = "X-Request-ID"

// RequestLogger logs every request once it has been rendered. The chain error is
// handed to the app's ErrorHandler first so the logged status is the one sent.
func RequestLogger(logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		requestID := c.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(RequestIDHeader, requestID)

		if chainErr := c.Next(); chainErr != nil {
			if err := c.App().ErrorHandler(c, chainErr); err != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		status := c.Response().StatusCode()
		fields := []zap.Field{
			zap.String("request_id", requestID),
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.IP()),
		}
		if ce := logger.Check(levelFor(status), "request completed"); ce != nil {
			ce.Write(fields...)
		}
		return nil
	}
}

func levelFor(status int) zapcore.Level {
	switch {
	case status >= fiber.StatusInternalServerError:
		return zapcore.ErrorLevel
	case status >= fiber.StatusBadRequest:
		return zapcore.WarnLevel
	default:
		return zapcore.InfoLevel
	}
}

// Recovery turns panics into errors for the ErrorHandler and logs them with the stack.
func Recovery(logger *zap.Logger) fiber.Handler {
	return recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c *fiber.Ctx, e interface{}) {
			logger.Error("panic recovered",
				zap.Any("panic", e),
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.ByteString("stack", debug.Stack()),
			)
		},
	})
}
