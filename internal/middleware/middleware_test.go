package middleware_test

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"vidtube/internal/apierror"
	"vidtube/internal/middleware"
	"vidtube/internal/models"
)

type stubAuthenticator struct {
	users map[string]*models.User
}

func (s stubAuthenticator) Authenticate(_ context.Context, token string) (*models.User, error) {
	if user, ok := s.users[token]; ok {
		return user, nil
	}
	return nil, apierror.Unauthorized("Invalid access token")
}

func newApp(handlers ...fiber.Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			apiErr := apierror.From(err)
			return c.Status(apiErr.Status).JSON(fiber.Map{"message": apiErr.Message})
		},
	})
	app.Get("/", append(handlers, func(c *fiber.Ctx) error {
		return c.SendString(middleware.ViewerID(c).String())
	})...)
	return app
}

func TestAuthRequired(t *testing.T) {
	user := &models.User{Base: models.Base{ID: uuid.New()}, Username: "alice"}
	auth := stubAuthenticator{users: map[string]*models.User{"good": user}}
	app := newApp(middleware.AuthRequired(auth))

	tests := []struct {
		name   string
		req    *httptestRequest
		status int
	}{
		{"missing token", newRequest(), fiber.StatusUnauthorized},
		{"bearer header", newRequest().header("Authorization", "Bearer good"), fiber.StatusOK},
		{"cookie", newRequest().header("Cookie", "accessToken=good"), fiber.StatusOK},
		{"bad scheme", newRequest().header("Authorization", "Token good"), fiber.StatusUnauthorized},
		{"invalid token", newRequest().header("Authorization", "Bearer bad"), fiber.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := app.Test(tt.req.req)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

func TestAuthOptional(t *testing.T) {
	user := &models.User{Base: models.Base{ID: uuid.New()}}
	auth := stubAuthenticator{users: map[string]*models.User{"good": user}}
	app := newApp(middleware.AuthOptional(auth))

	for token, want := range map[string]string{"": uuid.Nil.String(), "bad": uuid.Nil.String(), "good": user.ID.String()} {
		req := newRequest()
		if token != "" {
			req.header("Authorization", "Bearer "+token)
		}
		resp, err := app.Test(req.req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Equal(t, want, string(body), "token %q", token)
	}
}

func TestRateLimit(t *testing.T) {
	limiter := middleware.NewIPRateLimiter(1, time.Hour, 2, time.Hour)
	app := newApp(middleware.RateLimit(limiter, time.Hour))

	var statuses []int
	for i := 0; i < 3; i++ {
		resp, err := app.Test(newRequest().req)
		require.NoError(t, err)
		statuses = append(statuses, resp.StatusCode)
	}
	assert.Equal(t, []int{fiber.StatusOK, fiber.StatusOK, fiber.StatusTooManyRequests}, statuses)
}

func TestRequestLoggerLevels(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger := zap.New(core)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(apierror.StatusOf(err)).SendString(err.Error())
		},
	})
	app.Use(middleware.RequestLogger(logger))
	app.Use(middleware.Recovery(logger))
	app.Get("/ok", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })
	app.Get("/missing", func(c *fiber.Ctx) error { return apierror.NotFound("nope") })
	app.Get("/boom", func(c *fiber.Ctx) error { panic(errors.New("boom")) })

	for _, path := range []string{"/ok", "/missing", "/boom"} {
		resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, path, nil))
		require.NoError(t, err)
		assert.NotEmpty(t, resp.Header.Get(middleware.RequestIDHeader))
	}

	completed := logs.FilterMessage("request completed").All()
	require.Len(t, completed, 3)
	assert.Equal(t, zapcore.InfoLevel, completed[0].Level)
	assert.Equal(t, zapcore.WarnLevel, completed[1].Level)
	assert.Equal(t, int64(fiber.StatusNotFound), completed[1].ContextMap()["status"])
	assert.Equal(t, zapcore.ErrorLevel, completed[2].Level)
	assert.Equal(t, 1, logs.FilterMessage("panic recovered").Len())
}
