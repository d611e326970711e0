package middleware

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"vidtube/internal/apierror"
	"vidtube/internal/models"
)

// AccessTokenCookie is the cookie the access token is issued in.
const AccessTokenCookie = "accessToken"

const userKey = "user"

// Authenticator resolves an access token to the user it was issued for.
type Authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (*models.User, error)
}

// AuthRequired rejects requests without a valid access token and stores the
// authenticated user in the request locals.
func AuthRequired(auth Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := accessToken(c)
		if token == "" {
			return apierror.Unauthorized("Unauthorized request")
		}

		user, err := auth.Authenticate(c.UserContext(), token)
		if err != nil {
			return err
		}

		c.Locals(userKey, user)
		return c.Next()
	}
}

// AuthOptional authenticates the caller when a valid token is present and
// otherwise lets the request through anonymously.
func AuthOptional(auth Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if token := accessToken(c); token != "" {
			if user, err := auth.Authenticate(c.UserContext(), token); err == nil {
				c.Locals(userKey, user)
			}
		}
		return c.Next()
	}
}

// CurrentUser returns the authenticated user, or nil for anonymous requests.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(userKey).(*models.User)
	return user
}

// ViewerID returns the authenticated user's id, or uuid.Nil for anonymous requests.
func ViewerID(c *fiber.Ctx) uuid.UUID {
	if user := CurrentUser(c); user != nil {
		return user.ID
	}
	return uuid.Nil
}

// accessToken reads the token from the cookie first, then from "Authorization: Bearer <token>".
func accessToken(c *fiber.Ctx) string {
	if token := strings.TrimSpace(c.Cookies(AccessTokenCookie)); token != "" {
		return token
	}
	parts := strings.SplitN(c.Get(fiber.HeaderAuthorization), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}
