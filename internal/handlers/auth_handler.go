package handlers

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"vidtube/internal/apierror"
	"vidtube/internal/middleware"
	"vidtube/internal/services"
)

// RefreshTokenCookie is the cookie the refresh token is issued in.
const RefreshTokenCookie = "refreshToken"

// AuthHandler handles registration and the session lifecycle.
type AuthHandler struct {
	authService *services.AuthService
	validate    *validator.Validate
	cfg         Config
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, cfg Config) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validate:    validator.New(),
		cfg:         cfg,
	}
}

// RegisterRoutes registers the session routes under /users.
func (h *AuthHandler) RegisterRoutes(router fiber.Router, guards Guards) {
	users := router.Group("/users")
	users.Post("/register", guards.throttle(), h.HandleRegister)
	users.Post("/login", guards.throttle(), h.HandleLogin)
	users.Post("/refreshToken", guards.throttle(), h.HandleRefresh)
	users.Post("/logout", guards.required(), h.HandleLogout)
	users.Post("/changePassword", guards.required(), h.HandleChangePassword)
}

// RegisterRequest is the form part of a registration.
type RegisterRequest struct {
	Username string `json:"username" form:"username" validate:"required"`
	Email    string `json:"email" form:"email" validate:"required,email"`
	FullName string `json:"fullname" form:"fullname" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

// HandleRegister creates an account from a multipart form with an avatar and optional cover image.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := bind(c, h.validate, &req); err != nil {
		return err
	}

	files := newUploads(h.cfg.UploadTempDir)
	defer files.cleanup()
	avatar, err := files.save(c, "avatar")
	if err != nil {
		return err
	}
	if avatar == "" {
		return apierror.BadRequest("Avatar file is required")
	}
	cover, err := files.save(c, "coverImage")
	if err != nil {
		return err
	}

	user, err := h.authService.Register(c.UserContext(), services.RegisterInput{
		Username:       req.Username,
		Email:          req.Email,
		FullName:       req.FullName,
		Password:       req.Password,
		AvatarPath:     avatar,
		CoverImagePath: cover,
	})
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusCreated, "User registered successfully", user)
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Username string `json:"username" form:"username"`
	Email    string `json:"email" form:"email" validate:"omitempty,email"`
	Password string `json:"password" form:"password" validate:"required"`
}

// HandleLogin verifies credentials and issues the session cookies.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := bind(c, h.validate, &req); err != nil {
		return err
	}

	user, pair, err := h.authService.Login(c.UserContext(), req.Username, req.Email, req.Password)
	if err != nil {
		return err
	}

	setSessionCookies(c, pair)
	return respond(c, fiber.StatusOK, "User logged in successfully", fiber.Map{
		"user":         user,
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	})
}

// HandleRefresh rotates the refresh token from the cookie or the JSON body.
func (h *AuthHandler) HandleRefresh(c *fiber.Ctx) error {
	presented := c.Cookies(RefreshTokenCookie)
	if presented == "" {
		var body struct {
			RefreshToken string `json:"refreshToken" form:"refreshToken"`
		}
		if len(c.Body()) > 0 {
			_ = c.BodyParser(&body)
		}
		presented = body.RefreshToken
	}

	pair, err := h.authService.Refresh(c.UserContext(), presented)
	if err != nil {
		return err
	}

	setSessionCookies(c, pair)
	return respond(c, fiber.StatusOK, "Access token refreshed", pair)
}

// HandleLogout revokes the stored refresh token and clears both cookies.
func (h *AuthHandler) HandleLogout(c *fiber.Ctx) error {
	if err := h.authService.Logout(c.UserContext(), middleware.ViewerID(c)); err != nil {
		return err
	}
	clearSessionCookies(c)
	return respond(c, fiber.StatusOK, "User logged out", fiber.Map{})
}

// ChangePasswordRequest is the body of a password change.
type ChangePasswordRequest struct {
	OldPassword     string `json:"oldPassword" form:"oldPassword" validate:"required"`
	NewPassword     string `json:"newPassword" form:"newPassword" validate:"required"`
	ConfirmPassword string `json:"confirmPassword" form:"confirmPassword" validate:"required"`
}

// HandleChangePassword changes the caller's password.
func (h *AuthHandler) HandleChangePassword(c *fiber.Ctx) error {
	var req ChangePasswordRequest
	if err := bind(c, h.validate, &req); err != nil {
		return err
	}
	err := h.authService.ChangePassword(c.UserContext(), middleware.ViewerID(c), req.OldPassword, req.NewPassword, req.ConfirmPassword)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Password changed successfully", fiber.Map{})
}

func setSessionCookies(c *fiber.Ctx, pair *services.TokenPair) {
	c.Cookie(sessionCookie(middleware.AccessTokenCookie, pair.AccessToken))
	c.Cookie(sessionCookie(RefreshTokenCookie, pair.RefreshToken))
}

func clearSessionCookies(c *fiber.Ctx) {
	for _, name := range []string{middleware.AccessTokenCookie, RefreshTokenCookie} {
		cookie := sessionCookie(name, "")
		cookie.Expires = time.Unix(0, 0)
		cookie.MaxAge = -1
		c.Cookie(cookie)
	}
}

func sessionCookie(name, value string) *fiber.Cookie {
	return &fiber.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HTTPOnly: true,
		Secure:   true,
		SameSite: fiber.CookieSameSiteNoneMode,
	}
}
