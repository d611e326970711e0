package handlers

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"vidtube/internal/apierror"
	"vidtube/internal/middleware"
	"vidtube/internal/models"
	"vidtube/internal/services"
)

// UserHandler serves account and channel endpoints of the logged-in user.
type UserHandler struct {
	userService *services.UserService
	validate    *validator.Validate
	cfg         Config
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *services.UserService, cfg Config) *UserHandler {
	return &UserHandler{userService: userService, validate: validator.New(), cfg: cfg}
}

// RegisterRoutes registers the account routes under /users.
func (h *UserHandler) RegisterRoutes(router fiber.Router, guards Guards) {
	users := router.Group("/users")
	users.Get("/currentUser", guards.required(), h.HandleCurrentUser)
	users.Patch("/updateUser", guards.required(), h.HandleUpdateAccount)
	users.Patch("/updateAvatar", guards.required(), h.HandleUpdateAvatar)
	users.Patch("/updateCoverImage", guards.required(), h.HandleUpdateCoverImage)
	users.Get("/channel/:username", guards.required(), h.HandleChannelProfile)
	users.Get("/watchHistory", guards.required(), h.HandleWatchHistory)
}

// HandleCurrentUser returns the authenticated user.
func (h *UserHandler) HandleCurrentUser(c *fiber.Ctx) error {
	return respond(c, fiber.StatusOK, "Current user fetched successfully", middleware.CurrentUser(c))
}

// UpdateAccountRequest is the body of an account details update.
type UpdateAccountRequest struct {
	FullName string `json:"fullname" form:"fullname" validate:"required"`
	Email    string `json:"email" form:"email" validate:"required,email"`
}

// HandleUpdateAccount changes the caller's full name and email.
func (h *UserHandler) HandleUpdateAccount(c *fiber.Ctx) error {
	var req UpdateAccountRequest
	if err := bind(c, h.validate, &req); err != nil {
		return err
	}
	user, err := h.userService.UpdateAccount(c.UserContext(), middleware.ViewerID(c), req.FullName, req.Email)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Account details updated successfully", user)
}

// HandleUpdateAvatar replaces the caller's avatar from the "avatar" file.
func (h *UserHandler) HandleUpdateAvatar(c *fiber.Ctx) error {
	return h.replaceImage(c, "avatar", h.userService.UpdateAvatar, "Avatar updated successfully")
}

// HandleUpdateCoverImage replaces the caller's cover image from the "coverImage" file.
func (h *UserHandler) HandleUpdateCoverImage(c *fiber.Ctx) error {
	return h.replaceImage(c, "coverImage", h.userService.UpdateCoverImage, "Cover image updated successfully")
}

type imageUpdater func(ctx context.Context, user *models.User, localPath string) (*models.User, error)

func (h *UserHandler) replaceImage(c *fiber.Ctx, field string, update imageUpdater, message string) error {
	files := newUploads(h.cfg.UploadTempDir)
	defer files.cleanup()

	path, err := files.save(c, field)
	if err != nil {
		return err
	}
	if path == "" {
		return apierror.BadRequest(field + " file is missing")
	}

	user, err := update(c.UserContext(), middleware.CurrentUser(c), path)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, message, user)
}

// HandleChannelProfile returns a channel with subscriber counts as seen by the caller.
func (h *UserHandler) HandleChannelProfile(c *fiber.Ctx) error {
	username := c.Params("username")
	if username == "" {
		return apierror.BadRequest("Username is missing")
	}
	profile, err := h.userService.ChannelProfile(c.UserContext(), username, middleware.ViewerID(c))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "User channel fetched successfully", profile)
}

// HandleWatchHistory lists the videos the caller watched.
func (h *UserHandler) HandleWatchHistory(c *fiber.Ctx) error {
	history, err := h.userService.WatchHistory(c.UserContext(), middleware.ViewerID(c))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Watch history fetched successfully", history)
}
