package handlers

import (
	"github.com/gofiber/fiber/v2"

	"vidtube/internal/middleware"
	"vidtube/internal/models"
	"vidtube/internal/services"
)

// LikeHandler toggles likes and lists liked videos.
type LikeHandler struct {
	likeService *services.LikeService
	cfg         Config
}

// NewLikeHandler creates a new LikeHandler.
func NewLikeHandler(likeService *services.LikeService, cfg Config) *LikeHandler {
	return &LikeHandler{likeService: likeService, cfg: cfg}
}

// RegisterRoutes registers the like routes. All of them require a session.
func (h *LikeHandler) RegisterRoutes(router fiber.Router, guards Guards) {
	likes := router.Group("/likes", guards.required())
	likes.Post("/video/:id", h.toggle(models.LikeTargetVideo))
	likes.Post("/comment/:id", h.toggle(models.LikeTargetComment))
	likes.Post("/tweet/:id", h.toggle(models.LikeTargetTweet))
	likes.Get("/videos", h.HandleLikedVideos)
}

func (h *LikeHandler) toggle(kind models.LikeTarget) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramID(c, "id")
		if err != nil {
			return err
		}
		result, err := h.likeService.Toggle(c.UserContext(), kind, id, middleware.ViewerID(c))
		if err != nil {
			return err
		}
		message := "Like removed"
		if result.Active {
			message = "Like added"
		}
		return respond(c, fiber.StatusOK, message, fiber.Map{"isLiked": result.Active})
	}
}

// HandleLikedVideos lists the videos the caller liked, most recent like first.
func (h *LikeHandler) HandleLikedVideos(c *fiber.Ctx) error {
	opts, err := listOptions(c, h.cfg.MaxLimit)
	if err != nil {
		return err
	}
	page, err := h.likeService.LikedVideos(c.UserContext(), middleware.ViewerID(c), opts)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Liked videos fetched successfully", page)
}
