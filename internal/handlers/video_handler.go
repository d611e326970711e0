package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"vidtube/internal/middleware"
	"vidtube/internal/services"
)

// VideoHandler handles HTTP requests for videos.
type VideoHandler struct {
	videoService *services.VideoService
	validate     *validator.Validate
	cfg          Config
}

// NewVideoHandler creates a new VideoHandler.
func NewVideoHandler(videoService *services.VideoService, cfg Config) *VideoHandler {
	return &VideoHandler{videoService: videoService, validate: validator.New(), cfg: cfg}
}

// RegisterRoutes registers the video routes with the Fiber app.
func (h *VideoHandler) RegisterRoutes(router fiber.Router, guards Guards) {
	videos := router.Group("/videos")
	videos.Get("/", guards.optional(), h.HandleFeed)
	videos.Post("/", guards.required(), h.HandlePublish)
	videos.Get("/:id", guards.optional(), h.HandleGetVideo)
	videos.Patch("/:id", guards.required(), h.HandleUpdateVideo)
	videos.Delete("/:id", guards.required(), h.HandleDeleteVideo)
	videos.Patch("/:id/togglePublish", guards.required(), h.HandleTogglePublish)
}

// HandleFeed lists published videos, plus the caller's own drafts.
func (h *VideoHandler) HandleFeed(c *fiber.Ctx) error {
	opts, err := listOptions(c, h.cfg.MaxLimit)
	if err != nil {
		return err
	}
	page, err := h.videoService.Feed(c.UserContext(), opts, middleware.ViewerID(c))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Videos fetched successfully", page)
}

// PublishVideoRequest is the form part of a video upload.
type PublishVideoRequest struct {
	Title       string `json:"title" form:"title" validate:"required"`
	Description string `json:"description" form:"description" validate:"required"`
}

// HandlePublish uploads a video file and thumbnail from a multipart form.
func (h *VideoHandler) HandlePublish(c *fiber.Ctx) error {
	var req PublishVideoRequest
	if err := bind(c, h.validate, &req); err != nil {
		return err
	}

	files := newUploads(h.cfg.UploadTempDir)
	defer files.cleanup()
	videoPath, err := files.save(c, "videoFile")
	if err != nil {
		return err
	}
	thumbnailPath, err := files.save(c, "thumbnail")
	if err != nil {
		return err
	}

	video, err := h.videoService.Publish(c.UserContext(), middleware.ViewerID(c), services.PublishVideoInput{
		Title:         req.Title,
		Description:   req.Description,
		VideoPath:     videoPath,
		ThumbnailPath: thumbnailPath,
	})
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusCreated, "Video published successfully", video)
}

// HandleGetVideo returns a video and counts the view.
func (h *VideoHandler) HandleGetVideo(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	video, err := h.videoService.Get(c.UserContext(), id, middleware.ViewerID(c))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Video fetched successfully", video)
}

// UpdateVideoRequest carries optional title and description changes.
type UpdateVideoRequest struct {
	Title       *string `json:"title" form:"title"`
	Description *string `json:"description" form:"description"`
}

// HandleUpdateVideo changes title, description or thumbnail of an owned video.
func (h *VideoHandler) HandleUpdateVideo(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req UpdateVideoRequest
	if err := bind(c, h.validate, &req); err != nil {
		return err
	}

	files := newUploads(h.cfg.UploadTempDir)
	defer files.cleanup()
	thumbnailPath, err := files.save(c, "thumbnail")
	if err != nil {
		return err
	}

	video, err := h.videoService.Update(c.UserContext(), id, middleware.ViewerID(c), services.UpdateVideoInput{
		Title:         req.Title,
		Description:   req.Description,
		ThumbnailPath: thumbnailPath,
	})
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Video updated successfully", video)
}

// HandleDeleteVideo deletes an owned video.
func (h *VideoHandler) HandleDeleteVideo(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.videoService.Delete(c.UserContext(), id, middleware.ViewerID(c)); err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Video deleted successfully", fiber.Map{})
}

// HandleTogglePublish flips the published flag of an owned video.
func (h *VideoHandler) HandleTogglePublish(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	published, err := h.videoService.TogglePublish(c.UserContext(), id, middleware.ViewerID(c))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Publish status toggled", fiber.Map{"isPublished": published})
}
