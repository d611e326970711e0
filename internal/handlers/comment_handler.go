package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"vidtube/internal/middleware"
	"vidtube/internal/services"
)

// ContentRequest is the body of comment and tweet writes.
type ContentRequest struct {
	Content string `json:"content" form:"content" validate:"required"`
}

// CommentHandler handles HTTP requests for video comments.
type CommentHandler struct {
	commentService *services.CommentService
	validate       *validator.Validate
	cfg            Config
}

// NewCommentHandler creates a new CommentHandler.
func NewCommentHandler(commentService *services.CommentService, cfg Config) *CommentHandler {
	return &CommentHandler{commentService: commentService, validate: validator.New(), cfg: cfg}
}

// RegisterRoutes registers the comment routes with the Fiber app.
func (h *CommentHandler) RegisterRoutes(router fiber.Router, guards Guards) {
	comments := router.Group("/comments")
	comments.Get("/:videoId", guards.optional(), h.HandleList)
	comments.Post("/:videoId", guards.required(), h.HandleAdd)
	comments.Patch("/c/:commentId", guards.required(), h.HandleUpdate)
	comments.Delete("/c/:commentId", guards.required(), h.HandleDelete)
}

func (h *CommentHandler) HandleList(c *fiber.Ctx) error {
	videoID, err := paramID(c, "videoId")
	if err != nil {
		return err
	}
	opts, err := listOptions(c, h.cfg.MaxLimit)
	if err != nil {
		return err
	}
	page, err := h.commentService.ForVideo(c.UserContext(), videoID, opts, middleware.ViewerID(c))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Comments fetched successfully", page)
}

func (h *CommentHandler) HandleAdd(c *fiber.Ctx) error {
	videoID, err := paramID(c, "videoId")
	if err != nil {
		return err
	}
	var req ContentRequest
	if err := bind(c, h.validate, &req); err != nil {
		return err
	}
	comment, err := h.commentService.Add(c.UserContext(), videoID, middleware.ViewerID(c), req.Content)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusCreated, "Comment added successfully", comment)
}

func (h *CommentHandler) HandleUpdate(c *fiber.Ctx) error {
	commentID, err := paramID(c, "commentId")
	if err != nil {
		return err
	}
	var req ContentRequest
	if err := bind(c, h.validate, &req); err != nil {
		return err
	}
	comment, err := h.commentService.Update(c.UserContext(), commentID, middleware.ViewerID(c), req.Content)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Comment updated successfully", comment)
}

func (h *CommentHandler) HandleDelete(c *fiber.Ctx) error {
	commentID, err := paramID(c, "commentId")
	if err != nil {
		return err
	}
	if err := h.commentService.Delete(c.UserContext(), commentID, middleware.ViewerID(c)); err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Comment deleted successfully", fiber.Map{})
}
