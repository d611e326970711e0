package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"vidtube/internal/middleware"
	"vidtube/internal/services"
)

// TweetHandler handles channel tweets.
type TweetHandler struct {
	tweetService *services.TweetService
	validate     *validator.Validate
	cfg          Config
}

// NewTweetHandler creates a new TweetHandler.
func NewTweetHandler(tweetService *services.TweetService, cfg Config) *TweetHandler {
	return &TweetHandler{tweetService: tweetService, validate: validator.New(), cfg: cfg}
}

// RegisterRoutes registers the tweet routes with the Fiber app.
func (h *TweetHandler) RegisterRoutes(router fiber.Router, guards Guards) {
	tweets := router.Group("/tweets")
	tweets.Post("/", guards.required(), h.HandleCreate)
	tweets.Get("/user/:userId", guards.optional(), h.HandleUserTweets)
	tweets.Patch("/:id", guards.required(), h.HandleUpdate)
	tweets.Delete("/:id", guards.required(), h.HandleDelete)
}

func (h *TweetHandler) HandleCreate(c *fiber.Ctx) error {
	var req ContentRequest
	if err := bind(c, h.validate, &req); err != nil {
		return err
	}
	tweet, err := h.tweetService.Create(c.UserContext(), middleware.ViewerID(c), req.Content)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusCreated, "Tweet created successfully", tweet)
}

func (h *TweetHandler) HandleUserTweets(c *fiber.Ctx) error {
	userID, err := paramID(c, "userId")
	if err != nil {
		return err
	}
	opts, err := listOptions(c, h.cfg.MaxLimit)
	if err != nil {
		return err
	}
	page, err := h.tweetService.ForUser(c.UserContext(), userID, opts, middleware.ViewerID(c))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Tweets fetched successfully", page)
}

func (h *TweetHandler) HandleUpdate(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req ContentRequest
	if err := bind(c, h.validate, &req); err != nil {
		return err
	}
	tweet, err := h.tweetService.Update(c.UserContext(), id, middleware.ViewerID(c), req.Content)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Tweet updated successfully", tweet)
}

func (h *TweetHandler) HandleDelete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.tweetService.Delete(c.UserContext(), id, middleware.ViewerID(c)); err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Tweet deleted successfully", fiber.Map{})
}
