package handlers

import (
	"github.com/gofiber/fiber/v2"

	"vidtube/internal/middleware"
	"vidtube/internal/services"
)

// SubscriptionHandler handles channel subscriptions.
type SubscriptionHandler struct {
	subscriptionService *services.SubscriptionService
	cfg                 Config
}

// NewSubscriptionHandler creates a new SubscriptionHandler.
func NewSubscriptionHandler(subscriptionService *services.SubscriptionService, cfg Config) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptionService: subscriptionService, cfg: cfg}
}

// RegisterRoutes registers the subscription routes with the Fiber app.
func (h *SubscriptionHandler) RegisterRoutes(router fiber.Router, guards Guards) {
	subs := router.Group("/subscriptions")
	subs.Post("/:channelId", guards.required(), h.HandleToggle)
	subs.Get("/channel/:channelId", guards.optional(), h.HandleSubscribers)
	subs.Get("/user/:subscriberId", guards.optional(), h.HandleSubscribedChannels)
}

func (h *SubscriptionHandler) HandleToggle(c *fiber.Ctx) error {
	channelID, err := paramID(c, "channelId")
	if err != nil {
		return err
	}
	result, err := h.subscriptionService.Toggle(c.UserContext(), middleware.ViewerID(c), channelID)
	if err != nil {
		return err
	}
	message := "Unsubscribed successfully"
	if result.Active {
		message = "Subscribed successfully"
	}
	return respond(c, fiber.StatusOK, message, fiber.Map{"isSubscribed": result.Active})
}

func (h *SubscriptionHandler) HandleSubscribers(c *fiber.Ctx) error {
	channelID, err := paramID(c, "channelId")
	if err != nil {
		return err
	}
	opts, err := listOptions(c, h.cfg.MaxLimit)
	if err != nil {
		return err
	}
	page, err := h.subscriptionService.Subscribers(c.UserContext(), channelID, opts)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Subscribers fetched successfully", page)
}

func (h *SubscriptionHandler) HandleSubscribedChannels(c *fiber.Ctx) error {
	subscriberID, err := paramID(c, "subscriberId")
	if err != nil {
		return err
	}
	opts, err := listOptions(c, h.cfg.MaxLimit)
	if err != nil {
		return err
	}
	page, err := h.subscriptionService.SubscribedChannels(c.UserContext(), subscriberID, opts)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Subscribed channels fetched successfully", page)
}
