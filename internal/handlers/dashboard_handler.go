package handlers

import (
	"github.com/gofiber/fiber/v2"

	"vidtube/internal/middleware"
	"vidtube/internal/services"
)

// DashboardHandler serves the channel dashboard of the logged-in user.
type DashboardHandler struct {
	dashboardService *services.DashboardService
	cfg              Config
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(dashboardService *services.DashboardService, cfg Config) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService, cfg: cfg}
}

// RegisterRoutes registers the dashboard routes. All of them require a session.
func (h *DashboardHandler) RegisterRoutes(router fiber.Router, guards Guards) {
	dashboard := router.Group("/dashboard", guards.required())
	dashboard.Get("/stats", h.HandleStats)
	dashboard.Get("/videos", h.HandleVideos)
}

func (h *DashboardHandler) HandleStats(c *fiber.Ctx) error {
	stats, err := h.dashboardService.Stats(c.UserContext(), middleware.ViewerID(c))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Channel stats fetched successfully", stats)
}

func (h *DashboardHandler) HandleVideos(c *fiber.Ctx) error {
	opts, err := listOptions(c, h.cfg.MaxLimit)
	if err != nil {
		return err
	}
	page, err := h.dashboardService.Videos(c.UserContext(), middleware.ViewerID(c), opts)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Channel videos fetched successfully", page)
}
