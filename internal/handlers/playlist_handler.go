package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"vidtube/internal/apierror"
	"vidtube/internal/middleware"
	"vidtube/internal/services"
)

// PlaylistHandler handles playlists and their items.
type PlaylistHandler struct {
	playlistService *services.PlaylistService
	validate        *validator.Validate
	cfg             Config
}

// NewPlaylistHandler creates a new PlaylistHandler.
func NewPlaylistHandler(playlistService *services.PlaylistService, cfg Config) *PlaylistHandler {
	return &PlaylistHandler{playlistService: playlistService, validate: validator.New(), cfg: cfg}
}

// RegisterRoutes registers the playlist routes with the Fiber app.
func (h *PlaylistHandler) RegisterRoutes(router fiber.Router, guards Guards) {
	playlists := router.Group("/playlists")
	playlists.Post("/", guards.required(), h.HandleCreate)
	playlists.Get("/user/:userId", guards.optional(), h.HandleUserPlaylists)
	playlists.Patch("/add/:videoId/:playlistId", guards.required(), h.HandleAddVideo)
	playlists.Patch("/remove/:videoId/:playlistId", guards.required(), h.HandleRemoveVideo)
	playlists.Get("/:id", guards.optional(), h.HandleGet)
	playlists.Patch("/:id", guards.required(), h.HandleUpdate)
	playlists.Delete("/:id", guards.required(), h.HandleDelete)
}

// CreatePlaylistRequest is the body of a new playlist.
type CreatePlaylistRequest struct {
	Name        string   `json:"name" validate:"required"`
	Description string   `json:"description"`
	Videos      []string `json:"videos"`
}

func (h *PlaylistHandler) HandleCreate(c *fiber.Ctx) error {
	var req CreatePlaylistRequest
	if err := bind(c, h.validate, &req); err != nil {
		return err
	}
	videoIDs := make([]uuid.UUID, 0, len(req.Videos))
	for _, raw := range req.Videos {
		id, err := uuid.Parse(raw)
		if err != nil {
			return apierror.BadRequest("Invalid video id " + raw)
		}
		videoIDs = append(videoIDs, id)
	}

	playlist, err := h.playlistService.Create(c.UserContext(), middleware.ViewerID(c), req.Name, req.Description, videoIDs)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusCreated, "Playlist created successfully", playlist)
}

func (h *PlaylistHandler) HandleUserPlaylists(c *fiber.Ctx) error {
	userID, err := paramID(c, "userId")
	if err != nil {
		return err
	}
	opts, err := listOptions(c, h.cfg.MaxLimit)
	if err != nil {
		return err
	}
	page, err := h.playlistService.ForUser(c.UserContext(), userID, opts, middleware.ViewerID(c))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Playlists fetched successfully", page)
}

func (h *PlaylistHandler) HandleGet(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	playlist, err := h.playlistService.Get(c.UserContext(), id, middleware.ViewerID(c))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Playlist fetched successfully", playlist)
}

// UpdatePlaylistRequest carries optional name and description changes.
type UpdatePlaylistRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

func (h *PlaylistHandler) HandleUpdate(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req UpdatePlaylistRequest
	if err := bind(c, h.validate, &req); err != nil {
		return err
	}
	playlist, err := h.playlistService.Update(c.UserContext(), id, middleware.ViewerID(c), req.Name, req.Description)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Playlist updated successfully", playlist)
}

func (h *PlaylistHandler) HandleDelete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.playlistService.Delete(c.UserContext(), id, middleware.ViewerID(c)); err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Playlist deleted successfully", fiber.Map{})
}

func (h *PlaylistHandler) HandleAddVideo(c *fiber.Ctx) error {
	videoID, playlistID, err := playlistItemParams(c)
	if err != nil {
		return err
	}
	playlist, err := h.playlistService.AddVideo(c.UserContext(), playlistID, videoID, middleware.ViewerID(c))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Video added to playlist", playlist)
}

func (h *PlaylistHandler) HandleRemoveVideo(c *fiber.Ctx) error {
	videoID, playlistID, err := playlistItemParams(c)
	if err != nil {
		return err
	}
	playlist, err := h.playlistService.RemoveVideo(c.UserContext(), playlistID, videoID, middleware.ViewerID(c))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Video removed from playlist", playlist)
}

func playlistItemParams(c *fiber.Ctx) (videoID, playlistID uuid.UUID, err error) {
	if videoID, err = paramID(c, "videoId"); err != nil {
		return
	}
	playlistID, err = paramID(c, "playlistId")
	return
}
