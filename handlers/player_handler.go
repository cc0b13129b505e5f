package handlers

import (
	"errors"
	"net/http"

	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"

	"club-system/internal/status"
	"club-system/models"
	"club-system/services"
)

type PlayerHandler struct {
	playerService *services.PlayerService
}

func NewPlayerHandler(playerService *services.PlayerService) *PlayerHandler {
	return &PlayerHandler{playerService: playerService}
}

// SearchPlayer looks a player up by external id so the registration
// form can prefill. Public; a miss is a normal answer, not an error.
func (h *PlayerHandler) SearchPlayer(e *core.RequestEvent) error {
	playerID := e.Request.URL.Query().Get("player_id")
	if playerID == "" {
		return apis.NewBadRequestError("player_id is required", nil)
	}

	p, err := h.playerService.FindByExternalID(e.Request.Context(), playerID)
	if errors.Is(err, status.ErrPlayerNotFound) {
		return e.JSON(http.StatusOK, map[string]any{"found": false})
	}
	if err != nil {
		return rosterError(err)
	}

	return e.JSON(http.StatusOK, map[string]any{
		"found":  true,
		"player": p,
	})
}

// ListPlayers returns the player directory filtered by the search
// query. Organizer only.
func (h *PlayerHandler) ListPlayers(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}

	players, err := h.playerService.List(e.Request.Context(), e.Request.URL.Query().Get("q"))
	if err != nil {
		return rosterError(err)
	}
	return e.JSON(http.StatusOK, map[string]any{"players": players})
}

func (h *PlayerHandler) UpsertPlayer(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}

	var p models.Player
	if err := e.BindBody(&p); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}

	saved, err := h.playerService.UpsertPlayer(e.Request.Context(), &p)
	if err != nil {
		return rosterError(err)
	}
	return e.JSON(http.StatusOK, saved)
}

func (h *PlayerHandler) DeletePlayer(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}
	playerID := e.Request.PathValue("playerId")

	if err := h.playerService.Delete(e.Request.Context(), playerID); err != nil {
		return rosterError(err)
	}
	return e.JSON(http.StatusOK, map[string]any{"message": "Player deleted"})
}
