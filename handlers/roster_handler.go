package handlers

import (
	"errors"
	"net/http"

	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"

	"club-system/internal/roster"
	"club-system/internal/status"
	"club-system/models"
	"club-system/services"
)

type RosterHandler struct {
	rosterService *services.RosterService
	playerService *services.PlayerService
}

func NewRosterHandler(rosterService *services.RosterService, playerService *services.PlayerService) *RosterHandler {
	return &RosterHandler{
		rosterService: rosterService,
		playerService: playerService,
	}
}

// Join registers a player for an event. Open to unauthenticated
// visitors; the roster engine decides whether they land on the active
// roster or the waitlist.
func (h *RosterHandler) Join(e *core.RequestEvent) error {
	eventID := e.Request.PathValue("eventId")

	var req services.JoinRequest
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}

	landed, err := h.rosterService.Admit(e.Request.Context(), eventID, req)
	if err != nil {
		return rosterError(err)
	}

	return e.JSON(http.StatusOK, map[string]any{
		"list":      landed,
		"player_id": req.PlayerID,
	})
}

// Leave removes a player from whichever list holds them. Organizer
// only. Removal is idempotent so a stale page retrying gets the same
// success.
func (h *RosterHandler) Leave(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}
	eventID := e.Request.PathValue("eventId")

	var req struct {
		PlayerID string `json:"player_id"`
	}
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}
	if req.PlayerID == "" {
		return apis.NewBadRequestError("player_id is required", nil)
	}

	if err := h.rosterService.Remove(e.Request.Context(), eventID, req.PlayerID); err != nil {
		return rosterError(err)
	}

	return e.JSON(http.StatusOK, map[string]any{"message": "Player removed"})
}

// Promote moves a waitlisted player onto the active roster. Organizer
// only.
func (h *RosterHandler) Promote(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}
	eventID := e.Request.PathValue("eventId")

	var req struct {
		PlayerID string `json:"player_id"`
	}
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}

	if err := h.rosterService.Promote(e.Request.Context(), eventID, req.PlayerID); err != nil {
		return rosterError(err)
	}

	return e.JSON(http.StatusOK, map[string]any{"message": "Player promoted"})
}

// Demote moves an active player onto the waitlist. Organizer only.
func (h *RosterHandler) Demote(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}
	eventID := e.Request.PathValue("eventId")

	var req struct {
		PlayerID string `json:"player_id"`
	}
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}

	if err := h.rosterService.Demote(e.Request.Context(), eventID, req.PlayerID); err != nil {
		return rosterError(err)
	}

	return e.JSON(http.StatusOK, map[string]any{"message": "Player demoted"})
}

// GetRoster returns both lists with player identities resolved.
// Unauthenticated viewers get redacted names and no contact info.
func (h *RosterHandler) GetRoster(e *core.RequestEvent) error {
	eventID := e.Request.PathValue("eventId")

	snap, err := h.rosterService.Snapshot(e.Request.Context(), eventID)
	if err != nil {
		return rosterError(err)
	}

	trusted := e.Auth != nil
	active, err := h.hydrate(e, snap.Active, trusted)
	if err != nil {
		return rosterError(err)
	}
	waitlist, err := h.hydrate(e, snap.Waitlist, trusted)
	if err != nil {
		return rosterError(err)
	}

	return e.JSON(http.StatusOK, map[string]any{
		"event_id": snap.EventID,
		"capacity": snap.Capacity,
		"full":     snap.Full,
		"active":   active,
		"waitlist": waitlist,
	})
}

// hydrate joins roster entries with their identity records. Players
// whose identity record is gone render by raw id.
func (h *RosterHandler) hydrate(e *core.RequestEvent, entries []roster.Entry, trusted bool) ([]map[string]any, error) {
	ids := make([]string, len(entries))
	for i, entry := range entries {
		ids[i] = entry.PlayerID
	}
	players, err := h.playerService.FindByExternalIDs(e.Request.Context(), ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]models.Player, len(players))
	for _, p := range players {
		byID[p.PlayerID] = p
	}

	members := make([]map[string]any, 0, len(entries))
	for _, entry := range entries {
		member := map[string]any{
			"player_id": entry.PlayerID,
			"joined_at": entry.JoinedAt,
		}
		if p, ok := byID[entry.PlayerID]; ok {
			if trusted {
				member["first_name"] = p.FirstName
				member["last_name"] = p.LastName
				member["birth_year"] = p.BirthYear
				member["contact"] = p.Contact
			} else {
				member["name"] = p.PublicName()
			}
		}
		members = append(members, member)
	}
	return members, nil
}

// rosterError maps service sentinels to API responses: missing
// resources to 404, refused registrations to 409 with a message the
// UI can show as-is, store outages to 503 inviting a retry.
func rosterError(err error) error {
	switch {
	case errors.Is(err, status.ErrEventNotFound):
		return apis.NewNotFoundError("Event not found", err)
	case errors.Is(err, status.ErrPlayerNotFound):
		return apis.NewNotFoundError("Player not found", err)
	case errors.Is(err, status.ErrAlreadyRegistered):
		return apis.NewApiError(http.StatusConflict, "Player is already registered for this event", err)
	case errors.Is(err, status.ErrEventFull):
		return apis.NewApiError(http.StatusConflict, "Event is at capacity", err)
	case errors.Is(err, status.ErrNotOnWaitlist):
		return apis.NewApiError(http.StatusConflict, "Player is not on the waitlist", err)
	case errors.Is(err, status.ErrNotOnRoster):
		return apis.NewApiError(http.StatusConflict, "Player is not on the active roster", err)
	case errors.Is(err, status.ErrStoreUnavailable):
		return apis.NewApiError(http.StatusServiceUnavailable, "Roster store unavailable, please retry", err)
	default:
		return apis.NewBadRequestError(err.Error(), err)
	}
}
