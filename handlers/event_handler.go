package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"

	"club-system/models"
	"club-system/services"
)

type EventHandler struct {
	eventService *services.EventService
}

func NewEventHandler(eventService *services.EventService) *EventHandler {
	return &EventHandler{eventService: eventService}
}

// ListEvents returns upcoming and recent past events. Hidden events
// only show up for authenticated organizers.
func (h *EventHandler) ListEvents(e *core.RequestEvent) error {
	listing, err := h.eventService.List(e.Request.Context(), e.Auth != nil)
	if err != nil {
		return rosterError(err)
	}
	return e.JSON(http.StatusOK, listing)
}

func (h *EventHandler) GetEvent(e *core.RequestEvent) error {
	eventID := e.Request.PathValue("eventId")

	ev, err := h.eventService.FindEvent(e.Request.Context(), eventID)
	if err != nil {
		return rosterError(err)
	}
	if ev.Hidden && e.Auth == nil {
		return apis.NewNotFoundError("Event not found", nil)
	}
	return e.JSON(http.StatusOK, ev)
}

func (h *EventHandler) CreateEvent(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}

	var ev models.Event
	if err := e.BindBody(&ev); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}

	created, err := h.eventService.Create(e.Request.Context(), &ev)
	if err != nil {
		return rosterError(err)
	}
	return e.JSON(http.StatusOK, created)
}

func (h *EventHandler) UpdateEvent(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}
	eventID := e.Request.PathValue("eventId")

	var ev models.Event
	if err := e.BindBody(&ev); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}

	updated, err := h.eventService.Update(e.Request.Context(), eventID, &ev)
	if err != nil {
		return rosterError(err)
	}
	return e.JSON(http.StatusOK, updated)
}

// DeleteEvent removes the event record. The delete hook purges the
// roster state, so deletes from the admin dashboard clean up too.
func (h *EventHandler) DeleteEvent(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}
	eventID := e.Request.PathValue("eventId")

	if err := h.eventService.Delete(e.Request.Context(), eventID); err != nil {
		return rosterError(err)
	}
	return e.JSON(http.StatusOK, map[string]any{"message": "Event deleted"})
}

func (h *EventHandler) ToggleVisibility(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}
	eventID := e.Request.PathValue("eventId")

	hidden, err := h.eventService.ToggleHidden(e.Request.Context(), eventID)
	if err != nil {
		return rosterError(err)
	}
	return e.JSON(http.StatusOK, map[string]any{"hidden": hidden})
}

// ShareCode returns the event's short share code, minting one on
// first request.
func (h *EventHandler) ShareCode(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}
	eventID := e.Request.PathValue("eventId")

	code, err := h.eventService.EnsureShareCode(e.Request.Context(), eventID)
	if err != nil {
		return rosterError(err)
	}
	return e.JSON(http.StatusOK, map[string]any{"share_code": code})
}
