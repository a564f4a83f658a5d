package handler

import (
	"net/http"

	"github.com/gatherly/api/internal/middleware"
	"github.com/gatherly/api/internal/model"
	"github.com/gatherly/api/internal/realtime"
	"github.com/gatherly/api/internal/service"
)

// EventHandler handles event and RSVP HTTP requests. RSVP mutations
// broadcast the refreshed event through the hub so websocket clients see
// HTTP-originated attendance changes too.
type EventHandler struct {
	svc *service.EventService
	hub *realtime.Hub
}

// NewEventHandler creates a new event handler
func NewEventHandler(svc *service.EventService, hub *realtime.Hub) *EventHandler {
	return &EventHandler{svc: svc, hub: hub}
}

// List handles GET /v1/events - list upcoming public events
func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	events, err := h.svc.ListPublic(r.Context())
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteData(w, http.StatusOK, events)
}

// Create handles POST /v1/events - create a new event
func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	var req model.CreateEventRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewValidationError("invalid request body"))
		return
	}

	event, err := h.svc.Create(ctx, userID, &req)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteData(w, http.StatusCreated, event)
}

// Get handles GET /v1/events/{eventId} - get event with attendance
func (h *EventHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	eventID := r.PathValue("eventId")
	if eventID == "" {
		WriteError(w, model.NewValidationError("event ID required"))
		return
	}

	event, err := h.svc.Get(ctx, eventID, userID)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteData(w, http.StatusOK, event)
}

// ListByGroup handles GET /v1/groups/{groupId}/events
func (h *EventHandler) ListByGroup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	groupID := r.PathValue("groupId")

	events, err := h.svc.ListByGroup(ctx, groupID, userID)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteData(w, http.StatusOK, events)
}

// Update handles PATCH /v1/events/{eventId} - update event details
func (h *EventHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	eventID := r.PathValue("eventId")

	var req model.CreateEventRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewValidationError("invalid request body"))
		return
	}

	event, err := h.svc.Update(ctx, eventID, userID, &req)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteData(w, http.StatusOK, event)
}

// Delete handles DELETE /v1/events/{eventId} - delete an event
func (h *EventHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	eventID := r.PathValue("eventId")

	if err := h.svc.Delete(ctx, eventID, userID); err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteMessage(w, http.StatusOK, "event deleted")
}

// Cancel handles PATCH /v1/events/{eventId}/cancel - cancel an event
func (h *EventHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	eventID := r.PathValue("eventId")

	if err := h.svc.Cancel(ctx, eventID, userID); err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteMessage(w, http.StatusOK, "event cancelled")
}

// RSVP handles POST /v1/events/{eventId}/rsvp - add or update the caller's RSVP
func (h *EventHandler) RSVP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	eventID := r.PathValue("eventId")

	var req model.RSVPRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewValidationError("invalid request body"))
		return
	}

	rsvp, err := h.svc.RSVP(ctx, eventID, userID, &req)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	h.broadcastAttendance(r, eventID, userID)
	WriteData(w, http.StatusOK, rsvp)
}

// RemoveRSVP handles DELETE /v1/events/{eventId}/rsvp - retract the caller's RSVP
func (h *EventHandler) RemoveRSVP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	eventID := r.PathValue("eventId")

	if err := h.svc.RemoveRSVP(ctx, eventID, userID); err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	h.broadcastAttendance(r, eventID, userID)
	WriteMessage(w, http.StatusOK, "rsvp removed")
}

// broadcastAttendance reloads the event so the frame carries fresh counts.
// Group-scoped events notify the group room; ungrouped events notify
// everyone.
func (h *EventHandler) broadcastAttendance(r *http.Request, eventID, userID string) {
	if h.hub == nil {
		return
	}
	event, err := h.svc.Get(r.Context(), eventID, userID)
	if err != nil {
		return
	}
	frame := &realtime.Event{Type: realtime.EventRSVPUpdated, Data: event}
	if event.GroupID != "" {
		h.hub.BroadcastRoom(event.GroupID, frame)
		return
	}
	h.hub.BroadcastAll(frame)
}

// ListRSVPs handles GET /v1/events/{eventId}/rsvps - list attendance records
func (h *EventHandler) ListRSVPs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	eventID := r.PathValue("eventId")

	rsvps, err := h.svc.ListRSVPs(ctx, eventID, userID)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteData(w, http.StatusOK, rsvps)
}
