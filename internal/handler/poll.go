package handler

import (
	"net/http"

	"github.com/gatherly/api/internal/middleware"
	"github.com/gatherly/api/internal/model"
	"github.com/gatherly/api/internal/realtime"
	"github.com/gatherly/api/internal/service"
)

// PollHandler handles poll HTTP requests. Mutations that change tallies
// broadcast the refreshed poll through the hub so websocket clients see
// HTTP-originated changes too.
type PollHandler struct {
	svc *service.PollService
	hub *realtime.Hub
}

// NewPollHandler creates a new poll handler
func NewPollHandler(svc *service.PollService, hub *realtime.Hub) *PollHandler {
	return &PollHandler{svc: svc, hub: hub}
}

// List handles GET /v1/polls - list open polls
func (h *PollHandler) List(w http.ResponseWriter, r *http.Request) {
	polls, err := h.svc.ListActive(r.Context())
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteData(w, http.StatusOK, polls)
}

// Create handles POST /v1/polls - create a new poll
func (h *PollHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	var req model.CreatePollRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewValidationError("invalid request body"))
		return
	}

	poll, err := h.svc.Create(ctx, userID, &req)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteData(w, http.StatusCreated, poll)
}

// Get handles GET /v1/polls/{pollId} - get a poll with tallies
func (h *PollHandler) Get(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("pollId")
	if pollID == "" {
		WriteError(w, model.NewValidationError("poll ID required"))
		return
	}

	poll, err := h.svc.Get(r.Context(), pollID)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteData(w, http.StatusOK, poll)
}

// ListByGroup handles GET /v1/groups/{groupId}/polls
func (h *PollHandler) ListByGroup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	groupID := r.PathValue("groupId")

	polls, err := h.svc.ListByGroup(ctx, groupID, userID)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteData(w, http.StatusOK, polls)
}

// Vote handles PUT /v1/polls/{pollId}/vote - cast or move the caller's ballot
func (h *PollHandler) Vote(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	pollID := r.PathValue("pollId")

	var req model.VoteRequest
	if err := DecodeJSON(r, &req); err != nil || req.OptionID == "" {
		WriteError(w, model.NewValidationError("option_id is required"))
		return
	}

	poll, err := h.svc.Vote(ctx, pollID, userID, &req)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	h.broadcast(poll)
	WriteData(w, http.StatusOK, poll)
}

// RemoveVote handles DELETE /v1/polls/{pollId}/vote - retract the caller's ballot
func (h *PollHandler) RemoveVote(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	pollID := r.PathValue("pollId")

	poll, err := h.svc.RemoveVote(ctx, pollID, userID)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	h.broadcast(poll)
	WriteData(w, http.StatusOK, poll)
}

// Close handles POST /v1/polls/{pollId}/close - close a poll
func (h *PollHandler) Close(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	pollID := r.PathValue("pollId")

	poll, err := h.svc.Close(ctx, pollID, userID)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	h.broadcast(poll)
	WriteData(w, http.StatusOK, poll)
}

// Delete handles DELETE /v1/polls/{pollId} - delete a poll
func (h *PollHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	pollID := r.PathValue("pollId")

	if err := h.svc.Delete(ctx, pollID, userID); err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteMessage(w, http.StatusOK, "poll deleted")
}

func (h *PollHandler) broadcast(poll *model.Poll) {
	if h.hub == nil {
		return
	}
	h.hub.BroadcastAll(&realtime.Event{Type: realtime.EventPollUpdated, Data: poll})
}
