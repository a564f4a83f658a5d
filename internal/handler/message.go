package handler

import (
	"net/http"
	"strconv"

	"github.com/gatherly/api/internal/middleware"
	"github.com/gatherly/api/internal/model"
	"github.com/gatherly/api/internal/realtime"
	"github.com/gatherly/api/internal/service"
)

// MessageHandler handles group chat HTTP requests. Sends broadcast to the
// group room so websocket clients see HTTP-originated messages too.
type MessageHandler struct {
	svc *service.MessageService
	hub *realtime.Hub
}

// NewMessageHandler creates a new message handler
func NewMessageHandler(svc *service.MessageService, hub *realtime.Hub) *MessageHandler {
	return &MessageHandler{svc: svc, hub: hub}
}

// Send handles POST /v1/messages - send a message to a group
func (h *MessageHandler) Send(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	var req model.SendMessageRequest
	if err := DecodeJSON(r, &req); err != nil || req.GroupID == "" {
		WriteError(w, model.NewValidationError("group_id and content are required"))
		return
	}

	msg, err := h.svc.Send(ctx, userID, &req)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	if h.hub != nil {
		h.hub.BroadcastRoom(msg.GroupID, &realtime.Event{Type: realtime.EventNewMessage, Data: msg})
	}
	WriteData(w, http.StatusCreated, msg)
}

// History handles GET /v1/groups/{groupId}/messages - recent chat history
func (h *MessageHandler) History(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	groupID := r.PathValue("groupId")

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, _ = strconv.Atoi(raw)
	}

	messages, err := h.svc.History(ctx, groupID, userID, limit)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteData(w, http.StatusOK, messages)
}

// Delete handles DELETE /v1/messages/{messageId} - delete own message
func (h *MessageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	messageID := r.PathValue("messageId")

	if err := h.svc.Delete(ctx, messageID, userID); err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteMessage(w, http.StatusOK, "message deleted")
}
