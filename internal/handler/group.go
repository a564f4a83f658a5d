package handler

import (
	"net/http"

	"github.com/gatherly/api/internal/middleware"
	"github.com/gatherly/api/internal/model"
	"github.com/gatherly/api/internal/service"
)

// GroupHandler handles group HTTP requests
type GroupHandler struct {
	svc *service.GroupService
}

// NewGroupHandler creates a new group handler
func NewGroupHandler(svc *service.GroupService) *GroupHandler {
	return &GroupHandler{svc: svc}
}

// List handles GET /v1/groups - list public groups
func (h *GroupHandler) List(w http.ResponseWriter, r *http.Request) {
	groups, err := h.svc.List(r.Context())
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteData(w, http.StatusOK, groups)
}

// Create handles POST /v1/groups - create a new group
func (h *GroupHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	var req model.CreateGroupRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewValidationError("invalid request body"))
		return
	}

	group, err := h.svc.Create(ctx, userID, &req)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteData(w, http.StatusCreated, group)
}

// Get handles GET /v1/groups/{groupId} - get group details with members
func (h *GroupHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	groupID := r.PathValue("groupId")
	if groupID == "" {
		WriteError(w, model.NewValidationError("group ID required"))
		return
	}

	detail, err := h.svc.Get(ctx, groupID, userID)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteData(w, http.StatusOK, detail)
}

// Update handles PATCH /v1/groups/{groupId} - update group metadata
func (h *GroupHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	groupID := r.PathValue("groupId")

	var req model.UpdateGroupRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewValidationError("invalid request body"))
		return
	}

	group, err := h.svc.Update(ctx, groupID, userID, &req)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteData(w, http.StatusOK, group)
}

// Delete handles DELETE /v1/groups/{groupId} - delete a group
func (h *GroupHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	groupID := r.PathValue("groupId")

	if err := h.svc.Delete(ctx, groupID, userID); err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteMessage(w, http.StatusOK, "group deleted")
}

// Join handles POST /v1/groups/{groupId}/join - join or request to join
func (h *GroupHandler) Join(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	groupID := r.PathValue("groupId")

	result, err := h.svc.Join(ctx, groupID, userID)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	if result.Outcome == model.JoinOutcomePending {
		WriteJSON(w, http.StatusAccepted, Envelope{
			Success: true,
			Message: "join request pending approval",
			Data:    result,
		})
		return
	}
	WriteData(w, http.StatusOK, result)
}

// Leave handles POST /v1/groups/{groupId}/leave - leave a group
func (h *GroupHandler) Leave(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	groupID := r.PathValue("groupId")

	if err := h.svc.Leave(ctx, groupID, userID); err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteMessage(w, http.StatusOK, "left group")
}

// RemoveMember handles DELETE /v1/groups/{groupId}/members/{memberId}
func (h *GroupHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actorID := middleware.GetUserID(ctx)
	groupID := r.PathValue("groupId")
	targetID := r.PathValue("memberId")

	if err := h.svc.RemoveMember(ctx, groupID, actorID, targetID); err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteMessage(w, http.StatusOK, "member removed")
}

// Promote handles POST /v1/groups/{groupId}/promote/{memberId} - lift a
// member to admin
func (h *GroupHandler) Promote(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actorID := middleware.GetUserID(ctx)
	groupID := r.PathValue("groupId")
	targetID := r.PathValue("memberId")

	if err := h.svc.SetMemberRole(ctx, groupID, actorID, targetID, model.RoleAdmin); err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteMessage(w, http.StatusOK, "member promoted")
}

// Demote handles POST /v1/groups/{groupId}/demote/{memberId} - drop an
// admin back to member
func (h *GroupHandler) Demote(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actorID := middleware.GetUserID(ctx)
	groupID := r.PathValue("groupId")
	targetID := r.PathValue("memberId")

	if err := h.svc.SetMemberRole(ctx, groupID, actorID, targetID, model.RoleMember); err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteMessage(w, http.StatusOK, "member demoted")
}

// TransferOwnership handles POST /v1/groups/{groupId}/transfer-ownership/{newOwnerId}
func (h *GroupHandler) TransferOwnership(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actorID := middleware.GetUserID(ctx)
	groupID := r.PathValue("groupId")
	newOwnerID := r.PathValue("newOwnerId")

	if err := h.svc.TransferOwnership(ctx, groupID, actorID, newOwnerID); err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteMessage(w, http.StatusOK, "ownership transferred")
}

// ListJoinRequests handles GET /v1/groups/{groupId}/requests
func (h *GroupHandler) ListJoinRequests(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actorID := middleware.GetUserID(ctx)
	groupID := r.PathValue("groupId")

	requests, err := h.svc.ListJoinRequests(ctx, groupID, actorID)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteData(w, http.StatusOK, requests)
}

// ApproveJoinRequest handles POST /v1/groups/{groupId}/requests/{userId}/approve
func (h *GroupHandler) ApproveJoinRequest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actorID := middleware.GetUserID(ctx)
	groupID := r.PathValue("groupId")
	requesterID := r.PathValue("userId")

	if err := h.svc.ApproveJoinRequest(ctx, groupID, actorID, requesterID); err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteMessage(w, http.StatusOK, "join request approved")
}

// DenyJoinRequest handles POST /v1/groups/{groupId}/requests/{userId}/deny
func (h *GroupHandler) DenyJoinRequest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actorID := middleware.GetUserID(ctx)
	groupID := r.PathValue("groupId")
	requesterID := r.PathValue("userId")

	if err := h.svc.DenyJoinRequest(ctx, groupID, actorID, requesterID); err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteMessage(w, http.StatusOK, "join request denied")
}
