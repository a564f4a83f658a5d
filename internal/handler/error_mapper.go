package handler

import (
	"errors"
	"log/slog"

	"github.com/gatherly/api/internal/model"
	"github.com/gatherly/api/internal/service"
)

// MapServiceError converts a service error to an APIError. This
// centralizes error handling for all handlers, ensuring consistent HTTP
// status codes across the API and the realtime bridge.
func MapServiceError(err error) *model.APIError {
	if err == nil {
		return nil
	}

	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	switch {
	// ===== Validation Errors → 400 =====
	case errors.Is(err, service.ErrGroupNameRequired),
		errors.Is(err, service.ErrGroupNameTooLong),
		errors.Is(err, service.ErrGroupDescTooLong),
		errors.Is(err, service.ErrInvalidPrivacy),
		errors.Is(err, service.ErrInvalidRole),
		errors.Is(err, service.ErrEventTitleRequired),
		errors.Is(err, service.ErrEventInPast),
		errors.Is(err, service.ErrInvalidCapacity),
		errors.Is(err, service.ErrInvalidRSVPStatus),
		errors.Is(err, service.ErrInvalidVisibility),
		errors.Is(err, service.ErrPollTitleRequired),
		errors.Is(err, service.ErrPollOptionsRequired),
		errors.Is(err, service.ErrPollExpiryInPast),
		errors.Is(err, service.ErrMessageEmpty),
		errors.Is(err, service.ErrMessageTooLong):
		return model.NewValidationError(err.Error())

	// ===== Authorization Errors → 403 =====
	case errors.Is(err, service.ErrNotGroupMember),
		errors.Is(err, service.ErrNotGroupOwner),
		errors.Is(err, service.ErrNotGroupAdmin),
		errors.Is(err, service.ErrNotEventCreator),
		errors.Is(err, service.ErrNotPollCreator),
		errors.Is(err, service.ErrNotMessageSender):
		return model.NewAuthorizationError(err.Error())

	// ===== Not Found Errors → 404 =====
	case errors.Is(err, service.ErrGroupNotFound):
		return model.NewNotFoundError("group")
	case errors.Is(err, service.ErrMemberNotFound):
		return model.NewNotFoundError("member")
	case errors.Is(err, service.ErrJoinRequestNotFound):
		return model.NewNotFoundError("join request")
	case errors.Is(err, service.ErrEventNotFound):
		return model.NewNotFoundError("event")
	case errors.Is(err, service.ErrPollNotFound):
		return model.NewNotFoundError("poll")
	case errors.Is(err, service.ErrPollOptionNotFound):
		return model.NewNotFoundError("poll option")
	case errors.Is(err, service.ErrMessageNotFound):
		return model.NewNotFoundError("message")

	// ===== Conflict Errors → 409 =====
	case errors.Is(err, service.ErrAlreadyGroupMember),
		errors.Is(err, service.ErrJoinAlreadyRequested),
		errors.Is(err, service.ErrOwnerCannotLeave),
		errors.Is(err, service.ErrCannotRemoveOwner),
		errors.Is(err, service.ErrCannotDemoteOwner),
		errors.Is(err, service.ErrTransferTargetNotMember),
		errors.Is(err, service.ErrEventFull),
		errors.Is(err, service.ErrEventCancelled),
		errors.Is(err, service.ErrPollClosed):
		return model.NewConflictError(err.Error())

	// ===== Everything else → 500 =====
	default:
		slog.Error("unhandled service error", slog.String("error", err.Error()))
		return model.NewInternalError("")
	}
}
