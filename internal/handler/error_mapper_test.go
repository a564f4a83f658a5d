package handler

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/gatherly/api/internal/model"
	"github.com/gatherly/api/internal/service"
)

func TestMapServiceError_StatusCodes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"nil error", nil, 0},
		{"group name required", service.ErrGroupNameRequired, http.StatusBadRequest},
		{"invalid privacy", service.ErrInvalidPrivacy, http.StatusBadRequest},
		{"event in past", service.ErrEventInPast, http.StatusBadRequest},
		{"invalid rsvp status", service.ErrInvalidRSVPStatus, http.StatusBadRequest},
		{"poll options required", service.ErrPollOptionsRequired, http.StatusBadRequest},
		{"message empty", service.ErrMessageEmpty, http.StatusBadRequest},
		{"not group member", service.ErrNotGroupMember, http.StatusForbidden},
		{"not group owner", service.ErrNotGroupOwner, http.StatusForbidden},
		{"not event creator", service.ErrNotEventCreator, http.StatusForbidden},
		{"not poll creator", service.ErrNotPollCreator, http.StatusForbidden},
		{"not message sender", service.ErrNotMessageSender, http.StatusForbidden},
		{"group not found", service.ErrGroupNotFound, http.StatusNotFound},
		{"member not found", service.ErrMemberNotFound, http.StatusNotFound},
		{"join request not found", service.ErrJoinRequestNotFound, http.StatusNotFound},
		{"event not found", service.ErrEventNotFound, http.StatusNotFound},
		{"poll not found", service.ErrPollNotFound, http.StatusNotFound},
		{"poll option not found", service.ErrPollOptionNotFound, http.StatusNotFound},
		{"message not found", service.ErrMessageNotFound, http.StatusNotFound},
		{"already member", service.ErrAlreadyGroupMember, http.StatusConflict},
		{"join already requested", service.ErrJoinAlreadyRequested, http.StatusConflict},
		{"owner cannot leave", service.ErrOwnerCannotLeave, http.StatusConflict},
		{"transfer target not member", service.ErrTransferTargetNotMember, http.StatusConflict},
		{"event full", service.ErrEventFull, http.StatusConflict},
		{"event cancelled", service.ErrEventCancelled, http.StatusConflict},
		{"poll closed", service.ErrPollClosed, http.StatusConflict},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			apiErr := MapServiceError(tc.err)
			if tc.err == nil {
				if apiErr != nil {
					t.Errorf("expected nil for nil error, got %+v", apiErr)
				}
				return
			}
			if apiErr.Status != tc.status {
				t.Errorf("expected status %d, got %d", tc.status, apiErr.Status)
			}
		})
	}
}

func TestMapServiceError_WrappedSentinel_StillMatches(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("while voting: %w", service.ErrPollClosed)
	apiErr := MapServiceError(err)
	if apiErr.Status != http.StatusConflict {
		t.Errorf("expected wrapped sentinel to map to 409, got %d", apiErr.Status)
	}
}

func TestMapServiceError_APIErrorPassthrough(t *testing.T) {
	t.Parallel()

	original := model.NewUnauthorizedError("missing token")
	apiErr := MapServiceError(original)
	if apiErr != original {
		t.Errorf("expected API error passed through untouched, got %+v", apiErr)
	}
}
