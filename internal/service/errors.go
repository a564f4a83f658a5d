package service

import "errors"

// Centralized service layer errors.
// All errors returned by service methods are defined here for consistency
// and to make error handling in handlers and the realtime bridge predictable.

// ===== Group Errors =====
var (
	ErrGroupNotFound        = errors.New("group not found")
	ErrGroupNameRequired    = errors.New("group name is required")
	ErrGroupNameTooLong     = errors.New("group name exceeds maximum length")
	ErrGroupDescTooLong     = errors.New("group description exceeds maximum length")
	ErrInvalidPrivacy       = errors.New("invalid privacy setting")
	ErrInvalidRole          = errors.New("invalid member role")
	ErrNotGroupMember       = errors.New("not a member of this group")
	ErrMemberNotFound       = errors.New("member not found")
	ErrNotGroupOwner        = errors.New("only the group owner may perform this action")
	ErrNotGroupAdmin        = errors.New("not authorized to perform this action")
	ErrAlreadyGroupMember   = errors.New("already a member of this group")
	ErrJoinAlreadyRequested = errors.New("join request already pending")
	ErrJoinRequestNotFound  = errors.New("join request not found")
	ErrOwnerCannotLeave     = errors.New("owner must transfer ownership before leaving")
	ErrCannotRemoveOwner    = errors.New("the owner cannot be removed from the group")
	ErrCannotDemoteOwner    = errors.New("the owner's role cannot be changed")
	ErrTransferTargetNotMember = errors.New("new owner must already be a member")
)

// ===== Event Errors =====
var (
	ErrEventNotFound     = errors.New("event not found")
	ErrEventTitleRequired = errors.New("event title is required")
	ErrEventInPast       = errors.New("event start time must be in the future")
	ErrEventCancelled    = errors.New("event is cancelled")
	ErrEventFull         = errors.New("event is full")
	ErrInvalidCapacity   = errors.New("capacity must be positive")
	ErrInvalidRSVPStatus = errors.New("invalid RSVP status")
	ErrInvalidVisibility = errors.New("invalid visibility setting")
	ErrNotEventCreator   = errors.New("only the event creator may perform this action")
)

// ===== Poll Errors =====
var (
	ErrPollNotFound        = errors.New("poll not found")
	ErrPollTitleRequired   = errors.New("poll title is required")
	ErrPollOptionsRequired = errors.New("a poll needs at least two options")
	ErrPollClosed          = errors.New("poll is closed")
	ErrPollOptionNotFound  = errors.New("poll option not found")
	ErrNotPollCreator      = errors.New("only the poll creator may perform this action")
	ErrPollExpiryInPast    = errors.New("poll expiry must be in the future")
)

// ===== Message Errors =====
var (
	ErrMessageEmpty     = errors.New("message content is required")
	ErrMessageTooLong   = errors.New("message content exceeds maximum length")
	ErrMessageNotFound  = errors.New("message not found")
	ErrNotMessageSender = errors.New("only the sender may delete a message")
)
