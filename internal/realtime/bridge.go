package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/gatherly/api/internal/model"
)

// Intent types accepted from clients
const (
	IntentJoinGroupRoom  = "joinGroupRoom"
	IntentLeaveGroupRoom = "leaveGroupRoom"
	IntentSendMessage    = "sendMessage"
	IntentVotePoll       = "votePoll"
	IntentRemoveVote     = "removeVote"
	IntentClosePoll      = "closePoll"
	IntentUpdateRSVP     = "updateRSVP"
	IntentRemoveRSVP     = "removeRSVP"
)

// Event types broadcast to clients
const (
	EventRoomJoined  = "roomJoined"
	EventRoomLeft    = "roomLeft"
	EventNewMessage  = "newMessage"
	EventPollUpdated = "pollUpdated"
	EventRSVPUpdated = "rsvpUpdated"
	EventError       = "error"
)

// Intent is the frame clients send over the websocket
type Intent struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// BridgeGroupService is the slice of group logic the bridge needs
type BridgeGroupService interface {
	IsMember(ctx context.Context, groupID, userID string) (bool, error)
}

// BridgeMessageService is the slice of message logic the bridge needs
type BridgeMessageService interface {
	Send(ctx context.Context, userID string, req *model.SendMessageRequest) (*model.Message, error)
}

// BridgePollService is the slice of poll logic the bridge needs
type BridgePollService interface {
	Get(ctx context.Context, pollID string) (*model.Poll, error)
	Vote(ctx context.Context, pollID, userID string, req *model.VoteRequest) (*model.Poll, error)
	RemoveVote(ctx context.Context, pollID, userID string) (*model.Poll, error)
	Close(ctx context.Context, pollID, userID string) (*model.Poll, error)
}

// BridgeEventService is the slice of event logic the bridge needs
type BridgeEventService interface {
	RSVP(ctx context.Context, eventID, userID string, req *model.RSVPRequest) (*model.RSVP, error)
	RemoveRSVP(ctx context.Context, eventID, userID string) error
	Get(ctx context.Context, eventID, userID string) (*model.Event, error)
}

// Bridge dispatches websocket intents to the service layer and broadcasts
// the resulting state changes. It holds no state of its own; every
// mutation runs through the same services the HTTP handlers use.
type Bridge struct {
	hub      *Hub
	groups   BridgeGroupService
	messages BridgeMessageService
	polls    BridgePollService
	events   BridgeEventService
	logger   *slog.Logger
}

// BridgeConfig holds configuration for the bridge
type BridgeConfig struct {
	Hub            *Hub
	GroupService   BridgeGroupService
	MessageService BridgeMessageService
	PollService    BridgePollService
	EventService   BridgeEventService
	Logger         *slog.Logger
}

// NewBridge creates a new bridge
func NewBridge(cfg BridgeConfig) *Bridge {
	return &Bridge{
		hub:      cfg.Hub,
		groups:   cfg.GroupService,
		messages: cfg.MessageService,
		polls:    cfg.PollService,
		events:   cfg.EventService,
		logger:   cfg.Logger,
	}
}

// Dispatch routes one intent frame from a client. Malformed frames and
// service failures produce an error event for the originating client only;
// nothing is broadcast unless the mutation succeeded.
func (b *Bridge) Dispatch(ctx context.Context, c *Client, frame []byte) {
	var intent Intent
	if err := json.Unmarshal(frame, &intent); err != nil {
		b.sendError(c, "malformed frame")
		return
	}

	switch intent.Type {
	case IntentJoinGroupRoom:
		b.handleJoinRoom(ctx, c, intent.Data)
	case IntentLeaveGroupRoom:
		b.handleLeaveRoom(c, intent.Data)
	case IntentSendMessage:
		b.handleSendMessage(ctx, c, intent.Data)
	case IntentVotePoll:
		b.handleVotePoll(ctx, c, intent.Data)
	case IntentRemoveVote:
		b.handleRemoveVote(ctx, c, intent.Data)
	case IntentClosePoll:
		b.handleClosePoll(ctx, c, intent.Data)
	case IntentUpdateRSVP:
		b.handleUpdateRSVP(ctx, c, intent.Data)
	case IntentRemoveRSVP:
		b.handleRemoveRSVP(ctx, c, intent.Data)
	default:
		b.sendError(c, "unknown intent type")
	}
}

type roomPayload struct {
	GroupID string `json:"group_id"`
}

func (b *Bridge) handleJoinRoom(ctx context.Context, c *Client, data json.RawMessage) {
	var payload roomPayload
	if err := json.Unmarshal(data, &payload); err != nil || payload.GroupID == "" {
		b.sendError(c, "group_id is required")
		return
	}

	// room membership mirrors group membership
	isMember, err := b.groups.IsMember(ctx, payload.GroupID, c.UserID)
	if err != nil {
		b.logger.Error("membership check failed",
			slog.String("group_id", payload.GroupID),
			slog.String("error", err.Error()))
		b.sendError(c, "could not verify membership")
		return
	}
	if !isMember {
		b.sendError(c, "not a member of this group")
		return
	}

	b.hub.JoinRoom(payload.GroupID, c)
	b.hub.Send(c, &Event{Type: EventRoomJoined, Data: payload})
}

func (b *Bridge) handleLeaveRoom(c *Client, data json.RawMessage) {
	var payload roomPayload
	if err := json.Unmarshal(data, &payload); err != nil || payload.GroupID == "" {
		b.sendError(c, "group_id is required")
		return
	}

	b.hub.LeaveRoom(payload.GroupID, c)
	b.hub.Send(c, &Event{Type: EventRoomLeft, Data: payload})
}

func (b *Bridge) handleSendMessage(ctx context.Context, c *Client, data json.RawMessage) {
	var req model.SendMessageRequest
	if err := json.Unmarshal(data, &req); err != nil || req.GroupID == "" {
		b.sendError(c, "group_id and content are required")
		return
	}

	msg, err := b.messages.Send(ctx, c.UserID, &req)
	if err != nil {
		b.sendError(c, serviceErrorText(err))
		return
	}

	b.hub.BroadcastRoom(msg.GroupID, &Event{Type: EventNewMessage, Data: msg})
}

type votePayload struct {
	PollID   string `json:"poll_id"`
	OptionID string `json:"option_id"`
}

func (b *Bridge) handleVotePoll(ctx context.Context, c *Client, data json.RawMessage) {
	var payload votePayload
	if err := json.Unmarshal(data, &payload); err != nil || payload.PollID == "" {
		b.sendError(c, "poll_id and option_id are required")
		return
	}

	poll, err := b.polls.Vote(ctx, payload.PollID, c.UserID, &model.VoteRequest{OptionID: payload.OptionID})
	if err != nil {
		b.sendError(c, serviceErrorText(err))
		return
	}

	b.hub.BroadcastAll(&Event{Type: EventPollUpdated, Data: poll})
}

func (b *Bridge) handleRemoveVote(ctx context.Context, c *Client, data json.RawMessage) {
	var payload votePayload
	if err := json.Unmarshal(data, &payload); err != nil || payload.PollID == "" {
		b.sendError(c, "poll_id is required")
		return
	}

	poll, err := b.polls.RemoveVote(ctx, payload.PollID, c.UserID)
	if err != nil {
		b.sendError(c, serviceErrorText(err))
		return
	}

	b.hub.BroadcastAll(&Event{Type: EventPollUpdated, Data: poll})
}

func (b *Bridge) handleClosePoll(ctx context.Context, c *Client, data json.RawMessage) {
	var payload votePayload
	if err := json.Unmarshal(data, &payload); err != nil || payload.PollID == "" {
		b.sendError(c, "poll_id is required")
		return
	}

	poll, err := b.polls.Close(ctx, payload.PollID, c.UserID)
	if err != nil {
		b.sendError(c, serviceErrorText(err))
		return
	}

	b.hub.BroadcastAll(&Event{Type: EventPollUpdated, Data: poll})
}

type rsvpPayload struct {
	EventID string `json:"event_id"`
	Status  string `json:"status"`
}

func (b *Bridge) handleUpdateRSVP(ctx context.Context, c *Client, data json.RawMessage) {
	var payload rsvpPayload
	if err := json.Unmarshal(data, &payload); err != nil || payload.EventID == "" {
		b.sendError(c, "event_id and status are required")
		return
	}

	if _, err := b.events.RSVP(ctx, payload.EventID, c.UserID, &model.RSVPRequest{Status: payload.Status}); err != nil {
		b.sendError(c, serviceErrorText(err))
		return
	}

	b.broadcastEventState(ctx, c, payload.EventID)
}

func (b *Bridge) handleRemoveRSVP(ctx context.Context, c *Client, data json.RawMessage) {
	var payload rsvpPayload
	if err := json.Unmarshal(data, &payload); err != nil || payload.EventID == "" {
		b.sendError(c, "event_id is required")
		return
	}

	if err := b.events.RemoveRSVP(ctx, payload.EventID, c.UserID); err != nil {
		b.sendError(c, serviceErrorText(err))
		return
	}

	b.broadcastEventState(ctx, c, payload.EventID)
}

// broadcastEventState reloads the event so the frame carries fresh
// attendance counts. Group-scoped events notify the group room; ungrouped
// events notify everyone.
func (b *Bridge) broadcastEventState(ctx context.Context, c *Client, eventID string) {
	event, err := b.events.Get(ctx, eventID, c.UserID)
	if err != nil {
		b.logger.Error("failed to load event after rsvp change",
			slog.String("event_id", eventID),
			slog.String("error", err.Error()))
		return
	}
	frame := &Event{Type: EventRSVPUpdated, Data: event}
	if event.GroupID != "" {
		b.hub.BroadcastRoom(event.GroupID, frame)
		return
	}
	b.hub.BroadcastAll(frame)
}

// PollClosed broadcasts the final state of a poll closed outside a client
// intent, such as by the expiry sweeper.
func (b *Bridge) PollClosed(ctx context.Context, pollID string) {
	poll, err := b.polls.Get(ctx, pollID)
	if err != nil {
		b.logger.Error("failed to load closed poll",
			slog.String("poll_id", pollID),
			slog.String("error", err.Error()))
		return
	}
	b.hub.BroadcastAll(&Event{Type: EventPollUpdated, Data: poll})
}

func (b *Bridge) sendError(c *Client, message string) {
	b.hub.Send(c, &Event{Type: EventError, Error: message})
}

// serviceErrorText keeps sentinel messages and hides wrapped internals
func serviceErrorText(err error) string {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	if wrapped := errors.Unwrap(err); wrapped == nil {
		// sentinel errors carry safe, user-facing text
		return err.Error()
	}
	return "operation failed"
}
