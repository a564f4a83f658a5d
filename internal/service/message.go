package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/gatherly/api/internal/model"
)

const maxMessageLength = 2000

// MessageRepository defines the interface for message storage
type MessageRepository interface {
	Create(ctx context.Context, msg *model.Message) error
	GetByID(ctx context.Context, id string) (*model.Message, error)
	ListByGroup(ctx context.Context, groupID string, limit int) ([]*model.Message, error)
	Delete(ctx context.Context, id string) error
	DeleteByGroup(ctx context.Context, groupID string) error
}

// MessageGroupRepository is the slice of group storage the message service
// needs for membership checks
type MessageGroupRepository interface {
	GetByID(ctx context.Context, id string) (*model.Group, error)
	GetMembership(ctx context.Context, groupID, userID string) (*model.Membership, error)
}

// MessageService handles group chat business logic. Messages are only
// readable and writable by members of the group.
type MessageService struct {
	repo      MessageRepository
	groupRepo MessageGroupRepository
}

// MessageServiceConfig holds configuration for the message service
type MessageServiceConfig struct {
	MessageRepo MessageRepository
	GroupRepo   MessageGroupRepository
}

// NewMessageService creates a new message service
func NewMessageService(cfg MessageServiceConfig) *MessageService {
	return &MessageService{
		repo:      cfg.MessageRepo,
		groupRepo: cfg.GroupRepo,
	}
}

// Send persists a message to a group's chat. The sender must be a member.
func (s *MessageService) Send(ctx context.Context, userID string, req *model.SendMessageRequest) (*model.Message, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, ErrMessageEmpty
	}
	if len(content) > maxMessageLength {
		return nil, ErrMessageTooLong
	}

	if err := s.requireMember(ctx, req.GroupID, userID); err != nil {
		return nil, err
	}

	msg := &model.Message{
		GroupID:  req.GroupID,
		SenderID: userID,
		Content:  content,
	}

	if err := s.repo.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("failed to create message: %w", err)
	}
	return msg, nil
}

// History retrieves a group's recent messages in chronological order.
// The caller must be a member.
func (s *MessageService) History(ctx context.Context, groupID, userID string, limit int) ([]*model.Message, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	if err := s.requireMember(ctx, groupID, userID); err != nil {
		return nil, err
	}

	messages, err := s.repo.ListByGroup(ctx, groupID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return messages, nil
}

// Delete removes a message. Only the sender may delete it.
func (s *MessageService) Delete(ctx context.Context, messageID, userID string) error {
	msg, err := s.repo.GetByID(ctx, messageID)
	if err != nil {
		return fmt.Errorf("failed to get message: %w", err)
	}
	if msg == nil {
		return ErrMessageNotFound
	}
	if msg.SenderID != userID {
		return ErrNotMessageSender
	}

	if err := s.repo.Delete(ctx, messageID); err != nil {
		return fmt.Errorf("failed to delete message: %w", err)
	}
	return nil
}

func (s *MessageService) requireMember(ctx context.Context, groupID, userID string) error {
	group, err := s.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		return fmt.Errorf("failed to get group: %w", err)
	}
	if group == nil {
		return ErrGroupNotFound
	}
	membership, err := s.groupRepo.GetMembership(ctx, groupID, userID)
	if err != nil {
		return fmt.Errorf("failed to check membership: %w", err)
	}
	if membership == nil {
		return ErrNotGroupMember
	}
	return nil
}
