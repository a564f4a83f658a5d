package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gatherly/api/internal/database"
	"github.com/gatherly/api/internal/model"
)

const (
	maxGroupNameLength = 100
	maxGroupDescLength = 1000
)

// GroupRepository defines the interface for group storage
type GroupRepository interface {
	Create(ctx context.Context, group *model.Group) error
	GetByID(ctx context.Context, id string) (*model.Group, error)
	Update(ctx context.Context, group *model.Group) error
	Delete(ctx context.Context, id string) error
	ListPublic(ctx context.Context) ([]*model.Group, error)
	GetMembership(ctx context.Context, groupID, userID string) (*model.Membership, error)
	GetMembers(ctx context.Context, groupID string) ([]*model.Membership, error)
	AddMembership(ctx context.Context, m *model.Membership) error
	RemoveMembership(ctx context.Context, groupID, userID string) error
	UpdateMembershipRole(ctx context.Context, groupID, userID string, role model.MemberRole) error
	TransferOwnership(ctx context.Context, groupID, newOwnerID string) error
	GetJoinRequest(ctx context.Context, groupID, userID string) (*model.JoinRequest, error)
	ListJoinRequests(ctx context.Context, groupID string) ([]*model.JoinRequest, error)
	CreateJoinRequest(ctx context.Context, jr *model.JoinRequest) error
	DeleteJoinRequest(ctx context.Context, groupID, userID string) error
	ApproveJoinRequest(ctx context.Context, groupID, userID string) error
}

// GroupMessageRepository is the slice of message storage the group service
// needs for cascade cleanup on delete
type GroupMessageRepository interface {
	DeleteByGroup(ctx context.Context, groupID string) error
}

// GroupService handles group and membership business logic
type GroupService struct {
	repo    GroupRepository
	msgRepo GroupMessageRepository
}

// GroupServiceConfig holds configuration for the group service
type GroupServiceConfig struct {
	GroupRepo   GroupRepository
	MessageRepo GroupMessageRepository
}

// NewGroupService creates a new group service
func NewGroupService(cfg GroupServiceConfig) *GroupService {
	return &GroupService{
		repo:    cfg.GroupRepo,
		msgRepo: cfg.MessageRepo,
	}
}

// Create creates a group owned by the caller. The owner's admin membership
// is written in the same transaction as the group itself.
func (s *GroupService) Create(ctx context.Context, userID string, req *model.CreateGroupRequest) (*model.Group, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrGroupNameRequired
	}
	if len(name) > maxGroupNameLength {
		return nil, ErrGroupNameTooLong
	}
	if len(req.Description) > maxGroupDescLength {
		return nil, ErrGroupDescTooLong
	}

	privacy := model.PrivacyPublic
	if req.Privacy != "" {
		privacy = model.Privacy(req.Privacy)
		if !privacy.IsValid() {
			return nil, ErrInvalidPrivacy
		}
	}

	group := &model.Group{
		Name:        name,
		Description: req.Description,
		OwnerID:     userID,
		Privacy:     privacy,
		Tags:        req.Tags,
	}

	if err := s.repo.Create(ctx, group); err != nil {
		return nil, fmt.Errorf("failed to create group: %w", err)
	}
	return group, nil
}

// Get retrieves a group with its member list. Secret groups are only
// visible to members.
func (s *GroupService) Get(ctx context.Context, groupID, userID string) (*model.GroupDetail, error) {
	group, err := s.repo.GetByID(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}
	if group == nil {
		return nil, ErrGroupNotFound
	}

	membership, err := s.repo.GetMembership(ctx, groupID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}

	// secret groups are indistinguishable from absent ones for outsiders
	if group.Privacy == model.PrivacySecret && membership == nil {
		return nil, ErrGroupNotFound
	}

	members, err := s.repo.GetMembers(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to get members: %w", err)
	}

	detail := &model.GroupDetail{Group: *group, Members: make([]model.Membership, 0, len(members))}
	for _, m := range members {
		detail.Members = append(detail.Members, *m)
	}
	return detail, nil
}

// List retrieves all public groups
func (s *GroupService) List(ctx context.Context) ([]*model.Group, error) {
	groups, err := s.repo.ListPublic(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	return groups, nil
}

// Update changes group metadata. Only the owner or an admin may update.
func (s *GroupService) Update(ctx context.Context, groupID, userID string, req *model.UpdateGroupRequest) (*model.Group, error) {
	group, err := s.repo.GetByID(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}
	if group == nil {
		return nil, ErrGroupNotFound
	}

	if err := s.requireAdmin(ctx, group, userID); err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, ErrGroupNameRequired
		}
		if len(name) > maxGroupNameLength {
			return nil, ErrGroupNameTooLong
		}
		group.Name = name
	}
	if req.Description != nil {
		if len(*req.Description) > maxGroupDescLength {
			return nil, ErrGroupDescTooLong
		}
		group.Description = *req.Description
	}
	if req.Tags != nil {
		group.Tags = req.Tags
	}

	if err := s.repo.Update(ctx, group); err != nil {
		return nil, fmt.Errorf("failed to update group: %w", err)
	}
	return group, nil
}

// Delete removes a group, its memberships, join requests and messages.
// Only the owner may delete.
func (s *GroupService) Delete(ctx context.Context, groupID, userID string) error {
	group, err := s.repo.GetByID(ctx, groupID)
	if err != nil {
		return fmt.Errorf("failed to get group: %w", err)
	}
	if group == nil {
		return ErrGroupNotFound
	}
	if group.OwnerID != userID {
		return ErrNotGroupOwner
	}

	if s.msgRepo != nil {
		if err := s.msgRepo.DeleteByGroup(ctx, groupID); err != nil {
			return fmt.Errorf("failed to delete group messages: %w", err)
		}
	}
	if err := s.repo.Delete(ctx, groupID); err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
	}
	return nil
}

// Join adds the caller to a public group immediately, or parks them in a
// join request for private and secret groups. Repeat joins and repeat
// requests are rejected as conflicts.
func (s *GroupService) Join(ctx context.Context, groupID, userID string) (*model.JoinResult, error) {
	group, err := s.repo.GetByID(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}
	if group == nil {
		return nil, ErrGroupNotFound
	}

	membership, err := s.repo.GetMembership(ctx, groupID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}
	if membership != nil {
		return nil, ErrAlreadyGroupMember
	}

	if group.Privacy.RequiresApproval() {
		existing, err := s.repo.GetJoinRequest(ctx, groupID, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to check join request: %w", err)
		}
		if existing != nil {
			return nil, ErrJoinAlreadyRequested
		}
		if err := s.repo.CreateJoinRequest(ctx, &model.JoinRequest{GroupID: groupID, UserID: userID}); err != nil {
			// A racing duplicate resolves to the same conflict the pre-check catches.
			if errors.Is(err, database.ErrDuplicate) {
				return nil, ErrJoinAlreadyRequested
			}
			return nil, fmt.Errorf("failed to create join request: %w", err)
		}
		return &model.JoinResult{Outcome: model.JoinOutcomePending}, nil
	}

	if err := s.repo.AddMembership(ctx, &model.Membership{
		GroupID: groupID,
		UserID:  userID,
		Role:    model.RoleMember,
	}); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, ErrAlreadyGroupMember
		}
		return nil, fmt.Errorf("failed to add membership: %w", err)
	}
	return &model.JoinResult{Outcome: model.JoinOutcomeJoined, Group: group}, nil
}

// Leave removes the caller's membership. The owner cannot leave; they must
// transfer ownership first.
func (s *GroupService) Leave(ctx context.Context, groupID, userID string) error {
	group, err := s.repo.GetByID(ctx, groupID)
	if err != nil {
		return fmt.Errorf("failed to get group: %w", err)
	}
	if group == nil {
		return ErrGroupNotFound
	}
	if group.OwnerID == userID {
		return ErrOwnerCannotLeave
	}

	membership, err := s.repo.GetMembership(ctx, groupID, userID)
	if err != nil {
		return fmt.Errorf("failed to check membership: %w", err)
	}
	if membership == nil {
		return ErrNotGroupMember
	}

	if err := s.repo.RemoveMembership(ctx, groupID, userID); err != nil {
		return fmt.Errorf("failed to remove membership: %w", err)
	}
	return nil
}

// RemoveMember ejects a member. Only the owner or an admin may remove, and
// the owner can never be removed.
func (s *GroupService) RemoveMember(ctx context.Context, groupID, actorID, targetID string) error {
	group, err := s.repo.GetByID(ctx, groupID)
	if err != nil {
		return fmt.Errorf("failed to get group: %w", err)
	}
	if group == nil {
		return ErrGroupNotFound
	}
	if err := s.requireAdmin(ctx, group, actorID); err != nil {
		return err
	}
	if targetID == group.OwnerID {
		return ErrCannotRemoveOwner
	}

	membership, err := s.repo.GetMembership(ctx, groupID, targetID)
	if err != nil {
		return fmt.Errorf("failed to check membership: %w", err)
	}
	if membership == nil {
		return ErrMemberNotFound
	}

	if err := s.repo.RemoveMembership(ctx, groupID, targetID); err != nil {
		return fmt.Errorf("failed to remove membership: %w", err)
	}
	return nil
}

// SetMemberRole promotes or demotes a member. Only the owner may change
// roles, and the owner's own role is fixed.
func (s *GroupService) SetMemberRole(ctx context.Context, groupID, actorID, targetID string, role model.MemberRole) error {
	if !role.IsValid() {
		return ErrInvalidRole
	}

	group, err := s.repo.GetByID(ctx, groupID)
	if err != nil {
		return fmt.Errorf("failed to get group: %w", err)
	}
	if group == nil {
		return ErrGroupNotFound
	}
	if group.OwnerID != actorID {
		return ErrNotGroupOwner
	}
	if targetID == group.OwnerID {
		return ErrCannotDemoteOwner
	}

	membership, err := s.repo.GetMembership(ctx, groupID, targetID)
	if err != nil {
		return fmt.Errorf("failed to check membership: %w", err)
	}
	if membership == nil {
		return ErrMemberNotFound
	}

	if err := s.repo.UpdateMembershipRole(ctx, groupID, targetID, role); err != nil {
		return fmt.Errorf("failed to update role: %w", err)
	}
	return nil
}

// TransferOwnership hands the group to another existing member. The new
// owner is lifted to admin in the same transaction; the old owner keeps an
// ordinary membership and may now leave.
func (s *GroupService) TransferOwnership(ctx context.Context, groupID, actorID, newOwnerID string) error {
	group, err := s.repo.GetByID(ctx, groupID)
	if err != nil {
		return fmt.Errorf("failed to get group: %w", err)
	}
	if group == nil {
		return ErrGroupNotFound
	}
	if group.OwnerID != actorID {
		return ErrNotGroupOwner
	}

	membership, err := s.repo.GetMembership(ctx, groupID, newOwnerID)
	if err != nil {
		return fmt.Errorf("failed to check membership: %w", err)
	}
	if membership == nil {
		return ErrTransferTargetNotMember
	}

	if err := s.repo.TransferOwnership(ctx, groupID, newOwnerID); err != nil {
		return fmt.Errorf("failed to transfer ownership: %w", err)
	}
	return nil
}

// ListJoinRequests retrieves a group's pending join requests for review.
// Only the owner or an admin may list them.
func (s *GroupService) ListJoinRequests(ctx context.Context, groupID, actorID string) ([]*model.JoinRequest, error) {
	group, err := s.repo.GetByID(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}
	if group == nil {
		return nil, ErrGroupNotFound
	}
	if err := s.requireAdmin(ctx, group, actorID); err != nil {
		return nil, err
	}

	requests, err := s.repo.ListJoinRequests(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list join requests: %w", err)
	}
	return requests, nil
}

// ApproveJoinRequest converts a pending request into a member-role
// membership. Only the owner or an admin may approve.
func (s *GroupService) ApproveJoinRequest(ctx context.Context, groupID, actorID, requesterID string) error {
	group, err := s.repo.GetByID(ctx, groupID)
	if err != nil {
		return fmt.Errorf("failed to get group: %w", err)
	}
	if group == nil {
		return ErrGroupNotFound
	}
	if err := s.requireAdmin(ctx, group, actorID); err != nil {
		return err
	}

	request, err := s.repo.GetJoinRequest(ctx, groupID, requesterID)
	if err != nil {
		return fmt.Errorf("failed to get join request: %w", err)
	}
	if request == nil {
		return ErrJoinRequestNotFound
	}

	if err := s.repo.ApproveJoinRequest(ctx, groupID, requesterID); err != nil {
		return fmt.Errorf("failed to approve join request: %w", err)
	}
	return nil
}

// DenyJoinRequest discards a pending request. Only the owner or an admin
// may deny.
func (s *GroupService) DenyJoinRequest(ctx context.Context, groupID, actorID, requesterID string) error {
	group, err := s.repo.GetByID(ctx, groupID)
	if err != nil {
		return fmt.Errorf("failed to get group: %w", err)
	}
	if group == nil {
		return ErrGroupNotFound
	}
	if err := s.requireAdmin(ctx, group, actorID); err != nil {
		return err
	}

	request, err := s.repo.GetJoinRequest(ctx, groupID, requesterID)
	if err != nil {
		return fmt.Errorf("failed to get join request: %w", err)
	}
	if request == nil {
		return ErrJoinRequestNotFound
	}

	if err := s.repo.DeleteJoinRequest(ctx, groupID, requesterID); err != nil {
		return fmt.Errorf("failed to deny join request: %w", err)
	}
	return nil
}

// IsMember reports whether a user holds a membership in a group
func (s *GroupService) IsMember(ctx context.Context, groupID, userID string) (bool, error) {
	membership, err := s.repo.GetMembership(ctx, groupID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to check membership: %w", err)
	}
	return membership != nil, nil
}

// requireAdmin allows the owner and admin-role members through
func (s *GroupService) requireAdmin(ctx context.Context, group *model.Group, userID string) error {
	if group.OwnerID == userID {
		return nil
	}
	membership, err := s.repo.GetMembership(ctx, group.ID, userID)
	if err != nil {
		return fmt.Errorf("failed to check membership: %w", err)
	}
	if membership == nil || membership.Role != model.RoleAdmin {
		return ErrNotGroupAdmin
	}
	return nil
}
