package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gatherly/api/internal/model"
)

// PollRepository defines the interface for poll storage
type PollRepository interface {
	Create(ctx context.Context, poll *model.Poll, optionTexts []string) error
	GetByID(ctx context.Context, id string) (*model.Poll, error)
	ListActive(ctx context.Context) ([]*model.Poll, error)
	ListByGroup(ctx context.Context, groupID string) ([]*model.Poll, error)
	CastBallot(ctx context.Context, pollID, optionID, userID string) error
	RemoveBallot(ctx context.Context, pollID, userID string) error
	Close(ctx context.Context, id string) error
	CloseExpired(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, id string) error
}

// PollGroupRepository is the slice of group storage the poll service needs
// for membership checks on group-scoped polls
type PollGroupRepository interface {
	GetByID(ctx context.Context, id string) (*model.Group, error)
	GetMembership(ctx context.Context, groupID, userID string) (*model.Membership, error)
}

// PollService handles poll and ballot business logic. The single-ballot
// invariant lives in the repository's ballot transaction; the service
// enforces the guards around it: poll exists, poll open, option belongs.
type PollService struct {
	repo      PollRepository
	groupRepo PollGroupRepository
}

// PollServiceConfig holds configuration for the poll service
type PollServiceConfig struct {
	PollRepo  PollRepository
	GroupRepo PollGroupRepository
}

// NewPollService creates a new poll service
func NewPollService(cfg PollServiceConfig) *PollService {
	return &PollService{
		repo:      cfg.PollRepo,
		groupRepo: cfg.GroupRepo,
	}
}

// Create creates a poll with its options. Group-scoped polls require the
// caller to be a member of the group.
func (s *PollService) Create(ctx context.Context, userID string, req *model.CreatePollRequest) (*model.Poll, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, ErrPollTitleRequired
	}

	options := make([]string, 0, len(req.Options))
	for _, opt := range req.Options {
		if text := strings.TrimSpace(opt); text != "" {
			options = append(options, text)
		}
	}
	if len(options) < 2 {
		return nil, ErrPollOptionsRequired
	}

	if req.ExpiresAt != nil && req.ExpiresAt.Before(time.Now()) {
		return nil, ErrPollExpiryInPast
	}

	if req.RelatedGroupID != "" {
		if err := s.requireMember(ctx, req.RelatedGroupID, userID); err != nil {
			return nil, err
		}
	}

	poll := &model.Poll{
		Title:          title,
		Description:    req.Description,
		CreatedBy:      userID,
		RelatedEventID: req.RelatedEventID,
		RelatedGroupID: req.RelatedGroupID,
		ExpiresAt:      req.ExpiresAt,
	}

	if err := s.repo.Create(ctx, poll, options); err != nil {
		return nil, fmt.Errorf("failed to create poll: %w", err)
	}

	// reload to pick up the created option records
	created, err := s.repo.GetByID(ctx, poll.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load poll: %w", err)
	}
	return created, nil
}

// Get retrieves a poll with its options and current tallies
func (s *PollService) Get(ctx context.Context, pollID string) (*model.Poll, error) {
	poll, err := s.repo.GetByID(ctx, pollID)
	if err != nil {
		return nil, fmt.Errorf("failed to get poll: %w", err)
	}
	if poll == nil {
		return nil, ErrPollNotFound
	}
	return poll, nil
}

// ListActive retrieves all open polls
func (s *PollService) ListActive(ctx context.Context) ([]*model.Poll, error) {
	polls, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list polls: %w", err)
	}
	return polls, nil
}

// ListByGroup retrieves a group's polls. Requires group membership.
func (s *PollService) ListByGroup(ctx context.Context, groupID, userID string) ([]*model.Poll, error) {
	if err := s.requireMember(ctx, groupID, userID); err != nil {
		return nil, err
	}

	polls, err := s.repo.ListByGroup(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list polls: %w", err)
	}
	return polls, nil
}

// Vote casts the caller's ballot for an option. A user holds at most one
// ballot per poll: voting again moves the ballot, and the strip-then-add
// runs atomically so no interleaving can leave a user on two options.
// Returns the poll with updated tallies.
func (s *PollService) Vote(ctx context.Context, pollID, userID string, req *model.VoteRequest) (*model.Poll, error) {
	poll, err := s.repo.GetByID(ctx, pollID)
	if err != nil {
		return nil, fmt.Errorf("failed to get poll: %w", err)
	}
	if poll == nil {
		return nil, ErrPollNotFound
	}
	if !poll.Open() {
		return nil, ErrPollClosed
	}
	if !poll.HasOption(req.OptionID) {
		return nil, ErrPollOptionNotFound
	}

	if err := s.repo.CastBallot(ctx, pollID, req.OptionID, userID); err != nil {
		return nil, fmt.Errorf("failed to cast ballot: %w", err)
	}

	return s.Get(ctx, pollID)
}

// RemoveVote retracts the caller's ballot across the whole poll. Removing
// a ballot that was never cast is a no-op. Returns the poll with updated
// tallies.
func (s *PollService) RemoveVote(ctx context.Context, pollID, userID string) (*model.Poll, error) {
	poll, err := s.repo.GetByID(ctx, pollID)
	if err != nil {
		return nil, fmt.Errorf("failed to get poll: %w", err)
	}
	if poll == nil {
		return nil, ErrPollNotFound
	}
	if !poll.Open() {
		return nil, ErrPollClosed
	}

	if err := s.repo.RemoveBallot(ctx, pollID, userID); err != nil {
		return nil, fmt.Errorf("failed to remove ballot: %w", err)
	}

	return s.Get(ctx, pollID)
}

// Close marks a poll inactive. Only the creator may close it. Ballots are
// frozen as the final tally. Returns the closed poll.
func (s *PollService) Close(ctx context.Context, pollID, userID string) (*model.Poll, error) {
	poll, err := s.repo.GetByID(ctx, pollID)
	if err != nil {
		return nil, fmt.Errorf("failed to get poll: %w", err)
	}
	if poll == nil {
		return nil, ErrPollNotFound
	}
	if poll.CreatedBy != userID {
		return nil, ErrNotPollCreator
	}
	if !poll.IsActive {
		return nil, ErrPollClosed
	}

	if err := s.repo.Close(ctx, pollID); err != nil {
		return nil, fmt.Errorf("failed to close poll: %w", err)
	}

	poll.IsActive = false
	return poll, nil
}

// Delete removes a poll and its options. Only the creator may delete.
func (s *PollService) Delete(ctx context.Context, pollID, userID string) error {
	poll, err := s.repo.GetByID(ctx, pollID)
	if err != nil {
		return fmt.Errorf("failed to get poll: %w", err)
	}
	if poll == nil {
		return ErrPollNotFound
	}
	if poll.CreatedBy != userID {
		return ErrNotPollCreator
	}

	if err := s.repo.Delete(ctx, pollID); err != nil {
		return fmt.Errorf("failed to delete poll: %w", err)
	}
	return nil
}

// CloseExpired closes every active poll whose expiry has passed. Used by
// the background sweeper; returns the ids of the polls it closed.
func (s *PollService) CloseExpired(ctx context.Context) ([]string, error) {
	ids, err := s.repo.CloseExpired(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to close expired polls: %w", err)
	}
	return ids, nil
}

func (s *PollService) requireMember(ctx context.Context, groupID, userID string) error {
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
