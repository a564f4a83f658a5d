package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gatherly/api/internal/model"
	"github.com/gatherly/api/internal/repository"
)

// EventRepository defines the interface for event and RSVP storage
type EventRepository interface {
	Create(ctx context.Context, event *model.Event) error
	GetByID(ctx context.Context, id string) (*model.Event, error)
	Update(ctx context.Context, event *model.Event) error
	Delete(ctx context.Context, id string) error
	ListByGroup(ctx context.Context, groupID string) ([]*model.Event, error)
	ListPublic(ctx context.Context) ([]*model.Event, error)
	UpsertRSVP(ctx context.Context, rsvp *model.RSVP, capacity int) error
	RemoveRSVP(ctx context.Context, eventID, userID string) error
	GetRSVP(ctx context.Context, eventID, userID string) (*model.RSVP, error)
	ListRSVPs(ctx context.Context, eventID string) ([]*model.RSVP, error)
	CountGoing(ctx context.Context, eventID string) (int, error)
}

// EventGroupRepository is the slice of group storage the event service
// needs for visibility and membership checks
type EventGroupRepository interface {
	GetByID(ctx context.Context, id string) (*model.Group, error)
	GetMembership(ctx context.Context, groupID, userID string) (*model.Membership, error)
}

// EventService handles event and RSVP business logic. Capacity is enforced
// inside the repository's RSVP transaction; the service translates the
// capacity failure into ErrEventFull.
type EventService struct {
	repo      EventRepository
	groupRepo EventGroupRepository
}

// EventServiceConfig holds configuration for the event service
type EventServiceConfig struct {
	EventRepo EventRepository
	GroupRepo EventGroupRepository
}

// NewEventService creates a new event service
func NewEventService(cfg EventServiceConfig) *EventService {
	return &EventService{
		repo:      cfg.EventRepo,
		groupRepo: cfg.GroupRepo,
	}
}

// Create creates a new event. Group-scoped events require the caller to be
// a member of the group.
func (s *EventService) Create(ctx context.Context, userID string, req *model.CreateEventRequest) (*model.Event, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, ErrEventTitleRequired
	}
	if req.StartsAt.Before(time.Now()) {
		return nil, ErrEventInPast
	}

	capacity := model.DefaultEventCapacity
	if req.Capacity != nil {
		if *req.Capacity <= 0 {
			return nil, ErrInvalidCapacity
		}
		capacity = *req.Capacity
	}

	visibility := model.VisibilityPublic
	if req.Visibility != "" {
		visibility = model.Visibility(req.Visibility)
		if !visibility.IsValid() {
			return nil, ErrInvalidVisibility
		}
	}

	if req.GroupID != "" {
		if err := s.requireMember(ctx, req.GroupID, userID); err != nil {
			return nil, err
		}
	}

	event := &model.Event{
		Title:       title,
		Description: req.Description,
		StartsAt:    req.StartsAt,
		GroupID:     req.GroupID,
		Capacity:    capacity,
		Visibility:  visibility,
		CreatedBy:   userID,
		Tags:        req.Tags,
	}

	if err := s.repo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	event.SpotsLeft = event.Capacity
	return event, nil
}

// Get retrieves an event with its derived attendance numbers. Group-only
// events require group membership.
func (s *EventService) Get(ctx context.Context, eventID, userID string) (*model.Event, error) {
	event, err := s.repo.GetByID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	if event == nil {
		return nil, ErrEventNotFound
	}

	if event.Visibility == model.VisibilityGroupOnly && event.GroupID != "" {
		if err := s.requireMember(ctx, event.GroupID, userID); err != nil {
			return nil, err
		}
	}

	if err := s.fillAttendance(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

// ListByGroup retrieves a group's events. Requires group membership.
func (s *EventService) ListByGroup(ctx context.Context, groupID, userID string) ([]*model.Event, error) {
	if err := s.requireMember(ctx, groupID, userID); err != nil {
		return nil, err
	}

	events, err := s.repo.ListByGroup(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	for _, event := range events {
		if err := s.fillAttendance(ctx, event); err != nil {
			return nil, err
		}
	}
	return events, nil
}

// ListPublic retrieves upcoming public events
func (s *EventService) ListPublic(ctx context.Context) ([]*model.Event, error) {
	events, err := s.repo.ListPublic(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	for _, event := range events {
		if err := s.fillAttendance(ctx, event); err != nil {
			return nil, err
		}
	}
	return events, nil
}

// Update changes event details. Only the creator may update. Capacity can
// never drop below the current number of confirmed attendees.
func (s *EventService) Update(ctx context.Context, eventID, userID string, req *model.CreateEventRequest) (*model.Event, error) {
	event, err := s.repo.GetByID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	if event == nil {
		return nil, ErrEventNotFound
	}
	if event.CreatedBy != userID {
		return nil, ErrNotEventCreator
	}

	if req.Title != "" {
		event.Title = strings.TrimSpace(req.Title)
		if event.Title == "" {
			return nil, ErrEventTitleRequired
		}
	}
	if req.Description != "" {
		event.Description = req.Description
	}
	if !req.StartsAt.IsZero() {
		if req.StartsAt.Before(time.Now()) {
			return nil, ErrEventInPast
		}
		event.StartsAt = req.StartsAt
	}
	if req.Capacity != nil {
		if *req.Capacity <= 0 {
			return nil, ErrInvalidCapacity
		}
		going, err := s.repo.CountGoing(ctx, eventID)
		if err != nil {
			return nil, fmt.Errorf("failed to count attendees: %w", err)
		}
		if *req.Capacity < going {
			return nil, ErrEventFull
		}
		event.Capacity = *req.Capacity
	}
	if req.Visibility != "" {
		visibility := model.Visibility(req.Visibility)
		if !visibility.IsValid() {
			return nil, ErrInvalidVisibility
		}
		event.Visibility = visibility
	}
	if req.Tags != nil {
		event.Tags = req.Tags
	}

	if err := s.repo.Update(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to update event: %w", err)
	}
	if err := s.fillAttendance(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

// Cancel marks an event cancelled. Only the creator may cancel. RSVPs are
// kept for the record; new ones are rejected.
func (s *EventService) Cancel(ctx context.Context, eventID, userID string) error {
	event, err := s.repo.GetByID(ctx, eventID)
	if err != nil {
		return fmt.Errorf("failed to get event: %w", err)
	}
	if event == nil {
		return ErrEventNotFound
	}
	if event.CreatedBy != userID {
		return ErrNotEventCreator
	}

	event.Cancelled = true
	if err := s.repo.Update(ctx, event); err != nil {
		return fmt.Errorf("failed to cancel event: %w", err)
	}
	return nil
}

// Delete removes an event and its RSVPs. Only the creator may delete.
func (s *EventService) Delete(ctx context.Context, eventID, userID string) error {
	event, err := s.repo.GetByID(ctx, eventID)
	if err != nil {
		return fmt.Errorf("failed to get event: %w", err)
	}
	if event == nil {
		return ErrEventNotFound
	}
	if event.CreatedBy != userID {
		return ErrNotEventCreator
	}

	if err := s.repo.Delete(ctx, eventID); err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	return nil
}

// RSVP writes or rewrites the caller's attendance record. At most one RSVP
// exists per (event, user) pair; repeat calls mutate it. A 'going' status
// that would push confirmed attendance past capacity fails with
// ErrEventFull, checked atomically against concurrent RSVPs.
func (s *EventService) RSVP(ctx context.Context, eventID, userID string, req *model.RSVPRequest) (*model.RSVP, error) {
	status := model.RSVPStatus(req.Status)
	if !status.IsValid() {
		return nil, ErrInvalidRSVPStatus
	}

	event, err := s.repo.GetByID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	if event == nil {
		return nil, ErrEventNotFound
	}
	if event.Cancelled {
		return nil, ErrEventCancelled
	}
	if event.Visibility == model.VisibilityGroupOnly && event.GroupID != "" {
		if err := s.requireMember(ctx, event.GroupID, userID); err != nil {
			return nil, err
		}
	}

	rsvp := &model.RSVP{
		EventID: eventID,
		UserID:  userID,
		Status:  status,
	}

	if err := s.repo.UpsertRSVP(ctx, rsvp, event.Capacity); err != nil {
		if errors.Is(err, repository.ErrCapacityExceeded) {
			return nil, ErrEventFull
		}
		return nil, fmt.Errorf("failed to save rsvp: %w", err)
	}
	return rsvp, nil
}

// RemoveRSVP deletes the caller's RSVP. Removing an RSVP that does not
// exist is a no-op, not an error.
func (s *EventService) RemoveRSVP(ctx context.Context, eventID, userID string) error {
	event, err := s.repo.GetByID(ctx, eventID)
	if err != nil {
		return fmt.Errorf("failed to get event: %w", err)
	}
	if event == nil {
		return ErrEventNotFound
	}

	if err := s.repo.RemoveRSVP(ctx, eventID, userID); err != nil {
		return fmt.Errorf("failed to remove rsvp: %w", err)
	}
	return nil
}

// ListRSVPs retrieves all attendance records for an event
func (s *EventService) ListRSVPs(ctx context.Context, eventID, userID string) ([]*model.RSVP, error) {
	event, err := s.repo.GetByID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	if event == nil {
		return nil, ErrEventNotFound
	}
	if event.Visibility == model.VisibilityGroupOnly && event.GroupID != "" {
		if err := s.requireMember(ctx, event.GroupID, userID); err != nil {
			return nil, err
		}
	}

	rsvps, err := s.repo.ListRSVPs(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list rsvps: %w", err)
	}
	return rsvps, nil
}

func (s *EventService) fillAttendance(ctx context.Context, event *model.Event) error {
	going, err := s.repo.CountGoing(ctx, event.ID)
	if err != nil {
		return fmt.Errorf("failed to count attendees: %w", err)
	}
	event.AttendeeCount = going
	event.SpotsLeft = event.Capacity - going
	if event.SpotsLeft < 0 {
		event.SpotsLeft = 0
	}
	return nil
}

func (s *EventService) requireMember(ctx context.Context, groupID, userID string) error {
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
