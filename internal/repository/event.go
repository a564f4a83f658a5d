package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/gatherly/api/internal/database"
	"github.com/gatherly/api/internal/model"
)

// ErrCapacityExceeded is surfaced when the capacity guard inside the RSVP
// transaction throws. Callers map it to the service-level sentinel.
var ErrCapacityExceeded = errors.New("event capacity exceeded")

// EventRepository handles event and RSVP data access
type EventRepository struct {
	db database.Database
}

// NewEventRepository creates a new event repository
func NewEventRepository(db database.Database) *EventRepository {
	return &EventRepository{db: db}
}

// Create creates a new event
func (r *EventRepository) Create(ctx context.Context, event *model.Event) error {
	query := `
		CREATE ONLY event CONTENT {
			title: $title,
			description: $description,
			starts_at: $starts_at,
			group_id: $group_id,
			capacity: $capacity,
			visibility: $visibility,
			cancelled: false,
			created_by: $created_by,
			tags: $tags,
			created_on: time::now(),
			updated_on: time::now()
		}
	`

	tags := event.Tags
	if tags == nil {
		tags = []string{}
	}

	vars := map[string]interface{}{
		"title":       event.Title,
		"description": event.Description,
		"starts_at":   event.StartsAt,
		"group_id":    event.GroupID,
		"capacity":    event.Capacity,
		"visibility":  string(event.Visibility),
		"created_by":  event.CreatedBy,
		"tags":        tags,
	}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		return err
	}

	data, ok := result.(map[string]interface{})
	if !ok {
		return errors.New("event create returned no record")
	}

	event.ID = convertSurrealID(data["id"])
	event.CreatedOn = timeOrZero(getTime(data, "created_on"))
	event.UpdatedOn = timeOrZero(getTime(data, "updated_on"))
	return nil
}

// GetByID retrieves an event by ID. Returns (nil, nil) when absent.
func (r *EventRepository) GetByID(ctx context.Context, id string) (*model.Event, error) {
	query := `SELECT * FROM type::record($id)`
	vars := map[string]interface{}{"id": id}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return parseEvent(result)
}

// Update persists event changes
func (r *EventRepository) Update(ctx context.Context, event *model.Event) error {
	query := `
		UPDATE type::record($id) SET
			title = $title,
			description = $description,
			starts_at = $starts_at,
			capacity = $capacity,
			visibility = $visibility,
			cancelled = $cancelled,
			tags = $tags,
			updated_on = time::now()
	`
	vars := map[string]interface{}{
		"id":          event.ID,
		"title":       event.Title,
		"description": event.Description,
		"starts_at":   event.StartsAt,
		"capacity":    event.Capacity,
		"visibility":  string(event.Visibility),
		"cancelled":   event.Cancelled,
		"tags":        event.Tags,
	}
	return r.db.Execute(ctx, query, vars)
}

// Delete removes an event and its RSVPs
func (r *EventRepository) Delete(ctx context.Context, id string) error {
	batch := database.NewAtomicBatch()
	batch.Add(`DELETE rsvp WHERE event_id = $event_id`, map[string]interface{}{"event_id": id})
	batch.Add(`DELETE type::record($id)`, map[string]interface{}{"id": id})
	return batch.Execute(ctx, r.db)
}

// ListByGroup retrieves events belonging to a group, soonest first
func (r *EventRepository) ListByGroup(ctx context.Context, groupID string) ([]*model.Event, error) {
	query := `SELECT * FROM event WHERE group_id = $group_id ORDER BY starts_at ASC`
	vars := map[string]interface{}{"group_id": groupID}
	return r.queryEvents(ctx, query, vars)
}

// ListPublic retrieves public events that have not yet started
func (r *EventRepository) ListPublic(ctx context.Context) ([]*model.Event, error) {
	query := `
		SELECT * FROM event
		WHERE visibility = 'public' AND cancelled = false AND starts_at > time::now()
		ORDER BY starts_at ASC
	`
	return r.queryEvents(ctx, query, nil)
}

func (r *EventRepository) queryEvents(ctx context.Context, query string, vars map[string]interface{}) ([]*model.Event, error) {
	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	events := make([]*model.Event, 0)
	for _, rec := range flattenResults(result) {
		event, err := parseEvent(rec)
		if err != nil {
			continue
		}
		events = append(events, event)
	}
	return events, nil
}

// UpsertRSVP writes the caller's RSVP, enforcing capacity inside a single
// transaction. The count excludes the caller's own existing row, so flipping
// an existing 'going' RSVP back to 'going' cannot overfill the event.
func (r *EventRepository) UpsertRSVP(ctx context.Context, rsvp *model.RSVP, capacity int) error {
	query := `
		BEGIN TRANSACTION;
		LET $counted = (
			SELECT count() AS total FROM rsvp
			WHERE event_id = $event_id AND status = 'going' AND user_id != $user_id
			GROUP ALL
		);
		LET $going = IF array::len($counted) > 0 THEN $counted[0].total ELSE 0 END;
		IF $status = 'going' AND $going + 1 > $capacity {
			THROW 'capacity exceeded';
		};
		DELETE rsvp WHERE event_id = $event_id AND user_id = $user_id;
		CREATE rsvp CONTENT {
			event_id: $event_id,
			user_id: $user_id,
			status: $status,
			created_on: time::now(),
			updated_on: time::now()
		};
		COMMIT TRANSACTION;
	`
	vars := map[string]interface{}{
		"event_id": rsvp.EventID,
		"user_id":  rsvp.UserID,
		"status":   string(rsvp.Status),
		"capacity": capacity,
	}

	if err := r.db.Execute(ctx, query, vars); err != nil {
		if strings.Contains(err.Error(), "capacity exceeded") {
			return ErrCapacityExceeded
		}
		return err
	}
	return nil
}

// RemoveRSVP deletes the caller's RSVP. Deleting a row that does not exist
// is not an error.
func (r *EventRepository) RemoveRSVP(ctx context.Context, eventID, userID string) error {
	query := `DELETE rsvp WHERE event_id = $event_id AND user_id = $user_id`
	vars := map[string]interface{}{"event_id": eventID, "user_id": userID}
	return r.db.Execute(ctx, query, vars)
}

// GetRSVP retrieves the caller's RSVP for an event. Returns (nil, nil)
// when the user has not responded.
func (r *EventRepository) GetRSVP(ctx context.Context, eventID, userID string) (*model.RSVP, error) {
	query := `
		SELECT * FROM rsvp
		WHERE event_id = $event_id AND user_id = $user_id
		LIMIT 1
	`
	vars := map[string]interface{}{"event_id": eventID, "user_id": userID}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return parseRSVP(result)
}

// ListRSVPs retrieves all RSVPs for an event
func (r *EventRepository) ListRSVPs(ctx context.Context, eventID string) ([]*model.RSVP, error) {
	query := `SELECT * FROM rsvp WHERE event_id = $event_id ORDER BY created_on ASC`
	vars := map[string]interface{}{"event_id": eventID}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	rsvps := make([]*model.RSVP, 0)
	for _, rec := range flattenResults(result) {
		rsvp, err := parseRSVP(rec)
		if err != nil {
			continue
		}
		rsvps = append(rsvps, rsvp)
	}
	return rsvps, nil
}

// CountGoing returns how many RSVPs for the event are currently 'going'
func (r *EventRepository) CountGoing(ctx context.Context, eventID string) (int, error) {
	query := `
		SELECT count() AS count FROM rsvp
		WHERE event_id = $event_id AND status = 'going'
		GROUP ALL
	`
	vars := map[string]interface{}{"event_id": eventID}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}

	return extractCount(result), nil
}

// Parsing helpers

func parseEvent(result interface{}) (*model.Event, error) {
	data, ok := result.(map[string]interface{})
	if !ok {
		return nil, errors.New("unexpected event result format")
	}

	event := &model.Event{
		ID:          convertSurrealID(data["id"]),
		Title:       getString(data, "title"),
		Description: getString(data, "description"),
		StartsAt:    timeOrZero(getTime(data, "starts_at")),
		GroupID:     getString(data, "group_id"),
		Capacity:    getInt(data, "capacity"),
		Visibility:  model.Visibility(getString(data, "visibility")),
		Cancelled:   getBool(data, "cancelled"),
		CreatedBy:   getString(data, "created_by"),
		Tags:        getStringSlice(data, "tags"),
		CreatedOn:   timeOrZero(getTime(data, "created_on")),
		UpdatedOn:   timeOrZero(getTime(data, "updated_on")),
	}
	return event, nil
}

func parseRSVP(result interface{}) (*model.RSVP, error) {
	data, ok := result.(map[string]interface{})
	if !ok {
		return nil, errors.New("unexpected rsvp result format")
	}

	return &model.RSVP{
		EventID:   getString(data, "event_id"),
		UserID:    getString(data, "user_id"),
		Status:    model.RSVPStatus(getString(data, "status")),
		CreatedOn: timeOrZero(getTime(data, "created_on")),
		UpdatedOn: timeOrZero(getTime(data, "updated_on")),
	}, nil
}
