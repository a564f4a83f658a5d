package repository

import (
	"context"
	"errors"
	"sort"

	"github.com/gatherly/api/internal/database"
	"github.com/gatherly/api/internal/model"
)

// PollRepository handles poll and poll option data access
type PollRepository struct {
	db database.Database
}

// NewPollRepository creates a new poll repository
func NewPollRepository(db database.Database) *PollRepository {
	return &PollRepository{db: db}
}

// Create creates a poll and its options in one transaction
func (r *PollRepository) Create(ctx context.Context, poll *model.Poll, optionTexts []string) error {
	batch := database.NewAtomicBatch()

	createPoll := `
		LET $p = CREATE ONLY poll CONTENT {
			title: $title,
			description: $description,
			created_by: $created_by,
			related_event_id: $related_event_id,
			related_group_id: $related_group_id,
			is_active: true,
			expires_at: $expires_at,
			created_on: time::now(),
			updated_on: time::now()
		};
		FOR $opt IN $options {
			CREATE poll_option CONTENT {
				poll_id: <string> $p.id,
				text: $opt.text,
				sort_order: $opt.sort_order,
				voters: []
			};
		};
		RETURN $p;
	`

	options := make([]map[string]interface{}, 0, len(optionTexts))
	for i, text := range optionTexts {
		options = append(options, map[string]interface{}{
			"text":       text,
			"sort_order": i,
		})
	}

	batch.Add(createPoll, map[string]interface{}{
		"title":            poll.Title,
		"description":      poll.Description,
		"created_by":       poll.CreatedBy,
		"related_event_id": poll.RelatedEventID,
		"related_group_id": poll.RelatedGroupID,
		"expires_at":       poll.ExpiresAt,
		"options":          options,
	})

	result, err := batch.ExecuteReturning(ctx, r.db)
	if err != nil {
		return err
	}

	created, ok := extractReturnedRecord(result)
	if !ok {
		return errors.New("poll create returned no record")
	}

	poll.ID = convertSurrealID(created["id"])
	poll.IsActive = true
	poll.CreatedOn = timeOrZero(getTime(created, "created_on"))
	poll.UpdatedOn = timeOrZero(getTime(created, "updated_on"))
	return nil
}

// GetByID retrieves a poll with its options loaded, ordered by sort order.
// Returns (nil, nil) when absent.
func (r *PollRepository) GetByID(ctx context.Context, id string) (*model.Poll, error) {
	query := `SELECT * FROM type::record($id)`
	vars := map[string]interface{}{"id": id}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	poll, err := parsePoll(result)
	if err != nil {
		return nil, err
	}

	options, err := r.getOptions(ctx, poll.ID)
	if err != nil {
		return nil, err
	}
	poll.Options = options
	return poll, nil
}

// ListActive retrieves all open polls with their options
func (r *PollRepository) ListActive(ctx context.Context) ([]*model.Poll, error) {
	query := `SELECT * FROM poll WHERE is_active = true ORDER BY created_on DESC`

	result, err := r.db.Query(ctx, query, nil)
	if err != nil {
		return nil, err
	}

	polls := make([]*model.Poll, 0)
	for _, rec := range flattenResults(result) {
		poll, err := parsePoll(rec)
		if err != nil {
			continue
		}
		options, err := r.getOptions(ctx, poll.ID)
		if err != nil {
			return nil, err
		}
		poll.Options = options
		polls = append(polls, poll)
	}
	return polls, nil
}

// ListByGroup retrieves all polls tied to a group, newest first
func (r *PollRepository) ListByGroup(ctx context.Context, groupID string) ([]*model.Poll, error) {
	query := `SELECT * FROM poll WHERE related_group_id = $group_id ORDER BY created_on DESC`
	vars := map[string]interface{}{"group_id": groupID}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	polls := make([]*model.Poll, 0)
	for _, rec := range flattenResults(result) {
		poll, err := parsePoll(rec)
		if err != nil {
			continue
		}
		options, err := r.getOptions(ctx, poll.ID)
		if err != nil {
			return nil, err
		}
		poll.Options = options
		polls = append(polls, poll)
	}
	return polls, nil
}

// CastBallot moves the user's ballot to the given option in one
// transaction: the user is stripped from every option of the poll, then
// added to the chosen one. Re-voting the same option is a no-op by
// construction.
func (r *PollRepository) CastBallot(ctx context.Context, pollID, optionID, userID string) error {
	batch := database.NewAtomicBatch()
	batch.Add(
		`UPDATE poll_option SET voters -= $user_id WHERE poll_id = $poll_id`,
		map[string]interface{}{"poll_id": pollID, "user_id": userID},
	)
	batch.Add(
		`UPDATE type::record($option_id) SET voters += $user_id`,
		map[string]interface{}{"option_id": optionID, "user_id": userID},
	)
	return batch.Execute(ctx, r.db)
}

// RemoveBallot strips the user from every option of the poll. Removing a
// ballot that was never cast is not an error.
func (r *PollRepository) RemoveBallot(ctx context.Context, pollID, userID string) error {
	query := `UPDATE poll_option SET voters -= $user_id WHERE poll_id = $poll_id`
	vars := map[string]interface{}{"poll_id": pollID, "user_id": userID}
	return r.db.Execute(ctx, query, vars)
}

// Close marks a poll inactive
func (r *PollRepository) Close(ctx context.Context, id string) error {
	query := `UPDATE type::record($id) SET is_active = false, updated_on = time::now()`
	vars := map[string]interface{}{"id": id}
	return r.db.Execute(ctx, query, vars)
}

// CloseExpired closes every active poll whose expiry has passed and
// returns the ids of the polls it touched.
func (r *PollRepository) CloseExpired(ctx context.Context) ([]string, error) {
	query := `
		UPDATE poll SET is_active = false, updated_on = time::now()
		WHERE is_active = true AND expires_at != NONE AND expires_at < time::now()
	`

	result, err := r.db.Query(ctx, query, nil)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0)
	for _, rec := range flattenResults(result) {
		data, ok := rec.(map[string]interface{})
		if !ok {
			continue
		}
		if id := convertSurrealID(data["id"]); id != "" {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// Delete removes a poll and its options
func (r *PollRepository) Delete(ctx context.Context, id string) error {
	batch := database.NewAtomicBatch()
	batch.Add(`DELETE poll_option WHERE poll_id = $poll_id`, map[string]interface{}{"poll_id": id})
	batch.Add(`DELETE type::record($id)`, map[string]interface{}{"id": id})
	return batch.Execute(ctx, r.db)
}

func (r *PollRepository) getOptions(ctx context.Context, pollID string) ([]model.PollOption, error) {
	query := `SELECT * FROM poll_option WHERE poll_id = $poll_id`
	vars := map[string]interface{}{"poll_id": pollID}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	options := make([]model.PollOption, 0)
	for _, rec := range flattenResults(result) {
		data, ok := rec.(map[string]interface{})
		if !ok {
			continue
		}
		options = append(options, model.PollOption{
			ID:        convertSurrealID(data["id"]),
			PollID:    getString(data, "poll_id"),
			Text:      getString(data, "text"),
			SortOrder: getInt(data, "sort_order"),
			Voters:    getStringSlice(data, "voters"),
		})
	}
	sort.Slice(options, func(i, j int) bool { return options[i].SortOrder < options[j].SortOrder })
	return options, nil
}

func parsePoll(result interface{}) (*model.Poll, error) {
	data, ok := result.(map[string]interface{})
	if !ok {
		return nil, errors.New("unexpected poll result format")
	}

	return &model.Poll{
		ID:             convertSurrealID(data["id"]),
		Title:          getString(data, "title"),
		Description:    getString(data, "description"),
		CreatedBy:      getString(data, "created_by"),
		RelatedEventID: getString(data, "related_event_id"),
		RelatedGroupID: getString(data, "related_group_id"),
		IsActive:       getBool(data, "is_active"),
		ExpiresAt:      getTime(data, "expires_at"),
		CreatedOn:      timeOrZero(getTime(data, "created_on")),
		UpdatedOn:      timeOrZero(getTime(data, "updated_on")),
	}, nil
}
