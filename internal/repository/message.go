package repository

import (
	"context"
	"errors"

	"github.com/gatherly/api/internal/database"
	"github.com/gatherly/api/internal/model"
)

// MessageRepository handles group chat message data access
type MessageRepository struct {
	db database.Database
}

// NewMessageRepository creates a new message repository
func NewMessageRepository(db database.Database) *MessageRepository {
	return &MessageRepository{db: db}
}

// Create persists a message
func (r *MessageRepository) Create(ctx context.Context, msg *model.Message) error {
	query := `
		CREATE ONLY message CONTENT {
			group_id: $group_id,
			sender_id: $sender_id,
			content: $content,
			created_on: time::now()
		}
	`
	vars := map[string]interface{}{
		"group_id":  msg.GroupID,
		"sender_id": msg.SenderID,
		"content":   msg.Content,
	}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		return err
	}

	data, ok := result.(map[string]interface{})
	if !ok {
		return errors.New("message create returned no record")
	}

	msg.ID = convertSurrealID(data["id"])
	msg.CreatedOn = timeOrZero(getTime(data, "created_on"))
	return nil
}

// ListByGroup retrieves the most recent messages of a group, oldest first,
// capped at limit
func (r *MessageRepository) ListByGroup(ctx context.Context, groupID string, limit int) ([]*model.Message, error) {
	query := `
		SELECT * FROM message
		WHERE group_id = $group_id
		ORDER BY created_on DESC
		LIMIT $limit
	`
	vars := map[string]interface{}{"group_id": groupID, "limit": limit}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	messages := make([]*model.Message, 0)
	for _, rec := range flattenResults(result) {
		data, ok := rec.(map[string]interface{})
		if !ok {
			continue
		}
		messages = append(messages, &model.Message{
			ID:        convertSurrealID(data["id"]),
			GroupID:   getString(data, "group_id"),
			SenderID:  getString(data, "sender_id"),
			Content:   getString(data, "content"),
			CreatedOn: timeOrZero(getTime(data, "created_on")),
		})
	}

	// query returns newest first; callers want chronological order
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

// GetByID retrieves a message by ID. Returns (nil, nil) when absent.
func (r *MessageRepository) GetByID(ctx context.Context, id string) (*model.Message, error) {
	query := `SELECT * FROM type::record($id)`
	vars := map[string]interface{}{"id": id}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	data, ok := result.(map[string]interface{})
	if !ok {
		return nil, errors.New("unexpected message result format")
	}
	return &model.Message{
		ID:        convertSurrealID(data["id"]),
		GroupID:   getString(data, "group_id"),
		SenderID:  getString(data, "sender_id"),
		Content:   getString(data, "content"),
		CreatedOn: timeOrZero(getTime(data, "created_on")),
	}, nil
}

// Delete removes a message
func (r *MessageRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE type::record($id)`
	vars := map[string]interface{}{"id": id}
	return r.db.Execute(ctx, query, vars)
}

// DeleteByGroup removes all messages of a group
func (r *MessageRepository) DeleteByGroup(ctx context.Context, groupID string) error {
	query := `DELETE message WHERE group_id = $group_id`
	vars := map[string]interface{}{"group_id": groupID}
	return r.db.Execute(ctx, query, vars)
}
