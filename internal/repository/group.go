package repository

import (
	"context"
	"errors"
	"time"

	"github.com/gatherly/api/internal/database"
	"github.com/gatherly/api/internal/model"
)

// GroupRepository handles group, membership and join request data access
type GroupRepository struct {
	db database.Database
}

// NewGroupRepository creates a new group repository
func NewGroupRepository(db database.Database) *GroupRepository {
	return &GroupRepository{db: db}
}

// Create creates a group together with the owner's admin membership in one
// transaction. Either both records exist afterwards or neither does.
func (r *GroupRepository) Create(ctx context.Context, group *model.Group) error {
	query := `
		BEGIN TRANSACTION;
		LET $grp = CREATE ONLY groups CONTENT {
			name: $name,
			description: $description,
			owner_id: $owner_id,
			privacy: $privacy,
			tags: $tags,
			created_on: time::now(),
			updated_on: time::now()
		};
		CREATE membership CONTENT {
			group_id: <string> $grp.id,
			user_id: $owner_id,
			role: 'admin',
			joined_at: time::now()
		};
		RETURN $grp;
		COMMIT TRANSACTION;
	`

	tags := group.Tags
	if tags == nil {
		tags = []string{}
	}

	vars := map[string]interface{}{
		"name":        group.Name,
		"description": group.Description,
		"owner_id":    group.OwnerID,
		"privacy":     string(group.Privacy),
		"tags":        tags,
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return err
	}

	created, ok := extractReturnedRecord(result)
	if !ok {
		return errors.New("group create returned no record")
	}

	group.ID = convertSurrealID(created["id"])
	group.CreatedOn = timeOrZero(getTime(created, "created_on"))
	group.UpdatedOn = timeOrZero(getTime(created, "updated_on"))
	return nil
}

// GetByID retrieves a group by ID. Returns (nil, nil) when absent.
func (r *GroupRepository) GetByID(ctx context.Context, id string) (*model.Group, error) {
	query := `SELECT * FROM type::record($id)`
	vars := map[string]interface{}{"id": id}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return parseGroup(result)
}

// Update persists group metadata changes
func (r *GroupRepository) Update(ctx context.Context, group *model.Group) error {
	query := `
		UPDATE type::record($id) SET
			name = $name,
			description = $description,
			tags = $tags,
			updated_on = time::now()
	`
	vars := map[string]interface{}{
		"id":          group.ID,
		"name":        group.Name,
		"description": group.Description,
		"tags":        group.Tags,
	}

	return r.db.Execute(ctx, query, vars)
}

// Delete removes a group and cascades its memberships and join requests.
// Events referencing the group are left in place (weak reference).
func (r *GroupRepository) Delete(ctx context.Context, id string) error {
	batch := database.NewAtomicBatch()
	batch.Add(`DELETE membership WHERE group_id = $group_id`, map[string]interface{}{"group_id": id})
	batch.Add(`DELETE join_request WHERE group_id = $group_id`, map[string]interface{}{"group_id": id})
	batch.Add(`DELETE type::record($id)`, map[string]interface{}{"id": id})
	return batch.Execute(ctx, r.db)
}

// ListPublic retrieves all public groups
func (r *GroupRepository) ListPublic(ctx context.Context) ([]*model.Group, error) {
	query := `SELECT * FROM groups WHERE privacy = 'public' ORDER BY created_on DESC`

	result, err := r.db.Query(ctx, query, nil)
	if err != nil {
		return nil, err
	}

	groups := make([]*model.Group, 0)
	for _, rec := range flattenResults(result) {
		group, err := parseGroup(rec)
		if err != nil {
			continue
		}
		groups = append(groups, group)
	}
	return groups, nil
}

// GetMembership retrieves the membership for a (group, user) pair.
// Returns (nil, nil) when the user is not a member.
func (r *GroupRepository) GetMembership(ctx context.Context, groupID, userID string) (*model.Membership, error) {
	query := `
		SELECT * FROM membership
		WHERE group_id = $group_id AND user_id = $user_id
		LIMIT 1
	`
	vars := map[string]interface{}{"group_id": groupID, "user_id": userID}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return parseMembership(result)
}

// GetMembers retrieves all memberships of a group
func (r *GroupRepository) GetMembers(ctx context.Context, groupID string) ([]*model.Membership, error) {
	query := `SELECT * FROM membership WHERE group_id = $group_id ORDER BY joined_at ASC`
	vars := map[string]interface{}{"group_id": groupID}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	members := make([]*model.Membership, 0)
	for _, rec := range flattenResults(result) {
		m, err := parseMembership(rec)
		if err != nil {
			continue
		}
		members = append(members, m)
	}
	return members, nil
}

// AddMembership creates a membership row
func (r *GroupRepository) AddMembership(ctx context.Context, m *model.Membership) error {
	query := `
		CREATE membership CONTENT {
			group_id: $group_id,
			user_id: $user_id,
			role: $role,
			joined_at: time::now()
		}
	`
	vars := map[string]interface{}{
		"group_id": m.GroupID,
		"user_id":  m.UserID,
		"role":     string(m.Role),
	}

	if err := r.db.Execute(ctx, query, vars); err != nil {
		if isUniqueConstraintError(err) {
			return database.ErrDuplicate
		}
		return err
	}
	return nil
}

// RemoveMembership deletes the membership for a (group, user) pair
func (r *GroupRepository) RemoveMembership(ctx context.Context, groupID, userID string) error {
	query := `DELETE membership WHERE group_id = $group_id AND user_id = $user_id`
	vars := map[string]interface{}{"group_id": groupID, "user_id": userID}
	return r.db.Execute(ctx, query, vars)
}

// UpdateMembershipRole flips a member's role
func (r *GroupRepository) UpdateMembershipRole(ctx context.Context, groupID, userID string, role model.MemberRole) error {
	query := `
		UPDATE membership SET role = $role
		WHERE group_id = $group_id AND user_id = $user_id
	`
	vars := map[string]interface{}{
		"group_id": groupID,
		"user_id":  userID,
		"role":     string(role),
	}
	return r.db.Execute(ctx, query, vars)
}

// TransferOwnership points the group at its new owner and lifts the new
// owner's membership to admin as one unit. The old owner's membership is
// left untouched.
func (r *GroupRepository) TransferOwnership(ctx context.Context, groupID, newOwnerID string) error {
	batch := database.NewAtomicBatch()
	batch.Add(
		`UPDATE type::record($id) SET owner_id = $owner_id, updated_on = time::now()`,
		map[string]interface{}{"id": groupID, "owner_id": newOwnerID},
	)
	batch.Add(
		`UPDATE membership SET role = 'admin' WHERE group_id = $group_id AND user_id = $user_id`,
		map[string]interface{}{"group_id": groupID, "user_id": newOwnerID},
	)
	return batch.Execute(ctx, r.db)
}

// GetJoinRequest retrieves the pending join request for a (group, user)
// pair. Returns (nil, nil) when none exists.
func (r *GroupRepository) GetJoinRequest(ctx context.Context, groupID, userID string) (*model.JoinRequest, error) {
	query := `
		SELECT * FROM join_request
		WHERE group_id = $group_id AND user_id = $user_id
		LIMIT 1
	`
	vars := map[string]interface{}{"group_id": groupID, "user_id": userID}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return parseJoinRequest(result)
}

// ListJoinRequests retrieves all pending join requests for a group
func (r *GroupRepository) ListJoinRequests(ctx context.Context, groupID string) ([]*model.JoinRequest, error) {
	query := `SELECT * FROM join_request WHERE group_id = $group_id ORDER BY requested_at ASC`
	vars := map[string]interface{}{"group_id": groupID}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	requests := make([]*model.JoinRequest, 0)
	for _, rec := range flattenResults(result) {
		jr, err := parseJoinRequest(rec)
		if err != nil {
			continue
		}
		requests = append(requests, jr)
	}
	return requests, nil
}

// CreateJoinRequest records a pending join request
func (r *GroupRepository) CreateJoinRequest(ctx context.Context, jr *model.JoinRequest) error {
	query := `
		CREATE join_request CONTENT {
			group_id: $group_id,
			user_id: $user_id,
			requested_at: time::now()
		}
	`
	vars := map[string]interface{}{"group_id": jr.GroupID, "user_id": jr.UserID}
	if err := r.db.Execute(ctx, query, vars); err != nil {
		if isUniqueConstraintError(err) {
			return database.ErrDuplicate
		}
		return err
	}
	return nil
}

// DeleteJoinRequest removes the pending request for a (group, user) pair
func (r *GroupRepository) DeleteJoinRequest(ctx context.Context, groupID, userID string) error {
	query := `DELETE join_request WHERE group_id = $group_id AND user_id = $user_id`
	vars := map[string]interface{}{"group_id": groupID, "user_id": userID}
	return r.db.Execute(ctx, query, vars)
}

// ApproveJoinRequest converts a pending request into a member-role
// membership in one transaction.
func (r *GroupRepository) ApproveJoinRequest(ctx context.Context, groupID, userID string) error {
	batch := database.NewAtomicBatch()
	batch.Add(
		`DELETE join_request WHERE group_id = $group_id AND user_id = $user_id`,
		map[string]interface{}{"group_id": groupID, "user_id": userID},
	)
	batch.Add(
		`CREATE membership CONTENT {
			group_id: $group_id,
			user_id: $user_id,
			role: 'member',
			joined_at: time::now()
		}`,
		map[string]interface{}{"group_id": groupID, "user_id": userID},
	)
	return batch.Execute(ctx, r.db)
}

// Parsing helpers

func parseGroup(result interface{}) (*model.Group, error) {
	data, ok := result.(map[string]interface{})
	if !ok {
		return nil, errors.New("unexpected group result format")
	}

	group := &model.Group{
		ID:          convertSurrealID(data["id"]),
		Name:        getString(data, "name"),
		Description: getString(data, "description"),
		OwnerID:     getString(data, "owner_id"),
		Privacy:     model.Privacy(getString(data, "privacy")),
		Tags:        getStringSlice(data, "tags"),
		CreatedOn:   timeOrZero(getTime(data, "created_on")),
		UpdatedOn:   timeOrZero(getTime(data, "updated_on")),
	}
	return group, nil
}

func parseMembership(result interface{}) (*model.Membership, error) {
	data, ok := result.(map[string]interface{})
	if !ok {
		return nil, errors.New("unexpected membership result format")
	}

	m := &model.Membership{
		GroupID: getString(data, "group_id"),
		UserID:  getString(data, "user_id"),
		Role:    model.MemberRole(getString(data, "role")),
	}
	if t := getTime(data, "joined_at"); t != nil {
		m.JoinedAt = *t
	} else {
		m.JoinedAt = time.Time{}
	}
	return m, nil
}

func parseJoinRequest(result interface{}) (*model.JoinRequest, error) {
	data, ok := result.(map[string]interface{})
	if !ok {
		return nil, errors.New("unexpected join request result format")
	}

	return &model.JoinRequest{
		GroupID:     getString(data, "group_id"),
		UserID:      getString(data, "user_id"),
		RequestedAt: timeOrZero(getTime(data, "requested_at")),
	}, nil
}
