package model

import "time"

// Group represents a community of users coordinating shared activity
type Group struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	OwnerID     string    `json:"owner_id"`
	Privacy     Privacy   `json:"privacy"`
	Tags        []string  `json:"tags,omitempty"`
	CreatedOn   time.Time `json:"created_on"`
	UpdatedOn   time.Time `json:"updated_on"`
}

// Privacy controls how a group can be joined
type Privacy string

const (
	PrivacyPublic  Privacy = "public"  // anyone joins immediately
	PrivacyPrivate Privacy = "private" // join requires approval
	PrivacySecret  Privacy = "secret"  // join requires approval, hidden from listings
)

// IsValid returns true if the privacy setting is one of the allowed values
func (p Privacy) IsValid() bool {
	switch p {
	case PrivacyPublic, PrivacyPrivate, PrivacySecret:
		return true
	default:
		return false
	}
}

// RequiresApproval returns true when joining creates a pending request
// instead of an immediate membership
func (p Privacy) RequiresApproval() bool {
	return p == PrivacyPrivate || p == PrivacySecret
}

// MemberRole represents a member's role within a group
type MemberRole string

const (
	RoleMember MemberRole = "member"
	RoleAdmin  MemberRole = "admin"
)

// IsValid returns true if the role is a valid member role
func (r MemberRole) IsValid() bool {
	return r == RoleMember || r == RoleAdmin
}

// Membership links a user to a group. The group's owner always holds an
// admin-role membership for as long as the group exists.
type Membership struct {
	GroupID  string     `json:"group_id"`
	UserID   string     `json:"user_id"`
	Role     MemberRole `json:"role"`
	JoinedAt time.Time  `json:"joined_at"`
}

// JoinRequest is a pending, unapproved request to join a private or secret
// group. A pair never holds a JoinRequest and a Membership at the same time.
type JoinRequest struct {
	GroupID     string    `json:"group_id"`
	UserID      string    `json:"user_id"`
	RequestedAt time.Time `json:"requested_at"`
}

// JoinOutcome reports what a join attempt produced
type JoinOutcome string

const (
	JoinOutcomeJoined  JoinOutcome = "joined"
	JoinOutcomePending JoinOutcome = "pending"
)

// JoinResult is returned by GroupService.Join: public groups grant
// membership immediately, private and secret groups park the caller in a
// join request.
type JoinResult struct {
	Outcome JoinOutcome `json:"outcome"`
	Group   *Group      `json:"group,omitempty"`
}

// CreateGroupRequest is the payload for creating a group
type CreateGroupRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Privacy     string   `json:"privacy,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// UpdateGroupRequest is the payload for updating group metadata
type UpdateGroupRequest struct {
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// GroupDetail is a group with its member list
type GroupDetail struct {
	Group   Group        `json:"group"`
	Members []Membership `json:"members"`
}
