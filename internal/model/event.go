package model

import "time"

// DefaultEventCapacity is used when a created event does not specify one
const DefaultEventCapacity = 50

// Event represents a scheduled activity with bounded capacity. GroupID is a
// weak reference: deleting the group does not delete the event.
type Event struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	StartsAt    time.Time  `json:"starts_at"`
	GroupID     string     `json:"group_id,omitempty"`
	Capacity    int        `json:"capacity"`
	Visibility  Visibility `json:"visibility"`
	Cancelled   bool       `json:"cancelled"`
	CreatedBy   string     `json:"created_by"`
	Tags        []string   `json:"tags,omitempty"`
	CreatedOn   time.Time  `json:"created_on"`
	UpdatedOn   time.Time  `json:"updated_on"`

	// Derived from the RSVP ledger, never stored
	AttendeeCount int `json:"attendee_count"`
	SpotsLeft     int `json:"spots_left"`
}

// Visibility controls who can see an event
type Visibility string

const (
	VisibilityPublic    Visibility = "public"
	VisibilityGroupOnly Visibility = "group-only"
)

// IsValid returns true if the visibility is one of the allowed values
func (v Visibility) IsValid() bool {
	return v == VisibilityPublic || v == VisibilityGroupOnly
}

// RSVPStatus is a user's attendance intention for an event
type RSVPStatus string

const (
	RSVPPending  RSVPStatus = "pending"
	RSVPGoing    RSVPStatus = "going"
	RSVPNotGoing RSVPStatus = "not_going"
	RSVPMaybe    RSVPStatus = "maybe"
)

// IsValid returns true if the status is one of the four allowed values
func (s RSVPStatus) IsValid() bool {
	switch s {
	case RSVPPending, RSVPGoing, RSVPNotGoing, RSVPMaybe:
		return true
	default:
		return false
	}
}

// RSVP is a user's attendance record for an event. At most one exists per
// (event, user) pair; repeat calls mutate it in place.
type RSVP struct {
	EventID   string     `json:"event_id"`
	UserID    string     `json:"user_id"`
	Status    RSVPStatus `json:"status"`
	CreatedOn time.Time  `json:"created_on"`
	UpdatedOn time.Time  `json:"updated_on"`
}

// CreateEventRequest is the payload for creating an event
type CreateEventRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	StartsAt    time.Time `json:"starts_at"`
	GroupID     string    `json:"group_id,omitempty"`
	Capacity    *int      `json:"capacity,omitempty"`
	Visibility  string    `json:"visibility,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
}

// RSVPRequest is the payload for adding or updating an RSVP
type RSVPRequest struct {
	Status string `json:"status"`
}
