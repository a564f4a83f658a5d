package model

import "time"

// Poll is a question with ordered options. A user's ballot is their
// presence in exactly one option's voter set.
type Poll struct {
	ID             string       `json:"id"`
	Title          string       `json:"title"`
	Description    string       `json:"description,omitempty"`
	CreatedBy      string       `json:"created_by"`
	RelatedEventID string       `json:"related_event_id,omitempty"`
	RelatedGroupID string       `json:"related_group_id,omitempty"`
	IsActive       bool         `json:"is_active"`
	ExpiresAt      *time.Time   `json:"expires_at,omitempty"`
	Options        []PollOption `json:"options"`
	CreatedOn      time.Time    `json:"created_on"`
	UpdatedOn      time.Time    `json:"updated_on"`
}

// PollOption is one choice on a poll with the set of users currently
// voting for it
type PollOption struct {
	ID        string   `json:"id"`
	PollID    string   `json:"poll_id"`
	Text      string   `json:"text"`
	SortOrder int      `json:"sort_order"`
	Voters    []string `json:"voters"`
}

// VoteCount returns the number of voters on this option
func (o *PollOption) VoteCount() int {
	return len(o.Voters)
}

// Open reports whether ballots are currently accepted: the poll is active
// and its expiry, if set, has not passed
func (p *Poll) Open() bool {
	if !p.IsActive {
		return false
	}
	if p.ExpiresAt != nil && p.ExpiresAt.Before(time.Now()) {
		return false
	}
	return true
}

// TotalVotes sums voter-set sizes across all options; derived, never stored
func (p *Poll) TotalVotes() int {
	total := 0
	for i := range p.Options {
		total += len(p.Options[i].Voters)
	}
	return total
}

// HasOption returns true if the option id belongs to this poll
func (p *Poll) HasOption(optionID string) bool {
	for i := range p.Options {
		if p.Options[i].ID == optionID {
			return true
		}
	}
	return false
}

// VoterOption returns the id of the option the user currently votes for,
// or "" if they hold no ballot
func (p *Poll) VoterOption(userID string) string {
	for i := range p.Options {
		for _, v := range p.Options[i].Voters {
			if v == userID {
				return p.Options[i].ID
			}
		}
	}
	return ""
}

// CreatePollRequest is the payload for creating a poll
type CreatePollRequest struct {
	Title          string     `json:"title"`
	Description    string     `json:"description,omitempty"`
	Options        []string   `json:"options"`
	RelatedEventID string     `json:"related_event_id,omitempty"`
	RelatedGroupID string     `json:"related_group_id,omitempty"`
	ExpiresAt      *time.Time `json:"expires_at,omitempty"`
}

// VoteRequest is the payload for casting a ballot
type VoteRequest struct {
	OptionID string `json:"option_id"`
}
