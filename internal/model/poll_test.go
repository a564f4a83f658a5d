package model

import (
	"testing"
	"time"
)

func tallyPoll() *Poll {
	return &Poll{
		ID:       "poll:1",
		IsActive: true,
		Options: []PollOption{
			{ID: "poll_option:a", Text: "Bowling", Voters: []string{"u1", "u2"}},
			{ID: "poll_option:b", Text: "Climbing", Voters: []string{"u3"}},
			{ID: "poll_option:c", Text: "Karting", Voters: []string{}},
		},
	}
}

func TestPoll_Open_ActiveNoExpiry(t *testing.T) {
	t.Parallel()

	poll := tallyPoll()
	if !poll.Open() {
		t.Error("expected active poll without expiry to be open")
	}
}

func TestPoll_Open_Inactive(t *testing.T) {
	t.Parallel()

	poll := tallyPoll()
	poll.IsActive = false
	if poll.Open() {
		t.Error("expected inactive poll to be closed")
	}
}

func TestPoll_Open_PastExpiry(t *testing.T) {
	t.Parallel()

	poll := tallyPoll()
	past := time.Now().Add(-time.Minute)
	poll.ExpiresAt = &past
	if poll.Open() {
		t.Error("expected expired poll to be closed")
	}
}

func TestPoll_Open_FutureExpiry(t *testing.T) {
	t.Parallel()

	poll := tallyPoll()
	future := time.Now().Add(time.Hour)
	poll.ExpiresAt = &future
	if !poll.Open() {
		t.Error("expected poll with future expiry to be open")
	}
}

func TestPoll_TotalVotes_SumsAllOptions(t *testing.T) {
	t.Parallel()

	poll := tallyPoll()
	if got := poll.TotalVotes(); got != 3 {
		t.Errorf("expected 3 total votes, got %d", got)
	}
}

func TestPoll_HasOption(t *testing.T) {
	t.Parallel()

	poll := tallyPoll()
	if !poll.HasOption("poll_option:b") {
		t.Error("expected option b to belong to poll")
	}
	if poll.HasOption("poll_option:z") {
		t.Error("expected unknown option to be rejected")
	}
}

func TestPoll_VoterOption(t *testing.T) {
	t.Parallel()

	poll := tallyPoll()
	if got := poll.VoterOption("u3"); got != "poll_option:b" {
		t.Errorf("expected u3 on option b, got %q", got)
	}
	if got := poll.VoterOption("u9"); got != "" {
		t.Errorf("expected no ballot for u9, got %q", got)
	}
}

func TestPollOption_VoteCount(t *testing.T) {
	t.Parallel()

	poll := tallyPoll()
	if got := poll.Options[0].VoteCount(); got != 2 {
		t.Errorf("expected 2 votes, got %d", got)
	}
}
