package realtime

import (
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/gatherly/api/internal/config"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestClient(id, userID string, buffer int) *Client {
	cfg := config.RealtimeConfig{SendBuffer: buffer}
	return NewClient(id, userID, nil, cfg, testLogger())
}

func drain(t *testing.T, c *Client) *Event {
	t.Helper()
	select {
	case frame := <-c.send:
		var event Event
		if err := json.Unmarshal(frame, &event); err != nil {
			t.Fatalf("bad frame: %v", err)
		}
		return &event
	default:
		return nil
	}
}

func TestHub_RegisterUnregister_TracksClients(t *testing.T) {
	t.Parallel()

	hub := NewHub(testLogger())
	c := newTestClient("c1", "user-1", 4)

	hub.Register(c)
	if hub.ClientCount() != 1 {
		t.Errorf("expected 1 client, got %d", hub.ClientCount())
	}

	hub.Unregister(c)
	if hub.ClientCount() != 0 {
		t.Errorf("expected 0 clients, got %d", hub.ClientCount())
	}
}

func TestHub_Unregister_Twice_NoPanic(t *testing.T) {
	t.Parallel()

	hub := NewHub(testLogger())
	c := newTestClient("c1", "user-1", 4)

	hub.Register(c)
	hub.Unregister(c)
	hub.Unregister(c)
}

func TestHub_Unregister_DropsRoomMembership(t *testing.T) {
	t.Parallel()

	hub := NewHub(testLogger())
	c := newTestClient("c1", "user-1", 4)

	hub.Register(c)
	hub.JoinRoom("groups:1", c)
	hub.JoinRoom("groups:2", c)
	hub.Unregister(c)

	if hub.RoomSize("groups:1") != 0 || hub.RoomSize("groups:2") != 0 {
		t.Error("expected unregister to leave every room")
	}
}

func TestHub_BroadcastRoom_OnlyReachesRoomMembers(t *testing.T) {
	t.Parallel()

	hub := NewHub(testLogger())
	inRoom := newTestClient("c1", "user-1", 4)
	outside := newTestClient("c2", "user-2", 4)

	hub.Register(inRoom)
	hub.Register(outside)
	hub.JoinRoom("groups:1", inRoom)

	hub.BroadcastRoom("groups:1", &Event{Type: "newMessage"})

	if event := drain(t, inRoom); event == nil || event.Type != "newMessage" {
		t.Errorf("expected room member to receive newMessage, got %+v", event)
	}
	if event := drain(t, outside); event != nil {
		t.Errorf("expected outsider to receive nothing, got %+v", event)
	}
}

func TestHub_BroadcastAll_ReachesEveryClient(t *testing.T) {
	t.Parallel()

	hub := NewHub(testLogger())
	c1 := newTestClient("c1", "user-1", 4)
	c2 := newTestClient("c2", "user-2", 4)

	hub.Register(c1)
	hub.Register(c2)
	hub.JoinRoom("groups:1", c1)

	hub.BroadcastAll(&Event{Type: "pollUpdated"})

	if event := drain(t, c1); event == nil || event.Type != "pollUpdated" {
		t.Errorf("expected c1 to receive pollUpdated, got %+v", event)
	}
	if event := drain(t, c2); event == nil || event.Type != "pollUpdated" {
		t.Errorf("expected c2 to receive pollUpdated, got %+v", event)
	}
}

func TestHub_LeaveRoom_StopsRoomDelivery(t *testing.T) {
	t.Parallel()

	hub := NewHub(testLogger())
	c := newTestClient("c1", "user-1", 4)

	hub.Register(c)
	hub.JoinRoom("groups:1", c)
	hub.LeaveRoom("groups:1", c)

	hub.BroadcastRoom("groups:1", &Event{Type: "newMessage"})

	if event := drain(t, c); event != nil {
		t.Errorf("expected nothing after leaving room, got %+v", event)
	}
}

func TestHub_LeaveRoom_NeverJoined_NoOp(t *testing.T) {
	t.Parallel()

	hub := NewHub(testLogger())
	c := newTestClient("c1", "user-1", 4)

	hub.Register(c)
	hub.LeaveRoom("groups:9", c)
}

func TestHub_SlowClient_FramesDroppedNotBlocked(t *testing.T) {
	t.Parallel()

	hub := NewHub(testLogger())
	c := newTestClient("c1", "user-1", 1)

	hub.Register(c)

	// Second broadcast overflows the single-slot buffer; the hub must
	// drop the frame rather than block.
	hub.BroadcastAll(&Event{Type: "pollUpdated"})
	hub.BroadcastAll(&Event{Type: "pollUpdated"})

	if event := drain(t, c); event == nil {
		t.Error("expected the first frame to be buffered")
	}
	if event := drain(t, c); event != nil {
		t.Errorf("expected the overflow frame to be dropped, got %+v", event)
	}
}

func TestEventEncode_CarriesTypeAndData(t *testing.T) {
	t.Parallel()

	event := Event{Type: "newMessage", Data: map[string]string{"content": "hi"}}
	var decoded struct {
		Type string            `json:"type"`
		Data map[string]string `json:"data"`
	}
	if err := json.Unmarshal(event.Encode(), &decoded); err != nil {
		t.Fatalf("bad frame: %v", err)
	}
	if decoded.Type != "newMessage" || decoded.Data["content"] != "hi" {
		t.Errorf("unexpected frame contents: %+v", decoded)
	}
}
