package websocket

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drainMessage(t *testing.T, c *Client) Message {
	t.Helper()

	select {
	case data := <-c.send:
		var msg Message
		require.NoError(t, json.Unmarshal(data, &msg))
		return msg
	default:
		t.Fatal("expected a queued message")
		return Message{}
	}
}

func newTestClient(hub *Hub, email string) *Client {
	return NewClient(hub, nil, email, "volunteer")
}

func TestRegisterSendsWelcome(t *testing.T) {
	hub := NewHub()
	client := newTestClient(hub, "a@x.com")

	hub.registerClient(client)

	msg := drainMessage(t, client)
	assert.Equal(t, MessageTypeWelcome, msg.Type)
	assert.Equal(t, 1, hub.ClientCount())
}

func TestBroadcastReachesAllClients(t *testing.T) {
	hub := NewHub()
	first := newTestClient(hub, "a@x.com")
	second := newTestClient(hub, "b@x.com")
	hub.registerClient(first)
	hub.registerClient(second)
	drainMessage(t, first)
	drainMessage(t, second)

	hub.Broadcast(Message{
		Type: MessageTypePostCreated,
		Data: map[string]interface{}{"id": "p1"},
	})

	assert.Equal(t, MessageTypePostCreated, drainMessage(t, first).Type)
	assert.Equal(t, MessageTypePostCreated, drainMessage(t, second).Type)
}

func TestLateSubscriberReceivesActiveAlert(t *testing.T) {
	hub := NewHub()

	hub.Broadcast(Message{
		Type: MessageTypeSOSAlert,
		Data: map[string]interface{}{"sender": "a@x.com"},
	})

	late := newTestClient(hub, "late@x.com")
	hub.registerClient(late)

	welcome := drainMessage(t, late)
	assert.Equal(t, MessageTypeWelcome, welcome.Type)

	replayed := drainMessage(t, late)
	assert.Equal(t, MessageTypeSOSAlert, replayed.Type)
	assert.Equal(t, "a@x.com", replayed.Data["sender"])
}

func TestResolvedAlertIsNotReplayed(t *testing.T) {
	hub := NewHub()

	hub.Broadcast(Message{
		Type: MessageTypeSOSAlert,
		Data: map[string]interface{}{"sender": "a@x.com"},
	})
	hub.Broadcast(Message{
		Type: MessageTypeSOSResolved,
		Data: map[string]interface{}{"sender": "a@x.com", "resolved": true},
	})

	late := newTestClient(hub, "late@x.com")
	hub.registerClient(late)

	welcome := drainMessage(t, late)
	assert.Equal(t, MessageTypeWelcome, welcome.Type)

	select {
	case <-late.send:
		t.Fatal("resolved alert must not be replayed to late subscribers")
	default:
	}
}

func TestLastAlertSlotIsOverwritten(t *testing.T) {
	hub := NewHub()

	hub.Broadcast(Message{
		Type: MessageTypeSOSAlert,
		Data: map[string]interface{}{"sender": "first@x.com"},
	})
	hub.Broadcast(Message{
		Type: MessageTypeSOSAlert,
		Data: map[string]interface{}{"sender": "second@x.com"},
	})

	last := hub.LastAlert()
	require.NotNil(t, last)
	assert.Equal(t, "second@x.com", last.Data["sender"])
}

func TestSendToUserTargetsPersonalRoom(t *testing.T) {
	hub := NewHub()
	target := newTestClient(hub, "a@x.com")
	other := newTestClient(hub, "b@x.com")
	hub.registerClient(target)
	hub.registerClient(other)
	drainMessage(t, target)
	drainMessage(t, other)

	hub.SendToUser("a@x.com", Message{
		Type:   "sos_alert",
		RoomID: "user_a@x.com",
		Data:   map[string]interface{}{"title": "hello"},
	})

	assert.Equal(t, "sos_alert", drainMessage(t, target).Type)

	select {
	case <-other.send:
		t.Fatal("message leaked to another user's room")
	default:
	}
}

func TestSlowConsumerDropScrubsRooms(t *testing.T) {
	hub := NewHub()
	slow := newTestClient(hub, "slow@x.com")
	hub.registerClient(slow)

	// Nothing drains the send buffer, so enough broadcasts overflow it
	// and the hub drops the client.
	for i := 0; i < 300; i++ {
		hub.Broadcast(Message{
			Type: MessageTypePostCreated,
			Data: map[string]interface{}{"seq": i},
		})
	}

	assert.Equal(t, 0, hub.ClientCount())

	hub.mutex.RLock()
	_, exists := hub.rooms["user_slow@x.com"]
	hub.mutex.RUnlock()
	assert.False(t, exists, "dropped client must leave its personal room")

	// A targeted send after the drop must not reach the closed channel.
	assert.NotPanics(t, func() {
		hub.SendToUser("slow@x.com", Message{
			Type: "sos_alert",
			Data: map[string]interface{}{"title": "hello"},
		})
	})

	// A repeated unregister for the same client is a no-op.
	assert.NotPanics(t, func() {
		hub.unregisterClient(slow)
	})
}

func TestUnregisterRemovesClientAndRooms(t *testing.T) {
	hub := NewHub()
	client := newTestClient(hub, "a@x.com")
	hub.registerClient(client)
	drainMessage(t, client)

	hub.unregisterClient(client)

	assert.Equal(t, 0, hub.ClientCount())
	hub.mutex.RLock()
	_, exists := hub.rooms["user_a@x.com"]
	hub.mutex.RUnlock()
	assert.False(t, exists)
}
