package events

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHub() *Hub {
	return NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestHubDeliversToRoomSubscribers(t *testing.T) {
	hub := newTestHub()
	first := hub.Subscribe("room-1")
	second := hub.Subscribe("room-1")
	other := hub.Subscribe("room-2")

	hub.BroadcastToRoom("room-1", Message{Type: TypeMatchUpdated, Payload: "update"})

	for _, sub := range []<-chan Message{first, second} {
		select {
		case msg := <-sub:
			assert.Equal(t, TypeMatchUpdated, msg.Type)
			assert.Equal(t, "room-1", msg.RoomID)
			assert.Equal(t, "update", msg.Payload)
		default:
			t.Fatal("expected a buffered message")
		}
	}

	select {
	case msg := <-other:
		t.Fatalf("room-2 subscriber received %v", msg)
	default:
	}
}

func TestHubBroadcastToEmptyRoom(t *testing.T) {
	hub := newTestHub()
	hub.BroadcastToRoom("nobody-home", Message{Type: TypeBracketGenerated})
}

func TestHubUnsubscribeClosesChannel(t *testing.T) {
	hub := newTestHub()
	sub := hub.Subscribe("room-1")
	hub.Unsubscribe("room-1", sub)

	_, open := <-sub
	require.False(t, open)

	// A message after unsubscribe goes nowhere.
	hub.BroadcastToRoom("room-1", Message{Type: TypeMatchUpdated})
}

func TestHubDropsMessagesWhenBufferIsFull(t *testing.T) {
	hub := newTestHub()
	sub := hub.Subscribe("room-1")

	for i := 0; i < sendBuffer+5; i++ {
		hub.BroadcastToRoom("room-1", Message{Type: TypeMatchUpdated, Payload: i})
	}

	received := 0
	for {
		select {
		case <-sub:
			received++
			continue
		default:
		}
		break
	}
	assert.Equal(t, sendBuffer, received, "overflow must be dropped, not block")
}
