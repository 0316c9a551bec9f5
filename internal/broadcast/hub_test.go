package broadcast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_PublishReachesOnlyTopic(t *testing.T) {
	h := NewHub(4)
	a, cancelA := h.Subscribe(1)
	defer cancelA()
	b, cancelB := h.Subscribe(2)
	defer cancelB()

	n := h.Publish(Event{Type: EventChat, DebateID: 1, UserID: 7, Message: "hello"})
	assert.Equal(t, 1, n)

	got := <-a
	assert.Equal(t, EventChat, got.Type)
	assert.Equal(t, "hello", got.Message)
	assert.NotEmpty(t, got.ID)
	assert.False(t, got.CreatedAt.IsZero())

	select {
	case e := <-b:
		t.Fatalf("unexpected event on other topic: %+v", e)
	default:
	}
}

func TestHub_SlowSubscriberDropsInsteadOfBlocking(t *testing.T) {
	h := NewHub(1)
	ch, cancel := h.Subscribe(3)
	defer cancel()

	assert.Equal(t, 1, h.Publish(Event{Type: EventJoin, DebateID: 3}))
	assert.Equal(t, 0, h.Publish(Event{Type: EventChat, DebateID: 3}))

	got := <-ch
	assert.Equal(t, EventJoin, got.Type)
}

func TestHub_CancelClosesAndUnregisters(t *testing.T) {
	h := NewHub(0)
	ch, cancel := h.Subscribe(5)
	require.Equal(t, 1, h.Subscribers(5))

	cancel()
	cancel()

	_, open := <-ch
	assert.False(t, open)
	assert.Equal(t, 0, h.Subscribers(5))
	assert.Equal(t, 0, h.Publish(Event{Type: EventLeave, DebateID: 5}))
}
