// Package broadcast fans chat events out to the subscribers of a debate.
package broadcast

import (
	"sync"
	"time"

	"debatehub/internal/utils"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type EventType string

const (
	EventChat  EventType = "CHAT"
	EventJoin  EventType = "JOIN"
	EventLeave EventType = "LEAVE"
)

type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	DebateID  uint      `json:"debate_id"`
	UserID    uint      `json:"user_id"`
	Nickname  string    `json:"nickname"`
	Message   string    `json:"message,omitempty"`
	MessageID uint      `json:"message_id,omitempty"` // persisted chat message, CHAT only
	CreatedAt time.Time `json:"created_at"`
}

const defaultBuffer = 64

// Hub is an in-process publish/subscribe bus keyed by debate id.
// Publish never blocks: an event is dropped for a subscriber whose buffer is full.
type Hub struct {
	mu     sync.RWMutex
	topics map[uint]map[chan Event]struct{}
	buffer int
	log    *logrus.Entry
}

func NewHub(buffer int) *Hub {
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	return &Hub{
		topics: make(map[uint]map[chan Event]struct{}),
		buffer: buffer,
		log:    utils.Component("broadcast"),
	}
}

// Subscribe registers a listener on a debate. The returned cancel func
// unregisters it and closes the channel; it is safe to call more than once.
func (h *Hub) Subscribe(debateID uint) (<-chan Event, func()) {
	ch := make(chan Event, h.buffer)

	h.mu.Lock()
	subs, ok := h.topics[debateID]
	if !ok {
		subs = make(map[chan Event]struct{})
		h.topics[debateID] = subs
	}
	subs[ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.topics[debateID], ch)
			if len(h.topics[debateID]) == 0 {
				delete(h.topics, debateID)
			}
			close(ch)
		})
	}
	return ch, cancel
}

// Publish delivers e to every current subscriber of e.DebateID and returns
// how many received it. Missing ids and timestamps are filled in.
func (h *Hub) Publish(e Event) int {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for ch := range h.topics[e.DebateID] {
		select {
		case ch <- e:
			delivered++
		default:
			h.log.WithFields(logrus.Fields{
				"debate_id": e.DebateID,
				"event_id":  e.ID,
				"type":      e.Type,
			}).Warn("dropping event for slow subscriber")
		}
	}
	return delivered
}

// Subscribers returns the number of listeners on a debate.
func (h *Hub) Subscribers(debateID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.topics[debateID])
}
