package session

import (
	"sync"
	"time"
)

// Session-changed event types.
const (
	EventSignedIn  = "signed-in"
	EventSignedOut = "signed-out"
)

// SessionEvent is pushed to subscribers whenever a session starts or ends.
type SessionEvent struct {
	Type   string    `json:"type"`
	UserID string    `json:"userId"`
	At     time.Time `json:"at"`
}

type subscriberList struct {
	mu    sync.Mutex
	chans []chan SessionEvent
}

// Subscribe registers a new subscriber. The channel is buffered; a subscriber
// that falls behind misses events rather than blocking the provider.
func (s *DefaultSessionService) Subscribe() <-chan SessionEvent {
	ch := make(chan SessionEvent, 16)
	s.subscribers.mu.Lock()
	s.subscribers.chans = append(s.subscribers.chans, ch)
	s.subscribers.mu.Unlock()
	return ch
}

func (s *DefaultSessionService) publish(eventType, userID string) {
	event := SessionEvent{Type: eventType, UserID: userID, At: time.Now()}
	s.subscribers.mu.Lock()
	defer s.subscribers.mu.Unlock()
	for _, ch := range s.subscribers.chans {
		select {
		case ch <- event:
		default:
		}
	}
}
