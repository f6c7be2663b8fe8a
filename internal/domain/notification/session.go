package notification

import (
	"sync"

	"github.com/personachat/backend/internal/domain/notification/event"
)

const sessionBufferSize = 16

// Session is one live connection of a user, e.g. a websocket.
type Session struct {
	c chan *event.EventResponse

	id        string
	userID    string
	hub       *Hub
	leaveOnce sync.Once
}

func (s *Session) ID() string {
	return s.id
}

// C receives the events of the user. It is closed by Leave.
func (s *Session) C() <-chan *event.EventResponse {
	return s.c
}

func (s *Session) Leave() {
	s.leaveOnce.Do(func() {
		s.hub.leave(s)
		close(s.c)
	})
}
