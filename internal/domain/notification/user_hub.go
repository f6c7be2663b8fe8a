package notification

import (
	"sync"

	"github.com/personachat/backend/internal/domain/notification/event"
)

type userHub struct {
	userID   string
	sessions map[string]*Session

	mutex sync.RWMutex
}

func newUserHub(userID string) *userHub {
	return &userHub{
		userID:   userID,
		sessions: make(map[string]*Session),
	}
}

// send delivers the event to every session of the user. A session whose
// buffer is full misses the event, and the number of such sessions is
// returned.
func (h *userHub) send(ev *event.EventResponse) int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	dropped := 0
	for _, s := range h.sessions {
		select {
		case s.c <- ev:
		default:
			dropped++
		}
	}

	return dropped
}

func (h *userHub) register(session *Session) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if _, ok := h.sessions[session.id]; !ok {
		h.sessions[session.id] = session
	}
}

func (h *userHub) unregister(session *Session) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	delete(h.sessions, session.id)
}

func (h *userHub) isEmpty() bool {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	return len(h.sessions) == 0
}
