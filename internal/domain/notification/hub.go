package notification

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/personachat/backend/internal/domain/notification/event"
	"github.com/personachat/backend/pkg/xcontext"
	"github.com/puzpuzpuz/xsync"
)

// Hub fans out events to the live sessions of each user.
type Hub struct {
	userHubs *xsync.MapOf[string, *userHub]
	seq      atomic.Int64

	// mutex guards the creation and removal of user hubs against concurrent
	// joins.
	mutex sync.Mutex
}

func NewHub() *Hub {
	return &Hub{userHubs: xsync.NewMapOf[*userHub]()}
}

// Join opens a new session for the user.
func (h *Hub) Join(userID string) *Session {
	session := &Session{
		c:      make(chan *event.EventResponse, sessionBufferSize),
		id:     uuid.NewString(),
		userID: userID,
		hub:    h,
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()

	uh, ok := h.userHubs.Load(userID)
	if !ok {
		uh = newUserHub(userID)
		h.userHubs.Store(userID, uh)
	}
	uh.register(session)

	return session
}

func (h *Hub) leave(session *Session) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	uh, ok := h.userHubs.Load(session.userID)
	if !ok {
		return
	}

	uh.unregister(session)
	if uh.isEmpty() {
		h.userHubs.Delete(session.userID)
	}
}

// Send delivers the event to every live session of the user. It never
// blocks; users without session are skipped.
func (h *Hub) Send(ctx context.Context, userID string, ev event.Event) {
	uh, ok := h.userHubs.Load(userID)
	if !ok {
		return
	}

	resp := event.Format(event.New(ev, event.Metadata{To: userID}), h.seq.Add(1))
	if dropped := uh.send(resp); dropped > 0 {
		xcontext.Logger(ctx).Warnf("Dropped event %s for %d slow sessions of user %s", ev.Op(), dropped, userID)
	}
}

func (h *Hub) SessionCount(userID string) int {
	uh, ok := h.userHubs.Load(userID)
	if !ok {
		return 0
	}

	uh.mutex.RLock()
	defer uh.mutex.RUnlock()
	return len(uh.sessions)
}
