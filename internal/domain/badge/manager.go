package badge

import (
	"context"
	"sync"

	"github.com/personachat/backend/internal/common"
	"github.com/personachat/backend/internal/repository"
	"github.com/personachat/backend/pkg/errorx"
	"github.com/personachat/backend/pkg/xcontext"
	"github.com/puzpuzpuz/xsync"
	"golang.org/x/sync/errgroup"
)

// Manager keeps one Tracker per logged-in user.
type Manager struct {
	catalog          *Catalog
	store            ProgressStore
	scratchStore     ScratchStore
	notificationRepo repository.NotificationRepository
	opts             TrackerOptions

	trackers *xsync.MapOf[string, *Tracker]

	// loginMutex prevents two concurrent logins of the same user from
	// creating two trackers.
	loginMutex sync.Mutex

	callbackMutex sync.RWMutex
	callback      NotificationCallback
}

func NewManager(
	catalog *Catalog,
	store ProgressStore,
	scratchStore ScratchStore,
	notificationRepo repository.NotificationRepository,
	opts TrackerOptions,
) *Manager {
	return &Manager{
		catalog:          catalog,
		store:            store,
		scratchStore:     scratchStore,
		notificationRepo: notificationRepo,
		opts:             opts,
		trackers:         xsync.NewMapOf[*Tracker](),
	}
}

func (m *Manager) Catalog() *Catalog {
	return m.catalog
}

// OnNotification sets the single callback receiving the notifications of
// every tracker.
func (m *Manager) OnNotification(cb NotificationCallback) {
	m.callbackMutex.Lock()
	defer m.callbackMutex.Unlock()
	m.callback = cb
}

func (m *Manager) notify(ctx context.Context, n Notification) {
	m.callbackMutex.RLock()
	cb := m.callback
	m.callbackMutex.RUnlock()

	if cb != nil {
		cb(ctx, n)
	}
}

// Login returns the tracker of the user, creating it on the first call.
func (m *Manager) Login(ctx context.Context, userID string) (*Tracker, error) {
	if userID == "" {
		return nil, errorx.New(errorx.Unauthenticated, "No user to track")
	}

	if t, ok := m.trackers.Load(userID); ok {
		return t, nil
	}

	m.loginMutex.Lock()
	defer m.loginMutex.Unlock()

	if t, ok := m.trackers.Load(userID); ok {
		return t, nil
	}

	t := NewTracker(ctx, userID, m.catalog, m.store, m.scratchStore, m.notificationRepo, m.opts)
	t.OnNotification(m.notify)
	m.trackers.Store(userID, t)
	common.PromGauges[common.ActiveTrackers].WithLabelValues().Inc()
	xcontext.Logger(ctx).Debugf("Started badge tracker of user %s", userID)

	return t, nil
}

// Logout drains and discards the tracker of the user. Stored progress is
// kept. A concurrent Login of the same user waits until the final sync is
// done.
func (m *Manager) Logout(ctx context.Context, userID string) error {
	m.loginMutex.Lock()
	defer m.loginMutex.Unlock()

	t, ok := m.trackers.LoadAndDelete(userID)
	if !ok {
		return nil
	}
	common.PromGauges[common.ActiveTrackers].WithLabelValues().Dec()

	return t.Close(ctx)
}

func (m *Manager) Get(userID string) (*Tracker, bool) {
	return m.trackers.Load(userID)
}

// Track forwards the event to the tracker of the user. Events of users
// without a tracker are ignored.
func (m *Manager) Track(ctx context.Context, userID string, event EventKind, payload Payload) {
	t, ok := m.trackers.Load(userID)
	if !ok {
		xcontext.Logger(ctx).Debugf("Ignored event %s of user %q without session", event, userID)
		return
	}

	t.Track(ctx, event, payload)
}

func (m *Manager) ResetScopedCounters(userID string) {
	if t, ok := m.trackers.Load(userID); ok {
		t.ResetScopedCounters()
	}
}

// Shutdown closes every tracker concurrently.
func (m *Manager) Shutdown(ctx context.Context) error {
	m.loginMutex.Lock()
	defer m.loginMutex.Unlock()

	trackers := []*Tracker{}
	m.trackers.Range(func(_ string, t *Tracker) bool {
		trackers = append(trackers, t)
		return true
	})

	g, gctx := errgroup.WithContext(ctx)
	for _, t := range trackers {
		t := t
		m.trackers.Delete(t.UserID())
		common.PromGauges[common.ActiveTrackers].WithLabelValues().Dec()
		g.Go(func() error {
			return t.Close(gctx)
		})
	}

	return g.Wait()
}
