package badge

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/personachat/backend/internal/common"
	"github.com/personachat/backend/internal/repository"
	"github.com/personachat/backend/pkg/xcontext"
)

type TrackerOptions struct {
	// Clock returns the current time. Defaults to time.Now.
	Clock func() time.Time

	// Location is used for calendar days and hour bands. Defaults to
	// time.Local.
	Location *time.Location

	ToastDuration time.Duration
	RecentWindow  time.Duration
}

func (o TrackerOptions) withDefaults() TrackerOptions {
	if o.Clock == nil {
		o.Clock = time.Now
	}

	if o.Location == nil {
		o.Location = time.Local
	}

	if o.ToastDuration <= 0 {
		o.ToastDuration = 5 * time.Second
	}

	if o.RecentWindow <= 0 {
		o.RecentWindow = 24 * time.Hour
	}

	return o
}

// Tracker owns the badge state of one logged-in user. Track applies events
// synchronously and hands meta resolution, notifications and persistence to
// a background worker.
type Tracker struct {
	userID       string
	catalog      *Catalog
	scratchStore ScratchStore
	opts         TrackerOptions

	// mutex serializes the state transitions. snapshot is only replaced
	// while holding it, but it can be read at any time.
	mutex    sync.Mutex
	snapshot atomic.Pointer[Snapshot]
	scratch  *Scratch
	pending  []string
	closed   bool

	resolver *resolver
	emitter  *emitter
	syncer   *syncer

	kick       chan struct{}
	flush      chan chan struct{}
	quit       chan struct{}
	workerDone chan struct{}
	closeOnce  sync.Once
}

// NewTracker loads the stored progress and the scratch state of the user and
// starts the background worker. Load failures are logged and the tracker
// starts from an empty state.
func NewTracker(
	ctx context.Context,
	userID string,
	catalog *Catalog,
	store ProgressStore,
	scratchStore ScratchStore,
	notificationRepo repository.NotificationRepository,
	opts TrackerOptions,
) *Tracker {
	opts = opts.withDefaults()

	snapshot := newZeroSnapshot(userID, catalog)
	scratch := NewScratch()
	if userID != "" {
		if stored, err := store.FetchProgress(ctx, userID); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot fetch badge progress of user %s: %v", userID, err)
		} else {
			snapshot = stored
		}

		if stored, err := scratchStore.Load(ctx, userID); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot load badge scratch of user %s: %v", userID, err)
		} else {
			scratch = stored
		}
	}

	t := &Tracker{
		userID:       userID,
		catalog:      catalog,
		scratchStore: scratchStore,
		opts:         opts,
		scratch:      scratch,
		resolver:     newResolver(catalog, store, opts.RecentWindow),
		emitter:      newEmitter(catalog, notificationRepo, opts.ToastDuration),
		syncer:       newSyncer(store, snapshot),
		kick:         make(chan struct{}, 1),
		flush:        make(chan chan struct{}),
		quit:         make(chan struct{}),
		workerDone:   make(chan struct{}),
	}
	t.snapshot.Store(snapshot)

	// Meta-badges may already be satisfied by the stored progress.
	t.schedule()
	go t.run(context.WithoutCancel(ctx))

	return t
}

func (t *Tracker) UserID() string {
	return t.userID
}

func (t *Tracker) Catalog() *Catalog {
	return t.catalog
}

// Snapshot returns the latest progress. The result is immutable.
func (t *Tracker) Snapshot() *Snapshot {
	return t.snapshot.Load()
}

// OnNotification replaces the callback invoked for every durable
// notification.
func (t *Tracker) OnNotification(cb NotificationCallback) {
	t.emitter.setCallback(cb)
}

func (t *Tracker) Toasts() []Toast {
	return t.emitter.Toasts(t.opts.Clock())
}

func (t *Tracker) DismissToast(toastID string) bool {
	return t.emitter.Dismiss(toastID)
}

// Track evaluates every badge listening to the event. The new progress is
// visible through Snapshot when Track returns. It never fails: a tracker
// without user, or an event no badge listens to, is ignored.
func (t *Tracker) Track(ctx context.Context, event EventKind, payload Payload) {
	if t == nil || t.userID == "" {
		return
	}

	badges := t.catalog.ByEvent(event)
	if len(badges) == 0 {
		xcontext.Logger(ctx).Debugf("No badge listens to event %s", event)
		return
	}
	common.PromCounters[common.BadgeTrackedEventTotal].WithLabelValues(string(event)).Inc()

	fields := decodePayload(ctx, payload)
	now := t.opts.Clock()

	t.mutex.Lock()
	defer t.mutex.Unlock()

	if t.closed {
		return
	}

	current := t.snapshot.Load()
	changes := map[string]Progress{}
	for _, b := range badges {
		p, _ := current.Get(b.ID)
		if p.Unlocked {
			continue
		}

		candidate := b.Rule.Apply(ctx, &evaluation{
			badge:    b,
			event:    event,
			payload:  fields,
			current:  p.Current,
			scratch:  t.scratch,
			now:      now,
			location: t.opts.Location,
		})

		next := p
		next.Target = b.Target
		if candidate > next.Current {
			next.Current = clamp(candidate, b.Target)
		}

		if next.Current >= b.Target {
			next.Unlocked = true
			next.UnlockedAt = now
			t.pending = append(t.pending, b.ID)
			common.PromCounters[common.BadgeUnlockTotal].WithLabelValues(b.ID).Inc()
		}

		if next != p {
			changes[b.ID] = next
		}
	}

	t.snapshot.Store(current.with(changes))
	t.schedule()
}

// ResetScopedCounters zeroes the session-scoped counters. Day-scoped counters
// and stored progress are not affected.
func (t *Tracker) ResetScopedCounters() {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	t.scratch.resetSession()
}

// Flush blocks until the work scheduled before the call is done.
func (t *Tracker) Flush(ctx context.Context) error {
	done := make(chan struct{})
	select {
	case t.flush <- done:
	case <-t.workerDone:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting events, runs a last background pass and stops the
// worker.
func (t *Tracker) Close(ctx context.Context) error {
	t.closeOnce.Do(func() {
		t.mutex.Lock()
		t.closed = true
		t.mutex.Unlock()
		close(t.quit)
	})

	select {
	case <-t.workerDone:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (t *Tracker) schedule() {
	select {
	case t.kick <- struct{}{}:
	default:
	}
}

func (t *Tracker) run(ctx context.Context) {
	defer close(t.workerDone)

	for {
		select {
		case <-t.kick:
			t.process(ctx)
		case done := <-t.flush:
			t.process(ctx)
			close(done)
		case <-t.quit:
			t.process(ctx)
			return
		}
	}
}

// process runs one background pass. Tracker changes are written first, so
// the windowed count of the store already includes them.
func (t *Tracker) process(ctx context.Context) {
	if t.userID == "" {
		return
	}

	t.syncer.Sync(ctx, t.snapshot.Load())

	now := t.opts.Clock()
	remote := t.resolver.remoteCounts(ctx, t.snapshot.Load(), now)

	t.mutex.Lock()
	resolved, metaUnlocked := t.resolver.Resolve(t.snapshot.Load(), remote, now)
	t.snapshot.Store(resolved)
	for _, id := range metaUnlocked {
		common.PromCounters[common.BadgeUnlockTotal].WithLabelValues(id).Inc()
	}

	unlocked := append(t.pending, metaUnlocked...)
	t.pending = nil
	scratch := t.scratch.Clone()
	t.mutex.Unlock()

	t.emitter.Emit(ctx, t.userID, unlocked, now)
	t.syncer.Sync(ctx, resolved)

	if err := t.scratchStore.Save(ctx, t.userID, scratch); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot save badge scratch of user %s: %v", t.userID, err)
	}
}
