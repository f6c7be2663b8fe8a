package badge

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/personachat/backend/internal/entity"
	"github.com/personachat/backend/internal/repository"
	"github.com/personachat/backend/pkg/xcontext"
)

const MessageKeyBadgeUnlocked = "notification.badge_unlocked"

// Toast is a short-lived unlock banner.
type Toast struct {
	ID        string
	BadgeID   string
	BadgeName string
	Level     Level
	ExpiresAt time.Time
}

// Notification is a durable unlock record.
type Notification struct {
	ID         string
	UserID     string
	BadgeID    string
	MessageKey string
	Params     map[string]any
	CreatedAt  time.Time
}

type NotificationCallback func(ctx context.Context, n Notification)

type emitter struct {
	catalog          *Catalog
	notificationRepo repository.NotificationRepository
	toastDuration    time.Duration

	mutex    sync.Mutex
	emitted  map[string]struct{}
	toasts   []Toast
	callback NotificationCallback
}

func newEmitter(
	catalog *Catalog,
	notificationRepo repository.NotificationRepository,
	toastDuration time.Duration,
) *emitter {
	return &emitter{
		catalog:          catalog,
		notificationRepo: notificationRepo,
		toastDuration:    toastDuration,
		emitted:          make(map[string]struct{}),
	}
}

func (e *emitter) setCallback(cb NotificationCallback) {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	e.callback = cb
}

// Emit produces one toast and one notification for each visible badge in
// badgeIDs which was never emitted before by this emitter.
func (e *emitter) Emit(ctx context.Context, userID string, badgeIDs []string, now time.Time) {
	notifications := []Notification{}

	e.mutex.Lock()
	for _, id := range badgeIDs {
		if _, ok := e.emitted[id]; ok {
			continue
		}
		e.emitted[id] = struct{}{}

		b, ok := e.catalog.Get(id)
		if !ok || b.IsSilent() {
			continue
		}

		e.toasts = append(e.toasts, Toast{
			ID:        uuid.NewString(),
			BadgeID:   b.ID,
			BadgeName: b.Name,
			Level:     b.Level,
			ExpiresAt: now.Add(e.toastDuration),
		})

		notifications = append(notifications, Notification{
			ID:         uuid.NewString(),
			UserID:     userID,
			BadgeID:    b.ID,
			MessageKey: MessageKeyBadgeUnlocked,
			Params:     map[string]any{"badge": b.Name, "level": string(b.Level)},
			CreatedAt:  now,
		})
	}
	callback := e.callback
	e.mutex.Unlock()

	for _, n := range notifications {
		if e.notificationRepo != nil {
			err := e.notificationRepo.Create(ctx, &entity.Notification{
				Base:       entity.Base{ID: n.ID, CreatedAt: n.CreatedAt},
				UserID:     n.UserID,
				BadgeID:    n.BadgeID,
				MessageKey: n.MessageKey,
				Params:     n.Params,
			})
			if err != nil {
				xcontext.Logger(ctx).Errorf("Cannot create notification of badge %s: %v", n.BadgeID, err)
			}
		}

		if callback != nil {
			callback(ctx, n)
		}
	}
}

// Toasts returns the toasts which have not expired at now.
func (e *emitter) Toasts(now time.Time) []Toast {
	e.mutex.Lock()
	defer e.mutex.Unlock()

	alive := e.toasts[:0]
	for _, t := range e.toasts {
		if now.Before(t.ExpiresAt) {
			alive = append(alive, t)
		}
	}
	e.toasts = alive

	return append([]Toast(nil), alive...)
}

func (e *emitter) Dismiss(toastID string) bool {
	e.mutex.Lock()
	defer e.mutex.Unlock()

	for i, t := range e.toasts {
		if t.ID == toastID {
			e.toasts = append(e.toasts[:i], e.toasts[i+1:]...)
			return true
		}
	}

	return false
}
