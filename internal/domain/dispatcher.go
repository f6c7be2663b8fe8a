package domain

import (
	"context"
	"encoding/json"

	"github.com/personachat/backend/internal/domain/badge"
	"github.com/personachat/backend/internal/domain/notification"
	"github.com/personachat/backend/internal/domain/notification/event"
	"github.com/personachat/backend/pkg/pubsub"
	"github.com/personachat/backend/pkg/xcontext"
)

// NotificationDispatcher forwards badge notifications to the live sessions
// of the user and, if a publisher is set, to the message broker.
type NotificationDispatcher struct {
	hub       *notification.Hub
	publisher pubsub.Publisher
	topic     string
}

func NewNotificationDispatcher(
	hub *notification.Hub,
	publisher pubsub.Publisher,
	topic string,
) *NotificationDispatcher {
	return &NotificationDispatcher{
		hub:       hub,
		publisher: publisher,
		topic:     topic,
	}
}

func (d *NotificationDispatcher) Dispatch(ctx context.Context, n badge.Notification) {
	ev := &event.BadgeUnlockedEvent{
		NotificationID: n.ID,
		UserID:         n.UserID,
		BadgeID:        n.BadgeID,
		MessageKey:     n.MessageKey,
		Params:         n.Params,
		CreatedAt:      n.CreatedAt,
	}

	if d.hub != nil {
		d.hub.Send(ctx, n.UserID, ev)
	}

	if d.publisher == nil {
		return
	}

	b, err := json.Marshal(event.New(ev, event.Metadata{To: n.UserID}))
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot marshal badge notification: %v", err)
		return
	}

	err = d.publisher.Publish(ctx, d.topic, &pubsub.Pack{Key: []byte(n.UserID), Msg: b})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot publish badge notification: %v", err)
	}
}
