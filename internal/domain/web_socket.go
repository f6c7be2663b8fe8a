package domain

import (
	"context"
	"encoding/json"

	"github.com/personachat/backend/internal/domain/notification"
	"github.com/personachat/backend/internal/model"
	"github.com/personachat/backend/pkg/errorx"
	"github.com/personachat/backend/pkg/xcontext"
)

type NotificationStreamDomain interface {
	ServeNotificationStream(context.Context, *model.ServeNotificationStreamRequest) error
}

type notificationStreamDomain struct {
	hub *notification.Hub
}

func NewNotificationStreamDomain(hub *notification.Hub) *notificationStreamDomain {
	return &notificationStreamDomain{hub: hub}
}

// ServeNotificationStream pushes the notification events of the user to the
// websocket until either side closes.
func (d *notificationStreamDomain) ServeNotificationStream(
	ctx context.Context, req *model.ServeNotificationStreamRequest,
) error {
	userID := xcontext.RequestUserID(ctx)
	if userID == "" {
		return errorx.New(errorx.Unauthenticated, "You need to authenticate before")
	}

	wsClient := xcontext.WSClient(ctx)
	if wsClient == nil {
		return errorx.New(errorx.BadRequest, "Require a websocket connection")
	}

	session := d.hub.Join(userID)
	defer session.Leave()

	for {
		select {
		case ev, ok := <-session.C():
			if !ok {
				return errorx.New(errorx.Unavailable, "Session is closed")
			}

			b, err := json.Marshal(ev)
			if err != nil {
				xcontext.Logger(ctx).Warnf("Cannot marshal event: %v", err)
				continue
			}

			if err := wsClient.Write(b); err != nil {
				xcontext.Logger(ctx).Debugf("Cannot send event to client: %v", err)
				return nil
			}

		case _, ok := <-wsClient.R:
			if !ok {
				return nil
			}

		case <-wsClient.Done():
			return nil
		}
	}
}
