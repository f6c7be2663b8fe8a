package domain

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/personachat/backend/internal/domain/badge"
	"github.com/personachat/backend/internal/domain/notification"
	"github.com/personachat/backend/internal/domain/notification/event"
	"github.com/personachat/backend/pkg/pubsub"
	"github.com/personachat/backend/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func testNotification() badge.Notification {
	return badge.Notification{
		ID:         "n1",
		UserID:     "user1",
		BadgeID:    badge.FirstWordsBadge,
		MessageKey: badge.MessageKeyBadgeUnlocked,
		Params:     map[string]any{"badge": "First Words", "level": "bronze"},
		CreatedAt:  testNow,
	}
}

func TestNotificationDispatcher_Dispatch(t *testing.T) {
	ctx := testutil.MockContext()
	hub := notification.NewHub()
	session := hub.Join("user1")
	defer session.Leave()

	var topics []string
	var packs []*pubsub.Pack
	publisher := &testutil.MockPublisher{
		PublishFunc: func(_ context.Context, topic string, pack *pubsub.Pack) error {
			topics = append(topics, topic)
			packs = append(packs, pack)
			return nil
		},
	}

	NewNotificationDispatcher(hub, publisher, "badge_notification").Dispatch(ctx, testNotification())

	resp := <-session.C()
	require.Equal(t, "badge_unlocked", resp.Op)
	require.Equal(t, "n1", resp.Data.(*event.BadgeUnlockedEvent).NotificationID)

	require.Equal(t, []string{"badge_notification"}, topics)
	require.Equal(t, []byte("user1"), packs[0].Key)

	var req struct {
		Op   string                   `json:"o"`
		Data event.BadgeUnlockedEvent `json:"d"`
	}
	require.NoError(t, json.Unmarshal(packs[0].Msg, &req))
	require.Equal(t, "badge_unlocked", req.Op)
	require.Equal(t, badge.FirstWordsBadge, req.Data.BadgeID)
	require.Equal(t, "First Words", req.Data.Params["badge"])
}

func TestNotificationDispatcher_PublishFailure(t *testing.T) {
	ctx := testutil.MockContext()
	hub := notification.NewHub()
	session := hub.Join("user1")
	defer session.Leave()

	publisher := &testutil.MockPublisher{
		PublishFunc: func(context.Context, string, *pubsub.Pack) error {
			return errors.New("broker is down")
		},
	}

	NewNotificationDispatcher(hub, publisher, "badge_notification").Dispatch(ctx, testNotification())

	// The live session is served regardless of the broker.
	resp := <-session.C()
	require.Equal(t, "badge_unlocked", resp.Op)
}

func TestNotificationDispatcher_WithoutPublisher(t *testing.T) {
	ctx := testutil.MockContext()
	hub := notification.NewHub()
	session := hub.Join("user1")
	defer session.Leave()

	NewNotificationDispatcher(hub, nil, "").Dispatch(ctx, testNotification())
	require.Len(t, session.C(), 1)
}
