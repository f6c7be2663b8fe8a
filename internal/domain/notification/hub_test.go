package notification

import (
	"context"
	"testing"

	"github.com/personachat/backend/internal/domain/notification/event"
	"github.com/stretchr/testify/require"
)

func TestHub_SendToSessions(t *testing.T) {
	ctx := context.Background()
	hub := NewHub()

	s1 := hub.Join("user1")
	s2 := hub.Join("user1")
	other := hub.Join("user2")
	require.Equal(t, 2, hub.SessionCount("user1"))

	hub.Send(ctx, "user1", &event.BadgeUnlockedEvent{BadgeID: "first_words"})

	for _, s := range []*Session{s1, s2} {
		resp := <-s.C()
		require.Equal(t, "badge_unlocked", resp.Op)
		require.Equal(t, int64(1), resp.Seq)
		require.Equal(t, "first_words", resp.Data.(*event.BadgeUnlockedEvent).BadgeID)
	}
	require.Empty(t, other.C())

	s1.Leave()
	s1.Leave()
	_, open := <-s1.C()
	require.False(t, open)
	require.Equal(t, 1, hub.SessionCount("user1"))

	s2.Leave()
	require.Equal(t, 0, hub.SessionCount("user1"))

	// No session, nothing to do.
	hub.Send(ctx, "user1", &event.BadgeUnlockedEvent{BadgeID: "explorer"})
	other.Leave()
}

func TestHub_SlowSessionDoesNotBlock(t *testing.T) {
	ctx := context.Background()
	hub := NewHub()
	s := hub.Join("user1")
	defer s.Leave()

	for i := 0; i < sessionBufferSize+5; i++ {
		hub.Send(ctx, "user1", &event.BadgeUnlockedEvent{BadgeID: "b"})
	}

	require.Len(t, s.C(), sessionBufferSize)
}
