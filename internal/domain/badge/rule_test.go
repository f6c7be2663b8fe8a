package badge

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newEvaluation(b Badge, event EventKind, payload Payload, current int, scratch *Scratch, now time.Time) *evaluation {
	return &evaluation{
		badge:    b,
		event:    event,
		payload:  decodePayload(context.Background(), payload),
		current:  current,
		scratch:  scratch,
		now:      now,
		location: time.UTC,
	}
}

func TestDecodePayload(t *testing.T) {
	ctx := context.Background()

	fields := decodePayload(ctx, nil)
	require.Equal(t, 1, fields.Count)

	fields = decodePayload(ctx, Payload{"count": "3", "value": 42.0, "id": "a", "entity_id": "chat1"})
	require.Equal(t, 3, fields.Count)
	require.Equal(t, 42, fields.Value)
	require.Equal(t, "a", fields.ID)
	require.Equal(t, "chat1", fields.EntityID)

	fields = decodePayload(ctx, Payload{"count": "many", "id": "b"})
	require.Equal(t, "b", fields.ID)
}

func TestMonotonicCounter(t *testing.T) {
	b := Badge{ID: "b", Target: 10}
	now := time.Now()

	require.Equal(t, 1, MonotonicCounter{}.Apply(context.Background(), newEvaluation(b, "e", nil, 0, NewScratch(), now)))
	require.Equal(t, 7, MonotonicCounter{}.Apply(context.Background(), newEvaluation(b, "e", Payload{"count": 3}, 4, NewScratch(), now)))
}

func TestUniqueSet(t *testing.T) {
	b := Badge{ID: "explorer", Target: 3}
	scratch := NewScratch()
	now := time.Now()
	rule := UniqueSet{}

	require.Equal(t, 1, rule.Apply(context.Background(), newEvaluation(b, "e", Payload{"id": "a"}, 0, scratch, now)))
	require.Equal(t, 1, rule.Apply(context.Background(), newEvaluation(b, "e", Payload{"id": "a"}, 1, scratch, now)))
	require.Equal(t, 2, rule.Apply(context.Background(), newEvaluation(b, "e", Payload{"id": "b"}, 1, scratch, now)))
	require.Equal(t, 2, rule.Apply(context.Background(), newEvaluation(b, "e", nil, 2, scratch, now)))
	require.Equal(t, []string{"a", "b"}, scratch.Sets["explorer"])
}

func TestHighWaterMark(t *testing.T) {
	b := Badge{ID: "deep_dive", Target: 50}
	now := time.Now()

	require.Equal(t, 12, HighWaterMark{}.Apply(context.Background(), newEvaluation(b, "e", Payload{"value": 12}, 5, NewScratch(), now)))
	require.Equal(t, 12, HighWaterMark{}.Apply(context.Background(), newEvaluation(b, "e", Payload{"value": 3}, 12, NewScratch(), now)))
}

func TestDayScoped(t *testing.T) {
	b := Badge{ID: "daily", Target: 20}
	scratch := NewScratch()
	day := time.Date(2024, 3, 10, 10, 0, 0, 0, time.UTC)
	rule := DayScoped{}

	for i := 1; i <= 7; i++ {
		require.Equal(t, i, rule.Apply(context.Background(), newEvaluation(b, "e", nil, i-1, scratch, day)))
	}

	// The counter of the next day starts over, whatever it was before.
	nextDay := day.AddDate(0, 0, 1)
	require.Equal(t, 1, rule.Apply(context.Background(), newEvaluation(b, "e", nil, 7, scratch, nextDay)))
	require.Equal(t, DayCounter{Date: "2024-03-11", Count: 1}, scratch.Daily["daily"])
}

func TestSessionScoped(t *testing.T) {
	b := Badge{ID: "marathon", Target: 30}
	scratch := NewScratch()
	now := time.Now()
	rule := SessionScoped{}

	require.Equal(t, 1, rule.Apply(context.Background(), newEvaluation(b, "e", nil, 0, scratch, now)))
	require.Equal(t, 2, rule.Apply(context.Background(), newEvaluation(b, "e", nil, 1, scratch, now.AddDate(0, 0, 2))))

	scratch.resetSession()
	require.Equal(t, 1, rule.Apply(context.Background(), newEvaluation(b, "e", nil, 2, scratch, now)))
}

func TestTimeWindowGate(t *testing.T) {
	b := Badge{ID: "night_owl", Target: 1}
	rule := TimeWindowGate{FromHour: 0, ToHour: 5}

	night := time.Date(2024, 3, 10, 3, 30, 0, 0, time.UTC)
	require.Equal(t, 1, rule.Apply(context.Background(), newEvaluation(b, "e", nil, 0, NewScratch(), night)))

	noon := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	require.Equal(t, 0, rule.Apply(context.Background(), newEvaluation(b, "e", nil, 0, NewScratch(), noon)))

	dawn := time.Date(2024, 3, 10, 5, 0, 0, 0, time.UTC)
	require.Equal(t, 0, rule.Apply(context.Background(), newEvaluation(b, "e", nil, 0, NewScratch(), dawn)))
}

func TestCorrelationPair(t *testing.T) {
	b := Badge{ID: "cross", Target: 1}
	rule := CorrelationPair{Stage: EventMessageCopied}
	scratch := NewScratch()
	now := time.Now()

	// Paste without copy does nothing.
	require.Equal(t, 0, rule.Apply(context.Background(), newEvaluation(b, EventMessagePasted,
		Payload{"text": "hello", "source": "b"}, 0, scratch, now)))

	require.Equal(t, 0, rule.Apply(context.Background(), newEvaluation(b, EventMessageCopied,
		Payload{"text": "hello", "source": "a"}, 0, scratch, now)))
	require.Equal(t, Staged{Text: "hello", Source: "a"}, scratch.Staged["cross"])

	// Same source does not pair.
	require.Equal(t, 0, rule.Apply(context.Background(), newEvaluation(b, EventMessagePasted,
		Payload{"text": "hello", "source": "a"}, 0, scratch, now)))

	// Different text does not pair.
	require.Equal(t, 0, rule.Apply(context.Background(), newEvaluation(b, EventMessagePasted,
		Payload{"text": "bye", "source": "b"}, 0, scratch, now)))

	require.Equal(t, 1, rule.Apply(context.Background(), newEvaluation(b, EventMessagePasted,
		Payload{"text": "hello", "source": "b"}, 0, scratch, now)))
	require.NotContains(t, scratch.Staged, "cross")
}

func TestStreak(t *testing.T) {
	b := Badge{ID: "loyal", Target: 7}
	rule := Streak{}
	scratch := NewScratch()
	day := time.Date(2024, 3, 10, 20, 0, 0, 0, time.UTC)
	chat := Payload{"entity_id": "chat1"}

	require.Equal(t, 1, rule.Apply(context.Background(), newEvaluation(b, "e", chat, 0, scratch, day)))
	require.Equal(t, 2, rule.Apply(context.Background(), newEvaluation(b, "e", chat, 1, scratch, day.AddDate(0, 0, 1))))

	// Same day is a no-op.
	require.Equal(t, 2, rule.Apply(context.Background(), newEvaluation(b, "e", chat, 2, scratch, day.AddDate(0, 0, 1).Add(time.Hour))))

	// Skipping a day restarts the streak.
	require.Equal(t, 1, rule.Apply(context.Background(), newEvaluation(b, "e", chat, 2, scratch, day.AddDate(0, 0, 3))))

	// Another chat has its own streak.
	require.Equal(t, 1, rule.Apply(context.Background(), newEvaluation(b, "e", Payload{"entity_id": "chat2"}, 2, scratch, day.AddDate(0, 0, 3))))
	require.Len(t, scratch.Streaks["loyal"], 2)

	// No entity, no streak.
	require.Equal(t, 2, rule.Apply(context.Background(), newEvaluation(b, "e", nil, 2, scratch, day)))
}
