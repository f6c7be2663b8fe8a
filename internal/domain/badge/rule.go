package badge

import (
	"context"
	"time"

	"github.com/personachat/backend/pkg/dateutil"
	"golang.org/x/exp/slices"
)

// Rule is the update strategy of a directly tracked badge. Apply returns the
// candidate progress for the badge and may update the family scratch state.
// The tracker keeps the larger of the stored and the candidate progress, then
// clamps it to the target.
type Rule interface {
	Apply(ctx context.Context, e *evaluation) int
}

// stagingRule is a Rule which also listens to a second event that prepares
// state for the trigger event.
type stagingRule interface {
	StageEvent() EventKind
}

type evaluation struct {
	badge    Badge
	event    EventKind
	payload  payloadFields
	current  int
	scratch  *Scratch
	now      time.Time
	location *time.Location
}

func (e *evaluation) today() string {
	return dateutil.DayKey(e.now, e.location)
}

// MonotonicCounter adds payload.count (default 1) on every event.
type MonotonicCounter struct{}

func (MonotonicCounter) Apply(_ context.Context, e *evaluation) int {
	return e.current + e.payload.Count
}

// UniqueSet counts the distinct payload.id values seen.
type UniqueSet struct{}

func (UniqueSet) Apply(_ context.Context, e *evaluation) int {
	if e.payload.ID == "" {
		return e.current
	}

	seen := e.scratch.Sets[e.badge.ID]
	if !slices.Contains(seen, e.payload.ID) {
		seen = append(seen, e.payload.ID)
		e.scratch.Sets[e.badge.ID] = seen
	}

	return len(seen)
}

// HighWaterMark keeps the largest payload.value seen.
type HighWaterMark struct{}

func (HighWaterMark) Apply(_ context.Context, e *evaluation) int {
	if e.payload.Value > e.current {
		return e.payload.Value
	}

	return e.current
}

// DayScoped counts events of the current calendar day only. The counter
// restarts from zero on the first event of a new day.
type DayScoped struct{}

func (DayScoped) Apply(_ context.Context, e *evaluation) int {
	today := e.today()
	counter := e.scratch.Daily[e.badge.ID]
	if counter.Date != today {
		counter = DayCounter{Date: today}
	}

	counter.Count += e.payload.Count
	e.scratch.Daily[e.badge.ID] = counter

	return counter.Count
}

// SessionScoped counts events since login or the last ResetScopedCounters.
type SessionScoped struct{}

func (SessionScoped) Apply(_ context.Context, e *evaluation) int {
	e.scratch.session[e.badge.ID] += e.payload.Count
	return e.scratch.session[e.badge.ID]
}

// TimeWindowGate completes the badge when the event happens in the local hour
// band [FromHour, ToHour).
type TimeWindowGate struct {
	FromHour int
	ToHour   int
}

func (g TimeWindowGate) Apply(_ context.Context, e *evaluation) int {
	if dateutil.InHourBand(e.now, e.location, g.FromHour, g.ToHour) {
		return e.badge.Target
	}

	return e.current
}

// CorrelationPair completes the badge when the trigger event carries the same
// text as the staged one but comes from a different source. The staged value
// is cleared on success.
type CorrelationPair struct {
	Stage EventKind
}

func (c CorrelationPair) StageEvent() EventKind {
	return c.Stage
}

func (c CorrelationPair) Apply(_ context.Context, e *evaluation) int {
	if e.event == c.Stage {
		if e.payload.Text != "" {
			e.scratch.Staged[e.badge.ID] = Staged{
				Text:   e.payload.Text,
				Source: e.payload.Source,
			}
		}

		return e.current
	}

	staged, ok := e.scratch.Staged[e.badge.ID]
	if !ok || staged.Text != e.payload.Text || staged.Source == e.payload.Source {
		return e.current
	}

	delete(e.scratch.Staged, e.badge.ID)
	return e.badge.Target
}

// Streak tracks consecutive calendar days per payload.entity_id. The badge
// progress is the streak of the entity which was just touched.
type Streak struct{}

func (Streak) Apply(_ context.Context, e *evaluation) int {
	if e.payload.EntityID == "" {
		return e.current
	}

	entities, ok := e.scratch.Streaks[e.badge.ID]
	if !ok {
		entities = map[string]StreakState{}
		e.scratch.Streaks[e.badge.ID] = entities
	}

	today := e.today()
	state := entities[e.payload.EntityID]
	switch {
	case state.LastDate == today:
		// Same day, nothing to extend.
	case dateutil.IsYesterday(state.LastDate, today):
		state.Streak++
		state.LastDate = today
	default:
		state.Streak = 1
		state.LastDate = today
	}
	entities[e.payload.EntityID] = state

	return state.Streak
}
