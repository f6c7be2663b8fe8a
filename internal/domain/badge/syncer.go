package badge

import (
	"context"
	"time"

	"github.com/personachat/backend/pkg/xcontext"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// syncer writes the difference between the in-memory snapshot and the last
// state known to be stored. The baseline only moves forward after a
// successful write, so a failed write is retried by the next pass.
type syncer struct {
	store    ProgressStore
	baseline map[string]Progress
}

func newSyncer(store ProgressStore, stored *Snapshot) *syncer {
	return &syncer{store: store, baseline: stored.ProgressByBadgeID()}
}

// diff returns the rows which differ from the baseline. UnlockedAt is only
// kept on rows which become unlocked with this write.
func (s *syncer) diff(snapshot *Snapshot) []Progress {
	ids := maps.Keys(snapshot.progress)
	slices.Sort(ids)

	rows := []Progress{}
	for _, id := range ids {
		p := snapshot.progress[id]
		old, ok := s.baseline[id]
		if ok && old.Current == p.Current && old.Target == p.Target && old.Unlocked == p.Unlocked {
			continue
		}

		row := p
		transition := p.Unlocked && !(ok && old.Unlocked)
		if !transition {
			row.UnlockedAt = time.Time{}
		}

		rows = append(rows, row)
	}

	return rows
}

func (s *syncer) Sync(ctx context.Context, snapshot *Snapshot) {
	rows := s.diff(snapshot)
	if len(rows) == 0 {
		return
	}

	if err := s.store.UpsertProgress(ctx, snapshot.UserID(), rows); err != nil {
		xcontext.Logger(ctx).Errorf(
			"Cannot sync %d badge progress rows of user %s: %v", len(rows), snapshot.UserID(), err)
		return
	}

	for _, row := range rows {
		s.baseline[row.BadgeID] = snapshot.progress[row.BadgeID]
	}
}
