package badge

import (
	"context"
	"time"

	"github.com/personachat/backend/pkg/xcontext"
)

type resolver struct {
	catalog      *Catalog
	store        ProgressStore
	recentWindow time.Duration
}

func newResolver(catalog *Catalog, store ProgressStore, recentWindow time.Duration) *resolver {
	return &resolver{catalog: catalog, store: store, recentWindow: recentWindow}
}

// remoteCounts queries the durable store for every locked remote meta-badge.
// All of them share the same window, so at most one query is issued. A failed
// query counts as zero.
func (r *resolver) remoteCounts(
	ctx context.Context, snapshot *Snapshot, now time.Time,
) map[string]int {
	result := map[string]int{}
	pending := []string{}
	for _, b := range r.catalog.MetaBadges() {
		if b.Meta == MetaRemoteWindow && !snapshot.IsUnlocked(b.ID) {
			pending = append(pending, b.ID)
		}
	}

	if len(pending) == 0 {
		return result
	}

	count, err := r.store.CountUnlockedSince(ctx, snapshot.UserID(), now.Add(-r.recentWindow))
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count recent unlocks of user %s: %v", snapshot.UserID(), err)
		count = 0
	}

	for _, id := range pending {
		result[id] = count
	}

	return result
}

// Resolve recomputes every locked meta-badge until nothing changes, so a
// meta-badge depending on another meta-badge unlocked in the same pass is
// resolved too. Resolving an already resolved snapshot changes nothing.
func (r *resolver) Resolve(
	snapshot *Snapshot, remote map[string]int, now time.Time,
) (*Snapshot, []string) {
	newlyUnlocked := []string{}
	for {
		changes := map[string]Progress{}
		for _, b := range r.catalog.MetaBadges() {
			p, _ := snapshot.Get(b.ID)
			if p.Unlocked {
				continue
			}

			var count int
			switch b.Meta {
			case MetaLocal:
				count = snapshot.CountUnlocked(b.DependentBadgeIDs)
			case MetaRemoteWindow:
				count = remote[b.ID]
			}

			next := p
			next.Target = b.Target
			if count > next.Current {
				next.Current = clamp(count, b.Target)
			}

			if next.Current >= b.Target {
				next.Unlocked = true
				next.UnlockedAt = now
				newlyUnlocked = append(newlyUnlocked, b.ID)
			}

			if next != p {
				changes[b.ID] = next
			}
		}

		if len(changes) == 0 {
			return snapshot, newlyUnlocked
		}

		snapshot = snapshot.with(changes)
	}
}
