package badge

import (
	"context"
	"database/sql"
	"time"

	"github.com/personachat/backend/internal/common"
	"github.com/personachat/backend/internal/entity"
	"github.com/personachat/backend/internal/repository"
	"github.com/personachat/backend/pkg/xcontext"
)

// ProgressStore is the durable side of the badge progress.
type ProgressStore interface {
	// FetchProgress returns the progress of every catalog badge. Badges
	// without a stored row are reported locked at zero.
	FetchProgress(ctx context.Context, userID string) (*Snapshot, error)

	// UpsertProgress writes rows keyed by (user, badge). UnlockedAt is only
	// written for rows which carry it.
	UpsertProgress(ctx context.Context, userID string, rows []Progress) error

	// CountUnlockedSince counts the distinct non-meta badges unlocked at or
	// after since.
	CountUnlockedSince(ctx context.Context, userID string, since time.Time) (int, error)
}

type progressStore struct {
	catalog      *Catalog
	progressRepo repository.UserBadgeProgressRepository
}

func NewProgressStore(
	catalog *Catalog,
	progressRepo repository.UserBadgeProgressRepository,
) *progressStore {
	return &progressStore{catalog: catalog, progressRepo: progressRepo}
}

func (s *progressStore) FetchProgress(ctx context.Context, userID string) (*Snapshot, error) {
	rows, err := s.progressRepo.GetByUserID(ctx, userID)
	if err != nil {
		common.PromCounters[common.BadgeStoreFailureTotal].WithLabelValues("fetch").Inc()
		return nil, err
	}

	snapshot := newZeroSnapshot(userID, s.catalog)
	changes := map[string]Progress{}
	for _, row := range rows {
		b, ok := s.catalog.Get(row.BadgeID)
		if !ok {
			continue
		}

		p := Progress{
			BadgeID:  b.ID,
			Current:  clamp(row.CurrentProgress, b.Target),
			Target:   b.Target,
			Unlocked: row.UnlockedAt.Valid,
		}

		if p.Unlocked {
			p.UnlockedAt = row.UnlockedAt.Time
		}

		changes[b.ID] = p
	}

	missing := []entity.UserBadgeProgress{}
	for _, b := range s.catalog.All() {
		if _, ok := changes[b.ID]; !ok {
			missing = append(missing, entity.UserBadgeProgress{
				UserID:         userID,
				BadgeID:        b.ID,
				TargetProgress: b.Target,
			})
		}
	}

	if err := s.progressRepo.CreateIfNotExists(ctx, missing); err != nil {
		common.PromCounters[common.BadgeStoreFailureTotal].WithLabelValues("seed").Inc()
		xcontext.Logger(ctx).Warnf("Cannot seed badge progress of user %s: %v", userID, err)
	}

	return snapshot.with(changes), nil
}

func (s *progressStore) UpsertProgress(ctx context.Context, userID string, rows []Progress) error {
	if len(rows) == 0 {
		return nil
	}

	entities := make([]entity.UserBadgeProgress, 0, len(rows))
	for _, row := range rows {
		e := entity.UserBadgeProgress{
			UserID:          userID,
			BadgeID:         row.BadgeID,
			CurrentProgress: row.Current,
			TargetProgress:  row.Target,
		}

		if row.Unlocked && !row.UnlockedAt.IsZero() {
			e.UnlockedAt = sql.NullTime{Valid: true, Time: row.UnlockedAt.UTC()}
		}

		entities = append(entities, e)
	}

	if err := s.progressRepo.Upsert(ctx, entities); err != nil {
		common.PromCounters[common.BadgeStoreFailureTotal].WithLabelValues("upsert").Inc()
		return err
	}

	return nil
}

func (s *progressStore) CountUnlockedSince(
	ctx context.Context, userID string, since time.Time,
) (int, error) {
	count, err := s.progressRepo.CountUnlockedSince(ctx, userID, since.UTC(), s.catalog.NonMetaIDs())
	if err != nil {
		common.PromCounters[common.BadgeStoreFailureTotal].WithLabelValues("count").Inc()
		return 0, err
	}

	return int(count), nil
}

func clamp(value, target int) int {
	if value < 0 {
		return 0
	}

	if value > target {
		return target
	}

	return value
}
