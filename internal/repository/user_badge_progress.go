package repository

import (
	"context"
	"time"

	"github.com/personachat/backend/internal/entity"
	"github.com/personachat/backend/pkg/xcontext"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserBadgeProgressRepository interface {
	GetByUserID(ctx context.Context, userID string) ([]entity.UserBadgeProgress, error)
	CreateIfNotExists(ctx context.Context, rows []entity.UserBadgeProgress) error
	Upsert(ctx context.Context, rows []entity.UserBadgeProgress) error
	CountUnlockedSince(ctx context.Context, userID string, since time.Time, badgeIDs []string) (int64, error)
}

type userBadgeProgressRepository struct{}

func NewUserBadgeProgressRepository() *userBadgeProgressRepository {
	return &userBadgeProgressRepository{}
}

func (r *userBadgeProgressRepository) GetByUserID(
	ctx context.Context, userID string,
) ([]entity.UserBadgeProgress, error) {
	result := []entity.UserBadgeProgress{}
	if err := xcontext.DB(ctx).Where("user_id=?", userID).Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

// CreateIfNotExists inserts rows whose (user_id, badge_id) key is absent and
// leaves existing rows untouched.
func (r *userBadgeProgressRepository) CreateIfNotExists(
	ctx context.Context, rows []entity.UserBadgeProgress,
) error {
	if len(rows) == 0 {
		return nil
	}

	return xcontext.DB(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&rows).Error
}

// Upsert writes rows keyed by (user_id, badge_id). The unlocked_at column is
// only written for rows which carry a valid UnlockedAt and only while it is
// still NULL in the store, so a stored timestamp is never overwritten.
func (r *userBadgeProgressRepository) Upsert(
	ctx context.Context, rows []entity.UserBadgeProgress,
) error {
	unlocking := []entity.UserBadgeProgress{}
	progressing := []entity.UserBadgeProgress{}
	for _, row := range rows {
		if row.UnlockedAt.Valid {
			unlocking = append(unlocking, row)
		} else {
			progressing = append(progressing, row)
		}
	}

	tx := xcontext.DB(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}

	if len(progressing) > 0 {
		err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "badge_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"current_progress", "target_progress", "updated_at",
			}),
		}).Create(&progressing).Error
		if err != nil {
			tx.Rollback()
			return err
		}
	}

	if len(unlocking) > 0 {
		err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "badge_id"}},
			DoUpdates: append(
				clause.AssignmentColumns([]string{"current_progress", "target_progress", "updated_at"}),
				clause.Assignment{
					Column: clause.Column{Name: "unlocked_at"},
					Value:  keepUnlockedAt(tx),
				},
			),
		}).Create(&unlocking).Error
		if err != nil {
			tx.Rollback()
			return err
		}
	}

	return tx.Commit().Error
}

// keepUnlockedAt returns the stored unlocked_at if set, otherwise the
// incoming one.
func keepUnlockedAt(tx *gorm.DB) clause.Expr {
	if tx.Dialector.Name() == "mysql" {
		return gorm.Expr("COALESCE(unlocked_at, VALUES(unlocked_at))")
	}

	return gorm.Expr("COALESCE(unlocked_at, excluded.unlocked_at)")
}

func (r *userBadgeProgressRepository) CountUnlockedSince(
	ctx context.Context, userID string, since time.Time, badgeIDs []string,
) (int64, error) {
	var count int64
	tx := xcontext.DB(ctx).Model(&entity.UserBadgeProgress{}).
		Where("user_id=? AND unlocked_at IS NOT NULL AND unlocked_at>=?", userID, since)
	if len(badgeIDs) > 0 {
		tx = tx.Where("badge_id IN (?)", badgeIDs)
	}

	if err := tx.Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}
