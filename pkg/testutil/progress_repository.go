package testutil

import (
	"context"
	"time"

	"github.com/personachat/backend/internal/entity"
	"github.com/personachat/backend/pkg/errorx"
)

// MockProgressRepository replaces the durable progress store. Functions left
// nil fail with NotImplemented, except CreateIfNotExists which succeeds.
type MockProgressRepository struct {
	GetByUserIDFunc        func(ctx context.Context, userID string) ([]entity.UserBadgeProgress, error)
	CreateIfNotExistsFunc  func(ctx context.Context, rows []entity.UserBadgeProgress) error
	UpsertFunc             func(ctx context.Context, rows []entity.UserBadgeProgress) error
	CountUnlockedSinceFunc func(ctx context.Context, userID string, since time.Time, badgeIDs []string) (int64, error)
}

func (m *MockProgressRepository) GetByUserID(ctx context.Context, userID string) ([]entity.UserBadgeProgress, error) {
	if m.GetByUserIDFunc != nil {
		return m.GetByUserIDFunc(ctx, userID)
	}

	return nil, errorx.New(errorx.NotImplemented, "Not implemented")
}

func (m *MockProgressRepository) CreateIfNotExists(ctx context.Context, rows []entity.UserBadgeProgress) error {
	if m.CreateIfNotExistsFunc != nil {
		return m.CreateIfNotExistsFunc(ctx, rows)
	}

	return nil
}

func (m *MockProgressRepository) Upsert(ctx context.Context, rows []entity.UserBadgeProgress) error {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, rows)
	}

	return errorx.New(errorx.NotImplemented, "Not implemented")
}

func (m *MockProgressRepository) CountUnlockedSince(
	ctx context.Context, userID string, since time.Time, badgeIDs []string,
) (int64, error) {
	if m.CountUnlockedSinceFunc != nil {
		return m.CountUnlockedSinceFunc(ctx, userID, since, badgeIDs)
	}

	return 0, errorx.New(errorx.NotImplemented, "Not implemented")
}
