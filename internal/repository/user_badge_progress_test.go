package repository_test

import (
	"database/sql"
	"testing"
	"time"

	"github.com/personachat/backend/internal/entity"
	"github.com/personachat/backend/internal/repository"
	"github.com/personachat/backend/pkg/testutil"
	"github.com/personachat/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type UserBadgeProgressTestSuite struct {
	suite.Suite
}

func TestUserBadgeProgressSuite(t *testing.T) {
	suite.Run(t, new(UserBadgeProgressTestSuite))
}

func (suite *UserBadgeProgressTestSuite) TestCreateIfNotExists() {
	t := suite.T()
	ctx := testutil.MockContext()
	repo := repository.NewUserBadgeProgressRepository()

	_, err := testutil.SampleProgress(ctx, &entity.UserBadgeProgress{
		UserID: "user1", BadgeID: "b1", CurrentProgress: 3, TargetProgress: 5,
	})
	require.NoError(t, err)

	err = repo.CreateIfNotExists(ctx, []entity.UserBadgeProgress{
		{UserID: "user1", BadgeID: "b1", TargetProgress: 5},
		{UserID: "user1", BadgeID: "b2", TargetProgress: 1},
	})
	require.NoError(t, err)
	require.NoError(t, repo.CreateIfNotExists(ctx, nil))

	rows, err := repo.GetByUserID(ctx, "user1")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	byID := map[string]entity.UserBadgeProgress{}
	for _, row := range rows {
		byID[row.BadgeID] = row
	}
	require.Equal(t, 3, byID["b1"].CurrentProgress)
	require.Equal(t, 0, byID["b2"].CurrentProgress)
}

func (suite *UserBadgeProgressTestSuite) TestUpsertKeepsUnlockedAt() {
	t := suite.T()
	ctx := testutil.MockContext()
	repo := repository.NewUserBadgeProgressRepository()
	unlockedAt := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	err := repo.Upsert(ctx, []entity.UserBadgeProgress{
		{UserID: "user1", BadgeID: "b1", CurrentProgress: 1, TargetProgress: 1,
			UnlockedAt: sql.NullTime{Valid: true, Time: unlockedAt}},
		{UserID: "user1", BadgeID: "b2", CurrentProgress: 1, TargetProgress: 5},
	})
	require.NoError(t, err)

	// A second writer without the timestamp only moves the progress.
	err = repo.Upsert(ctx, []entity.UserBadgeProgress{
		{UserID: "user1", BadgeID: "b1", CurrentProgress: 1, TargetProgress: 1},
		{UserID: "user1", BadgeID: "b2", CurrentProgress: 4, TargetProgress: 5},
	})
	require.NoError(t, err)

	rows, err := repo.GetByUserID(ctx, "user1")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	for _, row := range rows {
		switch row.BadgeID {
		case "b1":
			require.True(t, row.UnlockedAt.Valid)
			require.Equal(t, unlockedAt.Unix(), row.UnlockedAt.Time.Unix())
		case "b2":
			require.Equal(t, 4, row.CurrentProgress)
			require.False(t, row.UnlockedAt.Valid)
		}
	}
}

func (suite *UserBadgeProgressTestSuite) TestCountUnlockedSince() {
	t := suite.T()
	ctx := testutil.MockContext()
	repo := repository.NewUserBadgeProgressRepository()
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	samples := []entity.UserBadgeProgress{
		{UserID: "user1", BadgeID: "recent1", UnlockedAt: sql.NullTime{Valid: true, Time: now.Add(-time.Hour)}},
		{UserID: "user1", BadgeID: "recent2", UnlockedAt: sql.NullTime{Valid: true, Time: now.Add(-23 * time.Hour)}},
		{UserID: "user1", BadgeID: "old", UnlockedAt: sql.NullTime{Valid: true, Time: now.Add(-25 * time.Hour)}},
		{UserID: "user1", BadgeID: "meta", UnlockedAt: sql.NullTime{Valid: true, Time: now.Add(-time.Hour)}},
		{UserID: "user1", BadgeID: "locked", CurrentProgress: 2},
		{UserID: "user2", BadgeID: "recent1", UnlockedAt: sql.NullTime{Valid: true, Time: now}},
	}
	for i := range samples {
		_, err := testutil.SampleProgress(ctx, &samples[i])
		require.NoError(t, err)
	}

	since := now.Add(-24 * time.Hour)
	count, err := repo.CountUnlockedSince(ctx, "user1", since, []string{"recent1", "recent2", "old", "locked"})
	require.NoError(t, err)
	require.Equal(t, int64(2), count)

	count, err = repo.CountUnlockedSince(ctx, "user1", since, nil)
	require.NoError(t, err)
	require.Equal(t, int64(3), count)
}

func (suite *UserBadgeProgressTestSuite) TestUpsertUnlockingKeepsStoredUnlockedAt() {
	t := suite.T()
	ctx := testutil.MockContext()
	repo := repository.NewUserBadgeProgressRepository()
	stored := time.Date(2024, 2, 9, 12, 0, 0, 0, time.UTC)
	later := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	_, err := testutil.SampleProgress(ctx, &entity.UserBadgeProgress{
		UserID: "user1", BadgeID: "b1", CurrentProgress: 1, TargetProgress: 1,
		UnlockedAt: sql.NullTime{Valid: true, Time: stored},
	})
	require.NoError(t, err)

	// Another writer believes both badges become unlocked now.
	err = repo.Upsert(ctx, []entity.UserBadgeProgress{
		{UserID: "user1", BadgeID: "b1", CurrentProgress: 1, TargetProgress: 1,
			UnlockedAt: sql.NullTime{Valid: true, Time: later}},
		{UserID: "user1", BadgeID: "b2", CurrentProgress: 1, TargetProgress: 1,
			UnlockedAt: sql.NullTime{Valid: true, Time: later}},
	})
	require.NoError(t, err)

	rows, err := repo.GetByUserID(ctx, "user1")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	for _, row := range rows {
		require.True(t, row.UnlockedAt.Valid)
		switch row.BadgeID {
		case "b1":
			require.Equal(t, stored.Unix(), row.UnlockedAt.Time.Unix())
		case "b2":
			require.Equal(t, later.Unix(), row.UnlockedAt.Time.Unix())
		}
	}

	count, err := repo.CountUnlockedSince(ctx, "user1", later.Add(-24*time.Hour), nil)
	require.NoError(t, err)
	require.Equal(t, int64(1), count)
}

func (suite *UserBadgeProgressTestSuite) TestUpsertFailsWithoutConnection() {
	t := suite.T()
	ctx := testutil.MockContext()
	repo := repository.NewUserBadgeProgressRepository()

	sqlDB, err := xcontext.DB(ctx).DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	err = repo.Upsert(ctx, []entity.UserBadgeProgress{
		{UserID: "user1", BadgeID: "b1", CurrentProgress: 1, TargetProgress: 5},
	})
	require.Error(t, err)
}
