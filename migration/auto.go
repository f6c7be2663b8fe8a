package migration

import (
	"context"

	"github.com/personachat/backend/internal/entity"
	"github.com/personachat/backend/pkg/xcontext"
)

func AutoMigrate(ctx context.Context) error {
	return xcontext.DB(ctx).AutoMigrate(
		&entity.UserBadgeProgress{},
		&entity.Notification{},
	)
}
