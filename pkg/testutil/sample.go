package testutil

import (
	"context"
	"reflect"

	"github.com/google/uuid"
	"github.com/personachat/backend/internal/entity"
	"github.com/personachat/backend/internal/repository"
)

// SampleProgress stores a progress row with a random user and a zero
// progress. The sample can be overwritten by non-zero fields of init.
//
// This function returns the stored row.
func SampleProgress(ctx context.Context, init *entity.UserBadgeProgress) (entity.UserBadgeProgress, error) {
	progressRepo := repository.NewUserBadgeProgressRepository()

	sample := &entity.UserBadgeProgress{
		UserID:         uuid.NewString(),
		BadgeID:        uuid.NewString(),
		TargetProgress: 1,
	}

	if init != nil {
		overwriteFields(sample, *init)
	}

	if err := progressRepo.Upsert(ctx, []entity.UserBadgeProgress{*sample}); err != nil {
		return *sample, err
	}
	return *sample, nil
}

func overwriteFields[T any](origin *T, overwrite T) {
	originValue := reflect.ValueOf(origin).Elem()
	overwriteValue := reflect.ValueOf(overwrite)

	for i := 0; i < overwriteValue.NumField(); i++ {
		overwriteField := overwriteValue.Field(i)
		if !overwriteField.IsZero() {
			originValue.Field(i).Set(overwriteField)
		}
	}
}
