package domain

import (
	"github.com/personachat/backend/internal/domain/badge"
	"github.com/personachat/backend/internal/entity"
	"github.com/personachat/backend/internal/model"
)

func convertBadge(b badge.Badge) model.Badge {
	return model.Badge{
		ID:                b.ID,
		Name:              b.Name,
		Trigger:           string(b.Trigger),
		Target:            b.Target,
		Visibility:        string(b.Visibility),
		Level:             string(b.Level),
		DependentBadgeIDs: b.DependentBadgeIDs,
	}
}

func convertBadgeProgress(e badge.Entry) model.BadgeProgress {
	p := model.BadgeProgress{
		Badge:    convertBadge(e.Badge),
		Current:  e.Progress.Current,
		Unlocked: e.Progress.Unlocked,
	}

	if !e.Progress.UnlockedAt.IsZero() {
		unlockedAt := e.Progress.UnlockedAt
		p.UnlockedAt = &unlockedAt
	}

	return p
}

func convertListing(entries []badge.Entry) []model.BadgeProgress {
	result := []model.BadgeProgress{}
	for _, e := range entries {
		result = append(result, convertBadgeProgress(e))
	}

	return result
}

func convertToast(t badge.Toast) model.Toast {
	return model.Toast{
		ID:        t.ID,
		BadgeID:   t.BadgeID,
		BadgeName: t.BadgeName,
		Level:     string(t.Level),
		ExpiresAt: t.ExpiresAt,
	}
}

func convertNotification(n *entity.Notification) model.Notification {
	return model.Notification{
		ID:         n.ID,
		BadgeID:    n.BadgeID,
		MessageKey: n.MessageKey,
		Params:     n.Params,
		WasRead:    n.WasRead,
		CreatedAt:  n.CreatedAt,
	}
}
