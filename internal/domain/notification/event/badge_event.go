package event

import "time"

// BADGE UNLOCKED EVENT
type BadgeUnlockedEvent struct {
	NotificationID string         `json:"notification_id"`
	UserID         string         `json:"user_id"`
	BadgeID        string         `json:"badge_id"`
	MessageKey     string         `json:"message_key"`
	Params         map[string]any `json:"params"`
	CreatedAt      time.Time      `json:"created_at"`
}

func (*BadgeUnlockedEvent) Op() string {
	return "badge_unlocked"
}
