package model

import "time"

type Badge struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	Trigger           string   `json:"trigger,omitempty"`
	Target            int      `json:"target"`
	Visibility        string   `json:"visibility"`
	Level             string   `json:"level"`
	DependentBadgeIDs []string `json:"dependent_badge_ids,omitempty"`
}

type BadgeProgress struct {
	Badge      Badge      `json:"badge"`
	Current    int        `json:"current"`
	Unlocked   bool       `json:"unlocked"`
	UnlockedAt *time.Time `json:"unlocked_at,omitempty"`
}

type Toast struct {
	ID        string    `json:"id"`
	BadgeID   string    `json:"badge_id"`
	BadgeName string    `json:"badge_name"`
	Level     string    `json:"level"`
	ExpiresAt time.Time `json:"expires_at"`
}

type Notification struct {
	ID         string         `json:"id"`
	BadgeID    string         `json:"badge_id"`
	MessageKey string         `json:"message_key"`
	Params     map[string]any `json:"params"`
	WasRead    bool           `json:"was_read"`
	CreatedAt  time.Time      `json:"created_at"`
}

type StartSessionRequest struct{}

type StartSessionResponse struct {
	Progress []BadgeProgress `json:"progress"`
}

type EndSessionRequest struct{}

type EndSessionResponse struct{}

type TrackRequest struct {
	Event   string         `json:"event" validate:"required"`
	Payload map[string]any `json:"payload"`
}

type TrackResponse struct{}

type NewConversationRequest struct{}

type NewConversationResponse struct{}

type GetMyProgressRequest struct{}

type GetMyProgressResponse struct {
	Progress []BadgeProgress `json:"progress"`
}

type GetCatalogRequest struct{}

type GetCatalogResponse struct {
	Badges []Badge `json:"badges"`
}

type GetToastsRequest struct{}

type GetToastsResponse struct {
	Toasts []Toast `json:"toasts"`
}

type DismissToastRequest struct {
	ID string `json:"id" validate:"required"`
}

type DismissToastResponse struct{}

type GetMyNotificationsRequest struct {
	Offset int `form:"offset" json:"offset" validate:"gte=0"`
	Limit  int `form:"limit" json:"limit" validate:"gte=0"`
}

type GetMyNotificationsResponse struct {
	Notifications []Notification `json:"notifications"`
	Unread        int64          `json:"unread"`
}

type ReadNotificationsRequest struct {
	IDs []string `json:"ids"`
}

type ReadNotificationsResponse struct{}

type ServeNotificationStreamRequest struct{}
