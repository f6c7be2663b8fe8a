package entity

type Notification struct {
	Base
	UserID     string `gorm:"index"`
	BadgeID    string
	MessageKey string
	Params     Map
	WasRead    bool
}
