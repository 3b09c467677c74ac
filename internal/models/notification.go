package models

// NotificationKind categorises an in-app notification.
type NotificationKind string

const (
	NotificationKindBill   NotificationKind = "bill"
	NotificationKindBudget NotificationKind = "budget"
	NotificationKindGoal   NotificationKind = "goal"
	NotificationKindInfo   NotificationKind = "info"
)

// Notification is an in-app message shown on the dashboard.
type Notification struct {
	Base
	UserID  string           `gorm:"type:uuid;not null;index" json:"user_id"`
	Kind    NotificationKind `gorm:"not null" json:"kind"`
	Title   string           `gorm:"not null" json:"title"`
	Message string           `json:"message"`
	Read    bool             `gorm:"default:false" json:"read"`
}
