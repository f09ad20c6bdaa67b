package models

import "time"

type NotificationType string

const (
	NotificationBookingApproved NotificationType = "BOOKING_APPROVED"
	NotificationBookingRejected NotificationType = "BOOKING_REJECTED"
)

type Notification struct {
	ID        string           `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID    string           `gorm:"type:varchar(36);not null;index" json:"user_id"`
	BookingID *string          `gorm:"type:varchar(36);index" json:"booking_id"`
	Type      NotificationType `gorm:"type:varchar(32);not null" json:"type"`
	Message   string           `gorm:"type:text;not null" json:"message"`
	Read      bool             `gorm:"not null;default:false;index" json:"read"`
	CreatedAt time.Time        `gorm:"index" json:"created_at"`
}
