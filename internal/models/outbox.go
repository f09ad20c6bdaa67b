package models

import "time"

const (
	EventBookingCreated   = "booking.created"
	EventBookingApproved  = "booking.approved"
	EventBookingRejected  = "booking.rejected"
	EventBookingCancelled = "booking.cancelled"
)

// OutboxEvent is a booking event waiting to be published to the broker.
// One row per (booking, routing key).
type OutboxEvent struct {
	ID          string     `gorm:"type:varchar(36);primaryKey"`
	AggregateID string     `gorm:"type:varchar(36);not null;uniqueIndex:idx_outbox_aggregate_key"`
	RoutingKey  string     `gorm:"type:varchar(64);not null;uniqueIndex:idx_outbox_aggregate_key"`
	Payload     []byte     `gorm:"type:jsonb;not null"`
	PublishedAt *time.Time `gorm:"index"`
	Attempts    int        `gorm:"not null;default:0"`
	LastError   string     `gorm:"type:text"`
	CreatedAt   time.Time  `gorm:"index"`
}

// BookingEvent is the message body published for every booking transition.
type BookingEvent struct {
	Event      string        `json:"event"`
	BookingID  string        `json:"booking_id"`
	UserID     string        `json:"user_id"`
	Status     BookingStatus `json:"status"`
	Date       string        `json:"date"`
	Time       string        `json:"time"`
	OccurredAt time.Time     `json:"occurred_at"`
}
