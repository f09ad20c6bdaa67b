package models

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

type BookingStatus string

const (
	StatusPending   BookingStatus = "PENDING"
	StatusApproved  BookingStatus = "APPROVED"
	StatusRejected  BookingStatus = "REJECTED"
	StatusCancelled BookingStatus = "CANCELLED"
)

// CancellableStatuses are the states an owner may cancel from.
var CancellableStatuses = []BookingStatus{StatusPending, StatusApproved}

func (s BookingStatus) Cancellable() bool {
	for _, c := range CancellableStatuses {
		if s == c {
			return true
		}
	}
	return false
}

type Booking struct {
	ID             string        `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID         string        `gorm:"type:varchar(36);not null;index" json:"user_id"`
	Date           time.Time     `gorm:"not null" json:"date"`
	Time           string        `gorm:"type:varchar(5);not null" json:"time"`
	NumberOfPeople int           `gorm:"not null" json:"number_of_people"`
	Status         BookingStatus `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`
	CreatedAt      time.Time     `gorm:"index" json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

var timeOfDayPattern = regexp.MustCompile(`^([0-1]?[0-9]|2[0-3]):[0-5][0-9]$`)

// IsTimeOfDay reports whether s is a 24-hour H:mm or HH:mm clock time.
func IsTimeOfDay(s string) bool {
	return timeOfDayPattern.MatchString(s)
}

// StartsAt combines the calendar date with the wall-clock time in loc.
func (b *Booking) StartsAt(loc *time.Location) time.Time {
	y, m, d := b.Date.In(loc).Date()
	hour, minute := splitClock(b.Time)
	return time.Date(y, m, d, hour, minute, 0, 0, loc)
}

func splitClock(hhmm string) (int, int) {
	h, m, ok := strings.Cut(hhmm, ":")
	if !ok {
		return 0, 0
	}
	hour, err := strconv.Atoi(h)
	if err != nil {
		return 0, 0
	}
	minute, err := strconv.Atoi(m)
	if err != nil {
		return hour, 0
	}
	return hour, minute
}
