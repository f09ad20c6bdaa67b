package dto

import (
	"time"

	"github.com/Eursukkul/booking-microservice/reservation-service/internal/models"
	"github.com/Eursukkul/booking-microservice/reservation-service/internal/service"
)

const dateLayout = "2006-01-02"

type UserResponse struct {
	ID        string      `json:"id"`
	Email     string      `json:"email"`
	Role      models.Role `json:"role,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}

type AuthResponse struct {
	User  UserResponse `json:"user"`
	Token string       `json:"token"`
}

type TokenResponse struct {
	Token string `json:"token"`
}

type OwnerSummary struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type BookingResponse struct {
	ID             string               `json:"id"`
	UserID         string               `json:"user_id"`
	Date           string               `json:"date"`
	Time           string               `json:"time"`
	NumberOfPeople int                  `json:"number_of_people"`
	Status         models.BookingStatus `json:"status"`
	CreatedAt      time.Time            `json:"created_at"`
	UpdatedAt      time.Time            `json:"updated_at"`
	User           *OwnerSummary        `json:"user,omitempty"`
}

type CanCancelResponse struct {
	CanCancel bool   `json:"can_cancel"`
	Reason    string `json:"reason,omitempty"`
}

type NotificationResponse struct {
	ID        string                  `json:"id"`
	UserID    string                  `json:"user_id"`
	BookingID *string                 `json:"booking_id"`
	Type      models.NotificationType `json:"type"`
	Message   string                  `json:"message"`
	Read      bool                    `json:"read"`
	CreatedAt time.Time               `json:"created_at"`
}

type MarkAllReadResponse struct {
	Updated int64 `json:"updated"`
}

func ToUserResponse(u *models.User) UserResponse {
	return UserResponse{ID: u.ID, Email: u.Email, Role: u.Role, CreatedAt: u.CreatedAt}
}

func ToAuthResponse(res *service.AuthResult) AuthResponse {
	return AuthResponse{User: ToUserResponse(res.User), Token: res.Token}
}

// ToBookingResponse renders the booking date as a calendar day in loc.
func ToBookingResponse(b *models.Booking, loc *time.Location) BookingResponse {
	resp := BookingResponse{
		ID:             b.ID,
		UserID:         b.UserID,
		Date:           b.Date.In(loc).Format(dateLayout),
		Time:           b.Time,
		NumberOfPeople: b.NumberOfPeople,
		Status:         b.Status,
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.UpdatedAt,
	}
	if b.User != nil {
		resp.User = &OwnerSummary{ID: b.User.ID, Email: b.User.Email}
	}
	return resp
}

func ToBookingResponses(bookings []models.Booking, loc *time.Location) []BookingResponse {
	resp := make([]BookingResponse, len(bookings))
	for i := range bookings {
		resp[i] = ToBookingResponse(&bookings[i], loc)
	}
	return resp
}

func ToCanCancelResponse(check service.CancelCheck) CanCancelResponse {
	return CanCancelResponse{CanCancel: check.CanCancel, Reason: check.Reason}
}

func ToNotificationResponse(n *models.Notification) NotificationResponse {
	return NotificationResponse{
		ID:        n.ID,
		UserID:    n.UserID,
		BookingID: n.BookingID,
		Type:      n.Type,
		Message:   n.Message,
		Read:      n.Read,
		CreatedAt: n.CreatedAt,
	}
}

func ToNotificationResponses(ns []models.Notification) []NotificationResponse {
	resp := make([]NotificationResponse, len(ns))
	for i := range ns {
		resp[i] = ToNotificationResponse(&ns[i])
	}
	return resp
}
