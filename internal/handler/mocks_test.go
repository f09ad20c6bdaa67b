package handler

import (
	"context"

	"github.com/Eursukkul/booking-microservice/reservation-service/internal/models"
	"github.com/Eursukkul/booking-microservice/reservation-service/internal/service"
)

// --- Mock BookingService ---

type mockBookingService struct {
	createFn    func(ctx context.Context, userID string, in service.CreateBookingInput) (*models.Booking, error)
	listMineFn  func(ctx context.Context, userID string) ([]models.Booking, error)
	listAllFn   func(ctx context.Context) ([]models.Booking, error)
	getFn       func(ctx context.Context, id string) (*models.Booking, error)
	canCancelFn func(ctx context.Context, id string) (service.CancelCheck, error)
	cancelFn    func(ctx context.Context, id, userID string) (*models.Booking, error)
	approveFn   func(ctx context.Context, id string) (*models.Booking, error)
	rejectFn    func(ctx context.Context, id string) (*models.Booking, error)
}

func (m *mockBookingService) CreateBooking(ctx context.Context, userID string, in service.CreateBookingInput) (*models.Booking, error) {
	return m.createFn(ctx, userID, in)
}
func (m *mockBookingService) GetUserBookings(ctx context.Context, userID string) ([]models.Booking, error) {
	return m.listMineFn(ctx, userID)
}
func (m *mockBookingService) GetAllBookings(ctx context.Context) ([]models.Booking, error) {
	return m.listAllFn(ctx)
}
func (m *mockBookingService) GetBookingByID(ctx context.Context, id string) (*models.Booking, error) {
	return m.getFn(ctx, id)
}
func (m *mockBookingService) CanCancel(ctx context.Context, id string) (service.CancelCheck, error) {
	return m.canCancelFn(ctx, id)
}
func (m *mockBookingService) CancelBooking(ctx context.Context, id, userID string) (*models.Booking, error) {
	return m.cancelFn(ctx, id, userID)
}
func (m *mockBookingService) ApproveBooking(ctx context.Context, id string) (*models.Booking, error) {
	return m.approveFn(ctx, id)
}
func (m *mockBookingService) RejectBooking(ctx context.Context, id string) (*models.Booking, error) {
	return m.rejectFn(ctx, id)
}

// --- Mock NotificationService ---

type mockNotificationService struct {
	listFn    func(ctx context.Context, userID string) ([]models.Notification, error)
	markFn    func(ctx context.Context, id, userID string) (*models.Notification, error)
	markAllFn func(ctx context.Context, userID string) (int64, error)
	unreadFn  func(ctx context.Context, userID string) (int64, error)
}

func (m *mockNotificationService) GetUserNotifications(ctx context.Context, userID string) ([]models.Notification, error) {
	return m.listFn(ctx, userID)
}
func (m *mockNotificationService) MarkAsRead(ctx context.Context, id, userID string) (*models.Notification, error) {
	return m.markFn(ctx, id, userID)
}
func (m *mockNotificationService) MarkAllAsRead(ctx context.Context, userID string) (int64, error) {
	return m.markAllFn(ctx, userID)
}
func (m *mockNotificationService) UnreadCount(ctx context.Context, userID string) (int64, error) {
	return m.unreadFn(ctx, userID)
}

// --- Mock UserService ---

type mockUserService struct {
	registerFn   func(ctx context.Context, email, password string) (*service.AuthResult, error)
	loginFn      func(ctx context.Context, email, password string) (*service.AuthResult, error)
	adminLoginFn func(ctx context.Context, email, password string) (string, error)
}

func (m *mockUserService) Register(ctx context.Context, email, password string) (*service.AuthResult, error) {
	return m.registerFn(ctx, email, password)
}
func (m *mockUserService) Login(ctx context.Context, email, password string) (*service.AuthResult, error) {
	return m.loginFn(ctx, email, password)
}
func (m *mockUserService) AdminLogin(ctx context.Context, email, password string) (string, error) {
	return m.adminLoginFn(ctx, email, password)
}
func (m *mockUserService) EnsureAdmin(ctx context.Context, email, password string) error {
	return nil
}
