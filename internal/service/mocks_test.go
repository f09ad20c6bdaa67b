package service

import (
	"context"
	"time"

	"github.com/Eursukkul/booking-microservice/reservation-service/internal/models"
	"gorm.io/gorm"
)

// --- Mock Transactor ---

type mockTransactor struct {
	calls int
}

func (m *mockTransactor) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	m.calls++
	return fn(nil)
}

// --- Mock BookingRepository ---

type mockBookingRepo struct {
	createFn     func(ctx context.Context, tx *gorm.DB, b *models.Booking) error
	findByIDFn   func(ctx context.Context, id string) (*models.Booking, error)
	withUserFn   func(ctx context.Context, id string) (*models.Booking, error)
	byUserFn     func(ctx context.Context, userID string) ([]models.Booking, error)
	allFn        func(ctx context.Context) ([]models.Booking, error)
	transitionFn func(ctx context.Context, tx *gorm.DB, id string, from []models.BookingStatus, to models.BookingStatus) (bool, error)
}

func (m *mockBookingRepo) Create(ctx context.Context, tx *gorm.DB, b *models.Booking) error {
	if m.createFn != nil {
		return m.createFn(ctx, tx, b)
	}
	b.ID = "booking-1"
	return nil
}
func (m *mockBookingRepo) FindByID(ctx context.Context, id string) (*models.Booking, error) {
	return m.findByIDFn(ctx, id)
}
func (m *mockBookingRepo) FindByIDWithUser(ctx context.Context, id string) (*models.Booking, error) {
	return m.withUserFn(ctx, id)
}
func (m *mockBookingRepo) FindByUserID(ctx context.Context, userID string) ([]models.Booking, error) {
	return m.byUserFn(ctx, userID)
}
func (m *mockBookingRepo) FindAllWithUser(ctx context.Context) ([]models.Booking, error) {
	return m.allFn(ctx)
}
func (m *mockBookingRepo) TransitionStatus(ctx context.Context, tx *gorm.DB, id string, from []models.BookingStatus, to models.BookingStatus) (bool, error) {
	if m.transitionFn != nil {
		return m.transitionFn(ctx, tx, id, from, to)
	}
	return true, nil
}

// --- Mock NotificationRepository ---

type mockNotificationRepo struct {
	created []models.Notification

	createFn      func(ctx context.Context, tx *gorm.DB, n *models.Notification) error
	byUserFn      func(ctx context.Context, userID string) ([]models.Notification, error)
	forUserFn     func(ctx context.Context, id, userID string) (*models.Notification, error)
	markReadFn    func(ctx context.Context, id string) error
	markAllFn     func(ctx context.Context, userID string) (int64, error)
	countUnreadFn func(ctx context.Context, userID string) (int64, error)
}

func (m *mockNotificationRepo) Create(ctx context.Context, tx *gorm.DB, n *models.Notification) error {
	if m.createFn != nil {
		if err := m.createFn(ctx, tx, n); err != nil {
			return err
		}
	}
	m.created = append(m.created, *n)
	return nil
}
func (m *mockNotificationRepo) FindByUserID(ctx context.Context, userID string) ([]models.Notification, error) {
	return m.byUserFn(ctx, userID)
}
func (m *mockNotificationRepo) FindByIDForUser(ctx context.Context, id, userID string) (*models.Notification, error) {
	return m.forUserFn(ctx, id, userID)
}
func (m *mockNotificationRepo) MarkRead(ctx context.Context, id string) error {
	return m.markReadFn(ctx, id)
}
func (m *mockNotificationRepo) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	return m.markAllFn(ctx, userID)
}
func (m *mockNotificationRepo) CountUnread(ctx context.Context, userID string) (int64, error) {
	return m.countUnreadFn(ctx, userID)
}

// --- Mock OutboxRepository ---

type mockOutboxRepo struct {
	created []models.OutboxEvent
	err     error
}

func (m *mockOutboxRepo) Create(ctx context.Context, tx *gorm.DB, e *models.OutboxEvent) error {
	if m.err != nil {
		return m.err
	}
	m.created = append(m.created, *e)
	return nil
}
func (m *mockOutboxRepo) FindPending(ctx context.Context, limit, maxAttempts int) ([]models.OutboxEvent, error) {
	return nil, nil
}
func (m *mockOutboxRepo) MarkPublished(ctx context.Context, id string, at time.Time) error {
	return nil
}
func (m *mockOutboxRepo) MarkFailed(ctx context.Context, id string, reason string) error {
	return nil
}

// --- Mock UserRepository ---

type mockUserRepo struct {
	createFn      func(ctx context.Context, u *models.User) error
	findByEmailFn func(ctx context.Context, email string) (*models.User, error)
	findByIDFn    func(ctx context.Context, id string) (*models.User, error)
	updatePassFn  func(ctx context.Context, id, hash string) error
}

func (m *mockUserRepo) Create(ctx context.Context, u *models.User) error {
	return m.createFn(ctx, u)
}
func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return m.findByEmailFn(ctx, email)
}
func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	return m.findByIDFn(ctx, id)
}
func (m *mockUserRepo) UpdatePassword(ctx context.Context, id, hash string) error {
	return m.updatePassFn(ctx, id, hash)
}

// --- Mock TokenIssuer ---

type mockTokenIssuer struct {
	err error
}

func (m *mockTokenIssuer) IssueUserToken(userID string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return "user-token:" + userID, nil
}
func (m *mockTokenIssuer) IssueAdminToken(adminID string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return "admin-token:" + adminID, nil
}
