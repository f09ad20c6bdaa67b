package repository

import (
	"context"
	"errors"

	"github.com/Eursukkul/booking-microservice/reservation-service/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BookingRepository interface {
	Create(ctx context.Context, tx *gorm.DB, booking *models.Booking) error
	FindByID(ctx context.Context, id string) (*models.Booking, error)
	FindByIDWithUser(ctx context.Context, id string) (*models.Booking, error)
	FindByUserID(ctx context.Context, userID string) ([]models.Booking, error)
	FindAllWithUser(ctx context.Context) ([]models.Booking, error)
	TransitionStatus(ctx context.Context, tx *gorm.DB, id string, from []models.BookingStatus, to models.BookingStatus) (bool, error)
}

type bookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) BookingRepository {
	return &bookingRepository{db: db}
}

func (r *bookingRepository) Create(ctx context.Context, tx *gorm.DB, booking *models.Booking) error {
	if booking.ID == "" {
		booking.ID = uuid.NewString()
	}
	return pick(r.db, tx).WithContext(ctx).Create(booking).Error
}

// FindByID returns nil, nil when no booking has the given id.
func (r *bookingRepository) FindByID(ctx context.Context, id string) (*models.Booking, error) {
	var booking models.Booking
	err := r.db.WithContext(ctx).First(&booking, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) FindByIDWithUser(ctx context.Context, id string) (*models.Booking, error) {
	var booking models.Booking
	err := r.db.WithContext(ctx).
		Preload("User", ownerSummary).
		First(&booking, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) FindByUserID(ctx context.Context, userID string) ([]models.Booking, error) {
	var bookings []models.Booking
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *bookingRepository) FindAllWithUser(ctx context.Context) ([]models.Booking, error) {
	var bookings []models.Booking
	if err := r.db.WithContext(ctx).
		Preload("User", ownerSummary).
		Order("created_at DESC").
		Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

// TransitionStatus moves the booking to `to` only while its current status is
// one of `from`. It reports false when no row matched, which means the booking
// changed (or vanished) since it was read.
func (r *bookingRepository) TransitionStatus(ctx context.Context, tx *gorm.DB, id string, from []models.BookingStatus, to models.BookingStatus) (bool, error) {
	res := pick(r.db, tx).WithContext(ctx).
		Model(&models.Booking{}).
		Where("id = ? AND status IN ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func ownerSummary(db *gorm.DB) *gorm.DB {
	return db.Select("id", "email")
}
