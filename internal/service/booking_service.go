package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/Eursukkul/booking-microservice/reservation-service/internal/models"
	"github.com/Eursukkul/booking-microservice/reservation-service/internal/repository"
	"github.com/Eursukkul/booking-microservice/reservation-service/pkg/apperrors"
	"github.com/Eursukkul/booking-microservice/reservation-service/pkg/logger"
	"gorm.io/gorm"
)

const (
	cancellationWindow = 24 * time.Hour
	dateLayout         = "2006-01-02"
)

var (
	// errStaleStatus aborts a transaction whose conditional update matched no row.
	errStaleStatus = errors.New("booking status changed concurrently")
)

type CreateBookingInput struct {
	Date           string
	Time           string
	NumberOfPeople int
}

// CancelCheck is the outcome of the cancellation rule. Reason is empty when
// CanCancel is true.
type CancelCheck struct {
	CanCancel bool
	Reason    string
}

type BookingService interface {
	CreateBooking(ctx context.Context, userID string, in CreateBookingInput) (*models.Booking, error)
	GetUserBookings(ctx context.Context, userID string) ([]models.Booking, error)
	GetAllBookings(ctx context.Context) ([]models.Booking, error)
	GetBookingByID(ctx context.Context, id string) (*models.Booking, error)
	CanCancel(ctx context.Context, id string) (CancelCheck, error)
	CancelBooking(ctx context.Context, id, userID string) (*models.Booking, error)
	ApproveBooking(ctx context.Context, id string) (*models.Booking, error)
	RejectBooking(ctx context.Context, id string) (*models.Booking, error)
}

type bookingService struct {
	txm           repository.Transactor
	bookings      repository.BookingRepository
	notifications repository.NotificationRepository
	outbox        repository.OutboxRepository
	log           *logger.Logger
	loc           *time.Location
	now           func() time.Time
}

func NewBookingService(
	txm repository.Transactor,
	bookings repository.BookingRepository,
	notifications repository.NotificationRepository,
	outbox repository.OutboxRepository,
	log *logger.Logger,
	loc *time.Location,
) BookingService {
	if loc == nil {
		loc = time.Local
	}
	return &bookingService{
		txm:           txm,
		bookings:      bookings,
		notifications: notifications,
		outbox:        outbox,
		log:           log,
		loc:           loc,
		now:           time.Now,
	}
}

func (s *bookingService) CreateBooking(ctx context.Context, userID string, in CreateBookingInput) (*models.Booking, error) {
	var (
		summary string
		issues  []apperrors.FieldIssue
	)
	reject := func(msg string, issue apperrors.FieldIssue) {
		if summary == "" {
			summary = msg
		}
		issues = append(issues, issue)
	}

	date, err := s.parseDate(in.Date)
	switch {
	case err != nil:
		reject("Invalid date format",
			apperrors.FieldIssue{Field: "date", Message: "Invalid date format"})
	case !date.After(s.now()):
		reject("Booking date must be in the future",
			apperrors.FieldIssue{Field: "date", Message: "Booking date must be in the future"})
	}
	if !models.IsTimeOfDay(in.Time) {
		reject("Invalid time format. Use HH:mm (e.g., 18:00)",
			apperrors.FieldIssue{Field: "time", Message: "Time must be in HH:mm format (e.g., 18:00)"})
	}
	if in.NumberOfPeople < 1 {
		reject("Number of people must be at least 1",
			apperrors.FieldIssue{Field: "number_of_people", Message: "Number of people must be at least 1"})
	}
	if len(issues) > 0 {
		return nil, apperrors.Validation(summary, issues...)
	}

	y, m, d := date.In(s.loc).Date()
	booking := &models.Booking{
		UserID:         userID,
		Date:           time.Date(y, m, d, 0, 0, 0, 0, s.loc),
		Time:           in.Time,
		NumberOfPeople: in.NumberOfPeople,
		Status:         models.StatusPending,
	}

	err = s.txm.Transaction(ctx, func(tx *gorm.DB) error {
		if err := s.bookings.Create(ctx, tx, booking); err != nil {
			return err
		}
		return s.recordEvent(ctx, tx, models.EventBookingCreated, booking)
	})
	if err != nil {
		s.log.Error("create booking failed", "user_id", userID, "error", err)
		return nil, apperrors.Unexpected("Failed to create booking", err)
	}

	s.log.Info("booking created", "booking_id", booking.ID, "user_id", userID)
	return booking, nil
}

func (s *bookingService) GetUserBookings(ctx context.Context, userID string) ([]models.Booking, error) {
	bookings, err := s.bookings.FindByUserID(ctx, userID)
	if err != nil {
		return nil, apperrors.Unexpected("Failed to load bookings", err)
	}
	return bookings, nil
}

func (s *bookingService) GetAllBookings(ctx context.Context) ([]models.Booking, error) {
	bookings, err := s.bookings.FindAllWithUser(ctx)
	if err != nil {
		return nil, apperrors.Unexpected("Failed to load bookings", err)
	}
	return bookings, nil
}

func (s *bookingService) GetBookingByID(ctx context.Context, id string) (*models.Booking, error) {
	booking, err := s.bookings.FindByIDWithUser(ctx, id)
	if err != nil {
		return nil, apperrors.Unexpected("Failed to load booking", err)
	}
	if booking == nil {
		return nil, apperrors.NotFound("Booking")
	}
	return booking, nil
}

func (s *bookingService) CanCancel(ctx context.Context, id string) (CancelCheck, error) {
	booking, err := s.bookings.FindByID(ctx, id)
	if err != nil {
		return CancelCheck{}, apperrors.Unexpected("Failed to load booking", err)
	}
	return EvaluateCancellation(booking, s.now(), s.loc), nil
}

func (s *bookingService) CancelBooking(ctx context.Context, id, userID string) (*models.Booking, error) {
	booking, err := s.loadBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking.UserID != userID {
		return nil, apperrors.Forbidden("Unauthorized: You can only cancel your own bookings")
	}
	if check := EvaluateCancellation(booking, s.now(), s.loc); !check.CanCancel {
		return nil, apperrors.BusinessRule(check.Reason)
	}

	err = s.txm.Transaction(ctx, func(tx *gorm.DB) error {
		ok, err := s.bookings.TransitionStatus(ctx, tx, id, models.CancellableStatuses, models.StatusCancelled)
		if err != nil {
			return err
		}
		if !ok {
			return errStaleStatus
		}
		booking.Status = models.StatusCancelled
		return s.recordEvent(ctx, tx, models.EventBookingCancelled, booking)
	})
	if errors.Is(err, errStaleStatus) {
		current, lerr := s.loadBooking(ctx, id)
		if lerr != nil {
			return nil, lerr
		}
		return nil, apperrors.BusinessRule(EvaluateCancellation(current, s.now(), s.loc).Reason)
	}
	if err != nil {
		s.log.Error("cancel booking failed", "booking_id", id, "error", err)
		return nil, apperrors.Unexpected("Failed to cancel booking", err)
	}

	booking.UpdatedAt = s.now()
	s.log.Info("booking cancelled", "booking_id", id, "user_id", userID)
	return booking, nil
}

func (s *bookingService) ApproveBooking(ctx context.Context, id string) (*models.Booking, error) {
	return s.decide(ctx, id, decision{
		verb:       "approve",
		to:         models.StatusApproved,
		kind:       models.NotificationBookingApproved,
		routingKey: models.EventBookingApproved,
		suffix:     "has been approved!",
	})
}

func (s *bookingService) RejectBooking(ctx context.Context, id string) (*models.Booking, error) {
	return s.decide(ctx, id, decision{
		verb:       "reject",
		to:         models.StatusRejected,
		kind:       models.NotificationBookingRejected,
		routingKey: models.EventBookingRejected,
		suffix:     "has been rejected.",
	})
}

type decision struct {
	verb       string
	to         models.BookingStatus
	kind       models.NotificationType
	routingKey string
	suffix     string
}

// decide moves a PENDING booking to an admin decision and writes the owner's
// notification and the outbox event in the same transaction.
func (s *bookingService) decide(ctx context.Context, id string, d decision) (*models.Booking, error) {
	booking, err := s.loadBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking.Status != models.StatusPending {
		return nil, invalidDecision(d.verb, booking.Status)
	}

	err = s.txm.Transaction(ctx, func(tx *gorm.DB) error {
		ok, err := s.bookings.TransitionStatus(ctx, tx, id, []models.BookingStatus{models.StatusPending}, d.to)
		if err != nil {
			return err
		}
		if !ok {
			return errStaleStatus
		}
		booking.Status = d.to

		bookingID := booking.ID
		notification := &models.Notification{
			UserID:    booking.UserID,
			BookingID: &bookingID,
			Type:      d.kind,
			Message:   fmt.Sprintf("Your booking on %s at %s %s", booking.Date.In(s.loc).Format(dateLayout), booking.Time, d.suffix),
		}
		if err := s.notifications.Create(ctx, tx, notification); err != nil {
			return err
		}
		return s.recordEvent(ctx, tx, d.routingKey, booking)
	})
	if errors.Is(err, errStaleStatus) {
		current, lerr := s.loadBooking(ctx, id)
		if lerr != nil {
			return nil, lerr
		}
		return nil, invalidDecision(d.verb, current.Status)
	}
	if err != nil {
		s.log.Error("booking decision failed", "booking_id", id, "decision", d.to, "error", err)
		return nil, apperrors.Unexpected(fmt.Sprintf("Failed to %s booking", d.verb), err)
	}

	booking.UpdatedAt = s.now()
	s.log.Info("booking decided", "booking_id", id, "status", d.to)
	return booking, nil
}

func invalidDecision(verb string, status models.BookingStatus) error {
	return apperrors.InvalidState(fmt.Sprintf("Cannot %s booking with status: %s", verb, status))
}

func (s *bookingService) loadBooking(ctx context.Context, id string) (*models.Booking, error) {
	booking, err := s.bookings.FindByID(ctx, id)
	if err != nil {
		return nil, apperrors.Unexpected("Failed to load booking", err)
	}
	if booking == nil {
		return nil, apperrors.NotFound("Booking")
	}
	return booking, nil
}

func (s *bookingService) recordEvent(ctx context.Context, tx *gorm.DB, routingKey string, b *models.Booking) error {
	payload, err := json.Marshal(models.BookingEvent{
		Event:      routingKey,
		BookingID:  b.ID,
		UserID:     b.UserID,
		Status:     b.Status,
		Date:       b.Date.In(s.loc).Format(dateLayout),
		Time:       b.Time,
		OccurredAt: s.now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", routingKey, err)
	}
	return s.outbox.Create(ctx, tx, &models.OutboxEvent{
		AggregateID: b.ID,
		RoutingKey:  routingKey,
		Payload:     payload,
	})
}

// parseDate accepts a bare calendar date, read as midnight in the booking
// location, or a full RFC 3339 timestamp.
func (s *bookingService) parseDate(raw string) (time.Time, error) {
	if t, err := time.ParseInLocation(dateLayout, raw, s.loc); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, raw)
}

// EvaluateCancellation applies the cancellation rule to a booking as of now.
// A nil booking is reported as not found.
func EvaluateCancellation(b *models.Booking, now time.Time, loc *time.Location) CancelCheck {
	if b == nil {
		return CancelCheck{Reason: "Booking not found"}
	}
	if !b.Status.Cancellable() {
		return CancelCheck{Reason: fmt.Sprintf(
			"Booking status does not allow cancellation. Only PENDING or APPROVED bookings can be cancelled. Current status: %s",
			b.Status)}
	}

	remaining := b.StartsAt(loc).Sub(now)
	if remaining <= 0 {
		return CancelCheck{Reason: "Cannot cancel booking. The booking time has already passed."}
	}
	if remaining <= cancellationWindow {
		hours := int(math.Ceil(remaining.Hours()))
		return CancelCheck{Reason: fmt.Sprintf(
			"Cannot cancel within 24 hours of the booking start time. There are %d hour(s) remaining until the booking.",
			hours)}
	}
	return CancelCheck{CanCancel: true}
}
