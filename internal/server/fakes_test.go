package server

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Eursukkul/booking-microservice/reservation-service/internal/models"
	"github.com/Eursukkul/booking-microservice/reservation-service/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// store is an in-memory stand-in for the database shared by the fake repositories.
type store struct {
	mu            sync.Mutex
	tick          time.Time
	users         map[string]*models.User
	bookings      map[string]*models.Booking
	notifications map[string]*models.Notification
	outbox        []models.OutboxEvent
}

func newStore() *store {
	return &store{
		tick:          time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		users:         map[string]*models.User{},
		bookings:      map[string]*models.Booking{},
		notifications: map[string]*models.Notification{},
	}
}

// stamp hands out strictly increasing timestamps so "newest first" is stable.
func (s *store) stamp() time.Time {
	s.tick = s.tick.Add(time.Second)
	return s.tick
}

type fakeTransactor struct{}

func (fakeTransactor) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

// --- users ---

type fakeUserRepo struct{ s *store }

func (r fakeUserRepo) Create(ctx context.Context, u *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.users {
		if existing.Email == u.Email {
			return repository.ErrDuplicateEmail
		}
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.Role == "" {
		u.Role = models.RoleUser
	}
	u.CreatedAt = r.s.stamp()
	cp := *u
	r.s.users[u.ID] = &cp
	return nil
}

func (r fakeUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r fakeUserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if u, ok := r.s.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (r fakeUserRepo) UpdatePassword(ctx context.Context, id, hash string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if u, ok := r.s.users[id]; ok {
		u.Password = hash
	}
	return nil
}

// --- bookings ---

type fakeBookingRepo struct{ s *store }

func (r fakeBookingRepo) Create(ctx context.Context, tx *gorm.DB, b *models.Booking) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	b.CreatedAt = r.s.stamp()
	b.UpdatedAt = b.CreatedAt
	cp := *b
	r.s.bookings[b.ID] = &cp
	return nil
}

func (r fakeBookingRepo) FindByID(ctx context.Context, id string) (*models.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if b, ok := r.s.bookings[id]; ok {
		cp := *b
		return &cp, nil
	}
	return nil, nil
}

func (r fakeBookingRepo) FindByIDWithUser(ctx context.Context, id string) (*models.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.bookings[id]
	if !ok {
		return nil, nil
	}
	return r.withOwner(b), nil
}

func (r fakeBookingRepo) FindByUserID(ctx context.Context, userID string) ([]models.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.Booking
	for _, b := range r.s.bookings {
		if b.UserID == userID {
			out = append(out, *b)
		}
	}
	sortBookings(out)
	return out, nil
}

func (r fakeBookingRepo) FindAllWithUser(ctx context.Context) ([]models.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]models.Booking, 0, len(r.s.bookings))
	for _, b := range r.s.bookings {
		out = append(out, *r.withOwner(b))
	}
	sortBookings(out)
	return out, nil
}

func (r fakeBookingRepo) TransitionStatus(ctx context.Context, tx *gorm.DB, id string, from []models.BookingStatus, to models.BookingStatus) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.bookings[id]
	if !ok {
		return false, nil
	}
	for _, f := range from {
		if b.Status == f {
			b.Status = to
			b.UpdatedAt = r.s.stamp()
			return true, nil
		}
	}
	return false, nil
}

func (r fakeBookingRepo) withOwner(b *models.Booking) *models.Booking {
	cp := *b
	if u, ok := r.s.users[b.UserID]; ok {
		cp.User = &models.User{ID: u.ID, Email: u.Email}
	}
	return &cp
}

func sortBookings(bs []models.Booking) {
	sort.Slice(bs, func(i, j int) bool { return bs[i].CreatedAt.After(bs[j].CreatedAt) })
}

// --- notifications ---

type fakeNotificationRepo struct{ s *store }

func (r fakeNotificationRepo) Create(ctx context.Context, tx *gorm.DB, n *models.Notification) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	n.CreatedAt = r.s.stamp()
	cp := *n
	r.s.notifications[n.ID] = &cp
	return nil
}

func (r fakeNotificationRepo) FindByUserID(ctx context.Context, userID string) ([]models.Notification, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.Notification
	for _, n := range r.s.notifications {
		if n.UserID == userID {
			out = append(out, *n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r fakeNotificationRepo) FindByIDForUser(ctx context.Context, id, userID string) (*models.Notification, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if n, ok := r.s.notifications[id]; ok && n.UserID == userID {
		cp := *n
		return &cp, nil
	}
	return nil, nil
}

func (r fakeNotificationRepo) MarkRead(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if n, ok := r.s.notifications[id]; ok {
		n.Read = true
	}
	return nil
}

func (r fakeNotificationRepo) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var count int64
	for _, n := range r.s.notifications {
		if n.UserID == userID && !n.Read {
			n.Read = true
			count++
		}
	}
	return count, nil
}

func (r fakeNotificationRepo) CountUnread(ctx context.Context, userID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var count int64
	for _, n := range r.s.notifications {
		if n.UserID == userID && !n.Read {
			count++
		}
	}
	return count, nil
}

// --- outbox ---

type fakeOutboxRepo struct{ s *store }

func (r fakeOutboxRepo) Create(ctx context.Context, tx *gorm.DB, e *models.OutboxEvent) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	e.CreatedAt = r.s.stamp()
	r.s.outbox = append(r.s.outbox, *e)
	return nil
}

func (r fakeOutboxRepo) FindPending(ctx context.Context, limit, maxAttempts int) ([]models.OutboxEvent, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.OutboxEvent
	for _, e := range r.s.outbox {
		if e.PublishedAt == nil && e.Attempts < maxAttempts && len(out) < limit {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r fakeOutboxRepo) MarkPublished(ctx context.Context, id string, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.outbox {
		if r.s.outbox[i].ID == id {
			r.s.outbox[i].PublishedAt = &at
		}
	}
	return nil
}

func (r fakeOutboxRepo) MarkFailed(ctx context.Context, id string, reason string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.outbox {
		if r.s.outbox[i].ID == id {
			r.s.outbox[i].Attempts++
			r.s.outbox[i].LastError = reason
		}
	}
	return nil
}

func (s *store) routingKeys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, len(s.outbox))
	for i, e := range s.outbox {
		keys[i] = e.RoutingKey
	}
	return keys
}
