package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Eursukkul/booking-microservice/reservation-service/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewPostgresDB opens the pool, routes gorm's own logging through log, and
// migrates the schema.
func NewPostgresDB(dsn string, log *slog.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.NewSlogLogger(log, logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)
	sqlDB.SetConnMaxIdleTime(1 * time.Minute)

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates or updates the schema for every persisted model.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Booking{},
		&models.Notification{},
		&models.OutboxEvent{},
	); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}

	// Status values are enforced in the database as well as in the service.
	if err := db.Exec(`
		DO $$ BEGIN
			ALTER TABLE bookings ADD CONSTRAINT chk_bookings_status
				CHECK (status IN ('PENDING', 'APPROVED', 'REJECTED', 'CANCELLED'));
		EXCEPTION WHEN duplicate_object THEN NULL;
		END $$;
	`).Error; err != nil {
		return fmt.Errorf("add status constraint: %w", err)
	}
	if err := db.Exec(`
		DO $$ BEGIN
			ALTER TABLE bookings ADD CONSTRAINT chk_bookings_party_size
				CHECK (number_of_people >= 1);
		EXCEPTION WHEN duplicate_object THEN NULL;
		END $$;
	`).Error; err != nil {
		return fmt.Errorf("add party size constraint: %w", err)
	}
	return nil
}

// Pinger checks the underlying connection for the health endpoint.
type Pinger struct {
	db *gorm.DB
}

func NewPinger(db *gorm.DB) *Pinger {
	return &Pinger{db: db}
}

func (p *Pinger) Ping(ctx context.Context) error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
