package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"go-booking-api/config"
	"go-booking-api/logger"
	"go-booking-api/metrics"
	"go-booking-api/model"
	"go-booking-api/repository"
	"time"

	"github.com/sirupsen/logrus"
)

var (
	ErrSlotTaken       = errors.New("slot is already booked")
	ErrDailyCapReached = errors.New("you already have a session booked for this day")
)

// AppointmentService owns the booking rules: one owner per slot, a per-user
// daily cap, owner-only cancellation and retention-based purging.
type AppointmentService struct {
	db   *sql.DB
	repo repository.IAppointmentRepository
	cfg  *config.Config
}

func NewAppointmentService(db *sql.DB, repo repository.IAppointmentRepository, cfg *config.Config) *AppointmentService {
	return &AppointmentService{db: db, repo: repo, cfg: cfg}
}

// Book creates an appointment for the slot. The daily-cap count and the
// insert run in one transaction; the unique index on slot_start settles
// concurrent bookings of the same slot, so a unique violation here is the
// lost race and comes back as ErrSlotTaken.
func (s *AppointmentService) Book(ctx context.Context, userID int, slotStart time.Time, message string) (*model.Appointment, error) {
	slotStart = slotStart.UTC().Truncate(time.Minute)

	log := logger.Log.WithFields(logrus.Fields{
		"user_id":    userID,
		"slot_start": slotStart,
	})
	log.Info("Starting booking process")

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("could not begin transaction: %w", err)
	}
	defer tx.Rollback()

	dayStart := slotStart.Truncate(24 * time.Hour)
	dayEnd := dayStart.Add(24 * time.Hour)
	count, err := s.repo.CountForUserBetween(tx, userID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}
	if count >= s.cfg.Booking.MaxSlotsPerUserPerDay {
		metrics.BookingsTotal.WithLabelValues("conflict").Inc()
		return nil, ErrDailyCapReached
	}

	appointment := &model.Appointment{
		UserID:    userID,
		SlotStart: slotStart,
		Message:   message,
	}
	if err := s.repo.Create(tx, appointment); err != nil {
		if repository.IsUniqueViolation(err) {
			metrics.BookingsTotal.WithLabelValues("conflict").Inc()
			return nil, ErrSlotTaken
		}
		metrics.BookingsTotal.WithLabelValues("failure").Inc()
		return nil, fmt.Errorf("could not create appointment record: %w", err)
	}

	if err := tx.Commit(); err != nil {
		metrics.BookingsTotal.WithLabelValues("failure").Inc()
		return nil, fmt.Errorf("could not commit transaction: %w", err)
	}

	metrics.BookingsTotal.WithLabelValues("success").Inc()
	log.Info("Booking completed successfully")
	return appointment, nil
}

// ListForUser retrieves the user's appointments sorted by slot start. A
// non-nil fromDate restricts the listing to slots on or after that day.
func (s *AppointmentService) ListForUser(userID int, fromDate *time.Time) ([]*model.Appointment, error) {
	var from *time.Time
	if fromDate != nil {
		y, m, d := fromDate.UTC().Date()
		dayStart := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
		from = &dayStart
	}
	return s.repo.ListForUser(userID, from)
}

// ListAllWithOwner retrieves every appointment with its owner, unfiltered.
func (s *AppointmentService) ListAllWithOwner() ([]*model.AppointmentWithOwner, error) {
	return s.repo.ListAllWithOwner()
}

// Cancel deletes the appointment only if it belongs to the requesting user.
// A false return means absent or not owned; callers cannot tell which.
func (s *AppointmentService) Cancel(appointmentID, userID int) (bool, error) {
	affected, err := s.repo.DeleteByIDAndUser(appointmentID, userID)
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// PurgeOlderThan removes appointments booked more than days ago, by
// created_at, and returns the number removed.
func (s *AppointmentService) PurgeOlderThan(days int) (int64, error) {
	cutoff := time.Now().UTC().Add(-time.Duration(days) * 24 * time.Hour)
	removed, err := s.repo.DeleteCreatedBefore(cutoff)
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		metrics.AppointmentsPurgedTotal.Add(float64(removed))
		logger.Log.WithFields(logrus.Fields{
			"removed":        removed,
			"retention_days": days,
		}).Info("Appointment retention cleanup removed records")
	}
	return removed, nil
}
