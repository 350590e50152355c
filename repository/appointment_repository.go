package repository

import (
	"database/sql"
	"go-booking-api/logger"
	"go-booking-api/model"
	"time"

	"github.com/sirupsen/logrus"
)

// IAppointmentRepository defines the contract for appointment database
// operations. Create and CountForUserBetween run inside the caller's
// transaction so the daily-cap check and the insert commit together.
type IAppointmentRepository interface {
	Create(tx *sql.Tx, appointment *model.Appointment) error
	CountForUserBetween(tx *sql.Tx, userID int, from, to time.Time) (int, error)
	GetBookedSlotStarts(from, to time.Time) (map[time.Time]bool, error)
	ListForUser(userID int, from *time.Time) ([]*model.Appointment, error)
	ListAllWithOwner() ([]*model.AppointmentWithOwner, error)
	DeleteByIDAndUser(id, userID int) (int64, error)
	DeleteCreatedBefore(cutoff time.Time) (int64, error)
}

type AppointmentRepository struct {
	DB *sql.DB
}

func NewAppointmentRepository(db *sql.DB) *AppointmentRepository {
	return &AppointmentRepository{DB: db}
}

// Create inserts a new appointment. The unique index on slot_start makes
// this the authoritative no-double-booking check; a unique violation here
// means a concurrent booker won the slot.
func (r *AppointmentRepository) Create(tx *sql.Tx, appointment *model.Appointment) error {
	log := logger.Log.WithFields(logrus.Fields{
		"user_id":    appointment.UserID,
		"slot_start": appointment.SlotStart,
	})
	log.Info("Executing query to create a new appointment")

	query := `INSERT INTO appointments (user_id, slot_start, message) VALUES ($1, $2, NULLIF($3, '')) RETURNING id, created_at`
	err := tx.QueryRow(query, appointment.UserID, appointment.SlotStart, appointment.Message).Scan(&appointment.ID, &appointment.CreatedAt)
	if err != nil {
		if !IsUniqueViolation(err) {
			log.WithError(err).Error("Failed to execute create appointment query")
		}
		return err
	}
	return nil
}

// CountForUserBetween counts the user's appointments whose slot_start falls
// in [from, to).
func (r *AppointmentRepository) CountForUserBetween(tx *sql.Tx, userID int, from, to time.Time) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM appointments WHERE user_id = $1 AND slot_start >= $2 AND slot_start < $3`
	err := tx.QueryRow(query, userID, from, to).Scan(&count)
	if err != nil {
		logger.Log.WithError(err).WithField("user_id", userID).Error("Failed to count appointments for user")
		return 0, err
	}
	return count, nil
}

// GetBookedSlotStarts returns the set of slot starts already booked in
// [from, to), keyed for O(1) lookup when building the availability grid.
func (r *AppointmentRepository) GetBookedSlotStarts(from, to time.Time) (map[time.Time]bool, error) {
	query := `SELECT slot_start FROM appointments WHERE slot_start >= $1 AND slot_start < $2`
	rows, err := r.DB.Query(query, from, to)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to query booked slot starts")
		return nil, err
	}
	defer rows.Close()

	booked := make(map[time.Time]bool)
	for rows.Next() {
		var slot time.Time
		if err := rows.Scan(&slot); err != nil {
			logger.Log.WithError(err).Error("Failed to scan slot start row")
			return nil, err
		}
		booked[slot.UTC()] = true
	}
	return booked, rows.Err()
}

// ListForUser retrieves a user's appointments ordered by slot start. If from
// is non-nil only appointments starting at or after it are returned.
func (r *AppointmentRepository) ListForUser(userID int, from *time.Time) ([]*model.Appointment, error) {
	log := logger.Log.WithField("user_id", userID)
	log.Info("Executing query to list appointments for user")

	query := `SELECT id, user_id, slot_start, COALESCE(message, ''), created_at FROM appointments WHERE user_id = $1`
	args := []interface{}{userID}
	if from != nil {
		query += ` AND slot_start >= $2`
		args = append(args, *from)
	}
	query += ` ORDER BY slot_start ASC`

	rows, err := r.DB.Query(query, args...)
	if err != nil {
		log.WithError(err).Error("Failed to execute list appointments query")
		return nil, err
	}
	defer rows.Close()

	var appointments []*model.Appointment
	for rows.Next() {
		var a model.Appointment
		if err := rows.Scan(&a.ID, &a.UserID, &a.SlotStart, &a.Message, &a.CreatedAt); err != nil {
			log.WithError(err).Error("Failed to scan appointment row")
			return nil, err
		}
		a.SlotStart = a.SlotStart.UTC()
		a.CreatedAt = a.CreatedAt.UTC()
		appointments = append(appointments, &a)
	}
	return appointments, rows.Err()
}

// ListAllWithOwner retrieves every appointment joined with its owner. For
// admin use only.
func (r *AppointmentRepository) ListAllWithOwner() ([]*model.AppointmentWithOwner, error) {
	logger.Log.Info("Executing query to list all appointments with owners")

	query := `
		SELECT a.id, a.user_id, u.email, COALESCE(u.full_name, ''), a.slot_start, COALESCE(a.message, ''), a.created_at
		FROM appointments a
		JOIN users u ON u.id = a.user_id
		ORDER BY a.slot_start ASC`

	rows, err := r.DB.Query(query)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to execute list all appointments query")
		return nil, err
	}
	defer rows.Close()

	var out []*model.AppointmentWithOwner
	for rows.Next() {
		var a model.AppointmentWithOwner
		if err := rows.Scan(&a.ID, &a.UserID, &a.UserEmail, &a.UserFullName, &a.SlotStart, &a.Message, &a.CreatedAt); err != nil {
			logger.Log.WithError(err).Error("Failed to scan appointment row")
			return nil, err
		}
		a.SlotStart = a.SlotStart.UTC()
		a.CreatedAt = a.CreatedAt.UTC()
		out = append(out, &a)
	}
	return out, rows.Err()
}

// DeleteByIDAndUser deletes the appointment only when it belongs to userID
// and returns the number of rows removed. A zero count is indistinguishable
// between "absent" and "owned by someone else" on purpose.
func (r *AppointmentRepository) DeleteByIDAndUser(id, userID int) (int64, error) {
	query := `DELETE FROM appointments WHERE id = $1 AND user_id = $2`
	result, err := r.DB.Exec(query, id, userID)
	if err != nil {
		logger.Log.WithError(err).WithFields(logrus.Fields{
			"appointment_id": id,
			"user_id":        userID,
		}).Error("Failed to execute delete appointment query")
		return 0, err
	}
	return result.RowsAffected()
}

// DeleteCreatedBefore removes appointments booked before the cutoff and
// returns the number removed.
func (r *AppointmentRepository) DeleteCreatedBefore(cutoff time.Time) (int64, error) {
	query := `DELETE FROM appointments WHERE created_at < $1`
	result, err := r.DB.Exec(query, cutoff)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to execute retention delete query")
		return 0, err
	}
	return result.RowsAffected()
}
