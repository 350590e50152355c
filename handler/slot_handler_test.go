// handler/slot_handler_test.go
package handler

import (
	"database/sql"
	"encoding/json"
	"go-booking-api/config"
	"go-booking-api/model"
	"go-booking-api/service"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// stubAppointmentRepo mocks repository.IAppointmentRepository for handler
// tests; only GetBookedSlotStarts is exercised here.
type stubAppointmentRepo struct{ mock.Mock }

func (m *stubAppointmentRepo) Create(tx *sql.Tx, appointment *model.Appointment) error {
	return m.Called(tx, appointment).Error(0)
}
func (m *stubAppointmentRepo) CountForUserBetween(tx *sql.Tx, userID int, from, to time.Time) (int, error) {
	args := m.Called(tx, userID, from, to)
	return args.Int(0), args.Error(1)
}
func (m *stubAppointmentRepo) GetBookedSlotStarts(from, to time.Time) (map[time.Time]bool, error) {
	args := m.Called(from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[time.Time]bool), args.Error(1)
}
func (m *stubAppointmentRepo) ListForUser(userID int, from *time.Time) ([]*model.Appointment, error) {
	args := m.Called(userID, from)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Appointment), args.Error(1)
}
func (m *stubAppointmentRepo) ListAllWithOwner() ([]*model.AppointmentWithOwner, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.AppointmentWithOwner), args.Error(1)
}
func (m *stubAppointmentRepo) DeleteByIDAndUser(id, userID int) (int64, error) {
	args := m.Called(id, userID)
	return args.Get(0).(int64), args.Error(1)
}
func (m *stubAppointmentRepo) DeleteCreatedBefore(cutoff time.Time) (int64, error) {
	args := m.Called(cutoff)
	return args.Get(0).(int64), args.Error(1)
}

func slotTestConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Booking.SlotDurationMinutes = 30
	cfg.Booking.BusinessStartHour = 9
	cfg.Booking.BusinessEndHour = 17
	return cfg
}

func TestSlotHandler_Available(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		repo := new(stubAppointmentRepo)
		repo.On("GetBookedSlotStarts", mock.Anything, mock.Anything).
			Return(map[time.Time]bool{}, nil).Once()
		slotHandler := NewSlotHandler(service.NewSlotService(slotTestConfig(), repo))

		req := httptest.NewRequest(http.MethodGet, "/api/v1/slots/available?date=2026-09-14", nil)
		rr := httptest.NewRecorder()

		appErr := slotHandler.Available(rr, req)

		assert.Nil(t, appErr)
		assert.Equal(t, http.StatusOK, rr.Code)
		var body struct {
			Date  string           `json:"date"`
			Slots []model.SlotInfo `json:"slots"`
		}
		assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		assert.Equal(t, "2026-09-14", body.Date)
		assert.Len(t, body.Slots, 16)
		assert.True(t, body.Slots[0].Available)
	})

	t.Run("missing date", func(t *testing.T) {
		slotHandler := NewSlotHandler(nil)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/slots/available", nil)
		rr := httptest.NewRecorder()

		appErr := slotHandler.Available(rr, req)

		assert.NotNil(t, appErr)
		assert.Equal(t, http.StatusBadRequest, appErr.Code)
	})

	t.Run("malformed date", func(t *testing.T) {
		slotHandler := NewSlotHandler(nil)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/slots/available?date=14-09-2026", nil)
		rr := httptest.NewRecorder()

		appErr := slotHandler.Available(rr, req)

		assert.NotNil(t, appErr)
		assert.Equal(t, http.StatusBadRequest, appErr.Code)
	})
}
