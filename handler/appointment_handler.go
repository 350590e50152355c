package handler

import (
	"errors"
	"go-booking-api/common"
	"go-booking-api/config"
	"go-booking-api/model"
	"go-booking-api/service"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// AppointmentHandler holds dependencies for booking-related handlers.
type AppointmentHandler struct {
	appointmentService *service.AppointmentService
	userService        *service.UserService
	emailService       *service.EmailService
	cfg                *config.Config
}

func NewAppointmentHandler(appointmentService *service.AppointmentService, userService *service.UserService, emailService *service.EmailService, cfg *config.Config) *AppointmentHandler {
	return &AppointmentHandler{
		appointmentService: appointmentService,
		userService:        userService,
		emailService:       emailService,
		cfg:                cfg,
	}
}

// Book godoc
// @Summary      Book a slot
// @Description  Books the requested 30-minute slot for the authenticated user. At most one slot per user per day; a slot can only ever have one owner.
// @Tags         appointments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        booking body model.BookAppointmentRequest true "Slot to book"
// @Success      201  {object}  model.Appointment
// @Failure      401  {object}  common.AppError
// @Failure      409  {object}  common.AppError "Slot taken or daily limit reached"
// @Router       /api/v1/appointments [post]
func (h *AppointmentHandler) Book(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.BookAppointmentRequest
	if err := common.ValidateAndDecode(r, &req); err != nil {
		return err
	}

	userID, ok := r.Context().Value(UserIDKey).(int)
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Invalid user ID in token", nil)
	}

	appointment, err := h.appointmentService.Book(r.Context(), userID, req.SlotStart, req.Message)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSlotTaken), errors.Is(err, service.ErrDailyCapReached):
			return common.NewAppError(http.StatusConflict, err.Error(), nil)
		default:
			return common.NewAppError(http.StatusInternalServerError, "Could not book appointment", err)
		}
	}

	// Confirmation mail is best-effort and must not hold up the response.
	if user, err := h.userService.GetPublicByID(r.Context(), userID); err == nil {
		duration := h.cfg.Booking.SlotDurationMinutes
		go h.emailService.SendBookingConfirmation(user.Email, user.FullName, appointment.SlotStart, duration, appointment.Message)
		go h.emailService.SendAdminNotification(user.Email, user.FullName, appointment.SlotStart, duration, appointment.Message)
	}

	writeJSON(w, http.StatusCreated, appointment)
	return nil
}

// ListMine godoc
// @Summary      List my appointments
// @Tags         appointments
// @Produce      json
// @Security     BearerAuth
// @Param        from_date query string false "Restrict to slots on or after this day (YYYY-MM-DD)"
// @Success      200  {array}   model.Appointment
// @Failure      401  {object}  common.AppError
// @Router       /api/v1/appointments [get]
func (h *AppointmentHandler) ListMine(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, ok := r.Context().Value(UserIDKey).(int)
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Invalid user ID in token", nil)
	}

	var fromDate *time.Time
	if raw := r.URL.Query().Get("from_date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return common.NewAppError(http.StatusBadRequest, "Invalid from_date, expected YYYY-MM-DD", err)
		}
		fromDate = &parsed
	}

	appointments, err := h.appointmentService.ListForUser(userID, fromDate)
	if err != nil {
		return common.NewAppError(http.StatusInternalServerError, "Could not retrieve appointments", err)
	}
	if appointments == nil {
		appointments = []*model.Appointment{}
	}

	writeJSON(w, http.StatusOK, appointments)
	return nil
}

// ListAll godoc
// @Summary      List all appointments with owners
// @Description  Administrative listing, allowed only for the configured admin email.
// @Tags         appointments
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   model.AppointmentWithOwner
// @Failure      403  {object}  common.AppError
// @Router       /api/v1/appointments/admin [get]
func (h *AppointmentHandler) ListAll(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, ok := r.Context().Value(UserIDKey).(int)
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Invalid user ID in token", nil)
	}

	user, err := h.userService.GetPublicByID(r.Context(), userID)
	if err != nil {
		return common.NewAppError(http.StatusInternalServerError, "Could not load user", err)
	}
	adminEmail := h.cfg.SMTP.FromEmail
	if adminEmail == "" || !strings.EqualFold(user.Email, adminEmail) {
		return common.NewAppError(http.StatusForbidden, "Not authorized to view all appointments", nil)
	}

	rows, err := h.appointmentService.ListAllWithOwner()
	if err != nil {
		return common.NewAppError(http.StatusInternalServerError, "Could not retrieve appointments", err)
	}
	if rows == nil {
		rows = []*model.AppointmentWithOwner{}
	}

	writeJSON(w, http.StatusOK, rows)
	return nil
}

// Cancel godoc
// @Summary      Cancel an appointment
// @Description  Deletes the appointment if it belongs to the caller. Someone else's appointment is indistinguishable from a missing one.
// @Tags         appointments
// @Security     BearerAuth
// @Param        appointmentId path int true "Appointment ID"
// @Success      204  "No Content"
// @Failure      404  {object}  common.AppError "Appointment not found or not yours"
// @Router       /api/v1/appointments/{appointmentId} [delete]
func (h *AppointmentHandler) Cancel(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, ok := r.Context().Value(UserIDKey).(int)
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Invalid user ID in token", nil)
	}

	appointmentIDStr := r.PathValue("appointmentId")
	appointmentID, err := strconv.Atoi(appointmentIDStr)
	if err != nil {
		return common.NewAppError(http.StatusBadRequest, "Invalid appointment ID in URL path", err)
	}

	ok, err = h.appointmentService.Cancel(appointmentID, userID)
	if err != nil {
		return common.NewAppError(http.StatusInternalServerError, "Could not cancel appointment", err)
	}
	if !ok {
		return common.NewAppError(http.StatusNotFound, "Appointment not found or not yours", nil)
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}
