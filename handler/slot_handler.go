package handler

import (
	"go-booking-api/common"
	"go-booking-api/model"
	"go-booking-api/service"
	"net/http"
	"time"
)

type SlotHandler struct {
	slotService *service.SlotService
}

func NewSlotHandler(slotService *service.SlotService) *SlotHandler {
	return &SlotHandler{slotService: slotService}
}

type availableSlotsResponse struct {
	Date  string           `json:"date"`
	Slots []model.SlotInfo `json:"slots"`
}

// Available godoc
// @Summary      List slots for a date
// @Description  Returns every slot in the business-hours grid for the date (UTC) with its availability.
// @Tags         slots
// @Produce      json
// @Param        date query string true "Date (YYYY-MM-DD)"
// @Success      200  {object}  availableSlotsResponse
// @Failure      400  {object}  common.AppError
// @Router       /api/v1/slots/available [get]
func (h *SlotHandler) Available(w http.ResponseWriter, r *http.Request) *common.AppError {
	raw := r.URL.Query().Get("date")
	if raw == "" {
		return common.NewAppError(http.StatusBadRequest, "Missing required query parameter: date", nil)
	}
	date, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return common.NewAppError(http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD", err)
	}

	slots, err := h.slotService.AvailabilityForDate(date)
	if err != nil {
		return common.NewAppError(http.StatusInternalServerError, "Could not retrieve availability", err)
	}
	if slots == nil {
		slots = []model.SlotInfo{}
	}

	writeJSON(w, http.StatusOK, availableSlotsResponse{
		Date:  date.Format("2006-01-02"),
		Slots: slots,
	})
	return nil
}
