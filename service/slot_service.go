package service

import (
	"go-booking-api/config"
	"go-booking-api/model"
	"go-booking-api/repository"
	"time"
)

// SlotService derives the bookable slot grid for a calendar date from the
// configured business hours and marks which slots are taken.
type SlotService struct {
	cfg  *config.Config
	repo repository.IAppointmentRepository
}

func NewSlotService(cfg *config.Config, repo repository.IAppointmentRepository) *SlotService {
	return &SlotService{cfg: cfg, repo: repo}
}

// EnumerateSlots returns the slot start instants for the date, stepping from
// business open by the slot duration while strictly before business close.
// Only start times are checked against the close hour; a slot whose end runs
// past close is still generated when the duration does not divide the window
// evenly. Pure function, no I/O.
func (s *SlotService) EnumerateSlots(date time.Time) []time.Time {
	y, m, d := date.UTC().Date()
	start := time.Date(y, m, d, s.cfg.Booking.BusinessStartHour, 0, 0, 0, time.UTC)
	end := time.Date(y, m, d, s.cfg.Booking.BusinessEndHour, 0, 0, 0, time.UTC)
	step := s.cfg.SlotDuration()

	var slots []time.Time
	for current := start; current.Before(end); current = current.Add(step) {
		slots = append(slots, current)
	}
	return slots
}

// AvailabilityForDate returns every slot for the date with its availability.
// A slot is available iff its exact start instant is not booked.
func (s *SlotService) AvailabilityForDate(date time.Time) ([]model.SlotInfo, error) {
	slots := s.EnumerateSlots(date)
	if len(slots) == 0 {
		return nil, nil
	}

	step := s.cfg.SlotDuration()
	from := slots[0]
	to := slots[len(slots)-1].Add(step)
	booked, err := s.repo.GetBookedSlotStarts(from, to)
	if err != nil {
		return nil, err
	}

	out := make([]model.SlotInfo, 0, len(slots))
	for _, start := range slots {
		out = append(out, model.SlotInfo{
			StartUTC:  start,
			EndUTC:    start.Add(step),
			Available: !booked[start],
		})
	}
	return out, nil
}
