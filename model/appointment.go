package model

import "time"

// Appointment is a booked slot. SlotStart is minute-precision UTC and is
// globally unique: two users can never hold the same slot.
type Appointment struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	SlotStart time.Time `json:"slot_start_utc"`
	Message   string    `json:"message,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// AppointmentWithOwner joins an appointment with its owner, for the admin
// listing.
type AppointmentWithOwner struct {
	ID           int       `json:"id"`
	UserID       int       `json:"user_id"`
	UserEmail    string    `json:"user_email"`
	UserFullName string    `json:"user_full_name,omitempty"`
	SlotStart    time.Time `json:"slot_start_utc"`
	Message      string    `json:"message,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// SlotInfo is one entry of the availability grid for a date.
type SlotInfo struct {
	StartUTC  time.Time `json:"start_utc"`
	EndUTC    time.Time `json:"end_utc"`
	Available bool      `json:"available"`
}
