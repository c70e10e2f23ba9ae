package models

// BookingSettings is the single global settings record. Absence of the
// backing document is a valid state and means booking is not paused.
type BookingSettings struct {
	IsBookingPaused bool `json:"isBookingPaused"`
}
