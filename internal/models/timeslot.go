package models

// TimeSlot is static reference data: the capacity check runs against the
// configured booked baseline plus live orders, not against store state.
type TimeSlot struct {
	ID       string `json:"id" mapstructure:"id"`
	Time     string `json:"time" mapstructure:"time"`
	Capacity int    `json:"capacity" mapstructure:"capacity"`
	Booked   int    `json:"booked" mapstructure:"booked"`
}

// DefaultTimeSlots returns the lunch-window slot table used when the config
// file does not define one.
func DefaultTimeSlots() []TimeSlot {
	return []TimeSlot{
		{ID: "slot_1", Time: "12:00 - 12:15", Capacity: 50, Booked: 45},
		{ID: "slot_2", Time: "12:15 - 12:30", Capacity: 50, Booked: 12},
		{ID: "slot_3", Time: "12:30 - 12:45", Capacity: 50, Booked: 5},
		{ID: "slot_4", Time: "12:45 - 01:00", Capacity: 50, Booked: 0},
	}
}
