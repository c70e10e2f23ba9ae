package models

import "time"

// PollItem is a candidate dish on the next-day menu poll. Votes only grow
// while the item exists; staff may delete the item outright.
type PollItem struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Votes     int       `json:"votes"`
	CreatedAt time.Time `json:"createdAt"`
}
