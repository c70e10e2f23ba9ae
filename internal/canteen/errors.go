package canteen

import "errors"

// Expected user-facing conditions. Store-write failures are not in this list
// on purpose: they are swallowed at the boundary and degrade to local-only
// state instead of surfacing to callers.
var (
	ErrEmptyCart          = errors.New("cart is empty")
	ErrNoSlotSelected     = errors.New("no pickup slot selected")
	ErrSlotFull           = errors.New("pickup slot is at capacity")
	ErrBookingPaused      = errors.New("booking is paused")
	ErrOrderNotFound      = errors.New("order not found")
	ErrAlreadyServed      = errors.New("order is already served")
	ErrPollItemNotFound   = errors.New("poll item not found")
	ErrAlreadyVoted       = errors.New("already voted for this item")
	ErrEmptyPollName      = errors.New("poll item name is empty")
	ErrInvalidScanPayload = errors.New("scan payload is empty")
	ErrMenuItemNotFound   = errors.New("menu item not found")
)
