package canteen

import (
	"context"
	"strings"
	"time"

	"github.com/lucsky/cuid"

	"github.com/preplate/preplate/internal/models"
)

// PlaceOrder runs admission control and, if the order is accepted, applies
// it to the local projection immediately. The durable write happens
// asynchronously so checkout never blocks on the store round-trip; a failed
// write is logged and the optimistic entry stays (a deliberate local-first
// tradeoff, surfaced by the reconciler rather than rolled back).
//
// The booking-pause gate is re-validated here, not only in the UI, and the
// slot capacity check counts live pending orders on top of the configured
// booked baseline.
func (s *Service) PlaceOrder(cart []models.OrderLine, slotID string, identity models.Identity) (models.Order, error) {
	if len(cart) == 0 {
		return models.Order{}, ErrEmptyCart
	}
	if strings.TrimSpace(slotID) == "" {
		return models.Order{}, ErrNoSlotSelected
	}

	s.mu.Lock()
	if s.paused {
		s.mu.Unlock()
		return models.Order{}, ErrBookingPaused
	}

	var slot *models.TimeSlot
	for i := range s.slots {
		if s.slots[i].ID == slotID {
			slot = &s.slots[i]
			break
		}
	}
	if slot == nil {
		s.mu.Unlock()
		return models.Order{}, ErrNoSlotSelected
	}
	if slot.Booked+s.liveSlotCountLocked(slot.Time) >= slot.Capacity {
		s.mu.Unlock()
		return models.Order{}, ErrSlotFull
	}

	lines := make([]models.OrderLine, len(cart))
	copy(lines, cart) // price snapshot, menu edits must not reach placed orders

	order := models.Order{
		ID:          models.OrderIDPrefix + cuid.New(),
		Items:       lines,
		TotalAmount: models.CartTotal(lines),
		Slot:        slot.Time,
		Status:      models.OrderStatusPending,
		User:        identity.Name,
		UserID:      identity.StudentID,
		CreatedAt:   time.Now(),
	}

	// optimistic: visible before the durable write settles
	s.orders = append([]models.Order{order}, s.orders...)
	s.optimistic[order.ID] = time.Now()
	s.analytics = ComputeAnalytics(s.orders, s.cfg)
	s.mu.Unlock()

	s.writeAsync("place order "+order.ID, func(ctx context.Context) error {
		_, err := s.store.Create(ctx, models.CollectionOrders, order.Document())
		return err
	})
	s.publishOrderEvent(eventOrderPlaced, order)

	s.logger.Infof("order %s placed for slot %q, total %.2f", order.ID, order.Slot, order.TotalAmount)
	return order, nil
}
