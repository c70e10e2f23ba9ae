package canteen

import (
	"context"
	"time"

	"github.com/preplate/preplate/internal/models"
	"github.com/preplate/preplate/internal/store"
)

// MarkServed transitions an order Pending→Served. The transition is applied
// optimistically with a local timestamp, then pushed to the store; a failed
// durable update is only a warning, because a manually seeded order has no
// store document to update and that must never surface as an error at the
// counter.
//
// Serving an already-Served order is a state no-op and skips the redundant
// durable write.
func (s *Service) MarkServed(orderID string) error {
	s.mu.Lock()
	idx := -1
	for i := range s.orders {
		if s.orders[i].ID == orderID {
			idx = i
			break
		}
	}
	if idx == -1 {
		s.mu.Unlock()
		return ErrOrderNotFound
	}
	if s.orders[idx].Status == models.OrderStatusServed {
		s.mu.Unlock()
		return nil
	}

	servedAt := time.Now()
	s.orders[idx].Status = models.OrderStatusServed
	s.orders[idx].ServedAt = servedAt
	order := s.orders[idx]
	s.analytics = ComputeAnalytics(s.orders, s.cfg)
	s.mu.Unlock()

	s.writeAsync("serve order "+orderID, func(ctx context.Context) error {
		return s.store.Update(ctx, models.CollectionOrders, orderID, store.Patch{
			"status":   models.OrderStatusServed,
			"servedAt": servedAt.UTC().Format(models.TimeFormat),
		})
	})
	s.publishOrderEvent(eventOrderServed, order)

	s.logger.Infof("order %s served", orderID)
	return nil
}
