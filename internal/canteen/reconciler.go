package canteen

import "time"

// reconcile flags optimistic order creations that have outlived the grace
// period without a store confirmation. The projection is not rolled back;
// the log line is the signal that the write path needs attention.
func (s *Service) reconcile() {
	grace := s.cfg.ReconcileGrace
	if grace <= 0 {
		grace = time.Minute
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	now := time.Now()
	for id, placedAt := range s.optimistic {
		age := now.Sub(placedAt)
		if age < grace {
			continue
		}
		s.logger.WithFields(map[string]interface{}{
			"order_id": id,
			"age":      age.Round(time.Second).String(),
		}).Warn("order still unconfirmed by the store")
	}
}
