package canteen

import (
	"context"

	"github.com/preplate/preplate/internal/models"
	"github.com/preplate/preplate/internal/store"
)

// ToggleBooking flips the global admission gate. Local state changes
// immediately; the durable update is best-effort and a missing settings
// document only earns a soft warning — the pause still holds for this
// session. Across clients, whichever settings emission arrives last wins.
func (s *Service) ToggleBooking(ctx context.Context, paused bool) {
	s.mu.Lock()
	s.paused = paused
	s.mu.Unlock()

	err := s.store.Update(ctx, models.CollectionSettings, models.SettingsDocID, store.Patch{
		"isBookingPaused": paused,
	})
	if err != nil {
		s.logger.Warnf("booking pause not saved to store, keeping local state: %v", err)
		return
	}
	s.logger.Infof("booking paused: %v", paused)
}
