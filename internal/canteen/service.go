package canteen

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/preplate/preplate/internal/events"
	"github.com/preplate/preplate/internal/factories"
	"github.com/preplate/preplate/internal/ledger"
	"github.com/preplate/preplate/internal/models"
	"github.com/preplate/preplate/internal/store"
	"github.com/preplate/preplate/pkg/logging"
)

// Service owns the live projections of the shared collections and every
// operation that mutates them. Store snapshots and user actions both run to
// completion under the state mutex, so each mutation is atomic from the
// point of view of every reader.
type Service struct {
	cfg    *models.Config
	store  store.Store
	ledger *ledger.Ledger
	output events.Output
	logger *logrus.Logger

	mu        sync.RWMutex
	orders    []models.Order
	polls     []models.PollItem
	menu      []models.MenuItem
	slots     []models.TimeSlot
	paused    bool
	analytics models.Analytics

	// optimistic tracks locally applied order creations the store has not
	// confirmed yet; the reconciler logs entries that outlive the grace
	// period.
	optimistic map[string]time.Time
}

func NewService(cfg *models.Config, st store.Store, led *ledger.Ledger, out events.Output) *Service {
	s := &Service{
		cfg:        cfg,
		store:      st,
		ledger:     led,
		output:     out,
		logger:     logging.GetLogger(),
		menu:       factories.DefaultMenu(),
		slots:      append([]models.TimeSlot(nil), cfg.TimeSlots...),
		optimistic: make(map[string]time.Time),
	}
	s.analytics = ComputeAnalytics(nil, cfg)
	return s
}

// Run subscribes to the shared collections and applies their snapshots until
// ctx is cancelled. The three streams are independent and unordered relative
// to each other; each emission is total for its collection.
func (s *Service) Run(ctx context.Context) error {
	ordersSub, err := s.store.Subscribe(ctx, models.CollectionOrders, "createdAt")
	if err != nil {
		return err
	}
	defer ordersSub.Unsubscribe()

	pollsSub, err := s.store.Subscribe(ctx, models.CollectionPolls, "votes")
	if err != nil {
		return err
	}
	defer pollsSub.Unsubscribe()

	settingsSub, err := s.store.Subscribe(ctx, models.CollectionSettings, "")
	if err != nil {
		return err
	}
	defer settingsSub.Unsubscribe()

	reconcile := time.NewTicker(s.cfg.ReconcileInterval)
	defer reconcile.Stop()

	s.logger.Infof("%s coordination service running", s.cfg.CanteenName)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case snap, ok := <-ordersSub.C:
			if !ok {
				return nil
			}
			s.applyOrdersSnapshot(snap)
		case snap, ok := <-pollsSub.C:
			if !ok {
				return nil
			}
			s.applyPollsSnapshot(snap)
		case snap, ok := <-settingsSub.C:
			if !ok {
				return nil
			}
			s.applySettingsSnapshot(snap)
		case <-reconcile.C:
			s.reconcile()
		}
	}
}

// applyOrdersSnapshot replaces the order projection wholesale, with two local
// overlays: a locally Served order never regresses to Pending, and optimistic
// creations the snapshot does not carry yet stay visible.
func (s *Service) applyOrdersSnapshot(snap store.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	previous := make(map[string]models.Order, len(s.orders))
	for _, o := range s.orders {
		previous[o.ID] = o
	}

	confirmed := make(map[string]struct{}, len(snap.Docs))
	fresh := make([]models.Order, 0, len(snap.Docs))
	for _, doc := range snap.Docs {
		order, err := models.OrderFromDocument(doc)
		if err != nil {
			s.logger.Warnf("rejecting malformed order document: %v", err)
			continue
		}
		confirmed[order.ID] = struct{}{}
		if local, ok := previous[order.ID]; ok && local.Status == models.OrderStatusServed && order.Pending() {
			// served locally, store still catching up
			order.Status = local.Status
			order.ServedAt = local.ServedAt
		}
		fresh = append(fresh, order)
	}

	// carry optimistic creations the store has not confirmed yet
	var carried []models.Order
	for id := range s.optimistic {
		if _, ok := confirmed[id]; ok {
			delete(s.optimistic, id)
			continue
		}
		if local, ok := previous[id]; ok {
			carried = append(carried, local)
		}
	}

	s.orders = append(carried, fresh...)
	s.analytics = ComputeAnalytics(s.orders, s.cfg)
}

func (s *Service) applyPollsSnapshot(snap store.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fresh := make([]models.PollItem, 0, len(snap.Docs))
	for _, doc := range snap.Docs {
		item, err := models.PollItemFromDocument(doc)
		if err != nil {
			s.logger.Warnf("rejecting malformed poll document: %v", err)
			continue
		}
		fresh = append(fresh, item)
	}
	s.polls = fresh
}

// applySettingsSnapshot mirrors the singleton settings document. An absent
// document is a valid state: the local value is left untouched rather than
// forced to a default.
func (s *Service) applySettingsSnapshot(snap store.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, doc := range snap.Docs {
		if doc.ID != models.SettingsDocID {
			continue
		}
		settings, err := models.SettingsFromDocument(doc)
		if err != nil {
			s.logger.Warnf("rejecting malformed settings document: %v", err)
			return
		}
		s.paused = settings.IsBookingPaused
		return
	}
}

// Orders returns a copy of the current order projection, newest first.
func (s *Service) Orders() []models.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Order(nil), s.orders...)
}

// Order looks a single order up by id.
func (s *Service) Order(id string) (models.Order, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, o := range s.orders {
		if o.ID == id {
			return o, true
		}
	}
	return models.Order{}, false
}

// MyOrders filters the projection down to one student: matched by id when
// the order carries one, by display name for legacy records that do not.
func (s *Service) MyOrders(identity models.Identity) []models.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var mine []models.Order
	for _, o := range s.orders {
		if o.UserID == identity.StudentID || (o.UserID == "" && o.User == identity.Name) {
			mine = append(mine, o)
		}
	}
	return mine
}

// Polls returns a copy of the poll projection, most voted first.
func (s *Service) Polls() []models.PollItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.PollItem(nil), s.polls...)
}

// Slots returns the slot table with live remaining capacity folded in.
func (s *Service) Slots() []models.TimeSlot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	slots := make([]models.TimeSlot, len(s.slots))
	copy(slots, s.slots)
	for i := range slots {
		slots[i].Booked += s.liveSlotCountLocked(slots[i].Time)
	}
	return slots
}

// Analytics returns the metrics derived from the latest projection.
func (s *Service) Analytics() models.Analytics {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.analytics
}

// BookingPaused reports the current admission gate.
func (s *Service) BookingPaused() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.paused
}

// Profile returns the locally cached student identity, if any.
func (s *Service) Profile() (models.Identity, bool) {
	identity, ok, err := s.ledger.LoadProfile()
	if err != nil {
		s.logger.Warnf("could not load cached profile: %v", err)
		return models.Identity{}, false
	}
	return identity, ok
}

// SaveProfile caches the student identity for the next session.
func (s *Service) SaveProfile(identity models.Identity) error {
	return s.ledger.SaveProfile(identity)
}

// liveSlotCountLocked counts pending orders already placed against a slot
// label. Callers hold s.mu.
func (s *Service) liveSlotCountLocked(slotLabel string) int {
	count := 0
	for _, o := range s.orders {
		if o.Slot == slotLabel && o.Pending() {
			count++
		}
	}
	return count
}

// writeAsync runs a durable write off the caller's goroutine with a bounded
// retry. Failures are logged and the optimistic local state stays as-is; the
// reconciler will flag lasting divergence.
func (s *Service) writeAsync(description string, write func(ctx context.Context) error) {
	go func() {
		backoff := s.cfg.WriteRetryBackoff
		attempts := s.cfg.WriteRetryAttempts
		if attempts < 1 {
			attempts = 1
		}
		var err error
		for attempt := 1; attempt <= attempts; attempt++ {
			// deliberately not the caller's context: the write should
			// outlive the action that queued it
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			err = write(ctx)
			cancel()
			if err == nil {
				return
			}
			if attempt < attempts {
				time.Sleep(backoff)
				backoff *= 2
			}
		}
		s.logger.Warnf("%s: durable write failed, keeping local state: %v", description, err)
	}()
}
