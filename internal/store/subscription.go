package store

import (
	"sync"

	"github.com/preplate/preplate/internal/models"
	"github.com/preplate/preplate/pkg/logging"
)

// subscriptionBuffer bounds how many undelivered snapshots a slow consumer
// may hold. Snapshots are total, so dropping one only delays convergence
// until the next emission.
const subscriptionBuffer = 32

// Subscription is a live change stream for one collection. Receive from C;
// the channel is closed after Unsubscribe and no further emissions are
// delivered.
type Subscription struct {
	C <-chan Snapshot

	collection string
	orderBy    string
	ch         chan Snapshot
	once       sync.Once
	detach     func(*Subscription)
}

func newSubscription(collection, orderBy string, detach func(*Subscription)) *Subscription {
	ch := make(chan Snapshot, subscriptionBuffer)
	return &Subscription{
		C:          ch,
		collection: collection,
		orderBy:    orderBy,
		ch:         ch,
		detach:     detach,
	}
}

// Unsubscribe tears the stream down. It is idempotent and race-free: the hub
// removes the subscriber under its lock before the channel closes, so nothing
// can be emitted afterwards.
func (s *Subscription) Unsubscribe() {
	s.once.Do(func() {
		s.detach(s)
		close(s.ch)
	})
}

// hub fans full snapshots out to the subscribers of each collection. All
// emission happens under mu, which is the same lock detach takes, giving
// Unsubscribe its no-delivery-after guarantee.
type hub struct {
	mu   sync.Mutex
	subs map[string][]*Subscription
}

func newHub() *hub {
	return &hub{subs: make(map[string][]*Subscription)}
}

func (h *hub) add(sub *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.subs[sub.collection] = append(h.subs[sub.collection], sub)
}

func (h *hub) remove(sub *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()
	current := h.subs[sub.collection]
	for i, c := range current {
		if c == sub {
			h.subs[sub.collection] = append(current[:i], current[i+1:]...)
			break
		}
	}
}

// broadcast delivers a fresh full snapshot to every subscriber of the
// collection, ordered per subscription. The caller hands over docs and must
// not touch them again.
func (h *hub) broadcast(collection string, docs []models.Document) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, sub := range h.subs[collection] {
		view := make([]models.Document, len(docs))
		copy(view, docs)
		sortDocs(view, sub.orderBy)
		select {
		case sub.ch <- Snapshot{Collection: collection, Docs: view}:
		default:
			// Buffer full: skip this emission, the consumer converges on
			// the next total snapshot.
			logging.GetLogger().Warnf("subscriber for %s is lagging, snapshot skipped", collection)
		}
	}
}

// send delivers the initial snapshot to a single freshly added subscriber.
func (h *hub) send(sub *Subscription, docs []models.Document) {
	h.mu.Lock()
	defer h.mu.Unlock()
	sortDocs(docs, sub.orderBy)
	select {
	case sub.ch <- Snapshot{Collection: sub.collection, Docs: docs}:
	default:
	}
}
