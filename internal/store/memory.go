package store

import (
	"context"
	"sync"

	"github.com/preplate/preplate/internal/models"
)

// MemoryStore keeps collections in process memory and pushes full snapshots
// synchronously after every mutation. It backs tests and single-node demo
// runs; the contract is identical to the postgres backend.
type MemoryStore struct {
	mu          sync.Mutex
	collections map[string]map[string]models.Document
	hub         *hub
	closed      bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		collections: make(map[string]map[string]models.Document),
		hub:         newHub(),
	}
}

func (m *MemoryStore) Subscribe(ctx context.Context, collection, orderBy string) (*Subscription, error) {
	sub := newSubscription(collection, orderBy, m.hub.remove)
	m.hub.add(sub)
	m.hub.send(sub, m.collectionDocs(collection))

	if ctx.Done() != nil {
		go func() {
			<-ctx.Done()
			sub.Unsubscribe()
		}()
	}
	return sub, nil
}

func (m *MemoryStore) Create(ctx context.Context, collection string, doc models.Document) (string, error) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return "", &WriteError{Collection: collection, Err: ErrClosed}
	}
	id := doc.ID
	if id == "" {
		id = newDocID()
	}
	docs, ok := m.collections[collection]
	if !ok {
		docs = make(map[string]models.Document)
		m.collections[collection] = docs
	}
	docs[id] = models.Document{ID: id, Fields: cloneFields(doc.Fields)}
	m.mu.Unlock()

	m.hub.broadcast(collection, m.collectionDocs(collection))
	return id, nil
}

func (m *MemoryStore) Update(ctx context.Context, collection, id string, patch Patch) error {
	m.mu.Lock()
	doc, ok := m.collections[collection][id]
	if !ok {
		m.mu.Unlock()
		return &WriteError{Collection: collection, ID: id, Err: ErrNotFound}
	}
	for k, v := range patch {
		doc.Fields[k] = v
	}
	m.collections[collection][id] = doc
	m.mu.Unlock()

	m.hub.broadcast(collection, m.collectionDocs(collection))
	return nil
}

func (m *MemoryStore) Increment(ctx context.Context, collection, id, field string, delta int64) error {
	m.mu.Lock()
	doc, ok := m.collections[collection][id]
	if !ok {
		m.mu.Unlock()
		return &WriteError{Collection: collection, ID: id, Err: ErrNotFound}
	}
	current, _ := toFloat(doc.Fields[field])
	doc.Fields[field] = int64(current) + delta
	m.collections[collection][id] = doc
	m.mu.Unlock()

	m.hub.broadcast(collection, m.collectionDocs(collection))
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, collection, id string) error {
	m.mu.Lock()
	if _, ok := m.collections[collection][id]; !ok {
		m.mu.Unlock()
		return &WriteError{Collection: collection, ID: id, Err: ErrNotFound}
	}
	delete(m.collections[collection], id)
	m.mu.Unlock()

	m.hub.broadcast(collection, m.collectionDocs(collection))
	return nil
}

func (m *MemoryStore) Close() error {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) collectionDocs(collection string) []models.Document {
	m.mu.Lock()
	defer m.mu.Unlock()
	docs := make([]models.Document, 0, len(m.collections[collection]))
	for _, doc := range m.collections[collection] {
		docs = append(docs, models.Document{ID: doc.ID, Fields: cloneFields(doc.Fields)})
	}
	return docs
}

func cloneFields(fields map[string]any) map[string]any {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		out[k] = v
	}
	return out
}
