package store

import (
	"context"
	"fmt"
	"sort"

	"github.com/lucsky/cuid"
	"github.com/pkg/errors"

	"github.com/preplate/preplate/internal/models"
)

// newDocID assigns a store-generated document id when the caller did not
// bring one (poll items; orders arrive with client-side ids).
func newDocID() string {
	return cuid.New()
}

// ErrNotFound is returned when an update or delete targets a document that
// does not exist in the collection.
var ErrNotFound = errors.New("document not found")

// ErrClosed is returned for writes issued after the store was shut down.
var ErrClosed = errors.New("store is closed")

// WriteError marks a store write that was rejected or never reached the
// backend. Callers treat it as non-fatal and keep their optimistic state.
type WriteError struct {
	Collection string
	ID         string
	Err        error
}

func (e *WriteError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("write to %s failed: %v", e.Collection, e.Err)
	}
	return fmt.Sprintf("write to %s/%s failed: %v", e.Collection, e.ID, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// Patch is a partial update merged into a stored document.
type Patch map[string]any

// Snapshot is one emission of a subscription: the entire visible contents of
// a collection, never a diff. Consumers replace their projection wholesale.
type Snapshot struct {
	Collection string
	Docs       []models.Document
}

// Store is the shared state store adapter. Implementations push a full
// Snapshot to every subscriber of a collection after each mutation.
//
// Increment applies an atomic server-side add to a numeric field; it exists
// so that concurrent voters cannot lose updates the way a read-then-write of
// an absolute count would.
type Store interface {
	Subscribe(ctx context.Context, collection, orderBy string) (*Subscription, error)
	Create(ctx context.Context, collection string, doc models.Document) (string, error)
	Update(ctx context.Context, collection, id string, patch Patch) error
	Increment(ctx context.Context, collection, id, field string, delta int64) error
	Delete(ctx context.Context, collection, id string) error
	Close() error
}

// sortDocs orders a snapshot by the given field, descending. RFC3339
// timestamps sort correctly as strings. Documents missing the field sink to
// the end.
func sortDocs(docs []models.Document, orderBy string) {
	if orderBy == "" {
		sort.SliceStable(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
		return
	}
	sort.SliceStable(docs, func(i, j int) bool {
		return fieldLess(docs[j].Fields[orderBy], docs[i].Fields[orderBy])
	})
}

func fieldLess(a, b any) bool {
	if a == nil {
		return b != nil
	}
	if b == nil {
		return false
	}
	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		return ok && av < bv
	default:
		af, aok := toFloat(a)
		bf, bok := toFloat(b)
		if !aok {
			return bok
		}
		return bok && af < bf
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
