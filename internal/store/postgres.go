package store

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"

	"github.com/preplate/preplate/internal/models"
	"github.com/preplate/preplate/pkg/logging"
)

const (
	notifyChannel = "preplate_changes"

	documentsSchema = `
        CREATE TABLE IF NOT EXISTS documents (
            collection  text        NOT NULL,
            id          text        NOT NULL,
            doc         jsonb       NOT NULL,
            created_at  timestamptz NOT NULL DEFAULT now(),
            updated_at  timestamptz NOT NULL DEFAULT now(),
            PRIMARY KEY (collection, id)
        )
    `
)

// PostgresStore realizes the shared state store on a single jsonb documents
// table. Writers pg_notify the collection name; a dedicated listening
// connection re-reads the full collection per notification and fans the
// snapshot out, which preserves the total-snapshot contract across every
// connected client process.
type PostgresStore struct {
	pool   *pgxpool.Pool
	hub    *hub
	cancel context.CancelFunc
	done   chan struct{}
}

func NewPostgresStore(ctx context.Context, connString string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, errors.Wrap(err, "connecting to postgres")
	}
	if _, err := pool.Exec(ctx, documentsSchema); err != nil {
		pool.Close()
		return nil, errors.Wrap(err, "creating documents table")
	}

	listenCtx, cancel := context.WithCancel(context.Background())
	p := &PostgresStore{
		pool:   pool,
		hub:    newHub(),
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go p.listen(listenCtx)
	return p, nil
}

func (p *PostgresStore) listen(ctx context.Context) {
	logger := logging.GetLogger()
	defer close(p.done)

	conn, err := p.pool.Acquire(ctx)
	if err != nil {
		logger.Errorf("change listener could not acquire a connection: %v", err)
		return
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "LISTEN "+notifyChannel); err != nil {
		logger.Errorf("change listener could not LISTEN: %v", err)
		return
	}

	for {
		notification, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Warnf("change listener interrupted: %v", err)
			return
		}
		collection := notification.Payload
		docs, err := p.collectionDocs(ctx, collection)
		if err != nil {
			logger.Warnf("could not load %s after change notification: %v", collection, err)
			continue
		}
		p.hub.broadcast(collection, docs)
	}
}

func (p *PostgresStore) Subscribe(ctx context.Context, collection, orderBy string) (*Subscription, error) {
	sub := newSubscription(collection, orderBy, p.hub.remove)
	p.hub.add(sub)

	docs, err := p.collectionDocs(ctx, collection)
	if err != nil {
		sub.Unsubscribe()
		return nil, errors.Wrapf(err, "initial snapshot of %s", collection)
	}
	p.hub.send(sub, docs)

	if ctx.Done() != nil {
		go func() {
			<-ctx.Done()
			sub.Unsubscribe()
		}()
	}
	return sub, nil
}

func (p *PostgresStore) Create(ctx context.Context, collection string, doc models.Document) (string, error) {
	id := doc.ID
	if id == "" {
		id = newDocID()
	}
	payload, err := json.Marshal(doc.Fields)
	if err != nil {
		return "", &WriteError{Collection: collection, ID: id, Err: err}
	}
	// create-with-fixed-id doubles as a full replace, matching the memory
	// backend
	_, err = p.pool.Exec(ctx,
		`INSERT INTO documents (collection, id, doc) VALUES ($1, $2, $3)
         ON CONFLICT (collection, id) DO UPDATE SET doc = EXCLUDED.doc, updated_at = now()`,
		collection, id, payload,
	)
	if err != nil {
		return "", &WriteError{Collection: collection, ID: id, Err: err}
	}
	p.notify(ctx, collection)
	return id, nil
}

func (p *PostgresStore) Update(ctx context.Context, collection, id string, patch Patch) error {
	payload, err := json.Marshal(map[string]any(patch))
	if err != nil {
		return &WriteError{Collection: collection, ID: id, Err: err}
	}
	tag, err := p.pool.Exec(ctx,
		`UPDATE documents SET doc = doc || $3, updated_at = now()
         WHERE collection = $1 AND id = $2`,
		collection, id, payload,
	)
	if err != nil {
		return &WriteError{Collection: collection, ID: id, Err: err}
	}
	if tag.RowsAffected() == 0 {
		return &WriteError{Collection: collection, ID: id, Err: ErrNotFound}
	}
	p.notify(ctx, collection)
	return nil
}

func (p *PostgresStore) Increment(ctx context.Context, collection, id, field string, delta int64) error {
	tag, err := p.pool.Exec(ctx,
		`UPDATE documents
         SET doc = jsonb_set(doc, ARRAY[$3], to_jsonb(COALESCE((doc ->> $3)::bigint, 0) + $4)),
             updated_at = now()
         WHERE collection = $1 AND id = $2`,
		collection, id, field, delta,
	)
	if err != nil {
		return &WriteError{Collection: collection, ID: id, Err: err}
	}
	if tag.RowsAffected() == 0 {
		return &WriteError{Collection: collection, ID: id, Err: ErrNotFound}
	}
	p.notify(ctx, collection)
	return nil
}

func (p *PostgresStore) Delete(ctx context.Context, collection, id string) error {
	tag, err := p.pool.Exec(ctx,
		`DELETE FROM documents WHERE collection = $1 AND id = $2`,
		collection, id,
	)
	if err != nil {
		return &WriteError{Collection: collection, ID: id, Err: err}
	}
	if tag.RowsAffected() == 0 {
		return &WriteError{Collection: collection, ID: id, Err: ErrNotFound}
	}
	p.notify(ctx, collection)
	return nil
}

func (p *PostgresStore) Close() error {
	p.cancel()
	<-p.done
	p.pool.Close()
	return nil
}

func (p *PostgresStore) notify(ctx context.Context, collection string) {
	if _, err := p.pool.Exec(ctx, `SELECT pg_notify($1, $2)`, notifyChannel, collection); err != nil {
		logging.GetLogger().Warnf("change notification for %s failed: %v", collection, err)
	}
}

func (p *PostgresStore) collectionDocs(ctx context.Context, collection string) ([]models.Document, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT id, doc FROM documents WHERE collection = $1`,
		collection,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []models.Document
	for rows.Next() {
		var (
			id      string
			payload []byte
		)
		if err := rows.Scan(&id, &payload); err != nil {
			return nil, err
		}
		fields := make(map[string]any)
		if err := json.Unmarshal(payload, &fields); err != nil {
			return nil, err
		}
		docs = append(docs, models.Document{ID: id, Fields: fields})
	}
	return docs, rows.Err()
}
