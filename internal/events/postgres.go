package events

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/preplate/preplate/internal/models"
	"github.com/preplate/preplate/pkg/logging"
)

// PostgresOutput appends lifecycle events to per-topic tables so the history
// can be queried with plain SQL. One table per topic, created on first use.
type PostgresOutput struct {
	db      *sqlx.DB
	created map[string]bool
}

func NewPostgresOutput(cfg *models.DatabaseConfig) (*PostgresOutput, error) {
	db, err := sqlx.Connect("postgres", cfg.ConnString())
	if err != nil {
		return nil, fmt.Errorf("connecting to event database: %w", err)
	}

	logging.GetLogger().Info("Postgres event output connected")
	return &PostgresOutput{db: db, created: make(map[string]bool)}, nil
}

func (p *PostgresOutput) WriteMessage(topic string, msg []byte) error {
	if !json.Valid(msg) {
		return fmt.Errorf("event payload for topic %s is not valid JSON", topic)
	}

	table := topicToTable(topic)
	if err := p.ensureTable(table); err != nil {
		return err
	}

	query := fmt.Sprintf(
		"INSERT INTO %s (payload, recorded_at) VALUES ($1, $2)", table,
	)
	if _, err := p.db.Exec(query, string(msg), time.Now().UTC()); err != nil {
		return fmt.Errorf("inserting event into %s: %w", table, err)
	}
	return nil
}

func (p *PostgresOutput) ensureTable(table string) error {
	if p.created[table] {
		return nil
	}
	schema := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id BIGSERIAL PRIMARY KEY,
			payload JSONB NOT NULL,
			recorded_at TIMESTAMPTZ NOT NULL
		)`, table)
	if _, err := p.db.Exec(schema); err != nil {
		return fmt.Errorf("creating event table %s: %w", table, err)
	}
	p.created[table] = true
	return nil
}

func (p *PostgresOutput) Close() error {
	return p.db.Close()
}

// topicToTable maps a topic name to a safe SQL identifier.
func topicToTable(topic string) string {
	sanitized := strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '_' {
			return r
		}
		return '_'
	}, strings.ToLower(topic))
	return "events_" + sanitized
}
