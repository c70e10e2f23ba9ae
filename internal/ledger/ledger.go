package ledger

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/preplate/preplate/internal/models"
)

const schema = `
CREATE TABLE IF NOT EXISTS voted_polls (
    item_id  TEXT PRIMARY KEY,
    voted_at TEXT NOT NULL DEFAULT (datetime('now'))
);
CREATE TABLE IF NOT EXISTS profile (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
`

// Ledger is the device-local durable record: which poll items this identity
// has already voted on, plus the cached student profile. It survives
// restarts; it is not synchronized across devices.
type Ledger struct {
	db *sqlx.DB
}

// Open opens (and if needed creates) the ledger database at path.
func Open(path string) (*Ledger, error) {
	db, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return nil, errors.Wrap(err, "opening ledger database")
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "creating ledger tables")
	}
	return &Ledger{db: db}, nil
}

func (l *Ledger) Close() error {
	return l.db.Close()
}

// HasVoted reports whether the item id is already in the voted-set. Once
// true it stays true for the lifetime of the ledger file.
func (l *Ledger) HasVoted(itemID string) (bool, error) {
	var id string
	err := l.db.Get(&id, `SELECT item_id FROM voted_polls WHERE item_id = ?`, itemID)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrap(err, "reading voted set")
	}
	return true, nil
}

// MarkVoted durably adds the item id to the voted-set.
func (l *Ledger) MarkVoted(itemID string) error {
	_, err := l.db.Exec(`INSERT OR IGNORE INTO voted_polls (item_id) VALUES (?)`, itemID)
	return errors.Wrap(err, "writing voted set")
}

// VotedItems returns every poll item id this device has voted on.
func (l *Ledger) VotedItems() ([]string, error) {
	var ids []string
	if err := l.db.Select(&ids, `SELECT item_id FROM voted_polls ORDER BY item_id`); err != nil {
		return nil, errors.Wrap(err, "listing voted set")
	}
	return ids, nil
}

// SaveProfile persists the student identity for reuse across sessions.
func (l *Ledger) SaveProfile(identity models.Identity) error {
	tx, err := l.db.Beginx()
	if err != nil {
		return errors.Wrap(err, "saving profile")
	}
	defer tx.Rollback()

	for key, value := range map[string]string{
		"name":       identity.Name,
		"student_id": identity.StudentID,
		"email":      identity.Email,
	} {
		if _, err := tx.Exec(
			`INSERT INTO profile (key, value) VALUES (?, ?)
             ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
			key, value,
		); err != nil {
			return errors.Wrap(err, "saving profile")
		}
	}
	return tx.Commit()
}

// LoadProfile returns the cached identity; ok is false when none was saved.
func (l *Ledger) LoadProfile() (identity models.Identity, ok bool, err error) {
	rows, err := l.db.Queryx(`SELECT key, value FROM profile`)
	if err != nil {
		return models.Identity{}, false, errors.Wrap(err, "loading profile")
	}
	defer rows.Close()

	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return models.Identity{}, false, errors.Wrap(err, "loading profile")
		}
		switch key {
		case "name":
			identity.Name = value
		case "student_id":
			identity.StudentID = value
		case "email":
			identity.Email = value
		}
		ok = true
	}
	return identity, ok, rows.Err()
}
