package prefs

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

type sqliteBackend struct {
	db *sql.DB
}

// NewSQLite returns preferences persisted in the preferences table of db.
func NewSQLite(db *sql.DB) *Preferences {
	return newPreferences(&sqliteBackend{db: db})
}

func (b *sqliteBackend) load(ctx context.Context, key Key) (string, bool, error) {
	var v string
	err := b.db.QueryRowContext(ctx, `SELECT value FROM preferences WHERE key = ?`, string(key)).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (b *sqliteBackend) save(ctx context.Context, key Key, value string) error {
	_, err := b.db.ExecContext(ctx, `
		INSERT INTO preferences (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		string(key), value, time.Now().UTC().Format(time.RFC3339Nano))
	return err
}

func (b *sqliteBackend) remove(ctx context.Context, key Key) error {
	_, err := b.db.ExecContext(ctx, `DELETE FROM preferences WHERE key = ?`, string(key))
	return err
}
