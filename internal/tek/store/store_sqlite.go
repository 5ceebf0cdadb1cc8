package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"exposure/internal/tek/models"
	"exposure/pkg/platform/tx"
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLite(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) Add(ctx context.Context, keys ...models.SentKey) error {
	return tx.Run(ctx, s.db, func(ctx context.Context) error {
		exec := tx.Exec(ctx, s.db)
		for _, k := range keys {
			_, err := exec.ExecContext(ctx, `
				INSERT INTO sent_temporary_exposure_keys (rolling_start_interval_number, password, message_type, created_at)
				VALUES (?, ?, ?, ?)
				ON CONFLICT (rolling_start_interval_number, message_type)
				DO UPDATE SET password = excluded.password, created_at = excluded.created_at`,
				k.RollingStartIntervalNumber, k.Password, string(k.MessageType), k.CreatedAt.UTC().Format(time.RFC3339Nano),
			)
			if err != nil {
				return fmt.Errorf("insert sent key: %w", err)
			}
		}
		return nil
	})
}

func (s *SQLiteStore) ListByMessageType(ctx context.Context, mt models.MessageType) ([]models.SentKey, error) {
	rows, err := tx.Exec(ctx, s.db).QueryContext(ctx, `
		SELECT rolling_start_interval_number, password, message_type, created_at
		FROM sent_temporary_exposure_keys
		WHERE message_type = ?
		ORDER BY rolling_start_interval_number`, string(mt))
	if err != nil {
		return nil, fmt.Errorf("list sent keys: %w", err)
	}
	defer rows.Close()

	out := make([]models.SentKey, 0)
	for rows.Next() {
		var (
			k           models.SentKey
			messageType string
			created     string
		)
		if err := rows.Scan(&k.RollingStartIntervalNumber, &k.Password, &messageType, &created); err != nil {
			return nil, fmt.Errorf("scan sent key: %w", err)
		}
		k.MessageType = models.MessageType(messageType)
		if k.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
			return nil, fmt.Errorf("parse sent key created_at: %w", err)
		}
		out = append(out, k)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sent keys: %w", err)
	}
	return out, nil
}

func (s *SQLiteStore) RemoveOlderThan(ctx context.Context, mt models.MessageType, interval int64) (int64, error) {
	res, err := tx.Exec(ctx, s.db).ExecContext(ctx, `
		DELETE FROM sent_temporary_exposure_keys
		WHERE message_type = ? AND rolling_start_interval_number < ?`, string(mt), interval)
	if err != nil {
		return 0, fmt.Errorf("remove sent keys: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("remove sent keys: %w", err)
	}
	return n, nil
}
