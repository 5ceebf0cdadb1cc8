package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"exposure/internal/diagnosiskeys/models"
	quarantine "exposure/internal/quarantine/models"
	"exposure/pkg/platform/sentinel"
	"exposure/pkg/platform/tx"
)

// SQLiteStore persists sessions in the device database. Batch parts follow their
// session through ON UPDATE/ON DELETE CASCADE.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLite(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) InsertSession(ctx context.Context, session *models.Session) error {
	return tx.Run(ctx, s.db, func(ctx context.Context) error {
		_, err := tx.Exec(ctx, s.db).ExecContext(ctx, `
			INSERT INTO diagnosis_key_sessions (token, warning_type, processing_phase, first_yellow_day, created_at)
			VALUES (?, ?, ?, ?, ?)`,
			session.Token, string(session.WarningType), string(session.ProcessingPhase),
			formatTime(session.FirstYellowDay), session.CreatedAt.UTC().Format(time.RFC3339Nano),
		)
		if err != nil {
			if isUniqueViolation(err) {
				return sentinel.ErrConflict
			}
			return fmt.Errorf("insert session: %w", err)
		}
		return s.insertParts(ctx, session)
	})
}

func (s *SQLiteStore) GetSession(ctx context.Context, token string) (*models.Session, error) {
	var out *models.Session
	err := tx.Run(ctx, s.db, func(ctx context.Context) error {
		exec := tx.Exec(ctx, s.db)
		var (
			session                 models.Session
			warning, phase, created string
			firstYellow             sql.NullString
		)
		err := exec.QueryRowContext(ctx, `
			SELECT token, warning_type, processing_phase, first_yellow_day, created_at
			FROM diagnosis_key_sessions
			WHERE token = ?`, token,
		).Scan(&session.Token, &warning, &phase, &firstYellow, &created)
		if errors.Is(err, sql.ErrNoRows) {
			return sentinel.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get session: %w", err)
		}
		session.WarningType = quarantine.WarningType(warning)
		session.ProcessingPhase = models.ProcessingPhase(phase)
		if session.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
			return fmt.Errorf("decode session created_at: %w", err)
		}
		if firstYellow.Valid {
			t, err := time.Parse(time.RFC3339Nano, firstYellow.String)
			if err != nil {
				return fmt.Errorf("decode first_yellow_day: %w", err)
			}
			session.FirstYellowDay = &t
		}

		rows, err := exec.QueryContext(ctx, `
			SELECT batch_type, batch_number, interval_start, file_name, processed
			FROM diagnosis_key_batch_parts
			WHERE session_token = ?
			ORDER BY batch_type, position`, token)
		if err != nil {
			return fmt.Errorf("get batch parts: %w", err)
		}
		defer rows.Close()
		for rows.Next() {
			var (
				batchType string
				part      models.BatchPart
			)
			if err := rows.Scan(&batchType, &part.BatchNumber, &part.IntervalStart, &part.FileName, &part.Processed); err != nil {
				return fmt.Errorf("scan batch part: %w", err)
			}
			switch models.BatchType(batchType) {
			case models.BatchFull:
				session.FullBatchParts = append(session.FullBatchParts, part)
			case models.BatchDaily:
				session.DailyBatchesParts = append(session.DailyBatchesParts, part)
			}
		}
		if err := rows.Err(); err != nil {
			return fmt.Errorf("iterate batch parts: %w", err)
		}
		out = &session
		return nil
	})
	return out, err
}

// UpdateSession rewrites the session stored under oldToken, which may carry a new token.
func (s *SQLiteStore) UpdateSession(ctx context.Context, oldToken string, session *models.Session) error {
	return tx.Run(ctx, s.db, func(ctx context.Context) error {
		res, err := tx.Exec(ctx, s.db).ExecContext(ctx, `
			UPDATE diagnosis_key_sessions
			SET token = ?, warning_type = ?, processing_phase = ?, first_yellow_day = ?
			WHERE token = ?`,
			session.Token, string(session.WarningType), string(session.ProcessingPhase),
			formatTime(session.FirstYellowDay), oldToken,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return sentinel.ErrConflict
			}
			return fmt.Errorf("update session: %w", err)
		}
		if n, err := res.RowsAffected(); err != nil {
			return fmt.Errorf("update session rows affected: %w", err)
		} else if n == 0 {
			return sentinel.ErrNotFound
		}

		if _, err := tx.Exec(ctx, s.db).ExecContext(ctx,
			`DELETE FROM diagnosis_key_batch_parts WHERE session_token = ?`, session.Token); err != nil {
			return fmt.Errorf("replace batch parts: %w", err)
		}
		return s.insertParts(ctx, session)
	})
}

func (s *SQLiteStore) DeleteSession(ctx context.Context, token string) error {
	if _, err := tx.Exec(ctx, s.db).ExecContext(ctx,
		`DELETE FROM diagnosis_key_sessions WHERE token = ?`, token); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *SQLiteStore) ListSessions(ctx context.Context) ([]*models.Session, error) {
	rows, err := tx.Exec(ctx, s.db).QueryContext(ctx,
		`SELECT token FROM diagnosis_key_sessions ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	var tokens []string
	for rows.Next() {
		var token string
		if err := rows.Scan(&token); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan session token: %w", err)
		}
		tokens = append(tokens, token)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}

	out := make([]*models.Session, 0, len(tokens))
	for _, token := range tokens {
		session, err := s.GetSession(ctx, token)
		if err != nil {
			return nil, err
		}
		out = append(out, session)
	}
	return out, nil
}

func (s *SQLiteStore) InsertScheduledSession(ctx context.Context, token string, at time.Time) error {
	_, err := tx.Exec(ctx, s.db).ExecContext(ctx, `
		INSERT INTO diagnosis_key_scheduled_sessions (token, created_at) VALUES (?, ?)
		ON CONFLICT (token) DO UPDATE SET created_at = excluded.created_at`,
		token, at.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("insert scheduled session: %w", err)
	}
	return nil
}

func (s *SQLiteStore) ScheduledSessionExists(ctx context.Context, token string) (bool, error) {
	var n int
	err := tx.Exec(ctx, s.db).QueryRowContext(ctx,
		`SELECT COUNT(*) FROM diagnosis_key_scheduled_sessions WHERE token = ?`, token).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("check scheduled session: %w", err)
	}
	return n > 0, nil
}

// DeleteScheduledSession removes the marker and reports how many rows went away.
// Callers use a zero count to detect that someone else already claimed the token.
func (s *SQLiteStore) DeleteScheduledSession(ctx context.Context, token string) (int64, error) {
	res, err := tx.Exec(ctx, s.db).ExecContext(ctx,
		`DELETE FROM diagnosis_key_scheduled_sessions WHERE token = ?`, token)
	if err != nil {
		return 0, fmt.Errorf("delete scheduled session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete scheduled session rows affected: %w", err)
	}
	return n, nil
}

func (s *SQLiteStore) insertParts(ctx context.Context, session *models.Session) error {
	groups := []struct {
		batchType models.BatchType
		parts     []models.BatchPart
	}{
		{models.BatchFull, session.FullBatchParts},
		{models.BatchDaily, session.DailyBatchesParts},
	}
	for _, g := range groups {
		for i, p := range g.parts {
			_, err := tx.Exec(ctx, s.db).ExecContext(ctx, `
				INSERT INTO diagnosis_key_batch_parts
					(session_token, batch_type, position, batch_number, interval_start, file_name, processed)
				VALUES (?, ?, ?, ?, ?, ?, ?)`,
				session.Token, string(g.batchType), i, p.BatchNumber, p.IntervalStart, p.FileName, p.Processed,
			)
			if err != nil {
				return fmt.Errorf("insert batch part: %w", err)
			}
		}
	}
	return nil
}

func formatTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
