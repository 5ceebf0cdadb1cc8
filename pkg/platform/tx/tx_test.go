package tx

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"exposure/internal/platform/sqlite"
)

func TestRun(t *testing.T) {
	ctx := context.Background()
	db, err := sqlite.Open(ctx, filepath.Join(t.TempDir(), "tx.db"))
	require.NoError(t, err)
	defer db.Close()

	count := func() int {
		var n int
		require.NoError(t, db.QueryRowContext(ctx, `SELECT COUNT(*) FROM preferences`).Scan(&n))
		return n
	}
	insert := func(ctx context.Context, key string) error {
		_, err := Exec(ctx, db).ExecContext(ctx,
			`INSERT INTO preferences (key, value, updated_at) VALUES (?, 'v', 'now')`, key)
		return err
	}

	t.Run("commits", func(t *testing.T) {
		err := Run(ctx, db, func(ctx context.Context) error {
			_, inTx := From(ctx)
			assert.True(t, inTx)
			return insert(ctx, "a")
		})
		require.NoError(t, err)
		assert.Equal(t, 1, count())
	})

	t.Run("rolls back on error", func(t *testing.T) {
		boom := errors.New("boom")
		err := Run(ctx, db, func(ctx context.Context) error {
			require.NoError(t, insert(ctx, "b"))
			return boom
		})
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, 1, count())
	})

	t.Run("joins an outer transaction", func(t *testing.T) {
		err := Run(ctx, db, func(outer context.Context) error {
			return Run(outer, db, func(inner context.Context) error {
				return insert(inner, "c")
			})
		})
		require.NoError(t, err)
		assert.Equal(t, 2, count())
	})
}
