package postgresql

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// brokenRows simulates a result set whose iteration aborts mid-stream, the
// way a dropped connection or cancelled query surfaces through pgx.
type brokenRows struct {
	pgx.Rows
	err error
}

func (r brokenRows) Next() bool { return false }
func (r brokenRows) Err() error { return r.err }
func (r brokenRows) Close()     {}

type stubRow struct{}

func (stubRow) Scan(_ ...any) error { return nil }

// stubTx rides the transaction seam GetQuerier exposes, so repositories can
// be pointed at canned results without a database.
type stubTx struct {
	pgx.Tx
	rows pgx.Rows
}

func (t stubTx) Query(_ context.Context, _ string, _ ...any) (pgx.Rows, error) {
	return t.rows, nil
}

func (t stubTx) QueryRow(_ context.Context, _ string, _ ...any) pgx.Row {
	return stubRow{}
}

func TestListQueriesSurfaceRowIterationErrors(t *testing.T) {
	iterErr := errors.New("connection reset during iteration")
	ctx := context.WithValue(context.Background(), "tx", stubTx{rows: brokenRows{err: iterErr}})
	date := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	t.Run("attendance ListByDate", func(t *testing.T) {
		_, err := NewRecordRepository(nil).ListByDate(ctx, date, nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, iterErr)
	})

	t.Run("attendance ListRange", func(t *testing.T) {
		_, err := NewRecordRepository(nil).ListRange(ctx, date, date.AddDate(0, 0, 7), nil, nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, iterErr)
	})

	t.Run("attendance ListByUser", func(t *testing.T) {
		_, _, err := NewRecordRepository(nil).ListByUser(ctx, "user-1", nil, nil, 1, 20)
		require.Error(t, err)
		assert.ErrorIs(t, err, iterErr)
	})

	t.Run("office List", func(t *testing.T) {
		_, err := NewOfficeRepository(nil).List(ctx, false)
		require.Error(t, err)
		assert.ErrorIs(t, err, iterErr)
	})

	t.Run("user ListRoster", func(t *testing.T) {
		_, err := NewUserRepository(nil).ListRoster(ctx, nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, iterErr)
	})
}
