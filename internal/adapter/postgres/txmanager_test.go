package postgres_test

import (
	"context"
	"errors"
	"testing"

	"github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/ntmanager-backend/internal/adapter/postgres"
)

func newMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

func TestRunInTx_Commit(t *testing.T) {
	t.Parallel()

	mock := newMockPool(t)
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE items`).WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	tm := postgres.NewTxManager(mock)
	err := tm.RunInTx(context.Background(), func(ctx context.Context) error {
		q := postgres.QuerierFromCtx(ctx, mock)
		_, err := q.Exec(ctx, `UPDATE items SET priority = true`)
		return err
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunInTx_RollbackOnError(t *testing.T) {
	t.Parallel()

	mock := newMockPool(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	sentinel := errors.New("business logic error")
	tm := postgres.NewTxManager(mock)
	err := tm.RunInTx(context.Background(), func(context.Context) error { return sentinel })

	assert.ErrorIs(t, err, sentinel)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunInTx_RollbackOnPanic(t *testing.T) {
	t.Parallel()

	mock := newMockPool(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	tm := postgres.NewTxManager(mock)

	defer func() {
		r := recover()
		if r != "test panic" {
			t.Fatalf("expected panic value %q, got %v", "test panic", r)
		}
		assert.NoError(t, mock.ExpectationsWereMet())
	}()

	_ = tm.RunInTx(context.Background(), func(context.Context) error {
		panic("test panic")
	})
}

func TestRunInTx_BeginError(t *testing.T) {
	t.Parallel()

	mock := newMockPool(t)
	mock.ExpectBegin().WillReturnError(errors.New("pool exhausted"))

	tm := postgres.NewTxManager(mock)
	called := false
	err := tm.RunInTx(context.Background(), func(context.Context) error {
		called = true
		return nil
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "begin transaction")
	assert.False(t, called)
}

func TestQuerierFromCtx(t *testing.T) {
	t.Parallel()

	mock := newMockPool(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	if q := postgres.QuerierFromCtx(context.Background(), mock); q != postgres.Querier(mock) {
		t.Error("outside a transaction the fallback querier should be returned")
	}

	tm := postgres.NewTxManager(mock)
	err := tm.RunInTx(context.Background(), func(ctx context.Context) error {
		if q := postgres.QuerierFromCtx(ctx, mock); q == postgres.Querier(mock) {
			t.Error("inside a transaction the tx should be returned")
		}
		return nil
	})
	require.NoError(t, err)
}
