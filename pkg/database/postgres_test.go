package database

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bailakids/registration-api/pkg/config"
)

func newMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return sqlx.NewDb(db, "sqlmock"), mock
}

func TestDSN(t *testing.T) {
	cfg := config.DatabaseConfig{Host: "db", Port: 5432, User: "baila", Password: "secret", Name: "baila_kids", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=baila password=secret dbname=baila_kids sslmode=disable", DSN(cfg))

	cfg.URL = "postgres://baila:secret@db:5432/baila_kids?sslmode=require"
	assert.Equal(t, cfg.URL, DSN(cfg))
}

func TestWithTxCommits(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE app_config").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := WithTx(context.Background(), db, nil, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(context.Background(), "UPDATE app_config SET value = 'true'")
		return err
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTxRollsBackOnError(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	boom := errors.New("boom")
	err := WithTx(context.Background(), db, nil, func(*sqlx.Tx) error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTxReplaysDeadlock(t *testing.T) {
	db, mock := newMock(t)
	deadlock := &pq.Error{Code: "40P01", Message: "deadlock detected"}
	mock.ExpectBegin()
	mock.ExpectExec("SELECT capacity").WillReturnError(deadlock)
	mock.ExpectRollback()
	mock.ExpectBegin()
	mock.ExpectExec("SELECT capacity").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	calls := 0
	err := WithTx(context.Background(), db, nil, func(tx *sqlx.Tx) error {
		calls++
		_, err := tx.ExecContext(context.Background(), "SELECT capacity FROM class_sections FOR UPDATE")
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTxGivesUpAfterRepeatedConflicts(t *testing.T) {
	db, mock := newMock(t)
	conflict := &pq.Error{Code: "40001", Message: "could not serialize access"}
	for i := 0; i < txAttempts; i++ {
		mock.ExpectBegin()
		mock.ExpectRollback()
	}

	err := WithTx(context.Background(), db, nil, func(*sqlx.Tx) error {
		return fmt.Errorf("lock section: %w", conflict)
	})
	require.Error(t, err)
	assert.True(t, Retryable(err))
	assert.Contains(t, err.Error(), "after 3 attempts")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRetryable(t *testing.T) {
	assert.True(t, Retryable(&pq.Error{Code: "40P01"}))
	assert.True(t, Retryable(fmt.Errorf("wrapped: %w", &pq.Error{Code: "40001"})))
	assert.False(t, Retryable(&pq.Error{Code: "23505"}))
	assert.False(t, Retryable(errors.New("connection reset")))
	assert.False(t, Retryable(nil))
}
