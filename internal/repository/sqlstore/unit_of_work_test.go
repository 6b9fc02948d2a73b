package sqlstore

import (
	"context"
	"errors"
	"testing"

	"userregistry/internal/database"
	"userregistry/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnitOfWork_Lifecycle(t *testing.T) {
	ctx := context.Background()

	t.Run("begin twice", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectRollback()

		uow := NewUnitOfWork(db, database.Postgres)
		require.NoError(t, uow.Begin(ctx))
		assert.ErrorIs(t, uow.Begin(ctx), repository.ErrTransactionActive)
		assert.NoError(t, uow.Rollback(ctx))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("begin error", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin().WillReturnError(errors.New("too many connections"))

		uow := NewUnitOfWork(db, database.Postgres)
		err = uow.Begin(ctx)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "begin transaction: too many connections")
		assert.ErrorIs(t, uow.Commit(ctx), repository.ErrNoTransaction)
	})

	t.Run("commit without begin", func(t *testing.T) {
		db, _, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		assert.ErrorIs(t, NewUnitOfWork(db, database.Postgres).Commit(ctx), repository.ErrNoTransaction)
	})

	t.Run("rollback is safe to repeat", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectRollback()

		uow := NewUnitOfWork(db, database.Postgres)
		assert.NoError(t, uow.Rollback(ctx))
		require.NoError(t, uow.Begin(ctx))
		assert.NoError(t, uow.Rollback(ctx))
		assert.NoError(t, uow.Rollback(ctx))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rollback after commit is a no-op", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectCommit()

		uow := NewUnitOfWork(db, database.Postgres)
		require.NoError(t, uow.Begin(ctx))
		require.NoError(t, uow.Commit(ctx))
		assert.NoError(t, uow.Rollback(ctx))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rollback error", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectRollback().WillReturnError(errors.New("connection reset"))

		uow := NewUnitOfWork(db, database.Postgres)
		require.NoError(t, uow.Begin(ctx))
		err = uow.Rollback(ctx)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "rollback transaction")
	})

	t.Run("unit can be reused after commit", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectCommit()
		mock.ExpectBegin()
		mock.ExpectCommit()

		uow := NewUnitOfWork(db, database.Postgres)
		for i := 0; i < 2; i++ {
			require.NoError(t, uow.Begin(ctx))
			require.NoError(t, uow.Commit(ctx))
		}
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUnitOfWork_CommitDuplicate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	mock.ExpectBegin()
	mock.ExpectCommit().WillReturnError(&pgconn.PgError{Code: "23505"})

	uow := NewUnitOfWork(db, database.Postgres)
	require.NoError(t, uow.Begin(ctx))
	err = uow.Commit(ctx)

	assert.ErrorIs(t, err, repository.ErrDuplicateKey)
	assert.Contains(t, err.Error(), "commit transaction")
	assert.NoError(t, uow.Rollback(ctx))
}

func TestFactory(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	newUoW := Factory(db, database.SQLite)
	a, b := newUoW(), newUoW()

	assert.IsType(t, &UnitOfWork{}, a)
	assert.NotSame(t, a, b)
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.True(t, isUniqueViolation(errors.New("constraint failed: UNIQUE constraint failed: users.ssn (1555)")))
	assert.False(t, isUniqueViolation(errors.New("disk I/O error")))
}
