package leave

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newGormOverMock(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gdb, err := gorm.Open(
		postgres.New(postgres.Config{Conn: db, PreferSimpleProtocol: true}),
		&gorm.Config{SkipDefaultTransaction: true},
	)
	assert.NoError(t, err)
	return gdb, mock
}

func TestRepository_WithTx_RunsOnBoundTransaction(t *testing.T) {
	gdb, poolMock := newGormOverMock(t)

	txDB, txMock, err := sqlmock.New()
	assert.NoError(t, err)
	defer txDB.Close()

	txMock.ExpectBegin()
	txMock.ExpectExec(`UPDATE "leaves" SET`).WillReturnResult(sqlmock.NewResult(0, 1))
	txMock.ExpectExec(`UPDATE "identities" SET`).WillReturnResult(sqlmock.NewResult(0, 1))
	txMock.ExpectCommit()

	tx, err := txDB.Begin()
	assert.NoError(t, err)

	repo := NewRepository(gdb).WithTx(tx)

	moved, err := repo.TransitionStatus(context.Background(), uuid.New().String(), StatusPending, StatusApproved)
	assert.NoError(t, err)
	assert.True(t, moved)

	assert.NoError(t, repo.DeductOwnerBalance(context.Background(), uuid.New().String(), 3))

	assert.NoError(t, tx.Commit())

	// the status flip and the balance deduction both rode the transaction;
	// nothing leaked to the pool connection
	assert.NoError(t, txMock.ExpectationsWereMet())
	assert.NoError(t, poolMock.ExpectationsWereMet())
}

func TestRepository_WithoutTx_RunsOnPool(t *testing.T) {
	gdb, poolMock := newGormOverMock(t)

	poolMock.ExpectExec(`UPDATE "leaves" SET`).WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewRepository(gdb)

	moved, err := repo.TransitionStatus(context.Background(), uuid.New().String(), StatusPending, StatusApproved)
	assert.NoError(t, err)
	assert.False(t, moved)
	assert.NoError(t, poolMock.ExpectationsWereMet())
}
