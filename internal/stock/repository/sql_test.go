package repository

import (
	"context"
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/fekuna/omnipos-uniform-service/internal/model"
	"github.com/fekuna/omnipos-uniform-service/internal/stock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepo(t *testing.T) (*SQLRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewSQLRepository(sqlx.NewDb(db, "sqlmock")), mock
}

var shirtM = model.StockKey{GarmentID: "shirt", SizeID: "m", BranchID: "branch-a"}

func movementArgs() []driver.Value {
	args := make([]driver.Value, 13)
	for i := range args {
		args[i] = sqlmock.AnyArg()
	}
	return args
}

func TestApplyAdjustments_LocksUpdatesAndLogs(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, stock FROM costs WHERE garment_id = ? AND size_id = ? AND branch_id = ? FOR UPDATE")).
		WithArgs("shirt", "m", "branch-a").
		WillReturnRows(sqlmock.NewRows([]string{"id", "stock"}).AddRow("cost-1", 10))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE costs SET stock = stock + ?")).
		WithArgs(-4, sqlmock.AnyArg(), "cost-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO stock_movements")).
		WithArgs(movementArgs()...).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	movements, err := repo.ApplyAdjustments(context.Background(), []model.StockAdjustment{
		{Key: shirtM, Delta: -4, MovementType: model.MovementSale, ReferenceType: "order", ReferenceID: "order-1"},
	})
	require.NoError(t, err)
	require.Len(t, movements, 1)
	assert.Equal(t, 10, movements[0].QuantityBefore)
	assert.Equal(t, 6, movements[0].QuantityAfter)
	assert.Equal(t, "order-1", *movements[0].ReferenceID)
	assert.Nil(t, movements[0].CreatedBy)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyAdjustments_MissingRowRollsBack(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, stock FROM costs")).
		WithArgs("shirt", "m", "branch-a").
		WillReturnRows(sqlmock.NewRows([]string{"id", "stock"}).AddRow("cost-1", 10))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE costs SET stock = stock + ?")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO stock_movements")).
		WithArgs(movementArgs()...).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, stock FROM costs")).
		WithArgs("pants", "l", "branch-a").
		WillReturnRows(sqlmock.NewRows([]string{"id", "stock"}))
	mock.ExpectRollback()

	_, err := repo.ApplyAdjustments(context.Background(), []model.StockAdjustment{
		{Key: shirtM, Delta: -1},
		{Key: model.StockKey{GarmentID: "pants", SizeID: "l", BranchID: "branch-a"}, Delta: -1},
	})

	var adjErr *stock.AdjustmentError
	require.True(t, errors.As(err, &adjErr))
	assert.Equal(t, 1, adjErr.Index)
	assert.ErrorIs(t, err, stock.ErrCostNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetCost_NoRowsReturnsNil(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM costs WHERE garment_id = ?")).
		WithArgs("shirt", "m", "branch-a").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	cost, err := repo.GetCost(context.Background(), shirtM)
	require.NoError(t, err)
	assert.Nil(t, cost)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPagination(t *testing.T) {
	assert.Equal(t, "", pagination(1, 0))
	assert.Equal(t, " LIMIT 20 OFFSET 0", pagination(0, 20))
	assert.Equal(t, " LIMIT 20 OFFSET 40", pagination(3, 20))
}

func TestCreateCost_DuplicateKey(t *testing.T) {
	for name, dbErr := range map[string]error{
		"postgres": &pgconn.PgError{Code: "23505", ConstraintName: "costs_garment_size_branch_key"},
		"mysql":    &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"},
	} {
		t.Run(name, func(t *testing.T) {
			repo, mock := newMockRepo(t)
			mock.ExpectExec(regexp.QuoteMeta("INSERT INTO costs")).
				WillReturnError(dbErr)

			err := repo.CreateCost(context.Background(), &model.Cost{ID: "cost-1", StockKey: shirtM})
			assert.ErrorIs(t, err, stock.ErrCostExists)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestCreateCost_OtherErrorsPassThrough(t *testing.T) {
	repo, mock := newMockRepo(t)
	boom := &pgconn.PgError{Code: "23502", Message: "null value"}
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO costs")).
		WillReturnError(boom)

	err := repo.CreateCost(context.Background(), &model.Cost{ID: "cost-1", StockKey: shirtM})
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, stock.ErrCostExists)
}
