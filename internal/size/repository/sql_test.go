package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/fekuna/omnipos-uniform-service/internal/model"
	"github.com/fekuna/omnipos-uniform-service/internal/size/dto"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindAll_OrdersByDisplayOrder(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewSQLRepository(sqlx.NewDb(db, "sqlmock"))
	now := time.Now()
	active := true

	mock.ExpectQuery(regexp.QuoteMeta("SELECT count(*) FROM sizes WHERE is_active = ?")).
		WithArgs(true).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY display_order ASC, name ASC")).
		WithArgs(true).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "display_order", "is_active", "created_at", "updated_at"}).
			AddRow("s-1", "S", 1, true, now, now).
			AddRow("s-2", "M", 2, true, now, now))

	sizes, count, err := repo.FindAll(context.Background(), &dto.SizeFilters{IsActive: &active})
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	require.Len(t, sizes, 2)
	assert.Equal(t, "S", sizes[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewSQLRepository(sqlx.NewDb(db, "sqlmock"))

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO sizes")).
		WithArgs(sqlmock.AnyArg(), "XL", 5, true, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	s := newSize("XL", 5)
	require.NoError(t, repo.Create(context.Background(), s))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func newSize(name string, order int) *model.Size {
	now := time.Now()
	return &model.Size{
		BaseModel:    model.BaseModel{ID: "s-" + name, CreatedAt: now, UpdatedAt: now},
		Name:         name,
		DisplayOrder: order,
		IsActive:     true,
	}
}
