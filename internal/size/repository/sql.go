package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/fekuna/omnipos-uniform-service/internal/model"
	"github.com/fekuna/omnipos-uniform-service/internal/size/dto"
	"github.com/jmoiron/sqlx"
)

type SQLRepository struct {
	DB *sqlx.DB
}

func NewSQLRepository(db *sqlx.DB) *SQLRepository {
	return &SQLRepository{DB: db}
}

func (r *SQLRepository) Create(ctx context.Context, s *model.Size) error {
	query := `
        INSERT INTO sizes (id, name, display_order, is_active, created_at, updated_at)
        VALUES (:id, :name, :display_order, :is_active, :created_at, :updated_at)
    `
	_, err := r.DB.NamedExecContext(ctx, query, s)
	return err
}

func (r *SQLRepository) FindByID(ctx context.Context, id string) (*model.Size, error) {
	var s model.Size
	query := r.DB.Rebind(`SELECT id, name, display_order, is_active, created_at, updated_at FROM sizes WHERE id = ? LIMIT 1`)
	err := r.DB.GetContext(ctx, &s, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *SQLRepository) FindAll(ctx context.Context, f *dto.SizeFilters) ([]model.Size, int, error) {
	var sizes []model.Size
	var count int

	conditions := []string{}
	args := []interface{}{}
	if f.IsActive != nil {
		conditions = append(conditions, "is_active = ?")
		args = append(args, *f.IsActive)
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	if err := r.DB.GetContext(ctx, &count, r.DB.Rebind("SELECT count(*) FROM sizes"+whereClause), args...); err != nil {
		return nil, 0, err
	}

	query := "SELECT id, name, display_order, is_active, created_at, updated_at FROM sizes" + whereClause + " ORDER BY display_order ASC, name ASC"
	if f.PageSize > 0 {
		page := f.Page
		if page < 1 {
			page = 1
		}
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, (page-1)*f.PageSize)
	}

	if err := r.DB.SelectContext(ctx, &sizes, r.DB.Rebind(query), args...); err != nil {
		return nil, 0, err
	}
	return sizes, count, nil
}

func (r *SQLRepository) Update(ctx context.Context, s *model.Size) error {
	query := `
        UPDATE sizes
        SET name = :name,
            display_order = :display_order,
            is_active = :is_active,
            updated_at = :updated_at
        WHERE id = :id
    `
	_, err := r.DB.NamedExecContext(ctx, query, s)
	return err
}
