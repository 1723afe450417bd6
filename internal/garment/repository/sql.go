package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/fekuna/omnipos-uniform-service/internal/garment/dto"
	"github.com/fekuna/omnipos-uniform-service/internal/model"
	"github.com/jmoiron/sqlx"
)

type SQLRepository struct {
	DB *sqlx.DB
}

func NewSQLRepository(db *sqlx.DB) *SQLRepository {
	return &SQLRepository{DB: db}
}

func (r *SQLRepository) Create(ctx context.Context, g *model.Garment) error {
	query := `
        INSERT INTO garments (id, name, description, is_active, created_at, updated_at)
        VALUES (:id, :name, :description, :is_active, :created_at, :updated_at)
    `
	_, err := r.DB.NamedExecContext(ctx, query, g)
	return err
}

func (r *SQLRepository) FindByID(ctx context.Context, id string) (*model.Garment, error) {
	var g model.Garment
	query := r.DB.Rebind(`SELECT id, name, description, is_active, created_at, updated_at FROM garments WHERE id = ? LIMIT 1`)
	err := r.DB.GetContext(ctx, &g, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &g, nil
}

func (r *SQLRepository) FindAll(ctx context.Context, f *dto.GarmentFilters) ([]model.Garment, int, error) {
	var garments []model.Garment
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.IsActive != nil {
		conditions = append(conditions, "is_active = :is_active")
		args["is_active"] = *f.IsActive
	}
	if f.SearchQuery != "" {
		// LOWER/LIKE rather than ILIKE so the query runs on MySQL too
		conditions = append(conditions, "(LOWER(name) LIKE :search OR LOWER(description) LIKE :search)")
		args["search"] = "%" + strings.ToLower(f.SearchQuery) + "%"
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	rows, err := r.DB.NamedQueryContext(ctx, "SELECT count(*) FROM garments"+whereClause, args)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	if rows.Next() {
		if err := rows.Scan(&count); err != nil {
			return nil, 0, err
		}
	}

	query := "SELECT id, name, description, is_active, created_at, updated_at FROM garments" + whereClause + " ORDER BY name ASC"
	if f.PageSize > 0 {
		page := f.Page
		if page < 1 {
			page = 1
		}
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, (page-1)*f.PageSize)
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer nstmt.Close()

	err = nstmt.SelectContext(ctx, &garments, args)
	if err != nil {
		return nil, 0, err
	}
	return garments, count, nil
}

func (r *SQLRepository) Update(ctx context.Context, g *model.Garment) error {
	query := `
        UPDATE garments
        SET name = :name,
            description = :description,
            is_active = :is_active,
            updated_at = :updated_at
        WHERE id = :id
    `
	_, err := r.DB.NamedExecContext(ctx, query, g)
	return err
}
