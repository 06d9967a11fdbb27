package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"storefront-bot/internal/stories/products"
)

const (
	bundlesTable      = "bundles"
	bundleImagesTable = "bundle_images"
	bundleVideosTable = "bundle_videos"
)

var bundleRowFields = fields(bundleRow{})

type bundleRow struct {
	ID          string    `db:"id"`
	Name        string    `db:"name"`
	Price       float64   `db:"price"`
	Description string    `db:"description"`
	Image       string    `db:"image"`
	Exclusive   bool      `db:"exclusive"`
	IsActive    bool      `db:"is_active"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (b bundleRow) ToModel() *products.Bundle {
	return &products.Bundle{
		ID:          b.ID,
		Name:        b.Name,
		Price:       b.Price,
		Description: b.Description,
		Image:       b.Image,
		Exclusive:   b.Exclusive,
		IsActive:    b.IsActive,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

func (s *storageImpl) CreateBundle(ctx context.Context, bundle products.Bundle) (*products.Bundle, error) {
	if bundle.ID == "" {
		bundle.ID = uuid.NewString()
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("db.BeginTxx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	params := map[string]interface{}{
		"id":          bundle.ID,
		"name":        bundle.Name,
		"price":       bundle.Price,
		"description": bundle.Description,
		"image":       bundle.Image,
		"exclusive":   bundle.Exclusive,
		"is_active":   bundle.IsActive,
		"created_at":  s.now(),
		"updated_at":  s.now(),
	}

	q, args, err := s.stmpBuilder().
		Insert(bundlesTable).
		SetMap(params).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build sql query: %w", err)
	}

	if _, err := tx.ExecContext(ctx, q, args...); err != nil {
		return nil, fmt.Errorf("tx.ExecContext: %w", err)
	}

	if err := s.insertBundleMedia(ctx, tx, bundleImagesTable, bundle.ID, bundle.Images); err != nil {
		return nil, err
	}
	if err := s.insertBundleMedia(ctx, tx, bundleVideosTable, bundle.ID, bundle.Videos); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("tx.Commit: %w", err)
	}

	return s.GetBundle(ctx, products.GetCriteria{ID: &bundle.ID})
}

func (s *storageImpl) insertBundleMedia(ctx context.Context, tx *sqlx.Tx, table, bundleID string, urls []string) error {
	for i, url := range urls {
		q, args, err := s.stmpBuilder().
			Insert(table).
			SetMap(map[string]interface{}{
				"bundle_id": bundleID,
				"url":       url,
				"position":  i,
			}).
			ToSql()
		if err != nil {
			return fmt.Errorf("build sql query: %w", err)
		}

		if _, err := tx.ExecContext(ctx, q, args...); err != nil {
			return fmt.Errorf("tx.ExecContext: %w", err)
		}
	}
	return nil
}

func (s *storageImpl) GetBundle(ctx context.Context, criteria products.GetCriteria) (*products.Bundle, error) {
	query := s.stmpBuilder().
		Select(bundleRowFields).
		From(bundlesTable).
		Limit(1)

	if criteria.ID != nil {
		query = query.Where(sq.Eq{"id": *criteria.ID})
	}

	q, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build sql query: %w", err)
	}

	var row bundleRow
	err = s.db.GetContext(ctx, &row, q, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("db.GetContext: %w", err)
	}

	bundle := row.ToModel()

	bundle.Images, err = s.bundleMedia(ctx, bundleImagesTable, bundle.ID)
	if err != nil {
		return nil, err
	}
	bundle.Videos, err = s.bundleMedia(ctx, bundleVideosTable, bundle.ID)
	if err != nil {
		return nil, err
	}

	return bundle, nil
}

func (s *storageImpl) bundleMedia(ctx context.Context, table, bundleID string) ([]string, error) {
	q, args, err := s.stmpBuilder().
		Select("url").
		From(table).
		Where(sq.Eq{"bundle_id": bundleID}).
		OrderBy("position ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build sql query: %w", err)
	}

	var urls []string
	if err := s.db.SelectContext(ctx, &urls, q, args...); err != nil {
		return nil, fmt.Errorf("db.SelectContext: %w", err)
	}

	return urls, nil
}

func (s *storageImpl) UpdateBundle(ctx context.Context, criteria products.GetCriteria, params products.BundleUpdateParams) (*products.Bundle, error) {
	query := s.stmpBuilder().
		Update(bundlesTable).
		Set("updated_at", s.now())

	if criteria.ID != nil {
		query = query.Where(sq.Eq{"id": *criteria.ID})
	}

	if params.Name != nil {
		query = query.Set("name", *params.Name)
	}
	if params.Price != nil {
		query = query.Set("price", *params.Price)
	}
	if params.Description != nil {
		query = query.Set("description", *params.Description)
	}
	if params.Image != nil {
		query = query.Set("image", *params.Image)
	}
	if params.Exclusive != nil {
		query = query.Set("exclusive", *params.Exclusive)
	}
	if params.IsActive != nil {
		query = query.Set("is_active", *params.IsActive)
	}

	q, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build sql query: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
		return nil, fmt.Errorf("db.ExecContext: %w", err)
	}

	return s.GetBundle(ctx, criteria)
}

func (s *storageImpl) ListBundles(ctx context.Context, criteria products.ListCriteria) ([]*products.Bundle, error) {
	query := s.stmpBuilder().
		Select(bundleRowFields).
		From(bundlesTable).
		OrderBy("created_at DESC")

	if criteria.IsActive != nil {
		query = query.Where(sq.Eq{"is_active": *criteria.IsActive})
	}
	if criteria.Limit > 0 {
		query = query.Limit(uint64(criteria.Limit))
	}
	if criteria.Offset > 0 {
		query = query.Offset(uint64(criteria.Offset))
	}

	q, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build sql query: %w", err)
	}

	var rows []bundleRow
	if err := s.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, fmt.Errorf("db.SelectContext: %w", err)
	}

	result := make([]*products.Bundle, 0, len(rows))
	for _, row := range rows {
		bundle := row.ToModel()

		bundle.Images, err = s.bundleMedia(ctx, bundleImagesTable, bundle.ID)
		if err != nil {
			return nil, err
		}
		bundle.Videos, err = s.bundleMedia(ctx, bundleVideosTable, bundle.ID)
		if err != nil {
			return nil, err
		}

		result = append(result, bundle)
	}

	return result, nil
}

func (s *storageImpl) DeleteBundle(ctx context.Context, criteria products.GetCriteria) error {
	query := s.stmpBuilder().Delete(bundlesTable)

	if criteria.ID != nil {
		query = query.Where(sq.Eq{"id": *criteria.ID})
	}

	q, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("build sql query: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("db.ExecContext: %w", err)
	}

	return nil
}
