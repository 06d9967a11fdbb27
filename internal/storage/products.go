package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"storefront-bot/internal/stories/products"
)

const (
	productsTable      = "products"
	wishlistItemsTable = "wishlist_items"
)

var (
	productRowFields      = fields(productRow{})
	wishlistItemRowFields = fields(wishlistItemRow{})
)

type productRow struct {
	ID          string         `db:"id"`
	Name        string         `db:"name"`
	Price       float64        `db:"price"`
	Description string         `db:"description"`
	Image       string         `db:"image"`
	CategoryID  sql.NullString `db:"category_id"`
	IsActive    bool           `db:"is_active"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
}

func (p productRow) ToModel() *products.Product {
	model := &products.Product{
		ID:          p.ID,
		Name:        p.Name,
		Price:       p.Price,
		Description: p.Description,
		Image:       p.Image,
		IsActive:    p.IsActive,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if p.CategoryID.Valid {
		model.CategoryID = &p.CategoryID.String
	}
	return model
}

type wishlistItemRow struct {
	ID          string    `db:"id"`
	Name        string    `db:"name"`
	Price       float64   `db:"price"`
	Description string    `db:"description"`
	Image       string    `db:"image"`
	IsActive    bool      `db:"is_active"`
	CreatedAt   time.Time `db:"created_at"`
}

func (w wishlistItemRow) ToModel() *products.WishlistItem {
	return &products.WishlistItem{
		ID:          w.ID,
		Name:        w.Name,
		Price:       w.Price,
		Description: w.Description,
		Image:       w.Image,
		IsActive:    w.IsActive,
		CreatedAt:   w.CreatedAt,
	}
}

func (s *storageImpl) CreateProduct(ctx context.Context, product products.Product) (*products.Product, error) {
	if product.ID == "" {
		product.ID = uuid.NewString()
	}

	params := map[string]interface{}{
		"id":          product.ID,
		"name":        product.Name,
		"price":       product.Price,
		"description": product.Description,
		"image":       product.Image,
		"is_active":   product.IsActive,
		"created_at":  s.now(),
		"updated_at":  s.now(),
	}
	if product.CategoryID != nil {
		params["category_id"] = *product.CategoryID
	}

	q, args, err := s.stmpBuilder().
		Insert(productsTable).
		SetMap(params).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build sql query: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
		return nil, fmt.Errorf("db.ExecContext: %w", err)
	}

	return s.GetProduct(ctx, products.GetCriteria{ID: &product.ID})
}

func (s *storageImpl) GetProduct(ctx context.Context, criteria products.GetCriteria) (*products.Product, error) {
	query := s.stmpBuilder().
		Select(productRowFields).
		From(productsTable).
		Limit(1)

	if criteria.ID != nil {
		query = query.Where(sq.Eq{"id": *criteria.ID})
	}

	q, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build sql query: %w", err)
	}

	var row productRow
	err = s.db.GetContext(ctx, &row, q, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("db.GetContext: %w", err)
	}

	return row.ToModel(), nil
}

func (s *storageImpl) UpdateProduct(ctx context.Context, criteria products.GetCriteria, params products.ProductUpdateParams) (*products.Product, error) {
	query := s.stmpBuilder().
		Update(productsTable).
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
	if params.CategoryID != nil {
		query = query.Set("category_id", *params.CategoryID)
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

	return s.GetProduct(ctx, criteria)
}

func (s *storageImpl) ListProducts(ctx context.Context, criteria products.ListCriteria) ([]*products.Product, error) {
	query := s.stmpBuilder().
		Select(productRowFields).
		From(productsTable).
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

	var rows []productRow
	if err := s.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, fmt.Errorf("db.SelectContext: %w", err)
	}

	result := make([]*products.Product, 0, len(rows))
	for _, row := range rows {
		result = append(result, row.ToModel())
	}

	return result, nil
}

func (s *storageImpl) DeleteProduct(ctx context.Context, criteria products.GetCriteria) error {
	query := s.stmpBuilder().Delete(productsTable)

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

func (s *storageImpl) CreateWishlistItem(ctx context.Context, item products.WishlistItem) (*products.WishlistItem, error) {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}

	params := map[string]interface{}{
		"id":          item.ID,
		"name":        item.Name,
		"price":       item.Price,
		"description": item.Description,
		"image":       item.Image,
		"is_active":   item.IsActive,
		"created_at":  s.now(),
	}

	q, args, err := s.stmpBuilder().
		Insert(wishlistItemsTable).
		SetMap(params).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build sql query: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
		return nil, fmt.Errorf("db.ExecContext: %w", err)
	}

	return &item, nil
}

func (s *storageImpl) ListWishlistItems(ctx context.Context, criteria products.ListCriteria) ([]*products.WishlistItem, error) {
	query := s.stmpBuilder().
		Select(wishlistItemRowFields).
		From(wishlistItemsTable).
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

	var rows []wishlistItemRow
	if err := s.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, fmt.Errorf("db.SelectContext: %w", err)
	}

	result := make([]*products.WishlistItem, 0, len(rows))
	for _, row := range rows {
		result = append(result, row.ToModel())
	}

	return result, nil
}
