package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"storefront-bot/internal/stories/products"
)

const categoriesTable = "categories"

var categoryRowFields = fields(categoryRow{})

type categoryRow struct {
	ID          string    `db:"id"`
	Name        string    `db:"name"`
	Description string    `db:"description"`
	CreatedAt   time.Time `db:"created_at"`
}

func (c categoryRow) ToModel() *products.Category {
	return &products.Category{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
	}
}

func (s *storageImpl) CreateCategory(ctx context.Context, category products.Category) (*products.Category, error) {
	if category.ID == "" {
		category.ID = uuid.NewString()
	}
	category.CreatedAt = s.now()

	q, args, err := s.stmpBuilder().
		Insert(categoriesTable).
		SetMap(map[string]interface{}{
			"id":          category.ID,
			"name":        category.Name,
			"description": category.Description,
			"created_at":  category.CreatedAt,
		}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build sql query: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
		return nil, fmt.Errorf("db.ExecContext: %w", err)
	}

	return &category, nil
}

func (s *storageImpl) ListCategories(ctx context.Context) ([]*products.Category, error) {
	q, args, err := s.stmpBuilder().
		Select(categoryRowFields).
		From(categoriesTable).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build sql query: %w", err)
	}

	var rows []categoryRow
	if err := s.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, fmt.Errorf("db.SelectContext: %w", err)
	}

	result := make([]*products.Category, 0, len(rows))
	for _, row := range rows {
		result = append(result, row.ToModel())
	}

	return result, nil
}
