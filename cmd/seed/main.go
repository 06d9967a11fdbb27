package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/samber/lo"

	"storefront-bot/internal/infra/sqlite3"
	"storefront-bot/internal/storage"
	"storefront-bot/internal/stories/products"
)

// Seeds the catalog with demo data for local development.
func main() {
	dbPath := flag.String("db", "./data/storefront.db", "path to SQLite database")
	flag.Parse()

	ctx := context.Background()

	db, err := sqlite3.New(ctx, sqlite3.WithDSN(*dbPath))
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	store := storage.New(db.DB)

	if err := seed(ctx, store); err != nil {
		log.Fatalf("failed to seed database: %v", err)
	}

	fmt.Println("Database seeded successfully!")
}

func seed(ctx context.Context, store products.Storage) error {
	physical, err := store.CreateCategory(ctx, products.Category{
		Name:        "Physical Products",
		Description: "Physical items that need shipping",
	})
	if err != nil {
		return fmt.Errorf("create category: %w", err)
	}

	digital, err := store.CreateCategory(ctx, products.Category{
		Name:        "Digital Products",
		Description: "Digital content and downloads",
	})
	if err != nil {
		return fmt.Errorf("create category: %w", err)
	}

	demoProducts := []products.Product{
		{
			Name:        "Premium Photo Set",
			Description: "Exclusive photo collection",
			Price:       29.99,
			Image:       "https://images.unsplash.com/photo-1581291518857-4e27b48ff24e",
			CategoryID:  lo.ToPtr(digital.ID),
			IsActive:    true,
		},
		{
			Name:        "Signed Print",
			Description: "Autographed physical print",
			Price:       49.99,
			Image:       "https://images.unsplash.com/photo-1523206489230-c012c64b2b48",
			CategoryID:  lo.ToPtr(physical.ID),
			IsActive:    true,
		},
	}
	for _, p := range demoProducts {
		if _, err := store.CreateProduct(ctx, p); err != nil {
			return fmt.Errorf("create product %q: %w", p.Name, err)
		}
	}

	demoBundles := []products.Bundle{
		{
			Name:        "Ultimate Collection",
			Description: "Complete content bundle with exclusive materials",
			Price:       99.99,
			Image:       "https://images.unsplash.com/photo-1549921296-3a6b7a249e08",
			Exclusive:   true,
			IsActive:    true,
		},
		{
			Name:        "Starter Pack",
			Description: "Perfect for newcomers",
			Price:       19.99,
			Image:       "https://images.unsplash.com/photo-1506806732259-39c2d0268443",
			IsActive:    true,
		},
	}
	for _, b := range demoBundles {
		if _, err := store.CreateBundle(ctx, b); err != nil {
			return fmt.Errorf("create bundle %q: %w", b.Name, err)
		}
	}

	demoWishlist := []products.WishlistItem{
		{
			Name:        "Designer Handbag",
			Description: "Luxury designer handbag from my wishlist",
			Price:       299.99,
			Image:       "https://images.unsplash.com/photo-1600185365314-dbc4f3f2b7c0",
			IsActive:    true,
		},
		{
			Name:        "Professional Camera",
			Description: "For better content creation",
			Price:       1299.99,
			Image:       "https://images.unsplash.com/photo-1519183071298-a2962be90b8e",
			IsActive:    true,
		},
	}
	for _, w := range demoWishlist {
		if _, err := store.CreateWishlistItem(ctx, w); err != nil {
			return fmt.Errorf("create wishlist item %q: %w", w.Name, err)
		}
	}

	return nil
}
