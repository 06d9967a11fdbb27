package products

import (
	"context"
	"fmt"

	"github.com/samber/lo"
)

// Service provides catalog operations for products, bundles and the wishlist.
// The HTTP route layer consuming it lives outside this repository.
type Service struct {
	storage Storage
}

func NewService(storage Storage) *Service {
	return &Service{storage: storage}
}

func (s *Service) CreateProduct(ctx context.Context, product Product) (*Product, error) {
	if product.Name == "" {
		return nil, fmt.Errorf("product name is required")
	}
	if product.Price < 0 {
		return nil, fmt.Errorf("product price must not be negative")
	}
	product.IsActive = true
	return s.storage.CreateProduct(ctx, product)
}

func (s *Service) GetProduct(ctx context.Context, id string) (*Product, error) {
	return s.storage.GetProduct(ctx, GetCriteria{ID: &id})
}

func (s *Service) ListActiveProducts(ctx context.Context) ([]*Product, error) {
	return s.storage.ListProducts(ctx, ListCriteria{
		IsActive: lo.ToPtr(true),
	})
}

func (s *Service) CreateBundle(ctx context.Context, bundle Bundle) (*Bundle, error) {
	if bundle.Name == "" {
		return nil, fmt.Errorf("bundle name is required")
	}
	if bundle.Price < 0 {
		return nil, fmt.Errorf("bundle price must not be negative")
	}
	bundle.IsActive = true
	return s.storage.CreateBundle(ctx, bundle)
}

func (s *Service) GetBundle(ctx context.Context, id string) (*Bundle, error) {
	return s.storage.GetBundle(ctx, GetCriteria{ID: &id})
}

func (s *Service) ListActiveBundles(ctx context.Context) ([]*Bundle, error) {
	return s.storage.ListBundles(ctx, ListCriteria{
		IsActive: lo.ToPtr(true),
	})
}

func (s *Service) ListWishlist(ctx context.Context) ([]*WishlistItem, error) {
	return s.storage.ListWishlistItems(ctx, ListCriteria{
		IsActive: lo.ToPtr(true),
	})
}
