package products

import "context"

type (
	Storage interface {
		CreateProduct(ctx context.Context, product Product) (*Product, error)
		GetProduct(ctx context.Context, criteria GetCriteria) (*Product, error)
		UpdateProduct(ctx context.Context, criteria GetCriteria, params ProductUpdateParams) (*Product, error)
		ListProducts(ctx context.Context, criteria ListCriteria) ([]*Product, error)
		DeleteProduct(ctx context.Context, criteria GetCriteria) error

		CreateBundle(ctx context.Context, bundle Bundle) (*Bundle, error)
		GetBundle(ctx context.Context, criteria GetCriteria) (*Bundle, error)
		UpdateBundle(ctx context.Context, criteria GetCriteria, params BundleUpdateParams) (*Bundle, error)
		ListBundles(ctx context.Context, criteria ListCriteria) ([]*Bundle, error)
		DeleteBundle(ctx context.Context, criteria GetCriteria) error

		CreateWishlistItem(ctx context.Context, item WishlistItem) (*WishlistItem, error)
		ListWishlistItems(ctx context.Context, criteria ListCriteria) ([]*WishlistItem, error)

		CreateCategory(ctx context.Context, category Category) (*Category, error)
		ListCategories(ctx context.Context) ([]*Category, error)
	}
)
