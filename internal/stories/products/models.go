package products

import "time"

type Product struct {
	ID          string
	Name        string
	Price       float64
	Description string
	Image       string
	CategoryID  *string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Bundle owns its extra media: Images and Videos are stored in child tables,
// cascade-deleted with the bundle, and kept in their stored order.
type Bundle struct {
	ID          string
	Name        string
	Price       float64
	Description string
	Image       string
	Exclusive   bool
	IsActive    bool
	Images      []string
	Videos      []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Category struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
}

type WishlistItem struct {
	ID          string
	Name        string
	Price       float64
	Description string
	Image       string
	IsActive    bool
	CreatedAt   time.Time
}

type GetCriteria struct {
	ID *string
}

type ListCriteria struct {
	IsActive *bool
	Limit    int
	Offset   int
}

type ProductUpdateParams struct {
	Name        *string
	Price       *float64
	Description *string
	Image       *string
	CategoryID  *string
	IsActive    *bool
}

type BundleUpdateParams struct {
	Name        *string
	Price       *float64
	Description *string
	Image       *string
	Exclusive   *bool
	IsActive    *bool
}
