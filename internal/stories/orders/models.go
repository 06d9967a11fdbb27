package orders

import (
	"time"

	"storefront-bot/internal/stories/products"
)

type Type string

const (
	TypeProduct     Type = "PRODUCT"
	TypeBundle      Type = "BUNDLE"
	TypeVIP         Type = "VIP"
	TypeCustomVideo Type = "CUSTOM_VIDEO"
	TypeVideoCall   Type = "VIDEO_CALL"
	TypeRating      Type = "RATING"
	TypeDonation    Type = "DONATION"
)

func (t Type) Valid() bool {
	switch t {
	case TypeProduct, TypeBundle, TypeVIP, TypeCustomVideo, TypeVideoCall, TypeRating, TypeDonation:
		return true
	}
	return false
}

type Status string

const (
	StatusPending    Status = "PENDING"
	StatusProcessing Status = "PROCESSING"
	StatusCompleted  Status = "COMPLETED"
	StatusCancelled  Status = "CANCELLED"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// PaymentStatus tracks whether money has been confirmed received. It is an
// independent axis from Status.
type PaymentStatus string

const (
	PaymentPending       PaymentStatus = "PENDING"
	PaymentAwaitingCheck PaymentStatus = "AWAITING_CHECK"
	PaymentConfirmed     PaymentStatus = "CONFIRMED"
	PaymentFailed        PaymentStatus = "FAILED"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentAwaitingCheck, PaymentConfirmed, PaymentFailed:
		return true
	}
	return false
}

// Order is the central aggregate. TotalAmount and the item price snapshots
// are fixed at creation and never recomputed from the catalog.
type Order struct {
	ID              string
	UserID          int64
	OrderType       Type
	TotalAmount     float64
	Status          Status
	PaymentStatus   PaymentStatus
	PaymentMethod   string
	PaymentChargeID *string
	Screenshot      *string
	DonationMessage *string
	// Metadata carries the tariff sub-type for service orders.
	Metadata  *string
	Shipping  ShippingInfo
	Items     []OrderItem
	CreatedAt time.Time
	UpdatedAt time.Time
}

type ShippingInfo struct {
	FirstName *string
	Address   *string
	City      *string
	ZipCode   *string
	Country   *string
}

// OrderItem references exactly one of Product or Bundle. Price is the
// per-unit snapshot captured when the order was created.
type OrderItem struct {
	ID        int64
	OrderID   string
	ProductID *string
	BundleID  *string
	Quantity  int
	Price     float64

	// Hydrated on reads that request items.
	Product *products.Product
	Bundle  *products.Bundle
}

type GetCriteria struct {
	ID        *string
	WithItems bool
}

type ListCriteria struct {
	UserID *int64
	Status *Status
	Limit  int
	Offset int
}

type UpdateParams struct {
	Status        *Status
	PaymentStatus *PaymentStatus
	Screenshot    *string
}

// CreateRequest is the input to CreateOrder. TelegramID identifies the buyer;
// the user record is created lazily when missing.
type CreateRequest struct {
	TelegramID      string
	OrderType       Type
	Items           []ItemRequest
	SubType         string
	PaymentMethod   string
	DonationAmount  float64
	DonationMessage string
	Shipping        ShippingInfo
}

type ItemKind string

const (
	ItemProduct ItemKind = "product"
	ItemBundle  ItemKind = "bundle"
)

type ItemRequest struct {
	Kind     ItemKind
	ID       string
	Quantity int
}
