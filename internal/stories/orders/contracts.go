package orders

import (
	"context"

	"storefront-bot/internal/stories/products"
	"storefront-bot/internal/stories/users"
)

type (
	Storage interface {
		// CreateOrder persists the order and its items in one transaction.
		CreateOrder(ctx context.Context, order Order) (*Order, error)
		GetOrder(ctx context.Context, criteria GetCriteria) (*Order, error)
		ListOrders(ctx context.Context, criteria ListCriteria) ([]*Order, error)
		UpdateOrder(ctx context.Context, id string, params UpdateParams) (*Order, error)
		// ConfirmOrderPayment is a conditional write: it sets the payment
		// status to CONFIRMED (and the order to PROCESSING) only when the
		// payment was not confirmed yet, and reports whether this call won
		// the transition.
		ConfirmOrderPayment(ctx context.Context, id string, chargeID string) (bool, error)

		GetProduct(ctx context.Context, criteria products.GetCriteria) (*products.Product, error)
		GetBundle(ctx context.Context, criteria products.GetCriteria) (*products.Bundle, error)
		GetUser(ctx context.Context, criteria users.GetCriteria) (*users.User, error)
	}

	// UserService resolves buyers by their messaging-platform identity.
	UserService interface {
		GetOrCreateByTelegramID(ctx context.Context, telegramID string) (*users.User, error)
	}

	// Dispatcher delivers purchased content after a payment is confirmed.
	Dispatcher interface {
		Dispatch(ctx context.Context, order *Order, chatID int64)
	}

	// Notifier fans best-effort summaries out to operator chats.
	Notifier interface {
		OrderCreated(ctx context.Context, order *Order, user *users.User)
		PaymentConfirmed(ctx context.Context, order *Order, telegramID string)
	}
)
