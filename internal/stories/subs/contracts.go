package subs

import (
	"context"

	"storefront-bot/internal/stories/orders"
	"storefront-bot/internal/stories/users"
)

type (
	Storage interface {
		CreateSubscription(ctx context.Context, sub Subscription) (*Subscription, error)
		ListSubscriptions(ctx context.Context, criteria ListCriteria) ([]*Subscription, error)
		// ExpireDueSubscriptions flips ACTIVE rows whose end date has passed
		// to EXPIRED and returns how many changed.
		ExpireDueSubscriptions(ctx context.Context) (int64, error)
	}

	UserService interface {
		GetOrCreateByTelegramID(ctx context.Context, telegramID string) (*users.User, error)
	}

	OrderService interface {
		CreateOrder(ctx context.Context, req orders.CreateRequest) (*orders.Order, error)
	}
)
