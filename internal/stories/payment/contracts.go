package payment

import (
	"context"

	"storefront-bot/internal/infra/telegram"
	"storefront-bot/internal/stories/orders"
)

type (
	Storage interface {
		GetOrder(ctx context.Context, criteria orders.GetCriteria) (*orders.Order, error)
		// ConfirmOrderPayment reports whether this call performed the
		// transition to CONFIRMED, or false when the order was already
		// confirmed by an earlier delivery.
		ConfirmOrderPayment(ctx context.Context, id string, chargeID string) (bool, error)
	}

	// Gateway is the payment provider client.
	Gateway interface {
		CreateInvoiceLink(ctx context.Context, p telegram.InvoiceParams) (string, error)
		AnswerPreCheckout(ctx context.Context, queryID string, ok bool, errorMessage string) error
	}

	Dispatcher interface {
		Dispatch(ctx context.Context, order *orders.Order, chatID int64)
	}

	Notifier interface {
		PaymentConfirmed(ctx context.Context, order *orders.Order, telegramID string)
	}
)
