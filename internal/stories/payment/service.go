package payment

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strconv"

	"storefront-bot/internal/infra/telegram"
	"storefront-bot/internal/metrics"
	"storefront-bot/internal/stories/orders"
)

// Service is the payment webhook processor. It consumes provider events,
// correlates them to persisted orders, applies the CONFIRMED transition
// exactly once and triggers fulfillment.
//
// The provider redelivers events until acknowledged, so business-side
// exactly-once semantics live here: the conditional store write is the
// idempotency gate, and only a store failure is surfaced to the transport
// (the one case where redelivery helps).
type Service struct {
	storage    Storage
	gateway    Gateway
	dispatcher Dispatcher
	notifier   Notifier
	currency   string
	logger     *slog.Logger
}

func NewService(storage Storage, gateway Gateway, dispatcher Dispatcher, notifier Notifier, currency string, logger *slog.Logger) *Service {
	return &Service{
		storage:    storage,
		gateway:    gateway,
		dispatcher: dispatcher,
		notifier:   notifier,
		currency:   currency,
		logger:     logger,
	}
}

// CreateInvoice builds a payment invoice URL for a pending order. The payload
// embeds the order id and comes back verbatim on both callback shapes.
func (s *Service) CreateInvoice(ctx context.Context, orderID string) (string, error) {
	order, err := s.storage.GetOrder(ctx, orders.GetCriteria{ID: &orderID})
	if err != nil {
		return "", fmt.Errorf("get order: %w", err)
	}
	if order == nil {
		return "", orders.ErrNotFound
	}

	payload, err := encodePayload(order.ID)
	if err != nil {
		return "", fmt.Errorf("encode payload: %w", err)
	}

	url, err := s.gateway.CreateInvoiceLink(ctx, telegram.InvoiceParams{
		Title:       invoiceTitle(order),
		Description: invoiceDescription(order),
		Payload:     payload,
		Currency:    s.currency,
		Amount:      minorUnits(order.TotalAmount),
	})
	if err != nil {
		return "", fmt.Errorf("create invoice link: %w", err)
	}

	s.logger.Info("invoice created",
		"order_id", order.ID,
		"order_type", order.OrderType,
		"amount", order.TotalAmount,
	)

	return url, nil
}

// ProcessPreCheckout handles Shape A. Every query gets an answer, positive or
// negative, and the store is never mutated here.
func (s *Service) ProcessPreCheckout(ctx context.Context, ev PreCheckoutEvent) {
	orderID, ok := decodePayload(ev.Payload)
	if !ok {
		s.logger.Warn("pre-checkout with malformed payload",
			"query_id", ev.QueryID,
			"payload", ev.Payload,
		)
		s.answerPreCheckout(ctx, ev.QueryID, false, "Invalid order")
		return
	}

	s.logger.Info("pre-checkout approved",
		"query_id", ev.QueryID,
		"order_id", orderID,
		"amount", ev.TotalAmount,
	)
	s.answerPreCheckout(ctx, ev.QueryID, true, "")
}

func (s *Service) answerPreCheckout(ctx context.Context, queryID string, ok bool, errorMessage string) {
	if err := s.gateway.AnswerPreCheckout(ctx, queryID, ok, errorMessage); err != nil {
		// Nothing more to do: the provider auto-rejects on timeout.
		s.logger.Error("failed to answer pre-checkout", "query_id", queryID, "error", err)
	}
}

// ProcessSuccessfulPayment handles Shape B. The returned error is non-nil
// only on store failure; correlation failures are logged for manual
// reconciliation and acknowledged, because the money has already moved and
// redelivery cannot fix a data problem.
func (s *Service) ProcessSuccessfulPayment(ctx context.Context, ev PaymentEvent) error {
	orderID, ok := decodePayload(ev.Payload)
	if !ok {
		s.correlationFailure("unparseable payment payload",
			"payload", ev.Payload,
			"charge_id", ev.ChargeID,
			"payer", ev.From,
		)
		return nil
	}

	order, err := s.storage.GetOrder(ctx, orders.GetCriteria{ID: &orderID, WithItems: true})
	if err != nil {
		return fmt.Errorf("get order %s: %w", orderID, err)
	}
	if order == nil {
		s.correlationFailure("payment for unknown order",
			"order_id", orderID,
			"charge_id", ev.ChargeID,
			"payer", ev.From,
		)
		return nil
	}

	if order.Status == orders.StatusCancelled {
		s.correlationFailure("payment for cancelled order",
			"order_id", order.ID,
			"charge_id", ev.ChargeID,
			"payer", ev.From,
		)
		return nil
	}

	won, err := s.storage.ConfirmOrderPayment(ctx, order.ID, ev.ChargeID)
	if err != nil {
		return fmt.Errorf("confirm order payment %s: %w", order.ID, err)
	}
	if !won {
		// Provider redelivery of an already confirmed payment: acknowledge
		// without repeating fulfillment.
		metrics.PaymentRedeliveries.Inc()
		s.logger.Info("payment already confirmed, skipping fulfillment",
			"order_id", order.ID,
			"charge_id", ev.ChargeID,
		)
		return nil
	}

	metrics.PaymentsConfirmed.Inc()
	s.logger.Info("payment confirmed",
		"order_id", order.ID,
		"order_type", order.OrderType,
		"amount", order.TotalAmount,
		"charge_id", ev.ChargeID,
	)

	s.dispatcher.Dispatch(ctx, order, ev.From)
	s.notifier.PaymentConfirmed(ctx, order, strconv.FormatInt(ev.From, 10))

	return nil
}

// correlationFailure marks an event that cannot be matched to an order. This
// is a fatal business error requiring manual reconciliation, not a retryable
// one.
func (s *Service) correlationFailure(msg string, args ...any) {
	metrics.CorrelationFailures.Inc()
	s.logger.Error("payment correlation failure: "+msg, args...)
}

func invoiceTitle(order *orders.Order) string {
	switch order.OrderType {
	case orders.TypeVIP:
		return "VIP Subscription"
	case orders.TypeCustomVideo:
		return "Custom Video"
	case orders.TypeVideoCall:
		return "Video Call"
	case orders.TypeRating:
		return "Rating"
	case orders.TypeDonation:
		return "Donation"
	default:
		return "Your Order"
	}
}

func invoiceDescription(order *orders.Order) string {
	return fmt.Sprintf("Order %s", order.ID)
}

func minorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
