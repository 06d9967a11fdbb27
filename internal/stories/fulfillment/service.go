package fulfillment

import (
	"context"
	"log/slog"

	"storefront-bot/internal/metrics"
	"storefront-bot/internal/stories/orders"
	"storefront-bot/internal/telegram/messages"
)

// Service delivers purchased content and confirmation messages for a
// confirmed order. The message sequence per order type is deterministic:
// confirmation first, then content in stored order. Individual delivery
// failures are logged and swallowed; the transport is external and the order
// state is already committed.
type Service struct {
	gateway Gateway
	logger  *slog.Logger
}

func NewService(gateway Gateway, logger *slog.Logger) *Service {
	return &Service{
		gateway: gateway,
		logger:  logger,
	}
}

func (s *Service) Dispatch(ctx context.Context, order *orders.Order, chatID int64) {
	s.logger.Info("dispatching fulfillment",
		"order_id", order.ID,
		"order_type", order.OrderType,
		"chat_id", chatID,
	)

	switch order.OrderType {
	case orders.TypeDonation:
		message := ""
		if order.DonationMessage != nil {
			message = *order.DonationMessage
		}
		s.send(ctx, order, chatID, messages.DonationThanks(order.TotalAmount, message))
		return

	case orders.TypeVIP:
		s.send(ctx, order, chatID, messages.PaymentConfirmed)
		s.send(ctx, order, chatID, messages.VIPActivated)
		return

	case orders.TypeCustomVideo:
		s.send(ctx, order, chatID, messages.PaymentConfirmed)
		s.send(ctx, order, chatID, messages.CustomVideoNotice)
		return

	case orders.TypeVideoCall:
		s.send(ctx, order, chatID, messages.PaymentConfirmed)
		s.send(ctx, order, chatID, messages.VideoCallNotice)
		return

	case orders.TypeRating:
		s.send(ctx, order, chatID, messages.PaymentConfirmed)
		s.send(ctx, order, chatID, messages.RatingThanks)
		return
	}

	// PRODUCT and BUNDLE orders: confirmation first, then the purchased
	// content item by item.
	s.send(ctx, order, chatID, messages.PaymentConfirmed)

	for _, item := range order.Items {
		switch {
		case item.Product != nil:
			s.sendPhoto(ctx, order, chatID, item.Product.Image,
				messages.ProductCaption(item.Product.Name, item.Price, item.Product.Description))

		case item.Bundle != nil:
			s.sendBundle(ctx, order, chatID, item)

		default:
			s.logger.Warn("order item has no catalog reference",
				"order_id", order.ID, "item_id", item.ID)
		}
	}
}

// sendBundle delivers the bundle's main image, then its extra images and
// videos in their stored order.
func (s *Service) sendBundle(ctx context.Context, order *orders.Order, chatID int64, item orders.OrderItem) {
	bundle := item.Bundle

	s.sendPhoto(ctx, order, chatID, bundle.Image,
		messages.BundleCaption(bundle.Name, item.Price, bundle.Description))

	for _, url := range bundle.Images {
		s.sendPhoto(ctx, order, chatID, url, "")
	}

	for _, url := range bundle.Videos {
		if err := s.gateway.SendVideo(ctx, chatID, url, ""); err != nil {
			s.deliveryFailed(order, chatID, err)
		}
	}
}

func (s *Service) send(ctx context.Context, order *orders.Order, chatID int64, text string) {
	if err := s.gateway.SendMessage(ctx, chatID, text); err != nil {
		s.deliveryFailed(order, chatID, err)
	}
}

func (s *Service) sendPhoto(ctx context.Context, order *orders.Order, chatID int64, url, caption string) {
	if err := s.gateway.SendPhoto(ctx, chatID, url, caption); err != nil {
		s.deliveryFailed(order, chatID, err)
	}
}

func (s *Service) deliveryFailed(order *orders.Order, chatID int64, err error) {
	metrics.FulfillmentSendErrors.Inc()
	s.logger.Error("fulfillment send failed",
		"order_id", order.ID,
		"chat_id", chatID,
		"error", err,
	)
}
