package notify

import (
	"context"
	"fmt"
	"log/slog"

	"storefront-bot/internal/stories/orders"
	"storefront-bot/internal/stories/users"
)

// Service fans short order summaries out to operator chats. Every send is
// independent and best-effort: failures are logged, never propagated, and
// never roll back the state change that triggered the notification.
type Service struct {
	gateway      Gateway
	adminChatIDs []int64
	frontendURL  string
	logger       *slog.Logger
}

func NewService(gateway Gateway, adminChatIDs []int64, frontendURL string, logger *slog.Logger) *Service {
	return &Service{
		gateway:      gateway,
		adminChatIDs: adminChatIDs,
		frontendURL:  frontendURL,
		logger:       logger,
	}
}

func (s *Service) OrderCreated(ctx context.Context, order *orders.Order, user *users.User) {
	text := fmt.Sprintf(
		"🛒 <b>New Order</b>\n\n🆔 %s\n👤 %s (%s)\n📦 Type: %s\n💵 Amount: %.2f",
		order.ID, user.DisplayName(), user.TelegramID, order.OrderType, order.TotalAmount,
	)
	if order.DonationMessage != nil {
		text += fmt.Sprintf("\n📝 Message: %s", *order.DonationMessage)
	}

	s.broadcast(ctx, text)
}

func (s *Service) PaymentConfirmed(ctx context.Context, order *orders.Order, telegramID string) {
	text := fmt.Sprintf(
		"💰 <b>Payment Confirmed</b>\n\n🆔 %s\n👤 %s\n📦 Type: %s\n💵 Amount: %.2f",
		order.ID, telegramID, order.OrderType, order.TotalAmount,
	)

	s.broadcast(ctx, text)
}

// SupportMessage notifies operators about an inbound support message,
// forwarding attached media when present.
func (s *Service) SupportMessage(ctx context.Context, user *users.User, text, mediaURL, mediaType string) {
	username := "No username"
	if user.Username != "" {
		username = "@" + user.Username
	}

	body := text
	if body == "" {
		body = "[Media]"
	}

	summary := fmt.Sprintf(
		"🔔 <b>New Support Message</b>\n\n👤 From: %s (%s)\n🆔 ID: %s\n📝 Message: %s\n\n🔗 %s/admin/support",
		user.DisplayName(), username, user.TelegramID, body, s.frontendURL,
	)

	for _, chatID := range s.adminChatIDs {
		var err error
		switch {
		case mediaURL != "" && mediaType == "photo":
			err = s.gateway.SendPhoto(ctx, chatID, mediaURL, summary)
		case mediaURL != "" && mediaType == "video":
			err = s.gateway.SendVideo(ctx, chatID, mediaURL, summary)
		default:
			err = s.gateway.SendMessage(ctx, chatID, summary)
		}
		if err != nil {
			// Fall back to plain text so the operator still sees something.
			if mediaURL != "" {
				err = s.gateway.SendMessage(ctx, chatID, summary)
			}
		}
		if err != nil {
			s.logger.Error("admin notification failed", "chat_id", chatID, "error", err)
		}
	}
}

func (s *Service) broadcast(ctx context.Context, text string) {
	for _, chatID := range s.adminChatIDs {
		if err := s.gateway.SendMessage(ctx, chatID, text); err != nil {
			s.logger.Error("admin notification failed", "chat_id", chatID, "error", err)
		}
	}
}
