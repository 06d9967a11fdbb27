package telegram

import (
	"context"
	"log/slog"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"storefront-bot/internal/stories/payment"
	"storefront-bot/internal/stories/support"
	"storefront-bot/internal/telegram/messages"
)

type Router struct {
	paymentService paymentService
	supportService supportService
	gateway        gateway
	logger         *slog.Logger
}

type paymentService interface {
	ProcessPreCheckout(ctx context.Context, ev payment.PreCheckoutEvent)
	ProcessSuccessfulPayment(ctx context.Context, ev payment.PaymentEvent) error
}

type supportService interface {
	HandleIncoming(ctx context.Context, in support.Incoming) error
}

type gateway interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
}

func NewRouter(paymentService paymentService, supportService supportService, gateway gateway, logger *slog.Logger) *Router {
	return &Router{
		paymentService: paymentService,
		supportService: supportService,
		gateway:        gateway,
		logger:         logger,
	}
}

// Route dispatches a single long-poll update. Payment events are handled by
// the same processor the webhook uses, everything else is support chat.
func (r *Router) Route(update *tgbotapi.Update) error {
	ctx := context.Background()

	if update.PreCheckoutQuery != nil {
		r.paymentService.ProcessPreCheckout(ctx, preCheckoutEvent(update.PreCheckoutQuery))
		return nil
	}

	if update.Message == nil {
		return nil
	}

	if update.Message.SuccessfulPayment != nil {
		return r.paymentService.ProcessSuccessfulPayment(ctx, paymentEvent(update.Message))
	}

	if update.Message.IsCommand() {
		return r.handleCommand(ctx, update.Message)
	}

	return r.handleSupportMessage(ctx, update.Message)
}

func (r *Router) handleCommand(ctx context.Context, msg *tgbotapi.Message) error {
	switch msg.Command() {
	case "start":
		return r.gateway.SendMessage(ctx, msg.Chat.ID, messages.Welcome)
	case "support", "help":
		return r.gateway.SendMessage(ctx, msg.Chat.ID, messages.SupportHelp)
	default:
		return r.gateway.SendMessage(ctx, msg.Chat.ID, messages.SupportHelp)
	}
}

func (r *Router) handleSupportMessage(ctx context.Context, msg *tgbotapi.Message) error {
	if msg.From == nil {
		return nil
	}

	in := incomingFromMessage(msg)
	if in.Text == "" && in.PhotoFileID == "" && in.VideoFileID == "" && in.DocumentFileID == "" {
		return nil
	}

	if err := r.supportService.HandleIncoming(ctx, in); err != nil {
		r.logger.Error("failed to handle support message", "chat_id", msg.Chat.ID, "error", err)
		return r.gateway.SendMessage(ctx, msg.Chat.ID, messages.Error)
	}

	return nil
}

func telegramID(id int64) string {
	return strconv.FormatInt(id, 10)
}

func preCheckoutEvent(q *tgbotapi.PreCheckoutQuery) payment.PreCheckoutEvent {
	ev := payment.PreCheckoutEvent{
		QueryID:     q.ID,
		Payload:     q.InvoicePayload,
		Currency:    q.Currency,
		TotalAmount: int64(q.TotalAmount),
	}
	if q.From != nil {
		ev.From = q.From.ID
	}
	return ev
}

func paymentEvent(msg *tgbotapi.Message) payment.PaymentEvent {
	p := msg.SuccessfulPayment
	ev := payment.PaymentEvent{
		Payload:     p.InvoicePayload,
		TotalAmount: int64(p.TotalAmount),
		Currency:    p.Currency,
		ChargeID:    p.TelegramPaymentChargeID,
		From:        msg.Chat.ID,
	}
	if msg.From != nil {
		ev.From = msg.From.ID
	}
	return ev
}

func incomingFromMessage(msg *tgbotapi.Message) support.Incoming {
	in := support.Incoming{
		FirstName: msg.From.FirstName,
		LastName:  msg.From.LastName,
		Username:  msg.From.UserName,
		Text:      msg.Text,
	}
	in.TelegramID = telegramID(msg.From.ID)

	if msg.Caption != "" {
		in.Text = msg.Caption
	}
	if len(msg.Photo) > 0 {
		// Telegram sends several sizes, the last one is the largest.
		in.PhotoFileID = msg.Photo[len(msg.Photo)-1].FileID
	}
	if msg.Video != nil {
		in.VideoFileID = msg.Video.FileID
	}
	if msg.Document != nil {
		in.DocumentFileID = msg.Document.FileID
	}

	return in
}
