package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/time/rate"
)

// Client wraps the Telegram Bot API: invoice links, pre-checkout answers and
// content delivery, plus the long-poll update stream for the support bot.
type Client struct {
	api     *tgbotapi.BotAPI
	logger  *slog.Logger
	limiter *rate.Limiter
	updates <-chan tgbotapi.Update
}

func NewClient(token string, logger *slog.Logger) (*Client, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}

	// Bot API allows ~30 messages per second.
	limiter := rate.NewLimiter(30, 1)

	return &Client{
		api:     bot,
		logger:  logger,
		limiter: limiter,
	}, nil
}

// Start begins receiving updates via long polling.
func (c *Client) Start(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	c.updates = c.api.GetUpdatesChan(u)

	c.logger.Info("telegram client started", slog.String("bot", c.api.Self.UserName))
	return nil
}

func (c *Client) Stop() {
	c.api.StopReceivingUpdates()
	c.logger.Info("telegram client stopped")
}

func (c *Client) Updates() <-chan tgbotapi.Update {
	return c.updates
}

// InvoiceParams describes a createInvoiceLink call. Amount is in the currency's
// minor units. Payload is round-tripped verbatim through the provider and comes
// back on the payment callbacks.
type InvoiceParams struct {
	Title       string
	Description string
	Payload     string
	Currency    string
	Amount      int64
}

// CreateInvoiceLink creates a payment invoice URL.
func (c *Client) CreateInvoiceLink(ctx context.Context, p InvoiceParams) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiting: %w", err)
	}

	prices, err := json.Marshal([]tgbotapi.LabeledPrice{
		{Label: p.Title, Amount: int(p.Amount)},
	})
	if err != nil {
		return "", fmt.Errorf("marshal prices: %w", err)
	}

	params := tgbotapi.Params{
		"title":       p.Title,
		"description": p.Description,
		"payload":     p.Payload,
		"currency":    p.Currency,
		"prices":      string(prices),
	}

	resp, err := c.api.MakeRequest("createInvoiceLink", params)
	if err != nil {
		c.logger.Error("createInvoiceLink failed", slog.Any("error", err))
		return "", fmt.Errorf("createInvoiceLink: %w", err)
	}

	var url string
	if err := json.Unmarshal(resp.Result, &url); err != nil {
		return "", fmt.Errorf("decode invoice link: %w", err)
	}

	return url, nil
}

// AnswerPreCheckout answers a pre_checkout_query. The provider rejects the
// payment if no answer arrives within its timeout window, so this is called on
// every pre-checkout event, positive or negative.
func (c *Client) AnswerPreCheckout(ctx context.Context, queryID string, ok bool, errorMessage string) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiting: %w", err)
	}

	answer := tgbotapi.PreCheckoutConfig{
		PreCheckoutQueryID: queryID,
		OK:                 ok,
		ErrorMessage:       errorMessage,
	}

	if _, err := c.api.Request(answer); err != nil {
		c.logger.Error("answerPreCheckoutQuery failed",
			slog.String("query_id", queryID),
			slog.Any("error", err))
		return fmt.Errorf("answerPreCheckoutQuery: %w", err)
	}

	return nil
}

func (c *Client) SendMessage(ctx context.Context, chatID int64, text string) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiting: %w", err)
	}

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML

	if _, err := c.api.Send(msg); err != nil {
		c.logger.Error("sendMessage failed",
			slog.Int64("chat_id", chatID),
			slog.Any("error", err))
		return fmt.Errorf("sendMessage: %w", err)
	}

	return nil
}

func (c *Client) SendPhoto(ctx context.Context, chatID int64, photoURL, caption string) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiting: %w", err)
	}

	msg := tgbotapi.NewPhoto(chatID, tgbotapi.FileURL(photoURL))
	msg.Caption = caption
	msg.ParseMode = tgbotapi.ModeHTML

	if _, err := c.api.Send(msg); err != nil {
		c.logger.Error("sendPhoto failed",
			slog.Int64("chat_id", chatID),
			slog.Any("error", err))
		return fmt.Errorf("sendPhoto: %w", err)
	}

	return nil
}

func (c *Client) SendVideo(ctx context.Context, chatID int64, videoURL, caption string) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiting: %w", err)
	}

	msg := tgbotapi.NewVideo(chatID, tgbotapi.FileURL(videoURL))
	msg.Caption = caption
	msg.ParseMode = tgbotapi.ModeHTML

	if _, err := c.api.Send(msg); err != nil {
		c.logger.Error("sendVideo failed",
			slog.Int64("chat_id", chatID),
			slog.Any("error", err))
		return fmt.Errorf("sendVideo: %w", err)
	}

	return nil
}

// FileURL resolves a Telegram file_id to a direct download URL. Used to persist
// media attached to support messages.
func (c *Client) FileURL(ctx context.Context, fileID string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiting: %w", err)
	}

	file, err := c.api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return "", fmt.Errorf("getFile: %w", err)
	}

	return file.Link(c.api.Token), nil
}
