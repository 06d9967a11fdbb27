package support

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"storefront-bot/internal/stories/users"
	"storefront-bot/internal/telegram/messages"
)

// Service bridges the support chat between end users and operators: inbound
// messages are persisted and fanned out to admins, admin replies are
// persisted and delivered back through the bot.
type Service struct {
	storage  Storage
	userSvc  UserService
	gateway  Gateway
	notifier Notifier
	logger   *slog.Logger
}

func NewService(storage Storage, userSvc UserService, gateway Gateway, notifier Notifier, logger *slog.Logger) *Service {
	return &Service{
		storage:  storage,
		userSvc:  userSvc,
		gateway:  gateway,
		notifier: notifier,
		logger:   logger,
	}
}

// HandleIncoming persists a user message, flags the chat unread and notifies
// operators. Media resolution failures degrade to a text-only message.
func (s *Service) HandleIncoming(ctx context.Context, in Incoming) error {
	user, err := s.userSvc.UpsertProfile(ctx, in.TelegramID, users.Profile{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Username:  in.Username,
	})
	if err != nil {
		return fmt.Errorf("upsert user: %w", err)
	}

	mediaURL, mediaType := s.resolveMedia(ctx, in)

	message := Message{
		UserID:  user.TelegramID,
		Message: in.Text,
	}
	if mediaURL != "" {
		message.MediaURL = &mediaURL
		message.MediaType = &mediaType
	}

	saved, err := s.storage.CreateSupportMessage(ctx, message)
	if err != nil {
		return fmt.Errorf("save support message: %w", err)
	}

	if err := s.userSvc.SetUnreadSupport(ctx, user.TelegramID, true); err != nil {
		// Not critical, the message itself is saved.
		s.logger.Error("failed to set unread flag", "telegram_id", user.TelegramID, "error", err)
	}

	s.notifier.SupportMessage(ctx, user, saved.Message, mediaURL, mediaType)

	return nil
}

func (s *Service) resolveMedia(ctx context.Context, in Incoming) (url, kind string) {
	var fileID string
	switch {
	case in.PhotoFileID != "":
		fileID, kind = in.PhotoFileID, "photo"
	case in.VideoFileID != "":
		fileID, kind = in.VideoFileID, "video"
	case in.DocumentFileID != "":
		fileID, kind = in.DocumentFileID, "document"
	default:
		return "", ""
	}

	resolved, err := s.gateway.FileURL(ctx, fileID)
	if err != nil {
		s.logger.Error("failed to resolve media url", "file_id", fileID, "error", err)
		return "", ""
	}
	return resolved, kind
}

// SendToUser delivers an admin reply and records it in the chat log.
func (s *Service) SendToUser(ctx context.Context, telegramID, text, mediaURL, mediaType string, orderID *string) (*Message, error) {
	if text == "" && mediaURL == "" {
		return nil, fmt.Errorf("message or media is required")
	}

	chatID, err := strconv.ParseInt(telegramID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("bad telegram id %q: %w", telegramID, err)
	}

	message := Message{
		UserID:      telegramID,
		Message:     text,
		OrderID:     orderID,
		IsFromAdmin: true,
		IsRead:      true,
	}
	if mediaURL != "" {
		message.MediaURL = &mediaURL
		message.MediaType = &mediaType
	}

	saved, err := s.storage.CreateSupportMessage(ctx, message)
	if err != nil {
		return nil, fmt.Errorf("save support message: %w", err)
	}

	switch mediaType {
	case "photo":
		err = s.gateway.SendPhoto(ctx, chatID, mediaURL, text)
	case "video":
		err = s.gateway.SendVideo(ctx, chatID, mediaURL, text)
	default:
		err = s.gateway.SendMessage(ctx, chatID, messages.SupportReply(text))
	}
	if err != nil {
		return nil, fmt.Errorf("deliver support reply: %w", err)
	}

	return saved, nil
}

// Messages returns the chat log for one user and marks their inbound
// messages read.
func (s *Service) Messages(ctx context.Context, telegramID string, limit int, before *int64) ([]*Message, error) {
	list, err := s.storage.ListSupportMessages(ctx, ListCriteria{
		UserID: telegramID,
		Limit:  limit,
		Before: before,
	})
	if err != nil {
		return nil, err
	}

	if err := s.MarkRead(ctx, telegramID); err != nil {
		s.logger.Error("failed to mark chat read", "telegram_id", telegramID, "error", err)
	}

	return list, nil
}

func (s *Service) MarkRead(ctx context.Context, telegramID string) error {
	if err := s.storage.MarkSupportMessagesRead(ctx, telegramID); err != nil {
		return err
	}
	return s.userSvc.SetUnreadSupport(ctx, telegramID, false)
}

func (s *Service) UnreadCount(ctx context.Context) (int, error) {
	return s.storage.CountUnreadSupportUsers(ctx)
}
