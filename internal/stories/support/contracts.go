package support

import (
	"context"

	"storefront-bot/internal/stories/users"
)

type (
	Storage interface {
		CreateSupportMessage(ctx context.Context, message Message) (*Message, error)
		ListSupportMessages(ctx context.Context, criteria ListCriteria) ([]*Message, error)
		MarkSupportMessagesRead(ctx context.Context, userID string) error
		CountUnreadSupportUsers(ctx context.Context) (int, error)
	}

	UserService interface {
		UpsertProfile(ctx context.Context, telegramID string, profile users.Profile) (*users.User, error)
		GetOrCreateByTelegramID(ctx context.Context, telegramID string) (*users.User, error)
		SetUnreadSupport(ctx context.Context, telegramID string, unread bool) error
	}

	Gateway interface {
		SendMessage(ctx context.Context, chatID int64, text string) error
		SendPhoto(ctx context.Context, chatID int64, photoURL, caption string) error
		SendVideo(ctx context.Context, chatID int64, videoURL, caption string) error
		FileURL(ctx context.Context, fileID string) (string, error)
	}

	Notifier interface {
		SupportMessage(ctx context.Context, user *users.User, text, mediaURL, mediaType string)
	}
)
