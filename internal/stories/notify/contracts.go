package notify

import "context"

type (
	Gateway interface {
		SendMessage(ctx context.Context, chatID int64, text string) error
		SendPhoto(ctx context.Context, chatID int64, photoURL, caption string) error
		SendVideo(ctx context.Context, chatID int64, videoURL, caption string) error
	}
)
