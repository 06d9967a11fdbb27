package fulfillment

import "context"

type (
	// Gateway is the outbound messaging transport. Each call is independent:
	// a failed send must not abort the rest of the sequence.
	Gateway interface {
		SendMessage(ctx context.Context, chatID int64, text string) error
		SendPhoto(ctx context.Context, chatID int64, photoURL, caption string) error
		SendVideo(ctx context.Context, chatID int64, videoURL, caption string) error
	}
)
