package support

import "time"

// Message is an append-only support chat entry. Only the read flag is ever
// mutated after creation.
type Message struct {
	ID          int64
	UserID      string
	Message     string
	MediaURL    *string
	MediaType   *string
	OrderID     *string
	IsFromAdmin bool
	IsRead      bool
	CreatedAt   time.Time
}

type ListCriteria struct {
	UserID string
	Limit  int
	Before *int64
}

// Incoming is a user message as seen by the bot transport.
type Incoming struct {
	TelegramID string
	FirstName  string
	LastName   string
	Username   string
	Text       string
	// Telegram file ids, resolved to URLs before persisting.
	PhotoFileID    string
	VideoFileID    string
	DocumentFileID string
}
