package support

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-bot/internal/stories/users"
)

type memStorage struct {
	messages  []*Message
	createErr error
	nextID    int64
}

func (m *memStorage) CreateSupportMessage(_ context.Context, message Message) (*Message, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	m.nextID++
	message.ID = m.nextID
	stored := message
	m.messages = append(m.messages, &stored)
	return &stored, nil
}

func (m *memStorage) ListSupportMessages(_ context.Context, criteria ListCriteria) ([]*Message, error) {
	var result []*Message
	for _, msg := range m.messages {
		if msg.UserID == criteria.UserID {
			result = append(result, msg)
		}
	}
	return result, nil
}

func (m *memStorage) MarkSupportMessagesRead(_ context.Context, userID string) error {
	for _, msg := range m.messages {
		if msg.UserID == userID {
			msg.IsRead = true
		}
	}
	return nil
}

func (m *memStorage) CountUnreadSupportUsers(_ context.Context) (int, error) {
	seen := make(map[string]bool)
	for _, msg := range m.messages {
		if !msg.IsRead && !msg.IsFromAdmin {
			seen[msg.UserID] = true
		}
	}
	return len(seen), nil
}

type memUserService struct {
	unread map[string]bool
}

func (m *memUserService) UpsertProfile(_ context.Context, telegramID string, profile users.Profile) (*users.User, error) {
	return &users.User{
		ID:         1,
		TelegramID: telegramID,
		FirstName:  profile.FirstName,
		LastName:   profile.LastName,
		Username:   profile.Username,
	}, nil
}

func (m *memUserService) GetOrCreateByTelegramID(_ context.Context, telegramID string) (*users.User, error) {
	return &users.User{ID: 1, TelegramID: telegramID}, nil
}

func (m *memUserService) SetUnreadSupport(_ context.Context, telegramID string, unread bool) error {
	if m.unread == nil {
		m.unread = make(map[string]bool)
	}
	m.unread[telegramID] = unread
	return nil
}

type fakeGateway struct {
	fileURLs map[string]string
	fileErr  error
	messages []string
	photos   []string
	videos   []string
	chatIDs  []int64
	sendErr  error
}

func (g *fakeGateway) SendMessage(_ context.Context, chatID int64, text string) error {
	if g.sendErr != nil {
		return g.sendErr
	}
	g.chatIDs = append(g.chatIDs, chatID)
	g.messages = append(g.messages, text)
	return nil
}

func (g *fakeGateway) SendPhoto(_ context.Context, chatID int64, photoURL, _ string) error {
	g.chatIDs = append(g.chatIDs, chatID)
	g.photos = append(g.photos, photoURL)
	return nil
}

func (g *fakeGateway) SendVideo(_ context.Context, chatID int64, videoURL, _ string) error {
	g.chatIDs = append(g.chatIDs, chatID)
	g.videos = append(g.videos, videoURL)
	return nil
}

func (g *fakeGateway) FileURL(_ context.Context, fileID string) (string, error) {
	if g.fileErr != nil {
		return "", g.fileErr
	}
	return g.fileURLs[fileID], nil
}

type notification struct {
	telegramID string
	text       string
	mediaURL   string
}

type fakeNotifier struct {
	notified []notification
}

func (n *fakeNotifier) SupportMessage(_ context.Context, user *users.User, text, mediaURL, _ string) {
	n.notified = append(n.notified, notification{
		telegramID: user.TelegramID,
		text:       text,
		mediaURL:   mediaURL,
	})
}

func newTestService(storage Storage, userSvc UserService, gateway Gateway, notifier Notifier) *Service {
	return NewService(storage, userSvc, gateway, notifier, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestHandleIncomingTextMessage(t *testing.T) {
	storage := &memStorage{}
	userSvc := &memUserService{}
	notifier := &fakeNotifier{}
	svc := newTestService(storage, userSvc, &fakeGateway{}, notifier)

	err := svc.HandleIncoming(context.Background(), Incoming{
		TelegramID: "100500",
		FirstName:  "Jane",
		Text:       "where is my order?",
	})

	require.NoError(t, err)
	require.Len(t, storage.messages, 1)
	assert.Equal(t, "100500", storage.messages[0].UserID)
	assert.Equal(t, "where is my order?", storage.messages[0].Message)
	assert.False(t, storage.messages[0].IsFromAdmin)
	assert.True(t, userSvc.unread["100500"])
	require.Len(t, notifier.notified, 1)
	assert.Equal(t, "100500", notifier.notified[0].telegramID)
}

func TestHandleIncomingResolvesMedia(t *testing.T) {
	storage := &memStorage{}
	gateway := &fakeGateway{fileURLs: map[string]string{"file-1": "https://api.telegram.org/file/photo.jpg"}}
	svc := newTestService(storage, &memUserService{}, gateway, &fakeNotifier{})

	err := svc.HandleIncoming(context.Background(), Incoming{
		TelegramID:  "100500",
		Text:        "look",
		PhotoFileID: "file-1",
	})

	require.NoError(t, err)
	require.Len(t, storage.messages, 1)
	require.NotNil(t, storage.messages[0].MediaURL)
	assert.Equal(t, "https://api.telegram.org/file/photo.jpg", *storage.messages[0].MediaURL)
	require.NotNil(t, storage.messages[0].MediaType)
	assert.Equal(t, "photo", *storage.messages[0].MediaType)
}

func TestHandleIncomingMediaFailureDegradesToText(t *testing.T) {
	storage := &memStorage{}
	gateway := &fakeGateway{fileErr: errors.New("file expired")}
	svc := newTestService(storage, &memUserService{}, gateway, &fakeNotifier{})

	err := svc.HandleIncoming(context.Background(), Incoming{
		TelegramID:  "100500",
		Text:        "look",
		PhotoFileID: "file-1",
	})

	require.NoError(t, err)
	require.Len(t, storage.messages, 1)
	assert.Nil(t, storage.messages[0].MediaURL)
	assert.Equal(t, "look", storage.messages[0].Message)
}

func TestSendToUserTextReply(t *testing.T) {
	storage := &memStorage{}
	gateway := &fakeGateway{}
	svc := newTestService(storage, &memUserService{}, gateway, &fakeNotifier{})

	saved, err := svc.SendToUser(context.Background(), "100500", "your order shipped", "", "", nil)

	require.NoError(t, err)
	assert.True(t, saved.IsFromAdmin)
	assert.True(t, saved.IsRead)
	require.Len(t, gateway.messages, 1)
	assert.Contains(t, gateway.messages[0], "your order shipped")
	assert.Equal(t, []int64{100500}, gateway.chatIDs)
}

func TestSendToUserPhotoReply(t *testing.T) {
	storage := &memStorage{}
	gateway := &fakeGateway{}
	svc := newTestService(storage, &memUserService{}, gateway, &fakeNotifier{})

	_, err := svc.SendToUser(context.Background(), "100500", "here you go", "https://cdn/pic.jpg", "photo", nil)

	require.NoError(t, err)
	assert.Equal(t, []string{"https://cdn/pic.jpg"}, gateway.photos)
	assert.Empty(t, gateway.messages)
}

func TestSendToUserRequiresContent(t *testing.T) {
	svc := newTestService(&memStorage{}, &memUserService{}, &fakeGateway{}, &fakeNotifier{})

	_, err := svc.SendToUser(context.Background(), "100500", "", "", "", nil)

	assert.Error(t, err)
}

func TestSendToUserRejectsBadTelegramID(t *testing.T) {
	svc := newTestService(&memStorage{}, &memUserService{}, &fakeGateway{}, &fakeNotifier{})

	_, err := svc.SendToUser(context.Background(), "not-a-number", "hi", "", "", nil)

	assert.Error(t, err)
}

func TestMessagesMarksRead(t *testing.T) {
	storage := &memStorage{}
	userSvc := &memUserService{}
	svc := newTestService(storage, userSvc, &fakeGateway{}, &fakeNotifier{})

	require.NoError(t, svc.HandleIncoming(context.Background(), Incoming{TelegramID: "100500", Text: "hi"}))

	list, err := svc.Messages(context.Background(), "100500", 50, nil)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, storage.messages[0].IsRead)
	assert.False(t, userSvc.unread["100500"])
}
