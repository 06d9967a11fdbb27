package telegram

import (
	"context"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-bot/internal/stories/support"
)

type stubSupportService struct {
	incoming []support.Incoming
}

func (s *stubSupportService) HandleIncoming(_ context.Context, in support.Incoming) error {
	s.incoming = append(s.incoming, in)
	return nil
}

type stubSender struct {
	texts   []string
	chatIDs []int64
}

func (s *stubSender) SendMessage(_ context.Context, chatID int64, text string) error {
	s.chatIDs = append(s.chatIDs, chatID)
	s.texts = append(s.texts, text)
	return nil
}

func newTestRouter() (*Router, *stubPaymentService, *stubSupportService, *stubSender) {
	paymentSvc := &stubPaymentService{}
	supportSvc := &stubSupportService{}
	sender := &stubSender{}
	return NewRouter(paymentSvc, supportSvc, sender, testLogger()), paymentSvc, supportSvc, sender
}

func TestRoutePreCheckoutQuery(t *testing.T) {
	router, paymentSvc, _, _ := newTestRouter()

	err := router.Route(&tgbotapi.Update{
		PreCheckoutQuery: &tgbotapi.PreCheckoutQuery{
			ID:             "q1",
			From:           &tgbotapi.User{ID: 42},
			Currency:       "USD",
			TotalAmount:    4999,
			InvoicePayload: `{"orderId":"ord-1"}`,
		},
	})

	require.NoError(t, err)
	require.Len(t, paymentSvc.preCheckouts, 1)
	assert.Equal(t, "q1", paymentSvc.preCheckouts[0].QueryID)
	assert.Equal(t, int64(42), paymentSvc.preCheckouts[0].From)
}

func TestRouteSuccessfulPayment(t *testing.T) {
	router, paymentSvc, supportSvc, _ := newTestRouter()

	err := router.Route(&tgbotapi.Update{
		Message: &tgbotapi.Message{
			Chat: &tgbotapi.Chat{ID: 42},
			From: &tgbotapi.User{ID: 42},
			SuccessfulPayment: &tgbotapi.SuccessfulPayment{
				Currency:                "USD",
				TotalAmount:             4999,
				InvoicePayload:          `{"orderId":"ord-1"}`,
				TelegramPaymentChargeID: "charge-1",
			},
		},
	})

	require.NoError(t, err)
	require.Len(t, paymentSvc.payments, 1)
	assert.Equal(t, "charge-1", paymentSvc.payments[0].ChargeID)
	assert.Empty(t, supportSvc.incoming)
}

func TestRouteStartCommand(t *testing.T) {
	router, _, supportSvc, sender := newTestRouter()

	err := router.Route(&tgbotapi.Update{
		Message: &tgbotapi.Message{
			Chat: &tgbotapi.Chat{ID: 42},
			From: &tgbotapi.User{ID: 42},
			Text: "/start",
			Entities: []tgbotapi.MessageEntity{
				{Type: "bot_command", Offset: 0, Length: 6},
			},
		},
	})

	require.NoError(t, err)
	require.Len(t, sender.texts, 1)
	assert.Contains(t, sender.texts[0], "Welcome")
	assert.Equal(t, []int64{42}, sender.chatIDs)
	assert.Empty(t, supportSvc.incoming)
}

func TestRouteTextGoesToSupport(t *testing.T) {
	router, _, supportSvc, _ := newTestRouter()

	err := router.Route(&tgbotapi.Update{
		Message: &tgbotapi.Message{
			Chat: &tgbotapi.Chat{ID: 42},
			From: &tgbotapi.User{ID: 42, FirstName: "Jane", UserName: "jane"},
			Text: "where is my order?",
		},
	})

	require.NoError(t, err)
	require.Len(t, supportSvc.incoming, 1)
	in := supportSvc.incoming[0]
	assert.Equal(t, "42", in.TelegramID)
	assert.Equal(t, "Jane", in.FirstName)
	assert.Equal(t, "where is my order?", in.Text)
}

func TestRoutePhotoMessage(t *testing.T) {
	router, _, supportSvc, _ := newTestRouter()

	err := router.Route(&tgbotapi.Update{
		Message: &tgbotapi.Message{
			Chat:    &tgbotapi.Chat{ID: 42},
			From:    &tgbotapi.User{ID: 42},
			Caption: "proof of payment",
			Photo: []tgbotapi.PhotoSize{
				{FileID: "small"},
				{FileID: "large"},
			},
		},
	})

	require.NoError(t, err)
	require.Len(t, supportSvc.incoming, 1)
	assert.Equal(t, "large", supportSvc.incoming[0].PhotoFileID)
	assert.Equal(t, "proof of payment", supportSvc.incoming[0].Text)
}

func TestRouteIgnoresEmptyUpdates(t *testing.T) {
	router, paymentSvc, supportSvc, sender := newTestRouter()

	require.NoError(t, router.Route(&tgbotapi.Update{}))

	assert.Empty(t, paymentSvc.preCheckouts)
	assert.Empty(t, supportSvc.incoming)
	assert.Empty(t, sender.texts)
}
