package payment

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-bot/internal/infra/telegram"
	"storefront-bot/internal/stories/orders"
)

type stubStorage struct {
	orders    map[string]*orders.Order
	confirmed map[string]string
	getErr    error
}

func newStubStorage(orderList ...*orders.Order) *stubStorage {
	s := &stubStorage{
		orders:    make(map[string]*orders.Order),
		confirmed: make(map[string]string),
	}
	for _, o := range orderList {
		s.orders[o.ID] = o
	}
	return s
}

func (s *stubStorage) GetOrder(_ context.Context, criteria orders.GetCriteria) (*orders.Order, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	if criteria.ID == nil {
		return nil, nil
	}
	return s.orders[*criteria.ID], nil
}

func (s *stubStorage) ConfirmOrderPayment(_ context.Context, id string, chargeID string) (bool, error) {
	order, ok := s.orders[id]
	if !ok {
		return false, nil
	}
	if order.PaymentStatus == orders.PaymentConfirmed {
		return false, nil
	}
	order.PaymentStatus = orders.PaymentConfirmed
	order.Status = orders.StatusProcessing
	s.confirmed[id] = chargeID
	return true, nil
}

type answer struct {
	queryID string
	ok      bool
	message string
}

type stubGateway struct {
	invoiceURL    string
	invoiceParams []telegram.InvoiceParams
	answers       []answer
	answerErr     error
}

func (g *stubGateway) CreateInvoiceLink(_ context.Context, p telegram.InvoiceParams) (string, error) {
	g.invoiceParams = append(g.invoiceParams, p)
	return g.invoiceURL, nil
}

func (g *stubGateway) AnswerPreCheckout(_ context.Context, queryID string, ok bool, errorMessage string) error {
	g.answers = append(g.answers, answer{queryID: queryID, ok: ok, message: errorMessage})
	return g.answerErr
}

type dispatch struct {
	orderID string
	chatID  int64
}

type stubDispatcher struct {
	dispatched []dispatch
}

func (d *stubDispatcher) Dispatch(_ context.Context, order *orders.Order, chatID int64) {
	d.dispatched = append(d.dispatched, dispatch{orderID: order.ID, chatID: chatID})
}

type stubNotifier struct {
	confirmed []string
}

func (n *stubNotifier) PaymentConfirmed(_ context.Context, order *orders.Order, telegramID string) {
	n.confirmed = append(n.confirmed, order.ID)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestService(storage Storage, gateway Gateway, dispatcher Dispatcher, notifier Notifier) *Service {
	return NewService(storage, gateway, dispatcher, notifier, "USD", testLogger())
}

func pendingOrder(id string) *orders.Order {
	return &orders.Order{
		ID:            id,
		UserID:        1,
		OrderType:     orders.TypeProduct,
		TotalAmount:   49.99,
		Status:        orders.StatusPending,
		PaymentStatus: orders.PaymentPending,
	}
}

func mustPayload(t *testing.T, orderID string) string {
	t.Helper()
	payload, err := encodePayload(orderID)
	require.NoError(t, err)
	return payload
}

func TestCreateInvoice(t *testing.T) {
	order := pendingOrder("ord-1")
	storage := newStubStorage(order)
	gateway := &stubGateway{invoiceURL: "https://t.me/invoice/abc"}
	svc := newTestService(storage, gateway, &stubDispatcher{}, &stubNotifier{})

	url, err := svc.CreateInvoice(context.Background(), "ord-1")

	require.NoError(t, err)
	assert.Equal(t, "https://t.me/invoice/abc", url)
	require.Len(t, gateway.invoiceParams, 1)

	p := gateway.invoiceParams[0]
	assert.Equal(t, "USD", p.Currency)
	assert.Equal(t, int64(4999), p.Amount)

	orderID, ok := decodePayload(p.Payload)
	require.True(t, ok)
	assert.Equal(t, "ord-1", orderID)
}

func TestCreateInvoiceUnknownOrder(t *testing.T) {
	svc := newTestService(newStubStorage(), &stubGateway{}, &stubDispatcher{}, &stubNotifier{})

	_, err := svc.CreateInvoice(context.Background(), "missing")

	assert.ErrorIs(t, err, orders.ErrNotFound)
}

func TestProcessPreCheckoutApproves(t *testing.T) {
	gateway := &stubGateway{}
	svc := newTestService(newStubStorage(), gateway, &stubDispatcher{}, &stubNotifier{})

	svc.ProcessPreCheckout(context.Background(), PreCheckoutEvent{
		QueryID: "q1",
		Payload: mustPayload(t, "ord-1"),
	})

	require.Len(t, gateway.answers, 1)
	assert.Equal(t, "q1", gateway.answers[0].queryID)
	assert.True(t, gateway.answers[0].ok)
}

func TestProcessPreCheckoutRejectsMalformedPayload(t *testing.T) {
	storage := newStubStorage()
	gateway := &stubGateway{}
	svc := newTestService(storage, gateway, &stubDispatcher{}, &stubNotifier{})

	svc.ProcessPreCheckout(context.Background(), PreCheckoutEvent{
		QueryID: "q1",
		Payload: "not json",
	})

	require.Len(t, gateway.answers, 1)
	assert.False(t, gateway.answers[0].ok)
	assert.Equal(t, "Invalid order", gateway.answers[0].message)
	assert.Empty(t, storage.confirmed)
}

func TestProcessSuccessfulPaymentConfirmsAndFulfills(t *testing.T) {
	order := pendingOrder("ord-1")
	storage := newStubStorage(order)
	dispatcher := &stubDispatcher{}
	notifier := &stubNotifier{}
	svc := newTestService(storage, &stubGateway{}, dispatcher, notifier)

	err := svc.ProcessSuccessfulPayment(context.Background(), PaymentEvent{
		Payload:  mustPayload(t, "ord-1"),
		ChargeID: "charge-1",
		From:     42,
	})

	require.NoError(t, err)
	assert.Equal(t, "charge-1", storage.confirmed["ord-1"])
	require.Len(t, dispatcher.dispatched, 1)
	assert.Equal(t, int64(42), dispatcher.dispatched[0].chatID)
	assert.Equal(t, []string{"ord-1"}, notifier.confirmed)
}

func TestProcessSuccessfulPaymentRedelivery(t *testing.T) {
	order := pendingOrder("ord-1")
	storage := newStubStorage(order)
	dispatcher := &stubDispatcher{}
	notifier := &stubNotifier{}
	svc := newTestService(storage, &stubGateway{}, dispatcher, notifier)

	ev := PaymentEvent{
		Payload:  mustPayload(t, "ord-1"),
		ChargeID: "charge-1",
		From:     42,
	}

	require.NoError(t, svc.ProcessSuccessfulPayment(context.Background(), ev))
	require.NoError(t, svc.ProcessSuccessfulPayment(context.Background(), ev))

	// Second delivery is acknowledged but fulfillment runs once.
	assert.Len(t, dispatcher.dispatched, 1)
	assert.Len(t, notifier.confirmed, 1)
}

func TestProcessSuccessfulPaymentUnknownOrder(t *testing.T) {
	storage := newStubStorage()
	dispatcher := &stubDispatcher{}
	svc := newTestService(storage, &stubGateway{}, dispatcher, &stubNotifier{})

	err := svc.ProcessSuccessfulPayment(context.Background(), PaymentEvent{
		Payload:  mustPayload(t, "ghost"),
		ChargeID: "charge-1",
	})

	require.NoError(t, err)
	assert.Empty(t, storage.confirmed)
	assert.Empty(t, dispatcher.dispatched)
}

func TestProcessSuccessfulPaymentCancelledOrder(t *testing.T) {
	order := pendingOrder("ord-1")
	order.Status = orders.StatusCancelled
	storage := newStubStorage(order)
	dispatcher := &stubDispatcher{}
	svc := newTestService(storage, &stubGateway{}, dispatcher, &stubNotifier{})

	err := svc.ProcessSuccessfulPayment(context.Background(), PaymentEvent{
		Payload:  mustPayload(t, "ord-1"),
		ChargeID: "charge-1",
	})

	require.NoError(t, err)
	assert.Empty(t, storage.confirmed)
	assert.Empty(t, dispatcher.dispatched)
	assert.Equal(t, orders.StatusCancelled, order.Status)
}

func TestProcessSuccessfulPaymentMalformedPayload(t *testing.T) {
	storage := newStubStorage()
	svc := newTestService(storage, &stubGateway{}, &stubDispatcher{}, &stubNotifier{})

	err := svc.ProcessSuccessfulPayment(context.Background(), PaymentEvent{
		Payload:  `{"orderId":""}`,
		ChargeID: "charge-1",
	})

	require.NoError(t, err)
	assert.Empty(t, storage.confirmed)
}

func TestProcessSuccessfulPaymentStoreFailure(t *testing.T) {
	storage := newStubStorage()
	storage.getErr = errors.New("disk on fire")
	svc := newTestService(storage, &stubGateway{}, &stubDispatcher{}, &stubNotifier{})

	err := svc.ProcessSuccessfulPayment(context.Background(), PaymentEvent{
		Payload:  mustPayload(t, "ord-1"),
		ChargeID: "charge-1",
	})

	// The one case redelivery can fix, so the transport must see it.
	require.Error(t, err)
}
