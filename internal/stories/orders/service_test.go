package orders

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-bot/internal/stories/products"
	"storefront-bot/internal/stories/users"
)

type fakeStorage struct {
	orders    map[string]*Order
	products  map[string]*products.Product
	bundles   map[string]*products.Bundle
	users     map[int64]*users.User
	confirmed map[string]string
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{
		orders:    make(map[string]*Order),
		products:  make(map[string]*products.Product),
		bundles:   make(map[string]*products.Bundle),
		users:     make(map[int64]*users.User),
		confirmed: make(map[string]string),
	}
}

func (f *fakeStorage) CreateOrder(_ context.Context, order Order) (*Order, error) {
	stored := order
	f.orders[order.ID] = &stored
	return &stored, nil
}

func (f *fakeStorage) GetOrder(_ context.Context, criteria GetCriteria) (*Order, error) {
	if criteria.ID == nil {
		return nil, nil
	}
	return f.orders[*criteria.ID], nil
}

func (f *fakeStorage) ListOrders(_ context.Context, criteria ListCriteria) ([]*Order, error) {
	var result []*Order
	for _, o := range f.orders {
		if criteria.UserID != nil && o.UserID != *criteria.UserID {
			continue
		}
		result = append(result, o)
	}
	return result, nil
}

func (f *fakeStorage) UpdateOrder(_ context.Context, id string, params UpdateParams) (*Order, error) {
	order := f.orders[id]
	if order == nil {
		return nil, nil
	}
	if params.Status != nil {
		order.Status = *params.Status
	}
	if params.PaymentStatus != nil {
		order.PaymentStatus = *params.PaymentStatus
	}
	if params.Screenshot != nil {
		order.Screenshot = params.Screenshot
	}
	return order, nil
}

func (f *fakeStorage) ConfirmOrderPayment(_ context.Context, id string, chargeID string) (bool, error) {
	order := f.orders[id]
	if order == nil || order.PaymentStatus == PaymentConfirmed {
		return false, nil
	}
	order.PaymentStatus = PaymentConfirmed
	order.Status = StatusProcessing
	f.confirmed[id] = chargeID
	return true, nil
}

func (f *fakeStorage) GetProduct(_ context.Context, criteria products.GetCriteria) (*products.Product, error) {
	if criteria.ID == nil {
		return nil, nil
	}
	return f.products[*criteria.ID], nil
}

func (f *fakeStorage) GetBundle(_ context.Context, criteria products.GetCriteria) (*products.Bundle, error) {
	if criteria.ID == nil {
		return nil, nil
	}
	return f.bundles[*criteria.ID], nil
}

func (f *fakeStorage) GetUser(_ context.Context, criteria users.GetCriteria) (*users.User, error) {
	if criteria.ID == nil {
		return nil, nil
	}
	return f.users[*criteria.ID], nil
}

type fakeUserService struct {
	user *users.User
}

func (f *fakeUserService) GetOrCreateByTelegramID(_ context.Context, telegramID string) (*users.User, error) {
	return f.user, nil
}

type fakeDispatcher struct {
	dispatched []string
	chatIDs    []int64
}

func (f *fakeDispatcher) Dispatch(_ context.Context, order *Order, chatID int64) {
	f.dispatched = append(f.dispatched, order.ID)
	f.chatIDs = append(f.chatIDs, chatID)
}

type fakeNotifier struct {
	created   []string
	confirmed []string
}

func (f *fakeNotifier) OrderCreated(_ context.Context, order *Order, _ *users.User) {
	f.created = append(f.created, order.ID)
}

func (f *fakeNotifier) PaymentConfirmed(_ context.Context, order *Order, _ string) {
	f.confirmed = append(f.confirmed, order.ID)
}

type testEnv struct {
	storage    *fakeStorage
	dispatcher *fakeDispatcher
	notifier   *fakeNotifier
	svc        *Service
}

func newTestEnv() *testEnv {
	storage := newFakeStorage()
	buyer := &users.User{ID: 7, TelegramID: "100500"}
	storage.users[buyer.ID] = buyer

	dispatcher := &fakeDispatcher{}
	notifier := &fakeNotifier{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return &testEnv{
		storage:    storage,
		dispatcher: dispatcher,
		notifier:   notifier,
		svc:        NewService(storage, &fakeUserService{user: buyer}, dispatcher, notifier, logger),
	}
}

func TestCreateOrderProduct(t *testing.T) {
	env := newTestEnv()
	env.storage.products["p1"] = &products.Product{ID: "p1", Name: "Photo Set", Price: 29.99}
	env.storage.products["p2"] = &products.Product{ID: "p2", Name: "Print", Price: 49.99}

	order, err := env.svc.CreateOrder(context.Background(), CreateRequest{
		TelegramID: "100500",
		OrderType:  TypeProduct,
		Items: []ItemRequest{
			{Kind: ItemProduct, ID: "p1", Quantity: 2},
			{Kind: ItemProduct, ID: "p2"},
		},
	})

	require.NoError(t, err)
	assert.NotEmpty(t, order.ID)
	assert.Equal(t, StatusPending, order.Status)
	assert.Equal(t, PaymentPending, order.PaymentStatus)
	assert.InDelta(t, 2*29.99+49.99, order.TotalAmount, 0.001)
	require.Len(t, order.Items, 2)
	assert.Equal(t, 2, order.Items[0].Quantity)
	assert.Equal(t, 1, order.Items[1].Quantity)
	assert.Equal(t, []string{order.ID}, env.notifier.created)
}

func TestCreateOrderSkipsMissingItems(t *testing.T) {
	env := newTestEnv()
	env.storage.products["p1"] = &products.Product{ID: "p1", Price: 10}

	order, err := env.svc.CreateOrder(context.Background(), CreateRequest{
		TelegramID: "100500",
		OrderType:  TypeProduct,
		Items: []ItemRequest{
			{Kind: ItemProduct, ID: "p1", Quantity: 1},
			{Kind: ItemProduct, ID: "ghost", Quantity: 3},
		},
	})

	require.NoError(t, err)
	require.Len(t, order.Items, 1)
	assert.InDelta(t, 10.0, order.TotalAmount, 0.001)
}

func TestCreateOrderAllItemsMissing(t *testing.T) {
	env := newTestEnv()

	_, err := env.svc.CreateOrder(context.Background(), CreateRequest{
		TelegramID: "100500",
		OrderType:  TypeProduct,
		Items:      []ItemRequest{{Kind: ItemProduct, ID: "ghost"}},
	})

	assert.ErrorIs(t, err, ErrValidation)
}

func TestCreateOrderBundleQuantityIsOne(t *testing.T) {
	env := newTestEnv()
	env.storage.bundles["b1"] = &products.Bundle{ID: "b1", Price: 99.99}

	order, err := env.svc.CreateOrder(context.Background(), CreateRequest{
		TelegramID: "100500",
		OrderType:  TypeBundle,
		Items:      []ItemRequest{{Kind: ItemBundle, ID: "b1", Quantity: 5}},
	})

	require.NoError(t, err)
	require.Len(t, order.Items, 1)
	assert.Equal(t, 1, order.Items[0].Quantity)
	assert.InDelta(t, 99.99, order.TotalAmount, 0.001)
}

func TestCreateOrderDonation(t *testing.T) {
	env := newTestEnv()

	order, err := env.svc.CreateOrder(context.Background(), CreateRequest{
		TelegramID:      "100500",
		OrderType:       TypeDonation,
		DonationAmount:  15,
		DonationMessage: "keep it up",
	})

	require.NoError(t, err)
	assert.InDelta(t, 15.0, order.TotalAmount, 0.001)
	require.NotNil(t, order.DonationMessage)
	assert.Equal(t, "keep it up", *order.DonationMessage)
}

func TestCreateOrderDonationRequiresAmount(t *testing.T) {
	env := newTestEnv()

	_, err := env.svc.CreateOrder(context.Background(), CreateRequest{
		TelegramID: "100500",
		OrderType:  TypeDonation,
	})

	assert.ErrorIs(t, err, ErrValidation)
}

func TestCreateOrderServiceTypeUsesTariff(t *testing.T) {
	env := newTestEnv()

	order, err := env.svc.CreateOrder(context.Background(), CreateRequest{
		TelegramID: "100500",
		OrderType:  TypeVIP,
		SubType:    "YEARLY",
	})

	require.NoError(t, err)
	assert.InDelta(t, 449.99, order.TotalAmount, 0.001)
	require.NotNil(t, order.Metadata)
	assert.Equal(t, "YEARLY", *order.Metadata)
}

func TestCreateOrderServiceTypeDefaultsTier(t *testing.T) {
	env := newTestEnv()

	order, err := env.svc.CreateOrder(context.Background(), CreateRequest{
		TelegramID: "100500",
		OrderType:  TypeVideoCall,
	})

	require.NoError(t, err)
	assert.InDelta(t, 79.99, order.TotalAmount, 0.001)
	require.NotNil(t, order.Metadata)
	assert.Equal(t, "CALL_15", *order.Metadata)
}

func TestCreateOrderRejectsUnknownType(t *testing.T) {
	env := newTestEnv()

	_, err := env.svc.CreateOrder(context.Background(), CreateRequest{
		TelegramID: "100500",
		OrderType:  "GIFT_CARD",
	})

	assert.ErrorIs(t, err, ErrValidation)
}

func TestUpdatePaymentStatusConfirmedFulfillsOnce(t *testing.T) {
	env := newTestEnv()
	env.storage.products["p1"] = &products.Product{ID: "p1", Price: 10}

	order, err := env.svc.CreateOrder(context.Background(), CreateRequest{
		TelegramID: "100500",
		OrderType:  TypeProduct,
		Items:      []ItemRequest{{Kind: ItemProduct, ID: "p1"}},
	})
	require.NoError(t, err)

	updated, err := env.svc.UpdatePaymentStatus(context.Background(), order.ID, PaymentConfirmed)
	require.NoError(t, err)
	assert.Equal(t, PaymentConfirmed, updated.PaymentStatus)
	assert.Equal(t, StatusProcessing, updated.Status)

	_, err = env.svc.UpdatePaymentStatus(context.Background(), order.ID, PaymentConfirmed)
	require.NoError(t, err)

	assert.Equal(t, []string{order.ID}, env.dispatcher.dispatched)
	assert.Equal(t, []int64{100500}, env.dispatcher.chatIDs)
	assert.Equal(t, []string{order.ID}, env.notifier.confirmed)
}

func TestUpdatePaymentStatusNonConfirming(t *testing.T) {
	env := newTestEnv()
	env.storage.products["p1"] = &products.Product{ID: "p1", Price: 10}

	order, err := env.svc.CreateOrder(context.Background(), CreateRequest{
		TelegramID: "100500",
		OrderType:  TypeProduct,
		Items:      []ItemRequest{{Kind: ItemProduct, ID: "p1"}},
	})
	require.NoError(t, err)

	updated, err := env.svc.UpdatePaymentStatus(context.Background(), order.ID, PaymentAwaitingCheck)
	require.NoError(t, err)
	assert.Equal(t, PaymentAwaitingCheck, updated.PaymentStatus)
	assert.Empty(t, env.dispatcher.dispatched)
}

func TestUpdateStatusDoesNotTouchPayment(t *testing.T) {
	env := newTestEnv()
	env.storage.products["p1"] = &products.Product{ID: "p1", Price: 10}

	order, err := env.svc.CreateOrder(context.Background(), CreateRequest{
		TelegramID: "100500",
		OrderType:  TypeProduct,
		Items:      []ItemRequest{{Kind: ItemProduct, ID: "p1"}},
	})
	require.NoError(t, err)

	updated, err := env.svc.UpdateStatus(context.Background(), order.ID, StatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, updated.Status)
	assert.Equal(t, PaymentPending, updated.PaymentStatus)
}

func TestGetOrderNotFound(t *testing.T) {
	env := newTestEnv()

	_, err := env.svc.GetOrder(context.Background(), "ghost")

	assert.ErrorIs(t, err, ErrNotFound)
}
