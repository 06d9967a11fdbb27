package orders

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/google/uuid"

	"storefront-bot/internal/metrics"
	"storefront-bot/internal/stories/products"
	"storefront-bot/internal/stories/tariffs"
	"storefront-bot/internal/stories/users"
)

var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("order not found")
)

// Service is the order lifecycle manager: it creates orders, computes totals
// per order type and applies status transitions.
type Service struct {
	storage    Storage
	userSvc    UserService
	dispatcher Dispatcher
	notifier   Notifier
	logger     *slog.Logger
}

func NewService(storage Storage, userSvc UserService, dispatcher Dispatcher, notifier Notifier, logger *slog.Logger) *Service {
	return &Service{
		storage:    storage,
		userSvc:    userSvc,
		dispatcher: dispatcher,
		notifier:   notifier,
		logger:     logger,
	}
}

// CreateOrder resolves the buyer, prices the order per its type and persists
// it atomically. Admin notification is best-effort and never fails creation.
func (s *Service) CreateOrder(ctx context.Context, req CreateRequest) (*Order, error) {
	if req.TelegramID == "" {
		return nil, fmt.Errorf("%w: telegram id is required", ErrValidation)
	}
	if !req.OrderType.Valid() {
		return nil, fmt.Errorf("%w: unknown order type %q", ErrValidation, req.OrderType)
	}

	user, err := s.userSvc.GetOrCreateByTelegramID(ctx, req.TelegramID)
	if err != nil {
		return nil, fmt.Errorf("resolve user: %w", err)
	}

	order := Order{
		ID:            uuid.NewString(),
		UserID:        user.ID,
		OrderType:     req.OrderType,
		Status:        StatusPending,
		PaymentStatus: PaymentPending,
		PaymentMethod: req.PaymentMethod,
		Shipping:      req.Shipping,
	}

	switch req.OrderType {
	case TypeProduct, TypeBundle:
		items, total, err := s.priceItems(ctx, req.Items)
		if err != nil {
			return nil, err
		}
		order.Items = items
		order.TotalAmount = total

	case TypeDonation:
		if req.DonationAmount <= 0 {
			return nil, fmt.Errorf("%w: donation amount must be positive", ErrValidation)
		}
		order.TotalAmount = req.DonationAmount
		if req.DonationMessage != "" {
			msg := req.DonationMessage
			order.DonationMessage = &msg
		}

	default:
		tariff, err := tariffs.Resolve(string(req.OrderType), req.SubType)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrValidation, err)
		}
		order.TotalAmount = tariff.Price
		subType := tariff.SubType
		order.Metadata = &subType
	}

	created, err := s.storage.CreateOrder(ctx, order)
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	metrics.OrdersCreated.WithLabelValues(string(created.OrderType)).Inc()
	s.logger.Info("order created",
		"order_id", created.ID,
		"order_type", created.OrderType,
		"total_amount", created.TotalAmount,
		"user_id", created.UserID,
	)

	s.notifier.OrderCreated(ctx, created, user)

	return created, nil
}

// priceItems snapshots current catalog prices into order items. Items whose
// referenced product or bundle no longer exists are skipped, not fatal.
func (s *Service) priceItems(ctx context.Context, reqs []ItemRequest) ([]OrderItem, float64, error) {
	var (
		items []OrderItem
		total float64
	)

	for _, item := range reqs {
		quantity := item.Quantity
		if quantity < 1 {
			quantity = 1
		}

		switch item.Kind {
		case ItemProduct:
			product, err := s.storage.GetProduct(ctx, products.GetCriteria{ID: &item.ID})
			if err != nil {
				return nil, 0, fmt.Errorf("get product: %w", err)
			}
			if product == nil {
				s.logger.Warn("skipping order item: product not found", "product_id", item.ID)
				continue
			}
			total += product.Price * float64(quantity)
			id := product.ID
			items = append(items, OrderItem{
				ProductID: &id,
				Quantity:  quantity,
				Price:     product.Price,
			})

		case ItemBundle:
			bundle, err := s.storage.GetBundle(ctx, products.GetCriteria{ID: &item.ID})
			if err != nil {
				return nil, 0, fmt.Errorf("get bundle: %w", err)
			}
			if bundle == nil {
				s.logger.Warn("skipping order item: bundle not found", "bundle_id", item.ID)
				continue
			}
			// Bundles are always quantity 1.
			total += bundle.Price
			id := bundle.ID
			items = append(items, OrderItem{
				BundleID: &id,
				Quantity: 1,
				Price:    bundle.Price,
			})

		default:
			s.logger.Warn("skipping order item: unknown kind", "kind", item.Kind)
		}
	}

	if len(items) == 0 {
		return nil, 0, fmt.Errorf("%w: order has no valid items", ErrValidation)
	}

	return items, total, nil
}

func (s *Service) GetOrder(ctx context.Context, id string) (*Order, error) {
	order, err := s.storage.GetOrder(ctx, GetCriteria{ID: &id, WithItems: true})
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrNotFound
	}
	return order, nil
}

func (s *Service) ListUserOrders(ctx context.Context, userID int64, limit, offset int) ([]*Order, error) {
	return s.storage.ListOrders(ctx, ListCriteria{
		UserID: &userID,
		Limit:  limit,
		Offset: offset,
	})
}

// UpdateStatus moves the order through its lifecycle. It never touches the
// payment status.
func (s *Service) UpdateStatus(ctx context.Context, orderID string, status Status) (*Order, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, status)
	}

	existing, err := s.storage.GetOrder(ctx, GetCriteria{ID: &orderID})
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrNotFound
	}

	return s.storage.UpdateOrder(ctx, orderID, UpdateParams{Status: &status})
}

// UpdatePaymentStatus applies a payment status transition. The CONFIRMED
// transition runs fulfillment exactly once: the guard is a conditional store
// write keyed on the previous value, so confirming an already confirmed order
// succeeds as a status write but dispatches nothing.
func (s *Service) UpdatePaymentStatus(ctx context.Context, orderID string, status PaymentStatus) (*Order, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown payment status %q", ErrValidation, status)
	}

	existing, err := s.storage.GetOrder(ctx, GetCriteria{ID: &orderID})
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrNotFound
	}

	if status != PaymentConfirmed {
		return s.storage.UpdateOrder(ctx, orderID, UpdateParams{PaymentStatus: &status})
	}

	won, err := s.storage.ConfirmOrderPayment(ctx, orderID, "")
	if err != nil {
		return nil, err
	}

	order, err := s.storage.GetOrder(ctx, GetCriteria{ID: &orderID, WithItems: true})
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrNotFound
	}

	if won {
		s.fulfill(ctx, order)
	}

	return order, nil
}

// fulfill resolves the destination chat and hands the confirmed order to the
// dispatcher. Delivery failures are the dispatcher's to log; nothing here
// rolls back the committed state change.
func (s *Service) fulfill(ctx context.Context, order *Order) {
	user, err := s.storage.GetUser(ctx, users.GetCriteria{ID: &order.UserID})
	if err != nil || user == nil {
		s.logger.Error("fulfillment skipped: owner lookup failed",
			"order_id", order.ID, "user_id", order.UserID, "error", err)
		return
	}

	chatID, err := strconv.ParseInt(user.TelegramID, 10, 64)
	if err != nil {
		s.logger.Error("fulfillment skipped: bad telegram id",
			"order_id", order.ID, "telegram_id", user.TelegramID)
		return
	}

	metrics.PaymentsConfirmed.Inc()
	s.dispatcher.Dispatch(ctx, order, chatID)
	s.notifier.PaymentConfirmed(ctx, order, user.TelegramID)
}
