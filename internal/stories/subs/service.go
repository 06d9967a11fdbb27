package subs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/samber/lo"

	"storefront-bot/internal/stories/orders"
	"storefront-bot/internal/stories/tariffs"
)

// Service manages VIP subscriptions. Creating one also creates the VIP order
// that carries the payment for it.
type Service struct {
	storage  Storage
	userSvc  UserService
	orderSvc OrderService
	now      func() time.Time
	logger   *slog.Logger
}

func NewService(storage Storage, userSvc UserService, orderSvc OrderService, now func() time.Time, logger *slog.Logger) *Service {
	return &Service{
		storage:  storage,
		userSvc:  userSvc,
		orderSvc: orderSvc,
		now:      now,
		logger:   logger,
	}
}

// CreateSubscription creates an ACTIVE subscription for the plan and a
// linked VIP order priced from the tariff table.
func (s *Service) CreateSubscription(ctx context.Context, telegramID, planType string) (*Subscription, *orders.Order, error) {
	tariff, err := tariffs.Resolve(tariffs.KindVIP, planType)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", orders.ErrValidation, err)
	}

	user, err := s.userSvc.GetOrCreateByTelegramID(ctx, telegramID)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve user: %w", err)
	}

	start := s.now()
	sub, err := s.storage.CreateSubscription(ctx, Subscription{
		UserID:    user.ID,
		PlanType:  tariff.SubType,
		Price:     tariff.Price,
		Status:    StatusActive,
		StartDate: start,
		EndDate:   start.AddDate(0, tariffs.VIPPlanMonths(tariff.SubType), 0),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("create subscription: %w", err)
	}

	order, err := s.orderSvc.CreateOrder(ctx, orders.CreateRequest{
		TelegramID: telegramID,
		OrderType:  orders.TypeVIP,
		SubType:    tariff.SubType,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("create vip order: %w", err)
	}

	s.logger.Info("subscription created",
		"subscription_id", sub.ID,
		"plan", sub.PlanType,
		"order_id", order.ID,
	)

	return sub, order, nil
}

func (s *Service) ListUserSubscriptions(ctx context.Context, userID int64) ([]*Subscription, error) {
	return s.storage.ListSubscriptions(ctx, ListCriteria{
		UserID: &userID,
	})
}

func (s *Service) ListActiveSubscriptions(ctx context.Context, userID int64) ([]*Subscription, error) {
	return s.storage.ListSubscriptions(ctx, ListCriteria{
		UserID: &userID,
		Status: lo.ToPtr(StatusActive),
	})
}

// ExpireDue is the periodic sweep run by the expiry worker.
func (s *Service) ExpireDue(ctx context.Context) error {
	expired, err := s.storage.ExpireDueSubscriptions(ctx)
	if err != nil {
		return fmt.Errorf("expire subscriptions: %w", err)
	}
	if expired > 0 {
		s.logger.Info("subscriptions expired", "count", expired)
	}
	return nil
}
