package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"storefront-bot/internal/stories/orders"
	"storefront-bot/internal/stories/products"
)

const (
	ordersTable     = "orders"
	orderItemsTable = "order_items"
)

var (
	orderRowFields     = fields(orderRow{})
	orderItemRowFields = fields(orderItemRow{})
)

type orderRow struct {
	ID              string         `db:"id"`
	UserID          int64          `db:"user_id"`
	OrderType       string         `db:"order_type"`
	TotalAmount     float64        `db:"total_amount"`
	Status          string         `db:"status"`
	PaymentStatus   string         `db:"payment_status"`
	PaymentMethod   string         `db:"payment_method"`
	PaymentChargeID sql.NullString `db:"payment_charge_id"`
	Screenshot      sql.NullString `db:"screenshot"`
	DonationMessage sql.NullString `db:"donation_message"`
	Metadata        sql.NullString `db:"metadata"`
	FirstName       sql.NullString `db:"first_name"`
	Address         sql.NullString `db:"address"`
	City            sql.NullString `db:"city"`
	ZipCode         sql.NullString `db:"zip_code"`
	Country         sql.NullString `db:"country"`
	CreatedAt       time.Time      `db:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at"`
}

func (o orderRow) ToModel() *orders.Order {
	return &orders.Order{
		ID:              o.ID,
		UserID:          o.UserID,
		OrderType:       orders.Type(o.OrderType),
		TotalAmount:     o.TotalAmount,
		Status:          orders.Status(o.Status),
		PaymentStatus:   orders.PaymentStatus(o.PaymentStatus),
		PaymentMethod:   o.PaymentMethod,
		PaymentChargeID: nullableString(o.PaymentChargeID),
		Screenshot:      nullableString(o.Screenshot),
		DonationMessage: nullableString(o.DonationMessage),
		Metadata:        nullableString(o.Metadata),
		Shipping: orders.ShippingInfo{
			FirstName: nullableString(o.FirstName),
			Address:   nullableString(o.Address),
			City:      nullableString(o.City),
			ZipCode:   nullableString(o.ZipCode),
			Country:   nullableString(o.Country),
		},
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
}

type orderItemRow struct {
	ID        int64          `db:"id"`
	OrderID   string         `db:"order_id"`
	ProductID sql.NullString `db:"product_id"`
	BundleID  sql.NullString `db:"bundle_id"`
	Quantity  int            `db:"quantity"`
	Price     float64        `db:"price"`
}

func (i orderItemRow) ToModel() orders.OrderItem {
	return orders.OrderItem{
		ID:        i.ID,
		OrderID:   i.OrderID,
		ProductID: nullableString(i.ProductID),
		BundleID:  nullableString(i.BundleID),
		Quantity:  i.Quantity,
		Price:     i.Price,
	}
}

func nullableString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	return &v.String
}

func (s *storageImpl) CreateOrder(ctx context.Context, order orders.Order) (*orders.Order, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("db.BeginTxx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	params := map[string]interface{}{
		"id":             order.ID,
		"user_id":        order.UserID,
		"order_type":     string(order.OrderType),
		"total_amount":   order.TotalAmount,
		"status":         string(order.Status),
		"payment_status": string(order.PaymentStatus),
		"payment_method": order.PaymentMethod,
		"created_at":     s.now(),
		"updated_at":     s.now(),
	}
	if order.DonationMessage != nil {
		params["donation_message"] = *order.DonationMessage
	}
	if order.Metadata != nil {
		params["metadata"] = *order.Metadata
	}
	if order.Shipping.FirstName != nil {
		params["first_name"] = *order.Shipping.FirstName
	}
	if order.Shipping.Address != nil {
		params["address"] = *order.Shipping.Address
	}
	if order.Shipping.City != nil {
		params["city"] = *order.Shipping.City
	}
	if order.Shipping.ZipCode != nil {
		params["zip_code"] = *order.Shipping.ZipCode
	}
	if order.Shipping.Country != nil {
		params["country"] = *order.Shipping.Country
	}

	q, args, err := s.stmpBuilder().
		Insert(ordersTable).
		SetMap(params).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build sql query: %w", err)
	}

	if _, err := tx.ExecContext(ctx, q, args...); err != nil {
		return nil, fmt.Errorf("tx.ExecContext: %w", err)
	}

	for _, item := range order.Items {
		itemParams := map[string]interface{}{
			"order_id": order.ID,
			"quantity": item.Quantity,
			"price":    item.Price,
		}
		if item.ProductID != nil {
			itemParams["product_id"] = *item.ProductID
		}
		if item.BundleID != nil {
			itemParams["bundle_id"] = *item.BundleID
		}

		q, args, err := s.stmpBuilder().
			Insert(orderItemsTable).
			SetMap(itemParams).
			ToSql()
		if err != nil {
			return nil, fmt.Errorf("build sql query: %w", err)
		}

		if _, err := tx.ExecContext(ctx, q, args...); err != nil {
			return nil, fmt.Errorf("tx.ExecContext: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("tx.Commit: %w", err)
	}

	return s.GetOrder(ctx, orders.GetCriteria{ID: &order.ID, WithItems: true})
}

func (s *storageImpl) GetOrder(ctx context.Context, criteria orders.GetCriteria) (*orders.Order, error) {
	query := s.stmpBuilder().
		Select(orderRowFields).
		From(ordersTable).
		Limit(1)

	if criteria.ID != nil {
		query = query.Where(sq.Eq{"id": *criteria.ID})
	}

	q, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build sql query: %w", err)
	}

	var row orderRow
	err = s.db.GetContext(ctx, &row, q, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("db.GetContext: %w", err)
	}

	order := row.ToModel()

	if criteria.WithItems {
		order.Items, err = s.orderItems(ctx, order.ID)
		if err != nil {
			return nil, err
		}
	}

	return order, nil
}

// orderItems loads the item rows and hydrates the catalog entries they
// reference. Items pointing at since-deleted catalog rows keep nil refs.
func (s *storageImpl) orderItems(ctx context.Context, orderID string) ([]orders.OrderItem, error) {
	q, args, err := s.stmpBuilder().
		Select(orderItemRowFields).
		From(orderItemsTable).
		Where(sq.Eq{"order_id": orderID}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build sql query: %w", err)
	}

	var rows []orderItemRow
	if err := s.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, fmt.Errorf("db.SelectContext: %w", err)
	}

	items := make([]orders.OrderItem, 0, len(rows))
	for _, row := range rows {
		item := row.ToModel()

		if item.ProductID != nil {
			item.Product, err = s.GetProduct(ctx, products.GetCriteria{ID: item.ProductID})
			if err != nil {
				return nil, err
			}
		}
		if item.BundleID != nil {
			item.Bundle, err = s.GetBundle(ctx, products.GetCriteria{ID: item.BundleID})
			if err != nil {
				return nil, err
			}
		}

		items = append(items, item)
	}

	return items, nil
}

func (s *storageImpl) ListOrders(ctx context.Context, criteria orders.ListCriteria) ([]*orders.Order, error) {
	query := s.stmpBuilder().
		Select(orderRowFields).
		From(ordersTable).
		OrderBy("created_at DESC")

	if criteria.UserID != nil {
		query = query.Where(sq.Eq{"user_id": *criteria.UserID})
	}
	if criteria.Status != nil {
		query = query.Where(sq.Eq{"status": string(*criteria.Status)})
	}
	if criteria.Limit > 0 {
		query = query.Limit(uint64(criteria.Limit))
	}
	if criteria.Offset > 0 {
		query = query.Offset(uint64(criteria.Offset))
	}

	q, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build sql query: %w", err)
	}

	var rows []orderRow
	if err := s.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, fmt.Errorf("db.SelectContext: %w", err)
	}

	result := make([]*orders.Order, 0, len(rows))
	for _, row := range rows {
		order := row.ToModel()

		order.Items, err = s.orderItems(ctx, order.ID)
		if err != nil {
			return nil, err
		}

		result = append(result, order)
	}

	return result, nil
}

func (s *storageImpl) UpdateOrder(ctx context.Context, id string, params orders.UpdateParams) (*orders.Order, error) {
	query := s.stmpBuilder().
		Update(ordersTable).
		Set("updated_at", s.now()).
		Where(sq.Eq{"id": id})

	if params.Status != nil {
		query = query.Set("status", string(*params.Status))
	}
	if params.PaymentStatus != nil {
		query = query.Set("payment_status", string(*params.PaymentStatus))
	}
	if params.Screenshot != nil {
		query = query.Set("screenshot", *params.Screenshot)
	}

	q, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build sql query: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
		return nil, fmt.Errorf("db.ExecContext: %w", err)
	}

	return s.GetOrder(ctx, orders.GetCriteria{ID: &id, WithItems: true})
}

// ConfirmOrderPayment flips the order to paid exactly once. The WHERE guard
// makes concurrent confirmations race on a single row update, so only one
// caller ever observes rows affected.
func (s *storageImpl) ConfirmOrderPayment(ctx context.Context, id string, chargeID string) (bool, error) {
	q, args, err := s.stmpBuilder().
		Update(ordersTable).
		Set("payment_status", string(orders.PaymentConfirmed)).
		Set("status", string(orders.StatusProcessing)).
		Set("payment_charge_id", chargeID).
		Set("updated_at", s.now()).
		Where(sq.Eq{"id": id}).
		Where(sq.NotEq{"payment_status": string(orders.PaymentConfirmed)}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build sql query: %w", err)
	}

	result, err := s.db.ExecContext(ctx, q, args...)
	if err != nil {
		return false, fmt.Errorf("db.ExecContext: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("result.RowsAffected: %w", err)
	}

	return affected > 0, nil
}
