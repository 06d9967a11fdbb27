package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"storefront-bot/internal/stories/support"
)

const supportMessagesTable = "support_messages"

var supportMessageRowFields = fields(supportMessageRow{})

type supportMessageRow struct {
	ID          int64          `db:"id"`
	UserID      string         `db:"user_id"`
	Message     string         `db:"message"`
	MediaURL    sql.NullString `db:"media_url"`
	MediaType   sql.NullString `db:"media_type"`
	OrderID     sql.NullString `db:"order_id"`
	IsFromAdmin bool           `db:"is_from_admin"`
	IsRead      bool           `db:"is_read"`
	CreatedAt   time.Time      `db:"created_at"`
}

func (r supportMessageRow) ToModel() *support.Message {
	return &support.Message{
		ID:          r.ID,
		UserID:      r.UserID,
		Message:     r.Message,
		MediaURL:    nullableString(r.MediaURL),
		MediaType:   nullableString(r.MediaType),
		OrderID:     nullableString(r.OrderID),
		IsFromAdmin: r.IsFromAdmin,
		IsRead:      r.IsRead,
		CreatedAt:   r.CreatedAt,
	}
}

func (s *storageImpl) CreateSupportMessage(ctx context.Context, message support.Message) (*support.Message, error) {
	params := map[string]interface{}{
		"user_id":       message.UserID,
		"message":       message.Message,
		"is_from_admin": message.IsFromAdmin,
		"is_read":       message.IsRead,
		"created_at":    s.now(),
	}
	if message.MediaURL != nil {
		params["media_url"] = *message.MediaURL
	}
	if message.MediaType != nil {
		params["media_type"] = *message.MediaType
	}
	if message.OrderID != nil {
		params["order_id"] = *message.OrderID
	}

	q, args, err := s.stmpBuilder().
		Insert(supportMessagesTable).
		SetMap(params).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build sql query: %w", err)
	}

	result, err := s.db.ExecContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("db.ExecContext: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("result.LastInsertId: %w", err)
	}

	q, args, err = s.stmpBuilder().
		Select(supportMessageRowFields).
		From(supportMessagesTable).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build sql query: %w", err)
	}

	var row supportMessageRow
	err = s.db.GetContext(ctx, &row, q, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("db.GetContext: %w", err)
	}

	return row.ToModel(), nil
}

func (s *storageImpl) ListSupportMessages(ctx context.Context, criteria support.ListCriteria) ([]*support.Message, error) {
	query := s.stmpBuilder().
		Select(supportMessageRowFields).
		From(supportMessagesTable).
		Where(sq.Eq{"user_id": criteria.UserID}).
		OrderBy("id DESC")

	if criteria.Before != nil {
		query = query.Where(sq.Lt{"id": *criteria.Before})
	}
	if criteria.Limit > 0 {
		query = query.Limit(uint64(criteria.Limit))
	}

	q, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build sql query: %w", err)
	}

	var rows []supportMessageRow
	if err := s.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, fmt.Errorf("db.SelectContext: %w", err)
	}

	result := make([]*support.Message, 0, len(rows))
	for _, row := range rows {
		result = append(result, row.ToModel())
	}

	return result, nil
}

func (s *storageImpl) MarkSupportMessagesRead(ctx context.Context, userID string) error {
	q, args, err := s.stmpBuilder().
		Update(supportMessagesTable).
		Set("is_read", true).
		Where(sq.Eq{"user_id": userID}).
		Where(sq.Eq{"is_read": false}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build sql query: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("db.ExecContext: %w", err)
	}

	return nil
}

func (s *storageImpl) CountUnreadSupportUsers(ctx context.Context) (int, error) {
	q, args, err := s.stmpBuilder().
		Select("COUNT(DISTINCT user_id)").
		From(supportMessagesTable).
		Where(sq.Eq{"is_read": false}).
		Where(sq.Eq{"is_from_admin": false}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build sql query: %w", err)
	}

	var count int
	if err := s.db.GetContext(ctx, &count, q, args...); err != nil {
		return 0, fmt.Errorf("db.GetContext: %w", err)
	}

	return count, nil
}
