package users

import (
	"context"

	"github.com/samber/lo"
)

// Service provides business logic for user operations.
type Service struct {
	storage Storage
}

func NewService(storage Storage) *Service {
	return &Service{
		storage: storage,
	}
}

// Profile carries the name fields a messaging transport knows about its sender.
type Profile struct {
	FirstName string
	LastName  string
	Username  string
}

// GetOrCreateByTelegramID finds a user by external identity or lazily creates
// one. Users are never deleted.
func (s *Service) GetOrCreateByTelegramID(ctx context.Context, telegramID string) (*User, error) {
	existing, err := s.storage.GetUser(ctx, GetCriteria{
		TelegramID: &telegramID,
	})
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	return s.storage.CreateUser(ctx, User{
		TelegramID: telegramID,
	})
}

// UpsertProfile creates the user if needed and refreshes the display name
// fields reported by the transport.
func (s *Service) UpsertProfile(ctx context.Context, telegramID string, profile Profile) (*User, error) {
	user, err := s.GetOrCreateByTelegramID(ctx, telegramID)
	if err != nil {
		return nil, err
	}

	return s.storage.UpdateUser(ctx, GetCriteria{ID: &user.ID}, UpdateParams{
		FirstName: &profile.FirstName,
		LastName:  &profile.LastName,
		Username:  &profile.Username,
	})
}

// SetUnreadSupport flips the support-unread flag on the user.
func (s *Service) SetUnreadSupport(ctx context.Context, telegramID string, unread bool) error {
	_, err := s.storage.UpdateUser(ctx, GetCriteria{
		TelegramID: &telegramID,
	}, UpdateParams{
		HasUnreadSupport: lo.ToPtr(unread),
	})
	return err
}
