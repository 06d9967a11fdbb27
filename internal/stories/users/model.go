package users

import "time"

type User struct {
	ID               int64
	TelegramID       string
	FirstName        string
	LastName         string
	Username         string
	HasUnreadSupport bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (u *User) DisplayName() string {
	name := u.FirstName
	if u.LastName != "" {
		name += " " + u.LastName
	}
	if name == "" {
		name = u.TelegramID
	}
	return name
}

type GetCriteria struct {
	ID         *int64
	TelegramID *string
}

type UpdateParams struct {
	FirstName        *string
	LastName         *string
	Username         *string
	HasUnreadSupport *bool
}
