package subs

import "time"

type Status string

const (
	StatusActive    Status = "ACTIVE"
	StatusExpired   Status = "EXPIRED"
	StatusCancelled Status = "CANCELLED"
)

type Subscription struct {
	ID        int64
	UserID    int64
	PlanType  string
	Price     float64
	Status    Status
	StartDate time.Time
	EndDate   time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

type ListCriteria struct {
	UserID *int64
	Status *Status
	Limit  int
	Offset int
}
