package subexpiry

import "context"

type (
	// Subscriptions sweeps lapsed subscriptions.
	Subscriptions interface {
		ExpireDue(ctx context.Context) error
	}
)
