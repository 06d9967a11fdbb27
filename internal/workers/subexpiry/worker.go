package subexpiry

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// Worker marks subscriptions whose end date has passed as expired.
type Worker struct {
	subscriptions Subscriptions
	schedule      string
	logger        *slog.Logger
	cron          *cron.Cron
}

func NewWorker(subscriptions Subscriptions, schedule string, logger *slog.Logger) *Worker {
	return &Worker{
		subscriptions: subscriptions,
		schedule:      schedule,
		logger:        logger,
		cron:          cron.New(),
	}
}

// Name returns the worker name
func (w *Worker) Name() string {
	return "subexpiry"
}

// Start schedules the expiry sweep
func (w *Worker) Start() error {
	_, err := w.cron.AddFunc(w.schedule, func() {
		ctx := context.Background()
		w.logger.Info("Running subscription expiry sweep")
		if err := w.subscriptions.ExpireDue(ctx); err != nil {
			w.logger.Error("Subscription expiry sweep failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule subscription expiry worker: %w", err)
	}

	w.cron.Start()
	return nil
}

// Stop stops the worker
func (w *Worker) Stop() {
	w.logger.Info("Stopping subscription expiry worker")
	w.cron.Stop()
}
