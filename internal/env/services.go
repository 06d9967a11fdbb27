package environment

import (
	"context"
	"log/slog"
	"time"

	"github.com/pkg/errors"

	"storefront-bot/internal/config"
	"storefront-bot/internal/storage"
	"storefront-bot/internal/stories/fulfillment"
	"storefront-bot/internal/stories/notify"
	"storefront-bot/internal/stories/orders"
	"storefront-bot/internal/stories/payment"
	"storefront-bot/internal/stories/products"
	"storefront-bot/internal/stories/subs"
	"storefront-bot/internal/stories/support"
	"storefront-bot/internal/stories/users"
	"storefront-bot/internal/telegram"
	"storefront-bot/internal/workers"
	"storefront-bot/internal/workers/subexpiry"
)

type Services struct {
	TelegramRouter *telegram.Router
	WorkerManager  *workers.Manager

	Users         *users.Service
	Products      *products.Service
	Orders        *orders.Service
	Payment       *payment.Service
	Subscriptions *subs.Service
	Support       *support.Service
}

func newServices(_ context.Context, clients *Clients, cfg *config.Config, logger *slog.Logger) (*Services, error) {
	var s Services

	if clients.TelegramBot == nil {
		return nil, errors.New("telegram client is not initialized")
	}

	storageImpl := storage.New(clients.SQLiteDB.DB)

	userService := users.NewService(storageImpl)
	productService := products.NewService(storageImpl)

	notifier := notify.NewService(
		clients.TelegramBot,
		cfg.Telegram.AdminChatIDs,
		cfg.Telegram.FrontendURL,
		logger.WithGroup("notify"),
	)

	dispatcher := fulfillment.NewService(clients.TelegramBot, logger.WithGroup("fulfillment"))

	orderService := orders.NewService(storageImpl, userService, dispatcher, notifier, logger.WithGroup("orders"))

	paymentService := payment.NewService(
		storageImpl,
		clients.TelegramBot,
		dispatcher,
		notifier,
		cfg.Telegram.Currency,
		logger.WithGroup("payment"),
	)

	subsService := subs.NewService(storageImpl, userService, orderService, time.Now, logger.WithGroup("subs"))

	supportService := support.NewService(
		storageImpl,
		userService,
		clients.TelegramBot,
		notifier,
		logger.WithGroup("support"),
	)

	s.Users = userService
	s.Products = productService
	s.Orders = orderService
	s.Payment = paymentService
	s.Subscriptions = subsService
	s.Support = supportService

	s.TelegramRouter = telegram.NewRouter(
		paymentService,
		supportService,
		clients.TelegramBot,
		logger.WithGroup("router"),
	)

	s.WorkerManager = workers.NewManager(
		logger.WithGroup("workers"),
		subexpiry.NewWorker(subsService, cfg.Subscriptions.ExpireCron, logger.WithGroup("subexpiry")),
	)

	return &s, nil
}
