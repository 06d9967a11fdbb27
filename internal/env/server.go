package environment

import (
	"context"
	"log/slog"
	"net/http"

	"storefront-bot/internal/config"
	"storefront-bot/internal/telegram"
)

type Servers struct {
	HTTP struct {
		Observability *http.Server
		API           *http.Server
	}
}

func newServers(ctx context.Context, cfg config.Config, logger *slog.Logger, clients *Clients, services *Services) *Servers {
	var servers Servers

	mux := http.NewServeMux()
	mux.Handle("/telegram/webhook", telegram.WebhookHandler(services.Payment, logger.WithGroup("webhook")))

	servers.HTTP.API = &http.Server{
		Addr:         cfg.API.ADDR(),
		Handler:      mux,
		ReadTimeout:  cfg.API.ReadTimeout,
		WriteTimeout: cfg.API.WriteTimeout,
		IdleTimeout:  cfg.API.IdleTimeout,
	}
	servers.HTTP.Observability = initObservability(ctx, logger.WithGroup("http"), clients, cfg)

	return &servers
}
