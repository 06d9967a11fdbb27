package telegram

import (
	"encoding/json"
	"log/slog"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// WebhookHandler accepts provider updates over HTTP. Responding non-2xx makes
// the provider redeliver the update, so only store failures return 500;
// everything else, including malformed or irrelevant updates, is acknowledged.
func WebhookHandler(paymentService paymentService, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		var update tgbotapi.Update
		if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
			logger.Warn("malformed webhook body", "error", err)
			w.WriteHeader(http.StatusOK)
			return
		}

		ctx := r.Context()

		switch {
		case update.PreCheckoutQuery != nil:
			paymentService.ProcessPreCheckout(ctx, preCheckoutEvent(update.PreCheckoutQuery))

		case update.Message != nil && update.Message.SuccessfulPayment != nil:
			if err := paymentService.ProcessSuccessfulPayment(ctx, paymentEvent(update.Message)); err != nil {
				logger.Error("failed to process payment", "error", err)
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
		}

		w.WriteHeader(http.StatusOK)
	}
}
