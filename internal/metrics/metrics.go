package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_orders_created_total",
		Help: "Orders created, by order type.",
	}, []string{"order_type"})

	PaymentsConfirmed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefront_payments_confirmed_total",
		Help: "Payments confirmed via the provider callback.",
	})

	PaymentRedeliveries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefront_payment_redeliveries_total",
		Help: "Provider payment callbacks for orders that were already confirmed.",
	})

	CorrelationFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefront_payment_correlation_failures_total",
		Help: "Payment callbacks that could not be matched to an order. Require manual reconciliation.",
	})

	FulfillmentSendErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefront_fulfillment_send_errors_total",
		Help: "Failed outbound sends during order fulfillment.",
	})
)
