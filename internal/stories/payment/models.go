package payment

import "encoding/json"

// PreCheckoutEvent is the synchronous confirmation round-trip the provider
// requires before collecting payment (Shape A). It must be answered within
// the provider's timeout window or the payment is auto-rejected.
type PreCheckoutEvent struct {
	QueryID     string
	Payload     string
	From        int64
	Currency    string
	TotalAmount int64
}

// PaymentEvent is the asynchronous successful-payment notification (Shape B).
// The provider delivers it with at-least-once semantics.
type PaymentEvent struct {
	Payload     string
	TotalAmount int64
	Currency    string
	ChargeID    string
	From        int64
}

// invoicePayload is the correlation token round-tripped through the provider.
type invoicePayload struct {
	OrderID string `json:"orderId"`
}

func encodePayload(orderID string) (string, error) {
	raw, err := json.Marshal(invoicePayload{OrderID: orderID})
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func decodePayload(payload string) (string, bool) {
	var p invoicePayload
	if err := json.Unmarshal([]byte(payload), &p); err != nil {
		return "", false
	}
	if p.OrderID == "" {
		return "", false
	}
	return p.OrderID, true
}
