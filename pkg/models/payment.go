package models

import (
	"strings"
	"time"
)

type PaymentMethod string

const (
	MethodCard           PaymentMethod = "CARD"
	MethodCashOnDelivery PaymentMethod = "CASH_ON_DELIVERY"
)

// NormalizeMethod maps the method aliases the payment component historically
// sent onto the closed set. Unknown values are rejected.
func NormalizeMethod(s string) (PaymentMethod, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "CARD", "CARD_STRIPE", "STRIPE":
		return MethodCard, true
	case "CASH", "CASH_ON_DELIVERY", "COD":
		return MethodCashOnDelivery, true
	}
	return "", false
}

type PaymentOutcome string

const (
	OutcomeCaptured        PaymentOutcome = "CAPTURED"
	OutcomePendingDelivery PaymentOutcome = "PENDING_DELIVERY"
)

// PaymentRecord is the payment service's record of a payment notification.
// One order has at most one effective record; retried notifications are
// answered with the existing record.
type PaymentRecord struct {
	ID        string         `json:"id"`
	OrderID   string         `json:"orderId"`
	Amount    float64        `json:"amount"`
	Method    PaymentMethod  `json:"method"`
	Outcome   PaymentOutcome `json:"outcome"`
	Payer     string         `json:"payer"`
	CreatedAt time.Time      `json:"created_at"`
}

// TargetStatus maps a payment method to the order status the bridge drives.
func (m PaymentMethod) TargetStatus() OrderStatus {
	if m == MethodCashOnDelivery {
		return OrderWaitingDelivery
	}
	return OrderPaid
}

// Outcome maps a payment method to the recorded outcome.
func (m PaymentMethod) Outcome() PaymentOutcome {
	if m == MethodCashOnDelivery {
		return OutcomePendingDelivery
	}
	return OutcomeCaptured
}

type ProcessPaymentRequest struct {
	OrderID string  `json:"orderId" binding:"required"`
	Amount  float64 `json:"amount" binding:"required,gt=0"`
	Method  string  `json:"method" binding:"required"`
}
