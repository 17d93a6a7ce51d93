package domain

import "slices"

type PaymentMethod string

const (
	PaymentCash       PaymentMethod = "cash"
	PaymentCreditCard PaymentMethod = "credit_card"
	PaymentPromptPay  PaymentMethod = "promptpay"
)

var paymentMethods = []PaymentMethod{PaymentCash, PaymentCreditCard, PaymentPromptPay}

func (m PaymentMethod) Valid() bool {
	return slices.Contains(paymentMethods, m)
}

// RequiresPayment reports whether a placed order must still be charged.
// Cash is settled on delivery.
func (m PaymentMethod) RequiresPayment() bool {
	return m != PaymentCash
}

type Customer struct {
	Name  string
	Phone string
}

// OrderRequest is what the cart hands to the order service at checkout.
type OrderRequest struct {
	TenantID  string
	SessionID string
	// IdempotencyKey lets the order service drop duplicate submissions.
	IdempotencyKey string

	Customer            Customer
	Lines               []Line
	PaymentMethod       PaymentMethod
	SpecialInstructions string
	// LineInstructions holds per-line notes keyed by line key.
	LineInstructions map[string]string
}

// PaymentRequest charges an order the order service already accepted.
type PaymentRequest struct {
	TenantID  string
	SessionID string
	OrderID   string
	Method    PaymentMethod
}

// OrderPlaced is emitted once the order service accepted a cart.
type OrderPlaced struct {
	TenantID  string
	SessionID string
	OrderID   string
	ItemCount int
	Totals    Totals
}
