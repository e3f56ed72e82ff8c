package domain

import "time"

// PaymentStatus represents the current status of a payment attempt.
type PaymentStatus string

const (
	PaymentStatusRequiresPaymentMethod PaymentStatus = "REQUIRES_PAYMENT_METHOD"
	PaymentStatusAuthorized            PaymentStatus = "AUTHORIZED"
	PaymentStatusSucceeded             PaymentStatus = "SUCCEEDED"
	PaymentStatusFailed                PaymentStatus = "FAILED"
	PaymentStatusCancelled             PaymentStatus = "CANCELLED"
	PaymentStatusRefunded              PaymentStatus = "REFUNDED"
)

// TerminalPaymentStatuses lists statuses from which no further automated
// transition is permitted.
var TerminalPaymentStatuses = []PaymentStatus{
	PaymentStatusSucceeded,
	PaymentStatusFailed,
	PaymentStatusCancelled,
	PaymentStatusRefunded,
}

// IsTerminal reports whether s is a terminal payment status.
func (s PaymentStatus) IsTerminal() bool {
	switch s {
	case PaymentStatusSucceeded, PaymentStatusFailed, PaymentStatusCancelled, PaymentStatusRefunded:
		return true
	}
	return false
}

// PaymentMethod represents how a booking is paid.
type PaymentMethod string

const (
	PaymentMethodCard PaymentMethod = "CARD"
	PaymentMethodCash PaymentMethod = "CASH"
)

// Payment represents one payment attempt's lifecycle for a booking.
// SessionID is the gateway checkout session reference; AuthorizationID is
// the gateway payment-intent reference, empty until the completing webhook
// arrives and immutable afterwards. A CASH payment carries neither.
type Payment struct {
	ID              string
	BookingID       string
	SessionID       string
	AuthorizationID string
	AmountCents     int64
	Currency        string
	Status          PaymentStatus
	Method          PaymentMethod
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
