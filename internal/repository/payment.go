package repository

import (
	"context"

	"booking/internal/domain"
)

// PaymentRepository defines the persistence operations for payments.
type PaymentRepository interface {
	// Create persists a new payment.
	Create(ctx context.Context, payment *domain.Payment) error

	// GetByID retrieves a payment by ID.
	GetByID(ctx context.Context, id string) (*domain.Payment, error)

	// GetByBookingID retrieves the payment owned by a booking.
	// Returns nil if the booking has no payment.
	GetByBookingID(ctx context.Context, bookingID string) (*domain.Payment, error)

	// GetBySessionID retrieves a payment by its gateway session reference.
	GetBySessionID(ctx context.Context, sessionID string) (*domain.Payment, error)

	// GetByAuthorizationID retrieves a payment by its gateway authorization
	// reference.
	GetByAuthorizationID(ctx context.Context, authorizationID string) (*domain.Payment, error)

	// AdvanceStatus sets the payment status unless the row is already in a
	// terminal status. Returns the number of rows changed: 0 means the
	// payment was terminal (or absent) and the write was refused.
	AdvanceStatus(ctx context.Context, id string, status domain.PaymentStatus) (int64, error)

	// SetAuthorization records the gateway authorization reference and moves
	// the payment to AUTHORIZED. The reference is written at most once: a
	// payment that already carries one is left untouched and 0 is returned.
	SetAuthorization(ctx context.Context, id, authorizationID string) (int64, error)
}
