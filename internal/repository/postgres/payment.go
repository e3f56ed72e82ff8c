package postgres

import (
	"context"
	"database/sql"
	"errors"

	"booking/internal/domain"
	"booking/internal/repository"
)

// PaymentRepository is a PostgreSQL implementation of repository.PaymentRepository.
type PaymentRepository struct {
	q Querier
}

// NewPaymentRepository creates a new PostgreSQL payment repository.
func NewPaymentRepository(db *sql.DB) *PaymentRepository {
	return &PaymentRepository{q: db}
}

// NewPaymentRepositoryWithTx creates a payment repository using a transaction.
func NewPaymentRepositoryWithTx(tx *sql.Tx) *PaymentRepository {
	return &PaymentRepository{q: tx}
}

const paymentColumns = `
	id, booking_id, session_id, authorization_id, amount_cents, currency,
	status, method, created_at, updated_at
`

// Create persists a new payment.
func (r *PaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	query := `
		INSERT INTO payments (
			id, booking_id, session_id, authorization_id, amount_cents,
			currency, status, method, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.q.ExecContext(ctx, query,
		payment.ID,
		payment.BookingID,
		payment.SessionID,
		payment.AuthorizationID,
		payment.AmountCents,
		payment.Currency,
		payment.Status,
		payment.Method,
		payment.CreatedAt,
		payment.UpdatedAt,
	)

	return err
}

// GetByID retrieves a payment by ID.
func (r *PaymentRepository) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`

	payment, err := r.scanRow(ctx, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return payment, nil
}

// GetByBookingID retrieves the payment owned by a booking.
// Returns nil if the booking has no payment.
func (r *PaymentRepository) GetByBookingID(ctx context.Context, bookingID string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE booking_id = $1`

	payment, err := r.scanRow(ctx, query, bookingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return payment, nil
}

// GetBySessionID retrieves a payment by its gateway session reference.
// An empty reference never matches: cash entries and not-yet-authorized card
// entries store empty strings, and a blank lookup must not reach them.
func (r *PaymentRepository) GetBySessionID(ctx context.Context, sessionID string) (*domain.Payment, error) {
	if sessionID == "" {
		return nil, repository.ErrNotFound
	}

	query := `SELECT ` + paymentColumns + ` FROM payments WHERE session_id = $1`

	payment, err := r.scanRow(ctx, query, sessionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return payment, nil
}

// GetByAuthorizationID retrieves a payment by its gateway authorization
// reference. An empty reference never matches; see GetBySessionID.
func (r *PaymentRepository) GetByAuthorizationID(ctx context.Context, authorizationID string) (*domain.Payment, error) {
	if authorizationID == "" {
		return nil, repository.ErrNotFound
	}

	query := `SELECT ` + paymentColumns + ` FROM payments WHERE authorization_id = $1`

	payment, err := r.scanRow(ctx, query, authorizationID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return payment, nil
}

// AdvanceStatus sets the payment status unless the row is already terminal.
// The terminal guard lives in the WHERE clause so that concurrent webhook
// redelivery and admin actions race safely on the same row.
func (r *PaymentRepository) AdvanceStatus(ctx context.Context, id string, status domain.PaymentStatus) (int64, error) {
	query := `
		UPDATE payments SET status = $1, updated_at = NOW()
		WHERE id = $2
		  AND status NOT IN ('SUCCEEDED', 'FAILED', 'CANCELLED', 'REFUNDED')
	`

	result, err := r.q.ExecContext(ctx, query, status, id)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}

// SetAuthorization records the gateway authorization reference and moves the
// payment to AUTHORIZED. Writes at most once: a payment that already carries
// a reference is left untouched.
func (r *PaymentRepository) SetAuthorization(ctx context.Context, id, authorizationID string) (int64, error) {
	query := `
		UPDATE payments SET authorization_id = $1, status = $2, updated_at = NOW()
		WHERE id = $3
		  AND authorization_id = ''
		  AND status NOT IN ('SUCCEEDED', 'FAILED', 'CANCELLED', 'REFUNDED')
	`

	result, err := r.q.ExecContext(ctx, query, authorizationID, domain.PaymentStatusAuthorized, id)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}

func (r *PaymentRepository) scanRow(ctx context.Context, query string, args ...any) (*domain.Payment, error) {
	var payment domain.Payment
	err := r.q.QueryRowContext(ctx, query, args...).Scan(
		&payment.ID,
		&payment.BookingID,
		&payment.SessionID,
		&payment.AuthorizationID,
		&payment.AmountCents,
		&payment.Currency,
		&payment.Status,
		&payment.Method,
		&payment.CreatedAt,
		&payment.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &payment, nil
}
