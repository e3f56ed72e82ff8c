package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"booking/internal/domain"
	"booking/internal/repository"
)

// BookingRepository is a PostgreSQL implementation of repository.BookingRepository.
type BookingRepository struct {
	q Querier
}

// NewBookingRepository creates a new PostgreSQL booking repository.
func NewBookingRepository(db *sql.DB) *BookingRepository {
	return &BookingRepository{q: db}
}

// NewBookingRepositoryWithTx creates a booking repository using a transaction.
func NewBookingRepositoryWithTx(tx *sql.Tx) *BookingRepository {
	return &BookingRepository{q: tx}
}

const bookingColumns = `
	id, pickup, dropoff, scheduled_at, passengers, luggage, vehicle_class,
	price_cents, status, customer_name, customer_email, customer_phone,
	notes, created_at, updated_at
`

// Create persists a new booking.
func (r *BookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	query := `
		INSERT INTO bookings (
			id, pickup, dropoff, scheduled_at, passengers, luggage,
			vehicle_class, price_cents, status, customer_name, customer_email,
			customer_phone, notes, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	_, err := r.q.ExecContext(ctx, query,
		booking.ID,
		booking.Pickup,
		booking.Dropoff,
		booking.ScheduledAt,
		booking.Passengers,
		booking.Luggage,
		booking.VehicleClass,
		booking.PriceCents,
		booking.Status,
		booking.CustomerName,
		booking.CustomerEmail,
		booking.CustomerPhone,
		booking.Notes,
		booking.CreatedAt,
		booking.UpdatedAt,
	)

	return err
}

// GetByID retrieves a booking by ID.
func (r *BookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	booking, err := scanBooking(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return booking, nil
}

// UpdateStatus moves a booking between statuses as a compare-and-swap.
// The expected current status lives in the WHERE clause so that a webhook
// redelivery racing an admin action cannot resurrect a terminal booking;
// the loser of the race simply changes zero rows.
func (r *BookingRepository) UpdateStatus(ctx context.Context, id string, from, to domain.BookingStatus) (int64, error) {
	query := `UPDATE bookings SET status = $1, updated_at = NOW() WHERE id = $2 AND status = $3`

	result, err := r.q.ExecContext(ctx, query, to, id, from)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}

// UpdateNotes sets the operator notes on a booking.
func (r *BookingRepository) UpdateNotes(ctx context.Context, id, notes string) error {
	query := `UPDATE bookings SET notes = $1, updated_at = NOW() WHERE id = $2`

	result, err := r.q.ExecContext(ctx, query, notes, id)
	if err != nil {
		return err
	}

	return requireRowsAffected(result)
}

// BackfillContact fills empty customer contact columns. The never-overwrite
// rule is enforced in SQL, so concurrent deliveries of the same checkout
// event cannot clobber contact details captured at booking time.
func (r *BookingRepository) BackfillContact(ctx context.Context, id, name, email, phone string) error {
	query := `
		UPDATE bookings SET
			customer_name  = CASE WHEN customer_name  = '' THEN $1 ELSE customer_name  END,
			customer_email = CASE WHEN customer_email = '' THEN $2 ELSE customer_email END,
			customer_phone = CASE WHEN customer_phone = '' THEN $3 ELSE customer_phone END,
			updated_at = NOW()
		WHERE id = $4
	`

	result, err := r.q.ExecContext(ctx, query, name, email, phone, id)
	if err != nil {
		return err
	}

	return requireRowsAffected(result)
}

// List retrieves bookings matching the filter, newest first, with total count.
func (r *BookingRepository) List(ctx context.Context, filter repository.BookingFilter) ([]*domain.Booking, int, error) {
	var (
		conditions []string
		args       []any
	)

	next := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Status != "" {
		conditions = append(conditions, "status = "+next(filter.Status))
	}
	if filter.Search != "" {
		p := next("%" + filter.Search + "%")
		conditions = append(conditions, fmt.Sprintf(
			"(pickup ILIKE %s OR dropoff ILIKE %s OR customer_name ILIKE %s OR customer_email ILIKE %s)",
			p, p, p, p,
		))
	}
	if !filter.DateFrom.IsZero() {
		conditions = append(conditions, "scheduled_at >= "+next(filter.DateFrom))
	}
	if !filter.DateTo.IsZero() {
		conditions = append(conditions, "scheduled_at <= "+next(filter.DateTo))
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM bookings" + where
	if err := r.q.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := "SELECT " + bookingColumns + " FROM bookings" + where + " ORDER BY created_at DESC"
	if filter.Limit > 0 {
		query += " LIMIT " + next(filter.Limit)
	}
	if filter.Offset > 0 {
		query += " OFFSET " + next(filter.Offset)
	}

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var bookings []*domain.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, 0, err
		}
		bookings = append(bookings, booking)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return bookings, total, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var booking domain.Booking
	err := row.Scan(
		&booking.ID,
		&booking.Pickup,
		&booking.Dropoff,
		&booking.ScheduledAt,
		&booking.Passengers,
		&booking.Luggage,
		&booking.VehicleClass,
		&booking.PriceCents,
		&booking.Status,
		&booking.CustomerName,
		&booking.CustomerEmail,
		&booking.CustomerPhone,
		&booking.Notes,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func requireRowsAffected(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}
