package repository

import (
	"context"
	"time"

	"booking/internal/domain"
)

// BookingFilter narrows a booking listing for the admin review surface.
// Zero values mean "no constraint". Search matches pickup, dropoff and
// customer name/email.
type BookingFilter struct {
	Status   domain.BookingStatus
	Search   string
	DateFrom time.Time
	DateTo   time.Time
	Limit    int
	Offset   int
}

// BookingRepository defines the persistence operations for bookings.
type BookingRepository interface {
	// Create persists a new booking.
	Create(ctx context.Context, booking *domain.Booking) error

	// GetByID retrieves a booking by ID.
	GetByID(ctx context.Context, id string) (*domain.Booking, error)

	// UpdateStatus moves a booking from one status to another as a guarded
	// compare-and-swap: the write only lands if the row still holds the
	// expected current status. Returns the number of rows changed; 0 means
	// a concurrent writer got there first and nothing was modified.
	UpdateStatus(ctx context.Context, id string, from, to domain.BookingStatus) (int64, error)

	// UpdateNotes sets the operator notes on a booking.
	UpdateNotes(ctx context.Context, id, notes string) error

	// BackfillContact fills customer contact fields that are still empty.
	// Columns already holding a value are left untouched, even under
	// concurrent delivery of the same checkout event.
	BackfillContact(ctx context.Context, id, name, email, phone string) error

	// List retrieves bookings matching the filter, newest first, together
	// with the total count ignoring Limit/Offset.
	List(ctx context.Context, filter BookingFilter) ([]*domain.Booking, int, error)
}
