package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"booking/internal/domain"
	"booking/internal/repository"
)

func newBookingRepoMock(t *testing.T) (*BookingRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New failed: %v", err)
	}
	return NewBookingRepository(db), mock, func() { db.Close() }
}

func bookingRows(booking *domain.Booking) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "pickup", "dropoff", "scheduled_at", "passengers", "luggage",
		"vehicle_class", "price_cents", "status", "customer_name",
		"customer_email", "customer_phone", "notes", "created_at", "updated_at",
	}).AddRow(
		booking.ID, booking.Pickup, booking.Dropoff, booking.ScheduledAt,
		booking.Passengers, booking.Luggage, string(booking.VehicleClass),
		booking.PriceCents, string(booking.Status), booking.CustomerName,
		booking.CustomerEmail, booking.CustomerPhone, booking.Notes,
		booking.CreatedAt, booking.UpdatedAt,
	)
}

func sampleBooking() *domain.Booking {
	now := time.Now()
	return &domain.Booking{
		ID:            "booking-1",
		Pickup:        "123 Main St",
		Dropoff:       "456 Oak Ave",
		ScheduledAt:   now.Add(48 * time.Hour),
		Passengers:    2,
		Luggage:       1,
		VehicleClass:  domain.VehicleClassStandard,
		PriceCents:    4800,
		Status:        domain.BookingStatusPending,
		CustomerName:  "Jane Doe",
		CustomerEmail: "jane@example.com",
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func TestBookingCreate(t *testing.T) {
	repo, mock, cleanup := newBookingRepoMock(t)
	defer cleanup()

	booking := sampleBooking()

	mock.ExpectExec("INSERT INTO bookings").
		WithArgs(
			booking.ID, booking.Pickup, booking.Dropoff, booking.ScheduledAt,
			booking.Passengers, booking.Luggage, booking.VehicleClass,
			booking.PriceCents, booking.Status, booking.CustomerName,
			booking.CustomerEmail, booking.CustomerPhone, booking.Notes,
			booking.CreatedAt, booking.UpdatedAt,
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Create(context.Background(), booking); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}

func TestBookingGetByID(t *testing.T) {
	repo, mock, cleanup := newBookingRepoMock(t)
	defer cleanup()

	expected := sampleBooking()
	mock.ExpectQuery("SELECT (.+) FROM bookings WHERE id").
		WithArgs("booking-1").
		WillReturnRows(bookingRows(expected))

	booking, err := repo.GetByID(context.Background(), "booking-1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if booking.ID != expected.ID || booking.Pickup != expected.Pickup {
		t.Errorf("Unexpected booking: %+v", booking)
	}
	if booking.Status != domain.BookingStatusPending {
		t.Errorf("Unexpected status: %s", booking.Status)
	}
}

func TestBookingGetByIDNotFound(t *testing.T) {
	repo, mock, cleanup := newBookingRepoMock(t)
	defer cleanup()

	mock.ExpectQuery("SELECT (.+) FROM bookings WHERE id").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	if _, err := repo.GetByID(context.Background(), "missing"); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestBookingUpdateStatus(t *testing.T) {
	repo, mock, cleanup := newBookingRepoMock(t)
	defer cleanup()

	// The expected current status rides in the WHERE clause.
	mock.ExpectExec(`UPDATE bookings SET status = \$1, updated_at = NOW\(\) WHERE id = \$2 AND status = \$3`).
		WithArgs(domain.BookingStatusConfirmed, "booking-1", domain.BookingStatusPending).
		WillReturnResult(sqlmock.NewResult(0, 1))

	changed, err := repo.UpdateStatus(context.Background(), "booking-1", domain.BookingStatusPending, domain.BookingStatusConfirmed)
	if err != nil {
		t.Fatalf("UpdateStatus failed: %v", err)
	}
	if changed != 1 {
		t.Errorf("Expected 1 row changed, got %d", changed)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}

func TestBookingUpdateStatusLostRace(t *testing.T) {
	// The row no longer holds the expected status (an admin cancelled it
	// between the caller's read and this write): zero rows, no error, and
	// the concurrent state stands.
	repo, mock, cleanup := newBookingRepoMock(t)
	defer cleanup()

	mock.ExpectExec(`UPDATE bookings SET status = \$1, updated_at = NOW\(\) WHERE id = \$2 AND status = \$3`).
		WithArgs(domain.BookingStatusConfirmed, "booking-1", domain.BookingStatusPending).
		WillReturnResult(sqlmock.NewResult(0, 0))

	changed, err := repo.UpdateStatus(context.Background(), "booking-1", domain.BookingStatusPending, domain.BookingStatusConfirmed)
	if err != nil {
		t.Fatalf("UpdateStatus failed: %v", err)
	}
	if changed != 0 {
		t.Errorf("Expected 0 rows changed for a stale write, got %d", changed)
	}
}

func TestBookingUpdateNotes(t *testing.T) {
	repo, mock, cleanup := newBookingRepoMock(t)
	defer cleanup()

	mock.ExpectExec("UPDATE bookings SET notes").
		WithArgs("child seat requested", "booking-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.UpdateNotes(context.Background(), "booking-1", "child seat requested"); err != nil {
		t.Fatalf("UpdateNotes failed: %v", err)
	}
}

func TestBookingBackfillContact(t *testing.T) {
	repo, mock, cleanup := newBookingRepoMock(t)
	defer cleanup()

	mock.ExpectExec(`UPDATE bookings SET customer_name = CASE WHEN customer_name = ''`).
		WithArgs("Jane Doe", "jane@example.com", "+15551234567", "booking-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.BackfillContact(context.Background(), "booking-1", "Jane Doe", "jane@example.com", "+15551234567")
	if err != nil {
		t.Fatalf("BackfillContact failed: %v", err)
	}
}

func TestBookingListWithFilters(t *testing.T) {
	repo, mock, cleanup := newBookingRepoMock(t)
	defer cleanup()

	booking := sampleBooking()
	booking.Status = domain.BookingStatusConfirmed

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM bookings WHERE status = \$1 AND \(pickup ILIKE \$2`).
		WithArgs(domain.BookingStatusConfirmed, "%main%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	mock.ExpectQuery(`SELECT (.+) FROM bookings WHERE status = \$1 AND \(pickup ILIKE \$2 (.+) ORDER BY created_at DESC LIMIT \$3 OFFSET \$4`).
		WithArgs(domain.BookingStatusConfirmed, "%main%", 20, 5).
		WillReturnRows(bookingRows(booking))

	bookings, total, err := repo.List(context.Background(), repository.BookingFilter{
		Status: domain.BookingStatusConfirmed,
		Search: "main",
		Limit:  20,
		Offset: 5,
	})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if total != 1 || len(bookings) != 1 {
		t.Fatalf("Expected one booking, got total=%d len=%d", total, len(bookings))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}

func TestBookingListUnfiltered(t *testing.T) {
	repo, mock, cleanup := newBookingRepoMock(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM bookings`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`SELECT (.+) FROM bookings ORDER BY created_at DESC`).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "pickup", "dropoff", "scheduled_at", "passengers", "luggage",
			"vehicle_class", "price_cents", "status", "customer_name",
			"customer_email", "customer_phone", "notes", "created_at", "updated_at",
		}))

	bookings, total, err := repo.List(context.Background(), repository.BookingFilter{})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if total != 0 || len(bookings) != 0 {
		t.Errorf("Expected empty result, got total=%d len=%d", total, len(bookings))
	}
}
