package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"booking/internal/domain"
	"booking/internal/repository"
)

// BookingService handles booking creation and administrative review.
type BookingService struct {
	bookingRepo repository.BookingRepository
	paymentRepo repository.PaymentRepository
}

// NewBookingService creates a new BookingService.
func NewBookingService(
	bookingRepo repository.BookingRepository,
	paymentRepo repository.PaymentRepository,
) *BookingService {
	return &BookingService{
		bookingRepo: bookingRepo,
		paymentRepo: paymentRepo,
	}
}

// CreateBookingRequest contains the parameters for creating a booking.
type CreateBookingRequest struct {
	Pickup        string
	Dropoff       string
	ScheduledAt   time.Time
	Passengers    int
	Luggage       int
	VehicleClass  domain.VehicleClass
	PriceCents    int64
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
}

// CreateBooking validates the request and persists a PENDING booking at the
// quoted price.
func (s *BookingService) CreateBooking(ctx context.Context, req CreateBookingRequest) (*domain.Booking, error) {
	if strings.TrimSpace(req.Pickup) == "" {
		return nil, ErrInvalidPickup
	}
	if strings.TrimSpace(req.Dropoff) == "" {
		return nil, ErrInvalidDropoff
	}
	if req.ScheduledAt.IsZero() {
		return nil, ErrInvalidScheduledAt
	}
	if req.Passengers < 1 || req.Passengers > 10 {
		return nil, ErrInvalidPassengerCount
	}
	if req.Luggage < 0 || req.Luggage > 10 {
		return nil, ErrInvalidLuggageCount
	}
	if req.PriceCents <= 0 {
		return nil, ErrInvalidPrice
	}
	if strings.TrimSpace(req.CustomerName) == "" {
		return nil, ErrInvalidCustomerName
	}
	if !validEmail(req.CustomerEmail) {
		return nil, ErrInvalidCustomerEmail
	}

	vehicleClass := req.VehicleClass
	if vehicleClass == "" {
		vehicleClass = domain.VehicleClassStandard
	}
	if !domain.ValidVehicleClass(vehicleClass) {
		return nil, ErrInvalidVehicleClass
	}

	now := time.Now()
	booking := &domain.Booking{
		ID:            uuid.New().String(),
		Pickup:        strings.TrimSpace(req.Pickup),
		Dropoff:       strings.TrimSpace(req.Dropoff),
		ScheduledAt:   req.ScheduledAt,
		Passengers:    req.Passengers,
		Luggage:       req.Luggage,
		VehicleClass:  vehicleClass,
		PriceCents:    req.PriceCents,
		Status:        domain.BookingStatusPending,
		CustomerName:  strings.TrimSpace(req.CustomerName),
		CustomerEmail: strings.TrimSpace(req.CustomerEmail),
		CustomerPhone: strings.TrimSpace(req.CustomerPhone),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		return nil, err
	}

	return booking, nil
}

// GetBooking retrieves a booking by ID.
func (s *BookingService) GetBooking(ctx context.Context, bookingID string) (*domain.Booking, error) {
	if bookingID == "" {
		return nil, ErrInvalidBookingID
	}
	return s.bookingRepo.GetByID(ctx, bookingID)
}

// GetBookingPayment retrieves the payment owned by a booking, if any.
func (s *BookingService) GetBookingPayment(ctx context.Context, bookingID string) (*domain.Payment, error) {
	if bookingID == "" {
		return nil, ErrInvalidBookingID
	}
	return s.paymentRepo.GetByBookingID(ctx, bookingID)
}

// ListBookings retrieves bookings matching the filter with a total count.
func (s *BookingService) ListBookings(ctx context.Context, filter repository.BookingFilter) ([]*domain.Booking, int, error) {
	if filter.Status != "" && !domain.ValidBookingStatus(filter.Status) {
		return nil, 0, ErrInvalidBookingStatus
	}
	return s.bookingRepo.List(ctx, filter)
}

// UpdateBookingRequest contains the fields an administrator may change.
// Nil fields are left untouched.
type UpdateBookingRequest struct {
	BookingID string
	Status    *domain.BookingStatus
	Notes     *string
}

// UpdateBooking applies an administrative edit. Status changes must follow
// the booking lifecycle; terminal bookings are never resurrected.
func (s *BookingService) UpdateBooking(ctx context.Context, req UpdateBookingRequest) (*domain.Booking, error) {
	if req.BookingID == "" {
		return nil, ErrInvalidBookingID
	}

	booking, err := s.bookingRepo.GetByID(ctx, req.BookingID)
	if err != nil {
		return nil, err
	}

	if req.Status != nil {
		if !domain.ValidBookingStatus(*req.Status) {
			return nil, ErrInvalidBookingStatus
		}
		if !booking.CanTransitionTo(*req.Status) {
			return nil, ErrInvalidStatusTransition
		}
		// Guarded write: if the booking moved between our read and this
		// update, zero rows change and the edit is rejected rather than
		// applied against a state the operator never saw.
		changed, err := s.bookingRepo.UpdateStatus(ctx, booking.ID, booking.Status, *req.Status)
		if err != nil {
			return nil, err
		}
		if changed == 0 && booking.Status != *req.Status {
			return nil, ErrInvalidStatusTransition
		}
		booking.Status = *req.Status
	}
	if req.Notes != nil {
		if err := s.bookingRepo.UpdateNotes(ctx, booking.ID, *req.Notes); err != nil {
			return nil, err
		}
		booking.Notes = *req.Notes
	}

	return booking, nil
}

// validEmail is a minimal structural check; deliverability is not our problem.
func validEmail(email string) bool {
	email = strings.TrimSpace(email)
	at := strings.Index(email, "@")
	if at < 1 || at == len(email)-1 {
		return false
	}
	return strings.Contains(email[at+1:], ".")
}
