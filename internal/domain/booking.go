package domain

import "time"

// BookingStatus represents the current status of a booking.
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "PENDING"
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusCompleted BookingStatus = "COMPLETED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
)

// ValidBookingStatus reports whether s is a known booking status.
func ValidBookingStatus(s BookingStatus) bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCompleted, BookingStatusCancelled:
		return true
	}
	return false
}

// VehicleClass represents the vehicle tier requested for a booking.
type VehicleClass string

const (
	VehicleClassStandard VehicleClass = "STANDARD"
	VehicleClassSUV      VehicleClass = "SUV"
	VehicleClassLuxury   VehicleClass = "LUXURY"
)

// ValidVehicleClass reports whether c is a known vehicle class.
func ValidVehicleClass(c VehicleClass) bool {
	switch c {
	case VehicleClassStandard, VehicleClassSUV, VehicleClassLuxury:
		return true
	}
	return false
}

// Booking represents a quoted, future ride reservation.
// Customer contact fields are empty until captured from checkout.
type Booking struct {
	ID            string
	Pickup        string
	Dropoff       string
	ScheduledAt   time.Time
	Passengers    int
	Luggage       int
	VehicleClass  VehicleClass
	PriceCents    int64
	Status        BookingStatus
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	Notes         string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// CanTransitionTo reports whether the booking status may move to next.
// Transitions are monotonic along the lifecycle: a CANCELLED or COMPLETED
// booking is never resurrected.
func (b *Booking) CanTransitionTo(next BookingStatus) bool {
	if b.Status == next {
		return true
	}

	switch b.Status {
	case BookingStatusPending:
		return next == BookingStatusConfirmed || next == BookingStatusCancelled
	case BookingStatusConfirmed:
		return next == BookingStatusCompleted || next == BookingStatusCancelled
	default:
		return false
	}
}
