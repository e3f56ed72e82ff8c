package service

import "errors"

var (
	// ErrInvalidPickup is returned when the pickup address is empty.
	ErrInvalidPickup = errors.New("invalid pickup address")

	// ErrInvalidDropoff is returned when the dropoff address is empty.
	ErrInvalidDropoff = errors.New("invalid dropoff address")

	// ErrInvalidPassengerCount is returned when passenger count is outside 1-10.
	ErrInvalidPassengerCount = errors.New("passenger count must be between 1 and 10")

	// ErrInvalidLuggageCount is returned when luggage count is outside 0-10.
	ErrInvalidLuggageCount = errors.New("luggage count must be between 0 and 10")

	// ErrInvalidVehicleClass is returned when the vehicle class is unknown.
	ErrInvalidVehicleClass = errors.New("invalid vehicle class")

	// ErrInvalidScheduledAt is returned when the scheduled datetime is malformed or zero.
	ErrInvalidScheduledAt = errors.New("invalid scheduled datetime")

	// ErrInvalidPrice is returned when the quoted price is not a positive integer.
	ErrInvalidPrice = errors.New("price must be a positive amount in cents")

	// ErrInvalidCustomerName is returned when the customer name is empty.
	ErrInvalidCustomerName = errors.New("customer name is required")

	// ErrInvalidCustomerEmail is returned when the customer email is malformed.
	ErrInvalidCustomerEmail = errors.New("invalid customer email")

	// ErrInvalidBookingID is returned when a booking ID is empty.
	ErrInvalidBookingID = errors.New("invalid booking id")

	// ErrInvalidPaymentID is returned when a payment ID is empty.
	ErrInvalidPaymentID = errors.New("invalid payment id")

	// ErrInvalidBookingStatus is returned when a requested status is unknown.
	ErrInvalidBookingStatus = errors.New("invalid booking status")

	// ErrInvalidStatusTransition is returned when a status change would move a
	// booking backwards along its lifecycle.
	ErrInvalidStatusTransition = errors.New("booking status transition not allowed")

	// ErrDistanceUnavailable is returned when the distance provider cannot
	// resolve a route. A quote is never produced from a guessed distance.
	ErrDistanceUnavailable = errors.New("distance unavailable")

	// ErrDuplicatePayment is returned when a booking already has a payment.
	ErrDuplicatePayment = errors.New("payment already exists for this booking")

	// ErrNoCapturablePayment is returned when capture is requested but the
	// booking has no AUTHORIZED payment with an authorization reference.
	ErrNoCapturablePayment = errors.New("no authorized payment to capture")

	// ErrGateway wraps failures reported by the payment gateway.
	ErrGateway = errors.New("payment gateway error")

	// ErrInvalidCredentials is returned on a failed admin login.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrTokenInvalid is returned when an admin session token fails
	// verification or has expired.
	ErrTokenInvalid = errors.New("invalid or expired session token")
)
