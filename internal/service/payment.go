package service

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/google/uuid"

	"booking/internal/domain"
	"booking/internal/gateway"
	"booking/internal/repository"
)

// PaymentGateway is the interface for the external payment gateway.
type PaymentGateway interface {
	CreateCheckoutSession(ctx context.Context, req gateway.CreateSessionRequest) (*gateway.CheckoutSession, error)
	Capture(ctx context.Context, authorizationID string) (*gateway.CaptureResult, error)
}

// PaymentService coordinates booking and payment state in response to
// checkout initiation, gateway webhooks, and administrative capture.
type PaymentService struct {
	bookingRepo         repository.BookingRepository
	paymentRepo         repository.PaymentRepository
	gateway             PaymentGateway
	notificationService *NotificationService
}

// NewPaymentService creates a new PaymentService.
func NewPaymentService(
	bookingRepo repository.BookingRepository,
	paymentRepo repository.PaymentRepository,
	gw PaymentGateway,
	notificationService *NotificationService,
) *PaymentService {
	return &PaymentService{
		bookingRepo:         bookingRepo,
		paymentRepo:         paymentRepo,
		gateway:             gw,
		notificationService: notificationService,
	}
}

// CheckoutRequest contains the parameters for initiating a card checkout.
type CheckoutRequest struct {
	BookingID     string
	CustomerEmail string
	CustomerName  string
}

// CheckoutResult is the outcome of initiating a card checkout.
type CheckoutResult struct {
	Payment     *domain.Payment
	SessionID   string
	RedirectURL string
}

// InitiateCardCheckout creates a gateway authorization session for a booking
// and records a pending CARD payment. Rejects with ErrDuplicatePayment if the
// booking already has a payment, to prevent double-charging.
func (s *PaymentService) InitiateCardCheckout(ctx context.Context, req CheckoutRequest) (*CheckoutResult, error) {
	if req.BookingID == "" {
		return nil, ErrInvalidBookingID
	}

	booking, err := s.bookingRepo.GetByID(ctx, req.BookingID)
	if err != nil {
		return nil, err
	}

	existing, err := s.paymentRepo.GetByBookingID(ctx, booking.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicatePayment
	}

	session, err := s.gateway.CreateCheckoutSession(ctx, gateway.CreateSessionRequest{
		BookingID:     booking.ID,
		AmountCents:   booking.PriceCents,
		Currency:      "USD",
		ProductName:   fmt.Sprintf("Ride - %s to %s", booking.Pickup, booking.Dropoff),
		Description:   fmt.Sprintf("Ride scheduled for %s", booking.ScheduledAt.Format(time.RFC1123)),
		CustomerEmail: req.CustomerEmail,
		Metadata: map[string]string{
			"pickup":       booking.Pickup,
			"dropoff":      booking.Dropoff,
			"datetime":     booking.ScheduledAt.Format(time.RFC3339),
			"passengers":   strconv.Itoa(booking.Passengers),
			"vehicleClass": string(booking.VehicleClass),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGateway, err)
	}

	now := time.Now()
	payment := &domain.Payment{
		ID:          uuid.New().String(),
		BookingID:   booking.ID,
		SessionID:   session.ID,
		AmountCents: booking.PriceCents,
		Currency:    "USD",
		Status:      domain.PaymentStatusRequiresPaymentMethod,
		Method:      domain.PaymentMethodCard,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, err
	}

	return &CheckoutResult{
		Payment:     payment,
		SessionID:   session.ID,
		RedirectURL: session.URL,
	}, nil
}

// InitiateCashPayment records a CASH payment for a booking and confirms the
// booking immediately. No gateway call is made; the ledger entry stays
// pending until an operator marks it settled.
func (s *PaymentService) InitiateCashPayment(ctx context.Context, bookingID string) (*domain.Payment, error) {
	if bookingID == "" {
		return nil, ErrInvalidBookingID
	}

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	existing, err := s.paymentRepo.GetByBookingID(ctx, booking.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicatePayment
	}

	now := time.Now()
	payment := &domain.Payment{
		ID:          uuid.New().String(),
		BookingID:   booking.ID,
		AmountCents: booking.PriceCents,
		Currency:    "USD",
		Status:      domain.PaymentStatusRequiresPaymentMethod,
		Method:      domain.PaymentMethodCash,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	// Ledger first, then booking: CONFIRMED is only meaningful once the
	// ledger records a payment method.
	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, err
	}

	if booking.CanTransitionTo(domain.BookingStatusConfirmed) {
		// Zero rows means the booking moved under us; the ledger entry stands
		// and the current status wins.
		if _, err := s.bookingRepo.UpdateStatus(ctx, booking.ID, booking.Status, domain.BookingStatusConfirmed); err != nil {
			return nil, err
		}
	}

	if s.notificationService != nil {
		_ = s.notificationService.NotifyBookingConfirmed(ctx, booking, payment)
	}

	return payment, nil
}

// HandleGatewayEvent applies a verified webhook event to the ledger and
// booking. Delivery is at-least-once and possibly reordered, so every branch
// is idempotent: re-processing a delivered event is a no-op, and terminal
// ledger states are never downgraded.
func (s *PaymentService) HandleGatewayEvent(ctx context.Context, event *gateway.Event) error {
	switch event.Type {
	case gateway.EventCheckoutCompleted:
		return s.handleCheckoutCompleted(ctx, event)
	case gateway.EventAuthorizationSucceeded:
		return s.advanceByAuthorization(ctx, event.Data.Object.ID, domain.PaymentStatusSucceeded)
	case gateway.EventAuthorizationFailed:
		return s.advanceByAuthorization(ctx, event.Data.Object.ID, domain.PaymentStatusFailed)
	case gateway.EventAuthorizationCanceled:
		return s.advanceByAuthorization(ctx, event.Data.Object.ID, domain.PaymentStatusCancelled)
	case gateway.EventAuthorizationAction:
		// The customer is completing 3DS or similar; nothing to record yet.
		return nil
	default:
		log.Printf("unhandled gateway event type: %s", event.Type)
		return nil
	}
}

// handleCheckoutCompleted records the authorization hold: the ledger gets its
// authorization reference (exactly once) and moves to AUTHORIZED, then the
// booking is confirmed and missing customer contact backfilled.
func (s *PaymentService) handleCheckoutCompleted(ctx context.Context, event *gateway.Event) error {
	object := event.Data.Object

	bookingID := object.Metadata["bookingId"]
	if bookingID == "" {
		log.Printf("gateway event %s has no bookingId metadata; ignoring", event.ID)
		return nil
	}

	payment, err := s.paymentRepo.GetBySessionID(ctx, object.ID)
	if err != nil {
		if err == repository.ErrNotFound {
			log.Printf("gateway session %s matches no payment; ignoring", object.ID)
			return nil
		}
		return err
	}

	if payment.BookingID != bookingID {
		log.Printf("gateway session %s booking mismatch (%s vs %s); ignoring", object.ID, payment.BookingID, bookingID)
		return nil
	}

	if object.PaymentIntent != "" {
		// Zero rows means the reference was already set or the ledger is
		// terminal; both are fine under redelivery.
		if _, err := s.paymentRepo.SetAuthorization(ctx, payment.ID, object.PaymentIntent); err != nil {
			return err
		}
	}

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return err
	}

	if booking.Status == domain.BookingStatusPending {
		// Compare-and-swap from PENDING: if an admin cancelled the booking
		// between our read and this write, zero rows change and the
		// cancellation stands. Redelivery after either outcome is a no-op.
		changed, err := s.bookingRepo.UpdateStatus(ctx, booking.ID, domain.BookingStatusPending, domain.BookingStatusConfirmed)
		if err != nil {
			return err
		}
		if changed > 0 {
			booking.Status = domain.BookingStatusConfirmed
		}
	}

	if s.backfillCustomer(booking, object) {
		if err := s.bookingRepo.BackfillContact(ctx, booking.ID, booking.CustomerName, booking.CustomerEmail, booking.CustomerPhone); err != nil {
			return err
		}
	}

	if s.notificationService != nil {
		_ = s.notificationService.NotifyPaymentAuthorized(ctx, booking, payment)
	}

	return nil
}

// backfillCustomer fills empty contact fields from the checkout session.
// Existing values are never overwritten. Reports whether anything changed.
func (s *PaymentService) backfillCustomer(booking *domain.Booking, object gateway.EventObject) bool {
	changed := false

	email := object.CustomerDetail.Email
	if email == "" {
		email = object.CustomerEmail
	}

	if booking.CustomerName == "" && object.CustomerDetail.Name != "" {
		booking.CustomerName = object.CustomerDetail.Name
		changed = true
	}
	if booking.CustomerEmail == "" && email != "" {
		booking.CustomerEmail = email
		changed = true
	}
	if booking.CustomerPhone == "" && object.CustomerDetail.Phone != "" {
		booking.CustomerPhone = object.CustomerDetail.Phone
		changed = true
	}

	return changed
}

// advanceByAuthorization moves the ledger matching an authorization
// reference to the given status. Terminal states are sticky: the guarded
// update refuses downgrades, so an out-of-order "failed" after "succeeded"
// changes nothing.
func (s *PaymentService) advanceByAuthorization(ctx context.Context, authorizationID string, status domain.PaymentStatus) error {
	if authorizationID == "" {
		// Cash entries and not-yet-authorized card entries carry an empty
		// reference; an event without one must not be matched against them.
		log.Printf("gateway event carries no authorization reference; ignoring")
		return nil
	}

	payment, err := s.paymentRepo.GetByAuthorizationID(ctx, authorizationID)
	if err != nil {
		if err == repository.ErrNotFound {
			log.Printf("authorization %s matches no payment; ignoring", authorizationID)
			return nil
		}
		return err
	}

	changed, err := s.paymentRepo.AdvanceStatus(ctx, payment.ID, status)
	if err != nil {
		return err
	}

	if changed > 0 && s.notificationService != nil {
		switch status {
		case domain.PaymentStatusSucceeded:
			_ = s.notificationService.NotifyPaymentCaptured(ctx, payment)
		case domain.PaymentStatusFailed:
			_ = s.notificationService.NotifyPaymentFailed(ctx, payment)
		}
	}

	return nil
}

// CapturePayment finalizes the authorization hold on a booking's payment.
// On gateway failure the ledger is explicitly moved to FAILED and the error
// surfaced, so the inconsistency is visible to the operator rather than
// ambiguous. Capture is never retried automatically.
func (s *PaymentService) CapturePayment(ctx context.Context, bookingID string) (*domain.Payment, error) {
	if bookingID == "" {
		return nil, ErrInvalidBookingID
	}

	payment, err := s.paymentRepo.GetByBookingID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if payment == nil || payment.Status != domain.PaymentStatusAuthorized || payment.AuthorizationID == "" {
		return nil, ErrNoCapturablePayment
	}

	if _, err := s.gateway.Capture(ctx, payment.AuthorizationID); err != nil {
		if _, advErr := s.paymentRepo.AdvanceStatus(ctx, payment.ID, domain.PaymentStatusFailed); advErr != nil {
			return nil, advErr
		}
		payment.Status = domain.PaymentStatusFailed
		if s.notificationService != nil {
			_ = s.notificationService.NotifyPaymentFailed(ctx, payment)
		}
		return payment, fmt.Errorf("%w: %v", ErrGateway, err)
	}

	if _, err := s.paymentRepo.AdvanceStatus(ctx, payment.ID, domain.PaymentStatusSucceeded); err != nil {
		return nil, err
	}
	payment.Status = domain.PaymentStatusSucceeded

	if s.notificationService != nil {
		_ = s.notificationService.NotifyPaymentCaptured(ctx, payment)
	}

	return payment, nil
}

// GetPayment retrieves a payment by ID.
func (s *PaymentService) GetPayment(ctx context.Context, paymentID string) (*domain.Payment, error) {
	if paymentID == "" {
		return nil, ErrInvalidPaymentID
	}
	return s.paymentRepo.GetByID(ctx, paymentID)
}
