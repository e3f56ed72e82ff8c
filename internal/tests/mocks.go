package tests

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"booking/internal/domain"
	"booking/internal/gateway"
	"booking/internal/repository"
	"booking/internal/service"
)

// ──────────────────────────────────────────────
// MOCK BOOKING REPOSITORY
// ──────────────────────────────────────────────

// MockBookingRepository is a mock implementation of BookingRepository.
type MockBookingRepository struct {
	mu       sync.RWMutex
	bookings map[string]*domain.Booking

	// Counters for verification
	CreateCallCount       int32
	UpdateStatusCallCount int32

	// Error injection
	CreateError       error
	UpdateStatusError error
	UpdateNotesError  error
	BackfillError     error

	// BeforeUpdateStatus, when set, runs before the compare-and-swap check.
	// Lets tests interleave a concurrent write into the read-then-write gap.
	BeforeUpdateStatus func()
}

// NewMockBookingRepository creates a new mock booking repository.
func NewMockBookingRepository() *MockBookingRepository {
	return &MockBookingRepository{
		bookings: make(map[string]*domain.Booking),
	}
}

// AddBooking adds a booking to the mock repository.
func (m *MockBookingRepository) AddBooking(booking *domain.Booking) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bookings[booking.ID] = booking
}

func (m *MockBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bookings[booking.ID] = booking
	return nil
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	booking, ok := m.bookings[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	// Return a copy to avoid mutation issues.
	copy := *booking
	return &copy, nil
}

// UpdateStatus mirrors the real repository's compare-and-swap: the write
// only lands when the stored row still holds the expected status.
func (m *MockBookingRepository) UpdateStatus(ctx context.Context, id string, from, to domain.BookingStatus) (int64, error) {
	atomic.AddInt32(&m.UpdateStatusCallCount, 1)
	if m.UpdateStatusError != nil {
		return 0, m.UpdateStatusError
	}
	if m.BeforeUpdateStatus != nil {
		m.BeforeUpdateStatus()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	booking, ok := m.bookings[id]
	if !ok || booking.Status != from {
		return 0, nil
	}
	booking.Status = to
	return 1, nil
}

func (m *MockBookingRepository) UpdateNotes(ctx context.Context, id, notes string) error {
	if m.UpdateNotesError != nil {
		return m.UpdateNotesError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	booking, ok := m.bookings[id]
	if !ok {
		return repository.ErrNotFound
	}
	booking.Notes = notes
	return nil
}

// BackfillContact mirrors the real repository's never-overwrite rule.
func (m *MockBookingRepository) BackfillContact(ctx context.Context, id, name, email, phone string) error {
	if m.BackfillError != nil {
		return m.BackfillError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	booking, ok := m.bookings[id]
	if !ok {
		return repository.ErrNotFound
	}
	if booking.CustomerName == "" {
		booking.CustomerName = name
	}
	if booking.CustomerEmail == "" {
		booking.CustomerEmail = email
	}
	if booking.CustomerPhone == "" {
		booking.CustomerPhone = phone
	}
	return nil
}

func (m *MockBookingRepository) List(ctx context.Context, filter repository.BookingFilter) ([]*domain.Booking, int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var matched []*domain.Booking
	for _, b := range m.bookings {
		if filter.Status != "" && b.Status != filter.Status {
			continue
		}
		if filter.Search != "" {
			needle := strings.ToLower(filter.Search)
			haystack := strings.ToLower(b.Pickup + " " + b.Dropoff + " " + b.CustomerName + " " + b.CustomerEmail)
			if !strings.Contains(haystack, needle) {
				continue
			}
		}
		if !filter.DateFrom.IsZero() && b.ScheduledAt.Before(filter.DateFrom) {
			continue
		}
		if !filter.DateTo.IsZero() && b.ScheduledAt.After(filter.DateTo) {
			continue
		}
		copy := *b
		matched = append(matched, &copy)
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := len(matched)
	if filter.Offset > 0 {
		if filter.Offset >= len(matched) {
			matched = nil
		} else {
			matched = matched[filter.Offset:]
		}
	}
	if filter.Limit > 0 && len(matched) > filter.Limit {
		matched = matched[:filter.Limit]
	}

	return matched, total, nil
}

// GetBooking returns the booking by ID (for test assertions).
func (m *MockBookingRepository) GetBooking(id string) *domain.Booking {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.bookings[id]
}

// CountBookings returns the number of bookings.
func (m *MockBookingRepository) CountBookings() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.bookings)
}

// ──────────────────────────────────────────────
// MOCK PAYMENT REPOSITORY
// ──────────────────────────────────────────────

// MockPaymentRepository is a mock implementation of PaymentRepository.
// AdvanceStatus and SetAuthorization enforce the same guards as the real
// repository: terminal statuses are sticky and the authorization reference
// is written at most once.
type MockPaymentRepository struct {
	mu       sync.RWMutex
	payments map[string]*domain.Payment

	// Counters
	CreateCallCount        int32
	AdvanceStatusCallCount int32

	// Error injection
	CreateError        error
	AdvanceStatusError error
}

// NewMockPaymentRepository creates a new mock payment repository.
func NewMockPaymentRepository() *MockPaymentRepository {
	return &MockPaymentRepository{
		payments: make(map[string]*domain.Payment),
	}
}

// AddPayment adds a payment to the mock repository.
func (m *MockPaymentRepository) AddPayment(payment *domain.Payment) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payments[payment.ID] = payment
}

func (m *MockPaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *payment
	m.payments[payment.ID] = &copy
	return nil
}

func (m *MockPaymentRepository) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	payment, ok := m.payments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *payment
	return &copy, nil
}

func (m *MockPaymentRepository) GetByBookingID(ctx context.Context, bookingID string) (*domain.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.payments {
		if p.BookingID == bookingID {
			copy := *p
			return &copy, nil
		}
	}
	return nil, nil // No payment, but not an error for the duplicate check
}

// GetBySessionID mirrors the real repository's empty-reference guard: cash
// and not-yet-authorized entries store empty strings and must never match.
func (m *MockPaymentRepository) GetBySessionID(ctx context.Context, sessionID string) (*domain.Payment, error) {
	if sessionID == "" {
		return nil, repository.ErrNotFound
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.payments {
		if p.SessionID == sessionID {
			copy := *p
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockPaymentRepository) GetByAuthorizationID(ctx context.Context, authorizationID string) (*domain.Payment, error) {
	if authorizationID == "" {
		return nil, repository.ErrNotFound
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.payments {
		if p.AuthorizationID == authorizationID {
			copy := *p
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockPaymentRepository) AdvanceStatus(ctx context.Context, id string, status domain.PaymentStatus) (int64, error) {
	atomic.AddInt32(&m.AdvanceStatusCallCount, 1)
	if m.AdvanceStatusError != nil {
		return 0, m.AdvanceStatusError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	payment, ok := m.payments[id]
	if !ok {
		return 0, nil
	}
	if payment.Status.IsTerminal() {
		return 0, nil // Terminal states are sticky
	}
	payment.Status = status
	return 1, nil
}

func (m *MockPaymentRepository) SetAuthorization(ctx context.Context, id, authorizationID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	payment, ok := m.payments[id]
	if !ok {
		return 0, nil
	}
	if payment.AuthorizationID != "" || payment.Status.IsTerminal() {
		return 0, nil // Reference is written at most once
	}
	payment.AuthorizationID = authorizationID
	payment.Status = domain.PaymentStatusAuthorized
	return 1, nil
}

// GetPayment returns the payment by ID (for test assertions).
func (m *MockPaymentRepository) GetPayment(id string) *domain.Payment {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.payments[id]
}

// GetPaymentByBookingID returns the payment for a booking (for assertions).
func (m *MockPaymentRepository) GetPaymentByBookingID(bookingID string) *domain.Payment {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.payments {
		if p.BookingID == bookingID {
			return p
		}
	}
	return nil
}

// CountPayments returns the number of payments.
func (m *MockPaymentRepository) CountPayments() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.payments)
}

// ──────────────────────────────────────────────
// MOCK PAYMENT GATEWAY
// ──────────────────────────────────────────────

// MockGateway is a mock payment gateway.
type MockGateway struct {
	mu sync.Mutex

	// Control behavior
	CreateSessionError error
	CaptureError       error

	// Counters
	CreateSessionCallCount int32
	CaptureCallCount       int32

	// Recorded requests for assertions
	LastSessionRequest gateway.CreateSessionRequest
	CapturedIDs        []string

	sessionSeq int
}

// NewMockGateway creates a new mock gateway.
func NewMockGateway() *MockGateway {
	return &MockGateway{}
}

func (m *MockGateway) CreateCheckoutSession(ctx context.Context, req gateway.CreateSessionRequest) (*gateway.CheckoutSession, error) {
	atomic.AddInt32(&m.CreateSessionCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateSessionError != nil {
		return nil, m.CreateSessionError
	}
	m.sessionSeq++
	m.LastSessionRequest = req
	id := fmt.Sprintf("cs_test_%d", m.sessionSeq)
	return &gateway.CheckoutSession{
		ID:  id,
		URL: "https://checkout.example.com/" + id,
	}, nil
}

func (m *MockGateway) Capture(ctx context.Context, authorizationID string) (*gateway.CaptureResult, error) {
	atomic.AddInt32(&m.CaptureCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CaptureError != nil {
		return nil, m.CaptureError
	}
	m.CapturedIDs = append(m.CapturedIDs, authorizationID)
	return &gateway.CaptureResult{
		AuthorizationID: authorizationID,
		Status:          "succeeded",
	}, nil
}

// ──────────────────────────────────────────────
// MOCK DISTANCE PROVIDER
// ──────────────────────────────────────────────

// MockDistanceProvider is a mock distance provider.
type MockDistanceProvider struct {
	mu sync.Mutex

	// Control behavior
	Miles float64
	Err   error

	// Counters
	CallCount int32
}

// NewMockDistanceProvider creates a mock provider returning a fixed distance.
func NewMockDistanceProvider(miles float64) *MockDistanceProvider {
	return &MockDistanceProvider{Miles: miles}
}

func (m *MockDistanceProvider) MilesBetween(ctx context.Context, origin, destination string) (float64, error) {
	atomic.AddInt32(&m.CallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return 0, m.Err
	}
	return m.Miles, nil
}

// SetDistance changes the distance returned by the provider.
func (m *MockDistanceProvider) SetDistance(miles float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Miles = miles
}

// ──────────────────────────────────────────────
// HELPER ERRORS
// ──────────────────────────────────────────────

var (
	ErrMockGatewayDown = errors.New("mock: gateway unreachable")
	ErrMockTimeout     = errors.New("mock: operation timeout")
)

// ──────────────────────────────────────────────
// MOCK DISTANCE CACHE
// ──────────────────────────────────────────────

// MockDistanceCache is an in-memory distance cache.
type MockDistanceCache struct {
	mu      sync.RWMutex
	entries map[string]float64

	// Error injection
	GetError error
	SetError error

	// Counters
	GetCallCount int32
	SetCallCount int32
}

// NewMockDistanceCache creates a new mock distance cache.
func NewMockDistanceCache() *MockDistanceCache {
	return &MockDistanceCache{
		entries: make(map[string]float64),
	}
}

func (m *MockDistanceCache) GetDistance(ctx context.Context, origin, destination string) (float64, bool, error) {
	atomic.AddInt32(&m.GetCallCount, 1)
	if m.GetError != nil {
		return 0, false, m.GetError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	miles, ok := m.entries[origin+"|"+destination]
	return miles, ok, nil
}

func (m *MockDistanceCache) SetDistance(ctx context.Context, origin, destination string, miles float64) error {
	atomic.AddInt32(&m.SetCallCount, 1)
	if m.SetError != nil {
		return m.SetError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[origin+"|"+destination] = miles
	return nil
}

// Prime seeds a cached distance.
func (m *MockDistanceCache) Prime(origin, destination string, miles float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[origin+"|"+destination] = miles
}

// Ensure interfaces are satisfied.
var (
	_ repository.BookingRepository = (*MockBookingRepository)(nil)
	_ repository.PaymentRepository = (*MockPaymentRepository)(nil)
	_ service.PaymentGateway       = (*MockGateway)(nil)
	_ service.DistanceProvider     = (*MockDistanceProvider)(nil)
	_ service.DistanceCache        = (*MockDistanceCache)(nil)
)
