package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"booking/internal/domain"
	"booking/internal/service"
)

// BookingHandler handles HTTP requests for bookings and checkout.
type BookingHandler struct {
	bookingService *service.BookingService
	paymentService *service.PaymentService
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(bookingService *service.BookingService, paymentService *service.PaymentService) *BookingHandler {
	return &BookingHandler{
		bookingService: bookingService,
		paymentService: paymentService,
	}
}

// CreateBookingRequest is the HTTP request body for creating a booking.
type CreateBookingRequest struct {
	Pickup        string `json:"pickup"`
	Dropoff       string `json:"dropoff"`
	Datetime      string `json:"datetime"`
	Passengers    int    `json:"passengers"`
	Luggage       int    `json:"luggage"`
	VehicleClass  string `json:"vehicleClass"`
	PriceCents    int64  `json:"priceCents"`
	CustomerName  string `json:"customerName"`
	CustomerEmail string `json:"customerEmail"`
	CustomerPhone string `json:"customerPhone"`
}

// BookingResponse is the HTTP representation of a booking.
type BookingResponse struct {
	ID            string `json:"id"`
	Pickup        string `json:"pickup"`
	Dropoff       string `json:"dropoff"`
	Datetime      string `json:"datetime"`
	Passengers    int    `json:"passengers"`
	Luggage       int    `json:"luggage"`
	VehicleClass  string `json:"vehicleClass"`
	PriceCents    int64  `json:"priceCents"`
	Status        string `json:"status"`
	CustomerName  string `json:"customerName,omitempty"`
	CustomerEmail string `json:"customerEmail,omitempty"`
	CustomerPhone string `json:"customerPhone,omitempty"`
	Notes         string `json:"notes,omitempty"`
	CreatedAt     string `json:"createdAt"`
	UpdatedAt     string `json:"updatedAt"`
}

func toBookingResponse(b *domain.Booking) BookingResponse {
	return BookingResponse{
		ID:            b.ID,
		Pickup:        b.Pickup,
		Dropoff:       b.Dropoff,
		Datetime:      b.ScheduledAt.Format(time.RFC3339),
		Passengers:    b.Passengers,
		Luggage:       b.Luggage,
		VehicleClass:  string(b.VehicleClass),
		PriceCents:    b.PriceCents,
		Status:        string(b.Status),
		CustomerName:  b.CustomerName,
		CustomerEmail: b.CustomerEmail,
		CustomerPhone: b.CustomerPhone,
		Notes:         b.Notes,
		CreatedAt:     b.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     b.UpdatedAt.Format(time.RFC3339),
	}
}

// PaymentResponse is the HTTP representation of a payment.
type PaymentResponse struct {
	ID              string `json:"id"`
	BookingID       string `json:"bookingId"`
	SessionID       string `json:"sessionId,omitempty"`
	AuthorizationID string `json:"authorizationId,omitempty"`
	AmountCents     int64  `json:"amountCents"`
	Currency        string `json:"currency"`
	Status          string `json:"status"`
	Method          string `json:"method"`
}

func toPaymentResponse(p *domain.Payment) PaymentResponse {
	return PaymentResponse{
		ID:              p.ID,
		BookingID:       p.BookingID,
		SessionID:       p.SessionID,
		AuthorizationID: p.AuthorizationID,
		AmountCents:     p.AmountCents,
		Currency:        p.Currency,
		Status:          string(p.Status),
		Method:          string(p.Method),
	}
}

// CreateBooking handles POST /v1/bookings
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	scheduledAt, err := time.Parse(time.RFC3339, req.Datetime)
	if err != nil {
		respondError(c, service.ErrInvalidScheduledAt)
		return
	}

	booking, err := h.bookingService.CreateBooking(c.Request.Context(), service.CreateBookingRequest{
		Pickup:        req.Pickup,
		Dropoff:       req.Dropoff,
		ScheduledAt:   scheduledAt,
		Passengers:    req.Passengers,
		Luggage:       req.Luggage,
		VehicleClass:  domain.VehicleClass(req.VehicleClass),
		PriceCents:    req.PriceCents,
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		CustomerPhone: req.CustomerPhone,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusCreated, gin.H{
		"bookingId": booking.ID,
		"status":    booking.Status,
	})
}

// GetBooking handles GET /v1/bookings/:id
func (h *BookingHandler) GetBooking(c *gin.Context) {
	booking, err := h.bookingService.GetBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, toBookingResponse(booking))
}

// CheckoutRequest is the HTTP request body for initiating card checkout.
type CheckoutRequest struct {
	BookingID     string `json:"bookingId"`
	CustomerEmail string `json:"customerEmail"`
	CustomerName  string `json:"customerName"`
}

// Checkout handles POST /v1/checkout
func (h *BookingHandler) Checkout(c *gin.Context) {
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	result, err := h.paymentService.InitiateCardCheckout(c.Request.Context(), service.CheckoutRequest{
		BookingID:     req.BookingID,
		CustomerEmail: req.CustomerEmail,
		CustomerName:  req.CustomerName,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusCreated, gin.H{
		"sessionId": result.SessionID,
		"url":       result.RedirectURL,
	})
}

// CashPaymentRequest is the HTTP request body for a cash payment.
type CashPaymentRequest struct {
	BookingID string `json:"bookingId"`
}

// CashPayment handles POST /v1/payments/cash
func (h *BookingHandler) CashPayment(c *gin.Context) {
	var req CashPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	payment, err := h.paymentService.InitiateCashPayment(c.Request.Context(), req.BookingID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusCreated, gin.H{
		"bookingId":     payment.BookingID,
		"paymentMethod": "cash",
		"status":        "confirmed",
	})
}
