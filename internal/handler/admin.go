package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"booking/internal/domain"
	"booking/internal/repository"
	"booking/internal/service"
)

// AdminHandler handles the operator review surface.
type AdminHandler struct {
	authService       *service.AuthService
	bookingService    *service.BookingService
	paymentService    *service.PaymentService
	captureOnComplete bool
}

// NewAdminHandler creates a new AdminHandler. captureOnComplete couples the
// COMPLETED booking status to payment capture; it is a deliberate
// configuration choice, off by default.
func NewAdminHandler(
	authService *service.AuthService,
	bookingService *service.BookingService,
	paymentService *service.PaymentService,
	captureOnComplete bool,
) *AdminHandler {
	return &AdminHandler{
		authService:       authService,
		bookingService:    bookingService,
		paymentService:    paymentService,
		captureOnComplete: captureOnComplete,
	}
}

// LoginRequest is the HTTP request body for admin login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login handles POST /v1/admin/login
func (h *AdminHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	token, err := h.authService.Login(req.Username, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, gin.H{"token": token})
}

// ListBookings handles GET /v1/admin/bookings
func (h *AdminHandler) ListBookings(c *gin.Context) {
	filter := repository.BookingFilter{
		Status: domain.BookingStatus(c.Query("status")),
		Search: c.Query("search"),
		Limit:  queryInt(c, "limit", 20),
		Offset: queryInt(c, "offset", 0),
	}

	if from := c.Query("dateFrom"); from != "" {
		if t, err := time.Parse(time.RFC3339, from); err == nil {
			filter.DateFrom = t
		}
	}
	if to := c.Query("dateTo"); to != "" {
		if t, err := time.Parse(time.RFC3339, to); err == nil {
			filter.DateTo = t
		}
	}

	bookings, total, err := h.bookingService.ListBookings(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	items := make([]BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		items = append(items, toBookingResponse(b))
	}

	respondData(c, http.StatusOK, gin.H{
		"bookings": items,
		"pagination": gin.H{
			"total":  total,
			"limit":  filter.Limit,
			"offset": filter.Offset,
		},
	})
}

// GetBooking handles GET /v1/admin/bookings/:id
func (h *AdminHandler) GetBooking(c *gin.Context) {
	bookingID := c.Param("id")

	booking, err := h.bookingService.GetBooking(c.Request.Context(), bookingID)
	if err != nil {
		respondError(c, err)
		return
	}

	payment, err := h.bookingService.GetBookingPayment(c.Request.Context(), bookingID)
	if err != nil {
		respondError(c, err)
		return
	}

	response := gin.H{"booking": toBookingResponse(booking)}
	if payment != nil {
		response["payment"] = toPaymentResponse(payment)
	}

	respondData(c, http.StatusOK, response)
}

// UpdateBookingRequest is the HTTP request body for an admin booking edit.
type UpdateBookingRequest struct {
	Status *string `json:"status"`
	Notes  *string `json:"notes"`
}

// UpdateBooking handles PATCH /v1/admin/bookings/:id
func (h *AdminHandler) UpdateBooking(c *gin.Context) {
	var req UpdateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	update := service.UpdateBookingRequest{
		BookingID: c.Param("id"),
		Notes:     req.Notes,
	}
	if req.Status != nil {
		status := domain.BookingStatus(*req.Status)
		update.Status = &status
	}

	booking, err := h.bookingService.UpdateBooking(c.Request.Context(), update)
	if err != nil {
		respondError(c, err)
		return
	}

	// Optional coupling: completing a booking captures its authorized hold.
	if h.captureOnComplete && req.Status != nil && booking.Status == domain.BookingStatusCompleted {
		if _, err := h.paymentService.CapturePayment(c.Request.Context(), booking.ID); err != nil && !errors.Is(err, service.ErrNoCapturablePayment) {
			respondError(c, err)
			return
		}
	}

	respondData(c, http.StatusOK, toBookingResponse(booking))
}

// CapturePayment handles POST /v1/admin/bookings/:id/capture
func (h *AdminHandler) CapturePayment(c *gin.Context) {
	payment, err := h.paymentService.CapturePayment(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, toPaymentResponse(payment))
}

func queryInt(c *gin.Context, key string, defaultValue int) int {
	if raw := c.Query(key); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v >= 0 {
			return v
		}
	}
	return defaultValue
}
