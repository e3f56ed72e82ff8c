package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"booking/internal/domain"
	"booking/internal/service"
)

// PricingHandler handles HTTP requests for fare estimates.
type PricingHandler struct {
	pricingService *service.PricingService
}

// NewPricingHandler creates a new PricingHandler.
func NewPricingHandler(pricingService *service.PricingService) *PricingHandler {
	return &PricingHandler{pricingService: pricingService}
}

// EstimateRequest is the HTTP request body for a fare estimate.
type EstimateRequest struct {
	Pickup       string `json:"pickup"`
	Dropoff      string `json:"dropoff"`
	Passengers   int    `json:"passengers"`
	VehicleClass string `json:"vehicleClass"`
}

// EstimateResponse is the HTTP response for a fare estimate.
type EstimateResponse struct {
	TotalCents int64             `json:"totalCents"`
	Currency   string            `json:"currency"`
	Breakdown  BreakdownResponse `json:"breakdown"`
}

// BreakdownResponse itemizes the estimate.
type BreakdownResponse struct {
	BasePrice          int64   `json:"basePrice"`
	DistanceCost       int64   `json:"distanceCost"`
	PassengerSurcharge int64   `json:"passengerSurcharge"`
	DistanceMiles      float64 `json:"distanceMiles"`
}

// Estimate handles POST /v1/pricing/estimate
func (h *PricingHandler) Estimate(c *gin.Context) {
	var req EstimateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	quote, err := h.pricingService.Estimate(c.Request.Context(), service.EstimateRequest{
		Pickup:       req.Pickup,
		Dropoff:      req.Dropoff,
		Passengers:   req.Passengers,
		VehicleClass: domain.VehicleClass(req.VehicleClass),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, EstimateResponse{
		TotalCents: quote.TotalCents,
		Currency:   quote.Currency,
		Breakdown: BreakdownResponse{
			BasePrice:          quote.Breakdown.BaseCents,
			DistanceCost:       quote.Breakdown.DistanceCents,
			PassengerSurcharge: quote.Breakdown.PassengerSurchargeCents,
			DistanceMiles:      quote.Breakdown.DistanceMiles,
		},
	})
}
