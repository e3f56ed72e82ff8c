package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"booking/internal/gateway"
	"booking/internal/service"
)

const signatureHeader = "Gateway-Signature"

// WebhookHandler handles inbound payment gateway events.
type WebhookHandler struct {
	paymentService *service.PaymentService
	webhookSecret  string
}

// NewWebhookHandler creates a new WebhookHandler.
func NewWebhookHandler(paymentService *service.PaymentService, webhookSecret string) *WebhookHandler {
	return &WebhookHandler{
		paymentService: paymentService,
		webhookSecret:  webhookSecret,
	}
}

// HandleEvent handles POST /v1/webhooks/payment.
// The raw body is verified against the shared secret before anything else;
// an unverifiable payload is rejected without touching state, with a non-200
// so the gateway's redelivery and alerting kick in.
func (h *WebhookHandler) HandleEvent(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "unreadable payload"})
		return
	}

	event, err := gateway.ConstructEvent(payload, c.GetHeader(signatureHeader), h.webhookSecret)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid signature"})
		return
	}

	if err := h.paymentService.HandleGatewayEvent(c.Request.Context(), event); err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "webhook handler failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}
