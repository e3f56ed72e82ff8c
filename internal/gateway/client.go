package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"booking/internal/config"
)

// Error is a failure reported by the payment gateway. Capture and
// authorization errors are never retried here; retrying a charge is an
// operator decision.
type Error struct {
	Op         string
	Code       string
	Message    string
	HTTPStatus int
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("gateway %s: %s (%s)", e.Op, e.Message, e.Code)
	}
	return fmt.Sprintf("gateway %s: %s", e.Op, e.Message)
}

// CheckoutSession is a hosted checkout session holding an authorization.
type CheckoutSession struct {
	ID  string
	URL string
}

// CaptureResult reports the outcome of capturing an authorization hold.
type CaptureResult struct {
	AuthorizationID string
	Status          string
	AmountCaptured  int64
}

// CreateSessionRequest describes the checkout session to create.
// Metadata must carry enough trip context to correlate asynchronous events
// back to a booking without a separate lookup table.
type CreateSessionRequest struct {
	BookingID     string
	AmountCents   int64
	Currency      string
	Description   string
	ProductName   string
	CustomerEmail string
	Metadata      map[string]string
}

// Client talks to a Stripe-compatible payment gateway over its REST API.
type Client struct {
	secretKey  string
	baseURL    string
	successURL string
	cancelURL  string
	httpClient *http.Client
}

// NewClient creates a new gateway client.
func NewClient(cfg config.GatewayConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		secretKey:  cfg.SecretKey,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		successURL: cfg.SuccessURL,
		cancelURL:  cfg.CancelURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// CreateCheckoutSession requests a hosted checkout configured for manual
// capture: completing it places a hold on the customer's card, not a charge.
func (c *Client) CreateCheckoutSession(ctx context.Context, req CreateSessionRequest) (*CheckoutSession, error) {
	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("payment_method_types[0]", "card")
	form.Set("payment_intent_data[capture_method]", "manual")
	form.Set("line_items[0][quantity]", "1")
	form.Set("line_items[0][price_data][currency]", strings.ToLower(req.Currency))
	form.Set("line_items[0][price_data][unit_amount]", strconv.FormatInt(req.AmountCents, 10))
	form.Set("line_items[0][price_data][product_data][name]", req.ProductName)
	if req.Description != "" {
		form.Set("line_items[0][price_data][product_data][description]", req.Description)
	}
	form.Set("success_url", c.successURL+"?bookingId="+url.QueryEscape(req.BookingID)+"&session_id={CHECKOUT_SESSION_ID}")
	form.Set("cancel_url", c.cancelURL)
	if req.CustomerEmail != "" {
		form.Set("customer_email", req.CustomerEmail)
	}
	form.Set("metadata[bookingId]", req.BookingID)
	for k, v := range req.Metadata {
		form.Set("metadata["+k+"]", v)
	}

	var body struct {
		ID  string `json:"id"`
		URL string `json:"url"`
	}
	if err := c.post(ctx, "create checkout session", "/v1/checkout/sessions", form, &body); err != nil {
		return nil, err
	}

	return &CheckoutSession{ID: body.ID, URL: body.URL}, nil
}

// Capture finalizes an authorization hold into an actual charge.
// Fails if the reference is invalid, already captured, or already canceled.
func (c *Client) Capture(ctx context.Context, authorizationID string) (*CaptureResult, error) {
	var body struct {
		ID             string `json:"id"`
		Status         string `json:"status"`
		AmountReceived int64  `json:"amount_received"`
	}
	path := "/v1/payment_intents/" + url.PathEscape(authorizationID) + "/capture"
	if err := c.post(ctx, "capture", path, url.Values{}, &body); err != nil {
		return nil, err
	}

	return &CaptureResult{
		AuthorizationID: body.ID,
		Status:          body.Status,
		AmountCaptured:  body.AmountReceived,
	}, nil
}

// gatewayErrorBody mirrors the gateway's error envelope.
type gatewayErrorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) post(ctx context.Context, op, path string, form url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return &Error{Op: op, Message: err.Error()}
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &Error{Op: op, Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errBody gatewayErrorBody
		_ = json.NewDecoder(resp.Body).Decode(&errBody)
		message := errBody.Error.Message
		if message == "" {
			message = http.StatusText(resp.StatusCode)
		}
		return &Error{
			Op:         op,
			Code:       errBody.Error.Code,
			Message:    message,
			HTTPStatus: resp.StatusCode,
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &Error{Op: op, Message: "malformed response: " + err.Error()}
	}

	return nil
}
