package gateway

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrSignatureInvalid is returned when a webhook payload fails
// authentication. The event must be dropped without touching any state.
var ErrSignatureInvalid = errors.New("webhook signature invalid")

// Event types delivered by the gateway. Delivery is at-least-once and may be
// reordered or duplicated.
const (
	EventCheckoutCompleted      = "checkout.session.completed"
	EventAuthorizationSucceeded = "payment_intent.succeeded"
	EventAuthorizationFailed    = "payment_intent.payment_failed"
	EventAuthorizationAction    = "payment_intent.requires_action"
	EventAuthorizationCanceled  = "payment_intent.canceled"
)

// Event is a verified webhook event.
type Event struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object EventObject `json:"object"`
	} `json:"data"`
}

// EventObject carries the session or payment-intent fields the orchestrator
// needs. For checkout events ID is the session id and PaymentIntent the
// authorization reference; for payment-intent events ID is the reference.
type EventObject struct {
	ID             string            `json:"id"`
	PaymentIntent  string            `json:"payment_intent"`
	CustomerEmail  string            `json:"customer_email"`
	Metadata       map[string]string `json:"metadata"`
	CustomerDetail struct {
		Name  string `json:"name"`
		Email string `json:"email"`
		Phone string `json:"phone"`
	} `json:"customer_details"`
}

// DefaultSignatureTolerance bounds how old a signed payload may be.
const DefaultSignatureTolerance = 5 * time.Minute

// ConstructEvent verifies the signature header against the shared secret and
// parses the payload. An unverifiable payload yields ErrSignatureInvalid and
// no event.
func ConstructEvent(payload []byte, sigHeader, secret string) (*Event, error) {
	return constructEventAt(payload, sigHeader, secret, time.Now(), DefaultSignatureTolerance)
}

func constructEventAt(payload []byte, sigHeader, secret string, now time.Time, tolerance time.Duration) (*Event, error) {
	timestamp, signatures, err := parseSignatureHeader(sigHeader)
	if err != nil {
		return nil, err
	}

	if now.Sub(time.Unix(timestamp, 0)) > tolerance {
		return nil, fmt.Errorf("%w: timestamp outside tolerance", ErrSignatureInvalid)
	}

	expected := computeSignature(timestamp, payload, secret)
	verified := false
	for _, sig := range signatures {
		if hmac.Equal([]byte(sig), []byte(expected)) {
			verified = true
			break
		}
	}
	if !verified {
		return nil, ErrSignatureInvalid
	}

	var event Event
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, fmt.Errorf("parse webhook payload: %w", err)
	}

	return &event, nil
}

// parseSignatureHeader splits a "t=<unix>,v1=<hex>[,v1=<hex>...]" header.
func parseSignatureHeader(header string) (int64, []string, error) {
	if header == "" {
		return 0, nil, fmt.Errorf("%w: missing signature header", ErrSignatureInvalid)
	}

	var (
		timestamp  int64
		signatures []string
	)
	for _, part := range strings.Split(header, ",") {
		kv := strings.SplitN(part, "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch kv[0] {
		case "t":
			ts, err := strconv.ParseInt(kv[1], 10, 64)
			if err != nil {
				return 0, nil, fmt.Errorf("%w: bad timestamp", ErrSignatureInvalid)
			}
			timestamp = ts
		case "v1":
			signatures = append(signatures, kv[1])
		}
	}

	if timestamp == 0 || len(signatures) == 0 {
		return 0, nil, fmt.Errorf("%w: malformed signature header", ErrSignatureInvalid)
	}

	return timestamp, signatures, nil
}

// computeSignature returns the hex HMAC-SHA256 of "<timestamp>.<payload>".
func computeSignature(timestamp int64, payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(strconv.FormatInt(timestamp, 10)))
	mac.Write([]byte("."))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

// SignPayload produces a signature header for payload at the given time.
// Used by tests and local tooling to emit verifiable events.
func SignPayload(payload []byte, secret string, at time.Time) string {
	timestamp := at.Unix()
	return fmt.Sprintf("t=%d,v1=%s", timestamp, computeSignature(timestamp, payload, secret))
}
