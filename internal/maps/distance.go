package maps

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"time"

	"booking/internal/config"
)

// ErrUnavailable is returned when a driving distance cannot be determined:
// missing credential, provider error, or no route between the addresses.
// Callers must treat it as a definite failure, never substitute a guess.
var ErrUnavailable = errors.New("distance unavailable")

const distanceMatrixURL = "https://maps.googleapis.com/maps/api/distancematrix/json"

const metersPerMile = 1609.344

// DistanceClient resolves driving distances via the Google Distance Matrix API.
type DistanceClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewDistanceClient creates a new DistanceClient. An empty API key is valid;
// lookups then report ErrUnavailable.
func NewDistanceClient(cfg config.MapsConfig) *DistanceClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &DistanceClient{
		apiKey:  cfg.APIKey,
		baseURL: distanceMatrixURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// distanceMatrixResponse mirrors the fields of the API response we consume.
type distanceMatrixResponse struct {
	Status string `json:"status"`
	Rows   []struct {
		Elements []struct {
			Status   string `json:"status"`
			Distance struct {
				Value int64 `json:"value"` // meters
			} `json:"distance"`
		} `json:"elements"`
	} `json:"rows"`
}

// MilesBetween returns the driving distance between two free-text addresses,
// in miles rounded to one decimal place.
func (c *DistanceClient) MilesBetween(ctx context.Context, origin, destination string) (float64, error) {
	if c.apiKey == "" {
		return 0, ErrUnavailable
	}

	query := url.Values{}
	query.Set("origins", origin)
	query.Set("destinations", destination)
	query.Set("units", "imperial")
	query.Set("key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+query.Encode(), nil)
	if err != nil {
		return 0, fmt.Errorf("distance request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("%w: distance provider returned %d", ErrUnavailable, resp.StatusCode)
	}

	var body distanceMatrixResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if body.Status != "OK" || len(body.Rows) == 0 || len(body.Rows[0].Elements) == 0 {
		return 0, fmt.Errorf("%w: provider status %q", ErrUnavailable, body.Status)
	}

	element := body.Rows[0].Elements[0]
	if element.Status != "OK" || element.Distance.Value <= 0 {
		return 0, fmt.Errorf("%w: element status %q", ErrUnavailable, element.Status)
	}

	miles := float64(element.Distance.Value) / metersPerMile
	return math.Round(miles*10) / 10, nil
}
