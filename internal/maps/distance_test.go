package maps

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func testClient(serverURL string) *DistanceClient {
	return &DistanceClient{
		apiKey:     "test-key",
		baseURL:    serverURL,
		httpClient: &http.Client{Timeout: time.Second},
	}
}

func TestMilesBetween(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("units"); got != "imperial" {
			t.Errorf("Expected imperial units, got %q", got)
		}
		w.Write([]byte(`{
			"status": "OK",
			"rows": [{"elements": [{"status": "OK", "distance": {"value": 40234}}]}]
		}`))
	}))
	defer server.Close()

	miles, err := testClient(server.URL).MilesBetween(context.Background(), "123 Main St", "456 Oak Ave")
	if err != nil {
		t.Fatalf("MilesBetween failed: %v", err)
	}

	// 40234 meters is 25.00 miles; rounded to one decimal.
	if miles != 25.0 {
		t.Errorf("Expected 25.0 miles, got %v", miles)
	}
}

func TestMilesBetweenRoundsToOneDecimal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"status": "OK",
			"rows": [{"elements": [{"status": "OK", "distance": {"value": 5234}}]}]
		}`))
	}))
	defer server.Close()

	miles, err := testClient(server.URL).MilesBetween(context.Background(), "A", "B")
	if err != nil {
		t.Fatalf("MilesBetween failed: %v", err)
	}

	// 5234 meters is 3.2522 miles.
	if miles != 3.3 {
		t.Errorf("Expected 3.3 miles, got %v", miles)
	}
}

func TestMilesBetweenMissingKey(t *testing.T) {
	client := &DistanceClient{httpClient: &http.Client{Timeout: time.Second}}

	if _, err := client.MilesBetween(context.Background(), "A", "B"); !errors.Is(err, ErrUnavailable) {
		t.Errorf("Expected ErrUnavailable without an API key, got %v", err)
	}
}

func TestMilesBetweenProviderFailures(t *testing.T) {
	testCases := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"http error", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}},
		{"denied", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"status": "REQUEST_DENIED", "rows": []}`))
		}},
		{"no route", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"status": "OK", "rows": [{"elements": [{"status": "ZERO_RESULTS"}]}]}`))
		}},
		{"bad json", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{`))
		}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(tc.handler)
			defer server.Close()

			if _, err := testClient(server.URL).MilesBetween(context.Background(), "A", "B"); !errors.Is(err, ErrUnavailable) {
				t.Errorf("Expected ErrUnavailable, got %v", err)
			}
		})
	}
}
