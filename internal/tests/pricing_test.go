package tests

import (
	"context"
	"errors"
	"testing"

	"booking/internal/config"
	"booking/internal/domain"
	"booking/internal/maps"
	"booking/internal/service"
)

func testPricingConfig() config.PricingConfig {
	return config.PricingConfig{
		BaseFares: map[domain.VehicleClass]int64{
			domain.VehicleClassStandard: 500,
			domain.VehicleClassSUV:      500,
			domain.VehicleClassLuxury:   500,
		},
		TierMiles:               10,
		StartRateCents:          180,
		RateStepCents:           10,
		FloorRateCents:          100,
		IncludedPassengers:      2,
		PassengerSurchargeCents: 500,
	}
}

func TestEstimateTieredDistance(t *testing.T) {
	// 25 miles spans three tiers: 10 @ 180, 10 @ 170, 5 @ 160.
	provider := NewMockDistanceProvider(25)
	svc := service.NewPricingService(provider, nil, testPricingConfig())

	quote, err := svc.Estimate(context.Background(), service.EstimateRequest{
		Pickup:       "123 Main St",
		Dropoff:      "456 Oak Ave",
		Passengers:   2,
		VehicleClass: domain.VehicleClassStandard,
	})
	if err != nil {
		t.Fatalf("Estimate failed: %v", err)
	}

	if quote.Breakdown.DistanceCents != 4300 {
		t.Errorf("Expected distance cost 4300, got %d", quote.Breakdown.DistanceCents)
	}
	if quote.Breakdown.BaseCents != 500 {
		t.Errorf("Expected base fare 500, got %d", quote.Breakdown.BaseCents)
	}
	if quote.Breakdown.PassengerSurchargeCents != 0 {
		t.Errorf("Expected no surcharge for 2 passengers, got %d", quote.Breakdown.PassengerSurchargeCents)
	}
	if quote.TotalCents != 4800 {
		t.Errorf("Expected total 4800, got %d", quote.TotalCents)
	}
	if quote.Currency != "USD" {
		t.Errorf("Expected currency USD, got %s", quote.Currency)
	}
}

func TestEstimateRatePinnedAtFloor(t *testing.T) {
	// By the ninth tier the rate has decayed 180 -> 100 and stays there.
	provider := NewMockDistanceProvider(100)
	svc := service.NewPricingService(provider, nil, testPricingConfig())

	quote, err := svc.Estimate(context.Background(), service.EstimateRequest{
		Pickup:     "A",
		Dropoff:    "B",
		Passengers: 1,
	})
	if err != nil {
		t.Fatalf("Estimate failed: %v", err)
	}

	// (180+170+160+150+140+130+120+110+100+100) * 10 miles
	if quote.Breakdown.DistanceCents != 13600 {
		t.Errorf("Expected distance cost 13600, got %d", quote.Breakdown.DistanceCents)
	}
}

func TestEstimatePartialTierRounding(t *testing.T) {
	// A single partial tier is rounded to whole cents.
	provider := NewMockDistanceProvider(3.7)
	svc := service.NewPricingService(provider, nil, testPricingConfig())

	quote, err := svc.Estimate(context.Background(), service.EstimateRequest{
		Pickup:     "A",
		Dropoff:    "B",
		Passengers: 1,
	})
	if err != nil {
		t.Fatalf("Estimate failed: %v", err)
	}

	if quote.Breakdown.DistanceCents != 666 {
		t.Errorf("Expected distance cost 666, got %d", quote.Breakdown.DistanceCents)
	}
}

func TestEstimateTotalNondecreasingWithDistance(t *testing.T) {
	provider := NewMockDistanceProvider(0)
	svc := service.NewPricingService(provider, nil, testPricingConfig())

	var previous int64 = -1
	for _, miles := range []float64{0.5, 1, 5, 9.9, 10, 10.1, 20, 35, 50, 120} {
		provider.SetDistance(miles)
		quote, err := svc.Estimate(context.Background(), service.EstimateRequest{
			Pickup:     "A",
			Dropoff:    "B",
			Passengers: 1,
		})
		if err != nil {
			t.Fatalf("Estimate failed at %.1f miles: %v", miles, err)
		}
		if quote.TotalCents < previous {
			t.Errorf("Total decreased at %.1f miles: %d < %d", miles, quote.TotalCents, previous)
		}
		previous = quote.TotalCents
	}
}

func TestEstimatePassengerSurcharge(t *testing.T) {
	provider := NewMockDistanceProvider(10)
	svc := service.NewPricingService(provider, nil, testPricingConfig())

	testCases := []struct {
		passengers        int
		expectedSurcharge int64
	}{
		{1, 0},
		{2, 0},
		{3, 500},
		{5, 1500},
		{10, 4000},
	}

	for _, tc := range testCases {
		quote, err := svc.Estimate(context.Background(), service.EstimateRequest{
			Pickup:     "A",
			Dropoff:    "B",
			Passengers: tc.passengers,
		})
		if err != nil {
			t.Fatalf("Estimate failed for %d passengers: %v", tc.passengers, err)
		}
		if quote.Breakdown.PassengerSurchargeCents != tc.expectedSurcharge {
			t.Errorf("Passengers=%d: expected surcharge %d, got %d",
				tc.passengers, tc.expectedSurcharge, quote.Breakdown.PassengerSurchargeCents)
		}
	}
}

func TestEstimateValidation(t *testing.T) {
	provider := NewMockDistanceProvider(10)
	svc := service.NewPricingService(provider, nil, testPricingConfig())

	testCases := []struct {
		name        string
		req         service.EstimateRequest
		expectedErr error
	}{
		{"missing pickup", service.EstimateRequest{Dropoff: "B", Passengers: 1}, service.ErrInvalidPickup},
		{"missing dropoff", service.EstimateRequest{Pickup: "A", Passengers: 1}, service.ErrInvalidDropoff},
		{"zero passengers", service.EstimateRequest{Pickup: "A", Dropoff: "B"}, service.ErrInvalidPassengerCount},
		{"too many passengers", service.EstimateRequest{Pickup: "A", Dropoff: "B", Passengers: 11}, service.ErrInvalidPassengerCount},
		{"bad vehicle class", service.EstimateRequest{Pickup: "A", Dropoff: "B", Passengers: 1, VehicleClass: "HELICOPTER"}, service.ErrInvalidVehicleClass},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Estimate(context.Background(), tc.req)
			if !errors.Is(err, tc.expectedErr) {
				t.Errorf("Expected %v, got %v", tc.expectedErr, err)
			}
		})
	}
}

func TestEstimateDistanceUnavailable(t *testing.T) {
	provider := NewMockDistanceProvider(0)
	provider.Err = maps.ErrUnavailable
	svc := service.NewPricingService(provider, nil, testPricingConfig())

	_, err := svc.Estimate(context.Background(), service.EstimateRequest{
		Pickup:     "A",
		Dropoff:    "B",
		Passengers: 1,
	})
	if !errors.Is(err, service.ErrDistanceUnavailable) {
		t.Errorf("Expected ErrDistanceUnavailable, got %v", err)
	}
}

func TestEstimateUsesDistanceCache(t *testing.T) {
	provider := NewMockDistanceProvider(25)
	cache := NewMockDistanceCache()
	cache.Prime("A", "B", 12)
	svc := service.NewPricingService(provider, cache, testPricingConfig())

	quote, err := svc.Estimate(context.Background(), service.EstimateRequest{
		Pickup:     "A",
		Dropoff:    "B",
		Passengers: 1,
	})
	if err != nil {
		t.Fatalf("Estimate failed: %v", err)
	}

	if quote.Breakdown.DistanceMiles != 12 {
		t.Errorf("Expected cached distance 12, got %.1f", quote.Breakdown.DistanceMiles)
	}
	if provider.CallCount != 0 {
		t.Errorf("Expected provider untouched on cache hit, got %d calls", provider.CallCount)
	}
}

func TestEstimatePopulatesDistanceCache(t *testing.T) {
	provider := NewMockDistanceProvider(25)
	cache := NewMockDistanceCache()
	svc := service.NewPricingService(provider, cache, testPricingConfig())

	ctx := context.Background()
	req := service.EstimateRequest{Pickup: "A", Dropoff: "B", Passengers: 1}

	if _, err := svc.Estimate(ctx, req); err != nil {
		t.Fatalf("First estimate failed: %v", err)
	}
	if _, err := svc.Estimate(ctx, req); err != nil {
		t.Fatalf("Second estimate failed: %v", err)
	}

	if provider.CallCount != 1 {
		t.Errorf("Expected one provider call across both estimates, got %d", provider.CallCount)
	}
}

func TestEstimateCacheFailureFallsThrough(t *testing.T) {
	provider := NewMockDistanceProvider(25)
	cache := NewMockDistanceCache()
	cache.GetError = ErrMockTimeout
	svc := service.NewPricingService(provider, cache, testPricingConfig())

	quote, err := svc.Estimate(context.Background(), service.EstimateRequest{
		Pickup:     "A",
		Dropoff:    "B",
		Passengers: 1,
	})
	if err != nil {
		t.Fatalf("Estimate failed: %v", err)
	}
	if quote.Breakdown.DistanceMiles != 25 {
		t.Errorf("Expected provider distance 25, got %.1f", quote.Breakdown.DistanceMiles)
	}
}

func TestEstimateDefaultsVehicleClass(t *testing.T) {
	provider := NewMockDistanceProvider(10)
	cfg := testPricingConfig()
	cfg.BaseFares[domain.VehicleClassStandard] = 700
	svc := service.NewPricingService(provider, nil, cfg)

	quote, err := svc.Estimate(context.Background(), service.EstimateRequest{
		Pickup:     "A",
		Dropoff:    "B",
		Passengers: 1,
	})
	if err != nil {
		t.Fatalf("Estimate failed: %v", err)
	}
	if quote.Breakdown.BaseCents != 700 {
		t.Errorf("Expected standard base fare 700, got %d", quote.Breakdown.BaseCents)
	}
}
