package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"booking/internal/config"
	"booking/internal/domain"
	"booking/internal/maps"
)

// DistanceProvider resolves the driving distance between two addresses.
type DistanceProvider interface {
	MilesBetween(ctx context.Context, origin, destination string) (float64, error)
}

// DistanceCache optionally fronts the provider with a cache.
type DistanceCache interface {
	GetDistance(ctx context.Context, origin, destination string) (float64, bool, error)
	SetDistance(ctx context.Context, origin, destination string, miles float64) error
}

// PricingService computes fare quotes. It is pure over its inputs and the
// distance lookup; it performs no persistence.
type PricingService struct {
	distance DistanceProvider
	cache    DistanceCache
	cfg      config.PricingConfig
}

// NewPricingService creates a new PricingService. cache may be nil.
func NewPricingService(distance DistanceProvider, cache DistanceCache, cfg config.PricingConfig) *PricingService {
	return &PricingService{
		distance: distance,
		cache:    cache,
		cfg:      cfg,
	}
}

// EstimateRequest contains the parameters for a fare estimate.
type EstimateRequest struct {
	Pickup       string
	Dropoff      string
	Passengers   int
	VehicleClass domain.VehicleClass
}

// FareBreakdown itemizes an estimate. All amounts are integer cents.
type FareBreakdown struct {
	BaseCents               int64
	DistanceCents           int64
	PassengerSurchargeCents int64
	DistanceMiles           float64
}

// FareQuote is the result of a fare estimate.
type FareQuote struct {
	TotalCents int64
	Currency   string
	Breakdown  FareBreakdown
}

// Estimate computes a fare quote for the given trip.
// If the distance provider cannot resolve the route it returns
// ErrDistanceUnavailable; it never substitutes a guessed distance, since a
// fabricated distance would silently mis-price a real charge.
func (s *PricingService) Estimate(ctx context.Context, req EstimateRequest) (*FareQuote, error) {
	if req.Pickup == "" {
		return nil, ErrInvalidPickup
	}
	if req.Dropoff == "" {
		return nil, ErrInvalidDropoff
	}
	if req.Passengers < 1 || req.Passengers > 10 {
		return nil, ErrInvalidPassengerCount
	}

	vehicleClass := req.VehicleClass
	if vehicleClass == "" {
		vehicleClass = domain.VehicleClassStandard
	}
	if !domain.ValidVehicleClass(vehicleClass) {
		return nil, ErrInvalidVehicleClass
	}

	miles, err := s.resolveDistance(ctx, req.Pickup, req.Dropoff)
	if err != nil {
		if errors.Is(err, maps.ErrUnavailable) {
			return nil, fmt.Errorf("%w: %v", ErrDistanceUnavailable, err)
		}
		return nil, err
	}

	base := s.cfg.BaseFares[vehicleClass]
	distanceCost := s.tieredDistanceCost(miles)
	surcharge := s.passengerSurcharge(req.Passengers)

	return &FareQuote{
		TotalCents: base + distanceCost + surcharge,
		Currency:   "USD",
		Breakdown: FareBreakdown{
			BaseCents:               base,
			DistanceCents:           distanceCost,
			PassengerSurchargeCents: surcharge,
			DistanceMiles:           miles,
		},
	}, nil
}

// resolveDistance consults the cache before the provider. Cache failures are
// not fatal; the provider is the source of truth.
func (s *PricingService) resolveDistance(ctx context.Context, pickup, dropoff string) (float64, error) {
	if s.cache != nil {
		if miles, ok, err := s.cache.GetDistance(ctx, pickup, dropoff); err == nil && ok {
			return miles, nil
		}
	}

	miles, err := s.distance.MilesBetween(ctx, pickup, dropoff)
	if err != nil {
		return 0, err
	}

	if s.cache != nil {
		_ = s.cache.SetDistance(ctx, pickup, dropoff, miles)
	}

	return miles, nil
}

// tieredDistanceCost charges the distance in fixed-width tiers with a
// decaying per-mile rate floored at a minimum. Each tier's subtotal is
// rounded to whole cents before summing; rounding per tier, not once at the
// end, is part of the pricing contract.
func (s *PricingService) tieredDistanceCost(miles float64) int64 {
	var total int64
	remaining := miles
	rate := s.cfg.StartRateCents

	for remaining > 0 {
		tierMiles := math.Min(remaining, s.cfg.TierMiles)
		total += int64(math.Round(tierMiles * float64(rate)))
		remaining -= tierMiles

		if remaining > 0 {
			rate -= s.cfg.RateStepCents
			if rate < s.cfg.FloorRateCents {
				rate = s.cfg.FloorRateCents
			}
		}
	}

	return total
}

// passengerSurcharge charges a flat amount per passenger beyond the included
// headcount.
func (s *PricingService) passengerSurcharge(passengers int) int64 {
	extra := passengers - s.cfg.IncludedPassengers
	if extra <= 0 {
		return 0
	}
	return int64(extra) * s.cfg.PassengerSurchargeCents
}
