// README: Directions adapter; turns two canonical endpoint tokens into duration/distance.
package maps

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"googlemaps.github.io/maps"
)

// TravelResult is the transient outcome of one directions lookup.
type TravelResult struct {
	DurationMin float64
	DistanceKm  float64
}

// RouteService handles interactions with the Google Directions API.
type RouteService struct {
	client  *maps.Client
	log     *zap.Logger
	timeout time.Duration
}

// NewRouteService creates a new RouteService with the given API key.
func NewRouteService(apiKey string, timeout time.Duration, log *zap.Logger) (*RouteService, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &RouteService{client: client, log: log, timeout: timeout}, nil
}

// TravelEstimate returns duration and distance for a driving trip between
// two endpoint tokens ("place_id:..." or "lat,lng"). A provider-side
// no-route or not-found condition is not an error: the result is nil and a
// warning is logged, so the caller can render an "unavailable" state.
func (s *RouteService) TravelEstimate(ctx context.Context, originParam, destParam string) *TravelResult {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	r := &maps.DirectionsRequest{
		Origin:      originParam,
		Destination: destParam,
		Mode:        maps.TravelModeDriving,
	}

	routes, _, err := s.client.Directions(ctx, r)
	if err != nil {
		s.log.Warn("directions lookup failed",
			zap.String("origin", originParam),
			zap.String("destination", destParam),
			zap.Error(err))
		return nil
	}
	if len(routes) == 0 || len(routes[0].Legs) == 0 {
		s.log.Warn("no route found",
			zap.String("origin", originParam),
			zap.String("destination", destParam))
		return nil
	}

	leg := routes[0].Legs[0]
	return &TravelResult{
		DurationMin: leg.Duration.Minutes(),
		DistanceKm:  float64(leg.Distance.Meters) / 1000.0,
	}
}
