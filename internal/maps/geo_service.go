// README: Geocoding and Place Details adapter with country bias and optional Redis cache.
package maps

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"googlemaps.github.io/maps"
)

// GeoResult is one resolved location.
type GeoResult struct {
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
	Formatted string  `json:"formatted"`
}

// GeoService handles interactions with the Google Geocoding and Places APIs.
type GeoService struct {
	client      *maps.Client
	cache       *GeocodeCache
	log         *zap.Logger
	timeout     time.Duration
	language    string
	countryBias string
}

// NewGeoService creates a new GeoService with the given API key. cache may
// be nil to disable geocode caching.
func NewGeoService(apiKey string, timeout time.Duration, language, countryBias string, cache *GeocodeCache, log *zap.Logger) (*GeoService, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &GeoService{
		client:      client,
		cache:       cache,
		log:         log,
		timeout:     timeout,
		language:    language,
		countryBias: countryBias,
	}, nil
}

// Locate resolves an address or a place id to coordinates and a formatted
// address. A place id takes precedence over the address. Provider failures
// are soft: ok is false and the caller keeps whatever text it had.
func (s *GeoService) Locate(ctx context.Context, address, placeID string) (lat, lng float64, formatted string, ok bool) {
	res, ok := s.locate(ctx, address, placeID)
	return res.Lat, res.Lng, res.Formatted, ok
}

func (s *GeoService) locate(ctx context.Context, address, placeID string) (GeoResult, bool) {
	cacheKey := placeID
	if cacheKey == "" {
		cacheKey = address
	}
	if res, hit := s.cache.Get(ctx, cacheKey); hit {
		return res, true
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if placeID != "" {
		res, err := s.placeDetails(ctx, placeID, address)
		if err == nil {
			s.cache.Set(ctx, cacheKey, res)
			return res, true
		}
		s.log.Warn("place details lookup failed", zap.String("place_id", placeID), zap.Error(err))
	}

	if address != "" {
		res, err := s.geocode(ctx, address)
		if err == nil {
			s.cache.Set(ctx, cacheKey, res)
			return res, true
		}
		s.log.Warn("geocoding failed", zap.String("address", address), zap.Error(err))
	}

	return GeoResult{Formatted: address}, false
}

func (s *GeoService) placeDetails(ctx context.Context, placeID, fallbackAddr string) (GeoResult, error) {
	r := &maps.PlaceDetailsRequest{
		PlaceID:  placeID,
		Language: s.language,
		Fields: []maps.PlaceDetailsFieldMask{
			maps.PlaceDetailsFieldMaskGeometry,
			maps.PlaceDetailsFieldMaskFormattedAddress,
		},
	}
	resp, err := s.client.PlaceDetails(ctx, r)
	if err != nil {
		return GeoResult{}, fmt.Errorf("place details api error: %w", err)
	}
	formatted := resp.FormattedAddress
	if formatted == "" {
		formatted = fallbackAddr
	}
	return GeoResult{
		Lat:       resp.Geometry.Location.Lat,
		Lng:       resp.Geometry.Location.Lng,
		Formatted: formatted,
	}, nil
}

func (s *GeoService) geocode(ctx context.Context, address string) (GeoResult, error) {
	r := &maps.GeocodingRequest{
		Address:  address,
		Language: s.language,
	}
	if s.countryBias != "" {
		r.Components = map[maps.Component]string{maps.ComponentCountry: s.countryBias}
	}
	results, err := s.client.Geocode(ctx, r)
	if err != nil {
		return GeoResult{}, fmt.Errorf("geocoding api error: %w", err)
	}
	if len(results) == 0 {
		return GeoResult{}, fmt.Errorf("no geocoding result for %q", address)
	}
	res := results[0]
	formatted := res.FormattedAddress
	if formatted == "" {
		formatted = address
	}
	return GeoResult{
		Lat:       res.Geometry.Location.Lat,
		Lng:       res.Geometry.Location.Lng,
		Formatted: formatted,
	}, nil
}
