// README: Quote service; orchestrates normalization, travel lookup and fare rows.
package quote

import (
	"context"
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"

	"topptaxi/internal/maps"
	"topptaxi/internal/modules/catalog"
	"topptaxi/internal/modules/tariff"
)

var ErrNoFixedRoute = errors.New("no fixed route matches the given endpoints")

// TravelEstimator is the directions collaborator; nil means the provider
// could not produce an estimate.
type TravelEstimator interface {
	TravelEstimate(ctx context.Context, originParam, destParam string) *maps.TravelResult
}

// Catalog is the fixed-route read model the quote flow needs.
type Catalog interface {
	MatchRoute(ctx context.Context, fromTitle, toTitle string) *catalog.Route
}

type Service struct {
	tariffs  *tariff.Service
	catalog  Catalog
	travel   TravelEstimator
	geocoder Geocoder
	apiKey   string
	log      *zap.Logger
}

func NewService(tariffs *tariff.Service, cat Catalog, travel TravelEstimator, geocoder Geocoder, apiKey string, log *zap.Logger) *Service {
	return &Service{
		tariffs:  tariffs,
		catalog:  cat,
		travel:   travel,
		geocoder: geocoder,
		apiKey:   apiKey,
		log:      log,
	}
}

// Calculate computes the fare rows for one request, choosing the fixed or
// dynamic flow.
func (s *Service) Calculate(ctx context.Context, req Request) (*Result, error) {
	if req.Passengers < 0 {
		req.Passengers = 0
	}
	if req.FixedRoute {
		return s.fixed(ctx, req)
	}
	return s.dynamic(ctx, req)
}

// fixed prices a predefined route from its bands; the provider is still
// consulted for duration/distance display.
func (s *Service) fixed(ctx context.Context, req Request) (*Result, error) {
	matched := s.catalog.MatchRoute(ctx, req.Origin, req.Destination)
	if matched == nil {
		return nil, ErrNoFixedRoute
	}

	origin := fixedEndpoint(ctx, s.geocoder, matched.FromLat, matched.FromLng, matched.FromAddress, matched.FromTitle)
	dest := fixedEndpoint(ctx, s.geocoder, matched.ToLat, matched.ToLng, matched.ToAddress, matched.ToTitle)

	travel := s.travel.TravelEstimate(ctx, origin.Param, dest.Param)

	res := &Result{
		Origin:      matched.FromTitle,
		Destination: matched.ToTitle,
		Rows:        PriceFixed(req.Passengers, matched.Bands),
	}
	s.applyTravel(res, travel)
	s.applyLinks(res, origin.Param, dest.Param)
	return res, nil
}

// dynamic normalizes both endpoints once and prices per tariff schedule.
func (s *Service) dynamic(ctx context.Context, req Request) (*Result, error) {
	origin := NormalizeEndpoint(ctx, s.geocoder, req.Origin, req.OriginPlaceID)
	dest := NormalizeEndpoint(ctx, s.geocoder, req.Destination, req.DestinationPlaceID)
	if origin.Param == "" || dest.Param == "" {
		return nil, fmt.Errorf("%w: origin and destination are required", catalog.ErrValidation)
	}

	res := &Result{
		Origin:      displayOr(origin.Display, req.Origin),
		Destination: displayOr(dest.Display, req.Destination),
	}

	travel := s.travel.TravelEstimate(ctx, origin.Param, dest.Param)
	if travel == nil {
		res.Duration = FormatDuration(nil)
		res.Unavailable = true
		return res, nil
	}

	res.Rows = s.dynamicRows(travel, req.Passengers)
	s.applyTravel(res, travel)
	s.applyLinks(res, origin.Param, dest.Param)
	return res, nil
}

// dynamicRows builds the fare lines: without a passenger count, one raw
// per-trip row per schedule; with one, standard and discount rows per
// allocated vehicle class, multiplied by the vehicle count.
func (s *Service) dynamicRows(travel *maps.TravelResult, passengers int) []Row {
	schedules := s.tariffs.Schedules()
	perTrip := func(c tariff.Class) int64 {
		return PriceDynamic(travel.DurationMin, travel.DistanceKm, s.tariffs.Rate(c))
	}

	if passengers <= 0 {
		rows := make([]Row, 0, len(schedules))
		for _, sch := range schedules {
			rows = append(rows, Row{
				Label: sch.Label,
				Cost:  PriceDynamic(travel.DurationMin, travel.DistanceKm, sch.Rate),
			})
		}
		return rows
	}

	large, small := DistributeVehicles(passengers)
	var rows []Row
	if small > 0 {
		rows = append(rows,
			Row{Label: fmt.Sprintf("Småbil – Taxa 1 ×%d", small), Cost: perTrip(tariff.SmallStandard) * int64(small)},
			Row{Label: fmt.Sprintf("Småbil – Taxa 4 ×%d", small), Cost: perTrip(tariff.SmallDiscount) * int64(small)},
		)
	}
	if large > 0 {
		rows = append(rows,
			Row{Label: fmt.Sprintf("Storbil – Taxa 2 ×%d", large), Cost: perTrip(tariff.LargeStandard) * int64(large)},
			Row{Label: fmt.Sprintf("Storbil – Taxa 5 ×%d", large), Cost: perTrip(tariff.LargeDiscount) * int64(large)},
		)
	}
	return rows
}

// PriceFixed selects every band matching the passenger count (all bands
// when the count is unspecified). Per-person bands multiply by the count,
// or by the band minimum when the count is zero. Bands without a resolvable
// amount are skipped. Matches are not mutually exclusive.
func PriceFixed(passengers int, bands []catalog.PriceBand) []Row {
	var rows []Row
	for _, b := range bands {
		if !b.Matches(passengers) {
			continue
		}
		switch b.Amount.Mode {
		case catalog.AmountTotal:
			rows = append(rows, Row{Label: b.Label, Cost: b.Amount.Value})
		case catalog.AmountPerPerson:
			base := passengers
			if base == 0 {
				base = b.Min
			}
			cost := int64(math.Round(float64(base) * float64(b.Amount.Value)))
			rows = append(rows, Row{Label: b.Label, Cost: cost})
		}
	}
	return rows
}

func (s *Service) applyTravel(res *Result, travel *maps.TravelResult) {
	if travel == nil {
		res.Duration = FormatDuration(nil)
		return
	}
	res.Duration = FormatDuration(&travel.DurationMin)
	km := round1(travel.DistanceKm)
	res.DistanceKm = &km
}

// applyLinks builds both map URLs from the same canonical tokens used for
// the distance query.
func (s *Service) applyLinks(res *Result, originParam, destParam string) {
	res.DirectionsURL = maps.DirectionsURL(originParam, destParam, "driving")
	res.MapURL = maps.EmbedURL(originParam, destParam, s.apiKey, "driving")
}

// fixedEndpoint uses stored coordinates when present, otherwise falls back
// to normalizing the stored address (or the title as a last resort).
func fixedEndpoint(ctx context.Context, g Geocoder, lat, lng *float64, address, title string) Endpoint {
	if lat != nil && lng != nil {
		return Endpoint{Param: coordParam(*lat, *lng), Display: title}
	}
	text := address
	if text == "" {
		text = title
	}
	ep := NormalizeEndpoint(ctx, g, text, "")
	ep.Display = title
	return ep
}

func displayOr(display, fallback string) string {
	if display != "" {
		return display
	}
	return fallback
}
