// README: Catalog service; snapshot cache, invariants and write reconciliation.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrDuplicateRoute = errors.New("route already exists")
	ErrPlaceInUse     = errors.New("place is referenced by a route")
	ErrNotFound       = errors.New("not found")
	ErrValidation     = errors.New("invalid input")
)

// Geocoder resolves an address or place id to coordinates. ok is false on
// provider failure; callers keep going with whatever they had.
type Geocoder interface {
	Locate(ctx context.Context, address, placeID string) (lat, lng float64, formatted string, ok bool)
}

// Service owns the snapshot cache over a Store and enforces the catalog
// invariants. The cache is guarded by a mutex since the HTTP server handles
// requests concurrently; a TTL of zero means every read refetches. Writes
// always force an unconditional refresh so subsequent reads observe them.
type Service struct {
	store    Store
	geocoder Geocoder
	log      *zap.Logger
	ttl      time.Duration

	mu       sync.Mutex
	snap     Snapshot
	loadedAt time.Time
}

func NewService(store Store, geocoder Geocoder, ttl time.Duration, log *zap.Logger) *Service {
	return &Service{store: store, geocoder: geocoder, log: log, ttl: ttl}
}

// Snapshot returns the cached catalog, refetching when forced, stale or
// never loaded. On a failed refresh the previous snapshot is served and a
// warning logged.
func (s *Service) Snapshot(ctx context.Context, force bool) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	stale := s.loadedAt.IsZero() || time.Since(s.loadedAt) > s.ttl
	if !force && !stale {
		return s.snap
	}

	snap, err := s.store.LoadAll(ctx)
	if err != nil {
		s.log.Warn("catalog read failed, serving previous snapshot", zap.Error(err))
		return s.snap
	}
	s.snap = snap
	s.loadedAt = time.Now()
	return s.snap
}

// Places returns the place list from the current snapshot.
func (s *Service) Places(ctx context.Context) []Place {
	return s.Snapshot(ctx, false).Places
}

// Routes returns the bidirectional read model of the stored routes.
func (s *Service) Routes(ctx context.Context) []Route {
	return Bidirectional(s.Snapshot(ctx, false).Routes)
}

// MatchRoute finds a fixed route by its display titles in the bidirectional
// read model, or nil.
func (s *Service) MatchRoute(ctx context.Context, fromTitle, toTitle string) *Route {
	key := RouteKey(fromTitle, toTitle)
	for _, r := range s.Routes(ctx) {
		if r.Key() == key {
			route := r
			return &route
		}
	}
	return nil
}

type AddPlaceCommand struct {
	Title   string
	Address string
	PlaceID string // optional provider place id for precise geocoding
	Aliases string
}

// AddPlace geocodes the address (best effort) and appends the place row.
func (s *Service) AddPlace(ctx context.Context, cmd AddPlaceCommand) (Place, error) {
	if cmd.Title == "" || cmd.Address == "" {
		return Place{}, fmt.Errorf("%w: title and address are required", ErrValidation)
	}

	p := Place{
		ID:      uuid.NewString(),
		Title:   cmd.Title,
		Address: cmd.Address,
		Aliases: cmd.Aliases,
	}
	if lat, lng, formatted, ok := s.geocoder.Locate(ctx, cmd.Address, cmd.PlaceID); ok {
		p.Lat, p.Lng = &lat, &lng
		if formatted != "" {
			p.Address = formatted
		}
	}

	if err := s.store.AppendPlace(ctx, p); err != nil {
		return Place{}, err
	}
	s.Snapshot(ctx, true)
	return p, nil
}

type AddRouteCommand struct {
	FromTitle     string
	ToTitle       string
	FromAddress   string
	ToAddress     string
	FromPlaceID   string
	ToPlaceID     string
	Title         string
	Bands         []PriceBand
	CreateReverse bool
}

type AddRouteResult struct {
	RouteID        string `json:"route_id"`
	GroupID        string `json:"group_id"`
	ReverseRouteID string `json:"reverse_route_id,omitempty"`
}

// AddRoute validates, resolves endpoint coordinates, appends the route
// (optionally its explicit reverse sharing a group id) and backfills place
// coordinates. Duplicate normalized keys are rejected before any write.
func (s *Service) AddRoute(ctx context.Context, cmd AddRouteCommand) (AddRouteResult, error) {
	if cmd.FromTitle == "" || cmd.ToTitle == "" {
		return AddRouteResult{}, fmt.Errorf("%w: from and to titles are required", ErrValidation)
	}
	if err := validateBands(cmd.Bands); err != nil {
		return AddRouteResult{}, err
	}

	snap := s.Snapshot(ctx, true)
	keys := make(map[string]struct{}, len(snap.Routes))
	for _, r := range snap.Routes {
		keys[r.Key()] = struct{}{}
	}
	forwardKey := RouteKey(cmd.FromTitle, cmd.ToTitle)
	if _, dup := keys[forwardKey]; dup {
		return AddRouteResult{}, ErrDuplicateRoute
	}
	if cmd.CreateReverse {
		if _, dup := keys[RouteKey(cmd.ToTitle, cmd.FromTitle)]; dup {
			return AddRouteResult{}, ErrDuplicateRoute
		}
	}

	from := s.resolveEndpoint(ctx, snap, cmd.FromTitle, cmd.FromAddress, cmd.FromPlaceID)
	to := s.resolveEndpoint(ctx, snap, cmd.ToTitle, cmd.ToAddress, cmd.ToPlaceID)

	title := cmd.Title
	if title == "" {
		title = cmd.FromTitle + " → " + cmd.ToTitle
	}

	route := Route{
		ID:          uuid.NewString(),
		GroupID:     uuid.NewString(),
		FromTitle:   cmd.FromTitle,
		ToTitle:     cmd.ToTitle,
		FromAddress: from.address,
		ToAddress:   to.address,
		FromLat:     from.lat, FromLng: from.lng,
		ToLat: to.lat, ToLng: to.lng,
		Title: title,
		Bands: stampBands(cmd.Bands),
	}
	for i := range route.Bands {
		route.Bands[i].RouteID = route.ID
	}

	if err := s.store.AppendRoute(ctx, route); err != nil {
		return AddRouteResult{}, err
	}
	res := AddRouteResult{RouteID: route.ID, GroupID: route.GroupID}

	s.backfillPlace(ctx, cmd.FromTitle, from)
	s.backfillPlace(ctx, cmd.ToTitle, to)
	s.backfillRouteGeo(ctx, snap, cmd.FromTitle, from)
	s.backfillRouteGeo(ctx, snap, cmd.ToTitle, to)

	if cmd.CreateReverse {
		rev := reversed(route)
		rev.ID = uuid.NewString()
		rev.Title = cmd.ToTitle + " → " + cmd.FromTitle
		rev.Bands = stampBands(cmd.Bands)
		for i := range rev.Bands {
			rev.Bands[i].RouteID = rev.ID
		}
		if err := s.store.AppendRoute(ctx, rev); err != nil {
			s.log.Warn("reverse route append failed", zap.String("group_id", route.GroupID), zap.Error(err))
		} else {
			res.ReverseRouteID = rev.ID
		}
	}

	s.Snapshot(ctx, true)
	return res, nil
}

// DeleteRoute removes a route and its bands. Idempotent: a missing id
// reports zero counts.
func (s *Service) DeleteRoute(ctx context.Context, routeID string) (routeRows, priceRows int, err error) {
	routeRows, priceRows, err = s.store.DeleteRoute(ctx, routeID)
	if err != nil {
		return 0, 0, err
	}
	s.Snapshot(ctx, true)
	return routeRows, priceRows, nil
}

// DeletePlace removes a place unless a stored route references its title as
// either endpoint. Deletion never cascades to routes.
func (s *Service) DeletePlace(ctx context.Context, placeID string) error {
	snap := s.Snapshot(ctx, true)

	var place *Place
	for i := range snap.Places {
		if snap.Places[i].ID == placeID {
			place = &snap.Places[i]
			break
		}
	}
	if place == nil {
		return ErrNotFound
	}

	for _, r := range snap.Routes {
		if r.FromTitle == place.Title || r.ToTitle == place.Title {
			return fmt.Errorf("%w: %s", ErrPlaceInUse, place.Title)
		}
	}

	if err := s.store.DeletePlace(ctx, placeID); err != nil {
		return err
	}
	s.Snapshot(ctx, true)
	return nil
}

func validateBands(bands []PriceBand) error {
	for _, b := range bands {
		if b.Label == "" {
			return fmt.Errorf("%w: price band is missing a label", ErrValidation)
		}
		if b.Min <= 0 {
			return fmt.Errorf("%w: price band %q is missing a minimum", ErrValidation, b.Label)
		}
		if b.Amount.Mode != AmountTotal && b.Amount.Mode != AmountPerPerson {
			return fmt.Errorf("%w: price band %q must have either a total or a per-person price", ErrValidation, b.Label)
		}
	}
	return nil
}

func stampBands(bands []PriceBand) []PriceBand {
	out := make([]PriceBand, len(bands))
	copy(out, bands)
	for i := range out {
		out[i].ID = uuid.NewString()
	}
	return out
}

type resolvedEndpoint struct {
	address string
	lat     *float64
	lng     *float64
}

// resolveEndpoint prefers coordinates already stored on the matching place;
// geocoding is only attempted when they are missing and there is something
// to geocode.
func (s *Service) resolveEndpoint(ctx context.Context, snap Snapshot, title, address, placeID string) resolvedEndpoint {
	out := resolvedEndpoint{address: address}
	for _, p := range snap.Places {
		if p.Title != title {
			continue
		}
		if out.address == "" {
			out.address = p.Address
		}
		out.lat, out.lng = p.Lat, p.Lng
		break
	}

	if (out.lat == nil || out.lng == nil) && (out.address != "" || placeID != "") {
		if lat, lng, formatted, ok := s.geocoder.Locate(ctx, out.address, placeID); ok {
			out.lat, out.lng = &lat, &lng
			if formatted != "" {
				out.address = formatted
			}
		}
	}
	return out
}

// backfillRouteGeo patches freshly resolved coordinates onto stored routes
// that reference the same endpoint title but were saved before it could be
// geocoded. Best effort, like the place backfill.
func (s *Service) backfillRouteGeo(ctx context.Context, snap Snapshot, title string, ep resolvedEndpoint) {
	if ep.lat == nil || ep.lng == nil {
		return
	}
	for _, r := range snap.Routes {
		var upd GeoUpdate
		if r.FromTitle == title && (r.FromLat == nil || r.FromLng == nil) {
			upd.FromLat, upd.FromLng = ep.lat, ep.lng
		}
		if r.ToTitle == title && (r.ToLat == nil || r.ToLng == nil) {
			upd.ToLat, upd.ToLng = ep.lat, ep.lng
		}
		if upd == (GeoUpdate{}) {
			continue
		}
		if err := s.store.UpdateRouteGeo(ctx, r.ID, upd); err != nil && !errors.Is(err, ErrNotFound) {
			s.log.Warn("route coordinate backfill failed", zap.String("route_id", r.ID), zap.Error(err))
		}
	}
}

// backfillPlace writes freshly resolved coordinates back onto the place row
// so the next route using this title needs no geocoding. Best effort.
func (s *Service) backfillPlace(ctx context.Context, title string, ep resolvedEndpoint) {
	if ep.lat == nil || ep.lng == nil {
		return
	}
	if err := s.store.UpdatePlaceCoords(ctx, title, *ep.lat, *ep.lng); err != nil && !errors.Is(err, ErrNotFound) {
		s.log.Warn("place coordinate backfill failed", zap.String("title", title), zap.Error(err))
	}
}
