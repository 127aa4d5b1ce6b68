// README: Storage interface for the catalog; sheets and postgres implement it.
package catalog

import "context"

// GeoUpdate is a partial coordinate/address update for one route row. Nil
// fields are left untouched.
type GeoUpdate struct {
	FromAddress *string
	ToAddress   *string
	FromLat     *float64
	FromLng     *float64
	ToLat       *float64
	ToLng       *float64
}

// Store is the persistence boundary for places, routes and price bands.
// Implementations only move rows; invariants (duplicate keys, place-in-use)
// are enforced by the Service against a fresh snapshot.
type Store interface {
	// LoadAll reads the full catalog. Safe to call repeatedly.
	LoadAll(ctx context.Context) (Snapshot, error)

	AppendPlace(ctx context.Context, p Place) error

	// AppendRoute writes the route row and all its price bands.
	AppendRoute(ctx context.Context, r Route) error

	// DeleteRoute removes the route row and its band rows, reporting how
	// many of each were removed. A missing id is a no-op with zero counts,
	// never an error.
	DeleteRoute(ctx context.Context, routeID string) (routeRows, priceRows int, err error)

	// DeletePlace removes one place row. Returns ErrNotFound when the id
	// does not exist.
	DeletePlace(ctx context.Context, placeID string) error

	// UpdateRouteGeo patches coordinates/addresses on a stored route.
	// Returns ErrNotFound when the id does not exist.
	UpdateRouteGeo(ctx context.Context, routeID string, upd GeoUpdate) error

	// UpdatePlaceCoords backfills coordinates on the place with the given
	// title. Returns ErrNotFound when no such title is stored.
	UpdatePlaceCoords(ctx context.Context, title string, lat, lng float64) error
}
