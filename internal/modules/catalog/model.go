// README: Place, Route and PriceBand models for the fixed-route catalog.
package catalog

// Place is an operator-defined named location. Title is the display key
// routes refer to; coordinates may be backfilled later by geocoding.
type Place struct {
	ID      string   `json:"place_id"`
	Title   string   `json:"title"`
	Address string   `json:"address"`
	Lat     *float64 `json:"lat,omitempty"`
	Lng     *float64 `json:"lng,omitempty"`
	Aliases string   `json:"aliases,omitempty"`
}

// Route is one stored direction of a point-to-point fixed-price route.
// GroupID ties an explicitly stored forward/reverse pair together.
type Route struct {
	ID          string      `json:"route_id"`
	GroupID     string      `json:"group_id"`
	FromTitle   string      `json:"from"`
	ToTitle     string      `json:"to"`
	FromAddress string      `json:"from_address"`
	ToAddress   string      `json:"to_address"`
	FromLat     *float64    `json:"from_lat,omitempty"`
	FromLng     *float64    `json:"from_lng,omitempty"`
	ToLat       *float64    `json:"to_lat,omitempty"`
	ToLng       *float64    `json:"to_lng,omitempty"`
	Title       string      `json:"title"`
	Bands       []PriceBand `json:"prices"`
}

// Key returns the normalized duplicate-detection key for this direction.
func (r Route) Key() string {
	return RouteKey(r.FromTitle, r.ToTitle)
}

// AmountMode tags which pricing mode a band carries.
type AmountMode string

const (
	AmountTotal     AmountMode = "total"
	AmountPerPerson AmountMode = "per_person"
)

// Amount is the pricing of one band: either a flat total or a per-person
// price, never both. The zero Amount is unresolvable and such bands are
// skipped during selection.
type Amount struct {
	Mode  AmountMode `json:"mode"`
	Value int64      `json:"value"`
}

// PriceBand is a passenger-count range with an associated price.
// Max nil means unbounded.
type PriceBand struct {
	ID      string `json:"price_id"`
	RouteID string `json:"route_id"`
	Label   string `json:"label"`
	Min     int    `json:"min"`
	Max     *int   `json:"max,omitempty"`
	Amount  Amount `json:"amount"`
}

// Matches reports whether the band applies for the given passenger count.
// A count of zero (unspecified) matches every band.
func (b PriceBand) Matches(passengers int) bool {
	if passengers == 0 {
		return true
	}
	if passengers < b.Min {
		return false
	}
	return b.Max == nil || passengers <= *b.Max
}

// Snapshot is one full read of the catalog.
type Snapshot struct {
	Places []Place `json:"places"`
	Routes []Route `json:"routes"`
}
