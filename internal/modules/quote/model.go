// README: Quote request/result models and presentation helpers.
package quote

import (
	"fmt"
	"math"

	"topptaxi/internal/modules/tariff"
)

// Request is one price-calculation submission.
type Request struct {
	Origin             string
	Destination        string
	OriginPlaceID      string
	DestinationPlaceID string
	Passengers         int
	FixedRoute         bool
}

// Row is one fare line in the result.
type Row struct {
	Label string `json:"tariff"`
	Cost  int64  `json:"total_cost"`
}

// Result is the computed quote. Unavailable is set when the mapping
// provider could not produce a travel estimate for a dynamic quote.
type Result struct {
	Origin        string   `json:"origin"`
	Destination   string   `json:"destination"`
	Duration      string   `json:"duration"`
	DistanceKm    *float64 `json:"distance_km,omitempty"`
	Rows          []Row    `json:"calculations"`
	MapURL        string   `json:"map_url,omitempty"`
	DirectionsURL string   `json:"directions_url,omitempty"`
	Unavailable   bool     `json:"unavailable,omitempty"`
}

// PriceDynamic computes one per-trip fare from a travel estimate, rounded
// to the nearest whole currency unit (ties away from zero).
func PriceDynamic(durationMin, distanceKm float64, r tariff.Rate) int64 {
	total := r.Start + r.PerKm*distanceKm + (durationMin/60.0)*r.PerHour
	return int64(math.Round(total))
}

// FormatDuration renders minutes as "2h 5min" or "45min"; nil means the
// estimate is unavailable.
func FormatDuration(minutes *float64) string {
	if minutes == nil {
		return "–"
	}
	m := int(*minutes)
	h := m / 60
	if h > 0 {
		return fmt.Sprintf("%dh %dmin", h, m%60)
	}
	return fmt.Sprintf("%dmin", m%60)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
