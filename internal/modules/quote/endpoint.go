// README: Endpoint normalization; one canonical token feeds both the travel query and the map links.
package quote

import (
	"context"
	"regexp"
	"strconv"
	"strings"
)

// Endpoint is the canonical form of a user-supplied origin or destination.
// Param goes verbatim into the directions query and the map URLs; Display
// is what the result shows.
type Endpoint struct {
	Param   string
	Display string
}

// Strict "lat,lng" with optional decimals and signs.
var latLngPattern = regexp.MustCompile(`^\s*-?\d+(\.\d+)?\s*,\s*-?\d+(\.\d+)?\s*$`)

// Geocoder is the geocoding collaborator; ok is false on provider failure.
type Geocoder interface {
	Locate(ctx context.Context, address, placeID string) (lat, lng float64, formatted string, ok bool)
}

// NormalizeEndpoint resolves free text, a place id or explicit coordinates
// into one canonical token. The same token must feed the distance query and
// the map links, or the rendered map will not match the computed fare.
func NormalizeEndpoint(ctx context.Context, g Geocoder, text, placeID string) Endpoint {
	if placeID != "" {
		// Display resolution is deferred to the travel/geocode result;
		// the raw text remains the fallback.
		return Endpoint{Param: "place_id:" + placeID, Display: text}
	}

	s := strings.TrimSpace(text)
	if latLngPattern.MatchString(s) {
		return Endpoint{Param: s, Display: s}
	}
	if s == "" {
		return Endpoint{}
	}

	if lat, lng, formatted, ok := g.Locate(ctx, s, ""); ok {
		display := formatted
		if display == "" {
			display = s
		}
		return Endpoint{Param: coordParam(lat, lng), Display: display}
	}
	// Geocoding failed; pass the raw text through and let the provider
	// try to make sense of it.
	return Endpoint{Param: s, Display: s}
}

func coordParam(lat, lng float64) string {
	return strconv.FormatFloat(lat, 'f', -1, 64) + "," + strconv.FormatFloat(lng, 'f', -1, 64)
}
