// README: Pure URL builders for Google Maps directions links and embeds.
package maps

import "strings"

// The directions link and the embed map must be built from the very same
// endpoint tokens that went into the distance query, or the rendered map
// will not match the computed fare.

// DirectionsURL builds a clickable /dir link from normalized endpoint
// tokens ("place_id:ChIJ..." or "lat,lng").
func DirectionsURL(originParam, destParam, mode string) string {
	if mode == "" {
		mode = "driving"
	}
	var b strings.Builder
	b.WriteString("https://www.google.com/maps/dir/?api=1")
	b.WriteString("&origin=")
	b.WriteString(escapeParam(originParam))
	b.WriteString("&destination=")
	b.WriteString(escapeParam(destParam))
	b.WriteString("&travelmode=")
	b.WriteString(mode)
	return b.String()
}

// EmbedURL builds a v1/directions embed URL for an iframe map.
func EmbedURL(originParam, destParam, apiKey, mode string) string {
	if mode == "" {
		mode = "driving"
	}
	var b strings.Builder
	b.WriteString("https://www.google.com/maps/embed/v1/directions")
	b.WriteString("?origin=")
	b.WriteString(escapeParam(originParam))
	b.WriteString("&destination=")
	b.WriteString(escapeParam(destParam))
	b.WriteString("&key=")
	b.WriteString(apiKey)
	b.WriteString("&mode=")
	b.WriteString(mode)
	return b.String()
}

const upperhex = "0123456789ABCDEF"

// escapeParam percent-encodes an endpoint token, keeping ',', ':' and '@'
// literal since the Maps URL schemes expect them unescaped.
func escapeParam(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
			b.WriteByte(c)
		case c == '-' || c == '_' || c == '.' || c == '~':
			b.WriteByte(c)
		case c == ',' || c == ':' || c == '@':
			b.WriteByte(c)
		default:
			b.WriteByte('%')
			b.WriteByte(upperhex[c>>4])
			b.WriteByte(upperhex[c&15])
		}
	}
	return b.String()
}
