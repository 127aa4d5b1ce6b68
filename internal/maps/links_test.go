package maps

import (
	"strings"
	"testing"
)

func TestDirectionsURL_CoordinateTokens(t *testing.T) {
	got := DirectionsURL("59.3293,18.0686", "63.1792,14.6357", "driving")
	want := "https://www.google.com/maps/dir/?api=1&origin=59.3293,18.0686&destination=63.1792,14.6357&travelmode=driving"
	if got != want {
		t.Errorf("DirectionsURL() = %q, want %q", got, want)
	}
}

func TestDirectionsURL_PlaceIDTokenKeepsColon(t *testing.T) {
	got := DirectionsURL("place_id:ChIJd_abc123", "59.0,18.0", "")
	if !strings.Contains(got, "origin=place_id:ChIJd_abc123") {
		t.Errorf("place_id colon must stay literal, got %q", got)
	}
	if !strings.Contains(got, "travelmode=driving") {
		t.Errorf("empty mode should default to driving, got %q", got)
	}
}

func TestEmbedURL_SameTokensAsDirections(t *testing.T) {
	origin, dest := "place_id:ChIJx", "59.33,18.07"
	embed := EmbedURL(origin, dest, "testkey", "driving")
	link := DirectionsURL(origin, dest, "driving")

	for _, u := range []string{embed, link} {
		if !strings.Contains(u, "origin="+escapeParam(origin)) ||
			!strings.Contains(u, "destination="+escapeParam(dest)) {
			t.Errorf("url %q does not carry the canonical tokens", u)
		}
	}
	if !strings.Contains(embed, "key=testkey") {
		t.Errorf("embed url missing api key: %q", embed)
	}
}

func TestEscapeParam(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"59.3,18.0", "59.3,18.0"},
		{"place_id:ChIJ", "place_id:ChIJ"},
		{"Åre station", "%C3%85re%20station"},
		{"a b", "a%20b"},
	}
	for _, tt := range tests {
		if got := escapeParam(tt.in); got != tt.want {
			t.Errorf("escapeParam(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
