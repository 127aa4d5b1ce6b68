package catalog

import "testing"

func TestFoldTitle(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Åre", "are"},
		{"ÅRE", "are"},
		{"Östersund", "ostersund"},
		{"  Järpen   by  ", "jarpen by"},
		{"Café", "cafe"},
		{"Duved", "duved"},
	}
	for _, tt := range tests {
		if got := foldTitle(tt.in); got != tt.want {
			t.Errorf("foldTitle(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRouteKey_CaseAndDiacriticInsensitive(t *testing.T) {
	a := RouteKey("Åre", "Östersund")
	b := RouteKey("are", "OSTERSUND")
	if a != b {
		t.Errorf("keys differ: %q vs %q", a, b)
	}
}

func TestRouteKey_DirectionSensitive(t *testing.T) {
	if RouteKey("Åre", "Duved") == RouteKey("Duved", "Åre") {
		t.Error("reverse direction must have a distinct key")
	}
}
