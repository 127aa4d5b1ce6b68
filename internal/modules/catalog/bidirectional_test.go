package catalog

import "testing"

func fptr(v float64) *float64 { return &v }

func TestBidirectional_SynthesizesReverse(t *testing.T) {
	routes := []Route{{
		ID:          "r1",
		FromTitle:   "Åre",
		ToTitle:     "Östersund",
		FromAddress: "Åre station",
		ToAddress:   "Östersund C",
		FromLat:     fptr(63.4), FromLng: fptr(13.1),
		ToLat: fptr(63.2), ToLng: fptr(14.6),
	}}

	out := Bidirectional(routes)
	if len(out) != 2 {
		t.Fatalf("expected 2 directions, got %d", len(out))
	}

	rev := out[1]
	if rev.ID != "r1" {
		t.Errorf("reverse must keep the original route id, got %q", rev.ID)
	}
	if rev.FromTitle != "Östersund" || rev.ToTitle != "Åre" {
		t.Errorf("endpoints not swapped: %s -> %s", rev.FromTitle, rev.ToTitle)
	}
	if rev.FromAddress != "Östersund C" || rev.ToAddress != "Åre station" {
		t.Errorf("addresses not swapped: %q / %q", rev.FromAddress, rev.ToAddress)
	}
	if *rev.FromLat != 63.2 || *rev.ToLat != 63.4 {
		t.Errorf("coordinates not swapped: %v / %v", *rev.FromLat, *rev.ToLat)
	}
}

func TestBidirectional_KeepsStoredReverse(t *testing.T) {
	routes := []Route{
		{ID: "r1", FromTitle: "Åre", ToTitle: "Duved",
			Bands: []PriceBand{{ID: "b1", RouteID: "r1", Label: "1-4", Min: 1}}},
		{ID: "r2", FromTitle: "Duved", ToTitle: "Åre",
			Bands: []PriceBand{{ID: "b2", RouteID: "r2", Label: "1-4", Min: 1}}},
	}
	out := Bidirectional(routes)
	if len(out) != 2 {
		t.Fatalf("expected 2 routes, got %d", len(out))
	}
	if out[0].ID != "r1" || out[1].ID != "r2" {
		t.Errorf("stored rows must win over synthesis: %v", out)
	}
	if len(out[1].Bands) != 1 || out[1].Bands[0].ID != "b2" {
		t.Errorf("stored reverse must keep its own bands, got %+v", out[1].Bands)
	}
}

func TestBidirectional_Idempotent(t *testing.T) {
	routes := []Route{
		{ID: "r1", FromTitle: "Åre", ToTitle: "Östersund"},
		{ID: "r2", FromTitle: "Järpen", ToTitle: "Åre"},
	}
	once := Bidirectional(routes)
	twice := Bidirectional(once)
	if len(once) != len(twice) {
		t.Fatalf("not idempotent: %d then %d", len(once), len(twice))
	}
	for i := range once {
		if once[i].Key() != twice[i].Key() {
			t.Errorf("order changed at %d: %s vs %s", i, once[i].Key(), twice[i].Key())
		}
	}
}

func TestBidirectional_DiacriticVariantIsSameDirection(t *testing.T) {
	// "are" and "Åre" fold to the same key, so only one reverse is added.
	routes := []Route{
		{ID: "r1", FromTitle: "Åre", ToTitle: "Duved"},
		{ID: "r2", FromTitle: "are", ToTitle: "Duved"},
	}
	out := Bidirectional(routes)
	if len(out) != 2 {
		t.Fatalf("expected forward + one reverse, got %d rows", len(out))
	}
}
