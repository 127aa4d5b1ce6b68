package quote

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"topptaxi/internal/maps"
	"topptaxi/internal/modules/catalog"
	"topptaxi/internal/modules/tariff"
)

type fakeEstimator struct {
	result *maps.TravelResult
}

func (f fakeEstimator) TravelEstimate(ctx context.Context, o, d string) *maps.TravelResult {
	return f.result
}

type fakeCatalog struct {
	route *catalog.Route
}

func (f fakeCatalog) MatchRoute(ctx context.Context, from, to string) *catalog.Route {
	return f.route
}

func testTariffs(t *testing.T) *tariff.Service {
	t.Helper()
	svc := tariff.NewService(filepath.Join(t.TempDir(), "settings.json"), zap.NewNop())
	err := svc.Update(
		tariff.Rate{Start: 59, PerKm: 22.1, PerHour: 660},
		tariff.Rate{Start: 79, PerKm: 28.5, PerHour: 780},
	)
	if err != nil {
		t.Fatal(err)
	}
	return svc
}

func newTestQuoteService(t *testing.T, est TravelEstimator, cat Catalog) *Service {
	t.Helper()
	return NewService(testTariffs(t), cat, est, &fakeGeocoder{ok: false}, "testkey", zap.NewNop())
}

func TestPriceDynamic(t *testing.T) {
	tests := []struct {
		name        string
		durationMin float64
		distanceKm  float64
		rate        tariff.Rate
		want        int64
	}{
		{
			name:        "one hour ten km",
			durationMin: 60, distanceKm: 10,
			rate: tariff.Rate{Start: 59, PerKm: 22.1, PerHour: 660},
			// 59 + 221 + 660 = 940
			want: 940,
		},
		{
			name:        "half hour rounds to nearest unit",
			durationMin: 30, distanceKm: 7.3,
			rate: tariff.Rate{Start: 59, PerKm: 22.1, PerHour: 660},
			// 59 + 161.33 + 330 = 550.33 -> 550
			want: 550,
		},
		{
			name:        "zero rate",
			durationMin: 45, distanceKm: 12,
			rate: tariff.Rate{},
			want: 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PriceDynamic(tt.durationMin, tt.distanceKm, tt.rate); got != tt.want {
				t.Errorf("PriceDynamic() = %d, want %d", got, tt.want)
			}
		})
	}
}

func intPtr(v int) *int { return &v }

func TestPriceFixed_BandSelection(t *testing.T) {
	bands := []catalog.PriceBand{
		{Label: "1-4 personer", Min: 1, Max: intPtr(4), Amount: catalog.Amount{Mode: catalog.AmountTotal, Value: 995}},
		{Label: "5-8 personer", Min: 5, Max: intPtr(8), Amount: catalog.Amount{Mode: catalog.AmountTotal, Value: 1400}},
	}

	rows := PriceFixed(6, bands)
	if len(rows) != 1 {
		t.Fatalf("passengers=6: expected 1 matching band, got %d", len(rows))
	}
	if rows[0].Cost != 1400 {
		t.Errorf("cost = %d, want 1400", rows[0].Cost)
	}

	rows = PriceFixed(0, bands)
	if len(rows) != 2 {
		t.Errorf("passengers=0: expected both bands unfiltered, got %d", len(rows))
	}
}

func TestPriceFixed_PerPerson(t *testing.T) {
	bands := []catalog.PriceBand{
		{Label: "Per person", Min: 2, Amount: catalog.Amount{Mode: catalog.AmountPerPerson, Value: 150}},
	}

	rows := PriceFixed(6, bands)
	if len(rows) != 1 || rows[0].Cost != 900 {
		t.Fatalf("passengers=6: rows = %+v, want one row of 900", rows)
	}

	// Unspecified count falls back to the band minimum.
	rows = PriceFixed(0, bands)
	if len(rows) != 1 || rows[0].Cost != 300 {
		t.Fatalf("passengers=0: rows = %+v, want one row of 300", rows)
	}
}

func TestPriceFixed_SkipsUnresolvableBands(t *testing.T) {
	bands := []catalog.PriceBand{
		{Label: "broken", Min: 1},
		{Label: "ok", Min: 1, Amount: catalog.Amount{Mode: catalog.AmountTotal, Value: 500}},
	}
	rows := PriceFixed(2, bands)
	if len(rows) != 1 || rows[0].Label != "ok" {
		t.Errorf("rows = %+v, want only the resolvable band", rows)
	}
}

func TestCalculate_DynamicWithoutPassengerCount(t *testing.T) {
	svc := newTestQuoteService(t,
		fakeEstimator{result: &maps.TravelResult{DurationMin: 60, DistanceKm: 10}},
		fakeCatalog{})

	res, err := svc.Calculate(context.Background(), Request{
		Origin: "59.3,18.0", Destination: "59.4,18.1",
	})
	if err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}
	if len(res.Rows) != 4 {
		t.Fatalf("expected one row per tariff class, got %d", len(res.Rows))
	}
	// Standard small: 59 + 221 + 660 = 940.
	if res.Rows[0].Cost != 940 {
		t.Errorf("small standard = %d, want 940", res.Rows[0].Cost)
	}
	// Derived small discount: 48.97 + 19.01*10 + 561 = 800.07 -> 800.
	if res.Rows[2].Cost != 800 {
		t.Errorf("small discount = %d, want 800", res.Rows[2].Cost)
	}
	if res.Duration != "1h 0min" {
		t.Errorf("duration = %q, want \"1h 0min\"", res.Duration)
	}
	if res.DistanceKm == nil || *res.DistanceKm != 10.0 {
		t.Errorf("distance = %v, want 10.0", res.DistanceKm)
	}
}

func TestCalculate_DynamicWithPassengers(t *testing.T) {
	svc := newTestQuoteService(t,
		fakeEstimator{result: &maps.TravelResult{DurationMin: 60, DistanceKm: 10}},
		fakeCatalog{})

	// 17 passengers -> 2 large + 1 small.
	res, err := svc.Calculate(context.Background(), Request{
		Origin: "59.3,18.0", Destination: "59.4,18.1", Passengers: 17,
	})
	if err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}
	if len(res.Rows) != 4 {
		t.Fatalf("expected 4 rows (2 per vehicle class), got %d: %+v", len(res.Rows), res.Rows)
	}

	// Small rows come first: Taxa 1 unit 940 x1.
	if res.Rows[0].Cost != 940 || !strings.Contains(res.Rows[0].Label, "×1") {
		t.Errorf("small standard row = %+v, want 940 ×1", res.Rows[0])
	}
	// Large standard unit: 79 + 285 + 780 = 1144, x2 = 2288.
	if res.Rows[2].Cost != 2288 || !strings.Contains(res.Rows[2].Label, "×2") {
		t.Errorf("large standard row = %+v, want 2288 ×2", res.Rows[2])
	}
}

func TestCalculate_ProviderFailureDegradesGracefully(t *testing.T) {
	svc := newTestQuoteService(t, fakeEstimator{result: nil}, fakeCatalog{})

	res, err := svc.Calculate(context.Background(), Request{
		Origin: "59.3,18.0", Destination: "59.4,18.1", Passengers: 3,
	})
	if err != nil {
		t.Fatalf("provider failure must not be an error, got %v", err)
	}
	if !res.Unavailable {
		t.Error("expected the unavailable flag")
	}
	if res.Duration != "–" {
		t.Errorf("duration = %q, want the unavailable marker", res.Duration)
	}
	if len(res.Rows) != 0 {
		t.Errorf("no fare rows without a travel estimate, got %+v", res.Rows)
	}
}

func TestCalculate_FixedRoute(t *testing.T) {
	route := &catalog.Route{
		ID: "r1", FromTitle: "Åre", ToTitle: "Östersund",
		FromLat: fptr(63.4), FromLng: fptr(13.1),
		ToLat: fptr(63.2), ToLng: fptr(14.6),
		Bands: []catalog.PriceBand{
			{Label: "1-4", Min: 1, Max: intPtr(4), Amount: catalog.Amount{Mode: catalog.AmountTotal, Value: 995}},
			{Label: "5-8", Min: 5, Max: intPtr(8), Amount: catalog.Amount{Mode: catalog.AmountTotal, Value: 1400}},
		},
	}
	svc := newTestQuoteService(t,
		fakeEstimator{result: &maps.TravelResult{DurationMin: 75, DistanceKm: 97.5}},
		fakeCatalog{route: route})

	res, err := svc.Calculate(context.Background(), Request{
		Origin: "Åre", Destination: "Östersund", Passengers: 6, FixedRoute: true,
	})
	if err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}
	if len(res.Rows) != 1 || res.Rows[0].Cost != 1400 {
		t.Errorf("rows = %+v, want the 5-8 band at 1400", res.Rows)
	}
	if res.Duration != "1h 15min" {
		t.Errorf("duration = %q", res.Duration)
	}

	// Both links must carry the stored coordinates as canonical tokens.
	for _, u := range []string{res.DirectionsURL, res.MapURL} {
		if !strings.Contains(u, "63.4,13.1") || !strings.Contains(u, "63.2,14.6") {
			t.Errorf("link %q does not use the stored route coordinates", u)
		}
	}
}

func TestCalculate_FixedRouteUnmatched(t *testing.T) {
	svc := newTestQuoteService(t, fakeEstimator{}, fakeCatalog{route: nil})
	_, err := svc.Calculate(context.Background(), Request{
		Origin: "Nowhere", Destination: "Elsewhere", FixedRoute: true,
	})
	if !errors.Is(err, ErrNoFixedRoute) {
		t.Errorf("err = %v, want ErrNoFixedRoute", err)
	}
}

func TestCalculate_NegativePassengersTreatedAsZero(t *testing.T) {
	svc := newTestQuoteService(t,
		fakeEstimator{result: &maps.TravelResult{DurationMin: 30, DistanceKm: 5}},
		fakeCatalog{})

	res, err := svc.Calculate(context.Background(), Request{
		Origin: "59.3,18.0", Destination: "59.4,18.1", Passengers: -2,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Rows) != 4 {
		t.Errorf("negative count must behave as unspecified, got %d rows", len(res.Rows))
	}
}

func fptr(v float64) *float64 { return &v }

func TestFormatDuration(t *testing.T) {
	f := func(v float64) *float64 { return &v }
	tests := []struct {
		in   *float64
		want string
	}{
		{nil, "–"},
		{f(45), "45min"},
		{f(60), "1h 0min"},
		{f(125), "2h 5min"},
		{f(59.9), "59min"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.in); got != tt.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
