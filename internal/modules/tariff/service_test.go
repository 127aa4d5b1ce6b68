package tariff

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
)

func TestDeriveSmallDiscount(t *testing.T) {
	got := DeriveSmallDiscount(Rate{Start: 100, PerKm: 10, PerHour: 100})
	want := Rate{Start: 83.0, PerKm: 8.6, PerHour: 85.0}
	if got != want {
		t.Errorf("DeriveSmallDiscount() = %+v, want %+v", got, want)
	}
}

func TestDeriveLargeDiscount(t *testing.T) {
	got := DeriveLargeDiscount(Rate{Start: 100, PerKm: 10, PerHour: 100})
	want := Rate{Start: 86.0, PerKm: 8.5, PerHour: 85.0}
	if got != want {
		t.Errorf("DeriveLargeDiscount() = %+v, want %+v", got, want)
	}
}

func TestDeriveRoundsToTwoDecimals(t *testing.T) {
	// 59 * 0.83 = 48.97 exactly; 22.1 * 0.86 = 19.006 -> 19.01
	got := DeriveSmallDiscount(Rate{Start: 59, PerKm: 22.1, PerHour: 660})
	want := Rate{Start: 48.97, PerKm: 19.01, PerHour: 561.0}
	if got != want {
		t.Errorf("DeriveSmallDiscount() = %+v, want %+v", got, want)
	}
}

func TestUpdateAndReloadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	svc := NewService(path, zap.NewNop())

	small := Rate{Start: 59, PerKm: 22.1, PerHour: 660}
	large := Rate{Start: 79, PerKm: 28.5, PerHour: 780}
	if err := svc.Update(small, large); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	reloaded := NewService(path, zap.NewNop())
	gotSmall, gotLarge := reloaded.Standard()
	if gotSmall != small || gotLarge != large {
		t.Errorf("reloaded rates = %+v/%+v, want %+v/%+v", gotSmall, gotLarge, small, large)
	}
}

func TestMissingFileFallsBackToZeroRates(t *testing.T) {
	svc := NewService(filepath.Join(t.TempDir(), "absent.json"), zap.NewNop())
	small, large := svc.Standard()
	if small != (Rate{}) || large != (Rate{}) {
		t.Errorf("expected zero rates, got %+v/%+v", small, large)
	}
}

func TestUpdatePreservesUnknownSections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	seed := []byte(`{"tariffs":{"small":{"start":1,"km":1,"hour":1},"large":{"start":2,"km":2,"hour":2}},"theme":{"color":"blue"}}`)
	if err := os.WriteFile(path, seed, 0o644); err != nil {
		t.Fatal(err)
	}

	svc := NewService(path, zap.NewNop())
	if err := svc.Update(Rate{Start: 10}, Rate{Start: 20}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatal(err)
	}
	if _, ok := doc["theme"]; !ok {
		t.Errorf("unrelated settings section was dropped: %s", raw)
	}
}

func TestSchedulesOrderAndLabels(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	svc := NewService(path, zap.NewNop())
	_ = svc.Update(Rate{Start: 100, PerKm: 10, PerHour: 100}, Rate{Start: 200, PerKm: 20, PerHour: 200})

	schedules := svc.Schedules()
	if len(schedules) != 4 {
		t.Fatalf("expected 4 schedules, got %d", len(schedules))
	}
	wantOrder := []Class{SmallStandard, LargeStandard, SmallDiscount, LargeDiscount}
	for i, c := range wantOrder {
		if schedules[i].Class != c {
			t.Errorf("schedules[%d].Class = %s, want %s", i, schedules[i].Class, c)
		}
		if schedules[i].Label == "" {
			t.Errorf("schedules[%d] missing label", i)
		}
	}
	if schedules[2].Rate.Start != 83.0 {
		t.Errorf("small discount start = %v, want 83.0", schedules[2].Rate.Start)
	}
}
