// README: Tariff class enumeration and rate definitions.
package tariff

// Class is the closed set of fare schedules. Discount classes are always
// derived from their standard counterpart, never stored.
type Class string

const (
	SmallStandard Class = "small_standard"
	LargeStandard Class = "large_standard"
	SmallDiscount Class = "small_discount"
	LargeDiscount Class = "large_discount"
)

// Display labels kept from the operator-facing product (Taxa numbering).
var labels = map[Class]string{
	SmallStandard: "Taxa 1 (Småbil)",
	LargeStandard: "Taxa 2 (Storbil)",
	SmallDiscount: "Taxa 4 (Småbil Rabatt)",
	LargeDiscount: "Taxa 5 (Storbil Rabatt)",
}

func (c Class) Label() string { return labels[c] }

// Rate is a fare formula: start fee + per-km fee + per-hour fee.
type Rate struct {
	Start   float64 `json:"start"`
	PerKm   float64 `json:"km"`
	PerHour float64 `json:"hour"`
}

// Schedule pairs a class with its current rate.
type Schedule struct {
	Class Class
	Label string
	Rate  Rate
}

// Discount multipliers, applied to the standard rates on every read.
// Small: start x0.83, km x0.86, hour x0.85.
// Large: start x0.86, km x0.85, hour x0.85.
const (
	smallDiscountStart = 0.83
	smallDiscountKm    = 0.86
	smallDiscountHour  = 0.85

	largeDiscountStart = 0.86
	largeDiscountKm    = 0.85
	largeDiscountHour  = 0.85
)

// DeriveSmallDiscount computes the small-vehicle discount rate, rounded to
// two decimals per component.
func DeriveSmallDiscount(std Rate) Rate {
	return Rate{
		Start:   round2(std.Start * smallDiscountStart),
		PerKm:   round2(std.PerKm * smallDiscountKm),
		PerHour: round2(std.PerHour * smallDiscountHour),
	}
}

// DeriveLargeDiscount computes the large-vehicle discount rate.
func DeriveLargeDiscount(std Rate) Rate {
	return Rate{
		Start:   round2(std.Start * largeDiscountStart),
		PerKm:   round2(std.PerKm * largeDiscountKm),
		PerHour: round2(std.PerHour * largeDiscountHour),
	}
}
