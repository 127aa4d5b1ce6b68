// README: Vehicle allocation; splits a passenger count across large/small cars.
package quote

// Seat capacities.
const (
	largeSeats = 8
	smallSeats = 4
)

// DistributeVehicles splits passengers across vehicles, prioritizing the
// large car. A remainder of 1-4 gets one extra small car; a remainder of
// 5-7 upgrades to one more large car instead of pairing small cars. The
// upgrade is a business rule, not an oversight.
//
//	5  -> 1 large            16 -> 2 large
//	17 -> 2 large, 1 small   3  -> 1 small
func DistributeVehicles(passengers int) (large, small int) {
	if passengers <= 0 {
		return 0, 0
	}

	large = passengers / largeSeats
	rem := passengers % largeSeats

	switch {
	case rem == 0:
		return large, 0
	case rem <= smallSeats:
		return large, 1
	default: // 5-7
		return large + 1, 0
	}
}
