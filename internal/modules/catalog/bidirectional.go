// README: Pure bidirectional materialization of the stored route rows.
package catalog

// Bidirectional returns routes with both directions of every stored route
// present exactly once. A stored row always wins: a reverse direction is
// synthesized only when no stored row covers that key, by swapping
// endpoints, addresses and coordinates while keeping the original route id
// and price bands. First-seen order is preserved and the function is
// idempotent.
func Bidirectional(routes []Route) []Route {
	stored := make(map[string]struct{}, len(routes))
	for _, r := range routes {
		stored[r.Key()] = struct{}{}
	}

	out := make([]Route, 0, len(routes)*2)
	seen := make(map[string]struct{}, len(routes)*2)

	for _, r := range routes {
		if _, ok := seen[r.Key()]; !ok {
			out = append(out, r)
			seen[r.Key()] = struct{}{}
		}

		reverse := RouteKey(r.ToTitle, r.FromTitle)
		if _, ok := stored[reverse]; ok {
			continue
		}
		if _, ok := seen[reverse]; !ok {
			out = append(out, reversed(r))
			seen[reverse] = struct{}{}
		}
	}
	return out
}

func reversed(r Route) Route {
	rev := r
	rev.FromTitle, rev.ToTitle = r.ToTitle, r.FromTitle
	rev.FromAddress, rev.ToAddress = r.ToAddress, r.FromAddress
	rev.FromLat, rev.ToLat = r.ToLat, r.FromLat
	rev.FromLng, rev.ToLng = r.ToLng, r.FromLng
	return rev
}
