// Package shipping estimates delivery duration from origin/destination
// geography.
package shipping

import (
	"strings"

	"github.com/AsmaSahli/EcomPfe-sub001/internal/geo"
)

const (
	// DaysSameCity is the estimate when origin and destination match.
	DaysSameCity = 1
	// DaysSameGroup is the estimate for distinct cities in one proximity group.
	DaysSameGroup = 2
	// DaysMax is the estimate across groups and the fallback for unknown or
	// missing cities. Never under-promise.
	DaysMax = 3
)

// EstimateDays maps an (origin, destination) city pair to a delivery-day
// estimate. Pure function: city names are trimmed, matched exactly, and
// resolved through the static proximity index.
func EstimateDays(originCity, destCity string) int {
	origin := strings.TrimSpace(originCity)
	dest := strings.TrimSpace(destCity)

	if origin == "" || dest == "" {
		return DaysMax
	}
	if origin == dest {
		return DaysSameCity
	}

	originGroup, ok := geo.GroupOf(origin)
	if !ok {
		return DaysMax
	}
	destGroup, ok := geo.GroupOf(dest)
	if !ok {
		return DaysMax
	}
	if originGroup == destGroup {
		return DaysSameGroup
	}
	return DaysMax
}
