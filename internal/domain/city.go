package domain

import "strings"

// Place is one gazetteer record: a named populated place with a point
// location and a population estimate.
type Place struct {
	Name       string
	Location   Geo
	Population float64
}

// FilterPlaces selects the gazetteer records worth labeling: strictly inside
// the viewport on both axes, population at or above the threshold, and a
// non-empty name after trimming whitespace. No ranking or overlap
// deduplication is done; overlapping labels are an accepted visual artifact.
func FilterPlaces(places []Place, vp Viewport, minPopulation float64) []Place {
	var kept []Place
	for _, p := range places {
		if strings.TrimSpace(p.Name) == "" {
			continue
		}
		if p.Population < minPopulation {
			continue
		}
		if !vp.Contains(p.Location) {
			continue
		}
		kept = append(kept, p)
	}
	return kept
}
