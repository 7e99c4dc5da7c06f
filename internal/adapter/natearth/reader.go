// Package natearth reads Natural Earth shapefile datasets: the populated
// places gazetteer and the admin boundary polylines drawn on the base map.
package natearth

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	shp "github.com/jonas-p/go-shp"

	"github.com/couchcryptid/storm-imagery/internal/domain"
)

// Gazetteer attribute names in the Natural Earth populated_places dataset.
const (
	nameAttr = "NAME"
	popAttr  = "POP_MAX"
)

// Gazetteer reads populated place records from a shapefile.
type Gazetteer struct {
	path   string
	logger *slog.Logger
}

// NewGazetteer creates a gazetteer reader for the given shapefile path.
func NewGazetteer(path string, logger *slog.Logger) *Gazetteer {
	return &Gazetteer{path: path, logger: logger}
}

// Places reads the whole gazetteer. Records without a point geometry are
// skipped; a missing or unparsable POP_MAX is treated as zero population,
// matching how sparse Natural Earth attributes behave upstream.
func (g *Gazetteer) Places() ([]domain.Place, error) {
	reader, err := shp.Open(g.path)
	if err != nil {
		return nil, fmt.Errorf("open gazetteer %s: %w", g.path, err)
	}
	defer reader.Close()

	nameCol, popCol := -1, -1
	for i, f := range reader.Fields() {
		switch strings.ToUpper(f.String()) {
		case nameAttr:
			nameCol = i
		case popAttr:
			popCol = i
		}
	}
	if nameCol < 0 || popCol < 0 {
		return nil, fmt.Errorf("gazetteer %s missing %s/%s attributes", g.path, nameAttr, popAttr)
	}

	var places []domain.Place
	skipped := 0
	for reader.Next() {
		row, shape := reader.Shape()

		point, ok := shape.(*shp.Point)
		if !ok {
			skipped++
			continue
		}

		population := 0.0
		if raw := strings.TrimSpace(reader.ReadAttribute(row, popCol)); raw != "" {
			if v, err := strconv.ParseFloat(raw, 64); err == nil {
				population = v
			}
		}

		places = append(places, domain.Place{
			Name:       strings.TrimSpace(reader.ReadAttribute(row, nameCol)),
			Location:   domain.Geo{Lat: point.Y, Lon: point.X},
			Population: population,
		})
	}
	if err := reader.Err(); err != nil {
		return nil, fmt.Errorf("read gazetteer %s: %w", g.path, err)
	}

	g.logger.Debug("gazetteer loaded", "path", g.path, "places", len(places), "skipped", skipped)
	return places, nil
}

// Boundaries reads admin boundary polylines from a shapefile, one coordinate
// list per polyline part.
func Boundaries(path string) ([][]domain.Geo, error) {
	reader, err := shp.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open boundaries %s: %w", path, err)
	}
	defer reader.Close()

	var lines [][]domain.Geo
	for reader.Next() {
		_, shape := reader.Shape()

		polyline, ok := shape.(*shp.PolyLine)
		if !ok {
			continue
		}

		for part := 0; part < int(polyline.NumParts); part++ {
			start := int(polyline.Parts[part])
			end := int(polyline.NumPoints)
			if part+1 < int(polyline.NumParts) {
				end = int(polyline.Parts[part+1])
			}

			line := make([]domain.Geo, 0, end-start)
			for _, p := range polyline.Points[start:end] {
				line = append(line, domain.Geo{Lat: p.Y, Lon: p.X})
			}
			if len(line) >= 2 {
				lines = append(lines, line)
			}
		}
	}
	if err := reader.Err(); err != nil {
		return nil, fmt.Errorf("read boundaries %s: %w", path, err)
	}

	return lines, nil
}
