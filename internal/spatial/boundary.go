// Package spatial restricts complaint rows to the area covered by a polygon
// shapefile such as the NYC borough boundary layer.
package spatial

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	shp "github.com/jonas-p/go-shp"

	"complaints/internal/types"
)

// feature is one polygon (possibly multi-part) together with its DBF
// attribute values.
type feature struct {
	Parts [][][2]float64    // each part is a closed ring of [x, y] points
	Attrs map[string]string // DBF attribute values keyed by field name
	MinX  float64
	MinY  float64
	MaxX  float64
	MaxY  float64
}

// Boundary is the union of all polygons read from a shapefile.
type Boundary struct {
	features []feature
}

// LoadBoundary reads every polygon of the shapefile at path. The shapefile
// must be in EPSG:2263 (NY Long Island state plane feet).
func LoadBoundary(path string) (*Boundary, error) {
	r, err := shp.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open boundary shapefile %s: %w", types.ErrIO, path, err)
	}
	defer r.Close()

	fields := r.Fields()

	b := &Boundary{}
	for r.Next() {
		idx, shape := r.Shape()
		poly, ok := shape.(*shp.Polygon)
		if !ok {
			continue
		}

		numParts := len(poly.Parts)
		parts := make([][][2]float64, numParts)

		minX, minY := math.MaxFloat64, math.MaxFloat64
		maxX, maxY := -math.MaxFloat64, -math.MaxFloat64

		for partIdx := 0; partIdx < numParts; partIdx++ {
			start := poly.Parts[partIdx]
			end := int32(len(poly.Points))
			if partIdx+1 < numParts {
				end = poly.Parts[partIdx+1]
			}
			ring := make([][2]float64, 0, int(end-start))
			for i := start; i < end; i++ {
				pt := poly.Points[i]
				ring = append(ring, [2]float64{pt.X, pt.Y})
				minX = math.Min(minX, pt.X)
				maxX = math.Max(maxX, pt.X)
				minY = math.Min(minY, pt.Y)
				maxY = math.Max(maxY, pt.Y)
			}
			parts[partIdx] = ring
		}

		attrs := make(map[string]string, len(fields))
		for i, f := range fields {
			attrs[f.String()] = strings.TrimSpace(r.ReadAttribute(idx, i))
		}

		b.features = append(b.features, feature{
			Parts: parts,
			Attrs: attrs,
			MinX:  minX,
			MinY:  minY,
			MaxX:  maxX,
			MaxY:  maxY,
		})
	}
	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("%w: read boundary shapefile %s: %w", types.ErrData, path, err)
	}
	return b, nil
}

// Len returns the number of polygons loaded.
func (b *Boundary) Len() int { return len(b.features) }

// Find returns the attributes of the first polygon containing (x, y).
func (b *Boundary) Find(x, y float64) (map[string]string, bool) {
	for _, f := range b.features {
		if x < f.MinX || x > f.MaxX || y < f.MinY || y > f.MaxY {
			continue // quick bbox reject
		}
		for _, ring := range f.Parts {
			if pointInPolygon(x, y, ring) {
				return f.Attrs, true
			}
		}
	}
	return nil, false
}

// Filter keeps the rows located inside the boundary. Rows without a usable
// location are dropped.
func (b *Boundary) Filter(table *types.Table) *types.Table {
	out := &types.Table{Width: table.Width}
	for _, row := range table.Rows {
		x, y, ok := Locate(row)
		if !ok {
			continue
		}
		if _, inside := b.Find(x, y); inside {
			out.Rows = append(out.Rows, row)
		}
	}
	return out
}

// Locate returns a row's position in state plane feet, preferring the X/Y
// columns and falling back to projecting latitude/longitude.
func Locate(row []string) (x, y float64, ok bool) {
	if x, y, ok := parsePair(row, types.ColXCoord, types.ColYCoord); ok {
		return x, y, true
	}
	lat, lon, ok := parsePair(row, types.ColLatitude, types.ColLongitude)
	if !ok {
		return 0, 0, false
	}
	x, y = wgs84ToNYLI(lat, lon)
	return x, y, true
}

func parsePair(row []string, i, j int) (float64, float64, bool) {
	if i >= len(row) || j >= len(row) {
		return 0, 0, false
	}
	a, err1 := strconv.ParseFloat(strings.TrimSpace(row[i]), 64)
	b, err2 := strconv.ParseFloat(strings.TrimSpace(row[j]), 64)
	return a, b, err1 == nil && err2 == nil
}

// pointInPolygon implements the ray-casting test. Shapefile rings are closed,
// but closure is not required here.
func pointInPolygon(x, y float64, ring [][2]float64) bool {
	inside := false
	j := len(ring) - 1
	for i := 0; i < len(ring); i++ {
		xi, yi := ring[i][0], ring[i][1]
		xj, yj := ring[j][0], ring[j][1]
		if ((yi > y) != (yj > y)) && (x < (xj-xi)*(y-yi)/(yj-yi)+xi) {
			inside = !inside
		}
		j = i
	}
	return inside
}
