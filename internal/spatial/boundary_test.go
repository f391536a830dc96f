package spatial

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	shp "github.com/jonas-p/go-shp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"complaints/internal/types"
)

// square returns a closed ring around (cx, cy).
func square(cx, cy, half float64) []shp.Point {
	return []shp.Point{
		{X: cx - half, Y: cy - half},
		{X: cx - half, Y: cy + half},
		{X: cx + half, Y: cy + half},
		{X: cx + half, Y: cy - half},
		{X: cx - half, Y: cy - half},
	}
}

// writeBoundary writes one polygon per ring with a BoroName attribute.
func writeBoundary(t *testing.T, names []string, rings ...[]shp.Point) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "boroughs.shp")

	w, err := shp.Create(path, shp.POLYGON)
	require.NoError(t, err)
	require.NoError(t, w.SetFields([]shp.Field{shp.StringField("BoroName", 32)}))

	for i, ring := range rings {
		poly := shp.Polygon(*shp.NewPolyLine([][]shp.Point{ring}))
		row := w.Write(&poly)
		require.NoError(t, w.WriteAttribute(int(row), 0, names[i]))
	}
	w.Close()

	// go-shp names the attribute table "<base>dbf" without the dot; the
	// reader looks for "<base>.dbf".
	base := strings.TrimSuffix(path, ".shp")
	require.NoError(t, os.Rename(base+"dbf", base+".dbf"))
	return path
}

func locatedRow(x, y, lat, lon string) []string {
	row := make([]string, types.ColLongitude+1)
	row[types.ColXCoord] = x
	row[types.ColYCoord] = y
	row[types.ColLatitude] = lat
	row[types.ColLongitude] = lon
	return row
}

func TestLoadBoundaryAndFind(t *testing.T) {
	path := writeBoundary(t, []string{"Manhattan", "Bronx"},
		square(988000, 215000, 5000),
		square(1010000, 250000, 5000),
	)

	b, err := LoadBoundary(path)
	require.NoError(t, err)
	assert.Equal(t, 2, b.Len())

	attrs, ok := b.Find(988369, 215763)
	require.True(t, ok)
	assert.Equal(t, "Manhattan", attrs["BoroName"])

	attrs, ok = b.Find(1011000, 249000)
	require.True(t, ok)
	assert.Equal(t, "Bronx", attrs["BoroName"])

	_, ok = b.Find(900000, 100000)
	assert.False(t, ok)
}

func TestLoadBoundaryAttributes(t *testing.T) {
	path := writeBoundary(t, []string{"Staten Island"}, square(950000, 150000, 1000))

	b, err := LoadBoundary(path)
	require.NoError(t, err)
	require.Equal(t, 1, b.Len())
	assert.Equal(t, map[string]string{"BoroName": "Staten Island"}, b.features[0].Attrs)
}

func TestLoadBoundaryTruncatedShapefile(t *testing.T) {
	path := writeBoundary(t, []string{"Manhattan", "Bronx"},
		square(988000, 215000, 5000),
		square(1010000, 250000, 5000),
	)
	info, err := os.Stat(path)
	require.NoError(t, err)
	require.NoError(t, os.Truncate(path, info.Size()-20))

	b, err := LoadBoundary(path)
	require.Error(t, err)
	assert.Nil(t, b)
	assert.ErrorIs(t, err, types.ErrData)
}

func TestLoadBoundaryMissingFile(t *testing.T) {
	_, err := LoadBoundary(filepath.Join(t.TempDir(), "absent.shp"))
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrIO)
}

func TestBoundaryFilter(t *testing.T) {
	b := &Boundary{features: []feature{{
		Parts: [][][2]float64{{{983000, 210000}, {983000, 220000}, {993000, 220000}, {993000, 210000}, {983000, 210000}}},
		MinX:  983000,
		MinY:  210000,
		MaxX:  993000,
		MaxY:  220000,
	}}}

	table := &types.Table{Width: types.ColLongitude + 1, Rows: [][]string{
		locatedRow("988000", "215000", "", ""),                // inside by X/Y
		locatedRow("", "", "40.758896", "-73.985130"),         // inside by lat/lon
		locatedRow("1050000", "150000", "", ""),               // outside
		locatedRow("", "", "", ""),                            // no location
		locatedRow("bad", "215000", "40.758896", "-73.98513"), // falls back to lat/lon
	}}

	out := b.Filter(table)
	require.Equal(t, 3, out.Len())
	assert.Equal(t, "988000", out.Rows[0][types.ColXCoord])
	assert.Equal(t, "40.758896", out.Rows[1][types.ColLatitude])
	assert.Equal(t, "bad", out.Rows[2][types.ColXCoord])
	assert.Equal(t, table.Width, out.Width)
}

func TestLocateShortRow(t *testing.T) {
	_, _, ok := Locate(make([]string, types.MinColumns))
	assert.False(t, ok)
}

func TestWGS84ToNYLI(t *testing.T) {
	x, y := wgs84ToNYLI(phi0Deg, lon0Deg)
	assert.InDelta(t, spFalseEasting, x, 1e-6)
	assert.InDelta(t, spFalseNorthing, y, 1e-6)

	// Times Square
	x, y = wgs84ToNYLI(40.758896, -73.985130)
	assert.InDelta(t, 988369.5, x, 1.0)
	assert.InDelta(t, 215763.3, y, 1.0)
}

func TestPointInPolygon(t *testing.T) {
	ring := [][2]float64{{0, 0}, {0, 10}, {10, 10}, {10, 0}, {0, 0}}
	assert.True(t, pointInPolygon(5, 5, ring))
	assert.False(t, pointInPolygon(15, 5, ring))
	assert.False(t, pointInPolygon(-1, -1, ring))
}
