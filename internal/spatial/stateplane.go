package spatial

// WGS-84 → New York Long Island (EPSG:2263) Lambert Conformal Conic, US feet.
// The 311 export carries X/Y in this CRS already; the projection is only
// needed for rows that have latitude/longitude but no state plane pair.

import "math"

const (
	spFalseEasting  = 984250.0 // 300000 m
	spFalseNorthing = 0.0
	phi0Deg         = 40.16666666666666 // latitude of origin
	phi1Deg         = 41.03333333333333 // standard parallel 1
	phi2Deg         = 40.66666666666666 // standard parallel 2
	lon0Deg         = -74.0             // central meridian

	ftPerMeter = 3.2808333333333334 // US survey foot
	semiMajorM = 6378137.0          // NAD83 semi-major axis (metres)
	e2         = 0.00669438002290   // NAD83 eccentricity squared
)

var (
	n    float64
	F    float64
	rho0 float64
)

func init() {
	phi1 := phi1Deg * math.Pi / 180
	phi2 := phi2Deg * math.Pi / 180
	phi0 := phi0Deg * math.Pi / 180

	m := func(phi float64) float64 {
		return math.Cos(phi) / math.Sqrt(1-e2*math.Sin(phi)*math.Sin(phi))
	}

	m1 := m(phi1)
	m2 := m(phi2)
	t1 := lccT(phi1)
	t2 := lccT(phi2)
	t0 := lccT(phi0)

	n = math.Log(m1/m2) / math.Log(t1/t2)

	aFt := semiMajorM * ftPerMeter
	F = aFt * m1 / (n * math.Pow(t1, n))
	rho0 = F * math.Pow(t0, n)
}

func lccT(phi float64) float64 {
	e := math.Sqrt(e2)
	return math.Tan(math.Pi/4-phi/2) / math.Pow((1-e*math.Sin(phi))/(1+e*math.Sin(phi)), e/2)
}

// wgs84ToNYLI converts latitude/longitude in decimal degrees to Long Island
// state plane feet, returned as (easting, northing) to match the 311 X/Y
// columns and the shapefile point order.
func wgs84ToNYLI(latDeg, lonDeg float64) (eastingFt, northingFt float64) {
	phi := latDeg * math.Pi / 180
	lambda := lonDeg * math.Pi / 180
	lambda0 := lon0Deg * math.Pi / 180

	rho := F * math.Pow(lccT(phi), n)
	theta := n * (lambda - lambda0)

	eastingFt = rho*math.Sin(theta) + spFalseEasting
	northingFt = rho0 - rho*math.Cos(theta) + spFalseNorthing
	return
}
