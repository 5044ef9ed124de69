package areas

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/simplify"
)

// RoundCollection rounds every coordinate in the collection to the given
// number of decimal places. Rounding an already-rounded collection at the
// same precision is a no-op.
func RoundCollection(fc *geojson.FeatureCollection, digits int) {
	pow := math.Pow(10, float64(digits))
	for _, f := range fc.Features {
		if f == nil || f.Geometry == nil {
			continue
		}
		f.Geometry = roundGeometry(f.Geometry, pow)
	}
}

// RoundGeometry rounds a single geometry to the given decimal precision.
func RoundGeometry(g orb.Geometry, digits int) orb.Geometry {
	return roundGeometry(g, math.Pow(10, float64(digits)))
}

func roundGeometry(g orb.Geometry, pow float64) orb.Geometry {
	switch g := g.(type) {
	case orb.Point:
		return roundPoint(g, pow)
	case orb.MultiPoint:
		for i := range g {
			g[i] = roundPoint(g[i], pow)
		}
		return g
	case orb.LineString:
		for i := range g {
			g[i] = roundPoint(g[i], pow)
		}
		return g
	case orb.MultiLineString:
		for i := range g {
			for j := range g[i] {
				g[i][j] = roundPoint(g[i][j], pow)
			}
		}
		return g
	case orb.Ring:
		for i := range g {
			g[i] = roundPoint(g[i], pow)
		}
		return g
	case orb.Polygon:
		for i := range g {
			for j := range g[i] {
				g[i][j] = roundPoint(g[i][j], pow)
			}
		}
		return g
	case orb.MultiPolygon:
		for i := range g {
			for j := range g[i] {
				for k := range g[i][j] {
					g[i][j][k] = roundPoint(g[i][j][k], pow)
				}
			}
		}
		return g
	case orb.Collection:
		for i := range g {
			g[i] = roundGeometry(g[i], pow)
		}
		return g
	}
	return g
}

func roundPoint(p orb.Point, pow float64) orb.Point {
	return orb.Point{math.Round(p[0]*pow) / pow, math.Round(p[1]*pow) / pow}
}

// SimplifyCollection applies Douglas-Peucker simplification with the given
// tolerance in coordinate units. Tolerance <= 0 disables. A geometry that
// would collapse to nothing is left unchanged.
func SimplifyCollection(fc *geojson.FeatureCollection, tolerance float64) {
	if tolerance <= 0 {
		return
	}
	s := simplify.DouglasPeucker(tolerance)
	for _, f := range fc.Features {
		if f == nil || f.Geometry == nil {
			continue
		}
		simplified := s.Simplify(orb.Clone(f.Geometry))
		if collapsed(simplified) {
			continue
		}
		f.Geometry = simplified
	}
}

// collapsed reports whether simplification degraded a geometry past use: an
// empty polygon set, or an outer ring with fewer than four points.
func collapsed(g orb.Geometry) bool {
	switch g := g.(type) {
	case orb.Ring:
		return len(g) < 4
	case orb.Polygon:
		return len(g) == 0 || len(g[0]) < 4
	case orb.MultiPolygon:
		for _, p := range g {
			if len(p) > 0 && len(p[0]) >= 4 {
				return false
			}
		}
		return true
	case orb.Collection:
		for _, sub := range g {
			if !collapsed(sub) {
				return false
			}
		}
		return true
	}
	return false
}
