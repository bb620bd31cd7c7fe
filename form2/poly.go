package form2

import (
	"github.com/soypat/marble"
	"github.com/soypat/marble/form2/must2"
	"gonum.org/v1/gonum/spatial/r2"
)

// Polygon returns an SDF2 made from a closed set of line segments.
func Polygon(vertex []r2.Vec) (s marble.SDF2, err error) {
	defer recoverShape(&err)
	return must2.Polygon(vertex), err
}

// NewPolygon returns an empty polygon.
func NewPolygon() *must2.PolygonBuilder {
	return must2.NewPolygon()
}

// Nagon return the closed vertex loop of a N sided regular polygon.
func Nagon(n int, radius float64) (v []r2.Vec, err error) {
	defer recoverShape(&err)
	return must2.Nagon(n, radius), err
}
