// Package curve implements the parametric curves a track path is made of:
// straight lines, interpolating splines and wires that chain them together.
// All curves are parameterized over t in [0, 1].
package curve

import (
	"errors"
	"fmt"
	"math"

	"github.com/soypat/marble/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	// tolerance is the distance under which two points are considered coincident.
	tolerance = 1e-9
)

var (
	// ErrDegenerate is returned when a curve has zero length or its
	// tangent is undefined at the requested parameter.
	ErrDegenerate = errors.New("degenerate geometry")
	// ErrDisconnected is returned when consecutive curves of a wire do not share endpoints.
	ErrDisconnected = errors.New("disconnected curves")
)

// Curve is a parametric 3D curve. t is normalized to [0, 1]; values
// outside that range are clamped.
type Curve interface {
	// PointAt returns the position at parameter t.
	PointAt(t float64) r3.Vec
	// TangentAt returns the unit direction of travel at parameter t.
	TangentAt(t float64) (r3.Vec, error)
	// Length returns the (approximate for splines) arc length.
	Length() float64
	// Reverse returns the same curve traversed from end to start.
	Reverse() Curve
}

// Line is a straight segment from Start to End.
type Line struct {
	Start, End r3.Vec
}

var _ Curve = Line{}

// NewLine returns the segment a-b. Coincident or non-finite points are an error.
func NewLine(a, b r3.Vec) (Line, error) {
	if !d3.IsFinite(a) || !d3.IsFinite(b) {
		return Line{}, fmt.Errorf("line %v-%v: %w", a, b, ErrDegenerate)
	}
	if r3.Norm(r3.Sub(b, a)) <= tolerance {
		return Line{}, fmt.Errorf("zero length line at %v: %w", a, ErrDegenerate)
	}
	return Line{Start: a, End: b}, nil
}

// PointAt returns the point at fraction t between Start and End.
func (l Line) PointAt(t float64) r3.Vec {
	return d3.Lerp(l.Start, l.End, clamp01(t))
}

// TangentAt returns the line direction. It does not depend on t.
func (l Line) TangentAt(float64) (r3.Vec, error) {
	d := r3.Sub(l.End, l.Start)
	if r3.Norm(d) <= tolerance {
		return r3.Vec{}, ErrDegenerate
	}
	return r3.Unit(d), nil
}

func (l Line) Length() float64 { return r3.Norm(r3.Sub(l.End, l.Start)) }

func (l Line) Reverse() Curve { return Line{Start: l.End, End: l.Start} }

func clamp01(t float64) float64 {
	return math.Max(0, math.Min(1, t))
}
