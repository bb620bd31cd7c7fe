package curve

import (
	"fmt"

	"github.com/soypat/marble/internal/d3"
	"gonum.org/v1/gonum/interp"
	"gonum.org/v1/gonum/spatial/r3"
)

// Spline is a smooth curve interpolating an ordered set of points.
// Each coordinate is a natural cubic spline over the normalized
// chord length parameter, so t=0 and t=1 are exactly the first and last points.
type Spline struct {
	pts     []r3.Vec
	knots   []float64
	x, y, z interp.NaturalCubic
	length  float64
}

var _ Curve = (*Spline)(nil)

// lengthSamplesPerKnot controls arc length estimation accuracy.
const lengthSamplesPerKnot = 8

// NewSpline returns a spline through pts. Consecutive coincident points are
// merged. Fewer than two distinct points yields ErrDegenerate.
func NewSpline(pts []r3.Vec) (*Spline, error) {
	uniq := make([]r3.Vec, 0, len(pts))
	for i, p := range pts {
		if !d3.IsFinite(p) {
			return nil, fmt.Errorf("spline point %d is not finite: %w", i, ErrDegenerate)
		}
		if len(uniq) > 0 && r3.Norm(r3.Sub(p, uniq[len(uniq)-1])) <= tolerance {
			continue
		}
		uniq = append(uniq, p)
	}
	if len(uniq) < 2 {
		return nil, fmt.Errorf("spline needs 2 distinct points, got %d: %w", len(uniq), ErrDegenerate)
	}
	if len(uniq) == 2 {
		// A natural cubic through three collinear, evenly spaced points is the straight line.
		uniq = []r3.Vec{uniq[0], d3.Lerp(uniq[0], uniq[1], 0.5), uniq[1]}
	}
	s := &Spline{pts: uniq}
	// Chord length parameterization.
	s.knots = make([]float64, len(uniq))
	for i := 1; i < len(uniq); i++ {
		s.knots[i] = s.knots[i-1] + r3.Norm(r3.Sub(uniq[i], uniq[i-1]))
	}
	chord := s.knots[len(s.knots)-1]
	for i := range s.knots {
		s.knots[i] /= chord
	}
	s.knots[len(s.knots)-1] = 1 // guard against rounding.
	xs := make([]float64, len(uniq))
	ys := make([]float64, len(uniq))
	zs := make([]float64, len(uniq))
	for i, p := range uniq {
		xs[i], ys[i], zs[i] = p.X, p.Y, p.Z
	}
	if err := s.x.Fit(s.knots, xs); err != nil {
		return nil, err
	}
	if err := s.y.Fit(s.knots, ys); err != nil {
		return nil, err
	}
	if err := s.z.Fit(s.knots, zs); err != nil {
		return nil, err
	}
	n := lengthSamplesPerKnot * len(uniq)
	prev := s.PointAt(0)
	for i := 1; i <= n; i++ {
		p := s.PointAt(float64(i) / float64(n))
		s.length += r3.Norm(r3.Sub(p, prev))
		prev = p
	}
	return s, nil
}

// PointAt returns the spline position at t.
func (s *Spline) PointAt(t float64) r3.Vec {
	t = clamp01(t)
	switch t {
	case 0:
		return s.pts[0]
	case 1:
		return s.pts[len(s.pts)-1]
	}
	return r3.Vec{X: s.x.Predict(t), Y: s.y.Predict(t), Z: s.z.Predict(t)}
}

// TangentAt returns the normalized derivative of the spline at t.
func (s *Spline) TangentAt(t float64) (r3.Vec, error) {
	t = clamp01(t)
	d := r3.Vec{
		X: s.x.PredictDerivative(t),
		Y: s.y.PredictDerivative(t),
		Z: s.z.PredictDerivative(t),
	}
	if !d3.IsFinite(d) || r3.Norm(d) <= tolerance {
		return r3.Vec{}, fmt.Errorf("spline tangent at t=%g: %w", t, ErrDegenerate)
	}
	return r3.Unit(d), nil
}

// Length returns the arc length estimated from a dense polyline.
func (s *Spline) Length() float64 { return s.length }

// Points returns the interpolated points. The returned slice must not be modified.
func (s *Spline) Points() []r3.Vec { return s.pts }

func (s *Spline) Reverse() Curve { return reversed{c: s} }

// reversed traverses a curve from end to start.
type reversed struct {
	c Curve
}

func (r reversed) PointAt(t float64) r3.Vec { return r.c.PointAt(1 - clamp01(t)) }

func (r reversed) TangentAt(t float64) (r3.Vec, error) {
	tg, err := r.c.TangentAt(1 - clamp01(t))
	return r3.Scale(-1, tg), err
}

func (r reversed) Length() float64 { return r.c.Length() }

func (r reversed) Reverse() Curve { return r.c }
