package track

import (
	"errors"
	"fmt"
	"math"

	"github.com/soypat/marble/curve"
	"github.com/soypat/marble/knot"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r3"
)

// Samples returns the knot curve samples.
func (b *Builder) Samples() ([]r3.Vec, error) {
	pts, err := knot.Sample(b.cfg.Knot)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidParameter, err)
	}
	b.log.Debug("sampled knot", zap.Int("points", len(pts)), zap.Stringer("convention", b.cfg.Knot.Convention))
	return pts, nil
}

// Spline fits the smooth curve through the samples.
func (b *Builder) Spline(pts []r3.Vec) (*curve.Spline, error) {
	sp, err := curve.NewSpline(pts)
	if err != nil {
		return nil, degenerate(err)
	}
	b.log.Debug("fitted spline", zap.Int("knots", len(sp.Points())), zap.Float64("length", sp.Length()))
	return sp, nil
}

// Path returns the wire made of the start extension running toward the
// spline, the spline and the end extension.
func (b *Builder) Path(sp curve.Curve) (*curve.Wire, error) {
	start, end, err := Extend(sp, b.cfg.LeadLength)
	if err != nil {
		return nil, err
	}
	w, err := curve.NewWire(pathTolerance, start.Reverse(), sp, end)
	if err != nil {
		return nil, degenerate(err)
	}
	b.log.Debug("built path", zap.Float64("length", w.Length()))
	return w, nil
}

const pathTolerance = 1e-6

// Extend returns the straight tangent extensions at both ends of c. The
// start extension runs from c's start point backwards along the start
// tangent, the end extension from c's end point forward along the end
// tangent. Both are length long.
func Extend(c curve.Curve, length float64) (start, end curve.Line, err error) {
	if !positive(length) {
		return start, end, fmt.Errorf("%w: extension length %g must be positive", ErrInvalidParameter, length)
	}
	if c == nil || !(c.Length() > 0) {
		return start, end, fmt.Errorf("%w: curve has no length", ErrDegenerateGeometry)
	}
	t0, err := c.TangentAt(0)
	if err != nil {
		return start, end, degenerate(err)
	}
	t1, err := c.TangentAt(1)
	if err != nil {
		return start, end, degenerate(err)
	}
	p0, p1 := c.PointAt(0), c.PointAt(1)
	start, err = curve.NewLine(p0, r3.Sub(p0, r3.Scale(length, r3.Unit(t0))))
	if err != nil {
		return start, end, degenerate(err)
	}
	end, err = curve.NewLine(p1, r3.Add(p1, r3.Scale(length, r3.Unit(t1))))
	if err != nil {
		return start, end, degenerate(err)
	}
	return start, end, nil
}

// degenerate maps curve kernel errors onto ErrDegenerateGeometry.
func degenerate(err error) error {
	if errors.Is(err, curve.ErrDegenerate) || errors.Is(err, curve.ErrDisconnected) {
		return fmt.Errorf("%w: %w", ErrDegenerateGeometry, err)
	}
	return err
}

// maxJointTurn is the largest angle in radians between the tangents of two
// consecutive path pieces at their joint.
const maxJointTurn = 1e-4

// checkJoints verifies the pieces of w are tangent continuous.
func checkJoints(w *curve.Wire) error {
	pieces := w.Curves()
	for i := 1; i < len(pieces); i++ {
		a, err := pieces[i-1].TangentAt(1)
		if err != nil {
			return err
		}
		b, err := pieces[i].TangentAt(0)
		if err != nil {
			return err
		}
		cos := math.Max(-1, math.Min(1, r3.Dot(a, b)))
		if turn := math.Acos(cos); turn > maxJointTurn {
			return fmt.Errorf("path turns %.3g rad at joint %d", turn, i)
		}
	}
	return nil
}
