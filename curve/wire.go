package curve

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/spatial/r3"
)

// Wire is an ordered chain of connected curves. The wire parameter is
// distributed over its curves proportionally to their lengths.
type Wire struct {
	curves []Curve
	// cumulative lengths, cum[i] is the wire length before curves[i].
	cum   []float64
	total float64
}

var _ Curve = (*Wire)(nil)

// NewWire chains curves into a wire. The end of each curve must lie within
// tol of the start of the next one. tol <= 0 uses a default tolerance.
func NewWire(tol float64, curves ...Curve) (*Wire, error) {
	if len(curves) == 0 {
		return nil, fmt.Errorf("empty wire: %w", ErrDegenerate)
	}
	if tol <= 0 {
		tol = 1e-6
	}
	w := &Wire{curves: curves, cum: make([]float64, len(curves))}
	for i, c := range curves {
		l := c.Length()
		if !(l > tolerance) || math.IsInf(l, 0) {
			return nil, fmt.Errorf("wire curve %d has length %g: %w", i, l, ErrDegenerate)
		}
		if i > 0 {
			end, start := curves[i-1].PointAt(1), c.PointAt(0)
			if gap := r3.Norm(r3.Sub(start, end)); gap > tol {
				return nil, fmt.Errorf("wire gap %g between curve %d and %d: %w", gap, i-1, i, ErrDisconnected)
			}
		}
		w.cum[i] = w.total
		w.total += l
	}
	return w, nil
}

// locate maps a wire parameter to a curve index and that curve's parameter.
func (w *Wire) locate(t float64) (int, float64) {
	s := clamp01(t) * w.total
	i := sort.Search(len(w.cum), func(i int) bool { return w.cum[i] > s }) - 1
	if i < 0 {
		i = 0
	}
	l := w.curves[i].Length()
	return i, clamp01((s - w.cum[i]) / l)
}

func (w *Wire) PointAt(t float64) r3.Vec {
	i, u := w.locate(t)
	return w.curves[i].PointAt(u)
}

func (w *Wire) TangentAt(t float64) (r3.Vec, error) {
	i, u := w.locate(t)
	return w.curves[i].TangentAt(u)
}

func (w *Wire) Length() float64 { return w.total }

// Curves returns the curves of the wire in order.
func (w *Wire) Curves() []Curve { return w.curves }

// Reverse returns the wire traversed from end to start.
func (w *Wire) Reverse() Curve {
	rev := make([]Curve, len(w.curves))
	for i, c := range w.curves {
		rev[len(w.curves)-1-i] = c.Reverse()
	}
	// Lengths were validated on construction, joints are shared.
	r, err := NewWire(math.Inf(1), rev...)
	if err != nil {
		panic(err)
	}
	return r
}
