package curve

import (
	"fmt"

	"github.com/soypat/marble/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// Frame is an orthonormal frame attached to a polyline segment.
// T is the segment direction, N and B span the cross section plane.
type Frame struct {
	Origin  r3.Vec
	T, N, B r3.Vec
}

// Local returns the coordinates of p in the frame: u along N, v along B
// and w along T, relative to Origin.
func (f Frame) Local(p r3.Vec) (u, v, w float64) {
	d := r3.Sub(p, f.Origin)
	return r3.Dot(d, f.N), r3.Dot(d, f.B), r3.Dot(d, f.T)
}

// Frames returns one rotation minimizing frame per segment of the polyline,
// propagated with the double reflection method. The first frame's N is up
// projected onto the plane normal to the first segment. If up is parallel to
// that segment an arbitrary perpendicular is used.
func Frames(pts []r3.Vec, up r3.Vec) ([]Frame, error) {
	if len(pts) < 2 {
		return nil, fmt.Errorf("frames need 2 points, got %d: %w", len(pts), ErrDegenerate)
	}
	frames := make([]Frame, len(pts)-1)
	for i := range frames {
		d := r3.Sub(pts[i+1], pts[i])
		if r3.Norm(d) <= tolerance || !d3.IsFinite(d) {
			return nil, fmt.Errorf("zero length segment %d: %w", i, ErrDegenerate)
		}
		frames[i].Origin = pts[i]
		frames[i].T = r3.Unit(d)
	}
	t0 := frames[0].T
	n0 := r3.Sub(up, r3.Scale(r3.Dot(up, t0), t0))
	if r3.Norm(n0) <= 1e-6 {
		n0 = d3.Orthogonal(t0)
	}
	frames[0].N = r3.Unit(n0)
	frames[0].B = r3.Cross(t0, frames[0].N)

	for i := 0; i+1 < len(frames); i++ {
		cur, next := &frames[i], &frames[i+1]
		x0 := d3.Lerp(pts[i], pts[i+1], 0.5)
		x1 := d3.Lerp(pts[i+1], pts[i+2], 0.5)
		v1 := r3.Sub(x1, x0)
		c1 := r3.Dot(v1, v1)
		rL, tL := cur.N, cur.T
		if c1 > tolerance*tolerance {
			rL = r3.Sub(cur.N, r3.Scale(2/c1*r3.Dot(v1, cur.N), v1))
			tL = r3.Sub(cur.T, r3.Scale(2/c1*r3.Dot(v1, cur.T), v1))
		}
		v2 := r3.Sub(next.T, tL)
		c2 := r3.Dot(v2, v2)
		n := rL
		if c2 > tolerance*tolerance {
			n = r3.Sub(rL, r3.Scale(2/c2*r3.Dot(v2, rL), v2))
		}
		// Remove drift so the frame stays orthonormal.
		n = r3.Sub(n, r3.Scale(r3.Dot(n, next.T), next.T))
		if r3.Norm(n) <= 1e-9 {
			n = d3.Orthogonal(next.T)
		}
		next.N = r3.Unit(n)
		next.B = r3.Cross(next.T, next.N)
	}
	return frames, nil
}
