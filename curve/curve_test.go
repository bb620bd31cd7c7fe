package curve_test

import (
	"errors"
	"math"
	"testing"

	"github.com/soypat/marble/curve"
	"github.com/soypat/marble/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

const tol = 1e-9

func TestLine(t *testing.T) {
	a, b := r3.Vec{X: 1}, r3.Vec{X: 1, Y: 4}
	l, err := curve.NewLine(a, b)
	if err != nil {
		t.Fatal(err)
	}
	if l.Length() != 4 {
		t.Errorf("got length %g, want 4", l.Length())
	}
	if got := l.PointAt(0.25); !d3.EqualWithin(got, r3.Vec{X: 1, Y: 1}, tol) {
		t.Errorf("bad midpoint %v", got)
	}
	tg, err := l.TangentAt(0.5)
	if err != nil {
		t.Fatal(err)
	}
	if !d3.EqualWithin(tg, r3.Vec{Y: 1}, tol) {
		t.Errorf("bad tangent %v", tg)
	}
	rev := l.Reverse()
	if !d3.EqualWithin(rev.PointAt(0), b, tol) || !d3.EqualWithin(rev.PointAt(1), a, tol) {
		t.Error("reverse did not swap endpoints")
	}
	_, err = curve.NewLine(a, a)
	if !errors.Is(err, curve.ErrDegenerate) {
		t.Errorf("want ErrDegenerate for zero length line, got %v", err)
	}
}

func TestSplineInterpolates(t *testing.T) {
	var pts []r3.Vec
	for i := 0; i < 20; i++ {
		u := float64(i) / 19 * math.Pi
		pts = append(pts, r3.Vec{X: 10 * math.Cos(u), Y: 10 * math.Sin(u), Z: float64(i)})
	}
	s, err := curve.NewSpline(pts)
	if err != nil {
		t.Fatal(err)
	}
	if s.PointAt(0) != pts[0] || s.PointAt(1) != pts[len(pts)-1] {
		t.Fatal("spline endpoints do not match first and last sample")
	}
	for _, tt := range []float64{0, 0.3, 0.7, 1} {
		tg, err := s.TangentAt(tt)
		if err != nil {
			t.Fatal(err)
		}
		if math.Abs(r3.Norm(tg)-1) > 1e-12 {
			t.Errorf("tangent at %g not unit: %v", tt, tg)
		}
	}
	// Half circle of radius 10 with 19 units of rise.
	want := math.Hypot(10*math.Pi, 19)
	if math.Abs(s.Length()-want) > 0.01*want {
		t.Errorf("length %g far from %g", s.Length(), want)
	}
	t0, _ := s.TangentAt(0)
	if t0.X > 0.1 || t0.Y <= 0 {
		t.Errorf("start tangent %v does not follow the arc", t0)
	}
}

func TestSplineTwoPointsIsLine(t *testing.T) {
	s, err := curve.NewSpline([]r3.Vec{{}, {Z: 2}})
	if err != nil {
		t.Fatal(err)
	}
	if got := s.PointAt(0.25); !d3.EqualWithin(got, r3.Vec{Z: 0.5}, 1e-12) {
		t.Errorf("two point spline not straight: %v", got)
	}
}

func TestSplineDegenerate(t *testing.T) {
	p := r3.Vec{X: 1, Y: 2, Z: 3}
	for _, pts := range [][]r3.Vec{nil, {p}, {p, p, p}, {p, {X: math.NaN()}}} {
		_, err := curve.NewSpline(pts)
		if !errors.Is(err, curve.ErrDegenerate) {
			t.Errorf("%v: want ErrDegenerate, got %v", pts, err)
		}
	}
}

func TestWire(t *testing.T) {
	l1, _ := curve.NewLine(r3.Vec{}, r3.Vec{X: 1})
	l2, _ := curve.NewLine(r3.Vec{X: 1}, r3.Vec{X: 1, Y: 3})
	w, err := curve.NewWire(0, l1, l2)
	if err != nil {
		t.Fatal(err)
	}
	if w.Length() != 4 {
		t.Fatalf("wire length %g, want 4", w.Length())
	}
	// Arc length parameter: joint sits at t=1/4.
	const eps = 1e-9
	before, after := w.PointAt(0.25-eps), w.PointAt(0.25+eps)
	if !d3.EqualWithin(before, after, 1e-6) || !d3.EqualWithin(w.PointAt(0.25), r3.Vec{X: 1}, 1e-9) {
		t.Errorf("wire discontinuous at joint: %v %v", before, after)
	}
	if got := w.PointAt(0.625); !d3.EqualWithin(got, r3.Vec{X: 1, Y: 1.5}, 1e-9) {
		t.Errorf("got %v", got)
	}
	rev := w.Reverse()
	if !d3.EqualWithin(rev.PointAt(0), r3.Vec{X: 1, Y: 3}, tol) {
		t.Errorf("reversed wire starts at %v", rev.PointAt(0))
	}
	tg, _ := rev.TangentAt(0.1)
	if !d3.EqualWithin(tg, r3.Vec{Y: -1}, tol) {
		t.Errorf("reversed tangent %v", tg)
	}

	l3, _ := curve.NewLine(r3.Vec{X: 5}, r3.Vec{X: 6})
	_, err = curve.NewWire(1e-6, l1, l3)
	if !errors.Is(err, curve.ErrDisconnected) {
		t.Errorf("want ErrDisconnected, got %v", err)
	}
}

func TestFlattenWireKeepsJoints(t *testing.T) {
	l1, _ := curve.NewLine(r3.Vec{}, r3.Vec{X: 1})
	l2, _ := curve.NewLine(r3.Vec{X: 1}, r3.Vec{X: 1, Y: 3})
	w, _ := curve.NewWire(0, l1, l2)
	pts, err := curve.Flatten(w, 0.5)
	if err != nil {
		t.Fatal(err)
	}
	// 2 segments on the first line, 6 on the second.
	if len(pts) != 9 {
		t.Fatalf("got %d points, want 9", len(pts))
	}
	if pts[2] != (r3.Vec{X: 1}) {
		t.Errorf("joint not a vertex: %v", pts[2])
	}
	if math.Abs(curve.PolylineLength(pts)-4) > tol {
		t.Errorf("bad polyline length %g", curve.PolylineLength(pts))
	}
	if math.Abs(curve.MaxTurn(pts)-math.Pi/2) > 1e-12 {
		t.Errorf("max turn %g", curve.MaxTurn(pts))
	}
}

func TestMinRadius(t *testing.T) {
	const radius = 7.5
	var pts []r3.Vec
	for i := 0; i <= 64; i++ {
		s, c := math.Sincos(2 * math.Pi * float64(i) / 64)
		pts = append(pts, r3.Vec{X: radius * c, Y: radius * s})
	}
	if r := curve.MinRadius(pts); math.Abs(r-radius) > 1e-9 {
		t.Errorf("circle radius %g, want %g", r, radius)
	}
	straight := []r3.Vec{{}, {X: 1}, {X: 2}}
	if r := curve.MinRadius(straight); !math.IsInf(r, 1) {
		t.Errorf("straight radius %g, want +Inf", r)
	}
	folded := []r3.Vec{{}, {X: 1}, {}}
	if r := curve.MinRadius(folded); r != 0 {
		t.Errorf("folded radius %g, want 0", r)
	}
}

func TestFramesRotationMinimizing(t *testing.T) {
	// Helix: RMF must stay orthonormal and perpendicular to the path.
	var pts []r3.Vec
	for i := 0; i < 200; i++ {
		s, c := math.Sincos(float64(i) * 0.05)
		pts = append(pts, r3.Vec{X: 10 * c, Y: 10 * s, Z: float64(i) * 0.1})
	}
	frames, err := curve.Frames(pts, r3.Vec{Z: 1})
	if err != nil {
		t.Fatal(err)
	}
	if len(frames) != len(pts)-1 {
		t.Fatalf("got %d frames for %d points", len(frames), len(pts))
	}
	for i, f := range frames {
		if math.Abs(r3.Dot(f.T, f.N)) > 1e-9 || math.Abs(r3.Dot(f.T, f.B)) > 1e-9 || math.Abs(r3.Dot(f.N, f.B)) > 1e-9 {
			t.Fatalf("frame %d not orthogonal: %+v", i, f)
		}
		if math.Abs(r3.Norm(f.N)-1) > 1e-9 {
			t.Fatalf("frame %d N not unit", i)
		}
		if i > 0 && r3.Dot(f.N, frames[i-1].N) < 0.99 {
			t.Fatalf("frame %d normal jumps", i)
		}
	}
	// Straight path: frames do not twist at all.
	line := []r3.Vec{{}, {X: 1}, {X: 2}, {X: 3}}
	frames, err = curve.Frames(line, r3.Vec{Z: 1})
	if err != nil {
		t.Fatal(err)
	}
	for _, f := range frames {
		if !d3.EqualWithin(f.N, r3.Vec{Z: 1}, 1e-12) {
			t.Errorf("straight path twisted: %v", f.N)
		}
	}
	u, v, w := frames[1].Local(r3.Vec{X: 1.5, Y: 2, Z: 3})
	if math.Abs(u-3) > 1e-12 || math.Abs(w-0.5) > 1e-12 || math.Abs(math.Abs(v)-2) > 1e-12 {
		t.Errorf("local coords %g %g %g", u, v, w)
	}
}
