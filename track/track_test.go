package track_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/soypat/marble/curve"
	"github.com/soypat/marble/form2"
	"github.com/soypat/marble/knot"
	"github.com/soypat/marble/render"
	"github.com/soypat/marble/track"
	"go.uber.org/zap/zaptest"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

const tol = 1e-9

func testBuilder(t *testing.T, cells int) *track.Builder {
	t.Helper()
	cfg := track.DefaultConfig()
	cfg.MeshCells = cells
	b, err := track.NewBuilder(cfg, zaptest.NewLogger(t))
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func TestExtendCollinear(t *testing.T) {
	pts, err := knot.Sample(knot.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	sp, err := curve.NewSpline(pts)
	if err != nil {
		t.Fatal(err)
	}
	const lead = 20
	start, end, err := track.Extend(sp, lead)
	if err != nil {
		t.Fatal(err)
	}
	for _, test := range []struct {
		name   string
		line   curve.Line
		anchor r3.Vec
		param  float64
		sign   float64
	}{
		{name: "start", line: start, anchor: sp.PointAt(0), param: 0, sign: -1},
		{name: "end", line: end, anchor: sp.PointAt(1), param: 1, sign: 1},
	} {
		if test.line.Start != test.anchor {
			t.Errorf("%s extension starts at %v, want spline point %v", test.name, test.line.Start, test.anchor)
		}
		if got := test.line.Length(); math.Abs(got-lead) > tol {
			t.Errorf("%s extension length %g, want %d", test.name, got, lead)
		}
		tg, err := sp.TangentAt(test.param)
		if err != nil {
			t.Fatal(err)
		}
		dir := r3.Unit(r3.Sub(test.line.End, test.line.Start))
		if got := r3.Dot(dir, tg); math.Abs(got-test.sign) > tol {
			t.Errorf("%s extension not collinear with tangent: dot %g", test.name, got)
		}
	}
}

type zeroCurve struct{ p r3.Vec }

func (z zeroCurve) PointAt(float64) r3.Vec { return z.p }
func (z zeroCurve) TangentAt(float64) (r3.Vec, error) {
	return r3.Vec{}, curve.ErrDegenerate
}
func (z zeroCurve) Length() float64       { return 0 }
func (z zeroCurve) Reverse() curve.Curve { return z }

func TestDegenerateSpline(t *testing.T) {
	b := testBuilder(t, 40)
	p := r3.Vec{X: 1, Y: 2, Z: 3}
	_, err := b.Spline([]r3.Vec{p, p, p, p})
	if !errors.Is(err, track.ErrDegenerateGeometry) {
		t.Errorf("want degenerate geometry error, got %v", err)
	}
	_, _, err = track.Extend(zeroCurve{p: p}, 20)
	if !errors.Is(err, track.ErrDegenerateGeometry) {
		t.Errorf("want degenerate geometry error extending point, got %v", err)
	}
	line, _ := curve.NewLine(r3.Vec{}, r3.Vec{X: 1})
	_, _, err = track.Extend(line, 0)
	if !errors.Is(err, track.ErrInvalidParameter) {
		t.Errorf("want invalid parameter for zero length extension, got %v", err)
	}
}

func TestPath(t *testing.T) {
	b := testBuilder(t, 40)
	pts, err := b.Samples()
	if err != nil {
		t.Fatal(err)
	}
	sp, err := b.Spline(pts)
	if err != nil {
		t.Fatal(err)
	}
	path, err := b.Path(sp)
	if err != nil {
		t.Fatal(err)
	}
	lead := b.Config().LeadLength
	if got, want := path.Length(), sp.Length()+2*lead; math.Abs(got-want) > 1e-6 {
		t.Errorf("path length %g, want %g", got, want)
	}
	t0, _ := sp.TangentAt(0)
	wantStart := r3.Sub(sp.PointAt(0), r3.Scale(lead, t0))
	if got := path.PointAt(0); r3.Norm(r3.Sub(got, wantStart)) > 1e-6 {
		t.Errorf("path starts at %v, want %v", got, wantStart)
	}
	// The start extension runs toward the spline.
	tg, err := path.TangentAt(0)
	if err != nil {
		t.Fatal(err)
	}
	if r3.Dot(tg, t0) < 1-tol {
		t.Errorf("path start tangent %v, want %v", tg, t0)
	}
	if n := len(path.Curves()); n != 3 {
		t.Errorf("path has %d pieces, want 3", n)
	}
}

func TestConfigValidate(t *testing.T) {
	for _, test := range []struct {
		name   string
		modify func(*track.Config)
	}{
		{"zero samples", func(c *track.Config) { c.Knot.Samples = 0 }},
		{"inverted range", func(c *track.Config) { c.Knot.T1 = c.Knot.T0 }},
		{"zero lead", func(c *track.Config) { c.LeadLength = 0 }},
		{"negative size", func(c *track.Config) { c.ProfileParams.HeightWidth = -1 }},
		{"zero wall", func(c *track.Config) { c.ProfileParams.Wall = 0 }},
		{"wall fills profile", func(c *track.Config) { c.ProfileParams.Wall = 5 }},
		{"zero resolution", func(c *track.Config) { c.Resolution = 0 }},
		{"one mesh cell", func(c *track.Config) { c.MeshCells = 1 }},
		{"NaN up", func(c *track.Config) { c.Up.X = math.NaN() }},
		{"unknown material", func(c *track.Config) { c.Material = "wood" }},
	} {
		cfg := track.DefaultConfig()
		test.modify(&cfg)
		_, err := track.NewBuilder(cfg, nil)
		if !errors.Is(err, track.ErrInvalidParameter) {
			t.Errorf("%s: want invalid parameter error, got %v", test.name, err)
		}
	}
	if err := track.DefaultConfig().Validate(); err != nil {
		t.Fatal(err)
	}
}

func TestSweepFailures(t *testing.T) {
	b := testBuilder(t, 40)
	profile, err := b.Profile()
	if err != nil {
		t.Fatal(err)
	}
	straight, _ := curve.NewLine(r3.Vec{}, r3.Vec{X: 50})

	// Profile whose outline crosses itself.
	bowtie := []r2.Vec{{X: -5, Y: -5}, {X: 5, Y: 5}, {X: 5, Y: -5}, {X: -5, Y: 5}, {X: -5, Y: -5}}
	crossed := form2.Profile{Outlines: [][]r2.Vec{bowtie}, SDF: profile.SDF}

	// Circle tighter than the profile.
	var tight []r3.Vec
	for i := 0; i <= 16; i++ {
		a := float64(i) / 16 * math.Pi
		tight = append(tight, r3.Vec{X: 3 * math.Cos(a), Y: 3 * math.Sin(a)})
	}
	tightSpline, err := curve.NewSpline(tight)
	if err != nil {
		t.Fatal(err)
	}

	// Right angle joint.
	l1, _ := curve.NewLine(r3.Vec{}, r3.Vec{X: 30})
	l2, _ := curve.NewLine(r3.Vec{X: 30}, r3.Vec{X: 30, Y: 30})
	corner, err := curve.NewWire(0, l1, l2)
	if err != nil {
		t.Fatal(err)
	}

	for _, test := range []struct {
		name    string
		path    curve.Curve
		profile form2.Profile
		also    error
	}{
		{name: "nil path", path: nil, profile: profile},
		{name: "zero length path", path: zeroCurve{}, profile: profile},
		{name: "self intersecting profile", path: straight, profile: crossed, also: form2.ErrSelfIntersecting},
		{name: "empty profile", path: straight, profile: form2.Profile{}},
		{name: "tight curvature", path: tightSpline, profile: profile},
		{name: "corner joint", path: corner, profile: profile},
	} {
		solid, err := b.Sweep(test.path, test.profile)
		if !errors.Is(err, track.ErrSweepFailed) {
			t.Errorf("%s: want sweep failed error, got %v", test.name, err)
		}
		if test.also != nil && !errors.Is(err, test.also) {
			t.Errorf("%s: want %v in error chain, got %v", test.name, test.also, err)
		}
		if solid != nil {
			t.Errorf("%s: got partial solid", test.name)
		}
	}
}

func TestSweepStraightVolume(t *testing.T) {
	b := testBuilder(t, 120)
	sp, err := b.Spline([]r3.Vec{{}, {X: 10}, {X: 20}})
	if err != nil {
		t.Fatal(err)
	}
	path, err := b.Path(sp)
	if err != nil {
		t.Fatal(err)
	}
	profile, err := b.Profile()
	if err != nil {
		t.Fatal(err)
	}
	solid, err := b.Sweep(path, profile)
	if err != nil {
		t.Fatal(err)
	}
	// L profile: 1.2 x 10 vertical wall plus 8.8 x 1.2 floor.
	params := b.Config().ProfileParams
	hw, wall := params.HeightWidth, params.Wall
	area := wall*hw + (hw-wall)*wall
	want := area * path.Length()
	if got := render.MeshVolume(solid.Mesh); math.Abs(got-want) > 0.05*want {
		t.Errorf("swept volume %g, want %g", got, want)
	}
	if solid.Path[0] != path.PointAt(0) {
		t.Errorf("solid path starts at %v, want %v", solid.Path[0], path.PointAt(0))
	}
}

func TestBuildSingleBody(t *testing.T) {
	if testing.Short() {
		t.Skip("meshing the full knot is slow")
	}
	b := testBuilder(t, 120)
	solid, err := b.Build(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if n := render.Components(solid.Mesh, 1e-9); n != 1 {
		t.Fatalf("want single body, got %d", n)
	}
	if v := render.MeshVolume(solid.Mesh); v <= 0 {
		t.Errorf("mesh volume %g should be positive", v)
	}
	// Path points lie inside the channel, not inside the walls.
	for i := 0; i < len(solid.Path); i += 50 {
		if d := solid.SDF.Evaluate(solid.Path[i]); d <= 0 {
			t.Errorf("path point %d is inside the solid: %g", i, d)
		}
	}
}

func TestBuildEveryProfile(t *testing.T) {
	if testing.Short() {
		t.Skip("meshing the full knot is slow")
	}
	for _, kind := range form2.ProfileKinds() {
		t.Run(string(kind), func(t *testing.T) {
			cfg := track.DefaultConfig()
			cfg.Profile = kind
			cfg.MeshCells = 120
			b, err := track.NewBuilder(cfg, zaptest.NewLogger(t))
			if err != nil {
				t.Fatal(err)
			}
			solid, err := b.Build(context.Background())
			if err != nil {
				t.Fatal(err)
			}
			if n := render.Components(solid.Mesh, 1e-9); n != 1 {
				t.Errorf("want single body, got %d", n)
			}
		})
	}
}

func TestBuildCancelled(t *testing.T) {
	b := testBuilder(t, 40)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	solid, err := b.Build(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("want context canceled, got %v", err)
	}
	if solid != nil {
		t.Error("got solid from cancelled build")
	}
}

func TestOverview(t *testing.T) {
	b := testBuilder(t, 100)
	kinds := []form2.ProfileKind{form2.LShape, form2.OShape}
	solid, err := b.Overview(context.Background(), kinds)
	if err != nil {
		t.Fatal(err)
	}
	if n := render.Components(solid.Mesh, 1e-9); n != len(kinds) {
		t.Errorf("want %d bodies, got %d", len(kinds), n)
	}
	single, err := b.Overview(context.Background(), kinds[1:])
	if err != nil {
		t.Fatal(err)
	}
	if n := render.Components(single.Mesh, 1e-9); n != 1 {
		t.Errorf("single profile overview has %d bodies", n)
	}
	if _, err := b.Overview(context.Background(), nil); !errors.Is(err, track.ErrInvalidParameter) {
		t.Errorf("want invalid parameter for no kinds, got %v", err)
	}
}
