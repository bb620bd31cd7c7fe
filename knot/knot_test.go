package knot_test

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/soypat/marble/knot"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestSampleDeterministic(t *testing.T) {
	for _, conv := range []knot.Convention{knot.Uniform, knot.Legacy} {
		cfg := knot.DefaultConfig()
		cfg.Convention = conv
		a, err := knot.Sample(cfg)
		if err != nil {
			t.Fatal(err)
		}
		b, err := knot.Sample(cfg)
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(a, b); diff != "" {
			t.Errorf("%v sampling not deterministic (-first +second):\n%s", conv, diff)
		}
	}
}

func TestSampleLegacy(t *testing.T) {
	cfg := knot.DefaultConfig()
	cfg.Convention = knot.Legacy
	pts, err := knot.Sample(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if len(pts) != 836 {
		t.Fatalf("got %d points, want 836", len(pts))
	}
	for _, step := range []int{1, 400, 836} {
		u := float64(step) / 200
		want := r3.Vec{
			X: 10 * (math.Sin(u) + 2*math.Sin(2*u)),
			Y: 10 * (math.Cos(u) - 2*math.Cos(2*u)),
			Z: 10 * -math.Sin(3*u),
		}
		// Index 0 holds t=1.
		if got := pts[step-1]; got != want {
			t.Errorf("t=%d: got %v, want %v", step, got, want)
		}
	}
}

func TestSampleUniform(t *testing.T) {
	cfg := knot.DefaultConfig()
	pts, err := knot.Sample(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if len(pts) != cfg.Samples {
		t.Fatalf("got %d points, want %d", len(pts), cfg.Samples)
	}
	if pts[0] != knot.At(cfg.T0, cfg.Scale) || pts[len(pts)-1] != knot.At(cfg.T1, cfg.Scale) {
		t.Error("uniform sampling does not include both range ends")
	}
	cfg.Samples = 1
	pts, err = knot.Sample(cfg)
	if err != nil || len(pts) != 1 {
		t.Errorf("single sample: %v %v", pts, err)
	}
}

func TestSampleInvalid(t *testing.T) {
	mod := []func(*knot.Config){
		func(c *knot.Config) { c.Samples = 0 },
		func(c *knot.Config) { c.Samples = -5 },
		func(c *knot.Config) { c.T1 = c.T0 },
		func(c *knot.Config) { c.T0 = math.NaN() },
		func(c *knot.Config) { c.T1 = math.Inf(1) },
		func(c *knot.Config) { c.Scale = 0 },
		func(c *knot.Config) { c.Convention = 7 },
		func(c *knot.Config) { c.Convention = knot.Legacy; c.T0, c.T1, c.Samples = 0, 0.001, 10 },
	}
	for i, m := range mod {
		cfg := knot.DefaultConfig()
		m(&cfg)
		pts, err := knot.Sample(cfg)
		if !errors.Is(err, knot.ErrInvalidParameter) {
			t.Errorf("case %d: want ErrInvalidParameter, got %v", i, err)
		}
		if pts != nil {
			t.Errorf("case %d: got points on error", i)
		}
	}
}

func TestParseConvention(t *testing.T) {
	for _, c := range []knot.Convention{knot.Uniform, knot.Legacy} {
		got, err := knot.ParseConvention(c.String())
		if err != nil || got != c {
			t.Errorf("round trip %v: got %v, %v", c, got, err)
		}
	}
	if _, err := knot.ParseConvention("sideways"); !errors.Is(err, knot.ErrInvalidParameter) {
		t.Error("want error for unknown convention")
	}
}
