package matter

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

type cube struct{ half float64 }

func (c cube) Evaluate(p r3.Vec) float64 {
	return math.Max(math.Abs(p.X), math.Max(math.Abs(p.Y), math.Abs(p.Z))) - c.half
}

func (c cube) Bounds() r3.Box {
	return r3.Box{Min: r3.Vec{X: -c.half, Y: -c.half, Z: -c.half}, Max: r3.Vec{X: c.half, Y: c.half, Z: c.half}}
}

func TestScale(t *testing.T) {
	s := PLA.Scale(cube{half: 10})
	want := 10 / (1 - 0.2e-2)
	if got := s.Bounds().Max.X; math.Abs(got-want) > 1e-12 {
		t.Errorf("scaled bound %g, want %g", got, want)
	}
	if d := s.Evaluate(r3.Vec{X: want}); math.Abs(d) > 1e-12 {
		t.Errorf("scaled surface at %g has distance %g", want, d)
	}
}

func TestLookup(t *testing.T) {
	for _, name := range []string{"pla", "PLA", " petg "} {
		if _, err := Lookup(name); err != nil {
			t.Errorf("%q: %v", name, err)
		}
	}
	if _, err := Lookup("wood"); err == nil {
		t.Error("expected error for unknown material")
	}
	if got := PLA.InternalDimScale(3); math.Abs(got-(3*1.002+0.45)) > 1e-12 {
		t.Errorf("internal dimension %g", got)
	}
}
