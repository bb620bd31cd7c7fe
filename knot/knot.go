// Package knot samples the overhand knot curve used as the body of a track piece.
package knot

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r3"
)

// ErrInvalidParameter is returned for sampling parameters that cannot produce points.
var ErrInvalidParameter = errors.New("invalid parameter")

// Convention selects how the parameter range is stepped.
type Convention int

const (
	// Uniform steps the curve parameter from T0 to T1 inclusive in Samples points.
	Uniform Convention = iota
	// Legacy steps an integer counter t from int(T0) up to int(T1*Samples)
	// exclusive and evaluates the curve at t/Samples.
	Legacy
)

func (c Convention) String() string {
	switch c {
	case Uniform:
		return "uniform"
	case Legacy:
		return "legacy"
	}
	return fmt.Sprintf("Convention(%d)", int(c))
}

// ParseConvention returns the Convention named s.
func ParseConvention(s string) (Convention, error) {
	switch s {
	case "", "uniform":
		return Uniform, nil
	case "legacy":
		return Legacy, nil
	}
	return 0, fmt.Errorf("unknown sampling convention %q: %w", s, ErrInvalidParameter)
}

// Config parameterizes knot sampling.
type Config struct {
	T0, T1     float64
	Samples    int
	Scale      float64
	Convention Convention
}

// DefaultConfig returns the knot used by track pieces: a half turn of the
// trefoil scaled to a 10mm node.
func DefaultConfig() Config {
	return Config{
		T0:      math.Pi / 3,
		T1:      4 * math.Pi / 3,
		Samples: 200,
		Scale:   10,
	}
}

// Validate checks the configuration without evaluating the curve.
func (cfg Config) Validate() error {
	switch {
	case cfg.Samples <= 0:
		return fmt.Errorf("sample count %d must be positive: %w", cfg.Samples, ErrInvalidParameter)
	case !finite(cfg.T0) || !finite(cfg.T1):
		return fmt.Errorf("parameter range [%g, %g] not finite: %w", cfg.T0, cfg.T1, ErrInvalidParameter)
	case cfg.T1 <= cfg.T0:
		return fmt.Errorf("parameter range [%g, %g] is empty: %w", cfg.T0, cfg.T1, ErrInvalidParameter)
	case !(cfg.Scale > 0) || math.IsInf(cfg.Scale, 0):
		return fmt.Errorf("scale %g must be positive: %w", cfg.Scale, ErrInvalidParameter)
	case cfg.Convention != Uniform && cfg.Convention != Legacy:
		return fmt.Errorf("%v: %w", cfg.Convention, ErrInvalidParameter)
	}
	if cfg.Convention == Legacy && int(cfg.T1*float64(cfg.Samples)) <= int(cfg.T0) {
		return fmt.Errorf("legacy stepping of [%g, %g] yields no points: %w", cfg.T0, cfg.T1, ErrInvalidParameter)
	}
	return nil
}

// Params returns the curve parameters the configuration evaluates, in order.
func (cfg Config) Params() ([]float64, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Convention == Legacy {
		first, end := int(cfg.T0), int(cfg.T1*float64(cfg.Samples))
		us := make([]float64, 0, end-first)
		for t := first; t < end; t++ {
			us = append(us, float64(t)/float64(cfg.Samples))
		}
		return us, nil
	}
	if cfg.Samples == 1 {
		return []float64{cfg.T0}, nil
	}
	us := floats.Span(make([]float64, cfg.Samples), cfg.T0, cfg.T1)
	us[len(us)-1] = cfg.T1
	return us, nil
}

// Sample evaluates the knot at every parameter of the configuration.
func Sample(cfg Config) ([]r3.Vec, error) {
	us, err := cfg.Params()
	if err != nil {
		return nil, err
	}
	pts := make([]r3.Vec, len(us))
	for i, u := range us {
		pts[i] = At(u, cfg.Scale)
	}
	return pts, nil
}

// At evaluates the knot curve at parameter u:
//
//	x = s(sin u + 2 sin 2u)
//	y = s(cos u - 2 cos 2u)
//	z = -s sin 3u
func At(u, scale float64) r3.Vec {
	return r3.Vec{
		X: scale * (math.Sin(u) + 2*math.Sin(2*u)),
		Y: scale * (math.Cos(u) - 2*math.Cos(2*u)),
		Z: scale * -math.Sin(3*u),
	}
}

func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }
