// Package track builds marble track pieces: a knot shaped spline with
// straight lead-in and lead-out lines, swept with a track profile into a
// single printable solid.
package track

import (
	"errors"
	"fmt"
	"math"

	"github.com/soypat/marble/form2"
	"github.com/soypat/marble/helpers/matter"
	"github.com/soypat/marble/knot"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r3"
)

var (
	// ErrInvalidParameter is returned before any geometry is built when a
	// configured count or dimension is out of range.
	ErrInvalidParameter = errors.New("invalid parameter")
	// ErrDegenerateGeometry is returned when the spline has no length or no
	// tangent at an end.
	ErrDegenerateGeometry = errors.New("degenerate geometry")
	// ErrSweepFailed is returned when the profile cannot be swept along the path.
	ErrSweepFailed = errors.New("sweep failed: invalid path/profile")
)

// Config parameterizes a track piece. Lengths are in millimetres.
type Config struct {
	Knot knot.Config
	// LeadLength is the length of the straight extensions at each spline end.
	LeadLength    float64
	Profile       form2.ProfileKind
	ProfileParams form2.ProfileParams
	// Up orients the profile at the start of the path. Zero means +Z.
	Up r3.Vec
	// Resolution is the longest polyline segment used to sweep curves.
	Resolution float64
	// MeshCells is the amount of mesh cells along the longest axis of the solid.
	MeshCells int
	// Material, if set, enlarges the solid to compensate its print shrinkage.
	Material string
}

// DefaultConfig returns the configuration of a 10mm node overhand knot
// piece with an L profile.
func DefaultConfig() Config {
	const nodeSize = 10
	return Config{
		Knot:          knot.DefaultConfig(),
		LeadLength:    2 * nodeSize,
		Profile:       form2.LShape,
		ProfileParams: form2.DefaultProfileParams(),
		Up:            r3.Vec{Z: 1},
		Resolution:    0.5,
		MeshCells:     200,
	}
}

// Validate checks the configured counts and dimensions.
func (cfg Config) Validate() error {
	if err := cfg.Knot.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidParameter, err)
	}
	switch {
	case !positive(cfg.LeadLength):
		return fmt.Errorf("%w: lead length %g must be positive", ErrInvalidParameter, cfg.LeadLength)
	case !positive(cfg.ProfileParams.HeightWidth) || !positive(cfg.ProfileParams.Wall):
		return fmt.Errorf("%w: profile size %g and wall %g must be positive", ErrInvalidParameter,
			cfg.ProfileParams.HeightWidth, cfg.ProfileParams.Wall)
	case 2*cfg.ProfileParams.Wall >= cfg.ProfileParams.HeightWidth:
		return fmt.Errorf("%w: wall %g leaves no channel in a %g profile", ErrInvalidParameter,
			cfg.ProfileParams.Wall, cfg.ProfileParams.HeightWidth)
	case !positive(cfg.Resolution):
		return fmt.Errorf("%w: resolution %g must be positive", ErrInvalidParameter, cfg.Resolution)
	case cfg.MeshCells < 2:
		return fmt.Errorf("%w: mesh cells %d must be at least 2", ErrInvalidParameter, cfg.MeshCells)
	case math.IsNaN(cfg.Up.X+cfg.Up.Y+cfg.Up.Z) || math.IsInf(cfg.Up.X+cfg.Up.Y+cfg.Up.Z, 0):
		return fmt.Errorf("%w: up vector %v not finite", ErrInvalidParameter, cfg.Up)
	}
	if cfg.Material != "" {
		if _, err := matter.Lookup(cfg.Material); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidParameter, err)
		}
	}
	return nil
}

func positive(f float64) bool { return f > 0 && !math.IsInf(f, 1) }

// Builder runs the track pipeline stages. Each stage returns its product
// so stages can also be run individually.
type Builder struct {
	cfg Config
	log *zap.Logger
}

// NewBuilder returns a Builder for a validated cfg. A nil logger discards logs.
func NewBuilder(cfg Config, log *zap.Logger) (*Builder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Up == (r3.Vec{}) {
		cfg.Up = r3.Vec{Z: 1}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Builder{cfg: cfg, log: log}, nil
}

// Config returns the builder's configuration.
func (b *Builder) Config() Config { return b.cfg }
