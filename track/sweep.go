package track

import (
	"context"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/soypat/marble"
	"github.com/soypat/marble/curve"
	"github.com/soypat/marble/form2"
	"github.com/soypat/marble/helpers/matter"
	"github.com/soypat/marble/render"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r3"
)

// Solid is a swept track piece. It is not modified after creation.
type Solid struct {
	SDF     marble.SDF3
	Path    []r3.Vec
	Frames  []curve.Frame
	Profile form2.Profile
	Mesh    []render.Triangle3
}

// Renderer returns a Renderer serving the solid's mesh.
func (s *Solid) Renderer() render.Renderer { return render.NewSliceRenderer(s.Mesh) }

// WriteSTL writes the solid's mesh in binary STL format.
func (s *Solid) WriteSTL(w io.Writer) error { return render.WriteSTL(w, s.Mesh) }

// Profile returns the configured cross section.
func (b *Builder) Profile() (form2.Profile, error) {
	p, err := form2.NewProfile(b.cfg.Profile, b.cfg.ProfileParams)
	if err != nil {
		return p, fmt.Errorf("%w: %w", ErrInvalidParameter, err)
	}
	b.log.Debug("built profile", zap.String("kind", string(p.Kind)), zap.Float64("radius", p.Radius()))
	return p, nil
}

// Sweep sweeps profile along path and meshes the result. The profile's X
// axis starts along the configured up vector projected normal to the path
// start. Any failure is an ErrSweepFailed and no solid is returned.
func (b *Builder) Sweep(path curve.Curve, profile form2.Profile) (*Solid, error) {
	start := time.Now()
	sdf, pts, frames, err := b.sweep(path, profile)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSweepFailed, err)
	}
	mesh, err := b.mesh(sdf, b.cfg.MeshCells, 1)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSweepFailed, err)
	}
	b.log.Debug("swept profile",
		zap.Int("segments", len(frames)),
		zap.Int("triangles", len(mesh)),
		zap.Duration("elapsed", time.Since(start)))
	return &Solid{SDF: sdf, Path: pts, Frames: frames, Profile: profile, Mesh: mesh}, nil
}

func (b *Builder) sweep(path curve.Curve, profile form2.Profile) (marble.SDF3, []r3.Vec, []curve.Frame, error) {
	if path == nil || !(path.Length() > 0) {
		return nil, nil, nil, fmt.Errorf("path has zero length")
	}
	if profile.SDF == nil || len(profile.Outlines) == 0 {
		return nil, nil, nil, fmt.Errorf("empty profile")
	}
	for _, o := range profile.Outlines {
		if err := form2.CheckOutline(o); err != nil {
			return nil, nil, nil, err
		}
	}
	if w, ok := path.(*curve.Wire); ok {
		if err := checkJoints(w); err != nil {
			return nil, nil, nil, err
		}
	}
	pts, err := curve.Flatten(path, b.cfg.Resolution)
	if err != nil {
		return nil, nil, nil, err
	}
	radius := profile.Radius()
	if minR := curve.MinRadius(pts); minR < radius {
		return nil, nil, nil, fmt.Errorf("path radius of curvature %.3g tighter than profile radius %.3g", minR, radius)
	}
	frames, err := curve.Frames(pts, b.cfg.Up)
	if err != nil {
		return nil, nil, nil, err
	}
	sdf := marble.Sweep3D(profile.SDF, pts, frames)
	if b.cfg.Material != "" {
		m, err := matter.Lookup(b.cfg.Material)
		if err != nil {
			return nil, nil, nil, err
		}
		sdf = m.Scale(sdf)
	}
	return sdf, pts, frames, nil
}

// mesh renders s and checks it has the expected amount of bodies.
func (b *Builder) mesh(s marble.SDF3, cells, bodies int) ([]render.Triangle3, error) {
	r, err := render.NewOctreeRenderer(s, cells)
	if err != nil {
		return nil, err
	}
	model, err := render.RenderAll(r)
	if err != nil {
		return nil, err
	}
	if len(model) == 0 {
		return nil, fmt.Errorf("mesh has no triangles")
	}
	if n := render.Components(model, componentTol); n != bodies {
		return nil, fmt.Errorf("mesh has %d connected bodies, want %d", n, bodies)
	}
	return model, nil
}

// componentTol merges mesh vertices for connectivity analysis. Shared
// vertices are computed identically so it only needs to absorb rounding.
const componentTol = 1e-9

// Build runs the whole pipeline: sample, spline, path, profile, sweep.
// ctx is checked between stages.
func (b *Builder) Build(ctx context.Context) (*Solid, error) {
	start := time.Now()
	pts, err := b.Samples()
	if err != nil {
		return nil, err
	}
	sp, err := b.Spline(pts)
	if err != nil {
		return nil, err
	}
	path, err := b.Path(sp)
	if err != nil {
		return nil, err
	}
	profile, err := b.Profile()
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	solid, err := b.Sweep(path, profile)
	if err != nil {
		return nil, err
	}
	b.log.Info("built track",
		zap.Int("samples", len(pts)),
		zap.Float64("path_length", path.Length()),
		zap.Int("triangles", len(solid.Mesh)),
		zap.Duration("elapsed", time.Since(start)))
	return solid, nil
}

// Overview sweeps every profile kind along the same arc and stacks the
// pieces along Z, one body per kind.
func (b *Builder) Overview(ctx context.Context, kinds []form2.ProfileKind) (*Solid, error) {
	if len(kinds) == 0 {
		return nil, fmt.Errorf("%w: no profile kinds", ErrInvalidParameter)
	}
	hw := b.cfg.ProfileParams.HeightWidth
	arc := make([]r3.Vec, 9)
	for i := range arc {
		a := float64(i) / float64(len(arc)-1) * math.Pi / 2
		arc[i] = r3.Vec{X: 3 * hw * math.Cos(a), Y: 3 * hw * math.Sin(a)}
	}
	sp, err := b.Spline(arc)
	if err != nil {
		return nil, err
	}
	path, err := b.Path(sp)
	if err != nil {
		return nil, err
	}
	var (
		pieces []marble.SDF3
		pts    []r3.Vec
		frames []curve.Frame
	)
	for i, kind := range kinds {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		profile, err := form2.NewProfile(kind, b.cfg.ProfileParams)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidParameter, err)
		}
		sdf, p, f, err := b.sweep(path, profile)
		if err != nil {
			return nil, fmt.Errorf("%w: profile %s: %w", ErrSweepFailed, kind, err)
		}
		pts, frames = p, f
		pieces = append(pieces, marble.Translate3D(sdf, r3.Vec{Z: 2 * hw * float64(i)}))
	}
	union := pieces[0]
	if len(pieces) > 1 {
		union = marble.Union3D(pieces...)
	}
	// Keep the cell size of a single piece on the taller stack.
	cells := b.cfg.MeshCells * ((len(kinds) + 1) / 2)
	mesh, err := b.mesh(union, cells, len(kinds))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSweepFailed, err)
	}
	b.log.Info("built profile overview", zap.Int("profiles", len(kinds)), zap.Int("triangles", len(mesh)))
	return &Solid{SDF: union, Path: pts, Frames: frames, Mesh: mesh}, nil
}
