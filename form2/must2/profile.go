package must2

import (
	"errors"
	"fmt"
	"math"

	"github.com/soypat/marble"
	"gonum.org/v1/gonum/spatial/r2"
)

var (
	// ErrOpenProfile is the panic value for outlines whose last point is not the first.
	ErrOpenProfile = errors.New("profile outline is not closed")
	// ErrSelfIntersecting is the panic value for outlines that cross themselves.
	ErrSelfIntersecting = errors.New("profile outline self-intersects")
	// ErrBadDimension is the panic value for sizes that cannot form the profile.
	ErrBadDimension = errors.New("bad profile dimension")
)

// ProfileKind names a track cross section.
type ProfileKind string

const (
	LShape                       ProfileKind = "l_shape"
	LShapeAdjustedHeight         ProfileKind = "l_shape_adjusted_height"
	LShapeMirrored               ProfileKind = "l_shape_mirrored"
	LShapeMirroredAdjustedHeight ProfileKind = "l_shape_mirrored_adjusted_height"
	UShape                       ProfileKind = "u_shape"
	UShapeAdjustedHeight         ProfileKind = "u_shape_adjusted_height"
	VShape                       ProfileKind = "v_shape"
	OShape                       ProfileKind = "o_shape"
	SquareClosed                 ProfileKind = "square_closed_shape"
	SquareWithHole               ProfileKind = "square_with_hole_shape"
)

// ProfileKinds lists every profile of the catalogue.
func ProfileKinds() []ProfileKind {
	return []ProfileKind{
		LShape, LShapeAdjustedHeight, LShapeMirrored, LShapeMirroredAdjustedHeight,
		UShape, UShapeAdjustedHeight, VShape, OShape, SquareClosed, SquareWithHole,
	}
}

// ProfileParams dimensions a profile. Lengths are in millimetres.
type ProfileParams struct {
	HeightWidth float64
	Wall        float64
	// LowerDistance lowers the top of the walls of adjusted height profiles.
	LowerDistance float64
	// Factor scales the width of the U profile. Zero means 1.
	Factor float64
	// Rotation about the profile origin in radians.
	Rotation float64
}

// Profile is a closed track cross section.
type Profile struct {
	Kind ProfileKind
	// Outlines are closed loops, last point equal to the first. Polygonal profiles
	// have one outline; ring profiles have the outer then the inner boundary.
	Outlines [][]r2.Vec
	SDF      marble.SDF2
}

// Radius returns the radius of the smallest origin centered circle containing the profile.
func (p Profile) Radius() float64 {
	return marble.BoundingRadius(p.SDF)
}

// NewProfile builds the catalogue profile kind.
func NewProfile(kind ProfileKind, params ProfileParams) Profile {
	hw, wall := params.HeightWidth, params.Wall
	if !(hw > 0) || !(wall > 0) || math.IsInf(hw, 0) || math.IsInf(wall, 0) {
		panic(fmt.Errorf("height/width %g and wall %g must be positive: %w", hw, wall, ErrBadDimension))
	}
	var p Profile
	switch kind {
	case LShape:
		p = PolygonProfile(lShape(hw, wall, false))
	case LShapeMirrored:
		p = PolygonProfile(lShape(hw, wall, true))
	case LShapeAdjustedHeight:
		p = PolygonProfile(lShapeAdjusted(hw, wall, params.LowerDistance, false))
	case LShapeMirroredAdjustedHeight:
		p = PolygonProfile(lShapeAdjusted(hw, wall, params.LowerDistance, true))
	case UShape:
		p = PolygonProfile(uShape(hw, wall, params.Factor))
	case UShapeAdjustedHeight:
		p = PolygonProfile(uShapeAdjusted(hw, wall, params.LowerDistance))
	case VShape:
		p = PolygonProfile(vShape(hw, wall))
	case OShape:
		p = ring(hw, wall)
	case SquareClosed:
		p = PolygonProfile(square(hw))
	case SquareWithHole:
		p = squareWithHole(hw, wall)
	default:
		panic(fmt.Errorf("unknown profile kind %q: %w", kind, ErrBadDimension))
	}
	p.Kind = kind
	if params.Rotation != 0 {
		p = p.Rotate(params.Rotation)
	}
	return p
}

// PolygonProfile returns a profile from a closed outline. It panics with
// ErrOpenProfile or ErrSelfIntersecting if the outline is not a simple closed loop.
func PolygonProfile(outline []r2.Vec) Profile {
	if err := CheckOutline(outline); err != nil {
		panic(err)
	}
	return Profile{
		Outlines: [][]r2.Vec{outline},
		SDF:      Polygon(outline),
	}
}

// CheckOutline returns ErrOpenProfile if outline is not a closed loop
// and ErrSelfIntersecting if two of its edges cross.
func CheckOutline(outline []r2.Vec) error {
	n := len(outline)
	if n < 4 {
		return fmt.Errorf("closed outline needs at least 4 points, got %d: %w", n, ErrOpenProfile)
	}
	if outline[0] != outline[n-1] {
		return fmt.Errorf("first point %v, last point %v: %w", outline[0], outline[n-1], ErrOpenProfile)
	}
	if i, j, ok := SelfIntersection(outline); ok {
		return fmt.Errorf("edges %d and %d: %w", i, j, ErrSelfIntersecting)
	}
	return nil
}

// Rotate returns the profile rotated by theta radians about its origin.
func (p Profile) Rotate(theta float64) Profile {
	m := marble.Rotate(theta)
	rotated := make([][]r2.Vec, len(p.Outlines))
	for i, o := range p.Outlines {
		rotated[i] = make([]r2.Vec, len(o))
		for j, v := range o {
			rotated[i][j] = m.MulPosition(v)
		}
	}
	return Profile{
		Kind:     p.Kind,
		Outlines: rotated,
		SDF:      marble.Rotate2D(p.SDF, theta),
	}
}

func lShape(hw, wall float64, mirrored bool) []r2.Vec {
	half := hw / 2
	inner := half - wall
	if inner <= -half {
		panic(fmt.Errorf("wall %g too thick for L of %g: %w", wall, hw, ErrBadDimension))
	}
	b := NewPolygon().
		Add(-half, half).
		Add(-inner, half).
		Add(-inner, -inner).
		Add(half, -inner).
		Add(half, -half).
		Add(-half, -half)
	return mirrorX(b.Close().Vertices(), mirrored)
}

// clampLower keeps a wall thickness of side wall standing above the floor.
func clampLower(hw, wall, lower float64) float64 {
	if lower < 0 {
		panic(fmt.Errorf("negative lower distance %g: %w", lower, ErrBadDimension))
	}
	if hw-lower < 2*wall {
		lower = hw - 2*wall
	}
	return lower
}

func lShapeAdjusted(hw, wall, lower float64, mirrored bool) []r2.Vec {
	half := hw / 2
	inner := half - wall
	if inner <= 0 {
		panic(fmt.Errorf("wall %g too thick for L of %g: %w", wall, hw, ErrBadDimension))
	}
	top := half - clampLower(hw, wall, lower)
	b := NewPolygon().
		Add(-half, -half).
		Add(-half, top).
		Add(-inner, top).
		Add(-inner, -inner).
		Add(half, -inner).
		Add(half, -half)
	return mirrorX(b.Close().Vertices(), mirrored)
}

// mirrorX mirrors the outline about the Y axis, keeping its winding.
func mirrorX(v []r2.Vec, mirrored bool) []r2.Vec {
	if !mirrored {
		return v
	}
	out := make([]r2.Vec, len(v))
	for i, p := range v {
		out[len(v)-1-i] = r2.Vec{X: -p.X, Y: p.Y}
	}
	return out
}

func uShape(hw, wall, factor float64) []r2.Vec {
	if factor == 0 {
		factor = 1
	}
	if !(factor > 0) {
		panic(fmt.Errorf("width factor %g: %w", factor, ErrBadDimension))
	}
	halfW, halfH := hw*factor/2, hw/2
	innerW, innerH := halfW-wall, halfH-wall
	if innerW <= 0 || innerH <= -halfH {
		panic(fmt.Errorf("wall %g too thick for U of %g: %w", wall, hw, ErrBadDimension))
	}
	return NewPolygon().
		Add(-halfW, halfH).
		Add(-innerW, halfH).
		Add(-innerW, -innerH).
		Add(innerW, -innerH).
		Add(innerW, halfH).
		Add(halfW, halfH).
		Add(halfW, -halfH).
		Add(-halfW, -halfH).
		Close().Vertices()
}

func uShapeAdjusted(hw, wall, lower float64) []r2.Vec {
	half := hw / 2
	inner := half - wall
	if inner <= 0 {
		panic(fmt.Errorf("wall %g too thick for U of %g: %w", wall, hw, ErrBadDimension))
	}
	top := half - clampLower(hw, wall, lower)
	return NewPolygon().
		Add(-half, -half).
		Add(-half, top).
		Add(-inner, top).
		Add(-inner, -inner).
		Add(inner, -inner).
		Add(inner, top).
		Add(half, top).
		Add(half, -half).
		Close().Vertices()
}

func vShape(hw, wall float64) []r2.Vec {
	half := hw / 2
	if half-wall <= wall {
		panic(fmt.Errorf("wall %g too thick for V of %g: %w", wall, hw, ErrBadDimension))
	}
	return NewPolygon().
		Add(-wall, -half).
		Add(-half, -wall).
		Add(-half+wall, -wall).
		Add(-wall, -half+wall).
		Add(wall, -half+wall).
		Add(half-wall, -wall).
		Add(half, -wall).
		Add(wall, -half).
		Close().Vertices()
}

func square(hw float64) []r2.Vec {
	half := hw / 2
	return NewPolygon().
		Add(-half, -half).
		Add(half, -half).
		Add(half, half).
		Add(-half, half).
		Close().Vertices()
}

func squareWithHole(hw, wall float64) Profile {
	inner := hw - 2*wall
	if inner <= 0 {
		panic(fmt.Errorf("wall %g too thick for square of %g: %w", wall, hw, ErrBadDimension))
	}
	return Profile{
		Outlines: [][]r2.Vec{square(hw), square(inner)},
		SDF:      marble.Difference2D(Box(r2.Vec{X: hw, Y: hw}), Box(r2.Vec{X: inner, Y: inner})),
	}
}

// ringFacets is the number of points used to export circular outlines.
const ringFacets = 64

func ring(diameter, wall float64) Profile {
	outer := diameter / 2
	inner := outer - wall
	if inner <= 0 {
		panic(fmt.Errorf("wall %g too thick for tube of %g: %w", wall, diameter, ErrBadDimension))
	}
	return Profile{
		Outlines: [][]r2.Vec{Nagon(ringFacets, outer), Nagon(ringFacets, inner)},
		SDF:      marble.Difference2D(Circle(outer), Circle(inner)),
	}
}

// Nagon returns the closed vertex loop of a N sided regular polygon.
func Nagon(n int, radius float64) []r2.Vec {
	if n < 3 {
		panic("need at least 3 sides")
	}
	m := marble.Rotate(2 * math.Pi / float64(n))
	v := make([]r2.Vec, n+1)
	p := r2.Vec{X: radius}
	for i := 0; i < n; i++ {
		v[i] = p
		p = m.MulPosition(p)
	}
	v[n] = v[0]
	return v
}
