package marble

import (
	"math"

	"github.com/soypat/marble/internal/d2"
	"gonum.org/v1/gonum/spatial/r2"
)

// transform2 transforms an SDF2 with rotation and translation.
type transform2 struct {
	sdf  SDF2
	mInv m33
	bb   r2.Box
}

// Transform2D applies a rigid transformation matrix to an SDF2.
// Distance is *not* preserved if m scales.
func Transform2D(sdf SDF2, m m33) SDF2 {
	if sdf == nil {
		panic("nil sdf argument")
	}
	return &transform2{
		sdf:  sdf,
		mInv: m.Inverse(),
		bb:   m.MulBox(sdf.Bounds()),
	}
}

// Rotate2D rotates an SDF2 by theta radians about the origin.
func Rotate2D(sdf SDF2, theta float64) SDF2 {
	if theta == 0 {
		return sdf
	}
	return Transform2D(sdf, Rotate(theta))
}

// Evaluate returns the minimum distance to a transformed SDF2.
func (s *transform2) Evaluate(p r2.Vec) float64 {
	return s.sdf.Evaluate(s.mInv.MulPosition(p))
}

// Bounds returns the bounding box of a transformed SDF2.
func (s *transform2) Bounds() r2.Box {
	return s.bb
}

// diff2 is the difference of two SDF2s.
type diff2 struct {
	s0  SDF2
	s1  SDF2
	bb  r2.Box
}

// Difference2D returns the difference of two SDF2 objects, s0 - s1.
func Difference2D(s0, s1 SDF2) SDF2 {
	if s0 == nil || s1 == nil {
		panic("nil sdf argument")
	}
	return &diff2{
		s0:  s0,
		s1: s1,
		bb: s0.Bounds(),
	}
}

// Evaluate returns the minimum distance to the difference of two SDF2s.
func (s *diff2) Evaluate(p r2.Vec) float64 {
	return math.Max(s.s0.Evaluate(p), -s.s1.Evaluate(p))
}

// Bounds returns the bounding box of the difference of two SDF2s.
func (s *diff2) Bounds() r2.Box {
	return s.bb
}

// BoundingRadius returns the radius of the smallest origin centered circle
// containing the bounding box of s.
func BoundingRadius(s SDF2) float64 {
	bb := s.Bounds()
	corners := d2.Set{bb.Min, bb.Max, {X: bb.Min.X, Y: bb.Max.Y}, {X: bb.Max.X, Y: bb.Min.Y}}
	return corners.MaxNorm()
}
