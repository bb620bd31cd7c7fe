// Package render meshes SDF3 solids into triangles and reads and writes
// triangle meshes as STL and 3MF files.
package render

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Renderer produces the triangles of a mesh. ReadTriangles writes up to
// len(t) triangles into t and returns io.EOF once the mesh is exhausted.
type Renderer interface {
	ReadTriangles(t []Triangle3) (int, error)
}

// Triangle3 is a 3D triangle. Vertices are ordered counter clockwise
// when seen from outside the solid.
type Triangle3 [3]r3.Vec

// Normal returns the unit normal of the triangle following the right hand rule.
func (t Triangle3) Normal() r3.Vec {
	e1 := r3.Sub(t[1], t[0])
	e2 := r3.Sub(t[2], t[0])
	return r3.Unit(r3.Cross(e1, e2))
}

// Degenerate returns true if two vertices of the triangle are within tol of each other.
func (t Triangle3) Degenerate(tol float64) bool {
	return equalWithin(t[0], t[1], tol) ||
		equalWithin(t[1], t[2], tol) ||
		equalWithin(t[2], t[0], tol)
}

// Centroid returns the mean of the triangle's vertices.
func (t Triangle3) Centroid() r3.Vec {
	return r3.Scale(1./3., r3.Add(t[0], r3.Add(t[1], t[2])))
}

func equalWithin(a, b r3.Vec, tol float64) bool {
	return math.Abs(a.X-b.X) <= tol &&
		math.Abs(a.Y-b.Y) <= tol &&
		math.Abs(a.Z-b.Z) <= tol
}
