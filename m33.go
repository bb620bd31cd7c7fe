package marble

import (
	"math"

	"github.com/soypat/marble/internal/d2"
	"gonum.org/v1/gonum/spatial/r2"
)

// m33 is a 3x3 homogeneous matrix for 2d rigid transforms.
type m33 struct {
	x00, x01, x02 float64
	x10, x11, x12 float64
	x20, x21, x22 float64
}

// Rotate returns an orthographic 2d rotation matrix (right hand rule).
func Rotate(a float64) m33 {
	s, c := math.Sincos(a)
	return m33{
		c, -s, 0,
		s, c, 0,
		0, 0, 1}
}

// Translate2d returns a 2d translation matrix.
func Translate2d(v r2.Vec) m33 {
	return m33{
		1, 0, v.X,
		0, 1, v.Y,
		0, 0, 1}
}

// MulPosition multiplies a 2d position by the transform.
func (a m33) MulPosition(b r2.Vec) r2.Vec {
	return r2.Vec{
		X: a.x00*b.X + a.x01*b.Y + a.x02,
		Y: a.x10*b.X + a.x11*b.Y + a.x12,
	}
}

// Determinant returns the determinant of the matrix.
func (a m33) Determinant() float64 {
	return a.x00*(a.x11*a.x22-a.x12*a.x21) -
		a.x01*(a.x10*a.x22-a.x12*a.x20) +
		a.x02*(a.x10*a.x21-a.x11*a.x20)
}

// Inverse returns the inverse of the matrix. It panics if the matrix is singular.
func (a m33) Inverse() m33 {
	det := a.Determinant()
	if math.Abs(det) < 1e-12 {
		panic("singular transform matrix")
	}
	k := 1 / det
	return m33{
		x00: k * (a.x11*a.x22 - a.x12*a.x21),
		x01: k * (a.x02*a.x21 - a.x01*a.x22),
		x02: k * (a.x01*a.x12 - a.x02*a.x11),
		x10: k * (a.x12*a.x20 - a.x10*a.x22),
		x11: k * (a.x00*a.x22 - a.x02*a.x20),
		x12: k * (a.x02*a.x10 - a.x00*a.x12),
		x20: k * (a.x10*a.x21 - a.x11*a.x20),
		x21: k * (a.x01*a.x20 - a.x00*a.x21),
		x22: k * (a.x00*a.x11 - a.x01*a.x10),
	}
}

// MulBox returns the bounding box of the transformed box corners.
func (a m33) MulBox(box r2.Box) r2.Box {
	corners := d2.Set{
		box.Min,
		{X: box.Max.X, Y: box.Min.Y},
		box.Max,
		{X: box.Min.X, Y: box.Max.Y},
	}
	for i, c := range corners {
		corners[i] = a.MulPosition(c)
	}
	return r2.Box{Min: corners.Min(), Max: corners.Max()}
}
