package render

import (
	"io"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/soypat/marble"
	"gonum.org/v1/gonum/spatial/r3"
)

// sdfxShape exposes a marble.SDF3 through the sdfx SDF3 interface.
type sdfxShape struct {
	s marble.SDF3
}

func (s sdfxShape) Evaluate(p v3.Vec) float64 {
	return s.s.Evaluate(r3.Vec{X: p.X, Y: p.Y, Z: p.Z})
}

func (s sdfxShape) BoundingBox() sdf.Box3 {
	bb := s.s.Bounds()
	return sdf.Box3{
		Min: v3.Vec{X: bb.Min.X, Y: bb.Min.Y, Z: bb.Min.Z},
		Max: v3.Vec{X: bb.Max.X, Y: bb.Max.Y, Z: bb.Max.Z},
	}
}

// sdfxRenderer meshes with the sdfx uniform marching cubes renderer.
// The whole mesh is computed on the first read.
type sdfxRenderer struct {
	shape    sdfxShape
	cells    int
	rendered bool
	out      triangle3Buffer
}

// NewSDFXRenderer returns a Renderer backed by sdfx's uniform marching cubes.
// It serves as a reference mesher to cross check the octree renderer.
func NewSDFXRenderer(s marble.SDF3, meshCells int) (Renderer, error) {
	if meshCells < 2 {
		return nil, errBadMeshCells
	}
	return &sdfxRenderer{shape: sdfxShape{s: s}, cells: meshCells}, nil
}

func (r *sdfxRenderer) ReadTriangles(dst []Triangle3) (int, error) {
	if !r.rendered {
		r.rendered = true
		tris := render.ToTriangles(r.shape, render.NewMarchingCubesUniform(r.cells))
		r.out.buf = make([]Triangle3, 0, len(tris))
		for _, tri := range tris {
			t := Triangle3{fromV3(tri[0]), fromV3(tri[1]), fromV3(tri[2])}
			if !t.Degenerate(0) {
				r.out.buf = append(r.out.buf, t)
			}
		}
	}
	if r.out.Len() == 0 {
		return 0, io.EOF
	}
	return r.out.Read(dst), nil
}

func fromV3(v v3.Vec) r3.Vec {
	return r3.Vec{X: v.X, Y: v.Y, Z: v.Z}
}
