package render

import (
	"io"
	"math"

	"github.com/soypat/marble"
	"github.com/soypat/marble/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// octree renders using marching tetrahedra with octree space sampling.
type octree struct {
	dc        dc3
	todo      []cube
	unwritten triangle3Buffer
}

type cube struct {
	marble.V3i      // origin of cube as integers
	n          uint // level of cube, size = 1 << n
}

// cubeCorners are the integer offsets of a level 1 cube's corners.
var cubeCorners = [8]marble.V3i{
	{0, 0, 0}, {2, 0, 0}, {2, 2, 0}, {0, 2, 0},
	{0, 0, 2}, {2, 0, 2}, {2, 2, 2}, {0, 2, 2},
}

// NewOctreeRenderer returns a marching tetrahedra implementation using octree
// cube sampling. meshCells is the amount of cells along the longest axis
// of the SDF3's bounding box.
//
// The todo cube slice leaks while rendering. This is faster and simpler than a queue
// and the renderer is short lived.
func NewOctreeRenderer(s marble.SDF3, meshCells int) (Renderer, error) {
	if meshCells < 2 {
		return nil, errBadMeshCells
	}
	bb := d3.Box(s.Bounds())
	if !d3.IsFinite(bb.Min) || !d3.IsFinite(bb.Max) || d3.Max(bb.Size()) <= 0 {
		return nil, errBadBounds
	}
	// Scale the bounding box about the center to make sure the boundaries
	// aren't on the object surface.
	bb = bb.ScaleAboutCenter(1.01)
	longAxis := d3.Max(bb.Size())
	// We want to test the smallest cube (side == resolution) for emptiness
	// so the level = 0 cube is at half resolution.
	resolution := 0.5 * longAxis / float64(meshCells)

	// how many cube levels for the octree?
	levels := uint(math.Ceil(math.Log2(longAxis/resolution))) + 1

	divisions := r3.Scale(1/resolution, bb.Size())
	maxCubes := int(divisions.X) * int(divisions.Y) * int(divisions.Z)

	cubes := make([]cube, 1, max(1, maxCubes/64))
	cubes[0] = cube{marble.V3i{0, 0, 0}, levels - 1} // process the octree, start at the top level
	return &octree{
		dc:        *newDc3(s, bb.Min, resolution, levels),
		unwritten: triangle3Buffer{buf: make([]Triangle3, 0, 1024)},
		todo:      cubes,
	}, nil
}

// ReadTriangles writes triangles rendered from the model into the argument buffer.
// returns number of triangles written and an error if present.
func (oc *octree) ReadTriangles(dst []Triangle3) (n int, err error) {
	if len(dst) == 0 {
		panic("cannot write to empty triangle slice")
	}
	if oc.unwritten.Len() > 0 {
		n += oc.unwritten.Read(dst[n:])
		if n == len(dst) {
			return n, nil
		}
	}
	if len(oc.todo) == 0 && oc.unwritten.Len() == 0 {
		// Done rendering model.
		return n, io.EOF
	}
	n += oc.readTriangles(dst[n:])
	return n, nil
}

// readTriangles processes pending cubes until dst is full or there are no more cubes.
func (oc *octree) readTriangles(dst []Triangle3) (n int) {
	cubesProcessed := 0
	var newCubes []cube
	for _, cube := range oc.todo {
		if n == len(dst) {
			break
		}
		if n+marchingCubesMaxTriangles > len(dst) {
			// Not enough room in buffer for the worst case cube.
			var tmp [marchingCubesMaxTriangles]Triangle3
			tri, cubes := oc.processCube(tmp[:], cube)
			oc.unwritten.Write(tmp[:tri])
			newCubes = append(newCubes, cubes...)
			cubesProcessed++
			break
		}
		tri, cubes := oc.processCube(dst[n:], cube)
		newCubes = append(newCubes, cubes...)
		cubesProcessed++
		n += tri
	}
	oc.todo = append(oc.todo, newCubes...)
	oc.todo = oc.todo[cubesProcessed:]
	return n
}

// Process a cube. Generate triangles, or more cubes.
func (oc *octree) processCube(dst []Triangle3, c cube) (writtenTriangles int, newCubes []cube) {
	if c.n == 1 {
		// this cube is at the required resolution
		var corners cubeSample
		for i, off := range cubeCorners {
			k := c.Add(off)
			corners.key[i] = k
			corners.pos[i], corners.dist[i] = oc.dc.Evaluate(k)
		}
		writtenTriangles = mtToTriangles(dst, &corners)
		return writtenTriangles, nil
	}
	// process the sub cubes
	n := c.n - 1
	s := 1 << n
	subCubes := [8]cube{
		{c.Add(marble.V3i{0, 0, 0}), n},
		{c.Add(marble.V3i{s, 0, 0}), n},
		{c.Add(marble.V3i{s, s, 0}), n},
		{c.Add(marble.V3i{0, s, 0}), n},
		{c.Add(marble.V3i{0, 0, s}), n},
		{c.Add(marble.V3i{s, 0, s}), n},
		{c.Add(marble.V3i{s, s, s}), n},
		{c.Add(marble.V3i{0, s, s}), n},
	}
	// Eliminate empty cubes.
	for _, candidate := range subCubes {
		if !oc.dc.IsEmpty(&candidate) {
			newCubes = append(newCubes, candidate)
		}
	}
	return 0, newCubes
}

// dc3 is a 3 dimensional distance cache. Corners are shared by up to
// eight cubes so caching avoids repeated SDF evaluations.
type dc3 struct {
	cache      map[marble.V3i]float64
	origin     r3.Vec      // origin of the overall bounding cube
	resolution float64     // size of smallest octree cube
	hdiag      []float64   // lookup table of cube half diagonals
	s          marble.SDF3 // the SDF3 to be rendered
}

// Evaluate returns the position of the integer coordinate vi and the SDF
// value there.
func (dc *dc3) Evaluate(vi marble.V3i) (r3.Vec, float64) {
	v := r3.Add(dc.origin, r3.Scale(dc.resolution, vi.ToV3()))
	dist, found := dc.cache[vi]
	if found {
		return v, dist
	}
	dist = dc.s.Evaluate(v)
	dc.cache[vi] = dist
	return v, dist
}

// IsEmpty returns true if the cube contains no SDF surface
func (dc *dc3) IsEmpty(c *cube) bool {
	// evaluate the SDF3 at the center of the cube
	s := 1 << (c.n - 1) // half side
	_, d := dc.Evaluate(c.AddScalar(s))
	// compare to the center/corner distance
	return math.Abs(d) >= dc.hdiag[c.n]
}

func newDc3(s marble.SDF3, origin r3.Vec, resolution float64, n uint) *dc3 {
	if n >= 64 {
		panic("size of n must be less than size of word for hdiag generation")
	}
	dc := dc3{
		origin:     origin,
		resolution: resolution,
		hdiag:      make([]float64, n),
		s:          s,
		cache:      make(map[marble.V3i]float64),
	}
	// build a lut for cube half diagonal lengths
	for i := range dc.hdiag {
		si := 1 << uint(i)
		s := float64(si) * dc.resolution
		dc.hdiag[i] = 0.5 * math.Sqrt(3.0*s*s)
	}
	return &dc
}
