package render

import (
	"errors"

	"github.com/soypat/marble"
	"gonum.org/v1/gonum/spatial/r3"
)

// marchingCubesMaxTriangles is the most triangles a single cube can yield:
// two per tetrahedron.
const marchingCubesMaxTriangles = 2 * len(cubeTetrahedra)

// snapTol snaps edge intersections near a corner onto the corner.
const snapTol = 1e-3

var (
	errBadMeshCells = errors.New("meshCells must be 2 or larger")
	errBadBounds    = errors.New("SDF3 bounds are empty or not finite")
)

// cubeTetrahedra splits a cube into six tetrahedra sharing the 0-6 diagonal.
// Face diagonals of neighbouring cubes match so the mesh is watertight.
var cubeTetrahedra = [6][4]uint8{
	{0, 5, 1, 6},
	{0, 1, 2, 6},
	{0, 2, 3, 6},
	{0, 3, 7, 6},
	{0, 7, 4, 6},
	{0, 4, 5, 6},
}

type cubeSample struct {
	key  [8]marble.V3i
	pos  [8]r3.Vec
	dist [8]float64
}

// mtToTriangles polygonizes the sampled cube into dst and returns the
// number of triangles written. dst must have room for marchingCubesMaxTriangles.
func mtToTriangles(dst []Triangle3, c *cubeSample) int {
	n := 0
	for _, tet := range cubeTetrahedra {
		var in, out [4]uint8
		var nin, nout int
		for _, v := range tet {
			if c.dist[v] < 0 {
				in[nin] = v
				nin++
			} else {
				out[nout] = v
				nout++
			}
		}
		switch nin {
		case 0, 4:
			continue
		case 1:
			n += emit(dst[n:], c, in[:1], out[:3],
				c.edge(in[0], out[0]), c.edge(in[0], out[1]), c.edge(in[0], out[2]))
		case 3:
			n += emit(dst[n:], c, in[:3], out[:1],
				c.edge(out[0], in[0]), c.edge(out[0], in[1]), c.edge(out[0], in[2]))
		case 2:
			a, b := in[0], in[1]
			p, q := out[0], out[1]
			ap, aq := c.edge(a, p), c.edge(a, q)
			bq, bp := c.edge(b, q), c.edge(b, p)
			n += emit(dst[n:], c, in[:2], out[:2], ap, aq, bq)
			n += emit(dst[n:], c, in[:2], out[:2], ap, bq, bp)
		}
	}
	return n
}

// emit writes the triangle (a,b,c) facing from the inside corners to the
// outside corners. Degenerate triangles are dropped.
func emit(dst []Triangle3, c *cubeSample, in, out []uint8, a, b, v r3.Vec) int {
	t := Triangle3{a, b, v}
	if t.Degenerate(0) {
		return 0
	}
	dir := r3.Sub(centroid(c, out), centroid(c, in))
	if r3.Dot(r3.Cross(r3.Sub(b, a), r3.Sub(v, a)), dir) < 0 {
		t[1], t[2] = t[2], t[1]
	}
	dst[0] = t
	return 1
}

func centroid(c *cubeSample, idx []uint8) (p r3.Vec) {
	for _, i := range idx {
		p = r3.Add(p, c.pos[i])
	}
	return r3.Scale(1/float64(len(idx)), p)
}

// edge returns the surface crossing on the edge between corners i and j.
// Corners are ordered by integer key so that cubes sharing the edge
// compute the exact same point.
func (c *cubeSample) edge(i, j uint8) r3.Vec {
	if c.key[j].Less(c.key[i]) {
		i, j = j, i
	}
	d0, d1 := c.dist[i], c.dist[j]
	t := d0 / (d0 - d1)
	switch {
	case t < snapTol:
		return c.pos[i]
	case t > 1-snapTol:
		return c.pos[j]
	}
	return r3.Add(c.pos[i], r3.Scale(t, r3.Sub(c.pos[j], c.pos[i])))
}
