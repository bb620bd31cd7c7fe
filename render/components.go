package render

import (
	"math"

	"github.com/soypat/marble/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// Components returns the number of connected bodies in the mesh. Triangles
// are connected when they share a vertex, vertices being equal when they
// fall in the same tol sized grid cell.
func Components(model []Triangle3, tol float64) int {
	if len(model) == 0 {
		return 0
	}
	if tol <= 0 {
		tol = 1e-9
	}
	ids := make(map[[3]int64]int, len(model))
	var uf unionFind
	vid := func(v r3.Vec) int {
		k := [3]int64{
			int64(math.Round(v.X / tol)),
			int64(math.Round(v.Y / tol)),
			int64(math.Round(v.Z / tol)),
		}
		if id, ok := ids[k]; ok {
			return id
		}
		id := uf.add()
		ids[k] = id
		return id
	}
	for _, t := range model {
		a, b, c := vid(t[0]), vid(t[1]), vid(t[2])
		uf.union(a, b)
		uf.union(b, c)
	}
	return uf.sets
}

// MeshBounds returns the bounding box of the mesh vertices.
func MeshBounds(model []Triangle3) r3.Box {
	if len(model) == 0 {
		return r3.Box{}
	}
	bb := r3.Box{Min: model[0][0], Max: model[0][0]}
	for _, t := range model {
		for _, v := range t {
			bb.Min = d3.MinElem(bb.Min, v)
			bb.Max = d3.MaxElem(bb.Max, v)
		}
	}
	return bb
}

type unionFind struct {
	parent []int
	rank   []uint8
	sets   int
}

func (u *unionFind) add() int {
	u.parent = append(u.parent, len(u.parent))
	u.rank = append(u.rank, 0)
	u.sets++
	return len(u.parent) - 1
}

func (u *unionFind) find(i int) int {
	for u.parent[i] != i {
		u.parent[i] = u.parent[u.parent[i]]
		i = u.parent[i]
	}
	return i
}

func (u *unionFind) union(a, b int) {
	ra, rb := u.find(a), u.find(b)
	if ra == rb {
		return
	}
	switch {
	case u.rank[ra] < u.rank[rb]:
		ra, rb = rb, ra
	case u.rank[ra] == u.rank[rb]:
		u.rank[ra]++
	}
	u.parent[rb] = ra
	u.sets--
}

// MeshVolume returns the signed volume enclosed by a closed mesh. It is
// positive when triangles face outward.
func MeshVolume(model []Triangle3) float64 {
	var v float64
	for _, t := range model {
		v += r3.Dot(t[0], r3.Cross(t[1], t[2]))
	}
	return v / 6
}
