package marble

import (
	"math"

	"github.com/soypat/marble/curve"
	"github.com/soypat/marble/internal/d3"
	"gonum.org/v1/gonum/spatial/kdtree"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

var (
	_ SDF3             = (*sweep3)(nil)
	_ kdtree.Interface = kdMids{}
)

// paths with fewer segments than this are evaluated without the kd-tree.
const bruteForceSegments = 16

// sweep3 is an SDF2 profile swept along a polyline.
type sweep3 struct {
	profile SDF2
	segs    []sweepSegment
	tree    *kdtree.Tree
	// radius of the profile's bounding circle.
	radius float64
	// largest distance from a segment midpoint to the end of its extended axis.
	halfMax float64
	bb      r3.Box
}

type sweepSegment struct {
	a       r3.Vec
	t, n, b r3.Vec
	length  float64
	// longest reach of the mitered ends past the segment ends, along t.
	// Zero at the path ends, which are capped flat.
	ext0, ext1 float64
	// outward normals of the end planes. At interior joints these are the
	// bisector planes shared with the neighbouring segment.
	m0, m1 r3.Vec
}

// Sweep3D sweeps profile along the polyline path. frames must hold one frame
// per path segment as returned by curve.Frames: the profile's X axis follows
// the frame N vector and its Y axis the frame B vector.
// Sweep3D panics if the path has fewer than 2 points or frames do not match it.
func Sweep3D(profile SDF2, path []r3.Vec, frames []curve.Frame) SDF3 {
	if profile == nil {
		panic("nil profile")
	}
	if len(path) < 2 {
		panic("sweep path needs at least 2 points")
	}
	if len(frames) != len(path)-1 {
		panic("need one frame per path segment")
	}
	s := sweep3{
		profile: profile,
		segs:    make([]sweepSegment, len(frames)),
		radius:  BoundingRadius(profile),
	}
	for i, f := range frames {
		l := r3.Norm(r3.Sub(path[i+1], path[i]))
		if l <= 0 {
			panic("zero length sweep segment")
		}
		s.segs[i] = sweepSegment{a: path[i], t: f.T, n: f.N, b: f.B, length: l,
			m0: r3.Scale(-1, f.T), m1: f.T}
	}
	var maxExt float64
	for i := 1; i < len(s.segs); i++ {
		prev, next := &s.segs[i-1], &s.segs[i]
		cos := math.Max(-1, math.Min(1, r3.Dot(prev.t, next.t)))
		theta := math.Acos(cos)
		ext := math.Min(2*s.radius, s.radius*math.Tan(theta/2))
		prev.ext1 = ext
		next.ext0 = ext
		maxExt = math.Max(maxExt, ext)
		if bisector := r3.Add(prev.t, next.t); r3.Norm(bisector) > 1e-9 {
			prev.m1 = r3.Unit(bisector)
			next.m0 = r3.Scale(-1, prev.m1)
		}
	}
	mids := make(kdMids, len(s.segs))
	for i, sg := range s.segs {
		mids[i] = kdMid{v: r3.Add(sg.a, r3.Scale(sg.length/2, sg.t)), i: i}
		s.halfMax = math.Max(s.halfMax, sg.length/2+math.Max(sg.ext0, sg.ext1))
	}
	if len(s.segs) >= bruteForceSegments {
		s.tree = kdtree.New(mids, false)
	}
	s.bb = r3.Box(d3.BoxOf(path).Enlarge(s.radius + maxExt))
	return &s
}

// Evaluate returns the minimum distance to the swept solid.
func (s *sweep3) Evaluate(p r3.Vec) float64 {
	if s.tree == nil {
		d := math.MaxFloat64
		for i := range s.segs {
			d = math.Min(d, s.evaluateSegment(i, p))
		}
		return d
	}
	q := kdMid{v: p}
	got, d2 := s.tree.Nearest(q)
	nearest := got.(kdMid)
	reach := s.halfMax + s.radius
	if lower := math.Sqrt(d2) - reach; lower > 0 {
		// Every segment is at least this far away.
		return lower
	}
	d := s.evaluateSegment(nearest.i, p)
	// Segments whose midpoint lies further than d+reach cannot be closer than d.
	r := d + reach
	keep := kdtree.NewDistKeeper(r * r)
	s.tree.NearestSet(keep, q)
	for _, c := range keep.Heap {
		m, ok := c.Comparable.(kdMid)
		if !ok || m.i == nearest.i {
			continue
		}
		d = math.Min(d, s.evaluateSegment(m.i, p))
	}
	return d
}

// evaluateSegment returns the distance to the profile extruded along segment i
// and clipped by its end planes. Past a miter plane the value is only a lower
// bound, the neighbouring segment owns that side of the joint. Inside, only the
// two path ends are capped so the field does not vanish at interior joints.
func (s *sweep3) evaluateSegment(i int, p r3.Vec) float64 {
	sg := &s.segs[i]
	v := r3.Sub(p, sg.a)
	w := r3.Dot(v, sg.t)
	dp := s.profile.Evaluate(r2.Vec{X: r3.Dot(v, sg.n), Y: r3.Dot(v, sg.b)})
	lo := -sg.ext0 - w
	hi := w - sg.length - sg.ext1
	dm := math.Max(r3.Dot(v, sg.m0), r3.Dot(r3.Sub(v, r3.Scale(sg.length, sg.t)), sg.m1))
	if da := math.Max(lo, hi); da > 0 {
		if dp > 0 {
			da = math.Hypot(dp, da)
		}
		return math.Max(da, dm)
	}
	if i == 0 {
		dp = math.Max(dp, lo)
	}
	if i == len(s.segs)-1 {
		dp = math.Max(dp, hi)
	}
	if dm > 0 {
		return math.Max(dp, dm)
	}
	return dp
}

// Bounds returns the bounding box of the swept solid.
func (s *sweep3) Bounds() r3.Box {
	return s.bb
}

// kdMid is a segment midpoint stored in the sweep's kd-tree.
type kdMid struct {
	v r3.Vec
	i int // segment index
}

type kdMids []kdMid

func (k kdMids) Index(i int) kdtree.Comparable { return k[i] }

// Len returns the length of the list.
func (k kdMids) Len() int { return len(k) }

// Pivot partitions the list based on the dimension specified.
func (k kdMids) Pivot(d kdtree.Dim) int {
	p := kdMidPlane{dim: d, mids: k}
	return kdtree.Partition(p, kdtree.MedianOfMedians(p))
}

// Slice returns a slice of the list using zero-based half
// open indexing equivalent to built-in slice indexing.
func (k kdMids) Slice(start, end int) kdtree.Interface { return k[start:end] }

// Compare returns the signed distance of a from the plane passing through
// b and perpendicular to the dimension d.
func (a kdMid) Compare(b kdtree.Comparable, d kdtree.Dim) float64 {
	return kdMidComp(a, b.(kdMid), d)
}

// Dims returns the number of dimensions described in the Comparable.
func (a kdMid) Dims() int { return 3 }

// Distance returns the squared Euclidean distance between the receiver and
// the parameter.
func (a kdMid) Distance(b kdtree.Comparable) float64 {
	return r3.Norm2(r3.Sub(a.v, b.(kdMid).v))
}

// c = a.dim - b.dim
func kdMidComp(a, b kdMid, d kdtree.Dim) float64 {
	switch d {
	case 0:
		return a.v.X - b.v.X
	case 1:
		return a.v.Y - b.v.Y
	}
	return a.v.Z - b.v.Z
}

type kdMidPlane struct {
	dim  kdtree.Dim
	mids kdMids
}

func (p kdMidPlane) Less(i, j int) bool {
	return kdMidComp(p.mids[i], p.mids[j], p.dim) < 0
}
func (p kdMidPlane) Swap(i, j int) {
	p.mids[i], p.mids[j] = p.mids[j], p.mids[i]
}
func (p kdMidPlane) Len() int {
	return len(p.mids)
}
func (p kdMidPlane) Slice(start, end int) kdtree.SortSlicer {
	p.mids = p.mids[start:end]
	return p
}
