package must2

import (
	"fmt"
	"math"

	"github.com/soypat/marble/internal/d2"
	"gonum.org/v1/gonum/spatial/r2"
)

// polygon is an SDF2 made from a closed set of line segments.
type polygon struct {
	vertex []r2.Vec  // vertices
	vector []r2.Vec  // unit line vectors
	length []float64 // line lengths
	bb     r2.Box    // bounding box
}

// Polygon returns an SDF2 made from a closed set of line segments.
// The loop is closed if the last vertex does not match the first one.
func Polygon(vertex []r2.Vec) *polygon {
	n := len(vertex)
	if n < 3 {
		panic("number of vertices < 3")
	}
	s := polygon{}
	s.vertex = append([]r2.Vec(nil), vertex...)
	if !d2.EqualWithin(vertex[0], vertex[n-1], tolerance) {
		s.vertex = append(s.vertex, vertex[0])
	}

	// pre-calculated line segment info
	nsegs := len(s.vertex) - 1
	s.vector = make([]r2.Vec, nsegs)
	s.length = make([]float64, nsegs)
	for i := 0; i < nsegs; i++ {
		l := r2.Sub(s.vertex[i+1], s.vertex[i])
		s.length[i] = r2.Norm(l)
		if s.length[i] <= tolerance {
			panic(fmt.Sprintf("zero length polygon edge %d", i))
		}
		s.vector[i] = r2.Unit(l)
	}
	set := d2.Set(s.vertex)
	s.bb = r2.Box{Min: set.Min(), Max: set.Max()}
	return &s
}

// Evaluate returns the minimum distance for a 2d polygon.
func (s *polygon) Evaluate(p r2.Vec) float64 {
	dd := math.MaxFloat64 // d^2 to polygon (>0)
	wn := 0               // winding number (inside/outside)

	nsegs := len(s.vertex) - 1
	pb := r2.Sub(p, s.vertex[0])

	for i := 0; i < nsegs; i++ {
		a := s.vertex[i]
		b := s.vertex[i+1]

		pa := pb
		pb = r2.Sub(p, b)

		t := r2.Dot(pa, s.vector[i])                                  // t-parameter of projection onto line
		dn := r2.Dot(pa, r2.Vec{X: s.vector[i].Y, Y: -s.vector[i].X}) // normal distance from p to line

		// Distance to line segment
		if t < 0 {
			dd = math.Min(dd, r2.Norm2(pa))
		} else if t > s.length[i] {
			dd = math.Min(dd, r2.Norm2(pb))
		} else {
			dd = math.Min(dd, dn*dn)
		}

		// See: http://geomalgorithms.com/a03-_inclusion.html
		if a.Y <= p.Y {
			if b.Y > p.Y && dn < 0 { // upward crossing, p left of segment
				wn++
			}
		} else if b.Y <= p.Y && dn > 0 { // downward crossing, p right of segment
			wn--
		}
	}

	d := math.Sqrt(dd)
	if wn != 0 {
		return -d
	}
	return d
}

// Bounds returns the bounding box of a 2d polygon.
func (s *polygon) Bounds() r2.Box {
	return s.bb
}

// Vertices returns the closed vertex loop of the polygon, last equal to first.
func (s *polygon) Vertices() []r2.Vec {
	return s.vertex
}

// PolygonBuilder stores a set of 2d polygon vertices.
type PolygonBuilder struct {
	closed bool     // is the polygon closed or open?
	vlist  []r2.Vec // list of polygon vertices
}

// NewPolygon returns an empty polygon.
func NewPolygon() *PolygonBuilder {
	return &PolygonBuilder{}
}

// Add an x,y vertex to a polygon.
func (p *PolygonBuilder) Add(x, y float64) *PolygonBuilder {
	return p.AddV2(r2.Vec{X: x, Y: y})
}

// AddV2 adds a vertex to a polygon.
func (p *PolygonBuilder) AddV2(v r2.Vec) *PolygonBuilder {
	p.vlist = append(p.vlist, v)
	return p
}

// Close closes the polygon: Vertices repeats the first vertex at the end.
func (p *PolygonBuilder) Close() *PolygonBuilder {
	p.closed = true
	return p
}

// Vertices returns the vertices of the polygon.
func (p *PolygonBuilder) Vertices() []r2.Vec {
	if p.vlist == nil {
		panic("nil vertex list. was PolygonBuilder initialized?")
	}
	n := len(p.vlist)
	v := make([]r2.Vec, n, n+1)
	copy(v, p.vlist)
	if p.closed && !d2.EqualWithin(v[0], v[n-1], tolerance) {
		v = append(v, v[0])
	}
	return v
}

// SelfIntersection returns the indices of the first pair of non-adjacent
// edges of the closed loop vertex that touch or cross. ok is false if the loop is simple.
func SelfIntersection(vertex []r2.Vec) (i, j int, ok bool) {
	nsegs := len(vertex) - 1
	for i = 0; i < nsegs; i++ {
		for j = i + 1; j < nsegs; j++ {
			if j == i+1 || (i == 0 && j == nsegs-1) {
				// adjacent edges share a vertex.
				continue
			}
			if segmentsIntersect(vertex[i], vertex[i+1], vertex[j], vertex[j+1]) {
				return i, j, true
			}
		}
	}
	return 0, 0, false
}

func segmentsIntersect(a, b, c, d r2.Vec) bool {
	o1 := orient(a, b, c)
	o2 := orient(a, b, d)
	o3 := orient(c, d, a)
	o4 := orient(c, d, b)
	if o1*o2 < 0 && o3*o4 < 0 {
		return true
	}
	return (o1 == 0 && onSegment(a, b, c)) ||
		(o2 == 0 && onSegment(a, b, d)) ||
		(o3 == 0 && onSegment(c, d, a)) ||
		(o4 == 0 && onSegment(c, d, b))
}

// orient returns the sign of the turn a->b->c, zero for collinear points.
func orient(a, b, c r2.Vec) float64 {
	v := r2.Cross(r2.Sub(b, a), r2.Sub(c, a))
	if math.Abs(v) <= tolerance {
		return 0
	}
	return math.Copysign(1, v)
}

// onSegment reports whether collinear point p lies within the a-b segment.
func onSegment(a, b, p r2.Vec) bool {
	return p.X <= math.Max(a.X, b.X)+tolerance && p.X >= math.Min(a.X, b.X)-tolerance &&
		p.Y <= math.Max(a.Y, b.Y)+tolerance && p.Y >= math.Min(a.Y, b.Y)-tolerance
}
