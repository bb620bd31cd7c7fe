package curve

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r3"
)

// Flatten discretizes c into a polyline whose segments are no longer than
// maxSeg. Wires are flattened piece by piece so that every joint between
// curves is a vertex of the result. Consecutive duplicate points are dropped.
func Flatten(c Curve, maxSeg float64) ([]r3.Vec, error) {
	if !(maxSeg > 0) || math.IsInf(maxSeg, 0) {
		return nil, fmt.Errorf("bad maximum segment length %g: %w", maxSeg, ErrDegenerate)
	}
	var pts []r3.Vec
	if w, ok := c.(*Wire); ok {
		for _, piece := range w.Curves() {
			sub, err := Flatten(piece, maxSeg)
			if err != nil {
				return nil, err
			}
			pts = appendDistinct(pts, sub...)
		}
	} else {
		l := c.Length()
		if !(l > tolerance) {
			return nil, fmt.Errorf("flatten curve of length %g: %w", l, ErrDegenerate)
		}
		n := int(math.Ceil(l/maxSeg)) + 1
		ts := floats.Span(make([]float64, n), 0, 1)
		for _, t := range ts {
			pts = appendDistinct(pts, c.PointAt(t))
		}
	}
	if len(pts) < 2 {
		return nil, fmt.Errorf("flattened curve has %d points: %w", len(pts), ErrDegenerate)
	}
	return pts, nil
}

func appendDistinct(dst []r3.Vec, pts ...r3.Vec) []r3.Vec {
	for _, p := range pts {
		if len(dst) > 0 && r3.Norm(r3.Sub(p, dst[len(dst)-1])) <= tolerance {
			continue
		}
		dst = append(dst, p)
	}
	return dst
}

// PolylineLength returns the summed length of the polyline segments.
func PolylineLength(pts []r3.Vec) float64 {
	var l float64
	for i := 1; i < len(pts); i++ {
		l += r3.Norm(r3.Sub(pts[i], pts[i-1]))
	}
	return l
}

// MinRadius returns the smallest radius of curvature of a polyline, computed
// as the circumradius of each three consecutive vertices. Straight runs and
// polylines with fewer than three points have infinite radius.
func MinRadius(pts []r3.Vec) float64 {
	minR := math.Inf(1)
	for i := 1; i+1 < len(pts); i++ {
		a := r3.Sub(pts[i], pts[i-1])
		b := r3.Sub(pts[i+1], pts[i])
		cross := r3.Norm(r3.Cross(a, b))
		if cross <= tolerance*tolerance {
			if r3.Dot(a, b) < 0 {
				// Path folds back on itself.
				return 0
			}
			continue
		}
		r := r3.Norm(a) * r3.Norm(b) * r3.Norm(r3.Add(a, b)) / (2 * cross)
		minR = math.Min(minR, r)
	}
	return minR
}

// MaxTurn returns the largest angle in radians between consecutive segments
// of a polyline.
func MaxTurn(pts []r3.Vec) float64 {
	var maxAngle float64
	for i := 1; i+1 < len(pts); i++ {
		a := r3.Unit(r3.Sub(pts[i], pts[i-1]))
		b := r3.Unit(r3.Sub(pts[i+1], pts[i]))
		cos := math.Max(-1, math.Min(1, r3.Dot(a, b)))
		maxAngle = math.Max(maxAngle, math.Acos(cos))
	}
	return maxAngle
}
