// Package sketch exports track profile outlines as 2D drawings.
package sketch

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	svg "github.com/ajstarks/svgo"
	"github.com/yofu/dxf"
	"gonum.org/v1/gonum/spatial/r2"
)

var errNoOutline = errors.New("no outline to draw")

// SaveDXF writes the closed outlines as line entities on a "profile" layer
// of a DXF drawing. Units are millimetres.
func SaveDXF(path string, outlines [][]r2.Vec) error {
	if err := check(outlines); err != nil {
		return err
	}
	d := dxf.NewDrawing()
	if _, err := d.AddLayer("profile", dxf.DefaultColor, dxf.DefaultLineType, true); err != nil {
		return err
	}
	for _, o := range outlines {
		for i := 1; i < len(o); i++ {
			a, b := o[i-1], o[i]
			if _, err := d.Line(a.X, a.Y, 0, b.X, b.Y, 0); err != nil {
				return err
			}
		}
	}
	return d.SaveAs(path)
}

// WriteSVG draws the outlines filled with the even-odd rule, so inner
// outlines are holes. scale is pixels per millimetre.
func WriteSVG(w io.Writer, outlines [][]r2.Vec, scale float64) error {
	if err := check(outlines); err != nil {
		return err
	}
	if !(scale > 0) {
		return fmt.Errorf("svg scale %g must be positive", scale)
	}
	const margin = 1.0 // mm
	bb := r2.Box{Min: outlines[0][0], Max: outlines[0][0]}
	for _, o := range outlines {
		for _, v := range o {
			bb.Min = r2.Vec{X: math.Min(bb.Min.X, v.X), Y: math.Min(bb.Min.Y, v.Y)}
			bb.Max = r2.Vec{X: math.Max(bb.Max.X, v.X), Y: math.Max(bb.Max.Y, v.Y)}
		}
	}
	width := int(math.Ceil((bb.Max.X - bb.Min.X + 2*margin) * scale))
	height := int(math.Ceil((bb.Max.Y - bb.Min.Y + 2*margin) * scale))
	// SVG Y axis points down.
	px := func(v r2.Vec) (float64, float64) {
		return (v.X - bb.Min.X + margin) * scale, (bb.Max.Y - v.Y + margin) * scale
	}
	var sb strings.Builder
	for _, o := range outlines {
		for i, v := range o[:len(o)-1] {
			x, y := px(v)
			if i == 0 {
				fmt.Fprintf(&sb, "M%.3f %.3f", x, y)
			} else {
				fmt.Fprintf(&sb, " L%.3f %.3f", x, y)
			}
		}
		sb.WriteString(" Z ")
	}
	canvas := svg.New(w)
	canvas.Start(width, height)
	canvas.Path(strings.TrimSpace(sb.String()), "fill:#468966;fill-rule:evenodd;stroke:#000000;stroke-width:1")
	canvas.End()
	return nil
}

func check(outlines [][]r2.Vec) error {
	if len(outlines) == 0 {
		return errNoOutline
	}
	for i, o := range outlines {
		if len(o) < 2 {
			return fmt.Errorf("outline %d has %d points: %w", i, len(o), errNoOutline)
		}
	}
	return nil
}
