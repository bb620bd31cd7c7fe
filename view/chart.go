package view

import (
	"fmt"
	"image/color"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// chartSize is the side of saved charts.
const chartSize = 12 * vg.Centimeter

// PathChart plots the XY and XZ projections of a path. The file format
// follows the extension of path (png, svg, pdf...).
func PathChart(filename string, pts []r3.Vec) error {
	if len(pts) < 2 {
		return fmt.Errorf("path chart needs 2 points, got %d", len(pts))
	}
	xy := make(plotter.XYs, len(pts))
	xz := make(plotter.XYs, len(pts))
	for i, p := range pts {
		xy[i] = plotter.XY{X: p.X, Y: p.Y}
		xz[i] = plotter.XY{X: p.X, Y: p.Z}
	}
	p := plot.New()
	p.Title.Text = "Track path"
	p.X.Label.Text = "X [mm]"
	p.Y.Label.Text = "Y, Z [mm]"
	p.Add(plotter.NewGrid())
	for _, s := range []struct {
		name string
		xys  plotter.XYs
		c    color.Color
	}{
		{name: "XY", xys: xy, c: color.RGBA{R: 0x46, G: 0x89, B: 0x66, A: 0xff}},
		{name: "XZ", xys: xz, c: color.RGBA{R: 0xb6, G: 0x49, B: 0x26, A: 0xff}},
	} {
		l, err := plotter.NewLine(s.xys)
		if err != nil {
			return err
		}
		l.Color = s.c
		p.Add(l)
		p.Legend.Add(s.name, l)
	}
	return p.Save(chartSize, chartSize, filename)
}

// ProfileChart plots the outlines of a profile.
func ProfileChart(filename string, outlines [][]r2.Vec) error {
	if len(outlines) == 0 {
		return fmt.Errorf("no profile outlines")
	}
	p := plot.New()
	p.Title.Text = "Track profile"
	p.X.Label.Text = "X [mm]"
	p.Y.Label.Text = "Y [mm]"
	p.Add(plotter.NewGrid())
	for _, o := range outlines {
		xys := make(plotter.XYs, len(o))
		for i, v := range o {
			xys[i] = plotter.XY{X: v.X, Y: v.Y}
		}
		l, s, err := plotter.NewLinePoints(xys)
		if err != nil {
			return err
		}
		s.Radius = vg.Points(2)
		p.Add(l, s)
	}
	// Equal axes so the profile is not distorted.
	lo := min(p.X.Min, p.Y.Min)
	hi := max(p.X.Max, p.Y.Max)
	p.X.Min, p.Y.Min = lo, lo
	p.X.Max, p.Y.Max = hi, hi
	return p.Save(chartSize, chartSize, filename)
}
