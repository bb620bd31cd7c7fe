package main

import (
	"fmt"
	"time"

	"github.com/soypat/marble/form2"
	"github.com/soypat/marble/render"
	"github.com/soypat/marble/track"
	"github.com/soypat/marble/view"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var generateOut outputFlags

// outputFlags override the configured output files.
type outputFlags struct {
	stl, threemf, png, chart string
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Sweep the configured profile along the knot path and write the solid",
	RunE: func(cmd *cobra.Command, args []string) error {
		tc, err := cfg.TrackConfig()
		if err != nil {
			return err
		}
		b, err := track.NewBuilder(tc, logger)
		if err != nil {
			return err
		}
		solid, err := b.Build(cmd.Context())
		if err != nil {
			return err
		}
		return writeSolid(solid, pick(generateOut.stl, cfg.Output.STL), pick(generateOut.threemf, cfg.Output.ThreeMF),
			pick(generateOut.png, cfg.Output.PNG), pick(generateOut.chart, cfg.Output.Chart))
	},
}

var overviewCmd = &cobra.Command{
	Use:   "overview [kind...]",
	Short: "Sweep several profiles along the same arc, stacked side by side",
	RunE: func(cmd *cobra.Command, args []string) error {
		tc, err := cfg.TrackConfig()
		if err != nil {
			return err
		}
		b, err := track.NewBuilder(tc, logger)
		if err != nil {
			return err
		}
		kinds := form2.ProfileKinds()
		if len(args) > 0 {
			kinds = kinds[:0:0]
			for _, a := range args {
				kinds = append(kinds, form2.ProfileKind(a))
			}
		}
		solid, err := b.Overview(cmd.Context(), kinds)
		if err != nil {
			return err
		}
		return writeSolid(solid, pick(generateOut.stl, "overview.stl"), generateOut.threemf, generateOut.png, "")
	},
}

func init() {
	for _, c := range []*cobra.Command{generateCmd, overviewCmd} {
		c.Flags().StringVarP(&generateOut.stl, "out", "o", "", "STL output file")
		c.Flags().StringVar(&generateOut.threemf, "3mf", "", "3MF output file")
		c.Flags().StringVar(&generateOut.png, "png", "", "PNG preview output file")
	}
	generateCmd.Flags().StringVar(&generateOut.chart, "chart", "", "path chart output file (png, svg or pdf)")
}

func writeSolid(solid *track.Solid, stl, threemf, png, chart string) error {
	start := time.Now()
	bb := render.MeshBounds(solid.Mesh)
	logger.Info("solid ready",
		zap.Int("triangles", len(solid.Mesh)),
		zap.Float64("volume", render.MeshVolume(solid.Mesh)),
		zap.Float64("sizeX", bb.Max.X-bb.Min.X),
		zap.Float64("sizeY", bb.Max.Y-bb.Min.Y),
		zap.Float64("sizeZ", bb.Max.Z-bb.Min.Z),
	)
	if stl != "" {
		if err := render.CreateSTL(stl, solid.Renderer()); err != nil {
			return fmt.Errorf("writing STL: %w", err)
		}
		logger.Info("wrote STL", zap.String("file", stl))
	}
	if threemf != "" {
		if err := render.Create3MF(threemf, solid.Renderer()); err != nil {
			return fmt.Errorf("writing 3MF: %w", err)
		}
		logger.Info("wrote 3MF", zap.String("file", threemf))
	}
	// Previews are fire and forget: failures are logged, not returned.
	if png != "" {
		if err := view.SavePNG(png, solid.Mesh, view.DefaultCamera()); err != nil {
			logger.Warn("preview failed", zap.String("file", png), zap.Error(err))
		} else {
			logger.Info("wrote preview", zap.String("file", png))
		}
	}
	if chart != "" {
		if err := view.PathChart(chart, solid.Path); err != nil {
			logger.Warn("path chart failed", zap.String("file", chart), zap.Error(err))
		} else {
			logger.Info("wrote path chart", zap.String("file", chart))
		}
	}
	logger.Debug("outputs written", zap.Duration("elapsed", time.Since(start)))
	return nil
}

func pick(flag, configured string) string {
	if flag != "" {
		return flag
	}
	return configured
}
