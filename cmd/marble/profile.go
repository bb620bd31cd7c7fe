package main

import (
	"fmt"
	"os"

	"github.com/soypat/marble/form2"
	"github.com/soypat/marble/sketch"
	"github.com/soypat/marble/track"
	"github.com/soypat/marble/view"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var profileOut struct {
	kind, svg, dxf, chart string
	scale                 float64
}

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Export the configured track profile as SVG, DXF or a chart",
	RunE: func(cmd *cobra.Command, args []string) error {
		tc, err := cfg.TrackConfig()
		if err != nil {
			return err
		}
		if profileOut.kind != "" {
			tc.Profile = form2.ProfileKind(profileOut.kind)
		}
		b, err := track.NewBuilder(tc, logger)
		if err != nil {
			return err
		}
		p, err := b.Profile()
		if err != nil {
			return err
		}
		svgPath, dxfPath := pick(profileOut.svg, cfg.Output.SVG), pick(profileOut.dxf, cfg.Output.DXF)
		if svgPath == "" && dxfPath == "" && profileOut.chart == "" {
			return fmt.Errorf("no output: pass --svg, --dxf or --chart")
		}
		if svgPath != "" {
			f, err := os.Create(svgPath)
			if err != nil {
				return err
			}
			if err := sketch.WriteSVG(f, p.Outlines, profileOut.scale); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			logger.Info("wrote SVG", zap.String("file", svgPath), zap.String("kind", string(p.Kind)))
		}
		if dxfPath != "" {
			if err := sketch.SaveDXF(dxfPath, p.Outlines); err != nil {
				return err
			}
			logger.Info("wrote DXF", zap.String("file", dxfPath), zap.String("kind", string(p.Kind)))
		}
		if profileOut.chart != "" {
			if err := view.ProfileChart(profileOut.chart, p.Outlines); err != nil {
				return err
			}
			logger.Info("wrote profile chart", zap.String("file", profileOut.chart))
		}
		return nil
	},
}

func init() {
	profileCmd.Flags().StringVar(&profileOut.kind, "kind", "", "profile kind, overrides the configured one")
	profileCmd.Flags().StringVar(&profileOut.svg, "svg", "", "SVG output file")
	profileCmd.Flags().StringVar(&profileOut.dxf, "dxf", "", "DXF output file")
	profileCmd.Flags().StringVar(&profileOut.chart, "chart", "", "chart output file (png, svg or pdf)")
	profileCmd.Flags().Float64Var(&profileOut.scale, "scale", 10, "SVG pixels per millimetre")
}
