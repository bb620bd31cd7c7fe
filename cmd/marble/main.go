// Command marble generates 3D printable marble track pieces.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/soypat/marble/internal/config"
	"github.com/soypat/marble/internal/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Global flags
	configPath string
	verbose    bool
	logFile    string

	cfg    config.Config
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "marble",
	Short: "marble generates 3D printable marble track pieces",
	Long: `marble samples an overhand knot curve, fits a spline through it, adds
straight lead-in and lead-out lines and sweeps a track profile along the
result to produce a printable solid.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		opts := logging.Options{Verbose: cfg.Logging.Verbose || verbose, File: cfg.Logging.File}
		if logFile != "" {
			opts.File = logFile
		}
		logger, err = logging.New(opts)
		if err != nil {
			return err
		}
		logger.Debug("loaded configuration", zap.String("path", configPath), zap.String("profile", cfg.Profile.Kind))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML configuration file (default: built in defaults)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Also write JSON logs to this rotated file")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(overviewCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}
