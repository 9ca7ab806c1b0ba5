package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ironsheep/challenge-layout/internal/config"
	"github.com/ironsheep/challenge-layout/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

var (
	// Global flags
	verbose     bool
	weightsPath string
	modelConfig string
	debugDir    string
	timeout     time.Duration

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "challenge-layout",
	Short: "Detect the layout of grid-selection challenge screenshots",
	Long: `challenge-layout finds the instruction area, the body area, the tile grid and
the ball markers of a challenge screenshot.

Detection tries the learned model first and falls back to edge and contour
analysis, then to a uniform 3x3 grid, so every readable image gets a layout.

Settings come from LAYOUT_* environment variables or a .env file; flags win.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}
		applyFlags(cmd)

		// Logs go to stderr; stdout carries results and the MCP protocol.
		zcfg := zap.NewProductionConfig()
		level, err := zapcore.ParseLevel(cfg.LogLevel)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", config.EnvLogLevel, cfg.LogLevel, err)
		}
		if verbose {
			level = zapcore.DebugLevel
		}
		zcfg.Level = zap.NewAtomicLevelAt(level)
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "challenge-layout %s\n", Version)
		fmt.Fprintf(out, "  Build time: %s\n", BuildTime)
		fmt.Fprintf(out, "  Git commit: %s\n", GitCommit)
	},
}

// applyFlags lets explicitly set flags override the loaded configuration.
func applyFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	if flags.Changed("weights") {
		cfg.WeightsPath = weightsPath
	}
	if flags.Changed("model-config") {
		cfg.ModelConfigPath = modelConfig
	}
	if flags.Changed("debug-dir") {
		cfg.DebugDir = debugDir
	}
}

func init() {
	server.Version = Version

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&weightsPath, "weights", config.DefaultWeightsPath, "Detector weights (ONNX)")
	rootCmd.PersistentFlags().StringVar(&modelConfig, "model-config", config.DefaultModelConfig, "Detector category list (YAML)")
	rootCmd.PersistentFlags().StringVar(&debugDir, "debug-dir", config.DefaultDebugDir, "Directory for structure_debug.json (empty disables)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", time.Minute, "Per-image detection timeout")

	rootCmd.AddCommand(detectCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
