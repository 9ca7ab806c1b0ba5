package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ironsheep/challenge-layout/internal/imaging"
	"github.com/ironsheep/challenge-layout/internal/layout"
	"github.com/ironsheep/challenge-layout/internal/reconcile"
	"github.com/ironsheep/challenge-layout/internal/server"
)

var (
	outputPath    string
	combinedPath  string
	structurePath string
)

var detectCmd = &cobra.Command{
	Use:   "detect [image]",
	Short: "Print the structure of a screenshot as JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runDetect,
}

var renderCmd = &cobra.Command{
	Use:   "render [image]",
	Short: "Draw the detected structure over a screenshot",
	Long: `Detects the structure of the image, or reads it from --structure, and writes an
annotated copy to --out. With --combined a side-by-side comparison of the
original and the annotated image is written as well.`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve detection over MCP on stdin/stdout",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	detectCmd.Flags().StringVarP(&outputPath, "out", "o", "", "Write the JSON here instead of stdout")

	renderCmd.Flags().StringVarP(&outputPath, "out", "o", "", "Annotated image path (required)")
	renderCmd.Flags().StringVar(&combinedPath, "combined", "", "Side-by-side comparison path")
	renderCmd.Flags().StringVar(&structurePath, "structure", "", "Use a saved structure JSON instead of detecting")
	_ = renderCmd.MarkFlagRequired("out")
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

func newDetector() *reconcile.Detector {
	return reconcile.FromConfig(cfg, reconcile.WithLogger(logger))
}

func detect(image string) (*layout.StructureInfo, error) {
	ctx, stop := signalContext()
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	return newDetector().DetectStructure(ctx, image)
}

func runDetect(cmd *cobra.Command, args []string) error {
	structure, err := detect(args[0])
	if err != nil {
		return err
	}

	var out io.Writer = cmd.OutOrStdout()
	if outputPath != "" {
		f, err := os.Create(outputPath)
		if err != nil {
			return fmt.Errorf("failed to create output: %w", err)
		}
		defer f.Close()
		out = f
	}
	return layout.WriteJSON(out, structure)
}

func runRender(cmd *cobra.Command, args []string) error {
	var (
		structure *layout.StructureInfo
		err       error
	)
	if structurePath != "" {
		structure, err = layout.LoadJSON(structurePath)
	} else {
		structure, err = detect(args[0])
	}
	if err != nil {
		return err
	}

	if err := imaging.SaveOverlay(args[0], structure, outputPath, combinedPath); err != nil {
		return err
	}
	logger.Info("Overlay written",
		zap.String("overlay", outputPath),
		zap.String("combined", combinedPath))
	fmt.Fprintln(cmd.OutOrStdout(), outputPath)
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signalContext()
	defer stop()

	logger.Info("Starting MCP server",
		zap.String("version", Version),
		zap.String("weights", cfg.WeightsPath))

	err := server.New(cfg, logger).Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
