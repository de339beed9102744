// Package cli implements the batchcrop command line: crop many images with
// one rectangle, inspect images and list the crop backends.
package cli

import (
	"fmt"
	"log"

	"image-cropper/internal/batch"
	"image-cropper/internal/config"

	"github.com/spf13/cobra"
)

var (
	version    = "dev"
	configPath string

	// listBackends returns the crop backends in priority order. Binaries
	// linked with OpenCV replace it through SetBackends.
	listBackends = func(opts batch.Options) []batch.Cropper {
		return []batch.Cropper{batch.NewImaging(opts)}
	}
)

var rootCmd = &cobra.Command{
	Use:   "batchcrop",
	Short: "Crop a batch of images with one rectangle",
	Long: `batchcrop applies one crop rectangle to many image files.

The rectangle is given in original image pixels and is clamped to each
file's own bounds, so images of different sizes can share one selection.

Configuration is read from ~/.image-cropper/config.yaml.

Environment variables:
  IMAGECROP_BACKEND=xxx     crop backend (auto, opencv, imaging)
  IMAGECROP_OUTPUT_DIR=xxx  output directory`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
		log.SetOutput(cmd.ErrOrStderr())
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "batchcrop %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.image-cropper/config.yaml)")
	rootCmd.AddCommand(versionCmd)
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// SetBackends sets the crop backend list used by crop and backends.
func SetBackends(fn func(batch.Options) []batch.Cropper) {
	listBackends = fn
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig reads the config file named by --config, or the default one.
// A missing file yields the defaults with environment overrides.
func loadConfig() (*config.Config, error) {
	loader, err := configLoader()
	if err != nil {
		return nil, err
	}
	return loader.Load()
}
