package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"image-cropper/internal/batch"
	"image-cropper/internal/config"
	cropimage "image-cropper/internal/image"
	"image-cropper/internal/project"
	"image-cropper/pkg/geometry"

	"github.com/spf13/cobra"
)

var (
	cropRect      string
	cropCenter    int
	cropPreset    string
	cropOutputDir string
	cropSuffix    string
	cropBackend   string
	cropWorkers   int
	cropQuality   int
	cropQuiet     bool
)

var cropCmd = &cobra.Command{
	Use:   "crop [files or folders...]",
	Short: "Crop images with one rectangle",
	Long: `Crop every listed image with the same rectangle.

The rectangle is x,y,width,height in original pixels. With --center the
selection is a centered square of the given size in each file. A preset
saved by the desktop app supplies the rectangle, output settings and,
when no files are given, the file list.

Examples:
  batchcrop crop --rect 100,50,640,480 photos/
  batchcrop crop --center 512 --suffix _sq a.jpg b.png
  batchcrop crop --preset scans.cropproj --backend imaging`,
	RunE: runCrop,
}

func init() {
	cropCmd.Flags().StringVarP(&cropRect, "rect", "r", "", "crop rectangle x,y,w,h in original pixels")
	cropCmd.Flags().IntVar(&cropCenter, "center", 0, "crop a centered square of this size from each image")
	cropCmd.Flags().StringVarP(&cropPreset, "preset", "p", "", "load rectangle and settings from a "+project.Extension+" file")
	cropCmd.Flags().StringVarP(&cropOutputDir, "output-dir", "o", "", "output directory (default from config)")
	cropCmd.Flags().StringVar(&cropSuffix, "suffix", "", "output file name suffix (default from config)")
	cropCmd.Flags().StringVar(&cropBackend, "backend", "", "crop backend: auto, opencv or imaging")
	cropCmd.Flags().IntVarP(&cropWorkers, "workers", "j", 0, "parallel workers (default all CPUs)")
	cropCmd.Flags().IntVar(&cropQuality, "quality", 0, "JPEG quality 1-100")
	cropCmd.Flags().BoolVarP(&cropQuiet, "quiet", "q", false, "only print errors")
	cropCmd.MarkFlagsMutuallyExclusive("rect", "center")

	rootCmd.AddCommand(cropCmd)
}

// cropOptions is a resolved crop invocation.
type cropOptions struct {
	Job     batch.Job
	Backend string
	Workers int
	Quality int
	Quiet   bool
}

func runCrop(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	opts, err := resolveCropOptions(cfg, args)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	runner, err := batch.NewRunner(opts.Backend, opts.Workers, listBackends(batch.Options{JPEGQuality: opts.Quality}))
	if err != nil {
		return err
	}
	_, err = cropFiles(ctx, runner, opts, cmd.OutOrStdout())
	return err
}

// resolveCropOptions merges flags over the preset over the config.
func resolveCropOptions(cfg *config.Config, args []string) (cropOptions, error) {
	opts := cropOptions{
		Job: batch.Job{
			OutputDir: cfg.ResolvedOutputDir(),
			Suffix:    cfg.Suffix,
		},
		Backend: cfg.Backend,
		Workers: cfg.Workers,
		Quality: cfg.JPEGQuality,
		Quiet:   cropQuiet,
	}
	files := args

	if cropPreset != "" {
		preset, err := project.Load(cropPreset)
		if err != nil {
			return opts, err
		}
		opts.Job.Rect = preset.Rect
		if preset.Suffix != "" {
			opts.Job.Suffix = preset.Suffix
		}
		if preset.OutputDir != "" {
			opts.Job.OutputDir = preset.OutputDir
		}
		if len(files) == 0 {
			files = preset.FilePaths(cropPreset)
		}
	}

	switch {
	case cropRect != "":
		r, err := parseRect(cropRect)
		if err != nil {
			return opts, err
		}
		opts.Job.Rect = r
	case cropCenter > 0:
		opts.Job.Center = cropCenter
	case cropPreset == "":
		return opts, errors.New("one of --rect, --center or --preset is required")
	}

	if cropOutputDir != "" {
		opts.Job.OutputDir = cropOutputDir
	}
	if cropSuffix != "" {
		opts.Job.Suffix = cropSuffix
	}
	if cropBackend != "" {
		opts.Backend = cropBackend
	}
	if cropWorkers > 0 {
		opts.Workers = cropWorkers
	}
	if cropQuality > 0 {
		opts.Quality = cropQuality
	}

	expanded, err := cropimage.ExpandPaths(files)
	if err != nil {
		return opts, err
	}
	if len(expanded) == 0 {
		return opts, errors.New("no supported image files given")
	}
	opts.Job.Files = expanded
	return opts, nil
}

// cropFiles runs the batch and prints one line per file. It fails if any
// file failed.
func cropFiles(ctx context.Context, runner *batch.Runner, opts cropOptions, out io.Writer) ([]batch.Result, error) {
	if !opts.Quiet {
		runner.OnProgress = func(p batch.Progress) {
			if p.File != "done" {
				fmt.Fprintf(out, "[%3d%%] %s\n", p.Percent, p.File)
			}
		}
	}

	results, err := runner.Run(ctx, opts.Job)
	if err != nil {
		return nil, err
	}

	for _, r := range results {
		switch {
		case !r.OK():
			fmt.Fprintf(out, "FAILED %s: %v\n", r.Input, r.Err)
		case !opts.Quiet:
			fmt.Fprintf(out, "saved %s (%dx%d at %d,%d, %s)\n",
				r.Output, r.Rect.Dx(), r.Rect.Dy(), r.Rect.Min.X, r.Rect.Min.Y, r.Backend)
		}
	}
	ok, failed := batch.Summary(results)
	fmt.Fprintf(out, "%d processed, %d failed\n", ok, failed)
	if failed > 0 {
		return results, fmt.Errorf("%d of %d files failed", failed, len(results))
	}
	return results, nil
}

// parseRect parses "x,y,w,h". Width and height must be positive.
func parseRect(s string) (geometry.Rect, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return geometry.Rect{}, fmt.Errorf("invalid rectangle %q: want x,y,w,h", s)
	}
	var v [4]float64
	for i, p := range parts {
		n, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return geometry.Rect{}, fmt.Errorf("invalid rectangle %q: %w", s, err)
		}
		v[i] = n
	}
	if v[2] <= 0 || v[3] <= 0 {
		return geometry.Rect{}, fmt.Errorf("invalid rectangle %q: width and height must be positive", s)
	}
	return geometry.NewRect(v[0], v[1], v[2], v[3]), nil
}
