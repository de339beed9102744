package cli

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"image-cropper/internal/batch"
	cropimage "image-cropper/internal/image"

	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info [files or folders...]",
	Short: "Show image dimensions and sizes",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return printInfo(cmd.OutOrStdout(), args)
	},
}

var backendsCmd = &cobra.Command{
	Use:   "backends",
	Short: "List crop backends and whether they can run here",
	Run: func(cmd *cobra.Command, args []string) {
		printBackends(cmd.OutOrStdout(), listBackends(batch.DefaultOptions()))
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(backendsCmd)
}

func printInfo(out io.Writer, paths []string) error {
	files, err := cropimage.ExpandPaths(paths)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintln(w, "FILE\tFORMAT\tSIZE\tDIMENSIONS")
	for _, f := range files {
		src, err := cropimage.ReadInfo(f)
		if err != nil {
			fmt.Fprintf(w, "%s\t-\t-\t%v\n", f, err)
			continue
		}
		format := strings.TrimPrefix(strings.ToLower(filepath.Ext(f)), ".")
		fmt.Fprintf(w, "%s\t%s\t%s\t%dx%d\n", f, format, cropimage.FormatFileSize(src.Size), src.Width, src.Height)
	}
	return nil
}

func printBackends(out io.Writer, all []batch.Cropper) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintln(w, "BACKEND\tSTATUS")
	for _, c := range all {
		status := "available"
		if err := c.Available(); err != nil {
			status = "unavailable: " + err.Error()
		}
		fmt.Fprintf(w, "%s\t%s\n", c.Name(), status)
	}
}
