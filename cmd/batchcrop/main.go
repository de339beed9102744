// Command batchcrop crops many images with one rectangle from the command line.
package main

import (
	"os"

	"image-cropper/internal/backends"
	"image-cropper/internal/cli"
	"image-cropper/internal/version"
)

func main() {
	cli.SetVersion(version.String())
	cli.SetBackends(backends.All)
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
