// Package version provides build-time version information.
package version

import (
	"fmt"
	"runtime/debug"
)

// Set with -ldflags "-X image-cropper/internal/version.Version=...".
var (
	Version   = "0.1.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// Commit returns GitCommit, or the VCS revision recorded by the Go
// toolchain when the binary was built without ldflags.
func Commit() string {
	if GitCommit != "unknown" {
		return GitCommit
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, s := range info.Settings {
			if s.Key == "vcs.revision" && len(s.Value) >= 7 {
				return s.Value[:7]
			}
		}
	}
	return GitCommit
}

// String returns the version line printed by the CLI and the about box.
func String() string {
	return fmt.Sprintf("%s (commit %s, built %s)", Version, Commit(), BuildTime)
}
