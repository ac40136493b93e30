// Package version reports the knotsdocs build version.
package version

import (
	"fmt"
	"runtime/debug"
)

// Version is set at build time:
// go build -ldflags "-X github.com/studyknots/knotsdocs/internal/version.Version=v0.3.0".
var Version = "unknown"

// Build metadata, set the same way as Version.
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// Resolved returns Version, falling back to the module version recorded by
// `go install` when no ldflags were given.
func Resolved() string {
	if Version != "unknown" {
		return Version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return Version
}

// String formats the version line printed by --version.
func String() string {
	return fmt.Sprintf("knotsdocs %s (commit %s, built %s)", Resolved(), GitCommit, BuildTime)
}
