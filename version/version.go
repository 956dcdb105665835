// Package version carries build metadata injected at link time.
package version

import "runtime"

// Populated via -ldflags at build time.
var (
	GitRelease    = "dev"
	GitCommit     = "unknown"
	GitCommitDate = "unknown"
)

// GoInfo describes the toolchain and platform of the build.
var GoInfo = runtime.Version() + " " + runtime.GOOS + "/" + runtime.GOARCH
