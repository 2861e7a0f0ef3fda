// Package version carries build metadata injected with -ldflags.
package version

import (
	"fmt"
	"runtime"
)

// These variables are populated at build time via -ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Info returns the version with its commit, build date and Go toolchain.
func Info() string {
	return fmt.Sprintf("%s (commit %s, built %s, %s)", Version, Commit, Date, runtime.Version())
}
