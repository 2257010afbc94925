// Package version carries build identification for the fluxgrid binaries.
package version

// Overridden at link time via -ldflags "-X ...".
var (
	// Version is the current application version
	Version = "dev"
	// GitSHA is the git commit SHA
	GitSHA = "unknown"
	// BuildTime is the build timestamp
	BuildTime = "unknown"
)
