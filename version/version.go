// Package version holds the build version, set with -ldflags.
package version

// Version is overridden at build time with
// -ldflags "-X github.com/battlesnakeio/termsnake/version.Version=..."
var Version = "dev"
