// Package build exposes values stamped into the binary at link time.
package build

// Version is the bonsai release, set with -ldflags "-X go.trai.ch/bonsai/internal/build.Version=...".
var Version = "dev"
