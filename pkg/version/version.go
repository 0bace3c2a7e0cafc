// Package version holds the build version, overridden at link time with
// -ldflags "-X github.com/Dicklesworthstone/timeline_viewer/pkg/version.Version=vX.Y.Z".
package version

// Version is the current tlv release.
var Version = "v0.3.0"
