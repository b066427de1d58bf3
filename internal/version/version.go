// Package version carries the build version string, overridable at link time
// with -ldflags "-X epolice/internal/version.Version=...".
package version

var Version = "dev"
