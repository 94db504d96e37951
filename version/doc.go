// Package version reports the keepalive build.
//
// Version, commit and build time are set at link time:
//
//	go build -ldflags "-X github.com/kbukum/keepalive/version.Version=1.2.0" ./cmd/keepalive
//
// Anything not set falls back to the VCS stamp Go embeds in the binary.
package version
