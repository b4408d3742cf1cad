// Package version exposes the build version of the module, used for the
// default User-Agent header.
//
// Version is set at compile time via -ldflags:
//
//	go build -ldflags "-X github.com/kbukum/restkit/version.Version=1.2.0"
package version

import "runtime/debug"

// Version is the module version. "dev" unless overridden at build time
// or recorded in the binary's build info.
var Version = "dev"

// String returns the effective version.
func String() string {
	if Version != "dev" {
		return Version
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, dep := range info.Deps {
			if dep.Path == "github.com/kbukum/restkit" {
				return dep.Version
			}
		}
	}
	return Version
}

// UserAgent returns the User-Agent value sent by default.
func UserAgent() string {
	return "restkit/" + String()
}
