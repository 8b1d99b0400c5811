// Package version reports what build is running
package version

import "runtime/debug"

// Set with -ldflags "-X eventcatalog/internal/core/version.release=v1.2.0 -X ...commit=abc123"
var (
	release = "dev"
	commit  = ""
	built   = "unknown"
)

// BuildInfo is the build stamp of the running binary
type BuildInfo struct {
	Service   string `json:"service"`
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Date      string `json:"date"`
	GoVersion string `json:"go_version"`
}

// Info returns the stamped build info, falling back to the vcs data the toolchain embeds
func Info() BuildInfo {
	b := BuildInfo{Service: "eventcatalog-api", Version: release, Commit: commit, Date: built}
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return b
	}
	b.GoVersion = bi.GoVersion
	for _, s := range bi.Settings {
		switch {
		case s.Key == "vcs.revision" && b.Commit == "":
			b.Commit = s.Value
		case s.Key == "vcs.time" && b.Date == "unknown":
			b.Date = s.Value
		}
	}
	if b.Commit == "" {
		b.Commit = "none"
	}
	return b
}
