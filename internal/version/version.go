// Package version holds build metadata for pushdesk.
package version

import "runtime/debug"

// Version is set at build time with -ldflags "-X .../internal/version.Version=...".
var Version = "development"

// Commit is the git commit hash, set at build time.
var Commit = "unknown"

// String returns Version, suffixed with the commit when one is known.
func String() string {
	commit := Commit
	if commit == "unknown" {
		commit = vcsRevision()
	}
	if commit == "" || commit == "unknown" {
		return Version
	}
	return Version + "+" + commit
}

// UserAgent is sent with every API request.
func UserAgent() string {
	return "pushdesk/" + String()
}

// vcsRevision reads the short revision stamped by the go tool, if any.
func vcsRevision() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	for _, s := range info.Settings {
		if s.Key == "vcs.revision" && len(s.Value) >= 7 {
			return s.Value[:7]
		}
	}
	return ""
}
