// Package version holds build metadata injected via ldflags.
package version

import (
	"fmt"
	"runtime/debug"
)

//nolint:revive // Set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// String formats the build metadata for logs. Builds without ldflags
// fall back to the VCS stamp the Go toolchain embeds.
func String() string {
	commit, date := Commit, Date
	if commit == "unknown" {
		commit, date = vcsStamp(date)
	}
	return fmt.Sprintf("memedex/%s (%s, %s)", Version, commit, date)
}

func vcsStamp(date string) (string, string) {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown", date
	}
	commit := "unknown"
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			commit = s.Value
			if len(commit) > 12 {
				commit = commit[:12]
			}
		case "vcs.time":
			if date == "unknown" {
				date = s.Value
			}
		}
	}
	return commit, date
}
