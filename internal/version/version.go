// Package version carries build metadata for notchtrack.
package version

import (
	"fmt"
	"runtime/debug"
)

// Set at build time with -ldflags "-X github.com/notchtrack/notchtrack/internal/version.Version=...".
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Info reports version, commit and build date. A binary installed with
// go install has no ldflags, so the module version and VCS revision
// recorded by the toolchain fill in the gaps.
func Info() string {
	return format(Version, Commit, Date, readBuildInfo)
}

func format(version, commit, date string, read func() (*debug.BuildInfo, bool)) string {
	if version == "dev" || commit == "none" {
		if info, ok := read(); ok && info != nil {
			if version == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
				version = info.Main.Version
			}
			for _, setting := range info.Settings {
				switch setting.Key {
				case "vcs.revision":
					if commit == "none" && setting.Value != "" {
						commit = shortRevision(setting.Value)
					}
				case "vcs.time":
					if date == "unknown" && setting.Value != "" {
						date = setting.Value
					}
				}
			}
		}
	}
	return fmt.Sprintf("%s (commit %s, built %s)", version, commit, date)
}

func readBuildInfo() (*debug.BuildInfo, bool) {
	return debug.ReadBuildInfo()
}

func shortRevision(rev string) string {
	if len(rev) > 12 {
		return rev[:12]
	}
	return rev
}
