// Package version holds build metadata for the symtab binary.
package version

import (
	"runtime/debug"
	"sync"
)

// Set at link time with -ldflags "-X github.com/Sumatoshi-tech/symtab/pkg/version.Version=...".
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

var initOnce sync.Once

// InitBinaryVersion fills Version and Commit from the module build info when
// they were not set at link time, as with go install.
func InitBinaryVersion() {
	initOnce.Do(func() {
		info, ok := debug.ReadBuildInfo()
		if !ok {
			return
		}

		if Version == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
			Version = info.Main.Version
		}

		for _, setting := range info.Settings {
			switch setting.Key {
			case "vcs.revision":
				if Commit == "none" {
					Commit = setting.Value
				}
			case "vcs.time":
				if Date == "unknown" {
					Date = setting.Value
				}
			}
		}
	})
}

// String formats the build metadata for the version command.
func String() string {
	return Version + " (commit: " + Commit + ", built: " + Date + ")"
}
