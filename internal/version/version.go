// Package version reports the build identifier shown on the dashboard.
package version

import "runtime/debug"

// Version is set at build time with -ldflags "-X github.com/ajna/ajna-hub/internal/version.Version=..."
var Version = ""

const shortRevisionLen = 7

// String returns Version if set, else the short VCS revision embedded by the Go
// toolchain (suffixed with -dirty for modified trees), else "dev".
func String() string {
	if Version != "" {
		return Version
	}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "dev"
	}
	return fromSettings(info.Settings)
}

func fromSettings(settings []debug.BuildSetting) string {
	var revision string
	var modified bool
	for _, s := range settings {
		switch s.Key {
		case "vcs.revision":
			revision = s.Value
		case "vcs.modified":
			modified = s.Value == "true"
		}
	}
	if revision == "" {
		return "dev"
	}
	if len(revision) > shortRevisionLen {
		revision = revision[:shortRevisionLen]
	}
	if modified {
		revision += "-dirty"
	}
	return revision
}
