// Package version reports the build version of the inkbridge binaries and the
// User-Agent the bridge sends to the backend.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"time"
)

// Set with -ldflags "-X github.com/Cgriz365/inkbridge/internal/version.Version=v0.3.0".
// Unset values come from the embedded VCS stamp, then from a dev fallback.
var (
	Version = ""
	Commit  = ""
)

const shortCommit = 7

func init() {
	if info, ok := debug.ReadBuildInfo(); ok {
		v, c := fromSettings(info.Settings)
		if Version == "" {
			Version = v
		}
		if Commit == "" {
			Commit = c
		}
	}
	if Version == "" {
		Version = "dev-" + time.Now().Format("20060102-150405")
	}
	if Commit == "" {
		Commit = "unknown"
	}
}

// fromSettings derives a dev version from the commit date and a short, dirty-marked
// commit from the vcs.* build settings. Missing settings yield empty strings.
func fromSettings(settings []debug.BuildSetting) (version, commit string) {
	vcs := make(map[string]string, len(settings))
	for _, s := range settings {
		vcs[s.Key] = s.Value
	}

	if rev := vcs["vcs.revision"]; rev != "" {
		if len(rev) > shortCommit {
			rev = rev[:shortCommit]
		}
		commit = rev
		if vcs["vcs.modified"] == "true" {
			commit += "-dirty"
		}
	}
	if t, err := time.Parse(time.RFC3339, vcs["vcs.time"]); err == nil {
		version = "dev-" + t.Format("20060102")
	}
	return version, commit
}

// Full returns the version with its commit.
func Full() string {
	return fmt.Sprintf("%s (commit: %s)", Version, Commit)
}

// UserAgent returns the User-Agent header sent to the backend.
func UserAgent() string {
	return fmt.Sprintf("inkbridge/%s (%s; %s)", Version, runtime.GOOS, runtime.GOARCH)
}
