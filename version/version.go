// Package version reports the version of the synthdef tools.
package version

import "runtime/debug"

// Version can be set at build time:
// go build -ldflags "-X github.com/supriya-project/supriya-sub004/version.Version=$(git describe --dirty)"
var Version string

// Hash is the short VCS revision the binary was built from, suffixed with
// "-dirty" for modified trees. Empty when no build info is available.
var Hash = revision(debug.ReadBuildInfo())

var VersionOrHash = func() string {
	if Version != "" {
		return Version
	}
	return Hash
}()

func revision(info *debug.BuildInfo, ok bool) string {
	if !ok {
		return ""
	}
	var rev string
	dirty := false
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			rev = setting.Value
		case "vcs.modified":
			dirty = setting.Value == "true"
		}
	}
	if len(rev) > 7 {
		rev = rev[:7]
	}
	if rev != "" && dirty {
		rev += "-dirty"
	}
	return rev
}
