// Package version identifies the build of the levelscope binaries.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Version can be set at build time, e.g.
// go build -ldflags "-X github.com/vsariola/levelscope/version.Version=$(git describe --dirty)"
var Version string

// Hash is the short vcs revision the binary was built from, suffixed with
// -dirty for modified trees. Empty when the build has no vcs info.
var Hash = func() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	return revision(info.Settings)
}()

func revision(settings []debug.BuildSetting) string {
	var rev string
	modified := false
	for _, s := range settings {
		switch s.Key {
		case "vcs.revision":
			rev = s.Value[:min(len(s.Value), 7)]
		case "vcs.modified":
			modified = s.Value == "true"
		}
	}
	if rev != "" && modified {
		return rev + "-dirty"
	}
	return rev
}

// VersionOrHash is Version if set, else Hash, else "dev".
var VersionOrHash = func() string {
	if Version != "" {
		return Version
	}
	if Hash != "" {
		return Hash
	}
	return "dev"
}()

// Describe is the line printed by the -v flag of each binary.
func Describe(binary string) string {
	return fmt.Sprintf("%s %s (%s %s/%s)", binary, VersionOrHash, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
