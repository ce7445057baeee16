// Package buildinfo reports the compgraph build.
//
// Release builds stamp the variables through ldflags:
//
//	go build -ldflags "-X github.com/matzehuels/compgraph/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/matzehuels/compgraph/pkg/buildinfo.Commit=$(git rev-parse --short HEAD)" ./cmd/compgraph
//
// Binaries installed with go install carry no ldflags; for those the module
// version and VCS revision embedded by the toolchain are used instead.
package buildinfo

import (
	"fmt"
	"runtime/debug"
	"sync"
)

var (
	// Version is the semantic version, "dev" for local builds.
	Version = "dev"
	// Commit is the VCS revision.
	Commit = "none"
	// Date is the build timestamp.
	Date = "unknown"
)

var fillOnce sync.Once

// fill replaces unset values with what debug.ReadBuildInfo knows.
func fill() {
	fillOnce.Do(func() {
		info, ok := debug.ReadBuildInfo()
		if !ok {
			return
		}
		if Version == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
			Version = info.Main.Version
		}
		for _, s := range info.Settings {
			switch s.Key {
			case "vcs.revision":
				if Commit == "none" {
					Commit = s.Value
					if len(Commit) > 12 {
						Commit = Commit[:12]
					}
				}
			case "vcs.time":
				if Date == "unknown" {
					Date = s.Value
				}
			}
		}
	})
}

// String returns the multi-line build description.
func String() string {
	fill()
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s", Version, Commit, Date)
}

// Template returns the cobra version template.
func Template() string {
	fill()
	return fmt.Sprintf("{{.Name}} version %s\ncommit: %s\nbuilt: %s\n", Version, Commit, Date)
}

// UserAgent identifies the server in the Server response header.
func UserAgent() string {
	fill()
	return "compgraph/" + Version
}
