// Package version reports build information for the doxprep binary.
//
// The string variables are set with -ldflags at release time, for example
//
//	-X go.jacobcolvin.com/doxprep/version.Version=v1.2.0
package version

import (
	"fmt"
	"io"
	"runtime"
	"runtime/debug"
	"strings"
)

var (
	// Version is the application version, set via ldflags.
	Version string
	// Branch is the git branch, set via ldflags.
	Branch string
	// BuildUser is the user who built the binary, set via ldflags.
	BuildUser string
	// BuildDate is when the binary was built, set via ldflags.
	BuildDate string

	// Revision is the git commit revision.
	Revision = getRevision()
	// GoVersion is the Go version used to build.
	GoVersion = runtime.Version()
	// GoOS is the operating system target.
	GoOS = runtime.GOOS
	// GoArch is the architecture target.
	GoArch = runtime.GOARCH
)

// Short returns [Version], falling back to the module version recorded by
// the Go toolchain, then to "devel".
func Short() string {
	if Version != "" {
		return Version
	}

	buildInfo, ok := debug.ReadBuildInfo()
	if ok && buildInfo.Main.Version != "" && buildInfo.Main.Version != "(devel)" {
		return buildInfo.Main.Version
	}

	return "devel"
}

// Write prints one "key: value" line per build detail to w. Unset details
// are left out.
func Write(w io.Writer) error {
	var b strings.Builder

	for _, kv := range [][2]string{
		{"version", Short()},
		{"revision", Revision},
		{"branch", Branch},
		{"build user", BuildUser},
		{"build date", BuildDate},
		{"go version", GoVersion},
		{"platform", GoOS + "/" + GoArch},
	} {
		if kv[1] == "" {
			continue
		}

		fmt.Fprintf(&b, "%s: %s\n", kv[0], kv[1])
	}

	_, err := io.WriteString(w, b.String())
	if err != nil {
		return fmt.Errorf("write version: %w", err)
	}

	return nil
}

func getRevision() string {
	rev := "unknown"

	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		return rev
	}

	modified := false

	for _, v := range buildInfo.Settings {
		switch v.Key {
		case "vcs.revision":
			rev = v.Value
		case "vcs.modified":
			if v.Value == "true" {
				modified = true
			}
		}
	}

	if modified {
		return rev + "-dirty"
	}

	return rev
}
