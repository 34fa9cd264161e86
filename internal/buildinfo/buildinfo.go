// Package buildinfo stores build-time metadata shared across packages.
package buildinfo

// Version is set via ldflags during build. Defaults to "dev".
var Version = "dev"

// Commit is the git revision of the build.
var Commit = "none"

// String renders the build as "v1.2.3 (abc1234)", or "dev" for local builds.
func String() string {
	if Version == "dev" {
		return Version
	}

	rev := Commit
	if len(rev) > 7 {
		rev = rev[:7]
	}

	return "v" + Version + " (" + rev + ")"
}
