package version

var (
	// Version is the current application version.
	// Populated by the build system via ldflags; the fallback tracks the latest release.
	Version = "v0.3.1"

	// Commit is the git short hash of the build.
	Commit = "unknown"

	// Date is the build timestamp.
	Date = "unknown"
)
