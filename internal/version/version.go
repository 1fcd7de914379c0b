package version

// Version is set at build time:
// go build -ldflags "-X github.com/Descent098/ezcv/internal/version.Version=v1.0.0".
var Version = "dev"

var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// String returns the version line printed by `ezcv version`.
func String() string {
	return "ezcv " + Version + " (commit " + GitCommit + ", built " + BuildTime + ")"
}
