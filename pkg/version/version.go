// Package version holds build metadata injected via ldflags:
//
//	go build -ldflags "-X github.com/jingkaihe/nvidia-hide/pkg/version.Version=0.1.0 \
//	  -X github.com/jingkaihe/nvidia-hide/pkg/version.GitCommit=$(git rev-parse --short HEAD) \
//	  -X github.com/jingkaihe/nvidia-hide/pkg/version.BuildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
package version

var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

// String returns a one-line version description.
func String() string {
	return Version + " (commit: " + GitCommit + ", built: " + BuildTime + ")"
}
