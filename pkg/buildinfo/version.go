// Package buildinfo holds the msaview release stamp, filled in at link time:
//
//	go build -ldflags "-X github.com/matzehuels/msaview/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/matzehuels/msaview/pkg/buildinfo.Commit=$(git rev-parse --short HEAD) \
//	    -X github.com/matzehuels/msaview/pkg/buildinfo.Date=$(date -u +%Y-%m-%d)" ./cmd/msaview
package buildinfo

import "fmt"

// Link-time values. Unstamped builds report "dev".
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Info is the release stamp as reported by the server's health check.
type Info struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// Get returns the current release stamp.
func Get() Info {
	return Info{Version: Version, Commit: Commit, Date: Date}
}

// String formats the stamp on one line, e.g. "v0.3.0 (1a2b3c4, 2025-01-31)".
func (i Info) String() string {
	return fmt.Sprintf("%s (%s, %s)", i.Version, i.Commit, i.Date)
}

// Template returns the cobra version template.
func Template() string {
	return "{{.Name}} " + Get().String() + "\n"
}
