package buildinfo

import "testing"

func TestGet(t *testing.T) {
	defer func(v, c, d string) { Version, Commit, Date = v, c, d }(Version, Commit, Date)
	Version, Commit, Date = "v0.3.0", "1a2b3c4", "2025-01-31"

	info := Get()
	if got := info.String(); got != "v0.3.0 (1a2b3c4, 2025-01-31)" {
		t.Errorf("String() = %q", got)
	}
	if got := Template(); got != "{{.Name}} v0.3.0 (1a2b3c4, 2025-01-31)\n" {
		t.Errorf("Template() = %q", got)
	}
}

func TestGetUnstamped(t *testing.T) {
	if Get().Version != "dev" {
		t.Errorf("unstamped Version = %q, want dev", Get().Version)
	}
}
