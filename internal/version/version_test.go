package version

import (
	"strings"
	"testing"
)

func TestInfoIncludesBuildMetadata(t *testing.T) {
	Version, Commit, Date = "1.2.3", "abc123", "2025-11-20"
	t.Cleanup(func() { Version, Commit, Date = "dev", "none", "unknown" })

	got := Info()
	for _, want := range []string{"1.2.3", "commit abc123", "built 2025-11-20", "go"} {
		if !strings.Contains(got, want) {
			t.Fatalf("Info() = %q, missing %q", got, want)
		}
	}
}
