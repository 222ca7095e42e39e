package version

import (
	"strings"
	"testing"
)

func TestString_IncludesAllBuildMetadata(t *testing.T) {
	got := String()
	for _, part := range []string{Version, Commit, Date} {
		if !strings.Contains(got, part) {
			t.Errorf("String() = %q, missing %q", got, part)
		}
	}
}
