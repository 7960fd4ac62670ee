package version

import (
	"runtime/debug"
	"testing"
)

func TestRevision(t *testing.T) {
	tests := []struct {
		name     string
		settings []debug.BuildSetting
		expected string
	}{
		{"no vcs", nil, ""},
		{"clean", []debug.BuildSetting{{Key: "vcs.revision", Value: "0123456789abcdef"}, {Key: "vcs.modified", Value: "false"}}, "0123456"},
		{"dirty", []debug.BuildSetting{{Key: "vcs.modified", Value: "true"}, {Key: "vcs.revision", Value: "0123456789abcdef"}}, "0123456-dirty"},
		{"short revision", []debug.BuildSetting{{Key: "vcs.revision", Value: "abc"}}, "abc"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := revision(&debug.BuildInfo{Settings: test.settings}, true); got != test.expected {
				t.Fatalf("got %q, expected %q", got, test.expected)
			}
		})
	}
	if got := revision(nil, false); got != "" {
		t.Fatalf("missing build info should give an empty hash, got %q", got)
	}
}
