package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestVersionCmd(t *testing.T) {
	t.Parallel()

	t.Run("prints version information", func(t *testing.T) {
		t.Parallel()
		cmd := NewVersionCmd()
		var out bytes.Buffer
		cmd.SetOut(&out)

		if err := cmd.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := out.String()
		if !strings.Contains(output, "logoscan version") {
			t.Errorf("missing version line:\n%s", output)
		}
		if !strings.Contains(output, "commit:") || !strings.Contains(output, "built:") {
			t.Errorf("missing build metadata:\n%s", output)
		}
	})
}

// TestGetVersion stays sequential: it mutates the package-level
// version variable.
func TestGetVersion(t *testing.T) {
	t.Run("ldflags value wins", func(t *testing.T) {
		old := version
		defer func() { version = old }()

		version = "v1.2.3"
		if got := getVersion(); got != "v1.2.3" {
			t.Errorf("getVersion() = %q, want ldflags value", got)
		}
	})

	t.Run("falls back to build info or devel", func(t *testing.T) {
		if got := getVersion(); got == "" {
			t.Error("getVersion() returned empty string")
		}
	})
}
