package main

import (
	"bytes"
	"strings"
	"testing"
)

// TestGetVersion verifies a version string is always available.
func TestGetVersion(t *testing.T) {
	t.Parallel()

	if v := getVersion(); v == "" {
		t.Error("expected non-empty version string")
	}
}

// TestGetCommit verifies a commit string is always available.
func TestGetCommit(t *testing.T) {
	t.Parallel()

	if c := getCommit(); c == "" {
		t.Error("expected non-empty commit string")
	}
}

// TestGetDate verifies a build date string is always available.
func TestGetDate(t *testing.T) {
	t.Parallel()

	if d := getDate(); d == "" {
		t.Error("expected non-empty date string")
	}
}

// TestNewVersionCmd verifies the version command output.
func TestNewVersionCmd(t *testing.T) {
	t.Parallel()

	cmd := NewVersionCmd()
	var buf bytes.Buffer
	cmd.SetOut(&buf)

	if err := cmd.Execute(); err != nil {
		t.Fatalf("unexpected error %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "mbbfit version") {
		t.Errorf("expected version banner, got %q", out)
	}
	if !strings.Contains(out, "commit:") || !strings.Contains(out, "built:") {
		t.Errorf("expected commit and build date lines, got %q", out)
	}
}
