package main

import (
	"testing"
)

// TestNewRootCmd verifies the root command wiring.
func TestNewRootCmd(t *testing.T) {
	t.Parallel()

	cmd := NewRootCmd()

	if cmd.Use != "mbbfit" {
		t.Errorf("expected Use to be 'mbbfit', got %q", cmd.Use)
	}
	if !cmd.SilenceUsage {
		t.Error("expected SilenceUsage to be true")
	}
	if !cmd.SilenceErrors {
		t.Error("expected SilenceErrors to be true")
	}

	if flag := cmd.PersistentFlags().Lookup("verbose"); flag == nil {
		t.Error("expected persistent verbose flag")
	}

	want := map[string]bool{
		"calibrate": false,
		"fit":       false,
		"eval":      false,
		"history":   false,
		"init":      false,
		"version":   false,
	}
	for _, sub := range cmd.Commands() {
		if _, ok := want[sub.Name()]; ok {
			want[sub.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("expected subcommand %q", name)
		}
	}
}
