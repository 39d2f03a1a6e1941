package cmd

import (
	"testing"
)

func TestStatsCommand(t *testing.T) {
	root := fixtureRoot(t)
	if err := runCommand(t, "stats", "--storage", root); err != nil {
		t.Errorf("stats command error = %v", err)
	}
}

func TestStatsCommand_EmptyStorage(t *testing.T) {
	// An empty root is a valid result, not a failure.
	if err := runCommand(t, "stats", "--storage", t.TempDir()); err != nil {
		t.Errorf("stats command error = %v", err)
	}
}

func TestSortedByCount(t *testing.T) {
	got := sortedByCount(map[string]int{"b": 2, "a": 2, "c": 5})
	if got[0].key != "c" {
		t.Errorf("first = %q, want c (highest count)", got[0].key)
	}
	// ties break alphabetically
	if got[1].key != "a" || got[2].key != "b" {
		t.Errorf("tie order = %q, %q, want a, b", got[1].key, got[2].key)
	}
}
