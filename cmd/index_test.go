package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/codervisor/codehist/internal/index"
)

func TestIndexCommand(t *testing.T) {
	root := fixtureRoot(t)
	dbPath := filepath.Join(t.TempDir(), "index.db")

	if err := runCommand(t, "index", "--storage", root, "--index-path", dbPath); err != nil {
		t.Fatalf("index command error = %v", err)
	}

	if _, err := os.Stat(dbPath); err != nil {
		t.Fatalf("index database missing: %v", err)
	}

	db, err := index.Open(dbPath)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer db.Close()

	sessions, err := db.SessionCount()
	if err != nil {
		t.Fatalf("SessionCount() error = %v", err)
	}
	if sessions != 1 {
		t.Errorf("SessionCount = %d, want 1", sessions)
	}

	matches, err := index.Search(db, "docker", index.Options{})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(matches) != 2 {
		t.Errorf("matches = %d, want 2", len(matches))
	}
}

func TestIndexCommand_Rerun(t *testing.T) {
	root := fixtureRoot(t)
	dbPath := filepath.Join(t.TempDir(), "index.db")

	if err := runCommand(t, "index", "--storage", root, "--index-path", dbPath); err != nil {
		t.Fatalf("first run error = %v", err)
	}
	if err := runCommand(t, "index", "--storage", root, "--index-path", dbPath); err != nil {
		t.Fatalf("second run error = %v", err)
	}

	db, err := index.Open(dbPath)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer db.Close()

	sessions, _ := db.SessionCount()
	if sessions != 1 {
		t.Errorf("SessionCount = %d, want 1 (rerun must not duplicate)", sessions)
	}
}
