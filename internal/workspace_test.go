package internal

import (
	"testing"

	"github.com/codervisor/codehist/testutil"
)

func TestLoadWorkspaceFolders(t *testing.T) {
	root := testutil.CreateUserDataRoot(t, t.TempDir())
	testutil.CreateWorkspaceFixture(t, root, "with-folder", "/home/dev/projectA")
	testutil.CreateWorkspaceFixture(t, root, "without-folder", "")
	ws := testutil.CreateWorkspaceFixture(t, root, "bad-json", "")
	testutil.WriteRawFixture(t, ws+"/workspace.json", []byte("{nope"))

	folders := LoadWorkspaceFolders(root)

	if got := folders["with-folder"]; got != "/home/dev/projectA" {
		t.Errorf("with-folder = %q, want /home/dev/projectA", got)
	}
	if got := folders["without-folder"]; got != "" {
		t.Errorf("without-folder = %q, want empty", got)
	}
	if got := folders["bad-json"]; got != "" {
		t.Errorf("bad-json = %q, want empty (unreadable maps to empty)", got)
	}
}

func TestLoadWorkspaceFolders_MissingStorage(t *testing.T) {
	folders := LoadWorkspaceFolders(t.TempDir())
	if len(folders) != 0 {
		t.Errorf("folders = %v, want empty map", folders)
	}
}
