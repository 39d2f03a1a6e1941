package internal

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// LoadWorkspaceFolders maps workspace ids under root's workspaceStorage to
// their project folder paths, read from each workspace.json. Entries without
// a readable workspace.json map to "". A missing storage directory yields an
// empty map.
func LoadWorkspaceFolders(root string) map[string]string {
	folders := make(map[string]string)

	storage := filepath.Join(root, workspaceStorageDir)
	entries, err := os.ReadDir(storage)
	if err != nil {
		return folders
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		workspaceID := entry.Name()
		folders[workspaceID] = readWorkspaceFolder(filepath.Join(storage, workspaceID, "workspace.json"))
	}

	return folders
}

func readWorkspaceFolder(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	var ws struct {
		Folder string `json:"folder"`
	}
	if err := json.Unmarshal(data, &ws); err != nil {
		return ""
	}
	return ws.Folder
}
