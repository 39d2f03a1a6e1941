package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

// CreateUserDataRoot creates a VS Code user-data root fixture with an empty
// workspaceStorage directory and returns the root path.
func CreateUserDataRoot(t *testing.T, basePath string) string {
	t.Helper()
	root := filepath.Join(basePath, "Code", "User")
	if err := os.MkdirAll(filepath.Join(root, "workspaceStorage"), 0755); err != nil {
		t.Fatalf("Failed to create user-data root: %v", err)
	}
	return root
}

// CreateWorkspaceFixture creates a workspace storage directory under root and
// returns its path. If folder is non-empty a workspace.json pointing at it is
// written alongside.
func CreateWorkspaceFixture(t *testing.T, root, workspaceID, folder string) string {
	t.Helper()
	dir := filepath.Join(root, "workspaceStorage", workspaceID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("Failed to create workspace directory: %v", err)
	}
	if folder != "" {
		meta := map[string]interface{}{"folder": folder}
		WriteJSONFixture(t, filepath.Join(dir, "workspace.json"), meta)
	}
	return dir
}

// WriteChatSessionFixture writes a chatSessions/<name>.json file under the
// given workspace directory and returns its path.
func WriteChatSessionFixture(t *testing.T, workspaceDir, name string, session map[string]interface{}) string {
	t.Helper()
	path := filepath.Join(workspaceDir, "chatSessions", name+".json")
	WriteJSONFixture(t, path, session)
	return path
}

// WriteEditingSessionFixture writes a chatEditingSessions/<name>/state.json
// file under the given workspace directory and returns its path.
func WriteEditingSessionFixture(t *testing.T, workspaceDir, name string, state map[string]interface{}) string {
	t.Helper()
	path := filepath.Join(workspaceDir, "chatEditingSessions", name, "state.json")
	WriteJSONFixture(t, path, state)
	return path
}

// WriteJSONFixture marshals v and writes it to path, creating parent
// directories as needed.
func WriteJSONFixture(t *testing.T, path string, v interface{}) {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("Failed to marshal fixture JSON: %v", err)
	}
	WriteRawFixture(t, path, data)
}

// WriteRawFixture writes raw bytes to path, creating parent directories as
// needed. Useful for malformed-input tests.
func WriteRawFixture(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create fixture directory: %v", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("Failed to write fixture %s: %v", path, err)
	}
}

// SampleChatSession returns a minimal well-formed chat session body with the
// given id and one request/response turn.
func SampleChatSession(id, prompt, response string) map[string]interface{} {
	return map[string]interface{}{
		"sessionId":    id,
		"creationDate": "2024-03-01T10:00:00Z",
		"requests": []interface{}{
			map[string]interface{}{
				"id":       id + "_request_0",
				"message":  map[string]interface{}{"text": prompt},
				"response": []interface{}{map[string]interface{}{"value": response}},
			},
		},
	}
}
