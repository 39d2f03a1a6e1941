package internal

import (
	"os"
	"path/filepath"
	"strings"
)

// Candidate is a session file found under a user-data root, tagged with its
// detected schema kind and the owning workspace id.
type Candidate struct {
	Path        string
	Kind        SessionType
	WorkspaceID string
}

const (
	workspaceStorageDir   = "workspaceStorage"
	chatSessionsDir       = "chatSessions"
	chatEditingSessions   = "chatEditingSessions"
	editingSessionStateFn = "state.json"
)

// LocateSessions enumerates workspaceStorage/<id>/chatSessions/*.json and
// workspaceStorage/<id>/chatEditingSessions/*/state.json under root.
// A workspace may contain one kind, both, or neither; all are valid.
// Unreadable directories are skipped with a recorded warning. Candidates are
// returned in directory enumeration order; no sort is imposed here.
func LocateSessions(root string) ([]Candidate, []Warning) {
	var candidates []Candidate
	var warnings []Warning

	storage := filepath.Join(root, workspaceStorageDir)
	entries, err := os.ReadDir(storage)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil // absence is a valid, silent outcome
		}
		return nil, []Warning{{Path: storage, Reason: "read dir: " + err.Error()}}
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		workspaceID := entry.Name()
		wsDir := filepath.Join(storage, workspaceID)

		chats, warns := locateChatSessions(wsDir, workspaceID)
		candidates = append(candidates, chats...)
		warnings = append(warnings, warns...)

		edits, warns := locateEditingSessions(wsDir, workspaceID)
		candidates = append(candidates, edits...)
		warnings = append(warnings, warns...)
	}

	return candidates, warnings
}

func locateChatSessions(wsDir, workspaceID string) ([]Candidate, []Warning) {
	dir := filepath.Join(wsDir, chatSessionsDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, []Warning{{Path: dir, Reason: "read dir: " + err.Error()}}
	}

	var candidates []Candidate
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		candidates = append(candidates, Candidate{
			Path:        filepath.Join(dir, entry.Name()),
			Kind:        SessionTypeChat,
			WorkspaceID: workspaceID,
		})
	}
	return candidates, nil
}

func locateEditingSessions(wsDir, workspaceID string) ([]Candidate, []Warning) {
	dir := filepath.Join(wsDir, chatEditingSessions)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, []Warning{{Path: dir, Reason: "read dir: " + err.Error()}}
	}

	var candidates []Candidate
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		statePath := filepath.Join(dir, entry.Name(), editingSessionStateFn)
		if _, err := os.Stat(statePath); err != nil {
			continue
		}
		candidates = append(candidates, Candidate{
			Path:        statePath,
			Kind:        SessionTypeEditing,
			WorkspaceID: workspaceID,
		})
	}
	return candidates, nil
}
