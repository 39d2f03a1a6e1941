package internal

import "time"

// DiscoveryResult carries the normalized corpus together with the warnings
// accumulated along the way, so batch discovery stays a total function over
// its input file set.
type DiscoveryResult struct {
	Data     *WorkspaceData
	Warnings []Warning
}

// Discover runs the full pipeline over the given user-data roots: locate
// candidate session files, normalize each, and assemble a WorkspaceData.
// Zero roots, or roots with no session files, yield an empty result with no
// warnings. No single file failure aborts the run.
func Discover(roots []string) *DiscoveryResult {
	data := &WorkspaceData{
		Agent:        AgentCopilot,
		ChatSessions: []ChatSession{},
	}
	var warnings []Warning

	normalizer := NewNormalizer()
	start := time.Now()

	for _, root := range roots {
		folders := LoadWorkspaceFolders(root)

		candidates, warns := LocateSessions(root)
		warnings = append(warnings, warns...)

		for _, candidate := range candidates {
			session, warn := normalizer.Normalize(candidate)
			if warn != nil {
				LogDebug("skipping %s: %s", warn.Path, warn.Reason)
				warnings = append(warnings, *warn)
				continue
			}
			if session.Workspace == "" {
				session.Workspace = folders[candidate.WorkspaceID]
			}
			data.ChatSessions = append(data.ChatSessions, *session)
		}
	}

	data.Metadata = Metadata{
		"discovery_roots": roots,
		"session_count":   len(data.ChatSessions),
		"warning_count":   len(warnings),
		"discovered_at":   start.Format(time.RFC3339),
	}

	LogInfo("discovered %d session(s) across %d root(s), %d warning(s)",
		len(data.ChatSessions), len(roots), len(warnings))

	return &DiscoveryResult{Data: data, Warnings: warnings}
}
