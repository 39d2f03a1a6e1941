package internal

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Field-name aliases per logical field, tried in priority order. The upstream
// schema renames fields across editor releases; probing a list generalizes to
// new versions without per-version branching.
var (
	sessionIDAliases   = []string{"sessionId", "sessionID", "id"}
	sessionTimeAliases = []string{"creationDate", "createdAt", "created", "timestamp"}
	turnListAliases    = []string{"requests", "turns", "messages"}
	roleAliases        = []string{"role", "author", "actor", "speaker"}
	contentAliases     = []string{"content", "text", "value", "body"}
	turnIDAliases      = []string{"id", "messageId", "requestId"}
	turnTimeAliases    = []string{"timestamp", "createdAt", "time"}
)

// Normalizer converts candidate session files into unified ChatSessions,
// absorbing schema drift and partial or missing fields.
type Normalizer struct {
	agent string
}

// NewNormalizer creates a Normalizer producing records for the Copilot agent.
func NewNormalizer() *Normalizer {
	return &Normalizer{agent: AgentCopilot}
}

// Normalize parses one candidate file and produces zero or one ChatSession.
// A nil session with a non-nil warning means the file contributed nothing;
// the caller records the warning and continues with the next file.
func (n *Normalizer) Normalize(c Candidate) (*ChatSession, *Warning) {
	info, err := os.Stat(c.Path)
	if err != nil {
		return nil, &Warning{Path: c.Path, Reason: "stat: " + err.Error()}
	}

	data, err := os.ReadFile(c.Path)
	if err != nil {
		return nil, &Warning{Path: c.Path, Reason: "read: " + err.Error()}
	}

	var payload any
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, &Warning{Path: c.Path, Reason: "invalid JSON: " + err.Error()}
	}

	obj, ok := payload.(map[string]any)
	if !ok {
		return nil, &Warning{Path: c.Path, Reason: "unrecognized structure: payload is not a JSON object"}
	}

	switch c.Kind {
	case SessionTypeChat:
		return n.normalizeChatSession(c, obj, info)
	case SessionTypeEditing:
		return n.normalizeEditingSession(c, obj, info)
	default:
		return nil, &Warning{Path: c.Path, Reason: fmt.Sprintf("unknown session kind %q", c.Kind)}
	}
}

// normalizeChatSession handles the chat-session shape: a top-level session
// object with a list of turn objects, each expanding into one or more
// messages. Field names vary across schema versions; see the alias tables.
func (n *Normalizer) normalizeChatSession(c Candidate, obj map[string]any, info fs.FileInfo) (*ChatSession, *Warning) {
	turns, hasTurns := probeSlice(obj, turnListAliases...)
	sessionID, hasID := probeString(obj, sessionIDAliases...)
	if !hasTurns && !hasID {
		return nil, &Warning{Path: c.Path, Reason: "unrecognized chat session structure"}
	}
	if sessionID == "" {
		sessionID = fileStem(c.Path)
	}

	sessionTS := sessionTimestamp(obj, info)

	messages := make([]Message, 0, len(turns))
	for i, raw := range turns {
		turn, ok := raw.(map[string]any)
		if !ok {
			// Partial information is preferred over silent loss.
			ts := sessionTS
			messages = append(messages, Message{
				Role:      RoleUnknown,
				Content:   "",
				Timestamp: &ts,
				Metadata:  Metadata{"turn_index": i},
			})
			continue
		}
		messages = append(messages, n.normalizeTurn(turn, sessionTS)...)
	}

	meta := sourceMetadata(c, info)
	meta["total_requests"] = len(turns)
	copyFields(obj, meta,
		"version", "requesterUsername", "responderUsername",
		"initialLocation", "creationDate", "lastMessageDate",
		"isImported", "customTitle")

	return &ChatSession{
		SessionID: sessionID,
		Agent:     n.agent,
		Type:      SessionTypeChat,
		Timestamp: sessionTS,
		Messages:  messages,
		Metadata:  meta,
	}, nil
}

// normalizeTurn expands one raw turn object into messages. Turns come in two
// sub-shapes: an explicit speaker unit (role + content under varying names)
// which maps to exactly one message, and a request/response pair which maps
// to a user message plus, when a response is present, an assistant message.
// A turn matching neither still yields one message with documented defaults.
func (n *Normalizer) normalizeTurn(turn map[string]any, fallback time.Time) []Message {
	ts := turnTimestamp(turn, fallback)
	id, _ := probeString(turn, turnIDAliases...)

	if roleRaw, ok := probeString(turn, roleAliases...); ok {
		content, _ := probeText(turn, contentAliases...)
		t := ts
		return []Message{{
			ID:        id,
			Role:      NormalizeRole(roleRaw),
			Content:   content,
			Timestamp: &t,
		}}
	}

	var messages []Message

	if rawMsg, ok := probe(turn, "message", "prompt"); ok {
		t := ts
		meta := Metadata{"type": "user_request"}
		copyFields(turn, meta, "modelId", "agent", "variableData")
		messages = append(messages, Message{
			ID:        stringField(turn, "requestId"),
			Role:      RoleUser,
			Content:   textOf(rawMsg),
			Timestamp: &t,
			Metadata:  meta,
		})
	}

	if rawResp, ok := probe(turn, "response", "reply"); ok {
		t := ts
		meta := Metadata{"type": "assistant_response"}
		copyFields(turn, meta, "result", "followups", "isCanceled")
		messages = append(messages, Message{
			ID:        stringField(turn, "responseId"),
			Role:      RoleAssistant,
			Content:   textOf(rawResp),
			Timestamp: &t,
			Metadata:  meta,
		})
	}

	if len(messages) == 0 {
		t := ts
		messages = append(messages, Message{
			ID:        id,
			Role:      RoleUnknown,
			Content:   "",
			Timestamp: &t,
		})
	}

	return messages
}

// normalizeEditingSession handles the editing-session shape: file-edit state
// keyed by file path with no canonical messages array. Each meaningful state
// transition is synthesized into one system message. This is a declared lossy
// projection, not a reconstruction of the original edit history.
func (n *Normalizer) normalizeEditingSession(c Candidate, obj map[string]any, info fs.FileInfo) (*ChatSession, *Warning) {
	sessionID, hasID := probeString(obj, sessionIDAliases...)
	linear, hasLinear := probeSlice(obj, "linearHistory", "history")
	snapshot, hasSnapshot := probeMap(obj, "recentSnapshot", "pendingSnapshot")
	_, hasVersion := obj["version"]
	_, hasInitial := obj["initialFileContents"]

	if !hasID && !hasLinear && !hasSnapshot && !hasVersion && !hasInitial {
		return nil, &Warning{Path: c.Path, Reason: "unrecognized editing session structure"}
	}
	if sessionID == "" {
		// state.json lives in a directory named after the session.
		sessionID = filepath.Base(filepath.Dir(c.Path))
	}

	sessionTS := sessionTimestamp(obj, info)

	var messages []Message
	for i, raw := range linear {
		entry, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		requestID, _ := probeString(entry, "requestId")
		if requestID == "" {
			requestID = fmt.Sprintf("request_%d", i)
		}
		workingSet, _ := probeSlice(entry, "workingSet")
		entries, _ := probeSlice(entry, "entries")

		content := fmt.Sprintf("editing session turn with %d file(s) in working set", len(workingSet))
		if len(entries) > 0 {
			content += fmt.Sprintf(" and %d entr(ies)", len(entries))
		}

		t := sessionTS
		messages = append(messages, Message{
			ID:        requestID,
			Role:      RoleSystem,
			Content:   content,
			Timestamp: &t,
			Metadata: Metadata{
				"type":        "user_request",
				"files":       filePaths(workingSet),
				"entry_count": len(entries),
			},
		})
	}

	if hasSnapshot && len(snapshot) > 0 {
		workingSet, _ := probeSlice(snapshot, "workingSet")
		t := sessionTS
		messages = append(messages, Message{
			ID:        "snapshot_" + sessionID,
			Role:      RoleSystem,
			Content:   fmt.Sprintf("snapshot with %d file(s)", len(workingSet)),
			Timestamp: &t,
			Metadata: Metadata{
				"type":  "snapshot",
				"files": filePaths(workingSet),
			},
		})
	}

	meta := sourceMetadata(c, info)
	copyFields(obj, meta, "version", "linearHistoryIndex")

	return &ChatSession{
		SessionID: sessionID,
		Agent:     n.agent,
		Type:      SessionTypeEditing,
		Timestamp: sessionTS,
		Messages:  messages,
		Metadata:  meta,
	}, nil
}

// sourceMetadata builds the metadata every session carries regardless of kind.
func sourceMetadata(c Candidate, info fs.FileInfo) Metadata {
	return Metadata{
		"source_file":  c.Path,
		"file_size":    info.Size(),
		"mtime_unix":   info.ModTime().Unix(),
		"workspace_id": c.WorkspaceID,
	}
}

// sessionTimestamp derives the session-level time: an explicit session field
// when present and parseable, else the file's last-modified time.
func sessionTimestamp(obj map[string]any, info fs.FileInfo) time.Time {
	if v, ok := probe(obj, sessionTimeAliases...); ok {
		if t, ok := parseTime(v); ok {
			return t
		}
	}
	return info.ModTime()
}

// turnTimestamp prefers an explicit per-turn timestamp, falling back to the
// session-level time applied uniformly.
func turnTimestamp(turn map[string]any, fallback time.Time) time.Time {
	if v, ok := probe(turn, turnTimeAliases...); ok {
		if t, ok := parseTime(v); ok {
			return t
		}
	}
	return fallback
}

// probe returns the first present, non-null value among keys.
func probe(obj map[string]any, keys ...string) (any, bool) {
	for _, key := range keys {
		if v, ok := obj[key]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

// probeString returns the first present string value among keys. An empty
// string counts as present.
func probeString(obj map[string]any, keys ...string) (string, bool) {
	for _, key := range keys {
		if v, ok := obj[key]; ok {
			if s, ok := v.(string); ok {
				return s, true
			}
		}
	}
	return "", false
}

// probeText is probeString extended to unwrap nested content objects.
func probeText(obj map[string]any, keys ...string) (string, bool) {
	for _, key := range keys {
		if v, ok := obj[key]; ok && v != nil {
			return textOf(v), true
		}
	}
	return "", false
}

// probeSlice returns the first present array value among keys.
func probeSlice(obj map[string]any, keys ...string) ([]any, bool) {
	for _, key := range keys {
		if v, ok := obj[key]; ok {
			if s, ok := v.([]any); ok {
				return s, true
			}
		}
	}
	return nil, false
}

// probeMap returns the first present object value among keys.
func probeMap(obj map[string]any, keys ...string) (map[string]any, bool) {
	for _, key := range keys {
		if v, ok := obj[key]; ok {
			if m, ok := v.(map[string]any); ok {
				return m, true
			}
		}
	}
	return nil, false
}

// textOf extracts human-readable text from a raw content value, which may be
// a plain string, an object carrying text under a known alias, or an array
// of part objects.
func textOf(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case map[string]any:
		if s, ok := probeString(val, "text", "value", "content", "message"); ok {
			return s
		}
		if parts, ok := probeSlice(val, "parts"); ok {
			return joinParts(parts)
		}
		return ""
	case []any:
		return joinParts(val)
	default:
		return ""
	}
}

func joinParts(parts []any) string {
	var texts []string
	for _, p := range parts {
		if s := textOf(p); s != "" {
			texts = append(texts, s)
		}
	}
	return strings.Join(texts, "\n")
}

// filePaths extracts file path strings from a raw working-set list, whose
// elements may be plain strings or objects keyed by resource/uri/path.
func filePaths(items []any) []string {
	paths := make([]string, 0, len(items))
	for _, item := range items {
		switch v := item.(type) {
		case string:
			paths = append(paths, v)
		case map[string]any:
			if s, ok := probeString(v, "resource", "uri", "path", "fsPath"); ok && s != "" {
				paths = append(paths, s)
			}
		}
	}
	return paths
}

// parseTime accepts the timestamp encodings seen in the wild: RFC3339
// strings with or without sub-second precision or timezone, and epoch
// numbers in milliseconds or seconds.
func parseTime(v any) (time.Time, bool) {
	switch val := v.(type) {
	case string:
		for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05"} {
			if t, err := time.Parse(layout, val); err == nil {
				return t, true
			}
		}
		return time.Time{}, false
	case float64:
		if val <= 0 {
			return time.Time{}, false
		}
		if val >= 1e11 { // epoch milliseconds
			return time.Unix(0, int64(val)*int64(time.Millisecond)), true
		}
		return time.Unix(int64(val), 0), true
	default:
		return time.Time{}, false
	}
}

// copyFields copies the named fields from src into dst when present.
func copyFields(src map[string]any, dst Metadata, keys ...string) {
	for _, key := range keys {
		if v, ok := src[key]; ok && v != nil {
			dst[key] = v
		}
	}
}

// stringField returns the named field if it is a string, else "".
func stringField(obj map[string]any, key string) string {
	if s, ok := obj[key].(string); ok {
		return s
	}
	return ""
}

// fileStem returns the file name without its extension.
func fileStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
