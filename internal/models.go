package internal

import (
	"strings"
	"time"
)

// AgentCopilot is the identifier of the assistant whose history we extract.
// The field exists on every record so that other agents can be added later.
const AgentCopilot = "copilot"

// Role identifies the speaker of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
	RoleUnknown   Role = "unknown"
)

// NormalizeRole maps a raw role/author value onto a known Role. Unknown
// values pass through as RoleUnknown rather than failing.
func NormalizeRole(raw string) Role {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "user", "human", "requester":
		return RoleUser
	case "assistant", "ai", "responder", "model":
		return RoleAssistant
	case "system":
		return RoleSystem
	default:
		return RoleUnknown
	}
}

// SessionType records which raw on-disk schema produced a session.
type SessionType string

const (
	SessionTypeChat    SessionType = "chat_session"
	SessionTypeEditing SessionType = "chat_editing_session"
	SessionTypeOther   SessionType = "other"
)

// Metadata is an open string-keyed mapping used to retain schema-specific
// fields without forcing a rigid struct. The upstream format is versioned
// and undocumented, so anything we do not model explicitly lands here.
type Metadata map[string]any

// String returns the value under key if it is a string, else "".
func (m Metadata) String(key string) string {
	if m == nil {
		return ""
	}
	if s, ok := m[key].(string); ok {
		return s
	}
	return ""
}

// Int64 returns the value under key coerced to int64, else 0. JSON numbers
// decode as float64, so both representations are accepted.
func (m Metadata) Int64(key string) int64 {
	if m == nil {
		return 0
	}
	switch v := m[key].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	}
	return 0
}

// Message is one normalized exchange unit within a session. Role and Content
// are always present (Content may be empty); everything else is optional.
type Message struct {
	ID        string     `json:"id,omitempty" yaml:"id,omitempty"`
	Role      Role       `json:"role" yaml:"role"`
	Content   string     `json:"content" yaml:"content"`
	Timestamp *time.Time `json:"timestamp,omitempty" yaml:"timestamp,omitempty"`
	Metadata  Metadata   `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// ChatSession is one conversation or editing interaction extracted from a
// single source file. Messages may be empty: an editing-session snapshot
// with no dialogue is a valid session, not an error.
type ChatSession struct {
	SessionID string      `json:"session_id,omitempty" yaml:"session_id,omitempty"`
	Agent     string      `json:"agent" yaml:"agent"`
	Type      SessionType `json:"session_type" yaml:"session_type"`
	Timestamp time.Time   `json:"timestamp" yaml:"timestamp"`
	Workspace string      `json:"workspace,omitempty" yaml:"workspace,omitempty"`
	Messages  []Message   `json:"messages" yaml:"messages"`
	Metadata  Metadata    `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// MessageCount returns the number of messages in the session.
func (s *ChatSession) MessageCount() int {
	return len(s.Messages)
}

// WorkspaceData is one extraction run's worth of normalized sessions.
// Session order is discovery order, not guaranteed chronological. The value
// is built once per run and read-only afterwards.
type WorkspaceData struct {
	Agent        string        `json:"agent" yaml:"agent"`
	ChatSessions []ChatSession `json:"chat_sessions" yaml:"chat_sessions"`
	Metadata     Metadata      `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// TotalMessages sums message counts across all sessions.
func (w *WorkspaceData) TotalMessages() int {
	total := 0
	for i := range w.ChatSessions {
		total += len(w.ChatSessions[i].Messages)
	}
	return total
}

// Warning records a non-fatal problem encountered while discovering or
// parsing a file. Warnings are accumulated and reported alongside the
// result, never raised to the caller.
type Warning struct {
	Path   string `json:"path" yaml:"path"`
	Reason string `json:"reason" yaml:"reason"`
}
