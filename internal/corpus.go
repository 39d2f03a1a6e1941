package internal

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// Corpus is a read-only view over a WorkspaceData providing statistics
// aggregation and substring search. It never mutates the underlying data,
// so repeated queries return identical results.
type Corpus struct {
	data *WorkspaceData
}

// NewCorpus wraps an already-normalized WorkspaceData.
func NewCorpus(data *WorkspaceData) *Corpus {
	return &Corpus{data: data}
}

// Data returns the underlying WorkspaceData.
func (c *Corpus) Data() *WorkspaceData {
	return c.data
}

// DateRange is the min/max timestamp across sessions and messages that have
// a defined timestamp. Entries without timestamps are excluded from the
// range but still counted everywhere else.
type DateRange struct {
	Earliest *time.Time `json:"earliest,omitempty" yaml:"earliest,omitempty"`
	Latest   *time.Time `json:"latest,omitempty" yaml:"latest,omitempty"`
}

// Statistics aggregates the corpus.
type Statistics struct {
	TotalSessions     int            `json:"total_sessions" yaml:"total_sessions"`
	TotalMessages     int            `json:"total_messages" yaml:"total_messages"`
	SessionTypes      map[string]int `json:"session_types" yaml:"session_types"`
	MessageTypes      map[string]int `json:"message_types" yaml:"message_types"`
	WorkspaceActivity map[string]int `json:"workspace_activity,omitempty" yaml:"workspace_activity,omitempty"`
	DateRange         DateRange      `json:"date_range" yaml:"date_range"`
}

// Statistics computes aggregate statistics over the corpus.
func (c *Corpus) Statistics() Statistics {
	stats := Statistics{
		TotalSessions:     len(c.data.ChatSessions),
		SessionTypes:      make(map[string]int),
		MessageTypes:      make(map[string]int),
		WorkspaceActivity: make(map[string]int),
	}

	var earliest, latest time.Time

	observe := func(t time.Time) {
		if t.IsZero() {
			return
		}
		if earliest.IsZero() || t.Before(earliest) {
			earliest = t
		}
		if latest.IsZero() || t.After(latest) {
			latest = t
		}
	}

	for i := range c.data.ChatSessions {
		session := &c.data.ChatSessions[i]
		stats.SessionTypes[string(session.Type)]++
		observe(session.Timestamp)

		workspace := session.Workspace
		if workspace == "" {
			workspace = "unknown"
		}
		stats.WorkspaceActivity[workspace]++

		for j := range session.Messages {
			msg := &session.Messages[j]
			stats.TotalMessages++

			// Prefer the schema-specific message type, fall back to role.
			msgType := msg.Metadata.String("type")
			if msgType == "" {
				msgType = string(msg.Role)
			}
			stats.MessageTypes[msgType]++

			if msg.Timestamp != nil {
				observe(*msg.Timestamp)
			}
		}
	}

	if !earliest.IsZero() {
		e, l := earliest, latest
		stats.DateRange.Earliest = &e
		stats.DateRange.Latest = &l
	}

	return stats
}

// RoleHistogram counts messages per normalized role.
func (c *Corpus) RoleHistogram() map[Role]int {
	hist := make(map[Role]int)
	for i := range c.data.ChatSessions {
		for j := range c.data.ChatSessions[i].Messages {
			hist[c.data.ChatSessions[i].Messages[j].Role]++
		}
	}
	return hist
}

// SearchOptions controls a corpus search. The zero value means
// case-insensitive, all agents, unlimited results.
type SearchOptions struct {
	CaseSensitive bool
	Agent         string // exact match; "" = all agents
	Limit         int    // <= 0 = unlimited
}

// SearchResult is one matching (session, message) pair, in corpus insertion
// order. SessionIndex and MessageIndex locate the message within the
// WorkspaceData this corpus wraps.
type SearchResult struct {
	SessionID    string  `json:"session_id" yaml:"session_id"`
	SessionIndex int     `json:"session_index" yaml:"session_index"`
	MessageIndex int     `json:"message_index" yaml:"message_index"`
	Message      Message `json:"message" yaml:"message"`
	Context      string  `json:"context" yaml:"context"`
}

// snippetContext is how many characters of context to keep on each side of
// the first match when building a result snippet.
const snippetContext = 100

// Search returns messages whose content contains query as a substring under
// the requested case sensitivity. Results come back in corpus insertion
// order; Limit truncates the sequence without changing which matches are
// found first. An empty query is the caller's error and is rejected.
func (c *Corpus) Search(query string, opts SearchOptions) ([]SearchResult, error) {
	if query == "" {
		return nil, fmt.Errorf("search query must not be empty")
	}

	needle := query
	if !opts.CaseSensitive {
		needle = strings.ToLower(needle)
	}

	var results []SearchResult
	for i := range c.data.ChatSessions {
		session := &c.data.ChatSessions[i]
		if opts.Agent != "" && session.Agent != opts.Agent {
			continue
		}
		for j := range session.Messages {
			msg := &session.Messages[j]
			haystack := msg.Content
			if !opts.CaseSensitive {
				haystack = strings.ToLower(haystack)
			}
			idx := strings.Index(haystack, needle)
			if idx < 0 {
				continue
			}
			// Lowercasing maps rune to rune but can change byte lengths, so
			// the byte offset into the lowered haystack is only safe to carry
			// back to the original content as a rune position.
			matchPos := utf8.RuneCountInString(haystack[:idx])
			matchRunes := utf8.RuneCountInString(needle)
			results = append(results, SearchResult{
				SessionID:    session.SessionID,
				SessionIndex: i,
				MessageIndex: j,
				Message:      *msg,
				Context:      snippet(msg.Content, matchPos, matchRunes),
			})
			if opts.Limit > 0 && len(results) >= opts.Limit {
				return results, nil
			}
		}
	}

	return results, nil
}

// snippet extracts the text around a match located at matchPos, spanning
// matchRunes runes. Positions are rune indices into content, so multi-byte
// text never gets split and out-of-range positions are clamped.
func snippet(content string, matchPos, matchRunes int) string {
	runes := []rune(content)
	if matchPos > len(runes) {
		matchPos = len(runes)
	}

	start := matchPos - snippetContext
	if start < 0 {
		start = 0
	}
	end := matchPos + matchRunes + snippetContext
	if end > len(runes) {
		end = len(runes)
	}

	out := string(runes[start:end])
	if start > 0 {
		out = "..." + out
	}
	if end < len(runes) {
		out += "..."
	}
	return out
}
