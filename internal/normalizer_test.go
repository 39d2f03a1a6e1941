package internal

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/codervisor/codehist/testutil"
)

func writeChatCandidate(t *testing.T, body map[string]interface{}) Candidate {
	t.Helper()
	ws := testutil.CreateWorkspaceFixture(t, testutil.CreateUserDataRoot(t, t.TempDir()), "ws1", "")
	path := testutil.WriteChatSessionFixture(t, ws, "session", body)
	return Candidate{Path: path, Kind: SessionTypeChat, WorkspaceID: "ws1"}
}

func writeEditingCandidate(t *testing.T, name string, body map[string]interface{}) Candidate {
	t.Helper()
	ws := testutil.CreateWorkspaceFixture(t, testutil.CreateUserDataRoot(t, t.TempDir()), "ws1", "")
	path := testutil.WriteEditingSessionFixture(t, ws, name, body)
	return Candidate{Path: path, Kind: SessionTypeEditing, WorkspaceID: "ws1"}
}

func TestNormalize_RequestResponsePair(t *testing.T) {
	c := writeChatCandidate(t, map[string]interface{}{
		"sessionId":    "session-1",
		"creationDate": "2024-03-01T10:00:00Z",
		"requests": []interface{}{
			map[string]interface{}{
				"requestId": "req-1",
				"message":   map[string]interface{}{"text": "how do I use docker?"},
				"response":  []interface{}{map[string]interface{}{"value": "Use a Dockerfile."}},
			},
		},
	})

	session, warn := NewNormalizer().Normalize(c)
	if warn != nil {
		t.Fatalf("Normalize() warning = %v", warn)
	}

	if session.SessionID != "session-1" {
		t.Errorf("SessionID = %q, want session-1", session.SessionID)
	}
	if session.Type != SessionTypeChat {
		t.Errorf("Type = %q, want %q", session.Type, SessionTypeChat)
	}
	if session.Agent != AgentCopilot {
		t.Errorf("Agent = %q, want %q", session.Agent, AgentCopilot)
	}
	if len(session.Messages) != 2 {
		t.Fatalf("len(Messages) = %d, want 2 (user + assistant)", len(session.Messages))
	}

	user := session.Messages[0]
	if user.Role != RoleUser {
		t.Errorf("first Role = %q, want user", user.Role)
	}
	if user.Content != "how do I use docker?" {
		t.Errorf("user Content = %q", user.Content)
	}
	if user.ID != "req-1" {
		t.Errorf("user ID = %q, want req-1", user.ID)
	}
	if user.Metadata.String("type") != "user_request" {
		t.Errorf("user metadata type = %q, want user_request", user.Metadata.String("type"))
	}

	assistant := session.Messages[1]
	if assistant.Role != RoleAssistant {
		t.Errorf("second Role = %q, want assistant", assistant.Role)
	}
	if assistant.Content != "Use a Dockerfile." {
		t.Errorf("assistant Content = %q", assistant.Content)
	}
	if assistant.Metadata.String("type") != "assistant_response" {
		t.Errorf("assistant metadata type = %q, want assistant_response", assistant.Metadata.String("type"))
	}

	want := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	if !session.Timestamp.Equal(want) {
		t.Errorf("Timestamp = %v, want %v", session.Timestamp, want)
	}
}

func TestNormalize_RoleBearingTurns(t *testing.T) {
	// One role-bearing turn maps to exactly one message.
	c := writeChatCandidate(t, map[string]interface{}{
		"id": "alt-ids",
		"turns": []interface{}{
			map[string]interface{}{"role": "user", "content": "hello"},
			map[string]interface{}{"author": "AI", "text": "hi there"},
			map[string]interface{}{"speaker": "robot", "value": "beep"},
		},
	})

	session, warn := NewNormalizer().Normalize(c)
	if warn != nil {
		t.Fatalf("Normalize() warning = %v", warn)
	}
	if len(session.Messages) != 3 {
		t.Fatalf("len(Messages) = %d, want 3", len(session.Messages))
	}

	wantRoles := []Role{RoleUser, RoleAssistant, RoleUnknown}
	wantContent := []string{"hello", "hi there", "beep"}
	for i, msg := range session.Messages {
		if msg.Role != wantRoles[i] {
			t.Errorf("Messages[%d].Role = %q, want %q", i, msg.Role, wantRoles[i])
		}
		if msg.Content != wantContent[i] {
			t.Errorf("Messages[%d].Content = %q, want %q", i, msg.Content, wantContent[i])
		}
	}
}

func TestNormalize_TurnWithNeitherShape(t *testing.T) {
	// A turn with no role and no message/response still yields one message
	// with documented defaults: unknown role, empty content.
	c := writeChatCandidate(t, map[string]interface{}{
		"sessionId": "odd",
		"requests": []interface{}{
			map[string]interface{}{"somethingElse": true},
		},
	})

	session, warn := NewNormalizer().Normalize(c)
	if warn != nil {
		t.Fatalf("Normalize() warning = %v", warn)
	}
	if len(session.Messages) != 1 {
		t.Fatalf("len(Messages) = %d, want 1", len(session.Messages))
	}
	if session.Messages[0].Role != RoleUnknown {
		t.Errorf("Role = %q, want unknown", session.Messages[0].Role)
	}
	if session.Messages[0].Content != "" {
		t.Errorf("Content = %q, want empty", session.Messages[0].Content)
	}
	if session.Messages[0].Timestamp == nil {
		t.Error("Timestamp = nil, want session fallback")
	}
}

func TestNormalize_RequestWithoutResponse(t *testing.T) {
	// A canceled or in-flight request has a message but no response.
	c := writeChatCandidate(t, map[string]interface{}{
		"sessionId": "pending",
		"requests": []interface{}{
			map[string]interface{}{
				"message": "still waiting",
			},
		},
	})

	session, warn := NewNormalizer().Normalize(c)
	if warn != nil {
		t.Fatalf("Normalize() warning = %v", warn)
	}
	if len(session.Messages) != 1 {
		t.Fatalf("len(Messages) = %d, want 1 (user only)", len(session.Messages))
	}
	if session.Messages[0].Role != RoleUser {
		t.Errorf("Role = %q, want user", session.Messages[0].Role)
	}
	if session.Messages[0].Content != "still waiting" {
		t.Errorf("Content = %q", session.Messages[0].Content)
	}
}

func TestNormalize_SessionIDFallsBackToFileStem(t *testing.T) {
	c := writeChatCandidate(t, map[string]interface{}{
		"requests": []interface{}{},
	})

	session, warn := NewNormalizer().Normalize(c)
	if warn != nil {
		t.Fatalf("Normalize() warning = %v", warn)
	}
	// Fixture file name is session.json.
	if session.SessionID != "session" {
		t.Errorf("SessionID = %q, want file stem 'session'", session.SessionID)
	}
	if len(session.Messages) != 0 {
		t.Errorf("len(Messages) = %d, want 0 (empty session is valid)", len(session.Messages))
	}
}

func TestNormalize_TimestampFallsBackToMtime(t *testing.T) {
	c := writeChatCandidate(t, map[string]interface{}{
		"sessionId": "no-time",
		"requests":  []interface{}{},
	})

	mtime := time.Date(2023, 6, 15, 12, 0, 0, 0, time.UTC)
	if err := os.Chtimes(c.Path, mtime, mtime); err != nil {
		t.Fatalf("Chtimes() error = %v", err)
	}

	session, warn := NewNormalizer().Normalize(c)
	if warn != nil {
		t.Fatalf("Normalize() warning = %v", warn)
	}
	if !session.Timestamp.Equal(mtime) {
		t.Errorf("Timestamp = %v, want mtime %v", session.Timestamp, mtime)
	}
}

func TestNormalize_MalformedJSON(t *testing.T) {
	ws := testutil.CreateWorkspaceFixture(t, testutil.CreateUserDataRoot(t, t.TempDir()), "ws1", "")
	path := filepath.Join(ws, "chatSessions", "broken.json")
	testutil.WriteRawFixture(t, path, []byte("{not json"))

	session, warn := NewNormalizer().Normalize(Candidate{Path: path, Kind: SessionTypeChat, WorkspaceID: "ws1"})
	if session != nil {
		t.Errorf("session = %v, want nil", session)
	}
	if warn == nil {
		t.Fatal("warning = nil, want invalid JSON warning")
	}
	if warn.Path != path {
		t.Errorf("warning Path = %q, want %q", warn.Path, path)
	}
}

func TestNormalize_NonObjectPayload(t *testing.T) {
	ws := testutil.CreateWorkspaceFixture(t, testutil.CreateUserDataRoot(t, t.TempDir()), "ws1", "")
	path := filepath.Join(ws, "chatSessions", "array.json")
	testutil.WriteRawFixture(t, path, []byte(`[1, 2, 3]`))

	session, warn := NewNormalizer().Normalize(Candidate{Path: path, Kind: SessionTypeChat, WorkspaceID: "ws1"})
	if session != nil || warn == nil {
		t.Fatalf("got (%v, %v), want (nil, warning)", session, warn)
	}
}

func TestNormalize_UnrecognizedChatStructure(t *testing.T) {
	// A JSON object with neither a turn list nor a session id is some other
	// file that happens to live in chatSessions.
	c := writeChatCandidate(t, map[string]interface{}{
		"settings": map[string]interface{}{"theme": "dark"},
	})

	session, warn := NewNormalizer().Normalize(c)
	if session != nil || warn == nil {
		t.Fatalf("got (%v, %v), want (nil, warning)", session, warn)
	}
}

func TestNormalize_MissingFile(t *testing.T) {
	c := Candidate{
		Path: filepath.Join(t.TempDir(), "gone.json"),
		Kind: SessionTypeChat,
	}
	session, warn := NewNormalizer().Normalize(c)
	if session != nil || warn == nil {
		t.Fatalf("got (%v, %v), want (nil, warning)", session, warn)
	}
}

func TestNormalize_SourceMetadata(t *testing.T) {
	c := writeChatCandidate(t, testutil.SampleChatSession("meta-check", "q", "a"))

	session, warn := NewNormalizer().Normalize(c)
	if warn != nil {
		t.Fatalf("Normalize() warning = %v", warn)
	}

	if got := session.Metadata.String("source_file"); got != c.Path {
		t.Errorf("source_file = %q, want %q", got, c.Path)
	}
	if got := session.Metadata.String("workspace_id"); got != "ws1" {
		t.Errorf("workspace_id = %q, want ws1", got)
	}
	if session.Metadata.Int64("file_size") <= 0 {
		t.Error("file_size missing or zero")
	}
	if session.Metadata.Int64("mtime_unix") <= 0 {
		t.Error("mtime_unix missing or zero")
	}
	if session.Metadata.Int64("total_requests") != 1 {
		t.Errorf("total_requests = %d, want 1", session.Metadata.Int64("total_requests"))
	}
}

func TestNormalize_EditingSession(t *testing.T) {
	c := writeEditingCandidate(t, "edit-dir", map[string]interface{}{
		"sessionId": "edit-1",
		"version":   1,
		"linearHistory": []interface{}{
			map[string]interface{}{
				"requestId": "r1",
				"workingSet": []interface{}{
					"file:///a/main.go",
					map[string]interface{}{"resource": "file:///a/util.go"},
				},
				"entries": []interface{}{map[string]interface{}{}},
			},
		},
		"recentSnapshot": map[string]interface{}{
			"workingSet": []interface{}{"file:///a/main.go"},
		},
	})

	session, warn := NewNormalizer().Normalize(c)
	if warn != nil {
		t.Fatalf("Normalize() warning = %v", warn)
	}

	if session.Type != SessionTypeEditing {
		t.Errorf("Type = %q, want %q", session.Type, SessionTypeEditing)
	}
	if session.SessionID != "edit-1" {
		t.Errorf("SessionID = %q, want edit-1", session.SessionID)
	}
	if len(session.Messages) != 2 {
		t.Fatalf("len(Messages) = %d, want 2 (history turn + snapshot)", len(session.Messages))
	}

	turn := session.Messages[0]
	if turn.Role != RoleSystem {
		t.Errorf("turn Role = %q, want system", turn.Role)
	}
	if turn.ID != "r1" {
		t.Errorf("turn ID = %q, want r1", turn.ID)
	}
	if turn.Metadata.String("type") != "user_request" {
		t.Errorf("turn metadata type = %q, want user_request", turn.Metadata.String("type"))
	}
	files, ok := turn.Metadata["files"].([]string)
	if !ok || len(files) != 2 {
		t.Errorf("turn files = %v, want 2 paths", turn.Metadata["files"])
	}

	snap := session.Messages[1]
	if snap.Metadata.String("type") != "snapshot" {
		t.Errorf("snapshot metadata type = %q, want snapshot", snap.Metadata.String("type"))
	}
	if snap.ID != "snapshot_edit-1" {
		t.Errorf("snapshot ID = %q", snap.ID)
	}
}

func TestNormalize_EditingSessionIDFallsBackToDirName(t *testing.T) {
	c := writeEditingCandidate(t, "fallback-dir", map[string]interface{}{
		"version": 2,
	})

	session, warn := NewNormalizer().Normalize(c)
	if warn != nil {
		t.Fatalf("Normalize() warning = %v", warn)
	}
	if session.SessionID != "fallback-dir" {
		t.Errorf("SessionID = %q, want fallback-dir", session.SessionID)
	}
	if len(session.Messages) != 0 {
		t.Errorf("len(Messages) = %d, want 0 (snapshot-free state is valid)", len(session.Messages))
	}
}

func TestNormalize_EditingSessionUnrecognized(t *testing.T) {
	c := writeEditingCandidate(t, "junk", map[string]interface{}{
		"unrelated": "stuff",
	})

	session, warn := NewNormalizer().Normalize(c)
	if session != nil || warn == nil {
		t.Fatalf("got (%v, %v), want (nil, warning)", session, warn)
	}
}

func TestParseTime(t *testing.T) {
	tests := []struct {
		name  string
		in    interface{}
		want  time.Time
		valid bool
	}{
		{"rfc3339", "2024-03-01T10:00:00Z", time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC), true},
		{"rfc3339 nano", "2024-03-01T10:00:00.123456789Z", time.Date(2024, 3, 1, 10, 0, 0, 123456789, time.UTC), true},
		{"no timezone", "2024-03-01T10:00:00", time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC), true},
		{"epoch millis", float64(1709287200000), time.Unix(1709287200, 0), true},
		{"epoch seconds", float64(1709287200), time.Unix(1709287200, 0), true},
		{"zero", float64(0), time.Time{}, false},
		{"negative", float64(-5), time.Time{}, false},
		{"garbage string", "yesterday", time.Time{}, false},
		{"wrong type", true, time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseTime(tt.in)
			if ok != tt.valid {
				t.Fatalf("parseTime(%v) ok = %v, want %v", tt.in, ok, tt.valid)
			}
			if tt.valid && !got.Equal(tt.want) {
				t.Errorf("parseTime(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestTextOf(t *testing.T) {
	tests := []struct {
		name string
		in   interface{}
		want string
	}{
		{"plain string", "hello", "hello"},
		{"object with text", map[string]interface{}{"text": "inner"}, "inner"},
		{"object with value", map[string]interface{}{"value": "v"}, "v"},
		{"object with parts", map[string]interface{}{
			"parts": []interface{}{"one", map[string]interface{}{"text": "two"}},
		}, "one\ntwo"},
		{"array of parts", []interface{}{
			map[string]interface{}{"value": "a"},
			map[string]interface{}{"value": "b"},
		}, "a\nb"},
		{"number", float64(3), ""},
		{"empty object", map[string]interface{}{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := textOf(tt.in); got != tt.want {
				t.Errorf("textOf(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFilePaths(t *testing.T) {
	got := filePaths([]interface{}{
		"plain/path.go",
		map[string]interface{}{"resource": "res/path.go"},
		map[string]interface{}{"uri": "uri/path.go"},
		map[string]interface{}{"unrelated": true},
		float64(42),
	})
	want := []string{"plain/path.go", "res/path.go", "uri/path.go"}
	if len(got) != len(want) {
		t.Fatalf("filePaths = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("filePaths[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
