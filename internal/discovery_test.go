package internal

import (
	"testing"

	"github.com/codervisor/codehist/testutil"
)

func TestDiscover(t *testing.T) {
	root := testutil.CreateUserDataRoot(t, t.TempDir())
	ws := testutil.CreateWorkspaceFixture(t, root, "ws-a", "/home/dev/projectA")

	testutil.WriteChatSessionFixture(t, ws, "good1", testutil.SampleChatSession("good1", "first question", "first answer"))
	testutil.WriteChatSessionFixture(t, ws, "good2", testutil.SampleChatSession("good2", "second question", "second answer"))
	testutil.WriteRawFixture(t, ws+"/chatSessions/bad.json", []byte("{truncated"))

	result := Discover([]string{root})

	if got := len(result.Data.ChatSessions); got != 2 {
		t.Fatalf("sessions = %d, want 2 (malformed file skipped)", got)
	}
	if got := len(result.Warnings); got != 1 {
		t.Fatalf("warnings = %d, want 1", got)
	}

	// The workspace folder from workspace.json is attached to each session.
	for _, session := range result.Data.ChatSessions {
		if session.Workspace != "/home/dev/projectA" {
			t.Errorf("Workspace = %q, want /home/dev/projectA", session.Workspace)
		}
		if session.Agent != AgentCopilot {
			t.Errorf("Agent = %q, want %q", session.Agent, AgentCopilot)
		}
	}

	if result.Data.Metadata.Int64("session_count") != 2 {
		t.Errorf("session_count = %d, want 2", result.Data.Metadata.Int64("session_count"))
	}
	if result.Data.Metadata.Int64("warning_count") != 1 {
		t.Errorf("warning_count = %d, want 1", result.Data.Metadata.Int64("warning_count"))
	}
}

func TestDiscover_NoRoots(t *testing.T) {
	result := Discover(nil)

	if result.Data == nil {
		t.Fatal("Data = nil, want empty WorkspaceData")
	}
	if len(result.Data.ChatSessions) != 0 {
		t.Errorf("sessions = %d, want 0", len(result.Data.ChatSessions))
	}
	if len(result.Warnings) != 0 {
		t.Errorf("warnings = %v, want none", result.Warnings)
	}
}

func TestDiscover_EmptyRoot(t *testing.T) {
	// A root with no workspaceStorage at all is a valid empty outcome.
	result := Discover([]string{t.TempDir()})
	if len(result.Data.ChatSessions) != 0 || len(result.Warnings) != 0 {
		t.Errorf("got %d sessions, %d warnings; want 0, 0",
			len(result.Data.ChatSessions), len(result.Warnings))
	}
}

func TestDiscover_TwoTurnConversation(t *testing.T) {
	root := testutil.CreateUserDataRoot(t, t.TempDir())
	ws := testutil.CreateWorkspaceFixture(t, root, "ws-a", "")
	testutil.WriteChatSessionFixture(t, ws, "bugfix", map[string]interface{}{
		"sessionId": "bugfix",
		"turns": []interface{}{
			map[string]interface{}{"role": "user", "content": "fix the bug"},
			map[string]interface{}{"role": "assistant", "content": "done"},
		},
	})

	result := Discover([]string{root})

	if len(result.Data.ChatSessions) != 1 {
		t.Fatalf("sessions = %d, want 1", len(result.Data.ChatSessions))
	}
	if got := result.Data.TotalMessages(); got != 2 {
		t.Fatalf("TotalMessages = %d, want 2", got)
	}

	hist := NewCorpus(result.Data).RoleHistogram()
	if hist[RoleUser] != 1 || hist[RoleAssistant] != 1 {
		t.Errorf("role histogram = %v, want {user:1, assistant:1}", hist)
	}
}

func TestDiscover_MultipleRoots(t *testing.T) {
	rootA := testutil.CreateUserDataRoot(t, t.TempDir())
	wsA := testutil.CreateWorkspaceFixture(t, rootA, "ws-a", "")
	testutil.WriteChatSessionFixture(t, wsA, "a", testutil.SampleChatSession("a", "q", "r"))

	rootB := testutil.CreateUserDataRoot(t, t.TempDir())
	wsB := testutil.CreateWorkspaceFixture(t, rootB, "ws-b", "")
	testutil.WriteChatSessionFixture(t, wsB, "b", testutil.SampleChatSession("b", "q", "r"))

	result := Discover([]string{rootA, rootB})
	if got := len(result.Data.ChatSessions); got != 2 {
		t.Errorf("sessions = %d, want 2 across roots", got)
	}
}
