package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/codervisor/codehist/internal"
)

// MarkdownExporter renders the payload as a human-readable report.
type MarkdownExporter struct{}

// Export writes p to w as Markdown.
func (e *MarkdownExporter) Export(p *Payload, w io.Writer) error {
	_, _ = fmt.Fprintf(w, "# Chat History: %s\n\n", p.ChatData.Agent)

	stats := p.Statistics
	_, _ = fmt.Fprintf(w, "**Sessions:** %d  \n", stats.TotalSessions)
	_, _ = fmt.Fprintf(w, "**Messages:** %d\n\n", stats.TotalMessages)
	if stats.DateRange.Earliest != nil {
		_, _ = fmt.Fprintf(w, "**Date range:** %s to %s\n\n",
			stats.DateRange.Earliest.Format(time.RFC3339),
			stats.DateRange.Latest.Format(time.RFC3339))
	}

	if len(p.Warnings) > 0 {
		_, _ = fmt.Fprintf(w, "## Warnings\n\n")
		for _, warn := range p.Warnings {
			_, _ = fmt.Fprintf(w, "- `%s`: %s\n", warn.Path, warn.Reason)
		}
		_, _ = fmt.Fprintf(w, "\n")
	}

	for i := range p.ChatData.ChatSessions {
		if err := e.exportSession(&p.ChatData.ChatSessions[i], w); err != nil {
			return err
		}
	}

	return nil
}

func (e *MarkdownExporter) exportSession(session *internal.ChatSession, w io.Writer) error {
	_, _ = fmt.Fprintf(w, "## Session %s\n\n", session.SessionID)

	if session.Workspace != "" {
		_, _ = fmt.Fprintf(w, "**Workspace:** %s  \n", session.Workspace)
	}
	_, _ = fmt.Fprintf(w, "**Type:** %s  \n", session.Type)
	if !session.Timestamp.IsZero() {
		_, _ = fmt.Fprintf(w, "**Time:** %s  \n", session.Timestamp.Format(time.RFC3339))
	}
	_, _ = fmt.Fprintf(w, "**Messages:** %d\n\n", len(session.Messages))

	for i := range session.Messages {
		msg := &session.Messages[i]

		timestamp := ""
		if msg.Timestamp != nil {
			timestamp = fmt.Sprintf(" (%s)", msg.Timestamp.Format(time.RFC3339))
		}

		_, _ = fmt.Fprintf(w, "**%s:**%s\n\n%s\n\n", msg.Role, timestamp, escapeMarkdown(msg.Content))

		if i < len(session.Messages)-1 {
			_, _ = fmt.Fprintf(w, "---\n\n")
		}
	}

	return nil
}

// escapeMarkdown escapes emphasis markers outside code blocks so message
// content cannot restyle the surrounding report.
func escapeMarkdown(text string) string {
	lines := strings.Split(text, "\n")
	var result []string
	inCodeBlock := false

	for _, line := range lines {
		if strings.HasPrefix(line, "```") {
			inCodeBlock = !inCodeBlock
			result = append(result, line)
		} else if inCodeBlock {
			result = append(result, line)
		} else {
			line = strings.ReplaceAll(line, "**", "\\*\\*")
			line = strings.ReplaceAll(line, "__", "\\_\\_")
			result = append(result, line)
		}
	}

	return strings.Join(result, "\n")
}

// Extension returns the file extension for this format.
func (e *MarkdownExporter) Extension() string {
	return "md"
}
