package export

import (
	"encoding/json"
	"io"
)

// JSONLExporter writes one session per line, suitable for streaming
// consumers and line-oriented tooling.
type JSONLExporter struct{}

// Export writes each session of p as a single JSON line.
func (e *JSONLExporter) Export(p *Payload, w io.Writer) error {
	enc := json.NewEncoder(w)
	for i := range p.ChatData.ChatSessions {
		if err := enc.Encode(&p.ChatData.ChatSessions[i]); err != nil {
			return err
		}
	}
	return nil
}

// Extension returns the file extension for this format.
func (e *JSONLExporter) Extension() string {
	return "jsonl"
}
