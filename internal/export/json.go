package export

import (
	"encoding/json"
	"io"
)

// JSONExporter writes the full payload as pretty-printed JSON.
type JSONExporter struct{}

// Export writes p to w.
func (e *JSONExporter) Export(p *Payload, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(p)
}

// Extension returns the file extension for this format.
func (e *JSONExporter) Extension() string {
	return "json"
}
