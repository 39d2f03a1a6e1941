package export

import (
	"io"

	"gopkg.in/yaml.v3"
)

// YAMLExporter writes the full payload as YAML.
type YAMLExporter struct{}

// Export writes p to w.
func (e *YAMLExporter) Export(p *Payload, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	defer func() { _ = enc.Close() }()

	return enc.Encode(p)
}

// Extension returns the file extension for this format.
func (e *YAMLExporter) Extension() string {
	return "yaml"
}
