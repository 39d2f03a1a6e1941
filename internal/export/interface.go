package export

import (
	"fmt"
	"io"

	"github.com/codervisor/codehist/internal"
)

// Payload is what an extraction run hands to an exporter: the normalized
// corpus, the statistics computed over it, the warnings gathered along the
// way, and optionally the results of a search.
type Payload struct {
	ChatData      *internal.WorkspaceData `json:"chat_data" yaml:"chat_data"`
	Statistics    internal.Statistics     `json:"statistics" yaml:"statistics"`
	Warnings      []internal.Warning      `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	SearchResults []internal.SearchResult `json:"search_results,omitempty" yaml:"search_results,omitempty"`
}

// Exporter defines the interface for all export formats.
type Exporter interface {
	Export(p *Payload, w io.Writer) error
	Extension() string
}

// NewExporter creates a new exporter based on format.
func NewExporter(format string) (Exporter, error) {
	switch format {
	case "json":
		return &JSONExporter{}, nil
	case "jsonl":
		return &JSONLExporter{}, nil
	case "md", "markdown":
		return &MarkdownExporter{}, nil
	case "yaml":
		return &YAMLExporter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s (supported: json, jsonl, md, yaml)", format)
	}
}
