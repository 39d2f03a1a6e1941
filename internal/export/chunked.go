package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/codervisor/codehist/internal"
)

// chunkManifest describes a chunked export so consumers can reassemble it
// without loading every chunk.
type chunkManifest struct {
	Agent         string              `json:"agent"`
	ChunkSize     int                 `json:"chunk_size"`
	ChunkCount    int                 `json:"chunk_count"`
	TotalSessions int                 `json:"total_sessions"`
	Statistics    internal.Statistics `json:"statistics"`
	Chunks        []string            `json:"chunks"`
}

// WriteChunked splits the payload's sessions into files of at most chunkSize
// sessions under dir, plus a manifest.json tying them together. Large
// corpora otherwise produce JSON files too big to post-process comfortably.
func WriteChunked(p *Payload, dir string, chunkSize int) error {
	if chunkSize <= 0 {
		chunkSize = 100
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &internal.ExportError{Format: "chunked-json", Path: dir, Err: err}
	}

	sessions := p.ChatData.ChatSessions
	manifest := chunkManifest{
		Agent:         p.ChatData.Agent,
		ChunkSize:     chunkSize,
		TotalSessions: len(sessions),
		Statistics:    p.Statistics,
	}

	for start := 0; start < len(sessions); start += chunkSize {
		end := start + chunkSize
		if end > len(sessions) {
			end = len(sessions)
		}
		name := fmt.Sprintf("chunk_%04d.json", len(manifest.Chunks)+1)
		if err := writeJSONFile(filepath.Join(dir, name), sessions[start:end]); err != nil {
			return err
		}
		manifest.Chunks = append(manifest.Chunks, name)
	}
	manifest.ChunkCount = len(manifest.Chunks)

	return writeJSONFile(filepath.Join(dir, "manifest.json"), &manifest)
}

func writeJSONFile(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return &internal.ExportError{Format: "chunked-json", Path: path, Err: err}
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return &internal.ExportError{Format: "chunked-json", Path: path, Err: err}
	}
	return nil
}
