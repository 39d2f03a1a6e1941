package index

import (
	"fmt"
	"time"

	"github.com/codervisor/codehist/internal"
)

// Stats summarizes one indexing run.
type Stats struct {
	Scanned int
	Updated int
	Skipped int
	Pruned  int
	Errors  int
}

func (s Stats) String() string {
	return fmt.Sprintf("scanned=%d updated=%d skipped=%d pruned=%d errors=%d",
		s.Scanned, s.Updated, s.Skipped, s.Pruned, s.Errors)
}

// IndexWorkspace upserts a normalized corpus into the index, skipping
// sessions whose source files are unchanged since the last run, and pruning
// indexed sessions whose source files have vanished.
func IndexWorkspace(db *DB, data *internal.WorkspaceData) (Stats, error) {
	var stats Stats
	stats.Scanned = len(data.ChatSessions)

	seen := make(map[string]struct{})

	for i := range data.ChatSessions {
		session := &data.ChatSessions[i]

		sourceFile := session.Metadata.String("source_file")
		if sourceFile == "" {
			// Nothing stable to key on; skip rather than corrupt the index.
			stats.Errors++
			continue
		}
		seen[sourceFile] = struct{}{}

		mtime := session.Metadata.Int64("mtime_unix")
		size := session.Metadata.Int64("file_size")

		needs, err := needsUpdate(db, sourceFile, mtime, size)
		if err != nil {
			stats.Errors++
			continue
		}
		if !needs {
			stats.Skipped++
			continue
		}

		if err := indexSession(db, session, sourceFile, mtime, size); err != nil {
			stats.Errors++
			internal.LogWarn("index %s: %v", sourceFile, err)
			continue
		}
		stats.Updated++
	}

	pruned, err := pruneSessions(db, seen)
	if err != nil {
		return stats, fmt.Errorf("prune: %w", err)
	}
	stats.Pruned = pruned

	return stats, nil
}

func needsUpdate(db *DB, sourceFile string, mtime, size int64) (bool, error) {
	info, err := db.GetFileInfo(sourceFile)
	if err != nil {
		return false, err
	}
	if info == nil {
		return true, nil // new session
	}
	return info.Mtime != mtime || info.Size != size, nil
}

func indexSession(db *DB, session *internal.ChatSession, sourceFile string, mtime, size int64) error {
	// delete old data first
	if err := db.DeleteSession(sourceFile); err != nil {
		return err
	}

	tx, err := db.Raw().Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO sessions (source_file, session_id, session_type, agent, workspace, ts, mtime, size)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		sourceFile,
		session.SessionID,
		string(session.Type),
		session.Agent,
		session.Workspace,
		formatTS(session.Timestamp),
		mtime,
		size,
	)
	if err != nil {
		return err
	}

	stmt, err := tx.Prepare(
		`INSERT INTO messages (source_file, msg_idx, role, ts, content)
		 VALUES (?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i := range session.Messages {
		msg := &session.Messages[i]
		ts := ""
		if msg.Timestamp != nil {
			ts = formatTS(*msg.Timestamp)
		}
		if _, err := stmt.Exec(sourceFile, i, string(msg.Role), ts, msg.Content); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func pruneSessions(db *DB, seen map[string]struct{}) (int, error) {
	all, err := db.AllSourceFiles()
	if err != nil {
		return 0, err
	}

	pruned := 0
	for file := range all {
		if _, ok := seen[file]; !ok {
			if err := db.DeleteSession(file); err != nil {
				return pruned, err
			}
			pruned++
		}
	}
	return pruned, nil
}

func formatTS(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
