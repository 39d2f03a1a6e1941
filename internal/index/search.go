package index

import (
	"fmt"
	"strings"
)

// Match is one indexed message containing the query.
type Match struct {
	SourceFile   string
	SessionID    string
	SessionType  string
	Workspace    string
	MessageIndex int
	Role         string
	Timestamp    string
	Content      string
}

// Options controls an indexed search, mirroring the corpus search contract:
// plain substring match, optional case sensitivity, exact agent filter, and
// a first-N limit.
type Options struct {
	CaseSensitive bool
	Agent         string
	Limit         int
}

// Search scans the index for messages containing query as a substring.
// Results come back in index insertion order.
func Search(db *DB, query string, opts Options) ([]Match, error) {
	if query == "" {
		return nil, fmt.Errorf("search query must not be empty")
	}

	var conditions []string
	var args []interface{}

	if opts.CaseSensitive {
		conditions = append(conditions, "instr(m.content, ?) > 0")
		args = append(args, query)
	} else {
		conditions = append(conditions, "instr(lower(m.content), ?) > 0")
		args = append(args, strings.ToLower(query))
	}

	if opts.Agent != "" {
		conditions = append(conditions, "s.agent = ?")
		args = append(args, opts.Agent)
	}

	q := fmt.Sprintf(`
		SELECT m.source_file, s.session_id, s.session_type, s.workspace,
		       m.msg_idx, m.role, m.ts, m.content
		FROM messages m
		JOIN sessions s ON m.source_file = s.source_file
		WHERE %s
		ORDER BY s.rowid, m.msg_idx`,
		strings.Join(conditions, " AND "))

	if opts.Limit > 0 {
		q += " LIMIT ?"
		args = append(args, opts.Limit)
	}

	rows, err := db.Raw().Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("search query: %w", err)
	}
	defer rows.Close()

	var matches []Match
	for rows.Next() {
		var m Match
		if err := rows.Scan(
			&m.SourceFile, &m.SessionID, &m.SessionType, &m.Workspace,
			&m.MessageIndex, &m.Role, &m.Timestamp, &m.Content,
		); err != nil {
			return nil, err
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}
