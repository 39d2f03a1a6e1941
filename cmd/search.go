package cmd

import (
	"fmt"
	"strings"

	"github.com/codervisor/codehist/internal"
	"github.com/codervisor/codehist/internal/index"
	"github.com/spf13/cobra"
)

var (
	searchLimit         int
	searchCaseSensitive bool
	searchAgent         string
	searchIndexed       bool
)

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search chat message content",
	Long: `Search all discovered chat messages for a substring.

By default the search scans live session files. With --indexed the query
runs against the sqlite index built by 'codehist index' instead, which is
faster for large corpora but only as fresh as the last index run.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := args[0]

		if searchIndexed {
			return runIndexedSearch(query)
		}

		result, _, err := discoverAll()
		if err != nil {
			return err
		}

		corpus := internal.NewCorpus(result.Data)
		matches, err := corpus.Search(query, internal.SearchOptions{
			CaseSensitive: searchCaseSensitive,
			Agent:         searchAgent,
			Limit:         searchLimit,
		})
		if err != nil {
			return err
		}

		if len(matches) == 0 {
			fmt.Printf("No matches for %q\n", query)
			return nil
		}

		fmt.Println(headerStyle.Render(fmt.Sprintf("🔍 %d match(es) for %q", len(matches), query)))
		for _, m := range matches {
			fmt.Println()
			fmt.Printf("%s %s\n",
				titleStyle.Render(m.SessionID),
				dimStyle.Render(fmt.Sprintf("(message %d, %s)", m.MessageIndex, m.Message.Role)))
			if m.Message.Timestamp != nil {
				fmt.Printf("  %s\n", dimStyle.Render(m.Message.Timestamp.Format("2006-01-02 15:04:05")))
			}
			fmt.Printf("  %s\n", m.Context)
		}
		return nil
	},
}

func runIndexedSearch(query string) error {
	cfg, err := internal.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := index.Open(cfg.IndexPath)
	if err != nil {
		return fmt.Errorf("failed to open index (run 'codehist index' first): %w", err)
	}
	defer db.Close()

	matches, err := index.Search(db, query, index.Options{
		CaseSensitive: searchCaseSensitive,
		Agent:         searchAgent,
		Limit:         searchLimit,
	})
	if err != nil {
		return err
	}

	if len(matches) == 0 {
		fmt.Printf("No matches for %q\n", query)
		return nil
	}

	fmt.Println(headerStyle.Render(fmt.Sprintf("🔍 %d indexed match(es) for %q", len(matches), query)))
	for _, m := range matches {
		fmt.Println()
		fmt.Printf("%s %s\n",
			titleStyle.Render(m.SessionID),
			dimStyle.Render(fmt.Sprintf("(message %d, %s)", m.MessageIndex, m.Role)))
		if m.Timestamp != "" {
			fmt.Printf("  %s\n", dimStyle.Render(m.Timestamp))
		}
		fmt.Printf("  %s\n", condense(m.Content, 200))
	}
	return nil
}

// condense collapses whitespace and trims content to at most max runes,
// keeping indexed search output to one line per match.
func condense(s string, max int) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "l", 0, "Maximum number of results (0 = unlimited)")
	searchCmd.Flags().BoolVarP(&searchCaseSensitive, "case-sensitive", "c", false, "Match case exactly")
	searchCmd.Flags().StringVar(&searchAgent, "agent", "", "Only search sessions from this agent")
	searchCmd.Flags().BoolVar(&searchIndexed, "indexed", false, "Search the sqlite index instead of live files")
}
