package cmd

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/codervisor/codehist/internal"
	"github.com/spf13/cobra"
)

var (
	// Styles shared across command output
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))

	countStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))
)

// statsCmd represents the stats command
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show statistics about available chat data",
	Long:  `Discover GitHub Copilot chat sessions and print aggregate statistics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		result, _, err := discoverAll()
		if err != nil {
			return err
		}

		corpus := internal.NewCorpus(result.Data)
		stats := corpus.Statistics()

		if stats.TotalSessions == 0 {
			fmt.Println(headerStyle.Render("📋 No chat sessions found"))
			fmt.Println(dimStyle.Render("Make sure VS Code is installed and you have used Copilot chat"))
			return nil
		}

		fmt.Println(headerStyle.Render("📊 Copilot Chat Statistics"))
		fmt.Println()

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		_, _ = fmt.Fprintln(w, titleStyle.Render("Metric")+"\t"+titleStyle.Render("Value")+"\t")
		_, _ = fmt.Fprintln(w, strings.Repeat("─", 60))
		_, _ = fmt.Fprintf(w, "%s\t%s\t\n", labelStyle.Render("Total Sessions"), countStyle.Render(fmt.Sprintf("%d", stats.TotalSessions)))
		_, _ = fmt.Fprintf(w, "%s\t%s\t\n", labelStyle.Render("Total Messages"), countStyle.Render(fmt.Sprintf("%d", stats.TotalMessages)))
		if stats.DateRange.Earliest != nil {
			rangeStr := fmt.Sprintf("%s to %s",
				stats.DateRange.Earliest.Format(time.RFC3339),
				stats.DateRange.Latest.Format(time.RFC3339))
			_, _ = fmt.Fprintf(w, "%s\t%s\t\n", labelStyle.Render("Date Range"), dimStyle.Render(rangeStr))
		}
		_ = w.Flush()

		printHistogram("Session Types", stats.SessionTypes)
		printHistogram("Message Types", stats.MessageTypes)

		if len(stats.WorkspaceActivity) > 0 {
			fmt.Println()
			fmt.Println(titleStyle.Render("Workspace Activity:"))
			for _, kv := range sortedByCount(stats.WorkspaceActivity) {
				name := kv.key
				if name == "unknown" {
					name = "Unknown"
				}
				fmt.Printf("  • %s: %s session(s)\n", labelStyle.Render(name), countStyle.Render(fmt.Sprintf("%d", kv.count)))
			}
		}

		if len(result.Warnings) > 0 {
			fmt.Println()
			internal.PrintWarning(fmt.Sprintf("%d file(s) skipped during discovery", len(result.Warnings)))
		}

		return nil
	},
}

func printHistogram(title string, hist map[string]int) {
	if len(hist) == 0 {
		return
	}
	fmt.Println()
	fmt.Println(titleStyle.Render(title + ":"))
	for _, kv := range sortedByCount(hist) {
		fmt.Printf("  • %s: %s\n", labelStyle.Render(kv.key), countStyle.Render(fmt.Sprintf("%d", kv.count)))
	}
}

type keyCount struct {
	key   string
	count int
}

func sortedByCount(hist map[string]int) []keyCount {
	out := make([]keyCount, 0, len(hist))
	for k, v := range hist {
		out = append(out, keyCount{k, v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].count != out[j].count {
			return out[i].count > out[j].count
		}
		return out[i].key < out[j].key
	})
	return out
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
