package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/codervisor/codehist/internal"
	"github.com/codervisor/codehist/internal/export"
	"github.com/spf13/cobra"
)

var (
	chatOutput    string
	chatFormat    string
	chatSearch    string
	chatChunked   bool
	chatChunkSize int
)

// chatCmd represents the chat command
var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Extract chat history and optionally export it",
	Long: `Discover GitHub Copilot chat sessions, show a summary, and optionally
search the corpus or export it to a file.

With no --output the command prints a summary. With --output the normalized
corpus (plus statistics, warnings, and any search results) is written in the
requested format. --chunked splits a JSON export into chunk files plus a
manifest, for corpora too large to post-process as one document.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var result *internal.DiscoveryResult
		var cfg *internal.Config

		ctx := context.Background()
		err := internal.ShowProgress(ctx, "Discovering Copilot chat data", func() error {
			var err error
			result, cfg, err = discoverAll()
			return err
		})
		if err != nil {
			return err
		}

		data := result.Data
		corpus := internal.NewCorpus(data)
		stats := corpus.Statistics()

		payload := &export.Payload{
			ChatData:   data,
			Statistics: stats,
			Warnings:   result.Warnings,
		}

		if chatSearch != "" {
			matches, err := corpus.Search(chatSearch, internal.SearchOptions{})
			if err != nil {
				return err
			}
			payload.SearchResults = matches
			fmt.Printf("Found %d match(es) for %q\n", len(matches), chatSearch)
		}

		if chatOutput == "" {
			displayChatSummary(&stats, result.Warnings)
			return nil
		}

		format := chatFormat
		if format == "" {
			format = cfg.DefaultFormat
		}

		if chatChunked {
			if format != "json" {
				return fmt.Errorf("--chunked is only supported with the json format")
			}
			if err := export.WriteChunked(payload, chatOutput, chatChunkSize); err != nil {
				return err
			}
			internal.PrintSuccess(fmt.Sprintf("Chat data saved to %s (chunked)", chatOutput))
			return nil
		}

		exporter, err := export.NewExporter(format)
		if err != nil {
			return err
		}

		file, err := os.Create(chatOutput)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer file.Close()

		if err := exporter.Export(payload, file); err != nil {
			return &internal.ExportError{Format: format, Path: chatOutput, Err: err}
		}

		internal.PrintSuccess(fmt.Sprintf("Chat data saved to %s", chatOutput))
		return nil
	},
}

func displayChatSummary(stats *internal.Statistics, warnings []internal.Warning) {
	fmt.Println(headerStyle.Render("📊 Chat History Summary"))
	fmt.Printf("Sessions: %d\n", stats.TotalSessions)
	fmt.Printf("Messages: %d\n", stats.TotalMessages)

	if stats.DateRange.Earliest != nil {
		fmt.Printf("Date range: %s to %s\n",
			stats.DateRange.Earliest.Format(time.RFC3339),
			stats.DateRange.Latest.Format(time.RFC3339))
	}

	if len(warnings) > 0 {
		internal.PrintWarning(fmt.Sprintf("%d file(s) skipped during discovery (run 'codehist healthcheck -v' for details)", len(warnings)))
	}
}

func init() {
	rootCmd.AddCommand(chatCmd)
	chatCmd.Flags().StringVarP(&chatOutput, "output", "o", "", "Output file path (or directory with --chunked)")
	chatCmd.Flags().StringVarP(&chatFormat, "format", "f", "", "Output format (json, jsonl, md, yaml)")
	chatCmd.Flags().StringVarP(&chatSearch, "search", "s", "", "Search query for chat content")
	chatCmd.Flags().BoolVar(&chatChunked, "chunked", false, "Split JSON export into chunk files")
	chatCmd.Flags().IntVar(&chatChunkSize, "chunk-size", 100, "Sessions per chunk with --chunked")
}
