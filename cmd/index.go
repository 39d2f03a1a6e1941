package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/codervisor/codehist/internal"
	"github.com/codervisor/codehist/internal/index"
	"github.com/spf13/cobra"
)

var indexPath string

// indexCmd represents the index command
var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Build or refresh the sqlite search index",
	Long: `Discover all chat sessions and write them into a sqlite index for fast
searching with 'codehist search --indexed'.

Indexing is incremental: sessions whose source files have not changed
(same mtime and size) are skipped, and sessions whose source files no
longer exist are pruned.`,
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

		path := indexPath
		if path == "" {
			path = cfg.IndexPath
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("failed to create index directory: %w", err)
		}

		db, err := index.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open index: %w", err)
		}
		defer db.Close()

		var stats index.Stats
		err = internal.ShowProgress(ctx, "Indexing sessions", func() error {
			var err error
			stats, err = index.IndexWorkspace(db, result.Data)
			return err
		})
		if err != nil {
			return err
		}

		internal.PrintSuccess(fmt.Sprintf("Index updated at %s (%s)", path, stats))
		if stats.Errors > 0 {
			internal.PrintWarning(fmt.Sprintf("%d session(s) could not be indexed (run with -v for details)", stats.Errors))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(indexCmd)
	indexCmd.Flags().StringVar(&indexPath, "index-path", "", "Index database path (defaults to the configured location)")
}
