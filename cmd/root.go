package cmd

import (
	"fmt"
	"os"

	"github.com/codervisor/codehist/internal"
	"github.com/spf13/cobra"
)

var (
	verbose     bool
	storagePath string
	version     string = "dev"
	commit      string = "unknown"
	date        string = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "codehist",
	Short: "Extract and analyze GitHub Copilot chat history",
	Long: `A CLI tool to extract and analyze GitHub Copilot chat history from
VS Code's local storage.

codehist locates chat session files across VS Code variants (stable,
Insiders), normalizes their varying JSON schemas into one uniform model,
and lets you inspect, search, and export the result.

Quick Start:
  codehist chat                        # Discover sessions and show a summary
  codehist chat -o out.json            # Export everything as JSON
  codehist stats                       # Show corpus statistics
  codehist search "docker compose"     # Search message content

For detailed usage, see: https://github.com/codervisor/codehist`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		internal.SetVerbose(verbose)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&storagePath, "storage", "", "Custom storage location (path to a VS Code User directory)")

	// Set version template to ensure --version flag works
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}

// resolveRoots combines platform detection (or the --storage override) with
// any extra roots from the config file, keeping only directories that exist.
func resolveRoots(cfg *internal.Config) ([]string, error) {
	roots, err := internal.ResolveStorageRoots(storagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve storage roots: %w", err)
	}
	for _, extra := range cfg.ExtraRoots {
		if info, err := os.Stat(extra); err == nil && info.IsDir() {
			roots = append(roots, extra)
		}
	}
	return roots, nil
}

// discoverAll loads config, resolves roots, and runs the discovery pipeline.
func discoverAll() (*internal.DiscoveryResult, *internal.Config, error) {
	cfg, err := internal.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	roots, err := resolveRoots(cfg)
	if err != nil {
		return nil, nil, err
	}
	return internal.Discover(roots), cfg, nil
}
