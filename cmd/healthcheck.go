package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/codervisor/codehist/internal"
	"github.com/spf13/cobra"
)

var (
	healthcheckVerbose bool
)

var (
	successStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("42")).
		Bold(true)

	warningStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("214")).
		Bold(true)

	errorStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("196")).
		Bold(true)

	infoStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("39"))

	sectionStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("62")).
		Bold(true).
		Underline(true)
)

// healthcheckCmd represents the healthcheck command
var healthcheckCmd = &cobra.Command{
	Use:   "healthcheck",
	Short: "Check if codehist can locate and read Copilot chat data",
	Long: `Check the health of codehist by verifying:
  • VS Code user-data root detection
  • Workspace storage accessibility
  • Session file discovery
  • Session parse results

This command is useful for debugging storage issues, especially when VS Code
is installed in a non-standard location.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println(sectionStyle.Render("🔍 Copilot Chat Health Check"))
		fmt.Println()

		// Step 1: Load configuration
		fmt.Println(infoStyle.Render("Step 1: Loading configuration..."))
		cfg, err := internal.LoadConfig()
		if err != nil {
			fmt.Println(errorStyle.Render("❌ Failed to load config:"), err)
			os.Exit(1)
		}
		fmt.Println(successStyle.Render("✅ Configuration loaded"))
		if healthcheckVerbose {
			fmt.Printf("   Agent: %s\n", cfg.Agent)
			fmt.Printf("   Index path: %s\n", cfg.IndexPath)
			fmt.Printf("   Extra roots: %d\n", len(cfg.ExtraRoots))
		}
		fmt.Println()

		// Step 2: Detect storage roots
		fmt.Println(infoStyle.Render("Step 2: Detecting VS Code storage roots..."))
		roots, err := resolveRoots(cfg)
		if err != nil {
			fmt.Println(errorStyle.Render("❌ Failed to detect storage roots:"), err)
			os.Exit(1)
		}
		if len(roots) == 0 {
			fmt.Println(warningStyle.Render("⚠️  No VS Code user-data directories found"))
			if healthcheckVerbose {
				fmt.Println("   Checked the standard locations for Code, Code - Insiders,")
				fmt.Println("   and other VS Code variants. Use --storage to point at a")
				fmt.Println("   custom User directory.")
			}
		} else {
			fmt.Println(successStyle.Render(fmt.Sprintf("✅ Found %d storage root(s)", len(roots))))
			if healthcheckVerbose {
				for i, root := range roots {
					fmt.Printf("   [%d] %s\n", i+1, root)
				}
			}
		}
		fmt.Println()

		// Step 3: Locate session files
		fmt.Println(infoStyle.Render("Step 3: Locating session files..."))
		var candidates []internal.Candidate
		var locateWarnings []internal.Warning
		for _, root := range roots {
			found, warns := internal.LocateSessions(root)
			candidates = append(candidates, found...)
			locateWarnings = append(locateWarnings, warns...)
		}
		chatCount, editingCount := 0, 0
		for _, c := range candidates {
			switch c.Kind {
			case internal.SessionTypeChat:
				chatCount++
			case internal.SessionTypeEditing:
				editingCount++
			}
		}
		if len(candidates) > 0 {
			fmt.Println(successStyle.Render(fmt.Sprintf("✅ Found %d session file(s)", len(candidates))))
			if healthcheckVerbose {
				fmt.Printf("   Chat sessions: %d\n", chatCount)
				fmt.Printf("   Editing sessions: %d\n", editingCount)
				for i, c := range candidates {
					if i < 5 { // Show first 5
						fmt.Printf("   [%d] %s\n", i+1, c.Path)
					}
				}
				if len(candidates) > 5 {
					fmt.Printf("   ... and %d more\n", len(candidates)-5)
				}
			}
		} else {
			fmt.Println(warningStyle.Render("⚠️  No session files found"))
			fmt.Println("   This could mean:")
			fmt.Println("   • Copilot chat has never been used in VS Code")
			fmt.Println("   • Chat data lives under a different user-data root")
		}
		if len(locateWarnings) > 0 {
			fmt.Println(warningStyle.Render(fmt.Sprintf("⚠️  %d director(ies) could not be read", len(locateWarnings))))
			if healthcheckVerbose {
				for _, w := range locateWarnings {
					fmt.Printf("   %s: %s\n", w.Path, w.Reason)
				}
			}
		}
		fmt.Println()

		// Step 4: Parse session files
		fmt.Println(infoStyle.Render("Step 4: Parsing session files..."))
		normalizer := internal.NewNormalizer()
		parsed := 0
		var parseWarnings []internal.Warning
		for _, c := range candidates {
			if _, warn := normalizer.Normalize(c); warn != nil {
				parseWarnings = append(parseWarnings, *warn)
				continue
			}
			parsed++
		}
		if parsed > 0 {
			fmt.Println(successStyle.Render(fmt.Sprintf("✅ Parsed %d session(s)", parsed)))
		} else if len(candidates) > 0 {
			fmt.Println(errorStyle.Render("❌ No session files could be parsed"))
		} else {
			fmt.Println(warningStyle.Render("⚠️  Nothing to parse"))
		}
		if len(parseWarnings) > 0 {
			fmt.Println(warningStyle.Render(fmt.Sprintf("⚠️  %d file(s) skipped", len(parseWarnings))))
			if healthcheckVerbose {
				for _, w := range parseWarnings {
					fmt.Printf("   %s: %s\n", w.Path, w.Reason)
				}
			}
		}
		fmt.Println()

		// Summary
		fmt.Println(sectionStyle.Render("📊 Summary"))
		fmt.Println()

		if len(roots) > 0 && parsed > 0 {
			fmt.Println(successStyle.Render("✅ Health check passed!"))
			fmt.Println(successStyle.Render(fmt.Sprintf("   • Storage roots: %d", len(roots))))
			fmt.Println(successStyle.Render(fmt.Sprintf("   • Sessions: %d parsed", parsed)))
			return nil
		} else if len(roots) > 0 {
			fmt.Println(warningStyle.Render("⚠️  Storage available but no sessions parsed"))
			fmt.Println("   • VS Code storage was found")
			fmt.Println("   • No usable chat data is currently available")
			return nil
		}
		fmt.Println(errorStyle.Render("❌ Health check failed"))
		fmt.Println("   • No VS Code storage root is available")
		fmt.Println("   • Cannot access chat session data")
		return fmt.Errorf("health check failed: no storage available")
	},
}

func init() {
	rootCmd.AddCommand(healthcheckCmd)
	healthcheckCmd.Flags().BoolVarP(&healthcheckVerbose, "verbose", "v", false, "Show detailed diagnostic information")
}
