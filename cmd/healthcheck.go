package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/cursor-search/internal"
	"github.com/spf13/cobra"
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
	Short: "Check if cursor-search can locate and access conversation storage",
	Long: `Check the health of cursor-search by verifying:
  • Storage path detection
  • Unified store accessibility
  • Workspace enumeration and legacy store accessibility

This command is useful for debugging storage issues.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println(sectionStyle.Render("🔍 Cursor Search Health Check"))
		fmt.Println()

		fmt.Println(infoStyle.Render("Step 1: Detecting storage paths..."))
		paths, err := internal.GetStoragePaths(storagePath)
		if err != nil {
			fmt.Println(errorStyle.Render("❌ Failed to detect storage paths:"), err)
			os.Exit(1)
		}
		fmt.Println(successStyle.Render("✅ Storage paths detected"))
		if verbose {
			fmt.Printf("   Base path: %s\n", paths.BasePath)
			fmt.Printf("   Global storage: %s\n", paths.GlobalStorage)
			fmt.Printf("   Workspace storage: %s\n", paths.WorkspaceStorage)
		}
		fmt.Println()

		fmt.Println(infoStyle.Render("Step 2: Checking unified store..."))
		if paths.GlobalStorageExists() {
			store, err := internal.OpenUnifiedStore(paths.GlobalStorageDBPath())
			if err != nil {
				fmt.Println(warningStyle.Render("⚠️  Unified store exists but cannot be opened:"), err)
			} else {
				composers, err := store.LoadComposers()
				if err != nil {
					fmt.Println(warningStyle.Render("⚠️  Unified store opened but scan failed:"), err)
				} else {
					fmt.Println(successStyle.Render(fmt.Sprintf("✅ Unified store accessible (%d agent conversations)", len(composers))))
				}
				store.Close()
			}
		} else {
			fmt.Println(warningStyle.Render("⚠️  Unified store not found"))
			if verbose {
				fmt.Printf("   Expected: %s\n", paths.GlobalStorageDBPath())
			}
		}
		fmt.Println()

		fmt.Println(infoStyle.Render("Step 3: Checking workspace stores..."))
		workspaces, _, err := internal.ScanWorkspaces(paths.WorkspaceStorage)
		if err != nil {
			fmt.Println(errorStyle.Render("❌ Failed to scan workspaces:"), err)
			os.Exit(1)
		}
		if len(workspaces) == 0 {
			fmt.Println(warningStyle.Render("⚠️  No workspaces found"))
		} else {
			accessible := 0
			for _, ws := range workspaces {
				store, err := internal.OpenWorkspaceStore(paths.WorkspaceDBPath(ws.ID), ws)
				if err != nil {
					if verbose {
						fmt.Printf("   %s: %v\n", ws.ID, err)
					}
					continue
				}
				store.Close()
				accessible++
			}
			fmt.Println(successStyle.Render(fmt.Sprintf("✅ %d workspace(s), %d store(s) accessible", len(workspaces), accessible)))
			if verbose {
				for _, ws := range workspaces {
					folder := ws.FolderURI
					if folder == "" {
						folder = "(no folder)"
					}
					fmt.Printf("   %s → %s\n", ws.ID, folder)
				}
			}
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(healthcheckCmd)
}
