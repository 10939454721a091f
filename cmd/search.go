package cmd

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/cursor-search/internal"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	searchScope  string
	searchFormat string
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	idStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Italic(true)

	dateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	workspaceStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("135")).
			Italic(true)

	kindStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	snippetStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250"))
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search conversations for a text query",
	Long: `Search all stored conversations for a free-text query.

Matching is a case-insensitive substring test against conversation titles
and message content. Results are deduplicated across the unified and
legacy stores and sorted by recency.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := args[0]
		if strings.TrimSpace(query) == "" {
			return internal.ErrMissingQuery
		}

		scope, err := internal.ParseScope(searchScope)
		if err != nil {
			return err
		}

		paths, err := internal.GetStoragePaths(storagePath)
		if err != nil {
			return fmt.Errorf("failed to get storage paths: %w", err)
		}

		engine := internal.NewEngine(paths)
		results, err := engine.Search(query, scope)
		if err != nil {
			return fmt.Errorf("search failed: %w", err)
		}

		switch searchFormat {
		case "json":
			out, err := json.MarshalIndent(results, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
		case "yaml":
			out, err := yaml.Marshal(results)
			if err != nil {
				return err
			}
			fmt.Print(string(out))
		case "table":
			printResults(results)
		default:
			return fmt.Errorf("invalid format %q (expected table, json or yaml)", searchFormat)
		}
		return nil
	},
}

func printResults(results []internal.SearchResult) {
	if len(results) == 0 {
		fmt.Println("No matching conversations found.")
		return
	}

	for _, r := range results {
		ts := time.UnixMilli(r.Timestamp).Format("2006-01-02 15:04")
		header := fmt.Sprintf("%s  %s  %s",
			titleStyle.Render(r.ChatTitle),
			kindStyle.Render("["+r.Kind+"]"),
			dateStyle.Render(ts))
		fmt.Println(header)

		workspace := r.WorkspaceID
		if r.WorkspaceFolder != "" {
			workspace = fmt.Sprintf("%s (%s)", r.WorkspaceID, r.WorkspaceFolder)
		}
		fmt.Printf("  %s %s\n", workspaceStyle.Render(workspace), idStyle.Render(r.ChatID))
		fmt.Printf("  %s\n\n", snippetStyle.Render(r.MatchingText))
	}
	fmt.Printf("%d result(s)\n", len(results))
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().StringVar(&searchScope, "scope", "all", "Conversation scope to search (all, ask, agent)")
	searchCmd.Flags().StringVar(&searchFormat, "format", "table", "Output format (table, json, yaml)")
}
