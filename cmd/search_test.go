package cmd

import (
	"bytes"
	"testing"

	"github.com/iksnae/cursor-search/internal"
	"github.com/iksnae/cursor-search/testutil"
)

func TestSearchCommand_Flags(t *testing.T) {
	if searchCmd.Flags().Lookup("scope") == nil {
		t.Error("search command missing --scope flag")
	}
	if searchCmd.Flags().Lookup("format") == nil {
		t.Error("search command missing --format flag")
	}
	if got := searchCmd.Flags().Lookup("scope").DefValue; got != "all" {
		t.Errorf("--scope default = %q, want all", got)
	}
	if got := searchCmd.Flags().Lookup("format").DefValue; got != "table" {
		t.Errorf("--format default = %q, want table", got)
	}
}

func TestSearchCommand_Execution(t *testing.T) {
	basePath := testutil.CreateTempDir(t)
	testutil.CreateWorkspaceFixture(t, basePath, "ws-alpha", "file:///home/user/projects/alpha")
	legacy := testutil.CreateWorkspaceStoreFixture(t, basePath, "ws-alpha")
	testutil.InsertItem(t, legacy, internal.AskChatDataKey,
		`{"tabs":[{"tabId":"tab-1","chatTitle":"Scheduler notes","lastSendTime":1000}]}`)
	legacy.Close()

	tests := []struct {
		name    string
		args    []string
		wantErr bool
	}{
		{
			name: "json format",
			args: []string{"search", "scheduler", "--storage", basePath, "--format", "json"},
		},
		{
			name: "yaml format",
			args: []string{"search", "scheduler", "--storage", basePath, "--format", "yaml"},
		},
		{
			name:    "invalid scope",
			args:    []string{"search", "scheduler", "--storage", basePath, "--scope", "bogus"},
			wantErr: true,
		},
		{
			name:    "invalid format",
			args:    []string{"search", "scheduler", "--storage", basePath, "--format", "xml"},
			wantErr: true,
		},
		{
			name:    "blank query",
			args:    []string{"search", "   ", "--storage", basePath},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rootCmd.SetArgs(tt.args)
			rootCmd.SetOut(&bytes.Buffer{})
			rootCmd.SetErr(&bytes.Buffer{})

			err := rootCmd.Execute()
			if (err != nil) != tt.wantErr {
				t.Errorf("Execute() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
