package internal

import (
	"path/filepath"
	"testing"

	"github.com/iksnae/cursor-search/testutil"
)

func TestScanWorkspaces(t *testing.T) {
	basePath := testutil.CreateTempDir(t)
	storage := filepath.Join(basePath, "workspaceStorage")

	testutil.CreateWorkspaceFixture(t, basePath, "ws-beta", "file:///home/user/projects/beta")
	testutil.CreateWorkspaceFixture(t, basePath, "ws-alpha", "file:///home/user/projects/alpha")
	testutil.CreateWorkspaceFixture(t, basePath, "ws-broken", "!malformed")
	testutil.CreateBareWorkspaceDir(t, basePath, "ws-no-descriptor")

	entries, folderIndex, err := ScanWorkspaces(storage)
	if err != nil {
		t.Fatalf("ScanWorkspaces() error = %v", err)
	}

	// Directory without a descriptor is excluded; malformed descriptor is kept.
	if len(entries) != 3 {
		t.Fatalf("ScanWorkspaces() returned %d entries, want 3", len(entries))
	}

	// Enumeration order is deterministic (sorted by id).
	wantOrder := []string{"ws-alpha", "ws-beta", "ws-broken"}
	for i, want := range wantOrder {
		if entries[i].ID != want {
			t.Errorf("entries[%d].ID = %q, want %q", i, entries[i].ID, want)
		}
	}

	for _, ws := range entries {
		if ws.ID == "ws-broken" && ws.FolderURI != "" {
			t.Errorf("malformed descriptor should yield empty FolderURI, got %q", ws.FolderURI)
		}
	}

	if folderIndex["alpha"] != "ws-alpha" {
		t.Errorf("folderIndex[alpha] = %q, want ws-alpha", folderIndex["alpha"])
	}
	if folderIndex["beta"] != "ws-beta" {
		t.Errorf("folderIndex[beta] = %q, want ws-beta", folderIndex["beta"])
	}
	if _, ok := folderIndex[""]; ok {
		t.Error("folderIndex should not contain an empty key")
	}
}

func TestScanWorkspaces_MissingDirectory(t *testing.T) {
	entries, folderIndex, err := ScanWorkspaces(filepath.Join(testutil.CreateTempDir(t), "does-not-exist"))
	if err != nil {
		t.Fatalf("ScanWorkspaces() error = %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("ScanWorkspaces() returned %d entries, want 0", len(entries))
	}
	if folderIndex == nil {
		t.Error("folderIndex should be non-nil")
	}
}

func TestWorkspaceEntry_FolderName(t *testing.T) {
	tests := []struct {
		folderURI string
		want      string
	}{
		{"file:///home/user/projects/alpha", "alpha"},
		{"file:///home/user/projects/alpha/", "alpha"},
		{"/plain/path/beta", "beta"},
		{"", ""},
	}

	for _, tt := range tests {
		ws := WorkspaceEntry{ID: "x", FolderURI: tt.folderURI}
		if got := ws.FolderName(); got != tt.want {
			t.Errorf("FolderName(%q) = %q, want %q", tt.folderURI, got, tt.want)
		}
	}
}
