package internal

import (
	"path/filepath"
	"testing"

	"github.com/iksnae/cursor-search/testutil"
)

func TestGetStoragePaths_CustomRoot(t *testing.T) {
	basePath := testutil.CreateTempDir(t)

	paths, err := GetStoragePaths(basePath)
	if err != nil {
		t.Fatalf("GetStoragePaths() error = %v", err)
	}
	if paths.BasePath != basePath {
		t.Errorf("BasePath = %q, want %q", paths.BasePath, basePath)
	}
	if paths.WorkspaceStorage != filepath.Join(basePath, "workspaceStorage") {
		t.Errorf("WorkspaceStorage = %q", paths.WorkspaceStorage)
	}
	if paths.GlobalStorage != filepath.Join(basePath, "globalStorage") {
		t.Errorf("GlobalStorage = %q", paths.GlobalStorage)
	}
}

func TestGetStoragePaths_MissingCustomRoot(t *testing.T) {
	_, err := GetStoragePaths(filepath.Join(testutil.CreateTempDir(t), "nope"))
	if err == nil {
		t.Fatal("GetStoragePaths() should fail for a missing custom root")
	}
}

func TestStoragePaths_DBPaths(t *testing.T) {
	sp := storagePathsFrom("/base")
	if got := sp.GlobalStorageDBPath(); got != filepath.Join("/base", "globalStorage", "state.vscdb") {
		t.Errorf("GlobalStorageDBPath() = %q", got)
	}
	if got := sp.WorkspaceDBPath("ws-1"); got != filepath.Join("/base", "workspaceStorage", "ws-1", "state.vscdb") {
		t.Errorf("WorkspaceDBPath() = %q", got)
	}
}
