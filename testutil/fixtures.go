package testutil

import (
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

// OpenStoreFixture creates (or opens) a state.vscdb fixture on disk with the
// cursorDiskKV and ItemTable relations ready for inserts. The caller owns
// the returned handle.
func OpenStoreFixture(t *testing.T, dbPath string) *sql.DB {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		t.Fatalf("Failed to create fixture directory: %v", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	initStoreTables(t, db)
	return db
}

// CreateWorkspaceFixture creates a workspace directory with a workspace.json
// descriptor pointing at folderURI. An empty folderURI writes a descriptor
// without a folder field; the literal "!malformed" writes invalid JSON.
func CreateWorkspaceFixture(t *testing.T, basePath, workspaceID, folderURI string) string {
	t.Helper()
	workspaceDir := filepath.Join(basePath, "workspaceStorage", workspaceID)
	if err := os.MkdirAll(workspaceDir, 0755); err != nil {
		t.Fatalf("Failed to create workspace directory: %v", err)
	}

	var data []byte
	switch folderURI {
	case "!malformed":
		data = []byte("{not json")
	case "":
		data = []byte("{}")
	default:
		data, _ = json.Marshal(map[string]string{"folder": folderURI})
	}
	descriptorPath := filepath.Join(workspaceDir, "workspace.json")
	if err := os.WriteFile(descriptorPath, data, 0644); err != nil {
		t.Fatalf("Failed to write workspace.json: %v", err)
	}

	return workspaceDir
}

// CreateBareWorkspaceDir creates a workspace directory with no descriptor
func CreateBareWorkspaceDir(t *testing.T, basePath, workspaceID string) string {
	t.Helper()
	workspaceDir := filepath.Join(basePath, "workspaceStorage", workspaceID)
	if err := os.MkdirAll(workspaceDir, 0755); err != nil {
		t.Fatalf("Failed to create workspace directory: %v", err)
	}
	return workspaceDir
}

// CreateGlobalStoreFixture creates the globalStorage state.vscdb under
// basePath and returns its open handle
func CreateGlobalStoreFixture(t *testing.T, basePath string) *sql.DB {
	t.Helper()
	return OpenStoreFixture(t, filepath.Join(basePath, "globalStorage", "state.vscdb"))
}

// CreateWorkspaceStoreFixture creates a workspace's state.vscdb under
// basePath and returns its open handle
func CreateWorkspaceStoreFixture(t *testing.T, basePath, workspaceID string) *sql.DB {
	t.Helper()
	return OpenStoreFixture(t, filepath.Join(basePath, "workspaceStorage", workspaceID, "state.vscdb"))
}
