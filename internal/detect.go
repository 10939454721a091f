package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// StoragePaths holds the detected paths for Cursor storage
type StoragePaths struct {
	BasePath         string // Base Cursor User directory
	WorkspaceStorage string // workspaceStorage directory (legacy per-workspace stores)
	GlobalStorage    string // globalStorage directory (unified store)
}

// DetectStoragePaths detects the Cursor storage paths based on the operating system
func DetectStoragePaths() (StoragePaths, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return StoragePaths{}, fmt.Errorf("failed to get home directory: %w", err)
	}

	var basePath string
	switch runtime.GOOS {
	case "darwin":
		basePath = filepath.Join(home, "Library/Application Support/Cursor/User")
	case "linux":
		basePath = filepath.Join(home, ".config/Cursor/User")
	default:
		return StoragePaths{}, fmt.Errorf("unsupported OS: %s (only macOS and Linux are supported)", runtime.GOOS)
	}

	return storagePathsFrom(basePath), nil
}

// GetStoragePaths returns storage paths rooted at the custom directory when
// one is given, otherwise falls back to OS detection. The custom path is
// treated as an opaque Cursor User directory.
func GetStoragePaths(custom string) (StoragePaths, error) {
	if custom == "" {
		return DetectStoragePaths()
	}
	info, err := os.Stat(custom)
	if err != nil {
		return StoragePaths{}, &StorageError{Path: custom, Op: "open", Err: err}
	}
	if !info.IsDir() {
		return StoragePaths{}, &StorageError{Path: custom, Op: "open", Err: fmt.Errorf("not a directory")}
	}
	return storagePathsFrom(custom), nil
}

func storagePathsFrom(basePath string) StoragePaths {
	return StoragePaths{
		BasePath:         basePath,
		WorkspaceStorage: filepath.Join(basePath, "workspaceStorage"),
		GlobalStorage:    filepath.Join(basePath, "globalStorage"),
	}
}

// GlobalStorageDBPath returns the path to the globalStorage state.vscdb file
func (sp StoragePaths) GlobalStorageDBPath() string {
	return filepath.Join(sp.GlobalStorage, "state.vscdb")
}

// WorkspaceDBPath returns the path to a workspace's state.vscdb file
func (sp StoragePaths) WorkspaceDBPath(workspaceID string) string {
	return filepath.Join(sp.WorkspaceStorage, workspaceID, "state.vscdb")
}

// GlobalStorageExists checks if the globalStorage database exists
func (sp StoragePaths) GlobalStorageExists() bool {
	_, err := os.Stat(sp.GlobalStorageDBPath())
	return err == nil
}
