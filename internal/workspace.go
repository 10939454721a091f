package internal

import (
	"encoding/json"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

// WorkspaceEntry represents one workspace found under workspaceStorage
type WorkspaceEntry struct {
	ID        string // directory name (workspace hash)
	FolderURI string // folder field from workspace.json; empty if unreadable
}

// FolderPath returns the folder URI as a filesystem path
func (w WorkspaceEntry) FolderPath() string {
	return StripFileScheme(w.FolderURI)
}

// FolderName returns the last path segment of the workspace folder
func (w WorkspaceEntry) FolderName() string {
	p := w.FolderPath()
	if p == "" {
		return ""
	}
	return path.Base(strings.TrimSuffix(p, "/"))
}

// StripFileScheme removes a leading file:// scheme marker from a path
func StripFileScheme(p string) string {
	return strings.TrimPrefix(p, "file://")
}

// ScanWorkspaces enumerates workspace directories under workspaceStorage.
// Directories without a workspace.json are excluded; a present but
// unparseable descriptor keeps the entry with an empty folder URI.
// The second return value maps folder basenames to workspace ids.
func ScanWorkspaces(workspaceStorage string) ([]WorkspaceEntry, map[string]string, error) {
	entries, err := os.ReadDir(workspaceStorage)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, map[string]string{}, nil
		}
		return nil, nil, &StorageError{Path: workspaceStorage, Op: "read", Err: err}
	}

	var workspaces []WorkspaceEntry
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		id := entry.Name()
		descriptorPath := filepath.Join(workspaceStorage, id, "workspace.json")
		data, err := os.ReadFile(descriptorPath)
		if err != nil {
			continue
		}

		ws := WorkspaceEntry{ID: id}
		var descriptor struct {
			Folder string `json:"folder"`
		}
		if err := json.Unmarshal(data, &descriptor); err != nil {
			LogWarn("malformed workspace descriptor %s: %v", descriptorPath, err)
		} else {
			ws.FolderURI = descriptor.Folder
		}
		workspaces = append(workspaces, ws)
	}

	sort.Slice(workspaces, func(i, j int) bool {
		return workspaces[i].ID < workspaces[j].ID
	})

	folderIndex := make(map[string]string, len(workspaces))
	for _, ws := range workspaces {
		if name := ws.FolderName(); name != "" {
			folderIndex[name] = ws.ID
		}
	}

	return workspaces, folderIndex, nil
}
