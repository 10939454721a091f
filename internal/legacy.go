package internal

import (
	"database/sql"
	"encoding/json"
	"fmt"
)

// WorkspaceStore reads conversation data from one legacy per-workspace
// state.vscdb. Everything it returns belongs to that workspace by
// construction; no resolver is involved.
type WorkspaceStore struct {
	db        *sql.DB
	path      string
	Workspace WorkspaceEntry
}

// OpenWorkspaceStore opens a workspace's legacy store database read-only
func OpenWorkspaceStore(path string, ws WorkspaceEntry) (*WorkspaceStore, error) {
	db, err := OpenDatabase(path)
	if err != nil {
		return nil, err
	}
	return &WorkspaceStore{db: db, path: path, Workspace: ws}, nil
}

// Close releases the store handle
func (s *WorkspaceStore) Close() error {
	return s.db.Close()
}

// LoadAskTabs reads the workspace's ask-conversation document. A missing or
// malformed document yields no tabs; the caller keeps scanning other stores.
func (s *WorkspaceStore) LoadAskTabs() ([]AskTab, error) {
	value, ok, err := QueryItemTable(s.db, AskChatDataKey)
	if err != nil {
		return nil, fmt.Errorf("failed to query ask chat data: %w", err)
	}
	if !ok {
		return nil, nil
	}

	var doc AskChatDoc
	if err := json.Unmarshal([]byte(value), &doc); err != nil {
		LogWarn("skipping malformed ask chat document in %s: %v", s.path, err)
		return nil, nil
	}
	return doc.Tabs, nil
}

// LoadComposers reads the workspace's agent-conversation document
func (s *WorkspaceStore) LoadComposers() ([]LegacyComposer, error) {
	value, ok, err := QueryItemTable(s.db, ComposerDataKey)
	if err != nil {
		return nil, fmt.Errorf("failed to query composer data: %w", err)
	}
	if !ok {
		return nil, nil
	}

	var doc ComposerDataDoc
	if err := json.Unmarshal([]byte(value), &doc); err != nil {
		LogWarn("skipping malformed composer document in %s: %v", s.path, err)
		return nil, nil
	}
	return doc.AllComposers, nil
}
