package internal

import (
	"database/sql"
	"encoding/json"
	"fmt"
)

// UnifiedStore reads conversation data from the global state.vscdb, the
// newer single key-value log holding all conversation data across
// workspaces. All access is read-only.
type UnifiedStore struct {
	db   *sql.DB
	path string
}

// OpenUnifiedStore opens the unified store database read-only
func OpenUnifiedStore(path string) (*UnifiedStore, error) {
	db, err := OpenDatabase(path)
	if err != nil {
		return nil, err
	}
	return &UnifiedStore{db: db, path: path}, nil
}

// Close releases the store handle
func (s *UnifiedStore) Close() error {
	return s.db.Close()
}

// LoadBubbles loads all bubbles keyed by their chat and bubble id pair
// (BubbleMapKey). Rows that fail to parse are logged and skipped.
func (s *UnifiedStore) LoadBubbles() (map[string]*RawBubble, error) {
	pairs, err := QueryCursorDiskKV(s.db, bubbleKeyPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to query bubbles: %w", err)
	}

	bubbleMap := make(map[string]*RawBubble)
	for _, pair := range pairs {
		bubble, err := ParseRawBubble(pair.Key, pair.Value)
		if err != nil {
			LogWarn("skipping bubble row %s: %v", pair.Key, err)
			continue
		}
		bubbleMap[BubbleMapKey(bubble.ChatID, bubble.BubbleID)] = bubble
	}

	return bubbleMap, nil
}

// LoadComposers loads all agent conversation records. Rows below the key
// noise threshold or failing to parse are logged and skipped.
func (s *UnifiedStore) LoadComposers() ([]*RawComposer, error) {
	pairs, err := QueryCursorDiskKV(s.db, composerKeyPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to query composers: %w", err)
	}

	composers := make([]*RawComposer, 0, len(pairs))
	for _, pair := range pairs {
		composer, err := ParseRawComposer(pair.Key, pair.Value)
		if err != nil {
			LogDebug("skipping composer row %s: %v", pair.Key, err)
			continue
		}
		composers = append(composers, composer)
	}

	return composers, nil
}

// LoadProjectLayouts loads per-conversation context records and accumulates
// each conversation's candidate root paths
func (s *UnifiedStore) LoadProjectLayouts() (map[string][]string, error) {
	pairs, err := QueryCursorDiskKV(s.db, contextKeyPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to query message contexts: %w", err)
	}

	layouts := make(map[string][]string)
	for _, pair := range pairs {
		context, err := ParseMessageContext(pair.Key, pair.Value)
		if err != nil {
			LogWarn("skipping context row %s: %v", pair.Key, err)
			continue
		}
		if roots := context.RootPaths(); len(roots) > 0 {
			layouts[context.ComposerID] = append(layouts[context.ComposerID], roots...)
		}
	}

	return layouts, nil
}

// LoadAskTabs reads the legacy-compatible ask-tab document held at the
// unified-store level under its fixed ItemTable key
func (s *UnifiedStore) LoadAskTabs() ([]AskTab, error) {
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
