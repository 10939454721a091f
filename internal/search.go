package internal

import (
	"fmt"
	"sort"
	"strings"
)

// Scope restricts which conversation sources a search touches
type Scope string

const (
	ScopeAll   Scope = "all"
	ScopeAsk   Scope = "ask"
	ScopeAgent Scope = "agent"
)

// ParseScope validates a scope selector; the empty string means ScopeAll
func ParseScope(s string) (Scope, error) {
	switch Scope(s) {
	case "":
		return ScopeAll, nil
	case ScopeAll, ScopeAsk, ScopeAgent:
		return Scope(s), nil
	default:
		return "", fmt.Errorf("invalid scope %q (expected all, ask or agent)", s)
	}
}

// IncludesAsk reports whether ask-conversation sources are searched
func (s Scope) IncludesAsk() bool {
	return s == ScopeAll || s == ScopeAsk
}

// IncludesAgent reports whether agent-conversation sources are searched
func (s Scope) IncludesAgent() bool {
	return s == ScopeAll || s == ScopeAgent
}

// Conversation kinds carried on search results
const (
	KindAsk   = "ask"
	KindAgent = "agent"
)

// GlobalWorkspaceID labels ask tabs held at the unified-store level, which
// carry no workspace attribution of their own
const GlobalWorkspaceID = "global"

// SearchResult is one matching conversation
type SearchResult struct {
	WorkspaceID     string `json:"workspaceId" yaml:"workspaceId"`
	WorkspaceFolder string `json:"workspaceFolder,omitempty" yaml:"workspaceFolder,omitempty"`
	ChatID          string `json:"chatId" yaml:"chatId"`
	ChatTitle       string `json:"chatTitle" yaml:"chatTitle"`
	Timestamp       int64  `json:"timestamp" yaml:"timestamp"` // epoch milliseconds
	MatchingText    string `json:"matchingText" yaml:"matchingText"`
	Kind            string `json:"kind" yaml:"kind"` // "ask" | "agent"
}

// Snippet window sizes around a bubble match, in bytes
const (
	snippetContextBefore = 50
	snippetContextAfter  = 100
	ellipsis             = "..."
)

// BuildSnippet extracts a context window around the first occurrence of the
// lower-cased query in text. Truncated edges are marked with an ellipsis.
func BuildSnippet(text, loweredQuery string) (string, bool) {
	if text == "" || loweredQuery == "" {
		return "", false
	}
	idx := strings.Index(strings.ToLower(text), loweredQuery)
	if idx < 0 {
		return "", false
	}

	// Lowercasing can change the byte length of some runes, so an offset into
	// the lowered text may run past the original. Clamp so the window shrinks
	// instead of faulting.
	if idx > len(text) {
		idx = len(text)
	}
	start := idx - snippetContextBefore
	if start < 0 {
		start = 0
	}
	end := idx + len(loweredQuery) + snippetContextAfter
	if end > len(text) {
		end = len(text)
	}
	if start > end {
		start = end
	}

	snippet := text[start:end]
	if start > 0 {
		snippet = ellipsis + snippet
	}
	if end < len(text) {
		snippet += ellipsis
	}
	return snippet, true
}

// Engine runs conversation searches across the unified store and every
// legacy per-workspace store. Each request builds its own projections and
// shares no mutable state, so independent searches may run concurrently.
type Engine struct {
	paths StoragePaths
}

// NewEngine creates a search engine over the given storage root
func NewEngine(paths StoragePaths) *Engine {
	return &Engine{paths: paths}
}

// Search scans all in-scope stores for conversations matching the query and
// returns them deduplicated and sorted by recency. An empty query yields
// ErrMissingQuery before any store is opened. Failures below the request
// level are logged and isolated; only orchestration failure is returned.
func (e *Engine) Search(query string, scope Scope) ([]SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrMissingQuery
	}
	q := strings.ToLower(query)

	workspaces, folderIndex, err := ScanWorkspaces(e.paths.WorkspaceStorage)
	if err != nil {
		return nil, fmt.Errorf("workspace scan failed: %w", err)
	}

	// Scan order decides which duplicate survives: unified agent, unified
	// ask, then legacy stores in workspace-enumeration order.
	var results []SearchResult
	results = append(results, e.searchUnified(q, scope, workspaces, folderIndex)...)
	for _, ws := range workspaces {
		results = append(results, e.searchWorkspace(q, scope, ws)...)
	}

	return DedupeAndRank(results), nil
}

func (e *Engine) searchUnified(q string, scope Scope, workspaces []WorkspaceEntry, folderIndex map[string]string) []SearchResult {
	dbPath := e.paths.GlobalStorageDBPath()
	store, err := OpenUnifiedStore(dbPath)
	if err != nil {
		LogWarn("unified store unavailable at %s: %v", dbPath, err)
		return nil
	}
	defer store.Close()

	var results []SearchResult
	if scope.IncludesAgent() {
		results = append(results, searchUnifiedComposers(store, q, workspaces, folderIndex)...)
	}
	if scope.IncludesAsk() {
		results = append(results, searchUnifiedAskTabs(store, q)...)
	}
	return results
}

func searchUnifiedComposers(store *UnifiedStore, q string, workspaces []WorkspaceEntry, folderIndex map[string]string) []SearchResult {
	bubbles, err := store.LoadBubbles()
	if err != nil {
		LogWarn("unified bubble scan failed: %v", err)
		return nil
	}
	layouts, err := store.LoadProjectLayouts()
	if err != nil {
		LogWarn("unified context scan failed: %v", err)
		layouts = map[string][]string{}
	}
	composers, err := store.LoadComposers()
	if err != nil {
		LogWarn("unified composer scan failed: %v", err)
		return nil
	}

	folderByID := make(map[string]string, len(workspaces))
	for _, ws := range workspaces {
		folderByID[ws.ID] = ws.FolderURI
	}

	var results []SearchResult
	for _, composer := range composers {
		snippet, ok := matchComposer(composer, bubbles, q)
		if !ok {
			continue
		}

		wsID := ResolveWorkspace(ResolveInput{
			Composer:    composer,
			Layouts:     layouts,
			FolderIndex: folderIndex,
			Workspaces:  workspaces,
			Bubbles:     bubbles,
		})
		if wsID == "" {
			LogDebug("dropping agent conversation %s: no workspace resolved", composer.ComposerID)
			continue
		}

		results = append(results, SearchResult{
			WorkspaceID:     wsID,
			WorkspaceFolder: folderByID[wsID],
			ChatID:          composer.ComposerID,
			ChatTitle:       composer.Title(),
			Timestamp:       int64(composer.EffectiveTimestamp()),
			MatchingText:    snippet,
			Kind:            KindAgent,
		})
	}
	return results
}

// matchComposer tests the composer title, then its bubbles in order,
// producing at most one snippet
func matchComposer(composer *RawComposer, bubbles map[string]*RawBubble, q string) (string, bool) {
	title := composer.Title()
	if strings.Contains(strings.ToLower(title), q) {
		return title, true
	}
	for _, header := range composer.FullConversationHeadersOnly {
		bubble, ok := bubbles[BubbleMapKey(composer.ComposerID, header.BubbleID)]
		if !ok {
			continue
		}
		text := ExtractBubbleText(bubble.Text, bubble.RichText)
		if snippet, ok := BuildSnippet(text, q); ok {
			return snippet, true
		}
	}
	return "", false
}

func searchUnifiedAskTabs(store *UnifiedStore, q string) []SearchResult {
	tabs, err := store.LoadAskTabs()
	if err != nil {
		LogWarn("unified ask scan failed: %v", err)
		return nil
	}

	var results []SearchResult
	for i := range tabs {
		tab := &tabs[i]
		snippet, ok := matchAskTab(tab, q)
		if !ok {
			continue
		}
		results = append(results, SearchResult{
			WorkspaceID:  GlobalWorkspaceID,
			ChatID:       tab.TabID,
			ChatTitle:    tab.Title(),
			Timestamp:    int64(tab.LastSendTime),
			MatchingText: snippet,
			Kind:         KindAsk,
		})
	}
	return results
}

func (e *Engine) searchWorkspace(q string, scope Scope, ws WorkspaceEntry) []SearchResult {
	dbPath := e.paths.WorkspaceDBPath(ws.ID)
	store, err := OpenWorkspaceStore(dbPath, ws)
	if err != nil {
		LogWarn("workspace store unavailable at %s: %v", dbPath, err)
		return nil
	}
	defer store.Close()

	var results []SearchResult
	if scope.IncludesAsk() {
		tabs, err := store.LoadAskTabs()
		if err != nil {
			LogWarn("ask scan failed for workspace %s: %v", ws.ID, err)
		}
		for i := range tabs {
			tab := &tabs[i]
			snippet, ok := matchAskTab(tab, q)
			if !ok {
				continue
			}
			results = append(results, SearchResult{
				WorkspaceID:     ws.ID,
				WorkspaceFolder: ws.FolderURI,
				ChatID:          tab.TabID,
				ChatTitle:       tab.Title(),
				Timestamp:       int64(tab.LastSendTime),
				MatchingText:    snippet,
				Kind:            KindAsk,
			})
		}
	}
	if scope.IncludesAgent() {
		composers, err := store.LoadComposers()
		if err != nil {
			LogWarn("composer scan failed for workspace %s: %v", ws.ID, err)
		}
		for i := range composers {
			composer := &composers[i]
			snippet, ok := matchLegacyComposer(composer, q)
			if !ok {
				continue
			}
			results = append(results, SearchResult{
				WorkspaceID:     ws.ID,
				WorkspaceFolder: ws.FolderURI,
				ChatID:          composer.ComposerID,
				ChatTitle:       composer.Title(),
				Timestamp:       int64(composer.EffectiveTimestamp()),
				MatchingText:    snippet,
				Kind:            KindAgent,
			})
		}
	}
	return results
}

// matchAskTab tests the tab title, then its inline bubbles in order
func matchAskTab(tab *AskTab, q string) (string, bool) {
	title := tab.Title()
	if strings.Contains(strings.ToLower(title), q) {
		return title, true
	}
	for _, bubble := range tab.Bubbles {
		text := ExtractBubbleText(bubble.Text, bubble.RichText)
		if snippet, ok := BuildSnippet(text, q); ok {
			return snippet, true
		}
	}
	return "", false
}

// matchLegacyComposer tests the composer name, then its inline messages in order
func matchLegacyComposer(composer *LegacyComposer, q string) (string, bool) {
	title := composer.Title()
	if strings.Contains(strings.ToLower(title), q) {
		return title, true
	}
	for _, msg := range composer.Conversation {
		text := ExtractBubbleText(msg.Text, msg.RichText)
		if snippet, ok := BuildSnippet(text, q); ok {
			return snippet, true
		}
	}
	return "", false
}

// DedupeAndRank removes duplicate chat ids, keeping the first occurrence in
// scan order, then sorts descending by timestamp
func DedupeAndRank(results []SearchResult) []SearchResult {
	seen := make(map[string]bool, len(results))
	deduped := make([]SearchResult, 0, len(results))
	for _, r := range results {
		if seen[r.ChatID] {
			continue
		}
		seen[r.ChatID] = true
		deduped = append(deduped, r)
	}

	sort.SliceStable(deduped, func(i, j int) bool {
		return deduped[i].Timestamp > deduped[j].Timestamp
	})
	return deduped
}
