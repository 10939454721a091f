package internal

import (
	"path"
	"sort"
	"strings"
)

// ResolveInput bundles everything the workspace resolution heuristics need.
// All maps are per-request projections; nothing here is mutated.
type ResolveInput struct {
	Composer    *RawComposer
	Layouts     map[string][]string // composerId -> candidate root paths
	FolderIndex map[string]string   // folder basename -> workspace id
	Workspaces  []WorkspaceEntry
	Bubbles     map[string]*RawBubble // BubbleMapKey -> bubble
}

// resolveFunc is one resolution heuristic; returns "" when it cannot decide
type resolveFunc func(ResolveInput) string

// Heuristics are tried in fixed order; the first non-empty answer wins.
var resolveChain = []resolveFunc{
	resolveByProjectLayout,
	resolveByCreatedFiles,
	resolveByCodeBlocks,
	resolveByBubbleFiles,
}

// ResolveWorkspace maps a unified-store conversation to an owning workspace
// id, or "" when every heuristic fails
func ResolveWorkspace(in ResolveInput) string {
	for _, resolve := range resolveChain {
		if id := resolve(in); id != "" {
			return id
		}
	}
	return ""
}

// resolveByProjectLayout looks up each recorded project layout root's last
// path segment in the folder index
func resolveByProjectLayout(in ResolveInput) string {
	for _, root := range in.Layouts[in.Composer.ComposerID] {
		base := path.Base(strings.TrimSuffix(StripFileScheme(root), "/"))
		if base == "" || base == "." || base == "/" {
			continue
		}
		if id, ok := in.FolderIndex[base]; ok {
			return id
		}
	}
	return ""
}

// resolveByCreatedFiles prefix-matches newly created file paths against
// known workspace folders
func resolveByCreatedFiles(in ResolveInput) string {
	for _, file := range in.Composer.NewlyCreatedFiles {
		if id := matchPathToWorkspace(file.FilePath(), in.Workspaces); id != "" {
			return id
		}
	}
	return ""
}

// resolveByCodeBlocks prefix-matches the file keys of the composer's code
// block metadata against known workspace folders
func resolveByCodeBlocks(in ResolveInput) string {
	if len(in.Composer.CodeBlockData) == 0 {
		return ""
	}
	// Map iteration order is random; sort for a deterministic outcome.
	keys := make([]string, 0, len(in.Composer.CodeBlockData))
	for k := range in.Composer.CodeBlockData {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if id := matchPathToWorkspace(k, in.Workspaces); id != "" {
			return id
		}
	}
	return ""
}

// resolveByBubbleFiles walks the conversation's bubbles in order, testing
// explicit file references first and then context file selections. The scan
// stops at the first hit.
func resolveByBubbleFiles(in ResolveInput) string {
	for _, header := range in.Composer.FullConversationHeadersOnly {
		bubble, ok := in.Bubbles[BubbleMapKey(in.Composer.ComposerID, header.BubbleID)]
		if !ok {
			continue
		}
		for _, file := range bubble.RelevantFiles {
			if id := matchPathToWorkspace(file, in.Workspaces); id != "" {
				return id
			}
		}
		if bubble.Context != nil {
			for _, sel := range bubble.Context.FileSelections {
				if id := matchPathToWorkspace(sel.URI.FilePath(), in.Workspaces); id != "" {
					return id
				}
			}
		}
	}
	return ""
}

// matchPathToWorkspace tests a file path (file:// marker stripped) as a
// prefix match against each known workspace folder
func matchPathToWorkspace(p string, workspaces []WorkspaceEntry) string {
	p = StripFileScheme(p)
	if p == "" {
		return ""
	}
	for _, ws := range workspaces {
		folder := ws.FolderPath()
		if folder != "" && strings.HasPrefix(p, folder) {
			return ws.ID
		}
	}
	return ""
}
