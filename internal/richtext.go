package internal

import (
	"encoding/json"
	"strings"
)

// Nesting deeper than this is treated as a pathological document.
const maxRichTextDepth = 64

// richTextNode is a node in the rich text tree: a text leaf or a container
// of ordered children
type richTextNode struct {
	Text     string         `json:"text,omitempty"`
	Children []richTextNode `json:"children,omitempty"`
}

// richTextRoot is the common envelope around a rich text tree
type richTextRoot struct {
	Root *richTextNode `json:"root,omitempty"`
}

// ExtractBubbleText returns the textual content of a message payload.
// A non-empty direct text field wins outright; otherwise the rich text
// document is parsed and its leaf text concatenated in document order.
// Never fails: any parse or shape problem yields an empty string.
func ExtractBubbleText(text, richText string) string {
	if text != "" {
		return text
	}
	return ExtractTextFromRichText(richText)
}

// ExtractTextFromRichText parses a rich text JSON document and extracts the
// plain text from its leaves
func ExtractTextFromRichText(richTextJSON string) string {
	if richTextJSON == "" {
		return ""
	}

	// Most documents wrap the tree in a root envelope
	var envelope richTextRoot
	if err := json.Unmarshal([]byte(richTextJSON), &envelope); err == nil && envelope.Root != nil {
		return collectLeafText(*envelope.Root)
	}

	// Fall back to a bare node
	var node richTextNode
	if err := json.Unmarshal([]byte(richTextJSON), &node); err != nil {
		LogDebug("failed to parse rich text document: %v", err)
		return ""
	}
	return collectLeafText(node)
}

func collectLeafText(root richTextNode) string {
	var sb strings.Builder
	walkRichText(&sb, root, 0)
	return sb.String()
}

func walkRichText(sb *strings.Builder, node richTextNode, depth int) {
	if depth > maxRichTextDepth {
		return
	}
	if node.Text != "" {
		sb.WriteString(node.Text)
	}
	for _, child := range node.Children {
		walkRichText(sb, child, depth+1)
	}
}
