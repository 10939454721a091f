package internal

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Storage key prefixes used by the unified cursorDiskKV store.
const (
	bubbleKeyPrefix   = "bubbleId:"
	composerKeyPrefix = "composerData:"
	contextKeyPrefix  = "messageRequestContext:"
)

// Fixed ItemTable keys. The ask-tab document lives under the same key in
// both the unified store and each legacy workspace store.
const (
	AskChatDataKey  = "workbench.panel.aichat.view.aichat.chatdata"
	ComposerDataKey = "composer.composerData"
)

// Composer ids shorter than this are treated as key noise and skipped.
const minComposerIDLen = 8

// Timestamp is an epoch-milliseconds value that also accepts calendar
// date-time strings on decode. Unparseable values decode to zero rather
// than failing the surrounding record.
type Timestamp int64

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// UnmarshalJSON implements json.Unmarshaler
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*t = 0
		return nil
	}

	if data[0] != '"' {
		ms, err := strconv.ParseFloat(string(data), 64)
		if err != nil {
			*t = 0
			return nil
		}
		*t = Timestamp(ms)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		*t = 0
		return nil
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			*t = Timestamp(parsed.UnixMilli())
			return nil
		}
	}
	*t = 0
	return nil
}

// Time returns the timestamp as a time.Time
func (t Timestamp) Time() time.Time {
	return time.Unix(0, int64(t)*int64(time.Millisecond))
}

// URI mirrors the editor's serialized URI shape
type URI struct {
	Path   string `json:"path,omitempty"`
	FsPath string `json:"fsPath,omitempty"`
}

// FilePath returns the filesystem path carried by the URI
func (u URI) FilePath() string {
	if u.FsPath != "" {
		return u.FsPath
	}
	return u.Path
}

// RawBubble represents a message bubble from the unified store
type RawBubble struct {
	BubbleID      string         `json:"bubbleId"`
	ChatID        string         `json:"chatId"`
	Text          string         `json:"text,omitempty"`
	RichText      string         `json:"richText,omitempty"`
	RelevantFiles []string       `json:"relevantFiles,omitempty"`
	Context       *BubbleContext `json:"context,omitempty"`
	Type          int            `json:"type,omitempty"` // 1=user, 2=assistant
}

// BubbleMapKey identifies a bubble within its owning conversation. Bubble
// ids are only unique per chat, so lookups carry both parts.
func BubbleMapKey(chatID, bubbleID string) string {
	return chatID + ":" + bubbleID
}

// BubbleContext carries the attachment context recorded with a bubble
type BubbleContext struct {
	FileSelections []FileSelection `json:"fileSelections,omitempty"`
}

// FileSelection is one file attached to a bubble
type FileSelection struct {
	URI URI `json:"uri"`
}

// ConversationHeader is one ordered bubble reference in a composer
type ConversationHeader struct {
	BubbleID string `json:"bubbleId"`
	Type     int    `json:"type"` // 1=user, 2=assistant
}

// NewlyCreatedFile is a file the composer recorded as created during the session
type NewlyCreatedFile struct {
	Path string `json:"path,omitempty"`
	URI  *URI   `json:"uri,omitempty"`
}

// FilePath returns the file path in whichever field carries it
func (f NewlyCreatedFile) FilePath() string {
	if f.Path != "" {
		return f.Path
	}
	if f.URI != nil {
		return f.URI.FilePath()
	}
	return ""
}

// RawComposer represents an agent conversation record from the unified store
type RawComposer struct {
	ComposerID                  string                     `json:"composerId"`
	Name                        string                     `json:"name,omitempty"`
	FullConversationHeadersOnly []ConversationHeader       `json:"fullConversationHeadersOnly,omitempty"`
	NewlyCreatedFiles           []NewlyCreatedFile         `json:"newlyCreatedFiles,omitempty"`
	CodeBlockData               map[string]json.RawMessage `json:"codeBlockData,omitempty"`
	CreatedAt                   Timestamp                  `json:"createdAt,omitempty"`
	LastUpdatedAt               Timestamp                  `json:"lastUpdatedAt,omitempty"`
}

// Title returns the composer name, synthesizing one from the id when absent
func (rc *RawComposer) Title() string {
	if rc.Name != "" {
		return rc.Name
	}
	return FallbackTitle(rc.ComposerID)
}

// EffectiveTimestamp returns lastUpdatedAt, else createdAt, else now
func (rc *RawComposer) EffectiveTimestamp() Timestamp {
	if rc.LastUpdatedAt != 0 {
		return rc.LastUpdatedAt
	}
	if rc.CreatedAt != 0 {
		return rc.CreatedAt
	}
	return Timestamp(time.Now().UnixMilli())
}

// FallbackTitle synthesizes a display title from a conversation id
func FallbackTitle(id string) string {
	short := id
	if len(short) > 8 {
		short = short[:8]
	}
	return fmt.Sprintf("Untitled (%s)", short)
}

// MessageContext represents per-conversation context data from the unified store
type MessageContext struct {
	ComposerID     string   `json:"composerId"`
	ContextID      string   `json:"contextId"`
	ProjectLayouts []string `json:"projectLayouts,omitempty"`
}

// projectLayout is the re-parsed form of one projectLayouts descriptor string
type projectLayout struct {
	RootPath string `json:"rootPath"`
}

// RootPaths re-parses each layout descriptor and collects the root paths
func (mc *MessageContext) RootPaths() []string {
	var roots []string
	for _, raw := range mc.ProjectLayouts {
		var layout projectLayout
		if err := json.Unmarshal([]byte(raw), &layout); err != nil {
			LogDebug("skipping unparseable project layout for %s: %v", mc.ComposerID, err)
			continue
		}
		if layout.RootPath != "" {
			roots = append(roots, layout.RootPath)
		}
	}
	return roots
}

// ParseRawBubble parses a cursorDiskKV row into a RawBubble.
// Key format: bubbleId:<chatId>:<bubbleId>
func ParseRawBubble(key, value string) (*RawBubble, error) {
	rest, ok := strings.CutPrefix(key, bubbleKeyPrefix)
	if !ok {
		return nil, fmt.Errorf("invalid bubbleId key format: %s", key)
	}
	parts := strings.SplitN(rest, ":", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return nil, fmt.Errorf("invalid bubbleId key format: %s", key)
	}

	var bubble RawBubble
	if err := json.Unmarshal([]byte(value), &bubble); err != nil {
		return nil, &ParseError{Source: "globalStorage", Key: key, Err: err}
	}

	bubble.ChatID = parts[0]
	bubble.BubbleID = parts[1]
	return &bubble, nil
}

// ParseRawComposer parses a cursorDiskKV row into a RawComposer.
// Key format: composerData:<composerId>
func ParseRawComposer(key, value string) (*RawComposer, error) {
	id, ok := strings.CutPrefix(key, composerKeyPrefix)
	if !ok || strings.Contains(id, ":") {
		return nil, fmt.Errorf("invalid composerData key format: %s", key)
	}
	if len(id) < minComposerIDLen {
		return nil, fmt.Errorf("composerData key below noise threshold: %s", key)
	}

	var composer RawComposer
	if err := json.Unmarshal([]byte(value), &composer); err != nil {
		return nil, &ParseError{Source: "globalStorage", Key: key, Err: err}
	}

	composer.ComposerID = id
	return &composer, nil
}

// ParseMessageContext parses a cursorDiskKV row into a MessageContext.
// Key format: messageRequestContext:<composerId>:<contextId>
func ParseMessageContext(key, value string) (*MessageContext, error) {
	rest, ok := strings.CutPrefix(key, contextKeyPrefix)
	if !ok {
		return nil, fmt.Errorf("invalid messageRequestContext key format: %s", key)
	}
	parts := strings.SplitN(rest, ":", 2)
	if len(parts) != 2 || parts[0] == "" {
		return nil, fmt.Errorf("invalid messageRequestContext key format: %s", key)
	}

	var context MessageContext
	if err := json.Unmarshal([]byte(value), &context); err != nil {
		return nil, &ParseError{Source: "globalStorage", Key: key, Err: err}
	}

	context.ComposerID = parts[0]
	context.ContextID = parts[1]
	return &context, nil
}

// AskChatDoc is the ask-tab document stored under AskChatDataKey
type AskChatDoc struct {
	Tabs []AskTab `json:"tabs"`
}

// AskTab is one ask conversation with inline bubbles
type AskTab struct {
	TabID        string      `json:"tabId"`
	ChatTitle    string      `json:"chatTitle,omitempty"`
	LastSendTime Timestamp   `json:"lastSendTime,omitempty"`
	Bubbles      []AskBubble `json:"bubbles,omitempty"`
}

// Title returns the tab title, synthesizing one from the id when absent
func (t *AskTab) Title() string {
	if t.ChatTitle != "" {
		return t.ChatTitle
	}
	return FallbackTitle(t.TabID)
}

// AskBubble is one inline message turn of an ask tab
type AskBubble struct {
	Type     string `json:"type,omitempty"` // "user" | "ai"
	Text     string `json:"text,omitempty"`
	RichText string `json:"richText,omitempty"`
}

// ComposerDataDoc is the agent document stored under ComposerDataKey in a
// legacy workspace store
type ComposerDataDoc struct {
	AllComposers []LegacyComposer `json:"allComposers"`
}

// LegacyComposer is one agent conversation with inline messages
type LegacyComposer struct {
	ComposerID    string          `json:"composerId"`
	Name          string          `json:"name,omitempty"`
	CreatedAt     Timestamp       `json:"createdAt,omitempty"`
	LastUpdatedAt Timestamp       `json:"lastUpdatedAt,omitempty"`
	Conversation  []LegacyMessage `json:"conversation,omitempty"`
}

// Title returns the composer name, synthesizing one from the id when absent
func (lc *LegacyComposer) Title() string {
	if lc.Name != "" {
		return lc.Name
	}
	return FallbackTitle(lc.ComposerID)
}

// EffectiveTimestamp returns lastUpdatedAt, else createdAt, else now
func (lc *LegacyComposer) EffectiveTimestamp() Timestamp {
	if lc.LastUpdatedAt != 0 {
		return lc.LastUpdatedAt
	}
	if lc.CreatedAt != 0 {
		return lc.CreatedAt
	}
	return Timestamp(time.Now().UnixMilli())
}

// LegacyMessage is one inline message turn of a legacy composer
type LegacyMessage struct {
	Type     int    `json:"type,omitempty"` // 1=user, 2=assistant
	Text     string `json:"text,omitempty"`
	RichText string `json:"richText,omitempty"`
}
