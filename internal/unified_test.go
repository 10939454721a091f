package internal

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/iksnae/cursor-search/testutil"
)

func createUnifiedFixture(t *testing.T) *UnifiedStore {
	t.Helper()
	basePath := testutil.CreateTempDir(t)
	db := testutil.CreateGlobalStoreFixture(t, basePath)

	testutil.InsertKV(t, db, "bubbleId:composer-one:b1", `{"text":"Hello world","type":1}`)
	testutil.InsertKV(t, db, "bubbleId:composer-one:b2", `{"richText":"{\"root\":{\"children\":[{\"text\":\"from rich text\"}]}}","type":2}`)
	testutil.InsertKV(t, db, "bubbleId:composer-one:bad", `{broken`)
	testutil.InsertKV(t, db, "composerData:composer-one", `{"name":"First","lastUpdatedAt":2000}`)
	testutil.InsertKV(t, db, "composerData:ab", `{"name":"Noise"}`)
	testutil.InsertKV(t, db, "messageRequestContext:composer-one:ctx1",
		`{"projectLayouts":["{\"rootPath\":\"/home/user/projects/alpha\"}"]}`)
	testutil.InsertItem(t, db, AskChatDataKey,
		`{"tabs":[{"tabId":"tab-1","chatTitle":"Global ask","lastSendTime":1500}]}`)
	db.Close()

	store, err := OpenUnifiedStore(filepath.Join(basePath, "globalStorage", "state.vscdb"))
	if err != nil {
		t.Fatalf("OpenUnifiedStore() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestUnifiedStore_LoadBubbles(t *testing.T) {
	store := createUnifiedFixture(t)

	bubbles, err := store.LoadBubbles()
	if err != nil {
		t.Fatalf("LoadBubbles() error = %v", err)
	}

	// The malformed row is skipped, the rest survive.
	if len(bubbles) != 2 {
		t.Fatalf("LoadBubbles() returned %d bubbles, want 2", len(bubbles))
	}
	b1 := bubbles[BubbleMapKey("composer-one", "b1")]
	if b1 == nil {
		t.Fatal("bubble composer-one/b1 missing")
	}
	if b1.Text != "Hello world" {
		t.Errorf("b1 text = %q", b1.Text)
	}
	if b1.ChatID != "composer-one" {
		t.Errorf("b1 chat id = %q, want composer-one", b1.ChatID)
	}
}

func TestUnifiedStore_LoadBubbles_SameBubbleIDAcrossChats(t *testing.T) {
	basePath := testutil.CreateTempDir(t)
	db := testutil.CreateGlobalStoreFixture(t, basePath)

	testutil.InsertKV(t, db, "bubbleId:chat-one:b1", `{"text":"first chat"}`)
	testutil.InsertKV(t, db, "bubbleId:chat-two:b1", `{"text":"second chat"}`)
	db.Close()

	store, err := OpenUnifiedStore(filepath.Join(basePath, "globalStorage", "state.vscdb"))
	if err != nil {
		t.Fatalf("OpenUnifiedStore() error = %v", err)
	}
	defer store.Close()

	bubbles, err := store.LoadBubbles()
	if err != nil {
		t.Fatalf("LoadBubbles() error = %v", err)
	}
	if len(bubbles) != 2 {
		t.Fatalf("LoadBubbles() returned %d bubbles, want 2", len(bubbles))
	}
	if got := bubbles[BubbleMapKey("chat-one", "b1")].Text; got != "first chat" {
		t.Errorf("chat-one/b1 text = %q, want %q", got, "first chat")
	}
	if got := bubbles[BubbleMapKey("chat-two", "b1")].Text; got != "second chat" {
		t.Errorf("chat-two/b1 text = %q, want %q", got, "second chat")
	}
}

func TestUnifiedStore_LoadComposers(t *testing.T) {
	store := createUnifiedFixture(t)

	composers, err := store.LoadComposers()
	if err != nil {
		t.Fatalf("LoadComposers() error = %v", err)
	}

	// The noise-threshold key is skipped.
	if len(composers) != 1 {
		t.Fatalf("LoadComposers() returned %d composers, want 1", len(composers))
	}
	if composers[0].ComposerID != "composer-one" {
		t.Errorf("ComposerID = %q, want composer-one", composers[0].ComposerID)
	}
	if composers[0].Name != "First" {
		t.Errorf("Name = %q, want First", composers[0].Name)
	}
}

func TestUnifiedStore_LoadProjectLayouts(t *testing.T) {
	store := createUnifiedFixture(t)

	layouts, err := store.LoadProjectLayouts()
	if err != nil {
		t.Fatalf("LoadProjectLayouts() error = %v", err)
	}

	roots := layouts["composer-one"]
	if len(roots) != 1 || roots[0] != "/home/user/projects/alpha" {
		t.Errorf("layouts[composer-one] = %v, want [/home/user/projects/alpha]", roots)
	}
}

func TestUnifiedStore_LoadAskTabs(t *testing.T) {
	store := createUnifiedFixture(t)

	tabs, err := store.LoadAskTabs()
	if err != nil {
		t.Fatalf("LoadAskTabs() error = %v", err)
	}
	if len(tabs) != 1 {
		t.Fatalf("LoadAskTabs() returned %d tabs, want 1", len(tabs))
	}
	if tabs[0].ChatTitle != "Global ask" {
		t.Errorf("ChatTitle = %q, want Global ask", tabs[0].ChatTitle)
	}
}

func TestUnifiedStore_FaultIsolation(t *testing.T) {
	basePath := testutil.CreateTempDir(t)
	db := testutil.CreateGlobalStoreFixture(t, basePath)

	// Nine well-formed composers and one malformed row.
	for i := 0; i < 9; i++ {
		id := fmt.Sprintf("composer-%04d", i)
		testutil.InsertKV(t, db, "composerData:"+id, fmt.Sprintf(`{"name":"Conversation %d"}`, i))
	}
	testutil.InsertKV(t, db, "composerData:composer-broken", `{definitely not json`)
	db.Close()

	store, err := OpenUnifiedStore(filepath.Join(basePath, "globalStorage", "state.vscdb"))
	if err != nil {
		t.Fatalf("OpenUnifiedStore() error = %v", err)
	}
	defer store.Close()

	composers, err := store.LoadComposers()
	if err != nil {
		t.Fatalf("LoadComposers() error = %v", err)
	}
	if len(composers) != 9 {
		t.Errorf("LoadComposers() returned %d composers, want 9", len(composers))
	}
}
