package store

import (
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestCreateAndGetChat(t *testing.T) {
	s := newTestStore(t)

	chat, err := s.CreateChat(1, "hello there")
	if err != nil {
		t.Fatalf("CreateChat: %v", err)
	}
	if chat.ID == 0 {
		t.Fatal("CreateChat returned zero id")
	}

	got, err := s.GetChat(chat.ID)
	if err != nil {
		t.Fatalf("GetChat: %v", err)
	}
	if got.Description != "hello there" {
		t.Errorf("description = %q, want %q", got.Description, "hello there")
	}
	if got.UserID != 1 {
		t.Errorf("user_id = %d, want 1", got.UserID)
	}
	if got.DefaultKnowledgeBaseID != 0 {
		t.Errorf("default kb = %d, want 0", got.DefaultKnowledgeBaseID)
	}
	if got.CompactionWatermark != 0 {
		t.Errorf("watermark = %d, want 0", got.CompactionWatermark)
	}
}

func TestGetChat_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetChat(42)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("GetChat(42) error = %v, want ErrNotFound", err)
	}
}

func TestUpdateChatDescription_LastWriteWins(t *testing.T) {
	s := newTestStore(t)

	chat, _ := s.CreateChat(1, "provisional")
	if got, _ := s.GetChat(chat.ID); got.Titled {
		t.Error("new chat should not be titled")
	}

	if err := s.UpdateChatDescription(chat.ID, "First Title"); err != nil {
		t.Fatalf("first update: %v", err)
	}
	if err := s.UpdateChatDescription(chat.ID, "Second Title"); err != nil {
		t.Fatalf("second update: %v", err)
	}

	got, _ := s.GetChat(chat.ID)
	if got.Description != "Second Title" {
		t.Errorf("description = %q, want %q", got.Description, "Second Title")
	}
	if !got.Titled {
		t.Error("description update should mark the chat titled")
	}
}

func TestUpdateChatDefaults(t *testing.T) {
	s := newTestStore(t)

	chat, _ := s.CreateChat(1, "c")
	kb, _ := s.CreateKnowledgeBase(1, "notes")

	if err := s.UpdateChatDefaults(chat.ID, kb.ID, "businessCoach"); err != nil {
		t.Fatalf("UpdateChatDefaults: %v", err)
	}

	got, _ := s.GetChat(chat.ID)
	if got.DefaultKnowledgeBaseID != kb.ID {
		t.Errorf("default kb = %d, want %d", got.DefaultKnowledgeBaseID, kb.ID)
	}
	if got.DefaultAgent != "businessCoach" {
		t.Errorf("default agent = %q, want businessCoach", got.DefaultAgent)
	}

	// Clearing the knowledge base stores NULL.
	if err := s.UpdateChatDefaults(chat.ID, 0, "base"); err != nil {
		t.Fatalf("UpdateChatDefaults clear: %v", err)
	}
	got, _ = s.GetChat(chat.ID)
	if got.DefaultKnowledgeBaseID != 0 {
		t.Errorf("default kb after clear = %d, want 0", got.DefaultKnowledgeBaseID)
	}
}

func TestUpdateChatWatermark_Monotonic(t *testing.T) {
	s := newTestStore(t)

	chat, _ := s.CreateChat(1, "c")

	if err := s.UpdateChatWatermark(chat.ID, 10); err != nil {
		t.Fatalf("first advance: %v", err)
	}
	if err := s.UpdateChatWatermark(chat.ID, 20); err != nil {
		t.Fatalf("second advance: %v", err)
	}
	if err := s.UpdateChatWatermark(chat.ID, 15); err == nil {
		t.Error("moving watermark backward should fail")
	}
	if err := s.UpdateChatWatermark(chat.ID, 20); err == nil {
		t.Error("re-setting the same watermark should fail")
	}

	got, _ := s.GetChat(chat.ID)
	if got.CompactionWatermark != 20 {
		t.Errorf("watermark = %d, want 20", got.CompactionWatermark)
	}
}

func TestMessagesAfter(t *testing.T) {
	s := newTestStore(t)

	chat, _ := s.CreateChat(1, "c")
	uid := int64(1)

	m1, _ := s.CreateMessage(chat.ID, &uid, "first")
	m2, _ := s.CreateMessage(chat.ID, nil, "second")
	m3, _ := s.CreateMessage(chat.ID, &uid, "third")

	all, err := s.Messages(chat.ID)
	if err != nil {
		t.Fatalf("Messages: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("len(all) = %d, want 3", len(all))
	}
	if all[0].ID != m1.ID || all[1].ID != m2.ID || all[2].ID != m3.ID {
		t.Errorf("messages out of order: %d %d %d", all[0].ID, all[1].ID, all[2].ID)
	}
	if !all[0].FromUser() {
		t.Error("first message should be from user")
	}
	if all[1].FromUser() {
		t.Error("second message should be from assistant")
	}

	tail, err := s.MessagesAfter(chat.ID, m1.ID)
	if err != nil {
		t.Fatalf("MessagesAfter: %v", err)
	}
	if len(tail) != 2 {
		t.Fatalf("len(tail) = %d, want 2", len(tail))
	}
	if tail[0].ID != m2.ID {
		t.Errorf("tail starts at %d, want %d", tail[0].ID, m2.ID)
	}
}

func TestCountMessages(t *testing.T) {
	s := newTestStore(t)

	chat, _ := s.CreateChat(1, "c")
	uid := int64(1)
	for i := 0; i < 5; i++ {
		s.CreateMessage(chat.ID, &uid, "msg")
	}

	n, err := s.CountMessages(chat.ID)
	if err != nil {
		t.Fatalf("CountMessages: %v", err)
	}
	if n != 5 {
		t.Errorf("count = %d, want 5", n)
	}
}

func TestDeleteChat_Cascades(t *testing.T) {
	s := newTestStore(t)

	chat, _ := s.CreateChat(1, "c")
	uid := int64(1)
	s.CreateMessage(chat.ID, &uid, "msg")
	s.CreateCompressedChat(chat.ID, time.Now(), time.Now(), "summary", 2)

	if err := s.DeleteChat(chat.ID); err != nil {
		t.Fatalf("DeleteChat: %v", err)
	}

	if _, err := s.GetChat(chat.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetChat after delete error = %v, want ErrNotFound", err)
	}
	msgs, _ := s.Messages(chat.ID)
	if len(msgs) != 0 {
		t.Errorf("messages survived chat delete: %d", len(msgs))
	}
	comp, _ := s.CompressedChats(chat.ID)
	if len(comp) != 0 {
		t.Errorf("compressed chats survived chat delete: %d", len(comp))
	}
}

func TestCompressedChats_Ordering(t *testing.T) {
	s := newTestStore(t)

	chat, _ := s.CreateChat(1, "c")
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	s.CreateCompressedChat(chat.ID, base.Add(time.Hour), base.Add(2*time.Hour), "later", 3)
	s.CreateCompressedChat(chat.ID, base, base.Add(time.Hour), "earlier", 3)

	got, err := s.CompressedChats(chat.ID)
	if err != nil {
		t.Fatalf("CompressedChats: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Summary != "earlier" || got[1].Summary != "later" {
		t.Errorf("summaries out of order: %q, %q", got[0].Summary, got[1].Summary)
	}
}

func TestDeleteKnowledgeBase_Cascades(t *testing.T) {
	s := newTestStore(t)

	kb, _ := s.CreateKnowledgeBase(1, "notes")
	s.CreateKnowledge(kb.ID, "the sky is blue", "chat")

	chat, _ := s.CreateChat(1, "c")
	s.UpdateChatDefaults(chat.ID, kb.ID, "base")

	if err := s.DeleteKnowledgeBase(kb.ID); err != nil {
		t.Fatalf("DeleteKnowledgeBase: %v", err)
	}

	facts, _ := s.Knowledge(kb.ID)
	if len(facts) != 0 {
		t.Errorf("knowledge survived base delete: %d", len(facts))
	}

	// The chat's dangling default is cleared, not left pointing at a
	// deleted base.
	got, _ := s.GetChat(chat.ID)
	if got.DefaultKnowledgeBaseID != 0 {
		t.Errorf("chat default kb = %d, want 0 after base delete", got.DefaultKnowledgeBaseID)
	}
}

func TestKnowledge_InsertionOrder(t *testing.T) {
	s := newTestStore(t)

	kb, _ := s.CreateKnowledgeBase(1, "notes")
	s.CreateKnowledge(kb.ID, "first fact", "a")
	s.CreateKnowledge(kb.ID, "second fact", "b")

	facts, err := s.Knowledge(kb.ID)
	if err != nil {
		t.Fatalf("Knowledge: %v", err)
	}
	if len(facts) != 2 {
		t.Fatalf("len = %d, want 2", len(facts))
	}
	if facts[0].Knowledge != "first fact" || facts[1].Knowledge != "second fact" {
		t.Errorf("facts out of order: %q, %q", facts[0].Knowledge, facts[1].Knowledge)
	}
}

func TestDeleteKnowledge(t *testing.T) {
	s := newTestStore(t)

	kb, _ := s.CreateKnowledgeBase(1, "notes")
	k, _ := s.CreateKnowledge(kb.ID, "fact", "src")

	if err := s.DeleteKnowledge(k.ID); err != nil {
		t.Fatalf("DeleteKnowledge: %v", err)
	}
	if err := s.DeleteKnowledge(k.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete error = %v, want ErrNotFound", err)
	}
}

func TestChats_MostRecentFirst(t *testing.T) {
	s := newTestStore(t)

	c1, _ := s.CreateChat(1, "older")
	time.Sleep(5 * time.Millisecond)
	c2, _ := s.CreateChat(1, "newer")
	s.CreateChat(2, "other user")

	chats, err := s.Chats(1)
	if err != nil {
		t.Fatalf("Chats: %v", err)
	}
	if len(chats) != 2 {
		t.Fatalf("len = %d, want 2", len(chats))
	}
	if chats[0].ID != c2.ID || chats[1].ID != c1.ID {
		t.Errorf("chats out of order: %d, %d", chats[0].ID, chats[1].ID)
	}
}
