package store

import "time"

// Chat is one conversation. Description starts as a provisional title
// cut from the first message; Titled flips once a real title is written
// over it. The watermark marks the last message id already folded into
// a compressed summary; zero means nothing has been folded yet.
type Chat struct {
	ID                     int64     `json:"id"`
	UserID                 int64     `json:"user_id"`
	Description            string    `json:"description"`
	Titled                 bool      `json:"titled"`
	DefaultKnowledgeBaseID int64     `json:"default_knowledge_base_id"` // 0 = none
	DefaultAgent           string    `json:"default_agent"`
	CompactionWatermark    int64     `json:"compaction_watermark"` // 0 = none
	CreatedAt              time.Time `json:"created_at"`
	UpdatedAt              time.Time `json:"updated_at"`
}

// Message is one turn. UserID is nil for assistant messages. Messages
// are immutable once created; ids are storage-assigned and monotonic
// within a chat.
type Message struct {
	ID        int64     `json:"id"`
	ChatID    int64     `json:"chat_id"`
	UserID    *int64    `json:"user_id"` // nil = assistant
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// FromUser reports whether the message was authored by a user.
func (m Message) FromUser() bool { return m.UserID != nil }

// CompressedChat is a folded range of messages: one summary standing in
// for MessageCount consecutive messages between StartTime and EndTime.
// Created only by the compactor, never mutated.
type CompressedChat struct {
	ID           int64     `json:"id"`
	ChatID       int64     `json:"chat_id"`
	StartTime    time.Time `json:"start_time"`
	EndTime      time.Time `json:"end_time"`
	Summary      string    `json:"summary"`
	MessageCount int       `json:"message_count"`
	CreatedAt    time.Time `json:"created_at"`
}

// KnowledgeBase is a named bucket of extracted facts owned by a user.
type KnowledgeBase struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Knowledge is one extracted fact with a free-text source attribution.
// Facts are only ever added or deleted, never updated.
type Knowledge struct {
	ID              int64     `json:"id"`
	KnowledgeBaseID int64     `json:"knowledge_base_id"`
	Knowledge       string    `json:"knowledge"`
	Source          string    `json:"source"`
	CreatedAt       time.Time `json:"created_at"`
}
