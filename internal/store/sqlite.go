// Package store provides SQLite-backed persistence for chats, messages,
// compressed history, and knowledge bases.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// Store is a SQLite-backed persistence gateway. All writes go through
// the single *sql.DB; SQLite serializes them, so Store is safe for
// concurrent use.
type Store struct {
	db *sql.DB
}

// New opens (or creates) the database at dbPath and applies the schema.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

// NewWithDB creates a store using an existing database connection.
func NewWithDB(db *sql.DB) (*Store, error) {
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
	CREATE TABLE IF NOT EXISTS chats (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		description TEXT NOT NULL,
		titled INTEGER NOT NULL DEFAULT 0,
		default_knowledge_base_id INTEGER,
		default_agent TEXT NOT NULL DEFAULT '',
		compaction_watermark INTEGER,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_chats_user ON chats(user_id, updated_at DESC);

	CREATE TABLE IF NOT EXISTS messages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		chat_id INTEGER NOT NULL,
		user_id INTEGER,
		content TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL,
		FOREIGN KEY (chat_id) REFERENCES chats(id) ON DELETE CASCADE
	);
	CREATE INDEX IF NOT EXISTS idx_messages_chat ON messages(chat_id, id);

	CREATE TABLE IF NOT EXISTS compressed_chats (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		chat_id INTEGER NOT NULL,
		start_time TIMESTAMP NOT NULL,
		end_time TIMESTAMP NOT NULL,
		summary TEXT NOT NULL,
		message_count INTEGER NOT NULL,
		created_at TIMESTAMP NOT NULL,
		FOREIGN KEY (chat_id) REFERENCES chats(id) ON DELETE CASCADE
	);
	CREATE INDEX IF NOT EXISTS idx_compressed_chat ON compressed_chats(chat_id, start_time);

	CREATE TABLE IF NOT EXISTS knowledge_bases (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		name TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_knowledge_bases_user ON knowledge_bases(user_id);

	CREATE TABLE IF NOT EXISTS knowledge (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		knowledge_base_id INTEGER NOT NULL,
		knowledge TEXT NOT NULL,
		source TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL,
		FOREIGN KEY (knowledge_base_id) REFERENCES knowledge_bases(id) ON DELETE CASCADE
	);
	CREATE INDEX IF NOT EXISTS idx_knowledge_base ON knowledge(knowledge_base_id, id);
	`)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// CreateChat creates a chat owned by userID with the given description.
func (s *Store) CreateChat(userID int64, description string) (*Chat, error) {
	now := time.Now().UTC()

	res, err := s.db.Exec(`
		INSERT INTO chats (user_id, description, default_agent, created_at, updated_at)
		VALUES (?, ?, '', ?, ?)
	`, userID, description, now, now)
	if err != nil {
		return nil, fmt.Errorf("insert chat: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("chat id: %w", err)
	}

	return &Chat{
		ID:          id,
		UserID:      userID,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// GetChat retrieves a chat by id.
func (s *Store) GetChat(id int64) (*Chat, error) {
	row := s.db.QueryRow(`
		SELECT id, user_id, description, titled, default_knowledge_base_id, default_agent,
		       compaction_watermark, created_at, updated_at
		FROM chats WHERE id = ?
	`, id)

	var c Chat
	var kbID, watermark sql.NullInt64
	err := row.Scan(&c.ID, &c.UserID, &c.Description, &c.Titled, &kbID, &c.DefaultAgent,
		&watermark, &c.CreatedAt, &c.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("chat %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("scan chat: %w", err)
	}
	if kbID.Valid {
		c.DefaultKnowledgeBaseID = kbID.Int64
	}
	if watermark.Valid {
		c.CompactionWatermark = watermark.Int64
	}
	return &c, nil
}

// Chats lists a user's chats, most recently active first.
func (s *Store) Chats(userID int64) ([]*Chat, error) {
	rows, err := s.db.Query(`
		SELECT id, user_id, description, titled, default_knowledge_base_id, default_agent,
		       compaction_watermark, created_at, updated_at
		FROM chats WHERE user_id = ? ORDER BY updated_at DESC, id DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("query chats: %w", err)
	}
	defer rows.Close()

	var chats []*Chat
	for rows.Next() {
		var c Chat
		var kbID, watermark sql.NullInt64
		if err := rows.Scan(&c.ID, &c.UserID, &c.Description, &c.Titled, &kbID, &c.DefaultAgent,
			&watermark, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan chat: %w", err)
		}
		if kbID.Valid {
			c.DefaultKnowledgeBaseID = kbID.Int64
		}
		if watermark.Valid {
			c.CompactionWatermark = watermark.Int64
		}
		chats = append(chats, &c)
	}
	return chats, rows.Err()
}

// UpdateChatDescription replaces the chat's description (its title) and
// marks the chat as titled, retiring the provisional title for good.
func (s *Store) UpdateChatDescription(id int64, description string) error {
	res, err := s.db.Exec(`
		UPDATE chats SET description = ?, titled = 1, updated_at = ? WHERE id = ?
	`, description, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("update description: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("chat %d: %w", id, ErrNotFound)
	}
	return nil
}

// UpdateChatDefaults records the knowledge base and agent last used with
// the chat so the next turn can start from them. A knowledgeBaseID of 0
// is stored as NULL.
func (s *Store) UpdateChatDefaults(id int64, knowledgeBaseID int64, agent string) error {
	var kbID any
	if knowledgeBaseID != 0 {
		kbID = knowledgeBaseID
	}

	res, err := s.db.Exec(`
		UPDATE chats SET default_knowledge_base_id = ?, default_agent = ?, updated_at = ?
		WHERE id = ?
	`, kbID, agent, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("update defaults: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("chat %d: %w", id, ErrNotFound)
	}
	return nil
}

// UpdateChatWatermark advances the compaction watermark to lastFolded,
// the id of the last message folded into a summary. The watermark only
// moves forward; an attempt to move it backward is an error.
func (s *Store) UpdateChatWatermark(id int64, lastFolded int64) error {
	res, err := s.db.Exec(`
		UPDATE chats SET compaction_watermark = ?
		WHERE id = ? AND (compaction_watermark IS NULL OR compaction_watermark < ?)
	`, lastFolded, id, lastFolded)
	if err != nil {
		return fmt.Errorf("update watermark: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("chat %d: watermark %d not advanced", id, lastFolded)
	}
	return nil
}

// DeleteChat removes a chat together with its messages and compressed
// summaries in one transaction.
func (s *Store) DeleteChat(id int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM messages WHERE chat_id = ?`, id); err != nil {
		return fmt.Errorf("delete messages: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM compressed_chats WHERE chat_id = ?`, id); err != nil {
		return fmt.Errorf("delete compressed chats: %w", err)
	}

	res, err := tx.Exec(`DELETE FROM chats WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete chat: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("chat %d: %w", id, ErrNotFound)
	}

	return tx.Commit()
}

// CreateMessage appends a message to a chat and bumps the chat's
// updated_at. userID is nil for assistant messages.
func (s *Store) CreateMessage(chatID int64, userID *int64, content string) (*Message, error) {
	now := time.Now().UTC()

	var uid any
	if userID != nil {
		uid = *userID
	}

	res, err := s.db.Exec(`
		INSERT INTO messages (chat_id, user_id, content, created_at)
		VALUES (?, ?, ?, ?)
	`, chatID, uid, content, now)
	if err != nil {
		return nil, fmt.Errorf("insert message: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("message id: %w", err)
	}

	_, err = s.db.Exec(`UPDATE chats SET updated_at = ? WHERE id = ?`, now, chatID)
	if err != nil {
		return nil, fmt.Errorf("touch chat: %w", err)
	}

	return &Message{
		ID:        id,
		ChatID:    chatID,
		UserID:    userID,
		Content:   content,
		CreatedAt: now,
	}, nil
}

// Messages retrieves all messages of a chat in insertion order.
func (s *Store) Messages(chatID int64) ([]Message, error) {
	return s.MessagesAfter(chatID, 0)
}

// MessagesAfter retrieves the chat's messages with id > afterID, in
// insertion order. Passing the chat's compaction watermark yields the
// live (not yet folded) tail.
func (s *Store) MessagesAfter(chatID, afterID int64) ([]Message, error) {
	rows, err := s.db.Query(`
		SELECT id, chat_id, user_id, content, created_at
		FROM messages
		WHERE chat_id = ? AND id > ?
		ORDER BY id ASC
	`, chatID, afterID)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()

	var messages []Message
	for rows.Next() {
		var m Message
		var uid sql.NullInt64
		if err := rows.Scan(&m.ID, &m.ChatID, &uid, &m.Content, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		if uid.Valid {
			v := uid.Int64
			m.UserID = &v
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

// CountMessages returns the total number of messages ever persisted for
// the chat, folded ones included. The count only grows, which makes it
// usable as a one-shot milestone trigger.
func (s *Store) CountMessages(chatID int64) (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM messages WHERE chat_id = ?`, chatID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count messages: %w", err)
	}
	return n, nil
}

// CreateCompressedChat records a summary standing in for messageCount
// consecutive messages between start and end.
func (s *Store) CreateCompressedChat(chatID int64, start, end time.Time, summary string, messageCount int) (*CompressedChat, error) {
	now := time.Now().UTC()

	res, err := s.db.Exec(`
		INSERT INTO compressed_chats (chat_id, start_time, end_time, summary, message_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, chatID, start.UTC(), end.UTC(), summary, messageCount, now)
	if err != nil {
		return nil, fmt.Errorf("insert compressed chat: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("compressed chat id: %w", err)
	}

	return &CompressedChat{
		ID:           id,
		ChatID:       chatID,
		StartTime:    start.UTC(),
		EndTime:      end.UTC(),
		Summary:      summary,
		MessageCount: messageCount,
		CreatedAt:    now,
	}, nil
}

// CompressedChats retrieves the chat's summaries ordered by the start of
// the range they cover.
func (s *Store) CompressedChats(chatID int64) ([]CompressedChat, error) {
	rows, err := s.db.Query(`
		SELECT id, chat_id, start_time, end_time, summary, message_count, created_at
		FROM compressed_chats
		WHERE chat_id = ?
		ORDER BY start_time ASC, id ASC
	`, chatID)
	if err != nil {
		return nil, fmt.Errorf("query compressed chats: %w", err)
	}
	defer rows.Close()

	var compressed []CompressedChat
	for rows.Next() {
		var c CompressedChat
		if err := rows.Scan(&c.ID, &c.ChatID, &c.StartTime, &c.EndTime,
			&c.Summary, &c.MessageCount, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan compressed chat: %w", err)
		}
		compressed = append(compressed, c)
	}
	return compressed, rows.Err()
}

// CreateKnowledgeBase creates a named knowledge base for a user.
func (s *Store) CreateKnowledgeBase(userID int64, name string) (*KnowledgeBase, error) {
	now := time.Now().UTC()

	res, err := s.db.Exec(`
		INSERT INTO knowledge_bases (user_id, name, created_at)
		VALUES (?, ?, ?)
	`, userID, name, now)
	if err != nil {
		return nil, fmt.Errorf("insert knowledge base: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("knowledge base id: %w", err)
	}

	return &KnowledgeBase{ID: id, UserID: userID, Name: name, CreatedAt: now}, nil
}

// GetKnowledgeBase retrieves a knowledge base by id.
func (s *Store) GetKnowledgeBase(id int64) (*KnowledgeBase, error) {
	row := s.db.QueryRow(`
		SELECT id, user_id, name, created_at FROM knowledge_bases WHERE id = ?
	`, id)

	var kb KnowledgeBase
	err := row.Scan(&kb.ID, &kb.UserID, &kb.Name, &kb.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("knowledge base %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("scan knowledge base: %w", err)
	}
	return &kb, nil
}

// KnowledgeBases lists a user's knowledge bases by name.
func (s *Store) KnowledgeBases(userID int64) ([]*KnowledgeBase, error) {
	rows, err := s.db.Query(`
		SELECT id, user_id, name, created_at
		FROM knowledge_bases WHERE user_id = ? ORDER BY name ASC, id ASC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("query knowledge bases: %w", err)
	}
	defer rows.Close()

	var bases []*KnowledgeBase
	for rows.Next() {
		var kb KnowledgeBase
		if err := rows.Scan(&kb.ID, &kb.UserID, &kb.Name, &kb.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan knowledge base: %w", err)
		}
		bases = append(bases, &kb)
	}
	return bases, rows.Err()
}

// DeleteKnowledgeBase removes a knowledge base and its facts in one
// transaction. Chats referencing it keep working: their default is
// cleared so the next turn falls back to no knowledge base.
func (s *Store) DeleteKnowledgeBase(id int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM knowledge WHERE knowledge_base_id = ?`, id); err != nil {
		return fmt.Errorf("delete knowledge: %w", err)
	}
	if _, err := tx.Exec(`
		UPDATE chats SET default_knowledge_base_id = NULL WHERE default_knowledge_base_id = ?
	`, id); err != nil {
		return fmt.Errorf("clear chat defaults: %w", err)
	}

	res, err := tx.Exec(`DELETE FROM knowledge_bases WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete knowledge base: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("knowledge base %d: %w", id, ErrNotFound)
	}

	return tx.Commit()
}

// CreateKnowledge appends one extracted fact to a knowledge base.
func (s *Store) CreateKnowledge(baseID int64, knowledge, source string) (*Knowledge, error) {
	now := time.Now().UTC()

	res, err := s.db.Exec(`
		INSERT INTO knowledge (knowledge_base_id, knowledge, source, created_at)
		VALUES (?, ?, ?, ?)
	`, baseID, knowledge, source, now)
	if err != nil {
		return nil, fmt.Errorf("insert knowledge: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("knowledge id: %w", err)
	}

	return &Knowledge{
		ID:              id,
		KnowledgeBaseID: baseID,
		Knowledge:       knowledge,
		Source:          source,
		CreatedAt:       now,
	}, nil
}

// Knowledge retrieves a base's facts in insertion order.
func (s *Store) Knowledge(baseID int64) ([]Knowledge, error) {
	rows, err := s.db.Query(`
		SELECT id, knowledge_base_id, knowledge, source, created_at
		FROM knowledge
		WHERE knowledge_base_id = ?
		ORDER BY id ASC
	`, baseID)
	if err != nil {
		return nil, fmt.Errorf("query knowledge: %w", err)
	}
	defer rows.Close()

	var facts []Knowledge
	for rows.Next() {
		var k Knowledge
		if err := rows.Scan(&k.ID, &k.KnowledgeBaseID, &k.Knowledge, &k.Source, &k.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan knowledge: %w", err)
		}
		facts = append(facts, k)
	}
	return facts, rows.Err()
}

// DeleteKnowledge removes one fact.
func (s *Store) DeleteKnowledge(id int64) error {
	res, err := s.db.Exec(`DELETE FROM knowledge WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete knowledge: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("knowledge %d: %w", id, ErrNotFound)
	}
	return nil
}
