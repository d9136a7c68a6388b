package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/lorekeeper/lorekeeper/internal/store"
)

// transcriptEntry is one item of the merged chat history in the JSON
// API: a compressed summary or a live message, tagged by Kind.
type transcriptEntry struct {
	Kind         string    `json:"kind"` // "summary" or "message"
	FromUser     bool      `json:"from_user,omitempty"`
	Content      string    `json:"content"`
	CreatedAt    time.Time `json:"created_at,omitempty"`
	StartTime    time.Time `json:"start_time,omitempty"`
	EndTime      time.Time `json:"end_time,omitempty"`
	MessageCount int       `json:"message_count,omitempty"`
}

func (s *WebServer) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		s.writeError(w, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}

// handleListChats returns the user's chats, most recently active first.
func (s *WebServer) handleListChats(w http.ResponseWriter, r *http.Request) {
	chats, err := s.store.Chats(defaultUserID)
	if err != nil {
		s.logger.Error("chat list failed", "error", err)
		s.writeError(w, http.StatusInternalServerError, "list failed")
		return
	}
	if chats == nil {
		chats = []*store.Chat{}
	}
	s.writeJSON(w, http.StatusOK, chats)
}

// handleChatMessages returns the merged compressed+live history.
func (s *WebServer) handleChatMessages(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	chat, err := s.store.GetChat(id)
	if errors.Is(err, store.ErrNotFound) {
		s.writeError(w, http.StatusNotFound, "chat not found")
		return
	}
	if err != nil {
		s.logger.Error("chat load failed", "chat", id, "error", err)
		s.writeError(w, http.StatusInternalServerError, "load failed")
		return
	}

	compressed, err := s.store.CompressedChats(id)
	if err != nil {
		s.logger.Error("compressed history load failed", "chat", id, "error", err)
		s.writeError(w, http.StatusInternalServerError, "load failed")
		return
	}
	live, err := s.store.MessagesAfter(id, chat.CompactionWatermark)
	if err != nil {
		s.logger.Error("message load failed", "chat", id, "error", err)
		s.writeError(w, http.StatusInternalServerError, "load failed")
		return
	}

	entries := make([]transcriptEntry, 0, len(compressed)+len(live))
	for _, c := range compressed {
		entries = append(entries, transcriptEntry{
			Kind:         "summary",
			Content:      c.Summary,
			StartTime:    c.StartTime,
			EndTime:      c.EndTime,
			MessageCount: c.MessageCount,
		})
	}
	for _, m := range live {
		entries = append(entries, transcriptEntry{
			Kind:      "message",
			FromUser:  m.FromUser(),
			Content:   m.Content,
			CreatedAt: m.CreatedAt,
		})
	}
	s.writeJSON(w, http.StatusOK, entries)
}

// handleRenameChat sets a chat's title.
func (s *WebServer) handleRenameChat(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	var req struct {
		Description string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	req.Description = strings.TrimSpace(req.Description)
	if req.Description == "" {
		s.writeError(w, http.StatusBadRequest, "description is empty")
		return
	}

	err := s.store.UpdateChatDescription(id, req.Description)
	if errors.Is(err, store.ErrNotFound) {
		s.writeError(w, http.StatusNotFound, "chat not found")
		return
	}
	if err != nil {
		s.logger.Error("chat rename failed", "chat", id, "error", err)
		s.writeError(w, http.StatusInternalServerError, "rename failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleDeleteChat removes a chat and its history.
func (s *WebServer) handleDeleteChat(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	err := s.store.DeleteChat(id)
	if errors.Is(err, store.ErrNotFound) {
		s.writeError(w, http.StatusNotFound, "chat not found")
		return
	}
	if err != nil {
		s.logger.Error("chat delete failed", "chat", id, "error", err)
		s.writeError(w, http.StatusInternalServerError, "delete failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
