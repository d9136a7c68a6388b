package web

import (
	"errors"
	"html/template"
	"net/http"
	"strconv"

	"github.com/lorekeeper/lorekeeper/internal/agent"
	"github.com/lorekeeper/lorekeeper/internal/store"
)

// ChatPageData is the template context for the chat page.
type ChatPageData struct {
	PageData
	Chats          []*chatRow
	Active         *store.Chat
	Transcript     []*transcriptRow
	KnowledgeBases []*store.KnowledgeBase
	Agents         []agentOption
	SelectedAgent  string
	SelectedBase   int64
}

// chatRow is a display-friendly wrapper around a chat for the sidebar.
type chatRow struct {
	ID      int64
	Title   string
	Updated string
	Active  bool
}

// transcriptRow is one rendered entry of the merged history view:
// either a compressed summary or a live message.
type transcriptRow struct {
	Compressed   bool
	FromUser     bool
	HTML         template.HTML
	Stamp        string
	RangeStamp   string
	MessageCount int
}

// agentOption is one entry of the persona picker.
type agentOption struct {
	Value string
	Label string
}

// handleChatPage renders the chat page, optionally focused on one chat.
func (s *WebServer) handleChatPage(w http.ResponseWriter, r *http.Request) {
	data := ChatPageData{
		PageData:      PageData{BrandName: s.brandName, ActiveNav: "chat"},
		SelectedAgent: string(agent.Base),
	}
	for _, a := range agent.Conversational() {
		data.Agents = append(data.Agents, agentOption{Value: string(a), Label: a.DisplayName()})
	}

	chats, err := s.store.Chats(defaultUserID)
	if err != nil {
		s.logger.Error("chat list failed", "error", err)
		http.Error(w, "list failed", http.StatusInternalServerError)
		return
	}

	bases, err := s.store.KnowledgeBases(defaultUserID)
	if err != nil {
		s.logger.Error("knowledge base list failed", "error", err)
		http.Error(w, "list failed", http.StatusInternalServerError)
		return
	}
	data.KnowledgeBases = bases

	var activeID int64
	if raw := r.PathValue("id"); raw != "" {
		activeID, err = strconv.ParseInt(raw, 10, 64)
		if err != nil {
			http.NotFound(w, r)
			return
		}
	}

	for _, c := range chats {
		data.Chats = append(data.Chats, &chatRow{
			ID:      c.ID,
			Title:   c.Description,
			Updated: timeAgo(c.UpdatedAt),
			Active:  c.ID == activeID,
		})
	}

	if activeID != 0 {
		chat, err := s.store.GetChat(activeID)
		if errors.Is(err, store.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		if err != nil {
			s.logger.Error("chat load failed", "chat", activeID, "error", err)
			http.Error(w, "load failed", http.StatusInternalServerError)
			return
		}
		data.Active = chat
		if chat.DefaultAgent != "" {
			if a, err := agent.Parse(chat.DefaultAgent); err == nil {
				data.SelectedAgent = string(a)
			}
		}
		data.SelectedBase = chat.DefaultKnowledgeBaseID

		data.Transcript, err = s.transcript(chat)
		if err != nil {
			s.logger.Error("transcript load failed", "chat", activeID, "error", err)
			http.Error(w, "load failed", http.StatusInternalServerError)
			return
		}
	}

	if r.Header.Get("HX-Request") == "true" && r.Header.Get("HX-Target") == "transcript" {
		if s.renderBlock(w, "chat.html", "transcript", data) {
			return
		}
	}

	s.render(w, r, "chat.html", data)
}

// transcript builds the merged history view: compressed summaries
// followed by the live tail.
func (s *WebServer) transcript(chat *store.Chat) ([]*transcriptRow, error) {
	compressed, err := s.store.CompressedChats(chat.ID)
	if err != nil {
		return nil, err
	}
	live, err := s.store.MessagesAfter(chat.ID, chat.CompactionWatermark)
	if err != nil {
		return nil, err
	}

	rows := make([]*transcriptRow, 0, len(compressed)+len(live))
	for _, c := range compressed {
		rows = append(rows, &transcriptRow{
			Compressed:   true,
			HTML:         renderMarkdown(c.Summary),
			RangeStamp:   c.StartTime.UTC().Format("2006-01-02 15:04") + " - " + c.EndTime.UTC().Format("2006-01-02 15:04"),
			MessageCount: c.MessageCount,
		})
	}
	for _, m := range live {
		rows = append(rows, &transcriptRow{
			FromUser: m.FromUser(),
			HTML:     renderMarkdown(m.Content),
			Stamp:    m.CreatedAt.UTC().Format("2006-01-02 15:04"),
		})
	}
	return rows, nil
}
