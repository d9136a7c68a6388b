package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/lorekeeper/lorekeeper/internal/store"
)

// KnowledgePageData is the template context for the knowledge page.
type KnowledgePageData struct {
	PageData
	Bases        []*store.KnowledgeBase
	SelectedBase *store.KnowledgeBase
	Facts        []*knowledgeRow
}

// knowledgeRow is a display-friendly wrapper around one fact.
type knowledgeRow struct {
	ID        int64
	Knowledge string
	Source    string
	CreatedAt string
}

// handleKnowledgePage renders the knowledge bases page. ?base=ID
// selects which base's facts are shown.
func (s *WebServer) handleKnowledgePage(w http.ResponseWriter, r *http.Request) {
	data := KnowledgePageData{
		PageData: PageData{BrandName: s.brandName, ActiveNav: "knowledge"},
	}

	bases, err := s.store.KnowledgeBases(defaultUserID)
	if err != nil {
		s.logger.Error("knowledge base list failed", "error", err)
		http.Error(w, "list failed", http.StatusInternalServerError)
		return
	}
	data.Bases = bases

	if raw := r.URL.Query().Get("base"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			http.NotFound(w, r)
			return
		}
		base, err := s.store.GetKnowledgeBase(id)
		if errors.Is(err, store.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		if err != nil {
			s.logger.Error("knowledge base load failed", "base", id, "error", err)
			http.Error(w, "load failed", http.StatusInternalServerError)
			return
		}
		data.SelectedBase = base

		facts, err := s.store.Knowledge(id)
		if err != nil {
			s.logger.Error("knowledge load failed", "base", id, "error", err)
			http.Error(w, "load failed", http.StatusInternalServerError)
			return
		}
		for _, f := range facts {
			data.Facts = append(data.Facts, &knowledgeRow{
				ID:        f.ID,
				Knowledge: f.Knowledge,
				Source:    f.Source,
				CreatedAt: timeAgo(f.CreatedAt),
			})
		}
	}

	if r.Header.Get("HX-Request") == "true" && r.Header.Get("HX-Target") == "knowledge-tbody" {
		if s.renderBlock(w, "knowledge.html", "knowledge-tbody", data) {
			return
		}
	}

	s.render(w, r, "knowledge.html", data)
}

// handleListKnowledgeBases returns the user's knowledge bases.
func (s *WebServer) handleListKnowledgeBases(w http.ResponseWriter, r *http.Request) {
	bases, err := s.store.KnowledgeBases(defaultUserID)
	if err != nil {
		s.logger.Error("knowledge base list failed", "error", err)
		s.writeError(w, http.StatusInternalServerError, "list failed")
		return
	}
	if bases == nil {
		bases = []*store.KnowledgeBase{}
	}
	s.writeJSON(w, http.StatusOK, bases)
}

// handleCreateKnowledgeBase creates a named knowledge base.
func (s *WebServer) handleCreateKnowledgeBase(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		s.writeError(w, http.StatusBadRequest, "name is empty")
		return
	}

	base, err := s.store.CreateKnowledgeBase(defaultUserID, req.Name)
	if err != nil {
		s.logger.Error("knowledge base create failed", "name", req.Name, "error", err)
		s.writeError(w, http.StatusInternalServerError, "create failed")
		return
	}
	s.writeJSON(w, http.StatusCreated, base)
}

// handleDeleteKnowledgeBase removes a base and its facts.
func (s *WebServer) handleDeleteKnowledgeBase(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	err := s.store.DeleteKnowledgeBase(id)
	if errors.Is(err, store.ErrNotFound) {
		s.writeError(w, http.StatusNotFound, "knowledge base not found")
		return
	}
	if err != nil {
		s.logger.Error("knowledge base delete failed", "base", id, "error", err)
		s.writeError(w, http.StatusInternalServerError, "delete failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleListKnowledge returns one base's facts.
func (s *WebServer) handleListKnowledge(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	if _, err := s.store.GetKnowledgeBase(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.writeError(w, http.StatusNotFound, "knowledge base not found")
			return
		}
		s.logger.Error("knowledge base load failed", "base", id, "error", err)
		s.writeError(w, http.StatusInternalServerError, "load failed")
		return
	}

	facts, err := s.store.Knowledge(id)
	if err != nil {
		s.logger.Error("knowledge load failed", "base", id, "error", err)
		s.writeError(w, http.StatusInternalServerError, "load failed")
		return
	}
	if facts == nil {
		facts = []store.Knowledge{}
	}
	s.writeJSON(w, http.StatusOK, facts)
}

// handleDeleteKnowledge removes one fact.
func (s *WebServer) handleDeleteKnowledge(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	err := s.store.DeleteKnowledge(id)
	if errors.Is(err, store.ErrNotFound) {
		s.writeError(w, http.StatusNotFound, "knowledge not found")
		return
	}
	if err != nil {
		s.logger.Error("knowledge delete failed", "id", id, "error", err)
		s.writeError(w, http.StatusInternalServerError, "delete failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
