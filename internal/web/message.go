package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/lorekeeper/lorekeeper/internal/agent"
	"github.com/lorekeeper/lorekeeper/internal/pipeline"
	"github.com/lorekeeper/lorekeeper/internal/store"
)

// messageRequest is the POST /api/message body.
type messageRequest struct {
	ChatID           int64  `json:"chat_id"`
	KnowledgeBaseID  int64  `json:"knowledge_base_id"`
	Agent            string `json:"agent"`
	Message          string `json:"message"`
	ExtractKnowledge bool   `json:"extract_knowledge"`
}

// messageResponse is the POST /api/message reply.
type messageResponse struct {
	ChatID     int64                  `json:"chat_id"`
	Reply      string                 `json:"reply"`
	ReplyHTML  string                 `json:"reply_html"`
	TokenCount int                    `json:"token_count"`
	Learned    []store.Knowledge      `json:"learned,omitempty"`
	Steps      []pipeline.StepOutcome `json:"steps"`
}

// handleMessage runs one chat turn.
func (s *WebServer) handleMessage(w http.ResponseWriter, r *http.Request) {
	var req messageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if strings.TrimSpace(req.Message) == "" {
		s.writeError(w, http.StatusBadRequest, "message is empty")
		return
	}

	persona, err := agent.Parse(req.Agent)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := s.pipeline.HandleUserMessage(r.Context(), pipeline.TurnRequest{
		ChatID:           req.ChatID,
		UserID:           defaultUserID,
		KnowledgeBaseID:  req.KnowledgeBaseID,
		Agent:            persona,
		Text:             req.Message,
		ExtractKnowledge: req.ExtractKnowledge,
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.writeError(w, http.StatusNotFound, err.Error())
			return
		}
		s.logger.Error("turn failed", "chat", req.ChatID, "error", err)
		s.writeError(w, http.StatusBadGateway, "reply generation failed")
		return
	}

	s.writeJSON(w, http.StatusOK, messageResponse{
		ChatID:     res.ChatID,
		Reply:      res.Reply,
		ReplyHTML:  string(renderMarkdown(res.Reply)),
		TokenCount: res.TokenCount,
		Learned:    res.Learned,
		Steps:      res.Steps,
	})
}
