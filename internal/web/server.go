// Package web provides the chat web interface and JSON API.
package web

import (
	"context"
	"embed"
	"encoding/json"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/lorekeeper/lorekeeper/internal/pipeline"
	"github.com/lorekeeper/lorekeeper/internal/store"
)

//go:embed static/*
var staticFiles embed.FS

// defaultUserID identifies the single local user. Accounts are out of
// scope; the column exists so multi-user storage needs no migration.
const defaultUserID int64 = 1

// TurnRunner runs one chat turn. Implemented by *pipeline.Pipeline.
type TurnRunner interface {
	HandleUserMessage(ctx context.Context, req pipeline.TurnRequest) (*pipeline.TurnResult, error)
}

// Store is the persistence surface the web layer needs.
type Store interface {
	Chats(userID int64) ([]*store.Chat, error)
	GetChat(id int64) (*store.Chat, error)
	UpdateChatDescription(id int64, description string) error
	DeleteChat(id int64) error
	MessagesAfter(chatID, afterID int64) ([]store.Message, error)
	CompressedChats(chatID int64) ([]store.CompressedChat, error)
	CreateKnowledgeBase(userID int64, name string) (*store.KnowledgeBase, error)
	GetKnowledgeBase(id int64) (*store.KnowledgeBase, error)
	KnowledgeBases(userID int64) ([]*store.KnowledgeBase, error)
	DeleteKnowledgeBase(id int64) error
	Knowledge(baseID int64) ([]store.Knowledge, error)
	DeleteKnowledge(id int64) error
}

// Config bundles the dependencies for a WebServer.
type Config struct {
	Pipeline  TurnRunner
	Store     Store
	BrandName string
	Logger    *slog.Logger
}

// WebServer serves the chat UI and API.
type WebServer struct {
	pipeline  TurnRunner
	store     Store
	brandName string
	logger    *slog.Logger
	templates map[string]*template.Template
}

// NewWebServer creates a web server from the given dependencies.
func NewWebServer(cfg Config) *WebServer {
	if cfg.BrandName == "" {
		cfg.BrandName = "Lorekeeper"
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &WebServer{
		pipeline:  cfg.Pipeline,
		store:     cfg.Store,
		brandName: cfg.BrandName,
		logger:    cfg.Logger,
		templates: loadTemplates(),
	}
}

// RegisterRoutes adds all UI and API routes to the mux.
func (s *WebServer) RegisterRoutes(mux *http.ServeMux) {
	subFS, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(err)
	}
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(subFS))))

	mux.HandleFunc("GET /{$}", s.handleChatPage)
	mux.HandleFunc("GET /chats/{id}", s.handleChatPage)
	mux.HandleFunc("GET /knowledge", s.handleKnowledgePage)

	mux.HandleFunc("POST /api/message", s.handleMessage)
	mux.HandleFunc("GET /api/chats", s.handleListChats)
	mux.HandleFunc("GET /api/chats/{id}/messages", s.handleChatMessages)
	mux.HandleFunc("PATCH /api/chats/{id}", s.handleRenameChat)
	mux.HandleFunc("DELETE /api/chats/{id}", s.handleDeleteChat)
	mux.HandleFunc("GET /api/knowledge-bases", s.handleListKnowledgeBases)
	mux.HandleFunc("POST /api/knowledge-bases", s.handleCreateKnowledgeBase)
	mux.HandleFunc("DELETE /api/knowledge-bases/{id}", s.handleDeleteKnowledgeBase)
	mux.HandleFunc("GET /api/knowledge-bases/{id}/knowledge", s.handleListKnowledge)
	mux.HandleFunc("DELETE /api/knowledge/{id}", s.handleDeleteKnowledge)
}

// PageData is the template context shared by all pages.
type PageData struct {
	BrandName string
	ActiveNav string
}

func (s *WebServer) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("write JSON response failed", "error", err)
	}
}

func (s *WebServer) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}

// timeAgo renders a timestamp as a coarse relative age.
func timeAgo(t time.Time) string {
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return pluralize(int(d.Minutes()), "minute")
	case d < 24*time.Hour:
		return pluralize(int(d.Hours()), "hour")
	default:
		return pluralize(int(d.Hours())/24, "day")
	}
}

func pluralize(n int, unit string) string {
	if n == 1 {
		return "1 " + unit + " ago"
	}
	return strconv.Itoa(n) + " " + unit + "s ago"
}
