// Package pipeline orchestrates one chat turn: persistence, knowledge
// extraction, reply generation, title summarization, and history
// compaction.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/lorekeeper/lorekeeper/internal/agent"
	"github.com/lorekeeper/lorekeeper/internal/llm"
	"github.com/lorekeeper/lorekeeper/internal/prompts"
	"github.com/lorekeeper/lorekeeper/internal/store"
)

// Store is the persistence surface the pipeline needs. *store.Store
// satisfies it; tests substitute fakes.
type Store interface {
	CreateChat(userID int64, description string) (*store.Chat, error)
	GetChat(id int64) (*store.Chat, error)
	UpdateChatDescription(id int64, description string) error
	UpdateChatDefaults(id int64, knowledgeBaseID int64, agent string) error
	UpdateChatWatermark(id int64, lastFolded int64) error
	CreateMessage(chatID int64, userID *int64, content string) (*store.Message, error)
	MessagesAfter(chatID, afterID int64) ([]store.Message, error)
	CountMessages(chatID int64) (int, error)
	CreateCompressedChat(chatID int64, start, end time.Time, summary string, messageCount int) (*store.CompressedChat, error)
	CompressedChats(chatID int64) ([]store.CompressedChat, error)
	GetKnowledgeBase(id int64) (*store.KnowledgeBase, error)
	Knowledge(baseID int64) ([]store.Knowledge, error)
	CreateKnowledge(baseID int64, knowledge, source string) (*store.Knowledge, error)
}

// Config controls the pipeline's milestones.
type Config struct {
	// TitleMilestone is the total persisted message count at which the
	// chat title is generated, compared with >= so a partial turn cannot
	// step over it. The store's titled flag keeps a successful title
	// from ever being regenerated.
	TitleMilestone int
	// CompactionThreshold is the live (unfolded) message count above
	// which compaction runs.
	CompactionThreshold int
	// CompactionFold is how many of the oldest live messages one
	// compaction folds into a summary.
	CompactionFold int
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		TitleMilestone:      6,
		CompactionThreshold: 50,
		CompactionFold:      20,
	}
}

// Step identifies one stage of a turn. Steps always run (or are
// skipped) in the order listed.
type Step string

const (
	StepEnsureChat     Step = "ensure_chat"
	StepPersistMessage Step = "persist_user_message"
	StepUpdateDefaults Step = "update_defaults"
	StepExtract        Step = "extract_knowledge"
	StepLoadContext    Step = "load_context"
	StepGenerate       Step = "generate_reply"
	StepPersistReply   Step = "persist_reply"
	StepTitle          Step = "title_chat"
	StepCompact        Step = "compact_history"
)

// StepStatus is the outcome of one step.
type StepStatus string

const (
	StepOK      StepStatus = "ok"
	StepSkipped StepStatus = "skipped"
	StepFailed  StepStatus = "failed"
)

// StepOutcome records how one step of a turn went. The turn's outcome
// list is append-only: each step reports exactly once, in order.
type StepOutcome struct {
	Step   Step       `json:"step"`
	Status StepStatus `json:"status"`
	Error  string     `json:"error,omitempty"`
}

// TurnRequest is one incoming user message.
type TurnRequest struct {
	// ChatID is the target chat; 0 means create a new chat.
	ChatID int64
	// UserID is the author of the message.
	UserID int64
	// KnowledgeBaseID selects the knowledge base for this turn; 0 means
	// none.
	KnowledgeBaseID int64
	// Agent is the persona replying.
	Agent agent.Agent
	// Text is the user's message.
	Text string
	// ExtractKnowledge asks for knowledge extraction from the message.
	// It has no effect without a knowledge base.
	ExtractKnowledge bool
}

// TurnResult is the outcome of a completed turn.
type TurnResult struct {
	// ChatID identifies the chat the turn landed in. For a new chat
	// this is the freshly assigned id.
	ChatID int64 `json:"chat_id"`
	// Reply is the assistant's message.
	Reply string `json:"reply"`
	// TokenCount is the backend-reported size of the reply.
	TokenCount int `json:"token_count"`
	// Learned lists knowledge items extracted and persisted this turn.
	Learned []store.Knowledge `json:"learned,omitempty"`
	// Steps records each stage's outcome, in execution order.
	Steps []StepOutcome `json:"steps"`
}

// provisionalTitleLimit caps the length of a new chat's provisional
// title taken from the first message.
const provisionalTitleLimit = 80

// Pipeline runs chat turns. Turns on the same chat are serialized;
// turns on different chats run concurrently.
type Pipeline struct {
	store     Store
	llm       llm.Client
	extractor *Extractor
	titler    *Titler
	compactor *Compactor
	archive   *llm.Archive // optional
	config    Config
	logger    *slog.Logger

	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

// New creates a pipeline. archive may be nil to disable prompt
// archiving.
func New(st Store, client llm.Client, archive *llm.Archive, cfg Config, logger *slog.Logger) *Pipeline {
	if cfg.TitleMilestone <= 0 {
		cfg.TitleMilestone = DefaultConfig().TitleMilestone
	}
	if cfg.CompactionThreshold <= 0 {
		cfg.CompactionThreshold = DefaultConfig().CompactionThreshold
	}
	if cfg.CompactionFold <= 0 {
		cfg.CompactionFold = DefaultConfig().CompactionFold
	}
	return &Pipeline{
		store:     st,
		llm:       client,
		extractor: NewExtractor(st, client, logger),
		titler:    NewTitler(client, logger),
		compactor: NewCompactor(st, client, cfg.CompactionThreshold, cfg.CompactionFold, logger),
		archive:   archive,
		config:    cfg,
		logger:    logger,
	}
}

// chatLock returns the mutex serializing turns for one chat.
func (p *Pipeline) chatLock(chatID int64) *sync.Mutex {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.locks == nil {
		p.locks = make(map[int64]*sync.Mutex)
	}
	l, ok := p.locks[chatID]
	if !ok {
		l = &sync.Mutex{}
		p.locks[chatID] = l
	}
	return l
}

// HandleUserMessage runs one full turn. Validation failures return
// before any side effect. Reply generation and persistence failures are
// fatal; extraction, titling, and compaction failures are logged and
// recorded in the step outcomes but never fail the turn.
func (p *Pipeline) HandleUserMessage(ctx context.Context, req TurnRequest) (*TurnResult, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, fmt.Errorf("empty message")
	}
	if req.KnowledgeBaseID != 0 {
		if _, err := p.store.GetKnowledgeBase(req.KnowledgeBaseID); err != nil {
			return nil, fmt.Errorf("knowledge base %d: %w", req.KnowledgeBaseID, err)
		}
	}

	res := &TurnResult{}

	// Ensure the chat exists. A new chat gets the message text as its
	// provisional title until the summarizer replaces it.
	var chat *store.Chat
	var err error
	lockID := req.ChatID
	if req.ChatID == 0 {
		chat, err = p.store.CreateChat(req.UserID, provisionalTitle(text))
		if err != nil {
			return nil, fmt.Errorf("create chat: %w", err)
		}
		lockID = chat.ID
	}

	lock := p.chatLock(lockID)
	lock.Lock()
	defer lock.Unlock()

	// An existing chat is read under the lock so the watermark, defaults
	// and title state reflect any turn that finished while we waited.
	if chat == nil {
		chat, err = p.store.GetChat(req.ChatID)
		if err != nil {
			return nil, fmt.Errorf("get chat: %w", err)
		}
	}
	res.ChatID = chat.ID
	res.record(StepEnsureChat, StepOK, nil)

	userMsg, err := p.store.CreateMessage(chat.ID, &req.UserID, text)
	if err != nil {
		res.record(StepPersistMessage, StepFailed, err)
		return res, fmt.Errorf("persist user message: %w", err)
	}
	res.record(StepPersistMessage, StepOK, nil)

	// Remember this turn's knowledge base and agent as the chat's
	// defaults. Best effort.
	if err := p.store.UpdateChatDefaults(chat.ID, req.KnowledgeBaseID, string(req.Agent)); err != nil {
		p.logger.Warn("update chat defaults failed", "chat", chat.ID, "error", err)
		res.record(StepUpdateDefaults, StepFailed, err)
	} else {
		res.record(StepUpdateDefaults, StepOK, nil)
	}

	// Knowledge extraction, before context loading so the new facts are
	// visible to this turn's reply. Best effort.
	if req.ExtractKnowledge && req.KnowledgeBaseID != 0 {
		learned, err := p.extractor.Extract(ctx, req.KnowledgeBaseID, text)
		if err != nil {
			p.logger.Warn("knowledge extraction failed", "chat", chat.ID, "error", err)
			res.record(StepExtract, StepFailed, err)
		} else {
			res.Learned = learned
			res.record(StepExtract, StepOK, nil)
		}
	} else {
		res.record(StepExtract, StepSkipped, nil)
	}

	// Load generation context: knowledge and history fetched
	// concurrently. Either failing means the reply cannot be built.
	var facts []store.Knowledge
	var transcript []prompts.Entry
	var g errgroup.Group
	g.Go(func() error {
		if req.KnowledgeBaseID == 0 {
			return nil
		}
		var err error
		facts, err = p.store.Knowledge(req.KnowledgeBaseID)
		if err != nil {
			return fmt.Errorf("load knowledge: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		transcript, err = p.history(chat, userMsg.ID)
		if err != nil {
			return fmt.Errorf("load history: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		res.record(StepLoadContext, StepFailed, err)
		return res, err
	}
	res.record(StepLoadContext, StepOK, nil)

	prompt := prompts.ReplyPrompt(req.Agent.Instructions(), transcript, promptFacts(facts), text)
	reply, err := p.llm.Generate(ctx, prompt)
	if err != nil {
		res.record(StepGenerate, StepFailed, err)
		return res, fmt.Errorf("generate reply: %w", err)
	}
	res.Reply = reply.Text
	res.TokenCount = reply.TokenCount
	res.record(StepGenerate, StepOK, nil)
	p.archiveSave("reply", prompt, reply.Text)

	if _, err := p.store.CreateMessage(chat.ID, nil, reply.Text); err != nil {
		res.record(StepPersistReply, StepFailed, err)
		return res, fmt.Errorf("persist reply: %w", err)
	}
	res.record(StepPersistReply, StepOK, nil)

	p.maybeTitle(ctx, res, chat)
	p.maybeCompact(ctx, res, chat)

	return res, nil
}

// maybeTitle replaces the provisional title once the chat's total
// persisted message count has reached the milestone. Gating on the
// titled flag rather than an exact count keeps the trigger alive when a
// partial turn (user message persisted, reply failed) skips the count
// past the milestone, while a successful title still fires only once.
// Best effort.
func (p *Pipeline) maybeTitle(ctx context.Context, res *TurnResult, chat *store.Chat) {
	if chat.Titled {
		res.record(StepTitle, StepSkipped, nil)
		return
	}
	total, err := p.store.CountMessages(chat.ID)
	if err != nil {
		p.logger.Warn("count messages failed", "chat", chat.ID, "error", err)
		res.record(StepTitle, StepFailed, err)
		return
	}
	if total < p.config.TitleMilestone {
		res.record(StepTitle, StepSkipped, nil)
		return
	}

	transcript, err := p.history(chat, 0)
	if err != nil {
		p.logger.Warn("title transcript load failed", "chat", chat.ID, "error", err)
		res.record(StepTitle, StepFailed, err)
		return
	}
	title, err := p.titler.Title(ctx, transcript)
	if err != nil {
		p.logger.Warn("title generation failed", "chat", chat.ID, "error", err)
		res.record(StepTitle, StepFailed, err)
		return
	}
	if err := p.store.UpdateChatDescription(chat.ID, title); err != nil {
		p.logger.Warn("title update failed", "chat", chat.ID, "error", err)
		res.record(StepTitle, StepFailed, err)
		return
	}
	p.logger.Info("chat titled", "chat", chat.ID, "title", title)
	res.record(StepTitle, StepOK, nil)
}

// maybeCompact folds the oldest live messages into a summary once the
// live tail crosses the threshold. One fold per turn. Best effort.
func (p *Pipeline) maybeCompact(ctx context.Context, res *TurnResult, chat *store.Chat) {
	folded, err := p.compactor.Compact(ctx, chat.ID)
	if err != nil {
		p.logger.Warn("compaction failed", "chat", chat.ID, "error", err)
		res.record(StepCompact, StepFailed, err)
		return
	}
	if !folded {
		res.record(StepCompact, StepSkipped, nil)
		return
	}
	res.record(StepCompact, StepOK, nil)
}

// history assembles the chat's transcript: compressed summaries first,
// then live messages. excludeID drops one message (the just-persisted
// user message, which the reply prompt carries separately); 0 excludes
// nothing.
func (p *Pipeline) history(chat *store.Chat, excludeID int64) ([]prompts.Entry, error) {
	compressed, err := p.store.CompressedChats(chat.ID)
	if err != nil {
		return nil, err
	}
	live, err := p.store.MessagesAfter(chat.ID, chat.CompactionWatermark)
	if err != nil {
		return nil, err
	}

	entries := make([]prompts.Entry, 0, len(compressed)+len(live))
	for _, c := range compressed {
		entries = append(entries, prompts.CompressedEntry(c.Summary, c.StartTime, c.EndTime, c.MessageCount))
	}
	for _, m := range live {
		if m.ID == excludeID {
			continue
		}
		entries = append(entries, prompts.LiveEntry(m.FromUser(), m.Content, m.CreatedAt))
	}
	return entries, nil
}

func (p *Pipeline) archiveSave(label, prompt, response string) {
	if p.archive == nil {
		return
	}
	if _, err := p.archive.Save(label, prompt, response); err != nil {
		p.logger.Warn("prompt archive save failed", "label", label, "error", err)
	}
}

func (r *TurnResult) record(step Step, status StepStatus, err error) {
	o := StepOutcome{Step: step, Status: status}
	if err != nil {
		o.Error = err.Error()
	}
	r.Steps = append(r.Steps, o)
}

func promptFacts(facts []store.Knowledge) []prompts.Fact {
	out := make([]prompts.Fact, len(facts))
	for i, f := range facts {
		out[i] = prompts.Fact{Knowledge: f.Knowledge, Source: f.Source, CreatedAt: f.CreatedAt}
	}
	return out
}

func provisionalTitle(text string) string {
	runes := []rune(text)
	if len(runes) <= provisionalTitleLimit {
		return text
	}
	return string(runes[:provisionalTitleLimit])
}
