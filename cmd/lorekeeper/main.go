// Lorekeeper is a web chat application with persona agents, knowledge
// bases, and compacting chat history.
//
// Conversations run against the Gemini API. Selected messages are
// distilled into knowledge bases that feed later replies, and long chat
// histories are folded into summaries so prompts stay bounded.
// Configuration is loaded from a single YAML file discovered
// automatically (see [config.DefaultSearchPaths]).
//
// Usage:
//
//	lorekeeper serve         Start the web server
//	lorekeeper init [dir]    Initialize a working directory with defaults
//	lorekeeper version       Print version information
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/lorekeeper/lorekeeper/internal/config"
	"github.com/lorekeeper/lorekeeper/internal/llm"
	"github.com/lorekeeper/lorekeeper/internal/pipeline"
	"github.com/lorekeeper/lorekeeper/internal/store"
	"github.com/lorekeeper/lorekeeper/internal/web"
)

// version is set at build time via -ldflags.
var version = "dev"

// main is intentionally minimal. It constructs the OS-level environment
// (context, stdio, argv) and delegates immediately to [run] so the full
// startup-to-shutdown lifecycle can be driven from tests.
func main() {
	ctx := context.Background()

	if err := run(ctx, os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}
}

// run is the real entry point for the lorekeeper command. Arguments are
// parsed by hand: the flag package relies on package-level globals,
// which makes it impossible to call run() concurrently from tests, and
// the argument surface is small.
func run(ctx context.Context, stdout io.Writer, stderr io.Writer, args []string) error {
	var configPath string
	var command string
	var cmdArgs []string

	for i := 0; i < len(args); i++ {
		switch {
		case args[i] == "-config" && i+1 < len(args):
			configPath = args[i+1]
			i++
		case strings.HasPrefix(args[i], "-config="):
			configPath = strings.TrimPrefix(args[i], "-config=")
		case args[i] == "-h" || args[i] == "-help" || args[i] == "--help":
			return printUsage(stdout)
		case !strings.HasPrefix(args[i], "-") && command == "":
			command = args[i]
		default:
			if command != "" {
				cmdArgs = append(cmdArgs, args[i])
			} else {
				return fmt.Errorf("unknown flag: %s", args[i])
			}
		}
	}

	switch command {
	case "serve", "":
		return runServe(ctx, stdout, stderr, configPath)
	case "init":
		dir := "."
		if len(cmdArgs) > 0 {
			dir = cmdArgs[0]
		}
		return runInit(stdout, dir)
	case "version":
		_, err := fmt.Fprintf(stdout, "lorekeeper %s\n", version)
		return err
	default:
		return fmt.Errorf("unknown command: %s", command)
	}
}

func printUsage(w io.Writer) error {
	_, err := fmt.Fprint(w, `Usage: lorekeeper [-config path] <command>

Commands:
  serve         Start the web server (default)
  init [dir]    Write a default config file into dir
  version       Print version information
`)
	return err
}

// defaultConfigYAML is what `lorekeeper init` writes.
const defaultConfigYAML = `# Lorekeeper configuration.
listen:
  address: ""
  port: 8080

gemini:
  api_key: ${GEMINI_API_KEY}
  model: gemini-2.0-flash
  timeout_sec: 60

pipeline:
  title_milestone: 6
  compaction_threshold: 50
  compaction_fold: 20

prompt_archive:
  enabled: false
  dir: prompts

data_dir: .
log_level: info
`

// runInit writes a default configuration file into dir. Refuses to
// overwrite an existing file.
func runInit(stdout io.Writer, dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	path := filepath.Join(dir, "lorekeeper.yaml")
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}

	if err := os.WriteFile(path, []byte(defaultConfigYAML), 0600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	fmt.Fprintf(stdout, "wrote %s\n", path)
	return nil
}

// runServe wires the store, pipeline, and web server together and
// serves until the context is cancelled.
func runServe(ctx context.Context, stdout io.Writer, stderr io.Writer, configPath string) error {
	cfg, cfgPath, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	level, err := config.ParseLogLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logger := newLogger(stdout, level)
	slog.SetDefault(logger)

	logger.Info("starting lorekeeper", "version", version, "config", cfgPath)

	if cfg.Gemini.APIKey == "" {
		fmt.Fprintln(stderr, "warning: gemini.api_key is empty; generation calls will fail")
	}

	st, err := store.New(filepath.Join(cfg.DataDir, "lorekeeper.db"))
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	client := llm.NewGeminiClient(cfg.Gemini.APIKey, cfg.Gemini.Model, cfg.Gemini.BaseURL, cfg.Gemini.Timeout())

	var archive *llm.Archive
	if cfg.PromptArchive.Enabled {
		dir := cfg.PromptArchive.Dir
		if dir == "" {
			dir = filepath.Join(cfg.DataDir, "prompts")
		}
		archive, err = llm.NewArchive(dir)
		if err != nil {
			return fmt.Errorf("open prompt archive: %w", err)
		}
		logger.Info("prompt archive enabled", "dir", dir)
	}

	pipe := pipeline.New(st, client, archive, pipeline.Config{
		TitleMilestone:      cfg.Pipeline.TitleMilestone,
		CompactionThreshold: cfg.Pipeline.CompactionThreshold,
		CompactionFold:      cfg.Pipeline.CompactionFold,
	}, logger)

	ws := web.NewWebServer(web.Config{
		Pipeline: pipe,
		Store:    st,
		Logger:   logger,
	})
	mux := http.NewServeMux()
	ws.RegisterRoutes(mux)

	addr := net.JoinHostPort(cfg.Listen.Address, strconv.Itoa(cfg.Listen.Port))
	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// SIGINT/SIGTERM cancellation flows through the same ctx used by
	// all components.
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	go func() {
		<-ctx.Done()
		logger.Info("shutdown signal received")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	logger.Info("listening", "addr", addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server failed: %w", err)
	}

	logger.Info("lorekeeper stopped")
	return nil
}

// newLogger creates a structured logger writing to w at the given
// level. All log output goes through slog.
func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: config.ReplaceLogLevelNames,
	}))
}

// loadConfig locates and parses the YAML configuration file. If
// explicit is non-empty, that exact path is used (and must exist).
func loadConfig(explicit string) (*config.Config, string, error) {
	cfgPath, err := config.FindConfig(explicit)
	if err != nil {
		return nil, "", err
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, cfgPath, fmt.Errorf("load config %s: %w", cfgPath, err)
	}

	return cfg, cfgPath, nil
}
