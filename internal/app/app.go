// Package app wires the application together: configuration, logging,
// storage, the model runtime, and the conversation orchestrator.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/firebase/genkit/go/genkit"
	"github.com/firebase/genkit/go/plugins/googlegenai"
	"golang.org/x/term"

	"github.com/hwells/adjutant/internal/chat"
	"github.com/hwells/adjutant/internal/config"
	"github.com/hwells/adjutant/internal/database"
	"github.com/hwells/adjutant/internal/log"
	"github.com/hwells/adjutant/internal/session"
	"github.com/hwells/adjutant/internal/store"
	"github.com/hwells/adjutant/internal/tools"
)

// App bundles every initialized component. Call Close to release the
// database handle.
type App struct {
	Config   *config.Config
	Logger   *slog.Logger
	DB       *sql.DB
	Store    *store.Store
	Session  *session.Session
	Registry *tools.Registry
	Agent    *chat.Agent
	Genkit   *genkit.Genkit
}

// Setup creates and initializes the application. On error, everything
// already initialized is cleaned up before returning.
func Setup(ctx context.Context, cfg *config.Config) (_ *App, retErr error) {
	a := &App{Config: cfg}

	defer func() {
		if retErr != nil {
			if err := a.Close(); err != nil {
				slog.Warn("cleanup during setup failure", "error", err)
			}
		}
	}()

	a.Logger = log.New(log.Config{
		Level: log.ParseLevel(cfg.LogLevel),
		JSON:  cfg.LogJSON,
	})

	db, err := provideDatabase(cfg)
	if err != nil {
		return nil, err
	}
	a.DB = db

	a.Store = store.New(db, a.Logger)

	sess, err := session.Load(ctx, a.Store, a.Logger)
	if err != nil {
		return nil, err
	}
	a.Session = sess

	a.Registry = tools.New(a.Store, a.Logger)

	g, completer, err := provideModel(ctx, cfg, a.Registry)
	if err != nil {
		return nil, err
	}
	a.Genkit = g

	agent, err := chat.New(chat.Config{
		Completer:          completer,
		Registry:           a.Registry,
		Store:              a.Store,
		Logger:             a.Logger,
		MaxHistoryMessages: cfg.MaxHistoryMessages,
	})
	if err != nil {
		return nil, err
	}
	a.Agent = agent

	return a, nil
}

// SetupOffline initializes only the storage-side components (no model
// runtime, no API key needed). Used by commands that never talk to the
// model: todo, export, reset.
func SetupOffline(ctx context.Context, cfg *config.Config) (_ *App, retErr error) {
	a := &App{Config: cfg}

	defer func() {
		if retErr != nil {
			_ = a.Close()
		}
	}()

	a.Logger = log.New(log.Config{
		Level: log.ParseLevel(cfg.LogLevel),
		JSON:  cfg.LogJSON,
	})

	db, err := provideDatabase(cfg)
	if err != nil {
		return nil, err
	}
	a.DB = db

	a.Store = store.New(db, a.Logger)

	sess, err := session.Load(ctx, a.Store, a.Logger)
	if err != nil {
		return nil, err
	}
	a.Session = sess
	a.Registry = tools.New(a.Store, a.Logger)

	return a, nil
}

// Close releases held resources. Safe to call multiple times.
func (a *App) Close() error {
	if a.DB == nil {
		return nil
	}
	err := a.DB.Close()
	a.DB = nil
	return err
}

func provideDatabase(cfg *config.Config) (*sql.DB, error) {
	db, err := database.Open(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := database.Migrate(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrating database: %w", err)
	}
	return db, nil
}

func provideModel(ctx context.Context, cfg *config.Config, registry *tools.Registry) (*genkit.Genkit, chat.Completer, error) {
	apiKey, err := ResolveAPIKey(cfg)
	if err != nil {
		return nil, nil, err
	}

	g := genkit.Init(ctx,
		genkit.WithPlugins(&googlegenai.GoogleAI{APIKey: apiKey}),
		genkit.WithDefaultModel(cfg.ModelName),
	)
	if g == nil {
		return nil, nil, errors.New("initializing genkit with googleai provider")
	}

	registered := registry.Define(g)
	return g, chat.NewGenkitCompleter(g, cfg.ModelName, registered), nil
}

// ResolveAPIKey returns the Gemini API key from configuration (the
// config file wins over ADJUTANT_GEMINI_API_KEY and GEMINI_API_KEY;
// config.Load enforces that order), falling back to an interactive
// terminal prompt. Without a terminal, a missing key is a hard error.
func ResolveAPIKey(cfg *config.Config) (string, error) {
	if key := strings.TrimSpace(cfg.GeminiAPIKey); key != "" {
		return key, nil
	}

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", fmt.Errorf("%w: set GEMINI_API_KEY or add gemini_api_key to ~/.adjutant/config.yaml", config.ErrMissingAPIKey)
	}

	fmt.Fprint(os.Stderr, "Gemini API key: ")
	raw, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading API key: %w", err)
	}

	key := strings.TrimSpace(string(raw))
	if key == "" {
		return "", config.ErrMissingAPIKey
	}
	return key, nil
}
