package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/afero"

	"github.com/PabloGalante/helper-kust/internal/adapters/llm"
	"github.com/PabloGalante/helper-kust/internal/adapters/secret"
	"github.com/PabloGalante/helper-kust/internal/adapters/storage/file"
	firestorestore "github.com/PabloGalante/helper-kust/internal/adapters/storage/firestore"
	memstore "github.com/PabloGalante/helper-kust/internal/adapters/storage/memory"
	"github.com/PabloGalante/helper-kust/internal/adapters/storage/sqlite"
	"github.com/PabloGalante/helper-kust/internal/app/conversation"
	"github.com/PabloGalante/helper-kust/internal/app/tasks"
	"github.com/PabloGalante/helper-kust/internal/app/workspace"
	"github.com/PabloGalante/helper-kust/internal/config"
	"github.com/PabloGalante/helper-kust/internal/domain"
	"github.com/PabloGalante/helper-kust/internal/observability"
)

// app is the wired object graph shared by every command.
type app struct {
	cfg       *config.Config
	fs        afero.Fs
	metrics   *observability.Metrics
	executor  *conversation.Service
	workspace *workspace.Workspace
	closers   []io.Closer
}

func (a *app) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}

// newGateway picks the generation backend. Missing credentials do not fail
// here; they surface as a message on the first turn.
func newGateway(ctx context.Context, cfg *config.Config) domain.Gateway {
	log := observability.LoggerFromContext(ctx)

	switch cfg.LLMBackend {
	case config.LLMBackendMock:
		log.Info("using mock gateway")
		return llm.NewMockLLM()
	case config.LLMBackendVertex:
		log.Info("using vertex gateway", "project", cfg.GCPProjectID, "location", cfg.GCPLocation)
		return llm.NewGeminiClient(ctx, llm.GeminiConfig{
			Backend:  llm.BackendVertex,
			Project:  cfg.GCPProjectID,
			Location: cfg.GCPLocation,
		})
	default:
		key, err := secret.ResolveAPIKey(cfg.APIKey, secret.NewKeyringProvider())
		if err != nil {
			log.Warn("no API key found", "error", err)
		}
		log.Info("using gemini gateway", "model", cfg.ModelName)
		return llm.NewGeminiClient(ctx, llm.GeminiConfig{
			Backend: llm.BackendGemini,
			APIKey:  key,
		})
	}
}

// newStores opens the configured task and preference stores. A store that
// cannot be opened degrades to memory so the app still starts.
func newStores(ctx context.Context, cfg *config.Config, fs afero.Fs) (domain.TaskStore, domain.PreferenceStore, []io.Closer) {
	log := observability.LoggerFromContext(ctx)
	prefs := file.NewPreferenceStore(fs, cfg.DataDir)
	fallback := func(err error) (domain.TaskStore, domain.PreferenceStore, []io.Closer) {
		log.Warn("task storage unavailable, using memory",
			"backend", cfg.StorageBackend,
			"error", fmt.Errorf("%w: %w", domain.ErrPersistenceUnavailable, err))
		return memstore.NewTaskStore(), prefs, nil
	}

	switch cfg.StorageBackend {
	case config.StorageMemory:
		log.Info("using in-memory storage")
		return memstore.NewTaskStore(), memstore.NewPreferenceStore(), nil

	case config.StorageFirestore:
		log.Info("using firestore storage", "project", cfg.GCPProjectID)
		store, err := firestorestore.NewStore(ctx, cfg.GCPProjectID)
		if err != nil {
			return fallback(err)
		}
		// 1 store, implements 2 interfaces
		return store, store, []io.Closer{store}

	default:
		log.Info("using sqlite storage", "path", cfg.DatabasePath())
		store, err := sqlite.Open(ctx, cfg.DatabasePath())
		if err != nil {
			return fallback(err)
		}
		return store, prefs, []io.Closer{store}
	}
}

func newApp(ctx context.Context, cfg *config.Config, fs afero.Fs) *app {
	metrics := observability.NewMetrics()

	taskStore, prefStore, closers := newStores(ctx, cfg, fs)

	executor := conversation.NewService(
		newGateway(ctx, cfg),
		conversation.WithModel(cfg.ModelName),
		conversation.WithTimeout(cfg.GenerateTimeout),
		conversation.WithMetrics(metrics),
	)

	ws := workspace.New(tasks.NewService(taskStore), executor, prefStore, cfg.Language)
	ws.Load(ctx)

	return &app{
		cfg:       cfg,
		fs:        fs,
		metrics:   metrics,
		executor:  executor,
		workspace: ws,
		closers:   closers,
	}
}

// newAppFunc is replaced in tests.
var newAppFunc = func(ctx context.Context) *app {
	return newApp(ctx, loadConfig(), afero.NewOsFs())
}
