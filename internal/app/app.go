// Package app assembles the document pipeline from configuration. It is shared
// by the HTTP server and the batch CLI.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"docintel/internal/classifier"
	"docintel/internal/config"
	"docintel/internal/extractor"
	"docintel/internal/index"
	"docintel/internal/port"
	"docintel/internal/provider"
	_ "docintel/internal/provider/hashing"
	_ "docintel/internal/provider/huggingface"
	_ "docintel/internal/provider/openai"
	"docintel/internal/repository/jsonfile"
	"docintel/internal/repository/sqlstore"
	"docintel/internal/service"
	"docintel/internal/storage/local"
	s3storage "docintel/internal/storage/s3"
	"docintel/internal/textextract"
	"docintel/internal/validator"
)

// App holds the wired services and the stores they share.
type App struct {
	Pipeline service.PipelineService
	Search   service.SearchService
	Results  service.ResultService
	Repo     port.ResultRepository
	Index    *index.Manager
	InputDir string

	db *sqlx.DB
}

// New builds every collaborator named by cfg. Callers must Close the result.
func New(ctx context.Context, cfg *config.Config, log *slog.Logger) (*App, error) {
	if log == nil {
		log = slog.Default()
	}
	blobs, err := NewBlobStore(cfg)
	if err != nil {
		return nil, err
	}

	repo, db, err := NewResultRepo(cfg)
	if err != nil {
		return nil, err
	}
	a := &App{Repo: repo, InputDir: cfg.Pipeline.InputDir, db: db}

	model, err := provider.NewClassifier(&cfg.Classifier)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to create classifier: %w", err)
	}
	embedder, err := provider.NewEmbedder(&cfg.Embedding)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to create embedder: %w", err)
	}

	v, err := validator.New(log)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to compile schemas: %w", err)
	}

	a.Index = index.NewManager(embedder, blobs, log)
	if cfg.Index.Preload {
		n, err := a.Index.LoadAll(ctx)
		if err != nil {
			log.Warn("preloading indexes failed", "error", err)
		} else {
			log.Info("indexes preloaded", "count", n)
		}
	}

	a.Pipeline = service.NewPipelineService(service.PipelineDeps{
		Text:       textextract.NewPDFExtractor(&cfg.Extract),
		Classifier: classifier.New(model, log),
		Extractor:  extractor.New(log),
		Indexer:    a.Index,
		Validator:  v,
		Results:    repo,
		Blobs:      blobs,
	}, &cfg.Pipeline, cfg.Index.DefaultName, log)
	a.Search = service.NewSearchService(a.Index, cfg.Index.DefaultName)
	a.Results = service.NewResultService(repo, log)

	return a, nil
}

// Close releases the database pool, if any.
func (a *App) Close() {
	if a.db != nil {
		_ = a.db.Close()
	}
}

// NewBlobStore returns the blob store selected by storage.backend.
func NewBlobStore(cfg *config.Config) (port.BlobStore, error) {
	switch cfg.Storage.Backend {
	case "s3":
		store, err := s3storage.NewS3Store(&cfg.S3)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize S3 store: %w", err)
		}
		return store, nil
	default:
		store, err := local.NewStore(cfg.Storage.LocalDir)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize local store: %w", err)
		}
		return store, nil
	}
}

// NewResultRepo returns the results store selected by results.backend. SQL
// backends are migrated before use and the pool is returned for closing.
func NewResultRepo(cfg *config.Config) (port.ResultRepository, *sqlx.DB, error) {
	switch cfg.Results.Backend {
	case "postgres", "sqlite":
		db, err := sqlstore.NewDB(cfg.Results.Backend, &cfg.DB)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := sqlstore.Migrate(db); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		return sqlstore.NewResultRepo(db), db, nil
	default:
		repo, err := jsonfile.NewResultRepo(cfg.Results.FilePath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open results file: %w", err)
		}
		return repo, nil, nil
	}
}
