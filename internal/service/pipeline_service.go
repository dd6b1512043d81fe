package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"docintel/internal/classifier"
	"docintel/internal/config"
	"docintel/internal/domain"
	"docintel/internal/extractor"
	"docintel/internal/index"
	"docintel/internal/port"
	"docintel/internal/validator"
)

// UploadInput is the DTO for a single document upload.
type UploadInput struct {
	Filename  string
	IndexName string
	Body      io.Reader
}

// BatchResult summarizes a directory run. Failed maps filename to error text.
type BatchResult struct {
	Records []domain.Record   `json:"records"`
	Failed  map[string]string `json:"failed"`
}

// PipelineService runs documents through classify, extract, index and store.
type PipelineService interface {
	Upload(ctx context.Context, input UploadInput) (*domain.Record, error)
	Process(ctx context.Context, doc domain.Document, indexName string) (*domain.Record, error)
	ProcessBatch(ctx context.Context, dir, indexName string) (*BatchResult, error)
}

type pipelineService struct {
	text       port.TextExtractor
	classifier *classifier.Classifier
	extractor  *extractor.Extractor
	indexer    port.Indexer
	validator  *validator.Validator
	results    port.ResultRepository
	blobs      port.BlobStore
	cfg        *config.PipelineConfig
	defaultIdx string
	log        *slog.Logger
}

// PipelineDeps groups the collaborators of the pipeline. Blobs may be nil to
// skip archiving uploads.
type PipelineDeps struct {
	Text       port.TextExtractor
	Classifier *classifier.Classifier
	Extractor  *extractor.Extractor
	Indexer    port.Indexer
	Validator  *validator.Validator
	Results    port.ResultRepository
	Blobs      port.BlobStore
}

// NewPipelineService creates a new PipelineService implementation.
func NewPipelineService(deps PipelineDeps, cfg *config.PipelineConfig, defaultIndex string, log *slog.Logger) PipelineService {
	if log == nil {
		log = slog.Default()
	}
	if defaultIndex == "" {
		defaultIndex = "default"
	}
	return &pipelineService{
		text:       deps.Text,
		classifier: deps.Classifier,
		extractor:  deps.Extractor,
		indexer:    deps.Indexer,
		validator:  deps.Validator,
		results:    deps.Results,
		blobs:      deps.Blobs,
		cfg:        cfg,
		defaultIdx: defaultIndex,
		log:        log,
	}
}

func (s *pipelineService) Upload(ctx context.Context, input UploadInput) (*domain.Record, error) {
	filename := filepath.Base(strings.TrimSpace(input.Filename))
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if _, ok := domain.AllowedExtensions[ext]; !ok || filename == "." || filename == "/" {
		return nil, domain.ErrUnsupportedFileType
	}

	indexName, err := s.indexName(input.IndexName)
	if err != nil {
		return nil, err
	}

	data, err := io.ReadAll(input.Body)
	if err != nil {
		return nil, fmt.Errorf("reading upload: %w", err)
	}
	if _, ok := domain.AllowedContentTypes[http.DetectContentType(data)]; !ok {
		return nil, domain.ErrUnsupportedFileType
	}

	path, err := s.save(filename, data)
	if err != nil {
		return nil, err
	}
	s.log.Info("document received", "filename", filename, "index", indexName, "bytes", len(data))

	text := s.extractText(ctx, path)
	if strings.TrimSpace(text) == "" {
		if err := os.Remove(path); err != nil {
			s.log.Warn("removing unreadable upload failed", "path", path, "error", err)
		}
		return nil, domain.ErrTextExtractionFailed
	}

	s.archive(ctx, filename, data)

	return s.Process(ctx, domain.Document{Filename: filename, Text: text}, indexName)
}

// Process classifies, extracts, indexes and stores one document. Index
// failures are logged and never fail the document.
func (s *pipelineService) Process(ctx context.Context, doc domain.Document, indexName string) (*domain.Record, error) {
	indexName, err := s.indexName(indexName)
	if err != nil {
		return nil, err
	}

	label := s.classifier.Classify(ctx, doc.Text, doc.Filename)
	fields := s.extractor.Extract(doc.Text, label)

	if strings.TrimSpace(doc.Text) != "" {
		if err := s.indexer.Add(ctx, indexName, doc.Filename, doc.Text); err != nil {
			s.log.Error("indexing failed", "filename", doc.Filename, "index", indexName, "error", err)
		}
	}

	rec := &domain.Record{
		Filename:  doc.Filename,
		IndexName: indexName,
		Class:     label,
		Fields:    fields,
	}
	if _, err := s.validator.Sanitize(rec); err != nil {
		return nil, fmt.Errorf("validating record %s: %w", doc.Filename, err)
	}

	if err := s.results.Save(ctx, rec); err != nil {
		return nil, fmt.Errorf("saving record %s: %w", doc.Filename, err)
	}

	s.log.Info("document processed", "filename", doc.Filename, "class", label, "fields", len(rec.Fields))
	return rec, nil
}

// ProcessBatch runs every PDF in dir with bounded concurrency. Per-file
// failures are collected rather than aborting the batch.
func (s *pipelineService) ProcessBatch(ctx context.Context, dir, indexName string) (*BatchResult, error) {
	indexName, err := s.indexName(indexName)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), ".pdf") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)

	records := make([]*domain.Record, len(files))
	failures := make([]error, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency())
	for i, name := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				failures[i] = err
				return nil
			}
			text := s.extractText(gctx, filepath.Join(dir, name))
			rec, err := s.Process(gctx, domain.Document{Filename: name, Text: text}, indexName)
			records[i], failures[i] = rec, err
			return nil
		})
	}
	_ = g.Wait()

	out := &BatchResult{Records: []domain.Record{}, Failed: map[string]string{}}
	for i, name := range files {
		if failures[i] != nil {
			out.Failed[name] = failures[i].Error()
			continue
		}
		out.Records = append(out.Records, *records[i])
	}
	s.log.Info("batch processed", "dir", dir, "processed", len(out.Records), "failed", len(out.Failed))
	return out, ctx.Err()
}

func (s *pipelineService) indexName(name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		name = s.defaultIdx
	}
	if err := index.ValidateCollectionID(name); err != nil {
		return "", err
	}
	return name, nil
}

func (s *pipelineService) concurrency() int {
	if s.cfg == nil || s.cfg.Concurrency < 1 {
		return 1
	}
	return s.cfg.Concurrency
}

func (s *pipelineService) save(filename string, data []byte) (string, error) {
	dir := "data/input"
	if s.cfg != nil && s.cfg.InputDir != "" {
		dir = s.cfg.InputDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating input dir: %w", err)
	}
	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("saving upload: %w", err)
	}
	return path, nil
}

// extractText returns "" on failure.
func (s *pipelineService) extractText(ctx context.Context, path string) string {
	text, err := s.text.Extract(ctx, path)
	if err != nil {
		s.log.Warn("text extraction failed", "path", path, "error", err)
		return ""
	}
	return text
}

func (s *pipelineService) archive(ctx context.Context, filename string, data []byte) {
	if s.blobs == nil {
		return
	}
	if err := s.blobs.Put(ctx, "uploads/"+filename, bytes.Clone(data), "application/pdf"); err != nil {
		s.log.Warn("archiving upload failed", "filename", filename, "error", err)
	}
}
