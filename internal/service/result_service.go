package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"docintel/internal/csvexport"
	"docintel/internal/domain"
	"docintel/internal/port"
)

// ResultService reads and exports the cumulative results store.
type ResultService interface {
	List(ctx context.Context) ([]domain.Record, error)
	Get(ctx context.Context, filename string) (*domain.Record, error)
	Export(ctx context.Context, format domain.ExportFormat, w io.Writer) error
}

type resultService struct {
	results port.ResultRepository
	log     *slog.Logger
}

// NewResultService creates a new ResultService implementation.
func NewResultService(results port.ResultRepository, log *slog.Logger) ResultService {
	if log == nil {
		log = slog.Default()
	}
	return &resultService{results: results, log: log}
}

func (s *resultService) List(ctx context.Context) ([]domain.Record, error) {
	recs, err := s.results.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing results: %w", err)
	}
	if recs == nil {
		recs = []domain.Record{}
	}
	return recs, nil
}

func (s *resultService) Get(ctx context.Context, filename string) (*domain.Record, error) {
	return s.results.GetByFilename(ctx, filename)
}

// Export writes every record in the requested format. CSV output starts with
// a UTF-8 BOM so spreadsheet tools pick the right encoding.
func (s *resultService) Export(ctx context.Context, format domain.ExportFormat, w io.Writer) error {
	switch format {
	case domain.ExportFormatCSV, domain.ExportFormatXLSX:
	default:
		return domain.ErrUnsupportedExportFormat
	}

	recs, err := s.List(ctx)
	if err != nil {
		return err
	}
	s.log.Info("exporting results", "format", format, "records", len(recs))

	if format == domain.ExportFormatXLSX {
		return csvexport.WriteXLSX(w, recs)
	}

	if _, err := w.Write(csvexport.BOM); err != nil {
		return fmt.Errorf("writing BOM: %w", err)
	}
	cw := csvexport.NewWriter(w)
	if err := cw.WriteHeader(); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	if err := cw.WriteRecords(recs); err != nil {
		return fmt.Errorf("writing CSV rows: %w", err)
	}
	cw.Flush()
	return cw.Error()
}
