package port

import (
	"context"

	"docintel/internal/domain"
)

// ResultRepository is the cumulative results store keyed by filename.
// Save overwrites any previous record with the same filename.
type ResultRepository interface {
	Save(ctx context.Context, rec *domain.Record) error
	GetByFilename(ctx context.Context, filename string) (*domain.Record, error)
	List(ctx context.Context) ([]domain.Record, error)
	Ping(ctx context.Context) error
}
