package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"docintel/internal/domain"
	"docintel/internal/port"
)

type resultRow struct {
	Filename  string `db:"filename"`
	IndexName string `db:"index_name"`
	Class     string `db:"class"`
	Fields    string `db:"fields"`
}

func (r resultRow) record() (domain.Record, error) {
	fields, err := domain.DecodeFields([]byte(r.Fields))
	if err != nil {
		return domain.Record{}, fmt.Errorf("decoding fields of %s: %w", r.Filename, err)
	}
	return domain.Record{
		Filename:  r.Filename,
		IndexName: r.IndexName,
		Class:     domain.ParseLabel(r.Class),
		Fields:    fields,
	}, nil
}

type resultRepo struct {
	db *sqlx.DB
}

// NewResultRepo creates a SQL-backed ResultRepository.
func NewResultRepo(db *sqlx.DB) port.ResultRepository {
	return &resultRepo{db: db}
}

func (r *resultRepo) Save(ctx context.Context, rec *domain.Record) error {
	fields := rec.Fields
	if fields == nil {
		fields = domain.Fields{}
	}
	encoded, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("resultRepo.Save: encoding fields: %w", err)
	}

	query := r.db.Rebind(`INSERT INTO results (filename, index_name, class, fields, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (filename) DO UPDATE SET
			index_name = excluded.index_name,
			class = excluded.class,
			fields = excluded.fields,
			updated_at = excluded.updated_at`)

	_, err = r.db.ExecContext(ctx, query,
		rec.Filename, rec.IndexName, string(rec.Class), string(encoded), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("resultRepo.Save: %w", err)
	}
	return nil
}

func (r *resultRepo) GetByFilename(ctx context.Context, filename string) (*domain.Record, error) {
	var row resultRow
	err := r.db.GetContext(ctx, &row, r.db.Rebind(
		"SELECT filename, index_name, class, fields FROM results WHERE filename = ?"), filename)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("resultRepo.GetByFilename: %w", err)
	}
	rec, err := row.record()
	if err != nil {
		return nil, fmt.Errorf("resultRepo.GetByFilename: %w", err)
	}
	return &rec, nil
}

func (r *resultRepo) List(ctx context.Context) ([]domain.Record, error) {
	var rows []resultRow
	if err := r.db.SelectContext(ctx, &rows,
		"SELECT filename, index_name, class, fields FROM results ORDER BY filename"); err != nil {
		return nil, fmt.Errorf("resultRepo.List: %w", err)
	}
	out := make([]domain.Record, 0, len(rows))
	for _, row := range rows {
		rec, err := row.record()
		if err != nil {
			return nil, fmt.Errorf("resultRepo.List: %w", err)
		}
		out = append(out, rec)
	}
	return out, nil
}

func (r *resultRepo) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
