package service_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"docintel/internal/csvexport"
	"docintel/internal/domain"
	"docintel/internal/service"
	"docintel/mocks"
)

func storedRecords() []domain.Record {
	return []domain.Record{
		{Filename: "inv.pdf", IndexName: "default", Class: domain.LabelInvoice, Fields: domain.Fields{"invoice_number": "12345", "total_amount": 250.0}},
		{Filename: "x.pdf", IndexName: "default", Class: domain.LabelUnclassifiable, Fields: domain.Fields{}},
	}
}

func TestResultList_NilBecomesEmpty(t *testing.T) {
	repo := new(mocks.MockResultRepo)
	repo.On("List", mock.Anything).Return(nil, nil)
	svc := service.NewResultService(repo, nil)

	recs, err := svc.List(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []domain.Record{}, recs)
}

func TestResultGet_NotFound(t *testing.T) {
	repo := new(mocks.MockResultRepo)
	repo.On("GetByFilename", mock.Anything, "missing.pdf").Return(nil, domain.ErrNotFound)
	svc := service.NewResultService(repo, nil)

	_, err := svc.Get(context.Background(), "missing.pdf")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestExport_CSVWithBOM(t *testing.T) {
	repo := new(mocks.MockResultRepo)
	repo.On("List", mock.Anything).Return(storedRecords(), nil)
	svc := service.NewResultService(repo, nil)

	var buf bytes.Buffer
	require.NoError(t, svc.Export(context.Background(), domain.ExportFormatCSV, &buf))

	require.True(t, bytes.HasPrefix(buf.Bytes(), csvexport.BOM))
	rows, err := csv.NewReader(bytes.NewReader(buf.Bytes()[len(csvexport.BOM):])).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, csvexport.Headers(), rows[0])
	assert.Equal(t, "inv.pdf", rows[1][0])
	assert.Equal(t, "250.00", rows[1][6])
	assert.Equal(t, "Unclassifiable", rows[2][2])
}

func TestExport_XLSX(t *testing.T) {
	repo := new(mocks.MockResultRepo)
	repo.On("List", mock.Anything).Return(storedRecords(), nil)
	svc := service.NewResultService(repo, nil)

	var buf bytes.Buffer
	require.NoError(t, svc.Export(context.Background(), domain.ExportFormatXLSX, &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	rows, err := f.GetRows("Results")
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}

func TestExport_UnknownFormat(t *testing.T) {
	repo := new(mocks.MockResultRepo)
	svc := service.NewResultService(repo, nil)

	err := svc.Export(context.Background(), domain.ExportFormat("pdf"), &bytes.Buffer{})

	assert.ErrorIs(t, err, domain.ErrUnsupportedExportFormat)
	repo.AssertNotCalled(t, "List", mock.Anything)
}

func TestExport_RepoFailure(t *testing.T) {
	repo := new(mocks.MockResultRepo)
	repo.On("List", mock.Anything).Return(nil, errors.New("db down"))
	svc := service.NewResultService(repo, nil)

	err := svc.Export(context.Background(), domain.ExportFormatCSV, &bytes.Buffer{})

	assert.ErrorContains(t, err, "db down")
}
