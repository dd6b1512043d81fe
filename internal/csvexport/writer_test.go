package csvexport

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"docintel/internal/domain"
)

func sampleRecords() []domain.Record {
	return []domain.Record{
		{Filename: "inv.pdf", IndexName: "default", Class: domain.LabelInvoice, Fields: domain.Fields{
			"invoice_number": "12345", "date": "2024-01-15", "company": "Acme Corp Inc.", "total_amount": 250.0,
		}},
		{Filename: "cv.pdf", IndexName: "hr", Class: domain.LabelResume, Fields: domain.Fields{
			"name": "Jane Doe", "experience_years": 8,
		}},
		{Filename: "bill.pdf", IndexName: "default", Class: domain.LabelUtilityBill, Fields: domain.Fields{
			"usage_kwh": 412.5, "amount_due": 88.1,
		}},
	}
}

func TestWriteHeader(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteHeader())
	w.Flush()
	require.NoError(t, w.Error())

	row, err := csv.NewReader(&buf).Read()
	require.NoError(t, err)

	assert.Len(t, row, 14)
	assert.Equal(t, "Filename", row[0])
	assert.Equal(t, "Class", row[2])
	assert.Equal(t, "Amount Due", row[13])
}

func TestWriteRecords(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteRecords(sampleRecords()))
	w.Flush()
	require.NoError(t, w.Error())

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, []string{"inv.pdf", "default", "Invoice", "12345", "2024-01-15", "Acme Corp Inc.", "250.00", "", "", "", "", "", "", ""}, rows[0])
	assert.Equal(t, "8", rows[1][10])
	assert.Equal(t, "Jane Doe", rows[1][7])
	assert.Equal(t, "412.5", rows[2][12])
	assert.Equal(t, "88.10", rows[2][13])
}

func TestWriteRecords_UnclassifiedHasOnlyMetadata(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteRecords([]domain.Record{{Filename: "x.pdf", IndexName: "default", Class: domain.LabelUnclassifiable}}))
	w.Flush()

	row, err := csv.NewReader(&buf).Read()
	require.NoError(t, err)
	assert.Equal(t, "Unclassifiable", row[2])
	assert.Equal(t, "", strings.Join(row[3:], ""))
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, sampleRecords()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "Filename", rows[0][0])
	assert.Equal(t, "inv.pdf", rows[1][0])
	assert.Equal(t, "250", rows[1][6])
	assert.Equal(t, "Jane Doe", rows[2][7])
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "my_docs", SanitizeFilename("my docs!!"))
	assert.Equal(t, "results", SanitizeFilename("***"))
	assert.Len(t, SanitizeFilename(strings.Repeat("a", 150)), 100)
}

func TestBuildFilename(t *testing.T) {
	got := BuildFilename("results", domain.ExportFormatXLSX)

	assert.Equal(t, "results_"+time.Now().Format("2006-01-02")+".xlsx", got)
}
