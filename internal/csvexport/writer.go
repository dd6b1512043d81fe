package csvexport

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"docintel/internal/domain"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

type column struct {
	header string
	field  string // empty for the fixed record columns
}

// columns defines the export header row. Field columns cover every class;
// cells for fields a record does not carry stay empty.
var columns = []column{
	{header: "Filename"},
	{header: "Index"},
	{header: "Class"},
	{"Invoice Number", "invoice_number"},
	{"Date", "date"},
	{"Company", "company"},
	{"Total Amount", "total_amount"},
	{"Name", "name"},
	{"Email", "email"},
	{"Phone", "phone"},
	{"Experience Years", "experience_years"},
	{"Account Number", "account_number"},
	{"Usage (kWh)", "usage_kwh"},
	{"Amount Due", "amount_due"},
}

var moneyFields = map[string]bool{"total_amount": true, "amount_due": true}

// Headers returns the header row.
func Headers() []string {
	out := make([]string, len(columns))
	for i, c := range columns {
		out[i] = c.header
	}
	return out
}

// Writer wraps csv.Writer for exporting records as CSV.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteHeader writes the header row.
func (w *Writer) WriteHeader() error {
	return w.csv.Write(Headers())
}

// WriteRecords converts records to CSV rows and writes them.
func (w *Writer) WriteRecords(recs []domain.Record) error {
	for i := range recs {
		if err := w.csv.Write(recordToRow(&recs[i])); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}

func recordToRow(rec *domain.Record) []string {
	row := make([]string, len(columns))
	row[0] = rec.Filename
	row[1] = rec.IndexName
	row[2] = string(rec.Class)
	for i := 3; i < len(columns); i++ {
		v, ok := rec.Fields[columns[i].field]
		if !ok {
			continue
		}
		row[i] = formatValue(columns[i].field, v)
	}
	return row
}

func formatValue(field string, v any) string {
	switch x := v.(type) {
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	case float64:
		if moneyFields[field] {
			return formatMoney(x)
		}
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}

func formatMoney(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename cleans a name for use in Content-Disposition.
// Replaces non-alphanumeric chars (except - _) with _, collapses consecutive
// underscores, and truncates to 100 chars.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	if s == "" {
		s = "results"
	}
	return s
}

// BuildFilename returns a sanitized filename for Content-Disposition header.
// Format: {sanitized_name}_{YYYY-MM-DD}.{ext}
func BuildFilename(name string, format domain.ExportFormat) string {
	date := time.Now().Format("2006-01-02")
	return fmt.Sprintf("%s_%s.%s", SanitizeFilename(name), date, format)
}
