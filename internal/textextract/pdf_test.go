package textextract_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docintel/internal/config"
	"docintel/internal/domain"
	"docintel/internal/textextract"
)

type stubRunner struct {
	out  string
	err  error
	args []string
}

func (s *stubRunner) Run(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
	s.args = append([]string{name}, args...)
	return []byte(s.out), nil, s.err
}

func TestClean(t *testing.T) {
	in := "  INVOICE #123\n\n\tTotal:  $1,250.00 ★ (net) — due 01/02/2024 "

	got := textextract.Clean(in)

	assert.Equal(t, "INVOICE 123 Total: $1,250.00 (net) due 01/02/2024", got)
}

func TestClean_KeepsEmailAndUnicodeLetters(t *testing.T) {
	assert.Equal(t, "José jose@example.com", textextract.Clean("José\r\n jose@example.com!"))
}

func TestPDFExtractor_Extract(t *testing.T) {
	runner := &stubRunner{out: "Hello\f\nWorld  "}
	e := textextract.NewPDFExtractorWithRunner(&config.ExtractConfig{Pdftotext: "/usr/bin/pdftotext"}, runner)

	got, err := e.Extract(context.Background(), "/tmp/doc.PDF")

	require.NoError(t, err)
	assert.Equal(t, "Hello World", got)
	assert.Equal(t, "/usr/bin/pdftotext", runner.args[0])
	assert.Equal(t, "/tmp/doc.PDF", runner.args[len(runner.args)-2])
}

func TestPDFExtractor_RejectsNonPDF(t *testing.T) {
	e := textextract.NewPDFExtractorWithRunner(&config.ExtractConfig{}, &stubRunner{})

	_, err := e.Extract(context.Background(), "/tmp/doc.docx")

	assert.ErrorIs(t, err, domain.ErrUnsupportedFileType)
}

func TestPDFExtractor_CommandFailure(t *testing.T) {
	e := textextract.NewPDFExtractorWithRunner(&config.ExtractConfig{}, &stubRunner{err: errors.New("exit 1")})

	_, err := e.Extract(context.Background(), "/tmp/doc.pdf")

	assert.Error(t, err)
}
