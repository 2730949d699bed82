package extract

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

type stubPDF struct {
	text  string
	err   error
	panic bool
	calls int
}

func (s *stubPDF) ParsePDF(_ context.Context, _ []byte, _ string) (string, error) {
	s.calls++
	if s.panic {
		panic("broken xref table")
	}
	return s.text, s.err
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestExtract_PlainText(t *testing.T) {
	e := New(nil, quietLogger())

	res := e.Extract(context.Background(), []byte("\ufeff  Go, Postgres, Redis \n"), "cv.TXT")
	assert.Equal(t, StatusOK, res.Status)
	assert.Equal(t, "Go, Postgres, Redis", res.Text)
}

func TestExtract_UnsupportedExtension(t *testing.T) {
	pdf := &stubPDF{text: "never"}
	e := New(pdf, quietLogger())

	for _, ext := range []string{".docx", "resume.odt", "", "png"} {
		res := e.Extract(context.Background(), []byte("data"), ext)
		assert.Equal(t, StatusUnsupported, res.Status, ext)
		assert.True(t, res.Empty(), ext)
	}
	assert.Zero(t, pdf.calls)
}

func TestExtract_FailuresNeverPropagate(t *testing.T) {
	tests := []struct {
		name string
		pdf  *stubPDF
		data []byte
	}{
		{name: "empty buffer", pdf: &stubPDF{text: "x"}, data: nil},
		{name: "parser error", pdf: &stubPDF{err: errors.New("not a pdf")}, data: []byte("%PDF-garbage")},
		{name: "parser panic", pdf: &stubPDF{panic: true}, data: []byte("%PDF-1.7")},
		{name: "no text", pdf: &stubPDF{text: "   "}, data: []byte("%PDF-1.7")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := New(tt.pdf, quietLogger()).Extract(context.Background(), tt.data, ".pdf")
			assert.Equal(t, StatusFailed, res.Status)
			assert.Empty(t, res.Text)
		})
	}
}

func TestExtract_PDF(t *testing.T) {
	pdf := &stubPDF{text: "Jane Doe\nBackend Engineer"}
	res := New(pdf, quietLogger()).Extract(context.Background(), []byte("%PDF-1.7 ..."), ".pdf")

	assert.Equal(t, StatusOK, res.Status)
	assert.Equal(t, "Jane Doe\nBackend Engineer", res.Text)
	assert.Equal(t, 1, pdf.calls)
}

func TestNormalizeExt(t *testing.T) {
	assert.Equal(t, ".pdf", NormalizeExt("Resume.PDF"))
	assert.Equal(t, ".txt", NormalizeExt("txt"))
	assert.Equal(t, ".txt", NormalizeExt(".txt"))
	assert.Equal(t, "", NormalizeExt("  "))
}
