package extract

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
)

type Status string

const (
	StatusOK          Status = "ok"
	StatusUnsupported Status = "unsupported"
	StatusFailed      Status = "failed"
)

// Result is what an upload turned into. Text is empty unless Status is ok.
type Result struct {
	Text   string
	Status Status
}

func (r Result) Empty() bool { return strings.TrimSpace(r.Text) == "" }

// Extractor never returns an error: failures are reported in Result.Status.
type Extractor interface {
	Extract(ctx context.Context, data []byte, ext string) Result
}

// PDFParser turns a PDF byte stream into plain text.
type PDFParser interface {
	ParsePDF(ctx context.Context, data []byte, uri string) (string, error)
}

type extractor struct {
	pdf     PDFParser
	timeout time.Duration
	log     *logrus.Logger
}

func New(pdf PDFParser, log *logrus.Logger) Extractor {
	if log == nil {
		log = logrus.New()
	}
	return &extractor{pdf: pdf, timeout: 30 * time.Second, log: log}
}

// NormalizeExt lowercases a file name or bare extension into ".ext" form.
func NormalizeExt(nameOrExt string) string {
	s := strings.ToLower(strings.TrimSpace(nameOrExt))
	if s == "" {
		return ""
	}
	if ext := filepath.Ext(s); ext != "" {
		return ext
	}
	return "." + s
}

func (e *extractor) Extract(ctx context.Context, data []byte, ext string) Result {
	ext = NormalizeExt(ext)
	log := e.log.WithFields(logrus.Fields{"ext": ext, "size": len(data)})

	switch ext {
	case ".pdf", ".txt":
	default:
		log.Info("unsupported resume format")
		return Result{Status: StatusUnsupported}
	}

	if len(bytes.TrimSpace(data)) == 0 {
		log.Warn("empty resume upload")
		return Result{Status: StatusFailed}
	}

	if ext == ".txt" {
		text := string(data)
		if !utf8.ValidString(text) {
			text = strings.ToValidUTF8(text, "")
		}
		text = strings.TrimSpace(strings.TrimPrefix(text, "\ufeff"))
		if text == "" {
			return Result{Status: StatusFailed}
		}
		return Result{Text: text, Status: StatusOK}
	}

	if e.pdf == nil {
		log.Warn("no pdf parser configured")
		return Result{Status: StatusFailed}
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	text, err := e.parsePDF(ctx, data)
	if err != nil {
		log.WithError(err).Warn("pdf extraction failed")
		return Result{Status: StatusFailed}
	}
	text = strings.TrimSpace(text)
	if text == "" {
		log.Warn("pdf has no extractable text")
		return Result{Status: StatusFailed}
	}
	return Result{Text: text, Status: StatusOK}
}

// parsePDF shields callers from parser panics on malformed input.
func (e *extractor) parsePDF(ctx context.Context, data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &panicError{v: r}
		}
	}()
	return e.pdf.ParsePDF(ctx, data, "resume.pdf")
}

type panicError struct{ v any }

func (p *panicError) Error() string { return "pdf parser panic" }
