package extract

import (
	"bytes"
	"context"
	"errors"
	"strings"

	"github.com/cloudwego/eino-ext/components/document/parser/pdf"
	einoparser "github.com/cloudwego/eino/components/document/parser"
)

// EinoPDF parses the whole document as a single text block.
type EinoPDF struct {
	parser *pdf.PDFParser
}

func NewEinoPDF(ctx context.Context) (*EinoPDF, error) {
	p, err := pdf.NewPDFParser(ctx, &pdf.Config{ToPages: false})
	if err != nil {
		return nil, err
	}
	return &EinoPDF{parser: p}, nil
}

func (e *EinoPDF) ParsePDF(ctx context.Context, data []byte, uri string) (string, error) {
	docs, err := e.parser.Parse(ctx, bytes.NewReader(data), einoparser.WithURI(uri))
	if err != nil {
		return "", err
	}
	if len(docs) == 0 {
		return "", errors.New("pdf parser returned no documents")
	}

	parts := make([]string, 0, len(docs))
	for _, d := range docs {
		if d == nil {
			continue
		}
		if s := strings.TrimSpace(d.Content); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "\n\n"), nil
}
