package textextract

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/devang9890/resume/internal/application/service"
)

type pdfExtractor struct{}

func NewPDFExtractor() service.TextExtractor {
	return pdfExtractor{}
}

// ExtractText returns the concatenated plain text of every page. Scanned
// PDFs without a text layer yield an empty string.
func (pdfExtractor) ExtractText(ctx context.Context, r io.ReaderAt, size int64) (text string, err error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	// The parser panics on some malformed cross-reference tables.
	defer func() {
		if p := recover(); p != nil {
			text, err = "", fmt.Errorf("read pdf: %v", p)
		}
	}()

	reader, err := pdf.NewReader(r, size)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("read pdf: %w", err)
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", fmt.Errorf("read pdf: %w", err)
	}
	return strings.TrimSpace(buf.String()), nil
}
