package service

import (
	"context"
	"io"
)

// TextExtractor pulls the plain text layer out of a PDF.
type TextExtractor interface {
	ExtractText(ctx context.Context, r io.ReaderAt, size int64) (string, error)
}
