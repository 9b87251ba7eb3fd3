package resume

import (
	"bytes"
	"context"
	"fmt"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/devang9890/resume/internal/application/service"
	"github.com/devang9890/resume/pkg/apperror"
)

// MaxPDFBytes bounds an uploaded resume PDF.
const MaxPDFBytes = 10 << 20

type IngestPDFUseCase struct {
	text   service.TextExtractor
	ingest *IngestResumeUseCase
}

func NewIngestPDFUseCase(text service.TextExtractor, ingest *IngestResumeUseCase) *IngestPDFUseCase {
	return &IngestPDFUseCase{text: text, ingest: ingest}
}

type IngestPDFInput struct {
	OwnerID uuid.UUID
	Title   string
	Data    []byte
}

// Execute pulls the text layer out of a PDF and runs it through the
// regular ingestion pipeline.
func (uc *IngestPDFUseCase) Execute(ctx context.Context, input IngestPDFInput) (*IngestResumeOutput, error) {
	if len(input.Data) == 0 {
		return nil, apperror.NewInvalidInput("resume file is empty", nil)
	}
	if len(input.Data) > MaxPDFBytes {
		return nil, apperror.NewInvalidInput(fmt.Sprintf("resume file exceeds %d bytes", MaxPDFBytes), nil)
	}
	if mt := mimetype.Detect(input.Data); !mt.Is("application/pdf") {
		return nil, apperror.NewInvalidInput(fmt.Sprintf("expected a PDF, got %s", mt.String()), nil)
	}

	text, err := uc.text.ExtractText(ctx, bytes.NewReader(input.Data), int64(len(input.Data)))
	if err != nil {
		return nil, apperror.NewInvalidInput("could not read text from PDF", err)
	}

	return uc.ingest.Execute(ctx, IngestResumeInput{
		OwnerID: input.OwnerID,
		Title:   input.Title,
		RawText: text,
	})
}
