package resume

import (
	"go.uber.org/zap"

	"github.com/devang9890/resume/pkg/apperror"
	"github.com/devang9890/resume/pkg/logger"
)

type IngestState string

const (
	StateReceived       IngestState = "Received"
	StateValidatedInput IngestState = "ValidatedInput"
	StateExtracting     IngestState = "Extracting"
	StateExtracted      IngestState = "Extracted"
	StateNormalizing    IngestState = "Normalizing"
	StateNormalized     IngestState = "Normalized"
	StatePersisting     IngestState = "Persisting"
	StateCommitted      IngestState = "Committed"
	StateFailed         IngestState = "Failed"
)

var ingestOrder = []IngestState{
	StateReceived,
	StateValidatedInput,
	StateExtracting,
	StateExtracted,
	StateNormalizing,
	StateNormalized,
	StatePersisting,
	StateCommitted,
}

// ingestRun tracks one pass through the pipeline. States only move forward
// one step at a time; Failed is reachable from any non-terminal state.
type ingestRun struct {
	state IngestState
	log   logger.Logger
}

func newIngestRun(log logger.Logger) *ingestRun {
	return &ingestRun{state: StateReceived, log: log}
}

func (r *ingestRun) advance(to IngestState) {
	if !r.isNext(to) {
		r.log.Error("Illegal ingestion state transition", nil,
			zap.String("from", string(r.state)), zap.String("to", string(to)))
		return
	}
	r.log.Debug("Ingestion state transition", zap.String("from", string(r.state)), zap.String("to", string(to)))
	r.state = to
}

func (r *ingestRun) fail(err error) {
	if r.state == StateCommitted || r.state == StateFailed {
		return
	}
	kind := apperror.KindOf(err)
	switch kind {
	case apperror.KindInsufficientInput, apperror.KindInvalidInput:
		r.log.Info("Ingestion rejected", zap.String("state", string(r.state)), zap.String("kind", string(kind)))
	default:
		r.log.Warn("Ingestion failed", zap.String("state", string(r.state)), zap.String("kind", string(kind)), zap.Error(err))
	}
	r.state = StateFailed
}

func (r *ingestRun) isNext(to IngestState) bool {
	for i, s := range ingestOrder[:len(ingestOrder)-1] {
		if s == r.state {
			return ingestOrder[i+1] == to
		}
	}
	return false
}
