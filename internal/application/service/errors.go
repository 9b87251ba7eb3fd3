package service

import (
	"fmt"

	"github.com/devang9890/resume/pkg/apperror"
)

// ExtractionError is a failed call to the extraction service. Status is the
// provider's HTTP status when one was received.
type ExtractionError struct {
	Kind    apperror.Kind
	Status  int
	Message string
	Err     error
}

func (e *ExtractionError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("extraction %s (status %d): %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("extraction %s: %s", e.Kind, e.Message)
}

func (e *ExtractionError) Unwrap() error { return e.Err }
func (e *ExtractionError) ErrorKind() apperror.Kind { return e.Kind }

// AssetError is a failed upload or transformation of an image.
type AssetError struct {
	Kind    apperror.Kind
	Message string
	Err     error
}

func (e *AssetError) Error() string {
	return fmt.Sprintf("asset %s: %s", e.Kind, e.Message)
}

func (e *AssetError) Unwrap() error { return e.Err }
func (e *AssetError) ErrorKind() apperror.Kind { return e.Kind }
