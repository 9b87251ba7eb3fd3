package service

import (
	"context"
	"errors"
	"io"
)

type ProcessedImage struct {
	URL     string
	AssetID string
}

// ImageTransformer uploads a profile photo and returns the URL of its
// face-cropped rendition. Failures are *AssetError.
type ImageTransformer interface {
	Transform(ctx context.Context, file io.Reader, resumeID string, removeBackground bool) (*ProcessedImage, error)
	Delete(ctx context.Context, assetID string) error
}

var ErrInfected = errors.New("file is infected")

// ImageScanner inspects an upload for malware. It returns an error wrapping
// ErrInfected when the file must be rejected.
type ImageScanner interface {
	Scan(ctx context.Context, file io.Reader) error
}
