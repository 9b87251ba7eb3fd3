package media_storage

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/devang9890/resume/internal/application/service"
	"github.com/devang9890/resume/internal/config"
	"github.com/devang9890/resume/pkg/apperror"
	"github.com/devang9890/resume/pkg/logger"
)

const (
	faceCrop         = "c_thumb,g_face,w_300,h_300,z_0.75"
	removeBackground = "e_background_removal"
)

// uploadAPI is the slice of the Cloudinary upload API the transformer uses.
type uploadAPI interface {
	Upload(ctx context.Context, file interface{}, params uploader.UploadParams) (*uploader.UploadResult, error)
	Destroy(ctx context.Context, params uploader.DestroyParams) (*uploader.DestroyResult, error)
}

type cloudinaryTransformer struct {
	api     uploadAPI
	folder  string
	timeout time.Duration
	log     logger.Logger
}

func NewCloudinaryTransformer(cfg config.Config, log logger.Logger) (service.ImageTransformer, error) {
	if cfg.Cloudinary.CloudName == "" {
		return nil, fmt.Errorf("cloudinary cloud_name has not config")
	}

	cld, err := cloudinary.NewFromParams(
		cfg.Cloudinary.CloudName,
		cfg.Cloudinary.ApiKey,
		cfg.Cloudinary.ApiSecret,
	)
	if err != nil {
		return nil, fmt.Errorf("cannot init cloudinary: %w", err)
	}

	log.Info("Cloudinary transformer initialized", zap.String("folder", cfg.Cloudinary.Folder))
	return newTransformer(&cld.Upload, cfg.Cloudinary.Folder, cfg.Cloudinary.Timeout, log), nil
}

func newTransformer(api uploadAPI, folder string, timeout time.Duration, log logger.Logger) *cloudinaryTransformer {
	return &cloudinaryTransformer{api: api, folder: folder, timeout: timeout, log: log}
}

func transformation(removeBg bool) string {
	if removeBg {
		return removeBackground + "/" + faceCrop
	}
	return faceCrop
}

// transformMarkers appear in Cloudinary rejections caused by the requested
// transformation rather than by the uploaded file.
var transformMarkers = []string{"transformation", "background_removal", "background removal", "add-on", "gravity"}

func rejectionKind(msg string) apperror.Kind {
	lower := strings.ToLower(msg)
	for _, m := range transformMarkers {
		if strings.Contains(lower, m) {
			return apperror.KindTransform
		}
	}
	return apperror.KindUpload
}

// Transform uploads file with the face crop applied on ingest, so the
// returned URL already points at the processed rendition.
func (a *cloudinaryTransformer) Transform(ctx context.Context, file io.Reader, resumeID string, removeBg bool) (*service.ProcessedImage, error) {
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	params := uploader.UploadParams{
		Folder:         a.folder,
		PublicID:       fmt.Sprintf("%s-%s", resumeID, uuid.NewString()),
		Transformation: transformation(removeBg),
	}

	result, err := a.api.Upload(ctx, file, params)
	if err != nil {
		return nil, &service.AssetError{Kind: apperror.KindTransport, Message: err.Error(), Err: err}
	}
	if msg := result.Error.Message; msg != "" {
		return nil, &service.AssetError{Kind: rejectionKind(msg), Message: msg}
	}
	if result.SecureURL == "" {
		if result.PublicID != "" {
			go a.discard(result.PublicID)
		}
		return nil, &service.AssetError{Kind: apperror.KindTransform, Message: "no transformed URL returned"}
	}

	return &service.ProcessedImage{URL: result.SecureURL, AssetID: result.PublicID}, nil
}

func (a *cloudinaryTransformer) Delete(ctx context.Context, assetID string) error {
	result, err := a.api.Destroy(ctx, uploader.DestroyParams{PublicID: assetID})
	if err != nil {
		return fmt.Errorf("failed to delete cloudinary: %w", err)
	}
	if result != nil && result.Error.Message != "" {
		return fmt.Errorf("failed to delete cloudinary: %s", result.Error.Message)
	}
	return nil
}

func (a *cloudinaryTransformer) discard(assetID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := a.Delete(ctx, assetID); err != nil {
		a.log.Warn("Failed to discard untransformed asset", zap.String("asset_id", assetID), zap.Error(err))
	}
}
