package storefront

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/levelshop/backend/internal/domain/shared"
	"github.com/levelshop/backend/internal/infrastructure/telemetry"
)

// imageExtensions maps accepted upload content types to the extension of
// the stored object. SVG is excluded; it can carry script.
var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
	"image/avif": ".avif",
}

// ImageStorage issues upload URLs for storefront images
type ImageStorage interface {
	// GenerateUploadURL presigns a PUT of key with the given content type
	GenerateUploadURL(ctx context.Context, key, contentType string, expiresIn time.Duration) (string, time.Time, error)

	// PublicURL is where key is served from after upload
	PublicURL(key string) string
}

// MediaService hands out upload URLs for banner and account images
type MediaService struct {
	storage ImageStorage
	expiry  time.Duration
	serviceDeps
}

// NewMediaService creates a MediaService whose upload URLs live for expiry
func NewMediaService(storage ImageStorage, expiry time.Duration, opts ...Option) *MediaService {
	if expiry <= 0 {
		expiry = 15 * time.Minute
	}
	return &MediaService{storage: storage, expiry: expiry, serviceDeps: newServiceDeps(opts)}
}

// UploadURL validates the requested image and presigns its upload under
// <kind>/<uuid><ext>
func (s *MediaService) UploadURL(ctx context.Context, req UploadURLRequest) (*UploadURLResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, CollectionMedia, "upload_url", "kind", req.Kind)
	defer span.End()

	if req.Kind != CollectionBanners && req.Kind != CollectionAccounts {
		return nil, shared.NewDomainError("INVALID_KIND", fmt.Sprintf("Unknown image kind %q", req.Kind))
	}
	contentType := strings.ToLower(strings.TrimSpace(req.ContentType))
	ext, ok := imageExtensions[contentType]
	if !ok {
		return nil, shared.NewDomainError("INVALID_CONTENT_TYPE", fmt.Sprintf("Content type %q is not an accepted image type", req.ContentType))
	}

	key := path.Join(req.Kind, uuid.NewString()+ext)
	uploadURL, expiresAt, err := s.storage.GenerateUploadURL(ctx, key, contentType, s.expiry)
	if err != nil {
		s.failed(ctx, span, CollectionMedia, "upload_url", err)
		return nil, fmt.Errorf("failed to presign upload: %w", err)
	}

	return &UploadURLResponse{
		UploadURL: uploadURL,
		PublicURL: s.storage.PublicURL(key),
		Key:       key,
		ExpiresAt: expiresAt,
	}, nil
}
