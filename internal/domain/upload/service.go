package upload

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/inkmatch/inkmatch-api/internal/pkg/clock"
	"github.com/inkmatch/inkmatch-api/internal/pkg/storage"
)

// Presigned URLs stay valid long enough for a mobile upload on a slow
// connection, no longer.
const presignTTL = 15 * time.Minute

var extByContentType = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// Service issues presigned upload URLs. Files go straight from the
// client to the bucket; the API only hands out keys.
type Service struct {
	storage *storage.R2Storage
	clk     clock.Clock
}

// NewService creates upload service
func NewService(st *storage.R2Storage, clk clock.Clock) *Service {
	if clk == nil {
		clk = clock.Real()
	}
	return &Service{storage: st, clk: clk}
}

// Presign returns a presigned PUT URL for the given purpose
func (s *Service) Presign(ctx context.Context, userID uuid.UUID, req *PresignRequest) (*PresignResponse, error) {
	ext := extByContentType[req.ContentType]
	if ext == "" {
		ext = strings.ToLower(filepath.Ext(req.FileName))
	}

	key := fmt.Sprintf("%s/%s/%s%s", req.Purpose, userID.String(), uuid.New().String(), ext)

	uploadURL, err := s.storage.PresignPut(ctx, key, req.ContentType, presignTTL)
	if err != nil {
		return nil, err
	}

	return &PresignResponse{
		Key:       key,
		UploadURL: uploadURL,
		PublicURL: s.storage.GetURL(key),
		ExpiresAt: s.clk.Now().Add(presignTTL).Format(time.RFC3339),
	}, nil
}

// Delete removes an object the user owns. Keys embed the owner's id as
// the second path segment.
func (s *Service) Delete(ctx context.Context, userID uuid.UUID, key string) error {
	parts := strings.Split(key, "/")
	if len(parts) < 3 || parts[1] != userID.String() {
		return ErrNotObjectOwner
	}
	return s.storage.Delete(ctx, key)
}
