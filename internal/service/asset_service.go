package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/brandkit/api/internal/client"
	"github.com/brandkit/api/internal/model"
)

const mockCDNBaseURL = "https://cdn.mock.brandkit.dev"

// AssetService stores generated logos in object storage
type AssetService struct {
	storage client.StorageClient
	now     func() time.Time
}

// NewAssetService creates a new asset service
func NewAssetService(storage client.StorageClient) *AssetService {
	return &AssetService{
		storage: storage,
		now:     time.Now,
	}
}

// StoreLogo uploads a logo under the user's namespace and returns its
// public URL and object key. Failures are *model.GenerationError in the
// storage stage.
func (s *AssetService) StoreLogo(ctx context.Context, userID string, img *client.Image) (string, string, error) {
	key := s.logoKey(userID, img.ContentType)

	// Use mock response if client is not configured
	if s.storage == nil {
		return fmt.Sprintf("%s/%s", mockCDNBaseURL, key), key, nil
	}

	logoURL, err := s.storage.Upload(ctx, key, bytes.NewReader(img.Data), img.ContentType)
	if err != nil {
		return "", key, model.NewGenerationError(model.StageStorage, model.KindStorageUploadFailed, err)
	}
	return logoURL, key, nil
}

// logoKey builds logos/<userId>/<unixMillis>-<uuid>.<ext>
func (s *AssetService) logoKey(userID, contentType string) string {
	return fmt.Sprintf("logos/%s/%d-%s%s",
		keySegment(userID), s.now().UnixMilli(), uuid.New().String(), extensionFor(contentType))
}

// keySegment maps a user id onto [A-Za-z0-9._-] so the object key and its
// public URL path are the same string.
func keySegment(userID string) string {
	seg := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.' || r == '_' || r == '-':
			return r
		}
		return '_'
	}, userID)
	if strings.Trim(seg, ".") == "" {
		return "_"
	}
	return seg
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	}
	return ".png"
}
