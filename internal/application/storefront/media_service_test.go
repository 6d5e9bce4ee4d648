package storefront

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/levelshop/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestMediaService_UploadURL(t *testing.T) {
	t.Run("presigns under the kind prefix", func(t *testing.T) {
		store := new(MockImageStorage)
		expires := time.Now().Add(time.Minute)
		store.On("GenerateUploadURL", mock.Anything, mock.MatchedBy(func(key string) bool {
			return strings.HasPrefix(key, "banners/") && strings.HasSuffix(key, ".png")
		}), "image/png", 10*time.Minute).Return("https://s3.example/put", expires, nil)

		got, err := NewMediaService(store, 10*time.Minute).UploadURL(context.Background(), UploadURLRequest{
			Kind: "banners", FileName: "hero.PNG", ContentType: "Image/PNG",
		})
		require.NoError(t, err)
		assert.Equal(t, "https://s3.example/put", got.UploadURL)
		assert.Equal(t, "https://cdn.example/"+got.Key, got.PublicURL)
		assert.Equal(t, expires, got.ExpiresAt)
		store.AssertExpectations(t)
	})

	t.Run("rejects non-image content", func(t *testing.T) {
		_, err := NewMediaService(new(MockImageStorage), 0).UploadURL(context.Background(), UploadURLRequest{
			Kind: "accounts", FileName: "x.svg", ContentType: "image/svg+xml",
		})
		de, ok := shared.AsDomainError(err)
		require.True(t, ok)
		assert.Equal(t, "INVALID_CONTENT_TYPE", de.Code)
	})

	t.Run("rejects unknown kind", func(t *testing.T) {
		_, err := NewMediaService(new(MockImageStorage), 0).UploadURL(context.Background(), UploadURLRequest{
			Kind: "avatars", FileName: "x.png", ContentType: "image/png",
		})
		de, ok := shared.AsDomainError(err)
		require.True(t, ok)
		assert.Equal(t, "INVALID_KIND", de.Code)
	})

	t.Run("storage error propagates", func(t *testing.T) {
		store := new(MockImageStorage)
		store.On("GenerateUploadURL", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return("", time.Time{}, errStoreDown)

		_, err := NewMediaService(store, 0).UploadURL(context.Background(), UploadURLRequest{
			Kind: "accounts", FileName: "x.jpg", ContentType: "image/jpeg",
		})
		assert.ErrorIs(t, err, errStoreDown)
	})
}
