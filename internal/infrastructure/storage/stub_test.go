package storage

import (
	"context"
	"testing"
	"time"

	"github.com/levelshop/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewStubImageStorage(t *testing.T) {
	assert.Equal(t, "https://storage.example.com", NewStubImageStorage("").BaseURL)
	assert.Equal(t, "http://localhost:8080/media", NewStubImageStorage("http://localhost:8080/media/").BaseURL)
}

func TestStubImageStorage_GenerateUploadURL(t *testing.T) {
	s := NewStubImageStorage("")
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		url, expiresAt, err := s.GenerateUploadURL(ctx, "banners/file.jpg", "image/jpeg", 15*time.Minute)
		require.NoError(t, err)
		assert.Contains(t, url, "https://storage.example.com/upload/banners/file.jpg")
		assert.True(t, expiresAt.After(time.Now()))
	})

	t.Run("empty key", func(t *testing.T) {
		_, _, err := s.GenerateUploadURL(ctx, "", "image/jpeg", 15*time.Minute)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "storage key is required")
	})
}

func TestStubImageStorage_PublicURL(t *testing.T) {
	s := NewStubImageStorage("")
	assert.Equal(t, "https://storage.example.com/accounts/x.png", s.PublicURL("accounts/x.png"))
}

func TestNew(t *testing.T) {
	ctx := context.Background()

	t.Run("stub by default", func(t *testing.T) {
		s, err := New(ctx, config.StorageConfig{}, zap.NewNop())
		require.NoError(t, err)
		assert.IsType(t, &StubImageStorage{}, s)
	})

	t.Run("s3 config errors surface", func(t *testing.T) {
		_, err := New(ctx, config.StorageConfig{Type: "s3"}, zap.NewNop())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "missing bucket")
	})

	t.Run("unknown type", func(t *testing.T) {
		_, err := New(ctx, config.StorageConfig{Type: "ftp"}, zap.NewNop())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported storage type")
	})
}
