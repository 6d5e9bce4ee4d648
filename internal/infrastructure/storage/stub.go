package storage

import (
	"context"
	"strings"
	"time"

	storefrontapp "github.com/levelshop/backend/internal/application/storefront"
)

// StubImageStorage hands out fake upload URLs for local development when
// no object store is configured. Nothing is ever stored.
type StubImageStorage struct {
	// BaseURL prefixes every generated URL.
	// Defaults to "https://storage.example.com" if not set
	BaseURL string
}

// NewStubImageStorage creates a new StubImageStorage
func NewStubImageStorage(baseURL string) *StubImageStorage {
	if baseURL == "" {
		baseURL = "https://storage.example.com"
	}
	return &StubImageStorage{BaseURL: strings.TrimRight(baseURL, "/")}
}

var _ storefrontapp.ImageStorage = (*StubImageStorage)(nil)

// GenerateUploadURL returns a stub upload URL for key
func (s *StubImageStorage) GenerateUploadURL(
	_ context.Context,
	key, _ string,
	expiresIn time.Duration,
) (string, time.Time, error) {
	if key == "" {
		return "", time.Time{}, errEmptyKey
	}

	expiresAt := time.Now().Add(expiresIn)
	url := s.BaseURL + "/upload/" + key + "?expires=" + expiresAt.Format(time.RFC3339)

	return url, expiresAt, nil
}

// PublicURL returns the stub address of key
func (s *StubImageStorage) PublicURL(key string) string {
	return s.BaseURL + "/" + strings.TrimLeft(key, "/")
}
