package storefront

import (
	"context"
	"fmt"
	"testing"

	"github.com/levelshop/backend/internal/domain/storefront"
	"github.com/levelshop/backend/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestBannerService_List(t *testing.T) {
	t.Run("stored banners", func(t *testing.T) {
		repo := new(MockOrderedRepository[storefront.BannerImage])
		stored := []storefront.BannerImage{{ID: "b1", URL: "u", Alt: "a", Order: 1}}
		repo.On("FindAll", mock.Anything).Return(stored, nil)

		assert.Equal(t, stored, NewBannerService(repo).List(context.Background()))
	})

	t.Run("store failure yields fallback banners", func(t *testing.T) {
		repo := new(MockOrderedRepository[storefront.BannerImage])
		repo.On("FindAll", mock.Anything).Return(nil, errStoreDown)

		assert.Equal(t, storefront.FallbackBanners(), NewBannerService(repo).List(context.Background()))
	})
}

func TestBannerService_ReplaceAll(t *testing.T) {
	repo := new(MockOrderedRepository[storefront.BannerImage])
	var saved []storefront.BannerImage
	repo.On("ReplaceAll", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { saved = args.Get(1).([]storefront.BannerImage) }).
		Return(nil)

	svc := NewBannerService(repo)
	svc.newID = func() string { return "generated" }

	got, err := svc.ReplaceAll(context.Background(), []storefront.BannerImage{
		{ID: "b1", URL: "https://img.example/1.jpg", Alt: "one", Order: 9},
		{ID: "b2", URL: "", Alt: "no url", Order: 1},
		{URL: "https://img.example/3.jpg", Alt: "three", Order: 4},
	})
	require.NoError(t, err)

	want := []storefront.BannerImage{
		{ID: "b1", URL: "https://img.example/1.jpg", Alt: "one", Order: 1},
		{ID: "generated", URL: "https://img.example/3.jpg", Alt: "three", Order: 2},
	}
	assert.Equal(t, want, got)
	assert.Equal(t, want, saved)
}

func TestNewsService_ReplaceAllRepeatedIDs(t *testing.T) {
	repo := new(MockOrderedRepository[storefront.NewsItem])
	var saved []storefront.NewsItem
	repo.On("ReplaceAll", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { saved = args.Get(1).([]storefront.NewsItem) }).
		Return(nil)

	svc := NewNewsService(repo)
	n := 0
	svc.newID = func() string {
		n++
		return fmt.Sprintf("gen-%d", n)
	}

	got, err := svc.ReplaceAll(context.Background(), []storefront.NewsItem{
		{ID: "x", Text: "first", Order: 7},
		{ID: "x", Text: "second", Order: 9},
		{ID: "y", Text: "third", Order: 1},
	})
	require.NoError(t, err)

	want := []storefront.NewsItem{
		{ID: "x", Text: "first", Order: 1},
		{ID: "gen-1", Text: "second", Order: 2},
		{ID: "y", Text: "third", Order: 3},
	}
	assert.Equal(t, want, got)
	assert.Equal(t, want, saved)
	assert.NoError(t, storefront.CheckSequence(saved))
}

func TestNewsService_ReplaceAllPropagatesErrors(t *testing.T) {
	repo := new(MockOrderedRepository[storefront.NewsItem])
	repo.On("ReplaceAll", mock.Anything, mock.Anything).Return(errStoreDown)

	reader := metric.NewManualReader()
	provider := metric.NewMeterProvider(metric.WithReader(reader))
	m, err := telemetry.NewStoreMetrics(provider.Meter("test"))
	require.NoError(t, err)

	_, err = NewNewsService(repo, WithMetrics(m)).ReplaceAll(context.Background(), []storefront.NewsItem{{Text: "hello"}})
	assert.ErrorIs(t, err, errStoreDown)
	assert.Contains(t, err.Error(), "news")

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	var failed int64
	for _, sm := range rm.ScopeMetrics {
		for _, md := range sm.Metrics {
			if sum, ok := md.Data.(metricdata.Sum[int64]); ok && md.Name == "levelshop.store.failed_writes" {
				for _, dp := range sum.DataPoints {
					failed += dp.Value
				}
			}
		}
	}
	assert.Equal(t, int64(1), failed)
}

func TestNewsService_List(t *testing.T) {
	repo := new(MockOrderedRepository[storefront.NewsItem])
	repo.On("FindAll", mock.Anything).Return(nil, errStoreDown)

	got := NewNewsService(repo).List(context.Background())
	assert.Equal(t, storefront.FallbackNews(), got)
}
