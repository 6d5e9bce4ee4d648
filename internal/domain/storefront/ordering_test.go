package storefront

import (
	"fmt"
	"testing"

	"github.com/levelshop/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("new-%d", n)
	}
}

func TestResequence_Banners(t *testing.T) {
	in := []BannerImage{
		{ID: "b1", URL: "https://img/1.jpg", Alt: "one", Order: 7},
		{ID: "b2", URL: "", Alt: "no url", Order: 1},
		{URL: "https://img/3.jpg", Alt: "three", Order: 3},
		{ID: "b4", URL: "https://img/4.jpg", Alt: "  ", Order: 2},
		{ID: "b5", URL: " https://img/5.jpg ", Alt: "five", Order: 42},
	}

	got := Resequence(in, sequentialIDs())

	assert.Equal(t, []BannerImage{
		{ID: "b1", URL: "https://img/1.jpg", Alt: "one", Order: 1},
		{ID: "new-1", URL: "https://img/3.jpg", Alt: "three", Order: 2},
		{ID: "b5", URL: "https://img/5.jpg", Alt: "five", Order: 3},
	}, got)
}

func TestResequence_News(t *testing.T) {
	in := []NewsItem{
		{ID: "n1", Text: "", Order: 1},
		{ID: "n2", Text: "second", Order: 9},
		{ID: "n3", Text: "third", Order: 9},
	}

	got := Resequence(in, sequentialIDs())

	assert.Equal(t, []NewsItem{
		{ID: "n2", Text: "second", Order: 1},
		{ID: "n3", Text: "third", Order: 2},
	}, got)
}

func TestResequence_Empty(t *testing.T) {
	got := Resequence([]NewsItem{{Text: " "}}, sequentialIDs())
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestResequence_RepeatedIDs(t *testing.T) {
	in := []NewsItem{
		{ID: "x", Text: "first", Order: 7},
		{ID: "x", Text: "second", Order: 9},
		{ID: "y", Text: "third", Order: 1},
	}

	got := Resequence(in, sequentialIDs())

	assert.Equal(t, []NewsItem{
		{ID: "x", Text: "first", Order: 1},
		{ID: "new-1", Text: "second", Order: 2},
		{ID: "y", Text: "third", Order: 3},
	}, got)
	assert.NoError(t, CheckSequence(got))
}

func TestResequence_GeneratedIDSkipsSupplied(t *testing.T) {
	in := []NewsItem{
		{Text: "first"},
		{ID: "new-1", Text: "second"},
	}

	got := Resequence(in, sequentialIDs())

	assert.Equal(t, []NewsItem{
		{ID: "new-2", Text: "first", Order: 1},
		{ID: "new-1", Text: "second", Order: 2},
	}, got)
}

func TestCheckSequence(t *testing.T) {
	tests := []struct {
		name    string
		records []NewsItem
		wantErr bool
	}{
		{"empty", nil, false},
		{"contiguous", []NewsItem{{ID: "a", Order: 1}, {ID: "b", Order: 2}}, false},
		{"any row order", []NewsItem{{ID: "b", Order: 2}, {ID: "a", Order: 1}}, false},
		{"repeated order", []NewsItem{{ID: "a", Order: 1}, {ID: "b", Order: 1}}, true},
		{"missing id", []NewsItem{{ID: "a", Order: 1}, {Order: 2}}, true},
		{"repeated id", []NewsItem{{ID: "a", Order: 1}, {ID: "a", Order: 2}}, true},
		{"order gap", []NewsItem{{ID: "a", Order: 1}, {ID: "b", Order: 3}}, true},
		{"starts at zero", []NewsItem{{ID: "a", Order: 0}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckSequence(tt.records)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			var domainErr *shared.DomainError
			require.ErrorAs(t, err, &domainErr)
			assert.Equal(t, "INVALID_SEQUENCE", domainErr.Code)
		})
	}
}
