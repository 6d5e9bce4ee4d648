package storefront

import "strings"

// BannerImage is one slide of the home page carousel
type BannerImage struct {
	ID    string `json:"id"`
	URL   string `json:"url"`
	Alt   string `json:"alt"`
	Order int    `json:"order"`
}

func (b BannerImage) RecordID() string { return b.ID }

func (b BannerImage) SortOrder() int { return b.Order }

// Complete requires both an image URL and its alt text
func (b BannerImage) Complete() bool {
	return strings.TrimSpace(b.URL) != "" && strings.TrimSpace(b.Alt) != ""
}

func (b BannerImage) Sequenced(id string, order int) BannerImage {
	b.ID = id
	b.Order = order
	b.URL = strings.TrimSpace(b.URL)
	b.Alt = strings.TrimSpace(b.Alt)
	return b
}
