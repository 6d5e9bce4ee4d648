package storefront

import "strings"

// NewsItem is one entry of the scrolling news ticker
type NewsItem struct {
	ID    string `json:"id"`
	Text  string `json:"text"`
	Order int    `json:"order"`
}

func (n NewsItem) RecordID() string { return n.ID }

func (n NewsItem) SortOrder() int { return n.Order }

func (n NewsItem) Complete() bool {
	return strings.TrimSpace(n.Text) != ""
}

func (n NewsItem) Sequenced(id string, order int) NewsItem {
	n.ID = id
	n.Order = order
	n.Text = strings.TrimSpace(n.Text)
	return n
}
