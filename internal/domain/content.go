// Package domain holds the types shared by the pinned navigation packages.
package domain

import "slices"

// ContentType identifies the kind of content item.
type ContentType string

const (
	ContentTypeArticle ContentType = "article"
	ContentTypePage    ContentType = "page"
	ContentTypeGuide   ContentType = "guide"
)

// PinnableTypes are the content types that may be pinned.
var PinnableTypes = []ContentType{ContentTypeArticle, ContentTypePage, ContentTypeGuide}

// Status is the publication state of a content item.
type Status string

const (
	StatusPublish Status = "publish"
	StatusDraft   Status = "draft"
	StatusPending Status = "pending"
	StatusPrivate Status = "private"
	StatusTrash   Status = "trash"
)

// ContentMeta is what the content store knows about one item.
type ContentMeta struct {
	ID     int64       `db:"id"           json:"id"`
	Title  string      `db:"title"        json:"title"`
	URL    string      `db:"url"          json:"url"`
	Type   ContentType `db:"content_type" json:"type"`
	Status Status      `db:"status"       json:"status"`
}

// Visible reports whether the item may appear on the public site.
func (m *ContentMeta) Visible() bool {
	return m.Status == StatusPublish
}

// Candidate converts the item to a search result.
func (m *ContentMeta) Candidate() Candidate {
	return Candidate{ID: m.ID, Title: m.Title, URL: m.URL, Type: m.Type}
}

// Candidate is a search result offered to the curator.
type Candidate struct {
	ID    int64       `db:"id"           json:"id"`
	Title string      `db:"title"        json:"title"`
	URL   string      `db:"url"          json:"url"`
	Type  ContentType `db:"content_type" json:"type"`
}

// SearchQuery describes a content search.
type SearchQuery struct {
	Query string
	Types []ContentType
	Limit int
}

// TypeNames returns the query types as strings.
func (q SearchQuery) TypeNames() []string {
	names := make([]string, 0, len(q.Types))
	for _, t := range q.Types {
		names = append(names, string(t))
	}
	return names
}

// IsPinnable reports whether t is one of PinnableTypes.
func IsPinnable(t ContentType) bool {
	return slices.Contains(PinnableTypes, t)
}
