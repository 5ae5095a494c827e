// Package pinned decodes, normalizes, validates and encodes the pinned navigation list.
package pinned

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/jonesrussell/north-cloud/pinned-nav/internal/domain"
)

// Input is the decoded form of a stored option value: StructuredList or LegacyCSV.
type Input interface {
	refs() []domain.ContentRef
}

// Item is one entry of the structured encoding.
type Item struct {
	ID          ID     `json:"id"`
	CustomTitle string `json:"custom_title"`
}

// UnmarshalJSON accepts an object with id and custom_title, or a bare id.
func (it *Item) UnmarshalJSON(data []byte) error {
	*it = Item{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		return it.ID.UnmarshalJSON(data)
	}

	var raw struct {
		ID          ID              `json:"id"`
		CustomTitle json.RawMessage `json:"custom_title"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}
	it.ID = raw.ID
	_ = json.Unmarshal(raw.CustomTitle, &it.CustomTitle)
	return nil
}

// StructuredList is the canonical JSON array encoding.
type StructuredList []Item

func (s StructuredList) refs() []domain.ContentRef {
	refs := make([]domain.ContentRef, 0, len(s))
	for _, it := range s {
		refs = append(refs, domain.ContentRef{
			ContentID:     int64(it.ID),
			TitleOverride: strings.TrimSpace(it.CustomTitle),
		})
	}
	return refs
}

// LegacyCSV is the older comma-separated id encoding. It carries no overrides.
type LegacyCSV string

func (c LegacyCSV) refs() []domain.ContentRef {
	parts := strings.Split(string(c), ",")
	refs := make([]domain.ContentRef, 0, len(parts))
	for _, p := range parts {
		refs = append(refs, domain.ContentRef{ContentID: int64(ParseID(p))})
	}
	return refs
}

// Decode classifies a raw stored value.
//
// A JSON array decodes to StructuredList, where elements may be objects or bare
// ids. A JSON string decodes to LegacyCSV, as does any body that is not JSON at
// all. Objects and JSON literals decode to an empty StructuredList.
func Decode(raw []byte) Input {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return StructuredList{}
	}

	switch raw[0] {
	case '[':
		var list StructuredList
		if err := json.Unmarshal(raw, &list); err != nil {
			return StructuredList{}
		}
		return list
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return StructuredList{}
		}
		return LegacyCSV(s)
	case '{':
		return StructuredList{}
	}

	switch string(raw) {
	case "true", "false", "null":
		return StructuredList{}
	}
	return LegacyCSV(raw)
}

// Parse decodes raw and normalizes the result. It never fails.
func Parse(raw []byte) domain.ReferenceList {
	return Normalize(Decode(raw).refs())
}

// Normalize drops non-positive ids and later duplicates, keeping first-appearance order.
func Normalize(refs []domain.ContentRef) domain.ReferenceList {
	out := make(domain.ReferenceList, 0, len(refs))
	seen := make(map[int64]struct{}, len(refs))
	for _, ref := range refs {
		if ref.ContentID <= 0 {
			continue
		}
		if _, dup := seen[ref.ContentID]; dup {
			continue
		}
		seen[ref.ContentID] = struct{}{}
		out = append(out, ref)
	}
	return out
}
