package domain

// ContentRef points at a content item with an optional display title.
type ContentRef struct {
	ContentID     int64
	TitleOverride string
}

// ReferenceList is the ordered, curated navigation list.
type ReferenceList []ContentRef

// IDs returns the content ids in list order.
func (l ReferenceList) IDs() []int64 {
	ids := make([]int64, 0, len(l))
	for _, ref := range l {
		ids = append(ids, ref.ContentID)
	}
	return ids
}

// Len returns the number of references.
func (l ReferenceList) Len() int { return len(l) }

// IsEmpty reports whether the list holds no references.
func (l ReferenceList) IsEmpty() bool { return len(l) == 0 }

// RenderEntry is a resolved reference ready for display.
type RenderEntry struct {
	ContentID    int64  `json:"id"`
	DisplayTitle string `json:"title"`
	URL          string `json:"url"`
}
