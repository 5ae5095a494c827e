package pinned

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jonesrussell/north-cloud/pinned-nav/internal/domain"
)

// ExistenceChecker reports whether a content item exists.
type ExistenceChecker interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// Validate keeps the references whose targets exist, in order.
// Any store failure aborts the whole validation with domain.ErrStoreUnavailable.
func Validate(ctx context.Context, list domain.ReferenceList, store ExistenceChecker) (domain.ReferenceList, error) {
	out := make(domain.ReferenceList, 0, len(list))
	for _, ref := range list {
		if ref.ContentID <= 0 {
			continue
		}
		ok, err := store.Exists(ctx, ref.ContentID)
		if err != nil {
			return nil, fmt.Errorf("check content %d: %w: %w", ref.ContentID, domain.ErrStoreUnavailable, err)
		}
		if ok {
			out = append(out, ref)
		}
	}
	return out, nil
}

type storedItem struct {
	ID          int64  `json:"id"`
	CustomTitle string `json:"custom_title"`
}

// Encode returns the canonical JSON encoding of list.
func Encode(list domain.ReferenceList) ([]byte, error) {
	items := make([]storedItem, 0, len(list))
	for _, ref := range list {
		items = append(items, storedItem{ID: ref.ContentID, CustomTitle: ref.TitleOverride})
	}
	data, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("encode pinned list: %w", err)
	}
	return data, nil
}
