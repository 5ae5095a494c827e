package curation

import (
	"slices"

	"github.com/jonesrussell/north-cloud/pinned-nav/internal/domain"
	"github.com/jonesrussell/north-cloud/pinned-nav/internal/pinned"
)

// CapabilityEditNavigation is required for every curation operation.
const CapabilityEditNavigation = "edit_theme_options"

// DefaultOptionKey is the option the pinned list is stored under.
const DefaultOptionKey = "pinned_nav_items"

// Principal is the authenticated caller.
type Principal struct {
	Subject      string
	Capabilities []string
}

// Can reports whether the principal holds capability.
func (p Principal) Can(capability string) bool {
	return slices.Contains(p.Capabilities, capability)
}

// SaveItem is one submitted row. ID decodes leniently, see pinned.ID.
type SaveItem struct {
	ID          pinned.ID `json:"id"`
	CustomTitle string    `json:"custom_title"`
}

// SaveRequest replaces the pinned list.
// When Revision is set the write only succeeds if the stored revision still matches.
type SaveRequest struct {
	Items    []SaveItem `json:"items"`
	Revision *int64     `json:"revision,omitempty"`
}

// SaveAck reports the outcome of a save.
type SaveAck struct {
	SavedCount int   `json:"saved_count"`
	Revision   int64 `json:"revision"`
}

// AdminItem is a stored reference as shown on the curation screen.
type AdminItem struct {
	ID          int64              `json:"id"`
	CustomTitle string             `json:"custom_title"`
	Title       string             `json:"title,omitempty"`
	URL         string             `json:"url,omitempty"`
	Type        domain.ContentType `json:"type,omitempty"`
	Status      domain.Status      `json:"status,omitempty"`
	// Available is true when the reference would currently render.
	Available bool `json:"available"`
}
