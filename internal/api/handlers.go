package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jonesrussell/north-cloud/pinned-nav/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/pinned-nav/internal/curation"
	"github.com/jonesrussell/north-cloud/pinned-nav/internal/domain"
	"github.com/jonesrussell/north-cloud/pinned-nav/internal/navigation"
	"github.com/jonesrussell/north-cloud/pinned-nav/internal/nonce"
	"github.com/jonesrussell/north-cloud/pinned-nav/internal/pinned"
)

const msgInvalidBody = "Invalid request body"

// Handler serves the curation and navigation endpoints.
type Handler struct {
	curation   *curation.Service
	navigation *navigation.Provider
	nonces     *nonce.Issuer
	log        logger.Logger
}

// NewHandler creates a Handler.
func NewHandler(svc *curation.Service, nav *navigation.Provider, nonces *nonce.Issuer, log logger.Logger) *Handler {
	return &Handler{curation: svc, navigation: nav, nonces: nonces, log: log}
}

type searchRequest struct {
	Query string `json:"query"`
}

type lookupRequest struct {
	ID pinned.ID `json:"id"`
}

// bindOptionalJSON binds the body into dst; an empty body leaves dst zero.
func bindOptionalJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil && !errors.Is(err, io.EOF) {
		respondError(c, http.StatusBadRequest, msgInvalidBody)
		return false
	}
	return true
}

// Nonces issues one token per protected action.
// GET /api/v1/pinned-nav/nonces
func (h *Handler) Nonces(c *gin.Context) {
	p := principal(c)
	if !p.Can(curation.CapabilityEditNavigation) {
		respondError(c, http.StatusForbidden, msgUnauthorized)
		return
	}

	h.log.Debug("Issuing curation nonces", logger.String("subject", p.Subject))
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"nonces": gin.H{
			"search": h.nonces.Create(p.Subject, nonce.ActionSearch),
			"save":   h.nonces.Create(p.Subject, nonce.ActionSave),
			"lookup": h.nonces.Create(p.Subject, nonce.ActionLookup),
		},
	})
}

// Search returns pinnable candidates for a free-text query.
// POST /api/v1/pinned-nav/search
func (h *Handler) Search(c *gin.Context) {
	var req searchRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	candidates, err := h.curation.Search(c.Request.Context(), principal(c), req.Query)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"candidates": candidates,
	})
}

// Save replaces the pinned list.
// POST /api/v1/pinned-nav/items
func (h *Handler) Save(c *gin.Context) {
	var req curation.SaveRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	ack, err := h.curation.Save(c.Request.Context(), principal(c), req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"saved_count": ack.SavedCount,
		"revision":    ack.Revision,
	})
}

// Items returns the stored list with live item details.
// GET /api/v1/pinned-nav/items
func (h *Handler) Items(c *gin.Context) {
	items, revision, err := h.curation.Current(c.Request.Context(), principal(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"items":    items,
		"revision": revision,
	})
}

// Lookup returns one item by id so it can be added to the list.
// POST /api/v1/pinned-nav/lookup
func (h *Handler) Lookup(c *gin.Context) {
	var req lookupRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	candidate, err := h.curation.Lookup(c.Request.Context(), principal(c), int64(req.ID))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"candidate": candidate,
	})
}

// PublicPinned serves the resolved navigation to the public site.
// A storage failure renders no pinned items rather than failing the page.
// GET /api/v1/navigation/pinned
func (h *Handler) PublicPinned(c *gin.Context) {
	entries, err := h.navigation.Pinned(c.Request.Context())
	if err != nil {
		logger.FromContext(c.Request.Context()).Error("Failed to load pinned navigation", logger.Error(err))
		entries = []domain.RenderEntry{}
	}

	c.JSON(http.StatusOK, gin.H{"items": entries})
}
