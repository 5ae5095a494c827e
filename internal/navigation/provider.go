// Package navigation serves the pinned navigation to render-time consumers.
package navigation

import (
	"context"
	"errors"
	"fmt"

	"github.com/jonesrussell/north-cloud/pinned-nav/internal/domain"
	"github.com/jonesrussell/north-cloud/pinned-nav/internal/options"
	"github.com/jonesrussell/north-cloud/pinned-nav/internal/pinned"
	"github.com/jonesrussell/north-cloud/pinned-nav/internal/resolver"
)

// Provider loads, parses and resolves the stored pinned list.
type Provider struct {
	store     options.Store
	resolver  *resolver.Resolver
	optionKey string
}

// NewProvider creates a Provider reading optionKey.
func NewProvider(store options.Store, r *resolver.Resolver, optionKey string) *Provider {
	return &Provider{store: store, resolver: r, optionKey: optionKey}
}

// Pinned returns the entries to render. A list that was never saved yields no entries.
func (p *Provider) Pinned(ctx context.Context) ([]domain.RenderEntry, error) {
	list, err := p.List(ctx)
	if err != nil {
		return nil, err
	}
	return p.resolver.Resolve(ctx, list), nil
}

// List returns the stored references without resolving them.
func (p *Provider) List(ctx context.Context) (domain.ReferenceList, error) {
	value, err := p.store.Get(ctx, p.optionKey)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ReferenceList{}, nil
		}
		return nil, fmt.Errorf("load pinned list: %w", err)
	}
	return pinned.Parse(value.Raw), nil
}
