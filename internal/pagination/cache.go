// Package pagination keeps a lazily fetched, cursor-addressed page of a
// remote advertisement list.
package pagination

import (
	"context"
	"fmt"

	"github.com/larriantoniy/pethome_bot/internal/domain"
)

// Fetcher loads one 1-based page. An empty result means "no more items",
// an error means the remote call itself failed.
type Fetcher func(ctx context.Context, page int) ([]domain.Advertisement, error)

// Cache moves a domain.Window over the pages served by fetch.
// Every method returns the window to bind; on error the caller keeps the
// one it already has.
type Cache struct {
	scope domain.Scope
	fetch Fetcher
}

func New(scope domain.Scope, fetch Fetcher) Cache {
	return Cache{scope: scope, fetch: fetch}
}

// Ensure returns w if it already browses this scope, otherwise page 1.
func (c Cache) Ensure(ctx context.Context, w *domain.Window) (*domain.Window, error) {
	if w != nil && w.Scope == c.scope {
		return w, nil
	}
	return c.load(ctx, 1)
}

// Advance moves the cursor forward, fetching the next page at the end of
// the current one. An empty next page leaves the window unchanged.
func (c Cache) Advance(ctx context.Context, w *domain.Window) (*domain.Window, error) {
	if w == nil {
		return c.Ensure(ctx, nil)
	}
	if w.Cursor+1 < len(w.Items) {
		next := w.Clone()
		next.Cursor++
		return &next, nil
	}
	items, err := c.get(ctx, w.Page+1)
	if err != nil {
		return w, err
	}
	if len(items) == 0 {
		return w, nil
	}
	return &domain.Window{Scope: c.scope, Page: w.Page + 1, Items: items}, nil
}

// Retreat moves the cursor back, fetching the previous page at the start
// of the current one. On page 1 cursor 0 it is a no-op.
func (c Cache) Retreat(ctx context.Context, w *domain.Window) (*domain.Window, error) {
	if w == nil {
		return c.Ensure(ctx, nil)
	}
	if w.Cursor-1 >= 0 {
		prev := w.Clone()
		prev.Cursor--
		return &prev, nil
	}
	if w.Page <= 1 {
		return w, nil
	}
	return c.load(ctx, w.Page-1)
}

// Invalidate drops w if it browses this scope; the next Ensure fetches
// page 1 again.
func (c Cache) Invalidate(w *domain.Window) *domain.Window {
	if w != nil && w.Scope == c.scope {
		return nil
	}
	return w
}

// Current returns the focused advertisement, false for an empty or
// missing window.
func Current(w *domain.Window) (domain.Advertisement, bool) {
	if w == nil || len(w.Items) == 0 {
		return domain.Advertisement{}, false
	}
	return w.Items[w.Cursor], true
}

func (c Cache) load(ctx context.Context, page int) (*domain.Window, error) {
	items, err := c.get(ctx, page)
	if err != nil {
		return nil, err
	}
	return &domain.Window{Scope: c.scope, Page: page, Items: items}, nil
}

func (c Cache) get(ctx context.Context, page int) ([]domain.Advertisement, error) {
	items, err := c.fetch(ctx, page)
	if err != nil {
		return nil, fmt.Errorf("fetch %s page %d: %w", c.scope, page, err)
	}
	if len(items) > domain.PageSize {
		items = items[:domain.PageSize]
	}
	return items, nil
}
