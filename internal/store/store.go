package store

import (
	"context"
	"sync"
)

// Store persists the whole document. Load on a fresh backend materializes
// and persists the seed document; Save replaces prior content entirely.
type Store interface {
	Load(ctx context.Context) (*Document, error)
	Save(ctx context.Context, doc *Document) error
}

// Guard serializes load-mutate-save cycles against a Store. The original
// system let concurrent writers race (last save wins); the mutex makes each
// cycle one critical section without changing single-request semantics.
type Guard struct {
	mu    sync.Mutex
	store Store
}

// NewGuard wraps a store.
func NewGuard(s Store) *Guard {
	return &Guard{store: s}
}

// View loads the document and passes it to fn. Mutations made by fn are
// discarded; use Update to persist.
func (g *Guard) View(ctx context.Context, fn func(doc *Document) error) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	doc, err := g.store.Load(ctx)
	if err != nil {
		return err
	}
	return fn(doc)
}

// Update loads the document, applies fn and saves once. If fn returns an
// error nothing is persisted.
func (g *Guard) Update(ctx context.Context, fn func(doc *Document) error) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	doc, err := g.store.Load(ctx)
	if err != nil {
		return err
	}
	if err := fn(doc); err != nil {
		return err
	}
	return g.store.Save(ctx, doc)
}
