package store

import (
	"context"
	"sync"

	"partstock/internal/core/apperror"
)

// Factory builds an unloaded store for a branch session.
type Factory func() *Store

// entry tracks one branch store together with its initial load. ready
// is closed once the load finishes; err holds the load outcome.
type entry struct {
	store *Store
	ready chan struct{}
	err   error
}

// Registry keeps one loaded catalog store per branch so multi-branch
// views can coexist without ambient module state.
type Registry struct {
	mu      sync.Mutex
	factory Factory
	entries map[string]*entry
}

// NewRegistry creates a registry around the given factory.
func NewRegistry(factory Factory) *Registry {
	return &Registry{
		factory: factory,
		entries: make(map[string]*entry),
	}
}

// ForBranch returns the store for branchID, loading its catalog on
// first use. Concurrent callers for an unloaded branch all wait for
// the one initial load, so nobody observes an empty catalog.
func (r *Registry) ForBranch(ctx context.Context, branchID string) (*Store, error) {
	if branchID == "" {
		return nil, apperror.NewValidation("branch id is required").
			WithDetail("field", "branch")
	}

	r.mu.Lock()
	e, ok := r.entries[branchID]
	if !ok {
		e = &entry{store: r.factory(), ready: make(chan struct{})}
		r.entries[branchID] = e
	}
	r.mu.Unlock()

	if !ok {
		e.err = r.load(ctx, e.store, branchID)
		close(e.ready)
		if e.err != nil {
			r.mu.Lock()
			delete(r.entries, branchID)
			r.mu.Unlock()
			return nil, e.err
		}
		return e.store, nil
	}

	select {
	case <-e.ready:
	case <-ctx.Done():
		return nil, apperror.NewTimeout("waiting for branch catalog load").
			WithCause(ctx.Err())
	}
	if e.err != nil {
		return nil, e.err
	}
	return e.store, nil
}

// load runs the initial catalog load. A stale-branch result means a
// concurrent load already superseded this one, which still leaves the
// store populated.
func (r *Registry) load(ctx context.Context, s *Store, branchID string) error {
	if err := s.LoadCatalog(ctx, branchID); err != nil && !apperror.IsStaleBranch(err) {
		return err
	}
	return nil
}

// Reload forces a fresh catalog load for a branch.
func (r *Registry) Reload(ctx context.Context, branchID string) (*Store, error) {
	s, err := r.ForBranch(ctx, branchID)
	if err != nil {
		return nil, err
	}
	if err := s.LoadCatalog(ctx, branchID); err != nil && !apperror.IsStaleBranch(err) {
		return nil, err
	}
	return s, nil
}
