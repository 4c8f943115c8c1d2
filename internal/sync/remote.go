// Package sync bridges user intents to the remote todo store. It keeps a
// cache of list snapshots keyed by filter, applies speculative edits
// before the remote call resolves, and reconciles (commit or roll back)
// when the call settles. Consistency comes from invalidating every list
// variant on settle and refetching, never from merging deltas.
package sync

import (
	"context"

	"todomon/internal/models"
	"todomon/internal/storage"
)

// Remote is the remote-like interface the synchronizer mutates against.
// The HTTP client satisfies it; StoreRemote adapts an in-process store.
type Remote interface {
	List(ctx context.Context, filter models.Filter) ([]models.Todo, error)
	Create(ctx context.Context, todo models.Todo) (models.Todo, error)
	Update(ctx context.Context, todo models.Todo) (models.Todo, error)
	DeleteOne(ctx context.Context, id string) (models.Todo, error)
	DeleteMany(ctx context.Context, filter models.Filter) ([]models.Todo, error)
	Move(ctx context.Context, fromID, toID string) ([]models.Todo, error)
}

// StoreRemote adapts a storage.Store to the Remote interface so the
// synchronizer can run against an in-process store without a transport.
type StoreRemote struct {
	Store storage.Store
}

func (r StoreRemote) List(_ context.Context, filter models.Filter) ([]models.Todo, error) {
	return r.Store.List(filter)
}

func (r StoreRemote) Create(_ context.Context, todo models.Todo) (models.Todo, error) {
	return r.Store.Create(todo)
}

func (r StoreRemote) Update(_ context.Context, todo models.Todo) (models.Todo, error) {
	return r.Store.Update(todo)
}

func (r StoreRemote) DeleteOne(_ context.Context, id string) (models.Todo, error) {
	return r.Store.DeleteOne(id)
}

func (r StoreRemote) DeleteMany(_ context.Context, filter models.Filter) ([]models.Todo, error) {
	return r.Store.DeleteMany(filter)
}

func (r StoreRemote) Move(_ context.Context, fromID, toID string) ([]models.Todo, error) {
	return r.Store.Move(fromID, toID)
}
