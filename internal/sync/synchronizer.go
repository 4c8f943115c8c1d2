package sync

import (
	"context"

	"todomon/internal/models"
	"todomon/internal/notify"

	"github.com/sirupsen/logrus"
)

// Synchronizer bridges UI intents to remote store operations, hiding
// perceived latency with optimistic snapshot edits and recovering
// consistency on failure.
//
// Each mutation runs one cycle per its originating filter key:
//
//	lock key -> capture snapshot -> optimistic apply -> remote call ->
//	rollback on failure -> invalidate all list variants
//
// The lock is held across the whole cycle, so overlapping mutations of
// one view serialize their capture and restore. Failed mutations are
// never retried; the error is surfaced to the caller unchanged.
type Synchronizer struct {
	remote   Remote
	cache    *Cache
	notifier *notify.Notifier
	logger   *logrus.Logger

	// OnSettled, when set, is called after every mutation reconciles.
	// It runs on the mutating goroutine and must not assume the view
	// that triggered the mutation still exists.
	OnSettled func(op string, err error)
}

// New creates a Synchronizer. notifier may be nil when no user-facing
// feedback channel is wired.
func New(remote Remote, cache *Cache, notifier *notify.Notifier, logger *logrus.Logger) *Synchronizer {
	if logger == nil {
		logger = logrus.New()
	}
	return &Synchronizer{
		remote:   remote,
		cache:    cache,
		notifier: notifier,
		logger:   logger,
	}
}

// Todos returns the snapshot for the filtered list view, fetching from
// the remote when the cached variant is missing or stale.
func (s *Synchronizer) Todos(ctx context.Context, filter models.Filter) ([]models.Todo, error) {
	return s.cache.Get(ctx, ListKey(filter), func(ctx context.Context) ([]models.Todo, error) {
		return s.remote.List(ctx, filter)
	})
}

// Create validates and stores a new todo. The title is validated at the
// edge: an empty title never produces a remote call.
func (s *Synchronizer) Create(ctx context.Context, filter models.Filter, title string) (models.Todo, error) {
	todo, err := models.NewTodo(title)
	if err != nil {
		return models.Todo{}, err
	}

	err = s.mutate(ctx, "create", filter,
		func(snapshot []models.Todo) []models.Todo {
			return applyCreate(snapshot, todo, filter)
		},
		func(ctx context.Context) error {
			_, err := s.remote.Create(ctx, todo)
			return err
		})
	if err != nil {
		s.notifier.Errorf("Could not add %s", todo.Title)
		return models.Todo{}, err
	}

	s.notifier.Successf("%s added", todo.Title)
	return todo, nil
}

// Toggle flips a todo between active and completed.
func (s *Synchronizer) Toggle(ctx context.Context, filter models.Filter, todo models.Todo) (models.Todo, error) {
	return s.Update(ctx, filter, todo.Toggled())
}

// Update replaces a stored todo with the given value.
func (s *Synchronizer) Update(ctx context.Context, filter models.Filter, todo models.Todo) (models.Todo, error) {
	err := s.mutate(ctx, "update", filter,
		func(snapshot []models.Todo) []models.Todo {
			return applyUpdate(snapshot, todo, filter)
		},
		func(ctx context.Context) error {
			_, err := s.remote.Update(ctx, todo)
			return err
		})
	if err != nil {
		s.notifier.Errorf("Could not update %s", todo.Title)
		return models.Todo{}, err
	}
	return todo, nil
}

// Delete removes a single todo.
func (s *Synchronizer) Delete(ctx context.Context, filter models.Filter, todo models.Todo) (models.Todo, error) {
	err := s.mutate(ctx, "delete", filter,
		func(snapshot []models.Todo) []models.Todo {
			return applyDelete(snapshot, todo.ID)
		},
		func(ctx context.Context) error {
			_, err := s.remote.DeleteOne(ctx, todo.ID)
			return err
		})
	if err != nil {
		s.notifier.Errorf("Could not delete %s", todo.Title)
		return models.Todo{}, err
	}

	s.notifier.Successf("%s deleted", todo.Title)
	return todo, nil
}

// ClearCompleted bulk-removes every completed todo.
func (s *Synchronizer) ClearCompleted(ctx context.Context, filter models.Filter) error {
	completed := models.FilterByStatus(models.StatusCompleted)

	err := s.mutate(ctx, "clear-completed", filter,
		func(snapshot []models.Todo) []models.Todo {
			return applyDeleteMany(snapshot, completed)
		},
		func(ctx context.Context) error {
			_, err := s.remote.DeleteMany(ctx, completed)
			return err
		})
	if err != nil {
		s.notifier.Errorf("Could not clear completed todos")
		return err
	}

	s.notifier.Successf("Completed todos cleared")
	return nil
}

// Move relocates the todo with fromID to the position occupied by toID.
// The optimistic preview uses the same move algorithm as the store, so
// the previewed order matches what the next fetch reports.
func (s *Synchronizer) Move(ctx context.Context, filter models.Filter, fromID, toID string) error {
	err := s.mutate(ctx, "move", filter,
		func(snapshot []models.Todo) []models.Todo {
			return applyMove(snapshot, fromID, toID)
		},
		func(ctx context.Context) error {
			_, err := s.remote.Move(ctx, fromID, toID)
			return err
		})
	if err != nil {
		s.notifier.Errorf("Could not reorder todos")
	}
	return err
}

// mutate runs one optimistic mutation cycle against the filter's cache
// key. The pre-mutation snapshot is captured atomically at mutation
// start; on failure it is restored verbatim. Every settle, success or
// failure, invalidates all list variants so the UI reconciles with the
// authoritative store state.
func (s *Synchronizer) mutate(ctx context.Context, op string, filter models.Filter, optimistic func([]models.Todo) []models.Todo, call func(context.Context) error) error {
	key := ListKey(filter)
	lock := s.cache.mutationLock(key)
	lock.Lock()
	defer lock.Unlock()

	snapshot, captured := s.cache.Peek(key)
	if captured {
		s.cache.Set(key, optimistic(snapshot))
	}

	err := call(ctx)
	if err != nil {
		if captured {
			s.cache.Set(key, snapshot)
		}
		s.logger.WithFields(logrus.Fields{
			"op":     op,
			"filter": filter.Key(),
		}).WithError(err).Warn("Mutation failed, optimistic snapshot rolled back")
	}

	s.cache.InvalidateLists()
	s.settle(op, err)
	return err
}

// settle fires the OnSettled hook. The hook is optional and the caller
// that installed it may be long gone by the time a slow mutation
// settles, so a missing hook is a no-op rather than an error.
func (s *Synchronizer) settle(op string, err error) {
	if s.OnSettled == nil {
		return
	}
	s.OnSettled(op, err)
}
