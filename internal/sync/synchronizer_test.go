package sync

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"todomon/internal/kv"
	"todomon/internal/models"
	"todomon/internal/notify"
	"todomon/internal/storage"
	"todomon/internal/view"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRemote wraps a real store and lets tests inject failures and
// observe in-flight mutations.
type fakeRemote struct {
	StoreRemote
	failWith error
	lists    atomic.Int64
	onMutate func()
}

func newFakeRemote(t *testing.T) *fakeRemote {
	store, err := storage.New(kv.NewMemory())
	require.NoError(t, err)
	return &fakeRemote{StoreRemote: StoreRemote{Store: store}}
}

func (r *fakeRemote) List(ctx context.Context, filter models.Filter) ([]models.Todo, error) {
	r.lists.Add(1)
	return r.StoreRemote.List(ctx, filter)
}

func (r *fakeRemote) mutating() error {
	if r.onMutate != nil {
		r.onMutate()
	}
	return r.failWith
}

func (r *fakeRemote) Create(ctx context.Context, todo models.Todo) (models.Todo, error) {
	if err := r.mutating(); err != nil {
		return models.Todo{}, err
	}
	return r.StoreRemote.Create(ctx, todo)
}

func (r *fakeRemote) Update(ctx context.Context, todo models.Todo) (models.Todo, error) {
	if err := r.mutating(); err != nil {
		return models.Todo{}, err
	}
	return r.StoreRemote.Update(ctx, todo)
}

func (r *fakeRemote) DeleteOne(ctx context.Context, id string) (models.Todo, error) {
	if err := r.mutating(); err != nil {
		return models.Todo{}, err
	}
	return r.StoreRemote.DeleteOne(ctx, id)
}

func (r *fakeRemote) DeleteMany(ctx context.Context, filter models.Filter) ([]models.Todo, error) {
	if err := r.mutating(); err != nil {
		return nil, err
	}
	return r.StoreRemote.DeleteMany(ctx, filter)
}

func (r *fakeRemote) Move(ctx context.Context, fromID, toID string) ([]models.Todo, error) {
	if err := r.mutating(); err != nil {
		return nil, err
	}
	return r.StoreRemote.Move(ctx, fromID, toID)
}

func newTestSynchronizer(t *testing.T) (*Synchronizer, *fakeRemote, *notify.Notifier) {
	remote := newFakeRemote(t)
	notifier := notify.New()
	return New(remote, NewCache(), notifier, nil), remote, notifier
}

func TestTodosCaching(t *testing.T) {
	s, remote, _ := newTestSynchronizer(t)
	ctx := context.Background()

	t.Run("serves repeated reads from the cache", func(t *testing.T) {
		_, err := s.Todos(ctx, models.Filter{})
		require.NoError(t, err)
		_, err = s.Todos(ctx, models.Filter{})
		require.NoError(t, err)
		assert.Equal(t, int64(1), remote.lists.Load())
	})

	t.Run("each filter variant fetches independently", func(t *testing.T) {
		_, err := s.Todos(ctx, models.FilterByStatus(models.StatusActive))
		require.NoError(t, err)
		assert.Equal(t, int64(2), remote.lists.Load())
	})

	t.Run("a settled mutation forces every variant to refetch", func(t *testing.T) {
		_, err := s.Create(ctx, models.Filter{}, "Buy milk")
		require.NoError(t, err)

		_, err = s.Todos(ctx, models.Filter{})
		require.NoError(t, err)
		_, err = s.Todos(ctx, models.FilterByStatus(models.StatusActive))
		require.NoError(t, err)
		assert.Equal(t, int64(4), remote.lists.Load())
	})
}

func TestCreateScenario(t *testing.T) {
	s, _, notifier := newTestSynchronizer(t)
	ctx := context.Background()

	todo, err := s.Create(ctx, models.Filter{}, "Buy milk")
	require.NoError(t, err)
	assert.Equal(t, "Buy milk", todo.Title)
	assert.Equal(t, models.StatusActive, todo.Status)

	todos, err := s.Todos(ctx, models.Filter{})
	require.NoError(t, err)
	require.Len(t, todos, 1)
	assert.Equal(t, "Buy milk", todos[0].Title)

	assert.Equal(t, 1, view.ActiveCount(todos))
	assert.Equal(t, "1 item left", view.ItemsLeftLabel(view.ActiveCount(todos)))
	assert.Equal(t, "Buy milk added", notifier.Latest().Text)
}

func TestCreateValidation(t *testing.T) {
	s, remote, _ := newTestSynchronizer(t)
	ctx := context.Background()

	_, err := s.Create(ctx, models.Filter{}, "   ")
	assert.ErrorIs(t, err, models.ErrEmptyTitle)

	// The invalid title never reached the remote
	todos, err := remote.Store.List(models.Filter{})
	require.NoError(t, err)
	assert.Empty(t, todos)
}

func TestToggleTwice(t *testing.T) {
	s, _, _ := newTestSynchronizer(t)
	ctx := context.Background()

	created, err := s.Create(ctx, models.Filter{}, "Walk the dog")
	require.NoError(t, err)

	toggled, err := s.Toggle(ctx, models.Filter{}, created)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, toggled.Status)

	todos, err := s.Todos(ctx, models.Filter{})
	require.NoError(t, err)
	assert.Equal(t, 0, view.ActiveCount(todos))

	back, err := s.Toggle(ctx, models.Filter{}, toggled)
	require.NoError(t, err)
	assert.Equal(t, models.StatusActive, back.Status)

	todos, err = s.Todos(ctx, models.Filter{})
	require.NoError(t, err)
	assert.Equal(t, 1, view.ActiveCount(todos))
}

func TestCountConsistency(t *testing.T) {
	s, _, _ := newTestSynchronizer(t)
	ctx := context.Background()

	for _, title := range []string{"one", "two", "three"} {
		_, err := s.Create(ctx, models.Filter{}, title)
		require.NoError(t, err)
	}
	todos, err := s.Todos(ctx, models.Filter{})
	require.NoError(t, err)
	_, err = s.Toggle(ctx, models.Filter{}, todos[1])
	require.NoError(t, err)

	all, err := s.Todos(ctx, models.Filter{})
	require.NoError(t, err)
	actives, err := s.Todos(ctx, models.FilterByStatus(models.StatusActive))
	require.NoError(t, err)
	assert.Equal(t, view.ActiveCount(all), len(actives))
}

func TestClearCompleted(t *testing.T) {
	s, remote, notifier := newTestSynchronizer(t)
	ctx := context.Background()

	first, err := s.Create(ctx, models.Filter{}, "keep me")
	require.NoError(t, err)
	second, err := s.Create(ctx, models.Filter{}, "done one")
	require.NoError(t, err)
	_, err = s.Toggle(ctx, models.Filter{}, second)
	require.NoError(t, err)

	require.NoError(t, s.ClearCompleted(ctx, models.Filter{}))
	assert.Equal(t, "Completed todos cleared", notifier.Latest().Text)

	remaining, err := remote.Store.List(models.Filter{})
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, first.ID, remaining[0].ID)
}

func TestMovePreviewMatchesStore(t *testing.T) {
	s, remote, _ := newTestSynchronizer(t)
	ctx := context.Background()

	// Stored order: A, B, C
	for _, title := range []string{"C", "B", "A"} {
		_, err := s.Create(ctx, models.Filter{}, title)
		require.NoError(t, err)
	}
	todos, err := s.Todos(ctx, models.Filter{})
	require.NoError(t, err)
	a, c := todos[0], todos[2]

	var preview []models.Todo
	remote.onMutate = func() {
		// Capture the optimistic snapshot while the call is in flight
		preview, _ = s.cache.Peek(ListKey(models.Filter{}))
	}

	require.NoError(t, s.Move(ctx, models.Filter{}, a.ID, c.ID))

	authoritative, err := s.Todos(ctx, models.Filter{})
	require.NoError(t, err)
	assert.Equal(t, authoritative, preview, "optimistic preview must match the store's eventual order")
}

func TestRollback(t *testing.T) {
	s, remote, notifier := newTestSynchronizer(t)
	ctx := context.Background()

	created, err := s.Create(ctx, models.Filter{}, "survivor")
	require.NoError(t, err)

	preImage, err := s.Todos(ctx, models.Filter{})
	require.NoError(t, err)

	transportErr := errors.New("remote unavailable")
	remote.failWith = transportErr

	t.Run("failed delete restores the pre-mutation snapshot verbatim", func(t *testing.T) {
		var optimistic []models.Todo
		remote.onMutate = func() {
			optimistic, _ = s.cache.Peek(ListKey(models.Filter{}))
		}

		_, err := s.Delete(ctx, models.Filter{}, created)
		assert.ErrorIs(t, err, transportErr)
		assert.Empty(t, optimistic, "snapshot must reflect the delete while in flight")

		restored, ok := s.cache.Peek(ListKey(models.Filter{}))
		require.True(t, ok)
		assert.Equal(t, preImage, restored)
	})

	t.Run("failure publishes a notification", func(t *testing.T) {
		assert.True(t, notifier.Latest().IsErr)
		assert.Equal(t, "Could not delete survivor", notifier.Latest().Text)
	})

	t.Run("failure still invalidates, reconciling with the store", func(t *testing.T) {
		remote.failWith = nil
		remote.onMutate = nil

		todos, err := s.Todos(ctx, models.Filter{})
		require.NoError(t, err)
		assert.Equal(t, preImage, todos)
	})
}

func TestErrorsSurfaceUnchanged(t *testing.T) {
	s, remote, _ := newTestSynchronizer(t)
	ctx := context.Background()

	transportErr := errors.New("boom")
	remote.failWith = transportErr

	_, err := s.Create(ctx, models.Filter{}, "doomed")
	assert.ErrorIs(t, err, transportErr)

	err = s.Move(ctx, models.Filter{}, "a", "b")
	assert.ErrorIs(t, err, transportErr)

	err = s.ClearCompleted(ctx, models.Filter{})
	assert.ErrorIs(t, err, transportErr)
}

func TestOnSettled(t *testing.T) {
	s, remote, _ := newTestSynchronizer(t)
	ctx := context.Background()

	t.Run("fires after success and failure", func(t *testing.T) {
		var ops []string
		var errs []error
		s.OnSettled = func(op string, err error) {
			ops = append(ops, op)
			errs = append(errs, err)
		}

		_, err := s.Create(ctx, models.Filter{}, "first")
		require.NoError(t, err)

		remote.failWith = errors.New("down")
		_, err = s.Create(ctx, models.Filter{}, "second")
		require.Error(t, err)

		require.Equal(t, []string{"create", "create"}, ops)
		assert.NoError(t, errs[0])
		assert.Error(t, errs[1])
	})

	t.Run("a missing hook is a no-op", func(t *testing.T) {
		s.OnSettled = nil
		remote.failWith = nil
		_, err := s.Create(ctx, models.Filter{}, "third")
		assert.NoError(t, err)
	})
}

func TestMutationsSerializePerKey(t *testing.T) {
	s, remote, _ := newTestSynchronizer(t)
	ctx := context.Background()

	var inFlight, maxInFlight atomic.Int64
	remote.onMutate = func() {
		current := inFlight.Add(1)
		for {
			max := maxInFlight.Load()
			if current <= max || maxInFlight.CompareAndSwap(max, current) {
				break
			}
		}
		time.Sleep(2 * time.Millisecond)
		inFlight.Add(-1)
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Create(ctx, models.Filter{}, "concurrent")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), maxInFlight.Load(),
		"mutations against one filter key must not overlap")

	todos, err := s.Todos(ctx, models.Filter{})
	require.NoError(t, err)
	assert.Len(t, todos, 8)
}
