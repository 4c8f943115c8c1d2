package sync

import (
	"context"
	"sync"

	"todomon/internal/models"
)

// ListIdentity is the base identity shared by every filtered list view.
// Invalidating it invalidates all filter variants at once, so the All,
// Active and Completed views and the counts all re-derive from one
// authoritative fetch.
const ListIdentity = "todos/list"

// Key addresses one cached snapshot: the list identity plus the
// canonical encoding of its filter.
type Key struct {
	Identity string
	Filter   string
}

// ListKey returns the cache key for the list view narrowed by filter.
func ListKey(filter models.Filter) Key {
	return Key{Identity: ListIdentity, Filter: filter.Key()}
}

// entry holds one immutable snapshot. The slice is never mutated in
// place; updates swap in a fresh copy.
type entry struct {
	todos []models.Todo
	fresh bool
}

// Cache is a process-wide cache of list snapshots keyed by filter. It is
// an explicit value passed to its consumers rather than a package-level
// singleton, so tests can run against isolated instances.
type Cache struct {
	mu      sync.Mutex
	entries map[Key]*entry
	locks   map[Key]*sync.Mutex
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{
		entries: make(map[Key]*entry),
		locks:   make(map[Key]*sync.Mutex),
	}
}

// Get returns the cached snapshot for key, fetching through fetch when
// the entry is missing or stale. The fetched snapshot is swapped in
// atomically.
func (c *Cache) Get(ctx context.Context, key Key, fetch func(context.Context) ([]models.Todo, error)) ([]models.Todo, error) {
	c.mu.Lock()
	if e, ok := c.entries[key]; ok && e.fresh {
		todos := copyTodos(e.todos)
		c.mu.Unlock()
		return todos, nil
	}
	c.mu.Unlock()

	todos, err := fetch(ctx)
	if err != nil {
		return nil, err
	}

	c.Set(key, todos)
	return copyTodos(todos), nil
}

// Peek returns the current snapshot for key without fetching, stale or
// not. The second result is false when the key has never been populated.
func (c *Cache) Peek(key Key) ([]models.Todo, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	return copyTodos(e.todos), true
}

// Set replaces the snapshot for key with a copy of todos and marks it
// fresh.
func (c *Cache) Set(key Key, todos []models.Todo) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = &entry{todos: copyTodos(todos), fresh: true}
}

// InvalidateLists marks every snapshot sharing the list identity stale,
// forcing the next read of each variant through a fresh fetch.
func (c *Cache) InvalidateLists() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key, e := range c.entries {
		if key.Identity == ListIdentity {
			e.fresh = false
		}
	}
}

// mutationLock returns the lock serializing optimistic mutations against
// key. Snapshot capture and restore must not interleave between two
// mutations of the same view, or one mutation's rollback would clobber
// the other's speculative write.
func (c *Cache) mutationLock(key Key) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()

	lock, ok := c.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		c.locks[key] = lock
	}
	return lock
}

func copyTodos(todos []models.Todo) []models.Todo {
	copied := make([]models.Todo, len(todos))
	copy(copied, todos)
	return copied
}
