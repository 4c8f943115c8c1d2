package storage

import (
	"encoding/json"
	"errors"
	"sync"

	"todomon/internal/kv"
	"todomon/internal/models"
)

// StorageKey is the well-known blob key the whole collection lives under.
const StorageKey = "todo-app-todos"

var (
	ErrNotFound    = errors.New("todo not found")
	ErrDuplicateID = errors.New("todo with this id already exists")
)

// document is the persisted layout: an explicit ordering over item ids
// plus the records themselves. Order and items must stay mutually
// consistent; load repairs any drift before the store is used.
type document struct {
	Order []string               `json:"order"`
	Items map[string]models.Todo `json:"items"`
}

// Storage is the durable source of truth for the todo sequence. Every
// mutation rewrites the entire blob write-through before returning; there
// is no write buffering and no partial-write protection at this scale.
type Storage struct {
	mu   sync.Mutex
	blob kv.Blob
	key  string
	doc  document
}

// New creates a Storage over the given blob store using the default key.
func New(blob kv.Blob) (*Storage, error) {
	return NewWithKey(blob, StorageKey)
}

// NewWithKey creates a Storage scoped to a specific blob key.
func NewWithKey(blob kv.Blob, key string) (*Storage, error) {
	s := &Storage{
		blob: blob,
		key:  key,
		doc:  document{Order: []string{}, Items: map[string]models.Todo{}},
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// load reads the persisted document, initialising an empty collection on
// first use and dropping any order entry without a matching item (and
// vice versa) so both halves cover the same id set.
func (s *Storage) load() error {
	raw, ok, err := s.blob.Get(s.key)
	if err != nil {
		return err
	}
	if !ok {
		return s.persist()
	}

	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return err
	}
	if doc.Items == nil {
		doc.Items = map[string]models.Todo{}
	}

	order := make([]string, 0, len(doc.Order))
	items := make(map[string]models.Todo, len(doc.Items))
	for _, id := range doc.Order {
		todo, ok := doc.Items[id]
		if !ok {
			continue
		}
		order = append(order, id)
		items[id] = todo
	}

	s.doc = document{Order: order, Items: items}
	return nil
}

// persist writes the whole document back to the blob. Must be called with
// the lock held.
func (s *Storage) persist() error {
	raw, err := json.Marshal(s.doc)
	if err != nil {
		return err
	}
	return s.blob.Put(s.key, raw)
}

// snapshot returns copies of the todos in stored order. Must be called
// with the lock held.
func (s *Storage) snapshot() []models.Todo {
	todos := make([]models.Todo, 0, len(s.doc.Order))
	for _, id := range s.doc.Order {
		todos = append(todos, s.doc.Items[id])
	}
	return todos
}

// List returns the todos matching filter, preserving stored order. Fields
// absent from the filter do not constrain the result; an empty filter
// returns the full sequence.
func (s *Storage) List(filter models.Filter) ([]models.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	todos := make([]models.Todo, 0, len(s.doc.Order))
	for _, id := range s.doc.Order {
		if todo := s.doc.Items[id]; filter.Matches(todo) {
			todos = append(todos, todo)
		}
	}
	return todos, nil
}

// Create prepends the new todo to the order and persists. The id is
// caller-supplied and must be unique across the collection.
func (s *Storage) Create(todo models.Todo) (models.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.doc.Items[todo.ID]; exists {
		return models.Todo{}, ErrDuplicateID
	}

	s.doc.Items[todo.ID] = todo
	s.doc.Order = append([]string{todo.ID}, s.doc.Order...)
	if err := s.persist(); err != nil {
		return models.Todo{}, err
	}
	return todo, nil
}

// Update replaces the record with the matching id. Position in the order
// is unchanged.
func (s *Storage) Update(todo models.Todo) (models.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.doc.Items[todo.ID]; !exists {
		return models.Todo{}, ErrNotFound
	}

	s.doc.Items[todo.ID] = todo
	if err := s.persist(); err != nil {
		return models.Todo{}, err
	}
	return todo, nil
}

// DeleteOne removes and returns the record with the given id.
func (s *Storage) DeleteOne(id string) (models.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	deleted, exists := s.doc.Items[id]
	if !exists {
		return models.Todo{}, ErrNotFound
	}

	order := make([]string, 0, len(s.doc.Order)-1)
	for _, existing := range s.doc.Order {
		if existing != id {
			order = append(order, existing)
		}
	}
	s.doc.Order = order
	delete(s.doc.Items, id)

	if err := s.persist(); err != nil {
		return models.Todo{}, err
	}
	return deleted, nil
}

// DeleteMany removes every record matching filter and returns the deleted
// records in their original relative order. Kept and deleted records
// partition the prior sequence.
func (s *Storage) DeleteMany(filter models.Filter) ([]models.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := make([]string, 0, len(s.doc.Order))
	deleted := make([]models.Todo, 0)
	for _, id := range s.doc.Order {
		todo := s.doc.Items[id]
		if filter.Matches(todo) {
			deleted = append(deleted, todo)
			delete(s.doc.Items, id)
		} else {
			kept = append(kept, id)
		}
	}
	s.doc.Order = kept

	if err := s.persist(); err != nil {
		return nil, err
	}
	return deleted, nil
}

// Move relocates the record at fromID's position to the position occupied
// by toID, shifting the records in between by one slot, and returns the
// full reordered sequence. A move to self or with an absent id leaves the
// sequence unchanged.
func (s *Storage) Move(fromID, toID string) ([]models.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fromIndex, toIndex := -1, -1
	for i, id := range s.doc.Order {
		switch id {
		case fromID:
			fromIndex = i
		case toID:
			toIndex = i
		}
	}
	if fromIndex == -1 || toIndex == -1 || fromID == toID {
		return s.snapshot(), nil
	}

	s.doc.Order = models.ArrayMove(s.doc.Order, fromIndex, toIndex)
	if err := s.persist(); err != nil {
		return nil, err
	}
	return s.snapshot(), nil
}
