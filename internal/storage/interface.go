package storage

import (
	"todomon/internal/models"
)

// Store defines the interface for todo collection operations
type Store interface {
	// List returns the todos matching filter, preserving stored order.
	List(filter models.Filter) ([]models.Todo, error)
	// Create prepends a new todo (most-recent-first) and returns it.
	Create(todo models.Todo) (models.Todo, error)
	// Update replaces the record with the same id.
	Update(todo models.Todo) (models.Todo, error)
	// DeleteOne removes and returns the record with the given id.
	DeleteOne(id string) (models.Todo, error)
	// DeleteMany removes and returns every record matching filter,
	// preserving original relative order.
	DeleteMany(filter models.Filter) ([]models.Todo, error)
	// Move relocates fromID to the position occupied by toID and returns
	// the full reordered sequence. No-op when the ids are equal or absent.
	Move(fromID, toID string) ([]models.Todo, error)
}
