package sync

import (
	"todomon/internal/models"
)

// Optimistic transforms rewrite a filtered snapshot to the intended
// post-mutation state. They are pure: the input slice is never modified.

// applyCreate prepends the new todo when it belongs in the filtered view.
func applyCreate(snapshot []models.Todo, todo models.Todo, filter models.Filter) []models.Todo {
	if !filter.Matches(todo) {
		return copyTodos(snapshot)
	}
	return append([]models.Todo{todo}, snapshot...)
}

// applyUpdate replaces the record sharing the todo's id, dropping it from
// the view when the update moves it outside the filter (a toggled todo
// leaves the Active view immediately).
func applyUpdate(snapshot []models.Todo, todo models.Todo, filter models.Filter) []models.Todo {
	updated := make([]models.Todo, 0, len(snapshot))
	for _, existing := range snapshot {
		if existing.ID != todo.ID {
			updated = append(updated, existing)
			continue
		}
		if filter.Matches(todo) {
			updated = append(updated, todo)
		}
	}
	return updated
}

// applyDelete removes the record with the given id.
func applyDelete(snapshot []models.Todo, id string) []models.Todo {
	remaining := make([]models.Todo, 0, len(snapshot))
	for _, existing := range snapshot {
		if existing.ID != id {
			remaining = append(remaining, existing)
		}
	}
	return remaining
}

// applyDeleteMany removes every record matching the delete filter.
func applyDeleteMany(snapshot []models.Todo, filter models.Filter) []models.Todo {
	remaining := make([]models.Todo, 0, len(snapshot))
	for _, existing := range snapshot {
		if !filter.Matches(existing) {
			remaining = append(remaining, existing)
		}
	}
	return remaining
}

// applyMove reorders the snapshot with the same remove-then-insert
// algorithm the store uses, so the locally previewed order is exactly
// what the store will eventually report. A move to self or with an
// absent id leaves the order unchanged.
func applyMove(snapshot []models.Todo, fromID, toID string) []models.Todo {
	fromIndex, toIndex := -1, -1
	byID := make(map[string]models.Todo, len(snapshot))
	order := make([]string, len(snapshot))
	for i, todo := range snapshot {
		order[i] = todo.ID
		byID[todo.ID] = todo
		switch todo.ID {
		case fromID:
			fromIndex = i
		case toID:
			toIndex = i
		}
	}
	if fromIndex == -1 || toIndex == -1 || fromID == toID {
		return copyTodos(snapshot)
	}

	moved := models.ArrayMove(order, fromIndex, toIndex)
	reordered := make([]models.Todo, len(moved))
	for i, id := range moved {
		reordered[i] = byID[id]
	}
	return reordered
}
