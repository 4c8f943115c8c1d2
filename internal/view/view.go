// Package view derives read-only projections from a reconciled todo
// sequence. Everything here is computed freshly on every read; there are
// no cached counters that could drift from the list they describe.
package view

import (
	"fmt"

	"todomon/internal/models"
)

// ActiveCount counts the todos still active.
func ActiveCount(todos []models.Todo) int {
	count := 0
	for _, todo := range todos {
		if todo.Status == models.StatusActive {
			count++
		}
	}
	return count
}

// HasCompleted reports whether at least one todo is completed. It drives
// the visibility of the bulk clear-completed affordance.
func HasCompleted(todos []models.Todo) bool {
	for _, todo := range todos {
		if todo.Status == models.StatusCompleted {
			return true
		}
	}
	return false
}

// Pluralise appends an "s" unless count is exactly 1.
func Pluralise(word string, count int) string {
	if count != 1 {
		return word + "s"
	}
	return word
}

// ItemsLeftLabel renders the "N items left" footer text.
func ItemsLeftLabel(count int) string {
	return fmt.Sprintf("%d %s left", count, Pluralise("item", count))
}

// EmptyStateMessage selects the message shown when the filtered view is
// empty. It is purely a function of the filter.
func EmptyStateMessage(filter models.Filter) string {
	if filter.Status != nil {
		switch *filter.Status {
		case models.StatusActive:
			return "No active todos"
		case models.StatusCompleted:
			return "No completed todos"
		}
	}
	return "No todos at all. Add some?"
}

// FilterLink is one entry in the All / Active / Completed link row.
type FilterLink struct {
	Label  string
	Href   string
	Filter models.Filter
}

// FilterLinks returns the three canonical filter links.
func FilterLinks() []FilterLink {
	return []FilterLink{
		{Label: "All", Href: "/todos", Filter: models.Filter{}},
		{Label: "Active", Href: "/todos?status=active", Filter: models.FilterByStatus(models.StatusActive)},
		{Label: "Completed", Href: "/todos?status=completed", Filter: models.FilterByStatus(models.StatusCompleted)},
	}
}
