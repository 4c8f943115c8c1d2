package models

import (
	"errors"
	"net/url"
	"strings"

	"github.com/google/uuid"
)

// Status represents the completion state of a todo
type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

// ErrEmptyTitle is returned when a todo is created with an empty or
// whitespace-only title. Titles are validated at the edge; an invalid
// title never reaches storage.
var ErrEmptyTitle = errors.New("todo title must not be empty")

// Todo represents a single task record
type Todo struct {
	ID     string `json:"id" binding:"required"`
	Title  string `json:"title" binding:"required,min=1"`
	Status Status `json:"status" binding:"required,oneof=active completed"`
}

// NewTodo builds a Todo from user input. The title is trimmed and must be
// non-empty; the id is generated client-side and is immutable afterwards.
// New todos always start active.
func NewTodo(title string) (Todo, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return Todo{}, ErrEmptyTitle
	}
	return Todo{
		ID:     uuid.NewString(),
		Title:  title,
		Status: StatusActive,
	}, nil
}

// ValidStatus reports whether s is one of the two known status values.
func ValidStatus(s Status) bool {
	return s == StatusActive || s == StatusCompleted
}

// Toggled returns a copy of the todo with its status flipped. The only
// transitions in the state machine are active <-> completed.
func (t Todo) Toggled() Todo {
	if t.Status == StatusActive {
		t.Status = StatusCompleted
	} else {
		t.Status = StatusActive
	}
	return t
}

// Filter is a partial-field predicate narrowing a todo sequence. A nil
// field means "no constraint"; a filter with no fields set matches every
// todo. The field set is closed: unknown query keys are dropped when
// parsing instead of being matched dynamically.
type Filter struct {
	ID     *string
	Title  *string
	Status *Status
}

// Matches reports whether every field present in the filter equals the
// corresponding field on the todo.
func (f Filter) Matches(t Todo) bool {
	if f.ID != nil && *f.ID != t.ID {
		return false
	}
	if f.Title != nil && *f.Title != t.Title {
		return false
	}
	if f.Status != nil && *f.Status != t.Status {
		return false
	}
	return true
}

// IsZero reports whether no constraint is set.
func (f Filter) IsZero() bool {
	return f.ID == nil && f.Title == nil && f.Status == nil
}

// Values encodes the filter as URL query values.
func (f Filter) Values() url.Values {
	values := url.Values{}
	if f.ID != nil {
		values.Set("id", *f.ID)
	}
	if f.Title != nil {
		values.Set("title", *f.Title)
	}
	if f.Status != nil {
		values.Set("status", string(*f.Status))
	}
	return values
}

// Key returns a canonical string form of the filter, stable across
// equivalent filters, suitable as a cache-key component.
func (f Filter) Key() string {
	return f.Values().Encode()
}

// ParseFilter builds a Filter from URL query values. Keys outside the
// todo field set are ignored.
func ParseFilter(values url.Values) Filter {
	var f Filter
	if values.Has("id") {
		id := values.Get("id")
		f.ID = &id
	}
	if values.Has("title") {
		title := values.Get("title")
		f.Title = &title
	}
	if values.Has("status") {
		status := Status(values.Get("status"))
		f.Status = &status
	}
	return f
}

// FilterByStatus returns a filter constraining only the status field.
func FilterByStatus(s Status) Filter {
	return Filter{Status: &s}
}

// ArrayMove relocates the element at index from to index to, shifting the
// elements in between by one slot: the source is removed first and then
// inserted at the target index computed on the post-removal slice. The
// input is not modified. Out-of-range indices return the order unchanged.
func ArrayMove(order []string, from, to int) []string {
	moved := make([]string, len(order))
	copy(moved, order)
	if from < 0 || from >= len(moved) || to < 0 || to >= len(moved) || from == to {
		return moved
	}
	id := moved[from]
	moved = append(moved[:from], moved[from+1:]...)
	moved = append(moved[:to], append([]string{id}, moved[to:]...)...)
	return moved
}

// Wire DTOs shared by the mock API handlers and the HTTP client.

// TodoBody wraps a single todo in the `{"todo": ...}` envelope.
type TodoBody struct {
	Todo Todo `json:"todo" binding:"required"`
}

// TodosBody wraps a todo sequence in the `{"todos": ...}` envelope.
type TodosBody struct {
	Todos []Todo `json:"todos"`
}

// MoveBody is the request body of the move endpoint; the source id
// travels in the URL.
type MoveBody struct {
	ToID string `json:"toId" binding:"required"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
