// Package client is the consumer side of the todo API boundary: a thin
// HTTP client exposing the same operations the storage layer provides.
// Every failure is classified as either a missing record or a transport
// error; the synchronizer treats both uniformly.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"todomon/internal/models"
	"todomon/internal/storage"
)

// TransportError wraps any failure of the simulated remote call that is
// not a missing record. There is no distinction between "backend
// unavailable" and "backend rejected".
type TransportError struct {
	Op     string
	Status int // 0 when the request never produced a response
	Err    error
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: remote returned status %d", e.Op, e.Status)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Client calls the todo API over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a client for the API rooted at baseURL.
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// NewWithHTTPClient creates a client using a caller-supplied http.Client
// (tests use this to point at an httptest server).
func NewWithHTTPClient(baseURL string, httpClient *http.Client) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

// List fetches the todos matching filter, preserving stored order.
func (c *Client) List(ctx context.Context, filter models.Filter) ([]models.Todo, error) {
	url := c.baseURL + "/api/todos"
	if query := filter.Values().Encode(); query != "" {
		url += "?" + query
	}

	var body models.TodosBody
	if err := c.do(ctx, "list todos", http.MethodGet, url, nil, &body); err != nil {
		return nil, err
	}
	return body.Todos, nil
}

// Create stores a new todo. The id is assigned by the caller, never by
// the server.
func (c *Client) Create(ctx context.Context, todo models.Todo) (models.Todo, error) {
	var body models.TodoBody
	err := c.do(ctx, "create todo", http.MethodPost, c.baseURL+"/api/todos",
		models.TodoBody{Todo: todo}, &body)
	if err != nil {
		return models.Todo{}, err
	}
	return body.Todo, nil
}

// Update replaces the stored record sharing the todo's id.
func (c *Client) Update(ctx context.Context, todo models.Todo) (models.Todo, error) {
	var body models.TodoBody
	err := c.do(ctx, "update todo", http.MethodPut, c.baseURL+"/api/todos/"+todo.ID,
		models.TodoBody{Todo: todo}, &body)
	if err != nil {
		return models.Todo{}, err
	}
	return body.Todo, nil
}

// DeleteOne removes the record with the given id and returns it.
func (c *Client) DeleteOne(ctx context.Context, id string) (models.Todo, error) {
	var body models.TodoBody
	err := c.do(ctx, "delete todo", http.MethodDelete, c.baseURL+"/api/todos/"+id, nil, &body)
	if err != nil {
		return models.Todo{}, err
	}
	return body.Todo, nil
}

// DeleteMany removes every record matching filter and returns the
// deleted records in their original relative order.
func (c *Client) DeleteMany(ctx context.Context, filter models.Filter) ([]models.Todo, error) {
	url := c.baseURL + "/api/todos"
	if query := filter.Values().Encode(); query != "" {
		url += "?" + query
	}

	var body models.TodosBody
	if err := c.do(ctx, "delete todos", http.MethodDelete, url, nil, &body); err != nil {
		return nil, err
	}
	return body.Todos, nil
}

// Move relocates fromID to toID's position and returns the reordered
// sequence.
func (c *Client) Move(ctx context.Context, fromID, toID string) ([]models.Todo, error) {
	var body models.TodosBody
	err := c.do(ctx, "move todo", http.MethodPut, c.baseURL+"/api/todos/"+fromID+"/move",
		models.MoveBody{ToID: toID}, &body)
	if err != nil {
		return nil, err
	}
	return body.Todos, nil
}

// do issues one request and decodes the response into out. A 404 maps to
// storage.ErrNotFound so callers can branch on the sentinel; every other
// failure becomes a TransportError.
func (c *Client) do(ctx context.Context, op, method, url string, in, out interface{}) error {
	var reqBody io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return &TransportError{Op: op, Err: err}
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return storage.ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &TransportError{Op: op, Status: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &TransportError{Op: op, Err: err}
	}
	return nil
}
