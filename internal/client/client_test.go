package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"todomon/internal/handlers"
	"todomon/internal/kv"
	"todomon/internal/models"
	"todomon/internal/storage"
	"todomon/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) (*Client, *storage.Storage) {
	gin.SetMode(gin.TestMode)
	store, err := storage.New(kv.NewMemory())
	require.NoError(t, err)

	server := httptest.NewServer(handlers.NewTestRouter(store))
	t.Cleanup(server.Close)

	return NewWithHTTPClient(server.URL, server.Client()), store
}

func TestClientRoundtrip(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()

	second := testutil.MakeTodo("second", models.StatusActive)
	created, err := client.Create(ctx, second)
	require.NoError(t, err)
	assert.Equal(t, second, created)

	first := testutil.MakeTodo("first", models.StatusCompleted)
	_, err = client.Create(ctx, first)
	require.NoError(t, err)

	t.Run("lists in stored order", func(t *testing.T) {
		todos, err := client.List(ctx, models.Filter{})
		require.NoError(t, err)
		require.Len(t, todos, 2)
		assert.Equal(t, first.ID, todos[0].ID)
		assert.Equal(t, second.ID, todos[1].ID)
	})

	t.Run("lists with a status filter", func(t *testing.T) {
		todos, err := client.List(ctx, models.FilterByStatus(models.StatusCompleted))
		require.NoError(t, err)
		require.Len(t, todos, 1)
		assert.Equal(t, first.ID, todos[0].ID)
	})

	t.Run("updates", func(t *testing.T) {
		toggled := second.Toggled()
		updated, err := client.Update(ctx, toggled)
		require.NoError(t, err)
		assert.Equal(t, models.StatusCompleted, updated.Status)
	})

	t.Run("moves", func(t *testing.T) {
		todos, err := client.Move(ctx, first.ID, second.ID)
		require.NoError(t, err)
		require.Len(t, todos, 2)
		assert.Equal(t, second.ID, todos[0].ID)
		assert.Equal(t, first.ID, todos[1].ID)
	})

	t.Run("deletes one", func(t *testing.T) {
		deleted, err := client.DeleteOne(ctx, first.ID)
		require.NoError(t, err)
		assert.Equal(t, first.ID, deleted.ID)
	})

	t.Run("deletes many", func(t *testing.T) {
		deleted, err := client.DeleteMany(ctx, models.FilterByStatus(models.StatusCompleted))
		require.NoError(t, err)
		require.Len(t, deleted, 1)
		assert.Equal(t, second.ID, deleted[0].ID)

		todos, err := client.List(ctx, models.Filter{})
		require.NoError(t, err)
		assert.Empty(t, todos)
	})
}

func TestClientNotFound(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()

	_, err := client.DeleteOne(ctx, "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	_, err = client.Update(ctx, testutil.MakeTodo("ghost", models.StatusActive))
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestClientTransportError(t *testing.T) {
	t.Run("non-2xx statuses", func(t *testing.T) {
		client, store := newTestClient(t)
		ctx := context.Background()

		todo := testutil.MakeTodo("dup", models.StatusActive)
		_, err := store.Create(todo)
		require.NoError(t, err)

		_, err = client.Create(ctx, todo)
		var transportErr *TransportError
		require.ErrorAs(t, err, &transportErr)
		assert.Equal(t, http.StatusConflict, transportErr.Status)
	})

	t.Run("unreachable server", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		server.Close()
		client := New(server.URL)

		_, err := client.List(context.Background(), models.Filter{})
		var transportErr *TransportError
		require.ErrorAs(t, err, &transportErr)
		assert.Equal(t, 0, transportErr.Status)
		assert.NotNil(t, errors.Unwrap(transportErr))
	})

	t.Run("cancelled context", func(t *testing.T) {
		client, _ := newTestClient(t)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := client.List(ctx, models.Filter{})
		assert.ErrorIs(t, err, context.Canceled)
	})
}
