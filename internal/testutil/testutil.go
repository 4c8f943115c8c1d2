package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"todomon/internal/kv"
	"todomon/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestBlobDB creates an in-memory SQLite blob store for testing
func SetupTestBlobDB(t *testing.T) *kv.Database {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "Failed to open test database")

	err = kv.Migrate(db)
	require.NoError(t, err, "Failed to migrate blobs table")

	blobDB := kv.NewDatabase(db)
	t.Cleanup(func() {
		require.NoError(t, blobDB.Close())
	})
	return blobDB
}

// MakeTodo creates a test todo with a fresh id
func MakeTodo(title string, status models.Status) models.Todo {
	return models.Todo{
		ID:     uuid.NewString(),
		Title:  title,
		Status: status,
	}
}

// MakeJSONRequest creates an HTTP request with JSON body
func MakeJSONRequest(t *testing.T, method, url string, body interface{}) *http.Request {
	var bodyReader *bytes.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		require.NoError(t, err, "Failed to marshal request body")
		bodyReader = bytes.NewReader(jsonBody)
	} else {
		bodyReader = bytes.NewReader([]byte{})
	}

	req := httptest.NewRequest(method, url, bodyReader)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// ParseJSONResponse parses a JSON response into a target structure
func ParseJSONResponse(t *testing.T, w *httptest.ResponseRecorder, target interface{}) {
	err := json.Unmarshal(w.Body.Bytes(), target)
	require.NoError(t, err, "Failed to parse JSON response")
}

// StringPtr returns a pointer to a string value
func StringPtr(s string) *string {
	return &s
}

// StatusPtr returns a pointer to a Status value
func StatusPtr(s models.Status) *models.Status {
	return &s
}
