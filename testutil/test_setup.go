// Package testutil provides shared fixtures backed by a throwaway SQLite file.
package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"taskflow/backend/internal/config"
	"taskflow/backend/internal/database"
	"taskflow/backend/internal/repositories"
	"taskflow/backend/internal/routes"
)

// OpenTestDB opens a fresh SQLite database under t.TempDir() with the schema
// in place, seeded with the sample rows when seed is true. It is closed when
// the test ends.
func OpenTestDB(t *testing.T, seed bool) *sql.DB {
	t.Helper()

	cfg := config.DatabaseConfig{
		Driver: config.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "taskflow_test.db"),
	}
	db, err := database.Open(cfg)
	require.NoError(t, err, "failed to open test database")
	t.Cleanup(func() { db.Close() })

	err = database.Bootstrap(context.Background(), db, cfg.Driver, seed, zerolog.Nop())
	require.NoError(t, err, "failed to bootstrap test database")

	return db
}

// SetupTestDB returns a seeded database, a router over it and its repositories.
func SetupTestDB(t *testing.T) (*sql.DB, *gin.Engine, *repositories.TaskRepository, *repositories.UserRepository) {
	t.Helper()

	db := OpenTestDB(t, true)
	router := SetupTestRouter(t, db)

	return db, router, repositories.NewTaskRepository(db, zerolog.Nop()), repositories.NewUserRepository(db, zerolog.Nop())
}

// SetupTestRouter builds the production router in gin test mode.
func SetupTestRouter(t *testing.T, db *sql.DB) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	return routes.SetupRouter(db, zerolog.Nop(), []string{"http://localhost:3000"})
}

// DoJSON sends a request with an optional JSON body and returns the recorder.
func DoJSON(t *testing.T, router http.Handler, method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, path, &buf)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// DecodeJSON unmarshals the recorder body into v.
func DecodeJSON(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), "response should be valid JSON: %s", w.Body.String())
}
