package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"schedulink/api"
	"schedulink/config"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupAPI(t *testing.T) (*api.API, sqlmock.Sqlmock) {
	t.Helper()
	return setupAPIWithConfig(t, config.ServerConfig{
		CORS: config.CORSConfig{AllowOrigins: []string{"*"}},
	})
}

func setupAPIWithConfig(t *testing.T, cfg config.ServerConfig) (*api.API, sqlmock.Sqlmock) {
	t.Helper()
	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	a := api.NewAPI(db, zap.NewNop(), cfg)
	a.RegisterRoutes()
	return a, dbMock
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

type errorBody struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Details map[string]string `json:"details"`
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var res errorBody
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&res))
	return res
}

func decodeObject(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var res map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&res))
	return res
}
