package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
)

func TestReady(t *testing.T) {
	tests := []struct {
		name   string
		sql    *readySQL
		status int
	}{
		{"ok", &readySQL{tables: []string{"donations", "users"}}, http.StatusOK},
		{"missing table", &readySQL{tables: []string{"users"}}, http.StatusServiceUnavailable},
		{"ping fails", &readySQL{pingErr: errors.New("refused")}, http.StatusServiceUnavailable},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			app := &App{SQL: tc.sql, Logger: zerolog.Nop()}
			rr := httptest.NewRecorder()
			app.Ready(rr, httptest.NewRequest(http.MethodGet, "/v1/readyz", nil))
			if rr.Code != tc.status {
				t.Fatalf("status = %d", rr.Code)
			}
		})
	}
}

func TestHealth(t *testing.T) {
	rr := httptest.NewRecorder()
	(&App{}).Health(rr, httptest.NewRequest(http.MethodGet, "/v1/healthz", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
}

func TestOpenAPIJSON(t *testing.T) {
	app := &App{}
	rr := httptest.NewRecorder()
	app.OpenAPIJSON(rr, httptest.NewRequest(http.MethodGet, "/v1/openapi.json", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var doc struct {
		OpenAPI string         `json:"openapi"`
		Paths   map[string]any `json:"paths"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &doc); err != nil {
		t.Fatalf("embedded document is not JSON: %v", err)
	}
	for _, path := range []string{"/donations", "/donations/report", "/reporting", "/reporting/export", "/login", "/register"} {
		if _, ok := doc.Paths[path]; !ok {
			t.Fatalf("path %s not documented", path)
		}
	}

	etag := rr.Header().Get("ETag")
	req := httptest.NewRequest(http.MethodGet, "/v1/openapi.json", nil)
	req.Header.Set("If-None-Match", etag)
	rr = httptest.NewRecorder()
	app.OpenAPIJSON(rr, req)
	if rr.Code != http.StatusNotModified || rr.Body.Len() != 0 {
		t.Fatalf("revalidation status = %d, body %d bytes", rr.Code, rr.Body.Len())
	}
}
