package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gorilla/mux"
	"github.com/phraewchuthamat/task-board-api/database"
	"github.com/phraewchuthamat/task-board-api/services"
)

// newTestRouter wires the full API against a throwaway SQLite database.
func newTestRouter(t *testing.T) *mux.Router {
	t.Helper()

	db, err := database.InitDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("init db: %v", err)
	}

	authService := services.NewAuthService([]byte("test-secret"))
	dataService := database.NewDataService(db)
	reporter := NewErrorReporter(false)

	return NewRouter(
		NewAuthHandler(authService, dataService, reporter),
		NewColumnHandler(dataService, reporter),
		NewTaskHandler(dataService, reporter),
		NewAuthMiddleware(authService),
	)
}

// doJSON performs a request with an optional bearer token and JSON body.
func doJSON(t *testing.T, router *mux.Router, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var out map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", rr.Body.String(), err)
	}
	return out
}

// registerAndLogin creates an account and returns its session token.
func registerAndLogin(t *testing.T, router *mux.Router, username, password string) string {
	t.Helper()

	creds := map[string]string{"username": username, "password": password}

	if rr := doJSON(t, router, http.MethodPost, "/auth/register", "", creds); rr.Code != http.StatusCreated {
		t.Fatalf("register %s: got status %d, body %s", username, rr.Code, rr.Body.String())
	}

	rr := doJSON(t, router, http.MethodPost, "/auth/login", "", creds)
	if rr.Code != http.StatusOK {
		t.Fatalf("login %s: got status %d, body %s", username, rr.Code, rr.Body.String())
	}

	token, _ := decode(t, rr)["accessToken"].(string)
	if token == "" {
		t.Fatalf("login %s: no accessToken in response", username)
	}
	return token
}

// createColumn makes a column and returns its id.
func createColumn(t *testing.T, router *mux.Router, token, title string) string {
	t.Helper()

	rr := doJSON(t, router, http.MethodPost, "/columns", token, map[string]string{"title": title})
	if rr.Code != http.StatusCreated {
		t.Fatalf("create column %q: got status %d, body %s", title, rr.Code, rr.Body.String())
	}
	id, _ := decode(t, rr)["id"].(string)
	if id == "" {
		t.Fatalf("create column %q: no id in response", title)
	}
	return id
}

// createTask makes a task in the given column and returns its id.
func createTask(t *testing.T, router *mux.Router, token, columnID, title string) string {
	t.Helper()

	rr := doJSON(t, router, http.MethodPost, "/tasks", token, map[string]string{
		"title":    title,
		"columnId": columnID,
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("create task %q: got status %d, body %s", title, rr.Code, rr.Body.String())
	}
	id, _ := decode(t, rr)["id"].(string)
	if id == "" {
		t.Fatalf("create task %q: no id in response", title)
	}
	return id
}
