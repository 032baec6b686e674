package handlers

import (
	"net/http"
	"testing"
)

func TestCreateTaskDefaults(t *testing.T) {
	router := newTestRouter(t)
	token := registerAndLogin(t, router, "alice", "secret123")
	columnID := createColumn(t, router, token, "Backlog")

	rr := doJSON(t, router, http.MethodPost, "/tasks", token, map[string]string{
		"title":    "Fix bug",
		"columnId": columnID,
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("got status %d, body %s", rr.Code, rr.Body.String())
	}
	task := decode(t, rr)
	if task["priority"] != "medium" {
		t.Errorf("priority = %v, want medium", task["priority"])
	}
	if task["position"] != float64(1000) {
		t.Errorf("position = %v, want 1000", task["position"])
	}

	// Positions advance per column, not per owner.
	other := createColumn(t, router, token, "Doing")
	rr = doJSON(t, router, http.MethodPost, "/tasks", token, map[string]string{
		"title": "Second", "columnId": columnID,
	})
	if pos := decode(t, rr)["position"]; pos != float64(2000) {
		t.Errorf("second task in column: position = %v, want 2000", pos)
	}
	rr = doJSON(t, router, http.MethodPost, "/tasks", token, map[string]string{
		"title": "Elsewhere", "columnId": other,
	})
	if pos := decode(t, rr)["position"]; pos != float64(1000) {
		t.Errorf("first task in other column: position = %v, want 1000", pos)
	}
}

func TestCreateTaskValidation(t *testing.T) {
	router := newTestRouter(t)
	token := registerAndLogin(t, router, "alice", "secret123")
	columnID := createColumn(t, router, token, "Backlog")

	tests := []struct {
		name string
		body map[string]string
	}{
		{"missing title", map[string]string{"columnId": columnID}},
		{"missing column", map[string]string{"title": "Fix bug"}},
		{"bad priority", map[string]string{"title": "Fix bug", "columnId": columnID, "priority": "urgent"}},
		{"unknown column", map[string]string{"title": "Fix bug", "columnId": "no-such-column"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := doJSON(t, router, http.MethodPost, "/tasks", token, tt.body)
			if rr.Code != http.StatusBadRequest {
				t.Errorf("got status %d, want 400", rr.Code)
			}
		})
	}

	// A column someone else owns reads the same as a missing one.
	mallory := registerAndLogin(t, router, "mallory", "secret123")
	rr := doJSON(t, router, http.MethodPost, "/tasks", mallory, map[string]string{
		"title": "Sneak in", "columnId": columnID,
	})
	if rr.Code != http.StatusBadRequest {
		t.Errorf("foreign column: got status %d, want 400", rr.Code)
	}
	if msg := decode(t, rr)["message"]; msg != "Column not found" {
		t.Errorf("foreign column message = %q", msg)
	}
}

func TestListTasksEnvelope(t *testing.T) {
	router := newTestRouter(t)
	token := registerAndLogin(t, router, "alice", "secret123")

	rr := doJSON(t, router, http.MethodGet, "/tasks", token, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("got status %d", rr.Code)
	}
	resp := decode(t, rr)
	if resp["owner"] != "alice" {
		t.Errorf("owner = %v, want alice", resp["owner"])
	}
	if data, ok := resp["data"].([]any); !ok || len(data) != 0 {
		t.Errorf("data = %v, want empty array", resp["data"])
	}

	columnID := createColumn(t, router, token, "Backlog")
	createTask(t, router, token, columnID, "Fix bug")

	rr = doJSON(t, router, http.MethodGet, "/tasks", token, nil)
	if data, ok := decode(t, rr)["data"].([]any); !ok || len(data) != 1 {
		t.Errorf("data after create = %v, want one task", decode(t, rr)["data"])
	}
}

func TestUpdateTaskMoveAndReorder(t *testing.T) {
	router := newTestRouter(t)
	token := registerAndLogin(t, router, "alice", "secret123")
	backlog := createColumn(t, router, token, "Backlog")
	doing := createColumn(t, router, token, "Doing")
	id := createTask(t, router, token, backlog, "Fix bug")

	// Move across columns with a caller-supplied position; both stored
	// verbatim, untouched fields survive.
	rr := doJSON(t, router, http.MethodPatch, "/tasks/"+id, token, map[string]any{
		"columnId": doing,
		"position": 512.5,
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("got status %d, body %s", rr.Code, rr.Body.String())
	}
	task := decode(t, rr)
	if task["columnId"] != doing {
		t.Errorf("columnId = %v, want %v", task["columnId"], doing)
	}
	if task["position"] != 512.5 {
		t.Errorf("position = %v, want 512.5", task["position"])
	}
	if task["title"] != "Fix bug" {
		t.Errorf("title = %v, want unchanged", task["title"])
	}

	// Moving into a column the caller doesn't own is refused.
	mallory := registerAndLogin(t, router, "mallory", "secret123")
	theirs := createColumn(t, router, mallory, "Theirs")
	rr = doJSON(t, router, http.MethodPatch, "/tasks/"+id, token, map[string]string{"columnId": theirs})
	if rr.Code != http.StatusBadRequest {
		t.Errorf("foreign target column: got status %d, want 400", rr.Code)
	}

	rr = doJSON(t, router, http.MethodPatch, "/tasks/"+id, token, map[string]string{})
	if rr.Code != http.StatusBadRequest {
		t.Errorf("no fields: got status %d, want 400", rr.Code)
	}

	rr = doJSON(t, router, http.MethodPatch, "/tasks/"+id, token, map[string]string{"priority": "critical"})
	if rr.Code != http.StatusBadRequest {
		t.Errorf("bad priority: got status %d, want 400", rr.Code)
	}
}

func TestTaskOwnershipIsolation(t *testing.T) {
	router := newTestRouter(t)
	alice := registerAndLogin(t, router, "alice", "secret123")
	mallory := registerAndLogin(t, router, "mallory", "secret123")

	columnID := createColumn(t, router, alice, "Backlog")
	id := createTask(t, router, alice, columnID, "Fix bug")

	rr := doJSON(t, router, http.MethodPatch, "/tasks/"+id, mallory, map[string]string{"title": "Hijack"})
	if rr.Code != http.StatusNotFound {
		t.Errorf("foreign patch: got status %d, want 404", rr.Code)
	}
	rr = doJSON(t, router, http.MethodDelete, "/tasks/"+id, mallory, nil)
	if rr.Code != http.StatusNotFound {
		t.Errorf("foreign delete: got status %d, want 404", rr.Code)
	}

	// Still intact for the owner.
	rr = doJSON(t, router, http.MethodGet, "/tasks", alice, nil)
	if data, ok := decode(t, rr)["data"].([]any); !ok || len(data) != 1 {
		t.Errorf("owner list = %v, want one task", decode(t, rr)["data"])
	}
}

func TestDeleteTask(t *testing.T) {
	router := newTestRouter(t)
	token := registerAndLogin(t, router, "alice", "secret123")
	columnID := createColumn(t, router, token, "Backlog")
	id := createTask(t, router, token, columnID, "Fix bug")

	rr := doJSON(t, router, http.MethodDelete, "/tasks/"+id, token, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("delete: got status %d, body %s", rr.Code, rr.Body.String())
	}
	if msg := decode(t, rr)["message"]; msg != "Task deleted successfully" {
		t.Errorf("message = %q", msg)
	}

	for i := 0; i < 2; i++ {
		rr = doJSON(t, router, http.MethodDelete, "/tasks/"+id, token, nil)
		if rr.Code != http.StatusNotFound {
			t.Errorf("repeat delete %d: got status %d, want 404", i, rr.Code)
		}
	}
}
