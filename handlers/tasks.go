package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/phraewchuthamat/task-board-api/database"
	"github.com/phraewchuthamat/task-board-api/services"
)

// TaskHandler handles CRUD over a user's tasks.
type TaskHandler struct {
	dataService *database.DataService
	reporter    *ErrorReporter
}

func NewTaskHandler(dataService *database.DataService, reporter *ErrorReporter) *TaskHandler {
	return &TaskHandler{
		dataService: dataService,
		reporter:    reporter,
	}
}

// List returns every task the caller owns, across all columns.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	tasks, err := h.dataService.ListTasks(r.Context(), user.ID)
	if err != nil {
		h.reporter.ServerError(w, "Fetching tasks", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"owner": user.Username,
		"data":  tasks,
	})
}

// Create appends a task to one of the caller's columns. The target column
// must belong to the caller; a foreign column id reads the same as a missing
// one.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req struct {
		Title       string  `json:"title"`
		Description *string `json:"description"`
		ColumnID    string  `json:"columnId"`
		Priority    *string `json:"priority"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request format")
		return
	}

	if req.Title == "" {
		writeError(w, http.StatusBadRequest, "Title is required")
		return
	}
	if req.ColumnID == "" {
		writeError(w, http.StatusBadRequest, "Column id is required")
		return
	}

	priority := database.PriorityMedium
	if req.Priority != nil {
		if !database.ValidPriority(*req.Priority) {
			writeError(w, http.StatusBadRequest, "Priority must be low, medium or high")
			return
		}
		priority = *req.Priority
	}

	if _, err := h.dataService.GetColumn(r.Context(), user.ID, req.ColumnID); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			writeError(w, http.StatusBadRequest, "Column not found")
			return
		}
		h.reporter.ServerError(w, "Creating task", err)
		return
	}

	lastPosition, err := h.dataService.LastTaskPosition(r.Context(), user.ID, req.ColumnID)
	if err != nil {
		h.reporter.ServerError(w, "Creating task", err)
		return
	}

	task := &database.Task{
		Title:    req.Title,
		ColumnID: req.ColumnID,
		Priority: priority,
		Position: services.NextPosition(lastPosition),
		UserID:   user.ID,
	}
	if req.Description != nil {
		task.Description = *req.Description
	}

	if err := h.dataService.CreateTask(r.Context(), task); err != nil {
		h.reporter.ServerError(w, "Creating task", err)
		return
	}

	writeJSON(w, http.StatusCreated, task)
}

// Update applies a partial update, including moves across columns and
// caller-computed reorder positions, which are stored verbatim.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	id := mux.Vars(r)["id"]

	var req struct {
		Title       *string  `json:"title"`
		Description *string  `json:"description"`
		ColumnID    *string  `json:"columnId"`
		Priority    *string  `json:"priority"`
		Position    *float64 `json:"position"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request format")
		return
	}

	updates := map[string]any{}
	if req.Title != nil {
		if *req.Title == "" {
			writeError(w, http.StatusBadRequest, "Title cannot be empty")
			return
		}
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.ColumnID != nil {
		// Moving to a column the caller doesn't own is refused without
		// revealing whether that column exists.
		if _, err := h.dataService.GetColumn(r.Context(), user.ID, *req.ColumnID); err != nil {
			if errors.Is(err, database.ErrNotFound) {
				writeError(w, http.StatusBadRequest, "Column not found")
				return
			}
			h.reporter.ServerError(w, "Updating task", err)
			return
		}
		updates["column_id"] = *req.ColumnID
	}
	if req.Priority != nil {
		if !database.ValidPriority(*req.Priority) {
			writeError(w, http.StatusBadRequest, "Priority must be low, medium or high")
			return
		}
		updates["priority"] = *req.Priority
	}
	if req.Position != nil {
		updates["position"] = *req.Position
	}
	if len(updates) == 0 {
		writeError(w, http.StatusBadRequest, "No fields to update")
		return
	}

	task, err := h.dataService.UpdateTask(r.Context(), user.ID, id, updates)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Task not found or unauthorized")
			return
		}
		h.reporter.ServerError(w, "Updating task", err)
		return
	}

	writeJSON(w, http.StatusOK, task)
}

// Delete removes a task. Repeated deletes of the same id keep answering 404.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	id := mux.Vars(r)["id"]

	if err := h.dataService.DeleteTask(r.Context(), user.ID, id); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Task not found or unauthorized")
			return
		}
		h.reporter.ServerError(w, "Deleting task", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Task deleted successfully",
	})
}
