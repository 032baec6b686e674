package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/phraewchuthamat/task-board-api/database"
	"github.com/phraewchuthamat/task-board-api/services"
)

// ColumnHandler handles CRUD over a user's board columns.
type ColumnHandler struct {
	dataService *database.DataService
	reporter    *ErrorReporter
}

func NewColumnHandler(dataService *database.DataService, reporter *ErrorReporter) *ColumnHandler {
	return &ColumnHandler{
		dataService: dataService,
		reporter:    reporter,
	}
}

// List returns all of the caller's columns with their tasks, both ordered by
// position.
func (h *ColumnHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	columns, err := h.dataService.ListColumns(r.Context(), user.ID)
	if err != nil {
		h.reporter.ServerError(w, "Fetching columns", err)
		return
	}

	writeJSON(w, http.StatusOK, columns)
}

// Create appends a new column to the caller's board.
func (h *ColumnHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req struct {
		Title string  `json:"title"`
		Color *string `json:"color"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request format")
		return
	}

	if req.Title == "" {
		writeError(w, http.StatusBadRequest, "Title is required")
		return
	}

	lastPosition, err := h.dataService.LastColumnPosition(r.Context(), user.ID)
	if err != nil {
		h.reporter.ServerError(w, "Creating column", err)
		return
	}

	column := &database.Column{
		Title:    req.Title,
		Position: services.NextPosition(lastPosition),
		UserID:   user.ID,
		Tasks:    []database.Task{},
	}
	if req.Color != nil {
		column.Color = *req.Color
	}

	if err := h.dataService.CreateColumn(r.Context(), column); err != nil {
		h.reporter.ServerError(w, "Creating column", err)
		return
	}

	writeJSON(w, http.StatusCreated, column)
}

// Update applies a partial update (rename, recolor, reorder). Position values
// are stored verbatim; the client owns the ordering math on reorder.
func (h *ColumnHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	id := mux.Vars(r)["id"]

	var req struct {
		Title    *string  `json:"title"`
		Position *float64 `json:"position"`
		Color    *string  `json:"color"`
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
	if req.Position != nil {
		updates["position"] = *req.Position
	}
	if req.Color != nil {
		updates["color"] = *req.Color
	}
	if len(updates) == 0 {
		writeError(w, http.StatusBadRequest, "No fields to update")
		return
	}

	column, err := h.dataService.UpdateColumn(r.Context(), user.ID, id, updates)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Column not found or unauthorized")
			return
		}
		h.reporter.ServerError(w, "Updating column", err)
		return
	}

	writeJSON(w, http.StatusOK, column)
}

// Delete removes a column and its tasks.
func (h *ColumnHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	id := mux.Vars(r)["id"]

	if err := h.dataService.DeleteColumn(r.Context(), user.ID, id); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Column not found or unauthorized")
			return
		}
		h.reporter.ServerError(w, "Deleting column", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Column deleted successfully",
	})
}
