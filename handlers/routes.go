package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
)

// NewRouter registers all routes. Auth routes are public; the column and
// task subrouters sit behind the session-token middleware.
func NewRouter(authHandler *AuthHandler, columnHandler *ColumnHandler, taskHandler *TaskHandler, authMiddleware *AuthMiddleware) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("Task Board API is running!"))
	}).Methods("GET")

	// Auth routes
	r.HandleFunc("/auth/register", authHandler.Register).Methods("POST")
	r.HandleFunc("/auth/login", authHandler.Login).Methods("POST")
	r.HandleFunc("/auth/forgot-password", authHandler.ForgotPassword).Methods("POST")
	r.HandleFunc("/auth/reset-password", authHandler.ResetPassword).Methods("POST")

	// Column routes (protected)
	columns := r.PathPrefix("/columns").Subrouter()
	columns.Use(authMiddleware.Auth)
	columns.HandleFunc("", columnHandler.List).Methods("GET")
	columns.HandleFunc("", columnHandler.Create).Methods("POST")
	columns.HandleFunc("/{id}", columnHandler.Update).Methods("PATCH")
	columns.HandleFunc("/{id}", columnHandler.Delete).Methods("DELETE")

	// Task routes (protected)
	tasks := r.PathPrefix("/tasks").Subrouter()
	tasks.Use(authMiddleware.Auth)
	tasks.HandleFunc("", taskHandler.List).Methods("GET")
	tasks.HandleFunc("", taskHandler.Create).Methods("POST")
	tasks.HandleFunc("/{id}", taskHandler.Update).Methods("PATCH")
	tasks.HandleFunc("/{id}", taskHandler.Delete).Methods("DELETE")

	// Unmatched routes get the same JSON envelope as everything else
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "Route not found")
	})

	return r
}
