package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
)

// errorResponse is the uniform envelope every failure returns. The detail
// field is only filled in development mode.
type errorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// ErrorReporter translates handler failures into the JSON error envelope.
// When Dev is true, 500 responses include the underlying error message.
type ErrorReporter struct {
	Dev bool
}

func NewErrorReporter(dev bool) *ErrorReporter {
	return &ErrorReporter{Dev: dev}
}

// ServerError logs an unexpected failure with its context label and writes
// the 500 envelope. The request is isolated; nothing escapes to the caller
// beyond the envelope.
func (e *ErrorReporter) ServerError(w http.ResponseWriter, context string, err error) {
	log.Printf("[%s] Error: %v", context, err)
	resp := errorResponse{Message: context + " failed."}
	if e.Dev && err != nil {
		resp.Error = err.Error()
	}
	writeJSON(w, http.StatusInternalServerError, resp)
}

// Recover answers a panicking handler with the 500 envelope so one bad
// request can't take the process down.
func (e *ErrorReporter) Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				e.ServerError(w, "Handling request", fmt.Errorf("panic: %v", rec))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Message: message})
}
