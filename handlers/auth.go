package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/phraewchuthamat/task-board-api/database"
	"github.com/phraewchuthamat/task-board-api/services"
)

// AuthHandler handles registration, login and the password-reset flow.
type AuthHandler struct {
	authService *services.AuthService
	dataService *database.DataService
	reporter    *ErrorReporter
}

func NewAuthHandler(authService *services.AuthService, dataService *database.DataService, reporter *ErrorReporter) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		dataService: dataService,
		reporter:    reporter,
	}
}

type publicUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// Register creates a new account.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request format")
		return
	}

	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	// Existence pre-check; the unique index catches the race in CreateUser.
	if _, err := h.dataService.GetUserByUsername(r.Context(), req.Username); err == nil {
		writeError(w, http.StatusBadRequest, "Username already exists")
		return
	} else if !errors.Is(err, database.ErrNotFound) {
		h.reporter.ServerError(w, "Creating user", err)
		return
	}

	hash, err := h.authService.HashPassword(req.Password)
	if err != nil {
		h.reporter.ServerError(w, "Creating user", err)
		return
	}

	user := &database.User{
		Username:     req.Username,
		PasswordHash: hash,
	}
	if err := h.dataService.CreateUser(r.Context(), user); err != nil {
		if errors.Is(err, database.ErrDuplicateUsername) {
			writeError(w, http.StatusBadRequest, "Username already exists")
			return
		}
		h.reporter.ServerError(w, "Creating user", err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "User created successfully",
		"user":    publicUser{ID: user.ID, Username: user.Username},
	})
}

// Login checks credentials and hands out a session token. Unknown usernames
// and wrong passwords get the same answer.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request format")
		return
	}

	user, err := h.dataService.GetUserByUsername(r.Context(), req.Username)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			writeError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		h.reporter.ServerError(w, "Logging in", err)
		return
	}

	if !h.authService.CheckPassword(user.PasswordHash, req.Password) {
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := h.authService.IssueSessionToken(user.ID, user.Username)
	if err != nil {
		h.reporter.ServerError(w, "Logging in", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":     "Login successful",
		"accessToken": token,
		"user":        publicUser{ID: user.ID, Username: user.Username},
	})
}

// ForgotPassword issues a short-lived reset token for a known username. The
// token is returned in the response body; there is no mail delivery here.
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request format")
		return
	}

	if req.Username == "" {
		writeError(w, http.StatusBadRequest, "Username is required")
		return
	}

	user, err := h.dataService.GetUserByUsername(r.Context(), req.Username)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		h.reporter.ServerError(w, "Requesting password reset", err)
		return
	}

	token, err := h.authService.IssueResetToken(user.ID)
	if err != nil {
		h.reporter.ServerError(w, "Requesting password reset", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"token":     token,
		"expiresIn": h.authService.ResetTokenTTL().String(),
	})
}

// ResetPassword consumes a reset-kind token and replaces the password.
// Session tokens are refused here the same as garbage tokens.
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token           string `json:"token"`
		NewPassword     string `json:"newPassword"`
		ConfirmPassword string `json:"confirmPassword"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request format")
		return
	}

	if req.Token == "" || req.NewPassword == "" || req.ConfirmPassword == "" {
		writeError(w, http.StatusBadRequest, "Token, new password and confirmation are required")
		return
	}
	if req.NewPassword != req.ConfirmPassword {
		writeError(w, http.StatusBadRequest, "Passwords do not match")
		return
	}

	claims, err := h.authService.VerifyResetToken(req.Token)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Invalid or expired token.")
		return
	}

	hash, err := h.authService.HashPassword(req.NewPassword)
	if err != nil {
		h.reporter.ServerError(w, "Resetting password", err)
		return
	}

	if err := h.dataService.UpdateUserPassword(r.Context(), claims.UserID, hash); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			writeError(w, http.StatusUnauthorized, "Invalid or expired token.")
			return
		}
		h.reporter.ServerError(w, "Resetting password", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Password has been reset successfully",
	})
}
