package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/szahir/taskboard/internal/model"
	"github.com/szahir/taskboard/internal/service"
	"github.com/szahir/taskboard/internal/session"
)

const maxUserBodySize = 1 << 20 // 1 MB

// UserHandler handles signup, login, logout and Google sign-in.
type UserHandler struct {
	svc      *service.AuthService
	sessions *session.Manager
}

func NewUserHandler(svc *service.AuthService, sessions *session.Manager) *UserHandler {
	return &UserHandler{svc: svc, sessions: sessions}
}

// ServeHTTP routes /api/v1/user/* requests.
func (h *UserHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/v1/user/")
	path = strings.TrimRight(path, "/")

	switch path {
	case "signup":
		h.requirePost(w, r, h.handleSignup)
	case "login":
		h.requirePost(w, r, h.handleLogin)
	case "logout":
		h.requirePost(w, r, h.handleLogout)
	case "google":
		h.requirePost(w, r, h.handleGoogle)
	default:
		WriteError(w, http.StatusNotFound, "NOT_FOUND", "endpoint not found")
	}
}

func (h *UserHandler) requirePost(w http.ResponseWriter, r *http.Request, handler func(http.ResponseWriter, *http.Request)) {
	if r.Method != http.MethodPost {
		WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxUserBodySize)
	handler(w, r)
}

// --- DTOs ---

type signupRequest struct {
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type googleRequest struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	GooglePhotoURL string `json:"googlePhotoUrl"`
}

type userResponse struct {
	ID                string `json:"id"`
	FirstName         string `json:"firstname"`
	LastName          string `json:"lastname"`
	Email             string `json:"email"`
	ProfilePictureURL string `json:"profilePictureUrl,omitempty"`
}

func toUserResponse(u model.User) userResponse {
	return userResponse{
		ID:                u.ID,
		FirstName:         u.FirstName,
		LastName:          u.LastName,
		Email:             u.Email,
		ProfilePictureURL: u.ProfilePictureURL,
	}
}

// --- Handlers ---

func (h *UserHandler) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}

	user, err := h.svc.Signup(r.Context(), service.SignupInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	if !h.startSession(w, r, user.ID) {
		return
	}
	WriteJSON(w, http.StatusCreated, toUserResponse(user))
}

func (h *UserHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}

	user, err := h.svc.Login(r.Context(), service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	if !h.startSession(w, r, user.ID) {
		return
	}
	WriteJSON(w, http.StatusOK, toUserResponse(user))
}

func (h *UserHandler) handleLogout(w http.ResponseWriter, r *http.Request) {
	// Revoke whatever session the request carries; an absent or mangled
	// cookie still results in a cleared cookie and a 200.
	if token, ok := session.TokenFromRequest(r); ok {
		if err := h.sessions.Revoke(r.Context(), token); err != nil {
			slog.ErrorContext(r.Context(), "failed to revoke session", "error", err)
		}
	}

	h.sessions.ClearCookie(w)
	WriteJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

func (h *UserHandler) handleGoogle(w http.ResponseWriter, r *http.Request) {
	var req googleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}

	user, err := h.svc.GoogleLogin(r.Context(), service.GoogleInput{
		Name:     req.Name,
		Email:    req.Email,
		PhotoURL: req.GooglePhotoURL,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	if !h.startSession(w, r, user.ID) {
		return
	}
	WriteJSON(w, http.StatusOK, toUserResponse(user))
}

func (h *UserHandler) startSession(w http.ResponseWriter, r *http.Request, userID string) bool {
	token, err := h.sessions.Issue(userID)
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to issue session", "error", err)
		WriteError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		return false
	}
	h.sessions.SetCookie(w, token)
	return true
}
