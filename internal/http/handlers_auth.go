package http

import (
	"errors"
	"log/slog"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"spendlog/internal/auth"
	"spendlog/internal/storage"
)

type authPage struct {
	Error    string
	Email    string
	Username string
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.render(w, r, "register.html", authPage{})
	case http.MethodPost:
		s.handleRegisterPost(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleRegisterPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	username := sanitizeInput(r.Form.Get("username"))
	email := strings.ToLower(sanitizeInput(r.Form.Get("email")))
	password := r.Form.Get("password")

	page := authPage{Email: email, Username: username}
	if username == "" || email == "" || password == "" {
		page.Error = "Username, email and password are required."
		w.WriteHeader(http.StatusUnprocessableEntity)
		s.render(w, r, "register.html", page)
		return
	}
	if _, err := mail.ParseAddress(email); err != nil {
		page.Error = "Please enter a valid email address."
		w.WriteHeader(http.StatusUnprocessableEntity)
		s.render(w, r, "register.html", page)
		return
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		slog.ErrorContext(r.Context(), "Password hashing failed", "error", err)
		http.Error(w, "registration failed", http.StatusInternalServerError)
		return
	}

	user, err := s.repo.CreateUser(r.Context(), username, email, hash)
	if errors.Is(err, storage.ErrEmailTaken) {
		page.Error = "That email is already registered."
		w.WriteHeader(http.StatusUnprocessableEntity)
		s.render(w, r, "register.html", page)
		return
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "User registration failed", "error", err, "email", email)
		http.Error(w, "registration failed", http.StatusInternalServerError)
		return
	}

	if err := s.startSession(w, r, user.ID); err != nil {
		// Account exists; let them log in manually.
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.render(w, r, "login.html", authPage{})
	case http.MethodPost:
		s.handleLoginPost(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleLoginPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	email := strings.ToLower(sanitizeInput(r.Form.Get("email")))
	password := r.Form.Get("password")
	page := authPage{Email: email}

	user, err := s.repo.GetUserByEmail(r.Context(), email)
	if err != nil || !auth.CheckPassword(password, user.PasswordHash) {
		slog.WarnContext(r.Context(), "Login rejected", "email", email)
		page.Error = "Invalid email or password."
		w.WriteHeader(http.StatusUnauthorized)
		s.render(w, r, "login.html", page)
		return
	}

	if err := s.startSession(w, r, user.ID); err != nil {
		slog.ErrorContext(r.Context(), "Session creation failed", "error", err, "user_id", user.ID)
		http.Error(w, "login failed", http.StatusInternalServerError)
		return
	}

	slog.InfoContext(r.Context(), "User logged in", "user_id", user.ID)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	if cookie, err := r.Cookie(sessionCookie); err == nil {
		if err := s.repo.DeleteSession(r.Context(), cookie.Value); err != nil {
			slog.ErrorContext(r.Context(), "Session deletion failed", "error", err)
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (s *Server) startSession(w http.ResponseWriter, r *http.Request, userID int64) error {
	token, err := auth.GenerateSessionToken()
	if err != nil {
		return err
	}

	expiresAt := time.Now().Add(s.sessionDuration)
	if err := s.repo.CreateSession(r.Context(), token, userID, expiresAt); err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}
