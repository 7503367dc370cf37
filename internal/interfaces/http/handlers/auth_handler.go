package handlers

import (
	"mime"
	"net/http"
	"net/url"
	"time"

	"github.com/turtacn/H2Siting/internal/application/auth"
	"github.com/turtacn/H2Siting/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/H2Siting/internal/interfaces/http/middleware"
)

// AuthHandler serves sign-up, login, Google sign-in and account removal.
type AuthHandler struct {
	svc          auth.Service
	cookieSecure bool
	logger       logging.Logger
}

// NewAuthHandler creates a new AuthHandler. cookieSecure marks the session
// cookie HTTPS-only.
func NewAuthHandler(svc auth.Service, cookieSecure bool, logger logging.Logger) *AuthHandler {
	return &AuthHandler{svc: svc, cookieSecure: cookieSecure, logger: logger}
}

type credentials struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// readCredentials accepts JSON bodies and HTML form posts.
func readCredentials(r *http.Request) (credentials, error) {
	var c credentials
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if ct == "application/json" {
		err := decodeJSON(r, &c)
		return c, err
	}
	if err := r.ParseForm(); err != nil {
		return c, err
	}
	c.Username = r.PostFormValue("username")
	c.Email = r.PostFormValue("email")
	c.Password = r.PostFormValue("password")
	return c, nil
}

// SessionResponse is returned after a successful sign-in.
type SessionResponse struct {
	Status    string      `json:"status"`
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      interface{} `json:"user"`
	Picture   string      `json:"picture"`
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, s *auth.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    s.Token,
		Path:     "/",
		Expires:  s.ExpiresAt,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) writeSession(w http.ResponseWriter, status int, s *auth.Session) {
	h.setSessionCookie(w, s)
	writeJSON(w, status, SessionResponse{
		Status:    "success",
		Token:     s.Token,
		ExpiresAt: s.ExpiresAt,
		User:      s.User,
		Picture:   s.Picture,
	})
}

// Signup handles POST /signup.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	c, err := readCredentials(r)
	if err != nil {
		writeAppError(w, err)
		return
	}
	s, err := h.svc.Signup(r.Context(), &auth.SignupInput{Username: c.Username, Email: c.Email, Password: c.Password})
	if err != nil {
		writeAppError(w, err)
		return
	}
	h.writeSession(w, http.StatusCreated, s)
}

// Login handles POST /login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	c, err := readCredentials(r)
	if err != nil {
		writeAppError(w, err)
		return
	}
	s, err := h.svc.Login(r.Context(), c.Email, c.Password)
	if err != nil {
		writeAppError(w, err)
		return
	}
	h.writeSession(w, http.StatusOK, s)
}

// GoogleLogin handles GET /auth/google by redirecting to the consent page.
func (h *AuthHandler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	target, err := h.svc.GoogleAuthURL(r.Context())
	if err != nil {
		writeAppError(w, err)
		return
	}
	http.Redirect(w, r, target, http.StatusFound)
}

// GoogleCallback handles GET /auth/google/callback. Browsers land on the
// home page when signed in and on the login page with an error otherwise.
func (h *AuthHandler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if e := q.Get("error"); e != "" {
		h.logger.Warn("google sign-in declined", logging.String("error", e))
		http.Redirect(w, r, "/login?error="+url.QueryEscape("Google sign-in was cancelled."), http.StatusFound)
		return
	}
	s, err := h.svc.GoogleCallback(r.Context(), q.Get("code"), q.Get("state"))
	if err != nil {
		_, msg := errorMessage(err)
		http.Redirect(w, r, "/login?error="+url.QueryEscape(msg), http.StatusFound)
		return
	}
	h.setSessionCookie(w, s)
	http.Redirect(w, r, "/", http.StatusFound)
}

// Logout handles /auth/logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Logout(r.Context(), middleware.ContextGetClaims(r.Context())); err != nil {
		writeAppError(w, err)
		return
	}
	h.clearSessionCookie(w)
	writeJSON(w, http.StatusOK, map[string]string{"status": "success", "message": "You have been logged out."})
}

// DeleteUser handles POST /delete_user/{id}.
func (h *AuthHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	target, err := pathInt64(r, "id")
	if err != nil {
		writeAppError(w, err)
		return
	}
	if err := h.svc.DeleteUser(r.Context(), currentUserID(r), target); err != nil {
		writeAppError(w, err)
		return
	}
	h.clearSessionCookie(w)
	writeJSON(w, http.StatusOK, map[string]string{"status": "success", "message": "Your account has been deleted."})
}

//Personal.AI order the ending
