package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/H2Siting/internal/application/auth"
	"github.com/turtacn/H2Siting/internal/domain/user"
	"github.com/turtacn/H2Siting/internal/infrastructure/auth/session"
	"github.com/turtacn/H2Siting/internal/interfaces/http/middleware"
	"github.com/turtacn/H2Siting/internal/testutil"
	"github.com/turtacn/H2Siting/pkg/errors"
)

func newTestSession() *auth.Session {
	return &auth.Session{
		Token:     "tok-123",
		ExpiresAt: time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC),
		User:      &user.User{ID: 4, Username: "asha", Email: "asha@example.com"},
		Picture:   auth.DefaultPicture,
	}
}

func sessionCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == middleware.SessionCookie {
			return c
		}
	}
	return nil
}

func TestAuthHandler_Signup_JSON(t *testing.T) {
	svc := new(mockAuthService)
	svc.On("Signup", mock.Anything, &auth.SignupInput{Username: "asha", Email: "asha@example.com", Password: "secret1"}).
		Return(newTestSession(), nil)
	h := NewAuthHandler(svc, true, testutil.NewMockLogger())

	body := `{"username":"asha","email":"asha@example.com","password":"secret1"}`
	r := httptest.NewRequest(http.MethodPost, "/signup", strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json; charset=utf-8")
	w := httptest.NewRecorder()
	h.Signup(w, r)

	require.Equal(t, http.StatusCreated, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp["status"])
	assert.Equal(t, "tok-123", resp["token"])
	assert.Equal(t, auth.DefaultPicture, resp["picture"])

	c := sessionCookie(w)
	require.NotNil(t, c)
	assert.Equal(t, "tok-123", c.Value)
	assert.True(t, c.HttpOnly)
	assert.True(t, c.Secure)
	svc.AssertExpectations(t)
}

func TestAuthHandler_Login_Form(t *testing.T) {
	svc := new(mockAuthService)
	svc.On("Login", mock.Anything, "asha@example.com", "secret1").Return(newTestSession(), nil)
	h := NewAuthHandler(svc, false, testutil.NewMockLogger())

	form := url.Values{"email": {"asha@example.com"}, "password": {"secret1"}}
	r := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	h.Login(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, sessionCookie(w))
	svc.AssertExpectations(t)
}

func TestAuthHandler_Login_Errors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		msg    string
	}{
		{"bad password", auth.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid email or password."},
		{"google account", auth.ErrUseGoogle, http.StatusUnauthorized, auth.ErrUseGoogle.Message},
		{"missing fields", errors.InvalidParam("Email and password are required."), http.StatusBadRequest, "Email and password are required."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(mockAuthService)
			svc.On("Login", mock.Anything, mock.Anything, mock.Anything).Return(nil, tt.err)
			h := NewAuthHandler(svc, false, testutil.NewMockLogger())

			r := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"email":"a@b.co","password":"x"}`))
			r.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			h.Login(w, r)

			assert.Equal(t, tt.status, w.Code)
			assert.JSONEq(t, `{"error":"`+tt.msg+`"}`, w.Body.String())
			assert.Nil(t, sessionCookie(w))
		})
	}
}

func TestAuthHandler_Signup_BadJSON(t *testing.T) {
	h := NewAuthHandler(new(mockAuthService), false, testutil.NewMockLogger())

	r := httptest.NewRequest(http.MethodPost, "/signup", strings.NewReader(`{"username":`))
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.Signup(w, r)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthHandler_GoogleLogin(t *testing.T) {
	svc := new(mockAuthService)
	svc.On("GoogleAuthURL", mock.Anything).Return("https://accounts.google.com/o/oauth2/auth?state=s1", nil)
	h := NewAuthHandler(svc, false, testutil.NewMockLogger())

	w := httptest.NewRecorder()
	h.GoogleLogin(w, httptest.NewRequest(http.MethodGet, "/auth/google", nil))

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "https://accounts.google.com/o/oauth2/auth?state=s1", w.Header().Get("Location"))
}

func TestAuthHandler_GoogleLogin_Disabled(t *testing.T) {
	svc := new(mockAuthService)
	svc.On("GoogleAuthURL", mock.Anything).Return("", auth.ErrGoogleDisabled)
	h := NewAuthHandler(svc, false, testutil.NewMockLogger())

	w := httptest.NewRecorder()
	h.GoogleLogin(w, httptest.NewRequest(http.MethodGet, "/auth/google", nil))

	assert.Equal(t, errors.HTTPStatus(auth.ErrGoogleDisabled), w.Code)
}

func TestAuthHandler_GoogleCallback(t *testing.T) {
	svc := new(mockAuthService)
	svc.On("GoogleCallback", mock.Anything, "code-1", "state-1").Return(newTestSession(), nil)
	h := NewAuthHandler(svc, false, testutil.NewMockLogger())

	w := httptest.NewRecorder()
	h.GoogleCallback(w, httptest.NewRequest(http.MethodGet, "/auth/google/callback?code=code-1&state=state-1", nil))

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
	require.NotNil(t, sessionCookie(w))
}

func TestAuthHandler_GoogleCallback_Failures(t *testing.T) {
	svc := new(mockAuthService)
	svc.On("GoogleCallback", mock.Anything, "code-1", "forged").Return(nil, auth.ErrStateInvalid)
	logger := testutil.NewMockLogger()
	h := NewAuthHandler(svc, false, logger)

	w := httptest.NewRecorder()
	h.GoogleCallback(w, httptest.NewRequest(http.MethodGet, "/auth/google/callback?code=code-1&state=forged", nil))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login?error="+url.QueryEscape("Invalid OAuth state"), w.Header().Get("Location"))
	assert.Nil(t, sessionCookie(w))

	w = httptest.NewRecorder()
	h.GoogleCallback(w, httptest.NewRequest(http.MethodGet, "/auth/google/callback?error=access_denied", nil))
	assert.Contains(t, w.Header().Get("Location"), "/login?error=")
	assert.True(t, logger.HasMessage("warn", "google sign-in declined"))
	svc.AssertNumberOfCalls(t, "GoogleCallback", 1)
}

func TestAuthHandler_Logout(t *testing.T) {
	svc := new(mockAuthService)
	svc.On("Logout", mock.Anything, mock.MatchedBy(func(c *session.Claims) bool { return c.UserID == 4 })).Return(nil)
	h := NewAuthHandler(svc, false, testutil.NewMockLogger())

	w := httptest.NewRecorder()
	h.Logout(w, withUser(httptest.NewRequest(http.MethodPost, "/auth/logout", nil), 4))

	assert.Equal(t, http.StatusOK, w.Code)
	c := sessionCookie(w)
	require.NotNil(t, c)
	assert.Equal(t, "", c.Value)
	assert.True(t, c.MaxAge < 0)
	svc.AssertExpectations(t)
}

func TestAuthHandler_LogoutRevokeFailure(t *testing.T) {
	svc := new(mockAuthService)
	svc.On("Logout", mock.Anything, mock.Anything).
		Return(errors.New(errors.ErrCodeCacheError, "failed to revoke session token"))
	h := NewAuthHandler(svc, false, testutil.NewMockLogger())

	w := httptest.NewRecorder()
	h.Logout(w, withUser(httptest.NewRequest(http.MethodPost, "/auth/logout", nil), 4))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Nil(t, sessionCookie(w), "cookie is kept until the token is revoked")
}

func deleteRequest(id string, actor int64) *http.Request {
	r := httptest.NewRequest(http.MethodPost, "/delete_user/"+id, nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	r = r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
	return withUser(r, actor)
}

func TestAuthHandler_DeleteUser(t *testing.T) {
	svc := new(mockAuthService)
	svc.On("DeleteUser", mock.Anything, int64(4), int64(4)).Return(nil)
	svc.On("DeleteUser", mock.Anything, int64(4), int64(9)).Return(errors.Forbidden("You can only delete your own account."))
	h := NewAuthHandler(svc, false, testutil.NewMockLogger())

	w := httptest.NewRecorder()
	h.DeleteUser(w, deleteRequest("4", 4))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Your account has been deleted.")
	require.NotNil(t, sessionCookie(w))

	w = httptest.NewRecorder()
	h.DeleteUser(w, deleteRequest("9", 4))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, `{"error":"You can only delete your own account."}`, w.Body.String())

	w = httptest.NewRecorder()
	h.DeleteUser(w, deleteRequest("abc", 4))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertExpectations(t)
}

//Personal.AI order the ending
