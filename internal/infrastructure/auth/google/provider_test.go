package google

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/H2Siting/pkg/errors"
)

func newFakeGoogle(t *testing.T, userStatus int) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "authorization_code", r.Form.Get("grant_type"))
		assert.Equal(t, "client-id", r.Form.Get("client_id"))
		assert.Equal(t, "client-secret", r.Form.Get("client_secret"))
		if r.Form.Get("code") != "good-code" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"access-123","token_type":"Bearer","expires_in":3600}`))
	})
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer access-123", r.Header.Get("Authorization"))
		if userStatus != http.StatusOK {
			w.WriteHeader(userStatus)
			return
		}
		_, _ = w.Write([]byte(`{"id":"1","email":"ravi@example.com","verified_email":true,"name":"Ravi","picture":"https://pics/ravi.png"}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestProvider(srv *httptest.Server) *Provider {
	return NewProvider(Config{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		RedirectURL:  "http://localhost:5000/auth/google/callback",
		AuthURL:      srv.URL + "/auth",
		TokenURL:     srv.URL + "/token",
		UserInfoURL:  srv.URL + "/userinfo",
	})
}

func TestProvider_AuthCodeURL(t *testing.T) {
	p := newTestProvider(newFakeGoogle(t, http.StatusOK))

	u, err := url.Parse(p.AuthCodeURL("state-1"))
	require.NoError(t, err)
	q := u.Query()
	assert.Equal(t, "/auth", u.Path)
	assert.Equal(t, "state-1", q.Get("state"))
	assert.Equal(t, "client-id", q.Get("client_id"))
	assert.Equal(t, "code", q.Get("response_type"))
	assert.Equal(t, "http://localhost:5000/auth/google/callback", q.Get("redirect_uri"))
}

func TestProvider_Exchange(t *testing.T) {
	p := newTestProvider(newFakeGoogle(t, http.StatusOK))

	info, err := p.Exchange(context.Background(), "good-code")
	require.NoError(t, err)
	assert.Equal(t, "ravi@example.com", info.Email)
	assert.Equal(t, "Ravi", info.Name)
	assert.Equal(t, "https://pics/ravi.png", info.Picture)
}

func TestProvider_Exchange_Failures(t *testing.T) {
	p := newTestProvider(newFakeGoogle(t, http.StatusUnauthorized))

	_, err := p.Exchange(context.Background(), "")
	assert.True(t, errors.IsCode(err, errors.ErrCodeOAuthExchange))

	_, err = p.Exchange(context.Background(), "bad-code")
	assert.True(t, errors.IsCode(err, errors.ErrCodeOAuthExchange))

	_, err = p.Exchange(context.Background(), "good-code")
	assert.True(t, errors.IsCode(err, errors.ErrCodeOAuthExchange))
}

//Personal.AI order the ending
