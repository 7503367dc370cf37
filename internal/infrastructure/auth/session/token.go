// Package session issues and verifies the signed session tokens handed to
// clients after sign-in.
package session

import (
	stderrors "errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/turtacn/H2Siting/pkg/errors"
)

var (
	ErrTokenInvalid = errors.New(errors.ErrCodeTokenInvalid, "invalid session token")
	ErrTokenExpired = errors.New(errors.ErrCodeTokenExpired, "session expired")
)

// Claims identify the signed-in user.
type Claims struct {
	UserID   int64  `json:"uid"`
	Username string `json:"name"`
	Email    string `json:"email"`
	Picture  string `json:"picture,omitempty"`
	jwt.RegisteredClaims
}

// Identity is what a token is issued for.
type Identity struct {
	UserID   int64
	Username string
	Email    string
	Picture  string
}

// Manager signs HS256 tokens.
type Manager struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

func NewManager(secret string, ttl time.Duration, issuer string) *Manager {
	return &Manager{secret: []byte(secret), ttl: ttl, issuer: issuer, now: time.Now}
}

// TTL is the lifetime of issued tokens.
func (m *Manager) TTL() time.Duration { return m.ttl }

// Issue returns a signed token and its expiry.
func (m *Manager) Issue(id Identity) (string, time.Time, error) {
	now := m.now()
	exp := now.Add(m.ttl)
	claims := Claims{
		UserID:   id.UserID,
		Username: id.Username,
		Email:    id.Email,
		Picture:  id.Picture,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    m.issuer,
			Subject:   strconv.FormatInt(id.UserID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, errors.Wrap(err, errors.ErrCodeInternal, "failed to sign session token")
	}
	return signed, exp, nil
}

// Verify parses raw and checks signature, issuer and expiry.
func (m *Manager) Verify(raw string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.issuer),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		if stderrors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid.WithCause(err)
	}
	if claims.UserID <= 0 {
		return nil, ErrTokenInvalid.WithDetail("missing user id")
	}
	return claims, nil
}

//Personal.AI order the ending
