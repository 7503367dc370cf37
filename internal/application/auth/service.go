// Package auth provides account registration, password and Google sign-in,
// and session token handling.
package auth

import (
	"context"
	"strings"
	"time"

	"github.com/turtacn/H2Siting/internal/domain/user"
	"github.com/turtacn/H2Siting/internal/infrastructure/auth/google"
	"github.com/turtacn/H2Siting/internal/infrastructure/auth/session"
	"github.com/turtacn/H2Siting/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/H2Siting/pkg/errors"
)

// DefaultPicture is shown for accounts without a profile image.
const DefaultPicture = "/static/default-user.png"

// Service defines the interface for authentication operations.
type Service interface {
	Signup(ctx context.Context, input *SignupInput) (*Session, error)
	Login(ctx context.Context, email, password string) (*Session, error)
	GoogleAuthURL(ctx context.Context) (string, error)
	GoogleCallback(ctx context.Context, code, state string) (*Session, error)
	Logout(ctx context.Context, claims *session.Claims) error
	DeleteUser(ctx context.Context, actorID, targetID int64) error
	Verify(ctx context.Context, token string) (*session.Claims, error)
}

// SignupInput contains input for creating a manual account.
type SignupInput struct {
	Username string
	Email    string
	Password string
}

// Session is a signed-in user and the token that proves it.
type Session struct {
	Token     string     `json:"token"`
	ExpiresAt time.Time  `json:"expires_at"`
	User      *user.User `json:"user"`
	Picture   string     `json:"picture"`
}

// PasswordHasher hashes and checks passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(encoded, password string) bool
}

// TokenManager issues and verifies session tokens.
type TokenManager interface {
	Issue(id session.Identity) (string, time.Time, error)
	Verify(raw string) (*session.Claims, error)
	TTL() time.Duration
}

// StateStore keeps one-time OAuth state values.
type StateStore interface {
	Issue(ctx context.Context) (string, error)
	Consume(ctx context.Context, state string) (bool, error)
}

// RevocationStore denies tokens before they expire.
type RevocationStore interface {
	RevokeToken(ctx context.Context, tokenID string, ttl time.Duration) error
	RevokeUser(ctx context.Context, userID int64, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string, userID int64) (bool, error)
}

// OAuthProvider performs the Google authorization code flow.
type OAuthProvider interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*google.UserInfo, error)
}

// Dependencies groups the collaborators of the auth service. States and
// Google may be nil when Google sign-in is not configured. Without
// Revocations a token stays valid until it expires.
type Dependencies struct {
	Users       user.UserRepository
	Hasher      PasswordHasher
	Tokens      TokenManager
	States      StateStore
	Google      OAuthProvider
	Revocations RevocationStore
}

var (
	ErrInvalidCredentials = errors.New(errors.ErrCodeInvalidCredentials, "Invalid email or password.")
	ErrUseGoogle          = errors.New(errors.ErrCodeProviderMismatch,
		"This email is registered with Google login or does not exist. Please use Google to log in.")
	ErrUseManual = errors.New(errors.ErrCodeProviderMismatch,
		"This email is registered with manual login. Please use email and password.")
	ErrGoogleDisabled = errors.New(errors.ErrCodeFeatureDisabled, "Google sign-in is not configured")
	ErrStateInvalid   = errors.New(errors.ErrCodeOAuthStateInvalid, "Invalid OAuth state")
	ErrTokenRevoked   = session.ErrTokenInvalid.WithDetail("token revoked")
)

type serviceImpl struct {
	users       user.UserRepository
	hasher      PasswordHasher
	tokens      TokenManager
	states      StateStore
	google      OAuthProvider
	revocations RevocationStore
	logger      logging.Logger
}

// NewService creates a new auth service.
func NewService(deps Dependencies, logger logging.Logger) Service {
	return &serviceImpl{
		users:       deps.Users,
		hasher:      deps.Hasher,
		tokens:      deps.Tokens,
		states:      deps.States,
		google:      deps.Google,
		revocations: deps.Revocations,
		logger:      logger,
	}
}

func (s *serviceImpl) Signup(ctx context.Context, input *SignupInput) (*Session, error) {
	if input == nil || input.Username == "" || input.Email == "" || input.Password == "" {
		return nil, errors.InvalidParam("All fields are required.")
	}
	if err := user.ValidateEmail(input.Email); err != nil {
		return nil, err
	}
	if err := user.ValidatePassword(input.Password); err != nil {
		return nil, err
	}

	exists, err := s.users.ExistsByEmailOrUsername(ctx, input.Email, input.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, errors.Conflict("Email or username already exists.")
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "failed to hash password")
	}
	u, err := user.NewManualUser(input.Username, input.Email, hash)
	if err != nil {
		return nil, err
	}
	if err := s.users.Create(ctx, u); err != nil {
		s.logger.Error("signup failed", logging.String("email", input.Email), logging.Err(err))
		return nil, err
	}

	s.logger.Info("user signed up", logging.Int64("user_id", u.ID))
	return s.issue(u)
}

func (s *serviceImpl) Login(ctx context.Context, email, password string) (*Session, error) {
	if email == "" || password == "" {
		return nil, errors.InvalidParam("Email and password are required.")
	}
	if err := user.ValidateEmail(email); err != nil {
		return nil, err
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, ErrUseGoogle
		}
		return nil, err
	}
	if !u.IsManual() {
		return nil, ErrUseGoogle
	}
	if !s.hasher.Verify(u.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	if err := s.users.SetActive(ctx, u.ID, true); err != nil {
		s.logger.Warn("failed to mark user active", logging.Int64("user_id", u.ID), logging.Err(err))
	}
	u.IsActive = true
	return s.issue(u)
}

func (s *serviceImpl) GoogleAuthURL(ctx context.Context) (string, error) {
	if s.google == nil || s.states == nil {
		return "", ErrGoogleDisabled
	}
	state, err := s.states.Issue(ctx)
	if err != nil {
		return "", err
	}
	return s.google.AuthCodeURL(state), nil
}

func (s *serviceImpl) GoogleCallback(ctx context.Context, code, state string) (*Session, error) {
	if s.google == nil || s.states == nil {
		return nil, ErrGoogleDisabled
	}
	ok, err := s.states.Consume(ctx, state)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrStateInvalid
	}
	if code == "" {
		return nil, errors.New(errors.ErrCodeOAuthExchange, "Authorization code missing")
	}

	info, err := s.google.Exchange(ctx, code)
	if err != nil {
		s.logger.Error("google exchange failed", logging.Err(err))
		return nil, err
	}

	u, err := s.users.GetByEmail(ctx, info.Email)
	switch {
	case err == nil:
		if u.IsManual() {
			return nil, ErrUseManual
		}
	case errors.IsNotFound(err):
		u, err = user.NewGoogleUser(info.Name, info.Email, info.Picture)
		if err != nil {
			return nil, err
		}
		if err := s.users.Create(ctx, u); err != nil {
			return nil, err
		}
		s.logger.Info("google user created", logging.Int64("user_id", u.ID))
	default:
		return nil, err
	}

	if err := s.users.SetActive(ctx, u.ID, true); err != nil {
		s.logger.Warn("failed to mark user active", logging.Int64("user_id", u.ID), logging.Err(err))
	}
	u.IsActive = true
	if info.Picture != "" {
		u.PictureURL = info.Picture
	}
	return s.issue(u)
}

// Logout marks the user inactive and revokes the presented token for the
// rest of its lifetime.
func (s *serviceImpl) Logout(ctx context.Context, claims *session.Claims) error {
	if claims == nil || claims.UserID <= 0 {
		return nil
	}
	if err := s.users.SetActive(ctx, claims.UserID, false); err != nil {
		s.logger.Warn("failed to mark user inactive", logging.Int64("user_id", claims.UserID), logging.Err(err))
	}
	if s.revocations == nil || claims.ExpiresAt == nil {
		return nil
	}
	if err := s.revocations.RevokeToken(ctx, claims.ID, time.Until(claims.ExpiresAt.Time)); err != nil {
		s.logger.Error("failed to revoke session token", logging.Int64("user_id", claims.UserID), logging.Err(err))
		return err
	}
	return nil
}

func (s *serviceImpl) DeleteUser(ctx context.Context, actorID, targetID int64) error {
	if actorID <= 0 {
		return errors.Unauthorized("You must be logged in to delete an account.")
	}
	if actorID != targetID {
		return errors.Forbidden("You can only delete your own account.")
	}
	if err := s.users.Delete(ctx, targetID); err != nil {
		return err
	}
	s.logger.Info("user deleted", logging.Int64("user_id", targetID))

	if s.revocations != nil {
		if err := s.revocations.RevokeUser(ctx, targetID, s.tokens.TTL()); err != nil {
			s.logger.Error("failed to revoke sessions of deleted user", logging.Int64("user_id", targetID), logging.Err(err))
		}
	}
	return nil
}

// Verify checks the token signature and expiry, then the revocation list.
// A revocation lookup failure rejects the token.
func (s *serviceImpl) Verify(ctx context.Context, token string) (*session.Claims, error) {
	claims, err := s.tokens.Verify(strings.TrimSpace(token))
	if err != nil {
		return nil, err
	}
	if s.revocations == nil {
		return claims, nil
	}
	revoked, err := s.revocations.IsRevoked(ctx, claims.ID, claims.UserID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, ErrTokenRevoked
	}
	return claims, nil
}

func (s *serviceImpl) issue(u *user.User) (*Session, error) {
	picture := u.PictureURL
	if picture == "" {
		picture = DefaultPicture
	}
	token, exp, err := s.tokens.Issue(session.Identity{
		UserID:   u.ID,
		Username: u.Username,
		Email:    u.Email,
		Picture:  picture,
	})
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, ExpiresAt: exp, User: u, Picture: picture}, nil
}

//Personal.AI order the ending
