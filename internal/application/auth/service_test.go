package auth

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/turtacn/H2Siting/internal/domain/user"
	"github.com/turtacn/H2Siting/internal/infrastructure/auth/google"
	"github.com/turtacn/H2Siting/internal/infrastructure/auth/password"
	"github.com/turtacn/H2Siting/internal/infrastructure/auth/session"
	"github.com/turtacn/H2Siting/internal/infrastructure/database/redis"
	"github.com/turtacn/H2Siting/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/H2Siting/internal/testutil"
	"github.com/turtacn/H2Siting/pkg/errors"
)

type MockStateStore struct {
	mock.Mock
}

func (m *MockStateStore) Issue(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockStateStore) Consume(ctx context.Context, state string) (bool, error) {
	args := m.Called(ctx, state)
	return args.Bool(0), args.Error(1)
}

type MockOAuthProvider struct {
	mock.Mock
}

func (m *MockOAuthProvider) AuthCodeURL(state string) string {
	return m.Called(state).String(0)
}

func (m *MockOAuthProvider) Exchange(ctx context.Context, code string) (*google.UserInfo, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*google.UserInfo), args.Error(1)
}

type MockRevocationStore struct {
	mock.Mock
}

func (m *MockRevocationStore) RevokeToken(ctx context.Context, tokenID string, ttl time.Duration) error {
	return m.Called(ctx, tokenID, ttl).Error(0)
}

func (m *MockRevocationStore) RevokeUser(ctx context.Context, userID int64, ttl time.Duration) error {
	return m.Called(ctx, userID, ttl).Error(0)
}

func (m *MockRevocationStore) IsRevoked(ctx context.Context, tokenID string, userID int64) (bool, error) {
	args := m.Called(ctx, tokenID, userID)
	return args.Bool(0), args.Error(1)
}

type AuthServiceTestSuite struct {
	suite.Suite
	ctx    context.Context
	users  *testutil.MockUserRepository
	states *MockStateStore
	google *MockOAuthProvider
	hasher *password.Hasher
	tokens *session.Manager
	svc    Service
}

func (s *AuthServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.users = new(testutil.MockUserRepository)
	s.states = new(MockStateStore)
	s.google = new(MockOAuthProvider)
	s.hasher = password.NewHasher(1000)
	s.tokens = session.NewManager("test-secret", time.Hour, "h2siting-test")
	s.svc = NewService(Dependencies{
		Users:  s.users,
		Hasher: s.hasher,
		Tokens: s.tokens,
		States: s.states,
		Google: s.google,
	}, testutil.NewMockLogger())
}

func (s *AuthServiceTestSuite) TestSignup_Success() {
	s.users.On("ExistsByEmailOrUsername", s.ctx, "asha@example.com", "asha").Return(false, nil)
	s.users.On("Create", s.ctx, mock.AnythingOfType("*user.User")).Run(func(args mock.Arguments) {
		args.Get(1).(*user.User).ID = 7
	}).Return(nil)

	sess, err := s.svc.Signup(s.ctx, &SignupInput{Username: "asha", Email: "asha@example.com", Password: "hydrogen123"})
	s.Require().NoError(err)
	s.Equal(int64(7), sess.User.ID)
	s.Equal(user.ProviderManual, sess.User.AuthProvider)
	s.True(s.hasher.Verify(sess.User.PasswordHash, "hydrogen123"))
	s.Equal(DefaultPicture, sess.Picture)

	claims, err := s.svc.Verify(s.ctx, sess.Token)
	s.Require().NoError(err)
	s.Equal(int64(7), claims.UserID)
	s.Equal("asha", claims.Username)
}

func (s *AuthServiceTestSuite) TestSignup_Validation() {
	_, err := s.svc.Signup(s.ctx, &SignupInput{Username: "asha", Email: "asha@example.com"})
	s.True(errors.IsCode(err, errors.CodeInvalidParam))

	_, err = s.svc.Signup(s.ctx, &SignupInput{Username: "asha", Email: "not-an-email", Password: "hydrogen123"})
	s.Require().Error(err)
	s.Contains(err.Error(), "Invalid email format.")

	_, err = s.svc.Signup(s.ctx, &SignupInput{Username: "asha", Email: "asha@example.com", Password: "short"})
	s.Require().Error(err)
	s.Contains(err.Error(), "at least 8 characters")

	s.users.AssertNotCalled(s.T(), "ExistsByEmailOrUsername", mock.Anything, mock.Anything, mock.Anything)
}

func (s *AuthServiceTestSuite) TestSignup_Duplicate() {
	s.users.On("ExistsByEmailOrUsername", s.ctx, "asha@example.com", "asha").Return(true, nil)

	_, err := s.svc.Signup(s.ctx, &SignupInput{Username: "asha", Email: "asha@example.com", Password: "hydrogen123"})
	s.True(errors.IsConflict(err))
	s.users.AssertNotCalled(s.T(), "Create", mock.Anything, mock.Anything)
}

func (s *AuthServiceTestSuite) manualUser() *user.User {
	hash, err := s.hasher.Hash("hydrogen123")
	s.Require().NoError(err)
	return &user.User{ID: 3, Username: "asha", Email: "asha@example.com", PasswordHash: hash, AuthProvider: user.ProviderManual}
}

func (s *AuthServiceTestSuite) TestLogin_Success() {
	s.users.On("GetByEmail", s.ctx, "asha@example.com").Return(s.manualUser(), nil)
	s.users.On("SetActive", s.ctx, int64(3), true).Return(nil)

	sess, err := s.svc.Login(s.ctx, "asha@example.com", "hydrogen123")
	s.Require().NoError(err)
	s.True(sess.User.IsActive)
	s.NotEmpty(sess.Token)
	s.users.AssertExpectations(s.T())
}

func (s *AuthServiceTestSuite) TestLogin_WrongPassword() {
	s.users.On("GetByEmail", s.ctx, "asha@example.com").Return(s.manualUser(), nil)

	_, err := s.svc.Login(s.ctx, "asha@example.com", "wrong-password")
	s.True(errors.IsCode(err, errors.ErrCodeInvalidCredentials))
	s.users.AssertNotCalled(s.T(), "SetActive", mock.Anything, mock.Anything, mock.Anything)
}

func (s *AuthServiceTestSuite) TestLogin_UnknownOrGoogleAccount() {
	s.users.On("GetByEmail", s.ctx, "ghost@example.com").Return(nil, errors.New(errors.ErrCodeUserNotFound, "user not found"))
	_, err := s.svc.Login(s.ctx, "ghost@example.com", "hydrogen123")
	s.True(errors.IsCode(err, errors.ErrCodeProviderMismatch))

	g := &user.User{ID: 4, Email: "g@example.com", AuthProvider: user.ProviderGoogle}
	s.users.On("GetByEmail", s.ctx, "g@example.com").Return(g, nil)
	_, err = s.svc.Login(s.ctx, "g@example.com", "hydrogen123")
	s.True(errors.IsCode(err, errors.ErrCodeProviderMismatch))
}

func (s *AuthServiceTestSuite) TestLogin_MissingFields() {
	_, err := s.svc.Login(s.ctx, "", "x")
	s.True(errors.IsCode(err, errors.CodeInvalidParam))
}

func (s *AuthServiceTestSuite) TestGoogleAuthURL() {
	s.states.On("Issue", s.ctx).Return("state-1", nil)
	s.google.On("AuthCodeURL", "state-1").Return("https://accounts.example/auth?state=state-1")

	url, err := s.svc.GoogleAuthURL(s.ctx)
	s.Require().NoError(err)
	s.Contains(url, "state=state-1")
}

func (s *AuthServiceTestSuite) TestGoogleCallback_CreatesUser() {
	s.states.On("Consume", s.ctx, "state-1").Return(true, nil)
	s.google.On("Exchange", s.ctx, "code-1").Return(&google.UserInfo{
		Email: "ravi@example.com", Name: "", Picture: "https://img/ravi.png",
	}, nil)
	s.users.On("GetByEmail", s.ctx, "ravi@example.com").Return(nil, errors.New(errors.ErrCodeUserNotFound, "user not found"))
	s.users.On("Create", s.ctx, mock.MatchedBy(func(u *user.User) bool {
		return u.Username == "ravi" && u.AuthProvider == user.ProviderGoogle
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*user.User).ID = 11
	}).Return(nil)
	s.users.On("SetActive", s.ctx, int64(11), true).Return(nil)

	sess, err := s.svc.GoogleCallback(s.ctx, "code-1", "state-1")
	s.Require().NoError(err)
	s.Equal(int64(11), sess.User.ID)
	s.Equal("https://img/ravi.png", sess.Picture)
}

func (s *AuthServiceTestSuite) TestGoogleCallback_RejectsManualAccount() {
	s.states.On("Consume", s.ctx, "state-1").Return(true, nil)
	s.google.On("Exchange", s.ctx, "code-1").Return(&google.UserInfo{Email: "asha@example.com"}, nil)
	s.users.On("GetByEmail", s.ctx, "asha@example.com").Return(s.manualUser(), nil)

	_, err := s.svc.GoogleCallback(s.ctx, "code-1", "state-1")
	s.True(errors.IsCode(err, errors.ErrCodeProviderMismatch))
}

func (s *AuthServiceTestSuite) TestGoogleCallback_BadState() {
	s.states.On("Consume", s.ctx, "forged").Return(false, nil)

	_, err := s.svc.GoogleCallback(s.ctx, "code-1", "forged")
	s.True(errors.IsCode(err, errors.ErrCodeOAuthStateInvalid))
	s.google.AssertNotCalled(s.T(), "Exchange", mock.Anything, mock.Anything)
}

func (s *AuthServiceTestSuite) TestGoogleDisabled() {
	svc := NewService(Dependencies{Users: s.users, Hasher: s.hasher, Tokens: s.tokens}, testutil.NewMockLogger())

	_, err := svc.GoogleAuthURL(s.ctx)
	s.True(errors.IsCode(err, errors.ErrCodeFeatureDisabled))
	_, err = svc.GoogleCallback(s.ctx, "c", "s")
	s.True(errors.IsCode(err, errors.ErrCodeFeatureDisabled))
}

func (s *AuthServiceTestSuite) TestLogout() {
	s.users.On("SetActive", s.ctx, int64(3), false).Return(nil)
	s.NoError(s.svc.Logout(s.ctx, &session.Claims{UserID: 3}))
	s.NoError(s.svc.Logout(s.ctx, nil))
	s.users.AssertExpectations(s.T())
	s.users.AssertNumberOfCalls(s.T(), "SetActive", 1)
}

// newRevokingService wires the service to a miniredis-backed revocation store.
func (s *AuthServiceTestSuite) newRevokingService() Service {
	mr := miniredis.RunT(s.T())
	rc, err := redis.NewClient(&redis.RedisConfig{Addr: mr.Addr()}, logging.NewNopLogger())
	s.Require().NoError(err)
	s.T().Cleanup(func() { _ = rc.Close() })
	return NewService(Dependencies{
		Users:       s.users,
		Hasher:      s.hasher,
		Tokens:      s.tokens,
		Revocations: redis.NewRevocationStore(rc, "h2siting:"),
	}, testutil.NewMockLogger())
}

func (s *AuthServiceTestSuite) issueToken(userID int64) (string, *session.Claims) {
	tok, _, err := s.tokens.Issue(session.Identity{UserID: userID, Username: "asha", Email: "asha@example.com"})
	s.Require().NoError(err)
	claims, err := s.tokens.Verify(tok)
	s.Require().NoError(err)
	return tok, claims
}

func (s *AuthServiceTestSuite) TestLogout_RevokesPresentedToken() {
	svc := s.newRevokingService()
	s.users.On("SetActive", s.ctx, int64(3), false).Return(nil)

	tok, claims := s.issueToken(3)
	other, _ := s.issueToken(3)

	_, err := svc.Verify(s.ctx, tok)
	s.Require().NoError(err)
	s.NoError(svc.Logout(s.ctx, claims))

	_, err = svc.Verify(s.ctx, tok)
	s.True(errors.IsCode(err, errors.ErrCodeTokenInvalid))
	_, err = svc.Verify(s.ctx, other)
	s.NoError(err, "a second device keeps its session")
}

func (s *AuthServiceTestSuite) TestDeleteUser_RevokesAllTokens() {
	svc := s.newRevokingService()
	s.users.On("Delete", s.ctx, int64(3)).Return(nil)

	first, _ := s.issueToken(3)
	second, _ := s.issueToken(3)
	bystander, _ := s.issueToken(4)

	s.NoError(svc.DeleteUser(s.ctx, 3, 3))

	for _, tok := range []string{first, second} {
		_, err := svc.Verify(s.ctx, tok)
		s.True(errors.IsCode(err, errors.ErrCodeTokenInvalid))
	}
	_, err := svc.Verify(s.ctx, bystander)
	s.NoError(err)
}

func (s *AuthServiceTestSuite) TestVerify_RevocationLookupFailureRejects() {
	store := new(MockRevocationStore)
	svc := NewService(Dependencies{Users: s.users, Hasher: s.hasher, Tokens: s.tokens, Revocations: store}, testutil.NewMockLogger())
	tok, claims := s.issueToken(3)

	lookupErr := errors.Wrap(stderrors.New("connection refused"), errors.ErrCodeCacheError, "failed to check session revocation")
	store.On("IsRevoked", s.ctx, claims.ID, int64(3)).Return(false, lookupErr)

	_, err := svc.Verify(s.ctx, tok)
	s.True(errors.IsCode(err, errors.ErrCodeCacheError))
}

func (s *AuthServiceTestSuite) TestLogout_RevokeFailureIsReturned() {
	store := new(MockRevocationStore)
	logger := testutil.NewMockLogger()
	svc := NewService(Dependencies{Users: s.users, Hasher: s.hasher, Tokens: s.tokens, Revocations: store}, logger)
	_, claims := s.issueToken(3)

	s.users.On("SetActive", s.ctx, int64(3), false).Return(nil)
	store.On("RevokeToken", s.ctx, claims.ID, mock.AnythingOfType("time.Duration")).Return(stderrors.New("redis down"))

	s.Error(svc.Logout(s.ctx, claims))
	s.True(logger.HasMessage("error", "failed to revoke session token"))
}

func (s *AuthServiceTestSuite) TestDeleteUser_RevokeFailureIsLogged() {
	store := new(MockRevocationStore)
	logger := testutil.NewMockLogger()
	svc := NewService(Dependencies{Users: s.users, Hasher: s.hasher, Tokens: s.tokens, Revocations: store}, logger)

	s.users.On("Delete", s.ctx, int64(3)).Return(nil)
	store.On("RevokeUser", s.ctx, int64(3), time.Hour).Return(stderrors.New("redis down"))

	s.NoError(svc.DeleteUser(s.ctx, 3, 3))
	s.True(logger.HasMessage("error", "failed to revoke sessions of deleted user"))
}

func (s *AuthServiceTestSuite) TestDeleteUser() {
	s.True(errors.IsCode(s.svc.DeleteUser(s.ctx, 0, 3), errors.CodeUnauthorized))
	s.True(errors.IsCode(s.svc.DeleteUser(s.ctx, 4, 3), errors.CodeForbidden))

	s.users.On("Delete", s.ctx, int64(3)).Return(nil)
	s.NoError(s.svc.DeleteUser(s.ctx, 3, 3))
	s.users.AssertExpectations(s.T())
}

func (s *AuthServiceTestSuite) TestVerify_RejectsGarbage() {
	_, err := s.svc.Verify(s.ctx, "not-a-token")
	s.Error(err)
}

func TestAuthServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}

//Personal.AI order the ending
