package handlers

import (
	"context"
	"net/http"

	"github.com/stretchr/testify/mock"

	"github.com/turtacn/H2Siting/internal/application/assistant"
	"github.com/turtacn/H2Siting/internal/application/auth"
	"github.com/turtacn/H2Siting/internal/application/community"
	"github.com/turtacn/H2Siting/internal/application/history"
	"github.com/turtacn/H2Siting/internal/domain/chat"
	domain "github.com/turtacn/H2Siting/internal/domain/community"
	"github.com/turtacn/H2Siting/internal/infrastructure/auth/session"
	"github.com/turtacn/H2Siting/internal/interfaces/http/middleware"
	"github.com/turtacn/H2Siting/pkg/types/common"
)

// withUser returns r as seen by a handler behind the auth middleware.
func withUser(r *http.Request, id int64) *http.Request {
	return r.WithContext(middleware.WithClaims(r.Context(), &session.Claims{UserID: id, Username: "asha"}))
}

type mockAuthService struct {
	mock.Mock
}

func (m *mockAuthService) Signup(ctx context.Context, input *auth.SignupInput) (*auth.Session, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.Session), args.Error(1)
}

func (m *mockAuthService) Login(ctx context.Context, email, password string) (*auth.Session, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.Session), args.Error(1)
}

func (m *mockAuthService) GoogleAuthURL(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *mockAuthService) GoogleCallback(ctx context.Context, code, state string) (*auth.Session, error) {
	args := m.Called(ctx, code, state)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.Session), args.Error(1)
}

func (m *mockAuthService) Logout(ctx context.Context, claims *session.Claims) error {
	return m.Called(ctx, claims).Error(0)
}

func (m *mockAuthService) DeleteUser(ctx context.Context, actorID, targetID int64) error {
	return m.Called(ctx, actorID, targetID).Error(0)
}

func (m *mockAuthService) Verify(ctx context.Context, token string) (*session.Claims, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*session.Claims), args.Error(1)
}

type mockCommunityService struct {
	mock.Mock
}

func (m *mockCommunityService) Overview(ctx context.Context, userID int64, query string) (*community.Overview, error) {
	args := m.Called(ctx, userID, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*community.Overview), args.Error(1)
}

func (m *mockCommunityService) Stats(ctx context.Context) (*domain.Stats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Stats), args.Error(1)
}

func (m *mockCommunityService) Search(ctx context.Context, query string) ([]*domain.Community, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Community), args.Error(1)
}

func (m *mockCommunityService) Join(ctx context.Context, userID, communityID int64) (bool, error) {
	args := m.Called(ctx, userID, communityID)
	return args.Bool(0), args.Error(1)
}

func (m *mockCommunityService) JoinedCommunity(ctx context.Context, userID int64) (*domain.Community, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Community), args.Error(1)
}

func (m *mockCommunityService) CreatePost(ctx context.Context, input *community.CreatePostInput) (*domain.Post, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Post), args.Error(1)
}

func (m *mockCommunityService) RecentPosts(ctx context.Context, communityID int64) ([]*domain.Post, error) {
	args := m.Called(ctx, communityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Post), args.Error(1)
}

func (m *mockCommunityService) UserPosts(ctx context.Context, userID int64) ([]*domain.Post, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Post), args.Error(1)
}

func (m *mockCommunityService) CreateCommunity(ctx context.Context, name, description string) (*domain.Community, error) {
	args := m.Called(ctx, name, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Community), args.Error(1)
}

func (m *mockCommunityService) AttachmentURL(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

type mockAssistantService struct {
	mock.Mock
}

func (m *mockAssistantService) Respond(ctx context.Context, turns []chat.Turn, websearch bool) (string, error) {
	args := m.Called(ctx, turns, websearch)
	return args.String(0), args.Error(1)
}

func (m *mockAssistantService) GenerateReport(ctx context.Context, data *assistant.ReportData) (*assistant.ReportResult, error) {
	args := m.Called(ctx, data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*assistant.ReportResult), args.Error(1)
}

func (m *mockAssistantService) AskQuestion(ctx context.Context, input *assistant.QuestionInput) (*assistant.AnswerResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*assistant.AnswerResult), args.Error(1)
}

func (m *mockAssistantService) Chat(ctx context.Context, input *assistant.ChatInput) (*assistant.ChatResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*assistant.ChatResult), args.Error(1)
}

func (m *mockAssistantService) Summarize(ctx context.Context, sessionID int64) *string {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*string)
}

type mockHistoryService struct {
	mock.Mock
}

func (m *mockHistoryService) SaveSession(ctx context.Context, data *history.SessionData) *int64 {
	args := m.Called(ctx, data)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*int64)
}

func (m *mockHistoryService) SaveMessage(ctx context.Context, sessionID int64, role chat.Role, content string, isReport bool) bool {
	return m.Called(ctx, sessionID, role, content, isReport).Bool(0)
}

func (m *mockHistoryService) Sessions(ctx context.Context, page common.Pagination) ([]*chat.Session, error) {
	args := m.Called(ctx, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*chat.Session), args.Error(1)
}

func (m *mockHistoryService) Messages(ctx context.Context, sessionID int64) []*chat.Message {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]*chat.Message)
}

func (m *mockHistoryService) RecentHistory(ctx context.Context, sessionID int64, window int) []chat.Turn {
	args := m.Called(ctx, sessionID, window)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]chat.Turn)
}

func (m *mockHistoryService) Session(ctx context.Context, sessionID int64) (*chat.Session, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*chat.Session), args.Error(1)
}

func (m *mockHistoryService) DeleteSession(ctx context.Context, sessionID int64) error {
	return m.Called(ctx, sessionID).Error(0)
}

var (
	_ auth.Service      = (*mockAuthService)(nil)
	_ community.Service = (*mockCommunityService)(nil)
	_ assistant.Service = (*mockAssistantService)(nil)
	_ history.Service   = (*mockHistoryService)(nil)
)

//Personal.AI order the ending
