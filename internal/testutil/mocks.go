package testutil

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/turtacn/H2Siting/internal/domain/chat"
	"github.com/turtacn/H2Siting/internal/domain/community"
	"github.com/turtacn/H2Siting/internal/domain/user"
	"github.com/turtacn/H2Siting/pkg/types/common"
)

// MockPublisher records published domain events.
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishEvent(ctx context.Context, event common.DomainEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// MockUserRepository implements user.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, u *user.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*user.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserRepository) ExistsByEmailOrUsername(ctx context.Context, email, username string) (bool, error) {
	args := m.Called(ctx, email, username)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) SetActive(ctx context.Context, id int64, active bool) error {
	args := m.Called(ctx, id, active)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockCommunityRepository implements community.Repository.
type MockCommunityRepository struct {
	mock.Mock
}

func (m *MockCommunityRepository) Create(ctx context.Context, c *community.Community) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCommunityRepository) GetByID(ctx context.Context, id int64) (*community.Community, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*community.Community), args.Error(1)
}

func (m *MockCommunityRepository) Search(ctx context.Context, query string) ([]*community.Community, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*community.Community), args.Error(1)
}

func (m *MockCommunityRepository) ListByIDs(ctx context.Context, ids []int64) ([]*community.Community, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*community.Community), args.Error(1)
}

func (m *MockCommunityRepository) Join(ctx context.Context, userID, communityID int64) (bool, error) {
	args := m.Called(ctx, userID, communityID)
	return args.Bool(0), args.Error(1)
}

func (m *MockCommunityRepository) JoinedCommunity(ctx context.Context, userID int64) (*community.Community, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*community.Community), args.Error(1)
}

func (m *MockCommunityRepository) CreatePost(ctx context.Context, p *community.Post, file *community.Attachment) error {
	args := m.Called(ctx, p, file)
	return args.Error(0)
}

func (m *MockCommunityRepository) RecentPosts(ctx context.Context, communityID int64, limit int) ([]*community.Post, error) {
	args := m.Called(ctx, communityID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*community.Post), args.Error(1)
}

func (m *MockCommunityRepository) UserPosts(ctx context.Context, userID int64, limit int) ([]*community.Post, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*community.Post), args.Error(1)
}

func (m *MockCommunityRepository) Stats(ctx context.Context) (*community.Stats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*community.Stats), args.Error(1)
}

// MockSearchIndex implements community.SearchIndex.
type MockSearchIndex struct {
	mock.Mock
}

func (m *MockSearchIndex) Index(ctx context.Context, c *community.Community) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockSearchIndex) Search(ctx context.Context, query string) ([]int64, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

// MockChatRepository implements chat.Repository.
type MockChatRepository struct {
	mock.Mock
}

func (m *MockChatRepository) SaveSession(ctx context.Context, s *chat.Session) (int64, error) {
	args := m.Called(ctx, s)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockChatRepository) SaveMessage(ctx context.Context, msg *chat.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *MockChatRepository) ListSessions(ctx context.Context, limit, offset int) ([]*chat.Session, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*chat.Session), args.Error(1)
}

func (m *MockChatRepository) Messages(ctx context.Context, sessionID int64) ([]*chat.Message, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*chat.Message), args.Error(1)
}

func (m *MockChatRepository) RecentMessages(ctx context.Context, sessionID int64, max int) ([]*chat.Message, error) {
	args := m.Called(ctx, sessionID, max)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*chat.Message), args.Error(1)
}

func (m *MockChatRepository) GetSession(ctx context.Context, id int64) (*chat.Session, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*chat.Session), args.Error(1)
}

func (m *MockChatRepository) DeleteSession(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

var (
	_ user.UserRepository   = (*MockUserRepository)(nil)
	_ community.Repository  = (*MockCommunityRepository)(nil)
	_ community.SearchIndex = (*MockSearchIndex)(nil)
	_ chat.Repository       = (*MockChatRepository)(nil)
)

//Personal.AI order the ending
