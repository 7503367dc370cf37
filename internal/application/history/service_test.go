package history

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/H2Siting/internal/domain/chat"
	"github.com/turtacn/H2Siting/internal/testutil"
	pkgerrors "github.com/turtacn/H2Siting/pkg/errors"
	"github.com/turtacn/H2Siting/pkg/types/common"
)

func newService() (*testutil.MockChatRepository, *testutil.MockLogger, Service) {
	repo := new(testutil.MockChatRepository)
	logger := testutil.NewMockLogger()
	return repo, logger, NewService(repo, logger)
}

func TestSaveSession_Insert(t *testing.T) {
	repo, _, svc := newService()
	feas := 82.0
	repo.On("SaveSession", mock.Anything, mock.MatchedBy(func(s *chat.Session) bool {
		return s.ID == 0 && s.Location == chat.UnknownLocation && *s.FeasibilityScore == 82
	})).Return(int64(5), nil)

	id := svc.SaveSession(context.Background(), &SessionData{Feasibility: &feas})
	require.NotNil(t, id)
	assert.Equal(t, int64(5), *id)
}

func TestSaveSession_UpdateAndFailure(t *testing.T) {
	repo, logger, svc := newService()
	existing := int64(9)
	repo.On("SaveSession", mock.Anything, mock.MatchedBy(func(s *chat.Session) bool { return s.ID == 9 })).
		Return(int64(0), errors.New("connection refused"))

	id := svc.SaveSession(context.Background(), &SessionData{SessionID: &existing, Location: "Jamnagar"})
	assert.Nil(t, id)
	assert.True(t, logger.HasMessage("error", "error saving chat session"))
}

func TestSaveMessage_Truncates(t *testing.T) {
	repo, _, svc := newService()
	repo.On("SaveMessage", mock.Anything, mock.MatchedBy(func(m *chat.Message) bool {
		return len(m.Content) == chat.MaxContentLength && m.IsReport && m.Role == chat.RoleAssistant
	})).Return(nil)

	ok := svc.SaveMessage(context.Background(), 5, chat.RoleAssistant, strings.Repeat("x", 5000), true)
	assert.True(t, ok)
	repo.AssertExpectations(t)
}

func TestSaveMessage_Failure(t *testing.T) {
	repo, _, svc := newService()
	repo.On("SaveMessage", mock.Anything, mock.Anything).Return(errors.New("boom"))
	assert.False(t, svc.SaveMessage(context.Background(), 5, chat.RoleUser, "hi", false))
}

func TestSessions(t *testing.T) {
	repo, _, svc := newService()
	ctx := context.Background()

	repo.On("ListSessions", ctx, chat.DefaultSessionLimit, 0).Return([]*chat.Session{{ID: 2}, {ID: 1}}, nil).Once()
	got, err := svc.Sessions(ctx, common.Pagination{})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	repo.On("ListSessions", ctx, 5, 10).Return(nil, errors.New("down")).Once()
	got, err = svc.Sessions(ctx, common.Pagination{Limit: 5, Offset: 10})
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	_, err = svc.Sessions(ctx, common.Pagination{Limit: -1})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeInvalidParam))
}

func TestMessages_DegradesToEmpty(t *testing.T) {
	repo, _, svc := newService()
	repo.On("Messages", mock.Anything, int64(3)).Return(nil, errors.New("down"))

	got := svc.Messages(context.Background(), 3)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestRecentHistory(t *testing.T) {
	repo, _, svc := newService()
	repo.On("RecentMessages", mock.Anything, int64(3), chat.DefaultHistoryWindow).Return([]*chat.Message{
		{Role: chat.RoleUser, Content: "q"},
		{Role: chat.RoleAssistant, Content: "a"},
	}, nil)

	turns := svc.RecentHistory(context.Background(), 3, 0)
	assert.Equal(t, []chat.Turn{{Role: chat.RoleUser, Content: "q"}, {Role: chat.RoleAssistant, Content: "a"}}, turns)
}

func TestSessionAndDelete(t *testing.T) {
	repo, _, svc := newService()
	ctx := context.Background()

	repo.On("GetSession", ctx, int64(1)).Return(&chat.Session{ID: 1, Location: "Pune"}, nil)
	repo.On("GetSession", ctx, int64(2)).Return(nil, pkgerrors.New(pkgerrors.ErrCodeSessionNotFound, "chat session not found"))

	s, err := svc.Session(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Pune", s.Location)
	_, err = svc.Session(ctx, 2)
	assert.True(t, pkgerrors.IsNotFound(err))

	repo.On("DeleteSession", ctx, int64(1)).Return(true, nil)
	repo.On("DeleteSession", ctx, int64(2)).Return(false, nil)
	assert.NoError(t, svc.DeleteSession(ctx, 1))
	assert.True(t, pkgerrors.IsNotFound(svc.DeleteSession(ctx, 2)))
}

//Personal.AI order the ending
