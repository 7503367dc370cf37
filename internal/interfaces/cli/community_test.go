package cli

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/H2Siting/internal/config"
	domain "github.com/turtacn/H2Siting/internal/domain/community"
	"github.com/turtacn/H2Siting/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/H2Siting/pkg/errors"
)

type MockCommunityCreator struct {
	mock.Mock
}

func (m *MockCommunityCreator) CreateCommunity(ctx context.Context, name, description string) (*domain.Community, error) {
	args := m.Called(ctx, name, description)
	if c := args.Get(0); c != nil {
		return c.(*domain.Community), args.Error(1)
	}
	return nil, args.Error(1)
}

type closeCounter struct{ n int }

func (c *closeCounter) Close() error {
	c.n++
	return nil
}

func communityDeps(svc CommunityCreator, closer *closeCounter) Dependencies {
	return Dependencies{
		Community: func(ctx context.Context, cfg *config.Config, logger logging.Logger) (CommunityCreator, io.Closer, error) {
			return svc, closer, nil
		},
	}
}

func TestCommunityCreate(t *testing.T) {
	svc := new(MockCommunityCreator)
	svc.On("CreateCommunity", mock.Anything, "Kutch Builders", "Solar parks in Kutch").
		Return(&domain.Community{ID: 5, Name: "Kutch Builders", Description: "Solar parks in Kutch"}, nil)
	closer := &closeCounter{}

	out, _, err := runCLI(t, communityDeps(svc, closer), "community", "create",
		"--name", "Kutch Builders", "--description", "Solar parks in Kutch", "-o", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"id": 5`)
	assert.Equal(t, 1, closer.n)
	svc.AssertExpectations(t)
}

func TestCommunityCreate_ValidationError(t *testing.T) {
	svc := new(MockCommunityCreator)
	svc.On("CreateCommunity", mock.Anything, " ", "").Return(nil, errors.InvalidParam("community name is required"))
	closer := &closeCounter{}

	_, _, err := runCLI(t, communityDeps(svc, closer), "community", "create", "--name", " ")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "community name is required")
	assert.Equal(t, 1, closer.n)
}

func TestCommunityCreate_RequiresName(t *testing.T) {
	_, _, err := runCLI(t, communityDeps(new(MockCommunityCreator), &closeCounter{}), "community", "create")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"name"`)
}

func TestCommunityCreate_NotWired(t *testing.T) {
	_, _, err := runCLI(t, Dependencies{}, "community", "create", "--name", "x")
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeFeatureDisabled, errors.GetCode(err))
}

//Personal.AI order the ending
