package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/H2Siting/internal/config"
)

type MockMigrator struct {
	mock.Mock
}

func (m *MockMigrator) Up() error { return m.Called().Error(0) }

func (m *MockMigrator) Down(steps int) error { return m.Called(steps).Error(0) }

func (m *MockMigrator) Status() (uint, bool, error) {
	args := m.Called()
	return args.Get(0).(uint), args.Bool(1), args.Error(2)
}

func migratorDeps(m Migrator) Dependencies {
	return Dependencies{Migrator: func(*config.Config) Migrator { return m }}
}

func TestMigrateUp(t *testing.T) {
	m := new(MockMigrator)
	m.On("Up").Return(nil)

	out, _, err := runCLI(t, migratorDeps(m), "migrate", "up")
	require.NoError(t, err)
	assert.Contains(t, out, "migrations applied")
	m.AssertExpectations(t)
}

func TestMigrateUp_Error(t *testing.T) {
	m := new(MockMigrator)
	m.On("Up").Return(assert.AnError)

	_, _, err := runCLI(t, migratorDeps(m), "migrate", "up")
	assert.ErrorIs(t, err, assert.AnError)
}

func TestMigrateDown(t *testing.T) {
	m := new(MockMigrator)
	m.On("Down", 2).Return(nil)

	out, _, err := runCLI(t, migratorDeps(m), "migrate", "down", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "rolled back 2 migration(s)")
	m.AssertExpectations(t)
}

func TestMigrateDown_InvalidSteps(t *testing.T) {
	m := new(MockMigrator)
	for _, arg := range []string{"0", "-1", "two"} {
		_, _, err := runCLI(t, migratorDeps(m), "migrate", "down", "--", arg)
		require.Error(t, err, arg)
		assert.Contains(t, err.Error(), "positive integer")
	}
	m.AssertNotCalled(t, "Down", mock.Anything)
}

func TestMigrateStatus(t *testing.T) {
	m := new(MockMigrator)
	m.On("Status").Return(uint(4), true, nil)

	out, _, err := runCLI(t, migratorDeps(m), "migrate", "status", "-o", "json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"version":4,"dirty":true}`, out)

	out, _, err = runCLI(t, migratorDeps(m), "migrate", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "dirty")
}

func TestNewPostgresMigrator(t *testing.T) {
	cfg := config.NewDefaultConfig()
	cfg.Database.MigrationsDir = "db/migrations"

	m, ok := NewPostgresMigrator(cfg).(*postgresMigrator)
	require.True(t, ok)
	assert.Equal(t, "db/migrations", m.dir)
	assert.Contains(t, m.dbURL, "localhost:5432/h2siting")
}

//Personal.AI order the ending
