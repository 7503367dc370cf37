package repositories

import (
	"context"
	"database/sql"
	stderrors "errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/suite"

	"github.com/turtacn/H2Siting/internal/domain/community"
	"github.com/turtacn/H2Siting/internal/infrastructure/database/postgres"
	"github.com/turtacn/H2Siting/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/H2Siting/pkg/errors"
)

var (
	communityRowColumns = []string{"id", "name", "description", "created_at", "member_count"}
	postRowColumns      = []string{
		"id", "user_id", "community_id", "content", "created_at", "username", "community_name",
		"file_id", "filename", "filepath",
	}
)

type CommunityRepoTestSuite struct {
	suite.Suite
	mock sqlmock.Sqlmock
	db   *sql.DB
	repo community.Repository
}

func (s *CommunityRepoTestSuite) SetupTest() {
	var err error
	s.db, s.mock, err = sqlmock.New()
	s.Require().NoError(err)

	log := logging.NewNopLogger()
	s.repo = NewPostgresCommunityRepo(postgres.NewConnectionWithDB(s.db, log), log)
}

func (s *CommunityRepoTestSuite) TearDownTest() {
	s.NoError(s.mock.ExpectationsWereMet())
	s.db.Close()
}

func (s *CommunityRepoTestSuite) TestCreate_Success() {
	c, err := community.NewCommunity("  Gujarat Hydrogen ", "Coastal projects")
	s.Require().NoError(err)

	s.mock.ExpectQuery("INSERT INTO communities").
		WithArgs("Gujarat Hydrogen", "Coastal projects").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(1), time.Now()))

	s.NoError(s.repo.Create(context.Background(), c))
	s.Equal(int64(1), c.ID)
}

func (s *CommunityRepoTestSuite) TestCreate_Duplicate() {
	s.mock.ExpectQuery("INSERT INTO communities").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "communities_name_key"})

	err := s.repo.Create(context.Background(), &community.Community{Name: "Gujarat Hydrogen"})
	s.True(errors.IsConflict(err))
}

func (s *CommunityRepoTestSuite) TestGetByID_NotFound() {
	s.mock.ExpectQuery("WHERE c.id = \\$1 GROUP BY c.id").
		WithArgs(int64(42)).
		WillReturnError(sql.ErrNoRows)

	c, err := s.repo.GetByID(context.Background(), 42)
	s.Nil(c)
	s.True(errors.IsCode(err, errors.ErrCodeCommunityNotFound))
}

func (s *CommunityRepoTestSuite) TestSearch_EscapesPattern() {
	now := time.Now()
	s.mock.ExpectQuery("WHERE c.name ILIKE \\$1 OR c.description ILIKE \\$1").
		WithArgs(`%100\%\_solar%`).
		WillReturnRows(sqlmock.NewRows(communityRowColumns).
			AddRow(int64(2), "100% solar", "", now, int64(3)))

	out, err := s.repo.Search(context.Background(), "100%_solar")
	s.NoError(err)
	s.Require().Len(out, 1)
	s.Equal(int64(3), out[0].MemberCount)
}

func (s *CommunityRepoTestSuite) TestSearch_EmptyListsAll() {
	now := time.Now()
	s.mock.ExpectQuery("GROUP BY c.id ORDER BY c.id").
		WillReturnRows(sqlmock.NewRows(communityRowColumns).
			AddRow(int64(1), "Gujarat", "", now, int64(2)).
			AddRow(int64(2), "Odisha", "", now, int64(0)))

	out, err := s.repo.Search(context.Background(), "  ")
	s.NoError(err)
	s.Len(out, 2)
	s.Equal(int64(2), out[0].MemberCount)
}

func (s *CommunityRepoTestSuite) TestListByIDs_KeepsRequestedOrder() {
	now := time.Now()
	s.mock.ExpectQuery("WHERE c.id IN \\(\\$1, \\$2, \\$3\\)").
		WithArgs(int64(3), int64(1), int64(9)).
		WillReturnRows(sqlmock.NewRows(communityRowColumns).
			AddRow(int64(1), "Gujarat", "", now, int64(0)).
			AddRow(int64(3), "Tamil Nadu", "", now, int64(0)))

	out, err := s.repo.ListByIDs(context.Background(), []int64{3, 1, 9})
	s.NoError(err)
	s.Require().Len(out, 2)
	s.Equal(int64(3), out[0].ID)
	s.Equal(int64(1), out[1].ID)
}

func (s *CommunityRepoTestSuite) TestListByIDs_Empty() {
	out, err := s.repo.ListByIDs(context.Background(), nil)
	s.NoError(err)
	s.Empty(out)
}

func (s *CommunityRepoTestSuite) TestJoin() {
	s.mock.ExpectExec("INSERT INTO user_community").
		WithArgs(int64(1), int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	s.mock.ExpectExec("INSERT INTO user_community").
		WithArgs(int64(1), int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	joined, err := s.repo.Join(context.Background(), 1, 2)
	s.NoError(err)
	s.True(joined)

	joined, err = s.repo.Join(context.Background(), 1, 2)
	s.NoError(err)
	s.False(joined)
}

func (s *CommunityRepoTestSuite) TestJoin_UnknownCommunity() {
	s.mock.ExpectExec("INSERT INTO user_community").
		WillReturnError(&pgconn.PgError{Code: "23503"})

	_, err := s.repo.Join(context.Background(), 1, 404)
	s.True(errors.IsCode(err, errors.ErrCodeCommunityNotFound))
}

func (s *CommunityRepoTestSuite) TestJoinedCommunity_None() {
	s.mock.ExpectQuery("JOIN user_community uc").
		WithArgs(int64(1)).
		WillReturnError(sql.ErrNoRows)

	c, err := s.repo.JoinedCommunity(context.Background(), 1)
	s.NoError(err)
	s.Nil(c)
}

func (s *CommunityRepoTestSuite) TestCreatePost_WithAttachment() {
	now := time.Now()
	p, err := community.NewPost(1, 2, "Site survey done")
	s.Require().NoError(err)
	file := &community.Attachment{Filename: "survey.pdf", Filepath: "posts/survey.pdf"}

	s.mock.ExpectBegin()
	s.mock.ExpectQuery("INSERT INTO posts").
		WithArgs(int64(1), int64(2), "Site survey done").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(10), now))
	s.mock.ExpectQuery("INSERT INTO files").
		WithArgs(int64(10), "survey.pdf", "posts/survey.pdf").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(20)))
	s.mock.ExpectCommit()

	s.NoError(s.repo.CreatePost(context.Background(), p, file))
	s.Equal(int64(10), p.ID)
	s.Require().NotNil(p.File)
	s.Equal(int64(20), p.File.ID)
	s.Equal(int64(10), p.File.PostID)
}

func (s *CommunityRepoTestSuite) TestCreatePost_RollsBackOnFileError() {
	p, err := community.NewPost(1, 2, "Site survey done")
	s.Require().NoError(err)

	s.mock.ExpectBegin()
	s.mock.ExpectQuery("INSERT INTO posts").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(10), time.Now()))
	s.mock.ExpectQuery("INSERT INTO files").
		WillReturnError(stderrors.New("connection reset"))
	s.mock.ExpectRollback()

	err = s.repo.CreatePost(context.Background(), p, &community.Attachment{Filename: "a.pdf", Filepath: "k"})
	s.True(errors.IsCode(err, errors.ErrCodeDatabaseError))
}

func (s *CommunityRepoTestSuite) TestRecentPosts() {
	now := time.Now()
	s.mock.ExpectQuery("WHERE p.community_id = \\$1").
		WithArgs(int64(2), community.RecentPostsLimit).
		WillReturnRows(sqlmock.NewRows(postRowColumns).
			AddRow(int64(11), int64(1), int64(2), "with file", now, "asha", "", int64(5), "map.png", "posts/map.png").
			AddRow(int64(10), int64(1), int64(2), "plain", now, "asha", "", nil, nil, nil))

	posts, err := s.repo.RecentPosts(context.Background(), 2, community.RecentPostsLimit)
	s.NoError(err)
	s.Require().Len(posts, 2)
	s.Require().NotNil(posts[0].File)
	s.Equal("map.png", posts[0].File.Filename)
	s.Nil(posts[1].File)
}

func (s *CommunityRepoTestSuite) TestUserPosts() {
	s.mock.ExpectQuery("WHERE p.user_id = \\$1").
		WithArgs(int64(1), community.UserPostsLimit).
		WillReturnRows(sqlmock.NewRows(postRowColumns).
			AddRow(int64(10), int64(1), int64(2), "plain", time.Now(), "", "Gujarat", nil, nil, nil))

	posts, err := s.repo.UserPosts(context.Background(), 1, community.UserPostsLimit)
	s.NoError(err)
	s.Require().Len(posts, 1)
	s.Equal("Gujarat", posts[0].CommunityName)
}

func (s *CommunityRepoTestSuite) TestStats() {
	s.mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM users WHERE is_active").
		WillReturnRows(sqlmock.NewRows([]string{"a", "b", "c"}).AddRow(int64(4), int64(9), int64(2)))

	st, err := s.repo.Stats(context.Background())
	s.NoError(err)
	s.Equal(int64(4), st.ActiveMembers)
	s.Equal(int64(9), st.TotalPosts)
	s.Equal(int64(2), st.TotalCommunities)
}

func TestCommunityRepoTestSuite(t *testing.T) {
	suite.Run(t, new(CommunityRepoTestSuite))
}

//Personal.AI order the ending
