package minio

import (
	"context"
	"errors"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/turtacn/H2Siting/internal/infrastructure/monitoring/logging"
)

type ClientTestSuite struct {
	suite.Suite
	api    *MockMinIOAPI
	client *MinIOClient
}

func (s *ClientTestSuite) SetupTest() {
	s.api = new(MockMinIOAPI)
	s.client = NewMinIOClientWithAPI(s.api, &MinIOConfig{}, logging.NewNopLogger())
}

func (s *ClientTestSuite) TestApplyDefaults() {
	cfg := s.client.Config()
	s.Equal("us-east-1", cfg.Region)
	s.Equal("h2siting-attachments", cfg.Buckets.Attachments)
	s.Equal("h2siting-reports", cfg.Buckets.Reports)
	s.NotZero(cfg.PresignExpiry)
}

func (s *ClientTestSuite) TestEnsureBuckets_CreatesMissing() {
	s.api.On("BucketExists", mock.Anything, "h2siting-attachments").Return(true, nil)
	s.api.On("BucketExists", mock.Anything, "h2siting-reports").Return(false, nil)
	s.api.On("MakeBucket", mock.Anything, "h2siting-reports", minio.MakeBucketOptions{Region: "us-east-1"}).Return(nil)

	s.NoError(s.client.EnsureBuckets(context.Background()))
	s.api.AssertExpectations(s.T())
	s.api.AssertNotCalled(s.T(), "MakeBucket", mock.Anything, "h2siting-attachments", mock.Anything)
}

func (s *ClientTestSuite) TestEnsureBuckets_CheckFails() {
	s.api.On("BucketExists", mock.Anything, "h2siting-attachments").Return(false, errors.New("boom"))

	s.Error(s.client.EnsureBuckets(context.Background()))
}

func (s *ClientTestSuite) TestCheck() {
	s.api.On("ListBuckets", mock.Anything).Return([]minio.BucketInfo{}, nil)
	s.api.On("BucketExists", mock.Anything, mock.Anything).Return(true, nil)

	s.Equal("minio", s.client.Name())
	s.NoError(s.client.Check(context.Background()))
}

func (s *ClientTestSuite) TestCheck_MissingBucket() {
	s.api.On("ListBuckets", mock.Anything).Return([]minio.BucketInfo{}, nil)
	s.api.On("BucketExists", mock.Anything, "h2siting-attachments").Return(false, nil)

	err := s.client.Check(context.Background())
	s.Error(err)
	s.Contains(err.Error(), "h2siting-attachments")
}

func (s *ClientTestSuite) TestCheck_AfterClose() {
	s.NoError(s.client.Close())
	s.Equal(ErrMinIOClientClosed, s.client.Check(context.Background()))
}

func TestClientSuite(t *testing.T) {
	suite.Run(t, new(ClientTestSuite))
}

//Personal.AI order the ending
