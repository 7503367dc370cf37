// Package community provides the application service for discussion
// communities: membership, posts with attachments, search and headline stats.
package community

import (
	"context"
	"io"
	"time"

	"github.com/turtacn/H2Siting/internal/application/events"
	domain "github.com/turtacn/H2Siting/internal/domain/community"
	"github.com/turtacn/H2Siting/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/H2Siting/pkg/errors"
)

const (
	statsCacheKey = "community:stats"
	// StatsTTL is how long the headline counters are served from cache.
	StatsTTL = 30 * time.Second
	// DefaultMaxAttachmentBytes bounds a single upload.
	DefaultMaxAttachmentBytes int64 = 16 << 20

	attachmentCleanupTimeout = 10 * time.Second
)

// Service defines the interface for community operations.
type Service interface {
	Overview(ctx context.Context, userID int64, query string) (*Overview, error)
	Stats(ctx context.Context) (*domain.Stats, error)
	Search(ctx context.Context, query string) ([]*domain.Community, error)
	Join(ctx context.Context, userID, communityID int64) (bool, error)
	JoinedCommunity(ctx context.Context, userID int64) (*domain.Community, error)
	CreatePost(ctx context.Context, input *CreatePostInput) (*domain.Post, error)
	RecentPosts(ctx context.Context, communityID int64) ([]*domain.Post, error)
	UserPosts(ctx context.Context, userID int64) ([]*domain.Post, error)
	CreateCommunity(ctx context.Context, name, description string) (*domain.Community, error)
	AttachmentURL(ctx context.Context, key string) (string, error)
}

// Overview is everything the community page shows at once.
type Overview struct {
	Stats           *domain.Stats       `json:"stats"`
	Communities     []*domain.Community `json:"communities"`
	JoinedCommunity *domain.Community   `json:"joined_community"`
	Posts           []*domain.Post      `json:"posts"`
}

// FileUpload is an attachment supplied with a new post.
type FileUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// CreatePostInput contains input for publishing a post.
type CreatePostInput struct {
	UserID      int64
	CommunityID int64
	Content     string
	File        *FileUpload
}

// StatsCache collapses and caches the stats query.
type StatsCache interface {
	GetOrSet(ctx context.Context, key string, dest interface{}, ttl time.Duration, loader func(ctx context.Context) (interface{}, error)) error
}

// AttachmentStore keeps post attachments in object storage.
type AttachmentStore interface {
	Put(ctx context.Context, filename string, r io.Reader, size int64, contentType string) (string, error)
	URL(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
}

// Dependencies groups the collaborators of the community service. Cache,
// Index, Attachments and Publisher are optional.
type Dependencies struct {
	Repo               domain.Repository
	Cache              StatsCache
	Index              domain.SearchIndex
	Attachments        AttachmentStore
	Publisher          events.Publisher
	MaxAttachmentBytes int64
}

type serviceImpl struct {
	repo        domain.Repository
	cache       StatsCache
	index       domain.SearchIndex
	attachments AttachmentStore
	publisher   events.Publisher
	maxBytes    int64
	logger      logging.Logger
}

// NewService creates a new community service.
func NewService(deps Dependencies, logger logging.Logger) Service {
	s := &serviceImpl{
		repo:        deps.Repo,
		cache:       deps.Cache,
		index:       deps.Index,
		attachments: deps.Attachments,
		publisher:   deps.Publisher,
		maxBytes:    deps.MaxAttachmentBytes,
		logger:      logger,
	}
	if s.publisher == nil {
		s.publisher = events.NopPublisher{}
	}
	if s.maxBytes <= 0 {
		s.maxBytes = DefaultMaxAttachmentBytes
	}
	return s
}

func (s *serviceImpl) Overview(ctx context.Context, userID int64, query string) (*Overview, error) {
	stats, err := s.Stats(ctx)
	if err != nil {
		return nil, err
	}
	communities, err := s.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	out := &Overview{Stats: stats, Communities: communities, Posts: []*domain.Post{}}
	if userID <= 0 {
		return out, nil
	}
	joined, err := s.repo.JoinedCommunity(ctx, userID)
	if err != nil {
		return nil, err
	}
	if joined != nil {
		out.JoinedCommunity = joined
		if out.Posts, err = s.RecentPosts(ctx, joined.ID); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (s *serviceImpl) Stats(ctx context.Context) (*domain.Stats, error) {
	if s.cache == nil {
		return s.repo.Stats(ctx)
	}
	var stats domain.Stats
	err := s.cache.GetOrSet(ctx, statsCacheKey, &stats, StatsTTL, func(ctx context.Context) (interface{}, error) {
		return s.repo.Stats(ctx)
	})
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

func (s *serviceImpl) Search(ctx context.Context, query string) ([]*domain.Community, error) {
	if s.index != nil {
		ids, err := s.index.Search(ctx, query)
		if err == nil {
			return s.repo.ListByIDs(ctx, ids)
		}
		s.logger.Warn("community index search failed, falling back to database",
			logging.String("query", query), logging.Err(err))
	}
	return s.repo.Search(ctx, query)
}

func (s *serviceImpl) Join(ctx context.Context, userID, communityID int64) (bool, error) {
	if communityID <= 0 {
		return false, errors.InvalidParam("Community not specified.")
	}
	if _, err := s.repo.GetByID(ctx, communityID); err != nil {
		return false, err
	}
	joined, err := s.repo.Join(ctx, userID, communityID)
	if err != nil {
		return false, err
	}
	if joined {
		s.logger.Info("user joined community", logging.Int64("user_id", userID), logging.Int64("community_id", communityID))
	}
	return joined, nil
}

func (s *serviceImpl) JoinedCommunity(ctx context.Context, userID int64) (*domain.Community, error) {
	return s.repo.JoinedCommunity(ctx, userID)
}

func (s *serviceImpl) CreatePost(ctx context.Context, input *CreatePostInput) (*domain.Post, error) {
	if input == nil {
		return nil, errors.New(errors.ErrCodePostInvalid, "post content is required")
	}
	post, err := domain.NewPost(input.UserID, input.CommunityID, input.Content)
	if err != nil {
		return nil, err
	}

	var file *domain.Attachment
	if input.File != nil && input.File.Filename != "" {
		if file, err = s.storeAttachment(ctx, input.File); err != nil {
			return nil, err
		}
	}

	if err := s.repo.CreatePost(ctx, post, file); err != nil {
		if file != nil {
			s.discardAttachment(file.Filepath)
		}
		return nil, err
	}
	post.File = file

	key := ""
	if file != nil {
		key = file.Filepath
	}
	if err := s.publisher.PublishEvent(ctx, events.NewPostCreatedEvent(post.ID, post.UserID, post.CommunityID, key)); err != nil {
		s.logger.Warn("failed to publish post event", logging.Int64("post_id", post.ID), logging.Err(err))
	}
	return post, nil
}

func (s *serviceImpl) storeAttachment(ctx context.Context, f *FileUpload) (*domain.Attachment, error) {
	if s.attachments == nil {
		return nil, errors.New(errors.ErrCodeFeatureDisabled, "attachments are not enabled")
	}
	if f.Size > s.maxBytes {
		return nil, errors.New(errors.ErrCodeAttachmentTooBig, "attachment exceeds the upload limit")
	}
	name := domain.SecureFilename(f.Filename)
	if name == "" {
		return nil, errors.New(errors.ErrCodePostInvalid, "attachment name is not usable")
	}
	key, err := s.attachments.Put(ctx, name, f.Reader, f.Size, f.ContentType)
	if err != nil {
		s.logger.Error("attachment upload failed", logging.String("filename", name), logging.Err(err))
		return nil, err
	}
	return &domain.Attachment{Filename: name, Filepath: key}, nil
}

// discardAttachment removes an upload whose post was never stored. It runs on
// a fresh context so a cancelled request still cleans up.
func (s *serviceImpl) discardAttachment(key string) {
	ctx, cancel := context.WithTimeout(context.Background(), attachmentCleanupTimeout)
	defer cancel()
	if err := s.attachments.Delete(ctx, key); err != nil {
		s.logger.Warn("failed to remove orphaned attachment", logging.String("key", key), logging.Err(err))
	}
}

func (s *serviceImpl) RecentPosts(ctx context.Context, communityID int64) ([]*domain.Post, error) {
	return s.repo.RecentPosts(ctx, communityID, domain.RecentPostsLimit)
}

func (s *serviceImpl) UserPosts(ctx context.Context, userID int64) ([]*domain.Post, error) {
	return s.repo.UserPosts(ctx, userID, domain.UserPostsLimit)
}

func (s *serviceImpl) CreateCommunity(ctx context.Context, name, description string) (*domain.Community, error) {
	c, err := domain.NewCommunity(name, description)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	if s.index != nil {
		if err := s.index.Index(ctx, c); err != nil {
			s.logger.Warn("failed to index community", logging.Int64("community_id", c.ID), logging.Err(err))
		}
	}
	return c, nil
}

func (s *serviceImpl) AttachmentURL(ctx context.Context, key string) (string, error) {
	if s.attachments == nil {
		return "", errors.New(errors.ErrCodeFeatureDisabled, "attachments are not enabled")
	}
	return s.attachments.URL(ctx, key)
}

//Personal.AI order the ending
