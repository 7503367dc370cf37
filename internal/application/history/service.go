// Package history stores assistant conversations. Storage failures are logged
// and degrade to empty results so that a conversation can continue without a
// database.
package history

import (
	"context"

	"github.com/turtacn/H2Siting/internal/domain/chat"
	"github.com/turtacn/H2Siting/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/H2Siting/pkg/errors"
	"github.com/turtacn/H2Siting/pkg/types/common"
)

// Service defines the interface for chat history operations.
type Service interface {
	// SaveSession updates the session named by data.SessionID or inserts a
	// new one. It returns nil when the session could not be stored.
	SaveSession(ctx context.Context, data *SessionData) *int64
	SaveMessage(ctx context.Context, sessionID int64, role chat.Role, content string, isReport bool) bool
	Sessions(ctx context.Context, page common.Pagination) ([]*chat.Session, error)
	Messages(ctx context.Context, sessionID int64) []*chat.Message
	RecentHistory(ctx context.Context, sessionID int64, window int) []chat.Turn
	Session(ctx context.Context, sessionID int64) (*chat.Session, error)
	DeleteSession(ctx context.Context, sessionID int64) error
}

// SessionData describes the location a conversation is about.
type SessionData struct {
	SessionID             *int64
	Location              string
	Latitude              *float64
	Longitude             *float64
	Feasibility           *float64
	RecommendedTechnology *string
}

type serviceImpl struct {
	repo   chat.Repository
	logger logging.Logger
}

// NewService creates a new history service.
func NewService(repo chat.Repository, logger logging.Logger) Service {
	return &serviceImpl{repo: repo, logger: logger}
}

func (s *serviceImpl) SaveSession(ctx context.Context, data *SessionData) *int64 {
	if data == nil {
		data = &SessionData{}
	}
	sess := &chat.Session{
		Location:              data.Location,
		Latitude:              data.Latitude,
		Longitude:             data.Longitude,
		FeasibilityScore:      data.Feasibility,
		RecommendedTechnology: data.RecommendedTechnology,
	}
	if data.SessionID != nil {
		sess.ID = *data.SessionID
	}
	if sess.Location == "" {
		sess.Location = chat.UnknownLocation
	}

	id, err := s.repo.SaveSession(ctx, sess)
	if err != nil {
		s.logger.Error("error saving chat session", logging.Err(err))
		return nil
	}
	return &id
}

func (s *serviceImpl) SaveMessage(ctx context.Context, sessionID int64, role chat.Role, content string, isReport bool) bool {
	err := s.repo.SaveMessage(ctx, &chat.Message{
		SessionID: sessionID,
		Role:      role,
		Content:   chat.Truncate(content),
		IsReport:  isReport,
	})
	if err != nil {
		s.logger.Error("error saving chat message", logging.Int64("session_id", sessionID), logging.Err(err))
		return false
	}
	return true
}

func (s *serviceImpl) Sessions(ctx context.Context, page common.Pagination) ([]*chat.Session, error) {
	page = page.WithDefault(chat.DefaultSessionLimit)
	if err := page.Validate(); err != nil {
		return nil, errors.InvalidParam(err.Error())
	}
	sessions, err := s.repo.ListSessions(ctx, page.Limit, page.Offset)
	if err != nil {
		s.logger.Error("error getting chat sessions", logging.Err(err))
		return []*chat.Session{}, nil
	}
	if sessions == nil {
		sessions = []*chat.Session{}
	}
	return sessions, nil
}

func (s *serviceImpl) Messages(ctx context.Context, sessionID int64) []*chat.Message {
	msgs, err := s.repo.Messages(ctx, sessionID)
	if err != nil {
		s.logger.Error("error getting chat messages", logging.Int64("session_id", sessionID), logging.Err(err))
		return []*chat.Message{}
	}
	if msgs == nil {
		msgs = []*chat.Message{}
	}
	return msgs
}

func (s *serviceImpl) RecentHistory(ctx context.Context, sessionID int64, window int) []chat.Turn {
	if window <= 0 {
		window = chat.DefaultHistoryWindow
	}
	msgs, err := s.repo.RecentMessages(ctx, sessionID, window)
	if err != nil {
		s.logger.Error("error getting recent chat history", logging.Int64("session_id", sessionID), logging.Err(err))
		return []chat.Turn{}
	}
	turns := make([]chat.Turn, 0, len(msgs))
	for _, m := range msgs {
		turns = append(turns, chat.Turn{Role: m.Role, Content: m.Content})
	}
	return turns
}

func (s *serviceImpl) Session(ctx context.Context, sessionID int64) (*chat.Session, error) {
	sess, err := s.repo.GetSession(ctx, sessionID)
	if err != nil {
		if !errors.IsNotFound(err) {
			s.logger.Error("error getting chat session", logging.Int64("session_id", sessionID), logging.Err(err))
		}
		return nil, err
	}
	return sess, nil
}

func (s *serviceImpl) DeleteSession(ctx context.Context, sessionID int64) error {
	deleted, err := s.repo.DeleteSession(ctx, sessionID)
	if err != nil {
		s.logger.Error("error deleting chat session", logging.Int64("session_id", sessionID), logging.Err(err))
		return err
	}
	if !deleted {
		return errors.New(errors.ErrCodeSessionNotFound, "chat session not found")
	}
	return nil
}

//Personal.AI order the ending
