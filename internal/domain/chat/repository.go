package chat

import "context"

// Repository defines the persistence contract for chat history.
type Repository interface {
	// SaveSession updates s when s.ID is set and inserts it otherwise. It
	// returns the session id.
	SaveSession(ctx context.Context, s *Session) (int64, error)
	SaveMessage(ctx context.Context, m *Message) error
	// ListSessions returns sessions newest first.
	ListSessions(ctx context.Context, limit, offset int) ([]*Session, error)
	// Messages returns the messages of a session oldest first.
	Messages(ctx context.Context, sessionID int64) ([]*Message, error)
	// RecentMessages returns up to max of the latest messages, oldest first.
	RecentMessages(ctx context.Context, sessionID int64, max int) ([]*Message, error)
	GetSession(ctx context.Context, id int64) (*Session, error)
	// DeleteSession removes the session and its messages and reports
	// whether the session existed.
	DeleteSession(ctx context.Context, id int64) (bool, error)
}

//Personal.AI order the ending
