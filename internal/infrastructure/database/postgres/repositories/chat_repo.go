package repositories

import (
	"context"
	"database/sql"
	stderrors "errors"

	"github.com/turtacn/H2Siting/internal/domain/chat"
	"github.com/turtacn/H2Siting/internal/infrastructure/database/postgres"
	"github.com/turtacn/H2Siting/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/H2Siting/pkg/errors"
)

const (
	sessionColumns = `id, location, latitude, longitude, feasibility_score, recommended_technology, created_at, updated_at`
	messageColumns = `id, session_id, role, content, is_report, timestamp`
)

type postgresChatRepo struct {
	conn     *postgres.Connection
	log      logging.Logger
	executor queryExecutor
}

// NewPostgresChatRepo returns a chat.Repository backed by PostgreSQL.
func NewPostgresChatRepo(conn *postgres.Connection, log logging.Logger) chat.Repository {
	return &postgresChatRepo{
		conn:     conn,
		log:      log,
		executor: conn.Executor(),
	}
}

func (r *postgresChatRepo) SaveSession(ctx context.Context, s *chat.Session) (int64, error) {
	if s.Location == "" {
		s.Location = chat.UnknownLocation
	}

	if s.ID != 0 {
		res, err := r.executor.ExecContext(ctx, `
			UPDATE chat_sessions
			SET location = $2, latitude = $3, longitude = $4, feasibility_score = $5,
			    recommended_technology = $6, updated_at = NOW()
			WHERE id = $1`,
			s.ID, s.Location, s.Latitude, s.Longitude, s.FeasibilityScore, s.RecommendedTechnology)
		if err != nil {
			return 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to update chat session")
		}
		if n, _ := res.RowsAffected(); n > 0 {
			return s.ID, nil
		}
		r.log.Debug("chat session missing, inserting", logging.Int64("session_id", s.ID))
	}

	err := r.executor.QueryRowContext(ctx, `
		INSERT INTO chat_sessions (location, latitude, longitude, feasibility_score, recommended_technology)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`,
		s.Location, s.Latitude, s.Longitude, s.FeasibilityScore, s.RecommendedTechnology,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to create chat session")
	}
	return s.ID, nil
}

func (r *postgresChatRepo) SaveMessage(ctx context.Context, m *chat.Message) error {
	m.Content = chat.Truncate(m.Content)
	err := r.executor.QueryRowContext(ctx, `
		INSERT INTO chat_messages (session_id, role, content, is_report)
		VALUES ($1, $2, $3, $4)
		RETURNING id, timestamp`,
		m.SessionID, string(m.Role), m.Content, m.IsReport,
	).Scan(&m.ID, &m.Timestamp)
	if err != nil {
		if isForeignKeyViolation(err) {
			return errors.Wrap(err, errors.ErrCodeSessionNotFound, "chat session not found")
		}
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to save chat message")
	}
	return nil
}

func (r *postgresChatRepo) ListSessions(ctx context.Context, limit, offset int) ([]*chat.Session, error) {
	if limit <= 0 {
		limit = chat.DefaultSessionLimit
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := r.executor.QueryContext(ctx,
		`SELECT `+sessionColumns+` FROM chat_sessions ORDER BY created_at DESC, id DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to list chat sessions")
	}
	defer rows.Close()

	out := []*chat.Session{}
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to scan chat session")
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to iterate chat sessions")
	}
	return out, nil
}

func (r *postgresChatRepo) Messages(ctx context.Context, sessionID int64) ([]*chat.Message, error) {
	rows, err := r.executor.QueryContext(ctx,
		`SELECT `+messageColumns+` FROM chat_messages WHERE session_id = $1 ORDER BY timestamp, id`,
		sessionID)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to get chat messages")
	}
	return collectMessages(rows)
}

func (r *postgresChatRepo) RecentMessages(ctx context.Context, sessionID int64, max int) ([]*chat.Message, error) {
	if max <= 0 {
		max = chat.DefaultHistoryWindow
	}
	rows, err := r.executor.QueryContext(ctx,
		`SELECT `+messageColumns+` FROM chat_messages WHERE session_id = $1 ORDER BY timestamp DESC, id DESC LIMIT $2`,
		sessionID, max)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to get recent chat messages")
	}
	msgs, err := collectMessages(rows)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs, nil
}

func (r *postgresChatRepo) GetSession(ctx context.Context, id int64) (*chat.Session, error) {
	row := r.executor.QueryRowContext(ctx, `SELECT `+sessionColumns+` FROM chat_sessions WHERE id = $1`, id)
	s, err := scanSession(row)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.New(errors.ErrCodeSessionNotFound, "chat session not found")
		}
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to get chat session")
	}
	return s, nil
}

func (r *postgresChatRepo) DeleteSession(ctx context.Context, id int64) (bool, error) {
	var deleted bool
	err := withTx(ctx, r.conn, r.log, func(tx queryExecutor) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM chat_messages WHERE session_id = $1`, id); err != nil {
			return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to delete chat messages")
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM chat_sessions WHERE id = $1`, id)
		if err != nil {
			return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to delete chat session")
		}
		n, _ := res.RowsAffected()
		deleted = n > 0
		return nil
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}

func scanSession(row scanner) (*chat.Session, error) {
	var (
		s          chat.Session
		lat, lon   sql.NullFloat64
		score      sql.NullFloat64
		technology sql.NullString
	)
	if err := row.Scan(&s.ID, &s.Location, &lat, &lon, &score, &technology, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	s.Latitude = nullFloat(lat)
	s.Longitude = nullFloat(lon)
	s.FeasibilityScore = nullFloat(score)
	if technology.Valid {
		t := technology.String
		s.RecommendedTechnology = &t
	}
	return &s, nil
}

func collectMessages(rows *sql.Rows) ([]*chat.Message, error) {
	defer rows.Close()
	out := []*chat.Message{}
	for rows.Next() {
		var (
			m    chat.Message
			role string
		)
		if err := rows.Scan(&m.ID, &m.SessionID, &role, &m.Content, &m.IsReport, &m.Timestamp); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to scan chat message")
		}
		m.Role = chat.Role(role)
		out = append(out, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to iterate chat messages")
	}
	return out, nil
}

func nullFloat(f sql.NullFloat64) *float64 {
	if !f.Valid {
		return nil
	}
	v := f.Float64
	return &v
}

//Personal.AI order the ending
