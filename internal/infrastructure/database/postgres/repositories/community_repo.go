package repositories

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/turtacn/H2Siting/internal/domain/community"
	"github.com/turtacn/H2Siting/internal/infrastructure/database/postgres"
	"github.com/turtacn/H2Siting/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/H2Siting/pkg/errors"
)

const communityWithMembers = `
	SELECT c.id, c.name, c.description, c.created_at, COUNT(uc.user_id) AS member_count
	FROM communities c
	LEFT JOIN user_community uc ON c.id = uc.community_id`

type postgresCommunityRepo struct {
	conn     *postgres.Connection
	log      logging.Logger
	executor queryExecutor
}

// NewPostgresCommunityRepo returns a community.Repository backed by PostgreSQL.
func NewPostgresCommunityRepo(conn *postgres.Connection, log logging.Logger) community.Repository {
	return &postgresCommunityRepo{
		conn:     conn,
		log:      log,
		executor: conn.Executor(),
	}
}

func (r *postgresCommunityRepo) Create(ctx context.Context, c *community.Community) error {
	err := r.executor.QueryRowContext(ctx,
		`INSERT INTO communities (name, description) VALUES ($1, $2) RETURNING id, created_at`,
		c.Name, c.Description,
	).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		if _, ok := isUniqueViolation(err); ok {
			return errors.Wrap(err, errors.ErrCodeConflict, "community already exists")
		}
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to create community")
	}
	return nil
}

func (r *postgresCommunityRepo) GetByID(ctx context.Context, id int64) (*community.Community, error) {
	row := r.executor.QueryRowContext(ctx, communityWithMembers+` WHERE c.id = $1 GROUP BY c.id`, id)
	c, err := scanCommunity(row)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.New(errors.ErrCodeCommunityNotFound, "community not found")
		}
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to get community")
	}
	return c, nil
}

func (r *postgresCommunityRepo) Search(ctx context.Context, query string) ([]*community.Community, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if strings.TrimSpace(query) == "" {
		rows, err = r.executor.QueryContext(ctx, communityWithMembers+` GROUP BY c.id ORDER BY c.id`)
	} else {
		rows, err = r.executor.QueryContext(ctx,
			communityWithMembers+` WHERE c.name ILIKE $1 OR c.description ILIKE $1 GROUP BY c.id ORDER BY c.id`,
			likePattern(query))
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to search communities")
	}
	return collectCommunities(rows)
}

func (r *postgresCommunityRepo) ListByIDs(ctx context.Context, ids []int64) ([]*community.Community, error) {
	if len(ids) == 0 {
		return []*community.Community{}, nil
	}
	placeholders := make([]string, len(ids))
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}
	rows, err := r.executor.QueryContext(ctx,
		communityWithMembers+` WHERE c.id IN (`+strings.Join(placeholders, ", ")+`) GROUP BY c.id`, args...)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to list communities")
	}
	found, err := collectCommunities(rows)
	if err != nil {
		return nil, err
	}

	byID := make(map[int64]*community.Community, len(found))
	for _, c := range found {
		byID[c.ID] = c
	}
	out := make([]*community.Community, 0, len(found))
	for _, id := range ids {
		if c, ok := byID[id]; ok {
			out = append(out, c)
			delete(byID, id)
		}
	}
	return out, nil
}

func (r *postgresCommunityRepo) Join(ctx context.Context, userID, communityID int64) (bool, error) {
	res, err := r.executor.ExecContext(ctx,
		`INSERT INTO user_community (user_id, community_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		userID, communityID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return false, errors.Wrap(err, errors.ErrCodeCommunityNotFound, "community not found")
		}
		return false, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to join community")
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *postgresCommunityRepo) JoinedCommunity(ctx context.Context, userID int64) (*community.Community, error) {
	row := r.executor.QueryRowContext(ctx, `
		SELECT c.id, c.name, c.description, c.created_at
		FROM communities c
		JOIN user_community uc ON c.id = uc.community_id
		WHERE uc.user_id = $1
		ORDER BY uc.joined_at
		LIMIT 1`, userID)

	var c community.Community
	if err := row.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to get joined community")
	}
	return &c, nil
}

func (r *postgresCommunityRepo) CreatePost(ctx context.Context, p *community.Post, file *community.Attachment) error {
	return withTx(ctx, r.conn, r.log, func(tx queryExecutor) error {
		err := tx.QueryRowContext(ctx,
			`INSERT INTO posts (user_id, community_id, content) VALUES ($1, $2, $3) RETURNING id, created_at`,
			p.UserID, p.CommunityID, p.Content,
		).Scan(&p.ID, &p.CreatedAt)
		if err != nil {
			if isForeignKeyViolation(err) {
				return errors.Wrap(err, errors.ErrCodeCommunityNotFound, "community not found")
			}
			return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to create post")
		}

		if file == nil {
			return nil
		}
		file.PostID = p.ID
		err = tx.QueryRowContext(ctx,
			`INSERT INTO files (post_id, filename, filepath) VALUES ($1, $2, $3) RETURNING id`,
			file.PostID, file.Filename, file.Filepath,
		).Scan(&file.ID)
		if err != nil {
			return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to attach file")
		}
		p.File = file
		return nil
	})
}

func (r *postgresCommunityRepo) RecentPosts(ctx context.Context, communityID int64, limit int) ([]*community.Post, error) {
	rows, err := r.executor.QueryContext(ctx, `
		SELECT p.id, p.user_id, p.community_id, p.content, p.created_at, u.username, '' AS community_name,
		       f.id, f.filename, f.filepath
		FROM posts p
		JOIN users u ON p.user_id = u.id
		LEFT JOIN files f ON p.id = f.post_id
		WHERE p.community_id = $1
		ORDER BY p.created_at DESC
		LIMIT $2`, communityID, limit)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to get recent posts")
	}
	return collectPosts(rows)
}

func (r *postgresCommunityRepo) UserPosts(ctx context.Context, userID int64, limit int) ([]*community.Post, error) {
	rows, err := r.executor.QueryContext(ctx, `
		SELECT p.id, p.user_id, p.community_id, p.content, p.created_at, '' AS username, c.name,
		       f.id, f.filename, f.filepath
		FROM posts p
		JOIN communities c ON p.community_id = c.id
		LEFT JOIN files f ON p.id = f.post_id
		WHERE p.user_id = $1
		ORDER BY p.created_at DESC
		LIMIT $2`, userID, limit)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to get user posts")
	}
	return collectPosts(rows)
}

func (r *postgresCommunityRepo) Stats(ctx context.Context) (*community.Stats, error) {
	var s community.Stats
	err := r.executor.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM users WHERE is_active),
			(SELECT COUNT(*) FROM posts),
			(SELECT COUNT(*) FROM communities)`,
	).Scan(&s.ActiveMembers, &s.TotalPosts, &s.TotalCommunities)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to get community stats")
	}
	return &s, nil
}

func scanCommunity(row scanner) (*community.Community, error) {
	var c community.Community
	if err := row.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt, &c.MemberCount); err != nil {
		return nil, err
	}
	return &c, nil
}

func collectCommunities(rows *sql.Rows) ([]*community.Community, error) {
	defer rows.Close()
	out := []*community.Community{}
	for rows.Next() {
		c, err := scanCommunity(rows)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to scan community")
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to iterate communities")
	}
	return out, nil
}

func collectPosts(rows *sql.Rows) ([]*community.Post, error) {
	defer rows.Close()
	out := []*community.Post{}
	for rows.Next() {
		var (
			p        community.Post
			fileID   sql.NullInt64
			filename sql.NullString
			filepath sql.NullString
		)
		err := rows.Scan(&p.ID, &p.UserID, &p.CommunityID, &p.Content, &p.CreatedAt,
			&p.Username, &p.CommunityName, &fileID, &filename, &filepath)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to scan post")
		}
		if fileID.Valid {
			p.File = &community.Attachment{
				ID:       fileID.Int64,
				PostID:   p.ID,
				Filename: nullString(filename),
				Filepath: nullString(filepath),
			}
		}
		out = append(out, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to iterate posts")
	}
	return out, nil
}

//Personal.AI order the ending
