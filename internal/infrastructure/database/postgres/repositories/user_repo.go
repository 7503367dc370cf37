package repositories

import (
	"context"
	"database/sql"
	stderrors "errors"

	"github.com/turtacn/H2Siting/internal/domain/user"
	"github.com/turtacn/H2Siting/internal/infrastructure/database/postgres"
	"github.com/turtacn/H2Siting/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/H2Siting/pkg/errors"
)

const userColumns = `id, username, email, password_hash, auth_provider, is_active, picture_url, created_at`

type postgresUserRepo struct {
	conn     *postgres.Connection
	log      logging.Logger
	executor queryExecutor
}

// NewPostgresUserRepo returns a user.UserRepository backed by PostgreSQL.
func NewPostgresUserRepo(conn *postgres.Connection, log logging.Logger) user.UserRepository {
	return &postgresUserRepo{
		conn:     conn,
		log:      log,
		executor: conn.Executor(),
	}
}

func (r *postgresUserRepo) Create(ctx context.Context, u *user.User) error {
	query := `
		INSERT INTO users (username, email, password_hash, auth_provider, is_active, picture_url)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`
	var hash sql.NullString
	if u.PasswordHash != "" {
		hash = sql.NullString{String: u.PasswordHash, Valid: true}
	}

	err := r.executor.QueryRowContext(ctx, query,
		u.Username, u.Email, hash, string(u.AuthProvider), u.IsActive, u.PictureURL,
	).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		if constraint, ok := isUniqueViolation(err); ok {
			switch constraint {
			case "users_email_key":
				return errors.Wrap(err, errors.ErrCodeConflict, "email already exists")
			case "users_username_key":
				return errors.Wrap(err, errors.ErrCodeConflict, "username already exists")
			}
			return errors.Wrap(err, errors.ErrCodeConflict, "Email or username already exists.")
		}
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to create user")
	}
	return nil
}

func (r *postgresUserRepo) GetByID(ctx context.Context, id int64) (*user.User, error) {
	row := r.executor.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

func (r *postgresUserRepo) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	row := r.executor.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return scanUser(row)
}

func (r *postgresUserRepo) ExistsByEmailOrUsername(ctx context.Context, email, username string) (bool, error) {
	var exists bool
	err := r.executor.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE email = $1 OR username = $2)`, email, username,
	).Scan(&exists)
	if err != nil {
		return false, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to check existing user")
	}
	return exists, nil
}

func (r *postgresUserRepo) SetActive(ctx context.Context, id int64, active bool) error {
	res, err := r.executor.ExecContext(ctx, `UPDATE users SET is_active = $2 WHERE id = $1`, id, active)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to update user activity")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.New(errors.ErrCodeUserNotFound, "user not found")
	}
	return nil
}

func (r *postgresUserRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.executor.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to delete user")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.New(errors.ErrCodeUserNotFound, "user not found")
	}
	r.log.Info("user deleted", logging.Int64("user_id", id))
	return nil
}

func scanUser(row scanner) (*user.User, error) {
	var (
		u        user.User
		hash     sql.NullString
		provider string
	)
	err := row.Scan(&u.ID, &u.Username, &u.Email, &hash, &provider, &u.IsActive, &u.PictureURL, &u.CreatedAt)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.New(errors.ErrCodeUserNotFound, "user not found")
		}
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to scan user")
	}
	u.PasswordHash = nullString(hash)
	u.AuthProvider = user.AuthProvider(provider)
	return &u, nil
}

//Personal.AI order the ending
