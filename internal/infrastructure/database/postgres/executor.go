package postgres

import (
	"context"
	"database/sql"
	"strings"
	"time"
)

// Executor runs statements. *sql.DB and *sql.Tx satisfy it.
type Executor interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// QueryObserver receives the operation ("select", "insert", ...), duration
// and outcome of each statement.
type QueryObserver func(operation string, d time.Duration, err error)

// SetQueryObserver times every statement issued through Executor. Call it
// before the connection is shared.
func (c *Connection) SetQueryObserver(o QueryObserver) { c.observe = o }

// Executor returns the pool, timed by the query observer when one is set.
func (c *Connection) Executor() Executor {
	if c.observe == nil {
		return c.db
	}
	return &timedExecutor{db: c.db, observe: c.observe}
}

type timedExecutor struct {
	db      *sql.DB
	observe QueryObserver
}

func (t *timedExecutor) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	start := time.Now()
	rows, err := t.db.QueryContext(ctx, query, args...)
	t.observe(operation(query), time.Since(start), err)
	return rows, err
}

func (t *timedExecutor) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	start := time.Now()
	row := t.db.QueryRowContext(ctx, query, args...)
	err := row.Err()
	if err == sql.ErrNoRows {
		err = nil
	}
	t.observe(operation(query), time.Since(start), err)
	return row
}

func (t *timedExecutor) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	start := time.Now()
	res, err := t.db.ExecContext(ctx, query, args...)
	t.observe(operation(query), time.Since(start), err)
	return res, err
}

// operation is the lower-cased leading keyword of query.
func operation(query string) string {
	fields := strings.Fields(query)
	if len(fields) == 0 {
		return "unknown"
	}
	op := strings.ToLower(fields[0])
	if op == "with" {
		return "select"
	}
	return op
}

//Personal.AI order the ending
