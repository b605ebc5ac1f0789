package auth

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pharmacare/pharmacy-web/internal/platform/db"
)

// Recorder keeps an audit trail of sign-ins.
type Recorder interface {
	Start(ctx context.Context, rec LoginRecord) error
	End(ctx context.Context, sessionID string, at time.Time) error
}

// NopRecorder discards audit records. It is used when no database is configured.
type NopRecorder struct{}

// Start implements Recorder.
func (NopRecorder) Start(context.Context, LoginRecord) error { return nil }

// End implements Recorder.
func (NopRecorder) End(context.Context, string, time.Time) error { return nil }

const schemaSQL = `CREATE TABLE IF NOT EXISTS login_sessions (
	session_id TEXT PRIMARY KEY,
	username   TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	expires_at TIMESTAMPTZ NOT NULL,
	ip         TEXT,
	user_agent TEXT,
	ended_at   TIMESTAMPTZ
)`

const indexSQL = `CREATE INDEX IF NOT EXISTS login_sessions_username_idx ON login_sessions (username, created_at DESC)`

const insertSessionSQL = `INSERT INTO login_sessions (session_id, username, created_at, expires_at, ip, user_agent)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (session_id) DO UPDATE SET username = EXCLUDED.username, created_at = EXCLUDED.created_at,
	expires_at = EXCLUDED.expires_at, ip = EXCLUDED.ip, user_agent = EXCLUDED.user_agent, ended_at = NULL`

const endSessionSQL = `UPDATE login_sessions SET ended_at = $2 WHERE session_id = $1 AND ended_at IS NULL`

// PGRecorder writes the audit trail to PostgreSQL.
type PGRecorder struct {
	pool *pgxpool.Pool
}

// NewRecorder constructs a PostgreSQL recorder.
func NewRecorder(pool *pgxpool.Pool) *PGRecorder {
	return &PGRecorder{pool: pool}
}

// EnsureSchema creates the login_sessions table and its index when missing.
func (r *PGRecorder) EnsureSchema(ctx context.Context) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		for _, stmt := range []string{schemaSQL, indexSQL} {
			if _, err := tx.Exec(ctx, stmt); err != nil {
				return err
			}
		}
		return nil
	})
}

// Start persists a new login session.
func (r *PGRecorder) Start(ctx context.Context, rec LoginRecord) error {
	_, err := r.pool.Exec(ctx, insertSessionSQL,
		rec.SessionID,
		rec.Username,
		pgtype.Timestamptz{Time: rec.CreatedAt.UTC(), Valid: true},
		pgtype.Timestamptz{Time: rec.ExpiresAt.UTC(), Valid: true},
		pgtype.Text{String: rec.IP, Valid: rec.IP != ""},
		pgtype.Text{String: rec.UserAgent, Valid: rec.UserAgent != ""},
	)
	return err
}

// End stamps the logout time on the session.
func (r *PGRecorder) End(ctx context.Context, sessionID string, at time.Time) error {
	_, err := r.pool.Exec(ctx, endSessionSQL, sessionID, pgtype.Timestamptz{Time: at.UTC(), Valid: true})
	return err
}

var (
	_ Recorder = (*PGRecorder)(nil)
	_ Recorder = NopRecorder{}
)
