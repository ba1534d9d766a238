package store

import (
	"context"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medadhere/frontend-server/backend/access"
)

const (
	defaultRecentLimit = 50
	maxRecentLimit     = 500
	insertTimeout      = 5 * time.Second
)

const schema = `
CREATE TABLE IF NOT EXISTS access_log (
	id          uuid PRIMARY KEY,
	served_at   timestamptz NOT NULL,
	method      text NOT NULL,
	path        text NOT NULL,
	status      integer NOT NULL,
	bytes       bigint NOT NULL,
	duration_us bigint NOT NULL,
	remote      text NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS access_log_served_at_idx ON access_log (served_at DESC);
`

// AccessLog persists access events in Postgres.
type AccessLog struct {
	pool *pgxpool.Pool
}

func NewAccessLog(pool *pgxpool.Pool) *AccessLog {
	return &AccessLog{pool: pool}
}

// EnsureSchema creates the access_log table when it does not exist yet.
func (a *AccessLog) EnsureSchema(ctx context.Context) error {
	_, err := a.pool.Exec(ctx, schema)
	return err
}

// Save inserts one event.
func (a *AccessLog) Save(ctx context.Context, ev access.Event) error {
	_, err := a.pool.Exec(ctx, `
	INSERT INTO access_log (id, served_at, method, path, status, bytes, duration_us, remote)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	ON CONFLICT (id) DO NOTHING
	`, ev.ID, ev.Time, ev.Method, ev.Path, ev.Status, ev.Bytes, ev.Duration.Microseconds(), ev.Remote)
	return err
}

// Record implements access.Recorder. Failures are logged and dropped.
func (a *AccessLog) Record(ctx context.Context, ev access.Event) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), insertTimeout)
	defer cancel()
	if err := a.Save(ctx, ev); err != nil {
		log.Printf("store: insert access event id=%s path=%s err=%v", ev.ID, ev.Path, err)
	}
}

// Recent returns the newest events first. limit is clamped to [1, 500] and
// defaults to 50.
func (a *AccessLog) Recent(ctx context.Context, limit int) ([]access.Event, error) {
	limit = ClampLimit(limit)

	rows, err := a.pool.Query(ctx, `
	SELECT id, served_at, method, path, status, bytes, duration_us, remote
	FROM access_log
	ORDER BY served_at DESC
	LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []access.Event{}
	for rows.Next() {
		var ev access.Event
		var durationUS int64
		if err := rows.Scan(&ev.ID, &ev.Time, &ev.Method, &ev.Path, &ev.Status, &ev.Bytes, &durationUS, &ev.Remote); err != nil {
			return nil, err
		}
		ev.Duration = time.Duration(durationUS) * time.Microsecond
		out = append(out, ev)
	}
	return out, rows.Err()
}

func ClampLimit(limit int) int {
	if limit <= 0 {
		return defaultRecentLimit
	}
	if limit > maxRecentLimit {
		return maxRecentLimit
	}
	return limit
}
