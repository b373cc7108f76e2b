package persistence

import (
	"context"
	"hash/fnv"

	gerrors "github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AdvisoryLock is a session-level postgres advisory lock keyed by name. It
// holds a pooled connection for as long as the lock is held.
type AdvisoryLock struct {
	pool *pgxpool.Pool
	key  int64
}

func NewAdvisoryLock(pool *pgxpool.Pool, name string) *AdvisoryLock {
	return &AdvisoryLock{pool: pool, key: advisoryLockKey(name)}
}

// TryLock returns acquired=false without waiting when another session holds
// the lock. release must be called once the caller is done.
func (l *AdvisoryLock) TryLock(ctx context.Context) (release func(), acquired bool, err error) {
	conn, err := l.pool.Acquire(ctx)
	if err != nil {
		return nil, false, gerrors.Wrap(err, "failed to acquire connection for advisory lock")
	}
	var ok bool
	if err := conn.QueryRow(ctx, `SELECT pg_try_advisory_lock($1::bigint)`, l.key).Scan(&ok); err != nil {
		conn.Release()
		return nil, false, gerrors.Wrap(err, "failed to attempt advisory lock")
	}
	if !ok {
		conn.Release()
		return nil, false, nil
	}
	return func() {
		_, _ = conn.Exec(context.Background(), `SELECT pg_advisory_unlock($1::bigint)`, l.key)
		conn.Release()
	}, true, nil
}

func advisoryLockKey(s string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return int64(h.Sum64())
}
