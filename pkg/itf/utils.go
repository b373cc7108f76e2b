package itf

import (
	"context"
	"crypto/sha256"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"github.com/glennajones/gummy-bear/pkg/configuration"
)

const (
	// PostgreSQL database name maximum length is 63 characters
	maxDBNameLength = 63
	// Reserve space for hash suffix when truncating (8 chars + underscore)
	hashSuffixLength = 9
)

// IsCI reports whether tests run under CI, where a missing database is a
// failure instead of a skip.
func IsCI() bool {
	return strings.TrimSpace(os.Getenv("CI")) != "" ||
		strings.EqualFold(strings.TrimSpace(os.Getenv("GITHUB_ACTIONS")), "true")
}

// CreateDB drops and recreates a database named after the test. It skips the
// test when postgres is not reachable outside CI.
func CreateDB(tb testing.TB, ctx context.Context, conf *configuration.Configuration, name string) string {
	tb.Helper()

	db := conf.Database
	adminDSN := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/postgres?sslmode=disable",
		db.User, db.Password, db.Host, db.Port,
	)
	adminConn, err := pgx.Connect(ctx, adminDSN)
	if err != nil {
		if IsCI() {
			require.NoError(tb, err)
		}
		tb.Skip("postgres is not reachable; skipping integration test")
	}
	defer func() { _ = adminConn.Close(ctx) }()

	dbName := sanitizeDBName(name)
	_, _ = adminConn.Exec(ctx, "DROP DATABASE IF EXISTS "+dbName)
	_, err = adminConn.Exec(ctx, "CREATE DATABASE "+dbName)
	require.NoError(tb, err)
	return dbName
}

func DbOpts(conf *configuration.Configuration, dbName string) string {
	db := conf.Database
	return fmt.Sprintf(
		"host=%s port=%s user=%s dbname=%s password=%s sslmode=disable",
		db.Host, db.Port, db.User, dbName, db.Password,
	)
}

func NewPool(tb testing.TB, dbOpts string) *pgxpool.Pool {
	tb.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()

	config, err := pgxpool.ParseConfig(dbOpts)
	require.NoError(tb, err)
	config.MaxConns = 4
	config.MinConns = 1
	config.MaxConnLifetime = time.Minute * 5
	config.MaxConnIdleTime = time.Second * 30

	pool, err := pgxpool.NewWithConfig(ctx, config)
	require.NoError(tb, err)
	return pool
}

// sanitizeDBName replaces special characters in database names with underscores
// and ensures the name doesn't exceed PostgreSQL's 63-character limit
func sanitizeDBName(name string) string {
	sanitized := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' {
			return r
		}
		return '_'
	}, "itf_"+strings.ToLower(name))

	for strings.Contains(sanitized, "__") {
		sanitized = strings.ReplaceAll(sanitized, "__", "_")
	}
	sanitized = strings.Trim(sanitized, "_")

	if len(sanitized) <= maxDBNameLength {
		return sanitized
	}
	return truncateWithHash(sanitized, name)
}

// truncateWithHash keeps a prefix of the name and appends a short hash of the
// original for uniqueness.
func truncateWithHash(sanitized, original string) string {
	sum := sha256.Sum256([]byte(original))
	hash := fmt.Sprintf("%x", sum)[:8]
	return fmt.Sprintf("%s_%s", strings.TrimRight(sanitized[:maxDBNameLength-hashSuffixLength], "_"), hash)
}
