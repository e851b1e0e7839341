//go:build integration

package containers

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// schema mirrors what the Postgres stores expect. Kept here rather than in
// migration files so integration tests stay self-contained.
const schema = `
CREATE TABLE IF NOT EXISTS users (
	id            TEXT PRIMARY KEY,
	name          TEXT NOT NULL,
	email         TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	role          TEXT NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS forms (
	id          TEXT PRIMARY KEY,
	owner_id    TEXT NOT NULL,
	title       TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	view_count  BIGINT NOT NULL DEFAULT 0,
	created_at  TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS questions (
	id        TEXT PRIMARY KEY,
	form_id   TEXT NOT NULL REFERENCES forms(id),
	position  INTEGER NOT NULL DEFAULT 0,
	type      TEXT NOT NULL,
	question  TEXT NOT NULL,
	required  BOOLEAN NOT NULL DEFAULT FALSE,
	options   TEXT[],
	min_value INTEGER,
	max_value INTEGER
);

CREATE TABLE IF NOT EXISTS responses (
	id            TEXT PRIMARY KEY,
	form_id       TEXT NOT NULL REFERENCES forms(id),
	user_id       TEXT NOT NULL,
	response_data JSONB,
	content       TEXT,
	submitted_at  TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS form_views (
	id         TEXT PRIMARY KEY,
	form_id    TEXT NOT NULL,
	user_id    TEXT,
	ip_address TEXT,
	viewed_at  TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_form_views_user
	ON form_views (form_id, user_id, viewed_at DESC)
	WHERE user_id IS NOT NULL;
CREATE INDEX IF NOT EXISTS idx_form_views_ip
	ON form_views (form_id, ip_address, viewed_at DESC)
	WHERE user_id IS NULL;

CREATE TABLE IF NOT EXISTS form_activities (
	id                   TEXT PRIMARY KEY,
	form_id              TEXT NOT NULL,
	user_id              TEXT,
	activity_type        TEXT NOT NULL,
	activity_description TEXT,
	ip_address           TEXT,
	created_at           TIMESTAMPTZ NOT NULL
);
`

// PostgresContainer wraps a testcontainers Postgres instance with the
// application schema applied.
type PostgresContainer struct {
	Container testcontainers.Container
	DSN       string
	DB        *sql.DB
}

// NewPostgresContainer starts a Postgres container, applies the schema, and
// opens a database/sql handle. The container is terminated when the test
// finishes.
func NewPostgresContainer(t *testing.T) *PostgresContainer {
	t.Helper()

	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("dynaform_test"),
		tcpostgres.WithUsername("dynaform"),
		tcpostgres.WithPassword("dynaform"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute),
		),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get postgres connection string: %v", err)
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		t.Fatalf("failed to open postgres connection: %v", err)
	}
	if err := db.PingContext(ctx); err != nil {
		t.Fatalf("failed to ping postgres: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if _, err := db.ExecContext(ctx, schema); err != nil {
		t.Fatalf("failed to apply schema: %v", err)
	}

	return &PostgresContainer{
		Container: container,
		DSN:       dsn,
		DB:        db,
	}
}

// Truncate empties the given tables. Use between tests to ensure isolation.
func (p *PostgresContainer) Truncate(ctx context.Context, tables ...string) error {
	for _, table := range tables {
		if _, err := p.DB.ExecContext(ctx, "TRUNCATE TABLE "+table+" CASCADE"); err != nil {
			return err
		}
	}
	return nil
}
