//go:build integration

package postgres_test

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2beens/calisthenics/internal/store"
	"github.com/2beens/calisthenics/internal/store/postgres"
	"github.com/2beens/calisthenics/internal/store/storetest"
)

var (
	testPool *pgxpool.Pool
	testDSN  string
)

func TestMain(m *testing.M) {
	dockerPool, err := dockertest.NewPool("")
	if err != nil {
		log.Fatalf("could not create new dockertest pool: %s", err)
	}
	if err := dockerPool.Client.Ping(); err != nil {
		log.Fatalf("could not ping dockertest pool: %s", err)
	}

	pgResource, err := dockerPool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16",
		Env: []string{
			"POSTGRES_USER=postgres",
			"POSTGRES_DB=calisthenics",
			"POSTGRES_HOST_AUTH_METHOD=trust",
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{
			Name: "no",
		}
	})
	if err != nil {
		log.Fatalf("dockerpool run postgres: %s", err)
	}

	ctx := context.Background()
	testDSN = fmt.Sprintf(
		"postgres://postgres@localhost:%s/calisthenics?sslmode=disable",
		pgResource.GetPort("5432/tcp"),
	)
	testPool, err = pgxpool.New(ctx, testDSN)
	if err != nil {
		log.Fatalf("create connection pool: %s", err)
	}
	if err := dockerPool.Retry(func() error {
		return testPool.Ping(ctx)
	}); err != nil {
		log.Fatalf("connect to db: %s", err)
	}
	if err := postgres.New(testPool).Migrate(ctx); err != nil {
		log.Fatalf("migrate: %s", err)
	}

	code := m.Run()

	testPool.Close()
	if err := pgResource.Close(); err != nil {
		fmt.Printf("postgres teardown: %s\n", err)
	}
	os.Exit(code)
}

func TestStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store {
		s := postgres.New(testPool)
		require.NoError(t, s.Reset(context.Background()))
		return s
	})
}

func TestStore_MigrateTwice(t *testing.T) {
	require.NoError(t, postgres.New(testPool).Migrate(context.Background()))
}

// Rows written through pgx must be readable by any other postgres client.
func TestStore_RawRows(t *testing.T) {
	ctx := context.Background()
	s := postgres.New(testPool)
	require.NoError(t, s.Reset(ctx))

	_, err := s.Logs().Append(ctx, storetest.Log("raw-1", "2024-05-06", "squat", 0))
	require.NoError(t, err)

	db, err := sql.Open("postgres", testDSN)
	require.NoError(t, err)
	defer db.Close()

	var (
		date string
		key  string
	)
	require.NoError(t, db.QueryRowContext(
		ctx,
		`SELECT to_char(date, 'YYYY-MM-DD'), exercise_key FROM workout_log WHERE id = $1`,
		"raw-1",
	).Scan(&date, &key))
	assert.Equal(t, "2024-05-06", date)
	assert.Equal(t, "squat", key)
}
