// Package dbtest provides a migrated postgres database per test, backed by a
// docker container.
package dbtest

import (
	"context"
	"fmt"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/hamidoujand/signup/internal/migrate"
	"github.com/hamidoujand/signup/internal/sqldb"
	"github.com/hamidoujand/signup/pkg/docker"
	"github.com/jmoiron/sqlx"
)

func CreateDBContainer(ctx context.Context) (docker.Container, error) {
	c, err := docker.StartContainer(ctx, docker.Spec{
		Image:         "postgres:17",
		Name:          "signuptest",
		Port:          "5432",
		DockerArgs:    []string{"-e", "POSTGRES_PASSWORD=postgres"},
		ContainerArgs: []string{"-c", "log_statement=all"},
	})
	if err != nil {
		return docker.Container{}, fmt.Errorf("startContainer: %w", err)
	}
	return c, nil
}

// New creates a fresh database inside c, migrates it and drops it when t ends.
func New(t *testing.T, c docker.Container) *sqlx.DB {
	t.Helper()

	t.Logf("Name:\t%s\n", c.Name)
	t.Logf("HostPort:\t%s\n", c.HostPort)

	master, err := sqldb.Open(sqldb.Config{
		User:       "postgres",
		Password:   "postgres",
		Host:       c.HostPort,
		Name:       "postgres",
		DisableTLS: true,
	})
	if err != nil {
		t.Fatalf("open conn: %s", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*120)
	defer cancel()

	if err := sqldb.ConnCheck(ctx, master); err != nil {
		t.Fatalf("connCheck: %s", err)
	}

	dbName := randomName()

	t.Logf("creating database: %s\n", dbName)
	if _, err := master.ExecContext(ctx, "CREATE DATABASE "+dbName); err != nil {
		t.Fatalf("execContext: %s", err)
	}

	db, err := sqldb.Open(sqldb.Config{
		User:       "postgres",
		Password:   "postgres",
		Host:       c.HostPort,
		Name:       dbName,
		DisableTLS: true,
	})
	if err != nil {
		t.Fatalf("open:%s:%s", dbName, err)
	}

	t.Logf("running migrations against: %s\n", dbName)
	if err := migrate.Migrate(db, dbName); err != nil {
		t.Logf("logs for: %s\n%s\n", c.Name, docker.DumpContainerLogs(ctx, c.Name))
		t.Fatalf("migration failed: %s", err)
	}

	t.Cleanup(func() {
		_ = db.Close()

		//terminate conn to the client db so we can drop it.
		const q = `SELECT pg_terminate_backend(pid) FROM pg_stat_activity WHERE datname = $1`
		if _, err := master.ExecContext(context.Background(), q, dbName); err != nil {
			t.Errorf("terminating conn for %s: %s", dbName, err)
		}

		t.Logf("Drop Database %s\n", dbName)
		if _, err := master.ExecContext(context.Background(), "DROP DATABASE "+dbName); err != nil {
			t.Errorf("dropping database %s: %s", dbName, err)
		}

		_ = master.Close()
	})

	return db
}

// postgres identifiers are lower case letters here, so no quoting is needed.
func randomName() string {
	const letters = "abcdefghijklmnopqrstuvwxyz"
	bs := make([]byte, 8)
	for i := range bs {
		bs[i] = letters[rand.IntN(len(letters))]
	}
	return string(bs)
}
