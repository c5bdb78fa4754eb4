//go:build conntest

package conntest

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vvka-141/savemigrate/internal/db"
	"github.com/vvka-141/savemigrate/internal/logging"
	"github.com/vvka-141/savemigrate/internal/testinfra"
	"github.com/vvka-141/savemigrate/pkg/savemigrate"
)

var (
	stdContainer  *testinfra.PostgresContainer
	mtlsContainer *testinfra.PostgresContainer
	certPaths     *testinfra.CertPaths
)

func TestMain(m *testing.M) {
	ctx := context.Background()

	bundle, err := testinfra.GenerateCertBundle([]string{"localhost", "127.0.0.1"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "generate certs: %v\n", err)
		os.Exit(1)
	}

	dir, err := os.MkdirTemp("", "savemigrate-conntest-*")
	if err != nil {
		fmt.Fprintf(os.Stderr, "create temp dir: %v\n", err)
		os.Exit(1)
	}

	paths, err := bundle.WriteToDir(dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "write certs: %v\n", err)
		os.Exit(1)
	}
	certPaths = paths

	std, err := testinfra.StartSimplePostgres(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "start postgres: %v\n", err)
		os.Exit(1)
	}
	stdContainer = std

	mtls, err := testinfra.StartMTLSPostgres(ctx, certPaths)
	if err != nil {
		fmt.Fprintf(os.Stderr, "start mTLS postgres: %v\n", err)
		stdContainer.Terminate(ctx) //nolint:errcheck
		os.Exit(1)
	}
	mtlsContainer = mtls

	code := m.Run()

	stdContainer.Terminate(ctx)  //nolint:errcheck
	mtlsContainer.Terminate(ctx) //nolint:errcheck
	os.RemoveAll(dir)
	os.Exit(code)
}

func connectWithConfig(t *testing.T, config *savemigrate.ConnectionConfig) *pgxpool.Pool {
	t.Helper()

	connector, err := db.NewConnector(config, logging.NewNullLogger())
	if err != nil {
		t.Fatalf("create connector: %v", err)
	}

	pool, err := connector.Connect(context.Background())
	if err != nil {
		t.Fatalf("connect: %v", err)
	}

	t.Cleanup(func() { pool.Close() })
	return pool
}

func pingSucceeds(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	if err := pool.Ping(context.Background()); err != nil {
		t.Fatalf("ping failed: %v", err)
	}
}

func currentUser(t *testing.T, pool *pgxpool.Pool) string {
	t.Helper()
	var user string
	if err := pool.QueryRow(context.Background(), "SELECT current_user").Scan(&user); err != nil {
		t.Fatalf("query current_user: %v", err)
	}
	return user
}

func parseStdConnString(t *testing.T) *savemigrate.ConnectionConfig {
	t.Helper()
	config, err := db.ParseConnectionString(stdContainer.ConnString)
	if err != nil {
		t.Fatalf("parse connection string: %v", err)
	}
	return config
}

func parseMTLSConnString(t *testing.T) *savemigrate.ConnectionConfig {
	t.Helper()
	config, err := db.ParseConnectionString(mtlsContainer.ConnString)
	if err != nil {
		t.Fatalf("parse mTLS connection string: %v", err)
	}
	return config
}
