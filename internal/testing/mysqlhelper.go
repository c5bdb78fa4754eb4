package testing

import (
	"context"
	"os"
	"sync"
	"testing"

	"github.com/vvka-141/savemigrate/internal/testinfra"
)

// MySQLDSNEnvVar names the environment variable that points MySQL
// integration tests at an existing server instead of a container.
const MySQLDSNEnvVar = "SAVEMIGRATE_TEST_MYSQL_DSN"

var (
	mysqlContainerOnce sync.Once
	mysqlContainerDSN  string
	mysqlContainerErr  error
)

func getOrStartMySQLContainer() (string, error) {
	mysqlContainerOnce.Do(func() {
		container, err := testinfra.StartMySQL(context.Background())
		if err != nil {
			mysqlContainerErr = err
			return
		}
		mysqlContainerDSN = container.DSN
	})
	return mysqlContainerDSN, mysqlContainerErr
}

// RequireMySQL returns a go-sql-driver DSN for a MySQL test server.
// Priority: SAVEMIGRATE_TEST_MYSQL_DSN env var > auto-started testcontainer > skip test.
func RequireMySQL(t *testing.T) string {
	t.Helper()

	SkipIfShort(t)
	if dsn := os.Getenv(MySQLDSNEnvVar); dsn != "" {
		return dsn
	}

	dsn, err := getOrStartMySQLContainer()
	if err != nil {
		t.Skipf("%s not set and Docker unavailable: %v", MySQLDSNEnvVar, err)
	}
	return dsn
}
