package testinfra

import (
	"context"
	"fmt"

	"github.com/testcontainers/testcontainers-go/modules/mysql"
)

const (
	MySQLImage    = "mysql:8.4"
	MySQLUser     = "game"
	MySQLPassword = "game"
	MySQLDB       = "saves"
)

// MySQLContainer is a running MySQL server plus the go-sql-driver DSN tests use.
type MySQLContainer struct {
	*mysql.MySQLContainer
	DSN string
}

// StartMySQL starts a server with an empty MySQLDB owned by MySQLUser.
func StartMySQL(ctx context.Context) (*MySQLContainer, error) {
	ctr, err := mysql.Run(ctx, MySQLImage,
		mysql.WithDatabase(MySQLDB),
		mysql.WithUsername(MySQLUser),
		mysql.WithPassword(MySQLPassword),
	)
	if err != nil {
		return nil, fmt.Errorf("start mysql: %w", err)
	}

	dsn, err := ctr.ConnectionString(ctx)
	if err != nil {
		ctr.Terminate(ctx) //nolint:errcheck
		return nil, fmt.Errorf("get mysql dsn: %w", err)
	}

	return &MySQLContainer{MySQLContainer: ctr, DSN: dsn}, nil
}
