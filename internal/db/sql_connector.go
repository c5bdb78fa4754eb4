package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"

	"github.com/vvka-141/savemigrate/internal/retry"
	"github.com/vvka-141/savemigrate/pkg/savemigrate"
)

// SQLConnector opens database/sql handles for the MySQL and SQLite drivers,
// retrying transient failures the same way the PostgreSQL connectors do.
type SQLConnector struct {
	config        *savemigrate.ConnectionConfig
	logger        savemigrate.Logger
	retryExecutor *retry.Executor
	tokenProvider TokenProvider
	providerName  string
}

// NewSQLConnector creates a connector for a MySQL or SQLite config.
// MySQL accepts AWS RDS IAM and Azure Entra ID tokens in place of a
// password. Google Cloud SQL IAM is PostgreSQL-only.
func NewSQLConnector(config *savemigrate.ConnectionConfig, logger savemigrate.Logger) (*SQLConnector, error) {
	c := &SQLConnector{
		config:        config,
		logger:        logger,
		retryExecutor: newConnectExecutor(logger),
	}

	switch config.Driver {
	case savemigrate.DriverMySQL:
		switch config.AuthMethod {
		case savemigrate.AuthMethodStandard, savemigrate.AuthMethodCertificate:
		case savemigrate.AuthMethodAWSIAM:
			mcfg, err := MySQLConfig(config)
			if err != nil {
				return nil, err
			}
			provider, err := NewAWSIAMTokenProvider(mcfg.Addr, config.AWSRegion, mcfg.User)
			if err != nil {
				return nil, fmt.Errorf("failed to create AWS IAM token provider: %w", err)
			}
			c.tokenProvider, c.providerName = provider, "AWS IAM"
		case savemigrate.AuthMethodAzureEntraID:
			provider, err := NewAzureTokenProvider(config.AzureTenantID, config.AzureClientID, config.AzureClientSecret)
			if err != nil {
				return nil, fmt.Errorf("failed to create Azure token provider: %w", err)
			}
			c.tokenProvider, c.providerName = provider, "Azure"
		default:
			return nil, fmt.Errorf("%v is not available for MySQL: %w", config.AuthMethod, savemigrate.ErrUnsupportedAuthMethod)
		}
	case savemigrate.DriverSQLite:
		if config.AuthMethod != savemigrate.AuthMethodStandard {
			return nil, fmt.Errorf("%v is not available for SQLite: %w", config.AuthMethod, savemigrate.ErrUnsupportedAuthMethod)
		}
	default:
		return nil, fmt.Errorf("SQLConnector cannot open %q: %w", config.Driver, savemigrate.ErrUnsupportedDriver)
	}

	return c, nil
}

// Connect opens the handle and pings it.
func (c *SQLConnector) Connect(ctx context.Context) (*sql.DB, error) {
	var db *sql.DB

	err := c.retryExecutor.Execute(ctx, func(ctx context.Context) error {
		var err error
		db, err = c.open(ctx)
		if err != nil {
			return err
		}
		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return c.wrap(err)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return db, nil
}

func (c *SQLConnector) open(ctx context.Context) (*sql.DB, error) {
	if c.config.Driver == savemigrate.DriverSQLite {
		dsn, err := SQLiteDSN(c.config)
		if err != nil {
			return nil, err
		}
		db, err := sql.Open("sqlite", dsn)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		// One connection serializes writers and keeps :memory: databases alive.
		db.SetMaxOpenConns(1)
		return db, nil
	}

	mcfg, err := c.mysqlConfig(ctx)
	if err != nil {
		return nil, err
	}

	connector, err := mysql.NewConnector(mcfg)
	if err != nil {
		return nil, fmt.Errorf("invalid MySQL configuration: %w", err)
	}
	db := sql.OpenDB(connector)
	db.SetMaxOpenConns(DefaultMaxConns)
	db.SetMaxIdleConns(DefaultMinConns)
	db.SetConnMaxIdleTime(DefaultMaxConnIdleTime)
	return db, nil
}

// mysqlConfig resolves the driver config, replacing the password with a
// fresh cloud token when one is configured. Token logins send the password
// in cleartext, so TLS is forced on.
func (c *SQLConnector) mysqlConfig(ctx context.Context) (*mysql.Config, error) {
	mcfg, err := MySQLConfig(c.config)
	if err != nil {
		return nil, err
	}
	if c.tokenProvider == nil {
		return mcfg, nil
	}

	token, err := acquireToken(ctx, c.tokenProvider, c.providerName, c.logger)
	if err != nil {
		return nil, err
	}
	mcfg.Passwd = token
	mcfg.AllowCleartextPasswords = true
	if mcfg.TLSConfig == "" || mcfg.TLSConfig == "false" || mcfg.TLSConfig == "preferred" {
		mcfg.TLSConfig = "true"
		mcfg.TLS = nil
		mcfg.AllowFallbackToPlaintext = false
	}
	return mcfg, nil
}

func (c *SQLConnector) wrap(err error) error {
	if c.config.Driver == savemigrate.DriverSQLite {
		return fmt.Errorf("%w: sqlite database %s: %w", savemigrate.ErrConnectionFailed, c.config.Database, err)
	}
	return wrapConnectionError(err, c.config.Host, c.config.Port, c.config.Database)
}
