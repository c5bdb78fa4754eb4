package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vvka-141/savemigrate/internal/retry"
	"github.com/vvka-141/savemigrate/pkg/savemigrate"
)

// Connection pool configuration constants
const (
	// DefaultMaxConns is small: a migration run issues one statement at a time.
	DefaultMaxConns = 2

	// DefaultMinConns maintains at least one connection in the pool.
	DefaultMinConns = 1

	// DefaultMaxConnIdleTime keeps connections alive across large directories.
	DefaultMaxConnIdleTime = 30 * time.Minute
)

func configurePool(poolConfig *pgxpool.Config, logger savemigrate.Logger) {
	poolConfig.MaxConns = DefaultMaxConns
	poolConfig.MinConns = DefaultMinConns
	poolConfig.MaxConnIdleTime = DefaultMaxConnIdleTime
	poolConfig.ConnConfig.OnNotice = func(_ *pgconn.PgConn, notice *pgconn.Notice) {
		logger.Verbose("postgres %s: %s", strings.ToLower(notice.Severity), notice.Message)
	}
}

// newConnectExecutor builds the retry executor shared by every connector.
// Retries are logged at verbose level.
func newConnectExecutor(logger savemigrate.Logger) *retry.Executor {
	strategy := retry.NewExponentialBackoff(savemigrate.DefaultRetryMaxAttempts,
		retry.WithInitialDelay(savemigrate.DefaultRetryInitialDelay),
		retry.WithMaxDelay(savemigrate.DefaultRetryMaxDelay),
	)
	return retry.NewExecutor(retry.NewDatabaseErrorClassifier(), strategy).
		WithOnRetry(func(attempt int, err error, delay time.Duration) {
			logger.Verbose("connection attempt %d failed, retrying in %v: %v", attempt+1, delay.Round(time.Millisecond), err)
		})
}

// StandardConnector implements the Connector interface for
// username/password and certificate authentication with automatic retry on
// transient failures.
type StandardConnector struct {
	config        *savemigrate.ConnectionConfig
	logger        savemigrate.Logger
	retryExecutor *retry.Executor
}

// NewStandardConnector creates a new StandardConnector with the given configuration.
func NewStandardConnector(config *savemigrate.ConnectionConfig, logger savemigrate.Logger) *StandardConnector {
	return &StandardConnector{
		config:        config,
		logger:        logger,
		retryExecutor: newConnectExecutor(logger),
	}
}

// Connect establishes a connection pool and pings it.
func (c *StandardConnector) Connect(ctx context.Context) (*pgxpool.Pool, error) {
	var pool *pgxpool.Pool
	connStr := BuildConnectionString(c.config)

	err := c.retryExecutor.Execute(ctx, func(ctx context.Context) error {
		poolConfig, err := pgxpool.ParseConfig(connStr)
		if err != nil {
			return fmt.Errorf("failed to parse connection config: %w", err)
		}

		configurePool(poolConfig, c.logger)

		pool, err = pgxpool.NewWithConfig(ctx, poolConfig)
		if err != nil {
			return wrapConnectionError(err, c.config.Host, c.config.Port, c.config.Database)
		}

		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return wrapConnectionError(err, c.config.Host, c.config.Port, c.config.Database)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return pool, nil
}

// NewConnector is a factory function that creates the appropriate PostgreSQL
// Connector based on the ConnectionConfig's AuthMethod.
func NewConnector(config *savemigrate.ConnectionConfig, logger savemigrate.Logger) (savemigrate.Connector, error) {
	switch config.AuthMethod {
	case savemigrate.AuthMethodStandard, savemigrate.AuthMethodCertificate:
		return NewStandardConnector(config, logger), nil
	case savemigrate.AuthMethodAWSIAM:
		return newAWSConnector(config, logger)
	case savemigrate.AuthMethodGoogleIAM:
		return newGoogleConnector(config, logger)
	case savemigrate.AuthMethodAzureEntraID:
		return newAzureConnector(config, logger)
	default:
		return nil, fmt.Errorf("unsupported auth method %v: %w", config.AuthMethod, savemigrate.ErrUnsupportedAuthMethod)
	}
}

// wrapConnectionError wraps raw connection errors with actionable guidance.
// The result always wraps savemigrate.ErrConnectionFailed.
func wrapConnectionError(err error, host string, port int, database string) error {
	errStr := strings.ToLower(err.Error())
	addr := fmt.Sprintf("%s:%d", host, port)

	var hint string
	switch {
	case strings.Contains(errStr, "connection refused") || strings.Contains(errStr, "actively refused"):
		hint = fmt.Sprintf(`connection refused to %s

Possible causes:
  - The database server is not running
  - Wrong host or port
  - Firewall blocking the connection`, addr)

	case strings.Contains(errStr, "no such host") || strings.Contains(errStr, "no host"):
		hint = fmt.Sprintf(`cannot resolve host "%s"

Possible causes:
  - Hostname is misspelled
  - DNS is not configured or reachable`, host)

	case strings.Contains(errStr, "password authentication failed") || strings.Contains(errStr, "access denied"):
		hint = fmt.Sprintf(`authentication failed for database "%s"

Possible causes:
  - Wrong password (check $PGPASSWORD, ~/.pgpass or the connection string)
  - Wrong username
  - User does not have access to the database`, database)

	case strings.Contains(errStr, "does not exist") || strings.Contains(errStr, "unknown database"):
		hint = fmt.Sprintf(`database "%s" does not exist

savemigrate creates the save table, not the database. Create the database first.`, database)

	case strings.Contains(errStr, "timeout") || strings.Contains(errStr, "timed out"):
		hint = fmt.Sprintf(`connection timed out to %s

Possible causes:
  - Server is overloaded or unresponsive
  - Firewall silently dropping packets`, addr)

	case strings.Contains(errStr, "ssl") || strings.Contains(errStr, "tls"):
		hint = `SSL/TLS connection error

Possible causes:
  - Server requires SSL but --sslmode is wrong
  - Certificate verification failed (try --sslmode=require)
  - Client certificates missing (check --sslcert, --sslkey)`

	default:
		return fmt.Errorf("%w: %w", savemigrate.ErrConnectionFailed, err)
	}

	return fmt.Errorf("%w: %s\n\nOriginal error: %w", savemigrate.ErrConnectionFailed, hint, err)
}

func newAWSConnector(config *savemigrate.ConnectionConfig, logger savemigrate.Logger) (savemigrate.Connector, error) {
	endpoint := fmt.Sprintf("%s:%d", config.Host, config.Port)

	tokenProvider, err := NewAWSIAMTokenProvider(endpoint, config.AWSRegion, config.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS IAM token provider: %w", err)
	}

	return NewTokenBasedConnector(config, tokenProvider, "AWS IAM", logger), nil
}

func newGoogleConnector(config *savemigrate.ConnectionConfig, logger savemigrate.Logger) (savemigrate.Connector, error) {
	if config.GoogleInstance == "" {
		return nil, fmt.Errorf("Google Cloud SQL IAM auth requires --google-instance (project:region:instance): %w", savemigrate.ErrInvalidConfig)
	}
	if config.Username == "" {
		return nil, fmt.Errorf("Google Cloud SQL IAM auth requires username (-U): %w", savemigrate.ErrInvalidConfig)
	}

	return NewGoogleCloudSQLConnector(config, config.GoogleInstance, logger), nil
}

// newAzureConnector uses Service Principal auth when tenant, client and
// secret are all set, otherwise the DefaultAzureCredential chain.
func newAzureConnector(config *savemigrate.ConnectionConfig, logger savemigrate.Logger) (savemigrate.Connector, error) {
	tokenProvider, err := NewAzureTokenProvider(config.AzureTenantID, config.AzureClientID, config.AzureClientSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to create Azure token provider: %w", err)
	}
	return NewTokenBasedConnector(config, tokenProvider, "Azure", logger), nil
}
