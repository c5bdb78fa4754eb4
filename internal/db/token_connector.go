package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vvka-141/savemigrate/internal/retry"
	"github.com/vvka-141/savemigrate/pkg/savemigrate"
)

// tokenExpiryWarning is how close to expiry a fresh token must be before a warning is logged.
const tokenExpiryWarning = 5 * time.Minute

// TokenBasedConnector implements the Connector interface for cloud providers
// that authenticate via short-lived tokens (AWS IAM, Azure Entra ID).
// The token is acquired from a TokenProvider and used as the PostgreSQL password.
type TokenBasedConnector struct {
	config        *savemigrate.ConnectionConfig
	tokenProvider TokenProvider
	retryExecutor *retry.Executor
	providerName  string
	logger        savemigrate.Logger
}

// NewTokenBasedConnector creates a connector that uses a TokenProvider for authentication.
// providerName is used in error/warning messages (e.g., "AWS IAM", "Azure").
func NewTokenBasedConnector(config *savemigrate.ConnectionConfig, tokenProvider TokenProvider, providerName string, logger savemigrate.Logger) *TokenBasedConnector {
	return &TokenBasedConnector{
		config:        config,
		tokenProvider: tokenProvider,
		retryExecutor: newConnectExecutor(logger),
		providerName:  providerName,
		logger:        logger,
	}
}

// Connect acquires a fresh token for every attempt.
func (c *TokenBasedConnector) Connect(ctx context.Context) (*pgxpool.Pool, error) {
	var pool *pgxpool.Pool

	err := c.retryExecutor.Execute(ctx, func(ctx context.Context) error {
		token, err := acquireToken(ctx, c.tokenProvider, c.providerName, c.logger)
		if err != nil {
			return err
		}

		configWithToken := *c.config
		configWithToken.Password = token

		poolConfig, err := pgxpool.ParseConfig(BuildConnectionString(&configWithToken))
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

func acquireToken(ctx context.Context, provider TokenProvider, providerName string, logger savemigrate.Logger) (string, error) {
	token, expiresOn, err := provider.GetToken(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to acquire %s token: %w", providerName, err)
	}

	logger.Verbose("acquired token from %s", provider)
	if remaining := time.Until(expiresOn); remaining < tokenExpiryWarning {
		logger.Info("Warning: %s token expires in %v", providerName, remaining.Round(time.Second))
	}
	return token, nil
}
