package db

import (
	"context"
	"time"
)

// TokenProvider abstracts cloud token acquisition for database authentication.
type TokenProvider interface {
	// GetToken acquires a token that is used as the database password.
	// Returns the token string and its expiry time.
	GetToken(ctx context.Context) (token string, expiresOn time.Time, err error)

	// String returns a human-readable description for logging.
	// Must NOT include secrets.
	String() string
}

// AzureOSSRDBMSScope is the Entra ID scope shared by Azure Database for
// PostgreSQL and Azure Database for MySQL.
const AzureOSSRDBMSScope = "https://ossrdbms-aad.database.windows.net/.default"
