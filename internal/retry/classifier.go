package retry

import (
	"database/sql/driver"
	"errors"
	"net"
	"strings"
	"syscall"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// PostgreSQL error codes for transient conditions.
// See: https://www.postgresql.org/docs/current/errcodes-appendix.html
const (
	pgCodeSerializationFailure = "40001"
	pgCodeDeadlockDetected     = "40P01"
	pgCodeLockNotAvailable     = "55P03"
)

// MySQL server error numbers for transient conditions.
const (
	mysqlTooManyConnections  = 1040
	mysqlHostIsBlocked       = 1129
	mysqlLockWaitTimeout     = 1205
	mysqlDeadlock            = 1213
	mysqlServerShutdown      = 1053
	mysqlConnectionCountHost = 1203
)

// DatabaseErrorClassifier implements ErrorClassifier for all supported drivers.
type DatabaseErrorClassifier struct{}

// NewDatabaseErrorClassifier creates a new classifier.
func NewDatabaseErrorClassifier() *DatabaseErrorClassifier {
	return &DatabaseErrorClassifier{}
}

// IsTransient determines if an error is temporary and retryable.
func (c *DatabaseErrorClassifier) IsTransient(err error) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return isTransientPgError(pgErr)
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return isTransientMySQLError(myErr)
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		return isTransientSQLiteError(liteErr)
	}

	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, mysql.ErrInvalidConn) {
		return true
	}

	if isNetworkError(err) {
		return true
	}

	return isConnectionMessage(err)
}

func isTransientPgError(pgErr *pgconn.PgError) bool {
	code := pgErr.Code

	// Class 08 connection exception, class 53 insufficient resources,
	// class 57 operator intervention.
	for _, class := range []string{"08", "53", "57"} {
		if strings.HasPrefix(code, class) {
			return true
		}
	}

	switch code {
	case pgCodeSerializationFailure, pgCodeDeadlockDetected, pgCodeLockNotAvailable:
		return true
	}
	return false
}

func isTransientMySQLError(myErr *mysql.MySQLError) bool {
	switch myErr.Number {
	case mysqlTooManyConnections, mysqlHostIsBlocked, mysqlLockWaitTimeout,
		mysqlDeadlock, mysqlServerShutdown, mysqlConnectionCountHost:
		return true
	}
	return false
}

func isTransientSQLiteError(liteErr *sqlite.Error) bool {
	// Extended result codes carry the primary code in the low byte.
	switch liteErr.Code() & 0xff {
	case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED:
		return true
	}
	return false
}

func isNetworkError(err error) bool {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return dnsErr.Temporary() || dnsErr.Timeout()
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		if opErr.Timeout() {
			return true
		}
		if opErr.Err != nil {
			for _, errno := range []syscall.Errno{syscall.ECONNREFUSED, syscall.ECONNRESET, syscall.ENETUNREACH, syscall.EHOSTUNREACH} {
				if errors.Is(opErr.Err, errno) {
					return true
				}
			}
		}
	}

	return false
}

var transientPatterns = []string{
	"connection refused",
	"connection reset",
	"connection timeout",
	"connection failure",
	"no such host",
	"network is unreachable",
	"i/o timeout",
	"broken pipe",
	"too many connections",
	"server closed the connection",
	"unexpected eof",
	"database is locked",
}

func isConnectionMessage(err error) bool {
	msg := strings.ToLower(err.Error())
	for _, pattern := range transientPatterns {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}
