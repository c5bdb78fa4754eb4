package db

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/vvka-141/savemigrate/pkg/savemigrate"
)

// sqliteBusyTimeout makes a writer wait for a competing writer instead of
// failing with SQLITE_BUSY.
const sqliteBusyTimeout = "_pragma=busy_timeout(5000)"

// mysqlUTC is the session time_zone matching Loc = time.UTC. TIMESTAMP
// columns convert through the session zone on both write and read.
const mysqlUTC = "'+00:00'"

// MySQLConfig builds the go-sql-driver configuration for config.
// An explicit DSN wins over granular fields. parseTime is always enabled so
// last_updated scans into time.Time, and times are exchanged in UTC on both
// the client and the session side. Other DSN parameters are kept.
func MySQLConfig(config *savemigrate.ConnectionConfig) (*mysql.Config, error) {
	var mcfg *mysql.Config
	if config.DSN != "" {
		parsed, err := mysql.ParseDSN(config.DSN)
		if err != nil {
			return nil, fmt.Errorf("invalid MySQL DSN: %w: %w", savemigrate.ErrInvalidConfig, err)
		}
		mcfg = parsed
	} else {
		mcfg = mysql.NewConfig()
		mcfg.User = config.Username
		mcfg.Passwd = config.Password
		mcfg.Net = "tcp"
		port := config.Port
		if port == 0 {
			port = 3306
		}
		host := config.Host
		if host == "" {
			host = "localhost"
		}
		mcfg.Addr = host + ":" + strconv.Itoa(port)
		mcfg.DBName = config.Database
		if config.ConnectTimeout > 0 {
			mcfg.Timeout = config.ConnectTimeout
		}
		if tls := mysqlTLSMode(config.SSLMode); tls != "" {
			mcfg.TLSConfig = tls
		}
	}

	mcfg.ParseTime = true
	mcfg.Loc = time.UTC
	if mcfg.Params == nil {
		mcfg.Params = make(map[string]string)
	}
	mcfg.Params["time_zone"] = mysqlUTC
	return mcfg, nil
}

// mysqlTLSMode maps libpq sslmode names onto go-sql-driver tls values.
func mysqlTLSMode(sslmode string) string {
	switch strings.ToLower(sslmode) {
	case "disable":
		return "false"
	case "allow", "prefer":
		return "preferred"
	case "require":
		return "skip-verify"
	case "verify-ca", "verify-full":
		return "true"
	}
	return ""
}

// SQLiteDSN returns the modernc.org/sqlite data source name for config.
// A bare database path is accepted in place of a DSN.
func SQLiteDSN(config *savemigrate.ConnectionConfig) (string, error) {
	dsn := config.DSN
	if dsn == "" {
		dsn = config.Database
	}
	if dsn == "" {
		return "", fmt.Errorf("SQLite requires a database file (--connection sqlite://path or connection.dsn): %w", savemigrate.ErrInvalidConfig)
	}
	if dsn == ":memory:" || strings.Contains(dsn, "busy_timeout") {
		return dsn, nil
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + sqliteBusyTimeout, nil
}
