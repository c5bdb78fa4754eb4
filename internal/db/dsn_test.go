package db

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/savemigrate/pkg/savemigrate"
)

func TestMySQLConfig_FromDSN(t *testing.T) {
	mcfg, err := MySQLConfig(&savemigrate.ConnectionConfig{DSN: "game:pw@tcp(db:3306)/gamedb"})
	require.NoError(t, err)

	assert.Equal(t, "game", mcfg.User)
	assert.Equal(t, "pw", mcfg.Passwd)
	assert.Equal(t, "db:3306", mcfg.Addr)
	assert.Equal(t, "gamedb", mcfg.DBName)
	assert.True(t, mcfg.ParseTime, "parseTime is forced so last_updated scans into time.Time")
	assert.Equal(t, time.UTC, mcfg.Loc)
}

func TestMySQLConfig_FromGranularFields(t *testing.T) {
	mcfg, err := MySQLConfig(&savemigrate.ConnectionConfig{
		Driver:         savemigrate.DriverMySQL,
		Host:           "mysql.internal",
		Username:       "game",
		Password:       "pw",
		Database:       "gamedb",
		SSLMode:        "verify-full",
		ConnectTimeout: 3 * time.Second,
	})
	require.NoError(t, err)

	assert.Equal(t, "tcp", mcfg.Net)
	assert.Equal(t, "mysql.internal:3306", mcfg.Addr)
	assert.Equal(t, "gamedb", mcfg.DBName)
	assert.Equal(t, "true", mcfg.TLSConfig)
	assert.Equal(t, 3*time.Second, mcfg.Timeout)
	assert.Contains(t, mcfg.FormatDSN(), "parseTime=true")
}

func TestMySQLConfig_SessionTimeZoneIsUTC(t *testing.T) {
	mcfg, err := MySQLConfig(&savemigrate.ConnectionConfig{Driver: savemigrate.DriverMySQL, Host: "db"})
	require.NoError(t, err)
	assert.Equal(t, "'+00:00'", mcfg.Params["time_zone"])
}

func TestMySQLConfig_SessionTimeZoneMergesDSNParams(t *testing.T) {
	mcfg, err := MySQLConfig(&savemigrate.ConnectionConfig{
		DSN: "game:pw@tcp(db:3306)/gamedb?sql_mode=%27STRICT_ALL_TABLES%27&time_zone=%27Europe%2FBerlin%27",
	})
	require.NoError(t, err)

	assert.Equal(t, "'STRICT_ALL_TABLES'", mcfg.Params["sql_mode"])
	assert.Equal(t, "'+00:00'", mcfg.Params["time_zone"], "session zone must agree with Loc")
	assert.Equal(t, time.UTC, mcfg.Loc)
}

func TestMySQLConfig_InvalidDSN(t *testing.T) {
	_, err := MySQLConfig(&savemigrate.ConnectionConfig{DSN: "game@tcp(db:3306"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, savemigrate.ErrInvalidConfig))
}

func TestMySQLTLSMode(t *testing.T) {
	assert.Equal(t, "false", mysqlTLSMode("disable"))
	assert.Equal(t, "preferred", mysqlTLSMode("prefer"))
	assert.Equal(t, "skip-verify", mysqlTLSMode("require"))
	assert.Equal(t, "true", mysqlTLSMode("verify-ca"))
	assert.Equal(t, "", mysqlTLSMode(""))
}

func TestSQLiteDSN(t *testing.T) {
	tests := []struct {
		name string
		cfg  savemigrate.ConnectionConfig
		want string
	}{
		{"path", savemigrate.ConnectionConfig{DSN: "saves.db"}, "saves.db?_pragma=busy_timeout(5000)"},
		{"database only", savemigrate.ConnectionConfig{Database: "saves.db"}, "saves.db?_pragma=busy_timeout(5000)"},
		{"existing query", savemigrate.ConnectionConfig{DSN: "file:saves.db?mode=rwc"}, "file:saves.db?mode=rwc&_pragma=busy_timeout(5000)"},
		{"memory", savemigrate.ConnectionConfig{DSN: ":memory:"}, ":memory:"},
		{"explicit busy timeout", savemigrate.ConnectionConfig{DSN: "saves.db?_pragma=busy_timeout(100)"}, "saves.db?_pragma=busy_timeout(100)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SQLiteDSN(&tt.cfg)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := SQLiteDSN(&savemigrate.ConnectionConfig{})
	assert.True(t, errors.Is(err, savemigrate.ErrInvalidConfig))
}
