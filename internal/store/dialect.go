package store

import (
	"fmt"
	"strings"
	"time"

	"github.com/vvka-141/savemigrate/pkg/savemigrate"
)

// dialect holds the statements that differ between database/sql drivers.
type dialect struct {
	name        savemigrate.Driver
	quote       func(ident string) string
	createTable string // %[1]s table, %[2]d username length
	upsert      string // %s table
	selectOne   string // %s table
	list        string // %s table
	bindTime    func(t time.Time) any
}

// sqliteTimeLayout sorts lexically and is parsed back by modernc.org/sqlite
// for TIMESTAMP columns.
const sqliteTimeLayout = "2006-01-02 15:04:05.999999999"

var mysqlDialect = dialect{
	name:  savemigrate.DriverMySQL,
	quote: func(ident string) string { return "`" + strings.ReplaceAll(ident, "`", "``") + "`" },
	createTable: `CREATE TABLE IF NOT EXISTS %[1]s (
    id INT AUTO_INCREMENT PRIMARY KEY,
    username VARCHAR(%[2]d) UNIQUE NOT NULL,
    save_data LONGBLOB NOT NULL,
    last_updated TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
)`,
	upsert: `INSERT INTO %s (username, save_data, last_updated)
VALUES (?, ?, ?)
ON DUPLICATE KEY UPDATE save_data = VALUES(save_data), last_updated = VALUES(last_updated)`,
	selectOne: `SELECT id, username, save_data, last_updated FROM %s WHERE username = ?`,
	list:      `SELECT id, username, LENGTH(save_data), last_updated FROM %s ORDER BY username`,
	bindTime:  func(t time.Time) any { return t.UTC() },
}

var sqliteDialect = dialect{
	name:  savemigrate.DriverSQLite,
	quote: func(ident string) string { return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"` },
	createTable: `CREATE TABLE IF NOT EXISTS %[1]s (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    username VARCHAR(%[2]d) NOT NULL UNIQUE,
    save_data BLOB NOT NULL,
    last_updated TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`,
	upsert: `INSERT INTO %s (username, save_data, last_updated)
VALUES (?, ?, ?)
ON CONFLICT (username) DO UPDATE
SET save_data = excluded.save_data, last_updated = excluded.last_updated`,
	selectOne: `SELECT id, username, save_data, last_updated FROM %s WHERE username = ?`,
	list:      `SELECT id, username, LENGTH(save_data), last_updated FROM %s ORDER BY username`,
	bindTime:  func(t time.Time) any { return t.UTC().Format(sqliteTimeLayout) },
}

// timeLayouts are tried, in order, when a driver hands back a timestamp as text.
var timeLayouts = []string{
	sqliteTimeLayout,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02T15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05",
	time.RFC3339Nano,
}

// timestamp scans last_updated whether the driver returns time.Time or text.
type timestamp struct {
	t *time.Time
}

func (ts timestamp) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		*ts.t = v.UTC()
		return nil
	case string:
		return ts.parse(v)
	case []byte:
		return ts.parse(string(v))
	case int64:
		*ts.t = time.Unix(v, 0).UTC()
		return nil
	case nil:
		*ts.t = time.Time{}
		return nil
	}
	return fmt.Errorf("cannot scan %T into timestamp", src)
}

func (ts timestamp) parse(s string) error {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			*ts.t = t.UTC()
			return nil
		}
	}
	return fmt.Errorf("unrecognised timestamp %q", s)
}
