package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/vvka-141/savemigrate/pkg/savemigrate"
)

// SQLStore is the database/sql SaveStore used for MySQL and SQLite.
type SQLStore struct {
	db      *sql.DB
	dialect dialect
	table   string
	ident   string
}

// NewMySQLStore wraps a MySQL handle opened with parseTime=true.
func NewMySQLStore(db *sql.DB, table string) (*SQLStore, error) {
	return newSQLStore(db, mysqlDialect, table)
}

// NewSQLiteStore wraps a modernc.org/sqlite handle.
func NewSQLiteStore(db *sql.DB, table string) (*SQLStore, error) {
	return newSQLStore(db, sqliteDialect, table)
}

func newSQLStore(db *sql.DB, d dialect, table string) (*SQLStore, error) {
	if db == nil {
		panic("db cannot be nil")
	}
	if err := savemigrate.ValidateTableName(table); err != nil {
		return nil, err
	}
	return &SQLStore{
		db:      db,
		dialect: d,
		table:   table,
		ident:   d.quote(table),
	}, nil
}

// Driver reports which engine the store talks to.
func (s *SQLStore) Driver() savemigrate.Driver { return s.dialect.name }

func (s *SQLStore) EnsureSchema(ctx context.Context) error {
	stmt := fmt.Sprintf(s.dialect.createTable, s.ident, savemigrate.MaxUsernameLength)
	if _, err := s.db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("create table %s: %w", s.table, err)
	}
	return nil
}

func (s *SQLStore) Upsert(ctx context.Context, username string, data []byte, updatedAt time.Time) error {
	if data == nil {
		data = []byte{}
	}
	stmt := fmt.Sprintf(s.dialect.upsert, s.ident)
	if _, err := s.db.ExecContext(ctx, stmt, username, data, s.dialect.bindTime(updatedAt)); err != nil {
		return fmt.Errorf("upsert %q into %s: %w", username, s.table, err)
	}
	return nil
}

func (s *SQLStore) Get(ctx context.Context, username string) (*savemigrate.SaveRecord, error) {
	query := fmt.Sprintf(s.dialect.selectOne, s.ident)

	var rec savemigrate.SaveRecord
	err := s.db.QueryRowContext(ctx, query, username).
		Scan(&rec.ID, &rec.Username, &rec.SaveData, timestamp{&rec.LastUpdated})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%q in %s: %w", username, s.table, savemigrate.ErrRecordNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("select %q from %s: %w", username, s.table, err)
	}
	if rec.SaveData == nil {
		rec.SaveData = []byte{}
	}
	return &rec, nil
}

func (s *SQLStore) List(ctx context.Context) ([]savemigrate.RecordInfo, error) {
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(s.dialect.list, s.ident))
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", s.table, err)
	}
	defer rows.Close()

	var out []savemigrate.RecordInfo
	for rows.Next() {
		var info savemigrate.RecordInfo
		if err := rows.Scan(&info.ID, &info.Username, &info.Size, timestamp{&info.LastUpdated}); err != nil {
			return nil, fmt.Errorf("scan %s: %w", s.table, err)
		}
		out = append(out, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list %s: %w", s.table, err)
	}
	return out, nil
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}

var _ savemigrate.SaveStore = (*SQLStore)(nil)
