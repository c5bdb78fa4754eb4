package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/vvka-141/savemigrate/pkg/savemigrate"
)

// PostgresStore is the PostgreSQL SaveStore. Table names are quoted with
// pgx.Identifier.
type PostgresStore struct {
	conn  savemigrate.DBConnection
	table string
	ident string
}

// NewPostgresStore wraps conn. The store owns conn and closes it on Close.
func NewPostgresStore(conn savemigrate.DBConnection, table string) (*PostgresStore, error) {
	if conn == nil {
		panic("conn cannot be nil")
	}
	if err := savemigrate.ValidateTableName(table); err != nil {
		return nil, err
	}
	return &PostgresStore{
		conn:  conn,
		table: table,
		ident: pgx.Identifier{table}.Sanitize(),
	}, nil
}

func (s *PostgresStore) createTableSQL() string {
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
    id BIGINT GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY,
    username VARCHAR(%d) NOT NULL UNIQUE,
    save_data BYTEA NOT NULL,
    last_updated TIMESTAMPTZ NOT NULL DEFAULT now()
)`, s.ident, savemigrate.MaxUsernameLength)
}

func (s *PostgresStore) upsertSQL() string {
	return fmt.Sprintf(`INSERT INTO %s (username, save_data, last_updated)
VALUES ($1, $2, $3)
ON CONFLICT (username) DO UPDATE
SET save_data = EXCLUDED.save_data, last_updated = EXCLUDED.last_updated`, s.ident)
}

// EnsureSchema creates the table if it does not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.conn.Exec(ctx, s.createTableSQL()); err != nil {
		return fmt.Errorf("create table %s: %w", s.table, err)
	}
	return nil
}

func (s *PostgresStore) Upsert(ctx context.Context, username string, data []byte, updatedAt time.Time) error {
	if data == nil {
		data = []byte{}
	}
	if _, err := s.conn.Exec(ctx, s.upsertSQL(), username, data, updatedAt.UTC()); err != nil {
		return fmt.Errorf("upsert %q into %s: %w", username, s.table, err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, username string) (*savemigrate.SaveRecord, error) {
	query := fmt.Sprintf(`SELECT id, username, save_data, last_updated FROM %s WHERE username = $1`, s.ident)

	var rec savemigrate.SaveRecord
	err := s.conn.QueryRow(ctx, query, username).Scan(&rec.ID, &rec.Username, &rec.SaveData, &rec.LastUpdated)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%q in %s: %w", username, s.table, savemigrate.ErrRecordNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("select %q from %s: %w", username, s.table, err)
	}
	return &rec, nil
}

func (s *PostgresStore) List(ctx context.Context) ([]savemigrate.RecordInfo, error) {
	query := fmt.Sprintf(`SELECT id, username, octet_length(save_data), last_updated FROM %s ORDER BY username`, s.ident)

	rows, err := s.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", s.table, err)
	}
	defer rows.Close()

	var out []savemigrate.RecordInfo
	for rows.Next() {
		var info savemigrate.RecordInfo
		if err := rows.Scan(&info.ID, &info.Username, &info.Size, &info.LastUpdated); err != nil {
			return nil, fmt.Errorf("scan %s: %w", s.table, err)
		}
		out = append(out, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list %s: %w", s.table, err)
	}
	return out, nil
}

func (s *PostgresStore) Close() error {
	s.conn.Close()
	return nil
}

var _ savemigrate.SaveStore = (*PostgresStore)(nil)
