package store

import (
	"context"
	"fmt"
	"io"

	"github.com/vvka-141/savemigrate/internal/db"
	"github.com/vvka-141/savemigrate/pkg/savemigrate"
)

// Opener connects to the configured database and returns its SaveStore.
// It satisfies savemigrate.StoreOpener through its Open method.
type Opener struct {
	logger savemigrate.Logger
}

// NewOpener creates an Opener that logs connection progress to logger.
func NewOpener(logger savemigrate.Logger) *Opener {
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &Opener{logger: logger}
}

// Open connects with retry and wraps the connection in the driver's store.
func (o *Opener) Open(ctx context.Context, conn *savemigrate.ConnectionConfig, table string) (savemigrate.SaveStore, error) {
	if err := savemigrate.ValidateTableName(table); err != nil {
		return nil, err
	}

	switch conn.Driver {
	case savemigrate.DriverPostgres, "":
		return o.openPostgres(ctx, conn, table)
	case savemigrate.DriverMySQL, savemigrate.DriverSQLite:
		return o.openSQL(ctx, conn, table)
	default:
		return nil, fmt.Errorf("%q: %w", conn.Driver, savemigrate.ErrUnsupportedDriver)
	}
}

func (o *Opener) openPostgres(ctx context.Context, conn *savemigrate.ConnectionConfig, table string) (savemigrate.SaveStore, error) {
	o.logger.Verbose("connecting to postgres %s:%d/%s (%s)", conn.Host, conn.Port, conn.Database, conn.AuthMethod)

	connector, err := db.NewConnector(conn, o.logger)
	if err != nil {
		return nil, err
	}

	pool, err := connector.Connect(ctx)
	if err != nil {
		if closer, ok := connector.(io.Closer); ok {
			closer.Close()
		}
		return nil, err
	}

	var onClose func()
	if closer, ok := connector.(io.Closer); ok {
		onClose = func() { closer.Close() }
	}

	s, err := NewPostgresStore(db.NewPoolAdapter(pool, onClose), table)
	if err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

func (o *Opener) openSQL(ctx context.Context, conn *savemigrate.ConnectionConfig, table string) (savemigrate.SaveStore, error) {
	if conn.Driver == savemigrate.DriverSQLite {
		o.logger.Verbose("opening sqlite database %s", conn.Database)
	} else {
		o.logger.Verbose("connecting to mysql %s:%d/%s", conn.Host, conn.Port, conn.Database)
	}

	connector, err := db.NewSQLConnector(conn, o.logger)
	if err != nil {
		return nil, err
	}

	handle, err := connector.Connect(ctx)
	if err != nil {
		return nil, err
	}

	var s *SQLStore
	if conn.Driver == savemigrate.DriverSQLite {
		s, err = NewSQLiteStore(handle, table)
	} else {
		s, err = NewMySQLStore(handle, table)
	}
	if err != nil {
		handle.Close()
		return nil, err
	}
	o.logger.Verbose("%s store ready for table %s", s.Driver(), table)
	return s, nil
}

var _ savemigrate.StoreOpener = (*Opener)(nil).Open
