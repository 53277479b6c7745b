package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"crmdesk/internal/config"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

func init() {
	// modernc registers as "sqlite", which sqlx does not know
	sqlx.BindDriver(DriverSQLite, sqlx.QUESTION)
}

// DriverFor picks the driver from the DSN: postgres URLs go to lib/pq,
// everything else is treated as a sqlite path.
func DriverFor(dsn string) string {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return DriverPostgres
	}
	return DriverSQLite
}

// Open builds the connection pool. The caller owns the returned handle.
func Open(ctx context.Context, dsn string, pool config.PoolConfig) (*sqlx.DB, error) {
	driver := DriverFor(dsn)
	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}

	if driver == DriverSQLite {
		// one connection: in-memory databases are per connection and
		// sqlite serialises writers anyway
		db.SetMaxOpenConns(1)
		if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
			db.Close()
			return nil, fmt.Errorf("enable foreign keys: %w", err)
		}
	} else {
		db.SetMaxOpenConns(pool.MaxOpenConns)
		db.SetMaxIdleConns(pool.MaxIdleConns)
		db.SetConnMaxLifetime(pool.ConnMaxLifetime)
		db.SetConnMaxIdleTime(pool.ConnMaxIdleTime)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}
	return db, nil
}
