package database

import (
	"context"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/noah-isme/sci-crm-api/pkg/config"
)

func init() {
	// modernc registers "sqlite", which sqlx does not know the placeholder style of.
	sqlx.BindDriver(config.StoreDriverSQLite, sqlx.QUESTION)
}

// Open returns a pooled database handle for the configured SQL driver.
func Open(ctx context.Context, cfg config.StoreConfig) (*sqlx.DB, error) {
	driver, dsn, err := DSN(cfg)
	if err != nil {
		return nil, err
	}

	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}

	if cfg.Driver == config.StoreDriverSQLite {
		// a single writer avoids SQLITE_BUSY under concurrent transactions
		db.SetMaxOpenConns(1)
	} else {
		if cfg.MaxOpenConns > 0 {
			db.SetMaxOpenConns(cfg.MaxOpenConns)
		}
		if cfg.MaxIdleConns > 0 {
			db.SetMaxIdleConns(cfg.MaxIdleConns)
		}
		db.SetConnMaxLifetime(1 * time.Hour)
		db.SetConnMaxIdleTime(30 * time.Minute)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}

	return db, nil
}

// DSN resolves the database/sql driver name and data source for cfg.
func DSN(cfg config.StoreConfig) (string, string, error) {
	switch cfg.Driver {
	case config.StoreDriverPostgres, config.StoreDriverPGX:
		dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			cfg.Host,
			cfg.Port,
			cfg.User,
			cfg.Password,
			cfg.Name,
			cfg.SSLMode,
		)
		return cfg.Driver, dsn, nil
	case config.StoreDriverSQLite:
		if cfg.SQLitePath == "" {
			return "", "", fmt.Errorf("sqlite path is required")
		}
		return config.StoreDriverSQLite, cfg.SQLitePath, nil
	default:
		return "", "", fmt.Errorf("unsupported sql driver %q", cfg.Driver)
	}
}
