package repository

import (
	"database/sql"
	"fmt"

	"github.com/sebagonz91/promo-storefront/internal/config"

	_ "github.com/lib/pq"
)

// NewDB opens the catalog database connection pool.
func NewDB(cfg *config.Config) (*sql.DB, error) {

	db, err := sql.Open("postgres", cfg.Database.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)

	// Test the connection to make sure DB is reachable
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, nil
}
