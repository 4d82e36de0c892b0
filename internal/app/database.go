package app

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	_ "github.com/newrelic/go-agent/v3/integrations/nrpq" // Registers "nrpostgres" driver
	"github.com/newrelic/go-agent/v3/newrelic"

	"github.com/irkartik/driver-service/internal/config"
)

// schema is applied at startup. Uniqueness of phone and vehicle_plate is
// enforced here so concurrent writers racing past the validation layer still
// resolve to exactly one winner.
const schema = `
CREATE TABLE IF NOT EXISTS drivers (
	driver_id     BIGSERIAL PRIMARY KEY,
	name          VARCHAR(100) NOT NULL,
	phone         VARCHAR(10)  NOT NULL,
	vehicle_type  VARCHAR(20)  NOT NULL,
	vehicle_plate VARCHAR(20)  NOT NULL,
	is_active     BOOLEAN      NOT NULL DEFAULT TRUE,
	created_at    TIMESTAMPTZ  NOT NULL DEFAULT now(),
	updated_at    TIMESTAMPTZ  NOT NULL DEFAULT now(),
	CONSTRAINT drivers_phone_key UNIQUE (phone),
	CONSTRAINT drivers_vehicle_plate_key UNIQUE (vehicle_plate)
);
CREATE INDEX IF NOT EXISTS idx_drivers_is_active ON drivers (is_active);
CREATE INDEX IF NOT EXISTS idx_drivers_vehicle_type ON drivers (vehicle_type);
`

// NewDatabase creates a new PostgreSQL connection and ensures the schema
// exists. If nrApp is provided, it uses the New Relic instrumented driver
// for automatic SQL tracing.
func NewDatabase(ctx context.Context, cfg config.DatabaseConfig, nrApp *newrelic.Application) (*sql.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)

	driverName := "postgres"
	if nrApp != nil {
		// The "nrpostgres" driver is registered by the nrpq import.
		driverName = "nrpostgres"
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(50)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(30 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return db, nil
}
