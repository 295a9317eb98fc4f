// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"

	"go.uber.org/multierr"
)

// Open connects, pings and creates the schema. The driver for dbType must
// already be registered by the caller.
func Open(dbType, url string) (*sql.DB, error) {
	conn, err := sql.Open(DriverName(dbType), url)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	if dbType == TypeSQLite {
		// One writer keeps sqlite from returning SQLITE_BUSY under concurrent ballots
		conn.SetMaxOpenConns(1)
	}

	if err := conn.Ping(); err != nil {
		return nil, multierr.Append(fmt.Errorf("database ping failed: %w", err), conn.Close())
	}

	if err := CreateSchema(conn, dbType); err != nil {
		return nil, multierr.Append(err, conn.Close())
	}

	return conn, nil
}
