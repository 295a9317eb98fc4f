// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// Supported database types
const (
	TypePostgres = "postgres"
	TypeSQLite   = "sqlite"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB, dbType string) error {
	var ddl string
	switch dbType {
	case TypePostgres:
		ddl = postgresSchema
	case TypeSQLite:
		ddl = sqliteSchema
	default:
		return fmt.Errorf("unsupported database type %q", dbType)
	}

	_, err := db.Exec(ddl)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// DriverName maps a database type to its database/sql driver name
func DriverName(dbType string) string {
	if dbType == TypeSQLite {
		return "sqlite"
	}
	return "postgres"
}

const postgresSchema = `
-- Elections
CREATE TABLE IF NOT EXISTS election (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    start_date TIMESTAMPTZ NOT NULL,
    end_date TIMESTAMPTZ NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    CHECK (start_date < end_date)
);

CREATE INDEX IF NOT EXISTS idx_election_start_date ON election(start_date);

-- Candidates
CREATE TABLE IF NOT EXISTS candidate (
    id TEXT PRIMARY KEY,
    election_id TEXT NOT NULL REFERENCES election(id) ON DELETE CASCADE,
    name TEXT NOT NULL,
    position TEXT NOT NULL,
    write_in BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_candidate_election_position ON candidate(election_id, position);
CREATE UNIQUE INDEX IF NOT EXISTS idx_candidate_write_in_name
    ON candidate(election_id, position, LOWER(name)) WHERE write_in;

-- Voter roll
CREATE TABLE IF NOT EXISTS voter_roll (
    election_id TEXT NOT NULL REFERENCES election(id) ON DELETE CASCADE,
    email TEXT NOT NULL,
    campus_rep TEXT NOT NULL CHECK (campus_rep IN ('north', 'south')),
    year INTEGER NOT NULL,
    has_voted BOOLEAN NOT NULL DEFAULT FALSE,
    PRIMARY KEY (election_id, email)
);

-- Votes (anonymous: no link back to the voter)
CREATE TABLE IF NOT EXISTS vote (
    id TEXT PRIMARY KEY,
    election_id TEXT NOT NULL REFERENCES election(id) ON DELETE CASCADE,
    position TEXT NOT NULL,
    ranking TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_vote_election_position ON vote(election_id, position);
`

const sqliteSchema = `
PRAGMA foreign_keys = ON;

CREATE TABLE IF NOT EXISTS election (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    start_date TIMESTAMP NOT NULL,
    end_date TIMESTAMP NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    CHECK (start_date < end_date)
);

CREATE INDEX IF NOT EXISTS idx_election_start_date ON election(start_date);

CREATE TABLE IF NOT EXISTS candidate (
    id TEXT PRIMARY KEY,
    election_id TEXT NOT NULL REFERENCES election(id) ON DELETE CASCADE,
    name TEXT NOT NULL,
    position TEXT NOT NULL,
    write_in BOOLEAN NOT NULL DEFAULT 0,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_candidate_election_position ON candidate(election_id, position);
CREATE UNIQUE INDEX IF NOT EXISTS idx_candidate_write_in_name
    ON candidate(election_id, position, LOWER(name)) WHERE write_in;

CREATE TABLE IF NOT EXISTS voter_roll (
    election_id TEXT NOT NULL REFERENCES election(id) ON DELETE CASCADE,
    email TEXT NOT NULL,
    campus_rep TEXT NOT NULL CHECK (campus_rep IN ('north', 'south')),
    year INTEGER NOT NULL,
    has_voted BOOLEAN NOT NULL DEFAULT 0,
    PRIMARY KEY (election_id, email)
);

CREATE TABLE IF NOT EXISTS vote (
    id TEXT PRIMARY KEY,
    election_id TEXT NOT NULL REFERENCES election(id) ON DELETE CASCADE,
    position TEXT NOT NULL,
    ranking TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_vote_election_position ON vote(election_id, position);
`
