// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database connections and schema creation.

# Opening

Open connects with the right driver name, pings, and creates the schema:

	conn, err := db.Open(db.TypePostgres, cfg.DatabaseURL)

Drivers are registered by the importing binary (lib/pq for postgres,
modernc.org/sqlite for sqlite).

# Schema Creation

CreateSchema initializes all required tables for either dialect:

	if err := db.CreateSchema(conn, db.TypeSQLite); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - election: name, description, voting window
  - candidate: regular and write-in candidates per position
  - voter_roll: one row per eligible student per election, with has_voted
  - vote: one anonymous ranking per position per ballot cast

# Relationships

	election 1──* candidate
	election 1──* voter_roll
	election 1──* vote

Votes do not reference the voter. The voter_roll has_voted flag and the
vote rows are written in the same transaction, so a ballot is counted
exactly once without being traceable.

Rankings are stored as a JSON array of candidate IDs in rank order.
*/
package db
