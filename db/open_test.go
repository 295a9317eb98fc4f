// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"testing"
	"time"

	_ "modernc.org/sqlite"
)

func TestOpenSQLite(t *testing.T) {
	conn, err := Open(TypeSQLite, ":memory:")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer conn.Close()

	// Schema creation is idempotent
	if err := CreateSchema(conn, TypeSQLite); err != nil {
		t.Fatalf("second CreateSchema failed: %v", err)
	}

	for _, table := range []string{"election", "candidate", "voter_roll", "vote"} {
		var name string
		err := conn.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = $1`, table).Scan(&name)
		if err != nil {
			t.Errorf("table %s missing: %v", table, err)
		}
	}
}

func TestSchemaConstraints(t *testing.T) {
	conn, err := Open(TypeSQLite, ":memory:")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer conn.Close()

	now := time.Now().UTC()
	insertElection := `INSERT INTO election (id, name, start_date, end_date) VALUES ($1, 'E', $2, $3)`

	if _, err := conn.Exec(insertElection, "backwards", now, now.Add(-time.Hour)); err == nil {
		t.Error("expected end before start to be rejected")
	}
	if _, err := conn.Exec(insertElection, "e1", now, now.Add(time.Hour)); err != nil {
		t.Fatalf("insert election: %v", err)
	}

	insertCandidate := `INSERT INTO candidate (id, election_id, name, position, write_in) VALUES ($1, 'e1', $2, 'president', $3)`
	if _, err := conn.Exec(insertCandidate, "w1", "Cecil Sagehen", true); err != nil {
		t.Fatalf("insert write-in: %v", err)
	}
	if _, err := conn.Exec(insertCandidate, "w2", "CECIL SAGEHEN", true); err == nil {
		t.Error("expected duplicate write-in name to be rejected")
	}
	if _, err := conn.Exec(insertCandidate, "c1", "Cecil Sagehen", false); err != nil {
		t.Errorf("printed candidate sharing a write-in name should be allowed: %v", err)
	}

	if _, err := conn.Exec(`INSERT INTO voter_roll (election_id, email, campus_rep, year) VALUES ('e1', 'a@pomona.edu', 'east', 1)`); err == nil {
		t.Error("expected unknown campus to be rejected")
	}
}

func TestOpenUnsupportedType(t *testing.T) {
	if err := CreateSchema(nil, "mysql"); err == nil {
		t.Error("expected unsupported type error")
	}
}
