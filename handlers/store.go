// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/aspc/vote/models"
)

// queryer is satisfied by both *sql.DB and *sql.Tx
type queryer interface {
	QueryRow(query string, args ...any) *sql.Row
	Query(query string, args ...any) (*sql.Rows, error)
}

const electionColumns = `id, name, description, start_date, end_date, created_at`

func scanElection(row *sql.Row) (models.Election, error) {
	var e models.Election
	err := row.Scan(&e.ID, &e.Name, &e.Description, &e.StartDate, &e.EndDate, &e.CreatedAt)
	return e, err
}

// getElection loads one election by ID
func getElection(q queryer, electionID string) (models.Election, error) {
	return scanElection(q.QueryRow(`
		SELECT `+electionColumns+`
		FROM election
		WHERE id = $1
	`, electionID))
}

// getCandidates loads every candidate of an election, write-ins included
func getCandidates(q queryer, electionID string) ([]models.Candidate, error) {
	rows, err := q.Query(`
		SELECT id, election_id, name, position, write_in
		FROM candidate
		WHERE election_id = $1
		ORDER BY position, name, id
	`, electionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	candidates := []models.Candidate{}
	for rows.Next() {
		var c models.Candidate
		if err := rows.Scan(&c.ID, &c.ElectionID, &c.Name, &c.Position, &c.WriteIn); err != nil {
			return nil, err
		}
		candidates = append(candidates, c)
	}
	return candidates, rows.Err()
}

// getVoterRoll loads the roll entry for a voter in an election
func getVoterRoll(q queryer, electionID, email string) (models.VoterRoll, error) {
	roll := models.VoterRoll{ElectionID: electionID, Email: email}
	err := q.QueryRow(`
		SELECT campus_rep, year, has_voted
		FROM voter_roll
		WHERE election_id = $1 AND email = $2
	`, electionID, strings.ToLower(email)).Scan(&roll.CampusRep, &roll.Year, &roll.HasVoted)
	return roll, err
}

// isUniqueViolation recognises unique constraint failures from either driver
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		switch liteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return true
		case sqlite3.SQLITE_CONSTRAINT:
			// primary code only when extended result codes are off
			return strings.Contains(liteErr.Error(), "UNIQUE")
		}
	}
	return false
}
