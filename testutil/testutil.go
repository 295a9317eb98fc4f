// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/aspc/vote/auth"
	"github.com/aspc/vote/cliparse"
	"github.com/aspc/vote/db"
	"github.com/aspc/vote/middleware"
)

// SetupTestDB creates a fresh in-memory sqlite database with the full schema
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open(db.TypeSQLite, ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:          5000,
		DatabaseURL:   ":memory:",
		DatabaseType:  db.TypeSQLite,
		SessionSecret: "test-session-secret",
		AdminKey:      "test-admin-key",
		DevLogin:      true,
	}
}

// CreateTestElection inserts an election and returns its ID.
// open=true gives a window around now, open=false one that ended yesterday.
func CreateTestElection(t *testing.T, conn *sql.DB, open bool) string {
	t.Helper()

	now := time.Now().UTC()
	start, end := now.Add(-time.Hour), now.Add(24*time.Hour)
	if !open {
		start, end = now.Add(-72*time.Hour), now.Add(-24*time.Hour)
	}

	return CreateTestElectionWindow(t, conn, start, end)
}

// CreateTestElectionWindow inserts an election with an explicit voting window
func CreateTestElectionWindow(t *testing.T, conn *sql.DB, start, end time.Time) string {
	t.Helper()

	electionID := auth.NewRecordID()
	_, err := conn.Exec(`
		INSERT INTO election (id, name, description, start_date, end_date, created_at)
		VALUES ($1, 'Spring Elections', 'Test election', $2, $3, $4)
	`, electionID, start.UTC(), end.UTC(), time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to create test election: %v", err)
	}

	return electionID
}

// AddTestCandidate adds a candidate to an election and returns its ID
func AddTestCandidate(t *testing.T, conn *sql.DB, electionID, name, position string, writeIn bool) string {
	t.Helper()

	candidateID := auth.NewRecordID()
	_, err := conn.Exec(`
		INSERT INTO candidate (id, election_id, name, position, write_in, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, candidateID, electionID, name, position, writeIn, time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to create test candidate: %v", err)
	}

	return candidateID
}

// RegisterTestVoter puts a student on the voter roll
func RegisterTestVoter(t *testing.T, conn *sql.DB, electionID, email, campusRep string, year int) {
	t.Helper()

	_, err := conn.Exec(`
		INSERT INTO voter_roll (election_id, email, campus_rep, year, has_voted)
		VALUES ($1, $2, $3, $4, FALSE)
	`, electionID, email, campusRep, year)
	if err != nil {
		t.Fatalf("Failed to register test voter: %v", err)
	}
}

// SessionCookie returns a signed session cookie for email
func SessionCookie(cfg cliparse.Config, email string) *http.Cookie {
	return &http.Cookie{Name: middleware.SessionCookie, Value: auth.SignSession(email, cfg.SessionSecret)}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
