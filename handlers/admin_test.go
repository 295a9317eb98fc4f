// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aspc/vote/models"
	"github.com/aspc/vote/testutil"
)

func TestCreateElection(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewAdminHandler(db, cfg)

	start := time.Now().UTC().Truncate(time.Second)
	end := start.Add(48 * time.Hour)

	tests := []struct {
		name           string
		body           interface{}
		expectedStatus int
	}{
		{
			name:           "valid election",
			body:           models.CreateElectionRequest{Name: "Spring Senate", StartDate: start, EndDate: end},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "missing name",
			body:           models.CreateElectionRequest{StartDate: start, EndDate: end},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "end before start",
			body:           models.CreateElectionRequest{Name: "Backwards", StartDate: end, EndDate: start},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "invalid JSON",
			body:           "not json",
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("POST", "/api/admin/elections", tt.body, nil)
			w := httptest.NewRecorder()

			handler.CreateElection(w, req)
			testutil.AssertStatus(t, w, tt.expectedStatus)

			if tt.expectedStatus == http.StatusCreated {
				var election models.Election
				testutil.AssertJSON(t, w, &election)
				if election.ID == "" {
					t.Error("Expected election ID")
				}
				if !election.EndDate.Equal(end) {
					t.Errorf("Expected end %v, got %v", end, election.EndDate)
				}
			}
		})
	}

	w := httptest.NewRecorder()
	handler.ListElections(w, httptest.NewRequest("GET", "/api/admin/elections", nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	var elections []models.Election
	testutil.AssertJSON(t, w, &elections)
	if len(elections) != 1 {
		t.Errorf("Expected 1 election, got %d", len(elections))
	}
}

func TestAddCandidate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewAdminHandler(db, cfg)

	electionID := testutil.CreateTestElection(t, db, true)

	tests := []struct {
		name           string
		electionID     string
		body           models.AddCandidateRequest
		expectedStatus int
	}{
		{"valid candidate", electionID, models.AddCandidateRequest{Name: "Pat", Position: models.PositionPresident}, http.StatusCreated},
		{"missing position", electionID, models.AddCandidateRequest{Name: "Pat"}, http.StatusBadRequest},
		{"unknown election", "missing", models.AddCandidateRequest{Name: "Pat", Position: models.PositionPresident}, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("POST", "/api/admin/elections/"+tt.electionID+"/candidates", tt.body, nil)
			req.SetPathValue("id", tt.electionID)
			w := httptest.NewRecorder()

			handler.AddCandidate(w, req)
			testutil.AssertStatus(t, w, tt.expectedStatus)
		})
	}

	candidates, err := getCandidates(db, electionID)
	if err != nil {
		t.Fatalf("Failed to load candidates: %v", err)
	}
	if len(candidates) != 1 || candidates[0].WriteIn {
		t.Errorf("Expected one printed candidate, got %+v", candidates)
	}
}

func TestRegisterVoter(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewAdminHandler(db, cfg)

	electionID := testutil.CreateTestElection(t, db, true)

	register := func(body models.RegisterVoterRequest) *httptest.ResponseRecorder {
		req := testutil.MakeRequest("POST", "/api/admin/elections/"+electionID+"/voters", body, nil)
		req.SetPathValue("id", electionID)
		w := httptest.NewRecorder()
		handler.RegisterVoter(w, req)
		return w
	}

	t.Run("invalid campus", func(t *testing.T) {
		w := register(models.RegisterVoterRequest{Email: "a@pomona.edu", CampusRep: "east", Year: 1})
		testutil.AssertStatus(t, w, http.StatusBadRequest)
	})

	t.Run("invalid year", func(t *testing.T) {
		w := register(models.RegisterVoterRequest{Email: "a@pomona.edu", CampusRep: models.CampusNorth, Year: 5})
		testutil.AssertStatus(t, w, http.StatusBadRequest)
	})

	t.Run("register then update keeps has_voted", func(t *testing.T) {
		w := register(models.RegisterVoterRequest{Email: "A@Pomona.edu", CampusRep: models.CampusNorth, Year: 1})
		testutil.AssertStatus(t, w, http.StatusCreated)

		if _, err := db.Exec(`UPDATE voter_roll SET has_voted = TRUE WHERE email = 'a@pomona.edu'`); err != nil {
			t.Fatalf("Failed to mark voter: %v", err)
		}

		w = register(models.RegisterVoterRequest{Email: "a@pomona.edu", CampusRep: models.CampusSouth, Year: 2})
		testutil.AssertStatus(t, w, http.StatusCreated)

		roll, err := getVoterRoll(db, electionID, "a@pomona.edu")
		if err != nil {
			t.Fatalf("Failed to load roll: %v", err)
		}
		if roll.CampusRep != models.CampusSouth || roll.Year != 2 {
			t.Errorf("Expected updated roll, got %+v", roll)
		}
		if !roll.HasVoted {
			t.Error("Re-registration should not reset has_voted")
		}
	})
}

func TestDevLogin(t *testing.T) {
	cfg := testutil.GetTestConfig()
	handler := NewSessionHandler(cfg)

	req := testutil.MakeRequest("POST", "/api/auth/dev-login", models.DevLoginRequest{Email: "sagehen@pomona.edu"}, nil)
	w := httptest.NewRecorder()
	handler.DevLogin(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	cookies := w.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Value == "" {
		t.Fatalf("Expected one session cookie, got %v", cookies)
	}

	req = testutil.MakeRequest("POST", "/api/auth/dev-login", models.DevLoginRequest{Email: "nobody"}, nil)
	w = httptest.NewRecorder()
	handler.DevLogin(w, req)
	testutil.AssertStatus(t, w, http.StatusBadRequest)
}
