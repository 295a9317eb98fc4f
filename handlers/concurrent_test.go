// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/aspc/vote/models"
	"github.com/aspc/vote/testutil"
)

// TestConcurrentBallotSubmissions verifies that voters submitting at the same
// time each get exactly one ballot recorded
func TestConcurrentBallotSubmissions(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewVotingHandler(db, cfg)

	electionID := testutil.CreateTestElection(t, db, true)
	a := testutil.AddTestCandidate(t, db, electionID, "Ada", models.PositionPresident, false)
	b := testutil.AddTestCandidate(t, db, electionID, "Bo", models.PositionPresident, false)

	numVoters := 10
	for i := 0; i < numVoters; i++ {
		testutil.RegisterTestVoter(t, db, electionID, fmt.Sprintf("voter%d@pomona.edu", i), models.CampusNorth, 1)
	}

	var successCount atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < numVoters; i++ {
		wg.Add(1)
		go func(voterIdx int) {
			defer wg.Done()

			ranking := []string{a, b}
			if voterIdx%2 == 1 {
				ranking = []string{b, a}
			}

			req := testutil.MakeRequest("POST", "/api/voting/"+electionID,
				models.SubmitVotesRequest{Votes: []models.Vote{{Position: models.PositionPresident, Ranking: ranking}}}, nil)
			req.SetPathValue("electionId", electionID)
			w := httptest.NewRecorder()

			handler.RecordVotes(w, asVoter(req, fmt.Sprintf("voter%d@pomona.edu", voterIdx)))

			if w.Code == http.StatusOK {
				successCount.Add(1)
			}
		}(i)
	}

	wg.Wait()

	if int(successCount.Load()) != numVoters {
		t.Errorf("Expected %d successful submissions, got %d", numVoters, successCount.Load())
	}

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM vote WHERE election_id = $1`, electionID).Scan(&count); err != nil {
		t.Fatalf("Failed to count votes: %v", err)
	}
	if count != numVoters {
		t.Errorf("Expected %d vote rows, got %d", numVoters, count)
	}
}

// TestConcurrentDoubleVote verifies that one voter racing several
// submissions gets exactly one ballot recorded
func TestConcurrentDoubleVote(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewVotingHandler(db, cfg)

	electionID := testutil.CreateTestElection(t, db, true)
	a := testutil.AddTestCandidate(t, db, electionID, "Ada", models.PositionPresident, false)
	testutil.RegisterTestVoter(t, db, electionID, testVoter, models.CampusNorth, 1)

	attempts := 5
	var successCount, rejectedCount atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			req := testutil.MakeRequest("POST", "/api/voting/"+electionID,
				models.SubmitVotesRequest{Votes: []models.Vote{{Position: models.PositionPresident, Ranking: []string{a}}}}, nil)
			req.SetPathValue("electionId", electionID)
			w := httptest.NewRecorder()

			handler.RecordVotes(w, asVoter(req, testVoter))

			switch w.Code {
			case http.StatusOK:
				successCount.Add(1)
			case http.StatusBadRequest:
				rejectedCount.Add(1)
			}
		}()
	}

	wg.Wait()

	if successCount.Load() != 1 {
		t.Errorf("Expected exactly 1 accepted submission, got %d", successCount.Load())
	}
	if int(rejectedCount.Load()) != attempts-1 {
		t.Errorf("Expected %d rejected submissions, got %d", attempts-1, rejectedCount.Load())
	}

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM vote WHERE election_id = $1`, electionID).Scan(&count); err != nil {
		t.Fatalf("Failed to count votes: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 vote row, got %d", count)
	}
}
