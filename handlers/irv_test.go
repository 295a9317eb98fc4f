// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aspc/vote/auth"
	"github.com/aspc/vote/models"
	"github.com/aspc/vote/testutil"
)

func TestRunInstantRunoff(t *testing.T) {
	tests := []struct {
		name         string
		ballots      [][]string
		candidates   []string
		expectWinner string
		expectTie    []string
		expectRounds int
	}{
		{
			name:         "no ballots",
			ballots:      nil,
			candidates:   []string{"a", "b"},
			expectRounds: 0,
		},
		{
			name:         "first round majority",
			ballots:      [][]string{{"a"}, {"a", "b"}, {"b"}},
			candidates:   []string{"a", "b"},
			expectWinner: "a",
			expectRounds: 1,
		},
		{
			name:         "single candidate wins outright",
			ballots:      [][]string{{"a"}},
			candidates:   []string{"a"},
			expectWinner: "a",
			expectRounds: 1,
		},
		{
			name: "transfers decide the winner",
			// a=2 b=2 c=1; c eliminated and transfers to b
			ballots:      [][]string{{"a"}, {"a"}, {"b"}, {"b"}, {"c", "b"}},
			candidates:   []string{"a", "b", "c"},
			expectWinner: "b",
			expectRounds: 2,
		},
		{
			name:         "two remaining tied",
			ballots:      [][]string{{"a"}, {"b"}},
			candidates:   []string{"a", "b"},
			expectTie:    []string{"a", "b"},
			expectRounds: 1,
		},
		{
			name: "exhausted ballots still count toward majority",
			// c is eliminated and its ballot exhausts, leaving a and b
			// level without a majority of 5
			ballots:      [][]string{{"a"}, {"a"}, {"b"}, {"b"}, {"c"}},
			candidates:   []string{"a", "b", "c"},
			expectTie:    []string{"a", "b"},
			expectRounds: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			winner, tie, rounds := runInstantRunoff(tt.ballots, tt.candidates)

			if winner != tt.expectWinner {
				t.Errorf("Expected winner %q, got %q", tt.expectWinner, winner)
			}
			if len(tie) != len(tt.expectTie) {
				t.Fatalf("Expected tie %v, got %v", tt.expectTie, tie)
			}
			for i := range tie {
				if tie[i] != tt.expectTie[i] {
					t.Errorf("Expected tie %v, got %v", tt.expectTie, tie)
				}
			}
			if len(rounds) != tt.expectRounds {
				t.Errorf("Expected %d rounds, got %d", tt.expectRounds, len(rounds))
			}
		})
	}
}

func TestRunInstantRunoffEliminationOrder(t *testing.T) {
	ballots := [][]string{{"a"}, {"a"}, {"a"}, {"b"}, {"b"}, {"c", "b"}, {"d", "b"}}
	_, _, rounds := runInstantRunoff(ballots, []string{"a", "b", "c", "d"})

	if len(rounds) < 2 {
		t.Fatalf("Expected at least 2 rounds, got %d", len(rounds))
	}
	// c and d are tied for last; the greater ID goes first
	if rounds[0].Eliminated != "d" {
		t.Errorf("Expected d eliminated first, got %q", rounds[0].Eliminated)
	}
	if rounds[0].Counts["a"] != 3 || rounds[0].Counts["b"] != 2 {
		t.Errorf("Unexpected first round counts: %v", rounds[0].Counts)
	}
}

func TestTallyPosition(t *testing.T) {
	names := map[string]string{"a": "Ada", "b": "Bo", "c": "Cy"}
	ballots := [][]string{{"a", "b"}, {"b"}, {"c", "b"}, {"a"}, {"b", "a"}}

	tally := TallyPosition(models.PositionPresident, []string{"a", "b", "c"}, names, ballots)

	if tally.TotalVotes != 5 {
		t.Errorf("Expected 5 votes, got %d", tally.TotalVotes)
	}
	if len(tally.FirstPreference) != 3 {
		t.Fatalf("Expected 3 first-preference entries, got %d", len(tally.FirstPreference))
	}
	if tally.FirstPreference[0].CandidateName != "Ada" || tally.FirstPreference[0].Count != 2 {
		t.Errorf("Expected Ada first with 2, got %+v", tally.FirstPreference[0])
	}
	if tally.Winner != "Bo" {
		t.Errorf("Expected Bo to win after transfers, got %q", tally.Winner)
	}
	if !tally.RunoffUsed {
		t.Error("Expected runoff to be used")
	}
}

func TestNameOfUnknown(t *testing.T) {
	if got := nameOf(map[string]string{}, "missing"); got != "(unknown)" {
		t.Errorf("Expected (unknown), got %q", got)
	}
}

func TestGetResults(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()

	open := testutil.CreateTestElection(t, db, true)
	closed := testutil.CreateTestElection(t, db, false)
	a := testutil.AddTestCandidate(t, db, closed, "Ada", models.PositionPresident, false)
	b := testutil.AddTestCandidate(t, db, closed, "Bo", models.PositionPresident, false)
	v := testutil.AddTestCandidate(t, db, closed, "Val", models.PositionVPFinance, false)

	for _, vote := range []models.Vote{
		{Position: models.PositionPresident, Ranking: []string{a, b}},
		{Position: models.PositionPresident, Ranking: []string{a}},
		{Position: models.PositionPresident, Ranking: []string{b, a}},
		{Position: models.PositionVPFinance, Ranking: []string{v}},
	} {
		ranking, _ := json.Marshal(vote.Ranking)
		_, err := db.Exec(`
			INSERT INTO vote (id, election_id, position, ranking, created_at)
			VALUES ($1, $2, $3, $4, $5)
		`, auth.NewRecordID(), closed, vote.Position, string(ranking), time.Now().UTC())
		if err != nil {
			t.Fatalf("Failed to insert vote: %v", err)
		}
	}

	handler := NewResultsHandler(db, cfg)

	tests := []struct {
		name           string
		electionID     string
		expectedStatus int
	}{
		{"open election is sealed", open, http.StatusForbidden},
		{"unknown election", "missing", http.StatusNotFound},
		{"closed election", closed, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/api/admin/elections/"+tt.electionID+"/results", nil)
			req.SetPathValue("id", tt.electionID)
			w := httptest.NewRecorder()

			handler.GetResults(w, req)
			testutil.AssertStatus(t, w, tt.expectedStatus)
			if tt.expectedStatus != http.StatusOK {
				return
			}

			var resp models.ResultsResponse
			testutil.AssertJSON(t, w, &resp)

			if len(resp.Positions) != 2 {
				t.Fatalf("Expected 2 positions, got %d", len(resp.Positions))
			}
			president := resp.Positions[0]
			if president.Position != models.PositionPresident {
				t.Fatalf("Expected positions sorted, got %q first", president.Position)
			}
			if president.Winner != "Ada" || president.TotalVotes != 3 {
				t.Errorf("Expected Ada winning 3 ballots, got %+v", president)
			}
			if resp.Positions[1].Winner != "Val" {
				t.Errorf("Expected Val for vp_finance, got %q", resp.Positions[1].Winner)
			}
		})
	}
}
