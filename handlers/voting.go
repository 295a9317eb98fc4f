// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aspc/vote/auth"
	"github.com/aspc/vote/cliparse"
	"github.com/aspc/vote/middleware"
	"github.com/aspc/vote/models"
)

// Messages the ballot client shows verbatim
const (
	msgNoElection       = "No election found."
	msgElectionClosed   = "Election has closed"
	msgUnableToSubmit   = "Unable to submit vote"
	msgNotRegistered    = "Student not registered in election"
	msgInvalidVotePrefx = "Invalid vote for position: "
)

type VotingHandler struct {
	db  *sql.DB
	cfg cliparse.Config
	now func() time.Time
}

func NewVotingHandler(db *sql.DB, cfg cliparse.Config) *VotingHandler {
	return &VotingHandler{db: db, cfg: cfg, now: time.Now}
}

// GetElection handles GET /api/voting/election
// Returns the most recently started election
func (h *VotingHandler) GetElection(w http.ResponseWriter, r *http.Request) {
	election, err := scanElection(h.db.QueryRow(`
		SELECT ` + electionColumns + `
		FROM election
		ORDER BY start_date DESC
		LIMIT 1
	`))

	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, msgNoElection)
		return
	}
	if err != nil {
		slog.Error("failed to query election", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Server error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, election)
}

// VoteStatus handles GET /api/voting/votestatus/{electionId}
func (h *VotingHandler) VoteStatus(w http.ResponseWriter, r *http.Request) {
	electionID := r.PathValue("electionId")
	if electionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "electionId is required")
		return
	}

	email := middleware.VoterEmail(r.Context())
	roll, err := getVoterRoll(h.db, electionID, email)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, msgNotRegistered)
		return
	}
	if err != nil {
		slog.Error("failed to query voter roll", "error", err, "election_id", electionID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.VoteStatusResponse{
		Status:   models.StatusSuccess,
		HasVoted: roll.HasVoted,
	})
}

// GetBallot handles GET /api/voting/ballot/{electionId}
// Returns the candidates this voter may rank, filtered by housing and class year
func (h *VotingHandler) GetBallot(w http.ResponseWriter, r *http.Request) {
	electionID := r.PathValue("electionId")
	if electionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "electionId is required")
		return
	}

	email := middleware.VoterEmail(r.Context())
	roll, err := getVoterRoll(h.db, electionID, email)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Student info not found")
		return
	}
	if err != nil {
		slog.Error("failed to query voter roll", "error", err, "election_id", electionID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	candidates, err := getCandidates(h.db, electionID)
	if err != nil {
		slog.Error("failed to query candidates", "error", err, "election_id", electionID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to fetch candidates")
		return
	}

	// Write-ins belong to whoever wrote them in; they never join the printed ballot
	ballot := []models.Candidate{}
	for _, c := range candidates {
		if !c.WriteIn && IsEligible(c.Position, roll) {
			ballot = append(ballot, c)
		}
	}

	middleware.JSONResponse(w, http.StatusOK, models.BallotResponse{
		Status: models.StatusSuccess,
		Data:   ballot,
	})
}

// CreateWriteIn handles POST /api/voting/{electionId}/write-in
// Finds a candidate with the same name for the position, or creates a write-in
func (h *VotingHandler) CreateWriteIn(w http.ResponseWriter, r *http.Request) {
	electionID := r.PathValue("electionId")
	if electionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "electionId is required")
		return
	}

	var req models.WriteInRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	firstName := strings.TrimSpace(req.FirstName)
	lastName := strings.TrimSpace(req.LastName)
	position := strings.TrimSpace(req.Position)
	if firstName == "" || lastName == "" || position == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "First name, last name, and position are required")
		return
	}
	name := firstName + " " + lastName

	election, err := getElection(h.db, electionID)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Election not found")
		return
	}
	if err != nil {
		slog.Error("failed to query election", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if election.IsOver(h.now()) {
		middleware.ErrorResponse(w, http.StatusConflict, msgElectionClosed)
		return
	}

	// Position must already exist on the printed ballot
	var positionExists bool
	err = h.db.QueryRow(`
		SELECT EXISTS(
			SELECT 1 FROM candidate
			WHERE election_id = $1 AND position = $2 AND write_in = FALSE
		)
	`, electionID, position).Scan(&positionExists)
	if err != nil {
		slog.Error("failed to check position", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if !positionExists {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Unknown position: "+position)
		return
	}

	existing, err := h.findCandidateByName(electionID, position, name)
	if err == nil {
		middleware.JSONResponse(w, http.StatusOK, models.CandidateResponse{Status: models.StatusSuccess, Data: existing})
		return
	}
	if err != sql.ErrNoRows {
		slog.Error("failed to query candidate", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create write-in candidate")
		return
	}

	candidate := models.Candidate{
		ID:         auth.NewRecordID(),
		ElectionID: electionID,
		Name:       name,
		Position:   position,
		WriteIn:    true,
	}
	_, err = h.db.Exec(`
		INSERT INTO candidate (id, election_id, name, position, write_in, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, candidate.ID, candidate.ElectionID, candidate.Name, candidate.Position, true, h.now().UTC())

	if isUniqueViolation(err) {
		// Another voter wrote in the same name first
		existing, err = h.findCandidateByName(electionID, position, name)
		if err == nil {
			middleware.JSONResponse(w, http.StatusOK, models.CandidateResponse{Status: models.StatusSuccess, Data: existing})
			return
		}
	}
	if err != nil {
		slog.Error("failed to insert write-in", "error", err, "election_id", electionID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create write-in candidate")
		return
	}

	slog.Info("write-in created", "election_id", electionID, "candidate_id", candidate.ID, "position", position)

	middleware.JSONResponse(w, http.StatusCreated, models.CandidateResponse{
		Status: models.StatusSuccess,
		Data:   candidate,
	})
}

func (h *VotingHandler) findCandidateByName(electionID, position, name string) (models.Candidate, error) {
	var c models.Candidate
	err := h.db.QueryRow(`
		SELECT id, election_id, name, position, write_in
		FROM candidate
		WHERE election_id = $1 AND position = $2 AND LOWER(name) = LOWER($3)
		ORDER BY write_in
		LIMIT 1
	`, electionID, position, name).Scan(&c.ID, &c.ElectionID, &c.Name, &c.Position, &c.WriteIn)
	return c, err
}

// RecordVotes handles POST /api/voting/{electionId}
// Marks the voter as voted and stores one anonymous ranking per position,
// all in one transaction
func (h *VotingHandler) RecordVotes(w http.ResponseWriter, r *http.Request) {
	electionID := r.PathValue("electionId")
	if electionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "electionId is required")
		return
	}

	var req models.SubmitVotesRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	// User must vote for at least one position
	if len(req.Votes) == 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "At least one vote must be submitted")
		return
	}

	seen := make(map[string]bool, len(req.Votes))
	for _, v := range req.Votes {
		if seen[v.Position] {
			middleware.ErrorResponse(w, http.StatusBadRequest, "Cannot submit more than one vote per position")
			return
		}
		seen[v.Position] = true
	}

	election, err := getElection(h.db, electionID)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Election not found")
		return
	}
	if err != nil {
		slog.Error("failed to query election", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	now := h.now()
	if now.Before(election.StartDate) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Election has not started")
		return
	}
	if election.IsOver(now) {
		middleware.ErrorResponse(w, http.StatusBadRequest, msgElectionClosed)
		return
	}

	email := middleware.VoterEmail(r.Context())
	roll, err := getVoterRoll(h.db, electionID, email)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusBadRequest, msgUnableToSubmit)
		return
	}
	if err != nil {
		slog.Error("failed to query voter roll", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	candidates, err := getCandidates(h.db, electionID)
	if err != nil {
		slog.Error("failed to query candidates", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	byID := make(map[string]models.Candidate, len(candidates))
	for _, c := range candidates {
		byID[c.ID] = c
	}

	for _, v := range req.Votes {
		if !IsEligible(v.Position, roll) || !isValidRanking(v, byID) {
			middleware.ErrorResponse(w, http.StatusBadRequest, msgInvalidVotePrefx+v.Position)
			return
		}
	}

	tx, err := h.db.Begin()
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer tx.Rollback()

	// Conditional update: only one concurrent submission can flip has_voted
	res, err := tx.Exec(`
		UPDATE voter_roll
		SET has_voted = TRUE
		WHERE election_id = $1 AND email = $2 AND has_voted = FALSE
	`, electionID, strings.ToLower(email))
	if err != nil {
		slog.Error("failed to mark voter", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to record vote")
		return
	}
	affected, err := res.RowsAffected()
	if err != nil {
		slog.Error("failed to read rows affected", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to record vote")
		return
	}
	if affected == 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, msgUnableToSubmit)
		return
	}

	for _, v := range req.Votes {
		ranking, err := json.Marshal(v.Ranking)
		if err != nil {
			slog.Error("failed to encode ranking", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to record vote")
			return
		}

		_, err = tx.Exec(`
			INSERT INTO vote (id, election_id, position, ranking, created_at)
			VALUES ($1, $2, $3, $4, $5)
		`, auth.NewRecordID(), electionID, v.Position, string(ranking), now.UTC())
		if err != nil {
			slog.Error("failed to insert vote", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to record vote")
			return
		}
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to record vote")
		return
	}

	slog.Info("ballot submitted",
		"election_id", electionID,
		"voter", auth.HashVoter(email, h.cfg.SessionSecret),
		"positions", len(req.Votes),
	)

	middleware.JSONResponse(w, http.StatusOK, models.StatusResponse{Status: models.StatusSuccess})
}

// isValidRanking checks one position's ranking against the election's candidates
func isValidRanking(v models.Vote, candidates map[string]models.Candidate) bool {
	if len(v.Ranking) == 0 {
		return false
	}

	seen := make(map[string]bool, len(v.Ranking))
	writeIns := 0
	for _, id := range v.Ranking {
		if seen[id] {
			return false
		}
		seen[id] = true

		c, ok := candidates[id]
		if !ok || c.Position != v.Position {
			return false
		}
		if c.WriteIn {
			writeIns++
		}
	}

	// At most one write-in per position
	return writeIns <= 1
}
