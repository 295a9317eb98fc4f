// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aspc/vote/auth"
	"github.com/aspc/vote/cliparse"
	"github.com/aspc/vote/middleware"
	"github.com/aspc/vote/models"
)

type AdminHandler struct {
	db  *sql.DB
	cfg cliparse.Config
	now func() time.Time
}

func NewAdminHandler(db *sql.DB, cfg cliparse.Config) *AdminHandler {
	return &AdminHandler{db: db, cfg: cfg, now: time.Now}
}

// CreateElection handles POST /api/admin/elections
func (h *AdminHandler) CreateElection(w http.ResponseWriter, r *http.Request) {
	var req models.CreateElectionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if strings.TrimSpace(req.Name) == "" || req.StartDate.IsZero() || req.EndDate.IsZero() {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Missing required fields.")
		return
	}
	if !req.StartDate.Before(req.EndDate) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Start date must be before end date.")
		return
	}

	election := models.Election{
		ID:          auth.NewRecordID(),
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		StartDate:   req.StartDate.UTC(),
		EndDate:     req.EndDate.UTC(),
		CreatedAt:   h.now().UTC(),
	}

	_, err := h.db.Exec(`
		INSERT INTO election (id, name, description, start_date, end_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, election.ID, election.Name, election.Description, election.StartDate, election.EndDate, election.CreatedAt)

	if err != nil {
		slog.Error("failed to insert election", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Error creating election")
		return
	}

	slog.Info("election created", "election_id", election.ID, "name", election.Name)

	middleware.JSONResponse(w, http.StatusCreated, election)
}

// ListElections handles GET /api/admin/elections
func (h *AdminHandler) ListElections(w http.ResponseWriter, r *http.Request) {
	rows, err := h.db.Query(`
		SELECT ` + electionColumns + `
		FROM election
		ORDER BY start_date DESC
	`)
	if err != nil {
		slog.Error("failed to query elections", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Server error")
		return
	}
	defer rows.Close()

	elections := []models.Election{}
	for rows.Next() {
		var e models.Election
		if err := rows.Scan(&e.ID, &e.Name, &e.Description, &e.StartDate, &e.EndDate, &e.CreatedAt); err != nil {
			slog.Error("failed to scan election", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Server error")
			return
		}
		elections = append(elections, e)
	}

	middleware.JSONResponse(w, http.StatusOK, elections)
}

// AddCandidate handles POST /api/admin/elections/{id}/candidates
func (h *AdminHandler) AddCandidate(w http.ResponseWriter, r *http.Request) {
	electionID := r.PathValue("id")
	if electionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "election id is required")
		return
	}

	var req models.AddCandidateRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	name := strings.TrimSpace(req.Name)
	position := strings.TrimSpace(req.Position)
	if name == "" || position == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Missing required fields.")
		return
	}

	if _, err := getElection(h.db, electionID); err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Election not found")
		return
	} else if err != nil {
		slog.Error("failed to query election", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Server error")
		return
	}

	candidate := models.Candidate{
		ID:         auth.NewRecordID(),
		ElectionID: electionID,
		Name:       name,
		Position:   position,
	}

	_, err := h.db.Exec(`
		INSERT INTO candidate (id, election_id, name, position, write_in, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, candidate.ID, electionID, name, position, false, h.now().UTC())

	if err != nil {
		slog.Error("failed to insert candidate", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Error creating candidate")
		return
	}

	slog.Info("candidate added", "election_id", electionID, "candidate_id", candidate.ID, "position", position)

	middleware.JSONResponse(w, http.StatusCreated, candidate)
}

// RegisterVoter handles POST /api/admin/elections/{id}/voters
// Re-registering an email updates housing and year but keeps has_voted
func (h *AdminHandler) RegisterVoter(w http.ResponseWriter, r *http.Request) {
	electionID := r.PathValue("id")
	if electionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "election id is required")
		return
	}

	var req models.RegisterVoterRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "email is required")
		return
	}
	if req.CampusRep != models.CampusNorth && req.CampusRep != models.CampusSouth {
		middleware.ErrorResponse(w, http.StatusBadRequest, "campusRep must be one of: north, south")
		return
	}
	if req.Year < 1 || req.Year > 4 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "year must be between 1 and 4")
		return
	}

	if _, err := getElection(h.db, electionID); err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Election not found")
		return
	} else if err != nil {
		slog.Error("failed to query election", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Server error")
		return
	}

	_, err := h.db.Exec(`
		INSERT INTO voter_roll (election_id, email, campus_rep, year, has_voted)
		VALUES ($1, $2, $3, $4, FALSE)
		ON CONFLICT (election_id, email) DO UPDATE SET
			campus_rep = EXCLUDED.campus_rep,
			year = EXCLUDED.year
	`, electionID, email, req.CampusRep, req.Year)

	if err != nil {
		slog.Error("failed to register voter", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to register voter")
		return
	}

	slog.Info("voter registered", "election_id", electionID, "voter", auth.HashVoter(email, h.cfg.SessionSecret))

	middleware.JSONResponse(w, http.StatusCreated, models.VoterRoll{
		ElectionID: electionID,
		Email:      email,
		CampusRep:  req.CampusRep,
		Year:       req.Year,
	})
}
