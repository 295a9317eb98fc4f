// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/aspc/vote/cliparse"
	"github.com/aspc/vote/middleware"
	"github.com/aspc/vote/models"
)

type ResultsHandler struct {
	db  *sql.DB
	cfg cliparse.Config
	now func() time.Time
}

func NewResultsHandler(db *sql.DB, cfg cliparse.Config) *ResultsHandler {
	return &ResultsHandler{db: db, cfg: cfg, now: time.Now}
}

// GetResults handles GET /api/admin/elections/{id}/results
// Returns 403 while the election is open (results are sealed)
func (h *ResultsHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	electionID := r.PathValue("id")
	if electionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "election id is required")
		return
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

	if !election.IsOver(h.now()) {
		middleware.ErrorResponse(w, http.StatusForbidden, "Results are hidden until the election closes")
		return
	}

	positions, err := ComputeTally(h.db, electionID)
	if err != nil {
		slog.Error("failed to compute tally", "error", err, "election_id", electionID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to compute results")
		return
	}

	slog.Info("results computed", "election_id", electionID, "positions", len(positions))

	middleware.JSONResponse(w, http.StatusOK, models.ResultsResponse{
		Election:  election,
		Positions: positions,
	})
}
