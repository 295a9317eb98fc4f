// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/aspc/vote/cliparse"
	"github.com/aspc/vote/handlers"
	"github.com/aspc/vote/middleware"
)

func NewRouter(db *sql.DB, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	votingHandler := handlers.NewVotingHandler(db, cfg)
	adminHandler := handlers.NewAdminHandler(db, cfg)
	resultsHandler := handlers.NewResultsHandler(db, cfg)
	sessionHandler := handlers.NewSessionHandler(cfg)

	voter := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(middleware.RequireVoter(cfg.SessionSecret, h))
	}
	admin := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(middleware.RequireAdmin(cfg.AdminKey, h))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Sessions
	if cfg.DevLogin {
		mux.HandleFunc("POST /api/auth/dev-login", middleware.WithLogging(sessionHandler.DevLogin))
	}
	mux.HandleFunc("GET /api/auth/current_user", voter(sessionHandler.CurrentUser))

	// Voting (authenticated voters)
	mux.HandleFunc("GET /api/voting/election", voter(votingHandler.GetElection))
	mux.HandleFunc("GET /api/voting/votestatus/{electionId}", voter(votingHandler.VoteStatus))
	mux.HandleFunc("GET /api/voting/ballot/{electionId}", voter(votingHandler.GetBallot))
	mux.HandleFunc("POST /api/voting/{electionId}/write-in", voter(votingHandler.CreateWriteIn))
	mux.HandleFunc("POST /api/voting/{electionId}", voter(votingHandler.RecordVotes))

	// Election administration
	mux.HandleFunc("GET /api/admin/elections", admin(adminHandler.ListElections))
	mux.HandleFunc("POST /api/admin/elections", admin(adminHandler.CreateElection))
	mux.HandleFunc("POST /api/admin/elections/{id}/candidates", admin(adminHandler.AddCandidate))
	mux.HandleFunc("POST /api/admin/elections/{id}/voters", admin(adminHandler.RegisterVoter))
	mux.HandleFunc("GET /api/admin/elections/{id}/results", admin(resultsHandler.GetResults))

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("aspc voting API v1"))
	})

	return mux
}
