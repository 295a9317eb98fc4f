// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the ASPC voting API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(db, cfg)

# Endpoints

Health:

	GET /health

Sessions:

	POST /api/auth/dev-login    - Issue a session cookie (DevLogin only)
	GET  /api/auth/current_user - Email of the signed-in voter

Voting (requires the aspc_session cookie):

	GET  /api/voting/election               - Most recently started election
	GET  /api/voting/votestatus/{electionId} - Whether this voter has voted
	GET  /api/voting/ballot/{electionId}    - Candidates this voter may rank
	POST /api/voting/{electionId}/write-in  - Find or create a write-in
	POST /api/voting/{electionId}           - Cast the ballot

Administration (requires X-Admin-Key):

	GET  /api/admin/elections                 - List elections
	POST /api/admin/elections                 - Create election
	POST /api/admin/elections/{id}/candidates - Add candidate
	POST /api/admin/elections/{id}/voters     - Register or update a voter
	GET  /api/admin/elections/{id}/results    - Instant-runoff results (closed only)

# Middleware

Voting routes are wrapped with WithLogging and RequireVoter, admin routes
with WithLogging and RequireAdmin. CORS is applied to the whole mux in main.
*/
package router
