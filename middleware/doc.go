// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /health", middleware.WithLogging(handler))

Logs request start (method, path, remote) and completion (duration_ms).

# Voter Sessions

Voter routes sit behind RequireVoter, which verifies the aspc_session cookie
and stores the voter email on the request context:

	mux.HandleFunc("GET /api/voting/election",
		middleware.WithLogging(middleware.RequireVoter(secret, h.GetElection)))

	email := middleware.VoterEmail(r.Context())

# Admin Routes

RequireAdmin compares the X-Admin-Key header with the configured key.

# CORS Middleware

Enable cross-origin requests for the web frontend:

	server := http.Server{
		Handler: middleware.CORS(mux),
	}

Credentials are allowed so the session cookie travels with requests.

# JSON Helpers

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")

Errors use the {status: "error", message} envelope the ballot client reads.

# Client IP Extraction

	ip := middleware.GetClientIP(r)

Used in request logs.
*/
package middleware
