// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the ASPC voting API server.

The server runs student senate elections with ranked-choice ballots: voters
rank candidates per position, may write in one candidate per position, and
cast their whole ballot exactly once. Results are instant-runoff counts
available to administrators after voting closes.

# Starting the Server

	DATABASE_URL=postgres://... SESSION_SECRET=... go run .

Or against a local sqlite file:

	go run . -t sqlite -d vote.db -session-secret dev -dev-login

A .env file in the working directory is loaded first (override with -env).

# Configuration

Required settings:

  - DATABASE_URL (-d): connection string or sqlite path
  - SESSION_SECRET (-session-secret): HMAC secret for voter sessions

Optional settings:

  - PORT (-p): server port (default: 5000)
  - DATABASE_TYPE (-t): postgres or sqlite (default: postgres)
  - ADMIN_KEY (-admin-key): key for /api/admin routes
  - DEV_LOGIN (-dev-login): enable POST /api/auth/dev-login

# Architecture

  - handlers: HTTP request handlers (voting, admin, results, sessions)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, session and admin checks, JSON helpers
  - models: Request/response types
  - auth: Session signing, admin key checks, record IDs
  - db: Connection setup and schema creation
  - cliparse: Configuration parsing
  - ballot, voteclient, votesession: the ballot client core, driven by cmd/ballot

See package documentation for each component.
*/
package main
