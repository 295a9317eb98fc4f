// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Server Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

Config fields:

  - Port: Server listen port (default: 5000)
  - DatabaseURL: connection string or sqlite file (required)
  - DatabaseType: postgres (default) or sqlite
  - SessionSecret: Secret for session cookie signatures (required)
  - AdminKey: Key for admin routes (optional, admin disabled when empty)
  - DevLogin: Expose the dev login route

# CLI Flags

	-p                Server port
	-d                Database URL
	-t                Database type
	-env              dotenv file (default .env, skipped if missing)
	-dev-login        Enable dev login
	-session-secret   Session secret
	-admin-key        Admin key

# Environment Variables

Flags fall back to environment variables:

	PORT           → -p
	DATABASE_URL   → -d
	DATABASE_TYPE  → -t
	DEV_LOGIN      → -dev-login
	SESSION_SECRET → -session-secret
	ADMIN_KEY      → -admin-key

CLI flags take precedence over environment variables, and real environment
variables take precedence over the dotenv file.

# Client Configuration

ParseClientFlags configures cmd/ballot:

	-api      VOTE_API_URL (default http://localhost:5000)
	-session  VOTE_SESSION (required)
*/
package cliparse
