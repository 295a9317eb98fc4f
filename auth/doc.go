// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides session tokens, admin key checks and ID generation.

Single sign-on happens upstream of this service. What reaches the voting API
is a signed session cookie naming the voter's email.

# Session Tokens

Sessions are HMAC-SHA256 signed and stateless:

	token := auth.SignSession("sagehen@pomona.edu", secret)
	email, err := auth.ParseSession(token, secret)

Emails are lowercased before signing. ParseSession returns ErrInvalidToken
for malformed input and ErrInvalidSession when the signature does not match.

# Admin Keys

Admin routes compare the X-Admin-Key header with the configured key in
constant time:

	err := auth.ValidateAdminKey(r.Header.Get("X-Admin-Key"), cfg.AdminKey)

An empty configured key disables admin access entirely.

# ID Generation

Database rows use random UUIDs:

	id := auth.NewRecordID()

GenerateID returns random hex strings for other opaque identifiers.

# Voter Pseudonyms

Logs never carry voter emails:

	slog.Info("ballot submitted", "voter", auth.HashVoter(email, secret))
*/
package auth
