// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrInvalidAdminKey = errors.New("invalid admin key")
	ErrInvalidToken    = errors.New("invalid token format")
	ErrInvalidSession  = errors.New("invalid session signature")
)

// GenerateID creates a random hex ID of the specified byte length
func GenerateID(byteLen int) (string, error) {
	b := make([]byte, byteLen)
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("failed to generate random ID: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// NewRecordID returns a random UUID for election, candidate and vote rows
func NewRecordID() string {
	return uuid.NewString()
}

// SignSession creates a session token binding a voter email to the server secret.
// Format: base64url(email) "." base64url(HMAC-SHA256(email))
func SignSession(email, secret string) string {
	payload := base64.RawURLEncoding.EncodeToString([]byte(normalizeEmail(email)))
	return payload + "." + sign(payload, secret)
}

// ParseSession verifies a session token and returns the voter email
func ParseSession(token, secret string) (string, error) {
	payload, sig, ok := strings.Cut(token, ".")
	if !ok || payload == "" || sig == "" {
		return "", ErrInvalidToken
	}

	expected := sign(payload, secret)
	if !hmac.Equal([]byte(sig), []byte(expected)) {
		return "", ErrInvalidSession
	}

	email, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil {
		return "", ErrInvalidToken
	}
	return string(email), nil
}

// ValidateAdminKey compares a presented admin key against the configured one
func ValidateAdminKey(presented, configured string) error {
	if configured == "" || !hmac.Equal([]byte(presented), []byte(configured)) {
		return ErrInvalidAdminKey
	}
	return nil
}

// HashVoter creates a one-way pseudonym for a voter email, for logs
func HashVoter(email, secret string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(normalizeEmail(email)))
	sum := h.Sum(nil)
	// First 8 bytes are plenty to correlate log lines
	return hex.EncodeToString(sum[:8])
}

func sign(payload, secret string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(payload))
	return base64.RawURLEncoding.EncodeToString(h.Sum(nil))
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
