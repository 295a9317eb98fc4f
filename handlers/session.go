// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/aspc/vote/auth"
	"github.com/aspc/vote/cliparse"
	"github.com/aspc/vote/middleware"
	"github.com/aspc/vote/models"
)

const sessionTTL = 12 * time.Hour

// SessionHandler issues and describes voter sessions. In production the
// session cookie comes from the campus SSO gateway; DevLogin stands in for it.
type SessionHandler struct {
	cfg cliparse.Config
}

func NewSessionHandler(cfg cliparse.Config) *SessionHandler {
	return &SessionHandler{cfg: cfg}
}

// DevLogin handles POST /api/auth/dev-login
func (h *SessionHandler) DevLogin(w http.ResponseWriter, r *http.Request) {
	var req models.DevLoginRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	email := strings.TrimSpace(req.Email)
	if email == "" || !strings.Contains(email, "@") {
		middleware.ErrorResponse(w, http.StatusBadRequest, "a valid email is required")
		return
	}

	token := auth.SignSession(email, h.cfg.SessionSecret)
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(sessionTTL),
	})

	middleware.JSONResponse(w, http.StatusOK, map[string]string{
		"status":  models.StatusSuccess,
		"session": token,
	})
}

// CurrentUser handles GET /api/auth/current_user
func (h *SessionHandler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	middleware.JSONResponse(w, http.StatusOK, map[string]string{
		"email": middleware.VoterEmail(r.Context()),
	})
}
