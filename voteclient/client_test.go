// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voteclient

import (
	"context"
	"errors"
	"go/parser"
	"go/token"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aspc/vote/middleware"
	"github.com/aspc/vote/models"
	"github.com/aspc/vote/router"
	"github.com/aspc/vote/testutil"
)

func TestClientAgainstAPI(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	server := httptest.NewServer(router.NewRouter(db, cfg))
	defer server.Close()

	electionID := testutil.CreateTestElection(t, db, true)
	pat := testutil.AddTestCandidate(t, db, electionID, "Pat", models.PositionPresident, false)
	testutil.RegisterTestVoter(t, db, electionID, "sagehen@pomona.edu", models.CampusNorth, 1)

	client := New(server.URL+"/", testutil.SessionCookie(cfg, "sagehen@pomona.edu").Value, nil)
	ctx := context.Background()

	election, err := client.GetElection(ctx)
	require.NoError(t, err)
	assert.Equal(t, electionID, election.ID)

	voted, err := client.VoteStatus(ctx, electionID)
	require.NoError(t, err)
	assert.False(t, voted)

	candidates, err := client.GetBallot(ctx, electionID)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, pat, candidates[0].ID)

	writeIn, err := client.CreateWriteIn(ctx, electionID, models.WriteInRequest{
		FirstName: "Cecil", LastName: "Sagehen", Position: models.PositionPresident,
	})
	require.NoError(t, err)
	assert.True(t, writeIn.WriteIn)
	assert.Equal(t, "Cecil Sagehen", writeIn.Name)

	err = client.SubmitVotes(ctx, electionID, []models.Vote{{Position: models.PositionPresident, Ranking: []string{pat, writeIn.ID}}})
	require.NoError(t, err)

	voted, err = client.VoteStatus(ctx, electionID)
	require.NoError(t, err)
	assert.True(t, voted)

	err = client.SubmitVotes(ctx, electionID, []models.Vote{{Position: models.PositionPresident, Ranking: []string{pat}}})
	var rejected *RejectedError
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, http.StatusBadRequest, rejected.StatusCode)
	assert.Equal(t, "Unable to submit vote", rejected.Message)
}

func TestClientUnauthenticated(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	server := httptest.NewServer(router.NewRouter(db, testutil.GetTestConfig()))
	defer server.Close()

	_, err := New(server.URL, "forged.token", nil).GetElection(context.Background())

	var rejected *RejectedError
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, http.StatusUnauthorized, rejected.StatusCode)
}

func TestClientSendsSessionCookie(t *testing.T) {
	var got string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie(models.SessionCookie); err == nil {
			got = c.Value
		}
		middleware.JSONResponse(w, http.StatusOK, models.VoteStatusResponse{Status: models.StatusSuccess})
	}))
	defer server.Close()

	_, err := New(server.URL, "session-value", nil).VoteStatus(context.Background(), "e1")
	require.NoError(t, err)
	assert.Equal(t, "session-value", got)
}

func TestClientErrors(t *testing.T) {
	tests := []struct {
		name        string
		handler     http.HandlerFunc
		wantMessage string
		transport   bool
	}{
		{
			name: "server message is kept verbatim",
			handler: func(w http.ResponseWriter, r *http.Request) {
				middleware.ErrorResponse(w, http.StatusBadRequest, "Election has closed")
			},
			wantMessage: "Election has closed",
		},
		{
			name: "non-JSON error falls back to status text",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
				w.Write([]byte("<html>bad gateway</html>"))
			},
			wantMessage: "Bad Gateway",
		},
		{
			name: "malformed success body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
				w.Write([]byte("{not json"))
			},
			transport: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			err := New(server.URL, "s", nil).SubmitVotes(context.Background(), "e1", nil)
			require.Error(t, err)

			if tt.transport {
				var te *TransportError
				assert.ErrorAs(t, err, &te)
				return
			}
			var rejected *RejectedError
			require.ErrorAs(t, err, &rejected)
			assert.Equal(t, tt.wantMessage, rejected.Message)
		})
	}
}

func TestClientTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := New(url, "s", nil).GetElection(context.Background())

	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "get election", te.Op)
}

func TestClientContextCancel(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := New(server.URL, "s", nil).GetBallot(ctx, "e1")

	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

// the client builds without the server's packages
func TestClientImportsNoServerPackages(t *testing.T) {
	pkgs, err := parser.ParseDir(token.NewFileSet(), ".", func(fi fs.FileInfo) bool {
		return !strings.HasSuffix(fi.Name(), "_test.go")
	}, parser.ImportsOnly)
	require.NoError(t, err)
	require.Contains(t, pkgs, "voteclient")

	for name, file := range pkgs["voteclient"].Files {
		for _, spec := range file.Imports {
			path, err := strconv.Unquote(spec.Path.Value)
			require.NoError(t, err)
			for _, server := range []string{"middleware", "auth", "handlers", "router", "db"} {
				assert.NotEqual(t, "github.com/aspc/vote/"+server, path, name)
			}
		}
	}
}
