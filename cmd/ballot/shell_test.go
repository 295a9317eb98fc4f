// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aspc/vote/models"
	"github.com/aspc/vote/router"
	"github.com/aspc/vote/testutil"
	"github.com/aspc/vote/voteclient"
	"github.com/aspc/vote/votesession"
)

func TestShellCastsBallot(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	server := httptest.NewServer(router.NewRouter(db, cfg))
	defer server.Close()

	electionID := testutil.CreateTestElection(t, db, true)
	testutil.AddTestCandidate(t, db, electionID, "Ada", models.PositionPresident, false)
	testutil.AddTestCandidate(t, db, electionID, "Bo", models.PositionPresident, false)
	testutil.AddTestCandidate(t, db, electionID, "Val", models.PositionVPFinance, false)
	testutil.RegisterTestVoter(t, db, electionID, "sagehen@pomona.edu", models.CampusNorth, 1)

	client := voteclient.New(server.URL, testutil.SessionCookie(cfg, "sagehen@pomona.edu").Value, nil)
	session := votesession.Load(context.Background(), client, votesession.Options{})
	require.Equal(t, votesession.PhaseEditing, session.Phase())

	input := strings.Join([]string{
		"review",
		"toggle president",
		"writein president Cecil Sagehen",
		"add president 1",
		"add president 1",
		"add president 1",
		"move president 3 1",
		"drop president",
		"review",
		"back",
		"review",
		"submit",
	}, "\n")
	var out bytes.Buffer

	require.NoError(t, newShell(session, strings.NewReader(input), &out).run(context.Background()))

	assert.Contains(t, out.String(), "no positions selected")
	assert.Contains(t, out.String(), "Cecil Sagehen (write-in)")
	assert.Contains(t, out.String(), "Vote confirmed")
	assert.Equal(t, votesession.PhaseSubmitted, session.Phase())

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM vote WHERE election_id = $1`, electionID).Scan(&count))
	assert.Equal(t, 1, count)
}

func TestShellClosedElection(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	server := httptest.NewServer(router.NewRouter(db, cfg))
	defer server.Close()

	testutil.CreateTestElection(t, db, false)

	client := voteclient.New(server.URL, testutil.SessionCookie(cfg, "sagehen@pomona.edu").Value, nil)
	session := votesession.Load(context.Background(), client, votesession.Options{})

	var out bytes.Buffer
	require.NoError(t, newShell(session, strings.NewReader("quit\n"), &out).run(context.Background()))
	assert.Equal(t, votesession.MsgElectionClosed+"\n", out.String())
}
