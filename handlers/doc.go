// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the ASPC voting API.

# Handler Types

Each handler is a struct with database and config dependencies:

  - VotingHandler: election lookup, vote status, ballot, write-ins, casting
  - AdminHandler: elections, candidates and the voter roll
  - ResultsHandler: instant-runoff results once voting closes
  - SessionHandler: development session cookies

	votingHandler := handlers.NewVotingHandler(db, cfg)

# Ballot Eligibility

GetBallot filters candidates by the voter's roll entry. Campus
representative seats follow housing, class president seats follow class
year (a first-year votes for next year's sophomore president, and so on),
and seniors also get commencement speaker and class name. Positions outside
the restricted set are on every ballot. RecordVotes applies the same filter.

# Casting

RecordVotes validates every ranking (non-empty, no duplicates, candidates
of that position, at most one write-in), then in one transaction flips
has_voted with a conditional update and stores one anonymous row per
position. A voter who already voted gets "Unable to submit vote".

# Tallying

ComputeTally counts first preferences and runs instant runoff per position.
A candidate needs a majority of all ballots for the position; exhausted
ballots still count toward the total. Two candidates left level is a tie.

# Error Responses

All errors use middleware.ErrorResponse:

	{"status": "error", "error": "Bad Request", "message": "Election has closed"}

The ballot client shows message verbatim.
*/
package handlers
