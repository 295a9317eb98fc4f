// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the voting API.

# Request Types

Types for parsing incoming JSON:

  - CreateElectionRequest: name, description, startDate, endDate
  - AddCandidateRequest: name, position
  - RegisterVoterRequest: email, campusRep, year
  - WriteInRequest: firstName, lastName, position
  - SubmitVotesRequest: votes ([]Vote)

# Response Types

Every voter-facing response carries a status envelope:

  - VoteStatusResponse: status, hasVoted
  - BallotResponse: status, data ([]Candidate)
  - CandidateResponse: status, data (Candidate)
  - StatusResponse: status, message
  - ErrorResponse: status, error, message

# Domain Types

  - Election: name, description and the voting window
  - Candidate: a named entry for one position, possibly a write-in
  - VoterRoll: per-election eligibility (housing, class year, has voted)
  - Vote: one position's ranking, first element is rank 1
  - PositionTally: first preferences and instant-runoff rounds

# Positions

Positions are plain strings. The Position* constants name the senate
positions that the ballot filter restricts by housing or class year; any
other position is on every ballot.
*/
package models
