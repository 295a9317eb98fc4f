// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package votesession

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/aspc/vote/ballot"
	"github.com/aspc/vote/models"
	"github.com/aspc/vote/voteclient"
)

// Messages shown to the voter
const (
	MsgNoElection      = "There is no active election right now."
	MsgElectionClosed  = "Voting for this election has closed."
	MsgAlreadyVoted    = "You have already voted in this election."
	MsgNamesRequired   = "Both first and last name are required."
	MsgAlreadyOnBallot = "This candidate is already on your ballot."
	MsgOneWriteIn      = "Only one write-in is allowed per position."
	MsgUnknownPosition = "That position is not on your ballot."
	MsgWriteInFailed   = "Something went wrong. Please try again."
	MsgSubmitFailed    = "Something went wrong submitting your ballot. Please try again."
	MsgBallotChanged   = "Your ballot changed after review. Please review it again."
)

var (
	ErrSubmitInProgress = errors.New("a submission is already in progress")
	ErrNotEditing       = errors.New("ballot is not open for editing")
	ErrNotReviewing     = errors.New("ballot is not under review")
	ErrBallotChanged    = errors.New("ballot changed since review")
)

// Phase is where the voter is in the session
type Phase int

const (
	PhaseLoading Phase = iota
	PhaseError
	PhaseClosed
	PhaseVoted
	PhaseEditing
	PhaseReviewing
	PhaseSubmitted
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseError:
		return "error"
	case PhaseClosed:
		return "closed"
	case PhaseVoted:
		return "voted"
	case PhaseEditing:
		return "editing"
	case PhaseReviewing:
		return "reviewing"
	case PhaseSubmitted:
		return "submitted"
	}
	return "unknown"
}

// Terminal reports whether the ballot can no longer be shown or edited
func (p Phase) Terminal() bool {
	return p == PhaseError || p == PhaseClosed || p == PhaseVoted || p == PhaseSubmitted
}

// API is the part of the voting API a session needs. *voteclient.Client
// implements it.
type API interface {
	GetElection(ctx context.Context) (models.Election, error)
	VoteStatus(ctx context.Context, electionID string) (bool, error)
	GetBallot(ctx context.Context, electionID string) ([]models.Candidate, error)
	CreateWriteIn(ctx context.Context, electionID string, req models.WriteInRequest) (models.Candidate, error)
	SubmitVotes(ctx context.Context, electionID string, votes []models.Vote) error
}

type Options struct {
	// Now defaults to time.Now
	Now func() time.Time
	// Rand shuffles each section once; nil uses the global source
	Rand *rand.Rand
	// OnRankChange receives every section change
	OnRankChange func(ballot.RankChange)
}

// Session is one voter's pass through an election
type Session struct {
	api API
	now func() time.Time

	mu       sync.Mutex
	phase    Phase
	message  string
	err      error
	election models.Election
	ballots  map[string][]models.Candidate
	reviewed []models.Vote

	directory  *ballot.Directory
	aggregator *ballot.Aggregator
	submitting atomic.Bool
}

// Load bootstraps a session: election, then vote status, then ballot. Each
// step runs only if the previous one succeeded and left voting open. Load
// never returns a partial ballot; failures land in PhaseError.
func Load(ctx context.Context, api API, opts Options) *Session {
	s := &Session{
		api:        api,
		now:        opts.Now,
		phase:      PhaseLoading,
		ballots:    map[string][]models.Candidate{},
		directory:  ballot.NewDirectory(),
		aggregator: ballot.NewAggregator(),
	}
	if s.now == nil {
		s.now = time.Now
	}

	election, err := api.GetElection(ctx)
	if err != nil {
		return s.fail(err)
	}
	s.election = election

	if election.IsOver(s.now()) {
		s.phase, s.message = PhaseClosed, MsgElectionClosed
		return s
	}

	voted, err := api.VoteStatus(ctx, election.ID)
	if err != nil {
		return s.fail(err)
	}
	if voted {
		s.phase, s.message = PhaseVoted, MsgAlreadyVoted
		return s
	}

	candidates, err := api.GetBallot(ctx, election.ID)
	if err != nil {
		return s.fail(err)
	}

	s.ballots = ballot.GroupByPosition(candidates)
	s.directory.Merge(candidates...)

	sections := make([]*ballot.Section, 0, len(s.ballots))
	for position, cs := range s.ballots {
		section := ballot.NewSection(position, cs, opts.Rand)
		if opts.OnRankChange != nil {
			section.OnRankChange(opts.OnRankChange)
		}
		sections = append(sections, section)
	}
	s.aggregator = ballot.NewAggregator(sections...)
	s.phase = PhaseEditing

	slog.Info("ballot loaded", "election_id", election.ID, "positions", len(sections), "candidates", len(candidates))
	return s
}

func (s *Session) fail(err error) *Session {
	slog.Error("failed to load election", "error", err)
	s.phase, s.message, s.err = PhaseError, MsgNoElection, err
	s.ballots = map[string][]models.Candidate{}
	return s
}

func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Message is the last message for the voter, or ""
func (s *Session) Message() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.message
}

// Err is the error behind PhaseError, if any
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *Session) Election() models.Election {
	return s.election
}

// Positions returns the positions on this voter's ballot, sorted
func (s *Session) Positions() []string {
	return s.aggregator.Positions()
}

func (s *Session) Section(position string) (*ballot.Section, bool) {
	return s.aggregator.Section(position)
}

func (s *Session) Aggregator() *ballot.Aggregator {
	return s.aggregator
}

func (s *Session) Directory() *ballot.Directory {
	return s.directory
}

// BallotCandidates returns the candidates loaded for a position. Write-ins
// created this session are not included.
func (s *Session) BallotCandidates(position string) []models.Candidate {
	return append([]models.Candidate(nil), s.ballots[position]...)
}

func (s *Session) CanSubmit() bool {
	return s.Phase() == PhaseEditing && s.aggregator.CanSubmit()
}

// TimeRemaining describes when voting closes, e.g. "closes 2 days from now"
func (s *Session) TimeRemaining() string {
	if s.election.ID == "" {
		return ""
	}
	now := s.now()
	if s.election.IsOver(now) {
		return "closed " + humanize.RelTime(s.election.EndDate, now, "ago", "from now")
	}
	return "closes " + humanize.RelTime(s.election.EndDate, now, "ago", "from now")
}

// WriteInResult is either a candidate or a message for the voter
type WriteInResult struct {
	Candidate models.Candidate
	Message   string
}

func (r WriteInResult) OK() bool {
	return r.Message == ""
}

// CreateWriteIn asks the API for a write-in candidate and records it in the
// directory. It does not touch any section.
func (s *Session) CreateWriteIn(ctx context.Context, firstName, lastName, position string) WriteInResult {
	if s.Phase() != PhaseEditing {
		return WriteInResult{Message: MsgWriteInFailed}
	}
	if _, ok := s.ballots[position]; !ok {
		return WriteInResult{Message: MsgUnknownPosition}
	}
	firstName, lastName = strings.TrimSpace(firstName), strings.TrimSpace(lastName)
	if firstName == "" || lastName == "" {
		return WriteInResult{Message: MsgNamesRequired}
	}

	candidate, err := s.api.CreateWriteIn(ctx, s.election.ID, models.WriteInRequest{
		FirstName: firstName,
		LastName:  lastName,
		Position:  position,
	})
	if err != nil {
		slog.Warn("write-in failed", "error", err, "position", position)
		return WriteInResult{Message: userMessage(err, MsgWriteInFailed)}
	}
	// the API hands back the printed candidate when the name matches one
	if !candidate.WriteIn {
		return WriteInResult{Message: MsgAlreadyOnBallot}
	}

	s.directory.Merge(candidate)
	return WriteInResult{Candidate: candidate}
}

// AddWriteIn creates a write-in and puts it in the position's pool
func (s *Session) AddWriteIn(ctx context.Context, firstName, lastName, position string) WriteInResult {
	section, ok := s.Section(position)
	if !ok {
		return WriteInResult{Message: MsgUnknownPosition}
	}
	if section.HasName(strings.TrimSpace(firstName) + " " + strings.TrimSpace(lastName)) {
		return WriteInResult{Message: MsgAlreadyOnBallot}
	}

	result := s.CreateWriteIn(ctx, firstName, lastName, position)
	if !result.OK() {
		return result
	}

	switch err := section.AddWriteIn(result.Candidate); {
	case err == nil:
		return result
	case errors.Is(err, ballot.ErrAlreadyOnBallot):
		return WriteInResult{Message: MsgAlreadyOnBallot}
	case errors.Is(err, ballot.ErrWriteInExists):
		return WriteInResult{Message: MsgOneWriteIn}
	case errors.Is(err, ballot.ErrInactive):
		return WriteInResult{Message: fmt.Sprintf("Select %s before adding a write-in.", position)}
	default:
		return WriteInResult{Message: MsgWriteInFailed}
	}
}

// ReviewCandidate is one ranked line on the review screen
type ReviewCandidate struct {
	Rank    int
	ID      string
	Name    string
	WriteIn bool
}

// ReviewEntry is one position exactly as it will be submitted
type ReviewEntry struct {
	Position   string
	Candidates []ReviewCandidate
}

// Review moves to the review phase and returns the payload with names
// resolved. It fails with the aggregator's validation error when the ballot
// is not submittable.
func (s *Session) Review() ([]ReviewEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseEditing && s.phase != PhaseReviewing {
		return nil, ErrNotEditing
	}
	if err := s.aggregator.Validate(); err != nil {
		return nil, err
	}

	payload := s.aggregator.Payload()
	entries := make([]ReviewEntry, 0, len(payload))
	for _, vote := range payload {
		entry := ReviewEntry{Position: vote.Position}
		for i, id := range vote.Ranking {
			c := s.resolve(vote.Position, id)
			entry.Candidates = append(entry.Candidates, ReviewCandidate{
				Rank:    i + 1,
				ID:      id,
				Name:    c.Name,
				WriteIn: c.WriteIn,
			})
		}
		entries = append(entries, entry)
	}

	s.phase = PhaseReviewing
	s.message = ""
	s.reviewed = payload
	return entries, nil
}

// resolve looks in the directory, then the loaded ballot for the position
func (s *Session) resolve(position, id string) models.Candidate {
	if c, ok := s.directory.Lookup(id); ok {
		return c
	}
	for _, c := range s.ballots[position] {
		if c.ID == id {
			return c
		}
	}
	return models.Candidate{ID: id, Name: "(unknown)", Position: position}
}

// CloseReview returns to editing with the ballot intact
func (s *Session) CloseReview() error {
	if s.submitting.Load() {
		return ErrSubmitInProgress
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseReviewing {
		return ErrNotReviewing
	}
	s.phase = PhaseEditing
	s.reviewed = nil
	return nil
}

// Submitting reports whether a submission is in flight
func (s *Session) Submitting() bool {
	return s.submitting.Load()
}

// Submit casts the ballot exactly as Review returned it. Only one call runs
// at a time; others return ErrSubmitInProgress without contacting the API.
// If a section changed since Review, nothing is sent and the session goes
// back to editing with ErrBallotChanged. On failure the session stays in
// review with the ballot unchanged and Message holds the text to show.
func (s *Session) Submit(ctx context.Context) error {
	if !s.submitting.CompareAndSwap(false, true) {
		return ErrSubmitInProgress
	}
	defer s.submitting.Store(false)

	s.mu.Lock()
	if s.phase != PhaseReviewing {
		s.mu.Unlock()
		return ErrNotReviewing
	}
	if s.aggregator.Validate() != nil || !samePayload(s.aggregator.Payload(), s.reviewed) {
		s.phase, s.message, s.reviewed = PhaseEditing, MsgBallotChanged, nil
		s.mu.Unlock()
		slog.Warn("ballot changed during review", "election_id", s.election.ID)
		return ErrBallotChanged
	}
	payload := s.reviewed
	s.mu.Unlock()

	err := s.api.SubmitVotes(ctx, s.election.ID, payload)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.message = userMessage(err, MsgSubmitFailed)
		slog.Warn("ballot submission failed", "error", err, "election_id", s.election.ID)
		return err
	}

	s.phase = PhaseSubmitted
	s.message = ""
	slog.Info("ballot submitted", "election_id", s.election.ID, "positions", len(payload))
	return nil
}

func samePayload(a, b []models.Vote) bool {
	return slices.EqualFunc(a, b, func(x, y models.Vote) bool {
		return x.Position == y.Position && slices.Equal(x.Ranking, y.Ranking)
	})
}

// userMessage surfaces a server message verbatim and hides transport detail
func userMessage(err error, fallback string) string {
	var rejected *voteclient.RejectedError
	if errors.As(err, &rejected) && rejected.Message != "" {
		return rejected.Message
	}
	return fallback
}
