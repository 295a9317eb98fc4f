// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ballot

import (
	"errors"
	"math/rand/v2"
	"slices"
	"strings"
	"sync"

	"github.com/aspc/vote/models"
)

var (
	ErrInactive         = errors.New("position is not active")
	ErrNotInPool        = errors.New("candidate is not in the pool")
	ErrNotRanked        = errors.New("candidate is not ranked")
	ErrNoDrag           = errors.New("no drag in progress")
	ErrWrongPosition    = errors.New("candidate belongs to another position")
	ErrAlreadyOnBallot  = errors.New("candidate is already on the ballot")
	ErrWriteInExists    = errors.New("position already has a write-in")
	ErrNotWriteIn       = errors.New("candidate is not a write-in")
	ErrUnknownCandidate = errors.New("candidate is not on this position")
)

// State is where a section sits in its ranking lifecycle
type State int

const (
	StateInactive State = iota
	StateEmpty
	StatePartial
	StateComplete
)

func (s State) String() string {
	switch s {
	case StateInactive:
		return "inactive"
	case StateEmpty:
		return "active-empty"
	case StatePartial:
		return "active-partial"
	case StateComplete:
		return "active-complete"
	}
	return "unknown"
}

// RankChange is emitted after every mutation of a section
type RankChange struct {
	Position     string
	Active       bool
	CandidateIDs []string
	IsComplete   bool
}

// Section owns the ranking for one position. Every candidate loaded into it
// is in exactly one of the pool or the ranked list.
type Section struct {
	mu       sync.Mutex
	position string
	active   bool
	initial  []models.Candidate
	pool     []models.Candidate
	ranked   []models.Candidate
	dragging string
	onChange func(RankChange)
}

// NewSection shuffles candidates once and keeps that order for Reset.
// Sections start inactive.
func NewSection(position string, candidates []models.Candidate, rng *rand.Rand) *Section {
	shuffled := Shuffle(candidates, rng)
	return &Section{
		position: position,
		initial:  shuffled,
		pool:     slices.Clone(shuffled),
	}
}

func (s *Section) Position() string {
	return s.position
}

// OnRankChange registers fn to receive every change. fn runs after the
// section lock is released, so it may read the section.
func (s *Section) OnRankChange(fn func(RankChange)) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

func (s *Section) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

func (s *Section) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

func (s *Section) IsComplete() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.completeLocked()
}

// Pool returns a copy of the unranked candidates
func (s *Section) Pool() []models.Candidate {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.pool)
}

// Ranked returns a copy of the ranked candidates, rank 1 first
func (s *Section) Ranked() []models.Candidate {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.ranked)
}

func (s *Section) RankedIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ids(s.ranked)
}

// Snapshot returns the current ranking as it would be emitted
func (s *Section) Snapshot() RankChange {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.changeLocked()
}

// Toggle flips the section between inactive and active. Ranking progress is
// kept across toggles.
func (s *Section) Toggle() bool {
	s.mu.Lock()
	s.active = !s.active
	active := s.active
	s.emitUnlock()
	return active
}

func (s *Section) SetActive(active bool) {
	s.mu.Lock()
	if s.active == active {
		s.mu.Unlock()
		return
	}
	s.active = active
	s.emitUnlock()
}

// Promote moves a pooled candidate to the end of the ranking
func (s *Section) Promote(id string) error {
	s.mu.Lock()
	if !s.active {
		s.mu.Unlock()
		return ErrInactive
	}
	i := indexOf(s.pool, id)
	if i == -1 {
		s.mu.Unlock()
		return ErrNotInPool
	}
	c := s.pool[i]
	s.pool = slices.Delete(s.pool, i, i+1)
	s.ranked = append(s.ranked, c)
	s.emitUnlock()
	return nil
}

// Demote moves a ranked candidate to the end of the pool
func (s *Section) Demote(id string) error {
	s.mu.Lock()
	if !s.active {
		s.mu.Unlock()
		return ErrInactive
	}
	i := indexOf(s.ranked, id)
	if i == -1 {
		s.mu.Unlock()
		return ErrNotRanked
	}
	c := s.ranked[i]
	s.ranked = slices.Delete(s.ranked, i, i+1)
	s.pool = append(s.pool, c)
	s.emitUnlock()
	return nil
}

// Reorder places dragged immediately before target in the ranking.
// Equal or unranked ids leave the ranking unchanged.
func (s *Section) Reorder(dragged, target string) error {
	s.mu.Lock()
	if !s.active {
		s.mu.Unlock()
		return ErrInactive
	}
	s.reorderLocked(dragged, target)
	s.emitUnlock()
	return nil
}

// BeginDrag marks a ranked candidate as the drag source
func (s *Section) BeginDrag(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active {
		return ErrInactive
	}
	if indexOf(s.ranked, id) == -1 {
		return ErrNotRanked
	}
	s.dragging = id
	return nil
}

// DragOver applies a hover over target to the current ranking
func (s *Section) DragOver(target string) error {
	s.mu.Lock()
	if !s.active {
		s.mu.Unlock()
		return ErrInactive
	}
	if s.dragging == "" {
		s.mu.Unlock()
		return ErrNoDrag
	}
	s.reorderLocked(s.dragging, target)
	s.emitUnlock()
	return nil
}

func (s *Section) EndDrag() {
	s.mu.Lock()
	s.dragging = ""
	s.mu.Unlock()
}

// Dragging returns the current drag source, or ""
func (s *Section) Dragging() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dragging
}

// Reset clears the ranking and restores the pool to the order it had at load.
// Write-ins added this session stay in the pool after it.
func (s *Section) Reset() error {
	s.mu.Lock()
	if !s.active {
		s.mu.Unlock()
		return ErrInactive
	}
	var writeIns []models.Candidate
	for _, c := range slices.Concat(s.pool, s.ranked) {
		if c.WriteIn && indexOf(s.initial, c.ID) == -1 {
			writeIns = append(writeIns, c)
		}
	}
	s.pool = slices.Concat(s.initial, writeIns)
	s.ranked = nil
	s.dragging = ""
	s.emitUnlock()
	return nil
}

// HasName reports whether a candidate with this name, ignoring case, is
// already on the section
func (s *Section) HasName(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hasNameLocked(name)
}

// AddWriteIn appends a newly created write-in to the pool. A section holds at
// most one write-in and never the same candidate or name twice.
func (s *Section) AddWriteIn(c models.Candidate) error {
	s.mu.Lock()
	if !s.active {
		s.mu.Unlock()
		return ErrInactive
	}
	err := s.checkWriteInLocked(c)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.pool = append(s.pool, c)
	s.emitUnlock()
	return nil
}

// RemoveWriteIn drops a write-in from the section entirely
func (s *Section) RemoveWriteIn(id string) error {
	s.mu.Lock()
	if !s.active {
		s.mu.Unlock()
		return ErrInactive
	}
	if i := indexOf(s.pool, id); i != -1 {
		if !s.pool[i].WriteIn {
			s.mu.Unlock()
			return ErrNotWriteIn
		}
		s.pool = slices.Delete(s.pool, i, i+1)
	} else if i := indexOf(s.ranked, id); i != -1 {
		if !s.ranked[i].WriteIn {
			s.mu.Unlock()
			return ErrNotWriteIn
		}
		s.ranked = slices.Delete(s.ranked, i, i+1)
		if s.dragging == id {
			s.dragging = ""
		}
	} else {
		s.mu.Unlock()
		return ErrUnknownCandidate
	}
	s.emitUnlock()
	return nil
}

func (s *Section) checkWriteInLocked(c models.Candidate) error {
	if !c.WriteIn {
		return ErrNotWriteIn
	}
	if c.Position != s.position {
		return ErrWrongPosition
	}
	if indexOf(s.pool, c.ID) != -1 || indexOf(s.ranked, c.ID) != -1 {
		return ErrAlreadyOnBallot
	}
	if s.hasNameLocked(c.Name) {
		return ErrAlreadyOnBallot
	}
	for _, existing := range slices.Concat(s.pool, s.ranked) {
		if existing.WriteIn {
			return ErrWriteInExists
		}
	}
	return nil
}

func (s *Section) hasNameLocked(name string) bool {
	name = strings.TrimSpace(name)
	for _, c := range s.pool {
		if strings.EqualFold(c.Name, name) {
			return true
		}
	}
	for _, c := range s.ranked {
		if strings.EqualFold(c.Name, name) {
			return true
		}
	}
	return false
}

func (s *Section) reorderLocked(dragged, target string) {
	order := Reorder(ids(s.ranked), dragged, target)
	byID := make(map[string]models.Candidate, len(s.ranked))
	for _, c := range s.ranked {
		byID[c.ID] = c
	}
	for i, id := range order {
		s.ranked[i] = byID[id]
	}
}

func (s *Section) completeLocked() bool {
	return len(s.pool) == 0 && len(s.ranked) > 0
}

func (s *Section) stateLocked() State {
	switch {
	case !s.active:
		return StateInactive
	case s.completeLocked():
		return StateComplete
	case len(s.ranked) > 0:
		return StatePartial
	}
	return StateEmpty
}

func (s *Section) changeLocked() RankChange {
	return RankChange{
		Position:     s.position,
		Active:       s.active,
		CandidateIDs: ids(s.ranked),
		IsComplete:   s.completeLocked(),
	}
}

// emitUnlock snapshots the change, releases the lock and notifies
func (s *Section) emitUnlock() {
	change := s.changeLocked()
	fn := s.onChange
	s.mu.Unlock()
	if fn != nil {
		fn(change)
	}
}

func indexOf(candidates []models.Candidate, id string) int {
	return slices.IndexFunc(candidates, func(c models.Candidate) bool { return c.ID == id })
}
