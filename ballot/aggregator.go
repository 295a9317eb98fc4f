// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ballot

import (
	"errors"
	"fmt"
	"slices"
	"sort"

	"go.uber.org/multierr"

	"github.com/aspc/vote/models"
)

var (
	ErrNoActivePositions = errors.New("no positions selected")
	ErrIncomplete        = errors.New("ranking is incomplete")
)

// CanSubmit reports whether at least one position is active and every active
// position has a complete ranking
func CanSubmit(active map[string]bool, complete map[string]bool) bool {
	count := 0
	for position, on := range active {
		if !on {
			continue
		}
		count++
		if !complete[position] {
			return false
		}
	}
	return count > 0
}

// BuildPayload emits one vote per active position, sorted by position.
// Inactive positions are left out even when they hold a ranking.
func BuildPayload(active map[string]bool, rankings map[string][]string) []models.Vote {
	positions := make([]string, 0, len(active))
	for position, on := range active {
		if on {
			positions = append(positions, position)
		}
	}
	sort.Strings(positions)

	votes := make([]models.Vote, 0, len(positions))
	for _, position := range positions {
		votes = append(votes, models.Vote{
			Position: position,
			Ranking:  slices.Clone(rankings[position]),
		})
	}
	return votes
}

// Aggregator combines the sections of one ballot
type Aggregator struct {
	sections map[string]*Section
}

func NewAggregator(sections ...*Section) *Aggregator {
	a := &Aggregator{sections: make(map[string]*Section, len(sections))}
	for _, s := range sections {
		a.sections[s.Position()] = s
	}
	return a
}

func (a *Aggregator) Section(position string) (*Section, bool) {
	s, ok := a.sections[position]
	return s, ok
}

// Positions returns every position on the ballot, sorted
func (a *Aggregator) Positions() []string {
	positions := make([]string, 0, len(a.sections))
	for position := range a.sections {
		positions = append(positions, position)
	}
	sort.Strings(positions)
	return positions
}

// snapshot reads each section once so all derived values agree
func (a *Aggregator) snapshot() (active, complete map[string]bool, rankings map[string][]string) {
	active = make(map[string]bool, len(a.sections))
	complete = make(map[string]bool, len(a.sections))
	rankings = make(map[string][]string, len(a.sections))
	for position, s := range a.sections {
		change := s.Snapshot()
		active[position] = change.Active
		complete[position] = change.IsComplete
		rankings[position] = change.CandidateIDs
	}
	return active, complete, rankings
}

func (a *Aggregator) ActiveCount() int {
	active, _, _ := a.snapshot()
	count := 0
	for _, on := range active {
		if on {
			count++
		}
	}
	return count
}

func (a *Aggregator) CanSubmit() bool {
	active, complete, _ := a.snapshot()
	return CanSubmit(active, complete)
}

func (a *Aggregator) Payload() []models.Vote {
	active, _, rankings := a.snapshot()
	return BuildPayload(active, rankings)
}

// Validate explains why the ballot cannot be submitted, naming every
// incomplete active position. It returns nil when CanSubmit is true.
func (a *Aggregator) Validate() error {
	active, complete, _ := a.snapshot()

	var err error
	count := 0
	for _, position := range a.Positions() {
		if !active[position] {
			continue
		}
		count++
		if !complete[position] {
			err = multierr.Append(err, fmt.Errorf("%s: %w", position, ErrIncomplete))
		}
	}
	if count == 0 {
		return ErrNoActivePositions
	}
	return err
}
