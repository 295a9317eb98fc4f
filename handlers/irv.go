// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/aspc/vote/models"
)

// ComputeTally counts every position of an election: first preferences,
// then instant-runoff rounds
func ComputeTally(db *sql.DB, electionID string) ([]models.PositionTally, error) {
	candidates, err := getCandidates(db, electionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get candidates: %w", err)
	}

	names := make(map[string]string, len(candidates))
	byPosition := make(map[string][]string)
	for _, c := range candidates {
		names[c.ID] = c.Name
		byPosition[c.Position] = append(byPosition[c.Position], c.ID)
	}

	rankings, err := getRankings(db, electionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get rankings: %w", err)
	}

	positions := make([]string, 0, len(byPosition))
	for position := range byPosition {
		positions = append(positions, position)
	}
	sort.Strings(positions)

	results := make([]models.PositionTally, 0, len(positions))
	for _, position := range positions {
		results = append(results, TallyPosition(position, byPosition[position], names, rankings[position]))
	}

	return results, nil
}

// TallyPosition runs first-preference and instant-runoff counts for one position
func TallyPosition(position string, candidateIDs []string, names map[string]string, ballots [][]string) models.PositionTally {
	tally := models.PositionTally{
		Position:        position,
		TotalVotes:      len(ballots),
		FirstPreference: countFirstPreference(ballots, names),
		Rounds:          []models.RunoffRound{},
	}

	winner, tie, rounds := runInstantRunoff(ballots, candidateIDs)
	tally.Rounds = append(tally.Rounds, rounds...)
	tally.RunoffUsed = len(rounds) > 1

	if winner != "" {
		tally.Winner = nameOf(names, winner)
	}
	for _, id := range tie {
		tally.Tie = append(tally.Tie, nameOf(names, id))
	}

	return tally
}

// getRankings retrieves all rankings grouped by position
func getRankings(db *sql.DB, electionID string) (map[string][][]string, error) {
	rows, err := db.Query(`
		SELECT position, ranking
		FROM vote
		WHERE election_id = $1
		ORDER BY id
	`, electionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rankings := make(map[string][][]string)
	for rows.Next() {
		var position, raw string
		if err := rows.Scan(&position, &raw); err != nil {
			return nil, err
		}
		var ranking []string
		if err := json.Unmarshal([]byte(raw), &ranking); err != nil {
			return nil, fmt.Errorf("corrupt ranking for %s: %w", position, err)
		}
		rankings[position] = append(rankings[position], ranking)
	}

	return rankings, rows.Err()
}

// countFirstPreference counts rank-1 choices, highest first
func countFirstPreference(ballots [][]string, names map[string]string) []models.FirstPreference {
	counts := make(map[string]int)
	for _, ballot := range ballots {
		if len(ballot) > 0 {
			counts[ballot[0]]++
		}
	}

	results := make([]models.FirstPreference, 0, len(counts))
	for id, count := range counts {
		results = append(results, models.FirstPreference{
			CandidateID:   id,
			CandidateName: nameOf(names, id),
			Count:         count,
		})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Count != results[j].Count {
			return results[i].Count > results[j].Count
		}
		return results[i].CandidateID < results[j].CandidateID
	})

	return results
}

// runInstantRunoff counts each ballot for its highest-ranked remaining
// candidate. A strict majority of all ballots wins; two remaining candidates
// with equal counts tie; otherwise the lowest is eliminated and the next
// round begins. Ties for last are broken by eliminating the greater ID.
func runInstantRunoff(ballots [][]string, candidateIDs []string) (winner string, tie []string, rounds []models.RunoffRound) {
	if len(ballots) == 0 || len(candidateIDs) == 0 {
		return "", nil, nil
	}

	active := make(map[string]bool, len(candidateIDs))
	for _, id := range candidateIDs {
		active[id] = true
	}

	majority := len(ballots)/2 + 1

	for round := 1; ; round++ {
		counts := make(map[string]int, len(active))
		for id := range active {
			counts[id] = 0
		}
		for _, ballot := range ballots {
			for _, id := range ballot {
				if active[id] {
					counts[id]++
					break
				}
			}
		}

		standing := make([]string, 0, len(active))
		for id := range active {
			standing = append(standing, id)
		}
		sort.Slice(standing, func(i, j int) bool {
			if counts[standing[i]] != counts[standing[j]] {
				return counts[standing[i]] > counts[standing[j]]
			}
			return standing[i] < standing[j]
		})

		result := models.RunoffRound{Round: round, Counts: counts}

		leader := standing[0]
		if len(standing) == 1 || counts[leader] >= majority {
			rounds = append(rounds, result)
			return leader, nil, rounds
		}

		if len(standing) == 2 && counts[standing[0]] == counts[standing[1]] {
			rounds = append(rounds, result)
			return "", standing, rounds
		}

		eliminated := standing[len(standing)-1]
		result.Eliminated = eliminated
		rounds = append(rounds, result)
		delete(active, eliminated)
	}
}

func nameOf(names map[string]string, id string) string {
	if name, ok := names[id]; ok {
		return name
	}
	return "(unknown)"
}
