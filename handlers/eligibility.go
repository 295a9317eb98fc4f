// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import "github.com/aspc/vote/models"

// restrictedPositions are only on the ballots of students whose housing or
// class year matches. First-year class president is elected separately in
// the fall and never appears here.
var restrictedPositions = map[string]bool{
	models.PositionFirstYearClassPresident:   true,
	models.PositionSophomoreClassPresident:   true,
	models.PositionJuniorClassPresident:      true,
	models.PositionSeniorClassPresident:      true,
	models.PositionNorthCampusRepresentative: true,
	models.PositionSouthCampusRepresentative: true,
	models.PositionCommencementSpeaker:       true,
	models.PositionClassName:                 true,
}

// Rising class: students vote for next year's class president
var classPresidentByYear = map[int]string{
	1: models.PositionSophomoreClassPresident,
	2: models.PositionJuniorClassPresident,
	3: models.PositionSeniorClassPresident,
}

var campusRepByHousing = map[string]string{
	models.CampusNorth: models.PositionNorthCampusRepresentative,
	models.CampusSouth: models.PositionSouthCampusRepresentative,
}

// IsEligible reports whether position belongs on this voter's ballot
func IsEligible(position string, roll models.VoterRoll) bool {
	if !restrictedPositions[position] {
		return true
	}

	if campusRepByHousing[roll.CampusRep] == position {
		return true
	}

	// Seniors vote for commencement speaker and class name instead
	if roll.Year == 4 {
		return position == models.PositionCommencementSpeaker || position == models.PositionClassName
	}

	return classPresidentByYear[roll.Year] == position
}
