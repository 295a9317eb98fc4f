package models

import "time"

// API envelope status values
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// SessionCookie is the cookie carrying the signed voter session
const SessionCookie = "aspc_session"

// Housing values on the voter roll
const (
	CampusNorth = "north"
	CampusSouth = "south"
)

// Senate positions. Positions are free-form strings on candidates; these are
// the ones the ballot filter knows about.
const (
	PositionPresident                 = "president"
	PositionVPFinance                 = "vp_finance"
	PositionVPStudentAffairs          = "vp_student_affairs"
	PositionVPAcademicAffairs         = "vp_academic_affairs"
	PositionSeniorClassPresident      = "senior_class_president"
	PositionJuniorClassPresident      = "junior_class_president"
	PositionSophomoreClassPresident   = "sophomore_class_president"
	PositionFirstYearClassPresident   = "first_year_class_president"
	PositionNorthCampusRepresentative = "north_campus_representative"
	PositionSouthCampusRepresentative = "south_campus_representative"
	PositionCommencementSpeaker       = "commencement_speaker"
	PositionClassName                 = "class_name"
)

// Request types

type CreateElectionRequest struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	StartDate   time.Time `json:"startDate"`
	EndDate     time.Time `json:"endDate"`
}

type AddCandidateRequest struct {
	Name     string `json:"name"`
	Position string `json:"position"`
}

type RegisterVoterRequest struct {
	Email     string `json:"email"`
	CampusRep string `json:"campusRep"`
	Year      int    `json:"year"`
}

type WriteInRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Position  string `json:"position"`
}

// Vote is one position's ranking; rank 1 is Ranking[0].
type Vote struct {
	Position string   `json:"position"`
	Ranking  []string `json:"ranking"`
}

type SubmitVotesRequest struct {
	Votes []Vote `json:"votes"`
}

type DevLoginRequest struct {
	Email string `json:"email"`
}

// Response types

type VoteStatusResponse struct {
	Status   string `json:"status"`
	HasVoted bool   `json:"hasVoted"`
}

type BallotResponse struct {
	Status string      `json:"status"`
	Data   []Candidate `json:"data"`
}

type CandidateResponse struct {
	Status string    `json:"status"`
	Data   Candidate `json:"data"`
}

type StatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

type ResultsResponse struct {
	Election  Election        `json:"election"`
	Positions []PositionTally `json:"positions"`
}

// Domain types

type Election struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	StartDate   time.Time `json:"startDate"`
	EndDate     time.Time `json:"endDate"`
	CreatedAt   time.Time `json:"createdAt"`
}

// IsOver reports whether voting has closed at now.
func (e Election) IsOver(now time.Time) bool {
	return now.After(e.EndDate)
}

type Candidate struct {
	ID         string `json:"id"`
	ElectionID string `json:"electionId,omitempty"`
	Name       string `json:"name"`
	Position   string `json:"position"`
	WriteIn    bool   `json:"writeIn"`
}

// VoterRoll is one student's eligibility record for an election.
type VoterRoll struct {
	ElectionID string `json:"electionId"`
	Email      string `json:"email"`
	CampusRep  string `json:"campusRep"`
	Year       int    `json:"year"`
	HasVoted   bool   `json:"hasVoted"`
}

// Tally result types

type FirstPreference struct {
	CandidateID   string `json:"candidateId"`
	CandidateName string `json:"candidateName"`
	Count         int    `json:"count"`
}

type RunoffRound struct {
	Round      int            `json:"round"`
	Counts     map[string]int `json:"counts"`
	Eliminated string         `json:"eliminated,omitempty"`
}

type PositionTally struct {
	Position        string            `json:"position"`
	TotalVotes      int               `json:"totalVotes"`
	FirstPreference []FirstPreference `json:"firstPreference"`
	Winner          string            `json:"winner,omitempty"`
	Tie             []string          `json:"tie,omitempty"`
	RunoffUsed      bool              `json:"runoffUsed"`
	Rounds          []RunoffRound     `json:"rounds"`
}

// Error response

type ErrorResponse struct {
	Status  string `json:"status"`
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
