package entities

import "time"

// Vote is keyed by (participant, survey); the storage layer enforces the
// pair's uniqueness and is the sole arbiter when attempts race.
type Vote struct {
	ParticipantID string
	SurveyID      string
	CandidateID   string
	CreatedAt     time.Time
}

type Participant struct {
	ParticipantID string
	PhoneNumber   string
	FullName      string
	JoinedAt      time.Time
}

type MembershipStatus string

const (
	MembershipMember        MembershipStatus = "member"
	MembershipAdministrator MembershipStatus = "administrator"
	MembershipOwner         MembershipStatus = "owner"
	MembershipNotMember     MembershipStatus = "not_member"
)

// Satisfies reports whether the status counts as channel membership for the
// access gate.
func (m MembershipStatus) Satisfies() bool {
	switch m {
	case MembershipMember, MembershipAdministrator, MembershipOwner:
		return true
	default:
		return false
	}
}

type RequiredChannel struct {
	ChannelID   string
	PlatformRef string
	Name        string
	JoinURL     string
}

type AccessDecision struct {
	Granted         bool
	MissingChannels []RequiredChannel
}

type Standing struct {
	CandidateID string
	FullName    string
	VoteCount   int
	Percent     float64
}

type ParticipationRow struct {
	ParticipantID string
	FullName      string
	PhoneNumber   string
	Voted         bool
	CandidateID   string
	CandidateName string
}
