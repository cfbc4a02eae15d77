package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"saylov/contexts/survey-core/voting-engine/domain/entities"
	domainerrors "saylov/contexts/survey-core/voting-engine/domain/errors"
	"saylov/contexts/survey-core/voting-engine/ports"
)

// Store keeps the whole voting state behind one mutex so vote insertion and
// the tally increment are observed atomically, matching the transactional
// guarantee of the database adapter.
type Store struct {
	mu sync.RWMutex

	votes     map[string]entities.Vote
	voteOrder []string

	participants map[string]entities.Participant
	joinOrder    []string

	surveys    map[string]ports.SurveyProjection
	candidates map[string][]ports.CandidateProjection
	required   map[string][]entities.RequiredChannel

	memberships map[string]map[string]entities.MembershipStatus
	oracleDown  map[string]bool
}

func NewStore() *Store {
	return &Store{
		votes:        make(map[string]entities.Vote),
		participants: make(map[string]entities.Participant),
		surveys:      make(map[string]ports.SurveyProjection),
		candidates:   make(map[string][]ports.CandidateProjection),
		required:     make(map[string][]entities.RequiredChannel),
		memberships:  make(map[string]map[string]entities.MembershipStatus),
		oracleDown:   make(map[string]bool),
	}
}

func voteKey(participantID, surveyID string) string {
	return participantID + "|" + surveyID
}

func (s *Store) InsertVote(_ context.Context, vote entities.Vote) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := voteKey(vote.ParticipantID, vote.SurveyID)
	if _, exists := s.votes[key]; exists {
		return domainerrors.ErrDuplicateVote
	}

	// A vote row without a matching tally would break the ledger-equals-tally
	// invariant, so the candidate must exist before anything is recorded.
	projections := s.candidates[vote.SurveyID]
	target := -1
	for i := range projections {
		if projections[i].CandidateID == vote.CandidateID {
			target = i
			break
		}
	}
	if target < 0 {
		return domainerrors.ErrUnknownCandidate
	}

	s.votes[key] = vote
	s.voteOrder = append(s.voteOrder, key)
	projections[target].VoteCount++
	return nil
}

func (s *Store) HasVoted(_ context.Context, participantID string, surveyID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, exists := s.votes[voteKey(participantID, surveyID)]
	return exists, nil
}

func (s *Store) ListVotesBySurvey(_ context.Context, surveyID string) ([]entities.Vote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	votes := make([]entities.Vote, 0)
	for _, key := range s.voteOrder {
		vote := s.votes[key]
		if vote.SurveyID == surveyID {
			votes = append(votes, vote)
		}
	}
	return votes, nil
}

func (s *Store) SaveParticipant(_ context.Context, participant entities.Participant) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.participants[participant.ParticipantID]; !exists {
		s.joinOrder = append(s.joinOrder, participant.ParticipantID)
	}
	s.participants[participant.ParticipantID] = participant
	return nil
}

func (s *Store) GetParticipant(_ context.Context, participantID string) (entities.Participant, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	participant, exists := s.participants[participantID]
	return participant, exists, nil
}

func (s *Store) ListParticipants(_ context.Context) ([]entities.Participant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	participants := make([]entities.Participant, 0, len(s.joinOrder))
	for _, id := range s.joinOrder {
		participants = append(participants, s.participants[id])
	}
	return participants, nil
}

func (s *Store) GetSurvey(_ context.Context, surveyID string) (ports.SurveyProjection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	survey, exists := s.surveys[surveyID]
	if !exists {
		return ports.SurveyProjection{}, domainerrors.ErrSurveyNotFound
	}
	return survey, nil
}

func (s *Store) ListCandidates(_ context.Context, surveyID string) ([]ports.CandidateProjection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	projections := append([]ports.CandidateProjection(nil), s.candidates[surveyID]...)
	sort.SliceStable(projections, func(i, j int) bool {
		return projections[i].Position < projections[j].Position
	})
	return projections, nil
}

func (s *Store) ListRequiredChannels(_ context.Context, surveyID string) ([]entities.RequiredChannel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]entities.RequiredChannel(nil), s.required[surveyID]...), nil
}

func (s *Store) ChatMember(_ context.Context, platformRef string, participantID string) (entities.MembershipStatus, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.oracleDown[platformRef] {
		return "", domainerrors.ErrOracleUnavailable
	}
	if statuses, ok := s.memberships[platformRef]; ok {
		if status, ok := statuses[participantID]; ok {
			return status, nil
		}
	}
	return entities.MembershipNotMember, nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

// SetSurvey seeds the lifecycle projection used by vote checks.
func (s *Store) SetSurvey(projection ports.SurveyProjection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.surveys[projection.SurveyID] = projection
}

// SetCandidates replaces the candidate projection for a survey.
func (s *Store) SetCandidates(surveyID string, projections []ports.CandidateProjection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.candidates[surveyID] = append([]ports.CandidateProjection(nil), projections...)
}

// SetRequiredChannels replaces the channel requirements for a survey.
func (s *Store) SetRequiredChannels(surveyID string, channels []entities.RequiredChannel) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.required[surveyID] = append([]entities.RequiredChannel(nil), channels...)
}

// SetMembership records the oracle answer for a participant in a channel.
func (s *Store) SetMembership(platformRef string, participantID string, status entities.MembershipStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.memberships[platformRef] == nil {
		s.memberships[platformRef] = make(map[string]entities.MembershipStatus)
	}
	s.memberships[platformRef][participantID] = status
}

// SetOracleFailure makes membership lookups for the channel fail.
func (s *Store) SetOracleFailure(platformRef string, down bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.oracleDown[platformRef] = down
}

// CandidateVoteCount reads the cached tally kept alongside the ledger.
func (s *Store) CandidateVoteCount(surveyID string, candidateID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, projection := range s.candidates[surveyID] {
		if projection.CandidateID == candidateID {
			return projection.VoteCount
		}
	}
	return 0
}

var (
	_ ports.VoteRepository        = (*Store)(nil)
	_ ports.ParticipantRepository = (*Store)(nil)
	_ ports.SurveyReader          = (*Store)(nil)
	_ ports.MembershipOracle      = (*Store)(nil)
	_ ports.Clock                 = (*Store)(nil)
)
