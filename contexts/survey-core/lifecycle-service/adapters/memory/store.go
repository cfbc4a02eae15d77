package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"saylov/contexts/survey-core/lifecycle-service/domain/entities"
	domainerrors "saylov/contexts/survey-core/lifecycle-service/domain/errors"
	"saylov/contexts/survey-core/lifecycle-service/ports"

	"github.com/google/uuid"
)

type surveyRecord struct {
	survey entities.Survey
	seq    int
}

type Store struct {
	mu sync.RWMutex

	surveys      map[string]surveyRecord
	candidates   map[string][]entities.Candidate
	channels     map[string]entities.Channel
	channelSeq   []string
	requirements map[string][]entities.ChannelRequirement

	nextSeq int
}

func NewStore() *Store {
	return &Store{
		surveys:      make(map[string]surveyRecord),
		candidates:   make(map[string][]entities.Candidate),
		channels:     make(map[string]entities.Channel),
		requirements: make(map[string][]entities.ChannelRequirement),
	}
}

func (s *Store) CreateSurvey(_ context.Context, survey entities.Survey, candidates []entities.Candidate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	surveyID := strings.TrimSpace(survey.SurveyID)
	s.surveys[surveyID] = surveyRecord{survey: survey, seq: s.nextSeq}
	s.nextSeq++
	s.candidates[surveyID] = append([]entities.Candidate(nil), candidates...)
	return nil
}

func (s *Store) GetSurvey(_ context.Context, surveyID string) (entities.Survey, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.surveys[strings.TrimSpace(surveyID)]
	if !ok {
		return entities.Survey{}, domainerrors.ErrSurveyNotFound
	}
	return record.survey, nil
}

func (s *Store) TransitionSurvey(_ context.Context, survey entities.Survey, from entities.SurveyStatus) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	surveyID := strings.TrimSpace(survey.SurveyID)
	record, ok := s.surveys[surveyID]
	if !ok {
		return false, domainerrors.ErrSurveyNotFound
	}
	if record.survey.Status != from {
		return false, nil
	}
	record.survey = survey
	s.surveys[surveyID] = record
	return true, nil
}

func (s *Store) ListSurveys(_ context.Context, includeRetired bool) ([]entities.Survey, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]surveyRecord, 0, len(s.surveys))
	for _, record := range s.surveys {
		if !includeRetired && record.survey.Status == entities.SurveyStatusRetired {
			continue
		}
		records = append(records, record)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].seq < records[j].seq
	})

	items := make([]entities.Survey, 0, len(records))
	for _, record := range records {
		items = append(items, record.survey)
	}
	return items, nil
}

func (s *Store) AddCandidate(_ context.Context, candidate entities.Candidate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	surveyID := strings.TrimSpace(candidate.SurveyID)
	if _, ok := s.surveys[surveyID]; !ok {
		return domainerrors.ErrSurveyNotFound
	}
	s.candidates[surveyID] = append(s.candidates[surveyID], candidate)
	return nil
}

func (s *Store) ListCandidates(_ context.Context, surveyID string) ([]entities.Candidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := append([]entities.Candidate(nil), s.candidates[strings.TrimSpace(surveyID)]...)
	sort.Slice(items, func(i, j int) bool {
		return items[i].Position < items[j].Position
	})
	return items, nil
}

// SetCandidateVotes overwrites a cached tally; test seeding helper.
func (s *Store) SetCandidateVotes(surveyID string, candidateID string, votes int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := s.candidates[strings.TrimSpace(surveyID)]
	for i := range items {
		if items[i].CandidateID == strings.TrimSpace(candidateID) {
			items[i].VoteCount = votes
		}
	}
}

func (s *Store) CreateChannel(_ context.Context, channel entities.Channel) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.channels {
		if existing.PlatformRef == channel.PlatformRef {
			return domainerrors.ErrChannelAlreadyRegistered
		}
	}
	channelID := strings.TrimSpace(channel.ChannelID)
	s.channels[channelID] = channel
	s.channelSeq = append(s.channelSeq, channelID)
	return nil
}

func (s *Store) GetChannel(_ context.Context, channelID string) (entities.Channel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	channel, ok := s.channels[strings.TrimSpace(channelID)]
	if !ok {
		return entities.Channel{}, domainerrors.ErrChannelNotFound
	}
	return channel, nil
}

func (s *Store) GetChannelByPlatformRef(_ context.Context, platformRef string) (entities.Channel, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, channel := range s.channels {
		if channel.PlatformRef == strings.TrimSpace(platformRef) {
			return channel, true, nil
		}
	}
	return entities.Channel{}, false, nil
}

func (s *Store) DeleteChannel(_ context.Context, channelID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	channelID = strings.TrimSpace(channelID)
	if _, ok := s.channels[channelID]; !ok {
		return domainerrors.ErrChannelNotFound
	}
	delete(s.channels, channelID)
	for i, id := range s.channelSeq {
		if id == channelID {
			s.channelSeq = append(s.channelSeq[:i], s.channelSeq[i+1:]...)
			break
		}
	}
	for surveyID, rows := range s.requirements {
		kept := rows[:0]
		for _, row := range rows {
			if row.ChannelID != channelID {
				kept = append(kept, row)
			}
		}
		s.requirements[surveyID] = kept
	}
	return nil
}

func (s *Store) ListChannels(_ context.Context) ([]entities.Channel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.Channel, 0, len(s.channelSeq))
	for _, channelID := range s.channelSeq {
		if channel, ok := s.channels[channelID]; ok {
			items = append(items, channel)
		}
	}
	return items, nil
}

func (s *Store) IsChannelLinked(_ context.Context, surveyID string, channelID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, row := range s.requirements[strings.TrimSpace(surveyID)] {
		if row.ChannelID == strings.TrimSpace(channelID) {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) LinkChannel(_ context.Context, requirement entities.ChannelRequirement) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	surveyID := strings.TrimSpace(requirement.SurveyID)
	for _, row := range s.requirements[surveyID] {
		if row.ChannelID == requirement.ChannelID {
			return nil
		}
	}
	s.requirements[surveyID] = append(s.requirements[surveyID], requirement)
	return nil
}

func (s *Store) UnlinkChannel(_ context.Context, surveyID string, channelID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	surveyID = strings.TrimSpace(surveyID)
	rows := s.requirements[surveyID]
	kept := rows[:0]
	for _, row := range rows {
		if row.ChannelID != strings.TrimSpace(channelID) {
			kept = append(kept, row)
		}
	}
	s.requirements[surveyID] = kept
	return nil
}

func (s *Store) ListRequiredChannels(_ context.Context, surveyID string) ([]entities.Channel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows := s.requirements[strings.TrimSpace(surveyID)]
	items := make([]entities.Channel, 0, len(rows))
	for _, row := range rows {
		if channel, ok := s.channels[row.ChannelID]; ok {
			items = append(items, channel)
		}
	}
	return items, nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

var _ ports.SurveyRepository = (*Store)(nil)
var _ ports.ChannelRepository = (*Store)(nil)
