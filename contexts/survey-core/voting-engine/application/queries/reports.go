package queries

import (
	"context"
	"sort"
	"strings"

	"saylov/contexts/survey-core/voting-engine/domain/entities"
	domainerrors "saylov/contexts/survey-core/voting-engine/domain/errors"
	"saylov/contexts/survey-core/voting-engine/ports"
)

type ReportUseCase struct {
	Votes        ports.VoteRepository
	Participants ports.ParticipantRepository
	Surveys      ports.SurveyReader
}

// Standings derives ranked results straight from the ledger. Candidates are
// ordered by vote count descending; ties keep the order candidates were added
// to the survey.
func (uc ReportUseCase) Standings(ctx context.Context, surveyID string) ([]entities.Standing, error) {
	surveyID = strings.TrimSpace(surveyID)
	if surveyID == "" {
		return nil, domainerrors.ErrSurveyNotFound
	}
	if _, err := uc.Surveys.GetSurvey(ctx, surveyID); err != nil {
		return nil, err
	}

	candidates, err := uc.Surveys.ListCandidates(ctx, surveyID)
	if err != nil {
		return nil, err
	}
	votes, err := uc.Votes.ListVotesBySurvey(ctx, surveyID)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int, len(candidates))
	for _, vote := range votes {
		counts[vote.CandidateID]++
	}
	total := len(votes)

	standings := make([]entities.Standing, 0, len(candidates))
	for _, candidate := range candidates {
		count := counts[candidate.CandidateID]
		percent := 0.0
		if total > 0 {
			percent = float64(count) / float64(total) * 100
		}
		standings = append(standings, entities.Standing{
			CandidateID: candidate.CandidateID,
			FullName:    candidate.FullName,
			VoteCount:   count,
			Percent:     percent,
		})
	}
	sort.SliceStable(standings, func(i, j int) bool {
		return standings[i].VoteCount > standings[j].VoteCount
	})
	return standings, nil
}

// ParticipationReport lists every registered participant with their phone
// number and, when they voted, the candidate they chose. Voters come first,
// grouped by candidate, then everyone who has not voted yet.
func (uc ReportUseCase) ParticipationReport(ctx context.Context, surveyID string) ([]entities.ParticipationRow, error) {
	surveyID = strings.TrimSpace(surveyID)
	if surveyID == "" {
		return nil, domainerrors.ErrSurveyNotFound
	}
	if _, err := uc.Surveys.GetSurvey(ctx, surveyID); err != nil {
		return nil, err
	}

	candidates, err := uc.Surveys.ListCandidates(ctx, surveyID)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(candidates))
	order := make(map[string]int, len(candidates))
	for _, candidate := range candidates {
		names[candidate.CandidateID] = candidate.FullName
		order[candidate.CandidateID] = candidate.Position
	}

	votes, err := uc.Votes.ListVotesBySurvey(ctx, surveyID)
	if err != nil {
		return nil, err
	}
	chosen := make(map[string]string, len(votes))
	for _, vote := range votes {
		chosen[vote.ParticipantID] = vote.CandidateID
	}

	participants, err := uc.Participants.ListParticipants(ctx)
	if err != nil {
		return nil, err
	}

	voters := make([]entities.ParticipationRow, 0, len(chosen))
	absent := make([]entities.ParticipationRow, 0, len(participants))
	for _, participant := range participants {
		row := entities.ParticipationRow{
			ParticipantID: participant.ParticipantID,
			FullName:      participant.FullName,
			PhoneNumber:   participant.PhoneNumber,
		}
		if candidateID, ok := chosen[participant.ParticipantID]; ok {
			row.Voted = true
			row.CandidateID = candidateID
			row.CandidateName = names[candidateID]
			voters = append(voters, row)
		} else {
			absent = append(absent, row)
		}
	}

	sort.SliceStable(voters, func(i, j int) bool {
		if order[voters[i].CandidateID] != order[voters[j].CandidateID] {
			return order[voters[i].CandidateID] < order[voters[j].CandidateID]
		}
		return voters[i].FullName < voters[j].FullName
	})
	sort.SliceStable(absent, func(i, j int) bool {
		return absent[i].FullName < absent[j].FullName
	})
	return append(voters, absent...), nil
}

// HasVoted reports whether the participant already holds a vote in the survey.
func (uc ReportUseCase) HasVoted(ctx context.Context, participantID string, surveyID string) (bool, error) {
	participantID = strings.TrimSpace(participantID)
	surveyID = strings.TrimSpace(surveyID)
	if participantID == "" || surveyID == "" {
		return false, domainerrors.ErrInvalidVoteInput
	}
	return uc.Votes.HasVoted(ctx, participantID, surveyID)
}
