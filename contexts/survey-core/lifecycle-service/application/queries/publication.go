package queries

import (
	"context"
	"sort"
	"strings"

	"saylov/contexts/survey-core/lifecycle-service/domain/entities"
	domainerrors "saylov/contexts/survey-core/lifecycle-service/domain/errors"
	"saylov/contexts/survey-core/lifecycle-service/ports"
)

type PublicationUseCase struct {
	Surveys ports.SurveyRepository
}

// Build projects a survey into the structured values a render sink needs for
// an outbound post. The kind is an explicit intent, not a flag on shared
// state: a survey post keeps candidates in insertion order for vote buttons,
// a results post ranks them by vote count.
func (uc PublicationUseCase) Build(
	ctx context.Context,
	surveyID string,
	kind entities.PublicationKind,
) (entities.Publication, error) {
	if kind != entities.PublicationKindSurvey && kind != entities.PublicationKindResults {
		return entities.Publication{}, domainerrors.ErrInvalidPublicationKind
	}

	survey, err := uc.Surveys.GetSurvey(ctx, strings.TrimSpace(surveyID))
	if err != nil {
		return entities.Publication{}, err
	}
	if !survey.Listed() {
		return entities.Publication{}, domainerrors.ErrSurveyNotFound
	}
	candidates, err := uc.Surveys.ListCandidates(ctx, survey.SurveyID)
	if err != nil {
		return entities.Publication{}, err
	}

	totalVotes := 0
	for _, candidate := range candidates {
		totalVotes += candidate.VoteCount
	}

	if kind == entities.PublicationKindResults {
		// Stable sort keeps insertion order as the tie-break.
		sort.SliceStable(candidates, func(i, j int) bool {
			return candidates[i].VoteCount > candidates[j].VoteCount
		})
	}

	entries := make([]entities.PublicationEntry, 0, len(candidates))
	for rank, candidate := range candidates {
		percent := 0.0
		if totalVotes > 0 {
			percent = float64(candidate.VoteCount) / float64(totalVotes) * 100
		}
		entries = append(entries, entities.PublicationEntry{
			CandidateID: candidate.CandidateID,
			FullName:    candidate.FullName,
			VoteCount:   candidate.VoteCount,
			Percent:     percent,
			Rank:        rank + 1,
		})
	}

	return entities.Publication{
		Kind:        kind,
		SurveyID:    survey.SurveyID,
		Title:       survey.Title,
		Description: survey.Description,
		MediaRef:    survey.MediaRef,
		TotalVotes:  totalVotes,
		Entries:     entries,
	}, nil
}
