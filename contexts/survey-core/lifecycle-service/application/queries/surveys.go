package queries

import (
	"context"
	"strings"

	"saylov/contexts/survey-core/lifecycle-service/domain/entities"
	"saylov/contexts/survey-core/lifecycle-service/ports"
)

type SurveyQueryUseCase struct {
	Surveys  ports.SurveyRepository
	Channels ports.ChannelRepository
}

// ListVotable returns active and closed surveys in creation order. Closed
// surveys remain visible for results flows; retired ones never appear.
func (uc SurveyQueryUseCase) ListVotable(ctx context.Context) ([]entities.Survey, error) {
	return uc.Surveys.ListSurveys(ctx, false)
}

func (uc SurveyQueryUseCase) GetSurvey(ctx context.Context, surveyID string) (entities.SurveyDetail, error) {
	survey, err := uc.Surveys.GetSurvey(ctx, strings.TrimSpace(surveyID))
	if err != nil {
		return entities.SurveyDetail{}, err
	}
	candidates, err := uc.Surveys.ListCandidates(ctx, survey.SurveyID)
	if err != nil {
		return entities.SurveyDetail{}, err
	}
	return entities.SurveyDetail{Survey: survey, Candidates: candidates}, nil
}

func (uc SurveyQueryUseCase) ListChannels(ctx context.Context) ([]entities.Channel, error) {
	return uc.Channels.ListChannels(ctx)
}

func (uc SurveyQueryUseCase) RequiredChannels(ctx context.Context, surveyID string) ([]entities.Channel, error) {
	return uc.Channels.ListRequiredChannels(ctx, strings.TrimSpace(surveyID))
}
