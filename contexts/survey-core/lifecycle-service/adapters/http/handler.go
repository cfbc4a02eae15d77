package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"saylov/contexts/survey-core/lifecycle-service/application/commands"
	"saylov/contexts/survey-core/lifecycle-service/application/queries"
	"saylov/contexts/survey-core/lifecycle-service/domain/entities"
	domainerrors "saylov/contexts/survey-core/lifecycle-service/domain/errors"
	httptransport "saylov/contexts/survey-core/lifecycle-service/transport/http"
)

type Handler struct {
	CreateSurvey commands.CreateSurveyUseCase
	ChangeStatus commands.ChangeStatusUseCase
	AddCandidate commands.AddCandidateUseCase
	Channels     commands.ChannelUseCase
	Queries      queries.SurveyQueryUseCase
	Publications queries.PublicationUseCase
	Logger       *slog.Logger
}

func (h Handler) CreateSurveyHandler(
	ctx context.Context,
	actorID string,
	req httptransport.CreateSurveyRequest,
) (httptransport.SurveyResponse, error) {
	var deadline *time.Time
	if req.Deadline != "" {
		parsed, err := time.Parse(time.RFC3339, req.Deadline)
		if err != nil {
			return httptransport.SurveyResponse{}, domainerrors.ErrInvalidSurveyInput
		}
		deadline = &parsed
	}
	detail, err := h.CreateSurvey.Execute(ctx, commands.CreateSurveyCommand{
		ActorID:        actorID,
		Title:          req.Title,
		Description:    req.Description,
		MediaRef:       req.MediaRef,
		Deadline:       deadline,
		CandidateNames: req.CandidateNames,
	})
	if err != nil {
		return httptransport.SurveyResponse{}, err
	}
	return mapSurveyDetail(detail), nil
}

func (h Handler) CloseSurveyHandler(ctx context.Context, actorID string, surveyID string) (httptransport.SurveyResponse, error) {
	survey, err := h.ChangeStatus.Execute(ctx, commands.ChangeStatusCommand{
		SurveyID: surveyID,
		ActorID:  actorID,
		Action:   commands.StatusActionClose,
	})
	if err != nil {
		return httptransport.SurveyResponse{}, err
	}
	return mapSurvey(survey), nil
}

func (h Handler) RetireSurveyHandler(ctx context.Context, actorID string, surveyID string) (httptransport.SurveyResponse, error) {
	survey, err := h.ChangeStatus.Execute(ctx, commands.ChangeStatusCommand{
		SurveyID: surveyID,
		ActorID:  actorID,
		Action:   commands.StatusActionRetire,
	})
	if err != nil {
		return httptransport.SurveyResponse{}, err
	}
	return mapSurvey(survey), nil
}

func (h Handler) AddCandidateHandler(
	ctx context.Context,
	actorID string,
	surveyID string,
	req httptransport.AddCandidateRequest,
) (httptransport.CandidateResponse, error) {
	candidate, err := h.AddCandidate.Execute(ctx, commands.AddCandidateCommand{
		ActorID:  actorID,
		SurveyID: surveyID,
		FullName: req.FullName,
	})
	if err != nil {
		return httptransport.CandidateResponse{}, err
	}
	return mapCandidate(candidate), nil
}

func (h Handler) ListVotableHandler(ctx context.Context) (httptransport.SurveyListResponse, error) {
	surveys, err := h.Queries.ListVotable(ctx)
	if err != nil {
		return httptransport.SurveyListResponse{}, err
	}
	items := make([]httptransport.SurveyResponse, 0, len(surveys))
	for _, survey := range surveys {
		items = append(items, mapSurvey(survey))
	}
	return httptransport.SurveyListResponse{Items: items}, nil
}

func (h Handler) GetSurveyHandler(ctx context.Context, surveyID string) (httptransport.SurveyResponse, error) {
	detail, err := h.Queries.GetSurvey(ctx, surveyID)
	if err != nil {
		return httptransport.SurveyResponse{}, err
	}
	return mapSurveyDetail(detail), nil
}

func (h Handler) RegisterChannelHandler(
	ctx context.Context,
	actorID string,
	req httptransport.RegisterChannelRequest,
) (httptransport.ChannelResponse, error) {
	channel, err := h.Channels.RegisterChannel(ctx, commands.RegisterChannelCommand{
		ActorID:     actorID,
		PlatformRef: req.PlatformRef,
		Name:        req.Name,
		JoinURL:     req.JoinURL,
	})
	if err != nil {
		return httptransport.ChannelResponse{}, err
	}
	return mapChannel(channel), nil
}

func (h Handler) RemoveChannelHandler(ctx context.Context, actorID string, channelID string) error {
	return h.Channels.RemoveChannel(ctx, actorID, channelID)
}

func (h Handler) ListChannelsHandler(ctx context.Context) (httptransport.ChannelListResponse, error) {
	channels, err := h.Queries.ListChannels(ctx)
	if err != nil {
		return httptransport.ChannelListResponse{}, err
	}
	return mapChannelList(channels), nil
}

func (h Handler) LinkChannelHandler(
	ctx context.Context,
	actorID string,
	surveyID string,
	channelID string,
) (httptransport.ChannelLinkResponse, error) {
	linked, err := h.Channels.LinkChannel(ctx, commands.LinkChannelCommand{
		ActorID:   actorID,
		SurveyID:  surveyID,
		ChannelID: channelID,
	})
	if err != nil {
		return httptransport.ChannelLinkResponse{}, err
	}
	return httptransport.ChannelLinkResponse{SurveyID: surveyID, ChannelID: channelID, Linked: linked}, nil
}

func (h Handler) UnlinkChannelHandler(
	ctx context.Context,
	actorID string,
	surveyID string,
	channelID string,
) (httptransport.ChannelLinkResponse, error) {
	linked, err := h.Channels.UnlinkChannel(ctx, commands.LinkChannelCommand{
		ActorID:   actorID,
		SurveyID:  surveyID,
		ChannelID: channelID,
	})
	if err != nil {
		return httptransport.ChannelLinkResponse{}, err
	}
	return httptransport.ChannelLinkResponse{SurveyID: surveyID, ChannelID: channelID, Linked: linked}, nil
}

func (h Handler) RequiredChannelsHandler(ctx context.Context, surveyID string) (httptransport.ChannelListResponse, error) {
	channels, err := h.Queries.RequiredChannels(ctx, surveyID)
	if err != nil {
		return httptransport.ChannelListResponse{}, err
	}
	return mapChannelList(channels), nil
}

func (h Handler) PublicationHandler(
	ctx context.Context,
	surveyID string,
	kind string,
) (httptransport.PublicationResponse, error) {
	publication, err := h.Publications.Build(ctx, surveyID, entities.PublicationKind(kind))
	if err != nil {
		return httptransport.PublicationResponse{}, err
	}
	entries := make([]httptransport.PublicationEntryResponse, 0, len(publication.Entries))
	for _, entry := range publication.Entries {
		entries = append(entries, httptransport.PublicationEntryResponse{
			CandidateID: entry.CandidateID,
			FullName:    entry.FullName,
			VoteCount:   entry.VoteCount,
			Percent:     entry.Percent,
			Rank:        entry.Rank,
		})
	}
	return httptransport.PublicationResponse{
		Kind:        string(publication.Kind),
		SurveyID:    publication.SurveyID,
		Title:       publication.Title,
		Description: publication.Description,
		MediaRef:    publication.MediaRef,
		TotalVotes:  publication.TotalVotes,
		Entries:     entries,
	}, nil
}

func mapSurvey(survey entities.Survey) httptransport.SurveyResponse {
	resp := httptransport.SurveyResponse{
		SurveyID:    survey.SurveyID,
		Title:       survey.Title,
		Description: survey.Description,
		MediaRef:    survey.MediaRef,
		Status:      string(survey.Status),
	}
	if survey.Deadline != nil {
		resp.Deadline = survey.Deadline.UTC().Format(time.RFC3339)
	}
	return resp
}

func mapSurveyDetail(detail entities.SurveyDetail) httptransport.SurveyResponse {
	resp := mapSurvey(detail.Survey)
	resp.Candidates = make([]httptransport.CandidateResponse, 0, len(detail.Candidates))
	for _, candidate := range detail.Candidates {
		resp.Candidates = append(resp.Candidates, mapCandidate(candidate))
	}
	return resp
}

func mapCandidate(candidate entities.Candidate) httptransport.CandidateResponse {
	return httptransport.CandidateResponse{
		CandidateID: candidate.CandidateID,
		FullName:    candidate.FullName,
		VoteCount:   candidate.VoteCount,
		Position:    candidate.Position,
	}
}

func mapChannel(channel entities.Channel) httptransport.ChannelResponse {
	return httptransport.ChannelResponse{
		ChannelID:   channel.ChannelID,
		PlatformRef: channel.PlatformRef,
		Name:        channel.Name,
		JoinURL:     channel.JoinURL,
	}
}

func mapChannelList(channels []entities.Channel) httptransport.ChannelListResponse {
	items := make([]httptransport.ChannelResponse, 0, len(channels))
	for _, channel := range channels {
		items = append(items, mapChannel(channel))
	}
	return httptransport.ChannelListResponse{Items: items}
}
