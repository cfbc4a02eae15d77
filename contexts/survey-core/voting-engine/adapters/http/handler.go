package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"saylov/contexts/survey-core/voting-engine/application/commands"
	"saylov/contexts/survey-core/voting-engine/application/queries"
	"saylov/contexts/survey-core/voting-engine/domain/entities"
	httptransport "saylov/contexts/survey-core/voting-engine/transport/http"
)

type Handler struct {
	RegisterParticipant commands.RegisterParticipantUseCase
	RegisterVote        commands.RegisterVoteUseCase
	Access              queries.AccessUseCase
	Reports             queries.ReportUseCase
	Logger              *slog.Logger
}

func (h Handler) RegisterParticipantHandler(
	ctx context.Context,
	participantID string,
	req httptransport.RegisterParticipantRequest,
) (httptransport.ParticipantResponse, error) {
	participant, err := h.RegisterParticipant.Execute(ctx, commands.RegisterParticipantCommand{
		ParticipantID: participantID,
		PhoneNumber:   req.PhoneNumber,
		FullName:      req.FullName,
	})
	if err != nil {
		return httptransport.ParticipantResponse{}, err
	}
	return httptransport.ParticipantResponse{
		ParticipantID: participant.ParticipantID,
		PhoneNumber:   participant.PhoneNumber,
		FullName:      participant.FullName,
		JoinedAt:      participant.JoinedAt.UTC().Format(time.RFC3339),
	}, nil
}

// RegisterVoteHandler runs the subscription gate before touching the ledger.
// A denied attempt is not an error; the response carries the channels the
// participant still has to join.
func (h Handler) RegisterVoteHandler(
	ctx context.Context,
	participantID string,
	surveyID string,
	req httptransport.RegisterVoteRequest,
) (httptransport.VoteResponse, error) {
	decision, err := h.Access.CheckAccess(ctx, participantID, surveyID)
	if err != nil {
		return httptransport.VoteResponse{}, err
	}
	if !decision.Granted {
		return httptransport.VoteResponse{
			Accepted:        false,
			SurveyID:        surveyID,
			MissingChannels: mapRequiredChannels(decision.MissingChannels),
		}, nil
	}

	vote, err := h.RegisterVote.Execute(ctx, commands.RegisterVoteCommand{
		ParticipantID: participantID,
		SurveyID:      surveyID,
		CandidateID:   req.CandidateID,
	})
	if err != nil {
		return httptransport.VoteResponse{}, err
	}
	return httptransport.VoteResponse{
		Accepted:    true,
		SurveyID:    vote.SurveyID,
		CandidateID: vote.CandidateID,
	}, nil
}

func (h Handler) CheckAccessHandler(
	ctx context.Context,
	participantID string,
	surveyID string,
) (httptransport.AccessResponse, error) {
	decision, err := h.Access.CheckAccess(ctx, participantID, surveyID)
	if err != nil {
		return httptransport.AccessResponse{}, err
	}
	return httptransport.AccessResponse{
		Granted:         decision.Granted,
		MissingChannels: mapRequiredChannels(decision.MissingChannels),
	}, nil
}

func (h Handler) HasVotedHandler(
	ctx context.Context,
	participantID string,
	surveyID string,
) (httptransport.HasVotedResponse, error) {
	voted, err := h.Reports.HasVoted(ctx, participantID, surveyID)
	if err != nil {
		return httptransport.HasVotedResponse{}, err
	}
	return httptransport.HasVotedResponse{SurveyID: surveyID, Voted: voted}, nil
}

func (h Handler) StandingsHandler(ctx context.Context, surveyID string) (httptransport.StandingsResponse, error) {
	standings, err := h.Reports.Standings(ctx, surveyID)
	if err != nil {
		return httptransport.StandingsResponse{}, err
	}
	total := 0
	items := make([]httptransport.StandingResponse, 0, len(standings))
	for _, standing := range standings {
		total += standing.VoteCount
		items = append(items, httptransport.StandingResponse{
			CandidateID: standing.CandidateID,
			FullName:    standing.FullName,
			VoteCount:   standing.VoteCount,
			Percent:     standing.Percent,
		})
	}
	return httptransport.StandingsResponse{
		SurveyID:   surveyID,
		TotalVotes: total,
		Standings:  items,
	}, nil
}

func (h Handler) ParticipationReportHandler(ctx context.Context, surveyID string) (httptransport.ParticipationReportResponse, error) {
	rows, err := h.Reports.ParticipationReport(ctx, surveyID)
	if err != nil {
		return httptransport.ParticipationReportResponse{}, err
	}
	items := make([]httptransport.ParticipationRowResponse, 0, len(rows))
	for _, row := range rows {
		items = append(items, httptransport.ParticipationRowResponse{
			ParticipantID: row.ParticipantID,
			FullName:      row.FullName,
			PhoneNumber:   row.PhoneNumber,
			Voted:         row.Voted,
			CandidateID:   row.CandidateID,
			CandidateName: row.CandidateName,
		})
	}
	return httptransport.ParticipationReportResponse{SurveyID: surveyID, Rows: items}, nil
}

func mapRequiredChannels(channels []entities.RequiredChannel) []httptransport.RequiredChannelResponse {
	items := make([]httptransport.RequiredChannelResponse, 0, len(channels))
	for _, channel := range channels {
		items = append(items, httptransport.RequiredChannelResponse{
			ChannelID: channel.ChannelID,
			Name:      channel.Name,
			JoinURL:   channel.JoinURL,
		})
	}
	return items
}
