package unit

import (
	"context"
	"errors"
	"testing"

	votingengine "saylov/contexts/survey-core/voting-engine"
	"saylov/contexts/survey-core/voting-engine/domain/entities"
	votingerrors "saylov/contexts/survey-core/voting-engine/domain/errors"
	"saylov/contexts/survey-core/voting-engine/ports"
	httptransport "saylov/contexts/survey-core/voting-engine/transport/http"
)

func seedVotingSurvey(module votingengine.Module) {
	module.Store.SetSurvey(ports.SurveyProjection{
		SurveyID: "survey-1",
		Title:    "Best mentor",
		Status:   "active",
	})
	module.Store.SetCandidates("survey-1", []ports.CandidateProjection{
		{CandidateID: "cand-1", SurveyID: "survey-1", FullName: "Aziza Karimova", Position: 0},
		{CandidateID: "cand-2", SurveyID: "survey-1", FullName: "Bobur Aliev", Position: 1},
	})
}

func registerParticipant(t *testing.T, module votingengine.Module, id, phone, name string) {
	t.Helper()
	_, err := module.Handler.RegisterParticipantHandler(context.Background(), id, httptransport.RegisterParticipantRequest{
		PhoneNumber: phone,
		FullName:    name,
	})
	if err != nil {
		t.Fatalf("register participant %s failed: %v", id, err)
	}
}

func TestRegisterVoteAndDuplicate(t *testing.T) {
	module := votingengine.NewInMemoryModule(nil)
	seedVotingSurvey(module)
	registerParticipant(t, module, "user-1", "+998901112233", "Dilshod")

	resp, err := module.Handler.RegisterVoteHandler(context.Background(), "user-1", "survey-1", httptransport.RegisterVoteRequest{
		CandidateID: "cand-1",
	})
	if err != nil {
		t.Fatalf("register vote failed: %v", err)
	}
	if !resp.Accepted || resp.CandidateID != "cand-1" {
		t.Fatalf("expected accepted vote for cand-1, got %+v", resp)
	}

	voted, err := module.Handler.HasVotedHandler(context.Background(), "user-1", "survey-1")
	if err != nil || !voted.Voted {
		t.Fatalf("expected has-voted true, got %+v err=%v", voted, err)
	}

	// Same survey, different candidate: still one vote per participant.
	_, err = module.Handler.RegisterVoteHandler(context.Background(), "user-1", "survey-1", httptransport.RegisterVoteRequest{
		CandidateID: "cand-2",
	})
	if !errors.Is(err, votingerrors.ErrDuplicateVote) {
		t.Fatalf("expected duplicate vote, got %v", err)
	}
	if count := module.Store.CandidateVoteCount("survey-1", "cand-2"); count != 0 {
		t.Fatalf("rejected vote must not move the tally, got %d", count)
	}
	if count := module.Store.CandidateVoteCount("survey-1", "cand-1"); count != 1 {
		t.Fatalf("expected tally 1 for cand-1, got %d", count)
	}
}

func TestRegisterVoteChecks(t *testing.T) {
	module := votingengine.NewInMemoryModule(nil)
	seedVotingSurvey(module)

	_, err := module.Handler.RegisterVoteHandler(context.Background(), "stranger", "survey-1", httptransport.RegisterVoteRequest{
		CandidateID: "cand-1",
	})
	if !errors.Is(err, votingerrors.ErrParticipantNotRegistered) {
		t.Fatalf("expected unregistered participant error, got %v", err)
	}

	registerParticipant(t, module, "user-1", "+998901112233", "Dilshod")

	_, err = module.Handler.RegisterVoteHandler(context.Background(), "user-1", "survey-1", httptransport.RegisterVoteRequest{
		CandidateID: "cand-99",
	})
	if !errors.Is(err, votingerrors.ErrUnknownCandidate) {
		t.Fatalf("expected unknown candidate, got %v", err)
	}

	module.Store.SetSurvey(ports.SurveyProjection{SurveyID: "survey-1", Title: "Best mentor", Status: "closed"})
	_, err = module.Handler.RegisterVoteHandler(context.Background(), "user-1", "survey-1", httptransport.RegisterVoteRequest{
		CandidateID: "cand-1",
	})
	if !errors.Is(err, votingerrors.ErrSurveyClosed) {
		t.Fatalf("expected survey closed, got %v", err)
	}

	_, err = module.Handler.RegisterVoteHandler(context.Background(), "user-1", "survey-404", httptransport.RegisterVoteRequest{
		CandidateID: "cand-1",
	})
	if !errors.Is(err, votingerrors.ErrSurveyNotFound) {
		t.Fatalf("expected survey not found, got %v", err)
	}
}

func TestAccessGate(t *testing.T) {
	module := votingengine.NewInMemoryModule(nil)
	seedVotingSurvey(module)
	registerParticipant(t, module, "user-1", "+998901112233", "Dilshod")
	module.Store.SetRequiredChannels("survey-1", []entities.RequiredChannel{
		{ChannelID: "chan-1", PlatformRef: "@news", Name: "News", JoinURL: "https://t.me/news"},
	})

	// Not a member: vote attempt is denied, not errored, and nothing is recorded.
	resp, err := module.Handler.RegisterVoteHandler(context.Background(), "user-1", "survey-1", httptransport.RegisterVoteRequest{
		CandidateID: "cand-1",
	})
	if err != nil {
		t.Fatalf("gated vote attempt failed: %v", err)
	}
	if resp.Accepted {
		t.Fatalf("expected denied vote, got %+v", resp)
	}
	if len(resp.MissingChannels) != 1 || resp.MissingChannels[0].ChannelID != "chan-1" {
		t.Fatalf("expected missing channel chan-1, got %+v", resp.MissingChannels)
	}
	if voted, _ := module.Handler.HasVotedHandler(context.Background(), "user-1", "survey-1"); voted.Voted {
		t.Fatalf("denied attempt must not record a vote")
	}

	module.Store.SetMembership("@news", "user-1", entities.MembershipMember)
	access, err := module.Handler.CheckAccessHandler(context.Background(), "user-1", "survey-1")
	if err != nil || !access.Granted {
		t.Fatalf("expected access granted for member, got %+v err=%v", access, err)
	}

	resp, err = module.Handler.RegisterVoteHandler(context.Background(), "user-1", "survey-1", httptransport.RegisterVoteRequest{
		CandidateID: "cand-1",
	})
	if err != nil || !resp.Accepted {
		t.Fatalf("expected accepted vote for member, got %+v err=%v", resp, err)
	}
}

func TestAccessGateFailsOpen(t *testing.T) {
	module := votingengine.NewInMemoryModule(nil)
	seedVotingSurvey(module)
	registerParticipant(t, module, "user-1", "+998901112233", "Dilshod")
	module.Store.SetRequiredChannels("survey-1", []entities.RequiredChannel{
		{ChannelID: "chan-1", PlatformRef: "@down", Name: "Down"},
	})
	module.Store.SetOracleFailure("@down", true)

	access, err := module.Handler.CheckAccessHandler(context.Background(), "user-1", "survey-1")
	if err != nil {
		t.Fatalf("check access failed: %v", err)
	}
	if !access.Granted {
		t.Fatalf("expected unverifiable channel to be treated as satisfied")
	}

	resp, err := module.Handler.RegisterVoteHandler(context.Background(), "user-1", "survey-1", httptransport.RegisterVoteRequest{
		CandidateID: "cand-2",
	})
	if err != nil || !resp.Accepted {
		t.Fatalf("expected vote accepted despite oracle outage, got %+v err=%v", resp, err)
	}
}

func TestRetiredSurveyKeepsHistory(t *testing.T) {
	module := votingengine.NewInMemoryModule(nil)
	seedVotingSurvey(module)
	registerParticipant(t, module, "user-1", "+998901110001", "Zulfiya")
	registerParticipant(t, module, "user-2", "+998901110002", "Anvar")

	resp, err := module.Handler.RegisterVoteHandler(context.Background(), "user-1", "survey-1", httptransport.RegisterVoteRequest{
		CandidateID: "cand-1",
	})
	if err != nil || !resp.Accepted {
		t.Fatalf("seed vote failed: %+v err=%v", resp, err)
	}

	module.Store.SetSurvey(ports.SurveyProjection{SurveyID: "survey-1", Title: "Best mentor", Status: "retired"})

	// A retired survey takes no new votes.
	_, err = module.Handler.RegisterVoteHandler(context.Background(), "user-2", "survey-1", httptransport.RegisterVoteRequest{
		CandidateID: "cand-2",
	})
	if !errors.Is(err, votingerrors.ErrSurveyClosed) {
		t.Fatalf("expected survey closed on retired survey, got %v", err)
	}

	// Historical votes stay readable after retirement.
	standings, err := module.Handler.StandingsHandler(context.Background(), "survey-1")
	if err != nil {
		t.Fatalf("standings on retired survey failed: %v", err)
	}
	if standings.TotalVotes != 1 || standings.Standings[0].CandidateID != "cand-1" || standings.Standings[0].VoteCount != 1 {
		t.Fatalf("expected historical standings intact, got %+v", standings)
	}

	report, err := module.Handler.ParticipationReportHandler(context.Background(), "survey-1")
	if err != nil {
		t.Fatalf("participation report on retired survey failed: %v", err)
	}
	if len(report.Rows) != 2 {
		t.Fatalf("expected both participants in the report, got %d rows", len(report.Rows))
	}
	if !report.Rows[0].Voted || report.Rows[0].FullName != "Zulfiya" || report.Rows[0].CandidateID != "cand-1" {
		t.Fatalf("expected Zulfiya's vote preserved, got %+v", report.Rows[0])
	}
	if report.Rows[1].Voted || report.Rows[1].FullName != "Anvar" {
		t.Fatalf("expected Anvar as non-voter, got %+v", report.Rows[1])
	}
}

func TestStandings(t *testing.T) {
	module := votingengine.NewInMemoryModule(nil)
	seedVotingSurvey(module)
	module.Store.SetCandidates("survey-1", []ports.CandidateProjection{
		{CandidateID: "cand-1", SurveyID: "survey-1", FullName: "Aziza Karimova", Position: 0},
		{CandidateID: "cand-2", SurveyID: "survey-1", FullName: "Bobur Aliev", Position: 1},
		{CandidateID: "cand-3", SurveyID: "survey-1", FullName: "Gulnora Yusupova", Position: 2},
	})
	for i, vote := range []struct{ user, candidate string }{
		{"user-1", "cand-2"},
		{"user-2", "cand-2"},
		{"user-3", "cand-1"},
		{"user-4", "cand-3"},
	} {
		registerParticipant(t, module, vote.user, "+99890000000"+string(rune('0'+i)), "Voter")
		resp, err := module.Handler.RegisterVoteHandler(context.Background(), vote.user, "survey-1", httptransport.RegisterVoteRequest{
			CandidateID: vote.candidate,
		})
		if err != nil || !resp.Accepted {
			t.Fatalf("seed vote failed for %s: %+v err=%v", vote.user, resp, err)
		}
	}

	standings, err := module.Handler.StandingsHandler(context.Background(), "survey-1")
	if err != nil {
		t.Fatalf("standings failed: %v", err)
	}
	if standings.TotalVotes != 4 {
		t.Fatalf("expected 4 total votes, got %d", standings.TotalVotes)
	}
	if standings.Standings[0].CandidateID != "cand-2" || standings.Standings[0].VoteCount != 2 {
		t.Fatalf("expected cand-2 leading with 2 votes, got %+v", standings.Standings[0])
	}
	// cand-1 and cand-3 are tied; insertion order decides.
	if standings.Standings[1].CandidateID != "cand-1" || standings.Standings[2].CandidateID != "cand-3" {
		t.Fatalf("expected stable tie-break, got %+v", standings.Standings)
	}
	if standings.Standings[0].Percent != 50 {
		t.Fatalf("expected 50 percent for leader, got %f", standings.Standings[0].Percent)
	}
}

func TestParticipationReport(t *testing.T) {
	module := votingengine.NewInMemoryModule(nil)
	seedVotingSurvey(module)
	registerParticipant(t, module, "user-1", "+998901110001", "Zulfiya")
	registerParticipant(t, module, "user-2", "+998901110002", "Anvar")
	registerParticipant(t, module, "user-3", "+998901110003", "Malika")

	for _, vote := range []struct{ user, candidate string }{
		{"user-1", "cand-2"},
		{"user-2", "cand-1"},
	} {
		resp, err := module.Handler.RegisterVoteHandler(context.Background(), vote.user, "survey-1", httptransport.RegisterVoteRequest{
			CandidateID: vote.candidate,
		})
		if err != nil || !resp.Accepted {
			t.Fatalf("seed vote failed: %+v err=%v", resp, err)
		}
	}

	report, err := module.Handler.ParticipationReportHandler(context.Background(), "survey-1")
	if err != nil {
		t.Fatalf("participation report failed: %v", err)
	}
	if len(report.Rows) != 3 {
		t.Fatalf("expected every registered participant in the report, got %d rows", len(report.Rows))
	}
	// Voters first, grouped by candidate order; non-voters last.
	if !report.Rows[0].Voted || report.Rows[0].CandidateID != "cand-1" || report.Rows[0].FullName != "Anvar" {
		t.Fatalf("expected Anvar under cand-1 first, got %+v", report.Rows[0])
	}
	if !report.Rows[1].Voted || report.Rows[1].CandidateID != "cand-2" {
		t.Fatalf("expected cand-2 voter second, got %+v", report.Rows[1])
	}
	if report.Rows[2].Voted || report.Rows[2].FullName != "Malika" {
		t.Fatalf("expected non-voter Malika last, got %+v", report.Rows[2])
	}
	if report.Rows[0].PhoneNumber != "+998901110002" {
		t.Fatalf("expected phone number in report, got %+v", report.Rows[0])
	}
}
