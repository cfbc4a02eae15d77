package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"saylov/contexts/survey-core/voting-engine/domain/entities"
	domainerrors "saylov/contexts/survey-core/voting-engine/domain/errors"
	"saylov/contexts/survey-core/voting-engine/ports"
)

func TestInsertVoteBumpsTallyOnce(t *testing.T) {
	store := NewStore()
	store.SetCandidates("survey-1", []ports.CandidateProjection{
		{CandidateID: "cand-1", SurveyID: "survey-1", FullName: "A", Position: 0},
	})

	vote := entities.Vote{
		ParticipantID: "user-1",
		SurveyID:      "survey-1",
		CandidateID:   "cand-1",
		CreatedAt:     time.Now().UTC(),
	}
	if err := store.InsertVote(context.Background(), vote); err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	if err := store.InsertVote(context.Background(), vote); !errors.Is(err, domainerrors.ErrDuplicateVote) {
		t.Fatalf("expected duplicate vote, got %v", err)
	}
	if count := store.CandidateVoteCount("survey-1", "cand-1"); count != 1 {
		t.Fatalf("expected tally 1, got %d", count)
	}

	votes, err := store.ListVotesBySurvey(context.Background(), "survey-1")
	if err != nil || len(votes) != 1 {
		t.Fatalf("expected one ledger row, got %d err=%v", len(votes), err)
	}
}

func TestInsertVoteUnknownCandidate(t *testing.T) {
	store := NewStore()
	store.SetCandidates("survey-1", []ports.CandidateProjection{
		{CandidateID: "cand-1", SurveyID: "survey-1", FullName: "A", Position: 0},
	})

	vote := entities.Vote{
		ParticipantID: "user-1",
		SurveyID:      "survey-1",
		CandidateID:   "cand-9",
		CreatedAt:     time.Now().UTC(),
	}
	if err := store.InsertVote(context.Background(), vote); !errors.Is(err, domainerrors.ErrUnknownCandidate) {
		t.Fatalf("expected unknown candidate, got %v", err)
	}
	if votes, err := store.ListVotesBySurvey(context.Background(), "survey-1"); err != nil || len(votes) != 0 {
		t.Fatalf("rejected vote must leave the ledger empty, got %d err=%v", len(votes), err)
	}
	if voted, _ := store.HasVoted(context.Background(), "user-1", "survey-1"); voted {
		t.Fatalf("rejected vote must not mark the participant as having voted")
	}
}

func TestChatMemberDefaults(t *testing.T) {
	store := NewStore()

	status, err := store.ChatMember(context.Background(), "@news", "user-1")
	if err != nil {
		t.Fatalf("chat member failed: %v", err)
	}
	if status != entities.MembershipNotMember {
		t.Fatalf("expected not_member for unknown participant, got %s", status)
	}

	store.SetMembership("@news", "user-1", entities.MembershipAdministrator)
	status, err = store.ChatMember(context.Background(), "@news", "user-1")
	if err != nil || !status.Satisfies() {
		t.Fatalf("expected administrator to satisfy membership, got %s err=%v", status, err)
	}

	store.SetOracleFailure("@news", true)
	if _, err := store.ChatMember(context.Background(), "@news", "user-1"); !errors.Is(err, domainerrors.ErrOracleUnavailable) {
		t.Fatalf("expected oracle unavailable, got %v", err)
	}
}
