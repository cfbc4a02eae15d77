package unit

import (
	"context"
	"errors"
	"testing"

	lifecycleservice "saylov/contexts/survey-core/lifecycle-service"
	lifecyclecommands "saylov/contexts/survey-core/lifecycle-service/application/commands"
	"saylov/contexts/survey-core/lifecycle-service/domain/entities"
	lifecycleerrors "saylov/contexts/survey-core/lifecycle-service/domain/errors"
	"saylov/contexts/survey-core/lifecycle-service/ports"
	httptransport "saylov/contexts/survey-core/lifecycle-service/transport/http"
)

type allowAllAuthorizer struct{}

func (allowAllAuthorizer) IsAuthor(string) bool { return true }

type denyAllAuthorizer struct{}

func (denyAllAuthorizer) IsAuthor(string) bool { return false }

func TestCreateSurveyAndList(t *testing.T) {
	module := lifecycleservice.NewInMemoryModule(allowAllAuthorizer{}, nil)

	created, err := module.Handler.CreateSurveyHandler(context.Background(), "admin-1", httptransport.CreateSurveyRequest{
		Title:          "Best mentor",
		Description:    "Vote for the mentor of the year",
		CandidateNames: []string{"Aziza Karimova", "Bobur Aliev"},
	})
	if err != nil {
		t.Fatalf("create survey failed: %v", err)
	}
	if created.Status != "active" {
		t.Fatalf("expected new survey to be active, got %s", created.Status)
	}
	if len(created.Candidates) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(created.Candidates))
	}
	if created.Candidates[0].FullName != "Aziza Karimova" || created.Candidates[0].Position != 0 {
		t.Fatalf("expected insertion order preserved, got %+v", created.Candidates[0])
	}
	if created.Candidates[0].VoteCount != 0 {
		t.Fatalf("expected zero initial tally, got %d", created.Candidates[0].VoteCount)
	}

	list, err := module.Handler.ListVotableHandler(context.Background())
	if err != nil {
		t.Fatalf("list surveys failed: %v", err)
	}
	if len(list.Items) != 1 || list.Items[0].SurveyID != created.SurveyID {
		t.Fatalf("expected created survey in listing, got %+v", list.Items)
	}
}

func TestCreateSurveyValidation(t *testing.T) {
	module := lifecycleservice.NewInMemoryModule(allowAllAuthorizer{}, nil)

	_, err := module.Handler.CreateSurveyHandler(context.Background(), "admin-1", httptransport.CreateSurveyRequest{
		Title:          "   ",
		Description:    "desc",
		CandidateNames: []string{"A"},
	})
	if !errors.Is(err, lifecycleerrors.ErrInvalidSurveyInput) {
		t.Fatalf("expected invalid survey input, got %v", err)
	}

	_, err = module.Handler.CreateSurveyHandler(context.Background(), "admin-1", httptransport.CreateSurveyRequest{
		Title:       "Title",
		Description: "desc",
	})
	if !errors.Is(err, lifecycleerrors.ErrEmptyCandidateList) {
		t.Fatalf("expected empty candidate list error, got %v", err)
	}

	denied := lifecycleservice.NewInMemoryModule(denyAllAuthorizer{}, nil)
	_, err = denied.Handler.CreateSurveyHandler(context.Background(), "user-1", httptransport.CreateSurveyRequest{
		Title:          "Title",
		Description:    "desc",
		CandidateNames: []string{"A"},
	})
	if !errors.Is(err, lifecycleerrors.ErrNotAuthorized) {
		t.Fatalf("expected not authorized, got %v", err)
	}
}

func TestCloseAndRetireTransitions(t *testing.T) {
	module := lifecycleservice.NewInMemoryModule(allowAllAuthorizer{}, nil)
	created, err := module.Handler.CreateSurveyHandler(context.Background(), "admin-1", httptransport.CreateSurveyRequest{
		Title:          "Transitions",
		Description:    "desc",
		CandidateNames: []string{"A"},
	})
	if err != nil {
		t.Fatalf("create survey failed: %v", err)
	}

	closed, err := module.Handler.CloseSurveyHandler(context.Background(), "admin-1", created.SurveyID)
	if err != nil {
		t.Fatalf("close failed: %v", err)
	}
	if closed.Status != "closed" {
		t.Fatalf("expected closed, got %s", closed.Status)
	}

	// Closing again is a no-op, not an error.
	again, err := module.Handler.CloseSurveyHandler(context.Background(), "admin-1", created.SurveyID)
	if err != nil {
		t.Fatalf("repeated close failed: %v", err)
	}
	if again.Status != "closed" {
		t.Fatalf("expected closed after repeat, got %s", again.Status)
	}

	retired, err := module.Handler.RetireSurveyHandler(context.Background(), "admin-1", created.SurveyID)
	if err != nil {
		t.Fatalf("retire failed: %v", err)
	}
	if retired.Status != "retired" {
		t.Fatalf("expected retired, got %s", retired.Status)
	}

	// Retire is terminal: closing a retired survey is rejected.
	if _, err := module.Handler.CloseSurveyHandler(context.Background(), "admin-1", created.SurveyID); !errors.Is(err, lifecycleerrors.ErrInvalidTransition) {
		t.Fatalf("expected invalid transition, got %v", err)
	}
	// Repeated retire stays idempotent.
	if _, err := module.Handler.RetireSurveyHandler(context.Background(), "admin-1", created.SurveyID); err != nil {
		t.Fatalf("repeated retire failed: %v", err)
	}

	list, err := module.Handler.ListVotableHandler(context.Background())
	if err != nil {
		t.Fatalf("list surveys failed: %v", err)
	}
	if len(list.Items) != 0 {
		t.Fatalf("expected retired survey excluded from listing, got %+v", list.Items)
	}
}

// staleSurveyRepository serves a fixed snapshot on the first read, which is
// what a writer that read the survey before a competing transition landed
// would see.
type staleSurveyRepository struct {
	ports.SurveyRepository
	snapshot entities.Survey
	served   bool
}

func (r *staleSurveyRepository) GetSurvey(ctx context.Context, surveyID string) (entities.Survey, error) {
	if !r.served {
		r.served = true
		return r.snapshot, nil
	}
	return r.SurveyRepository.GetSurvey(ctx, surveyID)
}

func TestCloseRacingRetireKeepsRetired(t *testing.T) {
	module := lifecycleservice.NewInMemoryModule(allowAllAuthorizer{}, nil)
	created, err := module.Handler.CreateSurveyHandler(context.Background(), "admin-1", httptransport.CreateSurveyRequest{
		Title:          "Raced",
		Description:    "desc",
		CandidateNames: []string{"A"},
	})
	if err != nil {
		t.Fatalf("create survey failed: %v", err)
	}
	activeSnapshot, err := module.Store.GetSurvey(context.Background(), created.SurveyID)
	if err != nil {
		t.Fatalf("snapshot read failed: %v", err)
	}

	if _, err := module.Handler.RetireSurveyHandler(context.Background(), "admin-1", created.SurveyID); err != nil {
		t.Fatalf("retire failed: %v", err)
	}

	// A close working from the pre-retire snapshot loses the guarded swap,
	// re-reads the retired row and is rejected instead of resurrecting it.
	closer := lifecyclecommands.ChangeStatusUseCase{
		Surveys:    &staleSurveyRepository{SurveyRepository: module.Store, snapshot: activeSnapshot},
		Authorizer: allowAllAuthorizer{},
		Clock:      module.Store,
	}
	_, err = closer.Execute(context.Background(), lifecyclecommands.ChangeStatusCommand{
		SurveyID: created.SurveyID,
		ActorID:  "admin-1",
		Action:   lifecyclecommands.StatusActionClose,
	})
	if !errors.Is(err, lifecycleerrors.ErrInvalidTransition) {
		t.Fatalf("expected invalid transition for the losing close, got %v", err)
	}

	detail, err := module.Handler.GetSurveyHandler(context.Background(), created.SurveyID)
	if err != nil {
		t.Fatalf("get survey failed: %v", err)
	}
	if detail.Status != "retired" {
		t.Fatalf("expected survey to stay retired, got %s", detail.Status)
	}
}

func TestRetireRacingCloseStillRetires(t *testing.T) {
	module := lifecycleservice.NewInMemoryModule(allowAllAuthorizer{}, nil)
	created, err := module.Handler.CreateSurveyHandler(context.Background(), "admin-1", httptransport.CreateSurveyRequest{
		Title:          "Raced",
		Description:    "desc",
		CandidateNames: []string{"A"},
	})
	if err != nil {
		t.Fatalf("create survey failed: %v", err)
	}
	activeSnapshot, err := module.Store.GetSurvey(context.Background(), created.SurveyID)
	if err != nil {
		t.Fatalf("snapshot read failed: %v", err)
	}

	if _, err := module.Handler.CloseSurveyHandler(context.Background(), "admin-1", created.SurveyID); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	// Retire is legal from any state, so the losing writer re-applies it
	// against the closed row and still lands on retired.
	retirer := lifecyclecommands.ChangeStatusUseCase{
		Surveys:    &staleSurveyRepository{SurveyRepository: module.Store, snapshot: activeSnapshot},
		Authorizer: allowAllAuthorizer{},
		Clock:      module.Store,
	}
	retired, err := retirer.Execute(context.Background(), lifecyclecommands.ChangeStatusCommand{
		SurveyID: created.SurveyID,
		ActorID:  "admin-1",
		Action:   lifecyclecommands.StatusActionRetire,
	})
	if err != nil {
		t.Fatalf("retire after losing the race failed: %v", err)
	}
	if retired.Status != entities.SurveyStatusRetired {
		t.Fatalf("expected retired, got %s", retired.Status)
	}
}

func TestAddCandidateOnlyWhileActive(t *testing.T) {
	module := lifecycleservice.NewInMemoryModule(allowAllAuthorizer{}, nil)
	created, err := module.Handler.CreateSurveyHandler(context.Background(), "admin-1", httptransport.CreateSurveyRequest{
		Title:          "Late entries",
		Description:    "desc",
		CandidateNames: []string{"A"},
	})
	if err != nil {
		t.Fatalf("create survey failed: %v", err)
	}

	added, err := module.Handler.AddCandidateHandler(context.Background(), "admin-1", created.SurveyID, httptransport.AddCandidateRequest{
		FullName: "B",
	})
	if err != nil {
		t.Fatalf("add candidate failed: %v", err)
	}
	if added.Position != 1 {
		t.Fatalf("expected appended position 1, got %d", added.Position)
	}

	if _, err := module.Handler.CloseSurveyHandler(context.Background(), "admin-1", created.SurveyID); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	_, err = module.Handler.AddCandidateHandler(context.Background(), "admin-1", created.SurveyID, httptransport.AddCandidateRequest{
		FullName: "C",
	})
	if !errors.Is(err, lifecycleerrors.ErrInvalidTransition) {
		t.Fatalf("expected invalid transition on closed survey, got %v", err)
	}
}

func TestChannelRegistrationAndLinking(t *testing.T) {
	module := lifecycleservice.NewInMemoryModule(allowAllAuthorizer{}, nil)
	created, err := module.Handler.CreateSurveyHandler(context.Background(), "admin-1", httptransport.CreateSurveyRequest{
		Title:          "Gated",
		Description:    "desc",
		CandidateNames: []string{"A"},
	})
	if err != nil {
		t.Fatalf("create survey failed: %v", err)
	}

	channel, err := module.Handler.RegisterChannelHandler(context.Background(), "admin-1", httptransport.RegisterChannelRequest{
		PlatformRef: "@news",
		Name:        "News",
		JoinURL:     "https://t.me/news",
	})
	if err != nil {
		t.Fatalf("register channel failed: %v", err)
	}

	_, err = module.Handler.RegisterChannelHandler(context.Background(), "admin-1", httptransport.RegisterChannelRequest{
		PlatformRef: "@news",
		Name:        "News again",
	})
	if !errors.Is(err, lifecycleerrors.ErrChannelAlreadyRegistered) {
		t.Fatalf("expected duplicate channel error, got %v", err)
	}

	link, err := module.Handler.LinkChannelHandler(context.Background(), "admin-1", created.SurveyID, channel.ChannelID)
	if err != nil {
		t.Fatalf("link failed: %v", err)
	}
	if !link.Linked {
		t.Fatalf("expected linked true")
	}
	// Linking twice keeps the same state.
	link, err = module.Handler.LinkChannelHandler(context.Background(), "admin-1", created.SurveyID, channel.ChannelID)
	if err != nil || !link.Linked {
		t.Fatalf("expected idempotent link, got linked=%v err=%v", link.Linked, err)
	}

	required, err := module.Handler.RequiredChannelsHandler(context.Background(), created.SurveyID)
	if err != nil {
		t.Fatalf("required channels failed: %v", err)
	}
	if len(required.Items) != 1 || required.Items[0].ChannelID != channel.ChannelID {
		t.Fatalf("expected one required channel, got %+v", required.Items)
	}

	unlink, err := module.Handler.UnlinkChannelHandler(context.Background(), "admin-1", created.SurveyID, channel.ChannelID)
	if err != nil {
		t.Fatalf("unlink failed: %v", err)
	}
	if unlink.Linked {
		t.Fatalf("expected linked false after unlink")
	}

	if err := module.Handler.RemoveChannelHandler(context.Background(), "admin-1", channel.ChannelID); err != nil {
		t.Fatalf("remove channel failed: %v", err)
	}
	channels, err := module.Handler.ListChannelsHandler(context.Background())
	if err != nil {
		t.Fatalf("list channels failed: %v", err)
	}
	if len(channels.Items) != 0 {
		t.Fatalf("expected no channels after removal, got %+v", channels.Items)
	}
}

func TestPublicationResultsOrdering(t *testing.T) {
	module := lifecycleservice.NewInMemoryModule(allowAllAuthorizer{}, nil)
	created, err := module.Handler.CreateSurveyHandler(context.Background(), "admin-1", httptransport.CreateSurveyRequest{
		Title:          "Results",
		Description:    "desc",
		CandidateNames: []string{"First", "Second", "Third"},
	})
	if err != nil {
		t.Fatalf("create survey failed: %v", err)
	}
	module.Store.SetCandidateVotes(created.SurveyID, created.Candidates[0].CandidateID, 2)
	module.Store.SetCandidateVotes(created.SurveyID, created.Candidates[1].CandidateID, 5)
	module.Store.SetCandidateVotes(created.SurveyID, created.Candidates[2].CandidateID, 2)

	results, err := module.Handler.PublicationHandler(context.Background(), created.SurveyID, "publish_results")
	if err != nil {
		t.Fatalf("publication failed: %v", err)
	}
	if results.TotalVotes != 9 {
		t.Fatalf("expected total 9, got %d", results.TotalVotes)
	}
	if results.Entries[0].FullName != "Second" {
		t.Fatalf("expected leader first, got %s", results.Entries[0].FullName)
	}
	// Tied candidates keep insertion order.
	if results.Entries[1].FullName != "First" || results.Entries[2].FullName != "Third" {
		t.Fatalf("expected stable tie-break, got %+v", results.Entries)
	}
	if results.Entries[0].Rank != 1 || results.Entries[1].Rank != 2 {
		t.Fatalf("expected sequential ranks, got %+v", results.Entries)
	}

	_, err = module.Handler.PublicationHandler(context.Background(), created.SurveyID, "publish_everything")
	if !errors.Is(err, lifecycleerrors.ErrInvalidPublicationKind) {
		t.Fatalf("expected invalid publication kind, got %v", err)
	}
}

func TestPublicationZeroVotes(t *testing.T) {
	module := lifecycleservice.NewInMemoryModule(allowAllAuthorizer{}, nil)
	created, err := module.Handler.CreateSurveyHandler(context.Background(), "admin-1", httptransport.CreateSurveyRequest{
		Title:          "Empty",
		Description:    "desc",
		CandidateNames: []string{"A", "B"},
	})
	if err != nil {
		t.Fatalf("create survey failed: %v", err)
	}

	results, err := module.Handler.PublicationHandler(context.Background(), created.SurveyID, "publish_results")
	if err != nil {
		t.Fatalf("publication failed: %v", err)
	}
	for _, entry := range results.Entries {
		if entry.Percent != 0 {
			t.Fatalf("expected zero percent with no votes, got %f", entry.Percent)
		}
	}
}
