package votingengine

import (
	"log/slog"
	"time"

	httpadapter "saylov/contexts/survey-core/voting-engine/adapters/http"
	"saylov/contexts/survey-core/voting-engine/adapters/memory"
	"saylov/contexts/survey-core/voting-engine/application/commands"
	"saylov/contexts/survey-core/voting-engine/application/queries"
	"saylov/contexts/survey-core/voting-engine/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Votes         ports.VoteRepository
	Participants  ports.ParticipantRepository
	Surveys       ports.SurveyReader
	Oracle        ports.MembershipOracle
	OracleTimeout time.Duration
	Clock         ports.Clock
	Logger        *slog.Logger
}

func NewModule(deps Dependencies) Module {
	return Module{
		Handler: httpadapter.Handler{
			RegisterParticipant: commands.RegisterParticipantUseCase{
				Participants: deps.Participants,
				Clock:        deps.Clock,
				Logger:       deps.Logger,
			},
			RegisterVote: commands.RegisterVoteUseCase{
				Votes:        deps.Votes,
				Participants: deps.Participants,
				Surveys:      deps.Surveys,
				Clock:        deps.Clock,
				Logger:       deps.Logger,
			},
			Access: queries.AccessUseCase{
				Surveys:       deps.Surveys,
				Oracle:        deps.Oracle,
				OracleTimeout: deps.OracleTimeout,
				Logger:        deps.Logger,
			},
			Reports: queries.ReportUseCase{
				Votes:        deps.Votes,
				Participants: deps.Participants,
				Surveys:      deps.Surveys,
			},
			Logger: deps.Logger,
		},
	}
}

func NewInMemoryModule(logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Votes:        store,
		Participants: store,
		Surveys:      store,
		Oracle:       store,
		Clock:        store,
		Logger:       logger,
	})
	module.Store = store
	return module
}
