package lifecycleservice

import (
	"log/slog"

	httpadapter "saylov/contexts/survey-core/lifecycle-service/adapters/http"
	"saylov/contexts/survey-core/lifecycle-service/adapters/memory"
	"saylov/contexts/survey-core/lifecycle-service/application/commands"
	"saylov/contexts/survey-core/lifecycle-service/application/queries"
	"saylov/contexts/survey-core/lifecycle-service/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Surveys    ports.SurveyRepository
	Channels   ports.ChannelRepository
	Authorizer ports.Authorizer
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Logger     *slog.Logger
}

func NewModule(deps Dependencies) Module {
	return Module{
		Handler: httpadapter.Handler{
			CreateSurvey: commands.CreateSurveyUseCase{
				Surveys:    deps.Surveys,
				Authorizer: deps.Authorizer,
				Clock:      deps.Clock,
				IDGen:      deps.IDGen,
				Logger:     deps.Logger,
			},
			ChangeStatus: commands.ChangeStatusUseCase{
				Surveys:    deps.Surveys,
				Authorizer: deps.Authorizer,
				Clock:      deps.Clock,
				Logger:     deps.Logger,
			},
			AddCandidate: commands.AddCandidateUseCase{
				Surveys:    deps.Surveys,
				Authorizer: deps.Authorizer,
				Clock:      deps.Clock,
				IDGen:      deps.IDGen,
				Logger:     deps.Logger,
			},
			Channels: commands.ChannelUseCase{
				Channels:   deps.Channels,
				Surveys:    deps.Surveys,
				Authorizer: deps.Authorizer,
				Clock:      deps.Clock,
				IDGen:      deps.IDGen,
				Logger:     deps.Logger,
			},
			Queries: queries.SurveyQueryUseCase{
				Surveys:  deps.Surveys,
				Channels: deps.Channels,
			},
			Publications: queries.PublicationUseCase{
				Surveys: deps.Surveys,
			},
			Logger: deps.Logger,
		},
	}
}

func NewInMemoryModule(authorizer ports.Authorizer, logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Surveys:    store,
		Channels:   store,
		Authorizer: authorizer,
		Clock:      store,
		IDGen:      store,
		Logger:     logger,
	})
	module.Store = store
	return module
}
