package authoringservice

import (
	"log/slog"

	httpadapter "saylov/contexts/survey-core/authoring-service/adapters/http"
	"saylov/contexts/survey-core/authoring-service/adapters/memory"
	"saylov/contexts/survey-core/authoring-service/application/commands"
	"saylov/contexts/survey-core/authoring-service/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Store   *memory.SessionStore
}

type Dependencies struct {
	Drafts     ports.DraftStore
	Creator    ports.SurveyCreator
	Authorizer ports.Authorizer
	Clock      ports.Clock
	Logger     *slog.Logger
}

func NewModule(deps Dependencies) Module {
	return Module{
		Handler: httpadapter.Handler{
			Form: commands.FormUseCase{
				Drafts:     deps.Drafts,
				Creator:    deps.Creator,
				Authorizer: deps.Authorizer,
				Clock:      deps.Clock,
				Logger:     deps.Logger,
			},
			Logger: deps.Logger,
		},
	}
}

func NewInMemoryModule(creator ports.SurveyCreator, authorizer ports.Authorizer, logger *slog.Logger) Module {
	store := memory.NewSessionStore()
	module := NewModule(Dependencies{
		Drafts:     store,
		Creator:    creator,
		Authorizer: authorizer,
		Clock:      store,
		Logger:     logger,
	})
	module.Store = store
	return module
}
