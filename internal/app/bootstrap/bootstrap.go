package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	authoringservice "saylov/contexts/survey-core/authoring-service"
	authoringlifecycle "saylov/contexts/survey-core/authoring-service/adapters/lifecycle"
	authoringmemory "saylov/contexts/survey-core/authoring-service/adapters/memory"
	lifecycleservice "saylov/contexts/survey-core/lifecycle-service"
	lifecyclepostgres "saylov/contexts/survey-core/lifecycle-service/adapters/postgres"
	lifecyclecommands "saylov/contexts/survey-core/lifecycle-service/application/commands"
	votingengine "saylov/contexts/survey-core/voting-engine"
	votingpostgres "saylov/contexts/survey-core/voting-engine/adapters/postgres"
	"saylov/contexts/survey-core/voting-engine/adapters/telegram"
	"saylov/internal/platform/config"
	"saylov/internal/platform/db"
	"saylov/internal/platform/httpserver"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	logger   *slog.Logger
}

// staticAuthorizer grants authoring rights to the single configured admin.
type staticAuthorizer struct {
	adminID string
}

func (a staticAuthorizer) IsAuthor(actorID string) bool {
	return a.adminID != "" && strings.TrimSpace(actorID) == a.adminID
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}
	if cfg.AdminID == "" {
		logger.Warn("ADMIN_ID is not set, authoring endpoints will reject everyone",
			"event", "bootstrap_admin_missing",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	authorizer := staticAuthorizer{adminID: cfg.AdminID}

	lifecycleRepo := lifecyclepostgres.NewRepository(pg.DB, logger)
	lifecycleModule := lifecycleservice.NewModule(lifecycleservice.Dependencies{
		Surveys:    lifecycleRepo,
		Channels:   lifecycleRepo,
		Authorizer: authorizer,
		Clock:      lifecyclepostgres.SystemClock{},
		IDGen:      lifecyclepostgres.UUIDGenerator{},
		Logger:     logger,
	})

	votingRepo := votingpostgres.NewRepository(pg.DB, logger)
	oracle := telegram.NewOracle(cfg.BotToken, cfg.OracleTimeout, logger)
	votingModule := votingengine.NewModule(votingengine.Dependencies{
		Votes:         votingRepo,
		Participants:  votingRepo,
		Surveys:       votingRepo,
		Oracle:        oracle,
		OracleTimeout: cfg.OracleTimeout,
		Clock:         votingpostgres.SystemClock{},
		Logger:        logger,
	})

	drafts := authoringmemory.NewSessionStore()
	authoringModule := authoringservice.NewModule(authoringservice.Dependencies{
		Drafts: drafts,
		Creator: authoringlifecycle.Creator{
			UseCase: lifecyclecommands.CreateSurveyUseCase{
				Surveys:    lifecycleRepo,
				Authorizer: authorizer,
				Clock:      lifecyclepostgres.SystemClock{},
				IDGen:      lifecyclepostgres.UUIDGenerator{},
				Logger:     logger,
			},
		},
		Authorizer: authorizer,
		Clock:      drafts,
		Logger:     logger,
	})

	server := httpserver.New(lifecycleModule, votingModule, authoringModule, logger, normalizeAddr(cfg.HTTPPort))
	return &APIApp{
		server:   server,
		postgres: pg,
		logger:   logger,
	}, nil
}

func (a *APIApp) Run(_ context.Context) error {
	if a.logger != nil {
		a.logger.Info("api app started",
			"event", "bootstrap_api_started",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
	}
	return a.server.Start()
}

func (a *APIApp) Close() error {
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
