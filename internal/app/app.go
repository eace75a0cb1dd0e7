package app

import (
	"context"
	"fmt"
	"time"

	"github.com/DanielSedell02/AI-spr-kapp/internal/config"
	"github.com/DanielSedell02/AI-spr-kapp/internal/core/auth"
	db "github.com/DanielSedell02/AI-spr-kapp/internal/core/database"
	"github.com/DanielSedell02/AI-spr-kapp/internal/core/llm"
	"github.com/DanielSedell02/AI-spr-kapp/internal/core/tutor"
	"github.com/DanielSedell02/AI-spr-kapp/internal/logger"
	"github.com/DanielSedell02/AI-spr-kapp/internal/services"
)

type App struct {
	DBClient *db.DatabaseClient
	LLM      *llm.GeminiLLM
	Server   *Server
}

func NewApp(ctx context.Context, cfg *config.Config, log *logger.Logger) (*App, error) {
	appCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	dbClient, err := db.NewDatabaseClient(appCtx, cfg)
	if err != nil {
		return nil, fmt.Errorf("couldn't initialize the database: %w", err)
	}
	log.Info().Msg("database initialized and ready")

	llmProvider, err := llm.NewGeminiLLM(appCtx, cfg.AIAPIKey, cfg.GenModel, cfg.MaxOutputTokens)
	if err != nil {
		_ = dbClient.Close()
		return nil, fmt.Errorf("couldn't initialize the model provider: %w", err)
	}

	tokens := auth.NewTokenManager(cfg.JWTSecret, auth.DefaultTTL)
	generator := tutor.NewGenerator(llmProvider)

	userService := services.NewUserService(dbClient, tokens)
	conversationService := services.NewConversationService(dbClient, generator)
	practiceService := services.NewPracticeService(dbClient, generator)

	server := NewServer(cfg, log, tokens, userService, conversationService, practiceService)

	return &App{DBClient: dbClient, LLM: llmProvider, Server: server}, nil
}

func (a *App) Close() {
	if a.LLM != nil {
		_ = a.LLM.Close()
	}
	if a.DBClient != nil {
		_ = a.DBClient.Close()
	}
}
