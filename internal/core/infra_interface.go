package core

import (
	"context"

	"github.com/DanielSedell02/AI-spr-kapp/internal/models"
)

// ConversationFilter narrows a conversation listing. Zero-value fields match
// everything.
type ConversationFilter struct {
	Topic           string
	DifficultyLevel models.LanguageLevel
	AIPersona       models.Persona
	Limit           int
}

// DbClient defines all persistence operations the services need.
// It abstracts Postgres so higher layers never depend on a specific DB.
type DbClient interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	UpdateUserProgress(ctx context.Context, userID string, progress models.Progress) error

	GetConversation(ctx context.Context, key models.ConversationKey) (*models.Conversation, error)
	AppendTurns(ctx context.Context, key models.ConversationKey, turns []models.Turn, improvementAreas []string) (*models.Conversation, error)
	ListConversations(ctx context.Context, userID string, filter ConversationFilter) ([]models.Conversation, error)

	Close() error
}
