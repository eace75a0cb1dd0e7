package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/DanielSedell02/AI-spr-kapp/internal/core"
	"github.com/DanielSedell02/AI-spr-kapp/internal/core/tutor"
	"github.com/DanielSedell02/AI-spr-kapp/internal/logger"
	"github.com/DanielSedell02/AI-spr-kapp/internal/models"
)

const listLimit = 10

// ConversationService runs one tutoring exchange end to end: load the user
// and prior context, generate the tutor reply, append both turns and nudge
// the progress scores. Nothing is written unless generation succeeds.
type ConversationService struct {
	db  core.DbClient
	gen *tutor.Generator
	now func() time.Time
}

func NewConversationService(dbClient core.DbClient, gen *tutor.Generator) *ConversationService {
	return &ConversationService{db: dbClient, gen: gen, now: time.Now}
}

type ExchangeInput struct {
	UserID          string
	Topic           string
	DifficultyLevel models.LanguageLevel
	AIPersona       models.Persona
	Role            string
	Message         string
}

func (in *ExchangeInput) validate() error {
	v := newValidationError()
	if strings.TrimSpace(in.Topic) == "" {
		v.Fields["topic"] = "is required"
	}
	if !in.DifficultyLevel.Valid() {
		v.Fields["difficultyLevel"] = "must be one of beginner, intermediate, advanced"
	}
	if !in.AIPersona.Valid() {
		v.Fields["aiPersona"] = "must be one of teacher, conversation_partner, grammar_expert, pronunciation_coach"
	}
	if in.Role != models.RoleUser && in.Role != models.RoleAssistant {
		v.Fields["message.role"] = "must be user or assistant"
	}
	if strings.TrimSpace(in.Message) == "" {
		v.Fields["message.content"] = "is required"
	}
	if len(v.Fields) > 0 {
		return v
	}
	return nil
}

// Exchange handles one user message: generate a tutor reply, append both
// turns to the conversation for the (user, topic, level, persona) key, and
// update the user's progress. The conversation append and the progress update
// are two separate writes; a failure after the first leaves progress stale
// until the next exchange.
func (s *ConversationService) Exchange(ctx context.Context, in ExchangeInput) (*models.Conversation, *models.TutorReply, error) {
	log := logger.FromContext(ctx)

	if err := in.validate(); err != nil {
		return nil, nil, err
	}

	user, err := s.db.GetUserByID(ctx, in.UserID)
	if err != nil {
		return nil, nil, fmt.Errorf("load user: %w", err)
	}
	if user == nil {
		return nil, nil, ErrUserNotFound
	}

	key := models.ConversationKey{
		UserID:          in.UserID,
		Topic:           in.Topic,
		DifficultyLevel: in.DifficultyLevel,
		AIPersona:       in.AIPersona,
	}

	var history []models.Turn
	existing, err := s.db.GetConversation(ctx, key)
	if err != nil {
		return nil, nil, fmt.Errorf("load conversation: %w", err)
	}
	if existing != nil {
		history = existing.ConversationLog
	}

	reply, err := s.gen.Respond(ctx, user, in.Topic, in.DifficultyLevel, in.AIPersona, history, in.Message)
	if err != nil {
		return nil, nil, err
	}

	feedback := tutor.DeriveFeedback(reply)
	userTurn := models.Turn{
		Role:      in.Role,
		Content:   in.Message,
		Timestamp: s.now(),
	}
	assistantTurn := models.Turn{
		Role:      models.RoleAssistant,
		Content:   reply.Response,
		Timestamp: s.now(),
		Feedback:  &feedback,
	}

	var areas []string
	if reply.Correction.HasError && reply.Correction.Explanation != "" {
		areas = []string{reply.Correction.Explanation}
	}

	conv, err := s.db.AppendTurns(ctx, key, []models.Turn{userTurn, assistantTurn}, areas)
	if err != nil {
		return nil, nil, fmt.Errorf("append turns: %w", err)
	}

	progress := user.Progress
	tutor.ApplyTurnProgress(&progress, reply.Correction.HasError, s.now())
	if err := s.db.UpdateUserProgress(ctx, user.ID, progress); err != nil {
		// Conversation is already appended; the stale scores correct
		// themselves on the next successful exchange.
		log.Err(err).Str("user_id", user.ID).Msg("progress update failed after append")
		return nil, nil, fmt.Errorf("update progress: %w", err)
	}

	return conv, reply, nil
}

// List returns up to ten of the user's conversations matching the filter,
// most recently updated first.
func (s *ConversationService) List(ctx context.Context, userID string, filter core.ConversationFilter) ([]models.Conversation, error) {
	filter.Limit = listLimit
	conversations, err := s.db.ListConversations(ctx, userID, filter)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	return conversations, nil
}
