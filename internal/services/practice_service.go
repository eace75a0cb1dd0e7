package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/DanielSedell02/AI-spr-kapp/internal/core"
	"github.com/DanielSedell02/AI-spr-kapp/internal/core/tutor"
	"github.com/DanielSedell02/AI-spr-kapp/internal/models"
)

// PracticeService covers the standalone drills outside the conversation loop:
// pronunciation analysis of a transcribed utterance and generated grammar
// exercises.
type PracticeService struct {
	db  core.DbClient
	gen *tutor.Generator
	now func() time.Time
}

func NewPracticeService(dbClient core.DbClient, gen *tutor.Generator) *PracticeService {
	return &PracticeService{db: dbClient, gen: gen, now: time.Now}
}

// Pronunciation analyzes a spoken-text transcript and folds the score into
// the user's pronunciation progress. An empty targetLanguage defaults to the
// user's configured target language.
func (s *PracticeService) Pronunciation(ctx context.Context, userID, text, targetLanguage string) (*models.PronunciationAnalysis, error) {
	if strings.TrimSpace(text) == "" {
		v := newValidationError()
		v.Fields["text"] = "is required"
		return nil, v
	}

	user, err := s.db.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if targetLanguage == "" {
		targetLanguage = user.TargetLanguage
	}

	analysis, err := s.gen.AnalyzePronunciation(ctx, text, targetLanguage)
	if err != nil {
		return nil, err
	}

	progress := user.Progress
	tutor.ApplyPronunciationProgress(&progress, analysis.Score, s.now())
	if err := s.db.UpdateUserProgress(ctx, user.ID, progress); err != nil {
		return nil, fmt.Errorf("update progress: %w", err)
	}

	return analysis, nil
}

// Grammar generates a grammar exercise for the topic. An invalid or empty
// level defaults to the user's configured level.
func (s *PracticeService) Grammar(ctx context.Context, userID, topic string, level models.LanguageLevel) (*models.GrammarExercise, error) {
	if strings.TrimSpace(topic) == "" {
		v := newValidationError()
		v.Fields["topic"] = "is required"
		return nil, v
	}

	user, err := s.db.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if !level.Valid() {
		level = user.LanguageLevel
	}

	return s.gen.GrammarExercise(ctx, user, topic, level)
}
