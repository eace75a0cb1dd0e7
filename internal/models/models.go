package models

import (
	"time"
)

// LanguageLevel is a learner's self-reported proficiency in the target language.
type LanguageLevel string

const (
	LevelBeginner     LanguageLevel = "beginner"
	LevelIntermediate LanguageLevel = "intermediate"
	LevelAdvanced     LanguageLevel = "advanced"
)

func (l LanguageLevel) Valid() bool {
	switch l {
	case LevelBeginner, LevelIntermediate, LevelAdvanced:
		return true
	}
	return false
}

// Persona selects the tutor behaviour profile used when composing prompts.
type Persona string

const (
	PersonaTeacher             Persona = "teacher"
	PersonaConversationPartner Persona = "conversation_partner"
	PersonaGrammarExpert       Persona = "grammar_expert"
	PersonaPronunciationCoach  Persona = "pronunciation_coach"
)

func (p Persona) Valid() bool {
	switch p {
	case PersonaTeacher, PersonaConversationPartner, PersonaGrammarExpert, PersonaPronunciationCoach:
		return true
	}
	return false
}

// Progress holds a user's rolling skill scores. All scores stay within [0,100].
type Progress struct {
	VocabularyScore    int       `json:"vocabularyScore"`
	GrammarScore       int       `json:"grammarScore"`
	PronunciationScore int       `json:"pronunciationScore"`
	ConfidenceLevel    int       `json:"confidenceLevel"`
	LastActive         time.Time `json:"lastActive"`
}

// User represents a registered learner.
type User struct {
	ID             string        `db:"id" json:"id"`
	Email          string        `db:"email" json:"email"`
	PasswordHash   string        `db:"password_hash" json:"-"`
	Name           string        `db:"name" json:"name"`
	NativeLanguage string        `db:"native_language" json:"nativeLanguage"`
	TargetLanguage string        `db:"target_language" json:"targetLanguage"`
	LanguageLevel  LanguageLevel `db:"language_level" json:"languageLevel"`
	Interests      []string      `db:"interests" json:"interests"`
	LearningGoals  []string      `db:"learning_goals" json:"learningGoals"`
	Progress       Progress      `db:"progress" json:"progress"`
	CreatedAt      time.Time     `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time     `db:"updated_at" json:"updatedAt"`
}

// Feedback is the derived per-turn scoring attached to assistant turns.
type Feedback struct {
	Accuracy  int      `json:"accuracy"`
	Issues    []string `json:"issues"`
	Positives []string `json:"positives"`
	Tips      []string `json:"tips"`
}

// Turn is one message within a conversation log.
type Turn struct {
	Role      string    `json:"role"` // "user" or "assistant"
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	Feedback  *Feedback `json:"feedback,omitempty"`
}

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ConversationKey identifies the single conversation a (user, topic, level,
// persona) tuple maps to.
type ConversationKey struct {
	UserID          string
	Topic           string
	DifficultyLevel LanguageLevel
	AIPersona       Persona
}

// Conversation is the evolving message log for one conversation key.
type Conversation struct {
	ID               string        `db:"id" json:"id"`
	UserID           string        `db:"user_id" json:"userId"`
	Topic            string        `db:"topic" json:"topic"`
	DifficultyLevel  LanguageLevel `db:"difficulty_level" json:"difficultyLevel"`
	AIPersona        Persona       `db:"ai_persona" json:"aiPersona"`
	ConversationLog  []Turn        `db:"conversation_log" json:"conversationLog"`
	ImprovementAreas []string      `db:"improvement_areas" json:"improvementAreas"`
	CreatedAt        time.Time     `db:"created_at" json:"createdAt"`
	UpdatedAt        time.Time     `db:"updated_at" json:"updatedAt"`
}

func (c *Conversation) Key() ConversationKey {
	return ConversationKey{
		UserID:          c.UserID,
		Topic:           c.Topic,
		DifficultyLevel: c.DifficultyLevel,
		AIPersona:       c.AIPersona,
	}
}

// Correction describes an error the tutor spotted in the learner's message.
// Original/Corrected/Explanation are blank when HasError is false.
type Correction struct {
	HasError    bool   `json:"hasError"`
	Original    string `json:"original,omitempty"`
	Corrected   string `json:"corrected,omitempty"`
	Explanation string `json:"explanation,omitempty"`
}

// NewWord is one vocabulary item the tutor introduced during a turn.
type NewWord struct {
	Word        string `json:"word"`
	Translation string `json:"translation"`
	Example     string `json:"example"`
}

// TutorReply is the fixed JSON contract every tutor completion must follow.
type TutorReply struct {
	Response     string     `json:"response"`
	Correction   Correction `json:"correction"`
	NewWords     []NewWord  `json:"newWords"`
	CulturalNote string     `json:"culturalNote,omitempty"`
}

// PronunciationFeedback groups the detailed pronunciation findings.
type PronunciationFeedback struct {
	Strengths           []string `json:"strengths"`
	AreasForImprovement []string `json:"areasForImprovement"`
	SpecificFeedback    []string `json:"specificFeedback"`
}

// PronunciationAnalysis is the JSON contract of the pronunciation practice call.
type PronunciationAnalysis struct {
	Score       int                   `json:"score"`
	Feedback    PronunciationFeedback `json:"feedback"`
	Suggestions []string              `json:"suggestions"`
}

// ExerciseQuestion is one question inside a generated grammar exercise.
type ExerciseQuestion struct {
	Question      string   `json:"question"`
	Options       []string `json:"options,omitempty"`
	CorrectAnswer string   `json:"correctAnswer"`
	Explanation   string   `json:"explanation"`
}

// Exercise is the question set of a generated grammar exercise.
type Exercise struct {
	Type         string             `json:"type"` // fill-in-blank | multiple-choice | sentence-correction
	Instructions string             `json:"instructions"`
	Questions    []ExerciseQuestion `json:"questions"`
}

// GrammarPoint explains the rule a grammar exercise drills.
type GrammarPoint struct {
	Name        string   `json:"name"`
	Explanation string   `json:"explanation"`
	Examples    []string `json:"examples"`
}

// GrammarExercise is the JSON contract of the grammar practice call.
type GrammarExercise struct {
	Exercise     Exercise     `json:"exercise"`
	GrammarPoint GrammarPoint `json:"grammarPoint"`
}
