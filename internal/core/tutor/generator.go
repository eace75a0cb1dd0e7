package tutor

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/DanielSedell02/AI-spr-kapp/internal/core"
	"github.com/DanielSedell02/AI-spr-kapp/internal/models"
)

// historyLimit caps how many prior turns are replayed to the model.
const historyLimit = 5

const (
	conversationTemperature  float32 = 0.7
	pronunciationTemperature float32 = 0.3
)

// Generator turns a composed prompt plus message history into a parsed tutor
// reply. One model call per invocation, no retries.
type Generator struct {
	llm core.LLMProvider
}

func NewGenerator(llm core.LLMProvider) *Generator {
	return &Generator{llm: llm}
}

// Respond calls the model with the conversation system prompt, up to the last
// five prior turns and the new user message, and parses the fixed reply
// contract.
func (g *Generator) Respond(ctx context.Context, user *models.User, topic string, level models.LanguageLevel, persona models.Persona, history []models.Turn, message string) (*models.TutorReply, error) {
	systemPrompt := ComposePrompt(user, topic, level, persona)

	raw, err := g.llm.Generate(ctx, systemPrompt, chatHistory(history), message, conversationTemperature)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	var reply models.TutorReply
	if err := json.Unmarshal([]byte(stripFences(raw)), &reply); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedReply, err)
	}
	if reply.Response == "" {
		return nil, fmt.Errorf("%w: missing response field", ErrMalformedReply)
	}
	return &reply, nil
}

// AnalyzePronunciation scores a transcribed utterance against the target
// language.
func (g *Generator) AnalyzePronunciation(ctx context.Context, text, targetLanguage string) (*models.PronunciationAnalysis, error) {
	systemPrompt := composePronunciationPrompt(targetLanguage)

	raw, err := g.llm.Generate(ctx, systemPrompt, nil, text, pronunciationTemperature)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	var analysis models.PronunciationAnalysis
	if err := json.Unmarshal([]byte(stripFences(raw)), &analysis); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedReply, err)
	}
	if analysis.Score < 0 || analysis.Score > 100 {
		return nil, fmt.Errorf("%w: score %d out of range", ErrMalformedReply, analysis.Score)
	}
	return &analysis, nil
}

// GrammarExercise generates a level-matched grammar drill for the topic.
func (g *Generator) GrammarExercise(ctx context.Context, user *models.User, topic string, level models.LanguageLevel) (*models.GrammarExercise, error) {
	systemPrompt := composeGrammarPrompt(user, topic, level)

	raw, err := g.llm.Generate(ctx, systemPrompt, nil, "Generate the exercise now.", conversationTemperature)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	var exercise models.GrammarExercise
	if err := json.Unmarshal([]byte(stripFences(raw)), &exercise); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedReply, err)
	}
	if len(exercise.Exercise.Questions) == 0 {
		return nil, fmt.Errorf("%w: exercise has no questions", ErrMalformedReply)
	}
	return &exercise, nil
}

// chatHistory maps the last historyLimit turns to provider messages,
// most-recent-last.
func chatHistory(turns []models.Turn) []core.ChatMessage {
	if len(turns) > historyLimit {
		turns = turns[len(turns)-historyLimit:]
	}
	msgs := make([]core.ChatMessage, 0, len(turns))
	for _, t := range turns {
		msgs = append(msgs, core.ChatMessage{Role: t.Role, Content: t.Content})
	}
	return msgs
}

// stripFences removes a markdown code fence some models wrap around JSON
// output even in JSON mode.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}
