package tutor

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DanielSedell02/AI-spr-kapp/internal/models"
)

func promptUser() *models.User {
	return &models.User{
		Name:           "Astrid",
		NativeLanguage: "Swedish",
		TargetLanguage: "Spanish",
		LanguageLevel:  models.LevelBeginner,
		Interests:      []string{"football", "cooking"},
		LearningGoals:  []string{"travel", "order food"},
	}
}

// TestComposePrompt_NamesPersonaLevelAndLanguages verifies the opening lines
// carry the persona role, the student's level and both languages.
func TestComposePrompt_NamesPersonaLevelAndLanguages(t *testing.T) {
	p := ComposePrompt(promptUser(), "food", models.LevelBeginner, models.PersonaConversationPartner)

	assert.Contains(t, p, "You are a conversation_partner helping a beginner level student learn Spanish.")
	assert.Contains(t, p, "Their native language is Swedish.")
}

// TestComposePrompt_ListsInterestsAndGoalsVerbatim verifies interests and
// learning goals appear joined as readable lists.
func TestComposePrompt_ListsInterestsAndGoalsVerbatim(t *testing.T) {
	p := ComposePrompt(promptUser(), "food", models.LevelBeginner, models.PersonaTeacher)

	assert.Contains(t, p, "Their interests include: football, cooking.")
	assert.Contains(t, p, "Their learning goals are: travel, order food.")
}

// TestComposePrompt_ContainsGuidelinesAndCorrectionTemplate verifies the fixed
// pedagogical guidelines, including the exact correction phrasing template and
// the topic binding.
func TestComposePrompt_ContainsGuidelinesAndCorrectionTemplate(t *testing.T) {
	p := ComposePrompt(promptUser(), "traveling in Spain", models.LevelIntermediate, models.PersonaGrammarExpert)

	assert.Contains(t, p, "related to their interests and the topic: traveling in Spain")
	assert.Contains(t, p, "Adapt vocabulary and grammar to their intermediate level")
	assert.Contains(t, p, `"Good try! Instead of '[wrong]' you can say '[correct]'. It means [explanation]."`)
	assert.Contains(t, p, "Introduce 2-3 new words naturally per conversation")
	assert.Contains(t, p, "Provide cultural context when relevant")
	assert.Contains(t, p, "Encourage active participation and practice")
}

// TestComposePrompt_MandatesTargetLanguageWithFallback verifies the language
// directive and its native-language escape hatch.
func TestComposePrompt_MandatesTargetLanguageWithFallback(t *testing.T) {
	p := ComposePrompt(promptUser(), "food", models.LevelBeginner, models.PersonaTeacher)

	assert.Contains(t, p, "Always respond in Spanish, but explain difficult concepts in Swedish if needed.")
}

// TestComposePrompt_AppendsJSONFormatDirective verifies the strict output
// contract is the final section and names every required field.
func TestComposePrompt_AppendsJSONFormatDirective(t *testing.T) {
	p := ComposePrompt(promptUser(), "food", models.LevelBeginner, models.PersonaTeacher)

	idx := strings.Index(p, "Format your response as JSON")
	require.Greater(t, idx, 0)
	tail := p[idx:]
	for _, field := range []string{`"response"`, `"correction"`, `"hasError"`, `"newWords"`, `"culturalNote"`} {
		assert.Contains(t, tail, field)
	}
}

// TestComposePrompt_IsPure verifies two calls with identical inputs yield the
// identical string.
func TestComposePrompt_IsPure(t *testing.T) {
	a := ComposePrompt(promptUser(), "food", models.LevelBeginner, models.PersonaTeacher)
	b := ComposePrompt(promptUser(), "food", models.LevelBeginner, models.PersonaTeacher)
	assert.Equal(t, a, b)
}

// TestComposePronunciationPrompt_NamesTargetLanguage covers the pronunciation
// practice instruction.
func TestComposePronunciationPrompt_NamesTargetLanguage(t *testing.T) {
	p := composePronunciationPrompt("Spanish")

	assert.Contains(t, p, "pronunciation expert")
	assert.Contains(t, p, "Target language: Spanish")
	assert.Contains(t, p, `"areasForImprovement"`)
}

// TestComposeGrammarPrompt_NamesLevelAndTopic covers the grammar exercise
// instruction.
func TestComposeGrammarPrompt_NamesLevelAndTopic(t *testing.T) {
	p := composeGrammarPrompt(promptUser(), "past tense", models.LevelAdvanced)

	assert.Contains(t, p, "Create a grammar exercise for a advanced level student learning Spanish.")
	assert.Contains(t, p, "Topic: past tense")
	assert.Contains(t, p, `"grammarPoint"`)
}
