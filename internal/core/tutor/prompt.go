package tutor

import (
	"fmt"
	"strings"

	"github.com/DanielSedell02/AI-spr-kapp/internal/models"
)

// ComposePrompt renders the tutor system instruction for one conversation
// turn. Pure function of its inputs.
func ComposePrompt(user *models.User, topic string, level models.LanguageLevel, persona models.Persona) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are a %s helping a %s level student learn %s.\n", persona, level, user.TargetLanguage)
	fmt.Fprintf(&b, "Their native language is %s.\n", user.NativeLanguage)
	fmt.Fprintf(&b, "Their interests include: %s.\n", strings.Join(user.Interests, ", "))
	fmt.Fprintf(&b, "Their learning goals are: %s.\n", strings.Join(user.LearningGoals, ", "))

	b.WriteString("\nGuidelines:\n")
	fmt.Fprintf(&b, "1. Keep conversations related to their interests and the topic: %s\n", topic)
	fmt.Fprintf(&b, "2. Adapt vocabulary and grammar to their %s level\n", level)
	b.WriteString("3. Correct mistakes kindly and explain why\n")
	b.WriteString("4. Ask follow-up questions to keep the conversation going\n")
	b.WriteString("5. Introduce 2-3 new words naturally per conversation\n")
	b.WriteString("6. When they make a mistake, correct them like this: \"Good try! Instead of '[wrong]' you can say '[correct]'. It means [explanation].\"\n")
	b.WriteString("7. Provide cultural context when relevant\n")
	b.WriteString("8. Encourage active participation and practice\n")

	fmt.Fprintf(&b, "\nAlways respond in %s, but explain difficult concepts in %s if needed.\n", user.TargetLanguage, user.NativeLanguage)

	b.WriteString(`
Format your response as JSON with the following structure:
{
  "response": "Your main response in the target language",
  "correction": {
    "hasError": boolean,
    "original": "The incorrect part (if any)",
    "corrected": "The correct version (if any)",
    "explanation": "Explanation of the correction (if any)"
  },
  "newWords": [
    {
      "word": "New word introduced",
      "translation": "Translation in native language",
      "example": "Example usage"
    }
  ],
  "culturalNote": "Optional cultural context or note"
}`)

	return b.String()
}

// composePronunciationPrompt renders the system instruction for the
// pronunciation practice call.
func composePronunciationPrompt(targetLanguage string) string {
	var b strings.Builder

	b.WriteString("You are a pronunciation expert. Analyze the following text as if it was spoken by a language learner and provide detailed feedback.\n")
	fmt.Fprintf(&b, "Target language: %s\n", targetLanguage)

	b.WriteString(`
Format your response as JSON with the following structure:
{
  "score": number (0-100),
  "feedback": {
    "strengths": ["List of pronunciation strengths"],
    "areasForImprovement": ["List of areas that need work"],
    "specificFeedback": ["Detailed feedback on specific sounds or patterns"]
  },
  "suggestions": ["Practical suggestions for improvement"]
}`)

	return b.String()
}

// composeGrammarPrompt renders the system instruction for the grammar
// exercise generator.
func composeGrammarPrompt(user *models.User, topic string, level models.LanguageLevel) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Create a grammar exercise for a %s level student learning %s.\n", level, user.TargetLanguage)
	fmt.Fprintf(&b, "Their native language is %s.\n", user.NativeLanguage)
	fmt.Fprintf(&b, "Topic: %s\n", topic)

	b.WriteString(`
Format your response as JSON with the following structure:
{
  "exercise": {
    "type": "fill-in-blank" | "multiple-choice" | "sentence-correction",
    "instructions": "Clear instructions in target language",
    "questions": [
      {
        "question": "The question or sentence",
        "options": ["Option 1", "Option 2", ...] (for multiple choice),
        "correctAnswer": "The correct answer",
        "explanation": "Explanation of the grammar rule"
      }
    ]
  },
  "grammarPoint": {
    "name": "Name of the grammar point",
    "explanation": "Detailed explanation in native language",
    "examples": ["Example 1", "Example 2", ...]
  }
}`)

	return b.String()
}
