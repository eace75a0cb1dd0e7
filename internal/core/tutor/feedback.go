package tutor

import (
	"fmt"
	"time"

	"github.com/DanielSedell02/AI-spr-kapp/internal/models"
)

const maxScore = 100

// DeriveFeedback maps a parsed tutor reply to the feedback record persisted
// on the assistant turn. Accuracy is a binary signal: 100 clean, 80 when a
// correction was flagged.
func DeriveFeedback(reply *models.TutorReply) models.Feedback {
	fb := models.Feedback{
		Accuracy:  maxScore,
		Issues:    []string{},
		Positives: []string{"Perfect!"},
		Tips:      []string{},
	}

	if reply.Correction.HasError {
		fb.Accuracy = 80
		fb.Positives = []string{"Good attempt!"}
		if reply.Correction.Explanation != "" {
			fb.Issues = []string{reply.Correction.Explanation}
		}
	}

	for _, w := range reply.NewWords {
		fb.Tips = append(fb.Tips, fmt.Sprintf("New word: %s - %s. Example: %s", w.Word, w.Translation, w.Example))
	}

	return fb
}

// ApplyTurnProgress nudges the skill scores after one exchange: +1 grammar on
// a flagged correction, otherwise +2 confidence, both capped at 100.
// LastActive is always refreshed.
func ApplyTurnProgress(p *models.Progress, hadError bool, now time.Time) {
	if hadError {
		p.GrammarScore = capScore(p.GrammarScore + 1)
	} else {
		p.ConfidenceLevel = capScore(p.ConfidenceLevel + 2)
	}
	p.LastActive = now
}

// ApplyPronunciationProgress folds a pronunciation analysis score into the
// rolling pronunciation skill: score/20 points per analysis, capped at 100.
func ApplyPronunciationProgress(p *models.Progress, score int, now time.Time) {
	p.PronunciationScore = capScore(p.PronunciationScore + score/20)
	p.LastActive = now
}

func capScore(v int) int {
	if v > maxScore {
		return maxScore
	}
	if v < 0 {
		return 0
	}
	return v
}
