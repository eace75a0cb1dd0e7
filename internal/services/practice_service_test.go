package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DanielSedell02/AI-spr-kapp/internal/core/tutor"
	"github.com/DanielSedell02/AI-spr-kapp/internal/models"
)

const pronunciationReply = `{"score":85,"feedback":{"strengths":["clear vowels"],"areasForImprovement":["rolled r"],"specificFeedback":["practice 'perro'"]},"suggestions":["read aloud daily"]}`

const grammarReply = `{"exercise":{"type":"fill-in-blank","instructions":"Fill in the correct form of ser.","questions":[{"question":"Yo ___ feliz.","correctAnswer":"soy","explanation":"First person of ser."}]},"grammarPoint":{"name":"ser vs estar","explanation":"Ser marks essence.","examples":["Yo soy alto."]}}`

func newPracticeService(db *fakeDB, llm *stubLLM) *PracticeService {
	svc := NewPracticeService(db, tutor.NewGenerator(llm))
	svc.now = newFakeClock().Now
	return svc
}

// TestPronunciation_NudgesProgress verifies the analysis is returned and a
// score of 85 adds 85/20 = 4 points of pronunciation progress.
func TestPronunciation_NudgesProgress(t *testing.T) {
	db := newFakeDB()
	seedUser(db)
	svc := newPracticeService(db, &stubLLM{reply: pronunciationReply})

	analysis, err := svc.Pronunciation(context.Background(), "user-1", "El perro corre", "")
	require.NoError(t, err)

	assert.Equal(t, 85, analysis.Score)
	assert.Equal(t, []string{"clear vowels"}, analysis.Feedback.Strengths)
	assert.Equal(t, 4, db.users["user-1"].Progress.PronunciationScore)
	assert.False(t, db.users["user-1"].Progress.LastActive.IsZero())
}

// TestPronunciation_EmptyText verifies the text field is required.
func TestPronunciation_EmptyText(t *testing.T) {
	db := newFakeDB()
	seedUser(db)
	llm := &stubLLM{reply: pronunciationReply}
	svc := newPracticeService(db, llm)

	_, err := svc.Pronunciation(context.Background(), "user-1", "   ", "")
	var v *ValidationError
	require.ErrorAs(t, err, &v)
	assert.Contains(t, v.Fields, "text")
	assert.Zero(t, llm.calls)
}

// TestPronunciation_UnknownUser verifies an unknown user id fails before the
// model call.
func TestPronunciation_UnknownUser(t *testing.T) {
	db := newFakeDB()
	llm := &stubLLM{reply: pronunciationReply}
	svc := newPracticeService(db, llm)

	_, err := svc.Pronunciation(context.Background(), "ghost", "hola", "")
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.Zero(t, llm.calls)
}

// TestPronunciation_UpstreamFailureWritesNothing verifies a failed model call
// leaves the progress untouched.
func TestPronunciation_UpstreamFailureWritesNothing(t *testing.T) {
	db := newFakeDB()
	seedUser(db)
	svc := newPracticeService(db, &stubLLM{err: errors.New("quota")})

	_, err := svc.Pronunciation(context.Background(), "user-1", "hola", "")
	assert.ErrorIs(t, err, tutor.ErrUpstream)
	assert.Zero(t, db.progressCalls)
}

// TestGrammar_ReturnsExercise verifies the parsed exercise round-trips.
func TestGrammar_ReturnsExercise(t *testing.T) {
	db := newFakeDB()
	seedUser(db)
	svc := newPracticeService(db, &stubLLM{reply: grammarReply})

	ex, err := svc.Grammar(context.Background(), "user-1", "ser vs estar", models.LevelIntermediate)
	require.NoError(t, err)

	assert.Equal(t, "fill-in-blank", ex.Exercise.Type)
	require.Len(t, ex.Exercise.Questions, 1)
	assert.Equal(t, "soy", ex.Exercise.Questions[0].CorrectAnswer)
	assert.Equal(t, "ser vs estar", ex.GrammarPoint.Name)
	assert.Zero(t, db.progressCalls, "grammar drills do not touch progress")
}

// TestGrammar_LevelDefaultsToUser verifies an invalid level falls back to the
// user's configured level rather than erroring.
func TestGrammar_LevelDefaultsToUser(t *testing.T) {
	db := newFakeDB()
	seedUser(db)
	svc := newPracticeService(db, &stubLLM{reply: grammarReply})

	_, err := svc.Grammar(context.Background(), "user-1", "articles", "fluent")
	assert.NoError(t, err)
}

// TestGrammar_EmptyTopic verifies the topic field is required.
func TestGrammar_EmptyTopic(t *testing.T) {
	db := newFakeDB()
	seedUser(db)
	svc := newPracticeService(db, &stubLLM{reply: grammarReply})

	_, err := svc.Grammar(context.Background(), "user-1", "", models.LevelBeginner)
	var v *ValidationError
	require.ErrorAs(t, err, &v)
	assert.Contains(t, v.Fields, "topic")
}
