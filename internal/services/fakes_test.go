package services

import (
	"context"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/DanielSedell02/AI-spr-kapp/internal/core"
	"github.com/DanielSedell02/AI-spr-kapp/internal/models"
)

// fakeDB is an in-memory core.DbClient mirroring the upsert-append and
// dedup-merge semantics of the Postgres client.
type fakeDB struct {
	users         map[string]*models.User
	conversations map[models.ConversationKey]*models.Conversation

	appendCalls   int
	progressCalls int

	createUserErr error
	progressErr   error
}

func newFakeDB() *fakeDB {
	return &fakeDB{
		users:         map[string]*models.User{},
		conversations: map[models.ConversationKey]*models.Conversation{},
	}
}

func (f *fakeDB) CreateUser(_ context.Context, user *models.User) error {
	if f.createUserErr != nil {
		return f.createUserErr
	}
	u := *user
	f.users[user.ID] = &u
	return nil
}

func (f *fakeDB) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			copy := *u
			return &copy, nil
		}
	}
	return nil, nil
}

func (f *fakeDB) GetUserByID(_ context.Context, id string) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	copy := *u
	return &copy, nil
}

func (f *fakeDB) UpdateUserProgress(_ context.Context, userID string, progress models.Progress) error {
	f.progressCalls++
	if f.progressErr != nil {
		return f.progressErr
	}
	if u, ok := f.users[userID]; ok {
		u.Progress = progress
	}
	return nil
}

func (f *fakeDB) GetConversation(_ context.Context, key models.ConversationKey) (*models.Conversation, error) {
	c, ok := f.conversations[key]
	if !ok {
		return nil, nil
	}
	copy := *c
	return &copy, nil
}

func (f *fakeDB) AppendTurns(_ context.Context, key models.ConversationKey, turns []models.Turn, improvementAreas []string) (*models.Conversation, error) {
	f.appendCalls++
	c, ok := f.conversations[key]
	if !ok {
		c = &models.Conversation{
			ID:               uuid.NewString(),
			UserID:           key.UserID,
			Topic:            key.Topic,
			DifficultyLevel:  key.DifficultyLevel,
			AIPersona:        key.AIPersona,
			ConversationLog:  []models.Turn{},
			ImprovementAreas: []string{},
			CreatedAt:        time.Now(),
		}
		f.conversations[key] = c
	}
	c.ConversationLog = append(c.ConversationLog, turns...)
	for _, area := range improvementAreas {
		if !slices.Contains(c.ImprovementAreas, area) {
			c.ImprovementAreas = append(c.ImprovementAreas, area)
		}
	}
	c.UpdatedAt = time.Now()
	copy := *c
	return &copy, nil
}

func (f *fakeDB) ListConversations(_ context.Context, userID string, filter core.ConversationFilter) ([]models.Conversation, error) {
	var out []models.Conversation
	for _, c := range f.conversations {
		if c.UserID != userID {
			continue
		}
		if filter.Topic != "" && c.Topic != filter.Topic {
			continue
		}
		if filter.DifficultyLevel != "" && c.DifficultyLevel != filter.DifficultyLevel {
			continue
		}
		if filter.AIPersona != "" && c.AIPersona != filter.AIPersona {
			continue
		}
		out = append(out, *c)
	}
	slices.SortFunc(out, func(a, b models.Conversation) int {
		return b.UpdatedAt.Compare(a.UpdatedAt)
	})
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (f *fakeDB) Close() error { return nil }

var _ core.DbClient = (*fakeDB)(nil)

// stubLLM returns a canned completion for the tutor generator.
type stubLLM struct {
	reply string
	err   error

	lastHistory []core.ChatMessage
	calls       int
}

func (s *stubLLM) Generate(_ context.Context, _ string, history []core.ChatMessage, _ string, _ float32) (string, error) {
	s.calls++
	s.lastHistory = history
	return s.reply, s.err
}

// fakeClock hands out strictly increasing timestamps.
type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.t = c.t.Add(time.Second)
	return c.t
}
