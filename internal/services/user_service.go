package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/DanielSedell02/AI-spr-kapp/internal/core"
	"github.com/DanielSedell02/AI-spr-kapp/internal/core/auth"
	db "github.com/DanielSedell02/AI-spr-kapp/internal/core/database"
	"github.com/DanielSedell02/AI-spr-kapp/internal/logger"
	"github.com/DanielSedell02/AI-spr-kapp/internal/models"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

const (
	minPasswordLen = 6
	minNameLen     = 2
)

// UserService handles signup and signin: validation, credential hashing and
// token issuance.
type UserService struct {
	db     core.DbClient
	tokens *auth.TokenManager
	now    func() time.Time
}

func NewUserService(dbClient core.DbClient, tokens *auth.TokenManager) *UserService {
	return &UserService{db: dbClient, tokens: tokens, now: time.Now}
}

type SignupInput struct {
	Email          string               `json:"email"`
	Password       string               `json:"password"`
	Name           string               `json:"name"`
	NativeLanguage string               `json:"nativeLanguage"`
	TargetLanguage string               `json:"targetLanguage"`
	LanguageLevel  models.LanguageLevel `json:"languageLevel"`
	Interests      []string             `json:"interests"`
	LearningGoals  []string             `json:"learningGoals"`
}

func (in *SignupInput) validate() error {
	v := newValidationError()
	if !emailPattern.MatchString(in.Email) {
		v.Fields["email"] = "must be a valid email address"
	}
	if len(in.Password) < minPasswordLen {
		v.Fields["password"] = fmt.Sprintf("must be at least %d characters", minPasswordLen)
	}
	if len(strings.TrimSpace(in.Name)) < minNameLen {
		v.Fields["name"] = fmt.Sprintf("must be at least %d characters", minNameLen)
	}
	if strings.TrimSpace(in.NativeLanguage) == "" {
		v.Fields["nativeLanguage"] = "is required"
	}
	if strings.TrimSpace(in.TargetLanguage) == "" {
		v.Fields["targetLanguage"] = "is required"
	}
	if !in.LanguageLevel.Valid() {
		v.Fields["languageLevel"] = "must be one of beginner, intermediate, advanced"
	}
	if len(v.Fields) > 0 {
		return v
	}
	return nil
}

// Signup registers a new learner. The stored credential is a bcrypt hash,
// never the plaintext. Returns the created user and a fresh token.
func (s *UserService) Signup(ctx context.Context, in SignupInput) (*models.User, string, error) {
	log := logger.FromContext(ctx)

	if err := in.validate(); err != nil {
		return nil, "", err
	}

	email := strings.ToLower(strings.TrimSpace(in.Email))

	existing, err := s.db.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, "", fmt.Errorf("lookup email: %w", err)
	}
	if existing != nil {
		return nil, "", ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	now := s.now()
	user := &models.User{
		ID:             uuid.NewString(),
		Email:          email,
		PasswordHash:   string(hash),
		Name:           strings.TrimSpace(in.Name),
		NativeLanguage: in.NativeLanguage,
		TargetLanguage: in.TargetLanguage,
		LanguageLevel:  in.LanguageLevel,
		Interests:      orEmpty(in.Interests),
		LearningGoals:  orEmpty(in.LearningGoals),
		Progress:       models.Progress{LastActive: now},
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.db.CreateUser(ctx, user); err != nil {
		if errors.Is(err, db.ErrEmailExists) {
			return nil, "", ErrEmailTaken
		}
		log.Err(err).Str("email", email).Msg("user creation failed")
		return nil, "", fmt.Errorf("create user: %w", err)
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}

	log.Info().Str("user_id", user.ID).Msg("user signed up")
	return user, token, nil
}

// Signin verifies credentials, refreshes lastActive and issues a fresh token.
func (s *UserService) Signin(ctx context.Context, email, password string) (*models.User, string, error) {
	log := logger.FromContext(ctx)

	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.db.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, "", fmt.Errorf("lookup email: %w", err)
	}
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, "", ErrInvalidCredentials
	}

	user.Progress.LastActive = s.now()
	if err := s.db.UpdateUserProgress(ctx, user.ID, user.Progress); err != nil {
		log.Err(err).Str("user_id", user.ID).Msg("last active refresh failed")
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}

	return user, token, nil
}

func orEmpty(vals []string) []string {
	if vals == nil {
		return []string{}
	}
	return vals
}
