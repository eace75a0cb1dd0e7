package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/DanielSedell02/AI-spr-kapp/internal/config"
	"github.com/DanielSedell02/AI-spr-kapp/internal/core"
	"github.com/DanielSedell02/AI-spr-kapp/internal/models"
)

// ErrEmailExists is returned by CreateUser when the email column's unique
// constraint rejects the insert.
var ErrEmailExists = errors.New("email already registered")

type DatabaseClient struct {
	db *sql.DB
}

func NewDatabaseClient(ctx context.Context, cfg *config.Config) (*DatabaseClient, error) {
	if cfg == nil {
		return nil, fmt.Errorf("database client configuration is nil")
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is empty")
	}

	dsn := cfg.DatabaseURL
	if cfg.SslCertPath != "" {
		u, err := url.Parse(cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid DATABASE_URL: %w", err)
		}
		q := u.Query()
		q.Set("sslmode", "verify-ca")
		q.Set("sslrootcert", cfg.SslCertPath)
		u.RawQuery = q.Encode()
		dsn = u.String()
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)
	db.SetConnMaxIdleTime(10 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	if err := EnsureBootstrapped(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("bootstrap: %w", err)
	}

	return &DatabaseClient{db: db}, nil
}

func (c *DatabaseClient) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// Implementing the db interface for users

func (c *DatabaseClient) CreateUser(ctx context.Context, user *models.User) error {
	if user == nil {
		return errors.New("nil user")
	}
	interests, err := json.Marshal(user.Interests)
	if err != nil {
		return fmt.Errorf("marshal interests: %w", err)
	}
	goals, err := json.Marshal(user.LearningGoals)
	if err != nil {
		return fmt.Errorf("marshal learning goals: %w", err)
	}
	progress, err := json.Marshal(user.Progress)
	if err != nil {
		return fmt.Errorf("marshal progress: %w", err)
	}

	const q = `
		INSERT INTO users
			(id, email, password_hash, name, native_language, target_language, language_level,
			 interests, learning_goals, progress, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, now(), now())
	`
	_, err = c.db.ExecContext(ctx, q,
		user.ID, user.Email, user.PasswordHash, user.Name,
		user.NativeLanguage, user.TargetLanguage, user.LanguageLevel,
		interests, goals, progress)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return ErrEmailExists
	}
	return err
}

func (c *DatabaseClient) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const q = userSelect + ` WHERE email = $1`
	return c.scanUser(c.db.QueryRowContext(ctx, q, email))
}

func (c *DatabaseClient) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	const q = userSelect + ` WHERE id = $1`
	return c.scanUser(c.db.QueryRowContext(ctx, q, id))
}

const userSelect = `
	SELECT id, email, password_hash, name, native_language, target_language, language_level,
	       interests, learning_goals, progress, created_at, updated_at
	FROM users`

func (c *DatabaseClient) scanUser(row *sql.Row) (*models.User, error) {
	var (
		u         models.User
		interests []byte
		goals     []byte
		progress  []byte
	)
	err := row.Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.Name,
		&u.NativeLanguage, &u.TargetLanguage, &u.LanguageLevel,
		&interests, &goals, &progress, &u.CreatedAt, &u.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(interests, &u.Interests); err != nil {
		return nil, fmt.Errorf("unmarshal interests: %w", err)
	}
	if err := json.Unmarshal(goals, &u.LearningGoals); err != nil {
		return nil, fmt.Errorf("unmarshal learning goals: %w", err)
	}
	if err := json.Unmarshal(progress, &u.Progress); err != nil {
		return nil, fmt.Errorf("unmarshal progress: %w", err)
	}
	return &u, nil
}

func (c *DatabaseClient) UpdateUserProgress(ctx context.Context, userID string, progress models.Progress) error {
	data, err := json.Marshal(progress)
	if err != nil {
		return fmt.Errorf("marshal progress: %w", err)
	}
	const q = `
		UPDATE users
		SET progress = $2, updated_at = now()
		WHERE id = $1
	`
	res, err := c.db.ExecContext(ctx, q, userID, data)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("user not found: %s", userID)
	}
	return nil
}

// Implementing the db interface for conversations

const conversationColumns = `id, user_id, topic, difficulty_level, ai_persona,
	conversation_log, improvement_areas, created_at, updated_at`

func (c *DatabaseClient) GetConversation(ctx context.Context, key models.ConversationKey) (*models.Conversation, error) {
	q := `
		SELECT ` + conversationColumns + `
		FROM conversations
		WHERE user_id = $1 AND topic = $2 AND difficulty_level = $3 AND ai_persona = $4
	`
	row := c.db.QueryRowContext(ctx, q, key.UserID, key.Topic, key.DifficultyLevel, key.AIPersona)
	conv, err := scanConversation(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return conv, nil
}

// AppendTurns appends turns to the conversation for key, creating it when the
// key has no conversation yet. Improvement areas are merged with duplicates
// removed. The whole append is a single upsert statement.
func (c *DatabaseClient) AppendTurns(ctx context.Context, key models.ConversationKey, turns []models.Turn, improvementAreas []string) (*models.Conversation, error) {
	if improvementAreas == nil {
		improvementAreas = []string{}
	}
	turnsJSON, err := json.Marshal(turns)
	if err != nil {
		return nil, fmt.Errorf("marshal turns: %w", err)
	}
	areasJSON, err := json.Marshal(improvementAreas)
	if err != nil {
		return nil, fmt.Errorf("marshal improvement areas: %w", err)
	}

	q := `
		INSERT INTO conversations
			(id, user_id, topic, difficulty_level, ai_persona, conversation_log, improvement_areas, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())
		ON CONFLICT (user_id, topic, difficulty_level, ai_persona) DO UPDATE SET
			conversation_log = conversations.conversation_log || EXCLUDED.conversation_log,
			improvement_areas = (
				SELECT COALESCE(jsonb_agg(DISTINCT area), '[]'::jsonb)
				FROM jsonb_array_elements(conversations.improvement_areas || EXCLUDED.improvement_areas) AS area
			),
			updated_at = now()
		RETURNING ` + conversationColumns
	row := c.db.QueryRowContext(ctx, q,
		newConversationID(), key.UserID, key.Topic, key.DifficultyLevel, key.AIPersona,
		turnsJSON, areasJSON)
	return scanConversation(row)
}

func (c *DatabaseClient) ListConversations(ctx context.Context, userID string, filter core.ConversationFilter) ([]models.Conversation, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 10
	}
	q := `
		SELECT ` + conversationColumns + `
		FROM conversations
		WHERE user_id = $1
		  AND ($2 = '' OR topic = $2)
		  AND ($3 = '' OR difficulty_level = $3)
		  AND ($4 = '' OR ai_persona = $4)
		ORDER BY updated_at DESC
		LIMIT $5
	`
	rows, err := c.db.QueryContext(ctx, q,
		userID, filter.Topic, string(filter.DifficultyLevel), string(filter.AIPersona), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Conversation
	for rows.Next() {
		conv, err := scanConversation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *conv)
	}
	return out, rows.Err()
}

// newConversationID is assigned on insert; the upsert discards it when the
// conversation key already exists.
func newConversationID() string {
	return uuid.NewString()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanConversation(row rowScanner) (*models.Conversation, error) {
	var (
		conv  models.Conversation
		log   []byte
		areas []byte
	)
	err := row.Scan(
		&conv.ID, &conv.UserID, &conv.Topic, &conv.DifficultyLevel, &conv.AIPersona,
		&log, &areas, &conv.CreatedAt, &conv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(log, &conv.ConversationLog); err != nil {
		return nil, fmt.Errorf("unmarshal conversation log: %w", err)
	}
	if err := json.Unmarshal(areas, &conv.ImprovementAreas); err != nil {
		return nil, fmt.Errorf("unmarshal improvement areas: %w", err)
	}
	return &conv, nil
}

var _ core.DbClient = (*DatabaseClient)(nil)
