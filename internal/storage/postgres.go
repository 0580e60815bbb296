package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/PlayerLynx/AI-Study-Buddy/internal"
	"github.com/PlayerLynx/AI-Study-Buddy/internal/auth"
)

const pgUniqueViolation = "23505"

// PostgresStorage is the networked backend. Every write runs in its own
// transaction; a failed write is rolled back before the connection returns
// to the pool.
type PostgresStorage struct {
	pool   *pgxpool.Pool
	logger internal.Logger
}

// NewPostgresStorage connects, verifies the connection and initializes the
// schema. Any failure is returned to the caller.
func NewPostgresStorage(ctx context.Context, dsn string, logger internal.Logger) (*PostgresStorage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		logger.Errorf("storage: invalid postgres connection string: %v", err)
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		logger.Errorf("storage: failed to connect to postgres: %v", err)
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		logger.Errorf("storage: postgres ping failed: %v", err)
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	p := &PostgresStorage{pool: pool, logger: logger}
	if err := p.InitSchema(ctx); err != nil {
		pool.Close()
		logger.Errorf("storage: postgres schema initialization failed: %v", err)
		return nil, err
	}
	logger.Infof("storage: postgres store ready (%s/%s)", cfg.ConnConfig.Host, cfg.ConnConfig.Database)
	return p, nil
}

func (p *PostgresStorage) InitSchema(ctx context.Context) error {
	err := pgx.BeginFunc(ctx, p.pool, func(tx pgx.Tx) error {
		for _, stmt := range postgresSchema {
			if _, err := tx.Exec(ctx, stmt); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

func (p *PostgresStorage) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

func (p *PostgresStorage) Health(ctx context.Context) error {
	return p.Ping(ctx)
}

func (p *PostgresStorage) Backend() string { return "postgres" }

func (p *PostgresStorage) Close() error {
	p.pool.Close()
	return nil
}

// --- UserRepository ---

func (p *PostgresStorage) CreateUser(ctx context.Context, username, password string) (int64, error) {
	var id int64
	err := pgx.BeginFunc(ctx, p.pool, func(tx pgx.Tx) error {
		return tx.QueryRow(ctx,
			`INSERT INTO users (username, password_hash, created_at) VALUES ($1, $2, $3) RETURNING id`,
			username, auth.HashPassword(password), internal.Now(),
		).Scan(&id)
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return 0, ErrDuplicateUsername
		}
		p.logger.Errorf("storage: failed to insert user: %v", err)
		return 0, fmt.Errorf("insert user: %w", err)
	}
	return id, nil
}

func (p *PostgresStorage) VerifyUser(ctx context.Context, username, password string) (*internal.User, error) {
	var u internal.User
	err := p.pool.QueryRow(ctx,
		`SELECT id, username, password_hash, created_at FROM users WHERE username = $1 AND password_hash = $2`,
		username, auth.HashPassword(password),
	).Scan(&u.ID, &u.Username, &u.PasswordDigest, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		p.logger.Errorf("storage: failed to query user: %v", err)
		return nil, fmt.Errorf("query user: %w", err)
	}
	u.CreatedAt = u.CreatedAt.UTC()
	return &u, nil
}

// --- ChatRepository ---

func (p *PostgresStorage) AddChatMessage(ctx context.Context, userID int64, userMessage, aiResponse string) error {
	err := pgx.BeginFunc(ctx, p.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx,
			`INSERT INTO chat_history (user_id, user_message, ai_response, timestamp) VALUES ($1, $2, $3, $4)`,
			userID, userMessage, aiResponse, internal.Now())
		return err
	})
	if err != nil {
		p.logger.Errorf("storage: failed to insert chat message: %v", err)
		return fmt.Errorf("insert chat message: %w", err)
	}
	return nil
}

func (p *PostgresStorage) ChatHistory(ctx context.Context, userID int64, limit int) ([]internal.ChatMessage, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT id, user_id, user_message, ai_response, timestamp
		 FROM chat_history WHERE user_id = $1
		 ORDER BY timestamp DESC, id DESC LIMIT $2`,
		userID, chatLimit(limit))
	if err != nil {
		p.logger.Errorf("storage: failed to query chat history: %v", err)
		return nil, fmt.Errorf("query chat history: %w", err)
	}
	msgs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (internal.ChatMessage, error) {
		var m internal.ChatMessage
		err := row.Scan(&m.ID, &m.UserID, &m.UserMessage, &m.AIResponse, &m.Timestamp)
		m.Timestamp = m.Timestamp.UTC()
		return m, err
	})
	if err != nil {
		p.logger.Errorf("storage: failed to scan chat history: %v", err)
		return nil, fmt.Errorf("scan chat history: %w", err)
	}
	if msgs == nil {
		msgs = []internal.ChatMessage{}
	}
	reverseMessages(msgs)
	return msgs, nil
}

// --- GoalRepository ---

func (p *PostgresStorage) CreateGoal(ctx context.Context, goal *internal.LearningGoal) (int64, error) {
	prepareGoal(goal)
	err := pgx.BeginFunc(ctx, p.pool, func(tx pgx.Tx) error {
		return tx.QueryRow(ctx,
			`INSERT INTO learning_goals
			 (user_id, title, description, category, priority, status, target_date, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`,
			goal.UserID, goal.Title, goal.Description, goal.Category, goal.Priority, goal.Status,
			goal.TargetDate, goal.CreatedAt, goal.UpdatedAt,
		).Scan(&goal.ID)
	})
	if err != nil {
		p.logger.Errorf("storage: failed to insert goal: %v", err)
		return 0, fmt.Errorf("insert goal: %w", err)
	}
	return goal.ID, nil
}

func (p *PostgresStorage) Goals(ctx context.Context, userID int64, status string) ([]internal.LearningGoal, error) {
	query := `SELECT id, user_id, title, description, category, priority, status, target_date, created_at, updated_at
		FROM learning_goals WHERE user_id = $1`
	args := []interface{}{userID}
	if status != "" {
		query += ` AND status = $2`
		args = append(args, status)
	}
	query += ` ORDER BY priority DESC, created_at DESC, id DESC`

	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		p.logger.Errorf("storage: failed to query goals: %v", err)
		return nil, fmt.Errorf("query goals: %w", err)
	}
	goals, err := pgx.CollectRows(rows, scanPostgresGoal)
	if err != nil {
		p.logger.Errorf("storage: failed to scan goals: %v", err)
		return nil, fmt.Errorf("scan goals: %w", err)
	}
	if goals == nil {
		goals = []internal.LearningGoal{}
	}
	return goals, nil
}

func scanPostgresGoal(row pgx.CollectableRow) (internal.LearningGoal, error) {
	var g internal.LearningGoal
	var target *time.Time
	err := row.Scan(&g.ID, &g.UserID, &g.Title, &g.Description, &g.Category, &g.Priority, &g.Status,
		&target, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return g, err
	}
	if target != nil {
		d := internal.DateOf(*target)
		g.TargetDate = &d
	}
	g.CreatedAt = g.CreatedAt.UTC()
	g.UpdatedAt = g.UpdatedAt.UTC()
	return g, nil
}

func (p *PostgresStorage) UpdateGoalStatus(ctx context.Context, goalID int64, status string) error {
	var affected int64
	err := pgx.BeginFunc(ctx, p.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`UPDATE learning_goals SET status = $1, updated_at = $2 WHERE id = $3`,
			status, internal.Now(), goalID)
		affected = tag.RowsAffected()
		return err
	})
	if err != nil {
		p.logger.Errorf("storage: failed to update goal status: %v", err)
		return fmt.Errorf("update goal status: %w", err)
	}
	if affected == 0 {
		p.logger.Warnf("storage: update of goal %d status matched no rows", goalID)
	}
	return nil
}

func (p *PostgresStorage) DeleteGoal(ctx context.Context, goalID int64) error {
	var affected int64
	err := pgx.BeginFunc(ctx, p.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `DELETE FROM learning_goals WHERE id = $1`, goalID)
		affected = tag.RowsAffected()
		return err
	})
	if err != nil {
		p.logger.Errorf("storage: failed to delete goal: %v", err)
		return fmt.Errorf("delete goal: %w", err)
	}
	if affected == 0 {
		p.logger.Debugf("storage: delete of goal %d matched no rows", goalID)
	}
	return nil
}

func (p *PostgresStorage) GoalProgress(ctx context.Context, userID int64) (internal.GoalProgress, error) {
	var gp internal.GoalProgress
	err := p.pool.QueryRow(ctx,
		`SELECT COUNT(*),
			COALESCE(SUM(CASE WHEN status = 'completed' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = 'active' THEN 1 ELSE 0 END), 0)
		 FROM learning_goals WHERE user_id = $1`, userID,
	).Scan(&gp.TotalGoals, &gp.CompletedGoals, &gp.ActiveGoals)
	if err != nil {
		p.logger.Errorf("storage: failed to compute goal progress: %v", err)
		return internal.GoalProgress{}, fmt.Errorf("query goal progress: %w", err)
	}
	return gp, nil
}

// --- StudyRepository ---

func (p *PostgresStorage) AddStudySession(ctx context.Context, session *internal.StudySession) (int64, error) {
	prepareSession(session)
	err := pgx.BeginFunc(ctx, p.pool, func(tx pgx.Tx) error {
		return tx.QueryRow(ctx,
			`INSERT INTO study_sessions
			 (user_id, goal_id, subject, duration_minutes, notes, session_date, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`,
			session.UserID, session.GoalID, session.Subject, session.DurationMinutes, session.Notes,
			session.SessionDate, session.CreatedAt,
		).Scan(&session.ID)
	})
	if err != nil {
		p.logger.Errorf("storage: failed to insert study session: %v", err)
		return 0, fmt.Errorf("insert study session: %w", err)
	}
	return session.ID, nil
}

func (p *PostgresStorage) StudySessions(ctx context.Context, userID int64, days int) ([]internal.StudySession, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT id, user_id, goal_id, subject, duration_minutes, notes, session_date, created_at
		 FROM study_sessions WHERE user_id = $1 AND session_date >= $2
		 ORDER BY session_date DESC, created_at DESC, id DESC`,
		userID, windowStart(days, DefaultSessionDays))
	if err != nil {
		p.logger.Errorf("storage: failed to query study sessions: %v", err)
		return nil, fmt.Errorf("query study sessions: %w", err)
	}
	sessions, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (internal.StudySession, error) {
		var s internal.StudySession
		err := row.Scan(&s.ID, &s.UserID, &s.GoalID, &s.Subject, &s.DurationMinutes, &s.Notes,
			&s.SessionDate, &s.CreatedAt)
		s.SessionDate = internal.DateOf(s.SessionDate)
		s.CreatedAt = s.CreatedAt.UTC()
		return s, err
	})
	if err != nil {
		p.logger.Errorf("storage: failed to scan study sessions: %v", err)
		return nil, fmt.Errorf("scan study sessions: %w", err)
	}
	if sessions == nil {
		sessions = []internal.StudySession{}
	}
	return sessions, nil
}

func (p *PostgresStorage) StudyStatistics(ctx context.Context, userID int64, days int) (internal.StudyStatistics, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT subject, SUM(duration_minutes) AS total_minutes
		 FROM study_sessions
		 WHERE user_id = $1 AND session_date >= $2 AND session_date <= $3
		 GROUP BY subject
		 ORDER BY total_minutes DESC, subject COLLATE "C" ASC`,
		userID, windowStart(days, DefaultStatisticsDays), internal.Today())
	if err != nil {
		p.logger.Errorf("storage: failed to compute study statistics: %v", err)
		return internal.StudyStatistics{}, fmt.Errorf("query study statistics: %w", err)
	}
	subjects, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (subjectRow, error) {
		var r subjectRow
		err := row.Scan(&r.Subject, &r.TotalMinutes)
		return r, err
	})
	if err != nil {
		p.logger.Errorf("storage: failed to scan study statistics: %v", err)
		return internal.StudyStatistics{}, fmt.Errorf("scan study statistics: %w", err)
	}
	return buildStatistics(subjects), nil
}

var _ Store = (*PostgresStorage)(nil)
