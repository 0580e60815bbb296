package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/PlayerLynx/AI-Study-Buddy/internal"
	"github.com/PlayerLynx/AI-Study-Buddy/internal/auth"
)

// sqliteTimeLayout sorts lexically in the same order as the instants it encodes.
const sqliteTimeLayout = "2006-01-02 15:04:05.000000"

// SQLiteStorage is the embedded, single-file backend.
type SQLiteStorage struct {
	db     *sqlx.DB
	path   string
	logger internal.Logger

	mu        sync.RWMutex
	schemaErr error
}

// NewSQLiteStorage opens (creating if needed) the database file at path. A
// failed schema initialization is logged and the store is still returned;
// Health reports the failure.
func NewSQLiteStorage(ctx context.Context, path string, logger internal.Logger) (*SQLiteStorage, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	dsn := path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	db.SetMaxOpenConns(8)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite database: %w", err)
	}

	s := &SQLiteStorage{db: db, path: path, logger: logger}
	if err := s.InitSchema(ctx); err != nil {
		logger.Errorf("storage: sqlite schema initialization failed, running degraded: %v", err)
	} else {
		logger.Infof("storage: sqlite store ready at %s", path)
	}
	return s, nil
}

func (s *SQLiteStorage) InitSchema(ctx context.Context) error {
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		for _, stmt := range sqliteSchema {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		err = fmt.Errorf("create schema: %w", err)
	}
	s.mu.Lock()
	s.schemaErr = err
	s.mu.Unlock()
	return err
}

func (s *SQLiteStorage) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLiteStorage) Health(ctx context.Context) error {
	s.mu.RLock()
	schemaErr := s.schemaErr
	s.mu.RUnlock()
	if schemaErr != nil {
		return schemaErr
	}
	return s.Ping(ctx)
}

func (s *SQLiteStorage) Backend() string { return "sqlite" }

func (s *SQLiteStorage) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close sqlite database: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()
	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// --- UserRepository ---

func (s *SQLiteStorage) CreateUser(ctx context.Context, username, password string) (int64, error) {
	var id int64
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		return tx.QueryRowxContext(ctx,
			`INSERT INTO users (username, password_hash, created_at) VALUES (?, ?, ?) RETURNING id`,
			username, auth.HashPassword(password), formatSQLiteTime(internal.Now()),
		).Scan(&id)
	})
	if err != nil {
		if isSQLiteUniqueViolation(err) {
			return 0, ErrDuplicateUsername
		}
		s.logger.Errorf("storage: failed to insert user: %v", err)
		return 0, fmt.Errorf("insert user: %w", err)
	}
	return id, nil
}

func (s *SQLiteStorage) VerifyUser(ctx context.Context, username, password string) (*internal.User, error) {
	var row sqliteUserRow
	err := s.db.GetContext(ctx, &row,
		`SELECT id, username, password_hash, created_at FROM users WHERE username = ? AND password_hash = ?`,
		username, auth.HashPassword(password))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		s.logger.Errorf("storage: failed to query user: %v", err)
		return nil, fmt.Errorf("query user: %w", err)
	}
	return row.toModel()
}

// --- ChatRepository ---

func (s *SQLiteStorage) AddChatMessage(ctx context.Context, userID int64, userMessage, aiResponse string) error {
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO chat_history (user_id, user_message, ai_response, timestamp) VALUES (?, ?, ?, ?)`,
			userID, userMessage, aiResponse, formatSQLiteTime(internal.Now()))
		return err
	})
	if err != nil {
		s.logger.Errorf("storage: failed to insert chat message: %v", err)
		return fmt.Errorf("insert chat message: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) ChatHistory(ctx context.Context, userID int64, limit int) ([]internal.ChatMessage, error) {
	var rows []sqliteChatRow
	err := s.db.SelectContext(ctx, &rows,
		`SELECT id, user_id, user_message, ai_response, timestamp
		 FROM chat_history WHERE user_id = ?
		 ORDER BY timestamp DESC, id DESC LIMIT ?`,
		userID, chatLimit(limit))
	if err != nil {
		s.logger.Errorf("storage: failed to query chat history: %v", err)
		return nil, fmt.Errorf("query chat history: %w", err)
	}
	msgs := make([]internal.ChatMessage, 0, len(rows))
	for _, r := range rows {
		m, err := r.toModel()
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	reverseMessages(msgs)
	return msgs, nil
}

// --- GoalRepository ---

func (s *SQLiteStorage) CreateGoal(ctx context.Context, goal *internal.LearningGoal) (int64, error) {
	prepareGoal(goal)
	var target sql.NullString
	if goal.TargetDate != nil {
		target = sql.NullString{String: goal.TargetDate.Format(internal.DateLayout), Valid: true}
	}
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		return tx.QueryRowxContext(ctx,
			`INSERT INTO learning_goals
			 (user_id, title, description, category, priority, status, target_date, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?) RETURNING id`,
			goal.UserID, goal.Title, goal.Description, goal.Category, goal.Priority, goal.Status,
			target, formatSQLiteTime(goal.CreatedAt), formatSQLiteTime(goal.UpdatedAt),
		).Scan(&goal.ID)
	})
	if err != nil {
		s.logger.Errorf("storage: failed to insert goal: %v", err)
		return 0, fmt.Errorf("insert goal: %w", err)
	}
	return goal.ID, nil
}

func (s *SQLiteStorage) Goals(ctx context.Context, userID int64, status string) ([]internal.LearningGoal, error) {
	query := `SELECT id, user_id, title, description, category, priority, status, target_date, created_at, updated_at
		FROM learning_goals WHERE user_id = ?`
	args := []interface{}{userID}
	if status != "" {
		query += ` AND status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY priority DESC, created_at DESC, id DESC`

	var rows []sqliteGoalRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		s.logger.Errorf("storage: failed to query goals: %v", err)
		return nil, fmt.Errorf("query goals: %w", err)
	}
	goals := make([]internal.LearningGoal, 0, len(rows))
	for _, r := range rows {
		g, err := r.toModel()
		if err != nil {
			return nil, err
		}
		goals = append(goals, g)
	}
	return goals, nil
}

func (s *SQLiteStorage) UpdateGoalStatus(ctx context.Context, goalID int64, status string) error {
	var affected int64
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE learning_goals SET status = ?, updated_at = ? WHERE id = ?`,
			status, formatSQLiteTime(internal.Now()), goalID)
		if err != nil {
			return err
		}
		affected, err = res.RowsAffected()
		return err
	})
	if err != nil {
		s.logger.Errorf("storage: failed to update goal status: %v", err)
		return fmt.Errorf("update goal status: %w", err)
	}
	if affected == 0 {
		s.logger.Warnf("storage: update of goal %d status matched no rows", goalID)
	}
	return nil
}

func (s *SQLiteStorage) DeleteGoal(ctx context.Context, goalID int64) error {
	var affected int64
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM learning_goals WHERE id = ?`, goalID)
		if err != nil {
			return err
		}
		affected, err = res.RowsAffected()
		return err
	})
	if err != nil {
		s.logger.Errorf("storage: failed to delete goal: %v", err)
		return fmt.Errorf("delete goal: %w", err)
	}
	if affected == 0 {
		s.logger.Debugf("storage: delete of goal %d matched no rows", goalID)
	}
	return nil
}

func (s *SQLiteStorage) GoalProgress(ctx context.Context, userID int64) (internal.GoalProgress, error) {
	var p internal.GoalProgress
	err := s.db.QueryRowxContext(ctx,
		`SELECT COUNT(*),
			COALESCE(SUM(CASE WHEN status = 'completed' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = 'active' THEN 1 ELSE 0 END), 0)
		 FROM learning_goals WHERE user_id = ?`, userID,
	).Scan(&p.TotalGoals, &p.CompletedGoals, &p.ActiveGoals)
	if err != nil {
		s.logger.Errorf("storage: failed to compute goal progress: %v", err)
		return internal.GoalProgress{}, fmt.Errorf("query goal progress: %w", err)
	}
	return p, nil
}

// --- StudyRepository ---

func (s *SQLiteStorage) AddStudySession(ctx context.Context, session *internal.StudySession) (int64, error) {
	prepareSession(session)
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		return tx.QueryRowxContext(ctx,
			`INSERT INTO study_sessions
			 (user_id, goal_id, subject, duration_minutes, notes, session_date, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?) RETURNING id`,
			session.UserID, session.GoalID, session.Subject, session.DurationMinutes, session.Notes,
			session.SessionDate.Format(internal.DateLayout), formatSQLiteTime(session.CreatedAt),
		).Scan(&session.ID)
	})
	if err != nil {
		s.logger.Errorf("storage: failed to insert study session: %v", err)
		return 0, fmt.Errorf("insert study session: %w", err)
	}
	return session.ID, nil
}

func (s *SQLiteStorage) StudySessions(ctx context.Context, userID int64, days int) ([]internal.StudySession, error) {
	from := windowStart(days, DefaultSessionDays).Format(internal.DateLayout)
	var rows []sqliteSessionRow
	err := s.db.SelectContext(ctx, &rows,
		`SELECT id, user_id, goal_id, subject, duration_minutes, notes, session_date, created_at
		 FROM study_sessions WHERE user_id = ? AND session_date >= ?
		 ORDER BY session_date DESC, created_at DESC, id DESC`,
		userID, from)
	if err != nil {
		s.logger.Errorf("storage: failed to query study sessions: %v", err)
		return nil, fmt.Errorf("query study sessions: %w", err)
	}
	sessions := make([]internal.StudySession, 0, len(rows))
	for _, r := range rows {
		ss, err := r.toModel()
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, ss)
	}
	return sessions, nil
}

func (s *SQLiteStorage) StudyStatistics(ctx context.Context, userID int64, days int) (internal.StudyStatistics, error) {
	from := windowStart(days, DefaultStatisticsDays).Format(internal.DateLayout)
	to := internal.Today().Format(internal.DateLayout)
	var rows []subjectRow
	err := s.db.SelectContext(ctx, &rows,
		`SELECT subject, SUM(duration_minutes) AS total_minutes
		 FROM study_sessions
		 WHERE user_id = ? AND session_date >= ? AND session_date <= ?
		 GROUP BY subject
		 ORDER BY total_minutes DESC, subject ASC`,
		userID, from, to)
	if err != nil {
		s.logger.Errorf("storage: failed to compute study statistics: %v", err)
		return internal.StudyStatistics{}, fmt.Errorf("query study statistics: %w", err)
	}
	return buildStatistics(rows), nil
}

// --- row mapping ---

type sqliteUserRow struct {
	ID           int64  `db:"id"`
	Username     string `db:"username"`
	PasswordHash string `db:"password_hash"`
	CreatedAt    string `db:"created_at"`
}

func (r sqliteUserRow) toModel() (*internal.User, error) {
	created, err := parseSQLiteTime(r.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &internal.User{ID: r.ID, Username: r.Username, PasswordDigest: r.PasswordHash, CreatedAt: created}, nil
}

type sqliteChatRow struct {
	ID          int64  `db:"id"`
	UserID      int64  `db:"user_id"`
	UserMessage string `db:"user_message"`
	AIResponse  string `db:"ai_response"`
	Timestamp   string `db:"timestamp"`
}

func (r sqliteChatRow) toModel() (internal.ChatMessage, error) {
	ts, err := parseSQLiteTime(r.Timestamp)
	if err != nil {
		return internal.ChatMessage{}, err
	}
	return internal.ChatMessage{ID: r.ID, UserID: r.UserID, UserMessage: r.UserMessage, AIResponse: r.AIResponse, Timestamp: ts}, nil
}

type sqliteGoalRow struct {
	ID          int64          `db:"id"`
	UserID      int64          `db:"user_id"`
	Title       string         `db:"title"`
	Description string         `db:"description"`
	Category    string         `db:"category"`
	Priority    int            `db:"priority"`
	Status      string         `db:"status"`
	TargetDate  sql.NullString `db:"target_date"`
	CreatedAt   string         `db:"created_at"`
	UpdatedAt   string         `db:"updated_at"`
}

func (r sqliteGoalRow) toModel() (internal.LearningGoal, error) {
	g := internal.LearningGoal{
		ID:          r.ID,
		UserID:      r.UserID,
		Title:       r.Title,
		Description: r.Description,
		Category:    r.Category,
		Priority:    r.Priority,
		Status:      r.Status,
	}
	var err error
	if g.CreatedAt, err = parseSQLiteTime(r.CreatedAt); err != nil {
		return g, err
	}
	if g.UpdatedAt, err = parseSQLiteTime(r.UpdatedAt); err != nil {
		return g, err
	}
	if r.TargetDate.Valid && r.TargetDate.String != "" {
		d, err := time.Parse(internal.DateLayout, r.TargetDate.String)
		if err != nil {
			return g, fmt.Errorf("parse target_date %q: %w", r.TargetDate.String, err)
		}
		g.TargetDate = &d
	}
	return g, nil
}

type sqliteSessionRow struct {
	ID              int64         `db:"id"`
	UserID          int64         `db:"user_id"`
	GoalID          sql.NullInt64 `db:"goal_id"`
	Subject         string        `db:"subject"`
	DurationMinutes int           `db:"duration_minutes"`
	Notes           string        `db:"notes"`
	SessionDate     string        `db:"session_date"`
	CreatedAt       string        `db:"created_at"`
}

func (r sqliteSessionRow) toModel() (internal.StudySession, error) {
	ss := internal.StudySession{
		ID:              r.ID,
		UserID:          r.UserID,
		Subject:         r.Subject,
		DurationMinutes: r.DurationMinutes,
		Notes:           r.Notes,
	}
	if r.GoalID.Valid {
		id := r.GoalID.Int64
		ss.GoalID = &id
	}
	d, err := time.Parse(internal.DateLayout, r.SessionDate)
	if err != nil {
		return ss, fmt.Errorf("parse session_date %q: %w", r.SessionDate, err)
	}
	ss.SessionDate = d
	if ss.CreatedAt, err = parseSQLiteTime(r.CreatedAt); err != nil {
		return ss, err
	}
	return ss, nil
}

func formatSQLiteTime(t time.Time) string {
	return t.UTC().Format(sqliteTimeLayout)
}

func parseSQLiteTime(s string) (time.Time, error) {
	t, err := time.Parse(sqliteTimeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return t, nil
}

func isSQLiteUniqueViolation(err error) bool {
	var se *sqlite.Error
	if errors.As(err, &se) {
		return se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

var _ Store = (*SQLiteStorage)(nil)
