package storage

import (
	"context"
	"errors"

	"github.com/PlayerLynx/AI-Study-Buddy/internal"
)

// ErrDuplicateUsername is returned by CreateUser when the username is taken.
var ErrDuplicateUsername = errors.New("storage: username already exists")

const (
	DefaultChatHistoryLimit = 10
	DefaultSessionDays      = 7
	DefaultStatisticsDays   = 30
)

type UserRepository interface {
	CreateUser(ctx context.Context, username, password string) (int64, error)
	// VerifyUser returns (nil, nil) when no user matches both the username
	// and the password digest.
	VerifyUser(ctx context.Context, username, password string) (*internal.User, error)
}

type ChatRepository interface {
	AddChatMessage(ctx context.Context, userID int64, userMessage, aiResponse string) error
	// ChatHistory returns the newest limit messages, oldest first.
	ChatHistory(ctx context.Context, userID int64, limit int) ([]internal.ChatMessage, error)
}

type GoalRepository interface {
	CreateGoal(ctx context.Context, goal *internal.LearningGoal) (int64, error)
	// Goals lists a user's goals by priority desc, then creation desc. An
	// empty status matches every status.
	Goals(ctx context.Context, userID int64, status string) ([]internal.LearningGoal, error)
	// UpdateGoalStatus and DeleteGoal succeed even when no row matches.
	UpdateGoalStatus(ctx context.Context, goalID int64, status string) error
	DeleteGoal(ctx context.Context, goalID int64) error
	GoalProgress(ctx context.Context, userID int64) (internal.GoalProgress, error)
}

type StudyRepository interface {
	AddStudySession(ctx context.Context, session *internal.StudySession) (int64, error)
	// StudySessions lists sessions dated within the last days days, newest first.
	StudySessions(ctx context.Context, userID int64, days int) ([]internal.StudySession, error)
	StudyStatistics(ctx context.Context, userID int64, days int) (internal.StudyStatistics, error)
}

// Store is the full record store. Both backends implement it with identical
// ordering and filtering semantics.
type Store interface {
	UserRepository
	ChatRepository
	GoalRepository
	StudyRepository

	InitSchema(ctx context.Context) error
	Ping(ctx context.Context) error
	// Health reports connectivity and the outcome of schema initialization.
	Health(ctx context.Context) error
	Backend() string
	Close() error
}
