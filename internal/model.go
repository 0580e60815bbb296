package internal

import "time"

const (
	GoalStatusActive    = "active"
	GoalStatusCompleted = "completed"

	DefaultGoalCategory = "general"
	DefaultGoalPriority = 2

	// DateLayout is the wire and storage format of calendar dates.
	DateLayout = "2006-01-02"
)

type User struct {
	ID             int64     `json:"id"`
	Username       string    `json:"username"`
	PasswordDigest string    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
}

type ChatMessage struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	UserMessage string    `json:"user_message"`
	AIResponse  string    `json:"ai_response"`
	Timestamp   time.Time `json:"timestamp"`
}

type LearningGoal struct {
	ID          int64      `json:"id"`
	UserID      int64      `json:"user_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	Priority    int        `json:"priority"` // higher is more urgent
	Status      string     `json:"status"`
	TargetDate  *time.Time `json:"target_date,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type StudySession struct {
	ID              int64     `json:"id"`
	UserID          int64     `json:"user_id"`
	GoalID          *int64    `json:"goal_id,omitempty"`
	Subject         string    `json:"subject"`
	DurationMinutes int       `json:"duration_minutes"`
	Notes           string    `json:"notes"`
	SessionDate     time.Time `json:"session_date"`
	CreatedAt       time.Time `json:"created_at"`
}

type GoalProgress struct {
	TotalGoals     int `json:"total_goals"`
	CompletedGoals int `json:"completed_goals"`
	ActiveGoals    int `json:"active_goals"`
}

type SubjectMinutes struct {
	Subject      string `json:"subject"`
	TotalMinutes int    `json:"total_minutes"`
}

type StudyStatistics struct {
	TotalMinutes     int              `json:"total_minutes"`
	SubjectBreakdown []SubjectMinutes `json:"subject_breakdown"`
}

// Now returns the current instant as stored by every backend: UTC with
// microsecond precision.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// Today returns midnight UTC of the current day.
func Today() time.Time {
	return DateOf(time.Now())
}

// DateOf strips the clock part of t, in UTC.
func DateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
