package storage

import (
	"strings"
	"time"

	"github.com/PlayerLynx/AI-Study-Buddy/internal"
)

func chatLimit(limit int) int {
	if limit <= 0 {
		return DefaultChatHistoryLimit
	}
	return limit
}

// windowStart returns the first calendar day included in a trailing window
// of days days ending today.
func windowStart(days, fallback int) time.Time {
	if days <= 0 {
		days = fallback
	}
	return internal.Today().AddDate(0, 0, -days)
}

// prepareGoal fills the creation defaults and timestamps in place.
func prepareGoal(g *internal.LearningGoal) {
	if strings.TrimSpace(g.Category) == "" {
		g.Category = internal.DefaultGoalCategory
	}
	if g.Priority == 0 {
		g.Priority = internal.DefaultGoalPriority
	}
	if g.Status == "" {
		g.Status = internal.GoalStatusActive
	}
	if g.TargetDate != nil {
		d := internal.DateOf(*g.TargetDate)
		g.TargetDate = &d
	}
	now := internal.Now()
	g.CreatedAt = now
	g.UpdatedAt = now
}

func prepareSession(s *internal.StudySession) {
	if s.SessionDate.IsZero() {
		s.SessionDate = internal.Today()
	} else {
		s.SessionDate = internal.DateOf(s.SessionDate)
	}
	s.CreatedAt = internal.Now()
}

// reverseMessages flips a newest-first page into chronological order.
func reverseMessages(msgs []internal.ChatMessage) {
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
}
