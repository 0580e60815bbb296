package service

import (
	"context"
	"errors"
	"strings"

	"github.com/PlayerLynx/AI-Study-Buddy/internal"
	"github.com/PlayerLynx/AI-Study-Buddy/internal/storage"
)

type StudySessionRequest struct {
	UserID          int64  `json:"user_id" validate:"required,gt=0"`
	Subject         string `json:"subject" validate:"required,max=100"`
	DurationMinutes int    `json:"duration_minutes" validate:"gt=0"`
	GoalID          *int64 `json:"goal_id" validate:"omitempty,gt=0"`
	Notes           string `json:"notes"`
	SessionDate     string `json:"session_date" validate:"omitempty,datetime=2006-01-02"`
}

func AddStudySession(ctx context.Context, sessions storage.StudyRepository, req *StudySessionRequest) (*internal.StudySession, error) {
	req.Subject = strings.TrimSpace(req.Subject)
	req.Notes = strings.TrimSpace(req.Notes)
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	date, err := parseDate(req.SessionDate)
	if err != nil {
		return nil, err
	}

	s := &internal.StudySession{
		UserID:          req.UserID,
		GoalID:          req.GoalID,
		Subject:         req.Subject,
		DurationMinutes: req.DurationMinutes,
		Notes:           req.Notes,
	}
	if date != nil {
		if date.After(internal.Today()) {
			return nil, &ValidationError{Err: errors.New("session_date cannot be in the future")}
		}
		s.SessionDate = *date
	}
	if _, err := sessions.AddStudySession(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}
