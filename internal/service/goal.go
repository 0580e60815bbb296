package service

import (
	"context"
	"strings"

	"github.com/PlayerLynx/AI-Study-Buddy/internal"
	"github.com/PlayerLynx/AI-Study-Buddy/internal/storage"
)

type GoalRequest struct {
	UserID      int64  `json:"user_id" validate:"required,gt=0"`
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description"`
	Category    string `json:"category" validate:"max=50"`
	Priority    *int   `json:"priority" validate:"omitempty,gte=1"`
	TargetDate  string `json:"target_date" validate:"omitempty,datetime=2006-01-02"`
}

type GoalStatusRequest struct {
	GoalID int64  `json:"goal_id" validate:"required,gt=0"`
	Status string `json:"status" validate:"required,max=20"`
}

func CreateGoal(ctx context.Context, goals storage.GoalRepository, req *GoalRequest) (*internal.LearningGoal, error) {
	req.Title = strings.TrimSpace(req.Title)
	req.Description = strings.TrimSpace(req.Description)
	req.Category = strings.TrimSpace(req.Category)
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	target, err := parseDate(req.TargetDate)
	if err != nil {
		return nil, err
	}

	goal := &internal.LearningGoal{
		UserID:      req.UserID,
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Priority:    internal.DefaultGoalPriority,
		TargetDate:  target,
	}
	if req.Priority != nil {
		goal.Priority = *req.Priority
	}
	if _, err := goals.CreateGoal(ctx, goal); err != nil {
		return nil, err
	}
	return goal, nil
}

func UpdateGoalStatus(ctx context.Context, goals storage.GoalRepository, req *GoalStatusRequest) error {
	req.Status = strings.TrimSpace(req.Status)
	if err := validateStruct(req); err != nil {
		return err
	}
	return goals.UpdateGoalStatus(ctx, req.GoalID, req.Status)
}
