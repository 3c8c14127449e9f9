package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "moneta/internal/errors"
	"moneta/internal/models"
	"moneta/internal/pagination"
)

// goalService handles savings-goal business logic. Every write that changes
// CurrentAmount or TargetAmount persists models.GoalReached so the derived
// flag never goes stale.
type goalService struct {
	db *gorm.DB
}

// NewGoalService creates a new GoalServicer.
func NewGoalService(db *gorm.DB) GoalServicer {
	return &goalService{db: db}
}

// CreateGoal persists a new goal. Creation has no side effects on any other
// entity.
func (s *goalService) CreateGoal(userID uint, title string, targetAmount int64, deadline *time.Time) (*models.Goal, error) {
	if title == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "title is required")
	}
	if targetAmount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrNonPositiveAmount, "Target amount must be greater than zero")
	}

	goal := &models.Goal{
		UserID:       userID,
		Title:        title,
		TargetAmount: targetAmount,
		Deadline:     deadline,
		Reached:      models.GoalReached(0, targetAmount),
	}

	if err := s.db.Create(goal).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return goal, nil
}

// GetUserGoals returns the user's goals, newest first.
func (s *goalService) GetUserGoals(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Goal], error) {
	page.Defaults()

	base := s.db.Model(&models.Goal{}).Where("user_id = ?", userID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var goals []models.Goal
	if err := base.Order("created_at DESC").Scopes(pagination.Paginate(page)).Find(&goals).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(goals, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetGoalByID returns a goal by ID if it belongs to the user.
func (s *goalService) GetGoalByID(userID, goalID uint) (*models.Goal, error) {
	var goal models.Goal
	if err := s.db.Where("id = ? AND user_id = ?", goalID, userID).First(&goal).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrGoalNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &goal, nil
}

// AddFunds applies a positive funding delta to a goal. There is no upper
// clamp at the target: overshoot is permitted and retained.
func (s *goalService) AddFunds(userID, goalID uint, delta int64) (*models.Goal, error) {
	if delta <= 0 {
		return nil, apperrors.ErrNonPositiveAmount
	}

	goal, err := s.GetGoalByID(userID, goalID)
	if err != nil {
		return nil, err
	}

	goal.CurrentAmount += delta
	goal.Reached = models.GoalReached(goal.CurrentAmount, goal.TargetAmount)

	if err := s.db.Model(goal).Updates(map[string]interface{}{
		"current_amount": goal.CurrentAmount,
		"reached":        goal.Reached,
	}).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return goal, nil
}

// UpdateGoal applies field changes to a goal, recomputing the reached flag
// when the target moves.
func (s *goalService) UpdateGoal(userID, goalID uint, update GoalUpdate) (*models.Goal, error) {
	goal, err := s.GetGoalByID(userID, goalID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if update.Title != nil {
		if *update.Title == "" {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "title cannot be empty")
		}
		updates["title"] = *update.Title
	}
	if update.Deadline != nil {
		updates["deadline"] = *update.Deadline
	}
	if update.TargetAmount != nil {
		if *update.TargetAmount <= 0 {
			return nil, apperrors.WithMessage(apperrors.ErrNonPositiveAmount, "Target amount must be greater than zero")
		}
		updates["target_amount"] = *update.TargetAmount
		updates["reached"] = models.GoalReached(goal.CurrentAmount, *update.TargetAmount)
	}

	if len(updates) > 0 {
		if err := s.db.Model(goal).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return goal, nil
}

// DeleteGoal removes a goal. Deletion has no side effects on any other
// entity.
func (s *goalService) DeleteGoal(userID, goalID uint) error {
	goal, err := s.GetGoalByID(userID, goalID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(goal).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
