package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kendall-kelly/production-tracker-api/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ActivityPatch updates only the fields that are present
type ActivityPatch struct {
	Description    *string          `json:"description"`
	EstimatedHours *float64         `json:"estimated_hours"`
	ActualHours    *float64         `json:"actual_hours"`
	Notes          *string          `json:"notes"`
	Priority       *models.Priority `json:"priority"`
}

// StatusChange moves an activity to a new status, optionally logging hours
type StatusChange struct {
	Status      models.ActivityStatus `json:"status" binding:"required"`
	ActualHours *float64              `json:"actual_hours"`
}

// Assignment assigns an activity to an operator
type Assignment struct {
	OperatorID       uint       `json:"operator_id" binding:"required"`
	PlannedStartDate *time.Time `json:"planned_start_date"`
	PlannedEndDate   *time.Time `json:"planned_end_date"`
}

// ActivityFilter narrows List results; zero values are ignored
type ActivityFilter struct {
	OrderID    uint
	OperatorID uint
	Status     models.ActivityStatus
}

// OperatorSummary is the operator header of a workload report
type OperatorSummary struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

// Workload aggregates an operator's open activities
type Workload struct {
	TotalActivities      int     `json:"total_activities"`
	PendingActivities    int     `json:"pending_activities"`
	InProgressActivities int     `json:"in_progress_activities"`
	TotalEstimatedHours  float64 `json:"total_estimated_hours"`
}

// WorkloadReport is the forward-looking load of one operator
type WorkloadReport struct {
	Operator   OperatorSummary   `json:"operator"`
	Workload   Workload          `json:"workload"`
	Activities []models.Activity `json:"activities"`
}

// ActivityService is the activity lifecycle manager
type ActivityService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewActivityService creates an activity lifecycle manager backed by db
func NewActivityService(db *gorm.DB) *ActivityService {
	return &ActivityService{db: db, now: time.Now}
}

// List returns activities matching the filter with their order, product and assignee
func (s *ActivityService) List(ctx context.Context, filter ActivityFilter) ([]models.Activity, error) {
	query := s.db.WithContext(ctx).
		Preload("Order").
		Preload("Product").
		Preload("AssignedTo")
	if filter.OrderID != 0 {
		query = query.Where("order_id = ?", filter.OrderID)
	}
	if filter.OperatorID != 0 {
		query = query.Where("assigned_to_id = ?", filter.OperatorID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var activities []models.Activity
	if err := query.Order("id ASC").Find(&activities).Error; err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	return activities, nil
}

// Get returns an activity with its order, product and assignee
func (s *ActivityService) Get(ctx context.Context, id uint) (*models.Activity, error) {
	return findActivity(s.db.WithContext(ctx).
		Preload("Order").
		Preload("Product").
		Preload("AssignedTo"), id)
}

// Update edits the descriptive fields of an activity
func (s *ActivityService) Update(ctx context.Context, principal Principal, id uint, patch ActivityPatch) (*models.Activity, error) {
	db := s.db.WithContext(ctx)
	activity, err := findActivity(db, id)
	if err != nil {
		return nil, err
	}

	if patch.Description != nil {
		activity.Description = *patch.Description
	}
	if patch.EstimatedHours != nil {
		if *patch.EstimatedHours <= 0 {
			return nil, invalidInput("Estimated hours must be greater than zero")
		}
		activity.EstimatedHours = *patch.EstimatedHours
	}
	if patch.ActualHours != nil {
		if *patch.ActualHours < 0 {
			return nil, invalidInput("Actual hours cannot be negative")
		}
		activity.ActualHours = *patch.ActualHours
	}
	if patch.Notes != nil {
		activity.Notes = *patch.Notes
	}
	if patch.Priority != nil {
		if !patch.Priority.Valid() {
			return nil, invalidInput("Invalid priority %q", *patch.Priority)
		}
		activity.Priority = *patch.Priority
	}
	activity.UpdatedBy = principal.Subject

	if err := db.Omit(clause.Associations).Save(activity).Error; err != nil {
		return nil, fmt.Errorf("failed to update activity: %w", err)
	}
	return s.Get(ctx, id)
}

// UpdateStatus moves an activity to a new status and records the timestamps of
// the transition. When the activity completes and every sibling of its order is
// completed as well, the order itself becomes completed.
func (s *ActivityService) UpdateStatus(ctx context.Context, principal Principal, id uint, change StatusChange) (*models.Activity, error) {
	if change.Status == "" {
		return nil, invalidInput("Please provide a status")
	}
	if !change.Status.Valid() {
		return nil, invalidInput("Invalid activity status %q", change.Status)
	}
	if change.ActualHours != nil && *change.ActualHours < 0 {
		return nil, invalidInput("Actual hours cannot be negative")
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		activity, err := findActivity(tx, id)
		if err != nil {
			return err
		}

		previous := activity.Status
		activity.Status = change.Status
		activity.UpdatedBy = principal.Subject

		now := s.now()
		switch {
		case change.Status == models.ActivityInProgress && previous == models.ActivityPending:
			activity.ActualStartDate = &now
		case change.Status == models.ActivityCompleted:
			if previous != models.ActivityCompleted {
				activity.ActualEndDate = &now
			}
			if change.ActualHours != nil {
				activity.ActualHours = *change.ActualHours
			}
		}

		if err := tx.Omit(clause.Associations).Save(activity).Error; err != nil {
			return fmt.Errorf("failed to update activity status: %w", err)
		}

		if change.Status == models.ActivityCompleted {
			return rollUpOrder(tx, activity.OrderID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, id)
}

// Assign gives the activity to an operator and optionally reschedules it.
// Operator availability and overlapping schedules are not checked.
func (s *ActivityService) Assign(ctx context.Context, principal Principal, id uint, assignment Assignment) (*models.Activity, error) {
	if assignment.OperatorID == 0 {
		return nil, invalidInput("Please provide an operator ID")
	}

	db := s.db.WithContext(ctx)
	activity, err := findActivity(db, id)
	if err != nil {
		return nil, err
	}
	if _, err := findOperator(db, assignment.OperatorID); err != nil {
		return nil, err
	}

	activity.AssignedToID = &assignment.OperatorID
	if assignment.PlannedStartDate != nil {
		activity.PlannedStartDate = assignment.PlannedStartDate
	}
	if assignment.PlannedEndDate != nil {
		activity.PlannedEndDate = assignment.PlannedEndDate
	}
	activity.UpdatedBy = principal.Subject

	if err := db.Omit(clause.Associations).Save(activity).Error; err != nil {
		return nil, fmt.Errorf("failed to assign activity: %w", err)
	}
	return s.Get(ctx, id)
}

// Workload reports the operator's pending and in-progress activities and the
// sum of their estimated hours. Hours already spent are not part of the load.
func (s *ActivityService) Workload(ctx context.Context, operatorID uint) (*WorkloadReport, error) {
	db := s.db.WithContext(ctx)
	operator, err := findOperator(db, operatorID)
	if err != nil {
		return nil, err
	}

	var activities []models.Activity
	err = db.Preload("Order").
		Preload("Product").
		Where("assigned_to_id = ? AND status IN ?", operator.ID,
			[]models.ActivityStatus{models.ActivityPending, models.ActivityInProgress}).
		Order("id ASC").
		Find(&activities).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load operator activities: %w", err)
	}

	return &WorkloadReport{
		Operator: OperatorSummary{
			ID:   operator.ID,
			Name: operator.Name,
			Role: operator.Role,
		},
		Workload:   summarizeWorkload(activities),
		Activities: activities,
	}, nil
}

func summarizeWorkload(activities []models.Activity) Workload {
	var w Workload
	for _, activity := range activities {
		if !activity.Status.IsOpen() {
			continue
		}
		w.TotalActivities++
		w.TotalEstimatedHours += activity.EstimatedHours
		switch activity.Status {
		case models.ActivityPending:
			w.PendingActivities++
		case models.ActivityInProgress:
			w.InProgressActivities++
		}
	}
	return w
}

// rollUpOrder completes the order once none of its activities is left open
func rollUpOrder(tx *gorm.DB, orderID uint) error {
	var remaining int64
	err := tx.Model(&models.Activity{}).
		Where("order_id = ? AND status <> ?", orderID, models.ActivityCompleted).
		Count(&remaining).Error
	if err != nil {
		return fmt.Errorf("failed to check order activities: %w", err)
	}
	if remaining > 0 {
		return nil
	}

	err = tx.Model(&models.Order{}).
		Where("id = ?", orderID).
		Update("status", models.OrderCompleted).Error
	if err != nil {
		return fmt.Errorf("failed to complete order %d: %w", orderID, err)
	}
	return nil
}

func findActivity(db *gorm.DB, id uint) (*models.Activity, error) {
	var activity models.Activity
	if err := db.First(&activity, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("ACTIVITY_NOT_FOUND", "Activity with ID %d not found", id)
		}
		return nil, fmt.Errorf("failed to load activity %d: %w", id, err)
	}
	return &activity, nil
}
