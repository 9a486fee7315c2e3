package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kendall-kelly/production-tracker-api/models"
	"gorm.io/gorm"
)

// OperatorInput is the payload for registering an operator
type OperatorInput struct {
	Code          string   `json:"code" yaml:"code" binding:"required"`
	Name          string   `json:"name" yaml:"name" binding:"required"`
	Role          string   `json:"role" yaml:"role" binding:"required"`
	Skills        []string `json:"skills" yaml:"skills"`
	ContactNumber string   `json:"contact_number" yaml:"contact_number"`
	Email         string   `json:"email" yaml:"email" binding:"omitempty,email"`
	Notes         string   `json:"notes" yaml:"notes"`
}

// OperatorPatch updates only the fields that are present
type OperatorPatch struct {
	Code          *string   `json:"code"`
	Name          *string   `json:"name"`
	Role          *string   `json:"role"`
	Skills        *[]string `json:"skills"`
	ContactNumber *string   `json:"contact_number"`
	Email         *string   `json:"email" binding:"omitempty,email"`
	IsActive      *bool     `json:"is_active"`
	Notes         *string   `json:"notes"`
}

// OperatorService is the workforce store
type OperatorService struct {
	db *gorm.DB
}

// NewOperatorService creates a workforce store backed by db
func NewOperatorService(db *gorm.DB) *OperatorService {
	return &OperatorService{db: db}
}

// List returns all operators ordered by code
func (s *OperatorService) List(ctx context.Context) ([]models.Operator, error) {
	var operators []models.Operator
	if err := s.db.WithContext(ctx).Order("code ASC").Find(&operators).Error; err != nil {
		return nil, fmt.Errorf("failed to list operators: %w", err)
	}
	return operators, nil
}

// Get returns an operator by ID
func (s *OperatorService) Get(ctx context.Context, id uint) (*models.Operator, error) {
	return findOperator(s.db.WithContext(ctx), id)
}

// Create registers a new, active operator
func (s *OperatorService) Create(ctx context.Context, in OperatorInput) (*models.Operator, error) {
	if strings.TrimSpace(in.Code) == "" || strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Role) == "" {
		return nil, invalidInput("Operator code, name and role are required")
	}

	db := s.db.WithContext(ctx)
	if err := ensureOperatorCodeFree(db, in.Code, 0); err != nil {
		return nil, err
	}

	operator := models.Operator{
		Code:          in.Code,
		Name:          in.Name,
		Role:          in.Role,
		Skills:        in.Skills,
		ContactNumber: in.ContactNumber,
		Email:         in.Email,
		Notes:         in.Notes,
		IsActive:      true,
	}
	if operator.Skills == nil {
		operator.Skills = []string{}
	}

	if err := db.Create(&operator).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, operatorExists(in.Code)
		}
		return nil, fmt.Errorf("failed to create operator: %w", err)
	}
	return &operator, nil
}

// Update applies a patch to an operator
func (s *OperatorService) Update(ctx context.Context, id uint, patch OperatorPatch) (*models.Operator, error) {
	db := s.db.WithContext(ctx)
	operator, err := findOperator(db, id)
	if err != nil {
		return nil, err
	}

	required := map[string]*string{"code": patch.Code, "name": patch.Name, "role": patch.Role}
	for field, value := range required {
		if value != nil && strings.TrimSpace(*value) == "" {
			return nil, invalidInput("Operator %s cannot be empty", field)
		}
	}

	if patch.Code != nil && *patch.Code != operator.Code {
		if err := ensureOperatorCodeFree(db, *patch.Code, operator.ID); err != nil {
			return nil, err
		}
		operator.Code = *patch.Code
	}
	if patch.Name != nil {
		operator.Name = *patch.Name
	}
	if patch.Role != nil {
		operator.Role = *patch.Role
	}
	if patch.Skills != nil {
		operator.Skills = *patch.Skills
	}
	if patch.ContactNumber != nil {
		operator.ContactNumber = *patch.ContactNumber
	}
	if patch.Email != nil {
		operator.Email = *patch.Email
	}
	if patch.IsActive != nil {
		operator.IsActive = *patch.IsActive
	}
	if patch.Notes != nil {
		operator.Notes = *patch.Notes
	}

	if err := db.Save(operator).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, operatorExists(operator.Code)
		}
		return nil, fmt.Errorf("failed to update operator: %w", err)
	}
	return operator, nil
}

// Delete removes an operator that has no assigned activities
func (s *OperatorService) Delete(ctx context.Context, id uint) error {
	db := s.db.WithContext(ctx)
	operator, err := findOperator(db, id)
	if err != nil {
		return err
	}

	var assigned int64
	if err := db.Model(&models.Activity{}).Where("assigned_to_id = ?", operator.ID).Count(&assigned).Error; err != nil {
		return fmt.Errorf("failed to check operator assignments: %w", err)
	}
	if assigned > 0 {
		return invalidState("OPERATOR_HAS_ACTIVITIES", "Cannot delete operator with assigned activities")
	}

	if err := db.Delete(operator).Error; err != nil {
		return fmt.Errorf("failed to delete operator: %w", err)
	}
	return nil
}

func findOperator(db *gorm.DB, id uint) (*models.Operator, error) {
	var operator models.Operator
	if err := db.First(&operator, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("OPERATOR_NOT_FOUND", "Operator with ID %d not found", id)
		}
		return nil, fmt.Errorf("failed to load operator %d: %w", id, err)
	}
	return &operator, nil
}

func ensureOperatorCodeFree(db *gorm.DB, code string, exceptID uint) error {
	var count int64
	if err := db.Model(&models.Operator{}).Where("code = ? AND id <> ?", code, exceptID).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check operator code: %w", err)
	}
	if count > 0 {
		return operatorExists(code)
	}
	return nil
}

func operatorExists(code string) *ServiceError {
	return conflict("OPERATOR_EXISTS", "Operator with code %s already exists", code)
}
